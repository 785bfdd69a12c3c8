package errs

import (
	"errors"
	"fmt"
	"net/http"

	"crewdeck/internal/validation"
)

// ErrUnauthenticated means the operation needs a session that is absent.
// It is always raised before any network call is made.
var ErrUnauthenticated = errors.New("user is not authenticated")

// HTTPError is any non-2xx backend reply other than a by-id 404. The body
// text is carried verbatim so the UI can show what the server said.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error %d: %s", e.Status, e.Body)
}

// ValidationError blocks an outbound create/update whose payload fails the
// schema. Inbound server data is never rejected this way; it is annotated
// instead.
type ValidationError struct {
	Entity string
	Issues []validation.Issue
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s payload failed validation (%d issues)", e.Entity, len(e.Issues))
}

// IsServerError reports whether err is a 5xx backend failure. The profile
// gate uses this to suppress its redirect and avoid a loop against a
// transiently broken backend.
func IsServerError(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.Status >= http.StatusInternalServerError
}

// IsUnauthenticated reports whether err came from a missing session.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthenticated)
}
