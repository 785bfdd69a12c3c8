package errs_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"crewdeck/internal/errs"
	"crewdeck/internal/validation"
)

func TestHTTPErrorMessage(t *testing.T) {
	err := &errs.HTTPError{Status: 503, Body: "maintenance"}
	assert.EqualError(t, err, "HTTP error 503: maintenance")
}

func TestIsServerErrorSeesThroughWrapping(t *testing.T) {
	base := &errs.HTTPError{Status: 500, Body: "boom"}
	wrapped := fmt.Errorf("listing boats: %w", base)

	assert.True(t, errs.IsServerError(wrapped))
	assert.False(t, errs.IsServerError(&errs.HTTPError{Status: 404, Body: "gone"}))
	assert.False(t, errs.IsServerError(fmt.Errorf("plain failure")))
}

func TestIsUnauthenticatedSeesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("%w: token endpoint unreachable", errs.ErrUnauthenticated)

	assert.True(t, errs.IsUnauthenticated(wrapped))
	assert.False(t, errs.IsUnauthenticated(fmt.Errorf("other")))
}

func TestValidationErrorMessageCountsIssues(t *testing.T) {
	err := &errs.ValidationError{
		Entity: "event",
		Issues: []validation.Issue{
			{Path: "name", Message: "Event name is required"},
			{Path: "boatId", Message: "Boat is required"},
		},
	}
	assert.EqualError(t, err, "event payload failed validation (2 issues)")
}
