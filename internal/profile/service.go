package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"crewdeck/internal/api"
	"crewdeck/internal/errs"
	"crewdeck/internal/logger"
	"crewdeck/internal/models"
	"crewdeck/internal/validation"
)

type API interface {
	IsAuthenticated() bool
	Get(ctx context.Context, path string, opts ...api.RequestOption) (*http.Response, error)
	Post(ctx context.Context, path string, body any, opts ...api.RequestOption) (*http.Response, error)
	Put(ctx context.Context, path string, body any, opts ...api.RequestOption) (*http.Response, error)
}

// Result is a profile record plus its validation verdict. Server data that
// drifts from the schema is still returned, flagged.
type Result struct {
	Profile models.Profile
	Raw     map[string]any
	Valid   bool
	Issues  []validation.Issue
}

type Service struct {
	api API
	log *logger.Logger
}

func NewService(apiClient API, log *logger.Logger) *Service {
	return &Service{api: apiClient, log: log}
}

// GetByEmail looks the caller's profile up. A 404 is the expected
// "new user" answer and comes back as (nil, nil); anything else non-2xx is
// an HTTP error carrying status and body.
func (s *Service) GetByEmail(ctx context.Context, email string) (*Result, error) {
	if !s.api.IsAuthenticated() {
		return nil, errs.ErrUnauthenticated
	}

	resp, err := s.api.Get(ctx, "/Profile/by-email/"+url.PathEscape(email))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		if s.log != nil {
			s.log.LogResource("profile", "get", fmt.Sprintf("no profile for %s", email))
		}
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, api.ResponseError(resp)
	}

	return s.checkBody(resp.Body)
}

func (s *Service) Create(ctx context.Context, in models.ProfileInput) (*Result, error) {
	if !s.api.IsAuthenticated() {
		return nil, errs.ErrUnauthenticated
	}

	rec, err := validation.RecordOf(in)
	if err != nil {
		return nil, fmt.Errorf("encoding profile payload: %w", err)
	}
	if issues := validation.ProfileSchema.Validate(rec, validation.Create); len(issues) > 0 {
		return nil, &errs.ValidationError{Entity: "profile", Issues: issues}
	}

	resp, err := s.api.Post(ctx, "/Profile", in)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, api.ResponseError(resp)
	}

	return s.checkBody(resp.Body)
}

func (s *Service) Update(ctx context.Context, id int, patch map[string]any) (*Result, error) {
	if !s.api.IsAuthenticated() {
		return nil, errs.ErrUnauthenticated
	}

	rec := make(map[string]any, len(patch)+1)
	for k, v := range patch {
		rec[k] = v
	}
	rec["id"] = id
	if issues := validation.ProfileSchema.Validate(rec, validation.Update); len(issues) > 0 {
		return nil, &errs.ValidationError{Entity: "profile", Issues: issues}
	}

	resp, err := s.api.Put(ctx, fmt.Sprintf("/Profile/%d", id), patch)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, api.ResponseError(resp)
	}

	return s.checkBody(resp.Body)
}

func (s *Service) checkBody(body io.Reader) (*Result, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("reading profile response: %w", err)
	}
	var rec map[string]any
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding profile response: %w", err)
	}

	issues := validation.ProfileSchema.Validate(rec, validation.Full)
	result := &Result{Raw: rec, Valid: len(issues) == 0, Issues: issues}

	if raw, err := json.Marshal(rec); err == nil {
		_ = json.Unmarshal(raw, &result.Profile)
	}

	if !result.Valid && s.log != nil {
		s.log.LogValidation("profile", len(result.Issues))
	}
	return result, nil
}
