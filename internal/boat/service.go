package boat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"crewdeck/internal/api"
	"crewdeck/internal/errs"
	"crewdeck/internal/logger"
	"crewdeck/internal/models"
	"crewdeck/internal/validation"
)

// API is the slice of the authenticated client this service needs.
type API interface {
	IsAuthenticated() bool
	Get(ctx context.Context, path string, opts ...api.RequestOption) (*http.Response, error)
	Post(ctx context.Context, path string, body any, opts ...api.RequestOption) (*http.Response, error)
	Put(ctx context.Context, path string, body any, opts ...api.RequestOption) (*http.Response, error)
	Delete(ctx context.Context, path string, opts ...api.RequestOption) (*http.Response, error)
}

// Publisher announces successful mutations to the change feed.
type Publisher interface {
	PublishChange(entity, action, key string, payload any) error
}

// Result is a server record plus its validation verdict. Invalid server
// data is still returned so the UI can render it with a warning; it is
// never silently dropped.
type Result struct {
	Boat   models.Boat
	Raw    map[string]any
	Valid  bool
	Issues []validation.Issue
}

// Page is one page of the boats list envelope.
type Page struct {
	Boats      []Result
	Pagination *models.Pagination
}

type Service struct {
	api    API
	log    *logger.Logger
	notify Publisher
}

func NewService(apiClient API, log *logger.Logger, notify Publisher) *Service {
	return &Service{api: apiClient, log: log, notify: notify}
}

// List fetches a page of boats. A malformed envelope degrades to
// best-effort extraction instead of failing the read.
func (s *Service) List(ctx context.Context, page, pageSize int) (*Page, error) {
	path := "/boats?page=" + strconv.Itoa(page) + "&pageSize=" + strconv.Itoa(pageSize)
	resp, err := s.api.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, api.ResponseError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading boats response: %w", err)
	}

	items, pagination, err := api.ParseEnvelope(data, "boats")
	if err != nil {
		return nil, err
	}

	result := &Page{Pagination: pagination}
	for _, item := range items {
		result.Boats = append(result.Boats, s.checkRecord(item))
	}
	return result, nil
}

// GetByID returns (nil, nil) on 404 so callers can tell "absent" from
// "failed".
func (s *Service) GetByID(ctx context.Context, id int) (*Result, error) {
	resp, err := s.api.Get(ctx, fmt.Sprintf("/boats/%d", id))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		if s.log != nil {
			s.log.LogResource("boat", "get", fmt.Sprintf("boat %d not found", id))
		}
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, api.ResponseError(resp)
	}

	return s.checkBody(resp.Body)
}

// ListByProfile returns the boats owned by one profile. The backend
// answers either a bare array or a {boats: [...]} wrapper.
func (s *Service) ListByProfile(ctx context.Context, profileID int) ([]Result, error) {
	resp, err := s.api.Get(ctx, fmt.Sprintf("/boats/by-profile/%d", profileID))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, api.ResponseError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading profile boats response: %w", err)
	}

	items, _, err := api.ParseEnvelope(data, "boats")
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(items))
	for _, item := range items {
		results = append(results, s.checkRecord(item))
	}
	return results, nil
}

// Create validates the payload in create mode and blocks submission on any
// violation before the request goes out.
func (s *Service) Create(ctx context.Context, in models.BoatInput) (*Result, error) {
	if !s.api.IsAuthenticated() {
		return nil, errs.ErrUnauthenticated
	}

	if in.Image == "" {
		in.Image = models.DefaultBoatImage
	}

	rec, err := validation.RecordOf(in)
	if err != nil {
		return nil, fmt.Errorf("encoding boat payload: %w", err)
	}
	if issues := validation.BoatSchema.Validate(rec, validation.Create); len(issues) > 0 {
		return nil, &errs.ValidationError{Entity: "boat", Issues: issues}
	}

	resp, err := s.api.Post(ctx, "/boats", in)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, api.ResponseError(resp)
	}

	result, err := s.checkBody(resp.Body)
	if err != nil {
		return nil, err
	}

	s.publish("created", result.Boat.ID, result.Boat)
	return result, nil
}

// Update sends a partial patch; only supplied fields are validated.
func (s *Service) Update(ctx context.Context, id int, patch map[string]any) (*Result, error) {
	if !s.api.IsAuthenticated() {
		return nil, errs.ErrUnauthenticated
	}

	rec := make(map[string]any, len(patch)+1)
	for k, v := range patch {
		rec[k] = v
	}
	rec["id"] = id
	if issues := validation.BoatSchema.Validate(rec, validation.Update); len(issues) > 0 {
		return nil, &errs.ValidationError{Entity: "boat", Issues: issues}
	}

	resp, err := s.api.Put(ctx, fmt.Sprintf("/boats/%d", id), patch)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, api.ResponseError(resp)
	}

	result, err := s.checkBody(resp.Body)
	if err != nil {
		return nil, err
	}

	s.publish("updated", id, result.Boat)
	return result, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	if !s.api.IsAuthenticated() {
		return errs.ErrUnauthenticated
	}

	resp, err := s.api.Delete(ctx, fmt.Sprintf("/boats/%d", id))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return api.ResponseError(resp)
	}

	s.publish("deleted", id, nil)
	return nil
}

func (s *Service) checkBody(body io.Reader) (*Result, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("reading boat response: %w", err)
	}
	var rec map[string]any
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding boat response: %w", err)
	}
	result := s.checkRecord(rec)
	return &result, nil
}

func (s *Service) checkRecord(rec map[string]any) Result {
	issues := validation.BoatSchema.Validate(rec, validation.Full)
	result := Result{Raw: rec, Valid: len(issues) == 0, Issues: issues}

	data, err := json.Marshal(rec)
	if err == nil {
		// Best effort: a record the schema rejected may still not fit the
		// struct; the raw map is the fallback for rendering.
		_ = json.Unmarshal(data, &result.Boat)
	}

	if !result.Valid && s.log != nil {
		s.log.LogValidation("boat", len(result.Issues))
	}
	return result
}

func (s *Service) publish(action string, id int, payload any) {
	if s.notify == nil {
		return
	}
	if err := s.notify.PublishChange("boat", action, strconv.Itoa(id), payload); err != nil && s.log != nil {
		s.log.Warn("NOTIFY", fmt.Sprintf("boat %s event not published: %v", action, err))
	}
}
