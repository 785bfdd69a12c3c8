package event

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

type API interface {
	IsAuthenticated() bool
	Get(ctx context.Context, path string, opts ...api.RequestOption) (*http.Response, error)
	Post(ctx context.Context, path string, body any, opts ...api.RequestOption) (*http.Response, error)
	Put(ctx context.Context, path string, body any, opts ...api.RequestOption) (*http.Response, error)
	Delete(ctx context.Context, path string, opts ...api.RequestOption) (*http.Response, error)
}

type Publisher interface {
	PublishChange(entity, action, key string, payload any) error
}

// Result carries a server event with its validation verdict; invalid
// records are flagged, never discarded.
type Result struct {
	Event  models.Event
	Raw    map[string]any
	Valid  bool
	Issues []validation.Issue
}

type Page struct {
	Events     []Result
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

// List fetches the events envelope. Individual events that fail the schema
// stay in the page with Valid=false.
func (s *Service) List(ctx context.Context) (*Page, error) {
	resp, err := s.api.Get(ctx, "/events")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, api.ResponseError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading events response: %w", err)
	}

	items, pagination, err := api.ParseEnvelope(data, "events")
	if err != nil {
		return nil, err
	}

	page := &Page{Pagination: pagination}
	for _, item := range items {
		page.Events = append(page.Events, s.checkRecord(item))
	}
	return page, nil
}

func (s *Service) GetByID(ctx context.Context, id int) (*Result, error) {
	resp, err := s.api.Get(ctx, fmt.Sprintf("/events/%d", id))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		if s.log != nil {
			s.log.LogResource("event", "get", fmt.Sprintf("event %d not found", id))
		}
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, api.ResponseError(resp)
	}

	return s.checkBody(resp.Body)
}

// ListByProfile returns the events reachable through a profile's boats.
func (s *Service) ListByProfile(ctx context.Context, profileID int) ([]Result, error) {
	resp, err := s.api.Get(ctx, fmt.Sprintf("/events/by-profile/%d", profileID))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, api.ResponseError(resp)
	}

	return s.readList(resp.Body)
}

// ListUpcoming asks for upcoming events across the given boats. The id
// list rides in the body since it has no natural query-string shape.
func (s *Service) ListUpcoming(ctx context.Context, boatIDs []int) ([]Result, error) {
	if !s.api.IsAuthenticated() {
		return nil, errs.ErrUnauthenticated
	}

	body := map[string]any{"boatIds": boatIDs}
	resp, err := s.api.Post(ctx, "/events/upcoming", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, api.ResponseError(resp)
	}

	return s.readList(resp.Body)
}

// Create blocks submission when the payload fails create-mode validation,
// crew-bound and date-order invariants included.
func (s *Service) Create(ctx context.Context, in models.EventInput) (*Result, error) {
	if !s.api.IsAuthenticated() {
		return nil, errs.ErrUnauthenticated
	}

	rec, err := validation.RecordOf(in)
	if err != nil {
		return nil, fmt.Errorf("encoding event payload: %w", err)
	}
	if issues := validation.EventSchema.Validate(rec, validation.Create); len(issues) > 0 {
		return nil, &errs.ValidationError{Entity: "event", Issues: issues}
	}

	resp, err := s.api.Post(ctx, "/events", in)
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

	s.publish("created", result.Event.ID, result.Event)
	return result, nil
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
	if issues := validation.EventSchema.Validate(rec, validation.Update); len(issues) > 0 {
		return nil, &errs.ValidationError{Entity: "event", Issues: issues}
	}

	resp, err := s.api.Put(ctx, fmt.Sprintf("/events/%d", id), patch)
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

	s.publish("updated", id, result.Event)
	return result, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	if !s.api.IsAuthenticated() {
		return errs.ErrUnauthenticated
	}

	resp, err := s.api.Delete(ctx, fmt.Sprintf("/events/%d", id))
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

func (s *Service) readList(body io.Reader) ([]Result, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("reading events response: %w", err)
	}

	items, _, err := api.ParseEnvelope(data, "events")
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(items))
	for _, item := range items {
		results = append(results, s.checkRecord(item))
	}
	return results, nil
}

func (s *Service) checkBody(body io.Reader) (*Result, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("reading event response: %w", err)
	}
	var rec map[string]any
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding event response: %w", err)
	}
	result := s.checkRecord(rec)
	return &result, nil
}

func (s *Service) checkRecord(rec map[string]any) Result {
	issues := validation.EventSchema.Validate(rec, validation.Full)
	result := Result{Raw: rec, Valid: len(issues) == 0, Issues: issues}

	if data, err := json.Marshal(rec); err == nil {
		_ = json.Unmarshal(data, &result.Event)
	}

	if !result.Valid && s.log != nil {
		s.log.LogValidation("event", len(result.Issues))
	}
	return result
}

func (s *Service) publish(action string, id int, payload any) {
	if s.notify == nil {
		return
	}
	if err := s.notify.PublishChange("event", action, strconv.Itoa(id), payload); err != nil && s.log != nil {
		s.log.Warn("NOTIFY", fmt.Sprintf("event %s event not published: %v", action, err))
	}
}
