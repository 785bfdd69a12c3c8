package event_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewdeck/internal/api"
	"crewdeck/internal/errs"
	"crewdeck/internal/event"
	"crewdeck/internal/models"
)

type fakeTokens struct{ authenticated bool }

func (f fakeTokens) IsAuthenticated() bool                     { return f.authenticated }
func (f fakeTokens) Token(ctx context.Context) (string, error) { return "test-token", nil }

func serviceFor(t *testing.T, handler http.Handler, authenticated bool) *event.Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := api.NewClient(server.URL, fakeTokens{authenticated: authenticated}, server.Client(), nil)
	return event.NewService(client, nil, nil)
}

const validEventJSON = `{
	"id": 11,
	"boatId": 3,
	"name": "Round the island",
	"startDate": "2024-07-01T09:00:00Z",
	"endDate": "2024-07-01T17:00:00Z",
	"location": "Harbor West",
	"description": "Day trip",
	"minCrew": 2,
	"desiredCrew": 4,
	"maxCrew": 6,
	"createdAt": "2024-05-01T10:00:00Z",
	"updatedAt": "2024-05-02T10:00:00Z",
	"isDeleted": false,
	"createdBy": "seed",
	"updatedBy": "seed",
	"deletedBy": null,
	"deletedAt": null
}`

func intp(v int) *int { return &v }

func validInput() models.EventInput {
	start := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)
	return models.EventInput{
		BoatID:      3,
		Name:        "Round the island",
		StartDate:   start,
		EndDate:     &end,
		Location:    "Harbor West",
		Description: "Day trip",
		MinCrew:     intp(2),
		DesiredCrew: intp(4),
		MaxCrew:     intp(6),
	}
}

func TestCreateRejectsEndDateBeforeStartDate(t *testing.T) {
	hit := false
	router := chi.NewRouter()
	router.Post("/events", func(w http.ResponseWriter, r *http.Request) {
		hit = true
	})

	svc := serviceFor(t, router, true)

	in := validInput()
	end := in.StartDate.Add(-time.Hour)
	in.EndDate = &end

	_, err := svc.Create(context.Background(), in)
	require.Error(t, err)

	var vErr *errs.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Issues, 1)
	assert.Equal(t, "endDate", vErr.Issues[0].Path)
	assert.Equal(t, "End date must be after start date", vErr.Issues[0].Message)
	assert.False(t, hit)
}

func TestCreateRejectsDesiredCrewOutsideBounds(t *testing.T) {
	svc := serviceFor(t, chi.NewRouter(), true)

	in := validInput()
	in.DesiredCrew = intp(10)

	_, err := svc.Create(context.Background(), in)
	var vErr *errs.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Issues, 1)
	assert.Equal(t, "desiredCrew", vErr.Issues[0].Path)
	assert.Equal(t, "Desired crew must be between min and max crew", vErr.Issues[0].Message)
}

func TestCreateSubmitsValidEvent(t *testing.T) {
	router := chi.NewRouter()
	router.Post("/events", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(validEventJSON))
	})

	svc := serviceFor(t, router, true)

	result, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Valid)
	assert.Equal(t, 11, result.Event.ID)
	require.NotNil(t, result.Event.MaxCrew)
	assert.Equal(t, 6, *result.Event.MaxCrew)
}

func TestCreateWithoutCrewBoundsIsAccepted(t *testing.T) {
	router := chi.NewRouter()
	router.Post("/events", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(validEventJSON))
	})

	svc := serviceFor(t, router, true)

	in := validInput()
	in.MinCrew = nil
	in.DesiredCrew = nil
	in.MaxCrew = nil

	_, err := svc.Create(context.Background(), in)
	assert.NoError(t, err)
}

func TestListKeepsInvalidEventsFlagged(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/events", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"events": [` + validEventJSON + `, {"id": 12, "boatId": 3, "name": "Ghost entry"}],
			"pagination": {"page": 1, "pageSize": 10, "totalCount": 2, "totalPages": 1}
		}`))
	})

	svc := serviceFor(t, router, true)

	page, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, page.Events, 2)
	assert.True(t, page.Events[0].Valid)
	assert.False(t, page.Events[1].Valid)
	assert.Equal(t, 12, page.Events[1].Event.ID)
}

func TestListUpcomingSendsBoatIDsInBody(t *testing.T) {
	var gotBody []byte
	router := chi.NewRouter()
	router.Post("/events/upcoming", func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[` + validEventJSON + `]`))
	})

	svc := serviceFor(t, router, true)

	results, err := svc.ListUpcoming(context.Background(), []int{3, 5})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.JSONEq(t, `{"boatIds":[3,5]}`, string(gotBody))
}

func TestGetByIDNotFoundIsNilNil(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such event", http.StatusNotFound)
	})

	svc := serviceFor(t, router, true)

	result, err := svc.GetByID(context.Background(), 99)
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestUpdatePatchWithBrokenDatesIsBlocked(t *testing.T) {
	hit := false
	router := chi.NewRouter()
	router.Put("/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		hit = true
	})

	svc := serviceFor(t, router, true)

	_, err := svc.Update(context.Background(), 11, map[string]any{
		"startDate": "2024-07-01T09:00:00Z",
		"endDate":   "2024-06-30T09:00:00Z",
	})
	var vErr *errs.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "endDate", vErr.Issues[0].Path)
	assert.False(t, hit)
}
