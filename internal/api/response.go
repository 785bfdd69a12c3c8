package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"crewdeck/internal/errs"
	"crewdeck/internal/models"
)

// ResponseError drains a non-2xx response into the HTTP error type,
// echoing the server body into the message.
func ResponseError(resp *http.Response) *errs.HTTPError {
	body, _ := io.ReadAll(resp.Body)
	return &errs.HTTPError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}

// ParseEnvelope pulls the item collection and pagination metadata out of a
// list response. Strictly it expects {<arrayField>: [...], pagination: {...}};
// when the envelope does not hold that shape it falls back to best-effort
// extraction (a bare top-level array) rather than failing the read.
func ParseEnvelope(data []byte, arrayField string) ([]map[string]any, *models.Pagination, error) {
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, nil, err
	}

	switch v := payload.(type) {
	case []any:
		return itemMaps(v), nil, nil
	case map[string]any:
		arr, ok := v[arrayField].([]any)
		if !ok {
			return nil, nil, errors.New("invalid response structure")
		}
		return itemMaps(arr), paginationOf(v["pagination"]), nil
	default:
		return nil, nil, errors.New("invalid response structure")
	}
}

func itemMaps(arr []any) []map[string]any {
	items := make([]map[string]any, 0, len(arr))
	for _, el := range arr {
		if m, ok := el.(map[string]any); ok {
			items = append(items, m)
		}
	}
	return items
}

// paginationOf decodes the pagination block when it is well formed and
// returns nil otherwise; a broken block never fails the list call.
func paginationOf(raw any) *models.Pagination {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	var p models.Pagination
	if err := json.Unmarshal(data, &p); err != nil {
		return nil
	}
	if p.Page < 1 || p.PageSize < 1 || p.TotalCount < 0 || p.TotalPages < 0 {
		return nil
	}
	return &p
}
