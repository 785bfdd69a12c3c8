package api_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewdeck/internal/api"
)

func TestParseEnvelopeStrictShape(t *testing.T) {
	data := []byte(`{
		"boats": [{"id": 1, "name": "Wind Dancer"}, {"id": 2, "name": "Dawn Treader"}],
		"pagination": {"page": 1, "pageSize": 50, "totalCount": 2, "totalPages": 1}
	}`)

	items, pagination, err := api.ParseEnvelope(data, "boats")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Wind Dancer", items[0]["name"])

	require.NotNil(t, pagination)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 50, pagination.PageSize)
	assert.Equal(t, 2, pagination.TotalCount)
	assert.Equal(t, 1, pagination.TotalPages)
}

func TestParseEnvelopeBareArrayFallback(t *testing.T) {
	data := []byte(`[{"id": 1}, {"id": 2}, {"id": 3}]`)

	items, pagination, err := api.ParseEnvelope(data, "boats")
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Nil(t, pagination)
}

func TestParseEnvelopeBrokenPaginationDoesNotFailRead(t *testing.T) {
	data := []byte(`{
		"events": [{"id": 9}],
		"pagination": {"page": "first", "pageSize": 50}
	}`)

	items, pagination, err := api.ParseEnvelope(data, "events")
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Nil(t, pagination)
}

func TestParseEnvelopeMissingArrayFieldErrors(t *testing.T) {
	data := []byte(`{"something": "else"}`)

	_, _, err := api.ParseEnvelope(data, "boats")
	assert.EqualError(t, err, "invalid response structure")
}
