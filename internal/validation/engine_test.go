package validation_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewdeck/internal/validation"
)

func validBoatRecord() map[string]any {
	return map[string]any{
		"id":          int(12),
		"name":        "Wind Dancer",
		"description": "A sturdy 36-footer",
		"image":       "/images/defaultboat.png",
		"profileId":   7,
		"createdAt":   "2024-06-01T10:00:00Z",
		"updatedAt":   "2024-06-01T10:00:00Z",
		"isDeleted":   false,
		"deletedBy":   nil,
		"deletedAt":   nil,
		"createdBy":   "seed",
		"updatedBy":   "seed",
	}
}

func TestFullModeAcceptsCompleteRecord(t *testing.T) {
	issues := validation.BoatSchema.Validate(validBoatRecord(), validation.Full)
	assert.Empty(t, issues)
}

func TestCollectsAllViolationsInDeclarationOrder(t *testing.T) {
	rec := validBoatRecord()
	rec["name"] = ""
	rec["profileId"] = 0

	issues := validation.BoatSchema.Validate(rec, validation.Full)
	require.Len(t, issues, 2)
	assert.Equal(t, "name", issues[0].Path)
	assert.Equal(t, "Boat name is required", issues[0].Message)
	assert.Equal(t, "profileId", issues[1].Path)
	assert.Equal(t, "Profile ID is required", issues[1].Message)
}

func TestAtMostOneIssuePerField(t *testing.T) {
	rec := validBoatRecord()
	// Both too long and would fail nothing else; only one message expected.
	long := make([]byte, 201)
	for i := range long {
		long[i] = 'x'
	}
	rec["name"] = string(long)

	issues := validation.BoatSchema.Validate(rec, validation.Full)
	require.Len(t, issues, 1)
	assert.Equal(t, "name", issues[0].Path)
	assert.Equal(t, "Boat name must be 200 characters or less", issues[0].Message)
}

func TestLengthLimitsCountCharactersNotBytes(t *testing.T) {
	rec := validBoatRecord()
	// 200 characters but 400 bytes: exactly at the limit, must pass.
	rec["name"] = strings.Repeat("Å", 200)

	issues := validation.BoatSchema.Validate(rec, validation.Full)
	assert.Empty(t, issues)

	rec["name"] = strings.Repeat("Å", 201)
	issues = validation.BoatSchema.Validate(rec, validation.Full)
	require.Len(t, issues, 1)
	assert.Equal(t, "name", issues[0].Path)
	assert.Equal(t, "Boat name must be 200 characters or less", issues[0].Message)
}

func TestNumericStringCoerces(t *testing.T) {
	rec := validBoatRecord()
	rec["profileId"] = "42"

	issues := validation.BoatSchema.Validate(rec, validation.Full)
	assert.Empty(t, issues)
}

func TestNonNumericStringFailsTypeCheckNotZero(t *testing.T) {
	rec := validBoatRecord()
	rec["profileId"] = "not-a-number"

	issues := validation.BoatSchema.Validate(rec, validation.Full)
	require.Len(t, issues, 1)
	assert.Equal(t, "profileId", issues[0].Path)
	assert.Equal(t, "Profile ID must be an integer", issues[0].Message)
}

func TestFractionalNumberFailsIntCheck(t *testing.T) {
	rec := validBoatRecord()
	rec["profileId"] = 7.5

	issues := validation.BoatSchema.Validate(rec, validation.Full)
	require.Len(t, issues, 1)
	assert.Equal(t, "profileId", issues[0].Path)
}

func TestUpdateModeRequiresOnlyID(t *testing.T) {
	issues := validation.BoatSchema.Validate(map[string]any{"id": 3}, validation.Update)
	assert.Empty(t, issues)

	issues = validation.BoatSchema.Validate(map[string]any{}, validation.Update)
	require.Len(t, issues, 1)
	assert.Equal(t, "id", issues[0].Path)
}

func TestUpdateModeStillChecksSuppliedFields(t *testing.T) {
	issues := validation.BoatSchema.Validate(map[string]any{
		"id":   3,
		"name": "",
	}, validation.Update)
	require.Len(t, issues, 1)
	assert.Equal(t, "name", issues[0].Path)
}

func TestRecordOfFlattensStructs(t *testing.T) {
	type payload struct {
		Name      string `json:"name"`
		ProfileID int    `json:"profileId"`
	}
	rec, err := validation.RecordOf(payload{Name: "Dawn Treader", ProfileID: 4})
	require.NoError(t, err)
	assert.Equal(t, "Dawn Treader", rec["name"])
	assert.Equal(t, float64(4), rec["profileId"])
}

func TestProfileEmailFormat(t *testing.T) {
	rec := map[string]any{
		"id":        1,
		"name":      "Sam Harbor",
		"email":     "not-an-email",
		"phone":     "",
		"address":   "",
		"createdAt": "2024-06-01T10:00:00Z",
		"updatedAt": "2024-06-01T10:00:00Z",
		"isDeleted": false,
		"deletedBy": nil,
		"deletedAt": nil,
		"createdBy": nil,
		"updatedBy": nil,
	}

	issues := validation.ProfileSchema.Validate(rec, validation.Full)
	require.Len(t, issues, 1)
	assert.Equal(t, "email", issues[0].Path)
	assert.Equal(t, "Must be a valid email address", issues[0].Message)

	rec["email"] = "sam@harbor.example"
	assert.Empty(t, validation.ProfileSchema.Validate(rec, validation.Full))
}
