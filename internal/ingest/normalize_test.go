package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRows_Aliases(t *testing.T) {
	rows := []RawRow{{
		"Date":     "2024-05-01",
		"Time":     "14:00",
		"Pitch":    "Field 7",
		"Site":     "Riverside Complex",
		"Address":  "123 Main St",
		"Lat":      "40.1",
		"Lng":      "-74.2",
		"Division": "U12",
		"Level":    "rec",
		"Gender":   "coed",
		"AR Pay":   "45",
	}}

	var warnings []Warning
	normalized := normalizeRows(rows, &warnings)
	require.Len(t, normalized, 1)
	assert.Empty(t, warnings)

	row := normalized[0]
	assert.Equal(t, "2024-05-01 14:00", row[keyScheduledStart])
	assert.Equal(t, "Field 7", row[keyFieldName])
	assert.Equal(t, "Riverside Complex", row[keyLocationName])
	assert.Equal(t, "123 Main St", row[keyAddress])
	assert.Equal(t, "40.1", row[keyLatitude])
	assert.Equal(t, "-74.2", row[keyLongitude])
	assert.Equal(t, "U12", row[keyAgeGroup])
	assert.Equal(t, "rec", row[keyCompetitionLevel])
	assert.Equal(t, "coed", row[keyGenderFocus])
	assert.Equal(t, "45", row[keyARFee])
}

func TestNormalizeRows_CombinedDatetimeWins(t *testing.T) {
	rows := []RawRow{{
		"scheduled_start": "2024-05-01T14:00:00",
		"date":            "2024-06-01",
		"time":            "10:00",
	}}

	var warnings []Warning
	normalized := normalizeRows(rows, &warnings)
	require.Len(t, normalized, 1)
	assert.Equal(t, "2024-05-01T14:00:00", normalized[0][keyScheduledStart])
}

func TestNormalizeRows_DateWithoutTime(t *testing.T) {
	rows := []RawRow{{"date": "2024-05-01"}}

	var warnings []Warning
	normalized := normalizeRows(rows, &warnings)
	require.Len(t, normalized, 1)
	assert.Equal(t, "2024-05-01", normalized[0][keyScheduledStart])
}

func TestNormalizeRows_NonObjectWarns(t *testing.T) {
	rows := []RawRow{
		{"value": "just a string"},
		{"date": "2024-05-01"},
	}

	var warnings []Warning
	normalized := normalizeRows(rows, &warnings)
	require.Len(t, normalized, 1)
	require.Len(t, warnings, 1)
	assert.Equal(t, "Row is not an object", warnings[0].Message)
	require.NotNil(t, warnings[0].RowIndex)
	assert.Equal(t, 0, *warnings[0].RowIndex)
}

func TestNormalizeRows_MissingStartIsNil(t *testing.T) {
	rows := []RawRow{{"field": "Field A"}}

	var warnings []Warning
	normalized := normalizeRows(rows, &warnings)
	require.Len(t, normalized, 1)
	assert.Nil(t, normalized[0][keyScheduledStart])
}

func TestShouldUseLLM(t *testing.T) {
	withStart := NormalizedRow{keyScheduledStart: "2024-05-01"}
	withoutStart := NormalizedRow{keyScheduledStart: nil}

	assert.True(t, shouldUseLLM(nil, "some raw text"))
	assert.True(t, shouldUseLLM(nil, ""))
	assert.True(t, shouldUseLLM([]NormalizedRow{withoutStart}, ""))
	assert.True(t, shouldUseLLM([]NormalizedRow{withStart, withoutStart}, ""))
	assert.False(t, shouldUseLLM([]NormalizedRow{withStart}, ""))
	assert.False(t, shouldUseLLM([]NormalizedRow{withStart, withStart, withStart, withoutStart}, ""))
}

func TestCleanJSONArray(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `[{"a": 1}]`, `[{"a": 1}]`},
		{"json fence", "```json\n[{\"a\": 1}]\n```", `[{"a": 1}]`},
		{"bare fence", "```\n[1, 2]\n```", `[1, 2]`},
		{"surrounding prose", `Here you go: [{"a": 1}] hope that helps`, `[{"a": 1}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSONArray(tt.input))
		})
	}
}
