package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFile_CSV(t *testing.T) {
	data := []byte("date,time,field,address\n2024-05-01,14:00,Field A,123 Main St\n")

	rows, rawText, err := parseFile("schedule.csv", data)
	require.NoError(t, err)
	assert.Empty(t, rawText)
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-05-01", rows[0]["date"])
	assert.Equal(t, "Field A", rows[0]["field"])
}

func TestParseFile_TSV(t *testing.T) {
	data := []byte("date\tfield\n2024-05-01\tField B\n")

	rows, _, err := parseFile("schedule.tsv", data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Field B", rows[0]["field"])
}

func TestParseFile_CSV_VariableFields(t *testing.T) {
	data := []byte("date,time,field\n2024-05-01,14:00\n")

	rows, _, err := parseFile("schedule.csv", data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "14:00", rows[0]["time"])
	_, hasField := rows[0]["field"]
	assert.False(t, hasField)
}

func TestParseFile_Empty_CSV(t *testing.T) {
	rows, rawText, err := parseFile("schedule.csv", []byte(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Empty(t, rawText)
}

func TestParseFile_JSON_List(t *testing.T) {
	data := []byte(`[{"date": "2024-05-01", "field": "Field A"}, "not an object"]`)

	rows, _, err := parseFile("schedule.json", data)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Field A", rows[0]["field"])
	assert.Equal(t, "not an object", rows[1]["value"])
}

func TestParseFile_JSON_RowsEnvelope(t *testing.T) {
	data := []byte(`{"rows": [{"field": "Field A"}]}`)

	rows, _, err := parseFile("schedule.json", data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Field A", rows[0]["field"])
}

func TestParseFile_JSON_SingleObject(t *testing.T) {
	data := []byte(`{"field": "Field A", "date": "2024-05-01"}`)

	rows, _, err := parseFile("schedule.json", data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Field A", rows[0]["field"])
}

func TestParseFile_JSON_Invalid(t *testing.T) {
	_, _, err := parseFile("schedule.json", []byte("{not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse json")
}

func TestParseFile_UnknownExtension_FreeText(t *testing.T) {
	rows, rawText, err := parseFile("schedule.txt", []byte("games on saturday at field A"))
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, "games on saturday at field A", rawText)
}

func TestParseFile_NoExtension_FreeText(t *testing.T) {
	rows, rawText, err := parseFile("schedule", []byte("free text"))
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, "free text", rawText)
}
