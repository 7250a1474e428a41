package ingest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refnexus/refnexus/internal/model"
	"github.com/refnexus/refnexus/internal/store"
	"github.com/refnexus/refnexus/pkg/anthropic"
)

// stubLLM returns a canned response without calling the API.
type stubLLM struct {
	resp  *anthropic.MessageResponse
	err   error
	calls int
}

func (s *stubLLM) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	s.calls++
	return s.resp, s.err
}

func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
	}
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func newTestLeague(t *testing.T, s store.Store) *model.League {
	t.Helper()
	ctx := context.Background()

	u := &model.User{Email: "league-" + t.Name() + "@example.com", PasswordHash: "x", Role: model.RoleLeague}
	require.NoError(t, s.CreateUser(ctx, u))

	l := &model.League{UserID: u.ID, Name: "Test League"}
	require.NoError(t, s.CreateLeague(ctx, l))
	return l
}

func TestIngest_EmptyCSV(t *testing.T) {
	s := newTestStore(t)
	l := newTestLeague(t, s)
	svc := NewService(s, nil, "", 0)

	result, err := svc.Ingest(context.Background(), l.ID, "schedule.csv", []byte(""), true)
	require.NoError(t, err)
	assert.Zero(t, result.CreatedGames)
	assert.Zero(t, result.CreatedLocations)
	assert.Zero(t, result.SkippedRows)
	assert.Empty(t, result.Warnings)
}

func TestIngest_CSV_EndToEnd(t *testing.T) {
	s := newTestStore(t)
	l := newTestLeague(t, s)
	svc := NewService(s, nil, "", 0)

	data := []byte("date,time,field,address,age_group,center_fee\n" +
		"2024-05-01,14:00,Field A,123 Main St,U12,75\n")

	result, err := svc.Ingest(context.Background(), l.ID, "schedule.csv", data, false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CreatedGames)
	assert.Equal(t, 1, result.CreatedLocations)
	assert.Zero(t, result.SkippedRows)
	// No coordinates in the document.
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "Missing latitude/longitude; defaulted to 0.0", result.Warnings[0].Message)

	games, err := s.ListGames(context.Background(), l.ID, store.GameFilter{})
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.True(t, games[0].ScheduledStart.Equal(time.Date(2024, 5, 1, 14, 0, 0, 0, time.UTC)))
	assert.Equal(t, "U12", games[0].AgeGroup)
	assert.Equal(t, model.GameStatusOpen, games[0].Status)
	require.NotNil(t, games[0].CenterFee)
	assert.InDelta(t, 75.0, *games[0].CenterFee, 1e-9)

	loc, err := s.GetFieldLocationByKey(context.Background(), l.ID, "Field A", "123 Main St")
	require.NoError(t, err)
	assert.Zero(t, loc.Latitude)
	assert.Zero(t, loc.Longitude)
}

func TestIngest_DeduplicatesFieldLocations(t *testing.T) {
	s := newTestStore(t)
	l := newTestLeague(t, s)
	svc := NewService(s, nil, "", 0)

	data := []byte("date,time,field,address,lat,lon\n" +
		"2024-05-01,14:00,Field A,123 Main St,40.0,-74.0\n" +
		"2024-05-02,10:00,Field A,123 Main St,40.0,-74.0\n")

	result, err := svc.Ingest(context.Background(), l.ID, "schedule.csv", data, false)
	require.NoError(t, err)
	assert.Equal(t, 2, result.CreatedGames)
	assert.Equal(t, 1, result.CreatedLocations)
	assert.Empty(t, result.Warnings)
}

func TestIngest_SkipsRowsWithoutSchedule(t *testing.T) {
	s := newTestStore(t)
	l := newTestLeague(t, s)
	svc := NewService(s, nil, "", 0)

	data := []byte("date,field,lat,lon\n" +
		"2024-05-01,Field A,40.0,-74.0\n" +
		",Field B,40.0,-74.0\n")

	result, err := svc.Ingest(context.Background(), l.ID, "schedule.csv", data, false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CreatedGames)
	assert.Equal(t, 1, result.SkippedRows)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "Missing or invalid scheduled_start", result.Warnings[0].Message)
	require.NotNil(t, result.Warnings[0].RowIndex)
	assert.Equal(t, 1, *result.Warnings[0].RowIndex)
}

func TestIngest_InvalidJSON_BatchWarning(t *testing.T) {
	s := newTestStore(t)
	l := newTestLeague(t, s)
	svc := NewService(s, nil, "", 0)

	result, err := svc.Ingest(context.Background(), l.ID, "schedule.json", []byte("{broken"), false)
	require.NoError(t, err)
	assert.Zero(t, result.CreatedGames)
	require.Len(t, result.Warnings, 1)
	assert.Nil(t, result.Warnings[0].RowIndex)
	assert.Contains(t, result.Warnings[0].Message, "Failed to parse document")
}

func TestIngest_FreeText_UsesLLM(t *testing.T) {
	s := newTestStore(t)
	l := newTestLeague(t, s)

	llm := &stubLLM{resp: textResponse("```json\n" +
		`[{"scheduled_start": "2024-05-01T14:00:00", "field_name": "Field A", "latitude": 40.0, "longitude": -74.0}]` +
		"\n```")}
	svc := NewService(s, llm, "claude-haiku-4-5-20251001", 0)

	result, err := svc.Ingest(context.Background(), l.ID, "schedule.txt",
		[]byte("Saturday games at Field A, kickoff 2pm on May 1st"), true)
	require.NoError(t, err)
	assert.Equal(t, 1, llm.calls)
	assert.Equal(t, 1, result.CreatedGames)
	assert.Equal(t, 1, result.CreatedLocations)
	assert.Empty(t, result.Warnings)
}

func TestIngest_StructuredRows_SkipLLM(t *testing.T) {
	s := newTestStore(t)
	l := newTestLeague(t, s)

	llm := &stubLLM{resp: textResponse("[]")}
	svc := NewService(s, llm, "claude-haiku-4-5-20251001", 0)

	data := []byte("date,time,field,lat,lon\n2024-05-01,14:00,Field A,40.0,-74.0\n")

	result, err := svc.Ingest(context.Background(), l.ID, "schedule.csv", data, true)
	require.NoError(t, err)
	assert.Zero(t, llm.calls)
	assert.Equal(t, 1, result.CreatedGames)
}

func TestIngest_LLMGarbage_KeepsParsedRows(t *testing.T) {
	s := newTestStore(t)
	l := newTestLeague(t, s)

	// Half the rows lack a schedule, so the LLM is consulted; its garbage
	// output must not clobber the parsed rows.
	llm := &stubLLM{resp: textResponse("I could not find any games.")}
	svc := NewService(s, llm, "claude-haiku-4-5-20251001", 0)

	data := []byte("date,field,lat,lon\n" +
		"2024-05-01,Field A,40.0,-74.0\n" +
		",Field B,40.0,-74.0\n")

	result, err := svc.Ingest(context.Background(), l.ID, "schedule.csv", data, true)
	require.NoError(t, err)
	assert.Equal(t, 1, llm.calls)
	assert.Equal(t, 1, result.CreatedGames)
	assert.Equal(t, 1, result.SkippedRows)
}

func TestIngest_LLMDisabled(t *testing.T) {
	s := newTestStore(t)
	l := newTestLeague(t, s)

	llm := &stubLLM{resp: textResponse("[]")}
	svc := NewService(s, llm, "claude-haiku-4-5-20251001", 0)

	result, err := svc.Ingest(context.Background(), l.ID, "schedule.txt", []byte("free text"), false)
	require.NoError(t, err)
	assert.Zero(t, llm.calls)
	assert.Zero(t, result.CreatedGames)
}
