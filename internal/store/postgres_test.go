package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refnexus/refnexus/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgresFromPool(mock), mock
}

func TestPostgresStore_GetUserByEmail_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, email, password_hash, role, created_at FROM users`).
		WithArgs("nobody@example.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetUserByEmail(context.Background(), "nobody@example.com")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateGame_ReturnsID(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	start := time.Date(2025, 5, 1, 14, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO games`).
		WithArgs(int64(1), int64(2), start, "U12", "", "", "open", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

	g := &model.Game{LeagueID: 1, FieldLocationID: 2, ScheduledStart: start, AgeGroup: "U12"}
	require.NoError(t, s.CreateGame(context.Background(), g))
	assert.Equal(t, int64(42), g.ID)
	assert.Equal(t, model.GameStatusOpen, g.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateAssignmentStatus_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE assignments SET status`).
		WithArgs("accepted", int64(99)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.UpdateAssignmentStatus(context.Background(), 99, model.AssignmentStatusAccepted)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CountAcceptedAssignments(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM assignments`).
		WithArgs(int64(7), "accepted").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	n, err := s.CountAcceptedAssignments(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_AverageRatings(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT referee_id, AVG\(score\)`).
		WillReturnRows(pgxmock.NewRows([]string{"referee_id", "avg"}).
			AddRow(int64(1), 4.5).
			AddRow(int64(2), 3.0))

	averages, err := s.AverageRatings(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 4.5, averages[1], 1e-9)
	assert.InDelta(t, 3.0, averages[2], 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_RunInTx_RollsBackOnError(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := s.RunInTx(context.Background(), func(Store) error {
		return eris.New("boom")
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
