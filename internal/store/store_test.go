package store

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refnexus/refnexus/internal/model"
)

func newTestSQLite(t *testing.T) Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func createTestLeague(t *testing.T, s Store) *model.League {
	t.Helper()
	ctx := context.Background()

	u := &model.User{Email: uniqueEmail(t, "league"), PasswordHash: "x", Role: model.RoleLeague}
	require.NoError(t, s.CreateUser(ctx, u))

	l := &model.League{UserID: u.ID, Name: "North Valley Soccer", PrimaryRegion: "North Valley", Level: "youth"}
	require.NoError(t, s.CreateLeague(ctx, l))
	return l
}

func createTestReferee(t *testing.T, s Store, name string) *model.RefereeProfile {
	t.Helper()
	ctx := context.Background()

	u := &model.User{Email: uniqueEmail(t, name), PasswordHash: "x", Role: model.RoleReferee}
	require.NoError(t, s.CreateUser(ctx, u))

	p := &model.RefereeProfile{UserID: u.ID, FullName: name, CertLevel: "grassroots", YearsExperience: 3}
	require.NoError(t, s.CreateRefereeProfile(ctx, p))
	return p
}

var emailSeq int64

func uniqueEmail(t *testing.T, prefix string) string {
	t.Helper()
	emailSeq++
	return prefix + "-" + strconv.FormatInt(emailSeq, 10) + "@example.com"
}

func createTestGame(t *testing.T, s Store, leagueID int64, start time.Time) *model.Game {
	t.Helper()
	ctx := context.Background()

	fl := &model.FieldLocation{LeagueID: leagueID, Name: "Field " + start.Format("20060102150405.000000000"), Address: "1 Main St"}
	require.NoError(t, s.CreateFieldLocation(ctx, fl))

	g := &model.Game{LeagueID: leagueID, FieldLocationID: fl.ID, ScheduledStart: start, AgeGroup: "U12"}
	require.NoError(t, s.CreateGame(ctx, g))
	return g
}

func storeTestSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("CreateAndGetUserByEmail", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		u := &model.User{Email: "ref@example.com", PasswordHash: "hashed", Role: model.RoleReferee}
		require.NoError(t, s.CreateUser(ctx, u))
		assert.NotZero(t, u.ID)
		assert.False(t, u.CreatedAt.IsZero())

		got, err := s.GetUserByEmail(ctx, "ref@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.Equal(t, model.RoleReferee, got.Role)
		assert.Equal(t, "hashed", got.PasswordHash)
	})

	t.Run("GetUserByEmailNotFound", func(t *testing.T) {
		s := newStore(t)

		_, err := s.GetUserByEmail(context.Background(), "nobody@example.com")
		require.Error(t, err)
		assert.True(t, eris.Is(err, ErrNotFound))
	})

	t.Run("CreateAndUpdateLeague", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		l := createTestLeague(t, s)
		assert.NotZero(t, l.ID)

		l.Name = "North Valley Premier"
		l.Level = "adult"
		require.NoError(t, s.UpdateLeague(ctx, l))

		got, err := s.GetLeague(ctx, l.ID)
		require.NoError(t, err)
		assert.Equal(t, "North Valley Premier", got.Name)
		assert.Equal(t, "adult", got.Level)

		byUser, err := s.GetLeagueByUserID(ctx, l.UserID)
		require.NoError(t, err)
		assert.Equal(t, l.ID, byUser.ID)
	})

	t.Run("UpdateLeagueNotFound", func(t *testing.T) {
		s := newStore(t)

		err := s.UpdateLeague(context.Background(), &model.League{ID: 9999, Name: "ghost"})
		require.Error(t, err)
		assert.True(t, eris.Is(err, ErrNotFound))
	})

	t.Run("RefereeProfileRoundTrip", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		p := createTestReferee(t, s, "Dana Whistle")
		assert.NotZero(t, p.ID)

		lat, lon, radius := 40.7128, -74.0060, 30.0
		p.Latitude = &lat
		p.Longitude = &lon
		p.TravelRadiusKM = &radius
		p.Bio = "Weekend center ref"
		require.NoError(t, s.UpdateRefereeProfile(ctx, p))

		got, err := s.GetRefereeProfile(ctx, p.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Latitude)
		assert.InDelta(t, 40.7128, *got.Latitude, 1e-9)
		require.NotNil(t, got.TravelRadiusKM)
		assert.InDelta(t, 30.0, *got.TravelRadiusKM, 1e-9)
		assert.Equal(t, "Weekend center ref", got.Bio)

		byUser, err := s.GetRefereeProfileByUserID(ctx, p.UserID)
		require.NoError(t, err)
		assert.Equal(t, p.ID, byUser.ID)
	})

	t.Run("ListRefereeProfiles", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		createTestReferee(t, s, "Ref One")
		createTestReferee(t, s, "Ref Two")

		profiles, err := s.ListRefereeProfiles(ctx)
		require.NoError(t, err)
		require.Len(t, profiles, 2)
		assert.Less(t, profiles[0].ID, profiles[1].ID)
	})

	t.Run("FieldLocationNaturalKey", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		l := createTestLeague(t, s)

		fl := &model.FieldLocation{LeagueID: l.ID, Name: "Field A", Address: "22 Oak Ave", Latitude: 40.0, Longitude: -74.0}
		require.NoError(t, s.CreateFieldLocation(ctx, fl))

		got, err := s.GetFieldLocationByKey(ctx, l.ID, "Field A", "22 Oak Ave")
		require.NoError(t, err)
		assert.Equal(t, fl.ID, got.ID)

		_, err = s.GetFieldLocationByKey(ctx, l.ID, "Field A", "different address")
		assert.True(t, eris.Is(err, ErrNotFound))
	})

	t.Run("CreateGameDefaultsStatusOpen", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		l := createTestLeague(t, s)
		g := createTestGame(t, s, l.ID, time.Date(2025, 5, 1, 14, 0, 0, 0, time.UTC))
		assert.Equal(t, model.GameStatusOpen, g.Status)

		got, err := s.GetGame(ctx, l.ID, g.ID)
		require.NoError(t, err)
		assert.Equal(t, model.GameStatusOpen, got.Status)
		assert.Equal(t, "U12", got.AgeGroup)
		assert.True(t, got.ScheduledStart.Equal(time.Date(2025, 5, 1, 14, 0, 0, 0, time.UTC)))
	})

	t.Run("GetGameScopedToLeague", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		l1 := createTestLeague(t, s)
		l2 := createTestLeague(t, s)
		g := createTestGame(t, s, l1.ID, time.Date(2025, 5, 1, 14, 0, 0, 0, time.UTC))

		_, err := s.GetGame(ctx, l2.ID, g.ID)
		assert.True(t, eris.Is(err, ErrNotFound))
	})

	t.Run("ListGamesOrderAndFilter", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		l := createTestLeague(t, s)
		late := createTestGame(t, s, l.ID, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
		early := createTestGame(t, s, l.ID, time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC))

		late.Status = model.GameStatusAssigned
		require.NoError(t, s.UpdateGame(ctx, late))

		games, err := s.ListGames(ctx, l.ID, GameFilter{})
		require.NoError(t, err)
		require.Len(t, games, 2)
		assert.Equal(t, early.ID, games[0].ID)

		open, err := s.ListGames(ctx, l.ID, GameFilter{Status: model.GameStatusOpen})
		require.NoError(t, err)
		require.Len(t, open, 1)
		assert.Equal(t, early.ID, open[0].ID)
	})

	t.Run("AssignmentLifecycle", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		l := createTestLeague(t, s)
		g := createTestGame(t, s, l.ID, time.Date(2025, 5, 1, 14, 0, 0, 0, time.UTC))
		ref := createTestReferee(t, s, "Casey Lines")

		a := &model.Assignment{GameID: g.ID, RefereeID: ref.ID, Role: "center"}
		require.NoError(t, s.CreateAssignment(ctx, a))
		assert.Equal(t, model.AssignmentStatusRequested, a.Status)

		require.NoError(t, s.UpdateAssignmentStatus(ctx, a.ID, model.AssignmentStatusAccepted))

		got, err := s.GetAssignment(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, model.AssignmentStatusAccepted, got.Status)

		forGame, err := s.ListAssignmentsForGame(ctx, g.ID)
		require.NoError(t, err)
		require.Len(t, forGame, 1)

		forRef, err := s.ListAssignmentsForReferee(ctx, ref.ID)
		require.NoError(t, err)
		require.Len(t, forRef, 1)

		n, err := s.CountAcceptedAssignments(ctx, ref.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("CountAcceptedIgnoresDeclined", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		l := createTestLeague(t, s)
		g := createTestGame(t, s, l.ID, time.Date(2025, 5, 1, 14, 0, 0, 0, time.UTC))
		ref := createTestReferee(t, s, "Jordan Flag")

		a := &model.Assignment{GameID: g.ID, RefereeID: ref.ID, Role: "ar1"}
		require.NoError(t, s.CreateAssignment(ctx, a))
		require.NoError(t, s.UpdateAssignmentStatus(ctx, a.ID, model.AssignmentStatusDeclined))

		n, err := s.CountAcceptedAssignments(ctx, ref.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("RatingsAndAverages", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		l := createTestLeague(t, s)
		g := createTestGame(t, s, l.ID, time.Date(2025, 5, 1, 14, 0, 0, 0, time.UTC))
		ref := createTestReferee(t, s, "Avery Card")
		other := createTestReferee(t, s, "Riley Kick")

		for _, score := range []int{5, 4} {
			r := &model.Rating{LeagueID: l.ID, RefereeID: ref.ID, GameID: g.ID, Score: score}
			require.NoError(t, s.CreateRating(ctx, r))
		}
		require.NoError(t, s.CreateRating(ctx, &model.Rating{LeagueID: l.ID, RefereeID: other.ID, GameID: g.ID, Score: 3}))

		ratings, err := s.ListRatingsForReferee(ctx, ref.ID)
		require.NoError(t, err)
		assert.Len(t, ratings, 2)

		averages, err := s.AverageRatings(ctx)
		require.NoError(t, err)
		assert.InDelta(t, 4.5, averages[ref.ID], 1e-9)
		assert.InDelta(t, 3.0, averages[other.ID], 1e-9)
	})

	t.Run("NotesMostRecentFirstWithLimit", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		l := createTestLeague(t, s)
		ref := createTestReferee(t, s, "Sam Vanishing")

		base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
		for i := 0; i < 7; i++ {
			n := &model.RefNote{
				LeagueID:  l.ID,
				RefereeID: ref.ID,
				Note:      "note",
				CreatedAt: base.Add(time.Duration(i) * time.Hour),
			}
			require.NoError(t, s.CreateNote(ctx, n))
		}

		notes, err := s.ListNotesForReferee(ctx, ref.ID, 5)
		require.NoError(t, err)
		require.Len(t, notes, 5)
		assert.True(t, notes[0].CreatedAt.After(notes[4].CreatedAt))
	})

	t.Run("RunInTxCommits", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		l := createTestLeague(t, s)

		err := s.RunInTx(ctx, func(tx Store) error {
			fl := &model.FieldLocation{LeagueID: l.ID, Name: "Tx Field", Address: "tx"}
			if err := tx.CreateFieldLocation(ctx, fl); err != nil {
				return err
			}
			g := &model.Game{LeagueID: l.ID, FieldLocationID: fl.ID, ScheduledStart: time.Now().UTC()}
			return tx.CreateGame(ctx, g)
		})
		require.NoError(t, err)

		games, err := s.ListGames(ctx, l.ID, GameFilter{})
		require.NoError(t, err)
		assert.Len(t, games, 1)
	})

	t.Run("RunInTxRollsBackOnError", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		l := createTestLeague(t, s)

		err := s.RunInTx(ctx, func(tx Store) error {
			fl := &model.FieldLocation{LeagueID: l.ID, Name: "Doomed Field", Address: "x"}
			if err := tx.CreateFieldLocation(ctx, fl); err != nil {
				return err
			}
			return eris.New("boom")
		})
		require.Error(t, err)

		_, err = s.GetFieldLocationByKey(ctx, l.ID, "Doomed Field", "x")
		assert.True(t, eris.Is(err, ErrNotFound))
	})

	t.Run("MigrateIdempotent", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Migrate(context.Background()))
		require.NoError(t, s.Migrate(context.Background()))
	})
}

func TestSQLiteStore(t *testing.T) {
	storeTestSuite(t, newTestSQLite)
}
