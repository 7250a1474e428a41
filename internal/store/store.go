// Package store persists the marketplace data model behind a single
// interface with Postgres and SQLite backends.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/refnexus/refnexus/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = eris.New("store: not found")

// GameFilter specifies criteria for listing a league's games.
type GameFilter struct {
	Status model.GameStatus `json:"status,omitempty"`
	Limit  int              `json:"limit,omitempty"`
	Offset int              `json:"offset,omitempty"`
}

// Store defines the persistence interface for the marketplace.
type Store interface {
	// Users
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// Leagues
	CreateLeague(ctx context.Context, l *model.League) error
	GetLeague(ctx context.Context, id int64) (*model.League, error)
	GetLeagueByUserID(ctx context.Context, userID int64) (*model.League, error)
	UpdateLeague(ctx context.Context, l *model.League) error

	// Referee profiles
	CreateRefereeProfile(ctx context.Context, p *model.RefereeProfile) error
	GetRefereeProfile(ctx context.Context, id int64) (*model.RefereeProfile, error)
	GetRefereeProfileByUserID(ctx context.Context, userID int64) (*model.RefereeProfile, error)
	UpdateRefereeProfile(ctx context.Context, p *model.RefereeProfile) error
	ListRefereeProfiles(ctx context.Context) ([]model.RefereeProfile, error)

	// Field locations
	CreateFieldLocation(ctx context.Context, fl *model.FieldLocation) error
	GetFieldLocationByKey(ctx context.Context, leagueID int64, name, address string) (*model.FieldLocation, error)

	// Games
	CreateGame(ctx context.Context, g *model.Game) error
	GetGame(ctx context.Context, leagueID, id int64) (*model.Game, error)
	GetGameByID(ctx context.Context, id int64) (*model.Game, error)
	ListGames(ctx context.Context, leagueID int64, filter GameFilter) ([]model.Game, error)
	UpdateGame(ctx context.Context, g *model.Game) error

	// Assignments
	CreateAssignment(ctx context.Context, a *model.Assignment) error
	GetAssignment(ctx context.Context, id int64) (*model.Assignment, error)
	ListAssignmentsForGame(ctx context.Context, gameID int64) ([]model.Assignment, error)
	ListAssignmentsForReferee(ctx context.Context, refereeID int64) ([]model.Assignment, error)
	UpdateAssignmentStatus(ctx context.Context, id int64, status model.AssignmentStatus) error
	CountAcceptedAssignments(ctx context.Context, refereeID int64) (int, error)

	// Ratings and notes
	CreateRating(ctx context.Context, r *model.Rating) error
	ListRatingsForReferee(ctx context.Context, refereeID int64) ([]model.Rating, error)
	AverageRatings(ctx context.Context) (map[int64]float64, error)
	CreateNote(ctx context.Context, n *model.RefNote) error
	ListNotesForReferee(ctx context.Context, refereeID int64, limit int) ([]model.RefNote, error)

	// RunInTx runs fn against a transactional view of the store. A non-nil
	// error from fn rolls everything back; otherwise the transaction commits.
	RunInTx(ctx context.Context, fn func(Store) error) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
