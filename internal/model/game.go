package model

import "time"

// GameStatus tracks a game through its scheduling lifecycle.
type GameStatus string

const (
	GameStatusOpen      GameStatus = "open"
	GameStatusAssigned  GameStatus = "assigned"
	GameStatusCompleted GameStatus = "completed"
	GameStatusCancelled GameStatus = "cancelled"
)

// FieldLocation is a playing field owned by a league. The tuple
// (LeagueID, Name, Address) is the natural key: ingestion reuses an existing
// location when the tuple matches and never updates one in place.
type FieldLocation struct {
	ID        int64   `json:"id"`
	LeagueID  int64   `json:"league_id"`
	Name      string  `json:"name"`
	Address   string  `json:"address,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Game is a scheduled match needing referees.
type Game struct {
	ID               int64      `json:"id"`
	LeagueID         int64      `json:"league_id"`
	FieldLocationID  int64      `json:"field_location_id"`
	ScheduledStart   time.Time  `json:"scheduled_start"`
	AgeGroup         string     `json:"age_group,omitempty"`
	GenderFocus      string     `json:"gender_focus,omitempty"`
	CompetitionLevel string     `json:"competition_level,omitempty"`
	Status           GameStatus `json:"status"`
	CenterFee        *float64   `json:"center_fee,omitempty"`
	ARFee            *float64   `json:"ar_fee,omitempty"`
}

// AssignmentStatus tracks an assignment offer through its lifecycle.
type AssignmentStatus string

const (
	AssignmentStatusRequested AssignmentStatus = "requested"
	AssignmentStatusAccepted  AssignmentStatus = "accepted"
	AssignmentStatusDeclined  AssignmentStatus = "declined"
)

// Assignment links a referee to a game in a given role (center, AR1, AR2).
type Assignment struct {
	ID        int64            `json:"id"`
	GameID    int64            `json:"game_id"`
	RefereeID int64            `json:"referee_id"`
	Role      string           `json:"role"`
	Status    AssignmentStatus `json:"status"`
}
