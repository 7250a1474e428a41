package model

import "time"

// Rating is a league's 1-5 score for a referee's performance in one game.
type Rating struct {
	ID        int64     `json:"id"`
	LeagueID  int64     `json:"league_id"`
	RefereeID int64     `json:"referee_id"`
	GameID    int64     `json:"game_id"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RefNote is a free-form private note a league keeps about a referee.
type RefNote struct {
	ID        int64     `json:"id"`
	LeagueID  int64     `json:"league_id"`
	RefereeID int64     `json:"referee_id"`
	GameID    *int64    `json:"game_id,omitempty"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}
