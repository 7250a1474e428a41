package model

// League is a league-manager profile. Games, field locations, ratings, and
// notes all hang off a league.
type League struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"user_id"`
	Name          string `json:"name,omitempty"`
	PrimaryRegion string `json:"primary_region,omitempty"`
	Level         string `json:"level,omitempty"`
}
