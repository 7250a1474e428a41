package model

// RefereeProfile is a referee's public profile. Latitude/Longitude are nil
// when the referee has not shared a home location; distance-filtered searches
// skip such profiles.
type RefereeProfile struct {
	ID              int64    `json:"id"`
	UserID          int64    `json:"user_id"`
	FullName        string   `json:"full_name,omitempty"`
	CertLevel       string   `json:"cert_level,omitempty"`
	YearsExperience int      `json:"years_experience,omitempty"`
	HomeLocation    string   `json:"home_location,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	TravelRadiusKM  *float64 `json:"travel_radius_km,omitempty"`
	Bio             string   `json:"bio,omitempty"`
}

// RefereeStats aggregates a referee's track record for profile pages.
type RefereeStats struct {
	GamesReffed   int       `json:"games_reffed"`
	AverageRating *float64  `json:"average_rating,omitempty"`
	RecentNotes   []RefNote `json:"recent_notes"`
}
