package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"

	"github.com/refnexus/refnexus/internal/model"
	"github.com/refnexus/refnexus/internal/store"
)

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// currentLeague resolves the authenticated league-role caller to their league.
func (s *Server) currentLeague(r *http.Request) (*model.League, error) {
	claims := claimsFrom(r)
	if claims == nil {
		return nil, store.ErrNotFound
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, err
	}
	return s.store.GetLeagueByUserID(r.Context(), userID)
}

// currentReferee resolves the authenticated referee-role caller to their profile.
func (s *Server) currentReferee(r *http.Request) (*model.RefereeProfile, error) {
	claims := claimsFrom(r)
	if claims == nil {
		return nil, store.ErrNotFound
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, err
	}
	return s.store.GetRefereeProfileByUserID(r.Context(), userID)
}

func (s *Server) handleListRefs(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.store.ListRefereeProfiles(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list referees")
		return
	}
	if profiles == nil {
		profiles = []model.RefereeProfile{}
	}
	writeJSON(w, http.StatusOK, profiles)
}

func (s *Server) handleGetMyProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.currentReferee(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type refereeProfileUpdate struct {
	FullName        string   `json:"full_name"`
	CertLevel       string   `json:"cert_level"`
	YearsExperience int      `json:"years_experience"`
	HomeLocation    string   `json:"home_location"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	TravelRadiusKM  *float64 `json:"travel_radius_km"`
	Bio             string   `json:"bio"`
}

func (s *Server) handleUpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.currentReferee(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}

	var req refereeProfileUpdate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile.FullName = req.FullName
	profile.CertLevel = req.CertLevel
	profile.YearsExperience = req.YearsExperience
	profile.HomeLocation = req.HomeLocation
	profile.Latitude = req.Latitude
	profile.Longitude = req.Longitude
	profile.TravelRadiusKM = req.TravelRadiusKM
	profile.Bio = req.Bio

	if err := s.store.UpdateRefereeProfile(r.Context(), profile); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleGetRef(w http.ResponseWriter, r *http.Request) {
	refID, err := pathID(r, "refID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid referee id")
		return
	}

	profile, err := s.store.GetRefereeProfile(r.Context(), refID)
	if err != nil {
		if eris.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "referee not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load referee")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleRefStats(w http.ResponseWriter, r *http.Request) {
	refID, err := pathID(r, "refID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid referee id")
		return
	}

	stats, err := s.refs.Stats(r.Context(), refID)
	if err != nil {
		if eris.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "referee not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleListRatings(w http.ResponseWriter, r *http.Request) {
	refID, err := pathID(r, "refID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid referee id")
		return
	}

	ratings, err := s.store.ListRatingsForReferee(r.Context(), refID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list ratings")
		return
	}
	if ratings == nil {
		ratings = []model.Rating{}
	}
	writeJSON(w, http.StatusOK, ratings)
}

type ratingRequest struct {
	GameID  int64  `json:"game_id"`
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

func (s *Server) handleCreateRating(w http.ResponseWriter, r *http.Request) {
	refID, err := pathID(r, "refID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid referee id")
		return
	}
	league, err := s.currentLeague(r)
	if err != nil {
		writeError(w, http.StatusForbidden, "league profile not found")
		return
	}

	var req ratingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Score < 1 || req.Score > 5 {
		writeError(w, http.StatusBadRequest, "score must be between 1 and 5")
		return
	}
	if _, err := s.store.GetGame(r.Context(), league.ID, req.GameID); err != nil {
		writeError(w, http.StatusNotFound, "game not found")
		return
	}

	rating := &model.Rating{
		LeagueID:  league.ID,
		RefereeID: refID,
		GameID:    req.GameID,
		Score:     req.Score,
		Comment:   req.Comment,
	}
	if err := s.store.CreateRating(r.Context(), rating); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create rating")
		return
	}
	writeJSON(w, http.StatusCreated, rating)
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	refID, err := pathID(r, "refID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid referee id")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	notes, err := s.store.ListNotesForReferee(r.Context(), refID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list notes")
		return
	}
	if notes == nil {
		notes = []model.RefNote{}
	}
	writeJSON(w, http.StatusOK, notes)
}

type noteRequest struct {
	GameID *int64 `json:"game_id"`
	Note   string `json:"note"`
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	refID, err := pathID(r, "refID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid referee id")
		return
	}
	league, err := s.currentLeague(r)
	if err != nil {
		writeError(w, http.StatusForbidden, "league profile not found")
		return
	}

	var req noteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Note == "" {
		writeError(w, http.StatusBadRequest, "note is required")
		return
	}

	note := &model.RefNote{
		LeagueID:  league.ID,
		RefereeID: refID,
		GameID:    req.GameID,
		Note:      req.Note,
	}
	if err := s.store.CreateNote(r.Context(), note); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create note")
		return
	}
	writeJSON(w, http.StatusCreated, note)
}
