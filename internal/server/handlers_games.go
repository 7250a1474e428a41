package server

import (
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/refnexus/refnexus/internal/model"
	"github.com/refnexus/refnexus/internal/store"
)

type gameRequest struct {
	FieldLocationID  int64            `json:"field_location_id"`
	FieldName        string           `json:"field_name"`
	Address          string           `json:"address"`
	Latitude         float64          `json:"latitude"`
	Longitude        float64          `json:"longitude"`
	ScheduledStart   time.Time        `json:"scheduled_start"`
	AgeGroup         string           `json:"age_group"`
	GenderFocus      string           `json:"gender_focus"`
	CompetitionLevel string           `json:"competition_level"`
	Status           model.GameStatus `json:"status"`
	CenterFee        *float64         `json:"center_fee"`
	ARFee            *float64         `json:"ar_fee"`
}

// handleCreateGame creates a game, either against an existing field location
// or by get-or-create on (name, address) like the ingestion pipeline.
func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	league, err := s.currentLeague(r)
	if err != nil {
		writeError(w, http.StatusForbidden, "league profile not found")
		return
	}

	var req gameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ScheduledStart.IsZero() {
		writeError(w, http.StatusBadRequest, "scheduled_start is required")
		return
	}

	game := &model.Game{
		LeagueID:         league.ID,
		FieldLocationID:  req.FieldLocationID,
		ScheduledStart:   req.ScheduledStart.UTC(),
		AgeGroup:         req.AgeGroup,
		GenderFocus:      req.GenderFocus,
		CompetitionLevel: req.CompetitionLevel,
		Status:           req.Status,
		CenterFee:        req.CenterFee,
		ARFee:            req.ARFee,
	}

	err = s.store.RunInTx(r.Context(), func(tx store.Store) error {
		if game.FieldLocationID == 0 {
			if req.FieldName == "" {
				return eris.New("server: field_location_id or field_name required")
			}
			location, err := tx.GetFieldLocationByKey(r.Context(), league.ID, req.FieldName, req.Address)
			if eris.Is(err, store.ErrNotFound) {
				location = &model.FieldLocation{
					LeagueID:  league.ID,
					Name:      req.FieldName,
					Address:   req.Address,
					Latitude:  req.Latitude,
					Longitude: req.Longitude,
				}
				err = tx.CreateFieldLocation(r.Context(), location)
			}
			if err != nil {
				return err
			}
			game.FieldLocationID = location.ID
		}
		return tx.CreateGame(r.Context(), game)
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to create game")
		return
	}
	writeJSON(w, http.StatusCreated, game)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	league, err := s.currentLeague(r)
	if err != nil {
		writeError(w, http.StatusForbidden, "league profile not found")
		return
	}

	filter := store.GameFilter{Status: model.GameStatus(r.URL.Query().Get("status"))}
	games, err := s.store.ListGames(r.Context(), league.ID, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list games")
		return
	}
	if games == nil {
		games = []model.Game{}
	}
	writeJSON(w, http.StatusOK, games)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	league, err := s.currentLeague(r)
	if err != nil {
		writeError(w, http.StatusForbidden, "league profile not found")
		return
	}
	gameID, err := pathID(r, "gameID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}

	game, err := s.store.GetGame(r.Context(), league.ID, gameID)
	if err != nil {
		if eris.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load game")
		return
	}
	writeJSON(w, http.StatusOK, game)
}

type gameUpdate struct {
	ScheduledStart   *time.Time        `json:"scheduled_start"`
	AgeGroup         *string           `json:"age_group"`
	GenderFocus      *string           `json:"gender_focus"`
	CompetitionLevel *string           `json:"competition_level"`
	Status           *model.GameStatus `json:"status"`
	CenterFee        *float64          `json:"center_fee"`
	ARFee            *float64          `json:"ar_fee"`
}

func (s *Server) handleUpdateGame(w http.ResponseWriter, r *http.Request) {
	league, err := s.currentLeague(r)
	if err != nil {
		writeError(w, http.StatusForbidden, "league profile not found")
		return
	}
	gameID, err := pathID(r, "gameID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}

	game, err := s.store.GetGame(r.Context(), league.ID, gameID)
	if err != nil {
		writeError(w, http.StatusNotFound, "game not found")
		return
	}

	var req gameUpdate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ScheduledStart != nil {
		game.ScheduledStart = req.ScheduledStart.UTC()
	}
	if req.AgeGroup != nil {
		game.AgeGroup = *req.AgeGroup
	}
	if req.GenderFocus != nil {
		game.GenderFocus = *req.GenderFocus
	}
	if req.CompetitionLevel != nil {
		game.CompetitionLevel = *req.CompetitionLevel
	}
	if req.Status != nil {
		game.Status = *req.Status
	}
	if req.CenterFee != nil {
		game.CenterFee = req.CenterFee
	}
	if req.ARFee != nil {
		game.ARFee = req.ARFee
	}

	if err := s.store.UpdateGame(r.Context(), game); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update game")
		return
	}
	writeJSON(w, http.StatusOK, game)
}

type assignmentRequest struct {
	RefereeID int64  `json:"referee_id"`
	Role      string `json:"role"`
}

// handleCreateAssignment offers a game to a referee.
func (s *Server) handleCreateAssignment(w http.ResponseWriter, r *http.Request) {
	league, err := s.currentLeague(r)
	if err != nil {
		writeError(w, http.StatusForbidden, "league profile not found")
		return
	}
	gameID, err := pathID(r, "gameID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}

	var req assignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Role == "" {
		req.Role = "center"
	}

	if _, err := s.store.GetGame(r.Context(), league.ID, gameID); err != nil {
		writeError(w, http.StatusNotFound, "game not found")
		return
	}
	if _, err := s.store.GetRefereeProfile(r.Context(), req.RefereeID); err != nil {
		writeError(w, http.StatusNotFound, "referee not found")
		return
	}

	assignment := &model.Assignment{GameID: gameID, RefereeID: req.RefereeID, Role: req.Role}
	if err := s.store.CreateAssignment(r.Context(), assignment); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create assignment")
		return
	}
	writeJSON(w, http.StatusCreated, assignment)
}

func (s *Server) handleListGameAssignments(w http.ResponseWriter, r *http.Request) {
	league, err := s.currentLeague(r)
	if err != nil {
		writeError(w, http.StatusForbidden, "league profile not found")
		return
	}
	gameID, err := pathID(r, "gameID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}
	if _, err := s.store.GetGame(r.Context(), league.ID, gameID); err != nil {
		writeError(w, http.StatusNotFound, "game not found")
		return
	}

	assignments, err := s.store.ListAssignmentsForGame(r.Context(), gameID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list assignments")
		return
	}
	if assignments == nil {
		assignments = []model.Assignment{}
	}
	writeJSON(w, http.StatusOK, assignments)
}

func (s *Server) handleMyAssignments(w http.ResponseWriter, r *http.Request) {
	profile, err := s.currentReferee(r)
	if err != nil {
		writeError(w, http.StatusForbidden, "referee profile not found")
		return
	}

	assignments, err := s.store.ListAssignmentsForReferee(r.Context(), profile.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list assignments")
		return
	}
	if assignments == nil {
		assignments = []model.Assignment{}
	}
	writeJSON(w, http.StatusOK, assignments)
}

type respondRequest struct {
	Accept bool `json:"accept"`
}

// handleRespondAssignment lets the offered referee accept or decline. An
// accepted assignment flips its game to assigned.
func (s *Server) handleRespondAssignment(w http.ResponseWriter, r *http.Request) {
	profile, err := s.currentReferee(r)
	if err != nil {
		writeError(w, http.StatusForbidden, "referee profile not found")
		return
	}
	assignmentID, err := pathID(r, "assignmentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid assignment id")
		return
	}

	assignment, err := s.store.GetAssignment(r.Context(), assignmentID)
	if err != nil {
		writeError(w, http.StatusNotFound, "assignment not found")
		return
	}
	if assignment.RefereeID != profile.ID {
		writeError(w, http.StatusForbidden, "assignment belongs to another referee")
		return
	}
	if assignment.Status != model.AssignmentStatusRequested {
		writeError(w, http.StatusConflict, "assignment already answered")
		return
	}

	var req respondRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status := model.AssignmentStatusDeclined
	if req.Accept {
		status = model.AssignmentStatusAccepted
	}

	err = s.store.RunInTx(r.Context(), func(tx store.Store) error {
		if err := tx.UpdateAssignmentStatus(r.Context(), assignment.ID, status); err != nil {
			return err
		}
		if status != model.AssignmentStatusAccepted {
			return nil
		}
		game, err := tx.GetGameByID(r.Context(), assignment.GameID)
		if err != nil {
			return err
		}
		game.Status = model.GameStatusAssigned
		return tx.UpdateGame(r.Context(), game)
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update assignment")
		return
	}

	assignment.Status = status
	writeJSON(w, http.StatusOK, assignment)
}
