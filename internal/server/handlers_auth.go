package server

import (
	"net/http"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/refnexus/refnexus/internal/auth"
	"github.com/refnexus/refnexus/internal/model"
	"github.com/refnexus/refnexus/internal/store"
)

type registerRequest struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
	FullName string     `json:"full_name"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// handleRegister creates a user and their empty league or referee profile in
// one transaction, then issues a token.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}
	if req.Role != model.RoleLeague && req.Role != model.RoleReferee {
		writeError(w, http.StatusBadRequest, "role must be league or ref")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	user := &model.User{Email: req.Email, PasswordHash: hash, Role: req.Role}
	err = s.store.RunInTx(r.Context(), func(tx store.Store) error {
		if err := tx.CreateUser(r.Context(), user); err != nil {
			return err
		}
		switch req.Role {
		case model.RoleLeague:
			return tx.CreateLeague(r.Context(), &model.League{UserID: user.ID, Name: req.FullName})
		default:
			return tx.CreateRefereeProfile(r.Context(), &model.RefereeProfile{UserID: user.ID, FullName: req.FullName})
		}
	})
	if err != nil {
		zap.L().Warn("registration failed", zap.String("email", req.Email), zap.Error(err))
		writeError(w, http.StatusConflict, "email already registered")
		return
	}

	token, err := s.auth.IssueToken(user.ID, user.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if eris.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.auth.IssueToken(user.ID, user.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}
