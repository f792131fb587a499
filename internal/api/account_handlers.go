package api

import (
	"net/http"

	"github.com/vytor/puzzlequest/internal/models"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req, false); err != nil {
		handleError(w, r, err)
		return
	}

	user, err := s.UserService.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, user.Public())
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req, false); err != nil {
		handleError(w, r, err)
		return
	}

	user, err := s.UserService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user.Public())
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.UserService.Logout(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.UserService.CurrentUser(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user.Public())
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.UserService.Settings(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, settings)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch models.SettingsPatch
	if err := decodeJSON(r, &patch, false); err != nil {
		handleError(w, r, err)
		return
	}

	settings, err := s.UserService.UpdateSettings(r.Context(), patch)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, settings)
}
