package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/recipebox/internal/common"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the Recipe Sharing API!"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Warn(r.Context(), "health check failed", "error", err.Error())
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLogin accepts the OAuth2 password form: username carries the email.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid form body")
		return
	}

	email := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")
	if email == "" || password == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "username and password are required")
		return
	}

	token, err := s.users.Login(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeUnauthorized(w, "Incorrect email or password")
			return
		}
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Logged in", "request_id", requestIDFrom(r.Context()))
	writeJSON(w, http.StatusOK, token)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := s.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFrom(r.Context()))
}

func (s *Server) handleDeleteMe(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	if err := s.users.Delete(r.Context(), user.ID); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "User deleted", "user_id", user.ID)
	w.WriteHeader(http.StatusNoContent)
}
