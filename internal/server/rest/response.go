package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/recipebox/internal/common"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

type detail struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a bounded JSON body into v. On failure it writes 413 or
// 422 and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeDetail(w, http.StatusRequestEntityTooLarge, "request body too large")
		return false
	}
	writeDetail(w, http.StatusUnprocessableEntity, "invalid JSON body")
	return false
}

func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, detail{Detail: msg})
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeDetail(w, http.StatusUnauthorized, msg)
}

// writeError maps service errors to HTTP statuses. Unclassified errors are
// logged and reported as 500 without detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		writeDetail(w, http.StatusNotFound, "Not found")
	case errors.Is(err, common.ErrEmailTaken):
		writeDetail(w, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, common.ErrUsernameTaken):
		writeDetail(w, http.StatusBadRequest, "Username already registered")
	case errors.Is(err, common.ErrorAlreadyExists):
		writeDetail(w, http.StatusBadRequest, "Already exists")
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		writeUnauthorized(w, "Could not validate credentials")
	case errors.Is(err, common.ErrorForbidden):
		writeDetail(w, http.StatusForbidden, "Not enough permissions")
	default:
		s.logger.Error(r.Context(), "request failed",
			"request_id", requestIDFrom(r.Context()),
			"path", r.URL.Path,
			"error", err.Error(),
		)
		writeDetail(w, http.StatusInternalServerError, "internal error")
	}
}

// writeRecipeError is writeError with the recipe-specific 404 message.
func (s *Server) writeRecipeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, common.ErrorNotFound) {
		writeDetail(w, http.StatusNotFound, "Recipe not found")
		return
	}
	s.writeError(w, r, err)
}
