package rest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/recipebox/internal/server/models"
	"github.com/dmitrijs2005/recipebox/internal/server/services"
	"github.com/go-chi/chi/v5"
)

type recipeCreateRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// optionalString records whether a JSON field was present at all, so an
// explicit null can be told apart from an absent key.
type optionalString struct {
	Set   bool
	Value *string
}

func (o *optionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

type recipeUpdateRequest struct {
	Title       optionalString `json:"title"`
	Description optionalString `json:"description"`
}

// queryInt reads a non-negative integer query parameter.
func queryInt(r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func recipeID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	skip, ok := queryInt(r, "skip", 0)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "skip must be a non-negative integer")
		return
	}
	limit, ok := queryInt(r, "limit", services.DefaultLimit)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "limit must be a non-negative integer")
		return
	}

	list, err := s.recipes.List(r.Context(), skip, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req recipeCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	recipe, err := s.recipes.Create(r.Context(), userFrom(r.Context()), req.Title, req.Description)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Recipe created", "recipe_id", recipe.ID, "author_id", recipe.AuthorID)
	writeJSON(w, http.StatusCreated, recipe)
}

func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := recipeID(r)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "recipe id must be an integer")
		return
	}

	recipe, err := s.recipes.Get(r.Context(), id)
	if err != nil {
		s.writeRecipeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

func (s *Server) handleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := recipeID(r)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "recipe id must be an integer")
		return
	}

	var req recipeUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title.Set && req.Title.Value == nil {
		writeDetail(w, http.StatusUnprocessableEntity, "title may not be null")
		return
	}

	upd := models.RecipeUpdate{
		Title:            req.Title.Value,
		Description:      req.Description.Value,
		ClearDescription: req.Description.Set && req.Description.Value == nil,
	}
	recipe, err := s.recipes.Update(r.Context(), userFrom(r.Context()), id, upd)
	if err != nil {
		s.writeRecipeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

func (s *Server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := recipeID(r)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "recipe id must be an integer")
		return
	}

	if _, err := s.recipes.Delete(r.Context(), userFrom(r.Context()), id); err != nil {
		s.writeRecipeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Recipe deleted", "recipe_id", id)
	w.WriteHeader(http.StatusNoContent)
}
