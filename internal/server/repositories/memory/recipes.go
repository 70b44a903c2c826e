package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
)

type RecipeRepository struct {
	s *store
}

// withAuthor fills the author view from the user table; callers hold the lock.
func (r *RecipeRepository) withAuthor(rec models.Recipe) *models.Recipe {
	rec.Author = models.Author{ID: rec.AuthorID, UserName: r.s.users[rec.AuthorID].UserName}
	if rec.Description != nil {
		d := *rec.Description
		rec.Description = &d
	}
	return &rec
}

func (r *RecipeRepository) List(ctx context.Context, skip, limit int) ([]*models.Recipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ids := make([]int64, 0, len(r.s.recipes))
	for id := range r.s.recipes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	result := make([]*models.Recipe, 0)
	for i := skip; i < len(ids) && len(result) < limit; i++ {
		result = append(result, r.withAuthor(r.s.recipes[ids[i]]))
	}
	return result, nil
}

func (r *RecipeRepository) Get(ctx context.Context, id int64) (*models.Recipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.recipes[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.withAuthor(rec), nil
}

func (r *RecipeRepository) Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[recipe.AuthorID]; !ok {
		return nil, fmt.Errorf("db error: author %d does not exist", recipe.AuthorID)
	}

	r.s.nextRecipeID++
	now := time.Now().UTC()
	stored := *recipe
	stored.ID = r.s.nextRecipeID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	if recipe.Description != nil {
		d := *recipe.Description
		stored.Description = &d
	}
	r.s.recipes[stored.ID] = stored

	recipe.ID = stored.ID
	recipe.CreatedAt = now
	recipe.UpdatedAt = now
	recipe.Author.ID = recipe.AuthorID
	return recipe, nil
}

func (r *RecipeRepository) Update(ctx context.Context, id int64, upd models.RecipeUpdate) (*models.Recipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.recipes[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if upd.Empty() {
		return r.withAuthor(rec), nil
	}
	if upd.Title != nil {
		rec.Title = *upd.Title
	}
	switch {
	case upd.ClearDescription:
		rec.Description = nil
	case upd.Description != nil:
		d := *upd.Description
		rec.Description = &d
	}
	rec.UpdatedAt = time.Now().UTC()
	r.s.recipes[id] = rec
	return r.withAuthor(rec), nil
}

func (r *RecipeRepository) Delete(ctx context.Context, id int64) (*models.Recipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.recipes[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := r.withAuthor(rec)
	delete(r.s.recipes, id)
	return out, nil
}

func (r *RecipeRepository) DeleteByAuthor(ctx context.Context, authorID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, rec := range r.s.recipes {
		if rec.AuthorID == authorID {
			delete(r.s.recipes, id)
			n++
		}
	}
	return n, nil
}
