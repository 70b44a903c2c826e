package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/server/config"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/repomanager"
)

const (
	DefaultLimit = 100
	maxTitleLen  = 100
)

// RecipeService wraps the recipe repository. With ownership enforcement off
// (the default) Update and Delete accept any caller, including none.
type RecipeService struct {
	db               *sql.DB
	repomanager      repomanager.RepositoryManager
	enforceOwnership bool
}

func NewRecipeService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *RecipeService {
	return &RecipeService{db: db, repomanager: m, enforceOwnership: cfg.EnforceRecipeOwnership}
}

// EnforcesOwnership reports whether Update and Delete require the owner.
func (s *RecipeService) EnforcesOwnership() bool {
	return s.enforceOwnership
}

func (s *RecipeService) List(ctx context.Context, skip, limit int) ([]*models.Recipe, error) {
	if skip < 0 || limit < 0 {
		return nil, fmt.Errorf("%w: skip and limit must not be negative", common.ErrorValidation)
	}
	return s.repomanager.Recipes(s.db).List(ctx, skip, limit)
}

func (s *RecipeService) Get(ctx context.Context, id int64) (*models.Recipe, error) {
	return s.repomanager.Recipes(s.db).Get(ctx, id)
}

// Create stores a recipe owned by owner.
func (s *RecipeService) Create(ctx context.Context, owner *models.User, title string, description *string) (*models.Recipe, error) {
	if owner == nil {
		return nil, common.ErrorUnauthorized
	}
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		Title:       title,
		Description: description,
		AuthorID:    owner.ID,
		Author:      models.Author{ID: owner.ID, UserName: owner.UserName},
	}
	return s.repomanager.Recipes(s.db).Create(ctx, recipe)
}

// Update applies upd to the recipe. caller may be nil unless ownership is
// enforced.
func (s *RecipeService) Update(ctx context.Context, caller *models.User, id int64, upd models.RecipeUpdate) (*models.Recipe, error) {
	if upd.Title != nil {
		if err := validateTitle(*upd.Title); err != nil {
			return nil, err
		}
	}
	if err := s.authorize(ctx, caller, id); err != nil {
		return nil, err
	}
	return s.repomanager.Recipes(s.db).Update(ctx, id, upd)
}

// Delete removes the recipe and returns what was stored.
func (s *RecipeService) Delete(ctx context.Context, caller *models.User, id int64) (*models.Recipe, error) {
	if err := s.authorize(ctx, caller, id); err != nil {
		return nil, err
	}
	return s.repomanager.Recipes(s.db).Delete(ctx, id)
}

func (s *RecipeService) authorize(ctx context.Context, caller *models.User, id int64) error {
	if !s.enforceOwnership {
		return nil
	}
	if caller == nil {
		return common.ErrorUnauthorized
	}
	recipe, err := s.repomanager.Recipes(s.db).Get(ctx, id)
	if err != nil {
		return err
	}
	if recipe.AuthorID != caller.ID {
		return common.ErrorForbidden
	}
	return nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", common.ErrorValidation)
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return fmt.Errorf("%w: title longer than %d characters", common.ErrorValidation, maxTitleLen)
	}
	return nil
}
