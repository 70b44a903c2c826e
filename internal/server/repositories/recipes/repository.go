package recipes

import (
	"context"

	"github.com/dmitrijs2005/recipebox/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, skip, limit int) ([]*models.Recipe, error)
	Get(ctx context.Context, id int64) (*models.Recipe, error)
	Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error)
	Update(ctx context.Context, id int64, upd models.RecipeUpdate) (*models.Recipe, error)
	Delete(ctx context.Context, id int64) (*models.Recipe, error)
	DeleteByAuthor(ctx context.Context, authorID int64) (int64, error)
}
