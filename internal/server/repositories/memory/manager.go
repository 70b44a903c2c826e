// Package memory keeps users and recipes in process memory. It satisfies
// repomanager.RepositoryManager and backs service and handler tests; the
// DBTX handed to its factories is ignored.
package memory

import (
	"context"
	"database/sql"
	"sync"

	"github.com/dmitrijs2005/recipebox/internal/dbx"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/recipes"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/users"
)

type store struct {
	mu           sync.Mutex
	nextUserID   int64
	nextRecipeID int64
	users        map[int64]models.User
	recipes      map[int64]models.Recipe
}

type RepositoryManager struct {
	s       *store
	users   *UserRepository
	recipes *RecipeRepository
}

func NewRepositoryManager() *RepositoryManager {
	s := &store{
		users:   make(map[int64]models.User),
		recipes: make(map[int64]models.Recipe),
	}
	return &RepositoryManager{s: s, users: &UserRepository{s: s}, recipes: &RecipeRepository{s: s}}
}

func (m *RepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *RepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.users
}

func (m *RepositoryManager) Recipes(dbx.DBTX) recipes.Repository {
	return m.recipes
}

// UserRepository returns the concrete user store, for tests that seed data.
func (m *RepositoryManager) UserRepository() *UserRepository {
	return m.users
}

// RecipeRepository returns the concrete recipe store.
func (m *RepositoryManager) RecipeRepository() *RecipeRepository {
	return m.recipes
}
