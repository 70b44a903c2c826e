package memory

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsers_UniqueEmailAndUsername(t *testing.T) {
	ctx := context.Background()
	m := NewRepositoryManager()
	repo := m.Users(nil)

	u, err := repo.Create(ctx, &models.User{UserName: "alice", Email: "a@x.com", HashedPassword: "h"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	_, err = repo.Create(ctx, &models.User{UserName: "other", Email: "a@x.com"})
	assert.ErrorIs(t, err, common.ErrEmailTaken)

	_, err = repo.Create(ctx, &models.User{UserName: "alice", Email: "b@x.com"})
	assert.ErrorIs(t, err, common.ErrUsernameTaken)
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestRecipes_ListOrderAndPagination(t *testing.T) {
	ctx := context.Background()
	m := NewRepositoryManager()
	u, err := m.Users(nil).Create(ctx, &models.User{UserName: "alice", Email: "a@x.com"})
	require.NoError(t, err)

	repo := m.Recipes(nil)
	for _, title := range []string{"A", "B", "C"} {
		_, err := repo.Create(ctx, &models.Recipe{Title: title, AuthorID: u.ID})
		require.NoError(t, err)
	}

	page, err := repo.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "B", page[0].Title)
	assert.Equal(t, "alice", page[0].Author.UserName)

	all, err := repo.List(ctx, 0, 100)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := repo.List(ctx, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRecipes_CreateRequiresAuthor(t *testing.T) {
	m := NewRepositoryManager()
	_, err := m.Recipes(nil).Create(context.Background(), &models.Recipe{Title: "orphan", AuthorID: 99})
	assert.Error(t, err)
}

func TestRecipes_StoredCopyIsIsolated(t *testing.T) {
	ctx := context.Background()
	m := NewRepositoryManager()
	u, err := m.Users(nil).Create(ctx, &models.User{UserName: "alice", Email: "a@x.com"})
	require.NoError(t, err)

	desc := "hot"
	rec, err := m.Recipes(nil).Create(ctx, &models.Recipe{Title: "Soup", Description: &desc, AuthorID: u.ID})
	require.NoError(t, err)
	desc = "cold"

	got, err := m.Recipes(nil).Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "hot", *got.Description)
}

func TestRecipes_UpdateClearsDescription(t *testing.T) {
	ctx := context.Background()
	m := NewRepositoryManager()

	u, err := m.Users(nil).Create(ctx, &models.User{UserName: "alice", Email: "a@x.com", HashedPassword: "h"})
	require.NoError(t, err)
	desc := "hot"
	r, err := m.Recipes(nil).Create(ctx, &models.Recipe{Title: "Soup", Description: &desc, AuthorID: u.ID})
	require.NoError(t, err)

	got, err := m.Recipes(nil).Update(ctx, r.ID, models.RecipeUpdate{ClearDescription: true})
	require.NoError(t, err)
	assert.Nil(t, got.Description)
	assert.Equal(t, "Soup", got.Title)

	stored, err := m.Recipes(nil).Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Description)
}
