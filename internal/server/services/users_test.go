package services

import (
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/dbx"
	"github.com/dmitrijs2005/recipebox/internal/server/auth"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/recipes"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_OnceOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.users.Register(ctx, "alice", "a@x.com", "pw")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "alice", u.UserName)
	assert.NotEqual(t, "pw", u.HashedPassword)
	assert.True(t, auth.VerifyPassword("pw", u.HashedPassword))

	_, err = f.users.Register(ctx, "alice2", "a@x.com", "pw")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
	assert.ErrorIs(t, err, common.ErrEmailTaken)

	_, err = f.users.Register(ctx, "alice", "other@x.com", "pw")
	assert.ErrorIs(t, err, common.ErrUsernameTaken)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name, username, email, password string
	}{
		{"no username", " ", "a@x.com", "pw"},
		{"no email", "alice", "", "pw"},
		{"no password", "alice", "a@x.com", ""},
		{"long username", strings.Repeat("u", 51), "a@x.com", "pw"},
		{"long email", "alice", strings.Repeat("e", 101), "pw"},
		{"long password", "alice", "a@x.com", strings.Repeat("p", 73)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.users.Register(context.Background(), tt.username, tt.email, tt.password)
			assert.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}

func TestLogin_SubjectIsEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.Register(ctx, "alice", "a@x.com", "pw")
	require.NoError(t, err)

	tok, err := f.users.Login(ctx, "a@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, TokenTypeBearer, tok.TokenType)

	sub, err := auth.GetSubjectFromToken(tok.AccessToken, []byte("k"), "HS256")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", sub)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.Register(ctx, "alice", "a@x.com", "pw")
	require.NoError(t, err)

	_, wrongPassword := f.users.Login(ctx, "a@x.com", "nope")
	_, unknownEmail := f.users.Login(ctx, "ghost@x.com", "pw")

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword, unknownEmail)
	assert.ErrorIs(t, wrongPassword, common.ErrorUnauthorized)
}

type failingUsers struct {
	users.Repository
	err error
}

func (f failingUsers) GetUserByEmail(context.Context, string) (*models.User, error) {
	return nil, f.err
}

type failingUsersManager struct {
	repomanager.RepositoryManager
	err error
}

func (m failingUsersManager) Users(dbx.DBTX) users.Repository {
	return failingUsers{err: m.err}
}

func TestLogin_StorageFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	s := NewUserService(f.db, failingUsersManager{RepositoryManager: f.rm, err: errBoom}, testConfig())

	_, err := s.Login(context.Background(), "a@x.com", "pw")
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestCurrentUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.users.Register(ctx, "alice", "a@x.com", "pw")
	require.NoError(t, err)
	tok, err := f.users.Login(ctx, "a@x.com", "pw")
	require.NoError(t, err)

	got, err := f.users.CurrentUser(ctx, tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = f.users.CurrentUser(ctx, "garbage")
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	require.NoError(t, f.rm.UserRepository().Delete(ctx, u.ID))
	_, err = f.users.CurrentUser(ctx, tok.AccessToken)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestDelete_CascadesInOneTransaction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice, err := f.users.Register(ctx, "alice", "a@x.com", "pw")
	require.NoError(t, err)
	bob, err := f.users.Register(ctx, "bob", "b@x.com", "pw")
	require.NoError(t, err)

	soup, err := f.recipes.Create(ctx, alice, "Soup", nil)
	require.NoError(t, err)
	stew, err := f.recipes.Create(ctx, alice, "Stew", nil)
	require.NoError(t, err)
	pie, err := f.recipes.Create(ctx, bob, "Pie", nil)
	require.NoError(t, err)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	require.NoError(t, f.users.Delete(ctx, alice.ID))
	require.NoError(t, f.mock.ExpectationsWereMet())

	for _, id := range []int64{soup.ID, stew.ID} {
		_, err := f.recipes.Get(ctx, id)
		assert.ErrorIs(t, err, common.ErrorNotFound)
	}
	_, err = f.recipes.Get(ctx, pie.ID)
	assert.NoError(t, err)

	_, err = f.users.Login(ctx, "a@x.com", "pw")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

type failingRecipes struct {
	recipes.Repository
}

func (failingRecipes) DeleteByAuthor(context.Context, int64) (int64, error) {
	return 0, errBoom
}

type failingRecipesManager struct {
	repomanager.RepositoryManager
}

func (failingRecipesManager) Recipes(dbx.DBTX) recipes.Repository {
	return failingRecipes{}
}

func TestDelete_RollsBackOnError(t *testing.T) {
	f := newFixture(t)
	s := NewUserService(f.db, failingRecipesManager{RepositoryManager: f.rm}, testConfig())

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	err := s.Delete(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "error deleting recipes")
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestDelete_UnknownUser(t *testing.T) {
	f := newFixture(t)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	err := f.users.Delete(context.Background(), 404)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
