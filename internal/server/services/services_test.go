package services

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/recipebox/internal/server/config"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/memory"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                   "k",
		Algorithm:                   "HS256",
		AccessTokenValidityDuration: time.Hour,
	}
}

type fixture struct {
	db      *sql.DB
	mock    sqlmock.Sqlmock
	rm      *memory.RepositoryManager
	users   *UserService
	recipes *RecipeService
}

func newFixture(t *testing.T, mutate ...func(*config.Config)) *fixture {
	t.Helper()
	cfg := testConfig()
	for _, m := range mutate {
		m(cfg)
	}
	db, mock := newSQLMockDB(t)
	rm := memory.NewRepositoryManager()
	return &fixture{
		db:      db,
		mock:    mock,
		rm:      rm,
		users:   NewUserService(db, rm, cfg),
		recipes: NewRecipeService(db, rm, cfg),
	}
}
