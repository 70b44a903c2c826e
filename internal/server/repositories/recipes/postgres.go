// Package recipes provides the PostgreSQL-backed recipe repository. Every
// read joins the author so a Recipe always carries Author.UserName.
package recipes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/dbx"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
)

const selectRecipe = `SELECT r.id, r.title, r.description, r.author_id, u.username, r.created_at, r.updated_at
	FROM %s r JOIN users u ON u.id = r.author_id`

const recipeColumns = `id, title, description, author_id, created_at, updated_at`

// PostgresRepository implements recipe storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (*models.Recipe, error) {
	var rec models.Recipe
	if err := row.Scan(&rec.ID, &rec.Title, &rec.Description, &rec.AuthorID, &rec.Author.UserName,
		&rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	rec.Author.ID = rec.AuthorID
	return &rec, nil
}

// List returns up to limit recipes after skipping skip, in id order.
func (r *PostgresRepository) List(ctx context.Context, skip, limit int) ([]*models.Recipe, error) {
	query := fmt.Sprintf(selectRecipe, "recipes") + `
		ORDER BY r.id
		OFFSET $1 LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Recipe, 0)
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Recipe, error) {
	query := fmt.Sprintf(selectRecipe, "recipes") + `
		WHERE r.id = $1`

	return r.one(ctx, query, id)
}

// Create inserts recipe owned by recipe.AuthorID. The caller supplies
// Author.UserName; id and timestamps are filled from the database.
func (r *PostgresRepository) Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	query :=
		`INSERT INTO recipes (title, description, author_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, recipe.Title, recipe.Description, recipe.AuthorID).
		Scan(&recipe.ID, &recipe.CreatedAt, &recipe.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	recipe.Author.ID = recipe.AuthorID
	return recipe, nil
}

// Update writes only the fields set in upd. An empty update returns the
// stored recipe unchanged.
func (r *PostgresRepository) Update(ctx context.Context, id int64, upd models.RecipeUpdate) (*models.Recipe, error) {
	if upd.Empty() {
		return r.Get(ctx, id)
	}

	var (
		sets []string
		args []any
	)
	if upd.Title != nil {
		args = append(args, *upd.Title)
		sets = append(sets, "title = $"+strconv.Itoa(len(args)))
	}
	switch {
	case upd.ClearDescription:
		sets = append(sets, "description = NULL")
	case upd.Description != nil:
		args = append(args, *upd.Description)
		sets = append(sets, "description = $"+strconv.Itoa(len(args)))
	}
	args = append(args, id)

	query := `WITH changed AS (
			UPDATE recipes SET ` + strings.Join(sets, ", ") + `
			WHERE id = $` + strconv.Itoa(len(args)) + `
			RETURNING ` + recipeColumns + `
		)
		` + fmt.Sprintf(selectRecipe, "changed")

	return r.one(ctx, query, args...)
}

// Delete removes the recipe and returns it as it was stored.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) (*models.Recipe, error) {
	query := `WITH removed AS (
			DELETE FROM recipes WHERE id = $1
			RETURNING ` + recipeColumns + `
		)
		` + fmt.Sprintf(selectRecipe, "removed")

	return r.one(ctx, query, id)
}

// DeleteByAuthor removes every recipe owned by authorID and reports how many
// rows went away.
func (r *PostgresRepository) DeleteByAuthor(ctx context.Context, authorID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recipes WHERE author_id = $1`, authorID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) one(ctx context.Context, query string, args ...any) (*models.Recipe, error) {
	rec, err := scanRecipe(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}
