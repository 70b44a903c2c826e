// Package services contains the server-side business logic. UserService
// handles registration, login, bearer token resolution and account removal.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/dbx"
	"github.com/dmitrijs2005/recipebox/internal/server/auth"
	"github.com/dmitrijs2005/recipebox/internal/server/config"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/repomanager"
)

// TokenTypeBearer is the token_type reported with every access token.
const TokenTypeBearer = "bearer"

// Column limits from the users migration.
const (
	maxUsernameLen = 50
	maxEmailLen    = 100
)

// Token is the result of a successful login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	algorithm                   string
	accessTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		algorithm:                   cfg.Algorithm,
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates an account. A taken email is reported before hashing;
// a taken username surfaces from the unique constraint.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := validateRegistration(username, email, password); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %w", common.ErrorAlreadyExists, common.ErrEmailTaken)
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := repo.Create(ctx, &models.User{UserName: username, Email: email, HashedPassword: hash})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

func validateRegistration(username, email, password string) error {
	switch {
	case username == "":
		return fmt.Errorf("%w: username is required", common.ErrorValidation)
	case utf8.RuneCountInString(username) > maxUsernameLen:
		return fmt.Errorf("%w: username longer than %d characters", common.ErrorValidation, maxUsernameLen)
	case email == "":
		return fmt.Errorf("%w: email is required", common.ErrorValidation)
	case utf8.RuneCountInString(email) > maxEmailLen:
		return fmt.Errorf("%w: email longer than %d characters", common.ErrorValidation, maxEmailLen)
	case password == "":
		return fmt.Errorf("%w: password is required", common.ErrorValidation)
	}
	return nil
}

// Login checks the credentials and issues a bearer token bound to the email.
// An unknown email and a wrong password both return common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*Token, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			auth.VerifyPassword(password, auth.DummyHash())
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if !auth.VerifyPassword(password, user.HashedPassword) {
		return nil, common.ErrorUnauthorized
	}

	access, err := auth.GenerateToken(user.Email, s.jwtSecret, s.algorithm, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &Token{AccessToken: access, TokenType: TokenTypeBearer}, nil
}

// CurrentUser resolves a bearer token to its user. Token failures are
// returned as-is (ErrInvalidToken, ErrTokenExpired); a token whose user no
// longer exists yields ErrorUnauthorized.
func (s *UserService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	email, err := auth.GetSubjectFromToken(token, s.jwtSecret, s.algorithm)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// Delete removes the user and every recipe they own in one transaction:
// recipes first, then the user row.
func (s *UserService) Delete(ctx context.Context, userID int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Recipes(tx).DeleteByAuthor(ctx, userID); err != nil {
			return fmt.Errorf("error deleting recipes: %w", err)
		}
		if err := s.repomanager.Users(tx).Delete(ctx, userID); err != nil {
			return fmt.Errorf("error deleting user: %w", err)
		}
		return nil
	})
}
