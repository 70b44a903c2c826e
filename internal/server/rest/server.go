// Package rest exposes the recipe API over HTTP using a chi router.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/logging"
	"github.com/dmitrijs2005/recipebox/internal/server/config"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
	"github.com/dmitrijs2005/recipebox/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type UserService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.Token, error)
	CurrentUser(ctx context.Context, token string) (*models.User, error)
	Delete(ctx context.Context, userID int64) error
}

type RecipeService interface {
	EnforcesOwnership() bool
	List(ctx context.Context, skip, limit int) ([]*models.Recipe, error)
	Get(ctx context.Context, id int64) (*models.Recipe, error)
	Create(ctx context.Context, owner *models.User, title string, description *string) (*models.Recipe, error)
	Update(ctx context.Context, caller *models.User, id int64, upd models.RecipeUpdate) (*models.Recipe, error)
	Delete(ctx context.Context, caller *models.User, id int64) (*models.Recipe, error)
}

// Pinger reports database reachability for /healthz. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	address           string
	corsOrigins       []string
	readHeaderTimeout time.Duration
	shutdownTimeout   time.Duration
	users             UserService
	recipes           RecipeService
	db                Pinger
	logger            logging.Logger
}

func NewServer(cfg *config.Config, l logging.Logger, us UserService, rs RecipeService, db Pinger) *Server {
	return &Server{
		address:           cfg.ServerAddress,
		corsOrigins:       cfg.CORSOrigins,
		readHeaderTimeout: cfg.ReadHeaderTimeout,
		shutdownTimeout:   cfg.ShutdownTimeout,
		users:             us,
		recipes:           rs,
		db:                db,
		logger:            l.With("module", "http_server"),
	}
}

// Handler builds the router. Every path is served with and without a
// trailing slash.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
			http.MethodDelete, http.MethodOptions, http.MethodHead,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.StripSlashes)

	r.Get("/", s.handleRoot)
	r.Get("/healthz", s.handleHealth)

	r.Post("/login", s.handleLogin)
	r.Post("/users", s.handleRegister)
	r.With(s.requireUser).Get("/users/me", s.handleMe)
	r.With(s.requireUser).Delete("/users/me", s.handleDeleteMe)

	r.Get("/recipes", s.handleListRecipes)
	r.With(s.requireUser).Post("/recipes", s.handleCreateRecipe)
	r.Get("/recipes/{id}", s.handleGetRecipe)
	r.With(s.ownerIfEnforced).Put("/recipes/{id}", s.handleUpdateRecipe)
	r.With(s.ownerIfEnforced).Delete("/recipes/{id}", s.handleDeleteRecipe)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests within
// the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
