package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jorgemochonbernalpersonal/comparathor/internal/config"
	pgrepo "github.com/jorgemochonbernalpersonal/comparathor/internal/repo/postgres"
	redrepo "github.com/jorgemochonbernalpersonal/comparathor/internal/repo/redis"
	authsvc "github.com/jorgemochonbernalpersonal/comparathor/internal/services/auth"
	userssvc "github.com/jorgemochonbernalpersonal/comparathor/internal/services/users"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	jwtManager, err := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	if err != nil {
		return nil, fmt.Errorf("create jwt manager: %w", err)
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)
	r.Use(RequestGate(jwtManager, cfg.CORS.AllowedOrigin, PublicPaths(), log))

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	sessionRepo := redrepo.NewSessionRepo(redisClient)
	userRepo := pgrepo.NewUserRepo(pool)
	roleRepo := pgrepo.NewRoleRepo(pool)

	authService := authsvc.NewService(jwtManager, sessionRepo, userRepo, roleRepo, authsvc.Config{
		RefreshTTL:    cfg.Auth.RefreshTTL,
		DefaultRoleID: cfg.Auth.DefaultRoleID,
	})
	userService := userssvc.NewService(userRepo)

	RegisterRoutes(r, Dependencies{
		AuthService: authService,
		UserService: userService,
		Logger:      log,
		Config:      cfg,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
