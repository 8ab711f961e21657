package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"

	"housepoints/internal/api"
	"housepoints/internal/app"
	"housepoints/internal/config"
	internaldb "housepoints/internal/db"
	"housepoints/internal/db/repository"
	"housepoints/internal/middleware"
	"housepoints/internal/service"
)

func main() {
	// Load .env file (if present)
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	// Open SQLite with hardened connection settings.
	// writeDB: single-connection pool for serialized writes (WAL + txlock=immediate).
	// readDB:  4-connection pool for concurrent aggregation reads.
	writeDB, readDB, err := internaldb.OpenSQLitePair(cfg.DBPath, 4)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer writeDB.Close()
	defer readDB.Close()

	if err := internaldb.RunMigrations(writeDB); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	application, err := app.New(app.Deps{Cfg: cfg, WriteDB: writeDB, ReadDB: readDB, Logger: logger})
	if err != nil {
		log.Fatalf("wire application: %v", err)
	}

	// Seed demo data in development only.
	if !cfg.IsProduction() {
		if err := app.SeedDemo(context.Background(),
			repository.NewPrincipalRepo(writeDB), repository.NewHouseRepo(writeDB)); err != nil {
			logger.Warn("seed demo data failed", "error", err)
		}
	}

	handler := api.NewHandler(
		application.Services.Certificate,
		application.Services.Aggregation,
		application.Services.Principal,
		application.Services.House,
		application.Services.Audit,
		application.Artifacts,
		int64(cfg.MaxUploadKiB)*1024,
	)

	validator, err := buildValidator(cfg)
	if err != nil {
		log.Fatalf("auth validator: %v", err)
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	}))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", api.Healthz)

	principalSvc := application.Services.Principal
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Auth(validator, principalSvc))
		handler.Routes(r)
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http api listening", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// buildValidator selects OIDC when an issuer is configured, otherwise the
// HS256 shared-secret validator for local development.
func buildValidator(cfg *config.Config) (middleware.JWTValidator, error) {
	if cfg.Auth.OIDCEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return middleware.NewOIDCValidator(ctx, cfg.Auth.IssuerURL, cfg.Auth.Audience)
	}
	return middleware.NewHS256Validator(cfg.Auth.JWTSecret)
}

// compile-time check that the principal service satisfies the middleware
// resolver contract.
var _ middleware.PrincipalResolver = (*service.PrincipalService)(nil)
