// Package app provides application-level wiring and dependency injection
// for the house points server.
package app

import (
	"database/sql"
	"fmt"
	"log/slog"

	"housepoints/internal/artifact"
	"housepoints/internal/config"
	"housepoints/internal/db/repository"
	"housepoints/internal/service"
)

// Deps holds the external dependencies that main() must provide.
// These are things the app package cannot (or should not) create itself:
// database handles, config, and the logger.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger
}

// Services groups the service pointers the API handler needs.
type Services struct {
	Certificate *service.CertificateService
	Aggregation *service.AggregationService
	Principal   *service.PrincipalService
	House       *service.HouseService
	Audit       *service.AuditService
}

// App holds the fully-wired application.
type App struct {
	Services  Services
	Artifacts artifact.Store
}

// New wires all repositories and services from the provided deps.
func New(deps Deps) (*App, error) {
	cfg := deps.Cfg

	// Repositories. Mutations go through the write pool; the ledger
	// aggregations read from the read pool.
	principalRepo := repository.NewPrincipalRepo(deps.WriteDB)
	houseRepo := repository.NewHouseRepo(deps.WriteDB)
	certRepo := repository.NewCertificateRepo(deps.WriteDB)
	auditRepo := repository.NewAuditRepo(deps.WriteDB)
	ledgerReadRepo := repository.NewLedgerRepo(deps.ReadDB)

	// Award policy: defaults unless a YAML override file is configured.
	policy := service.DefaultAwardPolicy()
	if cfg.AwardPolicy != "" {
		loaded, err := service.LoadAwardPolicy(cfg.AwardPolicy)
		if err != nil {
			return nil, fmt.Errorf("load award policy %s: %w", cfg.AwardPolicy, err)
		}
		policy = loaded
		deps.Logger.Info("award policy loaded", "path", cfg.AwardPolicy)
	}

	// Artifact store: S3 when fully configured, local directory otherwise.
	var store artifact.Store
	if cfg.HasS3Config() {
		store = artifact.NewS3Store(artifact.S3Options{
			Endpoint: *cfg.S3Endpoint,
			Region:   *cfg.S3Region,
			KeyID:    *cfg.S3KeyID,
			Secret:   *cfg.S3Secret,
			Bucket:   *cfg.S3Bucket,
		})
		deps.Logger.Info("artifact store: s3", "bucket", *cfg.S3Bucket)
	} else {
		local, err := artifact.NewLocalStore(cfg.ArtifactDir)
		if err != nil {
			return nil, fmt.Errorf("local artifact store: %w", err)
		}
		store = local
		deps.Logger.Info("artifact store: local", "dir", cfg.ArtifactDir)
	}

	caps := service.NewCapabilityResolver(principalRepo)

	return &App{
		Services: Services{
			Certificate: service.NewCertificateService(certRepo, caps, policy, auditRepo),
			Aggregation: service.NewAggregationService(ledgerReadRepo, houseRepo),
			Principal:   service.NewPrincipalService(principalRepo, auditRepo),
			House:       service.NewHouseService(houseRepo, principalRepo, auditRepo),
			Audit:       service.NewAuditService(auditRepo),
		},
		Artifacts: store,
	}, nil
}
