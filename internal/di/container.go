package di

import (
	"errors"
	"fmt"

	"github.com/speedernet/storefront/internal/platform/config"
	"github.com/speedernet/storefront/internal/repositories"
	"github.com/speedernet/storefront/internal/services"
)

// Services bundles the service-layer contracts that handlers rely upon. Concrete implementations
// are assembled via dependency injection in NewContainer.
type Services struct {
	Catalog  services.CatalogService
	Details  services.DetailService
	Sessions services.SessionService
}

// Container wires the catalog repository and services for runtime use.
type Container struct {
	Config     config.Config
	Repository repositories.CatalogRepository
	Services   Services
}

// NewContainer constructs the runtime dependencies. Production wiring provides the indexed
// in-memory store built from the dataset; tests can supply stub repositories.
func NewContainer(cfg config.Config, repo repositories.CatalogRepository) (*Container, error) {
	if repo == nil {
		return nil, errors.New("catalog repository is required")
	}

	svc, err := buildServices(repo, cfg)
	if err != nil {
		return nil, err
	}

	return &Container{
		Config:     cfg,
		Repository: repo,
		Services:   svc,
	}, nil
}

func buildServices(repo repositories.CatalogRepository, cfg config.Config) (Services, error) {
	var svc Services

	catalogSvc, err := services.NewCatalogService(services.CatalogServiceDeps{Catalog: repo})
	if err != nil {
		return Services{}, fmt.Errorf("build catalog service: %w", err)
	}
	svc.Catalog = catalogSvc

	detailSvc, err := services.NewDetailService(services.DetailServiceDeps{Catalog: repo})
	if err != nil {
		return Services{}, fmt.Errorf("build detail service: %w", err)
	}
	svc.Details = detailSvc

	sessionSvc, err := services.NewSessionService(services.SessionServiceDeps{
		TTL:         cfg.Sessions.TTL,
		MaxSessions: cfg.Sessions.MaxCount,
	})
	if err != nil {
		return Services{}, fmt.Errorf("build session service: %w", err)
	}
	svc.Sessions = sessionSvc

	return svc, nil
}
