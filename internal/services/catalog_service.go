package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/speedernet/storefront/internal/repositories"
)

var (
	// ErrCatalogRepositoryMissing indicates the repository dependency is absent.
	ErrCatalogRepositoryMissing = errors.New("catalog service: repository is not configured")
	// ErrCatalogInvalidInput indicates the caller supplied an invalid identifier.
	ErrCatalogInvalidInput = errors.New("catalog service: invalid input")
)

// CatalogServiceDeps bundles constructor inputs for the catalog service.
type CatalogServiceDeps struct {
	Catalog repositories.CatalogRepository
}

type catalogService struct {
	repo repositories.CatalogRepository
}

// NewCatalogService constructs the catalog service with the supplied dependencies.
func NewCatalogService(deps CatalogServiceDeps) (CatalogService, error) {
	if deps.Catalog == nil {
		return nil, fmt.Errorf("catalog service: catalog repository is required")
	}
	return &catalogService{repo: deps.Catalog}, nil
}

func (s *catalogService) ListProducts(ctx context.Context, criteria FilterCriteria) ([]Product, error) {
	if s.repo == nil {
		return nil, ErrCatalogRepositoryMissing
	}

	criteria.Category = strings.TrimSpace(criteria.Category)
	criteria.Subcategory = strings.TrimSpace(criteria.Subcategory)

	products, err := s.repo.Products(ctx)
	if err != nil {
		return nil, err
	}
	return FilterProducts(products, criteria), nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]CategorySummary, error) {
	if s.repo == nil {
		return nil, ErrCatalogRepositoryMissing
	}

	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]CategorySummary, 0, len(categories))
	for _, category := range categories {
		count, err := s.repo.CountByCategory(ctx, category.ID)
		if err != nil {
			return nil, err
		}
		summary := CategorySummary{
			ID:           category.ID,
			Name:         category.Name,
			ProductCount: count,
		}
		for _, sub := range category.Subcategories {
			subCount, err := s.repo.CountBySubcategory(ctx, category.ID, sub.ID)
			if err != nil {
				return nil, err
			}
			summary.Subcategories = append(summary.Subcategories, SubcategorySummary{
				ID:           sub.ID,
				Name:         sub.Name,
				ProductCount: subCount,
			})
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *catalogService) GetCategory(ctx context.Context, categoryID string) (Category, error) {
	if s.repo == nil {
		return Category{}, ErrCatalogRepositoryMissing
	}
	categoryID = strings.TrimSpace(categoryID)
	if categoryID == "" {
		return Category{}, fmt.Errorf("%w: category id is required", ErrCatalogInvalidInput)
	}
	return s.repo.Category(ctx, categoryID)
}

func (s *catalogService) ListFeatured(ctx context.Context) ([]Product, error) {
	if s.repo == nil {
		return nil, ErrCatalogRepositoryMissing
	}
	return s.repo.FeaturedProducts(ctx)
}

func (s *catalogService) TotalProducts(ctx context.Context) (int, error) {
	if s.repo == nil {
		return 0, ErrCatalogRepositoryMissing
	}
	products, err := s.repo.Products(ctx)
	if err != nil {
		return 0, err
	}
	return len(products), nil
}

func (s *catalogService) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	if s.repo == nil {
		return 0, ErrCatalogRepositoryMissing
	}
	categoryID = strings.TrimSpace(categoryID)
	if categoryID == "" {
		return 0, fmt.Errorf("%w: category id is required", ErrCatalogInvalidInput)
	}
	return s.repo.CountByCategory(ctx, categoryID)
}

func (s *catalogService) CountBySubcategory(ctx context.Context, categoryID, subID string) (int, error) {
	if s.repo == nil {
		return 0, ErrCatalogRepositoryMissing
	}
	categoryID = strings.TrimSpace(categoryID)
	subID = strings.TrimSpace(subID)
	if categoryID == "" || subID == "" {
		return 0, fmt.Errorf("%w: category and subcategory ids are required", ErrCatalogInvalidInput)
	}
	return s.repo.CountBySubcategory(ctx, categoryID, subID)
}

// IsRepositoryNotFound reports whether the error is a categorised not-found
// lookup failure from the catalog repository.
func IsRepositoryNotFound(err error) bool {
	if err == nil {
		return false
	}
	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		return repoErr.IsNotFound()
	}
	return false
}
