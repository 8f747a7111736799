package repositories

import (
	"context"

	"github.com/speedernet/storefront/internal/domain"
)

// RepositoryError wraps lookup failures with categorisation used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
}

// CatalogRepository exposes indexed, read-only access to the static product
// catalog. Implementations are built once from a validated dataset and are
// safe for concurrent readers.
type CatalogRepository interface {
	// Products returns every product in dataset order.
	Products(ctx context.Context) ([]domain.Product, error)
	// Product returns the product with the given id. Missing ids yield a
	// RepositoryError whose IsNotFound reports true.
	Product(ctx context.Context, id string) (domain.Product, error)
	// Categories returns every category in dataset order.
	Categories(ctx context.Context) ([]domain.Category, error)
	// Category returns the category with the given id.
	Category(ctx context.Context, id string) (domain.Category, error)
	// Subcategory returns the subcategory belonging to the given category.
	Subcategory(ctx context.Context, categoryID, subID string) (domain.Subcategory, error)
	// FeaturedProducts returns the featured subset in dataset order.
	FeaturedProducts(ctx context.Context) ([]domain.Product, error)
	// CountByCategory reports how many products in the full dataset belong to
	// the category, independent of any active filter.
	CountByCategory(ctx context.Context, id string) (int, error)
	// CountBySubcategory reports how many products in the full dataset belong
	// to the subcategory within the given category.
	CountBySubcategory(ctx context.Context, categoryID, subID string) (int, error)
}
