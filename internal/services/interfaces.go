package services

import (
	"context"

	"github.com/speedernet/storefront/internal/domain"
)

// Type aliases expose domain models to the services package without reversing dependency direction.
type (
	Product     = domain.Product
	Category    = domain.Category
	Subcategory = domain.Subcategory
	Breadcrumb  = domain.Breadcrumb
)

// FilterCriteria selects the facets applied to a product listing. Zero-valued
// fields leave their facet unfiltered.
type FilterCriteria struct {
	Category    string
	Subcategory string
	Query       string
}

// IsZero reports whether no facet is active.
func (c FilterCriteria) IsZero() bool {
	return c.Category == "" && c.Subcategory == "" && c.Query == ""
}

// SubcategorySummary pairs a subcategory with its full-dataset product count.
type SubcategorySummary struct {
	ID           string
	Name         string
	ProductCount int
}

// CategorySummary is the sidebar/menu view of a category: full-dataset counts
// that never change with the active filter.
type CategorySummary struct {
	ID            string
	Name          string
	ProductCount  int
	Subcategories []SubcategorySummary
}

// ProductDetail is the composed view-model for a product detail page.
type ProductDetail struct {
	Product         Product
	Category        Category
	Subcategory     *Subcategory
	RelatedProducts []Product
	Images          []string
	Breadcrumbs     []Breadcrumb
}

// CatalogService exposes catalog listings, facet counts, and category lookups.
type CatalogService interface {
	ListProducts(ctx context.Context, criteria FilterCriteria) ([]Product, error)
	ListCategories(ctx context.Context) ([]CategorySummary, error)
	GetCategory(ctx context.Context, categoryID string) (Category, error)
	ListFeatured(ctx context.Context) ([]Product, error)
	TotalProducts(ctx context.Context) (int, error)
	CountByCategory(ctx context.Context, categoryID string) (int, error)
	CountBySubcategory(ctx context.Context, categoryID, subID string) (int, error)
}

// DetailService resolves product ids into detail view-models.
type DetailService interface {
	Resolve(ctx context.Context, productID string) (ProductDetail, error)
}

// SessionService manages per-visitor browsing sessions holding navigation and
// gallery state.
type SessionService interface {
	Create(ctx context.Context) (*BrowsingSession, error)
	Get(ctx context.Context, sessionID string) (*BrowsingSession, error)
	Delete(ctx context.Context, sessionID string) error
}
