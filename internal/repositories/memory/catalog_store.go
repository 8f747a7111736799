package memory

import (
	"context"

	"github.com/speedernet/storefront/internal/domain"
	"github.com/speedernet/storefront/internal/repositories"
)

type subcategoryKey struct {
	categoryID string
	subID      string
}

// CatalogStore serves a validated, immutable catalog dataset from in-memory
// indexes. All indexes are built once at construction; nothing is mutated
// afterwards, so the store is safe for concurrent readers.
type CatalogStore struct {
	products   []domain.Product
	categories []domain.Category
	featured   []domain.Product

	productsByID    map[string]domain.Product
	categoriesByID  map[string]domain.Category
	subcategories   map[subcategoryKey]domain.Subcategory
	categoryCounts  map[string]int
	subcategoryByID map[subcategoryKey]int
}

var _ repositories.CatalogRepository = (*CatalogStore)(nil)

// NewCatalogStore indexes the supplied catalog. The catalog must already have
// been validated against the dataset invariants; the store trusts its input.
func NewCatalogStore(catalog domain.Catalog) *CatalogStore {
	store := &CatalogStore{
		products:        catalog.Products,
		categories:      catalog.Categories,
		productsByID:    make(map[string]domain.Product, len(catalog.Products)),
		categoriesByID:  make(map[string]domain.Category, len(catalog.Categories)),
		subcategories:   make(map[subcategoryKey]domain.Subcategory),
		categoryCounts:  make(map[string]int, len(catalog.Categories)),
		subcategoryByID: make(map[subcategoryKey]int),
	}

	for _, category := range catalog.Categories {
		store.categoriesByID[category.ID] = category
		for _, sub := range category.Subcategories {
			store.subcategories[subcategoryKey{category.ID, sub.ID}] = sub
		}
	}

	for _, product := range catalog.Products {
		store.productsByID[product.ID] = product
		store.categoryCounts[product.Category]++
		if product.Subcategory != "" {
			store.subcategoryByID[subcategoryKey{product.Category, product.Subcategory}]++
		}
		if product.Featured {
			store.featured = append(store.featured, product)
		}
	}

	return store
}

// Products returns every product in dataset order. The returned slice is a
// copy so callers may append without aliasing the store.
func (s *CatalogStore) Products(ctx context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

// Product returns the product with the given id.
func (s *CatalogStore) Product(ctx context.Context, id string) (domain.Product, error) {
	product, ok := s.productsByID[id]
	if !ok {
		return domain.Product{}, notFoundError("catalog store: product", "product", id)
	}
	return product, nil
}

// Categories returns every category in dataset order.
func (s *CatalogStore) Categories(ctx context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, len(s.categories))
	copy(out, s.categories)
	return out, nil
}

// Category returns the category with the given id.
func (s *CatalogStore) Category(ctx context.Context, id string) (domain.Category, error) {
	category, ok := s.categoriesByID[id]
	if !ok {
		return domain.Category{}, notFoundError("catalog store: category", "category", id)
	}
	return category, nil
}

// Subcategory returns the subcategory belonging to the given category.
func (s *CatalogStore) Subcategory(ctx context.Context, categoryID, subID string) (domain.Subcategory, error) {
	sub, ok := s.subcategories[subcategoryKey{categoryID, subID}]
	if !ok {
		return domain.Subcategory{}, notFoundError("catalog store: subcategory", "subcategory", categoryID+"/"+subID)
	}
	return sub, nil
}

// FeaturedProducts returns the featured subset in dataset order.
func (s *CatalogStore) FeaturedProducts(ctx context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, len(s.featured))
	copy(out, s.featured)
	return out, nil
}

// CountByCategory reports the number of products in the category across the
// full dataset. Counts never change with the active filter.
func (s *CatalogStore) CountByCategory(ctx context.Context, id string) (int, error) {
	if _, ok := s.categoriesByID[id]; !ok {
		return 0, notFoundError("catalog store: count", "category", id)
	}
	return s.categoryCounts[id], nil
}

// CountBySubcategory reports the number of products in the subcategory across
// the full dataset.
func (s *CatalogStore) CountBySubcategory(ctx context.Context, categoryID, subID string) (int, error) {
	if _, ok := s.subcategories[subcategoryKey{categoryID, subID}]; !ok {
		return 0, notFoundError("catalog store: count", "subcategory", categoryID+"/"+subID)
	}
	return s.subcategoryByID[subcategoryKey{categoryID, subID}], nil
}

// Len reports the total number of products in the dataset.
func (s *CatalogStore) Len() int {
	return len(s.products)
}
