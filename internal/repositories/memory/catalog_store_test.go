package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/speedernet/storefront/internal/domain"
	"github.com/speedernet/storefront/internal/repositories"
)

func testCatalog() domain.Catalog {
	return domain.Catalog{
		Categories: []domain.Category{
			{
				ID:   "printers",
				Name: "Printers",
				Subcategories: []domain.Subcategory{
					{ID: "laser", Name: "Laser Printers"},
					{ID: "inkjet", Name: "Inkjet Printers"},
				},
			},
			{ID: "scanners", Name: "Barcode Scanners"},
		},
		Products: []domain.Product{
			{ID: "hp-1000", Name: "LaserJet 1000", Category: "printers", Subcategory: "laser", Image: "img/hp-1000.png", Featured: true},
			{ID: "hp-2000", Name: "InkJet 2000", Category: "printers", Subcategory: "inkjet", Image: "img/hp-2000.png"},
			{ID: "zb-100", Name: "Zebra Scanner 100", Category: "scanners", Image: "img/zb-100.png"},
		},
	}
}

func TestCatalogStoreLookups(t *testing.T) {
	store := NewCatalogStore(testCatalog())
	ctx := context.Background()

	t.Run("products preserve dataset order", func(t *testing.T) {
		products, err := store.Products(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(products) != 3 {
			t.Fatalf("expected 3 products, got %d", len(products))
		}
		want := []string{"hp-1000", "hp-2000", "zb-100"}
		for i, id := range want {
			if products[i].ID != id {
				t.Errorf("position %d: expected %s, got %s", i, id, products[i].ID)
			}
		}
	})

	t.Run("product by id", func(t *testing.T) {
		product, err := store.Product(ctx, "hp-2000")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if product.Name != "InkJet 2000" {
			t.Errorf("unexpected product: %+v", product)
		}
	})

	t.Run("missing product surfaces categorised not found", func(t *testing.T) {
		_, err := store.Product(ctx, "nonexistent")
		assertNotFound(t, err)
	})

	t.Run("category and subcategory lookups", func(t *testing.T) {
		category, err := store.Category(ctx, "printers")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if category.Name != "Printers" || len(category.Subcategories) != 2 {
			t.Errorf("unexpected category: %+v", category)
		}

		sub, err := store.Subcategory(ctx, "printers", "laser")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sub.Name != "Laser Printers" {
			t.Errorf("unexpected subcategory: %+v", sub)
		}

		_, err = store.Subcategory(ctx, "scanners", "laser")
		assertNotFound(t, err)
	})

	t.Run("featured products", func(t *testing.T) {
		featured, err := store.FeaturedProducts(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(featured) != 1 || featured[0].ID != "hp-1000" {
			t.Errorf("unexpected featured set: %+v", featured)
		}
	})

	t.Run("returned slices do not alias internal storage", func(t *testing.T) {
		products, err := store.Products(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		products[0].ID = "mutated"

		again, err := store.Products(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again[0].ID != "hp-1000" {
			t.Errorf("store contents were mutated through a returned slice")
		}
	})
}

func TestCatalogStoreCounts(t *testing.T) {
	store := NewCatalogStore(testCatalog())
	ctx := context.Background()

	if count, err := store.CountByCategory(ctx, "printers"); err != nil || count != 2 {
		t.Errorf("expected 2 printers, got %d (err %v)", count, err)
	}
	if count, err := store.CountByCategory(ctx, "scanners"); err != nil || count != 1 {
		t.Errorf("expected 1 scanner, got %d (err %v)", count, err)
	}
	if count, err := store.CountBySubcategory(ctx, "printers", "laser"); err != nil || count != 1 {
		t.Errorf("expected 1 laser printer, got %d (err %v)", count, err)
	}
	if count, err := store.CountBySubcategory(ctx, "printers", "inkjet"); err != nil || count != 1 {
		t.Errorf("expected 1 inkjet printer, got %d (err %v)", count, err)
	}

	_, err := store.CountByCategory(ctx, "routers")
	assertNotFound(t, err)

	_, err = store.CountBySubcategory(ctx, "scanners", "laser")
	assertNotFound(t, err)

	if store.Len() != 3 {
		t.Errorf("expected dataset size 3, got %d", store.Len())
	}
}

func assertNotFound(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected not found error")
	}
	var repoErr repositories.RepositoryError
	if !errors.As(err, &repoErr) {
		t.Fatalf("expected RepositoryError, got %T: %v", err, err)
	}
	if !repoErr.IsNotFound() {
		t.Fatalf("expected IsNotFound true for %v", err)
	}
}
