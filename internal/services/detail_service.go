package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/speedernet/storefront/internal/repositories"
)

// maxRelatedProducts caps the related-products strip on detail pages.
const maxRelatedProducts = 4

// ErrDetailRepositoryMissing indicates the repository dependency is absent.
var ErrDetailRepositoryMissing = errors.New("detail service: repository is not configured")

// DetailServiceDeps bundles constructor inputs for the detail service.
type DetailServiceDeps struct {
	Catalog repositories.CatalogRepository
}

type detailService struct {
	repo repositories.CatalogRepository
}

// NewDetailService constructs the detail resolver with the supplied dependencies.
func NewDetailService(deps DetailServiceDeps) (DetailService, error) {
	if deps.Catalog == nil {
		return nil, fmt.Errorf("detail service: catalog repository is required")
	}
	return &detailService{repo: deps.Catalog}, nil
}

// Resolve composes the detail view-model for the product id. A missing id
// surfaces as the repository's categorised not-found error for the caller to
// render a fallback; it is never a fault.
func (s *detailService) Resolve(ctx context.Context, productID string) (ProductDetail, error) {
	if s.repo == nil {
		return ProductDetail{}, ErrDetailRepositoryMissing
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return ProductDetail{}, fmt.Errorf("%w: product id is required", ErrCatalogInvalidInput)
	}

	product, err := s.repo.Product(ctx, productID)
	if err != nil {
		return ProductDetail{}, err
	}

	// The category reference is guaranteed by load-time validation.
	category, err := s.repo.Category(ctx, product.Category)
	if err != nil {
		return ProductDetail{}, err
	}

	detail := ProductDetail{
		Product:  product,
		Category: category,
		Images:   product.ImageSequence(),
	}

	if product.Subcategory != "" {
		sub, err := s.repo.Subcategory(ctx, product.Category, product.Subcategory)
		if err != nil {
			return ProductDetail{}, err
		}
		detail.Subcategory = &sub
	}

	related, err := s.relatedProducts(ctx, product)
	if err != nil {
		return ProductDetail{}, err
	}
	detail.RelatedProducts = related
	detail.Breadcrumbs = buildBreadcrumbs(product, category, detail.Subcategory)

	return detail, nil
}

// relatedProducts returns up to maxRelatedProducts catalog entries sharing the
// product's category, excluding the product itself, in dataset order.
func (s *detailService) relatedProducts(ctx context.Context, product Product) ([]Product, error) {
	all, err := s.repo.Products(ctx)
	if err != nil {
		return nil, err
	}

	related := make([]Product, 0, maxRelatedProducts)
	for _, candidate := range all {
		if candidate.Category != product.Category || candidate.ID == product.ID {
			continue
		}
		related = append(related, candidate)
		if len(related) == maxRelatedProducts {
			break
		}
	}
	return related, nil
}

// buildBreadcrumbs assembles the trail from the storefront root down to the
// product. Listing crumbs carry the shareable navigation parameters so each
// crumb links to the matching filtered view.
func buildBreadcrumbs(product Product, category Category, sub *Subcategory) []Breadcrumb {
	crumbs := []Breadcrumb{
		{Label: "Home", Href: "/"},
		{Label: "Products", Href: "/products"},
		{Label: category.Name, Href: "/products?" + listingParams(category.ID, "")},
	}
	if sub != nil {
		crumbs = append(crumbs, Breadcrumb{Label: sub.Name, Href: "/products?" + listingParams(category.ID, sub.ID)})
	}
	crumbs = append(crumbs, Breadcrumb{Label: product.Name, Active: true})
	return crumbs
}

func listingParams(categoryID, subID string) string {
	params := url.Values{}
	params.Set("category", categoryID)
	if subID != "" {
		params.Set("subcategory", subID)
	}
	return params.Encode()
}
