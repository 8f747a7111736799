package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/speedernet/storefront/internal/platform/httpx"
	"github.com/speedernet/storefront/internal/services"
)

// CatalogHandlers exposes the catalog listing and facet count endpoints.
type CatalogHandlers struct {
	catalog           services.CatalogService
	listCacheControl  string
	facetCacheControl string
}

// NewCatalogHandlers constructs a new CatalogHandlers instance.
func NewCatalogHandlers(catalog services.CatalogService, listCacheControl, facetCacheControl string) *CatalogHandlers {
	return &CatalogHandlers{
		catalog:           catalog,
		listCacheControl:  listCacheControl,
		facetCacheControl: facetCacheControl,
	}
}

// Routes registers the catalog endpoints.
func (h *CatalogHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/products", h.listProducts)
	r.Get("/featured", h.listFeatured)
	r.Get("/categories", h.listCategories)
	r.Get("/categories/{categoryID}", h.getCategory)
	r.Get("/categories/{categoryID}/count", h.countByCategory)
	r.Get("/categories/{categoryID}/subcategories/{subID}/count", h.countBySubcategory)
}

func (h *CatalogHandlers) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_service_unavailable", "catalog service unavailable", http.StatusServiceUnavailable))
		return
	}

	criteria := services.FilterCriteria{
		Category:    r.URL.Query().Get("category"),
		Subcategory: r.URL.Query().Get("subcategory"),
		Query:       r.URL.Query().Get("q"),
	}

	products, err := h.catalog.ListProducts(ctx, criteria)
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}

	if h.listCacheControl != "" {
		w.Header().Set("Cache-Control", h.listCacheControl)
	}
	writeJSONResponse(w, http.StatusOK, listProductsResponse{
		Products: buildProductPayloads(products),
		Total:    len(products),
	})
}

func (h *CatalogHandlers) listFeatured(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_service_unavailable", "catalog service unavailable", http.StatusServiceUnavailable))
		return
	}

	products, err := h.catalog.ListFeatured(ctx)
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}

	if h.listCacheControl != "" {
		w.Header().Set("Cache-Control", h.listCacheControl)
	}
	writeJSONResponse(w, http.StatusOK, listProductsResponse{
		Products: buildProductPayloads(products),
		Total:    len(products),
	})
}

func (h *CatalogHandlers) listCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_service_unavailable", "catalog service unavailable", http.StatusServiceUnavailable))
		return
	}

	summaries, err := h.catalog.ListCategories(ctx)
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}

	payload := listCategoriesResponse{Categories: make([]categoryPayload, 0, len(summaries))}
	for _, summary := range summaries {
		payload.Categories = append(payload.Categories, buildCategoryPayload(summary))
	}

	if h.facetCacheControl != "" {
		w.Header().Set("Cache-Control", h.facetCacheControl)
	}
	writeJSONResponse(w, http.StatusOK, payload)
}

func (h *CatalogHandlers) getCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_service_unavailable", "catalog service unavailable", http.StatusServiceUnavailable))
		return
	}

	category, err := h.catalog.GetCategory(ctx, chi.URLParam(r, "categoryID"))
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}

	subs := make([]subcategoryRefPayload, 0, len(category.Subcategories))
	for _, sub := range category.Subcategories {
		subs = append(subs, subcategoryRefPayload{ID: sub.ID, Name: sub.Name})
	}

	if h.facetCacheControl != "" {
		w.Header().Set("Cache-Control", h.facetCacheControl)
	}
	writeJSONResponse(w, http.StatusOK, categoryDetailPayload{
		ID:            category.ID,
		Name:          category.Name,
		Subcategories: subs,
	})
}

func (h *CatalogHandlers) countByCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_service_unavailable", "catalog service unavailable", http.StatusServiceUnavailable))
		return
	}

	count, err := h.catalog.CountByCategory(ctx, chi.URLParam(r, "categoryID"))
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}

	if h.facetCacheControl != "" {
		w.Header().Set("Cache-Control", h.facetCacheControl)
	}
	writeJSONResponse(w, http.StatusOK, countPayload{Count: count})
}

func (h *CatalogHandlers) countBySubcategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_service_unavailable", "catalog service unavailable", http.StatusServiceUnavailable))
		return
	}

	count, err := h.catalog.CountBySubcategory(ctx, chi.URLParam(r, "categoryID"), chi.URLParam(r, "subID"))
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}

	if h.facetCacheControl != "" {
		w.Header().Set("Cache-Control", h.facetCacheControl)
	}
	writeJSONResponse(w, http.StatusOK, countPayload{Count: count})
}

type listProductsResponse struct {
	Products []productPayload `json:"products"`
	Total    int              `json:"total"`
}

type listCategoriesResponse struct {
	Categories []categoryPayload `json:"categories"`
}

type productPayload struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	NameAr         string   `json:"nameAr,omitempty"`
	Description    string   `json:"description,omitempty"`
	Price          string   `json:"price,omitempty"`
	Category       string   `json:"category"`
	Subcategory    string   `json:"subcategory,omitempty"`
	Image          string   `json:"image"`
	Images         []string `json:"images,omitempty"`
	Specifications []string `json:"specifications,omitempty"`
	Featured       bool     `json:"featured,omitempty"`
	VideoURL       string   `json:"videoUrl,omitempty"`
	CatalogURL     string   `json:"catalogUrl,omitempty"`
	DriversURL     string   `json:"driversUrl,omitempty"`
}

type categoryPayload struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	ProductCount  int                  `json:"productCount"`
	Subcategories []subcategoryPayload `json:"subcategories,omitempty"`
}

type subcategoryPayload struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ProductCount int    `json:"productCount"`
}

type subcategoryRefPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type categoryDetailPayload struct {
	ID            string                  `json:"id"`
	Name          string                  `json:"name"`
	Subcategories []subcategoryRefPayload `json:"subcategories"`
}

type countPayload struct {
	Count int `json:"count"`
}

func buildProductPayloads(products []services.Product) []productPayload {
	payloads := make([]productPayload, 0, len(products))
	for _, product := range products {
		payloads = append(payloads, buildProductPayload(product))
	}
	return payloads
}

func buildProductPayload(product services.Product) productPayload {
	return productPayload{
		ID:             product.ID,
		Name:           product.Name,
		NameAr:         product.NameAr,
		Description:    product.Description,
		Price:          product.Price,
		Category:       product.Category,
		Subcategory:    product.Subcategory,
		Image:          product.Image,
		Images:         product.Images,
		Specifications: product.Specifications,
		Featured:       product.Featured,
		VideoURL:       product.VideoURL,
		CatalogURL:     product.CatalogURL,
		DriversURL:     product.DriversURL,
	}
}

func buildCategoryPayload(summary services.CategorySummary) categoryPayload {
	payload := categoryPayload{
		ID:           summary.ID,
		Name:         summary.Name,
		ProductCount: summary.ProductCount,
	}
	for _, sub := range summary.Subcategories {
		payload.Subcategories = append(payload.Subcategories, subcategoryPayload{
			ID:           sub.ID,
			Name:         sub.Name,
			ProductCount: sub.ProductCount,
		})
	}
	return payload
}

func writeCatalogError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrCatalogInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", strings.TrimSpace(err.Error()), http.StatusBadRequest))
	case services.IsRepositoryNotFound(err):
		httpx.WriteError(ctx, w, httpx.NewError("not_found", err.Error(), http.StatusNotFound))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "internal server error", http.StatusInternalServerError))
	}
}
