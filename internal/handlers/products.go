package handlers

import (
	"bytes"
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"

	"github.com/speedernet/storefront/internal/platform/httpx"
	"github.com/speedernet/storefront/internal/platform/requestctx"
	"github.com/speedernet/storefront/internal/services"
)

// ProductHandlers exposes the product detail endpoint.
type ProductHandlers struct {
	details        services.DetailService
	renderMarkdown bool
	markdown       goldmark.Markdown
	sanitizer      *bluemonday.Policy
}

// NewProductHandlers constructs a new ProductHandlers instance. When
// renderMarkdown is set, product descriptions are converted to sanitised HTML
// in the detail payload.
func NewProductHandlers(details services.DetailService, renderMarkdown bool) *ProductHandlers {
	return &ProductHandlers{
		details:        details,
		renderMarkdown: renderMarkdown,
		markdown:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
		sanitizer:      newDescriptionHTMLPolicy(),
	}
}

// Routes registers the product detail endpoints.
func (h *ProductHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/products/{productID}", h.getProduct)
}

func (h *ProductHandlers) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.details == nil {
		httpx.WriteError(ctx, w, httpx.NewError("detail_service_unavailable", "detail service unavailable", http.StatusServiceUnavailable))
		return
	}

	detail, err := h.details.Resolve(ctx, chi.URLParam(r, "productID"))
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}

	payload := productDetailPayload{
		Product: buildProductPayload(detail.Product),
		Category: categoryRefPayload{
			ID:   detail.Category.ID,
			Name: detail.Category.Name,
		},
		RelatedProducts: buildProductPayloads(detail.RelatedProducts),
		Images:          detail.Images,
		Breadcrumbs:     buildBreadcrumbPayloads(detail.Breadcrumbs),
	}
	if detail.Subcategory != nil {
		payload.Subcategory = &subcategoryRefPayload{
			ID:   detail.Subcategory.ID,
			Name: detail.Subcategory.Name,
		}
	}
	if h.renderMarkdown && detail.Product.Description != "" {
		payload.DescriptionHTML = h.renderDescription(ctx, detail.Product.Description)
	}

	writeJSONResponse(w, http.StatusOK, payload)
}

// renderDescription converts markdown to sanitised HTML. A conversion failure
// is logged and leaves the payload with the raw description only.
func (h *ProductHandlers) renderDescription(ctx context.Context, description string) string {
	var buf bytes.Buffer
	if err := h.markdown.Convert([]byte(description), &buf); err != nil {
		requestctx.Logger(ctx).Warn("render description failed", zap.Error(err))
		return ""
	}
	return h.sanitizer.Sanitize(buf.String())
}

func newDescriptionHTMLPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(true)
	return policy
}

type categoryRefPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type breadcrumbPayload struct {
	Label  string `json:"label"`
	Href   string `json:"href,omitempty"`
	Active bool   `json:"active,omitempty"`
}

type productDetailPayload struct {
	Product         productPayload         `json:"product"`
	DescriptionHTML string                 `json:"descriptionHtml,omitempty"`
	Category        categoryRefPayload     `json:"category"`
	Subcategory     *subcategoryRefPayload `json:"subcategory,omitempty"`
	RelatedProducts []productPayload       `json:"relatedProducts"`
	Images          []string               `json:"images"`
	Breadcrumbs     []breadcrumbPayload    `json:"breadcrumbs"`
}

func buildBreadcrumbPayloads(crumbs []services.Breadcrumb) []breadcrumbPayload {
	payloads := make([]breadcrumbPayload, 0, len(crumbs))
	for _, crumb := range crumbs {
		payloads = append(payloads, breadcrumbPayload{
			Label:  crumb.Label,
			Href:   crumb.Href,
			Active: crumb.Active,
		})
	}
	return payloads
}
