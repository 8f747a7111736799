package domain

// Product describes a single catalog entry. Records are loaded once at startup
// and never mutated afterwards; all fields are plain values safe to copy.
type Product struct {
	ID             string
	Name           string
	NameAr         string
	Description    string
	Price          string
	Category       string
	Subcategory    string
	Image          string
	Images         []string
	Specifications []string
	Featured       bool
	VideoURL       string
	CatalogURL     string
	DriversURL     string
}

// ImageSequence returns the gallery images for the product, falling back to a
// single-element sequence holding the primary image when no multi-image list is
// defined. The result never aliases the product's own slice.
func (p Product) ImageSequence() []string {
	if len(p.Images) > 0 {
		images := make([]string, len(p.Images))
		copy(images, p.Images)
		return images
	}
	return []string{p.Image}
}

// Subcategory is a named subdivision of a category. Its ID is unique within the
// parent category only.
type Subcategory struct {
	ID   string
	Name string
}

// Category groups products and carries an ordered, possibly empty list of
// subcategories.
type Category struct {
	ID            string
	Name          string
	Subcategories []Subcategory
}

// Subcategory returns the subcategory with the given id, reporting whether it
// exists on this category.
func (c Category) Subcategory(id string) (Subcategory, bool) {
	for _, sub := range c.Subcategories {
		if sub.ID == id {
			return sub, true
		}
	}
	return Subcategory{}, false
}

// Catalog is the complete static dataset handed to the store at startup. Slice
// order is the canonical dataset order used for all listings.
type Catalog struct {
	Products   []Product
	Categories []Category
}

// Breadcrumb is a single entry in a detail page breadcrumb trail. Href carries
// the shareable navigation parameters for the crumb's listing view.
type Breadcrumb struct {
	Label  string
	Href   string
	Active bool
}
