package services

import "sync"

// GallerySelection tracks the active image index for a product detail view.
// The index resets to zero whenever the viewed product changes and is clamped
// to the current image sequence otherwise.
type GallerySelection struct {
	mu         sync.Mutex
	productID  string
	imageCount int
	index      int
}

// NewGallerySelection starts a selection at index zero for the product.
func NewGallerySelection(productID string, imageCount int) *GallerySelection {
	return &GallerySelection{productID: productID, imageCount: imageCount}
}

// Reset points the selection at a product's image sequence. A different
// product id zeroes the index; the same product keeps it, clamped into the
// new sequence.
func (g *GallerySelection) Reset(productID string, imageCount int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if productID != g.productID {
		g.productID = productID
		g.index = 0
	} else if g.index >= imageCount {
		g.index = 0
	}
	g.imageCount = imageCount
}

// Select activates the image at the index. Out-of-range indexes are ignored
// and leave the selection unchanged.
func (g *GallerySelection) Select(index int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if index < 0 || index >= g.imageCount {
		return false
	}
	g.index = index
	return true
}

// Index returns the active image index.
func (g *GallerySelection) Index() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.index
}

// ProductID returns the product the selection currently belongs to.
func (g *GallerySelection) ProductID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.productID
}
