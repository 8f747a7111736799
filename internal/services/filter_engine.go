package services

import "strings"

// FilterProducts applies the criteria to the product list and returns the
// matches in their original order. Filtering is conjunctive and pure: category
// match, subcategory match, and query match are independent predicates and the
// result is their intersection, so evaluation order never affects the outcome.
//
// The subcategory predicate is applied whether or not a category is set. In
// this dataset subcategory ids are scoped per category, which makes the match
// unambiguous in practice; if two categories ever shared a subcategory id the
// filter would cross-match, a documented limitation rather than one this
// function second-guesses.
func FilterProducts(products []Product, criteria FilterCriteria) []Product {
	query := strings.ToLower(criteria.Query)
	applyQuery := strings.TrimSpace(criteria.Query) != ""

	matched := make([]Product, 0, len(products))
	for _, product := range products {
		if criteria.Category != "" && product.Category != criteria.Category {
			continue
		}
		if criteria.Subcategory != "" && product.Subcategory != criteria.Subcategory {
			continue
		}
		if applyQuery && !matchesQuery(product, query) {
			continue
		}
		matched = append(matched, product)
	}
	return matched
}

// CountMatching reports how many products satisfy the criteria.
func CountMatching(products []Product, criteria FilterCriteria) int {
	return len(FilterProducts(products, criteria))
}

// matchesQuery reports whether the product matches the already-lowercased
// query. Name and description are compared case-insensitively; the localized
// name is compared byte-wise against the lowercased query with no case
// folding, mirroring how the catalog search behaves for Arabic names.
func matchesQuery(product Product, query string) bool {
	if strings.Contains(strings.ToLower(product.Name), query) {
		return true
	}
	if strings.Contains(product.NameAr, query) {
		return true
	}
	return strings.Contains(strings.ToLower(product.Description), query)
}
