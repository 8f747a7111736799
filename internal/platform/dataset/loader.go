package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/speedernet/storefront/internal/domain"
)

// Format identifies the encoding of a catalog dataset file.
type Format string

const (
	// FormatJSON decodes the dataset as JSON.
	FormatJSON Format = "json"
	// FormatYAML decodes the dataset as YAML.
	FormatYAML Format = "yaml"
)

// InvariantError reports a dataset record that violates a structural invariant.
// These are detected once at load time; lookups never re-validate.
type InvariantError struct {
	Record string
	Reason string
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	if e == nil {
		return "dataset: invariant violation"
	}
	return fmt.Sprintf("dataset: %s: %s", e.Record, e.Reason)
}

type productRecord struct {
	ID             string   `json:"id" yaml:"id"`
	Name           string   `json:"name" yaml:"name"`
	NameAr         string   `json:"nameAr" yaml:"nameAr"`
	Description    string   `json:"description" yaml:"description"`
	Price          string   `json:"price" yaml:"price"`
	Category       string   `json:"category" yaml:"category"`
	Subcategory    string   `json:"subcategory" yaml:"subcategory"`
	Image          string   `json:"image" yaml:"image"`
	Images         []string `json:"images" yaml:"images"`
	Specifications []string `json:"specifications" yaml:"specifications"`
	Featured       bool     `json:"featured" yaml:"featured"`
	VideoURL       string   `json:"videoUrl" yaml:"videoUrl"`
	CatalogURL     string   `json:"catalogUrl" yaml:"catalogUrl"`
	DriversURL     string   `json:"driversUrl" yaml:"driversUrl"`
}

type subcategoryRecord struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

type categoryRecord struct {
	ID            string              `json:"id" yaml:"id"`
	Name          string              `json:"name" yaml:"name"`
	Subcategories []subcategoryRecord `json:"subcategories" yaml:"subcategories"`
}

type catalogFile struct {
	Products   []productRecord  `json:"products" yaml:"products"`
	Categories []categoryRecord `json:"categories" yaml:"categories"`
}

// Load reads, decodes, and validates the catalog dataset at the given path.
// The format is inferred from the file extension (.yaml/.yml vs anything else).
func Load(path string) (domain.Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("dataset: unable to open %s: %w", path, err)
	}
	defer file.Close()

	return Decode(file, formatForPath(path))
}

// Decode reads and validates a catalog dataset from the provided reader.
func Decode(r io.Reader, format Format) (domain.Catalog, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("dataset: read failed: %w", err)
	}

	var parsed catalogFile
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(raw, &parsed); err != nil {
			return domain.Catalog{}, fmt.Errorf("dataset: yaml decode failed: %w", err)
		}
	default:
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return domain.Catalog{}, fmt.Errorf("dataset: json decode failed: %w", err)
		}
	}

	catalog := toCatalog(parsed)
	if err := Validate(catalog); err != nil {
		return domain.Catalog{}, err
	}
	return catalog, nil
}

// Validate enforces the dataset invariants: globally unique product ids, unique
// category ids, per-category unique subcategory ids, resolvable category and
// subcategory references, and at least one usable image per product.
func Validate(catalog domain.Catalog) error {
	categoryIDs := make(map[string]struct{}, len(catalog.Categories))
	subcategoryIDs := make(map[string]map[string]struct{}, len(catalog.Categories))

	for _, category := range catalog.Categories {
		if strings.TrimSpace(category.ID) == "" {
			return &InvariantError{Record: fmt.Sprintf("category %q", category.Name), Reason: "missing id"}
		}
		if _, ok := categoryIDs[category.ID]; ok {
			return &InvariantError{Record: "category " + category.ID, Reason: "duplicate category id"}
		}
		categoryIDs[category.ID] = struct{}{}

		subs := make(map[string]struct{}, len(category.Subcategories))
		for _, sub := range category.Subcategories {
			if strings.TrimSpace(sub.ID) == "" {
				return &InvariantError{Record: "category " + category.ID, Reason: "subcategory missing id"}
			}
			if _, ok := subs[sub.ID]; ok {
				return &InvariantError{Record: "category " + category.ID, Reason: fmt.Sprintf("duplicate subcategory id %s", sub.ID)}
			}
			subs[sub.ID] = struct{}{}
		}
		subcategoryIDs[category.ID] = subs
	}

	productIDs := make(map[string]struct{}, len(catalog.Products))
	for _, product := range catalog.Products {
		record := "product " + product.ID
		if strings.TrimSpace(product.ID) == "" {
			return &InvariantError{Record: fmt.Sprintf("product %q", product.Name), Reason: "missing id"}
		}
		if _, ok := productIDs[product.ID]; ok {
			return &InvariantError{Record: record, Reason: "duplicate product id"}
		}
		productIDs[product.ID] = struct{}{}

		if _, ok := categoryIDs[product.Category]; !ok {
			return &InvariantError{Record: record, Reason: fmt.Sprintf("unknown category %s", product.Category)}
		}
		if product.Subcategory != "" {
			if _, ok := subcategoryIDs[product.Category][product.Subcategory]; !ok {
				return &InvariantError{Record: record, Reason: fmt.Sprintf("subcategory %s does not belong to category %s", product.Subcategory, product.Category)}
			}
		}
		if len(product.Images) == 0 && strings.TrimSpace(product.Image) == "" {
			return &InvariantError{Record: record, Reason: "no images"}
		}
	}

	return nil
}

func toCatalog(parsed catalogFile) domain.Catalog {
	catalog := domain.Catalog{
		Products:   make([]domain.Product, 0, len(parsed.Products)),
		Categories: make([]domain.Category, 0, len(parsed.Categories)),
	}

	for _, record := range parsed.Categories {
		category := domain.Category{
			ID:   strings.TrimSpace(record.ID),
			Name: strings.TrimSpace(record.Name),
		}
		for _, sub := range record.Subcategories {
			category.Subcategories = append(category.Subcategories, domain.Subcategory{
				ID:   strings.TrimSpace(sub.ID),
				Name: strings.TrimSpace(sub.Name),
			})
		}
		catalog.Categories = append(catalog.Categories, category)
	}

	for _, record := range parsed.Products {
		catalog.Products = append(catalog.Products, domain.Product{
			ID:             strings.TrimSpace(record.ID),
			Name:           record.Name,
			NameAr:         record.NameAr,
			Description:    record.Description,
			Price:          record.Price,
			Category:       strings.TrimSpace(record.Category),
			Subcategory:    strings.TrimSpace(record.Subcategory),
			Image:          strings.TrimSpace(record.Image),
			Images:         record.Images,
			Specifications: record.Specifications,
			Featured:       record.Featured,
			VideoURL:       strings.TrimSpace(record.VideoURL),
			CatalogURL:     strings.TrimSpace(record.CatalogURL),
			DriversURL:     strings.TrimSpace(record.DriversURL),
		})
	}

	return catalog
}

func formatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}
