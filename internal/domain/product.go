package domain

import (
	"context"
	"strings"
	"time"
)

// --- Interfaces ---

// CatalogSource is the remote catalog API the service mirrors.
type CatalogSource interface {
	// FetchProducts loads the complete catalog. Transport or decode
	// failures are returned as *LoadError.
	FetchProducts(ctx context.Context) ([]Product, error)

	// UpdateProduct submits an in-place edit and returns the canonical
	// updated record. Failures are returned as *EditError.
	UpdateProduct(ctx context.Context, id int, patch ProductPatch) (*Product, error)
}

type Category struct {
	ID    int    `json:"id,omitempty"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

type Product struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Price       *float64  `json:"price"`
	Description string    `json:"description,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Images      []string  `json:"images"`
	CreationAt  time.Time `json:"creationAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CategoryName returns the category name or "" when the product has none.
// A product without a category matches only the "all" filter.
func (p Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

// PriceOrZero is the sort key for price ordering. Missing prices sort as 0
// but are never displayed or exported as 0.
func (p Product) PriceOrZero() float64 {
	if p.Price == nil {
		return 0
	}
	return *p.Price
}

// PrimaryImage returns the first image URL. Upstream data occasionally
// carries stray quote/bracket artifacts around URLs; strip them here.
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return CleanImageURL(p.Images[0])
}

// MergeCanonical overlays the canonical record returned by the data source
// onto the stored one. Fields absent from the canonical response (e.g. an
// images array the edit endpoint does not echo back) are preserved.
func (p *Product) MergeCanonical(canon Product) {
	p.Title = canon.Title
	p.Description = canon.Description
	if canon.Price != nil {
		p.Price = canon.Price
	}
	if canon.Category != nil {
		p.Category = canon.Category
	}
	if len(canon.Images) > 0 {
		p.Images = canon.Images
	}
	if !canon.UpdatedAt.IsZero() {
		p.UpdatedAt = canon.UpdatedAt
	}
}

// ProductPatch is the editable field set of a product. Nil fields are
// omitted from the PUT body.
type ProductPatch struct {
	Title       *string  `json:"title,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Description *string  `json:"description,omitempty"`
}

// imageArtifacts strips the stray quote and bracket characters that show up
// in upstream image URLs (e.g. `["https://...` from a mangled JSON array).
var imageArtifacts = strings.NewReplacer(`"`, "", "[", "", "]", "")

func CleanImageURL(raw string) string {
	return imageArtifacts.Replace(raw)
}
