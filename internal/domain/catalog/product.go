package catalog

import (
	"net/url"
	"strings"
	"time"

	"github.com/catalog/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents a catalog product sourced from an external feed or CSV import.
// It is the aggregate root for catalog operations.
type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	ExtID       int64           `gorm:"column:ext_id;not null;uniqueIndex:idx_products_ext_id_unique" json:"extId"`
	Title       string          `gorm:"type:varchar(255);not null" json:"title"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Category    string          `gorm:"type:varchar(255);not null;default:''" json:"category"`
	Image       string          `gorm:"type:text;not null" json:"image"`
	AISummary   *string         `gorm:"column:ai_summary;type:text" json:"aiSummary"`
	CreatedAt   time.Time       `gorm:"column:created_at;<-:create" json:"createdAt"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product with a normalized price
func NewProduct(extID int64, title, description string, price decimal.Decimal, category, image string, aiSummary *string) (*Product, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := ValidateDescription(description); err != nil {
		return nil, err
	}
	if err := ValidatePrice(price); err != nil {
		return nil, err
	}
	if err := ValidateImage(image); err != nil {
		return nil, err
	}

	return &Product{
		ExtID:       extID,
		Title:       title,
		Description: description,
		Price:       NormalizePrice(price),
		Category:    strings.TrimSpace(category),
		Image:       image,
		AISummary:   aiSummary,
	}, nil
}

// Merge overwrites the product's mutable fields with imported values.
// The surrogate ID and CreatedAt are never touched.
func (p *Product) Merge(extID int64, title, description string, price decimal.Decimal, category, image string, aiSummary *string) {
	p.ExtID = extID
	p.Title = title
	p.Description = description
	p.Price = NormalizePrice(price)
	p.Category = category
	p.Image = image
	p.AISummary = aiSummary
}

// SetSummary sets the AI-generated summary
func (p *Product) SetSummary(summary string) {
	p.AISummary = &summary
}

// SetTranslation replaces title and description with translated content
func (p *Product) SetTranslation(title, description string) {
	p.Title = title
	p.Description = description
}

// HasCategory reports whether the product has a non-blank category
func (p *Product) HasCategory() bool {
	return strings.TrimSpace(p.Category) != ""
}

// NormalizePrice fixes a price to two decimal places
func NormalizePrice(price decimal.Decimal) decimal.Decimal {
	return price.Round(2)
}

// ValidateTitle checks the title constraints
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return shared.NewDomainError("INVALID_INPUT", "Title is required")
	}
	if len(title) > 255 {
		return shared.NewDomainError("INVALID_INPUT", "Title must not exceed 255 characters")
	}
	return nil
}

// ValidateDescription checks the description constraints
func ValidateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return shared.NewDomainError("INVALID_INPUT", "Description is required")
	}
	return nil
}

// ValidatePrice checks that a price is non-negative
func ValidatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Price must not be negative")
	}
	return nil
}

// ValidateImage checks that the image is an absolute URL
func ValidateImage(image string) error {
	u, err := url.Parse(image)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return shared.NewDomainError("INVALID_INPUT", "Image must be a valid absolute URL")
	}
	return nil
}

// ValidateCategory checks the category length constraint
func ValidateCategory(category string) error {
	if len(category) > 255 {
		return shared.NewDomainError("INVALID_INPUT", "Category must not exceed 255 characters")
	}
	return nil
}
