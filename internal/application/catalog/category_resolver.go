package catalogapp

import (
	"context"
	"strings"

	"github.com/catalog/backend/internal/domain/catalog"
	"github.com/catalog/backend/internal/domain/shared"
)

// ErrNoCategoriesAvailable indicates there is no known category to infer
// against. It is the only fatal outcome of category resolution.
var ErrNoCategoriesAvailable = shared.NewDomainError("INVALID_INPUT", "No categories available to infer")

// CategoryResolver decides the definitive category for an item, trusting an
// explicit candidate over inference and never letting an inference failure
// escape when a known category set exists.
type CategoryResolver struct {
	inference catalog.Inference
}

// NewCategoryResolver creates a new CategoryResolver
func NewCategoryResolver(inference catalog.Inference) *CategoryResolver {
	return &CategoryResolver{inference: inference}
}

// Resolve returns the category for an item. A non-blank candidate wins
// verbatim, which is how brand-new categories enter the catalog. With no
// candidate, the known set must be non-empty; the choice then comes from
// InferKnown.
func (r *CategoryResolver) Resolve(ctx context.Context, candidate, title, description string, known []string) (string, error) {
	if trimmed := strings.TrimSpace(candidate); trimmed != "" {
		return trimmed, nil
	}

	if len(known) == 0 {
		return "", ErrNoCategoriesAvailable
	}

	return r.InferKnown(ctx, title, description, known), nil
}

// InferKnown picks a category from the known set for the given item. The
// known set must be non-empty. Inference failures and unmatched suggestions
// fall back to a local best match over title+description, then to the first
// known category.
func (r *CategoryResolver) InferKnown(ctx context.Context, title, description string, known []string) string {
	fallback, ok := pickBestMatch(title+" "+description, known)
	if !ok {
		fallback = known[0]
	}

	if r.inference == nil || !r.inference.Configured() {
		return fallback
	}

	suggested, err := r.inference.InferCategory(ctx, title, description, known)
	if err != nil {
		return fallback
	}

	if match, ok := pickBestMatch(suggested, known); ok {
		return match
	}
	return fallback
}

// pickBestMatch matches free text against the known categories: exact match
// after normalization first, then the first category the text contains as a
// substring. Comparison is case-insensitive; a single layer of surrounding
// quotes is stripped, which tolerates verbose model output like
// `"Electronics"` or "I choose Electronics.".
func pickBestMatch(text string, categories []string) (string, bool) {
	cleaned := normalizeLabel(text)

	for _, category := range categories {
		if strings.ToLower(category) == cleaned {
			return category, true
		}
	}
	for _, category := range categories {
		if strings.Contains(cleaned, strings.ToLower(category)) {
			return category, true
		}
	}
	return "", false
}

func normalizeLabel(s string) string {
	cleaned := strings.ToLower(strings.TrimSpace(s))
	if len(cleaned) >= 2 {
		first, last := cleaned[0], cleaned[len(cleaned)-1]
		if (first == '"' || first == '\'') && (last == '"' || last == '\'') {
			cleaned = cleaned[1 : len(cleaned)-1]
		} else if first == '"' || first == '\'' {
			cleaned = cleaned[1:]
		} else if last == '"' || last == '\'' {
			cleaned = cleaned[:len(cleaned)-1]
		}
	}
	return strings.TrimSpace(cleaned)
}
