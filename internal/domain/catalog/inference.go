package catalog

import (
	"context"

	"github.com/catalog/backend/internal/domain/shared"
)

// ErrInferenceNotConfigured indicates the inference capability has no credentials.
// Callers treat this as a precondition failure, distinct from a runtime error.
var ErrInferenceNotConfigured = shared.NewDomainError("NOT_CONFIGURED", "AI API key is not configured")

// Translation holds translated product content
type Translation struct {
	Title       string
	Description string
}

// Inference is the AI capability consumed by catalog operations.
// Implementations may be unavailable; Configured distinguishes a missing
// capability from a failing one.
type Inference interface {
	// Configured reports whether the capability can serve requests
	Configured() bool

	// GenerateSummary produces a short summary of the given text
	GenerateSummary(ctx context.Context, text string) (string, error)

	// InferCategory suggests a category label for an item given the known
	// category set. The returned label is raw model output; callers normalize
	// and match it against the known set.
	InferCategory(ctx context.Context, title, description string, categories []string) (string, error)

	// Translate rewrites title and description in the target language
	Translate(ctx context.Context, title, description, targetLanguage string) (Translation, error)
}
