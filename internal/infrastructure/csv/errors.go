package csvcodec

import "github.com/catalog/backend/internal/domain/shared"

// Decode errors are structural: they abort an import before any row is
// processed.
var (
	// ErrUnterminatedQuote indicates the input ended inside a quoted field
	ErrUnterminatedQuote = shared.NewDomainError("INVALID_INPUT", "Invalid CSV format: mismatched quotes")
)
