package catalogapp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCategoryResolverResolve(t *testing.T) {
	known := []string{"electronics", "jewelery"}

	t.Run("explicit candidate wins verbatim", func(t *testing.T) {
		inference := new(MockInference)
		resolver := NewCategoryResolver(inference)

		category, err := resolver.Resolve(context.Background(), "  home decor  ", "Vase", "A glass vase", known)

		require.NoError(t, err)
		assert.Equal(t, "home decor", category)
		inference.AssertNotCalled(t, "InferCategory")
	})

	t.Run("no candidate and no known categories fails", func(t *testing.T) {
		inference := new(MockInference)
		resolver := NewCategoryResolver(inference)

		_, err := resolver.Resolve(context.Background(), "", "Vase", "A glass vase", nil)

		assert.ErrorIs(t, err, ErrNoCategoriesAvailable)
	})

	t.Run("no candidate falls through to inference", func(t *testing.T) {
		inference := new(MockInference)
		resolver := NewCategoryResolver(inference)

		inference.On("Configured").Return(true)
		inference.On("InferCategory", mock.Anything, "Ring", "A silver ring", known).Return("jewelery", nil)

		category, err := resolver.Resolve(context.Background(), "", "Ring", "A silver ring", known)

		require.NoError(t, err)
		assert.Equal(t, "jewelery", category)
	})
}

func TestCategoryResolverInferKnown(t *testing.T) {
	known := []string{"electronics", "jewelery"}

	t.Run("matches verbose model output", func(t *testing.T) {
		inference := new(MockInference)
		resolver := NewCategoryResolver(inference)

		inference.On("Configured").Return(true)
		inference.On("InferCategory", mock.Anything, mock.Anything, mock.Anything, known).Return(`"Electronics"`, nil)

		category := resolver.InferKnown(context.Background(), "USB Hub", "A 4-port hub", known)

		assert.Equal(t, "electronics", category)
	})

	t.Run("unmatched suggestion falls back to local match", func(t *testing.T) {
		inference := new(MockInference)
		resolver := NewCategoryResolver(inference)

		inference.On("Configured").Return(true)
		inference.On("InferCategory", mock.Anything, mock.Anything, mock.Anything, known).Return("furniture", nil)

		category := resolver.InferKnown(context.Background(), "Silver jewelery box", "Holds rings", known)

		assert.Equal(t, "jewelery", category)
	})

	t.Run("inference error falls back to local match", func(t *testing.T) {
		inference := new(MockInference)
		resolver := NewCategoryResolver(inference)

		inference.On("Configured").Return(true)
		inference.On("InferCategory", mock.Anything, mock.Anything, mock.Anything, known).Return("", errors.New("quota exceeded"))

		category := resolver.InferKnown(context.Background(), "Electronics charger", "A charger", known)

		assert.Equal(t, "electronics", category)
	})

	t.Run("unconfigured inference never gets called", func(t *testing.T) {
		inference := new(MockInference)
		resolver := NewCategoryResolver(inference)

		inference.On("Configured").Return(false)

		category := resolver.InferKnown(context.Background(), "Electronics charger", "A charger", known)

		assert.Equal(t, "electronics", category)
		inference.AssertNotCalled(t, "InferCategory")
	})

	t.Run("no local match falls back to first known", func(t *testing.T) {
		inference := new(MockInference)
		resolver := NewCategoryResolver(inference)

		inference.On("Configured").Return(false)

		category := resolver.InferKnown(context.Background(), "Mystery item", "Unclassifiable", known)

		assert.Equal(t, "electronics", category)
	})

	t.Run("nil inference uses local fallback", func(t *testing.T) {
		resolver := NewCategoryResolver(nil)

		category := resolver.InferKnown(context.Background(), "jewelery holder", "Holds rings", known)

		assert.Equal(t, "jewelery", category)
	})
}
