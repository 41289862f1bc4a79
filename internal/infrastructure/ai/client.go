// Package ai implements the catalog inference capability on top of the
// Google Gemini API.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/catalog/backend/internal/domain/catalog"
	"github.com/catalog/backend/internal/domain/shared"
	"github.com/catalog/backend/internal/infrastructure/config"
	"google.golang.org/genai"
)

const (
	summaryInstruction = "You are an assistant that summarizes product descriptions in at most two clear, concise sentences."
	categoryInstruction = "You are an assistant that selects the most suitable category from an available list. Return only the exact name of the chosen category."
	translateInstruction = "You are a professional translator. Return only a JSON object with the keys \"title\" and \"description\" translated into the requested language."
)

// Client generates product content using Google's Gemini API.
// A Client without an API key is valid; every generate call then fails the
// Configured precondition so callers can fall back.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a Gemini-backed inference client. An empty API key yields
// an unconfigured client rather than an error.
func NewClient(ctx context.Context, cfg *config.AIConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return &Client{model: cfg.Model}, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Client{client: client, model: cfg.Model}, nil
}

// Configured reports whether the client can serve requests
func (c *Client) Configured() bool {
	return c.client != nil
}

// GenerateSummary produces a short summary of the given text
func (c *Client) GenerateSummary(ctx context.Context, text string) (string, error) {
	if !c.Configured() {
		return "", catalog.ErrInferenceNotConfigured
	}

	output, err := c.generate(ctx, summaryInstruction, text, 120)
	if err != nil {
		return "", shared.NewDomainError("UPSTREAM_FAILED", "Failed to generate summary")
	}
	if output == "" {
		return "", shared.NewDomainError("UPSTREAM_FAILED", "The model did not return a summary")
	}
	return output, nil
}

// InferCategory suggests a category label for an item. The returned label is
// raw model output; callers match it against the known set.
func (c *Client) InferCategory(ctx context.Context, title, description string, categories []string) (string, error) {
	if !c.Configured() {
		return "", catalog.ErrInferenceNotConfigured
	}

	prompt := fmt.Sprintf("Available categories: %s\nTitle: %s\nDescription: %s",
		strings.Join(categories, ", "), title, description)

	output, err := c.generate(ctx, categoryInstruction, prompt, 40)
	if err != nil {
		return "", shared.NewDomainError("UPSTREAM_FAILED", "Failed to infer category")
	}
	return output, nil
}

// Translate rewrites title and description in the target language
func (c *Client) Translate(ctx context.Context, title, description, targetLanguage string) (catalog.Translation, error) {
	if !c.Configured() {
		return catalog.Translation{}, catalog.ErrInferenceNotConfigured
	}

	payload, err := json.Marshal(map[string]string{
		"targetLanguage": targetLanguage,
		"title":          title,
		"description":    description,
	})
	if err != nil {
		return catalog.Translation{}, err
	}

	output, err := c.generate(ctx, translateInstruction, string(payload), 400)
	if err != nil {
		return catalog.Translation{}, shared.NewDomainError("UPSTREAM_FAILED", "Failed to translate product content")
	}
	if output == "" {
		return catalog.Translation{}, shared.NewDomainError("UPSTREAM_FAILED", "The model did not return a translation")
	}

	var parsed struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(output)), &parsed); err != nil {
		return catalog.Translation{}, shared.NewDomainError("UPSTREAM_FAILED", "Failed to parse translation response")
	}
	if parsed.Title == "" || parsed.Description == "" {
		return catalog.Translation{}, shared.NewDomainError("UPSTREAM_FAILED", "Translation response was incomplete")
	}

	return catalog.Translation{Title: parsed.Title, Description: parsed.Description}, nil
}

func (c *Client) generate(ctx context.Context, instruction, prompt string, maxTokens int32) (string, error) {
	result, err := c.client.Models.GenerateContent(ctx,
		c.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
			MaxOutputTokens:   maxTokens,
		},
	)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result.Text()), nil
}

// stripCodeFence removes a markdown ```json fence the model sometimes wraps
// around structured output.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if after, ok := strings.CutPrefix(s, "```json"); ok {
		s = after
	} else if after, ok := strings.CutPrefix(s, "```"); ok {
		s = after
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
