// Package listing generates marketplace listing copy from detected keywords
// and renders it into HTML.
package listing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrMalformedCompletion reports a text-generation response that could not be
// parsed into a listing. It propagates to the per-folder boundary; there is
// no repair loop.
var ErrMalformedCompletion = errors.New("malformed completion")

// Listing is the generated title/description/specifics bundle.
type Listing struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Specifics   map[string]string `json:"specifics"`
}

// TextGenerator is the single operation the pipeline needs from the
// text-generation service.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewGenerator picks the provider from LISTING_PROVIDER, defaulting to
// OpenAI.
func NewGenerator() (TextGenerator, error) {
	provider := os.Getenv("LISTING_PROVIDER")
	if provider == "" {
		provider = "openai"
	}

	switch provider {
	case "openai":
		return NewOpenAI(), nil
	case "gemini":
		return NewGemini(), nil
	default:
		return nil, fmt.Errorf("unsupported listing provider: %s", provider)
	}
}

// BuildPrompt constructs the listing-generation prompt for a keyword set and
// resolved SKU.
func BuildPrompt(keywords []string, sku string) string {
	return fmt.Sprintf(
		"Generate an eBay listing title, description, and item specifics for a product with the following keywords: %s and SKU: %s. "+
			"The title should be no more than 80 characters. "+
			"Provide a detailed description and relevant item specifics. "+
			"Respond with ONLY a JSON object with the fields \"title\", \"description\" and \"specifics\", "+
			"where \"specifics\" is an object of string values including \"brand\", \"style\", \"metal\" and \"category_id\".",
		strings.Join(keywords, ", "), sku,
	)
}

// ParseCompletion parses the generation service's response into a Listing.
// Markdown code fences are stripped first; anything that still fails to
// unmarshal, or lacks a title, is reported as ErrMalformedCompletion.
func ParseCompletion(response string) (Listing, error) {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var l Listing
	if err := json.Unmarshal([]byte(cleaned), &l); err != nil {
		return Listing{}, fmt.Errorf("%w: %v", ErrMalformedCompletion, err)
	}
	if l.Title == "" {
		return Listing{}, fmt.Errorf("%w: missing title", ErrMalformedCompletion)
	}
	return l, nil
}
