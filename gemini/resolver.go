// Package gemini provides a mira.FallbackResolver that answers unmatched
// queries with Google Gemini.
package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/mira"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// UnknownMarker is the reply the model is instructed to give when it does
// not know the answer.
const UnknownMarker = "NICHT_GEFUNDEN"

// Ensure Resolver implements mira.FallbackResolver at compile time.
var _ mira.FallbackResolver = (*Resolver)(nil)

// Resolver implements mira.FallbackResolver using Google Gemini.
type Resolver struct {
	client *genai.Client
	model  string
}

// NewResolver creates a new Resolver. An empty model selects DefaultModel.
func NewResolver(client *genai.Client, model string) *Resolver {
	if model == "" {
		model = DefaultModel
	}
	return &Resolver{client: client, model: model}
}

// Resolve asks Gemini to answer query.
func (r *Resolver) Resolve(ctx context.Context, query string) mira.FallbackResult {
	if strings.TrimSpace(query) == "" {
		return mira.NotFound()
	}
	if r.client == nil {
		return mira.TransportError("gemini client not configured")
	}

	result, err := r.client.Models.GenerateContent(ctx, r.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: BuildUserPrompt(query)}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return mira.TransportError(err.Error())
	}
	if result == nil {
		return mira.TransportError("gemini returned nil result")
	}

	return ParseAnswer(result.Text())
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "Du bist Mira, eine hilfsbereite Assistentin. Antworte kurz und sachlich auf Deutsch, in höchstens drei Sätzen. " +
					"Wenn du die Antwort nicht weißt, antworte ausschließlich mit " + UnknownMarker + ".",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt for a query.
func BuildUserPrompt(query string) string {
	return "Frage: " + query
}

// ParseAnswer maps the model's reply to a fallback result.
func ParseAnswer(text string) mira.FallbackResult {
	text = strings.TrimSpace(text)
	if text == "" || strings.Contains(text, UnknownMarker) {
		return mira.NotFound()
	}
	return mira.Answer(text)
}
