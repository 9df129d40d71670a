// Package llm wraps the hosted language-generation services used to write
// answers and translate text.
//
// A [Completer] sends one prompt and returns one completion. Calls are
// single-shot: clients are built without automatic retries and every call
// is bounded by a timeout, so a slow or failing service surfaces as an
// error the caller can fall back from.
package llm

import (
	"context"
	"errors"
	"strings"
)

// Prompt is a single-turn request.
type Prompt struct {
	// System is the instruction turn. May be empty.
	System string

	// User is the user turn.
	User string

	Temperature float64
	MaxTokens   int
}

// Completer produces a completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, p Prompt) (string, error)
}

// ErrEmptyCompletion is returned when the service answers without text.
var ErrEmptyCompletion = errors.New("llm: empty completion")

// Providers.
const (
	ProviderOpenAI = "openai"
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

// Default endpoints and models.
const (
	GroqBaseURL        = "https://api.groq.com/openai/v1"
	GroqDefaultModel   = "llama-3.1-8b-instant"
	OpenAIDefaultModel = "gpt-4o-mini"
	GeminiDefaultModel = "gemini-2.0-flash"
)

// Endpoint is a resolved provider, base URL and model.
type Endpoint struct {
	Provider string
	BaseURL  string
	Model    string
}

// Resolve picks the OpenAI-compatible endpoint for apiKey. Groq keys
// ("gsk_" prefix) select Groq's endpoint and default model. Non-empty
// baseURL and model always override the detected defaults.
func Resolve(apiKey, baseURL, model string) Endpoint {
	ep := Endpoint{Provider: ProviderOpenAI, Model: OpenAIDefaultModel}
	if strings.HasPrefix(apiKey, "gsk_") {
		ep = Endpoint{Provider: ProviderGroq, BaseURL: GroqBaseURL, Model: GroqDefaultModel}
	}
	if baseURL != "" {
		ep.BaseURL = baseURL
	}
	if model != "" {
		ep.Model = model
	}
	return ep
}
