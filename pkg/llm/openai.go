package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAI completes prompts through the chat completions API of OpenAI or
// an OpenAI-compatible provider such as Groq.
type OpenAI struct {
	client   *openai.Client
	endpoint Endpoint
	timeout  time.Duration
}

var _ Completer = (*OpenAI)(nil)

// NewOpenAI builds a client for apiKey, detecting Groq keys via Resolve.
func NewOpenAI(apiKey string, opts ...Option) *OpenAI {
	cfg := newConfig(opts)
	ep := Resolve(apiKey, cfg.baseURL, cfg.model)

	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(cfg.httpClient),
		option.WithMaxRetries(0),
	}
	if ep.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(ep.BaseURL))
	}
	client := openai.NewClient(clientOpts...)
	return &OpenAI{client: &client, endpoint: ep, timeout: cfg.timeout}
}

// Endpoint returns the resolved provider, base URL and model.
func (o *OpenAI) Endpoint() Endpoint { return o.endpoint }

func (o *OpenAI) Complete(ctx context.Context, p Prompt) (string, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	var msgs []openai.ChatCompletionMessageParamUnion
	if p.System != "" {
		msgs = append(msgs, openai.SystemMessage(p.System))
	}
	msgs = append(msgs, openai.UserMessage(p.User))

	params := openai.ChatCompletionNewParams{
		Model:       o.endpoint.Model,
		Messages:    msgs,
		Temperature: openai.Float(p.Temperature),
	}
	if p.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(p.MaxTokens))
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("llm: %s chat: %w", o.endpoint.Provider, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
