package llm

import (
	"net/http"
	"time"
)

// DefaultTimeout bounds a single completion call.
const DefaultTimeout = 30 * time.Second

type config struct {
	model      string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

func newConfig(opts []Option) config {
	c := config{timeout: DefaultTimeout, httpClient: http.DefaultClient}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// Option configures a Completer.
type Option func(*config)

// WithModel overrides the model.
func WithModel(model string) Option {
	return func(c *config) { c.model = model }
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(url string) Option {
	return func(c *config) { c.baseURL = url }
}

// WithTimeout bounds each call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) { c.httpClient = client }
}
