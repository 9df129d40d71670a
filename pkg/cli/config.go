package cli

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
)

const (
	// DefaultBaseDir is the base configuration directory name
	DefaultBaseDir = ".agribrain"
	// DefaultConfigFile is the default configuration filename
	DefaultConfigFile = "config.yaml"
)

// Pipeline defaults used when a context leaves a value unset.
const (
	DefaultTopK        = 3
	DefaultMaxDistance = 1.5
)

// Environment variables consulted when the matching key is empty.
const (
	EnvOpenAIKey = "OPENAI_API_KEY"
	EnvGeminiKey = "GEMINI_API_KEY"
	EnvEmbedKey  = "AGRIBRAIN_EMBED_API_KEY"
)

// Config represents the configuration file
type Config struct {
	// CurrentContext is the name of the currently active context
	CurrentContext string `yaml:"current_context,omitempty"`

	// Contexts is a map of context name to context configuration
	Contexts map[string]*Context `yaml:"contexts,omitempty"`

	// configPath is the path to the config file
	configPath string
}

// Context is one named pipeline setup.
type Context struct {
	Name string `yaml:"name"`

	LLM       LLMConfig       `yaml:"llm,omitempty"`
	Embedding EmbeddingConfig `yaml:"embedding,omitempty"`
	Knowledge KnowledgeConfig `yaml:"knowledge,omitempty"`
	Index     IndexConfig     `yaml:"index,omitempty"`
	Cache     CacheConfig     `yaml:"cache,omitempty"`
	Models    ModelsConfig    `yaml:"models,omitempty"`
	Pipeline  PipelineConfig  `yaml:"pipeline,omitempty"`
}

// LLMConfig selects the generation and translation service.
type LLMConfig struct {
	// Provider is "openai" (default, any compatible endpoint) or "gemini".
	Provider string `yaml:"provider,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Model    string `yaml:"model,omitempty"`

	// Timeout is the per-call timeout in seconds
	Timeout int `yaml:"timeout,omitempty"`
}

// EmbeddingConfig selects the embedding model. Empty APIKey falls back to
// the LLM key when the LLM provider is openai.
type EmbeddingConfig struct {
	APIKey    string `yaml:"api_key,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty"`
	Model     string `yaml:"model,omitempty"`
	Dimension int    `yaml:"dimension,omitempty"`
	Timeout   int    `yaml:"timeout,omitempty"`
}

// KnowledgeConfig lists the knowledge CSV files, merged in order.
type KnowledgeConfig struct {
	Files  []string `yaml:"files,omitempty"`
	Merged string   `yaml:"merged,omitempty"`
}

// IndexConfig says where index artifacts are stored.
type IndexConfig struct {
	// Store is "local" (default) or "s3".
	Store string `yaml:"store,omitempty"`
	Dir   string `yaml:"dir,omitempty"`

	Bucket    string `yaml:"bucket,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`
	Region    string `yaml:"region,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
	PathStyle bool   `yaml:"path_style,omitempty"`
}

// CacheConfig selects the translation cache.
type CacheConfig struct {
	// Type is "memory" (default), "badger", "redis" or "none".
	Type     string `yaml:"type,omitempty"`
	Dir      string `yaml:"dir,omitempty"`
	Addr     string `yaml:"addr,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`

	// TTL is the entry lifetime in seconds. Zero keeps entries forever.
	TTL int `yaml:"ttl,omitempty"`
}

// ModelsConfig points at optional local model files. Price, Crop and Pest
// are host model artifacts registered for insight generation.
type ModelsConfig struct {
	Intent string `yaml:"intent,omitempty"`
	Entity string `yaml:"entity,omitempty"`
	Price  string `yaml:"price,omitempty"`
	Crop   string `yaml:"crop,omitempty"`
	Pest   string `yaml:"pest,omitempty"`
}

// PipelineConfig tunes retrieval.
type PipelineConfig struct {
	TopK int `yaml:"top_k,omitempty"`

	// MaxDistance is the squared-L2 cutoff for retrieved context. Unset
	// means DefaultMaxDistance; 0 disables the cutoff.
	MaxDistance *float64 `yaml:"max_distance"`
}

// LoadConfig loads or creates the default configuration file
func LoadConfig() (*Config, error) {
	return LoadConfigWithPath("")
}

// LoadConfigWithPath loads configuration from a custom path
func LoadConfigWithPath(customPath string) (*Config, error) {
	var configPath string

	if customPath != "" {
		configPath = customPath
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, DefaultBaseDir, DefaultConfigFile)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := &Config{
		Contexts:   make(map[string]*Context),
		configPath: configPath,
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.Save()
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Contexts == nil {
		cfg.Contexts = make(map[string]*Context)
	}
	for name, ctx := range cfg.Contexts {
		if ctx == nil {
			ctx = &Context{}
			cfg.Contexts[name] = ctx
		}
		ctx.Name = name
	}
	cfg.configPath = configPath

	return cfg, nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Path returns the config file path
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the config directory path
func (c *Config) Dir() string {
	return filepath.Dir(c.configPath)
}

// AddContext adds or replaces a context
func (c *Config) AddContext(name string, ctx *Context) error {
	ctx.Name = name
	c.Contexts[name] = ctx
	return c.Save()
}

// DeleteContext removes a context
func (c *Config) DeleteContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	delete(c.Contexts, name)
	if c.CurrentContext == name {
		c.CurrentContext = ""
	}
	return c.Save()
}

// UseContext sets the current context
func (c *Config) UseContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	c.CurrentContext = name
	return c.Save()
}

// GetContext returns a specific context
func (c *Config) GetContext(name string) (*Context, error) {
	ctx, ok := c.Contexts[name]
	if !ok {
		return nil, fmt.Errorf("context %q not found", name)
	}
	return ctx, nil
}

// GetCurrentContext returns the current context
func (c *Config) GetCurrentContext() (*Context, error) {
	if c.CurrentContext == "" {
		return nil, fmt.Errorf("no current context set")
	}
	return c.GetContext(c.CurrentContext)
}

// ResolveContext returns the context by name, or the current context if
// name is empty. With no current context and no contexts at all, it
// returns an empty context so the pipeline can run on defaults and
// environment keys.
func (c *Config) ResolveContext(name string) (*Context, error) {
	if name == "" {
		if c.CurrentContext == "" && len(c.Contexts) == 0 {
			return &Context{Name: "default"}, nil
		}
		return c.GetCurrentContext()
	}
	return c.GetContext(name)
}

// ListContexts returns all context names, sorted
func (c *Config) ListContexts() []string {
	return slices.Sorted(maps.Keys(c.Contexts))
}

// ApplyEnv fills empty API keys from the environment. getenv is usually
// os.Getenv.
func (ctx *Context) ApplyEnv(getenv func(string) string) {
	if ctx.LLM.APIKey == "" {
		if ctx.Provider() == "gemini" {
			ctx.LLM.APIKey = getenv(EnvGeminiKey)
		} else {
			ctx.LLM.APIKey = getenv(EnvOpenAIKey)
		}
	}
	if ctx.Embedding.APIKey == "" {
		ctx.Embedding.APIKey = getenv(EnvEmbedKey)
	}
	if ctx.Embedding.APIKey == "" {
		ctx.Embedding.APIKey = getenv(EnvOpenAIKey)
	}
}

// Provider returns the lowercased LLM provider, "openai" when unset.
func (ctx *Context) Provider() string {
	if p := strings.ToLower(strings.TrimSpace(ctx.LLM.Provider)); p != "" {
		return p
	}
	return "openai"
}

// TopK returns the retrieval depth.
func (ctx *Context) TopK() int {
	if ctx.Pipeline.TopK > 0 {
		return ctx.Pipeline.TopK
	}
	return DefaultTopK
}

// MaxDistance returns the context cutoff; 0 means disabled.
func (ctx *Context) MaxDistance() float64 {
	if ctx.Pipeline.MaxDistance == nil {
		return DefaultMaxDistance
	}
	return max(*ctx.Pipeline.MaxDistance, 0)
}

// Masked returns a copy with secrets masked for display.
func (ctx *Context) Masked() *Context {
	out := *ctx
	out.LLM.APIKey = MaskAPIKey(ctx.LLM.APIKey)
	out.Embedding.APIKey = MaskAPIKey(ctx.Embedding.APIKey)
	out.Index.SecretKey = MaskAPIKey(ctx.Index.SecretKey)
	out.Cache.Password = MaskAPIKey(ctx.Cache.Password)
	return &out
}

// MaskAPIKey masks the API key for display
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
