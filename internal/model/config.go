package model

import "time"

// Config is the full querent configuration tree.
// Populated from defaults, ~/.querent/config.yaml, QUERENT_* env vars, and flags.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http" mapstructure:"http"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Providers ProvidersConfig `yaml:"providers" mapstructure:"providers"`
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
}

// HTTPConfig controls the shared resilient HTTP client.
type HTTPConfig struct {
	ConnectTimeout time.Duration `yaml:"connect_timeout" mapstructure:"connect_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	UserAgent      string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxRetries     int           `yaml:"max_retries" mapstructure:"max_retries"`
	MaxIdleConns   int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	HTTPProxy      string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy     string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy        string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// CacheConfig controls the two cache keyspaces.
type CacheConfig struct {
	ProviderTTL  time.Duration `yaml:"provider_ttl" mapstructure:"provider_ttl"`
	ProviderSize int           `yaml:"provider_size" mapstructure:"provider_size"`
	ResponseTTL  time.Duration `yaml:"response_ttl" mapstructure:"response_ttl"`
	ResponseSize int           `yaml:"response_size" mapstructure:"response_size"`
}

// RateLimitConfig controls the token buckets gating upstream calls.
type RateLimitConfig struct {
	ProviderCapacity int     `yaml:"provider_capacity" mapstructure:"provider_capacity"`
	ProviderRefill   float64 `yaml:"provider_refill" mapstructure:"provider_refill"` // tokens/sec
	GlobalCapacity   int     `yaml:"global_capacity" mapstructure:"global_capacity"`
	GlobalRefill     float64 `yaml:"global_refill" mapstructure:"global_refill"` // tokens/sec
}

// SearchConfig controls orchestration behavior.
type SearchConfig struct {
	MaxProvidersPerQuery   int           `yaml:"max_providers_per_query" mapstructure:"max_providers_per_query"`
	EnableSummarization    bool          `yaml:"enable_summarization" mapstructure:"enable_summarization"`
	EnableFactVerification bool          `yaml:"enable_fact_verification" mapstructure:"enable_fact_verification"`
	DefaultMaxResults      int           `yaml:"default_max_results" mapstructure:"default_max_results"`
	DefaultTimeout         time.Duration `yaml:"default_timeout" mapstructure:"default_timeout"`
}

// ProvidersConfig holds upstream credentials. Keys are usually supplied
// via SERPAPI_API_KEY / NEWSAPI_API_KEY env vars rather than the file.
type ProvidersConfig struct {
	SerpAPIKey    string `yaml:"serpapi_key,omitempty" mapstructure:"serpapi_key"`
	SerpAPIEngine string `yaml:"serpapi_engine" mapstructure:"serpapi_engine"`
	NewsAPIKey    string `yaml:"newsapi_key,omitempty" mapstructure:"newsapi_key"`
}

// LLMConfig controls the optional abstractive summarizer.
// Provider "" disables it; extractive summaries are always produced.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "openai" or ""
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			ConnectTimeout: 15 * time.Second,
			RequestTimeout: 30 * time.Second,
			UserAgent:      "querent/0.1 (+https://github.com/ppiankov/querent)",
			MaxRetries:     3,
			MaxIdleConns:   5,
		},
		Cache: CacheConfig{
			ProviderTTL:  60 * time.Minute,
			ProviderSize: 1000,
			ResponseTTL:  30 * time.Minute,
			ResponseSize: 500,
		},
		RateLimit: RateLimitConfig{
			ProviderCapacity: 60,
			ProviderRefill:   1.0,
			GlobalCapacity:   100,
			GlobalRefill:     10.0,
		},
		Search: SearchConfig{
			MaxProvidersPerQuery:   5,
			EnableSummarization:    true,
			EnableFactVerification: true,
			DefaultMaxResults:      DefaultMaxResults,
			DefaultTimeout:         DefaultTimeout,
		},
		Providers: ProvidersConfig{
			SerpAPIEngine: "google",
		},
		LLM: LLMConfig{
			Provider:  "",
			Model:     "gpt-4o-mini",
			Timeout:   30,
			MaxTokens: 500,
		},
	}
}
