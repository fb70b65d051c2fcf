package cli

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/ppiankov/querent/internal/httpx"
	"github.com/ppiankov/querent/internal/model"
	"github.com/ppiankov/querent/internal/provider"
	"github.com/ppiankov/querent/internal/search"
	"github.com/ppiankov/querent/internal/summarize"
)

// loadConfig merges defaults with the config file and environment.
func loadConfig() model.Config {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid configuration, using defaults: %v\n", err)
		cfg = model.DefaultConfig()
	}

	// Keyed providers read their secrets from the environment first.
	if key := os.Getenv("SERPAPI_API_KEY"); key != "" {
		cfg.Providers.SerpAPIKey = key
	}
	if key := os.Getenv("NEWSAPI_API_KEY"); key != "" {
		cfg.Providers.NewsAPIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = key
	}
	return cfg
}

// buildOrchestrator wires the pipeline: free providers are always
// registered, keyed providers only when a key is present.
func buildOrchestrator(cfg model.Config) *search.Orchestrator {
	client := httpx.New(cfg.HTTP)
	orchestrator := search.New(cfg)

	orchestrator.Register(provider.NewWikipedia(client))
	orchestrator.Register(provider.NewDuckDuckGo(client))
	orchestrator.Register(provider.NewWttr(client))

	if cfg.Providers.SerpAPIKey != "" {
		orchestrator.Register(provider.NewSerpAPI(client, cfg.Providers.SerpAPIKey, cfg.Providers.SerpAPIEngine))
	} else if verbose {
		fmt.Fprintln(os.Stderr, "SERPAPI_API_KEY not set, serpapi provider disabled")
	}
	if cfg.Providers.NewsAPIKey != "" {
		orchestrator.Register(provider.NewNewsAPI(client, cfg.Providers.NewsAPIKey))
	} else if verbose {
		fmt.Fprintln(os.Stderr, "NEWSAPI_API_KEY not set, newsapi provider disabled")
	}

	if cfg.LLM.Provider != "" {
		llm, err := summarize.NewLLMSummarizer(cfg.LLM)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: llm summarizer disabled: %v\n", err)
		} else {
			orchestrator.SetLLMSummarizer(llm)
		}
	}
	return orchestrator
}
