package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/querent/internal/intent"
	"github.com/ppiankov/querent/internal/model"
)

var (
	searchIntent      string
	searchMaxResults  int
	searchVerify      bool
	searchBypassCache bool
	searchJSON        bool
	searchTimeout     time.Duration
	searchLat         float64
	searchLon         float64
	searchCity        string
	searchCountry     string
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run a query across all configured providers",
	Long: `Search classifies the query's intent, fans it out to the matching
providers in parallel, and prints a ranked, deduplicated, summarized
answer with source attributions.

Example:
  querent search "weather in Boston"
  querent search "who is Ada Lovelace" --verify
  querent search "latest AI news" --max-results 5 --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchIntent, "intent", "", "force query intent (weather, news, person_whois, fact_check, ...)")
	searchCmd.Flags().IntVar(&searchMaxResults, "max-results", model.DefaultMaxResults, "maximum results to return")
	searchCmd.Flags().BoolVar(&searchVerify, "verify", false, "cross-reference the claim against retrieved evidence")
	searchCmd.Flags().BoolVar(&searchBypassCache, "bypass-cache", false, "skip cache lookups (still stores fresh results)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print the full response as JSON")
	searchCmd.Flags().DurationVar(&searchTimeout, "timeout", model.DefaultTimeout, "overall search deadline")
	searchCmd.Flags().Float64Var(&searchLat, "lat", 0, "location latitude")
	searchCmd.Flags().Float64Var(&searchLon, "lon", 0, "location longitude")
	searchCmd.Flags().StringVar(&searchCity, "city", "", "location city")
	searchCmd.Flags().StringVar(&searchCountry, "country", "", "location country")
}

func runSearch(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	ctx, cancel := context.WithTimeout(context.Background(), searchTimeout+5*time.Second)
	defer cancel()

	cfg := loadConfig()
	if searchVerify {
		cfg.Search.EnableFactVerification = true
	}
	orchestrator := buildOrchestrator(cfg)

	query := model.NewSearchQuery(text)
	query.MaxResults = searchMaxResults
	query.Timeout = searchTimeout
	query.BypassCache = searchBypassCache

	if searchIntent != "" {
		parsed, err := model.ParseIntent(searchIntent)
		if err != nil {
			return err
		}
		query.Intent = parsed
	}
	if searchCity != "" || searchLat != 0 || searchLon != 0 {
		query.Location = &model.LocationContext{
			Latitude:  searchLat,
			Longitude: searchLon,
			City:      searchCity,
			Country:   searchCountry,
		}
		if err := query.Location.Validate(); err != nil {
			return err
		}
	}

	if verbose && query.Intent == "" {
		detection := intent.NewDetector().Detect(query)
		fmt.Fprintf(os.Stderr, "Intent: %s\n", intent.Describe(detection))
	}
	if searchVerify && query.Intent == "" {
		query.Intent = model.IntentFactCheck
	}

	response, err := orchestrator.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(response)
	}
	printResponse(response)
	return nil
}

func printResponse(response *model.SearchResponse) {
	fmt.Printf("%s [intent: %s, %dms", response.StatusMessage(), response.Intent, response.LatencyMs)
	if response.CacheHit {
		fmt.Print(", cached")
	}
	fmt.Println("]")

	if response.Summary != "" {
		fmt.Println()
		fmt.Println(response.Summary)
	}

	if len(response.Results) > 0 {
		fmt.Println()
		for i, item := range response.Results {
			fmt.Printf("%d. %s\n", i+1, item.Title)
			if item.Snippet != "" {
				fmt.Printf("   %s\n", item.Quote(40))
			}
			if item.URL != "" {
				fmt.Printf("   %s\n", item.URL)
			}
		}
	}

	if response.FactVerification != nil {
		fmt.Println()
		fmt.Println("Verification:", response.FactVerification.Summary())
	}

	if len(response.Attributions) > 0 {
		fmt.Println()
		fmt.Println("Sources:")
		for _, a := range response.Attributions {
			fmt.Printf("  - %s\n", a.Citation())
		}
	}

	for _, msg := range response.Errors {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
	}
}
