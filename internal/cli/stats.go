package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache and rate limit statistics",
	Long: `Display cache sizes and hit rates together with per-provider rate
bucket state for a freshly built pipeline. Mostly useful with a shared
cache directory or when run inside a long-lived process.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	orchestrator := buildOrchestrator(cfg)

	stats := orchestrator.Cache().Stats()
	fmt.Println("Cache:")
	fmt.Printf("  provider entries: %d (hit rate %.0f%%)\n", stats.ProviderSize, stats.ProviderHitRate*100)
	fmt.Printf("  response entries: %d (hit rate %.0f%%)\n", stats.ResponseSize, stats.ResponseHitRate*100)

	fmt.Println("Rate limits:")
	for _, p := range orchestrator.Providers() {
		status := orchestrator.Limits().StatusFor(p.Name())
		fmt.Printf("  %-12s %s\n", p.Name(), status.Message())
	}
	return nil
}
