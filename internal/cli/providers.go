package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// providersCmd represents the providers command
var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Check provider health and rate limit status",
	Long: `Probe every configured provider with a lightweight request and print
whether it is reachable, any remaining API quota it reports, and the
state of its local rate bucket.`,
	RunE: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	orchestrator := buildOrchestrator(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	providers := orchestrator.Providers()
	if len(providers) == 0 {
		fmt.Println("No providers configured")
		return nil
	}

	for _, p := range providers {
		status := p.HealthCheck(ctx)

		state := "healthy"
		if !status.Healthy {
			state = "unhealthy"
		}
		fmt.Printf("%-12s %s", p.Name(), state)
		if status.QuotaRemaining != nil {
			fmt.Printf("  quota=%d", *status.QuotaRemaining)
		}
		if status.ErrorMessage != "" {
			fmt.Printf("  (%s)", status.ErrorMessage)
		}
		fmt.Println()

		if verbose {
			limit := orchestrator.Limits().StatusFor(p.Name())
			fmt.Printf("             %s\n", limit.Message())
		}
	}
	return nil
}
