// Package main provides the entry point for the racing data aggregation
// and analysis engine.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Execute builds the raceintel root command and runs it against os.Args.
func Execute(ctx context.Context) error {
	var configPath string

	root := &cobra.Command{
		Use:          "raceintel",
		Short:        "Multi-source racing data aggregation and analysis engine",
		Version:      fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "path to config file")

	root.AddCommand(serveCmd(ctx, &configPath))
	root.AddCommand(fetchCmd(ctx, &configPath))
	root.AddCommand(auditCmd(ctx, &configPath))
	root.AddCommand(verifyCmd(ctx, &configPath))

	return root.ExecuteContext(ctx)
}
