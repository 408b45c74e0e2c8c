package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/raceintel/internal/selfcheck"
)

// verifyCmd runs a reachability smoke check against every configured
// adapter and exits non-zero if every one of them is unreachable, for a
// deploy pipeline to gate on before cutting traffic to a new build.
func verifyCmd(ctx context.Context, configPath *string) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Smoke-check adapter reachability for a given date",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(ctx, *configPath, date)
		},
	}
	cmd.Flags().StringVar(&date, "date", time.Now().UTC().Format("2006-01-02"), "probe date (YYYY-MM-DD)")
	return cmd
}

func runVerify(ctx context.Context, configPath, date string) error {
	a, err := buildApp(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	statuses, checkErr := selfcheck.RunSmokeCheck(ctx, a.engine, date)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(statuses); err != nil {
		return fmt.Errorf("failed to encode selfcheck statuses: %w", err)
	}

	return checkErr
}
