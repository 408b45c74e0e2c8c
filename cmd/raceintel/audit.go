package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/raceintel/internal/resultsfeed"
)

// auditCmd runs a single verdict sweep on demand: fetch fresh result races
// for the given date (and the day before, to catch predictions whose
// results posted late) and match every pending prediction against them.
func auditCmd(ctx context.Context, configPath *string) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Run one audit sweep against freshly fetched results",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(ctx, *configPath, date)
		},
	}
	cmd.Flags().StringVar(&date, "date", time.Now().UTC().Format("2006-01-02"), "results date (YYYY-MM-DD)")
	return cmd
}

func runAudit(ctx context.Context, configPath, date string) error {
	a, err := buildApp(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	entry := a.log.WithField("component", "raceintel")

	parsedDate, err := time.Parse("2006-01-02", date)
	if err != nil {
		return fmt.Errorf("invalid --date %q: %w", date, err)
	}
	yesterday := parsedDate.Add(-24 * time.Hour).Format("2006-01-02")

	results := resultsfeed.Fetch(ctx, a.adapters, date, entry)
	results = append(results, resultsfeed.Fetch(ctx, a.adapters, yesterday, entry)...)

	audited, err := a.auditor.Run(ctx, time.Now().UTC(), results)
	if err != nil {
		return fmt.Errorf("audit run failed: %w", err)
	}

	for _, p := range audited {
		a.auditLog.LogVerdictComputed(p.ID.String(), p.RaceID, string(p.Verdict), string(p.MatchTier), p.NetProfit)
	}
	entry.WithField("count", len(audited)).Info("audit sweep complete")
	return nil
}
