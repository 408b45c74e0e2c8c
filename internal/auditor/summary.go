package auditor

import "github.com/yourusername/raceintel/internal/models"

// AuditSummary rolls up a batch of audited predictions into aggregate
// performance figures, for reporting rather than per-tip persistence.
type AuditSummary struct {
	TotalStaked   float64
	TotalReturned float64
	ROI           float64
	ByVerdict     map[models.Verdict]int
}

// Summarize aggregates a set of audited predictions. Predictions that
// haven't completed audit are ignored.
func Summarize(tips []models.Prediction) AuditSummary {
	summary := AuditSummary{ByVerdict: make(map[models.Verdict]int)}

	for _, tip := range tips {
		if !tip.AuditCompleted {
			continue
		}
		summary.ByVerdict[tip.Verdict]++
		summary.TotalStaked += StandardBet

		if tip.NetProfit != nil {
			summary.TotalReturned += StandardBet + *tip.NetProfit
		}
	}

	if summary.TotalStaked > 0 {
		summary.ROI = (summary.TotalReturned - summary.TotalStaked) / summary.TotalStaked
	}
	return summary
}
