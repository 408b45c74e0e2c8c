//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/raceintel/internal/database"
	"github.com/yourusername/raceintel/internal/models"
)

func TestPostgresPredictionRepository_InsertAndAudit(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repo := NewPostgresPredictionRepository(db)
	ctx := context.Background()

	p := models.Prediction{
		ID:              uuid.New(),
		RaceID:          "attheraces_aqueduct_20260730_1905_R4_t",
		Venue:           "Aqueduct",
		RaceNumber:      4,
		StartTime:       time.Now().Add(-time.Hour),
		Discipline:      models.Thoroughbred,
		SelectionNumber: 3,
		SelectionName:   "Quick Silver",
		IsGoldmine:      true,
		Analyzer:        "TrifectaAnalyzer",
	}
	require.NoError(t, repo.Insert(ctx, &p))

	pending, err := repo.UnauditedSince(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.NotEmpty(t, pending)

	profit := 18.0
	pending[0].Verdict = models.VerdictCashed
	pending[0].MatchTier = models.MatchTierExact
	pending[0].NetProfit = &profit

	require.NoError(t, repo.SaveVerdicts(ctx, pending[:1]))
}
