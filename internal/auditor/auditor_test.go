package auditor

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/raceintel/internal/models"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

type fakeStore struct {
	pending []models.Prediction
	saved   []models.Prediction
}

func (f *fakeStore) UnauditedSince(_ context.Context, _ time.Time) ([]models.Prediction, error) {
	return f.pending, nil
}

func (f *fakeStore) SaveVerdicts(_ context.Context, predictions []models.Prediction) error {
	f.saved = predictions
	return nil
}

func resultRace(venue string, raceNumber int, start time.Time, activeField int, positions []models.FinishPosition) models.ResultRace {
	return models.ResultRace{
		Race: models.Race{
			Venue:      venue,
			RaceNumber: raceNumber,
			StartTime:  start,
			Discipline: models.Thoroughbred,
			FieldSize:  activeField,
		},
		Positions: positions,
	}
}

func prediction(venue string, raceNumber int, start time.Time, selectionNumber int) models.Prediction {
	return models.Prediction{
		ID:              uuid.New(),
		Venue:           venue,
		RaceNumber:      raceNumber,
		StartTime:       start,
		Discipline:      models.Thoroughbred,
		SelectionNumber: selectionNumber,
		CreatedAt:       start,
	}
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestAuditor_CashesPlacedSelection(t *testing.T) {
	start := time.Date(2026, 7, 30, 19, 5, 0, 0, time.UTC)
	rr := resultRace("Aqueduct", 4, start, 7, []models.FinishPosition{
		{Number: 4, Position: intPtr(2), PlacePayout: floatPtr(3.40)},
	})
	p := prediction("Aqueduct", 4, start, 4)

	store := &fakeStore{pending: []models.Prediction{p}}
	a := New(store, testLogger(), 0)

	audited, err := a.Run(context.Background(), start.Add(time.Hour), []models.ResultRace{rr})
	require.NoError(t, err)
	require.Len(t, audited, 1)
	assert.Equal(t, models.VerdictCashed, audited[0].Verdict)
	require.NotNil(t, audited[0].NetProfit)
	assert.InDelta(t, 1.40, *audited[0].NetProfit, 0.001)
	assert.Equal(t, models.MatchTierExact, audited[0].MatchTier)
}

func TestAuditor_BurnsOutsidePlaces(t *testing.T) {
	start := time.Date(2026, 7, 30, 19, 5, 0, 0, time.UTC)
	rr := resultRace("Aqueduct", 4, start, 7, []models.FinishPosition{
		{Number: 4, Position: intPtr(5)},
	})
	p := prediction("Aqueduct", 4, start, 4)

	store := &fakeStore{pending: []models.Prediction{p}}
	a := New(store, testLogger(), 0)

	audited, err := a.Run(context.Background(), start.Add(time.Hour), []models.ResultRace{rr})
	require.NoError(t, err)
	require.Len(t, audited, 1)
	assert.Equal(t, models.VerdictBurned, audited[0].Verdict)
	assert.InDelta(t, -2.0, *audited[0].NetProfit, 0.001)
}

func TestAuditor_VoidsWhenSelectionAbsent(t *testing.T) {
	start := time.Date(2026, 7, 30, 19, 5, 0, 0, time.UTC)
	rr := resultRace("Aqueduct", 4, start, 7, []models.FinishPosition{
		{Number: 1, Position: intPtr(1)},
	})
	p := prediction("Aqueduct", 4, start, 4)

	store := &fakeStore{pending: []models.Prediction{p}}
	a := New(store, testLogger(), 0)

	audited, err := a.Run(context.Background(), start.Add(time.Hour), []models.ResultRace{rr})
	require.NoError(t, err)
	require.Len(t, audited, 1)
	assert.Equal(t, models.VerdictVoid, audited[0].Verdict)
}

func TestAuditor_BurnsWhenFinishedOutsideTop5(t *testing.T) {
	start := time.Date(2026, 7, 30, 19, 5, 0, 0, time.UTC)
	rr := resultRace("Aqueduct", 4, start, 7, []models.FinishPosition{
		{Number: 4, Position: nil},
	})
	p := prediction("Aqueduct", 4, start, 4)

	store := &fakeStore{pending: []models.Prediction{p}}
	a := New(store, testLogger(), 0)

	audited, err := a.Run(context.Background(), start.Add(time.Hour), []models.ResultRace{rr})
	require.NoError(t, err)
	assert.Equal(t, models.VerdictBurned, audited[0].Verdict)
	assert.InDelta(t, -2.0, *audited[0].NetProfit, 0.001)
}

func TestAuditor_TimeRelaxedFallback(t *testing.T) {
	start := time.Date(2026, 7, 30, 19, 5, 0, 0, time.UTC)
	differentTime := time.Date(2026, 7, 30, 19, 40, 0, 0, time.UTC)
	rr := resultRace("Aqueduct", 4, differentTime, 7, []models.FinishPosition{
		{Number: 4, Position: intPtr(1), PlacePayout: floatPtr(5.0)},
	})
	p := prediction("Aqueduct", 4, start, 4)

	store := &fakeStore{pending: []models.Prediction{p}}
	a := New(store, testLogger(), 0)

	audited, err := a.Run(context.Background(), start.Add(time.Hour), []models.ResultRace{rr})
	require.NoError(t, err)
	require.Len(t, audited, 1)
	assert.Equal(t, models.MatchTierTimeRelaxed, audited[0].MatchTier)
}

func TestSummarize(t *testing.T) {
	tips := []models.Prediction{
		{AuditCompleted: true, Verdict: models.VerdictCashed, NetProfit: floatPtr(1.40)},
		{AuditCompleted: true, Verdict: models.VerdictBurned, NetProfit: floatPtr(-2.0)},
		{AuditCompleted: false},
	}
	summary := Summarize(tips)
	assert.Equal(t, 1, summary.ByVerdict[models.VerdictCashed])
	assert.Equal(t, 1, summary.ByVerdict[models.VerdictBurned])
	assert.InDelta(t, 4.0, summary.TotalStaked, 0.001)
}
