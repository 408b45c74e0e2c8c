package selfcheck

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/raceintel/internal/adapter"
	"github.com/yourusername/raceintel/internal/adaptermetrics"
	"github.com/yourusername/raceintel/internal/engine"
	"github.com/yourusername/raceintel/internal/models"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

type fakeAdapter struct {
	name     string
	races    []models.Race
	fetchErr error
}

func (f *fakeAdapter) SourceName() string  { return f.name }
func (f *fakeAdapter) AdapterType() adapter.Type { return adapter.Discovery }
func (f *fakeAdapter) GetRaces(_ context.Context, _ string) ([]models.Race, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.races, nil
}

func TestRunSmokeCheckAllReachable(t *testing.T) {
	a := &fakeAdapter{name: "RacingPost", races: []models.Race{{}, {}}}
	b := &fakeAdapter{name: "Timeform", races: []models.Race{{}}}
	eng := engine.New([]adapter.Adapter{a, b}, adaptermetrics.New(), testLogger())

	statuses, err := RunSmokeCheck(context.Background(), eng, "2026-07-30")
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	byName := make(map[string]AdapterStatus, len(statuses))
	for _, s := range statuses {
		byName[s.Source] = s
	}
	assert.True(t, byName["RacingPost"].Reachable)
	assert.Equal(t, 2, byName["RacingPost"].RaceCount)
	assert.True(t, byName["Timeform"].Reachable)
}

func TestRunSmokeCheckPartialOutageIsNotFatal(t *testing.T) {
	a := &fakeAdapter{name: "RacingPost", races: []models.Race{{}}}
	b := &fakeAdapter{name: "Timeform", fetchErr: errors.New("connection refused")}
	eng := engine.New([]adapter.Adapter{a, b}, adaptermetrics.New(), testLogger())

	statuses, err := RunSmokeCheck(context.Background(), eng, "2026-07-30")
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	byName := make(map[string]AdapterStatus, len(statuses))
	for _, s := range statuses {
		byName[s.Source] = s
	}
	assert.True(t, byName["RacingPost"].Reachable)
	assert.False(t, byName["Timeform"].Reachable)
	assert.Equal(t, "connection refused", byName["Timeform"].Err)
}

func TestRunSmokeCheckAllUnreachableIsFatal(t *testing.T) {
	a := &fakeAdapter{name: "RacingPost", fetchErr: errors.New("timeout")}
	eng := engine.New([]adapter.Adapter{a}, adaptermetrics.New(), testLogger())

	statuses, err := RunSmokeCheck(context.Background(), eng, "2026-07-30")
	require.Error(t, err)
	require.Len(t, statuses, 1)
	assert.False(t, statuses[0].Reachable)
}

func TestEnginePingerFailsOnlyWhenEverythingIsDown(t *testing.T) {
	ok := &fakeAdapter{name: "RacingPost", races: []models.Race{{}}}
	eng := engine.New([]adapter.Adapter{ok}, adaptermetrics.New(), testLogger())

	pinger := EnginePinger{Engine: eng}
	assert.NoError(t, pinger.Ping(context.Background()))

	down := &fakeAdapter{name: "RacingPost", fetchErr: errors.New("down")}
	engDown := engine.New([]adapter.Adapter{down}, adaptermetrics.New(), testLogger())
	pingerDown := EnginePinger{Engine: engDown}
	assert.Error(t, pingerDown.Ping(context.Background()))
}
