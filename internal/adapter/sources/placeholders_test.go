package sources

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/raceintel/internal/adaptermetrics"
	"github.com/yourusername/raceintel/internal/manualoverride"
)

func TestPlaceholderSources_NeverProduceRaces(t *testing.T) {
	overrides := manualoverride.New(time.Hour)
	monitor := adaptermetrics.New()

	hrn := NewHorseRacingNation(monitor, overrides, testLogger(), 1)
	races, err := hrn.GetRaces(context.Background(), "2026-07-30")
	assert.Error(t, err)
	assert.Empty(t, races)

	p := NewPunters(monitor, overrides, testLogger(), 1)
	races, err = p.GetRaces(context.Background(), "2026-07-30")
	assert.Error(t, err)
	assert.Empty(t, races)

	rtv := NewRacingTV(monitor, overrides, testLogger(), 1)
	races, err = rtv.GetRaces(context.Background(), "2026-07-30")
	assert.Error(t, err)
	assert.Empty(t, races)
}

func TestUnimplementedTotes_NeverProduceRaces(t *testing.T) {
	overrides := manualoverride.New(time.Hour)
	monitor := adaptermetrics.New()

	x := NewXpressbet(monitor, overrides, testLogger(), 1)
	races, err := x.GetRaces(context.Background(), "2026-07-30")
	assert.Error(t, err)
	assert.Empty(t, races)

	tab := NewTAB(monitor, overrides, testLogger(), 1)
	races, err = tab.GetRaces(context.Background(), "2026-07-30")
	assert.Error(t, err)
	assert.Empty(t, races)

	nyra := NewNYRABets(monitor, overrides, testLogger(), 1)
	races, err = nyra.GetRaces(context.Background(), "2026-07-30")
	assert.Error(t, err)
	assert.Empty(t, races)
}
