package sources

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/raceintel/internal/adaptermetrics"
	"github.com/yourusername/raceintel/internal/manualoverride"
)

func TestBuild_OnlyConstructsEnabledSources(t *testing.T) {
	cfg := Config{Sources: map[string]SourceConfig{
		"RacingPost": {Enabled: true, APIKey: "key", RequestsPerSecond: 2},
		"GBGB":       {Enabled: true},
		"Equibase":   {Enabled: false},
	}}

	adapters := Build(cfg, nil, adaptermetrics.New(), manualoverride.New(time.Hour), testLogger())
	require.Len(t, adapters, 2)

	names := map[string]bool{}
	for _, a := range adapters {
		names[a.SourceName()] = true
	}
	assert.True(t, names["RacingPost"])
	assert.True(t, names["GBGB"])
	assert.False(t, names["Equibase"])
}

func TestBuild_NoSourcesEnabled(t *testing.T) {
	adapters := Build(Config{}, nil, adaptermetrics.New(), manualoverride.New(time.Hour), testLogger())
	assert.Empty(t, adapters)
}
