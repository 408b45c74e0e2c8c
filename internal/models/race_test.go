package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRace_DedupKey(t *testing.T) {
	start := time.Date(2025, 10, 20, 18, 30, 0, 0, time.UTC)
	a := Race{Venue: "Gulfstream Park", RaceNumber: 3, StartTime: start}
	b := Race{Venue: "gulfstream park", RaceNumber: 3, StartTime: start}
	assert.Equal(t, a.DedupKey(), b.DedupKey())
}

func TestRace_ActiveRunners(t *testing.T) {
	r := Race{Runners: []Runner{
		{Number: 1, Scratched: false},
		{Number: 2, Scratched: true},
		{Number: 3, Scratched: false},
	}}
	active := r.ActiveRunners()
	assert.Len(t, active, 2)
	r.RecomputeFieldSize()
	assert.Equal(t, 2, r.FieldSize)
}

func TestDiscipline_SuffixAndInitial(t *testing.T) {
	assert.Equal(t, "_t", Thoroughbred.Suffix())
	assert.Equal(t, "T", Thoroughbred.Initial())
	assert.Equal(t, "_g", Greyhound.Suffix())
	assert.Equal(t, "G", Greyhound.Initial())
}
