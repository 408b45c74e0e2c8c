package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVenue_AliasLookup(t *testing.T) {
	assert.Equal(t, "Aqueduct", Venue("AQU"))
	assert.Equal(t, "Wolverhampton", Venue("DUNSTALL PARK"))
	assert.Equal(t, "Great Yarmouth", Venue("YARMOUTH"))
}

func TestVenue_StripsRacingKeyword(t *testing.T) {
	assert.Equal(t, "Ascot", Venue("Ascot Handicap"))
	assert.Equal(t, "Romford", Venue("Romford Stadium Trophy"))
}

func TestVenue_StripsParentheticalAndTitleCases(t *testing.T) {
	assert.Equal(t, "Newmarket", Venue("newmarket (IRE)"))
	assert.Equal(t, "Some New Track", Venue("  some new track  "))
}

func TestCanonicalization_Idempotent(t *testing.T) {
	base := Canonical(Venue("Gulfstream Park"))
	withSuffix := Canonical(Venue("Gulfstream Park (IRE)"))
	withDash := Canonical(Venue("  Gulfstream Park — Handicap"))
	assert.Equal(t, base, withSuffix)
	assert.Equal(t, base, withDash)
	assert.Equal(t, "gulfstreampark", base)
}
