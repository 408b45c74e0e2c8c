package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePriceToken(t *testing.T) {
	cases := []struct {
		raw     string
		want    float64
		wantOK  bool
	}{
		{"5/2", 3.5, true},
		{"Evens", 2.0, true},
		{"EVS", 2.0, true},
		{"3.50", 3.5, true},
		{"SP", 0, false},
		{"NR", 0, false},
		{"-", 0, false},
		{"", 0, false},
		{"1/0", 0, false},
	}
	for _, tc := range cases {
		got, ok := parsePriceToken(tc.raw)
		assert.Equal(t, tc.wantOK, ok, tc.raw)
		if tc.wantOK {
			assert.InDelta(t, tc.want, got, 0.001, tc.raw)
		}
	}
}

func TestPackUnpackDate(t *testing.T) {
	packed := packDate("2026-07-30", "<html>body</html>")
	date, body, ok := unpackDate(packed)
	assert.True(t, ok)
	assert.Equal(t, "2026-07-30", date)
	assert.Equal(t, "<html>body</html>", body)
}

func TestNormalizeVenue(t *testing.T) {
	assert.Equal(t, "Great Yarmouth", normalizeVenue("  Great   Yarmouth \n"))
}
