package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOdds_Fractional(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"slash", "7/4", 2.75},
		{"hyphen", "7-4", 2.75},
		{"to", "7 TO 4", 2.75},
		{"even money fraction", "1/1", 2.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Odds(tt.in)
			require.NotNil(t, d)
			got, _ := d.Float64()
			assert.InDelta(t, tt.want, got, 0.01)
		})
	}
}

func TestOdds_American(t *testing.T) {
	d := Odds("+250")
	require.NotNil(t, d)
	got, _ := d.Float64()
	assert.InDelta(t, 3.5, got, 0.01)

	d = Odds("-150")
	require.NotNil(t, d)
	got, _ = d.Float64()
	assert.InDelta(t, 1.67, got, 0.01)
}

func TestOdds_EvensAndScratched(t *testing.T) {
	for _, tok := range []string{"EVN", "EVEN", "EVS", "EVENS"} {
		d := Odds(tok)
		require.NotNil(t, d)
		got, _ := d.Float64()
		assert.Equal(t, 2.0, got)
	}
	for _, tok := range []string{"SCR", "SCRATCHED", "N/A", "NR", "VOID", ""} {
		assert.Nil(t, Odds(tok))
	}
}

func TestOdds_PlainInteger(t *testing.T) {
	d := Odds("5")
	require.NotNil(t, d)
	got, _ := d.Float64()
	assert.InDelta(t, 6.0, got, 0.01)

	d = Odds("51")
	require.NotNil(t, d)
	got, _ = d.Float64()
	assert.InDelta(t, 51.0, got, 0.01)
}

func TestOdds_Decimal(t *testing.T) {
	d := Odds("3.50")
	require.NotNil(t, d)
	got, _ := d.Float64()
	assert.InDelta(t, 3.50, got, 0.01)

	d = Odds("3,50")
	require.NotNil(t, d)
	got, _ = d.Float64()
	assert.InDelta(t, 3.50, got, 0.01)
}

func TestOdds_OutOfRange(t *testing.T) {
	assert.Nil(t, Odds("0.50"))
	assert.Nil(t, Odds("1500"))
}
