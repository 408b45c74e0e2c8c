package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunnerName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"strips country suffix", "Thunder Bolt (IRE)", "Thunder Bolt"},
		{"strips program prefix", "4. Lucky Star", "Lucky Star"},
		{"drops disallowed chars", "Go-Go $$ Gadget!", "Go-Go Gadget"},
		{"collapses whitespace", "  Midnight   Runner  ", "Midnight Runner"},
		{"empty falls back to unknown", "   ", "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RunnerName(tt.in))
		})
	}
}
