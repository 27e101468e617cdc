package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenSetRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"single substitution", "Pimp", "Pump", 75},
		{"case-sensitive", "Pump", "pump", 75},
		{"identical", "Battery Pack", "Battery Pack", 100},
		{"reordered tokens", "fuzzy wuzzy was a bear", "wuzzy fuzzy was a bear", 100},
		{"repeated tokens", "pump pump", "pump", 100},
		{"token subset", "Thrust", "Compute Thrust", 100},
		{"extra whitespace", "  Supply\tPower ", "Supply Power", 100},
		{"partial overlap", "Flight Controler", "Flight Controller", 100 - 100.0/33},
		{"disjoint", "abc", "xyz", 0},
		{"empty left", "", "Pump", 0},
		{"empty right", "Pump", " ", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TokenSetRatio(tt.a, tt.b), 1e-9)
		})
	}
}

func TestTokenSetRatio_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"Flight Controler", "Flight Controller"},
		{"Pimp", "Pump"},
		{"Compute Attitude", "Attitude Computation"},
	}
	for _, p := range pairs {
		assert.InDelta(t, TokenSetRatio(p[0], p[1]), TokenSetRatio(p[1], p[0]), 1e-9, "%q vs %q", p[0], p[1])
	}
}

func TestTokenSetRatio_Unicode(t *testing.T) {
	// Lengths are counted in characters, not bytes.
	assert.InDelta(t, 75.0, TokenSetRatio("Pümp", "Pamp"), 1e-9)
}
