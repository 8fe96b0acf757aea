package utils

import (
	"testing"

	"liarsdice/domain/entities"

	"github.com/stretchr/testify/assert"
)

func TestFormatDice(t *testing.T) {
	assert.Equal(t, "3 1 6", FormatDice([]int{3, 1, 6}))
	assert.Equal(t, "", FormatDice(nil))
	assert.Equal(t, "⚂ ⚀ ⚅", FormatDiceGlyphs([]int{3, 1, 6}))
	assert.Equal(t, "?", FormatDiceGlyphs([]int{9}))
}

func TestFormatBid(t *testing.T) {
	tests := []struct {
		bid      entities.Bid
		expected string
	}{
		{entities.Bid{Quantity: 1, Face: 1}, "1 ones"},
		{entities.Bid{Quantity: 5, Face: 4}, "5 fours"},
		{entities.Bid{Quantity: 12, Face: 6}, "12 sixes"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatBid(tt.bid))
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "73.7%", FormatPercent(1611.0/2187.0))
	assert.Equal(t, "100.0%", FormatPercent(1))
	assert.Equal(t, "0.0%", FormatPercent(0))
}
