package utils

import (
	"fmt"
	"strings"

	"liarsdice/domain/entities"
)

var faceGlyphs = [...]string{"", "⚀", "⚁", "⚂", "⚃", "⚄", "⚅"}

// FormatDice renders dice as plain numbers, e.g. "3 1 6"
func FormatDice(dice []int) string {
	parts := make([]string, len(dice))
	for i, d := range dice {
		parts[i] = fmt.Sprintf("%d", d)
	}
	return strings.Join(parts, " ")
}

// FormatDiceGlyphs renders dice with unicode die faces
func FormatDiceGlyphs(dice []int) string {
	parts := make([]string, len(dice))
	for i, d := range dice {
		if d >= entities.MinFace && d <= entities.MaxFace {
			parts[i] = faceGlyphs[d]
		} else {
			parts[i] = "?"
		}
	}
	return strings.Join(parts, " ")
}

// FormatFace names a face in the plural, "ones" through "sixes"
func FormatFace(face int) string {
	switch face {
	case 1:
		return "ones"
	case 2:
		return "twos"
	case 3:
		return "threes"
	case 4:
		return "fours"
	case 5:
		return "fives"
	case 6:
		return "sixes"
	default:
		return fmt.Sprintf("%d's", face)
	}
}

// FormatBid reads like "three fours" does at the table: "3 fours"
func FormatBid(b entities.Bid) string {
	return fmt.Sprintf("%d %s", b.Quantity, FormatFace(b.Face))
}

// FormatPercent renders a probability with one decimal, "73.7%"
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}
