package liarsdice

import (
	"bytes"
	"fmt"
	"time"

	"liarsdice/bot/common"
	"liarsdice/domain/entities"
	"liarsdice/domain/events"
	"liarsdice/domain/utils"

	"github.com/fogleman/gg"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
)

// RevealStyle defines the layout of the reveal image
type RevealStyle struct {
	Width     int
	Padding   int
	NameWidth int
	DieSize   int
	DieGap    int
	RowHeight int
	HeaderH   int
}

// RevealImageGenerator draws every pool at a challenge, tinting the dice that count toward the bid
type RevealImageGenerator struct {
	style RevealStyle
}

// NewRevealImageGenerator creates a generator with the default style
func NewRevealImageGenerator() *RevealImageGenerator {
	return &RevealImageGenerator{
		style: RevealStyle{
			Width:     420,
			Padding:   15,
			NameWidth: 110,
			DieSize:   28,
			DieGap:    10,
			RowHeight: 44,
			HeaderH:   40,
		},
	}
}

// countsToward reports whether a die adds to the count for face
func countsToward(die, face int) bool {
	return die == face || (face != 1 && die == 1)
}

// Generate renders the reveal as PNG bytes
func (g *RevealImageGenerator) Generate(e events.DiceRevealedEvent) ([]byte, error) {
	start := time.Now()
	defer func() {
		log.WithField("duration_ms", time.Since(start).Milliseconds()).
			WithField("pool_count", len(e.Pools)).
			Debug("Reveal image generation completed")
	}()

	maxDice := 0
	for _, pool := range e.Pools {
		if len(pool.Dice) > maxDice {
			maxDice = len(pool.Dice)
		}
	}

	width := g.style.Padding*2 + g.style.NameWidth + maxDice*(g.style.DieSize+g.style.DieGap)
	if width < g.style.Width {
		width = g.style.Width
	}
	height := g.style.HeaderH + len(e.Pools)*g.style.RowHeight + g.style.Padding

	dc := gg.NewContext(width, height)

	// Gradient background, felt green towards the bottom
	for y := 0; y < height; y++ {
		t := float64(y) / float64(height)
		dc.SetRGB(0.03+t*0.02, 0.12+t*0.08, 0.07+t*0.04)
		dc.DrawLine(0, float64(y), float64(width), float64(y))
		dc.Stroke()
	}

	headerFace, err := common.LoadFont(gobold.TTF, 14)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	nameFace, err := common.LoadFont(gomono.TTF, 12)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	// Header band
	dc.SetRGBA(0, 0, 0, 0.35)
	dc.DrawRectangle(0, 0, float64(width), float64(g.style.HeaderH-8))
	dc.Fill()

	dc.SetFontFace(headerFace)
	dc.SetRGB(1, 1, 1)
	header := fmt.Sprintf("Bid %s", utils.FormatBid(e.Bid))
	common.DrawSharpText(dc, header, float64(g.style.Padding), 21)

	verdict := fmt.Sprintf("Counted %d", e.ActualCount)
	if e.ActualCount >= e.Bid.Quantity {
		dc.SetRGB(0.4, 1.0, 0.4)
	} else {
		dc.SetRGB(1.0, 0.4, 0.4)
	}
	w, _ := dc.MeasureString(verdict)
	common.DrawSharpText(dc, verdict, float64(width-g.style.Padding)-w, 21)

	dc.SetFontFace(nameFace)
	y := float64(g.style.HeaderH)
	for i, pool := range e.Pools {
		if i%2 == 1 {
			dc.SetRGBA(1, 1, 1, 0.03)
			dc.DrawRectangle(0, y, float64(width), float64(g.style.RowHeight))
			dc.Fill()
		}

		name := pool.Name
		if len(name) > 12 {
			name = name[:11] + "…"
		}
		dc.SetRGB(0.9, 0.9, 0.95)
		common.DrawSharpText(dc, name, float64(g.style.Padding), y+float64(g.style.RowHeight)/2+4)

		x := float64(g.style.Padding + g.style.NameWidth)
		dieY := y + float64(g.style.RowHeight-g.style.DieSize)/2 + 2
		for _, die := range pool.Dice {
			common.DrawDie(dc, x, dieY, float64(g.style.DieSize), die, countsToward(die, e.Bid.Face))
			x += float64(g.style.DieSize + g.style.DieGap)
		}
		y += float64(g.style.RowHeight)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// matchingDice is how many of a pool's dice count toward face
func matchingDice(pool entities.RevealedPool, face int) int {
	n := 0
	for _, d := range pool.Dice {
		if countsToward(d, face) {
			n++
		}
	}
	return n
}
