package stats

import (
	"bytes"
	"fmt"
	"time"

	"liarsdice/bot/common"
	"liarsdice/domain/entities"
	"liarsdice/domain/utils"

	"github.com/fogleman/gg"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
)

// TableColumn defines a column in the leaderboard table
type TableColumn struct {
	Header    string
	XPosition int
	ColorRGB  [3]float64
}

// TableStyle defines the visual style of the table
type TableStyle struct {
	Width           int
	MinHeight       int
	Padding         int
	RowHeight       int
	HighlightColors [3][4]float64 // gold, silver, bronze
}

// LeaderboardImageGenerator renders the leaderboard as a PNG table
type LeaderboardImageGenerator struct {
	style TableStyle
}

// NewLeaderboardImageGenerator creates a new image generator with default style
func NewLeaderboardImageGenerator() *LeaderboardImageGenerator {
	return &LeaderboardImageGenerator{
		style: TableStyle{
			Width:     400,
			MinHeight: 120,
			Padding:   15,
			RowHeight: 26,
			HighlightColors: [3][4]float64{
				{1, 0.84, 0, 0.1},
				{0.8, 0.8, 0.8, 0.08},
				{0.8, 0.5, 0.2, 0.06},
			},
		},
	}
}

func (g *LeaderboardImageGenerator) columns() []TableColumn {
	p := g.style.Padding
	return []TableColumn{
		{Header: "#", XPosition: p, ColorRGB: [3]float64{0.85, 0.85, 0.9}},
		{Header: "Player", XPosition: p + 25, ColorRGB: [3]float64{1.0, 1.0, 1.0}},
		{Header: "Won", XPosition: p + 150, ColorRGB: [3]float64{0.85, 1.0, 0.85}},
		{Header: "Win%", XPosition: p + 215, ColorRGB: [3]float64{0.85, 0.85, 1.0}},
		{Header: "Lost", XPosition: p + 290, ColorRGB: [3]float64{1.0, 0.85, 0.85}},
	}
}

func leaderboardRow(rank int, r *entities.PlayerRecord) []string {
	name := displayName(r)
	if len(name) > 15 {
		name = name[:14] + "…"
	}
	return []string{
		fmt.Sprintf("%d", rank),
		name,
		fmt.Sprintf("%d/%d", r.GamesWon, r.GamesPlayed),
		utils.FormatPercent(r.WinRate()),
		fmt.Sprintf("%d", r.DiceLost),
	}
}

// Generate draws records in rank order
func (g *LeaderboardImageGenerator) Generate(records []*entities.PlayerRecord) ([]byte, error) {
	start := time.Now()
	defer func() {
		log.WithField("duration_ms", time.Since(start).Milliseconds()).
			WithField("row_count", len(records)).
			Debug("Leaderboard image generation completed")
	}()

	// Header (25px) + header padding (30px) + rows + bottom padding (15px)
	height := 25 + 30 + len(records)*g.style.RowHeight + 15
	if height < g.style.MinHeight {
		height = g.style.MinHeight
	}

	dc := gg.NewContext(g.style.Width, height)
	dc.SetFillRule(gg.FillRuleWinding)

	// Gradient background with subtle texture
	for i := 0; i < height; i++ {
		t := float64(i) / float64(height)
		baseR := 0.02 + t*0.03
		baseG := 0.02 + t*0.05
		baseB := 0.05 + t*0.1
		for x := 0; x < g.style.Width; x++ {
			noise := (float64((x*i)%7) - 3.5) / 255.0
			dc.SetRGB(baseR+noise, baseG+noise, baseB+noise)
			dc.SetPixel(x, i)
		}
	}

	face, err := common.LoadFont(gomono.TTF, 11)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	rankFace, err := common.LoadFont(gobold.TTF, 9)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	dc.SetFontFace(face)

	columns := g.columns()
	y := float64(25)

	// Header background
	dc.SetRGBA(0.3, 0.3, 0.4, 0.4)
	dc.DrawRectangle(0, y-15, float64(g.style.Width), 20)
	dc.Fill()

	dc.SetRGB(1.0, 1.0, 1.0)
	for _, col := range columns {
		common.DrawSharpText(dc, col.Header, float64(col.XPosition), y)
	}

	dc.SetRGBA(0.6, 0.6, 0.7, 0.7)
	dc.SetLineWidth(1)
	dc.DrawLine(0, y+8, float64(g.style.Width), y+8)
	dc.Stroke()

	y += 30
	for i, record := range records {
		data := leaderboardRow(i+1, record)

		if i < 3 {
			c := g.style.HighlightColors[i]
			dc.SetRGBA(c[0], c[1], c[2], c[3])
		} else {
			dc.SetRGBA(0.5, 0.5, 0.6, 0.02)
		}
		dc.DrawRectangle(0, y-15, float64(g.style.Width), float64(g.style.RowHeight))
		dc.Fill()

		if i < 3 {
			medal := [3][3]float64{{1, 0.84, 0}, {0.75, 0.75, 0.75}, {0.8, 0.5, 0.2}}[i]
			dc.SetRGB(medal[0], medal[1], medal[2])
			dc.DrawCircle(float64(g.style.Padding+3), y-4, 5)
			dc.Fill()

			dc.SetRGB(0, 0, 0)
			dc.SetFontFace(rankFace)
			dc.DrawStringAnchored(data[0], float64(g.style.Padding+3), y-5, 0.5, 0.4)
			dc.SetFontFace(face)
		} else {
			c := columns[0].ColorRGB
			dc.SetRGB(c[0], c[1], c[2])
			common.DrawSharpText(dc, data[0], float64(columns[0].XPosition), y)
		}

		for j := 1; j < len(columns); j++ {
			c := columns[j].ColorRGB
			dc.SetRGB(c[0], c[1], c[2])
			common.DrawSharpText(dc, data[j], float64(columns[j].XPosition), y)
		}

		y += float64(g.style.RowHeight)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
