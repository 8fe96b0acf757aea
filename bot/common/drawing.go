package common

import (
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

// LoadFont loads a font from byte data
func LoadFont(fontData []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(fontData)
	if err != nil {
		return nil, err
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:       size,
		DPI:        72,
		Hinting:    font.HintingFull,
		SubPixelsX: 4,
		SubPixelsY: 4,
	})
	return face, nil
}

// DrawSharpText draws text over a faint offset shadow
func DrawSharpText(dc *gg.Context, text string, x, y float64) {
	dc.Push()
	dc.SetRGBA(0, 0, 0, 0.5)
	dc.DrawString(text, x+0.5, y+0.5)
	dc.Pop()

	dc.DrawString(text, x, y)
}

// pipLayout holds pip centres per face on a unit square
var pipLayout = [7][][2]float64{
	{},
	{{0.5, 0.5}},
	{{0.25, 0.25}, {0.75, 0.75}},
	{{0.25, 0.25}, {0.5, 0.5}, {0.75, 0.75}},
	{{0.25, 0.25}, {0.75, 0.25}, {0.25, 0.75}, {0.75, 0.75}},
	{{0.25, 0.25}, {0.75, 0.25}, {0.5, 0.5}, {0.25, 0.75}, {0.75, 0.75}},
	{{0.25, 0.25}, {0.75, 0.25}, {0.25, 0.5}, {0.75, 0.5}, {0.25, 0.75}, {0.75, 0.75}},
}

// DrawDie draws a die showing face with its top-left corner at x, y.
// highlight tints the die for dice that count toward a bid.
func DrawDie(dc *gg.Context, x, y, size float64, face int, highlight bool) {
	depth := size / 6

	// 3D effect - right side
	dc.SetRGB(0.7, 0.7, 0.7)
	dc.MoveTo(x+size, y)
	dc.LineTo(x+size+depth, y-depth)
	dc.LineTo(x+size+depth, y+size-depth)
	dc.LineTo(x+size, y+size)
	dc.ClosePath()
	dc.Fill()

	// 3D effect - top side
	dc.SetRGB(0.85, 0.85, 0.85)
	dc.MoveTo(x, y)
	dc.LineTo(x+depth, y-depth)
	dc.LineTo(x+size+depth, y-depth)
	dc.LineTo(x+size, y)
	dc.ClosePath()
	dc.Fill()

	if highlight {
		dc.SetRGB(1, 0.92, 0.55)
	} else {
		dc.SetRGB(0.95, 0.95, 0.95)
	}
	dc.DrawRoundedRectangle(x, y, size, size, size/8)
	dc.Fill()

	dc.SetRGB(0.3, 0.3, 0.3)
	dc.SetLineWidth(0.8)
	dc.DrawRoundedRectangle(x, y, size, size, size/8)
	dc.Stroke()

	if face < 1 || face > 6 {
		return
	}
	dc.SetRGB(0.1, 0.1, 0.1)
	if face == 1 {
		// wild ones stand out
		dc.SetRGB(0.8, 0.1, 0.1)
	}
	for _, pip := range pipLayout[face] {
		dc.DrawCircle(x+pip[0]*size, y+pip[1]*size, size/10)
	}
	dc.Fill()
}
