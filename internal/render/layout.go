// Package render composites the game board over the camera frame.
package render

import (
	"image"
	"image/color"

	"github.com/ayusman/pinchhanoi/internal/hanoi"
)

// Colors
var (
	PegColor  = color.RGBA{R: 100, G: 100, B: 100, A: 255}
	GlowColor = color.RGBA{R: 55, G: 237, B: 26, A: 255}
	TextColor = color.RGBA{A: 255}
	WinColor  = color.RGBA{G: 128, A: 255}
	HandColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

	// DiscColors is indexed by disc size minus one and wraps for larger games.
	DiscColors = []color.RGBA{
		{R: 55, G: 237, B: 26, A: 255},
		{R: 237, G: 26, B: 188, A: 255},
		{R: 26, G: 237, B: 157, A: 255},
	}
)

// Layout holds the pixel geometry of the board.
type Layout struct {
	Width      int
	Height     int
	PegHeight  int
	PegWidth   int
	DiscUnit   int // disc width per size step
	DiscHeight int
	RowPitch   int // vertical distance between stacked discs
	GlowRadius int
}

// DefaultLayout returns the 1000x600 board.
func DefaultLayout() Layout {
	return Layout{
		Width:      1000,
		Height:     600,
		PegHeight:  300,
		PegWidth:   10,
		DiscUnit:   40,
		DiscHeight: 20,
		RowPitch:   25,
		GlowRadius: 60,
	}
}

// WithSize returns a copy of l resized to width x height. Non-positive
// values keep the current size.
func (l Layout) WithSize(width, height int) Layout {
	if width > 0 {
		l.Width = width
	}
	if height > 0 {
		l.Height = height
	}
	return l
}

// PegX returns the horizontal center of a peg: quarter, half, three quarters.
func (l Layout) PegX(peg int) int {
	return (peg + 1) * l.Width / (hanoi.PegCount + 1)
}

// PegRect returns the rectangle of a peg's pole.
func (l Layout) PegRect(peg int) image.Rectangle {
	x := l.PegX(peg)
	half := l.PegWidth / 2
	return image.Rect(x-half, l.Height-l.PegHeight, x+half, l.Height)
}

// GlowCenter returns the center of the highlight drawn behind a peg.
func (l Layout) GlowCenter(peg int) image.Point {
	return image.Pt(l.PegX(peg), l.Height-l.PegHeight/2)
}

// DiscRect returns the rectangle of a disc resting on a peg at the given
// level, counted from the bottom.
func (l Layout) DiscRect(peg, level int, d hanoi.Disc) image.Rectangle {
	y := l.Height - l.DiscHeight - level*l.RowPitch
	return l.discAt(l.PegX(peg), y, d)
}

// HeldRect returns the rectangle of a lifted disc following the hand at
// normalized x. Lifted discs float at a quarter of the height.
func (l Layout) HeldRect(x float64, d hanoi.Disc) image.Rectangle {
	return l.discAt(int(x*float64(l.Width)), l.Height/4, d)
}

func (l Layout) discAt(cx, cy int, d hanoi.Disc) image.Rectangle {
	w := int(d) * l.DiscUnit
	h := l.DiscHeight
	return image.Rect(cx-w/2, cy-h/2, cx-w/2+w, cy-h/2+h)
}

// Point converts normalized coordinates to pixels.
func (l Layout) Point(x, y float64) image.Point {
	return image.Pt(int(x*float64(l.Width)), int(y*float64(l.Height)))
}

// DiscColor returns the fill color for a disc size.
func DiscColor(d hanoi.Disc) color.RGBA {
	if d < 1 {
		return DiscColors[0]
	}
	return DiscColors[(int(d)-1)%len(DiscColors)]
}
