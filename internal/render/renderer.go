package render

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/ayusman/pinchhanoi/internal/detector"
	"github.com/ayusman/pinchhanoi/internal/gesture"
	"github.com/ayusman/pinchhanoi/internal/hanoi"
)

// HUD text settings.
const (
	hudFont      = gocv.FontHersheySimplex
	hudScale     = 1.0
	hudThickness = 2
	glowAlpha    = 0.3
)

// View is the per-frame input state the board is drawn with.
type View struct {
	X           float64 // smoothed fingertip position
	HasPosition bool
	Hands       []gesture.Observation
}

// Renderer draws the board. It never mutates game state.
type Renderer struct {
	layout Layout
	mirror bool
}

// NewRenderer creates a Renderer. With mirror set the camera frame is
// flipped horizontally before drawing, matching mirrored observations.
func NewRenderer(layout Layout, mirror bool) *Renderer {
	return &Renderer{layout: layout, mirror: mirror}
}

// Layout returns the board geometry.
func (r *Renderer) Layout() Layout {
	return r.layout
}

// Compose draws the board over frame and returns a new image.
// A nil or empty frame is replaced by a black background.
// The caller is responsible for closing the returned Mat.
func (r *Renderer) Compose(frame *gocv.Mat, snap hanoi.Snapshot, view View) gocv.Mat {
	out := r.background(frame)

	for _, h := range view.Hands {
		r.drawHand(&out, h)
	}

	if view.HasPosition && !snap.Won {
		r.drawGlow(&out, hanoi.MapPosition(view.X))
	}

	for i := 0; i < hanoi.PegCount; i++ {
		gocv.Rectangle(&out, r.layout.PegRect(i), PegColor, -1)
	}

	for i, peg := range snap.Pegs {
		for level, d := range peg {
			gocv.Rectangle(&out, r.layout.DiscRect(i, level, d), DiscColor(d), -1)
		}
	}

	if snap.Held != nil && view.HasPosition && !snap.Won {
		gocv.Rectangle(&out, r.layout.HeldRect(view.X, snap.Held.Disc), DiscColor(snap.Held.Disc), -1)
	}

	r.drawHUD(&out, snap)
	return out
}

func (r *Renderer) background(frame *gocv.Mat) gocv.Mat {
	size := image.Pt(r.layout.Width, r.layout.Height)
	if frame == nil || frame.Empty() {
		return gocv.NewMatWithSize(r.layout.Height, r.layout.Width, gocv.MatTypeCV8UC3)
	}

	src := *frame
	if r.mirror {
		flipped := gocv.NewMat()
		defer flipped.Close()
		gocv.Flip(*frame, &flipped, 1)
		src = flipped
	}

	out := gocv.NewMat()
	gocv.Resize(src, &out, size, 0, 0, gocv.InterpolationLinear)
	return out
}

// drawGlow blends a translucent disc behind the hovered peg.
func (r *Renderer) drawGlow(img *gocv.Mat, peg int) {
	center := r.layout.GlowCenter(peg)

	overlay := img.Clone()
	defer overlay.Close()
	gocv.Circle(&overlay, center, r.layout.GlowRadius, GlowColor, -1)
	gocv.AddWeighted(overlay, glowAlpha, *img, 1-glowAlpha, 0, img)

	gocv.Circle(img, center, r.layout.GlowRadius, GlowColor, 2)
}

// drawHand draws the landmark skeleton of one hand.
func (r *Renderer) drawHand(img *gocv.Mat, h gesture.Observation) {
	if h.Landmarks == nil {
		return
	}
	pts := h.Landmarks.Points
	for _, c := range detector.Connections {
		a := r.layout.Point(pts[c[0]].X, pts[c[0]].Y)
		b := r.layout.Point(pts[c[1]].X, pts[c[1]].Y)
		gocv.Line(img, a, b, HandColor, 2)
	}
	for _, p := range pts {
		gocv.Circle(img, r.layout.Point(p.X, p.Y), 4, GlowColor, -1)
	}
}

func (r *Renderer) drawHUD(img *gocv.Mat, snap hanoi.Snapshot) {
	gocv.PutText(img, fmt.Sprintf("Moves: %d", snap.Moves), image.Pt(10, 40), hudFont, hudScale, TextColor, hudThickness)
	gocv.PutText(img, fmt.Sprintf("Time: %ds", int(snap.Elapsed.Seconds())), image.Pt(10, 90), hudFont, hudScale, TextColor, hudThickness)

	if snap.Won {
		const msg = "You Won!"
		size := gocv.GetTextSize(msg, hudFont, hudScale*1.5, hudThickness)
		org := image.Pt(r.layout.Width/2-size.X/2, 80)
		gocv.PutText(img, msg, org, hudFont, hudScale*1.5, WinColor, hudThickness+1)
	}
}
