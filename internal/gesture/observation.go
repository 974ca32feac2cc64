// Package gesture turns hand landmarks into the fingertip position and
// pinch flag that drive the game.
package gesture

import (
	"github.com/ayusman/pinchhanoi/internal/detector"
)

// Observation is one detected hand reduced to what the game needs.
type Observation struct {
	X          float64 // index fingertip, normalized display coordinates
	Y          float64
	Closed     bool // pinch held
	Handedness string
	Landmarks  *detector.HandLandmarks // display coordinates, for drawing
}

// PinchThresholds are the fingertip distances below which a hand counts as
// closed. Both must be satisfied.
type PinchThresholds struct {
	Index  float64 // thumb tip to index tip
	Middle float64 // thumb tip to middle tip
}

// DefaultPinchThresholds returns the thresholds the game is tuned for.
func DefaultPinchThresholds() PinchThresholds {
	return PinchThresholds{Index: 0.05, Middle: 0.08}
}

// Closed reports whether the hand's pinch distances fall below both thresholds.
func (t PinchThresholds) Closed(h *detector.HandLandmarks) bool {
	thumb := h.Points[detector.ThumbTip]
	index := detector.Distance2D(thumb, h.Points[detector.IndexTip])
	middle := detector.Distance2D(thumb, h.Points[detector.MiddleTip])
	return index < t.Index && middle < t.Middle
}

// Classify reduces landmarks to an Observation. With mirror set, X is
// flipped so it lines up with a mirrored display.
func Classify(h detector.HandLandmarks, t PinchThresholds, mirror bool) Observation {
	closed := t.Closed(&h)
	if mirror {
		h = h.Mirrored()
	}
	tip := h.Points[detector.IndexTip]

	return Observation{
		X:          tip.X,
		Y:          tip.Y,
		Closed:     closed,
		Handedness: h.Handedness,
		Landmarks:  &h,
	}
}

// Main returns the observation that drives the game: the first one.
// Additional hands are ignored.
func Main(obs []Observation) (Observation, bool) {
	if len(obs) == 0 {
		return Observation{}, false
	}
	return obs[0], true
}
