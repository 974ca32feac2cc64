package gesture

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/pinchhanoi/internal/detector"
	"github.com/ayusman/pinchhanoi/internal/hanoi"
)

// Source produces hand observations for a video frame.
type Source interface {
	// Observe returns zero or more observations for the frame.
	Observe(frame *gocv.Mat) ([]Observation, error)

	// Close releases any resources held by the source.
	Close() error
}

// DetectorSource classifies the hands reported by a landmark detector.
type DetectorSource struct {
	detector   detector.Detector
	thresholds PinchThresholds
	mirror     bool
}

// NewDetectorSource wraps d. With mirror set, observations are reported in
// mirrored display coordinates.
func NewDetectorSource(d detector.Detector, t PinchThresholds, mirror bool) *DetectorSource {
	return &DetectorSource{
		detector:   d,
		thresholds: t,
		mirror:     mirror,
	}
}

// Observe runs the detector and classifies every hand.
func (s *DetectorSource) Observe(frame *gocv.Mat) ([]Observation, error) {
	hands, err := s.detector.Detect(frame)
	if err != nil {
		return nil, fmt.Errorf("detect hands: %w", err)
	}
	if len(hands) == 0 {
		return nil, nil
	}

	obs := make([]Observation, len(hands))
	for i, h := range hands {
		obs[i] = Classify(h, s.thresholds, s.mirror)
	}
	return obs, nil
}

// Detector returns the wrapped detector.
func (s *DetectorSource) Detector() detector.Detector {
	return s.detector
}

// Close closes the wrapped detector.
func (s *DetectorSource) Close() error {
	return s.detector.Close()
}

// ScriptedSource plays back a fixed sequence of per-frame observations,
// one entry per Observe call. Once the script runs out it reports no hands.
type ScriptedSource struct {
	mu     sync.Mutex
	frames [][]Observation
	next   int
}

// NewScriptedSource creates a ScriptedSource over frames.
func NewScriptedSource(frames ...[]Observation) *ScriptedSource {
	return &ScriptedSource{frames: frames}
}

// Push appends frames to the script.
func (s *ScriptedSource) Push(frames ...[]Observation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, frames...)
}

// Observe returns the next scripted frame.
func (s *ScriptedSource) Observe(frame *gocv.Mat) ([]Observation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next >= len(s.frames) {
		return nil, nil
	}
	obs := s.frames[s.next]
	s.next++
	return obs, nil
}

// Remaining returns how many scripted frames have not been played.
func (s *ScriptedSource) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames) - s.next
}

// Close is a no-op.
func (s *ScriptedSource) Close() error {
	return nil
}

// Hand is shorthand for a single-hand scripted frame.
func Hand(x float64, closed bool) []Observation {
	return []Observation{{X: x, Y: 0.5, Closed: closed}}
}

// MoveScript returns frames that carry a disc from one peg to another with a
// smoothing window of the given size: settle open over the source peg, pinch,
// travel pinched to the target until the average has caught up, release.
func MoveScript(from, to, window int) [][]Observation {
	fx, tx := hanoi.PegCenter(from), hanoi.PegCenter(to)

	var frames [][]Observation
	for i := 0; i < window; i++ {
		frames = append(frames, Hand(fx, false))
	}
	frames = append(frames, Hand(fx, true))
	for i := 0; i < window; i++ {
		frames = append(frames, Hand(tx, true))
	}
	return append(frames, Hand(tx, false))
}

// SolveScript scripts the optimal solution for discs discs.
func SolveScript(discs, window int) [][]Observation {
	var frames [][]Observation
	for _, m := range hanoi.Solve(discs, 0, hanoi.PegCount-1) {
		frames = append(frames, MoveScript(m.From, m.To, window)...)
	}
	return frames
}
