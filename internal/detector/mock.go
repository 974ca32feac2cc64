package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// Queued frames are returned first, one per Detect call; after the queue is
// drained it falls back to the fixed hands set with SetHands.
type MockDetector struct {
	mu     sync.Mutex
	hands  []HandLandmarks
	queue  [][]HandLandmarks
	err    error
	calls  int
	closed bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands returned once the queue is empty.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// Queue appends per-frame results to be returned in order.
func (m *MockDetector) Queue(frames ...[]HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, frames...)
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the next queued frame, the fixed hands, or the set error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		return next, nil
	}
	return m.hands, nil
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Close marks the detector closed.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (m *MockDetector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// PinchLandmarks returns a right hand with its index fingertip at (x, y) and
// the thumb, index and middle tips pinched together.
func PinchLandmarks(x, y float64) HandLandmarks {
	h := handAt(x, y)

	h.Points[ThumbTip] = Point3D{X: x + 0.02, Y: y + 0.01}
	h.Points[MiddleTip] = Point3D{X: x - 0.02, Y: y + 0.03}

	return h
}

// OpenHandLandmarks returns a right hand with its index fingertip at (x, y)
// and the fingers spread.
func OpenHandLandmarks(x, y float64) HandLandmarks {
	h := handAt(x, y)

	h.Points[ThumbTip] = Point3D{X: x + 0.15, Y: y + 0.12}
	h.Points[MiddleTip] = Point3D{X: x - 0.04, Y: y - 0.02}

	return h
}

// handAt lays out a plausible upright hand below the index fingertip.
func handAt(x, y float64) HandLandmarks {
	h := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	h.Points[Wrist] = Point3D{X: x, Y: y + 0.30}

	h.Points[ThumbCMC] = Point3D{X: x + 0.05, Y: y + 0.26}
	h.Points[ThumbMCP] = Point3D{X: x + 0.09, Y: y + 0.22}
	h.Points[ThumbIP] = Point3D{X: x + 0.12, Y: y + 0.17}
	h.Points[ThumbTip] = Point3D{X: x + 0.14, Y: y + 0.13}

	h.Points[IndexMCP] = Point3D{X: x + 0.03, Y: y + 0.18}
	h.Points[IndexPIP] = Point3D{X: x + 0.02, Y: y + 0.11}
	h.Points[IndexDIP] = Point3D{X: x + 0.01, Y: y + 0.05}
	h.Points[IndexTip] = Point3D{X: x, Y: y}

	h.Points[MiddleMCP] = Point3D{X: x - 0.01, Y: y + 0.18}
	h.Points[MiddlePIP] = Point3D{X: x - 0.02, Y: y + 0.10}
	h.Points[MiddleDIP] = Point3D{X: x - 0.03, Y: y + 0.04}
	h.Points[MiddleTip] = Point3D{X: x - 0.04, Y: y - 0.02}

	h.Points[RingMCP] = Point3D{X: x - 0.05, Y: y + 0.19}
	h.Points[RingPIP] = Point3D{X: x - 0.06, Y: y + 0.12}
	h.Points[RingDIP] = Point3D{X: x - 0.07, Y: y + 0.07}
	h.Points[RingTip] = Point3D{X: x - 0.08, Y: y + 0.02}

	h.Points[PinkyMCP] = Point3D{X: x - 0.08, Y: y + 0.21}
	h.Points[PinkyPIP] = Point3D{X: x - 0.10, Y: y + 0.16}
	h.Points[PinkyDIP] = Point3D{X: x - 0.11, Y: y + 0.12}
	h.Points[PinkyTip] = Point3D{X: x - 0.12, Y: y + 0.08}

	return h
}
