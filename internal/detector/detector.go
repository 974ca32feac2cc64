package detector

import "gocv.io/x/gocv"

// Detector defines the interface for hand landmark detection.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand landmarks.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 1).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns the detector settings the game is tuned for: a
// single hand and strict confidence so a stray hand does not steal focus.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.85,
		MinTrackingConf: 0.85,
	}
}
