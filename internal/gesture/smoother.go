package gesture

// DefaultWindow is the number of samples averaged by a Smoother.
const DefaultWindow = 5

// Smoother keeps a rolling window of the most recent positions and returns
// their mean, damping per-frame jitter of the fingertip.
type Smoother struct {
	samples []float64
	size    int
}

// NewSmoother creates a Smoother over the last size samples.
// A non-positive size uses DefaultWindow.
func NewSmoother(size int) *Smoother {
	if size <= 0 {
		size = DefaultWindow
	}
	return &Smoother{
		samples: make([]float64, 0, size),
		size:    size,
	}
}

// Add records a sample, dropping the oldest once the window is full.
func (s *Smoother) Add(x float64) {
	if len(s.samples) >= s.size {
		// Shift left by 1, removing the oldest sample
		copy(s.samples, s.samples[1:])
		s.samples = s.samples[:s.size-1]
	}
	s.samples = append(s.samples, x)
}

// Value returns the mean of the held samples. It reports false until the
// first sample arrives.
func (s *Smoother) Value() (float64, bool) {
	if len(s.samples) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range s.samples {
		sum += v
	}
	return sum / float64(len(s.samples)), true
}

// Len returns the number of samples currently held.
func (s *Smoother) Len() int {
	return len(s.samples)
}

// Size returns the window size.
func (s *Smoother) Size() int {
	return s.size
}

// Reset discards all samples.
func (s *Smoother) Reset() {
	s.samples = s.samples[:0]
}
