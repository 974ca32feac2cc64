// Package app runs the gesture-driven Tower of Hanoi: one frame loop owns the
// game, reads the camera, turns hand observations into game input and
// publishes what it drew for the server and tray.
package app

import (
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/ayusman/pinchhanoi/internal/capture"
	"github.com/ayusman/pinchhanoi/internal/detector"
	"github.com/ayusman/pinchhanoi/internal/gesture"
	"github.com/ayusman/pinchhanoi/internal/hanoi"
	"github.com/ayusman/pinchhanoi/internal/hook"
	"github.com/ayusman/pinchhanoi/internal/render"
	"github.com/ayusman/pinchhanoi/internal/store"
)

// WindowTitle is the title of the game window.
const WindowTitle = "Pinch Hanoi"

// Config holds configuration options for the application.
type Config struct {
	CameraID        int
	Discs           int
	SmoothingWindow int
	TargetFPS       int
	Mirror          bool
	Pinch           gesture.PinchThresholds
	Detector        detector.Config
	Layout          render.Layout

	// Window opens an OpenCV window when Run starts.
	Window bool
	// Headless skips compositing entirely; no frames are published.
	Headless bool

	Store    *store.Store
	HooksDir string
}

func (c Config) withDefaults() Config {
	if c.Discs <= 0 {
		c.Discs = hanoi.DefaultDiscs
	}
	if c.SmoothingWindow <= 0 {
		c.SmoothingWindow = gesture.DefaultWindow
	}
	if c.TargetFPS <= 0 {
		c.TargetFPS = capture.DefaultFPS
	}
	if c.Pinch == (gesture.PinchThresholds{}) {
		c.Pinch = gesture.DefaultPinchThresholds()
	}
	if c.Detector == (detector.Config{}) {
		c.Detector = detector.DefaultConfig()
	}
	if c.Layout.Width <= 0 || c.Layout.Height <= 0 {
		c.Layout = render.DefaultLayout()
	}
	return c
}

// Status is what readers outside the frame loop see.
type Status struct {
	hanoi.Snapshot
	Session string   `json:"session"`
	X       *float64 `json:"x,omitempty"`
	Peg     *int     `json:"peg,omitempty"`
}

// App is the game loop and everything it drives.
type App struct {
	config   Config
	game     *hanoi.Game
	smoother *gesture.Smoother
	source   gesture.Source
	camera   capture.Camera
	renderer *render.Renderer
	display  *render.Display
	hooks    *hook.Dispatcher
	session  string

	resetCh chan struct{}

	mu     sync.RWMutex
	status Status
	jpeg   []byte
}

// New creates an App. MediaPipe is used for hand detection when its service
// script can be found; otherwise a mock detector that never sees a hand.
func New(config Config) *App {
	config = config.withDefaults()

	a := &App{
		config:   config,
		game:     hanoi.New(config.Discs),
		smoother: gesture.NewSmoother(config.SmoothingWindow),
		camera:   capture.NewCamera(config.CameraID),
		session:  uuid.New().String(),
		resetCh:  make(chan struct{}, 1),
	}

	var d detector.Detector
	if mp, err := detector.NewMediaPipeDetector(config.Detector); err == nil {
		d = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		d = detector.NewMockDetector()
	}
	a.source = gesture.NewDetectorSource(d, config.Pinch, config.Mirror)

	if !config.Headless {
		a.renderer = render.NewRenderer(config.Layout, config.Mirror)
	}

	if config.HooksDir != "" {
		mgr := hook.NewManager(config.HooksDir)
		if err := mgr.Discover(); err != nil {
			log.Printf("Failed to discover hooks in %s: %v", config.HooksDir, err)
		} else {
			log.Printf("Loaded %d hooks from %s", len(mgr.List()), config.HooksDir)
		}
		a.hooks = hook.NewDispatcher(mgr, hook.NewExecutor(hook.DefaultTimeout))
	}

	a.publishStatus()
	return a
}

// SetSource replaces the observation source. It must be called before Run.
func (a *App) SetSource(s gesture.Source) {
	a.source = s
}

// SetDetector wraps d in a DetectorSource using the configured thresholds.
// It must be called before Run.
func (a *App) SetDetector(d detector.Detector) {
	a.source = gesture.NewDetectorSource(d, a.config.Pinch, a.config.Mirror)
}

// SetCamera replaces the camera. It must be called before Run.
func (a *App) SetCamera(c capture.Camera) {
	a.camera = c
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Source returns the observation source.
func (a *App) Source() gesture.Source {
	return a.source
}

// Config returns the effective configuration.
func (a *App) Config() Config {
	return a.config
}

// RequestReset asks the frame loop to start a new game. It is safe to call
// from any goroutine; requests made before the loop gets to them collapse
// into one.
func (a *App) RequestReset() {
	select {
	case a.resetCh <- struct{}{}:
	default:
	}
}

// Snapshot returns the most recently published status.
func (a *App) Snapshot() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

// LatestJPEG returns the most recently composed frame as JPEG.
// The returned slice must not be modified.
func (a *App) LatestJPEG() ([]byte, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.jpeg, a.jpeg != nil
}
