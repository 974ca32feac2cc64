// Package tray provides an optional system tray menu for the game.
package tray

import (
	"fmt"
	"sync"
	"time"

	"github.com/getlantern/systray"
)

// Tray is the system tray menu: a status line, New Game, Open Board and Quit.
type Tray struct {
	onReady func()
	onReset func()
	onOpen  func()
	onQuit  func()
	status  string
	mu      sync.RWMutex

	menuStatus *systray.MenuItem
}

// New creates a new Tray.
func New() *Tray {
	return &Tray{status: FormatStatus(0, 0, false)}
}

// OnReady sets a callback run once the tray is up.
func (t *Tray) OnReady(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onReady = fn
}

// OnReset sets the callback for the New Game item.
func (t *Tray) OnReset(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onReset = fn
}

// OnOpen sets the callback for the Open Board item.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback for the Quit item.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray. It blocks until Quit is called.
func (t *Tray) Run() {
	systray.Run(t.ready, func() {})
}

// Quit removes the tray icon and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) ready() {
	systray.SetTitle("Hanoi")
	systray.SetTooltip("Pinch Hanoi")

	t.mu.Lock()
	t.menuStatus = systray.AddMenuItem(t.status, "Current game")
	t.menuStatus.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuReset := systray.AddMenuItem("New Game", "Start over with all discs on the left peg")
	menuOpen := systray.AddMenuItem("Open Board...", "Watch the board in a browser")
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit Pinch Hanoi")

	go func() {
		for {
			select {
			case <-menuReset.ClickedCh:
				t.handleReset()
			case <-menuOpen.ClickedCh:
				t.handleOpen()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()

	t.mu.RLock()
	callback := t.onReady
	t.mu.RUnlock()
	if callback != nil {
		callback()
	}
}

func (t *Tray) handleReset() {
	t.mu.RLock()
	callback := t.onReset
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleOpen() {
	t.mu.RLock()
	callback := t.onOpen
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetStatus updates the status line.
func (t *Tray) SetStatus(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s == t.status {
		return
	}
	t.status = s
	if t.menuStatus != nil {
		t.menuStatus.SetTitle(s)
	}
}

// Status returns the current status line.
func (t *Tray) Status() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// FormatStatus renders a game for the status line.
func FormatStatus(moves int, elapsed time.Duration, won bool) string {
	secs := int(elapsed.Seconds())
	if won {
		return fmt.Sprintf("Won in %d moves, %ds", moves, secs)
	}
	return fmt.Sprintf("Moves: %d · Time: %ds", moves, secs)
}
