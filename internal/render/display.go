package render

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Key is a keyboard command read from the game window.
type Key int

const (
	KeyNone Key = iota
	KeyReset
	KeyQuit
)

// keyFromCode maps a raw WaitKey code to a command.
func keyFromCode(code int) Key {
	if code < 0 {
		return KeyNone
	}
	switch code & 0xFF {
	case 'r', 'R':
		return KeyReset
	case 'q', 'Q', 27: // Esc
		return KeyQuit
	default:
		return KeyNone
	}
}

// Display shows composed frames in an OpenCV window.
type Display struct {
	window *gocv.Window
}

// NewDisplay opens a window with the given title sized to the layout.
func NewDisplay(title string, layout Layout) *Display {
	w := gocv.NewWindow(title)
	w.ResizeWindow(layout.Width, layout.Height)
	return &Display{window: w}
}

// Show draws img and pumps the window event loop once.
func (d *Display) Show(img gocv.Mat) {
	d.window.IMShow(img)
}

// Poll waits up to one millisecond for a key press.
func (d *Display) Poll() Key {
	return keyFromCode(d.window.WaitKey(1))
}

// Close closes the window.
func (d *Display) Close() error {
	return d.window.Close()
}

// EncodeJPEG encodes img for streaming. The returned slice is owned by the
// caller.
func EncodeJPEG(img gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncode(".jpg", img)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	return append([]byte(nil), buf.GetBytes()...), nil
}
