package detector

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

func TestDistance2D(t *testing.T) {
	tests := []struct {
		name string
		a, b Point3D
		want float64
	}{
		{name: "same point", a: Point3D{X: 0.3, Y: 0.4}, b: Point3D{X: 0.3, Y: 0.4}, want: 0},
		{name: "3-4-5", a: Point3D{}, b: Point3D{X: 0.3, Y: 0.4}, want: 0.5},
		{name: "depth ignored", a: Point3D{Z: 5}, b: Point3D{X: 0.3, Y: 0.4, Z: -5}, want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance2D(tt.a, tt.b); math.Abs(got-tt.want) > epsilon {
				t.Errorf("Distance2D() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestHandLandmarks_Mirrored(t *testing.T) {
	hand := PinchLandmarks(0.2, 0.5)
	mirrored := hand.Mirrored()

	for i := 0; i < NumLandmarks; i++ {
		if math.Abs(mirrored.Points[i].X-(1-hand.Points[i].X)) > epsilon {
			t.Errorf("landmark %d X = %f, want %f", i, mirrored.Points[i].X, 1-hand.Points[i].X)
		}
		if mirrored.Points[i].Y != hand.Points[i].Y {
			t.Errorf("landmark %d Y changed", i)
		}
	}

	if hand.Points[IndexTip].X != 0.2 {
		t.Error("Mirrored() modified the receiver")
	}
}

func TestMockDetector(t *testing.T) {
	t.Run("returns empty hands by default", func(t *testing.T) {
		mock := NewMockDetector()

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if hands != nil {
			t.Errorf("expected nil hands, got %v", hands)
		}
	})

	t.Run("returns configured hands", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetHands([]HandLandmarks{PinchLandmarks(0.1, 0.5), OpenHandLandmarks(0.8, 0.5)})

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(hands) != 2 {
			t.Errorf("expected 2 hands, got %d", len(hands))
		}
	})

	t.Run("plays queued frames in order", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetHands([]HandLandmarks{OpenHandLandmarks(0.9, 0.5)})
		mock.Queue(
			[]HandLandmarks{PinchLandmarks(0.1, 0.5)},
			nil,
			[]HandLandmarks{PinchLandmarks(0.5, 0.5)},
		)

		wantX := []float64{0.1, -1, 0.5, 0.9, 0.9}
		for i, want := range wantX {
			hands, err := mock.Detect(nil)
			if err != nil {
				t.Fatalf("frame %d: unexpected error: %v", i, err)
			}
			if want < 0 {
				if len(hands) != 0 {
					t.Errorf("frame %d: expected no hands, got %d", i, len(hands))
				}
				continue
			}
			if len(hands) != 1 || hands[0].Points[IndexTip].X != want {
				t.Errorf("frame %d: expected one hand at x=%f, got %v", i, want, hands)
			}
		}

		if mock.Calls() != len(wantX) {
			t.Errorf("Calls() = %d, want %d", mock.Calls(), len(wantX))
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()

		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		hands, err := mock.Detect(nil)

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if hands != nil {
			t.Errorf("expected nil hands when error is set, got %v", hands)
		}
	})

	t.Run("Close marks closed", func(t *testing.T) {
		mock := NewMockDetector()

		if err := mock.Close(); err != nil {
			t.Errorf("expected Close to return nil, got %v", err)
		}
		if !mock.Closed() {
			t.Error("Closed() = false after Close")
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
		var _ Detector = (*MediaPipeDetector)(nil)
	})
}

func TestPinchLandmarks(t *testing.T) {
	h := PinchLandmarks(0.4, 0.3)

	if h.Points[IndexTip].X != 0.4 || h.Points[IndexTip].Y != 0.3 {
		t.Errorf("index tip = %+v, want (0.4, 0.3)", h.Points[IndexTip])
	}
	if d := Distance2D(h.Points[ThumbTip], h.Points[IndexTip]); d >= 0.05 {
		t.Errorf("thumb-index distance = %f, want < 0.05", d)
	}
	if d := Distance2D(h.Points[ThumbTip], h.Points[MiddleTip]); d >= 0.08 {
		t.Errorf("thumb-middle distance = %f, want < 0.08", d)
	}
}

func TestOpenHandLandmarks(t *testing.T) {
	h := OpenHandLandmarks(0.4, 0.3)

	if d := Distance2D(h.Points[ThumbTip], h.Points[IndexTip]); d < 0.05 {
		t.Errorf("thumb-index distance = %f, want >= 0.05", d)
	}
	if h.Handedness != "Right" || h.Score < 0.9 {
		t.Errorf("handedness/score = %s/%f", h.Handedness, h.Score)
	}
}

func TestDecodeHands(t *testing.T) {
	t.Run("parses hands", func(t *testing.T) {
		line := []byte(`{"hands":[{"handedness":"Left","score":0.91,"points":[{"x":0.1,"y":0.2,"z":0},{"x":0.3,"y":0.4,"z":0.01}]}]}` + "\n")

		hands, err := decodeHands(line)
		if err != nil {
			t.Fatalf("decodeHands() error = %v", err)
		}
		if len(hands) != 1 {
			t.Fatalf("expected 1 hand, got %d", len(hands))
		}
		if hands[0].Handedness != "Left" || hands[0].Score != 0.91 {
			t.Errorf("unexpected hand metadata: %+v", hands[0])
		}
		if hands[0].Points[ThumbCMC].Y != 0.4 {
			t.Errorf("point 1 Y = %f, want 0.4", hands[0].Points[ThumbCMC].Y)
		}
	})

	t.Run("no hands", func(t *testing.T) {
		hands, err := decodeHands([]byte(`{"hands":[]}`))
		if err != nil {
			t.Fatalf("decodeHands() error = %v", err)
		}
		if len(hands) != 0 {
			t.Errorf("expected no hands, got %d", len(hands))
		}
	})

	t.Run("service error", func(t *testing.T) {
		if _, err := decodeHands([]byte(`{"error":"bad frame"}`)); err == nil {
			t.Error("expected error for service error line")
		}
	})

	t.Run("malformed", func(t *testing.T) {
		if _, err := decodeHands([]byte(`not json`)); err == nil {
			t.Error("expected error for malformed line")
		}
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxHands != 1 {
		t.Errorf("MaxHands = %d, want 1", cfg.MaxHands)
	}
	if cfg.MinConfidence != 0.85 || cfg.MinTrackingConf != 0.85 {
		t.Errorf("confidence = %f/%f, want 0.85/0.85", cfg.MinConfidence, cfg.MinTrackingConf)
	}
}
