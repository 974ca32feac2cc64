package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/pinchhanoi/internal/capture"
	"github.com/ayusman/pinchhanoi/internal/detector"
	"github.com/ayusman/pinchhanoi/internal/gesture"
	"github.com/ayusman/pinchhanoi/internal/hanoi"
	"github.com/ayusman/pinchhanoi/internal/store"
)

func newHeadlessApp(t *testing.T, cfg Config, frames ...[]gesture.Observation) (*App, *gesture.ScriptedSource) {
	t.Helper()
	cfg.Headless = true
	a := New(cfg)
	src := gesture.NewScriptedSource(frames...)
	a.SetSource(src)
	return a, src
}

func stepAll(a *App, src *gesture.ScriptedSource) []hanoi.Outcome {
	var outcomes []hanoi.Outcome
	for src.Remaining() > 0 {
		if out := a.Step(nil); out != hanoi.OutcomeNone {
			outcomes = append(outcomes, out)
		}
	}
	return outcomes
}

func TestNew_Defaults(t *testing.T) {
	a, _ := newHeadlessApp(t, Config{})

	cfg := a.Config()
	if cfg.Discs != hanoi.DefaultDiscs {
		t.Errorf("Discs = %d, want %d", cfg.Discs, hanoi.DefaultDiscs)
	}
	if cfg.SmoothingWindow != gesture.DefaultWindow {
		t.Errorf("SmoothingWindow = %d, want %d", cfg.SmoothingWindow, gesture.DefaultWindow)
	}
	if cfg.TargetFPS != capture.DefaultFPS {
		t.Errorf("TargetFPS = %d, want %d", cfg.TargetFPS, capture.DefaultFPS)
	}
	if cfg.Pinch != gesture.DefaultPinchThresholds() {
		t.Errorf("Pinch = %+v", cfg.Pinch)
	}

	st := a.Snapshot()
	if st.Session == "" {
		t.Error("expected a session id before the first frame")
	}
	if st.Moves != 0 || st.Won || len(st.Pegs[0]) != 3 {
		t.Errorf("unexpected initial status %+v", st)
	}
	if st.X != nil {
		t.Error("no smoothed position expected before any hand")
	}
	if _, ok := a.LatestJPEG(); ok {
		t.Error("headless app should not publish frames")
	}
}

func TestApp_Step_SolvesAndRecords(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	a, src := newHeadlessApp(t, Config{Store: s}, gesture.SolveScript(3, gesture.DefaultWindow)...)
	session := a.Snapshot().Session

	outcomes := stepAll(a, src)

	var placed, picked, won int
	for _, o := range outcomes {
		switch o {
		case hanoi.OutcomePicked:
			picked++
		case hanoi.OutcomePlaced:
			placed++
		case hanoi.OutcomeWon:
			won++
		default:
			t.Errorf("unexpected outcome %v", o)
		}
	}
	if picked != 7 || placed != 6 || won != 1 {
		t.Errorf("picked/placed/won = %d/%d/%d, want 7/6/1", picked, placed, won)
	}

	st := a.Snapshot()
	if !st.Won || st.Moves != 7 || st.State != "won" {
		t.Errorf("status = won:%v moves:%d state:%s, want won in 7", st.Won, st.Moves, st.State)
	}
	if st.EndedAt == nil {
		t.Error("expected end time")
	}

	res, err := s.Results().GetByID(session)
	if err != nil {
		t.Fatalf("result not recorded: %v", err)
	}
	if res.Moves != 7 || res.Discs != 3 {
		t.Errorf("result = %+v", res)
	}
}

func TestApp_Step_IgnoresHandsAfterWin(t *testing.T) {
	a, src := newHeadlessApp(t, Config{SmoothingWindow: 1}, gesture.SolveScript(3, 1)...)
	stepAll(a, src)

	before := a.Snapshot()
	if !before.Won || before.X == nil {
		t.Fatalf("expected a won game with a position, got %+v", before)
	}

	src.Push(gesture.Hand(0.1, true), gesture.Hand(0.1, false))
	stepAll(a, src)

	after := a.Snapshot()
	if *after.X != *before.X {
		t.Errorf("smoothed position moved after win: %v -> %v", *before.X, *after.X)
	}
	if after.Moves != 7 || after.Revision != before.Revision {
		t.Error("game changed after win")
	}
}

func TestApp_Step_NoHand(t *testing.T) {
	a, _ := newHeadlessApp(t, Config{})

	for i := 0; i < 3; i++ {
		if out := a.Step(nil); out != hanoi.OutcomeNone {
			t.Fatalf("Step() = %v with no hands", out)
		}
	}
	if st := a.Snapshot(); st.X != nil || st.Peg != nil {
		t.Error("no position expected without hands")
	}
}

func TestApp_Step_SnapBack(t *testing.T) {
	a, src := newHeadlessApp(t, Config{SmoothingWindow: 1})
	src.Push(gesture.MoveScript(0, 1, 1)...) // disc 1 to peg 1
	src.Push(gesture.MoveScript(0, 1, 1)...) // disc 2 onto disc 1

	outcomes := stepAll(a, src)

	want := []hanoi.Outcome{hanoi.OutcomePicked, hanoi.OutcomePlaced, hanoi.OutcomePicked, hanoi.OutcomeSnappedBack}
	if len(outcomes) != len(want) {
		t.Fatalf("outcomes = %v, want %v", outcomes, want)
	}
	for i := range want {
		if outcomes[i] != want[i] {
			t.Errorf("outcome %d = %v, want %v", i, outcomes[i], want[i])
		}
	}

	st := a.Snapshot()
	if st.Moves != 1 {
		t.Errorf("Moves = %d, want 1", st.Moves)
	}
	if got := st.Pegs[0]; len(got) != 2 || got[1] != 2 {
		t.Errorf("peg 0 = %v, want [3 2]", got)
	}
}

func TestApp_Step_ObserveErrorSkipsFrame(t *testing.T) {
	a, _ := newHeadlessApp(t, Config{})

	mock := detector.NewMockDetector()
	mock.SetError(errors.New("service crashed"))
	a.SetDetector(mock)

	if out := a.Step(nil); out != hanoi.OutcomeNone {
		t.Errorf("Step() = %v, want none", out)
	}

	mock.SetError(nil)
	mock.SetHands([]detector.HandLandmarks{detector.PinchLandmarks(0.2, 0.5)})
	if out := a.Step(nil); out != hanoi.OutcomePicked {
		t.Errorf("Step() after recovery = %v, want picked", out)
	}
}

func TestApp_RequestReset(t *testing.T) {
	a, src := newHeadlessApp(t, Config{SmoothingWindow: 1}, gesture.MoveScript(0, 2, 1)...)
	stepAll(a, src)

	before := a.Snapshot()
	if before.Moves != 1 {
		t.Fatalf("Moves = %d, want 1", before.Moves)
	}

	a.RequestReset()
	a.RequestReset() // collapses into the first
	a.Step(nil)

	after := a.Snapshot()
	if after.Moves != 0 || len(after.Pegs[0]) != 3 || after.Won {
		t.Errorf("game not reset: %+v", after)
	}
	if after.Session == before.Session {
		t.Error("expected a new session after reset")
	}
	if after.X != nil {
		t.Error("smoother should be cleared by reset")
	}

	a.Step(nil)
	if a.Snapshot().Session != after.Session {
		t.Error("a single request must reset only once")
	}
}

func TestApp_RequestReset_Concurrent(t *testing.T) {
	a, src := newHeadlessApp(t, Config{})
	for i := 0; i < 200; i++ {
		src.Push(gesture.Hand(float64(i%3)/3+0.1, i%2 == 0))
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				a.RequestReset()
				_ = a.Snapshot()
			}
		}()
	}

	stepAll(a, src)
	wg.Wait()
}

func TestApp_Hooks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	hooksDir := t.TempDir()
	out := filepath.Join(t.TempDir(), "won.json")

	hookDir := filepath.Join(hooksDir, "recorder")
	if err := os.MkdirAll(hookDir, 0755); err != nil {
		t.Fatal(err)
	}
	manifest := `{"name":"recorder","version":"1.0.0","executable":"run.sh","events":["won"]}`
	if err := os.WriteFile(filepath.Join(hookDir, "hook.json"), []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}
	script := "#!/bin/sh\ncat > \"" + out + "\"\necho '{\"success\":true}'\n"
	if err := os.WriteFile(filepath.Join(hookDir, "run.sh"), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}

	a, src := newHeadlessApp(t, Config{HooksDir: hooksDir, SmoothingWindow: 1}, gesture.SolveScript(3, 1)...)
	stepAll(a, src)
	a.hooks.Wait()

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("won hook did not run: %v", err)
	}
	if len(data) == 0 {
		t.Error("won hook received an empty event")
	}
}

func TestApp_Run(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	cam := capture.NewMockCamera([]*gocv.Mat{&frame}, true)
	cam.FailNext(2)

	a := New(Config{TargetFPS: 100})
	a.SetCamera(cam)
	mock := detector.NewMockDetector()
	mock.SetHands([]detector.HandLandmarks{detector.OpenHandLandmarks(0.5, 0.5)})
	a.SetDetector(mock)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if cam.IsOpen() {
		t.Error("camera should be closed after Run")
	}
	if !mock.Closed() {
		t.Error("detector should be closed after Run")
	}
	if cam.Reads() <= 2 {
		t.Errorf("loop should keep reading after failures, got %d reads", cam.Reads())
	}
	if mock.Calls() == 0 {
		t.Error("detector never called")
	}
	if data, ok := a.LatestJPEG(); !ok || len(data) == 0 {
		t.Error("expected a published frame")
	}
	if st := a.Snapshot(); st.Peg == nil || *st.Peg != 1 {
		t.Errorf("expected hovering the middle peg, got %+v", st.Peg)
	}
}
