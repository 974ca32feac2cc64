package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/ayusman/pinchhanoi/internal/gesture"
	"github.com/ayusman/pinchhanoi/internal/hanoi"
	"github.com/ayusman/pinchhanoi/internal/hook"
	"github.com/ayusman/pinchhanoi/internal/render"
	"github.com/ayusman/pinchhanoi/internal/store"
)

// Run drives the frame loop until ctx is done or the quit key is pressed.
// The camera, source and window are closed on return.
func (a *App) Run(ctx context.Context) error {
	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("start game loop: %w", err)
	}
	a.camera.SetFPS(a.config.TargetFPS)
	defer a.close()

	if a.config.Window && a.renderer != nil {
		a.display = render.NewDisplay(WindowTitle, a.config.Layout)
	}

	ticker := time.NewTicker(time.Second / time.Duration(a.config.TargetFPS))
	defer ticker.Stop()

	log.Printf("Game loop started (%d discs, %d fps)", a.config.Discs, a.config.TargetFPS)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}
			a.Step(frame)
			frame.Close()

			if a.display == nil {
				continue
			}
			switch a.display.Poll() {
			case render.KeyReset:
				a.RequestReset()
			case render.KeyQuit:
				log.Println("Quit requested from window")
				return nil
			}
		}
	}
}

// Step processes one frame. It must only be called from the goroutine that
// owns the loop. frame may be nil when the source does not need pixels.
func (a *App) Step(frame *gocv.Mat) hanoi.Outcome {
	select {
	case <-a.resetCh:
		a.reset()
	default:
	}

	obs, err := a.source.Observe(frame)
	if err != nil {
		log.Printf("Error observing hands: %v", err)
		obs = nil
	}

	outcome := hanoi.OutcomeNone
	if main, ok := gesture.Main(obs); ok && !a.game.Won() {
		a.smoother.Add(main.X)
		x, _ := a.smoother.Value()
		outcome = a.game.Apply(hanoi.Input{Peg: hanoi.MapPosition(x), Closed: main.Closed})
		a.handle(outcome)
	}

	a.publish(frame, obs)
	return outcome
}

func (a *App) handle(outcome hanoi.Outcome) {
	switch outcome {
	case hanoi.OutcomePlaced:
		a.fire(hook.EventMove)
	case hanoi.OutcomeWon:
		log.Printf("Puzzle solved in %d moves (%s)", a.game.Moves(), a.game.Elapsed().Round(time.Millisecond))
		a.recordWin()
		a.fire(hook.EventMove)
		a.fire(hook.EventWon)
	}
}

func (a *App) reset() {
	a.game.Reset()
	a.smoother.Reset()
	a.session = uuid.New().String()
	log.Printf("New game started (session %s)", a.session)
	a.fire(hook.EventReset)
}

func (a *App) recordWin() {
	if a.config.Store == nil {
		return
	}
	res := &store.Result{
		ID:         a.session,
		Discs:      a.game.Discs(),
		Moves:      a.game.Moves(),
		Duration:   a.game.Elapsed(),
		StartedAt:  a.game.StartedAt(),
		FinishedAt: a.game.EndedAt(),
	}
	if err := a.config.Store.Results().Create(res); err != nil {
		log.Printf("Failed to record result: %v", err)
	}
}

func (a *App) fire(t hook.EventType) {
	if a.hooks == nil {
		return
	}
	a.hooks.Fire(hook.Event{
		Type:      t,
		Session:   a.session,
		Discs:     a.game.Discs(),
		Moves:     a.game.Moves(),
		ElapsedMs: a.game.Elapsed().Milliseconds(),
	})
}

func (a *App) currentStatus() Status {
	st := Status{Snapshot: a.game.Snapshot(), Session: a.session}
	if x, ok := a.smoother.Value(); ok {
		peg := hanoi.MapPosition(x)
		st.X = &x
		st.Peg = &peg
	}
	return st
}

func (a *App) publishStatus() {
	st := a.currentStatus()
	a.mu.Lock()
	a.status = st
	a.mu.Unlock()
}

// publish composes the frame, shows it and makes status and image visible
// to readers.
func (a *App) publish(frame *gocv.Mat, obs []gesture.Observation) {
	st := a.currentStatus()

	var jpeg []byte
	if a.renderer != nil {
		view := render.View{Hands: obs}
		if st.X != nil {
			view.X, view.HasPosition = *st.X, true
		}

		img := a.renderer.Compose(frame, st.Snapshot, view)
		if a.display != nil {
			a.display.Show(img)
		}
		data, err := render.EncodeJPEG(img)
		if err != nil {
			log.Printf("Error encoding frame: %v", err)
		} else {
			jpeg = data
		}
		img.Close()
	}

	a.mu.Lock()
	a.status = st
	if jpeg != nil {
		a.jpeg = jpeg
	}
	a.mu.Unlock()
}

func (a *App) close() {
	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	if err := a.source.Close(); err != nil {
		log.Printf("Error closing hand source: %v", err)
	}
	if a.display != nil {
		if err := a.display.Close(); err != nil {
			log.Printf("Error closing window: %v", err)
		}
		a.display = nil
	}
	if a.hooks != nil {
		a.hooks.Wait()
	}
	log.Println("Game loop stopped")
}
