package server

import (
	"sync"

	"github.com/ayusman/pinchhanoi/internal/app"
	"github.com/ayusman/pinchhanoi/internal/hanoi"
)

// fakeGame stands in for the frame loop. Tests drive it through the
// underlying hanoi.Game and publish by hand.
type fakeGame struct {
	mu     sync.Mutex
	game   *hanoi.Game
	status app.Status
	jpeg   []byte
	resets int
}

func newFakeGame() *fakeGame {
	g := &fakeGame{game: hanoi.New(3)}
	g.publish()
	return g
}

func (g *fakeGame) publish() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.status = app.Status{Snapshot: g.game.Snapshot(), Session: "test"}
}

func (g *fakeGame) apply(peg int, closed bool) {
	g.game.Apply(hanoi.Input{Peg: peg, Closed: closed})
	g.publish()
}

func (g *fakeGame) setJPEG(data []byte) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.jpeg = data
}

func (g *fakeGame) Snapshot() app.Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

func (g *fakeGame) RequestReset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resets++
}

func (g *fakeGame) Resets() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resets
}

func (g *fakeGame) LatestJPEG() ([]byte, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.jpeg, g.jpeg != nil
}
