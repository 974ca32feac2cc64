// Package hanoi implements the Tower of Hanoi game session and the pick/drop
// state machine driven by gesture input.
package hanoi

import (
	"errors"
	"fmt"
	"time"
)

// DefaultDiscs is the number of discs in a standard game.
const DefaultDiscs = 3

// ErrInvalidLayout is returned when a peg layout breaks the puzzle rules.
var ErrInvalidLayout = errors.New("invalid peg layout")

// Disc is a sized puzzle piece. Larger discs may never rest on smaller ones.
type Disc int

// Peg is a stack of discs ordered bottom to top.
type Peg []Disc

// Top returns the top disc of the peg.
func (p Peg) Top() (Disc, bool) {
	if len(p) == 0 {
		return 0, false
	}
	return p[len(p)-1], true
}

// State is the state of the pick/drop machine.
type State int

const (
	// StateIdle means no disc is held.
	StateIdle State = iota
	// StateHolding means a disc has been lifted and not yet placed.
	StateHolding
	// StateWon is terminal until Reset.
	StateWon
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateHolding:
		return "holding"
	case StateWon:
		return "won"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Held is a disc lifted off a peg.
type Held struct {
	Disc Disc `json:"disc"`
	From int  `json:"from"`
}

// Input is one frame of smoothed gesture input.
type Input struct {
	Peg    int
	Closed bool
}

// Outcome reports what a frame of input did to the game.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomePicked
	OutcomePlaced
	OutcomeSnappedBack
	OutcomeWon
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomePicked:
		return "picked"
	case OutcomePlaced:
		return "placed"
	case OutcomeSnappedBack:
		return "snapped-back"
	case OutcomeWon:
		return "won"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Option configures a Game.
type Option func(*Game)

// WithClock sets the time source used for start and end timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Game) {
		if now != nil {
			g.now = now
		}
	}
}

// Game is a Tower of Hanoi session. It is not safe for concurrent use; a
// single frame loop owns it and hands out Snapshots to readers.
type Game struct {
	pegs      [PegCount]Peg
	held      *Held
	discs     int
	moves     int
	won       bool
	startedAt time.Time
	endedAt   time.Time
	revision  uint64
	now       func() time.Time
}

// New creates a game with the given number of discs stacked on peg 0.
// A non-positive count uses DefaultDiscs.
func New(discs int, opts ...Option) *Game {
	if discs <= 0 {
		discs = DefaultDiscs
	}
	g := &Game{discs: discs, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	g.Reset()
	return g
}

// FromPegs creates a game from an explicit layout. The discs across all pegs
// must be exactly 1..N with every peg strictly decreasing bottom to top.
func FromPegs(pegs [PegCount][]Disc, opts ...Option) (*Game, error) {
	total := 0
	for _, p := range pegs {
		total += len(p)
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: no discs", ErrInvalidLayout)
	}

	g := &Game{discs: total, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	for i, p := range pegs {
		g.pegs[i] = append(Peg(nil), p...)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	g.startedAt = g.now()
	g.CheckVictory()
	return g, nil
}

// Reset puts all discs back on peg 0 and restarts the clock.
func (g *Game) Reset() {
	first := make(Peg, 0, g.discs)
	for d := g.discs; d >= 1; d-- {
		first = append(first, Disc(d))
	}
	g.pegs = [PegCount]Peg{first, nil, nil}
	g.held = nil
	g.moves = 0
	g.won = false
	g.startedAt = g.now()
	g.endedAt = time.Time{}
	g.revision++
}

// Apply evaluates one frame of input. Nothing happens once the game is won
// or when the peg index is out of range.
func (g *Game) Apply(in Input) Outcome {
	if g.won || in.Peg < 0 || in.Peg >= PegCount {
		return OutcomeNone
	}

	if g.held == nil {
		if in.Closed && g.Pick(in.Peg) {
			return OutcomePicked
		}
		return OutcomeNone
	}

	// Still closed: the disc stays lifted.
	if in.Closed {
		return OutcomeNone
	}
	return g.Drop(in.Peg)
}

// Pick lifts the top disc of the given peg. It reports false if a disc is
// already held, the peg is empty, or the game is won.
func (g *Game) Pick(peg int) bool {
	if g.won || g.held != nil || peg < 0 || peg >= PegCount {
		return false
	}
	top, ok := g.pegs[peg].Top()
	if !ok {
		return false
	}
	g.pegs[peg] = g.pegs[peg][:len(g.pegs[peg])-1]
	g.held = &Held{Disc: top, From: peg}
	g.revision++
	return true
}

// Drop places the held disc on the given peg. An illegal placement sends the
// disc back to the peg it came from without counting a move.
func (g *Game) Drop(peg int) Outcome {
	if g.won || g.held == nil || peg < 0 || peg >= PegCount {
		return OutcomeNone
	}

	h := *g.held
	g.held = nil
	g.revision++

	if top, ok := g.pegs[peg].Top(); ok && top < h.Disc {
		g.pegs[h.From] = append(g.pegs[h.From], h.Disc)
		return OutcomeSnappedBack
	}

	g.pegs[peg] = append(g.pegs[peg], h.Disc)
	g.moves++
	if g.CheckVictory() {
		return OutcomeWon
	}
	return OutcomePlaced
}

// CheckVictory reports whether every disc sits on the last peg. The end
// time is recorded the first time this becomes true and never again.
func (g *Game) CheckVictory() bool {
	if g.won {
		return true
	}
	if len(g.pegs[PegCount-1]) != g.discs {
		return false
	}
	g.won = true
	g.endedAt = g.now()
	g.revision++
	return true
}

// Validate checks the ordering and conservation invariants.
func (g *Game) Validate() error {
	seen := make(map[Disc]bool, g.discs)
	for i, p := range g.pegs {
		for j, d := range p {
			if j > 0 && p[j-1] <= d {
				return fmt.Errorf("%w: peg %d not decreasing at level %d", ErrInvalidLayout, i, j)
			}
			if err := g.see(seen, d); err != nil {
				return err
			}
		}
	}
	if g.held != nil {
		if err := g.see(seen, g.held.Disc); err != nil {
			return err
		}
	}
	if len(seen) != g.discs {
		return fmt.Errorf("%w: %d of %d discs present", ErrInvalidLayout, len(seen), g.discs)
	}
	return nil
}

func (g *Game) see(seen map[Disc]bool, d Disc) error {
	if d < 1 || int(d) > g.discs {
		return fmt.Errorf("%w: disc %d out of range 1..%d", ErrInvalidLayout, d, g.discs)
	}
	if seen[d] {
		return fmt.Errorf("%w: duplicate disc %d", ErrInvalidLayout, d)
	}
	seen[d] = true
	return nil
}

// State returns the current machine state.
func (g *Game) State() State {
	switch {
	case g.won:
		return StateWon
	case g.held != nil:
		return StateHolding
	default:
		return StateIdle
	}
}

// Elapsed returns the play time, frozen at the win.
func (g *Game) Elapsed() time.Duration {
	end := g.endedAt
	if end.IsZero() {
		end = g.now()
	}
	return end.Sub(g.startedAt)
}

// Pegs returns a copy of the peg stacks.
func (g *Game) Pegs() [PegCount]Peg {
	var out [PegCount]Peg
	for i, p := range g.pegs {
		out[i] = append(Peg{}, p...)
	}
	return out
}

// Held returns the held disc, if any.
func (g *Game) Held() (Held, bool) {
	if g.held == nil {
		return Held{}, false
	}
	return *g.held, true
}

func (g *Game) Moves() int           { return g.moves }
func (g *Game) Won() bool            { return g.won }
func (g *Game) Discs() int           { return g.discs }
func (g *Game) Revision() uint64     { return g.revision }
func (g *Game) StartedAt() time.Time { return g.startedAt }
func (g *Game) EndedAt() time.Time   { return g.endedAt }
