package hanoi

import "time"

// Snapshot is a read-only copy of a game, safe to hand to other goroutines.
type Snapshot struct {
	Pegs      [PegCount]Peg `json:"pegs"`
	Held      *Held         `json:"held,omitempty"`
	Discs     int           `json:"discs"`
	Moves     int           `json:"moves"`
	Won       bool          `json:"won"`
	State     string        `json:"state"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   *time.Time    `json:"ended_at,omitempty"`
	Elapsed   time.Duration `json:"elapsed_ns"`
	Revision  uint64        `json:"revision"`
}

// Snapshot copies the current game state.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Pegs:      g.Pegs(),
		Discs:     g.discs,
		Moves:     g.moves,
		Won:       g.won,
		State:     g.State().String(),
		StartedAt: g.startedAt,
		Elapsed:   g.Elapsed(),
		Revision:  g.revision,
	}
	if h, ok := g.Held(); ok {
		s.Held = &h
	}
	if !g.endedAt.IsZero() {
		end := g.endedAt
		s.EndedAt = &end
	}
	return s
}
