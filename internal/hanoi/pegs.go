package hanoi

// PegCount is the number of pegs on the board.
const PegCount = 3

// MapPosition maps a normalized horizontal position to a peg index by
// splitting [0,1] into equal thirds, lower bound inclusive.
func MapPosition(x float64) int {
	switch {
	case x < 1.0/3.0:
		return 0
	case x < 2.0/3.0:
		return 1
	default:
		return 2
	}
}

// PegCenter returns the normalized horizontal center of a peg's band.
func PegCenter(peg int) float64 {
	return (float64(peg) + 0.5) / PegCount
}

// Move is one disc transfer between pegs.
type Move struct {
	From, To int
}

// Solve returns the optimal move sequence that carries n discs from peg
// from to peg to.
func Solve(n, from, to int) []Move {
	if n <= 0 {
		return nil
	}
	via := PegCount - from - to
	moves := Solve(n-1, from, via)
	moves = append(moves, Move{From: from, To: to})
	return append(moves, Solve(n-1, via, to)...)
}
