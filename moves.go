package smartcube

// Predefined quarter and half turns.
var (
	U, UPrime, U2 = quarterTurns(FaceU)
	R, RPrime, R2 = quarterTurns(FaceR)
	F, FPrime, F2 = quarterTurns(FaceF)
	D, DPrime, D2 = quarterTurns(FaceD)
	L, LPrime, L2 = quarterTurns(FaceL)
	B, BPrime, B2 = quarterTurns(FaceB)
)

// SexyMove is R U R' U'. Six repetitions return to the start.
var SexyMove = []Move{R, U, RPrime, UPrime}

// TPerm swaps two corners and two edges of the U layer.
var TPerm = []Move{R, U, RPrime, UPrime, RPrime, F, R2, UPrime, RPrime, UPrime, R, U, RPrime, FPrime}

func quarterTurns(f Face) (cw, ccw, double Move) {
	return Move{Face: f, Turn: CW}, Move{Face: f, Turn: CCW}, Move{Face: f, Turn: Double}
}

// Invert returns the sequence that undoes moves.
func Invert(moves []Move) []Move {
	out := make([]Move, len(moves))
	for i, m := range moves {
		out[len(moves)-1-i] = m.Inverse()
	}
	return out
}
