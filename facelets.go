package smartcube

import (
	"fmt"
	"strings"
)

// Slot holds the piece occupying a position and its twist there.
type Slot struct {
	Piece       uint8 `json:"piece"`
	Orientation uint8 `json:"orientation"`
}

// State is the piece permutation/orientation model of a 3x3x3 cube.
//
// Edges have orientation 0 or 1, corners 0, 1 or 2. Centers are fixed:
// identity permutation, orientation 0, in the order U L F R B D.
type State struct {
	Edges   [numEdges]Slot   `json:"edges"`
	Corners [numCorners]Slot `json:"corners"`
	Centers [numCenters]Slot `json:"centers"`
}

// SolvedState returns the identity state.
func SolvedState() State {
	var s State
	for i := range s.Edges {
		s.Edges[i].Piece = uint8(i)
	}
	for i := range s.Corners {
		s.Corners[i].Piece = uint8(i)
	}
	for i := range s.Centers {
		s.Centers[i].Piece = uint8(i)
	}
	return s
}

// IsSolved returns true if every piece is home and untwisted.
func (s State) IsSolved() bool {
	return s == SolvedState()
}

// ValidateFacelets checks length, alphabet and fixed centers of a facelet
// string without decoding its pieces.
func ValidateFacelets(facelets string) error {
	if len(facelets) != numFacelets {
		return fmt.Errorf("%w: facelet string has length %d, want %d", ErrMalformedInput, len(facelets), numFacelets)
	}
	for i := 0; i < numFacelets; i++ {
		if strings.IndexByte(faceOrder, facelets[i]) < 0 {
			return fmt.Errorf("%w: invalid facelet %q at position %d", ErrMalformedInput, facelets[i], i)
		}
	}
	for f := 0; f < len(faceOrder); f++ {
		if c := facelets[f*9+4]; c != faceOrder[f] {
			return fmt.Errorf("%w: %c center shows %c; non-oriented puzzles are not supported",
				ErrUnsupportedState, faceOrder[f], c)
		}
	}
	return nil
}

// Decode converts a Kociemba facelet string into a piece state.
//
// The string must hold 54 symbols from "URFDLB", grouped into faces in the
// order U, R, F, D, L, B, with every center showing its own face.
func Decode(facelets string) (State, error) {
	if err := ValidateFacelets(facelets); err != nil {
		return State{}, err
	}

	// Scan each face backwards, skipping the center.
	var stickers [48]byte
	n := 0
	for f := 0; f < len(faceOrder); f++ {
		face := facelets[f*9 : f*9+9]
		for i := 8; i >= 0; i-- {
			if i == 4 {
				continue
			}
			stickers[n] = face[i]
			n++
		}
	}

	var s State
	var key [3]byte
	for slot, idx := range cornerStickers {
		for k, j := range idx {
			key[k] = stickers[j]
		}
		ref, ok := pieceTable[string(key[:3])]
		if !ok {
			return State{}, fmt.Errorf("%w: no corner matches stickers %q at %s", ErrInvalidState, key[:3], cornerNames[slot])
		}
		s.Corners[slot] = Slot{Piece: ref.piece, Orientation: ref.orientation}
	}
	for slot, idx := range edgeStickers {
		for k, j := range idx {
			key[k] = stickers[j]
		}
		ref, ok := pieceTable[string(key[:2])]
		if !ok {
			return State{}, fmt.Errorf("%w: no edge matches stickers %q at %s", ErrInvalidState, key[:2], edgeNames[slot])
		}
		s.Edges[slot] = Slot{Piece: ref.piece, Orientation: ref.orientation}
	}
	for i := range s.Centers {
		s.Centers[i].Piece = uint8(i)
	}
	return s, nil
}

// Encode converts a piece state into a Kociemba facelet string.
//
// Encode does not check that the pieces form a permutation; use Validate
// for that. It only rejects values that cannot be rendered at all.
func Encode(s State) (string, error) {
	for i, c := range s.Centers {
		if int(c.Piece) != i || c.Orientation != 0 {
			return "", fmt.Errorf("%w: center %s moved; non-oriented puzzles are not supported", ErrUnsupportedState, centerNames[i])
		}
	}

	var edges [numEdges]string
	for i, e := range s.Edges {
		if int(e.Piece) >= numEdges || e.Orientation >= 2 {
			return "", fmt.Errorf("%w: edge slot %d holds piece %d orientation %d", ErrInvalidState, i, e.Piece, e.Orientation)
		}
		edges[i] = rotateLeft(edgeNames[e.Piece], int(e.Orientation))
	}
	var corners [numCorners]string
	for i, c := range s.Corners {
		if int(c.Piece) >= numCorners || c.Orientation >= 3 {
			return "", fmt.Errorf("%w: corner slot %d holds piece %d orientation %d", ErrInvalidState, i, c.Piece, c.Orientation)
		}
		corners[i] = rotateLeft(cornerNames[c.Piece], int(c.Orientation))
	}

	var out [numFacelets]byte
	for pos, src := range faceletSources {
		switch src.orbit {
		case orbitEdges:
			out[pos] = edges[src.slot][src.sub]
		case orbitCorners:
			out[pos] = corners[src.slot][src.sub]
		case orbitCenters:
			out[pos] = centerNames[src.slot][src.sub]
		}
	}
	return string(out[:]), nil
}

// Validate checks that s describes a cube reachable by face turns: both
// orbits are permutations, twists sum to zero, and the edge and corner
// permutations share parity.
func (s State) Validate() error {
	var seenEdges [numEdges]bool
	twist := 0
	edgePerm := make([]int, numEdges)
	for i, e := range s.Edges {
		if int(e.Piece) >= numEdges || e.Orientation >= 2 {
			return fmt.Errorf("%w: edge slot %d out of range", ErrInvalidState, i)
		}
		if seenEdges[e.Piece] {
			return fmt.Errorf("%w: edge %s appears twice", ErrInvalidState, edgeNames[e.Piece])
		}
		seenEdges[e.Piece] = true
		twist += int(e.Orientation)
		edgePerm[i] = int(e.Piece)
	}
	if twist%2 != 0 {
		return fmt.Errorf("%w: edge flip sum is odd", ErrInvalidState)
	}

	var seenCorners [numCorners]bool
	twist = 0
	cornerPerm := make([]int, numCorners)
	for i, c := range s.Corners {
		if int(c.Piece) >= numCorners || c.Orientation >= 3 {
			return fmt.Errorf("%w: corner slot %d out of range", ErrInvalidState, i)
		}
		if seenCorners[c.Piece] {
			return fmt.Errorf("%w: corner %s appears twice", ErrInvalidState, cornerNames[c.Piece])
		}
		seenCorners[c.Piece] = true
		twist += int(c.Orientation)
		cornerPerm[i] = int(c.Piece)
	}
	if twist%3 != 0 {
		return fmt.Errorf("%w: corner twist sum is not a multiple of 3", ErrInvalidState)
	}

	if parity(edgePerm) != parity(cornerPerm) {
		return fmt.Errorf("%w: edge and corner permutation parity differ", ErrInvalidState)
	}

	for i, c := range s.Centers {
		if int(c.Piece) != i || c.Orientation != 0 {
			return fmt.Errorf("%w: center %s moved", ErrUnsupportedState, centerNames[i])
		}
	}
	return nil
}

// parity returns 0 for even permutations and 1 for odd ones.
func parity(perm []int) int {
	inversions := 0
	for i := 0; i < len(perm); i++ {
		for j := i + 1; j < len(perm); j++ {
			if perm[i] > perm[j] {
				inversions++
			}
		}
	}
	return inversions % 2
}
