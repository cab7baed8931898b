package smartcube

// Phase is a stage of the layer-by-layer method, solved white up and green
// front. Phases are ordered, so later stages compare greater.
type Phase int

const (
	PhaseScrambled Phase = iota
	PhaseWhiteCross
	PhaseFirstLayer
	PhaseSecondLayer
	PhaseYellowCross
	PhaseYellowCorners
	PhaseYellowOriented
	PhaseSolved
)

// String returns a short identifier for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseScrambled:
		return "scrambled"
	case PhaseWhiteCross:
		return "white_cross"
	case PhaseFirstLayer:
		return "first_layer"
	case PhaseSecondLayer:
		return "second_layer"
	case PhaseYellowCross:
		return "yellow_cross"
	case PhaseYellowCorners:
		return "yellow_corners"
	case PhaseYellowOriented:
		return "yellow_oriented"
	case PhaseSolved:
		return "solved"
	default:
		return "unknown"
	}
}

// DisplayName returns a human-readable name for the phase.
func (p Phase) DisplayName() string {
	switch p {
	case PhaseScrambled:
		return "Scrambled"
	case PhaseWhiteCross:
		return "White Cross"
	case PhaseFirstLayer:
		return "First Layer"
	case PhaseSecondLayer:
		return "Second Layer"
	case PhaseYellowCross:
		return "Yellow Cross"
	case PhaseYellowCorners:
		return "Yellow Corners Positioned"
	case PhaseYellowOriented:
		return "Yellow Corners Oriented"
	case PhaseSolved:
		return "Solved"
	default:
		return "Unknown"
	}
}

var sideFaces = [4]int{faceF, faceR, faceB, faceL}

// Phase returns the furthest layer-by-layer stage the cube has completed.
// Each stage requires all earlier ones.
func (c *Cube) Phase() Phase {
	checks := []func() bool{
		c.whiteCross,
		c.firstLayer,
		c.secondLayer,
		c.yellowCross,
		c.yellowCornersPositioned,
		c.yellowCornersOriented,
		c.IsSolved,
	}
	p := PhaseScrambled
	for _, done := range checks {
		if !done() {
			break
		}
		p++
	}
	return p
}

// sideMatches reports whether the given positions on every side face show
// that face's center color.
func (c *Cube) sideMatches(positions ...int) bool {
	for _, f := range sideFaces {
		for _, i := range positions {
			if c.Facelets[f][i] != c.Facelets[f][4] {
				return false
			}
		}
	}
	return true
}

func (c *Cube) faceShows(face int, color Color, positions ...int) bool {
	for _, i := range positions {
		if c.Facelets[face][i] != color {
			return false
		}
	}
	return true
}

func (c *Cube) whiteCross() bool {
	return c.faceShows(faceU, White, 1, 3, 5, 7) && c.sideMatches(1)
}

func (c *Cube) firstLayer() bool {
	return c.faceShows(faceU, White, 0, 2, 6, 8) && c.sideMatches(0, 2)
}

func (c *Cube) secondLayer() bool {
	return c.sideMatches(3, 5)
}

func (c *Cube) yellowCross() bool {
	return c.faceShows(faceD, Yellow, 1, 3, 5, 7)
}

// bottomCorners lists the D-layer corners as (face, index) stickers with the
// colors each should carry.
var bottomCorners = [4]struct {
	stickers [3][2]int
	colors   [3]Color
}{
	{[3][2]int{{faceF, 8}, {faceR, 6}, {faceD, 2}}, [3]Color{Green, Red, Yellow}},
	{[3][2]int{{faceR, 8}, {faceB, 6}, {faceD, 8}}, [3]Color{Red, Blue, Yellow}},
	{[3][2]int{{faceB, 8}, {faceL, 6}, {faceD, 6}}, [3]Color{Blue, Orange, Yellow}},
	{[3][2]int{{faceL, 8}, {faceF, 6}, {faceD, 0}}, [3]Color{Orange, Green, Yellow}},
}

// yellowCornersPositioned ignores twist: a corner is in place when it holds
// the right three colors.
func (c *Cube) yellowCornersPositioned() bool {
	for _, corner := range bottomCorners {
		var want, got [6]int
		for k, s := range corner.stickers {
			got[c.Facelets[s[0]][s[1]]]++
			want[corner.colors[k]]++
		}
		if got != want {
			return false
		}
	}
	return true
}

func (c *Cube) yellowCornersOriented() bool {
	return c.faceShows(faceD, Yellow, 0, 2, 6, 8) && c.sideMatches(6, 8)
}
