package smartcube

import (
	"strings"
)

// Color represents a sticker color. Each color is named after the face it
// belongs to on a solved cube held white up, green front.
type Color byte

const (
	White  Color = 0 // Up face when solved
	Red    Color = 1 // Right face when solved
	Green  Color = 2 // Front face when solved
	Yellow Color = 3 // Down face when solved
	Orange Color = 4 // Left face when solved
	Blue   Color = 5 // Back face when solved
)

func (c Color) String() string {
	switch c {
	case White:
		return "W"
	case Red:
		return "R"
	case Green:
		return "G"
	case Yellow:
		return "Y"
	case Orange:
		return "O"
	case Blue:
		return "B"
	default:
		return "?"
	}
}

// Face returns the face this color belongs to when solved.
func (c Color) Face() Face {
	if int(c) >= len(faceOrder) {
		return ""
	}
	return Face(faceOrder[c : c+1])
}

// Cube is a sticker-level model of a 3x3 cube.
// Faces are stored in facelet-string order (U, R, F, D, L, B) and each
// face has 9 facelets indexed as:
//
//	0 1 2
//	3 4 5
//	6 7 8
//
// The center (index 4) defines the face color and never moves.
type Cube struct {
	// Facelets[face][position] = color
	Facelets [6][9]Color
}

// NewCube creates a solved cube.
func NewCube() *Cube {
	c := &Cube{}
	c.Reset()
	return c
}

// CubeFromFacelets builds a Cube from a facelet string. The string must
// pass ValidateFacelets; pieces are not checked.
func CubeFromFacelets(facelets string) (*Cube, error) {
	if err := ValidateFacelets(facelets); err != nil {
		return nil, err
	}
	c := &Cube{}
	for i := 0; i < numFacelets; i++ {
		c.Facelets[i/9][i%9] = Color(strings.IndexByte(faceOrder, facelets[i]))
	}
	return c, nil
}

// Reset returns the cube to the solved state.
func (c *Cube) Reset() {
	for face := range c.Facelets {
		for i := range c.Facelets[face] {
			c.Facelets[face][i] = Color(face)
		}
	}
}

// Clone creates a deep copy of the cube.
func (c *Cube) Clone() *Cube {
	clone := *c
	return &clone
}

// IsSolved returns true if every face shows a single color.
func (c *Cube) IsSolved() bool {
	for face := range c.Facelets {
		for _, color := range c.Facelets[face] {
			if color != Color(face) {
				return false
			}
		}
	}
	return true
}

// FaceletString returns the cube as a Kociemba facelet string.
func (c *Cube) FaceletString() string {
	var b strings.Builder
	b.Grow(numFacelets)
	for face := range c.Facelets {
		for _, color := range c.Facelets[face] {
			b.WriteByte(faceOrder[color])
		}
	}
	return b.String()
}

// Apply applies moves in order.
func (c *Cube) Apply(moves ...Move) {
	for _, m := range moves {
		c.Turn(m.Face, m.Turn)
	}
}

// Turn turns one face. Unknown faces and turns are ignored.
func (c *Cube) Turn(face Face, turn Turn) {
	f := strings.Index(faceOrder, string(face))
	if len(face) != 1 || f < 0 {
		return
	}
	quarters := 0
	switch turn {
	case CW:
		quarters = 1
	case Double:
		quarters = 2
	case CCW:
		quarters = 3
	}
	for i := 0; i < quarters; i++ {
		c.turnCW(f)
	}
}

// strip is a row or column of three facelets on one face.
type strip struct {
	face int
	idx  [3]int
}

const (
	faceU = iota
	faceR
	faceF
	faceD
	faceL
	faceB
)

// adjacentStrips lists, per face, the four neighboring strips in the order
// a clockwise turn carries stickers: strip 0 moves to strip 1, and so on.
var adjacentStrips = [6][4]strip{
	faceU: {{faceF, [3]int{0, 1, 2}}, {faceL, [3]int{0, 1, 2}}, {faceB, [3]int{0, 1, 2}}, {faceR, [3]int{0, 1, 2}}},
	faceR: {{faceU, [3]int{2, 5, 8}}, {faceB, [3]int{6, 3, 0}}, {faceD, [3]int{2, 5, 8}}, {faceF, [3]int{2, 5, 8}}},
	faceF: {{faceU, [3]int{6, 7, 8}}, {faceR, [3]int{0, 3, 6}}, {faceD, [3]int{2, 1, 0}}, {faceL, [3]int{8, 5, 2}}},
	faceD: {{faceF, [3]int{6, 7, 8}}, {faceR, [3]int{6, 7, 8}}, {faceB, [3]int{6, 7, 8}}, {faceL, [3]int{6, 7, 8}}},
	faceL: {{faceU, [3]int{0, 3, 6}}, {faceF, [3]int{0, 3, 6}}, {faceD, [3]int{0, 3, 6}}, {faceB, [3]int{8, 5, 2}}},
	faceB: {{faceU, [3]int{2, 1, 0}}, {faceL, [3]int{0, 3, 6}}, {faceD, [3]int{6, 7, 8}}, {faceR, [3]int{8, 5, 2}}},
}

// turnCW turns a face 90 degrees clockwise as seen from outside.
func (c *Cube) turnCW(face int) {
	f := &c.Facelets[face]
	// Corners: 0->2->8->6->0, edges: 1->5->7->3->1
	f[0], f[2], f[8], f[6] = f[6], f[0], f[2], f[8]
	f[1], f[5], f[7], f[3] = f[3], f[1], f[5], f[7]

	s := adjacentStrips[face]
	var saved [3]Color
	for k, i := range s[3].idx {
		saved[k] = c.Facelets[s[3].face][i]
	}
	for n := 3; n > 0; n-- {
		dst, src := s[n], s[n-1]
		for k := range dst.idx {
			c.Facelets[dst.face][dst.idx[k]] = c.Facelets[src.face][src.idx[k]]
		}
	}
	for k, i := range s[0].idx {
		c.Facelets[s[0].face][i] = saved[k]
	}
}

// String returns the cube as an unfolded net:
//
//	  U
//	L F R B
//	  D
func (c *Cube) String() string {
	var b strings.Builder
	row := func(face, r int) {
		for col := 0; col < 3; col++ {
			b.WriteString(c.Facelets[face][r*3+col].String())
			b.WriteByte(' ')
		}
	}

	for r := 0; r < 3; r++ {
		b.WriteString("      ")
		row(faceU, r)
		b.WriteByte('\n')
	}
	for r := 0; r < 3; r++ {
		for _, face := range []int{faceL, faceF, faceR, faceB} {
			row(face, r)
		}
		b.WriteByte('\n')
	}
	for r := 0; r < 3; r++ {
		b.WriteString("      ")
		row(faceD, r)
		b.WriteByte('\n')
	}
	return b.String()
}
