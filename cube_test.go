package smartcube

import (
	"testing"
)

func TestNewCubeIsSolved(t *testing.T) {
	c := NewCube()
	if !c.IsSolved() {
		t.Error("New cube should be solved")
	}
	if c.FaceletString() != SolvedFacelets {
		t.Errorf("FaceletString() = %s, want %s", c.FaceletString(), SolvedFacelets)
	}
}

func TestSingleMoveBreaksSolved(t *testing.T) {
	c := NewCube()
	c.Apply(R)
	if c.IsSolved() {
		t.Error("Cube should not be solved after R move")
	}
}

func TestFourQuarterTurnsReturnToSolved(t *testing.T) {
	for _, face := range []Face{FaceU, FaceR, FaceF, FaceD, FaceL, FaceB} {
		c := NewCube()
		for i := 0; i < 4; i++ {
			c.Turn(face, CW)
		}
		if !c.IsSolved() {
			t.Errorf("%s x 4 should return to solved", face)
			t.Log(c.String())
		}
	}
}

func TestDoubleTurnTwiceReturnsToSolved(t *testing.T) {
	c := NewCube()
	c.Apply(R2, R2)
	if !c.IsSolved() {
		t.Error("R2 R2 should return to solved")
		t.Log(c.String())
	}
}

func TestCounterClockwiseUndoesClockwise(t *testing.T) {
	for _, face := range []Face{FaceU, FaceR, FaceF, FaceD, FaceL, FaceB} {
		c := NewCube()
		c.Turn(face, CW)
		c.Turn(face, CCW)
		if !c.IsSolved() {
			t.Errorf("%s %s' should return to solved", face, face)
		}
	}
}

func TestSexyMoveSixTimesReturnsToSolved(t *testing.T) {
	c := NewCube()
	for i := 0; i < 6; i++ {
		c.Apply(SexyMove...)
	}
	if !c.IsSolved() {
		t.Error("Sexy move x 6 should return to solved")
		t.Log(c.String())
	}
}

func TestTPermIsSelfInverse(t *testing.T) {
	c := NewCube()
	c.Apply(TPerm...)
	if c.IsSolved() {
		t.Error("T-perm should change the cube")
	}
	c.Apply(TPerm...)
	if !c.IsSolved() {
		t.Error("T-perm x 2 should return to solved")
		t.Log(c.String())
	}
}

func TestInvertUndoesScramble(t *testing.T) {
	scramble, err := ParseMoves("R U2 F' L D' B2 R' U")
	if err != nil {
		t.Fatal(err)
	}
	c := NewCube()
	c.Apply(scramble...)
	c.Apply(Invert(scramble)...)
	if !c.IsSolved() {
		t.Error("scramble followed by its inverse should be solved")
	}
}

func TestCubeFromFaceletsRoundTrip(t *testing.T) {
	c := NewCube()
	c.Apply(TPerm...)
	want := c.FaceletString()

	got, err := CubeFromFacelets(want)
	if err != nil {
		t.Fatal(err)
	}
	if got.FaceletString() != want {
		t.Errorf("round trip = %s, want %s", got.FaceletString(), want)
	}
	if _, err := CubeFromFacelets("UUU"); err == nil {
		t.Error("expected error for short facelet string")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	c := NewCube()
	clone := c.Clone()
	clone.Apply(F)
	if !c.IsSolved() {
		t.Error("turning a clone should not change the original")
	}
}

func TestUnknownFaceIgnored(t *testing.T) {
	c := NewCube()
	c.Turn("X", CW)
	c.Turn("", CW)
	if !c.IsSolved() {
		t.Error("unknown faces should be ignored")
	}
}

func TestColorFace(t *testing.T) {
	if White.Face() != FaceU || Blue.Face() != FaceB {
		t.Error("color faces should follow URFDLB order")
	}
	if Color(9).Face() != "" {
		t.Error("out of range color should have no face")
	}
}

func TestPhaseDetection(t *testing.T) {
	tests := []struct {
		moves string
		want  Phase
	}{
		{"", PhaseSolved},
		{"R", PhaseScrambled},
		{"D", PhaseYellowCross},
		{"D2", PhaseYellowCross},
	}
	for _, tt := range tests {
		moves, err := ParseMoves(tt.moves)
		if err != nil {
			t.Fatal(err)
		}
		c := NewCube()
		c.Apply(moves...)
		if got := c.Phase(); got != tt.want {
			t.Errorf("Phase() after %q = %s, want %s", tt.moves, got, tt.want)
		}
	}
}

func TestPhaseNames(t *testing.T) {
	if PhaseSecondLayer.String() != "second_layer" {
		t.Errorf("String() = %s", PhaseSecondLayer.String())
	}
	if PhaseYellowCorners.DisplayName() != "Yellow Corners Positioned" {
		t.Errorf("DisplayName() = %s", PhaseYellowCorners.DisplayName())
	}
	if Phase(99).String() != "unknown" {
		t.Error("out of range phase should be unknown")
	}
}
