package smartcube

// Geometry tables for the 3x3x3 cube in Kociemba facelet order.
//
// Pieces are enumerated in Reid order. A piece name lists the faces its
// stickers lie on; rotating the name left by the piece's orientation gives
// the faces shown at the slot, in the slot's own sticker order.

// faceOrder is the face sequence of a facelet string. Each face occupies
// nine consecutive characters and its center is the face's own symbol.
const faceOrder = "URFDLB"

// SolvedFacelets is the facelet string of a solved cube.
const SolvedFacelets = "UUUUUUUUURRRRRRRRRFFFFFFFFFDDDDDDDDDLLLLLLLLLBBBBBBBBB"

const (
	numFacelets = 54
	numEdges    = 12
	numCorners  = 8
	numCenters  = 6
)

var edgeNames = [numEdges]string{
	"UF", "UR", "UB", "UL", "DF", "DR", "DB", "DL", "FR", "FL", "BR", "BL",
}

var cornerNames = [numCorners]string{
	"UFR", "URB", "UBL", "ULF", "DRF", "DFL", "DLB", "DBR",
}

var centerNames = [numCenters]string{"U", "L", "F", "R", "B", "D"}

// cornerStickers lists, per corner slot, the indices into the 48-sticker
// scan sequence built by Decode (each face reversed, center skipped).
var cornerStickers = [numCorners][3]int{
	{0, 21, 15},  // UFR
	{5, 13, 47},  // URB
	{7, 45, 39},  // UBL
	{2, 37, 23},  // ULF
	{29, 10, 16}, // DRF
	{31, 18, 32}, // DFL
	{26, 34, 40}, // DLB
	{24, 42, 8},  // DBR
}

// edgeStickers is the edge counterpart of cornerStickers.
var edgeStickers = [numEdges][2]int{
	{1, 22},  // UF
	{3, 14},  // UR
	{6, 46},  // UB
	{4, 38},  // UL
	{30, 17}, // DF
	{27, 9},  // DR
	{25, 41}, // DB
	{28, 33}, // DL
	{19, 12}, // FR
	{20, 35}, // FL
	{44, 11}, // BR
	{43, 36}, // BL
}

type orbit uint8

const (
	orbitEdges orbit = iota
	orbitCorners
	orbitCenters
)

// faceletSource locates the sticker shown at one facelet position.
type faceletSource struct {
	orbit orbit
	slot  uint8
	sub   uint8
}

// faceletSources maps every facelet position to the piece sticker shown
// there. It is the inverse of the Decode scan order.
var faceletSources = [numFacelets]faceletSource{
	// U
	{orbitCorners, 2, 0}, {orbitEdges, 2, 0}, {orbitCorners, 1, 0}, {orbitEdges, 3, 0}, {orbitCenters, 0, 0}, {orbitEdges, 1, 0}, {orbitCorners, 3, 0}, {orbitEdges, 0, 0}, {orbitCorners, 0, 0},
	// R
	{orbitCorners, 0, 2}, {orbitEdges, 1, 1}, {orbitCorners, 1, 1}, {orbitEdges, 8, 1}, {orbitCenters, 3, 0}, {orbitEdges, 10, 1}, {orbitCorners, 4, 1}, {orbitEdges, 5, 1}, {orbitCorners, 7, 2},
	// F
	{orbitCorners, 3, 2}, {orbitEdges, 0, 1}, {orbitCorners, 0, 1}, {orbitEdges, 9, 0}, {orbitCenters, 2, 0}, {orbitEdges, 8, 0}, {orbitCorners, 5, 1}, {orbitEdges, 4, 1}, {orbitCorners, 4, 2},
	// D
	{orbitCorners, 5, 0}, {orbitEdges, 4, 0}, {orbitCorners, 4, 0}, {orbitEdges, 7, 0}, {orbitCenters, 5, 0}, {orbitEdges, 5, 0}, {orbitCorners, 6, 0}, {orbitEdges, 6, 0}, {orbitCorners, 7, 0},
	// L
	{orbitCorners, 2, 2}, {orbitEdges, 3, 1}, {orbitCorners, 3, 1}, {orbitEdges, 11, 1}, {orbitCenters, 1, 0}, {orbitEdges, 9, 1}, {orbitCorners, 6, 1}, {orbitEdges, 7, 1}, {orbitCorners, 5, 2},
	// B
	{orbitCorners, 1, 2}, {orbitEdges, 2, 1}, {orbitCorners, 2, 1}, {orbitEdges, 10, 0}, {orbitCenters, 4, 0}, {orbitEdges, 11, 0}, {orbitCorners, 7, 1}, {orbitEdges, 6, 1}, {orbitCorners, 6, 2},
}

// pieceRef identifies a piece and its twist.
type pieceRef struct {
	piece       uint8
	orientation uint8
}

// pieceTable maps every rotation of every canonical piece name to the piece
// and orientation it denotes: 12*2 edge keys and 8*3 corner keys.
var pieceTable = buildPieceTable()

func buildPieceTable() map[string]pieceRef {
	table := make(map[string]pieceRef, numEdges*2+numCorners*3)
	for i, name := range edgeNames {
		for o := 0; o < 2; o++ {
			table[rotateLeft(name, o)] = pieceRef{piece: uint8(i), orientation: uint8(o)}
		}
	}
	for i, name := range cornerNames {
		for o := 0; o < 3; o++ {
			table[rotateLeft(name, o)] = pieceRef{piece: uint8(i), orientation: uint8(o)}
		}
	}
	return table
}

func rotateLeft(s string, n int) string {
	if len(s) == 0 {
		return s
	}
	n %= len(s)
	return s[n:] + s[:n]
}
