package shared

import "fmt"

// Vec4 addresses one square in the multiverse: file X and rank Y on the
// board at turn T of timeline L. X and Y must be in [0,8) for the position
// to be on a board; L and T are unbounded signed indices.
type Vec4 struct {
	X int `json:"x"`
	Y int `json:"y"`
	L int `json:"l"`
	T int `json:"t"`
}

// InBoard reports whether x,y address a square of an 8x8 board.
func InBoard(x, y int) bool { return x >= 0 && x < 8 && y >= 0 && y < 8 }

func (v Vec4) Valid() bool { return InBoard(v.X, v.Y) }

// SameSquare compares only the board-local coordinate.
func (v Vec4) SameSquare(o Vec4) bool { return v.X == o.X && v.Y == o.Y }

// SameBoard compares only the timeline/turn coordinate.
func (v Vec4) SameBoard(o Vec4) bool { return v.L == o.L && v.T == o.T }

func (v Vec4) String() string {
	return fmt.Sprintf("(%d,%d L%d T%d)", v.X, v.Y, v.L, v.T)
}
