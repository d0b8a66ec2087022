package game

import "multiverse_chess/internal/shared"

// Board is one snapshot of the 8x8 grid at turn T of timeline L. Boards are
// immutable by convention: once a successor has been derived from a board,
// the move engine only ever touches clones.
type Board struct {
	L, T int

	// Turn is the side to move on this board. It satisfies
	// Turn == (T + SideOfTimeline(L)) mod 2 on every reachable board.
	Turn Side

	// Active marks the snapshot that currently represents its timeline's
	// head. Historical snapshots and snapshots consumed by a move are
	// inactive.
	Active bool

	// Deleted marks a snapshot destroyed by undo; deleted boards are
	// unreachable from any timeline slot.
	Deleted bool

	Castling      CastlingRights
	EnPassant     *Vec4
	ImminentCheck bool

	squares  [8][8]*Piece // indexed [y][x]
	timeline *Timeline
	game     *Game
}

func newBoard(g *Game, l, t int) *Board {
	return &Board{
		L:    l,
		T:    t,
		Turn: turnOn(l, t),
		game: g,
	}
}

// turnOn is the side to move on board (l, t): turn alternates with t and the
// main-line parity is anchored so white moves first on t=0 of l=0.
func turnOn(l, t int) Side {
	if (t+shared.SideOfTimeline(l).Index())%2 == 0 {
		return Black
	}
	return White
}

// PieceAt returns the occupant of (x,y), or nil when the square is empty or
// out of bounds. Out-of-bounds access never faults.
func (b *Board) PieceAt(x, y int) *Piece {
	if !shared.InBoard(x, y) {
		return nil
	}
	return b.squares[y][x]
}

func (b *Board) IsEmpty(x, y int) bool {
	return shared.InBoard(x, y) && b.squares[y][x] == nil
}

func (b *Board) IsEnemy(x, y int, side Side) bool {
	pc := b.PieceAt(x, y)
	return pc != nil && pc.Side != side
}

// Timeline returns the owning timeline. A clone carries its original's
// timeline until the move engine installs it; the result is nil only for a
// board that was never installed on a timeline.
func (b *Board) Timeline() *Timeline { return b.timeline }

func (b *Board) place(p *Piece) {
	p.board = b
	b.squares[p.Y][p.X] = p
}

func (b *Board) removeAt(x, y int) {
	if pc := b.PieceAt(x, y); pc != nil {
		pc.Removed = true
		b.squares[y][x] = nil
	}
}

// Clone deep-copies the board and every piece on it. The clone keeps the
// original's coordinates and flags but belongs to no timeline slot until
// the move engine installs it.
func (b *Board) Clone() *Board {
	c := &Board{
		L:             b.L,
		T:             b.T,
		Turn:          b.Turn,
		Active:        b.Active,
		Castling:      b.Castling,
		ImminentCheck: b.ImminentCheck,
		timeline:      b.timeline,
		game:          b.game,
	}
	if b.EnPassant != nil {
		ep := *b.EnPassant
		c.EnPassant = &ep
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if pc := b.squares[y][x]; pc != nil {
				c.squares[y][x] = pc.clone(c)
			}
		}
	}
	return c
}

// derive builds the successor snapshot at (l, t) from b: same position,
// en-passant window closed, side to move per the timeline parity rule.
// On same-timeline advances and null moves that is a plain turn flip; on a
// black-spawned branch the parity shifts so black opens the new timeline.
func (b *Board) derive(l, t int) *Board {
	c := b.Clone()
	c.L = l
	c.T = t
	c.Turn = turnOn(l, t)
	c.EnPassant = nil
	c.Active = true
	c.ImminentCheck = false
	return c
}

// destroy removes every piece and marks the snapshot deleted.
func (b *Board) destroy() {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if pc := b.squares[y][x]; pc != nil {
				pc.Removed = true
				b.squares[y][x] = nil
			}
		}
	}
	b.Active = false
	b.Deleted = true
}

// eachPiece calls fn for every piece on the board until fn returns false.
func (b *Board) eachPiece(fn func(*Piece) bool) {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if pc := b.squares[y][x]; pc != nil {
				if !fn(pc) {
					return
				}
			}
		}
	}
}

func (b *Board) findKing(side Side) *Piece {
	var king *Piece
	b.eachPiece(func(pc *Piece) bool {
		if pc.Side == side && pc.Type == King {
			king = pc
			return false
		}
		return true
	})
	return king
}
