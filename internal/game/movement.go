package game

import "multiverse_chess/internal/shared"

// Candidate enumeration. Every candidate targets the next turn of the
// requested timeline: Vec4{x, y, targetL, board.T+1}. Candidates are
// geometric only; the move engine and the check detector filter them.

type moveDelta struct {
	dx int
	dy int
}

var (
	rookDirections = [...]moveDelta{
		{dx: 1, dy: 0},
		{dx: -1, dy: 0},
		{dx: 0, dy: 1},
		{dx: 0, dy: -1},
	}
	bishopDirections = [...]moveDelta{
		{dx: 1, dy: 1},
		{dx: 1, dy: -1},
		{dx: -1, dy: 1},
		{dx: -1, dy: -1},
	}
	knightOffsets = [...]moveDelta{
		{dx: 1, dy: 2},
		{dx: 2, dy: 1},
		{dx: 2, dy: -1},
		{dx: 1, dy: -2},
		{dx: -1, dy: -2},
		{dx: -2, dy: -1},
		{dx: -2, dy: 1},
		{dx: -1, dy: 2},
	}
	kingOffsets = [...]moveDelta{
		{dx: 1, dy: 0}, {dx: 1, dy: 1}, {dx: 0, dy: 1}, {dx: -1, dy: 1},
		{dx: -1, dy: 0}, {dx: -1, dy: -1}, {dx: 0, dy: -1}, {dx: 1, dy: -1},
	}
)

// movesFor enumerates candidate targets for p, re-rooted onto timeline
// targetL. Castling is emitted only for same-timeline queries with
// withCastling set; attack queries pass false.
func movesFor(p *Piece, targetL int, withCastling bool) []Vec4 {
	if p == nil || p.Removed {
		return nil
	}
	switch p.Type {
	case Pawn:
		return pawnMoves(p, targetL)
	case Knight:
		return stepMoves(p, targetL, knightOffsets[:])
	case Bishop:
		return slidingMoves(p, targetL, bishopDirections[:])
	case Rook:
		return slidingMoves(p, targetL, rookDirections[:])
	case Queen:
		moves := slidingMoves(p, targetL, rookDirections[:])
		return append(moves, slidingMoves(p, targetL, bishopDirections[:])...)
	case King:
		moves := stepMoves(p, targetL, kingOffsets[:])
		if withCastling && targetL == p.board.L {
			moves = append(moves, castleTargets(p)...)
		}
		return moves
	default:
		return nil
	}
}

func candidate(b *Board, targetL, x, y int) Vec4 {
	return Vec4{X: x, Y: y, L: targetL, T: b.T + 1}
}

// slidingMoves ray-casts from the piece: a prefix of empty squares, then at
// most one enemy terminator. Blockers are read from the piece's own board
// regardless of targetL.
func slidingMoves(p *Piece, targetL int, directions []moveDelta) []Vec4 {
	b := p.board
	var moves []Vec4
	for _, d := range directions {
		x, y := p.X+d.dx, p.Y+d.dy
		for shared.InBoard(x, y) {
			occupant := b.PieceAt(x, y)
			if occupant == nil {
				moves = append(moves, candidate(b, targetL, x, y))
				x += d.dx
				y += d.dy
				continue
			}
			if occupant.Side != p.Side {
				moves = append(moves, candidate(b, targetL, x, y))
			}
			break
		}
	}
	return moves
}

func stepMoves(p *Piece, targetL int, offsets []moveDelta) []Vec4 {
	b := p.board
	var moves []Vec4
	for _, d := range offsets {
		x, y := p.X+d.dx, p.Y+d.dy
		if !shared.InBoard(x, y) {
			continue
		}
		occupant := b.PieceAt(x, y)
		if occupant == nil || occupant.Side != p.Side {
			moves = append(moves, candidate(b, targetL, x, y))
		}
	}
	return moves
}

func pawnMoves(p *Piece, targetL int) []Vec4 {
	b := p.board
	dir := forward(p.Side)
	var moves []Vec4

	if b.IsEmpty(p.X, p.Y+dir) {
		moves = append(moves, candidate(b, targetL, p.X, p.Y+dir))
		if !p.HasMoved && p.Y == pawnRank(p.Side) && b.IsEmpty(p.X, p.Y+2*dir) {
			moves = append(moves, candidate(b, targetL, p.X, p.Y+2*dir))
		}
	}

	for _, dx := range []int{-1, 1} {
		x, y := p.X+dx, p.Y+dir
		if !shared.InBoard(x, y) {
			continue
		}
		if b.IsEnemy(x, y, p.Side) {
			moves = append(moves, candidate(b, targetL, x, y))
			continue
		}
		// En passant: the board advertises the square the enemy pawn
		// passed over; a pawn adjacent on the same rank may capture onto it.
		if ep := b.EnPassant; ep != nil && ep.X == x && ep.Y == y {
			moves = append(moves, candidate(b, targetL, x, y))
		}
	}
	return moves
}

// castleTargets emits the kingside g-file and queenside c-file king targets
// when every precondition holds: untouched king on its home square,
// untouched rook on the matching corner, the gap empty, the king not
// currently in cross-timeline check, and no passed-through square attacked
// (simulated on a cloned board).
func castleTargets(p *Piece) []Vec4 {
	b := p.board
	g := b.game
	if g == nil || p.Type != King || p.HasMoved {
		return nil
	}
	if p.Side != b.Turn {
		return nil
	}
	rank := homeRank(p.Side)
	if p.X != 4 || p.Y != rank {
		return nil
	}
	if g.isKingInCheck(b, p.Side) {
		return nil
	}

	var moves []Vec4
	for _, cs := range []CastlingSide{CastleKingside, CastleQueenside} {
		if !b.Castling.HasSide(p.Side, cs) {
			continue
		}
		rookFile, destFile := 7, 6
		emptyFiles := []int{5, 6}
		if cs == CastleQueenside {
			rookFile, destFile = 0, 2
			emptyFiles = []int{1, 2, 3}
		}
		rook := b.PieceAt(rookFile, rank)
		if rook == nil || rook.Side != p.Side || rook.Type != Rook || rook.HasMoved {
			continue
		}
		blocked := false
		for _, f := range emptyFiles {
			if !b.IsEmpty(f, rank) {
				blocked = true
				break
			}
		}
		if blocked {
			continue
		}
		// The king may not pass through an attacked square. Each square on
		// the way, destination included, is tested by simulating the king
		// standing there.
		safe := true
		for _, f := range travelFiles(cs) {
			if g.wouldLeaveKingInCheck(p, Vec4{X: f, Y: rank, L: b.L, T: b.T + 1}) {
				safe = false
				break
			}
		}
		if !safe {
			continue
		}
		moves = append(moves, candidate(b, b.L, destFile, rank))
	}
	return moves
}

func travelFiles(cs CastlingSide) []int {
	if cs == CastleQueenside {
		return []int{3, 2}
	}
	return []int{5, 6}
}
