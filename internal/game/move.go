package game

import (
	"fmt"

	"multiverse_chess/internal/shared"
)

type MoveKind uint8

const (
	MoveRegular MoveKind = iota
	MoveNull
)

// usedBoard pairs a snapshot consumed by a move with the active flag it
// carried before, so undo can restore it exactly.
type usedBoard struct {
	board     *Board
	wasActive bool
}

// Move records one executed move: the piece and endpoints, the snapshots it
// consumed and created, and the timeline it spawned, if any. Null moves are
// the padding variant synthesized at submit; they carry only the timeline
// index.
type Move struct {
	Kind         MoveKind
	From, To     Vec4
	Piece        *Piece
	Promotion    PieceType
	HasPromotion bool
	InterDim     bool
	Remote       bool
	NullL        int

	used        []usedBoard
	created     []*Board
	newTimeline *Timeline
}

// UsedBoards lists the snapshots this move deactivated.
func (m *Move) UsedBoards() []*Board {
	out := make([]*Board, len(m.used))
	for i, u := range m.used {
		out[i] = u.board
	}
	return out
}

// CreatedBoards lists the snapshots this move appended or installed.
func (m *Move) CreatedBoards() []*Board {
	out := make([]*Board, len(m.created))
	copy(out, m.created)
	return out
}

// buildMove classifies the requested move against the target timeline's
// state, clones the snapshots it touches, applies the mutation and installs
// the results. Three shapes exist:
//
//  1. advance: the target slot does not exist yet; the piece's own timeline
//     grows a successor board carrying the move.
//  2. inter-dimensional: the target board exists and is a live timeline
//     head; source and target are cloned in place and the piece transfers.
//  3. branch: the target board exists but is historical; an alternate
//     successor of the source snapshot seeds a fresh timeline.
func (g *Game) buildMove(p *Piece, target Vec4, promo PieceType, hasPromo bool) (*Move, error) {
	src := p.board
	srcTL := src.timeline
	if srcTL == nil {
		return nil, fmt.Errorf("%w: piece board is not on a timeline", ErrStateCorrupt)
	}

	mv := &Move{
		Kind:         MoveRegular,
		From:         p.Pos(),
		To:           target,
		Piece:        p,
		Promotion:    promo,
		HasPromotion: hasPromo,
	}

	targetTL := g.TimelineFor(target.L)
	if targetTL == nil {
		return nil, fmt.Errorf("%w: timeline %d", ErrBoardNotFound, target.L)
	}
	tb := targetTL.BoardAt(target.T)

	switch {
	case tb == nil:
		if target.L != src.L || target.T != srcTL.End+1 {
			return nil, fmt.Errorf("%w: no board at L%d T%d", ErrBoardNotFound, target.L, target.T)
		}
		srcClone := src.Clone()
		srcClone.Active = false
		next := src.derive(src.L, src.T+1)
		if err := applyOnDerived(next, p.Pos(), target, src, promo, hasPromo); err != nil {
			return nil, err
		}
		srcTL.replace(src.T, srcClone)
		src.Active = false
		srcTL.append(next)
		mv.used = []usedBoard{{src, true}}
		mv.created = []*Board{srcClone, next}

	case tb.Active:
		if occ := tb.PieceAt(target.X, target.Y); occ != nil && occ.Side == p.Side {
			return nil, ErrIllegalMove
		}
		srcClone := src.Clone()
		tbClone := tb.Clone()
		if err := transferPiece(srcClone, tbClone, p.Pos(), target, promo, hasPromo); err != nil {
			return nil, err
		}
		srcTL.replace(src.T, srcClone)
		targetTL.replace(tb.T, tbClone)
		srcWasActive := src.Active
		tbWasActive := tb.Active
		src.Active = false
		tb.Active = false
		mv.InterDim = true
		mv.used = []usedBoard{{src, srcWasActive}, {tb, tbWasActive}}
		mv.created = []*Board{srcClone, tbClone}

	default:
		side := p.Side
		newL := g.timelineCount[White.Index()] + 1
		if side == Black {
			newL = -(g.timelineCount[Black.Index()] + 1)
		}
		srcClone := src.Clone()
		branch := src.derive(newL, src.T+1)
		if err := applyOnDerived(branch, p.Pos(), target, src, promo, hasPromo); err != nil {
			return nil, err
		}
		srcTL.replace(src.T, srcClone)
		srcWasActive := src.Active
		src.Active = false
		branchTL := newTimeline(g, newL, branch.T)
		branchTL.append(branch)
		g.addTimeline(branchTL)
		g.timelineCount[side.Index()]++
		g.updateActiveRange()
		mv.InterDim = true
		mv.used = []usedBoard{{src, srcWasActive}}
		mv.created = []*Board{srcClone, branch}
		mv.newTimeline = branchTL
	}

	return mv, nil
}

// applyOnDerived applies the piece mutation on a board derived from the
// source snapshot: the mover is still standing on its from-square. Handles
// capture, castling rook relocation, en passant, promotion, castling-rights
// decay and the en-passant window of a double push. src is the snapshot the
// board was derived from; its en-passant state decides en-passant capture.
func applyOnDerived(b *Board, from, to Vec4, src *Board, promo PieceType, hasPromo bool) error {
	mover := b.PieceAt(from.X, from.Y)
	if mover == nil {
		return fmt.Errorf("%w: mover missing at %s", ErrStateCorrupt, from)
	}

	if mover.Type == King && from.X == 4 && to.Y == from.Y && abs(to.X-from.X) == 2 {
		relocateCastlingRook(b, mover.Side, to.X)
	}

	if mover.Type == Pawn && from.X != to.X && b.IsEmpty(to.X, to.Y) {
		if ep := src.EnPassant; ep != nil && ep.X == to.X && ep.Y == to.Y {
			b.removeAt(to.X, from.Y)
		}
	}

	captureRights(b, to)
	b.removeAt(to.X, to.Y)

	b.squares[from.Y][from.X] = nil
	mover.X, mover.Y = to.X, to.Y
	b.place(mover)
	mover.HasMoved = true
	departureRights(b, mover, from)

	if mover.Type == Pawn && to.Y == promotionRank(mover.Side) {
		mover.Type = promotionType(promo, hasPromo)
	}

	if mover.Type == Pawn && abs(to.Y-from.Y) == 2 {
		b.EnPassant = &Vec4{X: to.X, Y: (from.Y + to.Y) / 2, L: b.L, T: b.T}
	} else {
		b.EnPassant = nil
	}
	return nil
}

// transferPiece lifts the mover off the source clone and lands a copy on
// the target clone, for inter-dimensional moves. Castling and en passant do
// not cross boards; promotion still applies on arrival.
func transferPiece(srcClone, dst *Board, from, to Vec4, promo PieceType, hasPromo bool) error {
	mover := srcClone.PieceAt(from.X, from.Y)
	if mover == nil {
		return fmt.Errorf("%w: mover missing at %s", ErrStateCorrupt, from)
	}
	srcClone.squares[from.Y][from.X] = nil
	departureRights(srcClone, mover, from)

	captureRights(dst, to)
	dst.removeAt(to.X, to.Y)

	arrived := mover.clone(dst)
	arrived.X, arrived.Y = to.X, to.Y
	arrived.HasMoved = true
	if arrived.Type == Pawn && to.Y == promotionRank(arrived.Side) {
		arrived.Type = promotionType(promo, hasPromo)
	}
	dst.place(arrived)

	mover.Removed = true
	return nil
}

func promotionType(promo PieceType, hasPromo bool) PieceType {
	if !hasPromo {
		return Queen
	}
	switch promo {
	case Queen, Knight, Rook, Bishop:
		return promo
	default:
		return Queen
	}
}

func relocateCastlingRook(b *Board, side Side, kingToX int) {
	rank := homeRank(side)
	rookFrom, rookTo := 7, 5
	if kingToX == 2 {
		rookFrom, rookTo = 0, 3
	}
	rook := b.PieceAt(rookFrom, rank)
	if rook == nil || rook.Type != Rook || rook.Side != side {
		return
	}
	b.squares[rank][rookFrom] = nil
	rook.X = rookTo
	b.place(rook)
	rook.HasMoved = true
}

// departureRights decays castling rights when a king or a home-corner rook
// leaves its square on b.
func departureRights(b *Board, mover *Piece, from Vec4) {
	switch mover.Type {
	case King:
		b.Castling = b.Castling.WithoutSide(mover.Side)
	case Rook:
		if from.Y != homeRank(mover.Side) {
			return
		}
		if from.X == 0 {
			b.Castling = b.Castling.Without(shared.CastlingRight(mover.Side, CastleQueenside))
		} else if from.X == 7 {
			b.Castling = b.Castling.Without(shared.CastlingRight(mover.Side, CastleKingside))
		}
	}
}

// captureRights decays the defender's castling rights when a home-corner
// rook is about to be captured on b.
func captureRights(b *Board, to Vec4) {
	victim := b.PieceAt(to.X, to.Y)
	if victim == nil || victim.Type != Rook {
		return
	}
	if to.Y != homeRank(victim.Side) {
		return
	}
	if to.X == 0 {
		b.Castling = b.Castling.Without(shared.CastlingRight(victim.Side, CastleQueenside))
	} else if to.X == 7 {
		b.Castling = b.Castling.Without(shared.CastlingRight(victim.Side, CastleKingside))
	}
}

// applyNullMove advances a timeline one turn without relocating a piece.
func (g *Game) applyNullMove(tl *Timeline) *Move {
	cur := tl.Current()
	next := cur.derive(tl.L, cur.T+1)
	wasActive := cur.Active
	cur.Active = false
	tl.append(next)
	return &Move{
		Kind:    MoveNull,
		NullL:   tl.L,
		used:    []usedBoard{{cur, wasActive}},
		created: []*Board{next},
	}
}

// undo reverses the move: created snapshots leave their slots and die, used
// snapshots return with their previous active flag, and a spawned timeline
// is dissolved once it is empty.
func (m *Move) undo(g *Game) {
	for i := len(m.created) - 1; i >= 0; i-- {
		b := m.created[i]
		if tl := b.timeline; tl != nil {
			tl.remove(b.T)
		}
		b.destroy()
	}
	for _, u := range m.used {
		if tl := u.board.timeline; tl != nil {
			tl.restore(u.board)
		}
		u.board.Active = u.wasActive
	}
	if m.newTimeline != nil && m.newTimeline.empty() {
		side := shared.SideOfTimeline(m.newTimeline.L)
		g.removeTimeline(m.newTimeline)
		if g.timelineCount[side.Index()] > 0 {
			g.timelineCount[side.Index()]--
		}
		g.updateActiveRange()
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
