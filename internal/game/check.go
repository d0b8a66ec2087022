package game

// Check detection. Two layers: a single-board attack scan, and a
// cross-timeline scan over the current boards of every active timeline.
// Attack queries ignore self-check: a pinned piece still gives check.

// isSquareAttackedOn reports whether any piece of side attacker on b can
// reach (x, y) on b itself.
func isSquareAttackedOn(b *Board, x, y int, attacker Side) bool {
	hit := false
	b.eachPiece(func(pc *Piece) bool {
		if pc.Side != attacker {
			return true
		}
		for _, cand := range movesFor(pc, b.L, false) {
			if cand.X == x && cand.Y == y {
				hit = true
				return false
			}
		}
		return true
	})
	return hit
}

// isSquareAttackedCross reports whether pos on target is attacked by side
// attacker from the current board of any active timeline. A current board
// projects threats only when its side to move matches the target board's:
// those are the boards whose opponent has just moved, so their pieces are
// the ones free to strike into the present.
func (g *Game) isSquareAttackedCross(pos Vec4, attacker Side, target *Board) bool {
	found := false
	g.eachTimeline(func(tl *Timeline) bool {
		if !tl.Active {
			return true
		}
		cur := tl.Current()
		if cur == nil {
			return true
		}
		if cur.Turn != target.Turn && cur != target {
			return true
		}
		cur.eachPiece(func(pc *Piece) bool {
			if pc.Side != attacker {
				return true
			}
			for _, cand := range movesFor(pc, pos.L, false) {
				if cand.X == pos.X && cand.Y == pos.Y && cand.L == pos.L {
					found = true
					return false
				}
			}
			return true
		})
		return !found
	})
	return found
}

// isKingInCheck reports whether side's king on b is attacked, either on b
// itself or from another timeline.
func (g *Game) isKingInCheck(b *Board, side Side) bool {
	king := b.findKing(side)
	if king == nil {
		return false
	}
	if isSquareAttackedOn(b, king.X, king.Y, side.Opposite()) {
		return true
	}
	return g.isSquareAttackedCross(Vec4{X: king.X, Y: king.Y, L: b.L, T: b.T}, side.Opposite(), b)
}

// wouldLeaveKingInCheck simulates the bare geometry of moving p to target
// on a clone of its board and asks whether the mover's king is then
// attacked. Promotion, castling rook relocation and en-passant removal are
// deliberately ignored: the occupied squares are what decide check on that
// board, and the other timelines' current boards are untouched by a move
// that has not been applied yet. The clone is swapped into the source slot
// for the duration of the query so the cross-timeline scan sees the moved
// position instead of the stale original.
func (g *Game) wouldLeaveKingInCheck(p *Piece, target Vec4) bool {
	if p == nil || p.board == nil {
		return true
	}
	src := p.board
	clone := src.Clone()
	clone.removeAt(target.X, target.Y)
	mover := clone.PieceAt(p.X, p.Y)
	if mover == nil {
		return true
	}
	clone.squares[p.Y][p.X] = nil
	mover.X, mover.Y = target.X, target.Y
	clone.place(mover)

	tl := src.timeline
	swapped := false
	if tl != nil && tl.BoardAt(src.T) == src {
		tl.replace(src.T, clone)
		swapped = true
	}
	inCheck := g.isKingInCheck(clone, p.Side)
	if swapped {
		tl.replace(src.T, src)
	}
	return inCheck
}

// recomputeChecks refreshes the displayed-check list and the per-board
// imminent-check flag across all active timeline heads.
func (g *Game) recomputeChecks() {
	g.checks = g.checks[:0]
	g.eachTimeline(func(tl *Timeline) bool {
		if !tl.Active {
			return true
		}
		cur := tl.Current()
		if cur == nil {
			return true
		}
		cur.ImminentCheck = false
		for _, side := range []Side{Black, White} {
			king := cur.findKing(side)
			if king == nil {
				continue
			}
			if g.isKingInCheck(cur, side) {
				g.checks = append(g.checks, king.Pos())
				if side == cur.Turn {
					cur.ImminentCheck = true
				}
			}
		}
		return true
	})
}

// DisplayedChecks lists the positions of kings currently in check on
// active timeline heads.
func (g *Game) DisplayedChecks() []Vec4 {
	out := make([]Vec4, len(g.checks))
	copy(out, g.checks)
	return out
}
