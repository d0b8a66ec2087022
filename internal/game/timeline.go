package game

// Timeline is an append-only sequence of board snapshots sharing one
// timeline index L. Boards is indexed by t - Start; slots may be nil only
// transiently while an undo is unwinding.
type Timeline struct {
	L      int
	Start  int
	End    int
	Active bool

	boards []*Board
	game   *Game
}

func newTimeline(g *Game, l, start int) *Timeline {
	return &Timeline{L: l, Start: start, End: start - 1, game: g}
}

// BoardAt returns the snapshot at turn t, nil when t is outside [Start,End]
// or the slot was popped by undo.
func (tl *Timeline) BoardAt(t int) *Board {
	if t < tl.Start || t > tl.End {
		return nil
	}
	return tl.boards[t-tl.Start]
}

// Current is the snapshot at End; it is the board the timeline plays from.
func (tl *Timeline) Current() *Board { return tl.BoardAt(tl.End) }

// Len reports the number of turn slots, including popped ones.
func (tl *Timeline) Len() int { return len(tl.boards) }

// append installs b as the new head; b.T must be End+1.
func (tl *Timeline) append(b *Board) {
	b.timeline = tl
	tl.boards = append(tl.boards, b)
	tl.End = b.T
}

// replace swaps the snapshot in slot t for b, returning the displaced
// snapshot. Used by the move engine's clone-in-place step.
func (tl *Timeline) replace(t int, b *Board) *Board {
	old := tl.boards[t-tl.Start]
	b.timeline = tl
	tl.boards[t-tl.Start] = b
	return old
}

// remove pops the snapshot at turn t. Removing the head shrinks End to the
// last remaining slot; removing an interior slot leaves it nil for the
// paired restore step of an undo.
func (tl *Timeline) remove(t int) {
	if t < tl.Start || t > tl.End {
		return
	}
	tl.boards[t-tl.Start] = nil
	if t == tl.End {
		tl.boards = tl.boards[:len(tl.boards)-1]
		tl.End--
		for tl.End >= tl.Start && tl.boards[tl.End-tl.Start] == nil {
			tl.boards = tl.boards[:len(tl.boards)-1]
			tl.End--
		}
	}
}

// restore places b back into its slot after an undo removed the boards
// derived from it.
func (tl *Timeline) restore(b *Board) {
	idx := b.T - tl.Start
	for len(tl.boards) <= idx {
		tl.boards = append(tl.boards, nil)
	}
	b.timeline = tl
	tl.boards[idx] = b
	if b.T > tl.End {
		tl.End = b.T
	}
}

// empty reports whether every slot has been popped, which happens when the
// branch move that spawned this timeline is undone.
func (tl *Timeline) empty() bool {
	for _, b := range tl.boards {
		if b != nil {
			return false
		}
	}
	return true
}
