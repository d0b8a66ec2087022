package game

import (
	"math"
	"math/rand"
)

// Game owns the whole multiverse: every timeline, every board snapshot and
// every piece. All operations are synchronous and single-threaded; given
// the same options and move sequence the resulting state is byte-identical.
type Game struct {
	Turn    Side
	Present int

	Finished  bool
	Winner    int // 0 black, 1 white, -1 none/draw
	WinCause  int
	WinReason string

	Options      Options
	LocalPlayers [2]bool

	// negatives[i] holds timeline -(i+1); positives[i] holds timeline i.
	negatives []*Timeline
	positives []*Timeline

	// timelineCount tracks how many branches each side has spawned,
	// indexed by Side. The pair bounds the active range.
	timelineCount [2]int

	// moves buffers the current submit cycle, at most one per timeline.
	moves []*Move

	checks    []Vec4
	clock     Clock
	listeners []func()
	rng       *rand.Rand
}

// NewGame builds the starting multiverse: the main timeline with an
// inactive placeholder at t=-1 and the variant's initial board at t=0.
func NewGame(opts Options, localPlayers [2]bool) *Game {
	opts = opts.withDefaults()
	g := &Game{
		Turn:         White,
		Winner:       opts.Winner,
		WinCause:     opts.WinCause,
		WinReason:    opts.WinReason,
		Finished:     opts.Finished,
		Options:      opts,
		LocalPlayers: localPlayers,
		rng:          rand.New(rand.NewSource(opts.Seed)),
	}

	main := newTimeline(g, 0, -1)
	initial := newBoard(g, 0, 0)
	setupVariant(g, initial, opts.Variant)
	initial.Active = true

	// The t=-1 placeholder mirrors the initial position so branching logic
	// never sees a hole before the first turn.
	placeholder := initial.Clone()
	placeholder.T = -1
	placeholder.Turn = turnOn(0, -1)
	placeholder.Active = false

	main.append(placeholder)
	main.append(initial)

	g.positives = []*Timeline{main}
	g.updateActiveRange()
	g.recomputePresent()
	g.recomputeChecks()
	return g
}

// SetClock attaches the external clock collaborator. The engine only calls
// it around Submit; time control policy lives outside the core.
func (g *Game) SetClock(c Clock) { g.clock = c }

// AddListener registers a change notification. Listeners must not mutate
// the game synchronously.
func (g *Game) AddListener(fn func()) { g.listeners = append(g.listeners, fn) }

func (g *Game) notify() {
	for _, fn := range g.listeners {
		fn()
	}
}

// TimelineFor returns the timeline with index l, nil if it was never
// spawned.
func (g *Game) TimelineFor(l int) *Timeline {
	if l >= 0 {
		if l < len(g.positives) {
			return g.positives[l]
		}
		return nil
	}
	idx := -l - 1
	if idx < len(g.negatives) {
		return g.negatives[idx]
	}
	return nil
}

// TimelineCounts returns (black-spawned, white-spawned) branch counts.
func (g *Game) TimelineCounts() (neg, pos int) {
	return g.timelineCount[Black.Index()], g.timelineCount[White.Index()]
}

func (g *Game) addTimeline(tl *Timeline) {
	if tl.L >= 0 {
		g.positives = append(g.positives, tl)
	} else {
		g.negatives = append(g.negatives, tl)
	}
}

func (g *Game) removeTimeline(tl *Timeline) {
	if tl.L >= 0 {
		if len(g.positives) > 0 && g.positives[len(g.positives)-1] == tl {
			g.positives = g.positives[:len(g.positives)-1]
		}
	} else {
		if len(g.negatives) > 0 && g.negatives[len(g.negatives)-1] == tl {
			g.negatives = g.negatives[:len(g.negatives)-1]
		}
	}
}

// eachTimeline visits every timeline, main line and positives first, until
// fn returns false.
func (g *Game) eachTimeline(fn func(*Timeline) bool) {
	for _, tl := range g.positives {
		if !fn(tl) {
			return
		}
	}
	for _, tl := range g.negatives {
		if !fn(tl) {
			return
		}
	}
}

// updateActiveRange recomputes which timelines are active: those within the
// symmetric range |l| <= min(neg, pos)+1. Inactive timelines exist but do
// not project attacks or bound the present.
func (g *Game) updateActiveRange() {
	neg, pos := g.TimelineCounts()
	limit := neg
	if pos < neg {
		limit = pos
	}
	limit++
	g.eachTimeline(func(tl *Timeline) bool {
		tl.Active = abs(tl.L) <= limit
		return true
	})
}

// recomputePresent sets Present to the minimum end over active timelines,
// clamped to zero.
func (g *Game) recomputePresent() {
	min := math.MaxInt
	g.eachTimeline(func(tl *Timeline) bool {
		if tl.Active && tl.End < min {
			min = tl.End
		}
		return true
	})
	if min == math.MaxInt || min < 0 {
		min = 0
	}
	g.Present = min
}

// PieceAt resolves the piece standing on pos, nil when the board or square
// is empty. Piece pointers are only stable within a submit cycle; resolve
// by position at command time.
func (g *Game) PieceAt(pos Vec4) *Piece {
	tl := g.TimelineFor(pos.L)
	if tl == nil {
		return nil
	}
	b := tl.BoardAt(pos.T)
	if b == nil {
		return nil
	}
	return b.PieceAt(pos.X, pos.Y)
}

// CurrentTurnMoves returns the moves buffered in this submit cycle.
func (g *Game) CurrentTurnMoves() []*Move {
	out := make([]*Move, len(g.moves))
	copy(out, g.moves)
	return out
}

func (g *Game) moveForTimeline(l int) *Move {
	for _, mv := range g.moves {
		if mv.Kind == MoveNull {
			if mv.NullL == l {
				return mv
			}
			continue
		}
		if mv.From.L == l {
			return mv
		}
	}
	return nil
}

// LegalMovesFor enumerates every legal target for p across all timelines:
// Movement candidates, resolvable onto an existing or appendable board,
// filtered by cross-timeline self-check.
func (g *Game) LegalMovesFor(p *Piece) []Vec4 {
	if p == nil || p.Removed || p.board == nil || p.board.timeline == nil {
		return nil
	}
	var out []Vec4
	g.eachTimeline(func(tl *Timeline) bool {
		for _, cand := range movesFor(p, tl.L, tl.L == p.board.L) {
			if !g.targetResolvable(p, cand) {
				continue
			}
			if g.wouldLeaveKingInCheck(p, cand) {
				continue
			}
			out = append(out, cand)
		}
		return true
	})
	return out
}

// targetResolvable checks that cand lands on a real destination: a fresh
// successor slot on the piece's own timeline, an existing snapshot on
// another, and never a square held by a friendly piece.
func (g *Game) targetResolvable(p *Piece, cand Vec4) bool {
	tl := g.TimelineFor(cand.L)
	if tl == nil {
		return false
	}
	tb := tl.BoardAt(cand.T)
	if tb == nil {
		return cand.L == p.board.L && cand.T == tl.End+1
	}
	if tb.Active {
		if occ := tb.PieceAt(cand.X, cand.Y); occ != nil && occ.Side == p.Side {
			return false
		}
	}
	return true
}

// MakeMove validates and executes a move for p onto target. promo selects
// the promotion piece when a pawn reaches the last rank; nil defaults to
// queen. Returns false for any rejected input.
func (g *Game) MakeMove(p *Piece, target Vec4, promo *PieceType) bool {
	return g.TryMakeMove(p, target, promo) == nil
}

// TryMakeMove is MakeMove with the rejection reason.
func (g *Game) TryMakeMove(p *Piece, target Vec4, promo *PieceType) error {
	if g.Finished {
		return ErrGameFinished
	}
	if p == nil || p.Removed || p.board == nil {
		return ErrIllegalMove
	}
	if p.Side != g.Turn || p.board.Turn != p.Side {
		return ErrNotYourTurn
	}
	if !target.Valid() {
		return ErrIllegalMove
	}
	if g.moveForTimeline(p.board.L) != nil {
		return ErrMoveAlreadyMade
	}
	if !g.candidateAllows(p, target) {
		return ErrIllegalMove
	}
	if g.wouldLeaveKingInCheck(p, target) {
		return ErrLeavesCheck
	}

	var promoType PieceType
	hasPromo := promo != nil
	if hasPromo {
		promoType = *promo
	}
	mv, err := g.buildMove(p, target, promoType, hasPromo)
	if err != nil {
		return err
	}
	g.moves = append(g.moves, mv)
	g.recomputePresent()
	g.recomputeChecks()
	g.notify()
	return nil
}

func (g *Game) candidateAllows(p *Piece, target Vec4) bool {
	for _, cand := range movesFor(p, target.L, target.L == p.board.L) {
		if cand == target {
			return g.targetResolvable(p, cand)
		}
	}
	return false
}

// Undo pops the last move of the current cycle and restores the state that
// preceded it. Returns false when the cycle is empty; moves committed by
// Submit are beyond undo.
func (g *Game) Undo() bool {
	if g.Finished || len(g.moves) == 0 {
		return false
	}
	mv := g.moves[len(g.moves)-1]
	g.moves = g.moves[:len(g.moves)-1]
	mv.undo(g)
	g.recomputePresent()
	g.recomputeChecks()
	g.notify()
	return true
}

// SubmitResult reports the outcome of a Submit call.
type SubmitResult struct {
	Submitted     bool  `json:"submitted"`
	ElapsedTime   int64 `json:"elapsedTime,omitempty"`
	TimeGainedCap int   `json:"timeGainedCap,omitempty"`
}

// Submit commits the current cycle: every active timeline owed a move by
// the side to move is padded with a null move, the buffer is cleared, the
// turn flips and the opponent is tested for checkmate or stalemate.
// Submission is the commit point; buffered moves can no longer be undone.
func (g *Game) Submit() SubmitResult {
	if g.Finished {
		return SubmitResult{}
	}
	ready := true
	g.eachTimeline(func(tl *Timeline) bool {
		if tl.Active && tl.End < g.Present {
			ready = false
			return false
		}
		return true
	})
	if !ready {
		return SubmitResult{}
	}

	g.eachTimeline(func(tl *Timeline) bool {
		if !tl.Active {
			return true
		}
		cur := tl.Current()
		if cur != nil && cur.Turn == g.Turn && g.moveForTimeline(tl.L) == nil {
			g.applyNullMove(tl)
		}
		return true
	})

	g.moves = g.moves[:0]
	g.recomputePresent()
	g.Turn = g.Turn.Opposite()
	g.recomputeChecks()

	result := SubmitResult{Submitted: true}
	if g.clock != nil {
		result.ElapsedTime = g.clock.StopTime()
		if t := g.Options.Time; t != nil && t.RunningClocks {
			result.TimeGainedCap = t.RunningClockTime
			g.clock.StartTime(t.RunningClockGraceTime, 0)
		} else {
			g.clock.StartTime(0, 0)
		}
	}

	if !g.HasLegalMoves() {
		g.Finished = true
		if g.turnKingInCheck() {
			g.Winner = g.Turn.Opposite().Index()
			g.WinCause = WinCauseMate
			g.WinReason = WinReasonCheckmate
		} else {
			g.Winner = WinnerNone
			g.WinCause = WinCauseMate
			g.WinReason = WinReasonStalemate
		}
	}
	g.notify()
	return result
}

// Resign ends the game in favor of side's opponent.
func (g *Game) Resign(side Side) {
	if g.Finished {
		return
	}
	g.Finished = true
	g.Winner = side.Opposite().Index()
	g.WinCause = WinCauseFlag
	g.WinReason = WinReasonResign
	g.notify()
}

// turnKingInCheck reports whether any active head owes the side to move a
// king rescue.
func (g *Game) turnKingInCheck() bool {
	inCheck := false
	g.eachTimeline(func(tl *Timeline) bool {
		if !tl.Active {
			return true
		}
		cur := tl.Current()
		if cur == nil || cur.Turn != g.Turn {
			return true
		}
		if g.isKingInCheck(cur, g.Turn) {
			inCheck = true
			return false
		}
		return true
	})
	return inCheck
}

// HasLegalMoves reports whether the side to move has any legal move on any
// active timeline head.
func (g *Game) HasLegalMoves() bool {
	found := false
	g.eachTimeline(func(tl *Timeline) bool {
		if !tl.Active {
			return true
		}
		cur := tl.Current()
		if cur == nil || cur.Turn != g.Turn {
			return true
		}
		cur.eachPiece(func(pc *Piece) bool {
			if pc.Side != g.Turn {
				return true
			}
			if len(g.LegalMovesFor(pc)) > 0 {
				found = true
				return false
			}
			return true
		})
		return !found
	})
	return found
}

// IsCheckmate reports whether the side to move has no legal move while in
// check.
func (g *Game) IsCheckmate() bool { return !g.HasLegalMoves() && g.turnKingInCheck() }

// IsStalemate reports whether the side to move has no legal move and no
// check to answer.
func (g *Game) IsStalemate() bool { return !g.HasLegalMoves() && !g.turnKingInCheck() }
