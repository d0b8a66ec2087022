package game

import (
	"reflect"
	"testing"
)

// interdimFixture: the main line padded two turns ahead, a white-spawned
// branch one behind, heads cleared. Black to move from the branch head onto
// the main head.
func interdimFixture(t *testing.T) (g *Game, main, branch *Timeline) {
	t.Helper()
	g = newStandardGame()
	main = g.TimelineFor(0)

	branch = newTimeline(g, 1, 1)
	branch.append(main.BoardAt(0).derive(1, 1))
	g.addTimeline(branch)
	g.timelineCount[White.Index()] = 1
	g.updateActiveRange()

	g.applyNullMove(main) // t=1
	g.applyNullMove(main) // t=2
	g.recomputePresent()

	clearBoard(main.Current())
	clearBoard(branch.Current())
	g.Turn = Black
	return g, main, branch
}

func TestInterDimensionalMoveAndUndo(t *testing.T) {
	g, main, branch := interdimFixture(t)
	rook := put(branch.Current(), Black, Rook, 0, 0)
	put(branch.Current(), Black, King, 7, 0)
	put(main.Current(), White, King, 7, 7)
	g.recomputeChecks()
	before := g.Snapshot()

	if err := g.TryMakeMove(rook, pos(0, 4, 0, 2), nil); err != nil {
		t.Fatalf("inter-dimensional move: %v", err)
	}

	mv := g.CurrentTurnMoves()[0]
	if !mv.InterDim {
		t.Fatalf("expected the move marked inter-dimensional")
	}
	if len(mv.UsedBoards()) != 2 || len(mv.CreatedBoards()) != 2 {
		t.Fatalf("expected two used and two created boards, got %d/%d",
			len(mv.UsedBoards()), len(mv.CreatedBoards()))
	}
	for _, used := range mv.UsedBoards() {
		if used.Active {
			t.Fatalf("used board L%d T%d still active", used.L, used.T)
		}
	}

	arrived := main.BoardAt(2).PieceAt(0, 4)
	if arrived == nil || arrived.Type != Rook || arrived.Side != Black {
		t.Fatalf("expected black rook on the main head, got %v", arrived)
	}
	if !arrived.HasMoved {
		t.Fatalf("expected arrived piece marked moved")
	}
	if pc := branch.Current().PieceAt(0, 0); pc != nil {
		t.Fatalf("expected rook lifted off the branch head, got %v", pc)
	}
	if branch.End != 1 || main.End != 2 {
		t.Fatalf("inter-dimensional move must not grow timelines: branch end %d, main end %d",
			branch.End, main.End)
	}

	if !g.Undo() {
		t.Fatalf("undo rejected")
	}
	if pc := branch.Current().PieceAt(0, 0); pc == nil || pc.Type != Rook {
		t.Fatalf("expected rook restored on the branch head")
	}
	if pc := main.BoardAt(2).PieceAt(0, 4); pc != nil {
		t.Fatalf("expected main head clean after undo, got %v", pc)
	}
	after := g.Snapshot()
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("undo did not restore the pre-move state")
	}
}

func TestInterDimensionalCapture(t *testing.T) {
	g, main, branch := interdimFixture(t)
	rook := put(branch.Current(), Black, Rook, 0, 0)
	put(branch.Current(), Black, King, 7, 0)
	put(main.Current(), White, King, 7, 7)
	put(main.Current(), White, Knight, 0, 4)

	if err := g.TryMakeMove(rook, pos(0, 4, 0, 2), nil); err != nil {
		t.Fatalf("inter-dimensional capture: %v", err)
	}
	arrived := main.BoardAt(2).PieceAt(0, 4)
	if arrived == nil || arrived.Side != Black || arrived.Type != Rook {
		t.Fatalf("expected black rook on the capture square, got %v", arrived)
	}
	knights := 0
	main.BoardAt(2).eachPiece(func(pc *Piece) bool {
		if pc.Side == White && pc.Type == Knight {
			knights++
		}
		return true
	})
	if knights != 0 {
		t.Fatalf("expected the white knight captured on the target clone")
	}
}

func TestInterDimensionalMoveOntoFriendlyIsRejected(t *testing.T) {
	g, main, branch := interdimFixture(t)
	rook := put(branch.Current(), Black, Rook, 0, 0)
	put(branch.Current(), Black, King, 7, 0)
	put(main.Current(), White, King, 7, 7)
	put(main.Current(), Black, Pawn, 0, 4)

	if err := g.TryMakeMove(rook, pos(0, 4, 0, 2), nil); err == nil {
		t.Fatalf("expected rejection when landing on a friendly piece")
	}
}

func TestNullMoveBookkeeping(t *testing.T) {
	g := newStandardGame()
	main := g.TimelineFor(0)
	prev := main.Current()

	mv := g.applyNullMove(main)
	if mv.Kind != MoveNull || mv.NullL != 0 {
		t.Fatalf("null move record wrong: kind=%d l=%d", mv.Kind, mv.NullL)
	}
	if prev.Active {
		t.Fatalf("expected previous head deactivated")
	}
	if main.End != 1 {
		t.Fatalf("expected head advanced to t=1, got %d", main.End)
	}

	mv.undo(g)
	if main.End != 0 || !prev.Active {
		t.Fatalf("null move undo failed: end=%d active=%v", main.End, prev.Active)
	}
}

func TestBlackBranchGetsNegativeIndex(t *testing.T) {
	g := newStandardGame()
	// Three half-moves so black owns an inactive past board whose successor
	// slot is also historical.
	mustMove(t, g, pos(4, 6, 0, 0), pos(4, 4, 0, 1))
	mustSubmit(t, g)
	mustMove(t, g, pos(4, 1, 0, 1), pos(4, 3, 0, 2))
	mustSubmit(t, g)
	mustMove(t, g, pos(6, 7, 0, 2), pos(5, 5, 0, 3))
	mustSubmit(t, g)

	// Black replays its past: the b8 knight moves on the inactive t=1 board.
	blackKnight := mustPiece(t, g, pos(1, 0, 0, 1))
	if err := g.TryMakeMove(blackKnight, pos(2, 2, 0, 2), nil); err != nil {
		t.Fatalf("black branch: %v", err)
	}
	tl := g.TimelineFor(-1)
	if tl == nil {
		t.Fatalf("expected timeline -1")
	}
	if tl.Start != 2 || tl.End != 2 {
		t.Fatalf("expected black branch rooted at t=2, got start=%d end=%d", tl.Start, tl.End)
	}
	neg, posCount := g.TimelineCounts()
	if neg != 1 || posCount != 0 {
		t.Fatalf("expected counts (1,0), got (%d,%d)", neg, posCount)
	}
	if !tl.Active {
		t.Fatalf("expected the fresh branch active")
	}
	if pc := tl.Current().PieceAt(2, 2); pc == nil || pc.Type != Knight || pc.Side != Black {
		t.Fatalf("expected branched knight on (2,2), got %v", pc)
	}
	// Parity on black-spawned timelines keeps black on move at even t.
	if got := tl.Current().Turn; got != Black {
		t.Fatalf("expected black to move on the fresh black branch, got %s", got)
	}
}
