package game

import (
	"sort"
	"testing"
)

func squaresOf(moves []Vec4) [][2]int {
	out := make([][2]int, 0, len(moves))
	for _, mv := range moves {
		out = append(out, [2]int{mv.X, mv.Y})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}

func TestKnightCandidateSet(t *testing.T) {
	tests := []struct {
		name string
		x, y int
		want [][2]int
	}{
		{
			name: "center",
			x:    3, y: 3,
			want: [][2]int{{1, 2}, {1, 4}, {2, 1}, {2, 5}, {4, 1}, {4, 5}, {5, 2}, {5, 4}},
		},
		{
			name: "corner",
			x:    0, y: 0,
			want: [][2]int{{1, 2}, {2, 1}},
		},
		{
			name: "edge",
			x:    0, y: 4,
			want: [][2]int{{1, 2}, {1, 6}, {2, 3}, {2, 5}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newStandardGame()
			b := g.TimelineFor(0).Current()
			clearBoard(b)
			knight := put(b, White, Knight, tt.x, tt.y)
			got := squaresOf(movesFor(knight, 0, false))
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d targets, got %v", len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("candidate mismatch: got %v want %v", got, tt.want)
				}
			}
		})
	}
}

func TestSlidingRayTermination(t *testing.T) {
	g := newStandardGame()
	b := g.TimelineFor(0).Current()
	clearBoard(b)
	rook := put(b, White, Rook, 0, 0)
	put(b, Black, Pawn, 0, 4)  // enemy terminator on the file
	put(b, White, Pawn, 4, 0)  // friendly blocker on the rank

	moves := movesFor(rook, 0, false)
	var file, rank []int
	for _, mv := range moves {
		if mv.X == 0 {
			file = append(file, mv.Y)
		}
		if mv.Y == 0 && mv.X != 0 {
			rank = append(rank, mv.X)
		}
	}
	sort.Ints(file)
	sort.Ints(rank)

	// File: empty prefix then exactly the enemy square, nothing beyond.
	wantFile := []int{1, 2, 3, 4}
	if len(file) != len(wantFile) {
		t.Fatalf("file ray %v, want %v", file, wantFile)
	}
	for i := range file {
		if file[i] != wantFile[i] {
			t.Fatalf("file ray %v, want %v", file, wantFile)
		}
	}
	// Rank: stops short of the friendly blocker.
	wantRank := []int{1, 2, 3}
	if len(rank) != len(wantRank) {
		t.Fatalf("rank ray %v, want %v", rank, wantRank)
	}
	for i := range rank {
		if rank[i] != wantRank[i] {
			t.Fatalf("rank ray %v, want %v", rank, wantRank)
		}
	}
}

func TestPawnMoveShapes(t *testing.T) {
	g := newStandardGame()
	b := g.TimelineFor(0).Current()

	// Home-rank pawn: single and double push.
	pawn := b.PieceAt(4, 6)
	got := squaresOf(movesFor(pawn, 0, false))
	want := [][2]int{{4, 4}, {4, 5}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("pawn candidates %v, want %v", got, want)
	}

	// A blocked pawn has nothing, including no double push.
	clearBoard(b)
	blocked := put(b, White, Pawn, 4, 6)
	put(b, Black, Rook, 4, 5)
	if moves := movesFor(blocked, 0, false); len(moves) != 0 {
		t.Fatalf("expected no moves for blocked pawn, got %v", moves)
	}

	// Diagonal capture only onto enemies.
	put(b, Black, Knight, 3, 5)
	put(b, White, Knight, 5, 5)
	got = squaresOf(movesFor(blocked, 0, false))
	want = [][2]int{{3, 5}}
	if len(got) != 1 || got[0] != want[0] {
		t.Fatalf("pawn capture candidates %v, want %v", got, want)
	}
}

func TestCastlingThroughCheckIsExcluded(t *testing.T) {
	g := newStandardGame()
	b := g.TimelineFor(0).Current()
	clearBoard(b)
	king := put(b, White, King, 4, 7)
	put(b, White, Rook, 7, 7)
	put(b, Black, King, 0, 0)
	put(b, Black, Rook, 5, 2) // controls the f-file the king passes through

	for _, mv := range g.LegalMovesFor(king) {
		if mv.X == 6 && mv.Y == 7 {
			t.Fatalf("castling through an attacked square was offered")
		}
	}
}

func TestCastlingKingsideExecutes(t *testing.T) {
	g := newStandardGame()
	b := g.TimelineFor(0).Current()
	clearBoard(b)
	king := put(b, White, King, 4, 7)
	put(b, White, Rook, 7, 7)
	put(b, Black, King, 0, 0)

	moves := g.LegalMovesFor(king)
	found := false
	for _, mv := range moves {
		if mv.X == 6 && mv.Y == 7 && mv.L == 0 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected kingside castle in %v", moves)
	}

	if err := g.TryMakeMove(king, pos(6, 7, 0, 1), nil); err != nil {
		t.Fatalf("castle move: %v", err)
	}
	next := g.TimelineFor(0).BoardAt(1)
	if pc := next.PieceAt(6, 7); pc == nil || pc.Type != King {
		t.Fatalf("expected king on g-file after castling")
	}
	if pc := next.PieceAt(5, 7); pc == nil || pc.Type != Rook {
		t.Fatalf("expected rook relocated to f-file after castling")
	}
	if next.Castling.HasSide(White, CastleKingside) || next.Castling.HasSide(White, CastleQueenside) {
		t.Fatalf("expected white castling rights cleared, got %s", next.Castling)
	}
}

func TestCastlingRequiresUntouchedPieces(t *testing.T) {
	g := newStandardGame()
	b := g.TimelineFor(0).Current()
	clearBoard(b)
	king := put(b, White, King, 4, 7)
	rook := put(b, White, Rook, 7, 7)
	put(b, Black, King, 0, 0)
	rook.HasMoved = true

	for _, mv := range g.LegalMovesFor(king) {
		if mv.X == 6 && mv.Y == 7 {
			t.Fatalf("castling offered with a moved rook")
		}
	}
}

func TestCastlingRightsDecayMonotonically(t *testing.T) {
	g := newStandardGame()

	// Moving the h1 rook out and back still burns the kingside right.
	mustMove(t, g, pos(7, 6, 0, 0), pos(7, 4, 0, 1)) // h4
	mustSubmit(t, g)
	mustMove(t, g, pos(0, 1, 0, 1), pos(0, 2, 0, 2))
	mustSubmit(t, g)
	mustMove(t, g, pos(7, 7, 0, 2), pos(7, 5, 0, 3)) // Rh3
	mustSubmit(t, g)
	mustMove(t, g, pos(0, 2, 0, 3), pos(0, 3, 0, 4))
	mustSubmit(t, g)
	mustMove(t, g, pos(7, 5, 0, 4), pos(7, 7, 0, 5)) // Rh1
	mustSubmit(t, g)

	main := g.TimelineFor(0)
	prev := main.BoardAt(main.Start).Castling
	for tt := main.Start + 1; tt <= main.End; tt++ {
		cur := main.BoardAt(tt).Castling
		if cur&^prev != 0 {
			t.Fatalf("castling rights grew between t=%d (%s) and t=%d (%s)", tt-1, prev, tt, cur)
		}
		prev = cur
	}
	if main.Current().Castling.HasSide(White, CastleKingside) {
		t.Fatalf("expected white kingside right burned after rook trip")
	}
}
