package shared

import "testing"

func TestCastlingRightsMaskLayout(t *testing.T) {
	tests := []struct {
		right CastlingRights
		bit   uint8
	}{
		{CastlingBlackKingside, 0},
		{CastlingBlackQueenside, 1},
		{CastlingWhiteKingside, 2},
		{CastlingWhiteQueenside, 3},
	}
	for _, tt := range tests {
		if uint8(tt.right) != 1<<tt.bit {
			t.Fatalf("right %s on wrong bit: %08b", tt.right, uint8(tt.right))
		}
	}
	if CastlingAll != 0b1111 {
		t.Fatalf("full mask wrong: %08b", uint8(CastlingAll))
	}
}

func TestCastlingRightsRoundTrip(t *testing.T) {
	for mask := CastlingRights(0); mask <= CastlingAll; mask++ {
		parsed, err := ParseCastlingRights(mask.String())
		if err != nil {
			t.Fatalf("parse %q: %v", mask.String(), err)
		}
		if parsed != mask {
			t.Fatalf("round trip %08b -> %q -> %08b", uint8(mask), mask.String(), uint8(parsed))
		}
	}
	if _, err := ParseCastlingRights("Kx"); err == nil {
		t.Fatalf("expected parse failure for bad flag")
	}
}

func TestPromotionCodes(t *testing.T) {
	tests := []struct {
		code int
		pt   PieceType
	}{
		{1, Queen},
		{2, Knight},
		{3, Rook},
		{4, Bishop},
	}
	for _, tt := range tests {
		pt, ok := PromotionFromCode(tt.code)
		if !ok || pt != tt.pt {
			t.Fatalf("code %d: got %v/%v", tt.code, pt, ok)
		}
		code, ok := PromotionCode(tt.pt)
		if !ok || code != tt.code {
			t.Fatalf("piece %s: got %d/%v", tt.pt, code, ok)
		}
	}
	if _, ok := PromotionFromCode(0); ok {
		t.Fatalf("code 0 accepted")
	}
	if _, ok := PromotionCode(King); ok {
		t.Fatalf("king accepted as promotion piece")
	}
}

func TestSideOfTimeline(t *testing.T) {
	for _, l := range []int{0, 1, 5} {
		if SideOfTimeline(l) != White {
			t.Fatalf("timeline %d should be white's", l)
		}
	}
	for _, l := range []int{-1, -4} {
		if SideOfTimeline(l) != Black {
			t.Fatalf("timeline %d should be black's", l)
		}
	}
}

func TestVec4(t *testing.T) {
	if !(Vec4{X: 0, Y: 7, L: -3, T: 12}).Valid() {
		t.Fatalf("in-board vector reported invalid")
	}
	if (Vec4{X: 8, Y: 0}).Valid() || (Vec4{X: 0, Y: -1}).Valid() {
		t.Fatalf("out-of-board vector reported valid")
	}
	a := Vec4{X: 1, Y: 2, L: 3, T: 4}
	b := Vec4{X: 1, Y: 2, L: 0, T: 4}
	if !a.SameSquare(b) || a.SameBoard(b) {
		t.Fatalf("coordinate comparisons wrong")
	}
}
