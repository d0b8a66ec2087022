package game

import "multiverse_chess/internal/shared"

// Variant names an initial setup. Variants differ only in which pieces the
// t=0 board carries; every rule is shared.
type Variant string

const (
	VariantStandard         Variant = "standard"
	VariantNoBishops        Variant = "no-bishops"
	VariantNoKnights        Variant = "no-knights"
	VariantNoRooks          Variant = "no-rooks"
	VariantNoQueens         Variant = "no-queens"
	VariantKnightsVsBishops Variant = "knights-vs-bishops"
	VariantSimpleSet        Variant = "simple-set"
	VariantRandom           Variant = "random"
)

// Variants lists every known variant identifier.
var Variants = []Variant{
	VariantStandard,
	VariantNoBishops,
	VariantNoKnights,
	VariantNoRooks,
	VariantNoQueens,
	VariantKnightsVsBishops,
	VariantSimpleSet,
	VariantRandom,
}

func (v Variant) Valid() bool {
	for _, known := range Variants {
		if v == known {
			return true
		}
	}
	return false
}

func ParseVariant(s string) (Variant, bool) {
	v := Variant(s)
	if s == "" {
		return VariantStandard, true
	}
	if v.Valid() {
		return v, true
	}
	return "", false
}

var standardRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// none marks an empty back-rank slot in a variant template.
const none = PieceType(255)

// setupVariant populates b with the variant's initial position and grants
// castling rights matching the actual placement.
func setupVariant(g *Game, b *Board, v Variant) {
	white, black := backRanks(g, v)
	placeRank(b, White, white)
	placeRank(b, Black, black)
	for x := 0; x < 8; x++ {
		placeInitial(b, White, Pawn, x, pawnRank(White))
		placeInitial(b, Black, Pawn, x, pawnRank(Black))
	}
	b.Castling = placementRights(b)
}

func backRanks(g *Game, v Variant) (white, black [8]PieceType) {
	white = standardRank
	black = standardRank
	drop := func(pt PieceType) {
		for i := range white {
			if white[i] == pt {
				white[i] = none
				black[i] = none
			}
		}
	}
	switch v {
	case VariantNoBishops:
		drop(Bishop)
	case VariantNoKnights:
		drop(Knight)
	case VariantNoRooks:
		drop(Rook)
	case VariantNoQueens:
		drop(Queen)
	case VariantKnightsVsBishops:
		// White's minors are all knights, black's all bishops.
		for i, pt := range white {
			if pt == Bishop || pt == Knight {
				white[i] = Knight
				black[i] = Bishop
			}
		}
	case VariantSimpleSet:
		drop(Bishop)
		drop(Knight)
	case VariantRandom:
		perm := g.rng.Perm(8)
		var shuffled [8]PieceType
		for i, j := range perm {
			shuffled[i] = standardRank[j]
		}
		white = shuffled
		black = shuffled
	}
	return white, black
}

func placeRank(b *Board, side Side, rank [8]PieceType) {
	y := homeRank(side)
	for x, pt := range rank {
		if pt == none {
			continue
		}
		placeInitial(b, side, pt, x, y)
	}
}

func placeInitial(b *Board, side Side, pt PieceType, x, y int) {
	b.place(&Piece{Side: side, Type: pt, X: x, Y: y})
}

// placementRights grants a side's castling right only when its king is on
// the e-file home square and the rook on the matching corner, so shuffled
// variants never advertise impossible castles.
func placementRights(b *Board) CastlingRights {
	rights := CastlingNone
	for _, side := range []Side{Black, White} {
		rank := homeRank(side)
		king := b.PieceAt(4, rank)
		if king == nil || king.Type != King || king.Side != side {
			continue
		}
		if r := b.PieceAt(7, rank); r != nil && r.Type == Rook && r.Side == side {
			rights |= shared.CastlingRight(side, CastleKingside)
		}
		if r := b.PieceAt(0, rank); r != nil && r.Type == Rook && r.Side == side {
			rights |= shared.CastlingRight(side, CastleQueenside)
		}
	}
	return rights
}
