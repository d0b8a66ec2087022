// Package game implements the rule core of five-dimensional chess: a
// branching graph of 8x8 board snapshots in which a move may target a board
// on another timeline or in the past, spawning new timelines.
package game

import "multiverse_chess/internal/shared"

type (
	Side           = shared.Side
	PieceType      = shared.PieceType
	CastlingRights = shared.CastlingRights
	CastlingSide   = shared.CastlingSide
	Vec4           = shared.Vec4
)

const (
	Black = shared.Black
	White = shared.White

	Pawn   = shared.Pawn
	Knight = shared.Knight
	Bishop = shared.Bishop
	Rook   = shared.Rook
	Queen  = shared.Queen
	King   = shared.King

	CastlingNone           = shared.CastlingNone
	CastlingBlackKingside  = shared.CastlingBlackKingside
	CastlingBlackQueenside = shared.CastlingBlackQueenside
	CastlingWhiteKingside  = shared.CastlingWhiteKingside
	CastlingWhiteQueenside = shared.CastlingWhiteQueenside
	CastlingAll            = shared.CastlingAll

	CastleKingside  = shared.CastleKingside
	CastleQueenside = shared.CastleQueenside
)
