package game

import (
	"encoding/json"
	"fmt"

	"multiverse_chess/internal/shared"
)

// Move wire format. The JSON shape is the persistence/replay contract:
// re-encoding a decoded move reproduces the bytes.

type PieceRef struct {
	Type string `json:"type"`
	Side int    `json:"side"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

type BoardRef struct {
	L int `json:"l"`
	T int `json:"t"`
}

type MoveRecord struct {
	NullMove               bool      `json:"nullMove"`
	L                      *int      `json:"l,omitempty"`
	From                   *Vec4     `json:"from,omitempty"`
	To                     *Vec4     `json:"to,omitempty"`
	Promote                *int      `json:"promote,omitempty"`
	RemoteMove             bool      `json:"remoteMove"`
	SourcePiece            *PieceRef `json:"sourcePiece,omitempty"`
	SourceBoard            *BoardRef `json:"sourceBoard,omitempty"`
	TargetBoard            *BoardRef `json:"targetBoard,omitempty"`
	IsInterDimensionalMove bool      `json:"isInterDimensionalMove"`
}

// RecordOfMove projects an executed move onto the wire shape.
func RecordOfMove(m *Move) MoveRecord {
	if m.Kind == MoveNull {
		l := m.NullL
		return MoveRecord{NullMove: true, L: &l, RemoteMove: m.Remote}
	}
	from, to := m.From, m.To
	rec := MoveRecord{
		From:                   &from,
		To:                     &to,
		RemoteMove:             m.Remote,
		IsInterDimensionalMove: m.InterDim,
		SourceBoard:            &BoardRef{L: m.From.L, T: m.From.T},
		TargetBoard:            &BoardRef{L: m.To.L, T: m.To.T},
	}
	if m.Piece != nil {
		rec.SourcePiece = &PieceRef{
			Type: m.Piece.Type.String(),
			Side: m.Piece.Side.Index(),
			X:    m.From.X,
			Y:    m.From.Y,
		}
	}
	if m.HasPromotion {
		if code, ok := shared.PromotionCode(m.Promotion); ok {
			rec.Promote = &code
		}
	}
	return rec
}

// EncodeMove serializes an executed move to its wire bytes.
func EncodeMove(m *Move) ([]byte, error) {
	rec := RecordOfMove(m)
	return json.Marshal(rec)
}

// DecodeMove parses wire bytes into a MoveRecord, enforcing the required
// fields: a null move names its timeline, a regular move its target.
func DecodeMove(data []byte) (MoveRecord, error) {
	var rec MoveRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return MoveRecord{}, fmt.Errorf("%w: %v", ErrBadMoveEncoding, err)
	}
	if rec.NullMove {
		if rec.L == nil {
			return MoveRecord{}, fmt.Errorf("%w: null move without timeline", ErrBadMoveEncoding)
		}
		return rec, nil
	}
	if rec.To == nil {
		return MoveRecord{}, fmt.Errorf("%w: regular move without target", ErrBadMoveEncoding)
	}
	if rec.Promote != nil {
		if _, ok := shared.PromotionFromCode(*rec.Promote); !ok {
			return MoveRecord{}, fmt.Errorf("%w: promotion code %d", ErrBadMoveEncoding, *rec.Promote)
		}
	}
	return rec, nil
}

// EncodeRecord re-serializes a decoded record.
func EncodeRecord(rec MoveRecord) ([]byte, error) { return json.Marshal(rec) }

// Read-only projections of the game state, for rendering, transport and
// replay persistence.

type PieceState struct {
	Side     int    `json:"side"`
	Type     string `json:"type"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	HasMoved bool   `json:"hasMoved"`
}

type BoardState struct {
	L             int          `json:"l"`
	T             int          `json:"t"`
	Turn          int          `json:"turn"`
	Active        bool         `json:"active"`
	Castling      string       `json:"castling"`
	EnPassant     *Vec4        `json:"enPassant,omitempty"`
	ImminentCheck bool         `json:"imminentCheck"`
	Pieces        []PieceState `json:"pieces"`
}

type TimelineState struct {
	L      int           `json:"l"`
	Start  int           `json:"start"`
	End    int           `json:"end"`
	Active bool          `json:"active"`
	Boards []*BoardState `json:"boards"`
}

type GameState struct {
	Turn           int             `json:"turn"`
	TurnName       string          `json:"turnName"`
	Present        int             `json:"present"`
	Finished       bool            `json:"finished"`
	Winner         int             `json:"winner"`
	WinReason      string          `json:"winReason,omitempty"`
	Variant        string          `json:"variant"`
	TimelineCounts [2]int          `json:"timelineCounts"`
	Checks         []Vec4          `json:"checks"`
	Timelines      []TimelineState `json:"timelines"`
}

func stateOfBoard(b *Board) *BoardState {
	if b == nil {
		return nil
	}
	state := &BoardState{
		L:             b.L,
		T:             b.T,
		Turn:          b.Turn.Index(),
		Active:        b.Active,
		Castling:      b.Castling.String(),
		ImminentCheck: b.ImminentCheck,
		Pieces:        make([]PieceState, 0, 32),
	}
	if b.EnPassant != nil {
		ep := *b.EnPassant
		state.EnPassant = &ep
	}
	b.eachPiece(func(pc *Piece) bool {
		state.Pieces = append(state.Pieces, PieceState{
			Side:     pc.Side.Index(),
			Type:     pc.Type.String(),
			X:        pc.X,
			Y:        pc.Y,
			HasMoved: pc.HasMoved,
		})
		return true
	})
	return state
}

// Snapshot captures the full reachable state: every timeline in ascending
// L order with every board slot, plus the submit-cycle view.
func (g *Game) Snapshot() GameState {
	neg, pos := g.TimelineCounts()
	state := GameState{
		Turn:           g.Turn.Index(),
		TurnName:       g.Turn.String(),
		Present:        g.Present,
		Finished:       g.Finished,
		Winner:         g.Winner,
		WinReason:      g.WinReason,
		Variant:        string(g.Options.Variant),
		TimelineCounts: [2]int{neg, pos},
		Checks:         g.DisplayedChecks(),
		Timelines:      make([]TimelineState, 0, len(g.positives)+len(g.negatives)),
	}
	for i := len(g.negatives) - 1; i >= 0; i-- {
		state.Timelines = append(state.Timelines, stateOfTimeline(g.negatives[i]))
	}
	for _, tl := range g.positives {
		state.Timelines = append(state.Timelines, stateOfTimeline(tl))
	}
	return state
}

func stateOfTimeline(tl *Timeline) TimelineState {
	ts := TimelineState{
		L:      tl.L,
		Start:  tl.Start,
		End:    tl.End,
		Active: tl.Active,
		Boards: make([]*BoardState, 0, tl.Len()),
	}
	for t := tl.Start; t <= tl.End; t++ {
		ts.Boards = append(ts.Boards, stateOfBoard(tl.BoardAt(t)))
	}
	return ts
}
