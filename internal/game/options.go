package game

// TimeOptions mirrors the time-control block of the game options. The
// engine never ticks a clock itself; it only reports the configured cap
// when a clock collaborator is attached.
type TimeOptions struct {
	Start                 [2]int `json:"start"`
	RunningClocks         bool   `json:"runningClocks,omitempty"`
	RunningClockTime      int    `json:"runningClockTime,omitempty"`
	RunningClockGraceTime int    `json:"runningClockGraceTime,omitempty"`
}

// Winner values. Sides use their numeric encoding; WinnerNone marks a draw
// or an unfinished game.
const WinnerNone = -1

// Win causes.
const (
	WinCauseMate = 0
	WinCauseFlag = 1
)

// Win reasons.
const (
	WinReasonCheckmate = "checkmate"
	WinReasonStalemate = "stalemate"
	WinReasonResign    = "resign"
	WinReasonTimeout   = "timeout"
	WinReasonDraw      = "draw"
)

// Options configures a new game. Seed feeds the variant setup only; with
// equal options the engine is fully deterministic.
type Options struct {
	Variant   Variant      `json:"variant"`
	Time      *TimeOptions `json:"time,omitempty"`
	Seed      int64        `json:"seed,omitempty"`
	Finished  bool         `json:"finished,omitempty"`
	Winner    int          `json:"winner,omitempty"`
	WinCause  int          `json:"winCause,omitempty"`
	WinReason string       `json:"winReason,omitempty"`
}

func (o Options) withDefaults() Options {
	if o.Variant == "" {
		o.Variant = VariantStandard
	}
	if !o.Finished {
		o.Winner = WinnerNone
	}
	return o
}
