package game

import "errors"

var (
	ErrGameFinished    = errors.New("game finished")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrMoveAlreadyMade = errors.New("move already made on this timeline")
	ErrIllegalMove     = errors.New("illegal move")
	ErrLeavesCheck     = errors.New("move leaves own king in check")
	ErrBoardNotFound   = errors.New("board not found")
	ErrSubmitNotReady  = errors.New("timelines not ready to submit")
	ErrNothingToUndo   = errors.New("nothing to undo")

	// ErrBadMoveEncoding wraps deserialization failures at the wire boundary.
	ErrBadMoveEncoding = errors.New("bad move encoding")

	// ErrStateCorrupt marks invariant violations that should be impossible
	// for legal inputs. Operations that hit it abort without mutating state.
	ErrStateCorrupt = errors.New("engine state corrupt")
)
