package engine

import (
	"errors"
	"fmt"

	"github.com/DoyleJ11/money-game-backend/internal/economy"
)

// Code is a machine-readable reason for a rejected command.
type Code string

const (
	CodeUnsupportedCommand Code = "UNSUPPORTED_COMMAND"
	CodeWrongPhase         Code = "WRONG_PHASE"
	CodeNotJoined          Code = "NOT_JOINED"
	CodeNotEnrolled        Code = "NOT_ENROLLED"
	CodeAlreadyJoined      Code = "ALREADY_JOINED"
	CodeRoomFull           Code = "ROOM_FULL"
	CodeGameAlreadyStarted Code = "GAME_ALREADY_STARTED"
	CodeNotEnoughPlayers   Code = "NOT_ENOUGH_PLAYERS"
	CodeGameFinished       Code = "GAME_FINISHED"
	CodeRoundNotComplete   Code = "ROUND_NOT_COMPLETE"
	CodeAlreadyLocked      Code = "ALREADY_LOCKED"
	CodeOutOfRange         Code = "OUT_OF_RANGE"
	CodeInvalidAmount      Code = "INVALID_AMOUNT"
	CodeInsufficient       Code = "INSUFFICIENT"
	CodeNothingChosen      Code = "NOTHING_CHOSEN"
	CodeNotDecisionPlayer  Code = "NOT_DECISION_PLAYER"
	CodeNotVoter           Code = "NOT_VOTER"
	CodeUnknownPlayer      Code = "UNKNOWN_PLAYER"
)

// Error is a recoverable rejection. The state a rejected command was applied
// to is never modified.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code, so the Err* sentinels below can
// be used with errors.Is.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

var ErrUnsupportedCommand = &Error{Code: CodeUnsupportedCommand, Message: "unsupported command"}
var ErrWrongPhase = &Error{Code: CodeWrongPhase, Message: "action not allowed in current phase"}
var ErrNotJoined = &Error{Code: CodeNotJoined, Message: "player has not joined the game"}
var ErrNotEnrolled = &Error{Code: CodeNotEnrolled, Message: "player is not in the current game module"}
var ErrAlreadyJoined = &Error{Code: CodeAlreadyJoined, Message: "already joined"}
var ErrRoomFull = &Error{Code: CodeRoomFull, Message: "maximum player count reached"}
var ErrGameAlreadyStarted = &Error{Code: CodeGameAlreadyStarted, Message: "game already started"}
var ErrNotEnoughPlayers = &Error{Code: CodeNotEnoughPlayers, Message: "not enough players"}
var ErrGameFinished = &Error{Code: CodeGameFinished, Message: "game already finished"}
var ErrRoundNotComplete = &Error{Code: CodeRoundNotComplete, Message: "current phase is still active"}
var ErrAlreadyLocked = &Error{Code: CodeAlreadyLocked, Message: "already locked"}
var ErrOutOfRange = &Error{Code: CodeOutOfRange, Message: "selection out of range"}
var ErrInvalidAmount = &Error{Code: CodeInvalidAmount, Message: "invalid amount"}
var ErrInsufficient = &Error{Code: CodeInsufficient, Message: "insufficient balance"}
var ErrNothingChosen = &Error{Code: CodeNothingChosen, Message: "nothing selected yet"}
var ErrNotDecisionPlayer = &Error{Code: CodeNotDecisionPlayer, Message: "only the decision player may do that"}
var ErrNotVoter = &Error{Code: CodeNotVoter, Message: "only voters may do that"}
var ErrUnknownPlayer = &Error{Code: CodeUnknownPlayer, Message: "unknown target player"}

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// wrapEconomy maps ledger failures onto engine codes, keeping the ledger
// sentinel reachable through errors.Is.
func wrapEconomy(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, economy.ErrNegativeAmount):
		return &Error{Code: CodeInvalidAmount, Message: err.Error(), Cause: err}
	case economy.IsInsufficient(err):
		return &Error{Code: CodeInsufficient, Message: err.Error(), Cause: err}
	}
	return err
}

// CodeOf extracts the rejection code of err, or "" for foreign errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
