package common

import (
	errorsmod "cosmossdk.io/errors"
)

const Codespace = "settlement"

// Caller-visible failure kinds. Every engine operation fails with one of
// these, wrapped with call context; callers match with errors.Is. A failed
// call leaves no state mutation behind.
var (
	ErrUnauthorized        = errorsmod.Register(Codespace, 2, "unauthorized")
	ErrInvalidInput        = errorsmod.Register(Codespace, 3, "invalid input")
	ErrInsufficientPayment = errorsmod.Register(Codespace, 4, "insufficient payment")
	ErrLimitExceeded       = errorsmod.Register(Codespace, 5, "limit exceeded")
	ErrAlreadySettled      = errorsmod.Register(Codespace, 6, "already settled")
	ErrAlreadyClosed       = errorsmod.Register(Codespace, 7, "already closed")
	ErrUnavailable         = errorsmod.Register(Codespace, 8, "unavailable")
	ErrTooEarly            = errorsmod.Register(Codespace, 9, "too early")
	ErrBelowMinimum        = errorsmod.Register(Codespace, 10, "below minimum bid")
	ErrNotHighEnough       = errorsmod.Register(Codespace, 11, "bid not above current top bid")
	ErrBidderPresent       = errorsmod.Register(Codespace, 12, "auction has bidder")
	ErrNotConfigured       = errorsmod.Register(Codespace, 13, "not configured")
	ErrNotFound            = errorsmod.Register(Codespace, 14, "not found")
	ErrWrongDenomination   = errorsmod.Register(Codespace, 15, "wrong denomination")
	ErrOverflow            = errorsmod.Register(Codespace, 16, "arithmetic overflow")
)
