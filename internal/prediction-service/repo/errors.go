package repo

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrBettingClosed       = errors.New("betting is closed for this event")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBetLimitExceeded    = errors.New("maximum of 4 active bets per event allowed")
	ErrInvalidPredictions  = errors.New("invalid predictions")
	ErrInvalidState        = errors.New("can only cancel active bets")
)
