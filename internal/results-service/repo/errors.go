package repo

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyGraded    = errors.New("event already graded")
	ErrInvalidPositions = errors.New("invalid positions")
)
