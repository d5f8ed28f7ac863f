package dto

import "time"

type UserSnapshot struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Balance  int64  `json:"balance"`
	Points   int64  `json:"points"`
}

type EventSnapshot struct {
	EventID     string    `json:"eventId"`
	RoundID     string    `json:"roundId"`
	Type        string    `json:"type"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Status      string    `json:"status"`
	BetValue    int64     `json:"betValue"`
	PoolPrize   int64     `json:"poolPrize"`
}

// PlaceBetResponse devolve a aposta criada e os agregados atualizados
type PlaceBetResponse struct {
	BetID            string        `json:"betId"`
	Status           string        `json:"status"`
	LockedMultiplier float64       `json:"lockedMultiplier"`
	UpdatedUser      UserSnapshot  `json:"updatedUser"`
	UpdatedEvent     EventSnapshot `json:"updatedEvent"`
}

type CancelBetResponse struct {
	BetID        string `json:"betId"`
	Status       string `json:"status"`
	RefundAmount int64  `json:"refundAmount"`
}

type BetResponse struct {
	BetID             string   `json:"betId"`
	UserID            string   `json:"userId"`
	EventID           string   `json:"eventId"`
	DriverPredictions []string `json:"driverPredictions,omitempty"`
	TeamPredictions   []string `json:"teamPredictions,omitempty"`
	Stake             int64    `json:"stake"`
	LockedMultiplier  float64  `json:"lockedMultiplier"`
	Status            string   `json:"status"`
}

// MultiplierPreview é o multiplicador corrente para apostas ainda não
// colocadas (o countdown da UI recalcula ao vivo; apostas já aceitas mantêm
// o valor congelado)
type MultiplierPreview struct {
	EventID        string  `json:"eventId"`
	Multiplier     float64 `json:"multiplier"`
	SecondsToStart int64   `json:"secondsToStart"`
}

type LeaderboardEntry struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Points   int64  `json:"points"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
