package events

import "time"

// Evento emitido pelo prediction-service após o estorno de uma aposta.
// O notification-worker consome este evento para avisar o usuário.
type BetCancelled struct {
	BetID        string    `json:"betId"`
	UserID       string    `json:"userId"`
	EventID      string    `json:"eventId"`
	EventType    string    `json:"eventType"` // ex: "Main Race"
	RefundAmount int64     `json:"refundAmount"`
	Ts           time.Time `json:"ts"`
}
