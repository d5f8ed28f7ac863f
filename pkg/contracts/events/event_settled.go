package events

import "time"

// Vencedor de um evento liquidado (jackpot e/ou pontos)
type SettledWinner struct {
	UserID       string `json:"userId"`
	Username     string `json:"username"`
	PrizeAmount  int64  `json:"prizeAmount"`
	PointsEarned int64  `json:"pointsEarned"`
}

// Evento publicado no tópico "event_settled" após a liquidação de um evento.
// Publicado somente depois do commit da transação de liquidação.
type EventSettled struct {
	EventID        string          `json:"eventId"`
	EventType      string          `json:"eventType"`
	TotalPrizePool int64           `json:"totalPrizePool"`
	PerfectMatches int             `json:"perfectMatches"`
	Winners        []SettledWinner `json:"winners"`
	Ts             time.Time       `json:"ts"`
}
