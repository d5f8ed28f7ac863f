package repo

import "time"

// WinnerInfo é uma linha da lista de vencedores de um resultado,
// registrada apenas quando houve prêmio ou pontos
type WinnerInfo struct {
	UserID       string `json:"userId"`
	Username     string `json:"username"`
	PrizeAmount  int64  `json:"prizeAmount"`
	PointsEarned int64  `json:"pointsEarned"`
}

// Result é o registro oficial de um evento liquidado; imutável após criado.
// Positions traz o top-5 de pilotos em ordem; PositionTeams o construtor de
// cada posição, resolvido pelo catálogo no momento da liquidação.
type Result struct {
	EventID        string       `json:"eventId"`
	EventType      string       `json:"eventType"`
	Positions      []string     `json:"positions"`
	PositionTeams  []string     `json:"positionTeams"`
	Winners        []WinnerInfo `json:"winners"`
	TotalPrizePool int64        `json:"totalPrizePool"`
	PerfectMatches int          `json:"perfectMatches"`
	CreatedAt      time.Time    `json:"createdAt"`
}
