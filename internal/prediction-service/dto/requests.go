package dto

// PlaceBetRequest é o payload de colocação de aposta.
// As listas de palpites são ordenadas (índice 0 = P1).
type PlaceBetRequest struct {
	UserID            string   `json:"userId"`
	EventID           string   `json:"eventId"`
	DriverPredictions []string `json:"driverPredictions,omitempty"`
	TeamPredictions   []string `json:"teamPredictions,omitempty"`
}
