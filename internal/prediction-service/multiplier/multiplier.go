package multiplier

import "time"

// Limites de cada faixa, em segundos até o início do evento
const (
	tierFiveDays  = 432000 // > 5 dias
	tierThreeDays = 259200 // > 3 dias
	tierOneDay    = 86400  // > 1 dia
)

// Lock calcula o multiplicador de pontuação em função do tempo restante até o
// início do evento. Função de degraus com comparação estrita: exatamente no
// limite cai na faixa inferior. O valor é congelado na aposta no momento do
// aceite e nunca recalculado depois.
func Lock(start, now time.Time) float64 {
	remaining := start.Sub(now).Seconds()

	switch {
	case remaining > tierFiveDays:
		return 5.0
	case remaining > tierThreeDays:
		return 3.0
	case remaining > tierOneDay:
		return 1.5
	default:
		// inclui evento já iniciado (remaining negativo)
		return 1.0
	}
}
