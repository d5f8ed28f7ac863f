package scoring

import "math"

// Tabela de pontos de um tipo de evento.
// Exact indexa P1..P5; Partial vale para piloto previsto que terminou no
// top-5 mas na posição errada.
type Table struct {
	Exact   [5]int64
	Partial int64
}

// Tipos de evento conforme o catálogo
const (
	MainRace   = "Main Race"
	SprintRace = "Sprint Race"
	Qualifying = "Qualifying"
	Practice1  = "Practice 1"
	Practice2  = "Practice 2"
	Practice3  = "Practice 3"
)

// TableFor resolve a tabela de pontos pelo tipo do evento.
// Qualquer treino livre (e tipos desconhecidos) usa a tabela de practice.
func TableFor(eventType string) Table {
	switch eventType {
	case MainRace:
		return Table{Exact: [5]int64{25, 18, 15, 12, 10}, Partial: 5}
	case SprintRace:
		return Table{Exact: [5]int64{8, 7, 6, 5, 4}, Partial: 2}
	case Qualifying:
		return Table{Exact: [5]int64{18, 15, 12, 9, 6}, Partial: 3}
	default:
		return Table{Exact: [5]int64{5, 4, 3, 2, 1}, Partial: 1}
	}
}

// Outcome é o resultado bruto da avaliação de uma aposta
type Outcome struct {
	RawPoints   float64 // pontos antes do multiplicador (metades de construtor podem fracionar)
	FinalPoints int64   // round(RawPoints * multiplicador)
	Perfect     bool    // 5 palpites de piloto, todos exatos e em ordem
}

// Grade avalia uma aposta contra o resultado oficial.
// positions: top-5 oficial de pilotos em ordem; positionTeams: construtor de
// cada posição oficial. Palpites de construtor pontuam metade da tabela e
// nunca contam para o acerto perfeito.
func Grade(driverPreds, teamPreds []string, positions, positionTeams []string, lockedMultiplier float64, t Table) Outcome {
	var raw float64

	perfect := len(driverPreds) == 5

	if len(driverPreds) == 5 {
		for i := 0; i < 5; i++ {
			if driverPreds[i] == positions[i] {
				raw += float64(t.Exact[i])
				continue
			}
			perfect = false
			if containsID(positions, driverPreds[i]) {
				raw += float64(t.Partial)
			}
		}
	} else {
		perfect = false
	}

	if len(teamPreds) == 5 {
		for i := 0; i < 5; i++ {
			if teamPreds[i] == positionTeams[i] {
				raw += float64(t.Exact[i]) / 2
			} else if containsID(positionTeams, teamPreds[i]) {
				raw += float64(t.Partial) / 2
			}
		}
	}

	return Outcome{
		RawPoints:   raw,
		FinalPoints: int64(math.Round(raw * lockedMultiplier)),
		Perfect:     perfect,
	}
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
