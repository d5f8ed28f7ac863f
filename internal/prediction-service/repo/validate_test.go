package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePredictions(t *testing.T) {
	five := []string{"a", "b", "c", "d", "e"}

	tests := []struct {
		name    string
		drivers []string
		teams   []string
		wantErr bool
	}{
		{"só pilotos", five, nil, false},
		{"só construtores", nil, five, false},
		{"pilotos e construtores", five, five, false},
		{"nenhuma lista", nil, nil, true},
		{"pilotos com 4 posições", []string{"a", "b", "c", "d"}, nil, true},
		{"pilotos com 6 posições", append(append([]string{}, five...), "f"), nil, true},
		{"piloto repetido", []string{"a", "a", "c", "d", "e"}, nil, true},
		{"posição de piloto vazia", []string{"a", "b", "", "d", "e"}, nil, true},
		{"construtores com 3 posições", nil, []string{"a", "b", "c"}, true},
		{"construtor repetido é permitido aqui", nil, []string{"a", "a", "b", "b", "c"}, false},
		{"posição de construtor vazia", nil, []string{"a", "b", "", "d", "e"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePredictions(tt.drivers, tt.teams)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPredictions)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
