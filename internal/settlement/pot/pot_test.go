package pot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShare(t *testing.T) {
	tests := []struct {
		name    string
		pool    int64
		winners int
		want    int64
	}{
		{"vencedor único leva o pool inteiro", 20, 1, 20},
		{"divisão exata", 20, 2, 10},
		{"resto da divisão não é distribuído", 21, 2, 10},
		{"pool menor que o número de vencedores", 2, 3, 0},
		{"sem vencedores o pool fica retido", 100, 0, 0},
		{"pool zerado", 0, 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Share(tt.pool, tt.winners))
		})
	}
}

func TestShareTotalNeverExceedsPool(t *testing.T) {
	for winners := 1; winners <= 7; winners++ {
		for pool := int64(0); pool <= 50; pool++ {
			share := Share(pool, winners)
			assert.LessOrEqual(t, share*int64(winners), pool)
		}
	}
}
