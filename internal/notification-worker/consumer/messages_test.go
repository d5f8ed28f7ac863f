package consumer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCancelMessage(t *testing.T) {
	got := cancelMessage("Main Race", 10)
	assert.Equal(t, "Your bet for Main Race has been cancelled. 10 Fun-Coins have been refunded to your balance.", got)
}

func TestJackpotMessage(t *testing.T) {
	got := jackpotMessage("Qualifying", 20)
	assert.Equal(t, "JACKPOT! You NAILED the result for Qualifying! You won 20 Fun-Coins!", got)
}
