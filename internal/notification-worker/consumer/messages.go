package consumer

import "fmt"

// Textos de notificação do produto (mesma redação do app)

func cancelMessage(eventType string, refund int64) string {
	return fmt.Sprintf("Your bet for %s has been cancelled. %d Fun-Coins have been refunded to your balance.", eventType, refund)
}

func jackpotMessage(eventType string, prize int64) string {
	return fmt.Sprintf("JACKPOT! You NAILED the result for %s! You won %d Fun-Coins!", eventType, prize)
}
