package topics

const (
	// Bets
	BetPlaced    = "bet_placed"
	BetCancelled = "bet_cancelled"

	// Settlement
	EventSettled = "event_settled"

	// DLQs
	NotificationsDLQ = "notifications_dlq"
)
