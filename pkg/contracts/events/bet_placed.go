package events

type BetPlaced struct {
	BetID            string  `json:"bet_id"`
	UserID           string  `json:"user_id"`
	EventID          string  `json:"event_id"`
	Stake            int64   `json:"stake"`
	LockedMultiplier float64 `json:"locked_multiplier"` // congelado no aceite da aposta
	TsUnixMs         int64   `json:"ts_unix_ms"`
}
