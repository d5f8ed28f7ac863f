package repo

import "time"

// Status de aposta. Active -> Settled | Cancelled, sempre terminal.
const (
	BetActive    = "Active"
	BetSettled   = "Settled"
	BetCancelled = "Cancelled"
)

// Status de evento. Upcoming -> Finished, transição única feita na liquidação.
const (
	EventUpcoming = "Upcoming"
	EventFinished = "Finished"
)

// Bet é o modelo persistido no Postgres.
type Bet struct {
	ID                string
	UserID            string
	EventID           string
	DriverPredictions []string // top-5 de pilotos em ordem, ou vazio
	TeamPredictions   []string // top-5 de construtores em ordem, ou vazio
	Stake             int64
	LockedMultiplier  float64
	Status            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Event é a visão que o ledger tem de um evento do catálogo.
// O ledger só mexe em PoolPrize; o status é virado pela liquidação.
type Event struct {
	ID          string
	RoundID     string
	Type        string
	ScheduledAt time.Time
	Status      string
	BetValue    int64
	PoolPrize   int64
}

// User carrega os campos de razão do usuário (saldo e pontos)
type User struct {
	ID       string
	Username string
	Balance  int64
	Points   int64
}

// Standing é uma linha do ranking geral por pontos
type Standing struct {
	UserID   string
	Username string
	Points   int64
}

// Placement é o retorno da colocação de aposta: a aposta criada mais os
// agregados já atualizados (saldo debitado, pool creditado)
type Placement struct {
	Bet   Bet
	User  User
	Event Event
}

// Cancellation resume o estorno feito, usado para publicar o evento de
// notificação fora da transação
type Cancellation struct {
	BetID        string
	UserID       string
	EventID      string
	EventType    string
	RefundAmount int64
}
