package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/radieske/f1-prediction-poc/internal/prediction-service/multiplier"
)

// Limite de apostas ativas por usuário em um mesmo evento
const maxActiveBetsPerEvent = 4

// Postgres implementa o ledger de apostas em banco Postgres.
// Toda movimentação de saldo/pool acontece dentro de uma única transação,
// com lock pessimista nas linhas de usuário e evento.
type Postgres struct {
	db  *sql.DB
	now func() time.Time
}

// NewPostgres retorna uma instância do ledger de apostas
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db, now: time.Now}
}

// PlaceBet executa a colocação de uma aposta de forma atômica:
// debita bet_value do saldo, credita o mesmo valor no pool do evento,
// congela o multiplicador e cria a aposta Active. Nenhum efeito é
// parcialmente visível.
// Pré-condições verificadas em ordem, cada uma com sua falha própria:
// existe -> Upcoming -> saldo -> limite de 4 -> formato dos palpites.
func (p *Postgres) PlaceBet(ctx context.Context, userID, eventID string, driverPreds, teamPreds []string) (*Placement, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var ev Event
	err = tx.QueryRowContext(ctx, `
		SELECT id, round_id, type, scheduled_at, status, bet_value, pool_prize
		FROM events WHERE id=$1 FOR UPDATE`, eventID).
		Scan(&ev.ID, &ev.RoundID, &ev.Type, &ev.ScheduledAt, &ev.Status, &ev.BetValue, &ev.PoolPrize)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	} else if err != nil {
		return nil, err
	}

	var u User
	err = tx.QueryRowContext(ctx, `
		SELECT id, username, balance, points
		FROM users WHERE id=$1 FOR UPDATE`, userID).
		Scan(&u.ID, &u.Username, &u.Balance, &u.Points)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	} else if err != nil {
		return nil, err
	}

	if ev.Status != EventUpcoming {
		return nil, ErrBettingClosed
	}

	if u.Balance < ev.BetValue {
		return nil, ErrInsufficientBalance
	}

	var active int
	if err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM bets
		WHERE user_id=$1 AND event_id=$2 AND status=$3`,
		userID, eventID, BetActive).Scan(&active); err != nil {
		return nil, err
	}
	if active >= maxActiveBetsPerEvent {
		return nil, ErrBetLimitExceeded
	}

	if err = validatePredictions(driverPreds, teamPreds); err != nil {
		return nil, err
	}

	// Multiplicador congelado no instante do aceite; nunca recalculado depois
	locked := multiplier.Lock(ev.ScheduledAt, p.now())

	if _, err = tx.ExecContext(ctx,
		`UPDATE users SET balance = balance - $1 WHERE id=$2`, ev.BetValue, userID); err != nil {
		return nil, err
	}
	if _, err = tx.ExecContext(ctx,
		`UPDATE events SET pool_prize = pool_prize + $1 WHERE id=$2`, ev.BetValue, eventID); err != nil {
		return nil, err
	}

	bet := Bet{
		ID:                uuid.NewString(),
		UserID:            userID,
		EventID:           eventID,
		DriverPredictions: driverPreds,
		TeamPredictions:   teamPreds,
		Stake:             ev.BetValue,
		LockedMultiplier:  locked,
		Status:            BetActive,
	}
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO bets (id, user_id, event_id, driver_predictions, team_predictions, stake, locked_multiplier, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		bet.ID, bet.UserID, bet.EventID,
		pq.Array(bet.DriverPredictions), pq.Array(bet.TeamPredictions),
		bet.Stake, bet.LockedMultiplier, bet.Status); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	u.Balance -= ev.BetValue
	ev.PoolPrize += ev.BetValue
	return &Placement{Bet: bet, User: u, Event: ev}, nil
}

// CancelBet estorna uma aposta Active: devolve o stake ao saldo do usuário,
// decrementa o pool do evento e marca a aposta Cancelled. Única saída legal
// do estado Active fora da liquidação.
func (p *Postgres) CancelBet(ctx context.Context, betID string) (*Cancellation, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var (
		userID, eventID, status, eventType string
		stake                              int64
	)
	err = tx.QueryRowContext(ctx, `
		SELECT b.user_id, b.event_id, b.status, b.stake, e.type
		FROM bets b
		JOIN events e ON e.id = b.event_id
		WHERE b.id=$1
		FOR UPDATE`, betID).
		Scan(&userID, &eventID, &status, &stake, &eventType)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("bet %s: %w", betID, ErrNotFound)
	} else if err != nil {
		return nil, err
	}

	if status != BetActive {
		return nil, ErrInvalidState
	}

	// Estorno exato da colocação
	if _, err = tx.ExecContext(ctx,
		`UPDATE users SET balance = balance + $1 WHERE id=$2`, stake, userID); err != nil {
		return nil, err
	}
	if _, err = tx.ExecContext(ctx,
		`UPDATE events SET pool_prize = pool_prize - $1 WHERE id=$2`, stake, eventID); err != nil {
		return nil, err
	}
	if _, err = tx.ExecContext(ctx,
		`UPDATE bets SET status=$1, updated_at=NOW() WHERE id=$2`, BetCancelled, betID); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return &Cancellation{
		BetID:        betID,
		UserID:       userID,
		EventID:      eventID,
		EventType:    eventType,
		RefundAmount: stake,
	}, nil
}

// GetBet retorna uma aposta pelo id
func (p *Postgres) GetBet(ctx context.Context, betID string) (*Bet, error) {
	var b Bet
	err := p.db.QueryRowContext(ctx, `
		SELECT id, user_id, event_id, driver_predictions, team_predictions,
		       stake, locked_multiplier, status, created_at, updated_at
		FROM bets WHERE id=$1`, betID).
		Scan(&b.ID, &b.UserID, &b.EventID,
			pq.Array(&b.DriverPredictions), pq.Array(&b.TeamPredictions),
			&b.Stake, &b.LockedMultiplier, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("bet %s: %w", betID, ErrNotFound)
	} else if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetEvent retorna um evento pelo id
func (p *Postgres) GetEvent(ctx context.Context, eventID string) (*Event, error) {
	var ev Event
	err := p.db.QueryRowContext(ctx, `
		SELECT id, round_id, type, scheduled_at, status, bet_value, pool_prize
		FROM events WHERE id=$1`, eventID).
		Scan(&ev.ID, &ev.RoundID, &ev.Type, &ev.ScheduledAt, &ev.Status, &ev.BetValue, &ev.PoolPrize)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	} else if err != nil {
		return nil, err
	}
	return &ev, nil
}

// ListEvents retorna os eventos ordenados por data
func (p *Postgres) ListEvents(ctx context.Context) ([]Event, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, round_id, type, scheduled_at, status, bet_value, pool_prize
		FROM events ORDER BY scheduled_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.RoundID, &ev.Type, &ev.ScheduledAt, &ev.Status, &ev.BetValue, &ev.PoolPrize); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// Leaderboard retorna o ranking geral por pontos
func (p *Postgres) Leaderboard(ctx context.Context, limit int) ([]Standing, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, username, points
		FROM users ORDER BY points DESC, username LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Standing
	for rows.Next() {
		var s Standing
		if err := rows.Scan(&s.UserID, &s.Username, &s.Points); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// validatePredictions valida o formato dos palpites antes de qualquer mutação.
// Pilotos: exatamente 5 ids distintos. Construtores: exatamente 5 posições
// preenchidas (repetição de construtor é regra da camada de UI, não daqui).
// Pelo menos uma das duas listas precisa vir preenchida.
func validatePredictions(driverPreds, teamPreds []string) error {
	if len(driverPreds) == 0 && len(teamPreds) == 0 {
		return fmt.Errorf("%w: at least one prediction list required", ErrInvalidPredictions)
	}

	if len(driverPreds) > 0 {
		if len(driverPreds) != 5 {
			return fmt.Errorf("%w: driver predictions must fill exactly 5 slots", ErrInvalidPredictions)
		}
		seen := make(map[string]struct{}, 5)
		for _, id := range driverPreds {
			if id == "" {
				return fmt.Errorf("%w: empty driver slot", ErrInvalidPredictions)
			}
			if _, dup := seen[id]; dup {
				return fmt.Errorf("%w: duplicate driver %s", ErrInvalidPredictions, id)
			}
			seen[id] = struct{}{}
		}
	}

	if len(teamPreds) > 0 {
		if len(teamPreds) != 5 {
			return fmt.Errorf("%w: team predictions must fill exactly 5 slots", ErrInvalidPredictions)
		}
		for _, id := range teamPreds {
			if id == "" {
				return fmt.Errorf("%w: empty team slot", ErrInvalidPredictions)
			}
		}
	}

	return nil
}
