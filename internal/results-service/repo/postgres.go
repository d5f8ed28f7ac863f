package repo

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/lib/pq"

	"github.com/radieske/f1-prediction-poc/internal/settlement/pot"
	"github.com/radieske/f1-prediction-poc/internal/settlement/scoring"
)

// Postgres implementa a liquidação de eventos.
// Toda a liquidação (avaliar apostas, pagar jackpot, somar pontos, marcar
// Settled/Finished e gravar o resultado) roda em uma única transação com
// lock pessimista no evento — ou aplica tudo, ou nada.
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório de liquidação
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// aposta ativa carregada para avaliação
type activeBet struct {
	id               string
	userID           string
	username         string
	driverPreds      []string
	teamPreds        []string
	lockedMultiplier float64
}

// SettleEvent aplica o resultado oficial de um evento.
// positions: top-5 de pilotos em ordem (P1..P5), ids únicos do catálogo.
// Idempotente na borda: segunda chamada para o mesmo evento falha com
// ErrAlreadyGraded em vez de pagar/pontuar de novo.
func (p *Postgres) SettleEvent(ctx context.Context, eventID string, positions []string) (*Result, error) {
	if err := validatePositions(positions); err != nil {
		return nil, err
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var (
		eventType string
		status    string
		poolPrize int64
	)
	err = tx.QueryRowContext(ctx, `
		SELECT type, status, pool_prize
		FROM events WHERE id=$1 FOR UPDATE`, eventID).
		Scan(&eventType, &status, &poolPrize)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	} else if err != nil {
		return nil, err
	}

	// Guarda contra dupla liquidação, verificada dentro da mesma transação
	// que vai aplicar os efeitos
	if status != "Upcoming" {
		return nil, ErrAlreadyGraded
	}
	var graded bool
	if err = tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM results WHERE event_id=$1)`, eventID).Scan(&graded); err != nil {
		return nil, err
	}
	if graded {
		return nil, ErrAlreadyGraded
	}

	// Resolve o construtor de cada posição oficial pelo catálogo
	positionTeams, err := resolveTeams(ctx, tx, positions)
	if err != nil {
		return nil, err
	}

	bets, err := loadActiveBets(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}

	table := scoring.TableFor(eventType)

	type gradedBet struct {
		bet     activeBet
		outcome scoring.Outcome
	}
	gradedBets := make([]gradedBet, 0, len(bets))
	perfect := 0
	for _, b := range bets {
		out := scoring.Grade(b.driverPreds, b.teamPreds, positions, positionTeams, b.lockedMultiplier, table)
		if out.Perfect {
			perfect++
		}
		gradedBets = append(gradedBets, gradedBet{bet: b, outcome: out})
	}

	share := pot.Share(poolPrize, perfect)

	winners := make([]WinnerInfo, 0, len(gradedBets))
	for _, g := range gradedBets {
		// Pontos só aumentam; não existe caminho de correção
		if g.outcome.FinalPoints > 0 {
			if _, err = tx.ExecContext(ctx,
				`UPDATE users SET points = points + $1 WHERE id=$2`,
				g.outcome.FinalPoints, g.bet.userID); err != nil {
				return nil, err
			}
		}

		var prize int64
		if g.outcome.Perfect && share > 0 {
			prize = share
			if _, err = tx.ExecContext(ctx,
				`UPDATE users SET balance = balance + $1 WHERE id=$2`,
				prize, g.bet.userID); err != nil {
				return nil, err
			}
		}

		if prize > 0 || g.outcome.FinalPoints > 0 {
			winners = append(winners, WinnerInfo{
				UserID:       g.bet.userID,
				Username:     g.bet.username,
				PrizeAmount:  prize,
				PointsEarned: g.outcome.FinalPoints,
			})
		}
	}

	sort.SliceStable(winners, func(i, j int) bool {
		if winners[i].PrizeAmount != winners[j].PrizeAmount {
			return winners[i].PrizeAmount > winners[j].PrizeAmount
		}
		return winners[i].PointsEarned > winners[j].PointsEarned
	})

	if _, err = tx.ExecContext(ctx, `
		UPDATE bets SET status='Settled', updated_at=NOW()
		WHERE event_id=$1 AND status='Active'`, eventID); err != nil {
		return nil, err
	}

	createdAt := time.Now().UTC()
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO results (event_id, positions, position_teams, total_prize_pool, perfect_matches, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		eventID, pq.Array(positions), pq.Array(positionTeams), poolPrize, perfect, createdAt); err != nil {
		return nil, err
	}
	for _, wi := range winners {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO result_winners (event_id, user_id, username, prize_amount, points_earned)
			VALUES ($1,$2,$3,$4,$5)`,
			eventID, wi.UserID, wi.Username, wi.PrizeAmount, wi.PointsEarned); err != nil {
			return nil, err
		}
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE events SET status='Finished' WHERE id=$1`, eventID); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return &Result{
		EventID:        eventID,
		EventType:      eventType,
		Positions:      positions,
		PositionTeams:  positionTeams,
		Winners:        winners,
		TotalPrizePool: poolPrize,
		PerfectMatches: perfect,
		CreatedAt:      createdAt,
	}, nil
}

// GetResult retorna o resultado oficial de um evento já liquidado
func (p *Postgres) GetResult(ctx context.Context, eventID string) (*Result, error) {
	var res Result
	res.EventID = eventID
	err := p.db.QueryRowContext(ctx, `
		SELECT e.type, r.positions, r.position_teams, r.total_prize_pool, r.perfect_matches, r.created_at
		FROM results r
		JOIN events e ON e.id = r.event_id
		WHERE r.event_id=$1`, eventID).
		Scan(&res.EventType, pq.Array(&res.Positions), pq.Array(&res.PositionTeams), &res.TotalPrizePool, &res.PerfectMatches, &res.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("result for event %s: %w", eventID, ErrNotFound)
	} else if err != nil {
		return nil, err
	}

	rows, err := p.db.QueryContext(ctx, `
		SELECT user_id, username, prize_amount, points_earned
		FROM result_winners
		WHERE event_id=$1
		ORDER BY prize_amount DESC, points_earned DESC`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var wi WinnerInfo
		if err := rows.Scan(&wi.UserID, &wi.Username, &wi.PrizeAmount, &wi.PointsEarned); err != nil {
			return nil, err
		}
		res.Winners = append(res.Winners, wi)
	}
	return &res, rows.Err()
}

// resolveTeams mapeia cada posição oficial para o construtor do piloto.
// Piloto fora do catálogo invalida o resultado.
func resolveTeams(ctx context.Context, tx *sql.Tx, positions []string) ([]string, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, team_id FROM drivers WHERE id = ANY($1)`, pq.Array(positions))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teamOf := make(map[string]string, len(positions))
	for rows.Next() {
		var id, teamID string
		if err := rows.Scan(&id, &teamID); err != nil {
			return nil, err
		}
		teamOf[id] = teamID
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]string, len(positions))
	for i, driverID := range positions {
		teamID, ok := teamOf[driverID]
		if !ok {
			return nil, fmt.Errorf("%w: unknown driver %s", ErrInvalidPositions, driverID)
		}
		out[i] = teamID
	}
	return out, nil
}

// loadActiveBets carrega as apostas Active do evento com lock, junto do
// username do dono (apostas Cancelled nunca são avaliadas)
func loadActiveBets(ctx context.Context, tx *sql.Tx, eventID string) ([]activeBet, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT b.id, b.user_id, u.username, b.driver_predictions, b.team_predictions, b.locked_multiplier
		FROM bets b
		JOIN users u ON u.id = b.user_id
		WHERE b.event_id=$1 AND b.status='Active'
		ORDER BY b.created_at
		FOR UPDATE`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []activeBet
	for rows.Next() {
		var b activeBet
		if err := rows.Scan(&b.id, &b.userID, &b.username,
			pq.Array(&b.driverPreds), pq.Array(&b.teamPreds), &b.lockedMultiplier); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// validatePositions exige exatamente 5 pilotos, sem repetição
func validatePositions(positions []string) error {
	if len(positions) != 5 {
		return fmt.Errorf("%w: exactly 5 positions required", ErrInvalidPositions)
	}
	seen := make(map[string]struct{}, 5)
	for _, id := range positions {
		if id == "" {
			return fmt.Errorf("%w: empty position", ErrInvalidPositions)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate driver %s", ErrInvalidPositions, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
