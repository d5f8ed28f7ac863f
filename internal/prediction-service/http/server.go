package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	pcache "github.com/radieske/f1-prediction-poc/internal/prediction-service/cache"
	"github.com/radieske/f1-prediction-poc/internal/prediction-service/dto"
	"github.com/radieske/f1-prediction-poc/internal/prediction-service/multiplier"
	"github.com/radieske/f1-prediction-poc/internal/prediction-service/repo"
	"github.com/radieske/f1-prediction-poc/pkg/contracts/events"
)

// Ledger define as operações de apostas usadas pelo handler HTTP
type Ledger interface {
	PlaceBet(ctx context.Context, userID, eventID string, driverPreds, teamPreds []string) (*repo.Placement, error)
	CancelBet(ctx context.Context, betID string) (*repo.Cancellation, error)
	GetBet(ctx context.Context, betID string) (*repo.Bet, error)
	GetEvent(ctx context.Context, eventID string) (*repo.Event, error)
	ListEvents(ctx context.Context) ([]repo.Event, error)
	Leaderboard(ctx context.Context, limit int) ([]repo.Standing, error)
}

// Publisher publica eventos do ledger no Kafka (pós-commit, fire-and-forget)
type Publisher interface {
	PublishBetPlaced(ctx context.Context, e events.BetPlaced) error
	PublishBetCancelled(ctx context.Context, e events.BetCancelled) error
}

// Server expõe a API REST de apostas de palpite
type Server struct {
	log    *zap.Logger
	ledger Ledger
	publ   Publisher
	cache  *pcache.Cache
	now    func() time.Time

	// métricas (counter++), opcionais
	OnPlaced    func()
	OnCancelled func()
}

// NewServer instancia o servidor HTTP do prediction-service
func NewServer(log *zap.Logger, l Ledger, p Publisher, c *pcache.Cache) *Server {
	return &Server{log: log, ledger: l, publ: p, cache: c, now: time.Now}
}

// Router retorna o roteador com as rotas públicas
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Post("/v1/bets", s.placeBet)
	r.Post("/v1/bets/{id}/cancel", s.cancelBet)
	r.Get("/v1/bets/{id}", s.getBet)
	r.Get("/v1/events", s.listEvents)
	r.Get("/v1/events/{id}/multiplier", s.multiplierPreview)
	r.Get("/v1/leaderboard", s.leaderboard)
	return r
}

// placeBet coloca uma aposta. Qualquer falha aborta sem efeito parcial.
func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.UserID == "" || req.EventID == "" {
		writeError(w, http.StatusBadRequest, "userId and eventId required")
		return
	}

	pl, err := s.ledger.PlaceBet(r.Context(), req.UserID, req.EventID, req.DriverPredictions, req.TeamPredictions)
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}

	if s.OnPlaced != nil {
		s.OnPlaced()
	}

	// Publica bet_placed fora da transação; entrega não garante nada aqui
	_ = s.publ.PublishBetPlaced(r.Context(), events.BetPlaced{
		BetID:            pl.Bet.ID,
		UserID:           pl.Bet.UserID,
		EventID:          pl.Bet.EventID,
		Stake:            pl.Bet.Stake,
		LockedMultiplier: pl.Bet.LockedMultiplier,
	})

	writeJSON(w, http.StatusCreated, dto.PlaceBetResponse{
		BetID:            pl.Bet.ID,
		Status:           pl.Bet.Status,
		LockedMultiplier: pl.Bet.LockedMultiplier,
		UpdatedUser: dto.UserSnapshot{
			UserID:   pl.User.ID,
			Username: pl.User.Username,
			Balance:  pl.User.Balance,
			Points:   pl.User.Points,
		},
		UpdatedEvent: eventSnapshot(pl.Event),
	})
}

// cancelBet estorna uma aposta Active
func (s *Server) cancelBet(w http.ResponseWriter, r *http.Request) {
	betID := chi.URLParam(r, "id")

	c, err := s.ledger.CancelBet(r.Context(), betID)
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}

	if s.OnCancelled != nil {
		s.OnCancelled()
	}

	// O notification-worker avisa o usuário a partir deste evento
	_ = s.publ.PublishBetCancelled(r.Context(), events.BetCancelled{
		BetID:        c.BetID,
		UserID:       c.UserID,
		EventID:      c.EventID,
		EventType:    c.EventType,
		RefundAmount: c.RefundAmount,
	})

	writeJSON(w, http.StatusOK, dto.CancelBetResponse{
		BetID:        c.BetID,
		Status:       repo.BetCancelled,
		RefundAmount: c.RefundAmount,
	})
}

// getBet retorna o estado atual de uma aposta
func (s *Server) getBet(w http.ResponseWriter, r *http.Request) {
	b, err := s.ledger.GetBet(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.BetResponse{
		BetID:             b.ID,
		UserID:            b.UserID,
		EventID:           b.EventID,
		DriverPredictions: b.DriverPredictions,
		TeamPredictions:   b.TeamPredictions,
		Stake:             b.Stake,
		LockedMultiplier:  b.LockedMultiplier,
		Status:            b.Status,
	})
}

// listEvents lista os eventos, preferencialmente do cache
func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	var cached []dto.EventSnapshot
	if ok, _ := s.cache.Get(r.Context(), pcache.KeyEvents, &cached); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	evs, err := s.ledger.ListEvents(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]dto.EventSnapshot, 0, len(evs))
	for _, ev := range evs {
		out = append(out, eventSnapshot(ev))
	}

	_ = s.cache.Set(r.Context(), pcache.KeyEvents, out, 30*time.Second)
	writeJSON(w, http.StatusOK, out)
}

// multiplierPreview calcula o multiplicador corrente de um evento para
// apostas ainda não colocadas
func (s *Server) multiplierPreview(w http.ResponseWriter, r *http.Request) {
	ev, err := s.ledger.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}

	now := s.now()
	writeJSON(w, http.StatusOK, dto.MultiplierPreview{
		EventID:        ev.ID,
		Multiplier:     multiplier.Lock(ev.ScheduledAt, now),
		SecondsToStart: int64(ev.ScheduledAt.Sub(now).Seconds()),
	})
}

// leaderboard retorna o ranking geral por pontos
func (s *Server) leaderboard(w http.ResponseWriter, r *http.Request) {
	var cached []dto.LeaderboardEntry
	if ok, _ := s.cache.Get(r.Context(), pcache.KeyLeaderboard, &cached); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	standings, err := s.ledger.Leaderboard(r.Context(), 100)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]dto.LeaderboardEntry, 0, len(standings))
	for _, st := range standings {
		out = append(out, dto.LeaderboardEntry{UserID: st.UserID, Username: st.Username, Points: st.Points})
	}

	_ = s.cache.Set(r.Context(), pcache.KeyLeaderboard, out, 30*time.Second)
	writeJSON(w, http.StatusOK, out)
}

// writeLedgerError mapeia os erros do ledger para status HTTP.
// Nenhum erro é re-tentado aqui; quem chamou decide.
func (s *Server) writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repo.ErrInvalidPredictions):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repo.ErrBettingClosed), errors.Is(err, repo.ErrInvalidState):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, repo.ErrInsufficientBalance), errors.Is(err, repo.ErrBetLimitExceeded):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.log.Error("ledger", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func eventSnapshot(ev repo.Event) dto.EventSnapshot {
	return dto.EventSnapshot{
		EventID:     ev.ID,
		RoundID:     ev.RoundID,
		Type:        ev.Type,
		ScheduledAt: ev.ScheduledAt,
		Status:      ev.Status,
		BetValue:    ev.BetValue,
		PoolPrize:   ev.PoolPrize,
	}
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.ErrorResponse{Error: msg})
}
