package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	rcache "github.com/radieske/f1-prediction-poc/internal/results-service/cache"
	"github.com/radieske/f1-prediction-poc/internal/results-service/dto"
	"github.com/radieske/f1-prediction-poc/internal/results-service/repo"
	"github.com/radieske/f1-prediction-poc/pkg/contracts/events"
)

// Settler define a operação de liquidação usada pelo handler HTTP
type Settler interface {
	SettleEvent(ctx context.Context, eventID string, positions []string) (*repo.Result, error)
	GetResult(ctx context.Context, eventID string) (*repo.Result, error)
}

// Publisher publica o evento de liquidação no Kafka (pós-commit)
type Publisher interface {
	PublishEventSettled(ctx context.Context, e events.EventSettled) error
}

// Server expõe a API administrativa de resultados
type Server struct {
	log    *zap.Logger
	settle Settler
	publ   Publisher
	cache  *rcache.Cache

	// métrica (counter++), opcional
	OnSettled func()
}

// NewServer instancia o servidor HTTP do results-service
func NewServer(log *zap.Logger, s Settler, p Publisher, c *rcache.Cache) *Server {
	return &Server{log: log, settle: s, publ: p, cache: c}
}

// Router retorna o roteador com as rotas de resultado
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Post("/v1/events/{id}/result", s.submitResult)
	r.Get("/v1/events/{id}/result", s.getResult)
	return r
}

// submitResult liquida um evento com o resultado oficial.
// A liquidação inteira (notas, jackpot, status) é uma transação única no
// repositório; aqui só mapeamos erro e publicamos o evento após o commit.
func (s *Server) submitResult(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")

	var req dto.SubmitResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	res, err := s.settle.SettleEvent(r.Context(), eventID, req.Positions)
	if err != nil {
		s.writeSettleError(w, err)
		return
	}

	if s.OnSettled != nil {
		s.OnSettled()
	}

	s.log.Info("event settled",
		zap.String("eventId", res.EventID),
		zap.Int64("totalPrizePool", res.TotalPrizePool),
		zap.Int("winners", len(res.Winners)),
	)

	// Publica event_settled fora da transação (notificações saem daqui)
	settled := events.EventSettled{
		EventID:        res.EventID,
		EventType:      res.EventType,
		TotalPrizePool: res.TotalPrizePool,
		PerfectMatches: res.PerfectMatches,
		Winners:        make([]events.SettledWinner, 0, len(res.Winners)),
	}
	for _, wi := range res.Winners {
		settled.Winners = append(settled.Winners, events.SettledWinner{
			UserID:       wi.UserID,
			Username:     wi.Username,
			PrizeAmount:  wi.PrizeAmount,
			PointsEarned: wi.PointsEarned,
		})
	}
	_ = s.publ.PublishEventSettled(r.Context(), settled)

	// Resultado é imutável: pode ficar em cache por bastante tempo
	_ = s.cache.SetResult(r.Context(), eventID, res, 10*time.Minute)

	writeJSON(w, http.StatusCreated, res)
}

// getResult retorna o resultado de um evento, preferencialmente do cache
func (s *Server) getResult(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")

	var cached repo.Result
	if ok, _ := s.cache.GetResult(r.Context(), eventID, &cached); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	res, err := s.settle.GetResult(r.Context(), eventID)
	if err != nil {
		s.writeSettleError(w, err)
		return
	}

	_ = s.cache.SetResult(r.Context(), eventID, res, 10*time.Minute)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) writeSettleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repo.ErrInvalidPositions):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repo.ErrAlreadyGraded):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.log.Error("settlement", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
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
