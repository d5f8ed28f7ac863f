package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	pcache "github.com/radieske/f1-prediction-poc/internal/prediction-service/cache"
	"github.com/radieske/f1-prediction-poc/internal/prediction-service/dto"
	"github.com/radieske/f1-prediction-poc/internal/prediction-service/repo"
	"github.com/radieske/f1-prediction-poc/pkg/contracts/events"
)

// fakeLedger simula o ledger sem banco
type fakeLedger struct {
	placement    *repo.Placement
	cancellation *repo.Cancellation
	bet          *repo.Bet
	event        *repo.Event
	eventsList   []repo.Event
	standings    []repo.Standing
	err          error
}

func (f *fakeLedger) PlaceBet(_ context.Context, _, _ string, _, _ []string) (*repo.Placement, error) {
	return f.placement, f.err
}
func (f *fakeLedger) CancelBet(_ context.Context, _ string) (*repo.Cancellation, error) {
	return f.cancellation, f.err
}
func (f *fakeLedger) GetBet(_ context.Context, _ string) (*repo.Bet, error) { return f.bet, f.err }
func (f *fakeLedger) GetEvent(_ context.Context, _ string) (*repo.Event, error) {
	return f.event, f.err
}
func (f *fakeLedger) ListEvents(_ context.Context) ([]repo.Event, error) {
	return f.eventsList, f.err
}
func (f *fakeLedger) Leaderboard(_ context.Context, _ int) ([]repo.Standing, error) {
	return f.standings, f.err
}

// fakePublisher captura os eventos publicados
type fakePublisher struct {
	placed    []events.BetPlaced
	cancelled []events.BetCancelled
}

func (f *fakePublisher) PublishBetPlaced(_ context.Context, e events.BetPlaced) error {
	f.placed = append(f.placed, e)
	return nil
}
func (f *fakePublisher) PublishBetCancelled(_ context.Context, e events.BetCancelled) error {
	f.cancelled = append(f.cancelled, e)
	return nil
}

// cache apontando pra lugar nenhum: Get falha e cai no ledger, Set é ignorado
func testCache() *pcache.Cache {
	return pcache.New(redis.NewClient(&redis.Options{Addr: "localhost:1", DialTimeout: 10 * time.Millisecond}))
}

func newTestServer(l Ledger, p Publisher) *Server {
	return NewServer(zap.NewNop(), l, p, testCache())
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPlaceBetSuccess(t *testing.T) {
	ledger := &fakeLedger{
		placement: &repo.Placement{
			Bet: repo.Bet{
				ID:               "bet-1",
				UserID:           "u1",
				EventID:          "e1",
				Stake:            10,
				LockedMultiplier: 5.0,
				Status:           repo.BetActive,
			},
			User:  repo.User{ID: "u1", Username: "ana", Balance: 90, Points: 0},
			Event: repo.Event{ID: "e1", Type: "Main Race", Status: repo.EventUpcoming, BetValue: 10, PoolPrize: 10},
		},
	}
	publ := &fakePublisher{}
	srv := newTestServer(ledger, publ)

	rec := doJSON(t, srv.Router(), http.MethodPost, "/v1/bets", dto.PlaceBetRequest{
		UserID:            "u1",
		EventID:           "e1",
		DriverPredictions: []string{"a", "b", "c", "d", "e"},
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.PlaceBetResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "bet-1", resp.BetID)
	assert.Equal(t, repo.BetActive, resp.Status)
	assert.Equal(t, 5.0, resp.LockedMultiplier)
	assert.Equal(t, int64(90), resp.UpdatedUser.Balance)
	assert.Equal(t, int64(10), resp.UpdatedEvent.PoolPrize)

	require.Len(t, publ.placed, 1)
	assert.Equal(t, "bet-1", publ.placed[0].BetID)
}

func TestPlaceBetMissingIDs(t *testing.T) {
	srv := newTestServer(&fakeLedger{}, &fakePublisher{})

	rec := doJSON(t, srv.Router(), http.MethodPost, "/v1/bets", dto.PlaceBetRequest{UserID: "u1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlaceBetErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"usuário ou evento inexistente", repo.ErrNotFound, http.StatusNotFound},
		{"apostas encerradas", repo.ErrBettingClosed, http.StatusConflict},
		{"saldo insuficiente", repo.ErrInsufficientBalance, http.StatusUnprocessableEntity},
		{"limite de 4 apostas", repo.ErrBetLimitExceeded, http.StatusUnprocessableEntity},
		{"palpites inválidos", repo.ErrInvalidPredictions, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publ := &fakePublisher{}
			srv := newTestServer(&fakeLedger{err: tt.err}, publ)

			rec := doJSON(t, srv.Router(), http.MethodPost, "/v1/bets", dto.PlaceBetRequest{
				UserID:  "u1",
				EventID: "e1",
			})

			assert.Equal(t, tt.want, rec.Code)
			assert.Empty(t, publ.placed, "falha não pode publicar evento")
		})
	}
}

func TestCancelBet(t *testing.T) {
	ledger := &fakeLedger{
		cancellation: &repo.Cancellation{
			BetID:        "bet-1",
			UserID:       "u1",
			EventID:      "e1",
			EventType:    "Main Race",
			RefundAmount: 10,
		},
	}
	publ := &fakePublisher{}
	srv := newTestServer(ledger, publ)

	rec := doJSON(t, srv.Router(), http.MethodPost, "/v1/bets/bet-1/cancel", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.CancelBetResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, repo.BetCancelled, resp.Status)
	assert.Equal(t, int64(10), resp.RefundAmount)

	require.Len(t, publ.cancelled, 1)
	assert.Equal(t, "Main Race", publ.cancelled[0].EventType)
	assert.Equal(t, int64(10), publ.cancelled[0].RefundAmount)
}

func TestCancelBetInvalidState(t *testing.T) {
	publ := &fakePublisher{}
	srv := newTestServer(&fakeLedger{err: repo.ErrInvalidState}, publ)

	rec := doJSON(t, srv.Router(), http.MethodPost, "/v1/bets/bet-1/cancel", nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, publ.cancelled)
}

func TestGetBet(t *testing.T) {
	ledger := &fakeLedger{bet: &repo.Bet{
		ID:               "bet-1",
		UserID:           "u1",
		EventID:          "e1",
		Stake:            10,
		LockedMultiplier: 1.5,
		Status:           repo.BetSettled,
	}}
	srv := newTestServer(ledger, &fakePublisher{})

	rec := doJSON(t, srv.Router(), http.MethodGet, "/v1/bets/bet-1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.BetResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, repo.BetSettled, resp.Status)
	assert.Equal(t, 1.5, resp.LockedMultiplier)
}

func TestMultiplierPreview(t *testing.T) {
	start := time.Now().Add(6 * 24 * time.Hour)
	ledger := &fakeLedger{event: &repo.Event{ID: "e1", ScheduledAt: start, Status: repo.EventUpcoming}}
	srv := newTestServer(ledger, &fakePublisher{})

	rec := doJSON(t, srv.Router(), http.MethodGet, "/v1/events/e1/multiplier", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.MultiplierPreview
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 5.0, resp.Multiplier)
	assert.Greater(t, resp.SecondsToStart, int64(432000))
}

func TestListEventsFallsBackToLedger(t *testing.T) {
	ledger := &fakeLedger{eventsList: []repo.Event{
		{ID: "e1", Type: "Qualifying", Status: repo.EventUpcoming, BetValue: 10, PoolPrize: 30},
	}}
	srv := newTestServer(ledger, &fakePublisher{})

	rec := doJSON(t, srv.Router(), http.MethodGet, "/v1/events", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []dto.EventSnapshot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, int64(30), resp[0].PoolPrize)
}

func TestLeaderboard(t *testing.T) {
	ledger := &fakeLedger{standings: []repo.Standing{
		{UserID: "u1", Username: "ana", Points: 400},
		{UserID: "u2", Username: "bia", Points: 37},
	}}
	srv := newTestServer(ledger, &fakePublisher{})

	rec := doJSON(t, srv.Router(), http.MethodGet, "/v1/leaderboard", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []dto.LeaderboardEntry
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "ana", resp[0].Username)
}
