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

	rcache "github.com/radieske/f1-prediction-poc/internal/results-service/cache"
	"github.com/radieske/f1-prediction-poc/internal/results-service/dto"
	"github.com/radieske/f1-prediction-poc/internal/results-service/repo"
	"github.com/radieske/f1-prediction-poc/pkg/contracts/events"
)

// fakeSettler simula o repositório de liquidação sem banco
type fakeSettler struct {
	result *repo.Result
	err    error
}

func (f *fakeSettler) SettleEvent(_ context.Context, _ string, _ []string) (*repo.Result, error) {
	return f.result, f.err
}
func (f *fakeSettler) GetResult(_ context.Context, _ string) (*repo.Result, error) {
	return f.result, f.err
}

type fakePublisher struct {
	settled []events.EventSettled
}

func (f *fakePublisher) PublishEventSettled(_ context.Context, e events.EventSettled) error {
	f.settled = append(f.settled, e)
	return nil
}

// cache apontando pra lugar nenhum: Get falha e cai no repositório
func testCache() *rcache.Cache {
	return rcache.New(redis.NewClient(&redis.Options{Addr: "localhost:1", DialTimeout: 10 * time.Millisecond}))
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

func TestSubmitResultSuccess(t *testing.T) {
	settler := &fakeSettler{result: &repo.Result{
		EventID:       "e1",
		EventType:     "Main Race",
		Positions:     []string{"d1", "d2", "d3", "d4", "d5"},
		PositionTeams: []string{"t1", "t1", "t2", "t2", "t3"},
		Winners: []repo.WinnerInfo{
			{UserID: "u1", Username: "ana", PrizeAmount: 10, PointsEarned: 400},
			{UserID: "u2", Username: "bia", PrizeAmount: 0, PointsEarned: 37},
		},
		TotalPrizePool: 20,
		PerfectMatches: 1,
	}}
	publ := &fakePublisher{}
	srv := NewServer(zap.NewNop(), settler, publ, testCache())

	rec := doJSON(t, srv.Router(), http.MethodPost, "/v1/events/e1/result",
		dto.SubmitResultRequest{Positions: []string{"d1", "d2", "d3", "d4", "d5"}})

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp repo.Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "e1", resp.EventID)
	assert.Equal(t, 1, resp.PerfectMatches)
	require.Len(t, resp.Winners, 2)
	assert.Equal(t, "ana", resp.Winners[0].Username)

	require.Len(t, publ.settled, 1)
	assert.Equal(t, 1, publ.settled[0].PerfectMatches)
	assert.Equal(t, int64(20), publ.settled[0].TotalPrizePool)
	require.Len(t, publ.settled[0].Winners, 2)
	assert.Equal(t, int64(400), publ.settled[0].Winners[0].PointsEarned)
}

func TestSubmitResultErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"evento inexistente", repo.ErrNotFound, http.StatusNotFound},
		{"top-5 inválido", repo.ErrInvalidPositions, http.StatusBadRequest},
		{"já liquidado", repo.ErrAlreadyGraded, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publ := &fakePublisher{}
			srv := NewServer(zap.NewNop(), &fakeSettler{err: tt.err}, publ, testCache())

			rec := doJSON(t, srv.Router(), http.MethodPost, "/v1/events/e1/result",
				dto.SubmitResultRequest{Positions: []string{"d1", "d2", "d3", "d4", "d5"}})

			assert.Equal(t, tt.want, rec.Code)
			assert.Empty(t, publ.settled, "falha não pode publicar evento")
		})
	}
}

func TestGetResult(t *testing.T) {
	settler := &fakeSettler{result: &repo.Result{
		EventID:        "e1",
		EventType:      "Sprint",
		Positions:      []string{"d1", "d2", "d3", "d4", "d5"},
		TotalPrizePool: 0,
		PerfectMatches: 0,
	}}
	srv := NewServer(zap.NewNop(), settler, &fakePublisher{}, testCache())

	rec := doJSON(t, srv.Router(), http.MethodGet, "/v1/events/e1/result", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp repo.Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Sprint", resp.EventType)
	assert.Empty(t, resp.Winners)
}

func TestGetResultNotFound(t *testing.T) {
	srv := NewServer(zap.NewNop(), &fakeSettler{err: repo.ErrNotFound}, &fakePublisher{}, testCache())

	rec := doJSON(t, srv.Router(), http.MethodGet, "/v1/events/e1/result", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
