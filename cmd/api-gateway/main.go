package main

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"

	"go.uber.org/zap"

	"github.com/radieske/f1-prediction-poc/internal/shared/config"
	"github.com/radieske/f1-prediction-poc/internal/shared/logger"
)

func rp(to string) *httputil.ReverseProxy {
	u, _ := url.Parse(to)
	return httputil.NewSingleHostReverseProxy(u)
}

func main() {
	cfg := config.Load()
	log, _ := logger.New("api-gateway", cfg.Env)
	defer log.Sync()

	// targets
	predictionsURL := os.Getenv("PREDICTIONS_URL")
	if predictionsURL == "" {
		predictionsURL = "http://localhost:8083"
	}
	resultsURL := os.Getenv("RESULTS_URL")
	if resultsURL == "" {
		resultsURL = "http://localhost:8084"
	}
	predictions := rp(predictionsURL)
	results := rp(resultsURL)

	mux := http.NewServeMux()

	// apostas e read models (ex.: /api/predictions/* -> prediction-service)
	mux.Handle("/api/predictions/", http.StripPrefix("/api/predictions", predictions))

	// resultados oficiais (ex.: /api/results/* -> results-service)
	mux.Handle("/api/results/", http.StripPrefix("/api/results", results))

	addr := ":" + cfg.HTTPPort
	log.Info("api-gateway listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, withCORS(mux)); err != nil && err != http.ErrServerClosed {
		log.Fatal("gateway failed", zap.Error(err))
	}
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}
