// cmd/analysis-server/main.go — HTTP JSON API for function analysis
//
// Usage:
//   go run ./cmd/analysis-server -port 8080
//
// Analyze endpoint: POST /analyze
// Report endpoint:  GET  /report/{id}
// Health endpoint:  GET  /health
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/njchilds90/funcanalyze"
)

const maxBodyBytes = 1 << 20 // 1 MiB

type analyzeRequest struct {
	Function string `json:"function"`
	X        string `json:"x,omitempty"`
}

// reportStore keeps completed reports in memory, keyed by report ID.
type reportStore struct {
	mu      sync.RWMutex
	reports map[string]*funcanalyze.Report
}

func newReportStore() *reportStore {
	return &reportStore{reports: map[string]*funcanalyze.Report{}}
}

func (s *reportStore) put(r *funcanalyze.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.ID] = r
}

func (s *reportStore) get(id string) (*funcanalyze.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	return r, ok
}

func main() {
	port := flag.Int("port", 8080, "Port to listen on")
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	analyzer := &funcanalyze.Analyzer{Timeout: funcanalyze.DefaultStageTimeout, Log: log}
	store := newReportStore()

	mux := http.NewServeMux()

	mux.HandleFunc("/analyze", func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic in /analyze", "panic", rec, "stack", string(debug.Stack()))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()

		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		defer r.Body.Close()

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req analyzeRequest
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if dec.More() {
			writeError(w, http.StatusBadRequest, "invalid JSON: trailing data")
			return
		}

		rep, err := analyzer.Analyze(req.Function, req.X)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		store.put(rep)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rep)
	})

	mux.HandleFunc("/report/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		id := r.URL.Path[len("/report/"):]
		rep, ok := store.get(id)
		if !ok {
			writeError(w, http.StatusNotFound, "unknown report id")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rep)
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	addr := fmt.Sprintf(":%d", *port)
	log.Info("analysis server listening", "addr", addr)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
