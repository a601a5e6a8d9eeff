package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/obsidian-exchange/clerk-go/internal/config"
	"github.com/obsidian-exchange/clerk-go/internal/convo"
	"github.com/obsidian-exchange/clerk-go/internal/engine"
	"github.com/obsidian-exchange/clerk-go/internal/history"
	"github.com/obsidian-exchange/clerk-go/internal/llm"
	"github.com/obsidian-exchange/clerk-go/internal/logger"
	"github.com/obsidian-exchange/clerk-go/internal/market"
	"github.com/obsidian-exchange/clerk-go/internal/tools"
)

// session binds one conversation engine to the lock serializing its chains.
// A concurrent chain for the same session must not interleave, so message
// handling takes the lock for the full chain.
type session struct {
	engine *engine.Engine
	mu     sync.Mutex
}

type sessionManager struct {
	mu        sync.Mutex
	sessions  map[string]*session
	newEngine func(sessionID string) *engine.Engine
}

func (m *sessionManager) create() string {
	id := uuid.NewString()
	m.mu.Lock()
	m.sessions[id] = &session{engine: m.newEngine(id)}
	m.mu.Unlock()
	return id
}

func (m *sessionManager) get(id string) (*session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.L.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger.SetLevel(cfg.Log.Level)
	history.SetPath(cfg.History.DBPath)

	client := llm.NewClient(cfg.LLM)
	store := market.NewStore()
	dispatcher := &tools.Dispatcher{Actions: store}

	mgr := &sessionManager{
		sessions: map[string]*session{},
		newEngine: func(id string) *engine.Engine {
			eng := engine.New(client, dispatcher, store.Snapshot, cfg.LLM)
			eng.Transcript().Notify = func(e convo.Entry) { history.Save(id, e) }
			return eng
		},
	}

	r := chi.NewRouter()

	r.Post("/sessions", func(w http.ResponseWriter, req *http.Request) {
		id := mgr.create()
		logger.L.Info("session created", "session", id)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"session_id": id})
	})

	r.Post("/sessions/{id}/messages", func(w http.ResponseWriter, req *http.Request) {
		s, ok := mgr.get(chi.URLParam(req, "id"))
		if !ok {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		body, err := io.ReadAll(req.Body)
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}
		if !s.mu.TryLock() {
			http.Error(w, "session busy", http.StatusConflict)
			return
		}
		defer s.mu.Unlock()

		reply, err := s.engine.Process(req.Context(), string(body))
		if err != nil {
			logger.L.Error("chain failed", "error", err)
			http.Error(w, "failed to process message", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(reply))
	})

	r.Get("/sessions/{id}/transcript", func(w http.ResponseWriter, req *http.Request) {
		s, ok := mgr.get(chi.URLParam(req, "id"))
		if !ok {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.engine.Transcript().Snapshot())
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler: r,
	}

	go func() {
		logger.L.Info("clerk listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.L.Warn("shutdown error", "error", err)
	}
}
