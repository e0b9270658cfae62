package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"merchmagic/internal/adapter/repo"
	"merchmagic/internal/session"
)

// StatsSource reports aggregated generation attempts. Nil when no database is
// configured.
type StatsSource interface {
	SummarySince(ctx context.Context, since time.Time) (*repo.GenerationSummary, error)
}

type App struct {
	Sessions       *session.Coordinator
	Stats          StatsSource
	Model          string
	MaxUploadBytes int64
}

func NewApp(sessions *session.Coordinator, stats StatsSource, model string, maxUpload int64) *App {
	if maxUpload <= 0 {
		maxUpload = 10 << 20
	}
	return &App{Sessions: sessions, Stats: stats, Model: model, MaxUploadBytes: maxUpload}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{"error": errorBody{Code: code, Message: message}})
}
