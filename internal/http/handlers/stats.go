package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// StatsSummary reports generate/edit outcomes over the last ?hours (default 24).
func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	if a.Stats == nil {
		a.error(w, http.StatusServiceUnavailable, "stats_unavailable", "database is not configured")
		return
	}
	hours := 24
	if raw := r.URL.Query().Get("hours"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 24*90 {
			a.error(w, http.StatusBadRequest, "bad_request", "hours must be between 1 and 2160")
			return
		}
		hours = n
	}
	since := time.Now().Add(-time.Duration(hours) * time.Hour)
	sum, err := a.Stats.SummarySince(r.Context(), since)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("load generation stats")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load stats")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"since":     sum.Since,
		"hours":     hours,
		"succeeded": sum.Succeeded,
		"failed":    sum.Failed,
	})
}
