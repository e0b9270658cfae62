package handlers

import (
	"net/http"

	"merchmagic/internal/catalog"
)

func (a *App) Templates(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"templates":  catalog.Templates(),
		"default_id": catalog.Default().ID,
	})
}

func (a *App) EditSuggestions(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"suggestions": catalog.EditSuggestions()})
}
