package handlers

import (
	"net/http"

	"lifeboard/internal/i18n"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) Welcome(w http.ResponseWriter, r *http.Request) {
	a.message(w, r, http.StatusOK, i18n.Welcome)
}
