package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"lifeboard/internal/i18n"
	"lifeboard/internal/progress"
)

func (a *App) ListTransactions(w http.ResponseWriter, r *http.Request) {
	a.writeModule(w, r, progress.ModuleFinances)
}

func (a *App) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var t progress.Transaction
	if !a.decodeEntity(w, r, progress.ModuleFinances, &t) {
		return
	}
	stored, err := a.Progress.AddTransaction(r.Context(), a.currentUserID(r), t)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, stored)
}

func (a *App) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if _, err := a.Progress.RemoveTransaction(r.Context(), a.currentUserID(r), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err)
		return
	}
	a.message(w, r, http.StatusOK, i18n.Deleted)
}

func (a *App) FinanceSummary(w http.ResponseWriter, r *http.Request) {
	s, err := a.Progress.Summary(r.Context(), a.currentUserID(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, s)
}
