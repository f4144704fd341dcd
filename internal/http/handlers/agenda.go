package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"lifeboard/internal/i18n"
	"lifeboard/internal/progress"
)

func (a *App) ListTasks(w http.ResponseWriter, r *http.Request) {
	a.writeModule(w, r, progress.ModuleTasks)
}

func (a *App) CreateTask(w http.ResponseWriter, r *http.Request) {
	var t progress.Task
	if !a.decodeEntity(w, r, progress.ModuleTasks, &t) {
		return
	}
	stored, err := a.Progress.AddTask(r.Context(), a.currentUserID(r), t)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, stored)
}

func (a *App) ToggleTask(w http.ResponseWriter, r *http.Request) {
	t, err := a.Progress.ToggleTask(r.Context(), a.currentUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, t)
}

func (a *App) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if _, err := a.Progress.RemoveTask(r.Context(), a.currentUserID(r), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err)
		return
	}
	a.message(w, r, http.StatusOK, i18n.Deleted)
}
