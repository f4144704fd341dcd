package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"lifeboard/internal/i18n"
	"lifeboard/internal/progress"
)

func (a *App) ListHabits(w http.ResponseWriter, r *http.Request) {
	a.writeModule(w, r, progress.ModuleHabits)
}

func (a *App) CreateHabit(w http.ResponseWriter, r *http.Request) {
	var h progress.Habit
	if !a.decodeEntity(w, r, progress.ModuleHabits, &h) {
		return
	}
	stored, err := a.Progress.AddHabit(r.Context(), a.currentUserID(r), h)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, stored)
}

// ToggleHabit flips the completed flag and moves the streak with it.
func (a *App) ToggleHabit(w http.ResponseWriter, r *http.Request) {
	h, err := a.Progress.ToggleHabit(r.Context(), a.currentUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, h)
}

func (a *App) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	if _, err := a.Progress.RemoveHabit(r.Context(), a.currentUserID(r), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err)
		return
	}
	a.message(w, r, http.StatusOK, i18n.Deleted)
}
