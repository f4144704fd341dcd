package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"lifeboard/internal/i18n"
	"lifeboard/internal/progress"
)

func (a *App) ListWorkouts(w http.ResponseWriter, r *http.Request) {
	a.writeModule(w, r, progress.ModuleWorkouts)
}

func (a *App) CreateWorkout(w http.ResponseWriter, r *http.Request) {
	var wo progress.Workout
	if !a.decodeEntity(w, r, progress.ModuleWorkouts, &wo) {
		return
	}
	stored, err := a.Progress.AddWorkout(r.Context(), a.currentUserID(r), wo)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, stored)
}

func (a *App) DeleteWorkout(w http.ResponseWriter, r *http.Request) {
	if _, err := a.Progress.RemoveWorkout(r.Context(), a.currentUserID(r), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err)
		return
	}
	a.message(w, r, http.StatusOK, i18n.Deleted)
}
