package handlers

import (
	"errors"
	"net/http"

	"lifeboard/internal/i18n"
	"lifeboard/internal/progress"
)

func (a *App) GetHealth(w http.ResponseWriter, r *http.Request) {
	a.writeModule(w, r, progress.ModuleHealth)
}

// UpsertHealth replaces the record of the day named by its date field.
func (a *App) UpsertHealth(w http.ResponseWriter, r *http.Request) {
	var rec progress.DayHealthRecord
	if !a.decodeEntity(w, r, progress.ModuleHealth, &rec) {
		return
	}
	stored, err := a.Progress.UpsertHealth(r.Context(), a.currentUserID(r), rec.Date, rec)
	if errors.Is(err, progress.ErrInvalidDate) {
		a.error(w, r, http.StatusUnprocessableEntity, "validation", i18n.InvalidDate)
		return
	}
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, stored)
}
