package handlers

import (
	"encoding/json"
	"net/http"

	"lifeboard/internal/i18n"
	"lifeboard/internal/progress"
)

type subjectListRequest struct {
	Subjects json.RawMessage `json:"subjects"`
	Materias json.RawMessage `json:"materias"`
}

func (a *App) ListSubjects(w http.ResponseWriter, r *http.Request) {
	a.writeModule(w, r, progress.ModuleStudySubjects)
}

func (a *App) CreateSubject(w http.ResponseWriter, r *http.Request) {
	var s progress.Subject
	if !a.decodeEntity(w, r, progress.ModuleStudySubjects, &s) {
		return
	}
	stored, err := a.Progress.AddSubject(r.Context(), a.currentUserID(r), s)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, stored)
}

// ReplaceSubjects stores a client-ordered subject list without re-deriving hours.
func (a *App) ReplaceSubjects(w http.ResponseWriter, r *http.Request) {
	var req subjectListRequest
	if !a.decode(w, r, &req) {
		return
	}
	raw := req.Subjects
	if isNullJSON(raw) {
		raw = req.Materias
	}
	var subjects []progress.Subject
	if !isNullJSON(raw) {
		mapped, err := progress.LegacyInput(progress.ModuleStudySubjects, raw)
		if err == nil {
			err = json.Unmarshal(mapped, &subjects)
		}
		if err != nil {
			a.error(w, r, http.StatusUnprocessableEntity, "validation", i18n.InvalidBody)
			return
		}
	}
	if _, err := a.Progress.ReplaceSubjects(r.Context(), a.currentUserID(r), subjects); err != nil {
		a.fail(w, r, err)
		return
	}
	a.message(w, r, http.StatusOK, i18n.ListUpdated)
}

func (a *App) ListStudyHistory(w http.ResponseWriter, r *http.Request) {
	a.writeModule(w, r, progress.ModuleStudyHistory)
}

func (a *App) CreateStudySession(w http.ResponseWriter, r *http.Request) {
	var s progress.StudySession
	if !a.decodeEntity(w, r, progress.ModuleStudyHistory, &s) {
		return
	}
	stored, err := a.Progress.AddStudySession(r.Context(), a.currentUserID(r), s)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, stored)
}

func isNullJSON(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
