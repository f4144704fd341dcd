package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lifeboard/internal/i18n"
	"lifeboard/internal/progress"
	"lifeboard/pkg/zip"
)

func (a *App) GetProgress(w http.ResponseWriter, r *http.Request) {
	p, err := a.Progress.Aggregate(r.Context(), a.currentUserID(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, p)
}

func (a *App) GetModule(w http.ResponseWriter, r *http.Request) {
	m, err := progress.ParseModule(chi.URLParam(r, "module"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.writeModule(w, r, m)
}

// writeModule serves the stored value of one module. List routes use it too,
// so a replaced module reads back exactly as it was written.
func (a *App) writeModule(w http.ResponseWriter, r *http.Request, m progress.Module) {
	raw, err := a.Progress.Get(r.Context(), a.currentUserID(r), m)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.rawJSON(w, http.StatusOK, raw)
}

// PutModule overwrites a whole module with the request body, as is.
func (a *App) PutModule(w http.ResponseWriter, r *http.Request) {
	m, err := progress.ParseModule(chi.URLParam(r, "module"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		a.error(w, r, http.StatusUnprocessableEntity, "validation", i18n.InvalidBody)
		return
	}
	stored, err := a.Progress.Replace(r.Context(), a.currentUserID(r), m, body)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.rawJSON(w, http.StatusOK, stored)
}

// ExportProgress serves the document as a zip with one JSON file per module.
func (a *App) ExportProgress(w http.ResponseWriter, r *http.Request) {
	p, err := a.Progress.Aggregate(r.Context(), a.currentUserID(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	now := time.Now().UTC()
	entries := make([]zip.Entry, 0, len(progress.Modules))
	for _, m := range progress.Modules {
		raw, err := p.Get(m)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		entries = append(entries, zip.Entry{Name: string(m) + ".json", Data: raw, Modified: now})
	}
	data, err := zip.Archive(entries)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="progress-%s.zip"`, now.Format("20060102")))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
