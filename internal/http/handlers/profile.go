package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lifeboard/internal/domain"
	"lifeboard/internal/i18n"
	"lifeboard/internal/progress"
)

type userResponse struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	AvatarURL    string              `json:"avatarUrl"`
	GoogleLinked bool                `json:"googleLinked"`
	HasPassword  bool                `json:"hasPassword"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
	Progress     *progress.Aggregate `json:"progress,omitempty"`
}

func newUserResponse(u *domain.User, p *progress.Aggregate) userResponse {
	return userResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		AvatarURL:    u.AvatarURL,
		GoogleLinked: u.GoogleID != "",
		HasPassword:  u.HasPassword(),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
		Progress:     p,
	}
}

type profileRequest struct {
	Name       string `json:"name"`
	AvatarURL  string `json:"avatarUrl"`
	FotoPerfil string `json:"fotoPerfil"`
}

func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	a.writeUser(w, r, a.currentUserID(r))
}

// UserByID serves GET /user/{id}. Only the caller's own account is visible.
func (a *App) UserByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id != a.currentUserID(r) {
		a.error(w, r, http.StatusNotFound, "not_found", i18n.UserNotFound)
		return
	}
	a.writeUser(w, r, id)
}

func (a *App) writeUser(w http.ResponseWriter, r *http.Request, userID string) {
	u, err := a.Accounts.Profile(r.Context(), userID)
	if err != nil {
		a.failUser(w, r, err)
		return
	}
	p, err := a.Progress.Aggregate(r.Context(), userID)
	if err != nil {
		a.failUser(w, r, err)
		return
	}
	a.json(w, http.StatusOK, newUserResponse(u, p))
}

func (a *App) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !a.decode(w, r, &req) {
		return
	}
	avatar := firstNonEmpty(req.AvatarURL, req.FotoPerfil)
	if _, err := a.Accounts.UpdateProfile(r.Context(), a.currentUserID(r), req.Name, avatar); err != nil {
		a.failUser(w, r, err)
		return
	}
	a.message(w, r, http.StatusOK, i18n.ProfileUpdated)
}

func (a *App) failUser(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		a.error(w, r, http.StatusNotFound, "not_found", i18n.UserNotFound)
		return
	}
	a.fail(w, r, err)
}
