package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"lifeboard/internal/accounts"
	"lifeboard/internal/domain"
	"lifeboard/internal/i18n"
)

type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// googleRequest accepts both the mobile app payload (googleId, foto) and the
// newer one (federatedId, avatarUrl, idToken).
type googleRequest struct {
	GoogleID    string `json:"googleId"`
	FederatedID string `json:"federatedId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Foto        string `json:"foto"`
	Avatar      string `json:"avatar"`
	AvatarURL   string `json:"avatarUrl"`
	IDToken     string `json:"idToken"`
	IDTokenAlt  string `json:"id_token"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (a *App) AuthRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !a.decode(w, r, &req) {
		return
	}
	if _, err := a.Accounts.Register(r.Context(), accounts.RegisterInput(req)); err != nil {
		a.fail(w, r, err)
		return
	}
	a.message(w, r, http.StatusCreated, i18n.RegisterSuccess)
}

func (a *App) AuthLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !a.decode(w, r, &req) {
		return
	}
	session, err := a.Accounts.Login(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		a.json(w, http.StatusOK, tokenResponse{Token: session.Token})
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, r, http.StatusUnprocessableEntity, "not_found", i18n.AccountNotFound)
	case errors.Is(err, accounts.ErrFederatedOnly):
		a.error(w, r, http.StatusUnprocessableEntity, "invalid_credential", i18n.FederatedOnly)
	case errors.Is(err, domain.ErrInvalidCredential):
		a.error(w, r, http.StatusNotFound, "invalid_credential", i18n.WrongPassword)
	default:
		a.fail(w, r, err)
	}
}

func (a *App) AuthGoogle(w http.ResponseWriter, r *http.Request) {
	var req googleRequest
	if !a.decode(w, r, &req) {
		return
	}
	in := accounts.FederatedInput{
		FederatedID: firstNonEmpty(req.GoogleID, req.FederatedID),
		Name:        req.Name,
		Email:       req.Email,
		AvatarURL:   firstNonEmpty(req.Foto, req.AvatarURL, req.Avatar),
		IDToken:     firstNonEmpty(req.IDToken, req.IDTokenAlt),
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	session, err := a.Accounts.FederatedSignIn(ctx, in)
	switch {
	case err == nil:
		a.json(w, http.StatusOK, tokenResponse{Token: session.Token})
	case errors.Is(err, domain.ErrValidation):
		a.error(w, r, http.StatusBadRequest, "validation", i18n.FederatedFields)
	default:
		a.fail(w, r, err)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
