package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"lifeboard/internal/accounts"
	"lifeboard/internal/domain"
	"lifeboard/internal/i18n"
	"lifeboard/internal/middleware"
	"lifeboard/internal/progress"
)

// DefaultMaxUploadBytes bounds a diary upload when App.MaxUploadBytes is unset.
const DefaultMaxUploadBytes = 10 << 20

const maxJSONBytes = 1 << 20

type App struct {
	Accounts       *accounts.Service
	Progress       *progress.Service
	Logger         zerolog.Logger
	MaxUploadBytes int64
}

func NewApp(accountSvc *accounts.Service, progressSvc *progress.Service, logger zerolog.Logger) *App {
	return &App{
		Accounts:       accountSvc,
		Progress:       progressSvc,
		Logger:         logger,
		MaxUploadBytes: DefaultMaxUploadBytes,
	}
}

type messageResponse struct {
	Msg string `json:"msg"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// rawJSON writes an already encoded value.
func (a *App) rawJSON(w http.ResponseWriter, code int, raw json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(raw)
	_, _ = w.Write([]byte("\n"))
}

func (a *App) message(w http.ResponseWriter, r *http.Request, code int, key string) {
	a.json(w, code, messageResponse{Msg: i18n.Text(middleware.LocaleFromContext(r.Context()), key)})
}

func (a *App) error(w http.ResponseWriter, r *http.Request, status int, code, key string) {
	middleware.WriteError(w, r, status, code, key)
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

// fail maps a service error onto the failure envelope.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownModule):
		a.error(w, r, http.StatusNotFound, "unknown_module", i18n.UnknownModule)
	case errors.Is(err, domain.ErrValidation):
		a.error(w, r, http.StatusUnprocessableEntity, "validation", validationKey(err))
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, r, http.StatusUnauthorized, "unauthorized", i18n.MissingToken)
	case errors.Is(err, domain.ErrInvalidCredential):
		key := i18n.InvalidToken
		if errors.Is(err, accounts.ErrFederatedToken) {
			key = i18n.FederatedTokenDenied
		}
		a.error(w, r, http.StatusBadRequest, "invalid_credential", key)
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, r, http.StatusNotFound, "not_found", i18n.ItemNotFound)
	case errors.Is(err, domain.ErrConflict):
		a.error(w, r, http.StatusUnprocessableEntity, "conflict", i18n.EmailTaken)
	default:
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		a.error(w, r, http.StatusInternalServerError, "internal", i18n.Internal)
	}
}

func validationKey(err error) string {
	switch {
	case errors.Is(err, accounts.ErrPasswordMismatch):
		return i18n.PasswordMismatch
	case errors.Is(err, accounts.ErrMissingFields):
		return i18n.MissingFields
	default:
		return i18n.InvalidValue
	}
}

// readBody returns the request body, or "{}" when it is empty.
func readBody(w http.ResponseWriter, r *http.Request) (json.RawMessage, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBytes))
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid(raw) {
		return nil, errors.New("malformed json")
	}
	return raw, nil
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	raw, err := readBody(w, r)
	if err == nil {
		err = json.Unmarshal(raw, v)
	}
	if err != nil {
		a.error(w, r, http.StatusUnprocessableEntity, "validation", i18n.InvalidBody)
		return false
	}
	return true
}

// decodeEntity reads one entity of module m, accepting legacy field names.
func (a *App) decodeEntity(w http.ResponseWriter, r *http.Request, m progress.Module, v any) bool {
	raw, err := readBody(w, r)
	if err == nil {
		raw, err = progress.LegacyInput(m, raw)
	}
	if err == nil {
		err = json.Unmarshal(raw, v)
	}
	if err != nil {
		a.error(w, r, http.StatusUnprocessableEntity, "validation", i18n.InvalidBody)
		return false
	}
	return true
}
