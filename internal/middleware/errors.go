package middleware

import (
	"encoding/json"
	"net/http"

	"lifeboard/internal/i18n"
)

// ErrorBody is the failure envelope of every endpoint.
type ErrorBody struct {
	Msg  string `json:"msg"`
	Code string `json:"code"`
}

// WriteError writes the envelope with the message for key in the request locale.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, key string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorBody{
		Msg:  i18n.Text(LocaleFromContext(r.Context()), key),
		Code: code,
	})
}
