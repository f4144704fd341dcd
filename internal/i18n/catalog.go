// Package i18n holds the user-facing messages of the API in every supported locale.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	Welcome              = "welcome"
	MissingToken         = "missing_token"
	InvalidToken         = "invalid_token"
	MissingFields        = "missing_fields"
	PasswordMismatch     = "password_mismatch"
	EmailTaken           = "email_taken"
	AccountNotFound      = "account_not_found"
	WrongPassword        = "wrong_password"
	FederatedOnly        = "federated_only"
	FederatedFields      = "federated_fields"
	UserNotFound         = "user_not_found"
	ItemNotFound         = "item_not_found"
	UnknownModule        = "unknown_module"
	InvalidBody          = "invalid_body"
	InvalidValue         = "invalid_value"
	InvalidDate          = "invalid_date"
	PhotoTooLarge        = "photo_too_large"
	UploadFailed         = "upload_failed"
	Internal             = "internal"
	TooManyRequests      = "too_many_requests"
	RegisterSuccess      = "register_success"
	LoginSuccess         = "login_success"
	FederatedIDMissing   = "federated_id_missing"
	FederatedTokenDenied = "federated_token_denied"
	MissingPhoto         = "missing_photo"
	UnsupportedPhoto     = "unsupported_photo"
	Deleted              = "deleted"
	ListUpdated          = "list_updated"
	ProfileUpdated       = "profile_updated"
)

var (
	Portuguese = language.BrazilianPortuguese
	English    = language.English

	// Supported lists the locales in matcher preference order.
	Supported = []language.Tag{Portuguese, English}

	matcher = language.NewMatcher(Supported)
	cat     = catalog.NewBuilder(catalog.Fallback(Portuguese))
)

var entries = map[string][2]string{
	Welcome:              {"Bem-vindo à API do Lifeboard!", "Welcome to the Lifeboard API!"},
	MissingToken:         {"Acesso negado!", "Access denied!"},
	InvalidToken:         {"Token inválido!", "Invalid token!"},
	MissingFields:        {"Preencha todos os campos obrigatórios!", "All required fields must be filled in!"},
	PasswordMismatch:     {"As senhas não conferem!", "Passwords do not match!"},
	EmailTaken:           {"Por favor, utilize outro e-mail!", "Please use another email!"},
	AccountNotFound:      {"Usuário não encontrado!", "User not found!"},
	WrongPassword:        {"Senha inválida!", "Invalid password!"},
	FederatedOnly:        {"Esta conta usa login com Google.", "This account signs in with Google."},
	FederatedFields:      {"Dados do Google incompletos.", "Incomplete Google account data."},
	FederatedIDMissing:   {"Identificador do Google ausente.", "Missing Google identifier."},
	FederatedTokenDenied: {"Token do Google inválido.", "Invalid Google token."},
	UserNotFound:         {"Usuário não encontrado!", "User not found!"},
	ItemNotFound:         {"Item não encontrado.", "Item not found."},
	UnknownModule:        {"Módulo desconhecido.", "Unknown module."},
	InvalidBody:          {"Corpo da requisição inválido.", "Invalid request body."},
	InvalidValue:         {"Valor inválido para o módulo.", "Invalid value for the module."},
	InvalidDate:          {"Data inválida, use AAAA-MM-DD.", "Invalid date, use YYYY-MM-DD."},
	PhotoTooLarge:        {"A foto excede o tamanho máximo.", "The photo exceeds the maximum size."},
	UploadFailed:         {"Falha ao enviar a foto.", "Photo upload failed."},
	Internal:             {"Aconteceu um erro no servidor, tente novamente mais tarde!", "Server error, please try again later!"},
	TooManyRequests:      {"Muitas requisições, aguarde um momento.", "Too many requests, slow down."},
	RegisterSuccess:      {"Usuário criado com sucesso!", "User created successfully!"},
	LoginSuccess:         {"Autenticação realizada com sucesso!", "Signed in successfully!"},
	MissingPhoto:         {"Nenhuma foto enviada.", "No photo was sent."},
	UnsupportedPhoto:     {"Envie uma imagem JPEG, PNG, WebP ou HEIC.", "Send a JPEG, PNG, WebP or HEIC image."},
	Deleted:              {"Item excluído.", "Item deleted."},
	ListUpdated:          {"Lista atualizada.", "List updated."},
	ProfileUpdated:       {"Perfil atualizado!", "Profile updated!"},
}

func init() {
	for key, msgs := range entries {
		if err := cat.SetString(Portuguese, key, msgs[0]); err != nil {
			panic(err)
		}
		if err := cat.SetString(English, key, msgs[1]); err != nil {
			panic(err)
		}
	}
}

// Match picks the supported locale closest to the given language preferences,
// e.g. an Accept-Language header value or a bare tag.
func Match(prefs ...string) language.Tag {
	var tags []language.Tag
	for _, p := range prefs {
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	if len(tags) == 0 {
		return Portuguese
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Portuguese
	}
	return Supported[idx]
}

// Locale returns the short form stored in request contexts: "pt" or "en".
func Locale(tag language.Tag) string {
	base, _ := tag.Base()
	if base.String() == "en" {
		return "en"
	}
	return "pt"
}

// Tag reverses Locale.
func Tag(locale string) language.Tag {
	if locale == "en" {
		return English
	}
	return Portuguese
}

// Text returns the message for key in locale, falling back to Portuguese.
func Text(locale, key string) string {
	return message.NewPrinter(Tag(locale), message.Catalog(cat)).Sprintf(key)
}
