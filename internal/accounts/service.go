// Package accounts registers users, signs them in with a password or a
// Google account, and manages their profile.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"lifeboard/internal/domain"
	"lifeboard/internal/infra/google"
	"lifeboard/internal/progress"
)

// Reasons carried by errors so handlers can pick a message.
var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrMissingFields    = errors.New("missing required fields")
	ErrFederatedOnly    = errors.New("account signs in with google")
	ErrWrongPassword    = errors.New("wrong password")
	ErrFederatedToken   = errors.New("google token rejected")
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenIssuer interface {
	Issue(userID string) (string, time.Time, error)
}

// IdentityVerifier checks a Google ID token.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (google.Identity, error)
}

// Session is the result of a successful sign-in.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
	Created   bool
}

type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// FederatedInput carries the identity a client asserts. When the service has
// an IdentityVerifier, IDToken is required and its claims replace the rest.
type FederatedInput struct {
	FederatedID string
	Name        string
	Email       string
	AvatarURL   string
	IDToken     string
}

type Service struct {
	users    domain.UserRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	verifier IdentityVerifier
	logger   zerolog.Logger
}

// NewService builds the account service. verifier may be nil, in which case
// federated sign-in trusts the identity fields sent by the client.
func NewService(users domain.UserRepository, hasher PasswordHasher, tokens TokenIssuer, verifier IdentityVerifier, logger zerolog.Logger) *Service {
	return &Service{users: users, hasher: hasher, tokens: tokens, verifier: verifier, logger: logger}
}

func validation(reason error) error {
	return fmt.Errorf("%w: %w", domain.ErrValidation, reason)
}

// Register creates a password account with a fresh progress document.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = domain.NormalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" || in.ConfirmPassword == "" {
		return nil, validation(ErrMissingFields)
	}
	if in.Password != in.ConfirmPassword {
		return nil, validation(ErrPasswordMismatch)
	}
	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, fmt.Errorf("email %s: %w", in.Email, domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, upstream("lookup user", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, upstream("hash password", err)
	}
	doc, err := progress.Default().Document()
	if err != nil {
		return nil, upstream("encode progress", err)
	}
	u, err := s.users.Create(ctx, &domain.User{Name: in.Name, Email: in.Email, PasswordHash: hash}, doc)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, upstream("create user", err)
	}
	s.logger.Info().Str("user_id", u.ID).Msg("account registered")
	return u, nil
}

// Login checks a password and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, validation(ErrMissingFields)
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, upstream("lookup user", err)
	}
	if !u.HasPassword() {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidCredential, ErrFederatedOnly)
	}
	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidCredential, ErrWrongPassword)
	}
	return s.session(u, false)
}

// FederatedSignIn signs in with a Google identity. The account already linked
// to the Google id wins, whatever email arrives with it. Otherwise the account
// with the same email signs in, getting the identity linked if it has none,
// or a new account is created.
func (s *Service) FederatedSignIn(ctx context.Context, in FederatedInput) (*Session, error) {
	if s.verifier != nil {
		if strings.TrimSpace(in.IDToken) == "" {
			return nil, validation(ErrMissingFields)
		}
		id, err := s.verifier.Verify(ctx, in.IDToken)
		if err != nil {
			s.logger.Warn().Err(err).Msg("google id token rejected")
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidCredential, ErrFederatedToken)
		}
		in.FederatedID, in.Email = id.Subject, id.Email
		if id.Name != "" {
			in.Name = id.Name
		}
		if id.Picture != "" {
			in.AvatarURL = id.Picture
		}
	}
	in.FederatedID = strings.TrimSpace(in.FederatedID)
	in.Email = domain.NormalizeEmail(in.Email)
	if in.FederatedID == "" || in.Email == "" {
		return nil, validation(ErrMissingFields)
	}

	u, err := s.users.GetByGoogleID(ctx, in.FederatedID)
	switch {
	case err == nil:
		return s.session(u, false)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, upstream("lookup google account", err)
	}

	u, err = s.users.GetByEmail(ctx, in.Email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return s.createFederated(ctx, in)
	case err != nil:
		return nil, upstream("lookup user", err)
	}
	if u.GoogleID == "" {
		u, err = s.users.LinkGoogle(ctx, u.ID, in.FederatedID, in.AvatarURL)
		if err != nil {
			return nil, upstream("link google account", err)
		}
		s.logger.Info().Str("user_id", u.ID).Msg("google account linked")
	}
	return s.session(u, false)
}

func (s *Service) createFederated(ctx context.Context, in FederatedInput) (*Session, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name, _, _ = strings.Cut(in.Email, "@")
	}
	doc, err := progress.Default().Document()
	if err != nil {
		return nil, upstream("encode progress", err)
	}
	u, err := s.users.Create(ctx, &domain.User{
		Name:      name,
		Email:     in.Email,
		GoogleID:  in.FederatedID,
		AvatarURL: in.AvatarURL,
	}, doc)
	if errors.Is(err, domain.ErrConflict) {
		// lost a race with a concurrent first sign-in
		existing, lookupErr := s.users.GetByGoogleID(ctx, in.FederatedID)
		if errors.Is(lookupErr, domain.ErrNotFound) {
			existing, lookupErr = s.users.GetByEmail(ctx, in.Email)
		}
		if lookupErr != nil {
			return nil, upstream("lookup user", lookupErr)
		}
		return s.session(existing, false)
	}
	if err != nil {
		return nil, upstream("create user", err)
	}
	s.logger.Info().Str("user_id", u.ID).Msg("account registered with google")
	return s.session(u, true)
}

func (s *Service) session(u *domain.User, created bool) (*Session, error) {
	token, exp, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, upstream("issue token", err)
	}
	return &Session{Token: token, ExpiresAt: exp, User: u, Created: created}, nil
}

// Profile returns the account of userID.
func (s *Service) Profile(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, upstream("lookup user", err)
	}
	return u, err
}

// UpdateProfile changes the name and avatar. Empty values keep the stored ones.
func (s *Service) UpdateProfile(ctx context.Context, userID string, name, avatarURL string) (*domain.User, error) {
	var update domain.ProfileUpdate
	if v := strings.TrimSpace(name); v != "" {
		update.Name = &v
	}
	if v := strings.TrimSpace(avatarURL); v != "" {
		update.AvatarURL = &v
	}
	u, err := s.users.UpdateProfile(ctx, userID, update)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, upstream("update profile", err)
	}
	return u, err
}

func upstream(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, domain.ErrUpstream)
}
