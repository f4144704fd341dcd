package accounts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"lifeboard/internal/adapter/repo"
	"lifeboard/internal/domain"
	"lifeboard/internal/infra/google"
	"lifeboard/internal/progress"
	"lifeboard/internal/security"
)

type fixture struct {
	svc    *Service
	store  *repo.Memory
	tokens *security.TokenIssuer
}

func newFixture(t *testing.T, verifier IdentityVerifier) fixture {
	t.Helper()
	store := repo.NewMemory()
	tokens := security.NewTokenIssuer("test-secret", "lifeboard", "lifeboard-app", time.Hour)
	svc := NewService(store, security.NewHasher(bcrypt.MinCost), tokens, verifier, zerolog.Nop())
	return fixture{svc: svc, store: store, tokens: tokens}
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	u, err := f.svc.Register(ctx, RegisterInput{Name: "A", Email: "A@x.com", Password: "p", ConfirmPassword: "p"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)
	assert.NotEqual(t, "p", u.PasswordHash)

	a, err := f.store.Load(ctx, u.ID)
	require.NoError(t, err)
	got, err := a.Document()
	require.NoError(t, err)
	want, err := progress.Default().Document()
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))

	_, err = f.svc.Login(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredential)
	assert.ErrorIs(t, err, ErrWrongPassword)

	session, err := f.svc.Login(ctx, "A@X.COM", "p")
	require.NoError(t, err)
	sub, err := f.tokens.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, sub)
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	cases := map[string]RegisterInput{
		"mismatch":      {Name: "A", Email: "a@x.com", Password: "p", ConfirmPassword: "q"},
		"missing name":  {Email: "a@x.com", Password: "p", ConfirmPassword: "p"},
		"missing email": {Name: "A", Password: "p", ConfirmPassword: "p"},
		"missing pass":  {Name: "A", Email: "a@x.com"},
	}
	for name, in := range cases {
		_, err := f.svc.Register(ctx, in)
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: err = %v, want ErrValidation", name, err)
		}
	}

	_, err := f.svc.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "p", ConfirmPassword: "p"})
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, RegisterInput{Name: "B", Email: "A@X.com", Password: "p", ConfirmPassword: "p"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestLoginUnknownAccount(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.Login(context.Background(), "ghost@x.com", "p")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.Login(context.Background(), "", "p")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFederatedSignIn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	first, err := f.svc.FederatedSignIn(ctx, FederatedInput{FederatedID: "g-1", Name: "Ana", Email: "ana@x.com", AvatarURL: "https://img/1.png"})
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.False(t, first.User.HasPassword())

	again, err := f.svc.FederatedSignIn(ctx, FederatedInput{FederatedID: "g-1", Email: "ana@x.com"})
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Equal(t, first.User.ID, again.User.ID)

	_, err = f.svc.Login(ctx, "ana@x.com", "anything")
	assert.ErrorIs(t, err, ErrFederatedOnly)

	_, err = f.svc.FederatedSignIn(ctx, FederatedInput{Email: "ana@x.com"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFederatedSignInLinksExistingEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	u, err := f.svc.Register(ctx, RegisterInput{Name: "Bia", Email: "bia@x.com", Password: "p", ConfirmPassword: "p"})
	require.NoError(t, err)

	s, err := f.svc.FederatedSignIn(ctx, FederatedInput{FederatedID: "g-2", Email: "BIA@x.com", AvatarURL: "https://img/b.png"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, s.User.ID)
	assert.Equal(t, "g-2", s.User.GoogleID)
	assert.Equal(t, "https://img/b.png", s.User.AvatarURL)

	_, err = f.svc.Login(ctx, "bia@x.com", "p")
	assert.NoError(t, err)
}

func TestFederatedSignInPrefersLinkedGoogleID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	first, err := f.svc.FederatedSignIn(ctx, FederatedInput{FederatedID: "g-1", Email: "old@x.com"})
	require.NoError(t, err)
	other, err := f.svc.Register(ctx, RegisterInput{Name: "Other", Email: "new@x.com", Password: "p", ConfirmPassword: "p"})
	require.NoError(t, err)

	// the Google account changed its email to one another user registered
	s, err := f.svc.FederatedSignIn(ctx, FederatedInput{FederatedID: "g-1", Email: "new@x.com"})
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, s.User.ID)
	assert.False(t, s.Created)

	untouched, err := f.store.GetByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, untouched.GoogleID, "the other account must not be linked")

	s, err = f.svc.FederatedSignIn(ctx, FederatedInput{FederatedID: "g-1", Email: "fresh@x.com"})
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, s.User.ID)
	_, err = f.store.GetByEmail(ctx, "fresh@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound, "no duplicate account is created")
}

func TestFederatedSignInKeepsExistingLink(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	first, err := f.svc.FederatedSignIn(ctx, FederatedInput{FederatedID: "g-1", Email: "ana@x.com"})
	require.NoError(t, err)

	s, err := f.svc.FederatedSignIn(ctx, FederatedInput{FederatedID: "g-2", Email: "ana@x.com"})
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, s.User.ID)

	u, err := f.store.GetByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, "g-1", u.GoogleID)
}

type fakeVerifier struct {
	id  google.Identity
	err error
}

func (v fakeVerifier) Verify(context.Context, string) (google.Identity, error) { return v.id, v.err }

func TestFederatedSignInWithVerifier(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fakeVerifier{id: google.Identity{Subject: "g-9", Email: "real@x.com", Name: "Real"}})

	s, err := f.svc.FederatedSignIn(ctx, FederatedInput{FederatedID: "spoofed", Email: "victim@x.com", IDToken: "tok"})
	require.NoError(t, err)
	assert.Equal(t, "real@x.com", s.User.Email)
	assert.Equal(t, "g-9", s.User.GoogleID)

	_, err = f.svc.FederatedSignIn(ctx, FederatedInput{FederatedID: "g-9", Email: "real@x.com"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	rejecting := newFixture(t, fakeVerifier{err: google.ErrInvalidToken})
	_, err = rejecting.svc.FederatedSignIn(ctx, FederatedInput{IDToken: "tok"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredential)
}

func TestProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	u, err := f.svc.Register(ctx, RegisterInput{Name: "Caio", Email: "caio@x.com", Password: "p", ConfirmPassword: "p"})
	require.NoError(t, err)

	got, err := f.svc.UpdateProfile(ctx, u.ID, "", "https://img/c.png")
	require.NoError(t, err)
	assert.Equal(t, "Caio", got.Name)
	assert.Equal(t, "https://img/c.png", got.AvatarURL)

	got, err = f.svc.Profile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://img/c.png", got.AvatarURL)

	_, err = f.svc.Profile(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
