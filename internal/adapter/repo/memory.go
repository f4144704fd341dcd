package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"lifeboard/internal/domain"
	"lifeboard/internal/progress"
)

// Memory is a process-local UserRepository and progress.Store. Documents are
// kept encoded so every read goes through the same decode path as Postgres.
type Memory struct {
	mu       sync.Mutex
	users    map[string]*domain.User
	byEmail  map[string]string
	byGoogle map[string]string
	docs     map[string][]byte
	now      func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		users:    map[string]*domain.User{},
		byEmail:  map[string]string{},
		byGoogle: map[string]string{},
		docs:     map[string][]byte{},
		now:      time.Now,
	}
}

func (m *Memory) Create(_ context.Context, user *domain.User, doc json.RawMessage) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := *user
	u.Email = domain.NormalizeEmail(u.Email)
	if _, taken := m.byEmail[u.Email]; taken {
		return nil, fmt.Errorf("email %s: %w", u.Email, domain.ErrConflict)
	}
	if u.GoogleID != "" {
		if _, taken := m.byGoogle[u.GoogleID]; taken {
			return nil, fmt.Errorf("google account %s: %w", u.GoogleID, domain.ErrConflict)
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = m.now().UTC()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = &u
	m.byEmail[u.Email] = u.ID
	if u.GoogleID != "" {
		m.byGoogle[u.GoogleID] = u.ID
	}
	m.docs[u.ID] = append([]byte(nil), doc...)
	out := u
	return &out, nil
}

func (m *Memory) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copyOf(id)
}

func (m *Memory) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m.copyOf(id)
}

func (m *Memory) GetByGoogleID(_ context.Context, googleID string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byGoogle[googleID]
	if !ok || googleID == "" {
		return nil, domain.ErrNotFound
	}
	return m.copyOf(id)
}

func (m *Memory) LinkGoogle(_ context.Context, id, googleID, avatarURL string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if owner, taken := m.byGoogle[googleID]; taken && owner != id {
		return nil, fmt.Errorf("google account %s: %w", googleID, domain.ErrConflict)
	}
	if u.GoogleID != "" && u.GoogleID != googleID {
		delete(m.byGoogle, u.GoogleID)
	}
	u.GoogleID = googleID
	m.byGoogle[googleID] = id
	if u.AvatarURL == "" {
		u.AvatarURL = avatarURL
	}
	u.UpdatedAt = m.now().UTC()
	return m.copyOf(id)
}

func (m *Memory) UpdateProfile(_ context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.AvatarURL != nil {
		u.AvatarURL = *update.AvatarURL
	}
	u.UpdatedAt = m.now().UTC()
	return m.copyOf(id)
}

func (m *Memory) copyOf(id string) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (m *Memory) Load(_ context.Context, userID string) (*progress.Aggregate, error) {
	m.mu.Lock()
	raw, ok := m.docs[userID]
	m.mu.Unlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	a, _, err := progress.Decode(raw)
	return a, err
}

// Mutate holds the store lock for the whole read-modify-write.
func (m *Memory) Mutate(_ context.Context, userID string, fn func(*progress.Aggregate) ([]progress.Module, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.docs[userID]
	if !ok {
		return domain.ErrNotFound
	}
	a, _, err := progress.Decode(raw)
	if err != nil {
		return err
	}
	if _, err := fn(a); err != nil {
		return err
	}
	doc, err := a.Document()
	if err != nil {
		return err
	}
	m.docs[userID] = doc
	return nil
}

// SetDocument overwrites the stored document of a user, bypassing decoding.
func (m *Memory) SetDocument(userID string, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[userID] = append([]byte(nil), raw...)
}

var (
	_ domain.UserRepository = (*Memory)(nil)
	_ progress.Store        = (*Memory)(nil)
)
