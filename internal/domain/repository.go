package domain

import (
	"context"
	"encoding/json"
)

// UserRepository defines access methods for users.
type UserRepository interface {
	Create(ctx context.Context, user *User, progress json.RawMessage) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*User, error)
	LinkGoogle(ctx context.Context, id, googleID, avatarURL string) (*User, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*User, error)
}

// ProfileUpdate carries the optional fields accepted by PUT /user/profile.
// Nil and empty values leave the stored field untouched.
type ProfileUpdate struct {
	Name      *string
	AvatarURL *string
}
