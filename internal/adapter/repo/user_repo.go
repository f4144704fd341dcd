package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"lifeboard/internal/domain"
	"lifeboard/internal/infra"
	"lifeboard/internal/sqlinline"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(sql infra.SQLExecutor) *UserRepositoryPG {
	return &UserRepositoryPG{sql: sql}
}

// Create inserts a user together with its initial progress document.
func (r *UserRepositoryPG) Create(ctx context.Context, user *domain.User, progress json.RawMessage) (*domain.User, error) {
	u := *user
	u.Email = domain.NormalizeEmail(u.Email)
	row := r.sql.QueryRow(ctx, sqlinline.QInsertUser,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.GoogleID,
		u.AvatarURL,
		[]byte(progress),
	)
	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if infra.IsUniqueViolation(err) {
			return nil, fmt.Errorf("email %s: %w", u.Email, domain.ErrConflict)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &u, nil
}

// GetByID fetches a user by UUID.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	return scanUser(r.sql.QueryRow(ctx, sqlinline.QSelectUserByID, id))
}

// GetByEmail fetches a user by email, case-insensitively.
func (r *UserRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.sql.QueryRow(ctx, sqlinline.QSelectUserByEmail, domain.NormalizeEmail(email)))
}

// GetByGoogleID fetches the user a Google account id is linked to.
func (r *UserRepositoryPG) GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	if googleID == "" {
		return nil, domain.ErrNotFound
	}
	return scanUser(r.sql.QueryRow(ctx, sqlinline.QSelectUserByGoogleID, googleID))
}

// LinkGoogle attaches a Google account id and fills a missing avatar.
func (r *UserRepositoryPG) LinkGoogle(ctx context.Context, id, googleID, avatarURL string) (*domain.User, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	u, err := scanUser(r.sql.QueryRow(ctx, sqlinline.QLinkGoogleUser, id, googleID, avatarURL))
	if err != nil && infra.IsUniqueViolation(err) {
		return nil, fmt.Errorf("google account %s: %w", googleID, domain.ErrConflict)
	}
	return u, err
}

func (r *UserRepositoryPG) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	return scanUser(r.sql.QueryRow(ctx, sqlinline.QUpdateUserProfile, id, update.Name, update.AvatarURL))
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.GoogleID, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ids come from tokens and URLs; anything that is not a uuid cannot name a row.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

var _ domain.UserRepository = (*UserRepositoryPG)(nil)
