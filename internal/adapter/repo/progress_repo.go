package repo

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"lifeboard/internal/domain"
	"lifeboard/internal/infra"
	"lifeboard/internal/progress"
	"lifeboard/internal/sqlinline"
)

// ProgressStorePG keeps the progress document in the users.progress jsonb column.
type ProgressStorePG struct {
	db     infra.DB
	logger zerolog.Logger
}

func NewProgressStore(db infra.DB, logger zerolog.Logger) *ProgressStorePG {
	return &ProgressStorePG{db: db, logger: logger}
}

func (s *ProgressStorePG) Load(ctx context.Context, userID string) (*progress.Aggregate, error) {
	if !validID(userID) {
		return nil, domain.ErrNotFound
	}
	raw, err := readProgress(ctx, s.db, sqlinline.QSelectProgress, userID)
	if err != nil {
		return nil, err
	}
	a, _, err := progress.Decode(raw)
	if err != nil {
		return nil, err
	}
	s.warnUnfit(userID, a)
	return a, nil
}

// warnUnfit reports modules kept as stored because their entries did not decode.
func (s *ProgressStorePG) warnUnfit(userID string, a *progress.Aggregate) {
	unfit := a.Unfit()
	if len(unfit) == 0 {
		return
	}
	names := make([]string, len(unfit))
	for i, m := range unfit {
		names[i] = string(m)
	}
	s.logger.Warn().Str("user_id", userID).Strs("modules", names).Msg("progress modules served as stored")
}

// Mutate locks the user row, applies fn and writes back only the modules fn
// reports. A document that needed a schema upgrade is written back whole.
func (s *ProgressStorePG) Mutate(ctx context.Context, userID string, fn func(*progress.Aggregate) ([]progress.Module, error)) error {
	if !validID(userID) {
		return domain.ErrNotFound
	}
	return s.db.WithTx(ctx, func(tx infra.SQLExecutor) error {
		raw, err := readProgress(ctx, tx, sqlinline.QSelectProgressForUpdate, userID)
		if err != nil {
			return err
		}
		a, upgraded, err := progress.Decode(raw)
		if err != nil {
			return err
		}
		s.warnUnfit(userID, a)
		changed, err := fn(a)
		if err != nil {
			return err
		}
		if upgraded {
			s.logger.Info().Str("user_id", userID).Int("schema_version", progress.SchemaVersion).Msg("progress upgraded")
			doc, err := a.Document()
			if err != nil {
				return err
			}
			_, err = tx.Exec(ctx, sqlinline.QReplaceProgress, userID, []byte(doc))
			return err
		}
		for _, m := range dedupe(changed) {
			value, err := a.Get(m)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, sqlinline.QSetProgressModule, userID, string(m), []byte(value), progress.SchemaVersion); err != nil {
				return fmt.Errorf("write %s: %w", m, err)
			}
		}
		return nil
	})
}

func readProgress(ctx context.Context, q infra.SQLExecutor, query, userID string) ([]byte, error) {
	var raw []byte
	if err := q.QueryRow(ctx, query, userID).Scan(&raw); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("read progress: %w", err)
	}
	return raw, nil
}

func dedupe(mods []progress.Module) []progress.Module {
	seen := make(map[progress.Module]struct{}, len(mods))
	out := mods[:0:0]
	for _, m := range mods {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

var _ progress.Store = (*ProgressStorePG)(nil)
