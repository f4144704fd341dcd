package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"lifeboard/internal/domain"
)

// Store loads and persists progress documents.
//
// Mutate hands fn the current aggregate of userID and persists the modules fn
// reports as changed. Implementations must serialize concurrent calls for the
// same user. Returning an error from fn discards the mutation.
type Store interface {
	Load(ctx context.Context, userID string) (*Aggregate, error)
	Mutate(ctx context.Context, userID string, fn func(*Aggregate) ([]Module, error)) error
}

// ErrPhotoUpload marks a diary append that failed before persistence because
// the photo could not be stored.
var ErrPhotoUpload = errors.New("photo upload failed")

// Photo is an uploaded diary image. ContentType is the sniffed type.
type Photo struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// PhotoUploader stores a diary photo and returns its public URL.
type PhotoUploader interface {
	UploadPhoto(ctx context.Context, userID string, photo Photo) (string, error)
}

type Service struct {
	store  Store
	photos PhotoUploader
}

func NewService(store Store, photos PhotoUploader) *Service {
	return &Service{store: store, photos: photos}
}

// Aggregate returns the whole progress document of a user.
func (s *Service) Aggregate(ctx context.Context, userID string) (*Aggregate, error) {
	return s.store.Load(ctx, userID)
}

// Get returns one module, or its default when the user never wrote it.
func (s *Service) Get(ctx context.Context, userID string, m Module) (json.RawMessage, error) {
	a, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return a.Get(m)
}

// Replace overwrites one module and returns the stored value.
func (s *Service) Replace(ctx context.Context, userID string, m Module, raw json.RawMessage) (json.RawMessage, error) {
	var out json.RawMessage
	err := s.store.Mutate(ctx, userID, func(a *Aggregate) ([]Module, error) {
		if err := a.Replace(m, raw); err != nil {
			return nil, err
		}
		v, err := a.Get(m)
		out = v
		return []Module{m}, err
	})
	return out, err
}

// Reset writes the default value of one module.
func (s *Service) Reset(ctx context.Context, userID string, m Module) error {
	def, err := DefaultValue(m)
	if err != nil {
		return err
	}
	_, err = s.Replace(ctx, userID, m, def)
	return err
}

// mutate is the shared shape of every accessor operation: load, apply,
// persist the changed modules, return the result of fn.
func mutate[T any](ctx context.Context, s *Service, userID string, fn func(*Aggregate) (T, error), changed ...Module) (T, error) {
	var out T
	err := s.store.Mutate(ctx, userID, func(a *Aggregate) ([]Module, error) {
		for _, m := range changed {
			if err := a.Editable(m); err != nil {
				return nil, err
			}
		}
		v, err := fn(a)
		if err != nil {
			return nil, err
		}
		out = v
		return changed, nil
	})
	return out, err
}

func (s *Service) AddTask(ctx context.Context, userID string, t Task) (Task, error) {
	return mutate(ctx, s, userID, func(a *Aggregate) (Task, error) { return a.AddTask(t), nil }, ModuleTasks)
}

func (s *Service) ToggleTask(ctx context.Context, userID, id string) (Task, error) {
	return mutate(ctx, s, userID, func(a *Aggregate) (Task, error) { return a.ToggleTask(id) }, ModuleTasks)
}

// RemoveTask deletes a task and returns the remaining list.
func (s *Service) RemoveTask(ctx context.Context, userID, id string) ([]Task, error) {
	return mutate(ctx, s, userID, func(a *Aggregate) ([]Task, error) {
		a.RemoveTask(id)
		return a.Tasks, nil
	}, ModuleTasks)
}

func (s *Service) AddHabit(ctx context.Context, userID string, h Habit) (Habit, error) {
	return mutate(ctx, s, userID, func(a *Aggregate) (Habit, error) { return a.AddHabit(h), nil }, ModuleHabits)
}

func (s *Service) ToggleHabit(ctx context.Context, userID, id string) (Habit, error) {
	return mutate(ctx, s, userID, func(a *Aggregate) (Habit, error) { return a.ToggleHabit(id) }, ModuleHabits)
}

func (s *Service) RemoveHabit(ctx context.Context, userID, id string) ([]Habit, error) {
	return mutate(ctx, s, userID, func(a *Aggregate) ([]Habit, error) {
		a.RemoveHabit(id)
		return a.Habits, nil
	}, ModuleHabits)
}

func (s *Service) AddSubject(ctx context.Context, userID string, sub Subject) (Subject, error) {
	return mutate(ctx, s, userID, func(a *Aggregate) (Subject, error) { return a.AddSubject(sub) }, ModuleStudySubjects)
}

// ReplaceSubjects swaps the whole list, so it also works on a subject module
// the accessors refuse.
func (s *Service) ReplaceSubjects(ctx context.Context, userID string, subjects []Subject) ([]Subject, error) {
	var out []Subject
	err := s.store.Mutate(ctx, userID, func(a *Aggregate) ([]Module, error) {
		out = a.ReplaceSubjects(subjects)
		return []Module{ModuleStudySubjects}, nil
	})
	return out, err
}

// AddStudySession records a session and credits the matching subject. Both
// modules are persisted together.
func (s *Service) AddStudySession(ctx context.Context, userID string, session StudySession) (StudySession, error) {
	return mutate(ctx, s, userID, func(a *Aggregate) (StudySession, error) {
		return a.AddStudySession(session)
	}, ModuleStudyHistory, ModuleStudySubjects)
}

func (s *Service) AddWorkout(ctx context.Context, userID string, w Workout) (Workout, error) {
	return mutate(ctx, s, userID, func(a *Aggregate) (Workout, error) { return a.AddWorkout(w), nil }, ModuleWorkouts)
}

func (s *Service) RemoveWorkout(ctx context.Context, userID, id string) ([]Workout, error) {
	return mutate(ctx, s, userID, func(a *Aggregate) ([]Workout, error) {
		a.RemoveWorkout(id)
		return a.Workouts, nil
	}, ModuleWorkouts)
}

func (s *Service) AddTransaction(ctx context.Context, userID string, t Transaction) (Transaction, error) {
	return mutate(ctx, s, userID, func(a *Aggregate) (Transaction, error) { return a.AddTransaction(t), nil }, ModuleFinances)
}

func (s *Service) RemoveTransaction(ctx context.Context, userID, id string) ([]Transaction, error) {
	return mutate(ctx, s, userID, func(a *Aggregate) ([]Transaction, error) {
		a.RemoveTransaction(id)
		return a.Finances, nil
	}, ModuleFinances)
}

// Summary totals the ledger. It needs the typed view, so an unfit finances
// module is refused like an edit.
func (s *Service) Summary(ctx context.Context, userID string) (LedgerSummary, error) {
	a, err := s.store.Load(ctx, userID)
	if err != nil {
		return LedgerSummary{}, err
	}
	if err := a.Editable(ModuleFinances); err != nil {
		return LedgerSummary{}, err
	}
	return a.Summary(), nil
}

func (s *Service) UpsertHealth(ctx context.Context, userID, dateKey string, rec DayHealthRecord) (DayHealthRecord, error) {
	return mutate(ctx, s, userID, func(a *Aggregate) (DayHealthRecord, error) {
		return a.UpsertHealth(dateKey, rec)
	}, ModuleHealth)
}

// ErrPhotoRequired rejects a diary append without a photo.
var ErrPhotoRequired = fmt.Errorf("diary entry needs a photo: %w", domain.ErrValidation)

// AddDiaryEntry uploads the photo, then prepends the entry. A failed upload
// leaves the diary untouched. Only the image types PhotoExtension knows are
// accepted.
func (s *Service) AddDiaryEntry(ctx context.Context, userID string, e DiaryEntry, photo *Photo) (DiaryEntry, error) {
	if photo == nil || photo.Body == nil {
		return DiaryEntry{}, ErrPhotoRequired
	}
	if _, ok := PhotoExtension(photo.ContentType); !ok {
		return DiaryEntry{}, fmt.Errorf("content type %q: %w", photo.ContentType, ErrUnsupportedPhoto)
	}
	if s.photos == nil {
		return DiaryEntry{}, fmt.Errorf("%w: storage not configured: %w", ErrPhotoUpload, domain.ErrUpstream)
	}
	url, err := s.photos.UploadPhoto(ctx, userID, *photo)
	if err != nil {
		return DiaryEntry{}, fmt.Errorf("%w: %v: %w", ErrPhotoUpload, err, domain.ErrUpstream)
	}
	e.PhotoURL = url
	return mutate(ctx, s, userID, func(a *Aggregate) (DiaryEntry, error) { return a.AddDiaryEntry(e), nil }, ModuleDiary)
}

func (s *Service) RemoveDiaryEntry(ctx context.Context, userID, id string) ([]DiaryEntry, error) {
	return mutate(ctx, s, userID, func(a *Aggregate) ([]DiaryEntry, error) {
		a.RemoveDiaryEntry(id)
		return a.Diary, nil
	}, ModuleDiary)
}
