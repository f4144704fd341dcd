package progress

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"lifeboard/internal/domain"
)

const (
	// MaxDiaryEntries bounds the diary; inserting past it evicts the oldest entries.
	MaxDiaryEntries = 100

	DefaultWorkoutCategory = "strength"
	DefaultWorkoutDuration = "45 min"
	DefaultDiaryMood       = "✨"

	dateKeyLayout = "2006-01-02"
)

var (
	newID = uuid.NewString
	now   = time.Now
)

// ErrInvalidDate rejects a health key that is not a calendar date.
var ErrInvalidDate = fmt.Errorf("date must be YYYY-MM-DD: %w", domain.ErrValidation)

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, domain.ErrNotFound)
}

// removeByID filters out every item with the given id and reports whether
// any was found. Missing ids are a no-op.
func removeByID[T any](items []T, id string, idOf func(T) string) ([]T, bool) {
	kept := make([]T, 0, len(items))
	for _, item := range items {
		if idOf(item) != id {
			kept = append(kept, item)
		}
	}
	return kept, len(kept) != len(items)
}

// AddTask appends a task at the tail with a server-assigned id.
func (a *Aggregate) AddTask(t Task) Task {
	a.touch(ModuleTasks)
	t.ID = newID()
	a.Tasks = append(a.Tasks, t)
	return t
}

// ToggleTask flips the completed flag of a task.
func (a *Aggregate) ToggleTask(id string) (Task, error) {
	for i := range a.Tasks {
		if a.Tasks[i].ID == id {
			a.touch(ModuleTasks)
			a.Tasks[i].Completed = !a.Tasks[i].Completed
			a.Tasks[i].Extra.drop("completed")
			return a.Tasks[i], nil
		}
	}
	return Task{}, notFound("task", id)
}

func (a *Aggregate) RemoveTask(id string) {
	a.normalize()
	if kept, removed := removeByID(a.Tasks, id, func(t Task) string { return t.ID }); removed {
		a.touch(ModuleTasks)
		a.Tasks = kept
	}
}

// AddHabit appends a habit at the tail with a server-assigned id.
func (a *Aggregate) AddHabit(h Habit) Habit {
	a.touch(ModuleHabits)
	h.ID = newID()
	if h.Streak < 0 {
		h.Streak = 0
	}
	a.Habits = append(a.Habits, h)
	return h
}

// ToggleHabit flips the completed flag; completing adds one to the streak and
// un-completing takes one away, never below zero.
func (a *Aggregate) ToggleHabit(id string) (Habit, error) {
	for i := range a.Habits {
		h := &a.Habits[i]
		if h.ID != id {
			continue
		}
		a.touch(ModuleHabits)
		h.Extra.drop("completed")
		h.Extra.drop("streak")
		h.Completed = !h.Completed
		if h.Completed {
			h.Streak++
		} else {
			h.Streak = max(0, h.Streak-1)
		}
		return *h, nil
	}
	return Habit{}, notFound("habit", id)
}

func (a *Aggregate) RemoveHabit(id string) {
	a.normalize()
	if kept, removed := removeByID(a.Habits, id, func(h Habit) string { return h.ID }); removed {
		a.touch(ModuleHabits)
		a.Habits = kept
	}
}

// AddSubject appends a subject with no hours studied yet.
func (a *Aggregate) AddSubject(s Subject) (Subject, error) {
	if s.GoalHours < 0 {
		return Subject{}, fmt.Errorf("goal hours must not be negative: %w", domain.ErrValidation)
	}
	a.touch(ModuleStudySubjects)
	s.ID = newID()
	s.HoursStudied = 0
	a.StudySubjects = append(a.StudySubjects, s)
	return s, nil
}

// ReplaceSubjects stores a client-ordered subject list as is. Hours are not
// re-derived; subjects without an id receive one.
func (a *Aggregate) ReplaceSubjects(subjects []Subject) []Subject {
	if subjects == nil {
		subjects = []Subject{}
	}
	for i := range subjects {
		if subjects[i].ID == "" {
			subjects[i].ID = newID()
		}
	}
	a.touch(ModuleStudySubjects)
	a.StudySubjects = subjects
	return subjects
}

// AddStudySession prepends a session and credits its duration to the first
// subject with a matching name.
func (a *Aggregate) AddStudySession(s StudySession) (StudySession, error) {
	if s.DurationSeconds < 0 {
		return StudySession{}, fmt.Errorf("duration must not be negative: %w", domain.ErrValidation)
	}
	a.touch(ModuleStudyHistory)
	s.ID = newID()
	if s.Date == "" {
		s.Date = now().UTC().Format(time.RFC3339Nano)
	}
	a.StudyHistory = append([]StudySession{s}, a.StudyHistory...)
	for i := range a.StudySubjects {
		if a.StudySubjects[i].Name == s.Subject {
			a.touch(ModuleStudySubjects)
			a.StudySubjects[i].Extra.drop("hoursStudied")
			a.StudySubjects[i].HoursStudied += s.DurationSeconds / 3600
			break
		}
	}
	return s, nil
}

// AddWorkout prepends a workout, filling category, duration and exercises defaults.
func (a *Aggregate) AddWorkout(w Workout) Workout {
	a.touch(ModuleWorkouts)
	w.ID = newID()
	if w.Category == "" {
		w.Category = DefaultWorkoutCategory
	}
	if w.Duration == "" {
		w.Duration = DefaultWorkoutDuration
	}
	if w.Exercises == nil {
		w.Exercises = []json.RawMessage{}
	}
	a.Workouts = append([]Workout{w}, a.Workouts...)
	return w
}

func (a *Aggregate) RemoveWorkout(id string) {
	a.normalize()
	if kept, removed := removeByID(a.Workouts, id, func(w Workout) string { return w.ID }); removed {
		a.touch(ModuleWorkouts)
		a.Workouts = kept
	}
}

// AddTransaction prepends a ledger line. Its id is a millisecond timestamp,
// bumped past any existing numeric id so ids stay unique and increasing.
func (a *Aggregate) AddTransaction(t Transaction) Transaction {
	a.touch(ModuleFinances)
	t.ID = a.nextLedgerID()
	a.Finances = append([]Transaction{t}, a.Finances...)
	return t
}

func (a *Aggregate) nextLedgerID() string {
	id := now().UnixMilli()
	for _, t := range a.Finances {
		if v, err := strconv.ParseInt(t.ID, 10, 64); err == nil && v >= id {
			id = v + 1
		}
	}
	return strconv.FormatInt(id, 10)
}

func (a *Aggregate) RemoveTransaction(id string) {
	a.normalize()
	if kept, removed := removeByID(a.Finances, id, func(t Transaction) string { return t.ID }); removed {
		a.touch(ModuleFinances)
		a.Finances = kept
	}
}

// LedgerSummary totals the finance ledger.
type LedgerSummary struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
	Count   int     `json:"count"`
}

// Summary totals income and expenses. Lines without a known type count by sign.
func (a *Aggregate) Summary() LedgerSummary {
	var s LedgerSummary
	for _, t := range a.Finances {
		amount := float64(t.Amount)
		switch {
		case t.Type == TransactionIncome:
			s.Income += amount
		case t.Type == TransactionExpense:
			s.Expense += abs(amount)
		case amount < 0:
			s.Expense += -amount
		default:
			s.Income += amount
		}
		s.Count++
	}
	s.Balance = s.Income - s.Expense
	return s
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// UpsertHealth stores the record of one day, replacing any previous record whole.
func (a *Aggregate) UpsertHealth(dateKey string, rec DayHealthRecord) (DayHealthRecord, error) {
	if _, err := time.Parse(dateKeyLayout, dateKey); err != nil {
		return DayHealthRecord{}, fmt.Errorf("date %q: %w", dateKey, ErrInvalidDate)
	}
	a.touch(ModuleHealth)
	rec.Date = dateKey
	a.Health[dateKey] = rec
	return rec, nil
}

// AddDiaryEntry prepends an entry and evicts the oldest ones past MaxDiaryEntries.
func (a *Aggregate) AddDiaryEntry(e DiaryEntry) DiaryEntry {
	a.touch(ModuleDiary)
	e.ID = newID()
	if e.Date == "" {
		e.Date = now().UTC().Format(time.RFC3339Nano)
	}
	if e.Mood == "" {
		e.Mood = DefaultDiaryMood
	}
	a.Diary = append([]DiaryEntry{e}, a.Diary...)
	if len(a.Diary) > MaxDiaryEntries {
		a.Diary = a.Diary[:MaxDiaryEntries]
	}
	return e
}

func (a *Aggregate) RemoveDiaryEntry(id string) {
	a.normalize()
	if kept, removed := removeByID(a.Diary, id, func(e DiaryEntry) string { return e.ID }); removed {
		a.touch(ModuleDiary)
		a.Diary = kept
	}
}
