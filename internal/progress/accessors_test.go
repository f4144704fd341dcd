package progress

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeboard/internal/domain"
)

func fixedClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
}

func TestTasksLifecycle(t *testing.T) {
	a := Default()
	first := a.AddTask(Task{Title: "one"})
	second := a.AddTask(Task{Title: "two"})
	require.NotEmpty(t, first.ID)
	require.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, []string{"one", "two"}, []string{a.Tasks[0].Title, a.Tasks[1].Title})
	assert.False(t, first.Completed)

	toggled, err := a.ToggleTask(first.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	_, err = a.ToggleTask("missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	a.RemoveTask(first.ID)
	a.RemoveTask(first.ID)
	require.Len(t, a.Tasks, 1)
	assert.Equal(t, second.ID, a.Tasks[0].ID)
}

func TestHabitStreakFollowsToggles(t *testing.T) {
	a := Default()
	h := a.AddHabit(Habit{Name: "water"})
	assert.Zero(t, h.Streak)

	var streaks []int
	for range 4 {
		got, err := a.ToggleHabit(h.ID)
		require.NoError(t, err)
		streaks = append(streaks, got.Streak)
	}
	assert.Equal(t, []int{1, 0, 1, 0}, streaks)
}

func TestHabitStreakNeverNegative(t *testing.T) {
	a := Default()
	a.Habits = []Habit{{ID: "h1", Completed: true, Streak: 0}}
	got, err := a.ToggleHabit("h1")
	require.NoError(t, err)
	assert.False(t, got.Completed)
	assert.Zero(t, got.Streak)

	clamped := a.AddHabit(Habit{Streak: -3})
	assert.Zero(t, clamped.Streak)
}

func TestStudySessionCreditsMatchingSubject(t *testing.T) {
	a := Default()
	math, err := a.AddSubject(Subject{Name: "Math", GoalHours: 10, HoursStudied: 5})
	require.NoError(t, err)
	assert.Zero(t, math.HoursStudied)
	_, err = a.AddSubject(Subject{Name: "History", GoalHours: 4})
	require.NoError(t, err)

	_, err = a.AddStudySession(StudySession{Subject: "Math", DurationSeconds: 5400})
	require.NoError(t, err)
	_, err = a.AddStudySession(StudySession{Subject: "Physics", DurationSeconds: 3600})
	require.NoError(t, err)

	assert.InDelta(t, 1.5, a.StudySubjects[0].HoursStudied, 1e-9)
	assert.Zero(t, a.StudySubjects[1].HoursStudied)
	require.Len(t, a.StudyHistory, 2)
	assert.Equal(t, "Physics", a.StudyHistory[0].Subject)
}

func TestStudySessionCreditsFirstDuplicateOnly(t *testing.T) {
	a := Default()
	a.StudySubjects = []Subject{{ID: "a", Name: "Math"}, {ID: "b", Name: "Math"}}
	_, err := a.AddStudySession(StudySession{Subject: "Math", DurationSeconds: 3600})
	require.NoError(t, err)
	assert.Equal(t, 1.0, a.StudySubjects[0].HoursStudied)
	assert.Zero(t, a.StudySubjects[1].HoursStudied)
}

func TestStudySessionRejectsNegativeDuration(t *testing.T) {
	a := Default()
	_, err := a.AddStudySession(StudySession{Subject: "Math", DurationSeconds: -1})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, a.StudyHistory)
}

func TestStudySessionDefaultsDate(t *testing.T) {
	fixedClock(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	a := Default()
	s, err := a.AddStudySession(StudySession{Subject: "Math"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T12:00:00Z", s.Date)
}

func TestReplaceSubjectsKeepsHours(t *testing.T) {
	a := Default()
	got := a.ReplaceSubjects([]Subject{{Name: "Art", HoursStudied: 7}, {ID: "keep", Name: "Music"}})
	require.Len(t, got, 2)
	assert.NotEmpty(t, got[0].ID)
	assert.Equal(t, "keep", got[1].ID)
	assert.Equal(t, 7.0, a.StudySubjects[0].HoursStudied)
}

func TestWorkoutDefaults(t *testing.T) {
	a := Default()
	a.AddWorkout(Workout{Name: "legs"})
	w := a.AddWorkout(Workout{Name: "run", Category: "cardio", Duration: "30 min"})
	assert.Equal(t, "run", a.Workouts[0].Name)
	assert.Equal(t, "cardio", w.Category)

	legs := a.Workouts[1]
	assert.Equal(t, DefaultWorkoutCategory, legs.Category)
	assert.Equal(t, DefaultWorkoutDuration, legs.Duration)
	assert.NotNil(t, legs.Exercises)

	a.RemoveWorkout(legs.ID)
	assert.Len(t, a.Workouts, 1)
}

func TestTransactionIDsIncrease(t *testing.T) {
	at := time.UnixMilli(1_700_000_000_000)
	fixedClock(t, at)
	a := Default()
	first := a.AddTransaction(Transaction{Description: "salary", Amount: 1000, Type: TransactionIncome})
	second := a.AddTransaction(Transaction{Description: "rent", Amount: 400, Type: TransactionExpense})

	assert.Equal(t, "1700000000000", first.ID)
	assert.Equal(t, "1700000000001", second.ID)
	assert.Equal(t, second.ID, a.Finances[0].ID)

	a.RemoveTransaction(first.ID)
	require.Len(t, a.Finances, 1)
	assert.Equal(t, "rent", a.Finances[0].Description)
}

func TestLedgerSummary(t *testing.T) {
	a := Default()
	a.Finances = []Transaction{
		{ID: "1", Amount: 1000, Type: TransactionIncome},
		{ID: "2", Amount: 250, Type: TransactionExpense},
		{ID: "3", Amount: -50},
		{ID: "4", Amount: 20},
	}
	got := a.Summary()
	assert.Equal(t, LedgerSummary{Income: 1020, Expense: 300, Balance: 720, Count: 4}, got)
}

func TestUpsertHealthReplacesWholeRecord(t *testing.T) {
	a := Default()
	flow := "heavy"
	_, err := a.UpsertHealth("2024-05-02", DayHealthRecord{Menstruating: true, FlowIntensity: &flow, Notes: "tired"})
	require.NoError(t, err)

	got, err := a.UpsertHealth("2024-05-02", DayHealthRecord{Notes: "better"})
	require.NoError(t, err)
	assert.Equal(t, "2024-05-02", got.Date)
	assert.False(t, a.Health["2024-05-02"].Menstruating)
	assert.Nil(t, a.Health["2024-05-02"].FlowIntensity)
	assert.Equal(t, "better", a.Health["2024-05-02"].Notes)
}

func TestUpsertHealthValidatesDateKey(t *testing.T) {
	for _, key := range []string{"", "2024-5-2", "02/05/2024", "2024-13-01"} {
		_, err := Default().UpsertHealth(key, DayHealthRecord{})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("UpsertHealth(%q) err = %v, want ErrValidation", key, err)
		}
	}
}

func TestDiaryIsBounded(t *testing.T) {
	a := Default()
	var first DiaryEntry
	for i := range MaxDiaryEntries + 1 {
		e := a.AddDiaryEntry(DiaryEntry{Text: strconv.Itoa(i)})
		if i == 0 {
			first = e
		}
	}
	require.Len(t, a.Diary, MaxDiaryEntries)
	assert.Equal(t, strconv.Itoa(MaxDiaryEntries), a.Diary[0].Text)
	for _, e := range a.Diary {
		require.NotEqual(t, first.ID, e.ID)
	}
}

func TestDiaryDefaultsMood(t *testing.T) {
	a := Default()
	e := a.AddDiaryEntry(DiaryEntry{Text: "hi"})
	assert.Equal(t, DefaultDiaryMood, e.Mood)
	a.RemoveDiaryEntry(e.ID)
	a.RemoveDiaryEntry(e.ID)
	assert.Empty(t, a.Diary)
}

func TestRemoveMissingIDLeavesModule(t *testing.T) {
	tests := []struct {
		name   string
		m      Module
		value  string
		remove func(a *Aggregate, id string)
		count  func(a *Aggregate) int
	}{
		{
			name:   "habits",
			m:      ModuleHabits,
			value:  `[{"id":"h1","name":"read","completed":true,"streak":2,"color":"blue"}]`,
			remove: (*Aggregate).RemoveHabit,
			count:  func(a *Aggregate) int { return len(a.Habits) },
		},
		{
			name:   "workouts",
			m:      ModuleWorkouts,
			value:  `[{"id":"w1","name":"Legs","notes":"heavy"}]`,
			remove: (*Aggregate).RemoveWorkout,
			count:  func(a *Aggregate) int { return len(a.Workouts) },
		},
		{
			name:   "finances",
			m:      ModuleFinances,
			value:  `[{"id":"1","description":"rent","amount":"400","type":"expense"}]`,
			remove: (*Aggregate).RemoveTransaction,
			count:  func(a *Aggregate) int { return len(a.Finances) },
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := Default()
			require.NoError(t, a.Replace(tc.m, []byte(tc.value)))

			tc.remove(a, "missing")
			tc.remove(a, "")
			assert.Equal(t, 1, tc.count(a))
			got, err := a.Get(tc.m)
			require.NoError(t, err)
			assert.JSONEq(t, tc.value, string(got))

			empty := Default()
			tc.remove(empty, "missing")
			assert.Zero(t, tc.count(empty))
		})
	}
}
