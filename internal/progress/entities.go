package progress

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Task is an agenda item. Every entity keeps the fields the client sends
// beyond the typed ones in Extra.
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title,omitempty"`
	Completed bool   `json:"completed"`
	Extra     Extra  `json:"-"`
}

func (t Task) MarshalJSON() ([]byte, error) {
	type plain Task
	return encodeWithExtra(plain(t), t.Extra)
}

func (t *Task) UnmarshalJSON(data []byte) error {
	type plain Task
	var p plain
	extra, err := decodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	*t = Task(p)
	t.Extra = extra
	return nil
}

// Habit is a recurring activity whose streak follows its completed flag.
type Habit struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Completed bool   `json:"completed"`
	Streak    int    `json:"streak"`
	Extra     Extra  `json:"-"`
}

func (h Habit) MarshalJSON() ([]byte, error) {
	type plain Habit
	return encodeWithExtra(plain(h), h.Extra)
}

func (h *Habit) UnmarshalJSON(data []byte) error {
	type plain Habit
	var p plain
	extra, err := decodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	*h = Habit(p)
	h.Extra = extra
	return nil
}

// Subject is a study subject. HoursStudied is derived from appended study sessions.
type Subject struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	GoalHours    float64 `json:"goalHours"`
	HoursStudied float64 `json:"hoursStudied"`
	Extra        Extra   `json:"-"`
}

func (s Subject) MarshalJSON() ([]byte, error) {
	type plain Subject
	return encodeWithExtra(plain(s), s.Extra)
}

func (s *Subject) UnmarshalJSON(data []byte) error {
	type plain Subject
	var p plain
	extra, err := decodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	*s = Subject(p)
	s.Extra = extra
	return nil
}

// StudySession records time spent on a subject, matched by subject name.
type StudySession struct {
	ID              string  `json:"id"`
	Subject         string  `json:"subject"`
	Comment         string  `json:"comment"`
	DurationSeconds float64 `json:"durationSeconds"`
	Date            string  `json:"date"`
	Extra           Extra   `json:"-"`
}

func (s StudySession) MarshalJSON() ([]byte, error) {
	type plain StudySession
	return encodeWithExtra(plain(s), s.Extra)
}

func (s *StudySession) UnmarshalJSON(data []byte) error {
	type plain StudySession
	var p plain
	extra, err := decodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	*s = StudySession(p)
	s.Extra = extra
	return nil
}

// Workout is a logged or planned training session.
type Workout struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Category  string            `json:"category"`
	Duration  string            `json:"duration"`
	Exercises []json.RawMessage `json:"exercises"`
	Extra     Extra             `json:"-"`
}

func (w Workout) MarshalJSON() ([]byte, error) {
	type plain Workout
	return encodeWithExtra(plain(w), w.Extra)
}

func (w *Workout) UnmarshalJSON(data []byte) error {
	type plain Workout
	var p plain
	extra, err := decodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	*w = Workout(p)
	w.Extra = extra
	return nil
}

// Amount is a monetary value. Older clients sent amounts as strings, so both
// encodings are accepted on input.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*a = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("amount %s: %w", data, err)
	}
	*a = Amount(v)
	return nil
}

// Transaction kinds recognised by the ledger summary.
const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// Transaction is a finance ledger line. Its id is a server timestamp token.
type Transaction struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
	Amount      Amount `json:"amount"`
	Type        string `json:"type,omitempty"`
	Category    string `json:"category,omitempty"`
	Date        string `json:"date,omitempty"`
	Extra       Extra  `json:"-"`
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	type plain Transaction
	return encodeWithExtra(plain(t), t.Extra)
}

func (t *Transaction) UnmarshalJSON(data []byte) error {
	type plain Transaction
	var p plain
	extra, err := decodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	*t = Transaction(p)
	t.Extra = extra
	return nil
}

// Symptoms is the symptom checklist of a health day.
type Symptoms struct {
	Headache          bool    `json:"headache"`
	HeadacheIntensity *string `json:"headacheIntensity"`
	Cramps            bool    `json:"cramps"`
	CrampsIntensity   *string `json:"crampsIntensity"`
	Bloating          bool    `json:"bloating"`
	BreastTenderness  bool    `json:"breastTenderness"`
	MoodSwings        bool    `json:"moodSwings"`
	MoodType          *string `json:"moodType"`
	Extra             Extra   `json:"-"`
}

func (s Symptoms) MarshalJSON() ([]byte, error) {
	type plain Symptoms
	return encodeWithExtra(plain(s), s.Extra)
}

func (s *Symptoms) UnmarshalJSON(data []byte) error {
	type plain Symptoms
	var p plain
	extra, err := decodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	*s = Symptoms(p)
	s.Extra = extra
	return nil
}

// DayHealthRecord is the health record of one calendar day. Writes replace it whole.
type DayHealthRecord struct {
	Date          string    `json:"date"`
	Menstruating  bool      `json:"menstruating"`
	FlowIntensity *string   `json:"flowIntensity"`
	Symptoms      *Symptoms `json:"symptoms"`
	Notes         string    `json:"notes"`
	Extra         Extra     `json:"-"`
}

func (d DayHealthRecord) MarshalJSON() ([]byte, error) {
	type plain DayHealthRecord
	return encodeWithExtra(plain(d), d.Extra)
}

func (d *DayHealthRecord) UnmarshalJSON(data []byte) error {
	type plain DayHealthRecord
	var p plain
	extra, err := decodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	*d = DayHealthRecord(p)
	d.Extra = extra
	return nil
}

// DiaryEntry is a photo diary entry.
type DiaryEntry struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Text      string `json:"text"`
	Mood      string `json:"mood"`
	Highlight string `json:"highlight"`
	PhotoURL  string `json:"photoUrl"`
	Extra     Extra  `json:"-"`
}

func (e DiaryEntry) MarshalJSON() ([]byte, error) {
	type plain DiaryEntry
	return encodeWithExtra(plain(e), e.Extra)
}

func (e *DiaryEntry) UnmarshalJSON(data []byte) error {
	type plain DiaryEntry
	var p plain
	extra, err := decodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	*e = DiaryEntry(p)
	e.Extra = extra
	return nil
}

type MorningSkincare struct {
	Cleanser    bool `json:"cleanser"`
	Toner       bool `json:"toner"`
	Moisturizer bool `json:"moisturizer"`
	Sunscreen   bool `json:"sunscreen"`
}

type NightSkincare struct {
	MakeupRemover bool `json:"makeupRemover"`
	Cleanser      bool `json:"cleanser"`
	Serum         bool `json:"serum"`
	Moisturizer   bool `json:"moisturizer"`
}

// Beauty holds the skincare checklists and the hair-care schedule label.
type Beauty struct {
	MorningSkincare MorningSkincare `json:"morningSkincare"`
	NightSkincare   NightSkincare   `json:"nightSkincare"`
	HairSchedule    string          `json:"hairSchedule"`
}

type Meals struct {
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Snack     string `json:"snack"`
	Dinner    string `json:"dinner"`
}

// Diet holds the meal plan and the shopping list.
type Diet struct {
	Meals        Meals             `json:"meals"`
	ShoppingList []json.RawMessage `json:"shoppingList"`
}

// Travel holds the packing list.
type Travel struct {
	PackingList []json.RawMessage `json:"packingList"`
}

type HomeMenu struct {
	Lunch  string `json:"lunch"`
	Dinner string `json:"dinner"`
}

// Home holds the chore list and the daily menu.
type Home struct {
	Chores []json.RawMessage `json:"chores"`
	Menu   HomeMenu          `json:"menu"`
}
