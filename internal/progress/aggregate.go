package progress

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"lifeboard/internal/domain"
)

// SchemaVersion is the document layout written by this package.
const SchemaVersion = 1

// DefaultHairSchedule is the hair-care label of a fresh document.
const DefaultHairSchedule = "Hidratação"

// Aggregate is the whole progress document of one user.
//
// Every module is served exactly as it was loaded or replaced until an
// accessor edits it; only then is the typed view encoded in its place.
type Aggregate struct {
	SchemaVersion int                        `json:"schemaVersion"`
	Tasks         []Task                     `json:"tasks"`
	Habits        []Habit                    `json:"habits"`
	StudySubjects []Subject                  `json:"studySubjects"`
	StudyHistory  []StudySession             `json:"studyHistory"`
	Workouts      []Workout                  `json:"workouts"`
	Finances      []Transaction              `json:"finances"`
	Health        map[string]DayHealthRecord `json:"health"`
	Diary         []DiaryEntry               `json:"diary"`
	Beauty        json.RawMessage            `json:"beauty"`
	Diet          json.RawMessage            `json:"diet"`
	Travel        json.RawMessage            `json:"travel"`
	Home          json.RawMessage            `json:"home"`

	stored map[Module]json.RawMessage
	unfit  map[Module]error
}

// Default returns the document every new account starts with.
func Default() *Aggregate {
	a := &Aggregate{SchemaVersion: SchemaVersion}
	a.normalize()
	return a
}

// DefaultValue returns the encoded default value of one module.
func DefaultValue(m Module) (json.RawMessage, error) {
	return Default().Get(m)
}

// normalize replaces absent modules with their defaults.
func (a *Aggregate) normalize() {
	if a.Tasks == nil {
		a.Tasks = []Task{}
	}
	if a.Habits == nil {
		a.Habits = []Habit{}
	}
	if a.StudySubjects == nil {
		a.StudySubjects = []Subject{}
	}
	if a.StudyHistory == nil {
		a.StudyHistory = []StudySession{}
	}
	if a.Workouts == nil {
		a.Workouts = []Workout{}
	}
	if a.Finances == nil {
		a.Finances = []Transaction{}
	}
	if a.Health == nil {
		a.Health = map[string]DayHealthRecord{}
	}
	if a.Diary == nil {
		a.Diary = []DiaryEntry{}
	}
	if isNull(a.Beauty) {
		a.Beauty = defaultConfig(ModuleBeauty)
	}
	if isNull(a.Diet) {
		a.Diet = defaultConfig(ModuleDiet)
	}
	if isNull(a.Travel) {
		a.Travel = defaultConfig(ModuleTravel)
	}
	if isNull(a.Home) {
		a.Home = defaultConfig(ModuleHome)
	}
}

func defaultConfig(m Module) json.RawMessage {
	var v any
	switch m {
	case ModuleBeauty:
		v = Beauty{HairSchedule: DefaultHairSchedule}
	case ModuleDiet:
		v = Diet{ShoppingList: []json.RawMessage{}}
	case ModuleTravel:
		v = Travel{PackingList: []json.RawMessage{}}
	case ModuleHome:
		v = Home{Chores: []json.RawMessage{}}
	default:
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("progress: encode default %s: %v", m, err))
	}
	return raw
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Document encodes the whole aggregate.
func (a *Aggregate) Document() (json.RawMessage, error) {
	return json.Marshal(a)
}

func (a *Aggregate) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"schemaVersion":`)
	buf.WriteString(strconv.Itoa(a.SchemaVersion))
	for _, m := range Modules {
		raw, err := a.Get(m)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`,"`)
		buf.WriteString(string(m))
		buf.WriteString(`":`)
		buf.Write(raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the encoded value of one module, or its default when absent.
func (a *Aggregate) Get(m Module) (json.RawMessage, error) {
	if raw, ok := a.stored[m]; ok {
		return cloneRaw(raw), nil
	}
	a.normalize()
	var v any
	switch m {
	case ModuleTasks:
		v = a.Tasks
	case ModuleHabits:
		v = a.Habits
	case ModuleStudySubjects:
		v = a.StudySubjects
	case ModuleStudyHistory:
		v = a.StudyHistory
	case ModuleWorkouts:
		v = a.Workouts
	case ModuleFinances:
		v = a.Finances
	case ModuleHealth:
		v = a.Health
	case ModuleDiary:
		v = a.Diary
	case ModuleBeauty:
		return cloneRaw(a.Beauty), nil
	case ModuleDiet:
		return cloneRaw(a.Diet), nil
	case ModuleTravel:
		return cloneRaw(a.Travel), nil
	case ModuleHome:
		return cloneRaw(a.Home), nil
	default:
		return nil, fmt.Errorf("module %q: %w", m, domain.ErrUnknownModule)
	}
	return json.Marshal(v)
}

// Replace overwrites one module with any well-formed JSON value, which is
// served back unchanged. Derived fields are never recomputed here.
func (a *Aggregate) Replace(m Module, raw json.RawMessage) error {
	if !m.Valid() {
		return fmt.Errorf("module %q: %w", m, domain.ErrUnknownModule)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return fmt.Errorf("module %s: malformed value: %v: %w", m, err, domain.ErrValidation)
	}
	a.load(m, buf.Bytes())
	return nil
}

// load installs raw as the value of m and fills the typed view from it. A
// value the typed view cannot hold leaves m unfit for accessors but still
// served as is.
func (a *Aggregate) load(m Module, raw json.RawMessage) {
	delete(a.unfit, m)
	var err error
	switch m {
	case ModuleTasks:
		err = decodeInto(raw, &a.Tasks)
	case ModuleHabits:
		err = decodeInto(raw, &a.Habits)
	case ModuleStudySubjects:
		err = decodeInto(raw, &a.StudySubjects)
	case ModuleStudyHistory:
		err = decodeInto(raw, &a.StudyHistory)
	case ModuleWorkouts:
		err = decodeInto(raw, &a.Workouts)
	case ModuleFinances:
		err = decodeInto(raw, &a.Finances)
	case ModuleHealth:
		err = decodeInto(raw, &a.Health)
	case ModuleDiary:
		err = decodeInto(raw, &a.Diary)
	case ModuleBeauty:
		a.Beauty = raw
		return
	case ModuleDiet:
		a.Diet = raw
		return
	case ModuleTravel:
		a.Travel = raw
		return
	case ModuleHome:
		a.Home = raw
		return
	}
	if a.stored == nil {
		a.stored = map[Module]json.RawMessage{}
	}
	a.stored[m] = raw
	if err != nil {
		if a.unfit == nil {
			a.unfit = map[Module]error{}
		}
		a.unfit[m] = err
	}
}

// touch marks modules as edited: their typed view becomes the stored value.
func (a *Aggregate) touch(mods ...Module) {
	a.normalize()
	for _, m := range mods {
		delete(a.stored, m)
		delete(a.unfit, m)
	}
}

// Editable reports whether accessors may change m. A module whose stored
// value does not fit its entries can only be read or replaced.
func (a *Aggregate) Editable(m Module) error {
	if err, ok := a.unfit[m]; ok {
		return fmt.Errorf("module %s holds a value its entries cannot represent (%v): %w", m, err, domain.ErrValidation)
	}
	return nil
}

// Unfit lists the modules Editable refuses.
func (a *Aggregate) Unfit() []Module {
	out := make([]Module, 0, len(a.unfit))
	for m := range a.unfit {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func decodeInto[T any](raw json.RawMessage, dst *T) error {
	var v T
	err := json.Unmarshal(raw, &v)
	if err != nil {
		var zero T
		v = zero
	}
	*dst = v
	return err
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	return append(json.RawMessage(nil), raw...)
}
