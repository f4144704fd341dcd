// Package progress models the per-user progress document and the accessors
// that read and mutate each of its modules.
//
// The document is a closed set of modules. Every mutation goes through an
// accessor that keeps derived fields (subject hours, habit streaks, the diary
// bound) consistent; whole-module replacement is the only path that skips
// those derivations.
package progress

import (
	"fmt"
	"strings"

	"lifeboard/internal/domain"
)

// Module names one slice of the progress document.
type Module string

const (
	ModuleTasks         Module = "tasks"
	ModuleHabits        Module = "habits"
	ModuleStudySubjects Module = "studySubjects"
	ModuleStudyHistory  Module = "studyHistory"
	ModuleWorkouts      Module = "workouts"
	ModuleFinances      Module = "finances"
	ModuleHealth        Module = "health"
	ModuleDiary         Module = "diary"
	ModuleBeauty        Module = "beauty"
	ModuleDiet          Module = "diet"
	ModuleTravel        Module = "travel"
	ModuleHome          Module = "home"
)

// Modules lists every module in document order.
var Modules = []Module{
	ModuleTasks,
	ModuleHabits,
	ModuleStudySubjects,
	ModuleStudyHistory,
	ModuleWorkouts,
	ModuleFinances,
	ModuleHealth,
	ModuleDiary,
	ModuleBeauty,
	ModuleDiet,
	ModuleTravel,
	ModuleHome,
}

// Valid reports whether m is one of Modules.
func (m Module) Valid() bool {
	for _, known := range Modules {
		if m == known {
			return true
		}
	}
	return false
}

// legacyModuleNames maps the Portuguese keys written by schema version 0.
var legacyModuleNames = map[string]Module{
	"tarefas":          ModuleTasks,
	"habitos":          ModuleHabits,
	"materias":         ModuleStudySubjects,
	"historicoEstudos": ModuleStudyHistory,
	"treinos":          ModuleWorkouts,
	"financas":         ModuleFinances,
	"saude":            ModuleHealth,
	"diario":           ModuleDiary,
	"beleza":           ModuleBeauty,
	"alimentacao":      ModuleDiet,
	"viagens":          ModuleTravel,
	"casa":             ModuleHome,
}

// ParseModule resolves a module name from a route parameter. Legacy Portuguese
// names are accepted so older clients keep working; anything else is rejected.
func ParseModule(name string) (Module, error) {
	name = strings.TrimSpace(name)
	for _, m := range Modules {
		if string(m) == name {
			return m, nil
		}
	}
	if m, ok := legacyModuleNames[name]; ok {
		return m, nil
	}
	return "", fmt.Errorf("module %q: %w", name, domain.ErrUnknownModule)
}
