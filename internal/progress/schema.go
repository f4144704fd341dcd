package progress

import (
	"bytes"
	"encoding/json"
	"fmt"

	"lifeboard/internal/domain"
)

type rename struct {
	to     string
	nested renames
}

type renames map[string]rename

func to(name string) rename { return rename{to: name} }

func toNested(name string, nested renames) rename { return rename{to: name, nested: nested} }

// legacyFields maps the entity fields written by schema version 0.
var legacyFields = map[Module]renames{
	ModuleTasks:  {"concluida": to("completed"), "titulo": to("title")},
	ModuleHabits: {"concluido": to("completed"), "nome": to("name")},
	ModuleStudySubjects: {
		"nome":           to("name"),
		"metaHoras":      to("goalHours"),
		"horasEstudadas": to("hoursStudied"),
	},
	ModuleStudyHistory: {
		"materia":         to("subject"),
		"comentario":      to("comment"),
		"duracaoSegundos": to("durationSeconds"),
		"data":            to("date"),
	},
	ModuleWorkouts: {
		"nome":       to("name"),
		"categoria":  to("category"),
		"duracao":    to("duration"),
		"exercicios": to("exercises"),
	},
	ModuleFinances: {
		"descricao": to("description"),
		"valor":     to("amount"),
		"tipo":      to("type"),
		"categoria": to("category"),
		"data":      to("date"),
	},
	ModuleDiary: {
		"data":     to("date"),
		"texto":    to("text"),
		"humor":    to("mood"),
		"destaque": to("highlight"),
		"fotoUrl":  to("photoUrl"),
	},
	ModuleBeauty: {
		"skincareManha": toNested("morningSkincare", renames{
			"limpador":   to("cleanser"),
			"tonico":     to("toner"),
			"hidratante": to("moisturizer"),
			"protetor":   to("sunscreen"),
		}),
		"skincareNoite": toNested("nightSkincare", renames{
			"demaquilante": to("makeupRemover"),
			"limpador":     to("cleanser"),
			"hidratante":   to("moisturizer"),
		}),
		"cronogramaCapilar": to("hairSchedule"),
	},
	ModuleDiet: {
		"refeicoes": toNested("meals", renames{
			"cafe":   to("breakfast"),
			"almoco": to("lunch"),
			"lanche": to("snack"),
			"jantar": to("dinner"),
		}),
		"compras": to("shoppingList"),
	},
	ModuleTravel: {"mala": to("packingList")},
	ModuleHome: {
		"tarefas":  to("chores"),
		"cardapio": toNested("menu", renames{"almoco": to("lunch"), "jantar": to("dinner")}),
	},
}

// legacyHealthDay applies to every value of the health mapping.
var legacyHealthDay = renames{
	"data":             to("date"),
	"menstruando":      to("menstruating"),
	"intensidadeFluxo": to("flowIntensity"),
	"notas":            to("notes"),
	"sintomas": toNested("symptoms", renames{
		"dorDeCabeca":            to("headache"),
		"intensidadeDorDeCabeca": to("headacheIntensity"),
		"colica":                 to("cramps"),
		"intensidadeColica":      to("crampsIntensity"),
		"inchaco":                to("bloating"),
		"seiosSensiveis":         to("breastTenderness"),
		"humorInstavel":          to("moodSwings"),
		"tipoHumor":              to("moodType"),
	}),
}

type upgrade func(doc map[string]json.RawMessage) (map[string]json.RawMessage, error)

// upgrades[v] turns a version v document into a version v+1 document.
var upgrades = []upgrade{
	upgradeLegacyNames,
}

// Decode reads a stored document of any known version. It reports whether
// the document had to be upgraded, in which case the caller should persist
// the returned aggregate in full.
//
// Modules are read independently. A module whose value does not fit its
// entries is still served as stored and reported by Unfit; it never makes the
// rest of the document unreadable.
func Decode(raw []byte) (*Aggregate, bool, error) {
	if isNull(raw) {
		return Default(), true, nil
	}
	doc := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false, fmt.Errorf("decode progress: %v: %w", err, domain.ErrUpstream)
	}
	version := 0
	if v, ok := doc["schemaVersion"]; ok {
		if err := json.Unmarshal(v, &version); err != nil {
			return nil, false, fmt.Errorf("decode progress version: %v: %w", err, domain.ErrUpstream)
		}
	}
	if version > SchemaVersion {
		return nil, false, fmt.Errorf("progress version %d is newer than %d: %w", version, SchemaVersion, domain.ErrUpstream)
	}
	upgraded := false
	for ; version < SchemaVersion; version++ {
		next, err := upgrades[version](doc)
		if err != nil {
			return nil, false, fmt.Errorf("upgrade progress from version %d: %v: %w", version, err, domain.ErrUpstream)
		}
		doc = next
		upgraded = true
	}

	a := &Aggregate{SchemaVersion: SchemaVersion}
	for _, m := range Modules {
		value, ok := doc[string(m)]
		if !ok || isNull(value) {
			continue
		}
		a.load(m, value)
	}
	a.normalize()
	return a, upgraded, nil
}

func upgradeLegacyNames(doc map[string]json.RawMessage) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(doc))
	for k, v := range doc {
		if _, legacy := legacyModuleNames[k]; !legacy {
			out[k] = v
		}
	}
	for legacyName, m := range legacyModuleNames {
		value, ok := doc[legacyName]
		if !ok {
			continue
		}
		if _, taken := out[string(m)]; taken {
			continue
		}
		var (
			renamed json.RawMessage
			err     error
		)
		if m == ModuleHealth {
			renamed, err = renameEachValue(value, legacyHealthDay)
		} else {
			renamed, err = applyRenames(value, legacyFields[m])
		}
		// a value of an unexpected shape moves over under its new key unrenamed
		if err == nil {
			value = renamed
		}
		out[string(m)] = value
	}
	return out, nil
}

// applyRenames renames object keys per table, recursing into arrays element-wise.
// Keys already present under their new name win over renamed ones.
func applyRenames(raw json.RawMessage, table renames) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || len(table) == 0 {
		return raw, nil
	}
	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		for i := range items {
			renamed, err := applyRenames(items[i], table)
			if err != nil {
				return nil, err
			}
			items[i] = renamed
		}
		return json.Marshal(items)
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return nil, err
		}
		out := make(map[string]json.RawMessage, len(fields))
		for k, v := range fields {
			if _, ok := table[k]; !ok {
				out[k] = v
			}
		}
		for k, v := range fields {
			r, ok := table[k]
			if !ok {
				continue
			}
			if _, taken := out[r.to]; taken {
				continue
			}
			if r.nested != nil {
				nested, err := applyRenames(v, r.nested)
				if err != nil {
					return nil, err
				}
				v = nested
			}
			out[r.to] = v
		}
		return json.Marshal(out)
	default:
		return raw, nil
	}
}

func renameEachValue(raw json.RawMessage, table renames) (json.RawMessage, error) {
	var values map[string]json.RawMessage
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, err
	}
	for k, v := range values {
		renamed, err := applyRenames(v, table)
		if err != nil {
			return nil, err
		}
		values[k] = renamed
	}
	return json.Marshal(values)
}

// LegacyInput maps Portuguese field names sent by older clients for a single
// entity of module m to the current names. Current names win on collision.
func LegacyInput(m Module, raw json.RawMessage) (json.RawMessage, error) {
	table := legacyFields[m]
	if m == ModuleHealth {
		table = legacyHealthDay
	}
	return applyRenames(raw, table)
}
