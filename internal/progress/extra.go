package progress

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// Extra keeps client-supplied fields that have no typed home on an entity,
// in their original encoding, so they survive a read-modify-write cycle. It
// also keeps typed fields whose stored value could not be read as their type;
// those are written back as they were found.
type Extra map[string]json.RawMessage

// drop forgets the kept value of a typed field once an accessor has set it.
func (e Extra) drop(name string) {
	for k := range e {
		if strings.EqualFold(k, name) {
			delete(e, k)
		}
	}
}

type fieldInfo struct {
	index int
	name  string
}

var knownFieldsCache sync.Map // reflect.Type -> map[string]fieldInfo

// encodeWithExtra marshals v and merges the extra fields. A kept value for a
// typed field replaces the typed encoding.
func encodeWithExtra(v any, extra Extra) ([]byte, error) {
	base, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return base, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	known := knownFields(reflect.TypeOf(v))
	for k, raw := range extra {
		if f, typed := known[strings.ToLower(k)]; typed {
			delete(fields, f.name)
		}
		fields[k] = raw
	}
	return json.Marshal(fields)
}

// decodeWithExtra unmarshals data into v (a pointer to a struct) and returns
// the fields v has no json field for. A field of the wrong type does not fail
// the entity: it is coerced when the intent is plain ("true", "3", 1) and
// kept verbatim otherwise.
func decodeWithExtra(data []byte, v any) (Extra, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	rv := reflect.ValueOf(v).Elem()
	known := knownFields(rv.Type())

	var kept map[string]bool
	if err := json.Unmarshal(data, v); err != nil {
		rv.Set(reflect.Zero(rv.Type()))
		kept = decodeFields(fields, rv, known)
	}

	for k := range fields {
		// encoding/json matches field names case-insensitively.
		if _, ok := known[strings.ToLower(k)]; ok && !kept[k] {
			delete(fields, k)
		}
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return Extra(fields), nil
}

// decodeFields sets each typed field on its own and reports the keys whose
// values fit neither the field nor a coercion.
func decodeFields(fields map[string]json.RawMessage, rv reflect.Value, known map[string]fieldInfo) map[string]bool {
	kept := map[string]bool{}
	for key, raw := range fields {
		info, ok := known[strings.ToLower(key)]
		if !ok {
			continue
		}
		f := rv.Field(info.index)
		if err := json.Unmarshal(raw, f.Addr().Interface()); err == nil {
			continue
		}
		f.Set(reflect.Zero(f.Type()))
		if coerce(raw, f) {
			continue
		}
		f.Set(reflect.Zero(f.Type()))
		kept[key] = true
	}
	return kept
}

// coerce reads loosely typed scalars the way the first clients wrote them.
func coerce(raw json.RawMessage, f reflect.Value) bool {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch f.Kind() {
	case reflect.Bool:
		switch x := v.(type) {
		case nil:
			return true
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(x)); err == nil {
				f.SetBool(b)
			} else {
				f.SetBool(x != "")
			}
			return true
		case float64:
			f.SetBool(x != 0)
			return true
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch x := v.(type) {
		case string:
			n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
			if err != nil {
				return false
			}
			f.SetInt(int64(n))
			return true
		case float64:
			f.SetInt(int64(x))
			return true
		case bool:
			if x {
				f.SetInt(1)
			}
			return true
		}
	case reflect.Float32, reflect.Float64:
		if x, ok := v.(string); ok {
			n, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(x), ",", "."), 64)
			if err != nil {
				return false
			}
			f.SetFloat(n)
			return true
		}
	case reflect.String:
		switch x := v.(type) {
		case float64:
			f.SetString(strconv.FormatFloat(x, 'f', -1, 64))
			return true
		case bool:
			f.SetString(strconv.FormatBool(x))
			return true
		}
	}
	return false
}

func knownFields(t reflect.Type) map[string]fieldInfo {
	if cached, ok := knownFieldsCache.Load(t); ok {
		return cached.(map[string]fieldInfo)
	}
	names := make(map[string]fieldInfo, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			if tag == "-" {
				continue
			}
			if n, _, _ := strings.Cut(tag, ","); n != "" {
				name = n
			}
		}
		names[strings.ToLower(name)] = fieldInfo{index: i, name: name}
	}
	knownFieldsCache.Store(t, names)
	return names
}
