package bulk

import (
	"errors"
	"strings"
)

// ErrNothingToUpdate is returned when no field of an EditForm qualifies.
var ErrNothingToUpdate = errors.New("select at least one field to update")

type formField struct {
	name    string
	value   interface{}
	enabled bool
}

// EditForm holds the bulk edit inputs. Each field carries its own
// "update this field" flag; a value typed into an unflagged field is ignored.
type EditForm struct {
	fields []formField
}

// Set records value for field along with its flag. Setting a field again
// replaces the earlier entry.
func (f *EditForm) Set(field string, value interface{}, enabled bool) *EditForm {
	for i := range f.fields {
		if f.fields[i].name == field {
			f.fields[i] = formField{name: field, value: value, enabled: enabled}
			return f
		}
	}
	f.fields = append(f.fields, formField{name: field, value: value, enabled: enabled})
	return f
}

// Updates returns the flagged fields with non-blank values.
func (f *EditForm) Updates() (map[string]interface{}, error) {
	updates := make(map[string]interface{})
	for _, fld := range f.fields {
		if !fld.enabled || blank(fld.value) {
			continue
		}
		if s, ok := fld.value.(string); ok {
			updates[fld.name] = strings.TrimSpace(s)
			continue
		}
		updates[fld.name] = fld.value
	}
	if len(updates) == 0 {
		return nil, ErrNothingToUpdate
	}
	return updates, nil
}

func blank(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case *string:
		return val == nil || strings.TrimSpace(*val) == ""
	}
	return false
}
