package form

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/abhayas/halfdigit-web/internal/failure"
)

// Kind is the input type a field accepts.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindBool
	KindFile
)

// Field declares one input of a form.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
}

// File is an uploaded file held in memory. Data may be nil when the upload was
// too large to be worth reading; Size is always the declared size.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// Values is the raw form state: field name to string, int, float64, bool or File.
type Values map[string]any

// String returns the trimmed text value of name, or "" if it is unset.
func (v Values) String(name string) string {
	switch x := v[name].(type) {
	case string:
		return strings.TrimSpace(x)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}

// Int coerces name to an integer.
func (v Values) Int(name string) (int, error) {
	switch x := v[name].(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case float64:
		if x != float64(int(x)) {
			return 0, &failure.Validation{Field: name, Reason: "must be a whole number"}
		}
		return int(x), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, &failure.Validation{Field: name, Reason: "must be a whole number"}
		}
		return n, nil
	default:
		return 0, &failure.Validation{Field: name, Reason: "is required"}
	}
}

// Float coerces name to a float64.
func (v Values) Float(name string) (float64, error) {
	switch x := v[name].(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, &failure.Validation{Field: name, Reason: "must be a number"}
		}
		return x, nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, &failure.Validation{Field: name, Reason: "must be a number"}
		}
		return f, nil
	default:
		return 0, &failure.Validation{Field: name, Reason: "is required"}
	}
}

// Bool coerces name to a bool. Checkbox values "on" and "off" are understood.
func (v Values) Bool(name string) (bool, error) {
	switch x := v[name].(type) {
	case bool:
		return x, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "on":
			return true, nil
		case "", "off":
			return false, nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return false, &failure.Validation{Field: name, Reason: "must be true or false"}
		}
		return b, nil
	default:
		return false, &failure.Validation{Field: name, Reason: "is required"}
	}
}

// File returns the file stored under name.
func (v Values) File(name string) (File, bool) {
	f, ok := v[name].(File)
	return f, ok
}

// Flag encodes a boolean as the 0/1 integer the prediction API expects.
func Flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (v Values) present(f Field) bool {
	raw, ok := v[f.Name]
	if !ok || raw == nil {
		return false
	}
	switch x := raw.(type) {
	case string:
		if f.Kind == KindBool {
			return true
		}
		return strings.TrimSpace(x) != ""
	case File:
		return x.Name != ""
	default:
		return true
	}
}

func (v Values) clone() Values {
	out := make(Values, len(v))
	for k, x := range v {
		out[k] = x
	}
	return out
}
