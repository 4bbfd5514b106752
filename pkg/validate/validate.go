// Package validate checks raw request bodies against field-descriptor schemas.
//
// A Schema is a list of Field descriptors. Each field declares whether it is
// required, the kind of value it expects and an optional comma-separated list
// of rules:
//
//	var productSchema = validate.Schema{
//	    {Name: "name", Required: true, Kind: validate.String},
//	    {Name: "price", Required: true, Kind: validate.Integer, Rules: "gte=0"},
//	    {Name: "offer", Kind: validate.Boolean},
//	    {Name: "file", Required: true, Kind: validate.File},
//	}
//
// Supported rules:
//
//	email               valid email address
//	url                 valid URL (http/https)
//	uuid                valid UUID
//	alpha               letters only
//	alpha_num           letters and digits only
//	alpha_dash          letters, digits, hyphens, underscores
//	min=N               string: min char length | number: min value
//	max=N               string: max char length | number: max value
//	size=N              string: exact length
//	gt=N gte=N lt=N lte=N
//	between=min,max     number or string length between min and max (inclusive)
//	in=a,b,c            value must be one of the listed items
//	not_in=a,b,c        value must NOT be one of the listed items
//	regex=pattern       value must match the regex (avoid commas in pattern)
//
// Validation never stops at the first bad field: every violation is reported,
// one message per field key. Array items are addressed as "products[0].id".
package validate

import (
	"encoding/json"
	"fmt"
	"math"
	"mime/multipart"
	"sort"
	"strconv"
	"strings"
)

// Kind is the type a field's value must have.
type Kind int

const (
	String Kind = iota + 1
	Number
	Integer
	Boolean
	Array
	File
)

// Field describes one key of a request body.
type Field struct {
	Name     string
	Required bool
	Kind     Kind
	Rules    string
	// Items is the schema applied to each element of an Array of objects.
	Items Schema
}

// Schema is an ordered list of field descriptors.
type Schema []Field

// Errors maps a field key to its message. Empty means valid.
type Errors map[string]string

// Error is returned when a body fails its schema.
type Error struct {
	Fields Errors
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

// Err returns nil for an empty set and *Error otherwise.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return &Error{Fields: e}
}

// Validate checks v against the schema and returns nil or *Error.
func (s Schema) Validate(v Values) error {
	return s.Check(v).Err()
}

// Check collects every violation of v against the schema.
func (s Schema) Check(v Values) Errors {
	errs := Errors{}
	s.check(v, "", errs)
	return errs
}

func (s Schema) check(v Values, prefix string, errs Errors) {
	for _, f := range s {
		key := prefix + f.Name
		raw, present := v[f.Name]

		if !present || isBlank(raw) {
			if f.Required {
				errs[key] = fmt.Sprintf("The %s field is required.", key)
			}
			continue
		}

		if msg := f.checkKind(key, raw, errs); msg != "" {
			errs[key] = msg
			continue
		}

		for _, rule := range splitRules(f.Rules) {
			if msg := applyRule(rule, key, f.Kind, raw); msg != "" {
				errs[key] = msg
				break
			}
		}
	}
}

func (f Field) checkKind(key string, raw any, errs Errors) string {
	switch f.Kind {
	case String:
		if _, ok := raw.(string); !ok {
			return fmt.Sprintf("The %s must be a string.", key)
		}
	case Number:
		if _, ok := toNumber(raw); !ok {
			return fmt.Sprintf("The %s field must be a number.", key)
		}
	case Integer:
		n, ok := toNumber(raw)
		if !ok || n != math.Trunc(n) {
			return fmt.Sprintf("The %s field must be an integer.", key)
		}
	case Boolean:
		if _, ok := toBool(raw); !ok {
			return fmt.Sprintf("The %s field must be true or false.", key)
		}
	case File:
		if _, ok := raw.(*multipart.FileHeader); !ok {
			return fmt.Sprintf("The %s must be a file.", key)
		}
	case Array:
		items, ok := raw.([]any)
		if !ok {
			return fmt.Sprintf("The %s must be an array.", key)
		}
		if f.Items == nil {
			return ""
		}
		for i, item := range items {
			itemKey := fmt.Sprintf("%s[%d]", key, i)
			obj, ok := toValues(item)
			if !ok {
				errs[itemKey] = fmt.Sprintf("The %s must be an object.", itemKey)
				continue
			}
			f.Items.check(obj, itemKey+".", errs)
		}
	}
	return ""
}

// ─── Values ──────────────────────────────────────────────────────────────────

// Values is a decoded request body: JSON object or multipart form fields.
type Values map[string]any

// Has reports whether key is present with a non-blank value.
func (v Values) Has(key string) bool {
	raw, ok := v[key]
	return ok && !isBlank(raw)
}

// String returns the value of key as text.
func (v Values) String(key string) string {
	switch t := v[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Int64 returns the value of key as an integer, zero when not numeric.
func (v Values) Int64(key string) int64 {
	n, _ := toNumber(v[key])
	return int64(n)
}

// Float64 returns the value of key as a float, zero when not numeric.
func (v Values) Float64(key string) float64 {
	n, _ := toNumber(v[key])
	return n
}

// Bool returns the value of key as a boolean, false when absent.
func (v Values) Bool(key string) bool {
	b, _ := toBool(v[key])
	return b
}

// File returns the uploaded file stored under key.
func (v Values) File(key string) *multipart.FileHeader {
	fh, _ := v[key].(*multipart.FileHeader)
	return fh
}

// Items returns the object elements of an array field.
func (v Values) Items(key string) []Values {
	raw, _ := v[key].([]any)
	out := make([]Values, 0, len(raw))
	for _, item := range raw {
		if obj, ok := toValues(item); ok {
			out = append(out, obj)
		}
	}
	return out
}

// ─── Coercion ────────────────────────────────────────────────────────────────

func isBlank(raw any) bool {
	switch t := raw.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	}
	return false
}

func toNumber(raw any) (float64, bool) {
	switch t := raw.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func toBool(raw any) (bool, bool) {
	switch t := raw.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
	case json.Number:
		switch t.String() {
		case "1":
			return true, true
		case "0":
			return false, true
		}
	}
	return false, false
}

func toValues(raw any) (Values, bool) {
	switch t := raw.(type) {
	case Values:
		return t, true
	case map[string]any:
		return Values(t), true
	}
	return nil, false
}
