// Package forms models the dialog form state of the terminal client: named
// fields with touched flags and a typed per-field error set. Validation
// failures stay local to the form; nothing here reaches the network.
package forms

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Well-known error keys shared by the wizards.
const (
	ErrRequired          = "required"
	ErrMin               = "min"
	ErrMax               = "max"
	ErrMismatch          = "mismatch"
	ErrOptionInvalida    = "optionInvalida"
	ErrStockInsuficiente = "stockInsuficiente"
)

// ErrorSet is the named validation-error set attached to one field.
// Explicit add/remove by key, no dynamic patching.
type ErrorSet struct {
	errs map[string]string
}

// Add sets the message under key, replacing any previous one.
func (s *ErrorSet) Add(key, message string) {
	if s.errs == nil {
		s.errs = make(map[string]string)
	}
	s.errs[key] = message
}

// Remove drops the error under key; other keys are untouched.
func (s *ErrorSet) Remove(key string) {
	delete(s.errs, key)
}

// Has reports whether key is present.
func (s *ErrorSet) Has(key string) bool {
	_, ok := s.errs[key]
	return ok
}

// Empty reports whether no errors are present.
func (s *ErrorSet) Empty() bool {
	return len(s.errs) == 0
}

// Messages returns all messages, ordered by key for stable display.
func (s *ErrorSet) Messages() []string {
	if len(s.errs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(s.errs))
	for k := range s.errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = s.errs[k]
	}
	return out
}

// Field is one form input: raw value, touched flag and error set. Errors
// only surface to the user once the field is touched.
type Field struct {
	Name    string
	Value   string
	Touched bool
	Errors  ErrorSet
}

// SetValue stores the raw input and marks the field touched.
func (f *Field) SetValue(v string) {
	f.Value = strings.TrimSpace(v)
	f.Touched = true
}

// Fail attaches an error and marks the field touched so it displays.
func (f *Field) Fail(key, message string) {
	f.Errors.Add(key, message)
	f.Touched = true
}

// Valid reports whether the field carries no errors.
func (f *Field) Valid() bool {
	return f.Errors.Empty()
}

// Require flags an empty value. Returns true when the value is present.
func (f *Field) Require() bool {
	if strings.TrimSpace(f.Value) == "" {
		f.Fail(ErrRequired, f.Name+" es obligatorio")
		return false
	}
	f.Errors.Remove(ErrRequired)
	return true
}

// IntMin parses the value as an integer with a lower bound.
func (f *Field) IntMin(min int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(f.Value))
	if err != nil || n < min {
		f.Fail(ErrMin, f.Name+" debe ser un entero ≥ "+strconv.Itoa(min))
		return 0, false
	}
	f.Errors.Remove(ErrMin)
	return n, true
}

// DecimalMin parses the value as a decimal with a lower bound.
func (f *Field) DecimalMin(min decimal.Decimal) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(f.Value))
	if err != nil || d.LessThan(min) {
		f.Fail(ErrMin, f.Name+" debe ser ≥ "+min.String())
		return decimal.Zero, false
	}
	f.Errors.Remove(ErrMin)
	return d, true
}

// MinLen flags a non-empty value shorter than n runes.
func (f *Field) MinLen(n int) bool {
	if len([]rune(f.Value)) < n {
		f.Fail(ErrMin, f.Name+" debe tener al menos "+strconv.Itoa(n)+" caracteres")
		return false
	}
	f.Errors.Remove(ErrMin)
	return true
}

// MaxLen flags a value longer than n runes.
func (f *Field) MaxLen(n int) bool {
	if len([]rune(f.Value)) > n {
		f.Fail(ErrMax, f.Name+" supera los "+strconv.Itoa(n)+" caracteres")
		return false
	}
	f.Errors.Remove(ErrMax)
	return true
}

// Form is an ordered set of fields.
type Form struct {
	order  []string
	fields map[string]*Field
}

// NewForm declares the fields in display order.
func NewForm(names ...string) *Form {
	f := &Form{fields: make(map[string]*Field, len(names))}
	for _, name := range names {
		f.order = append(f.order, name)
		f.fields[name] = &Field{Name: name}
	}
	return f
}

// Field returns the named field, declaring it on the fly if unknown.
func (f *Form) Field(name string) *Field {
	fld, ok := f.fields[name]
	if !ok {
		fld = &Field{Name: name}
		f.order = append(f.order, name)
		f.fields[name] = fld
	}
	return fld
}

// MarkAllTouched makes every field display its errors, mirroring a failed
// submit on an incomplete dialog.
func (f *Form) MarkAllTouched() {
	for _, name := range f.order {
		f.fields[name].Touched = true
	}
}

// Valid reports whether no field carries errors.
func (f *Form) Valid() bool {
	for _, name := range f.order {
		if !f.fields[name].Valid() {
			return false
		}
	}
	return true
}

// Problems lists the messages of touched invalid fields in field order.
func (f *Form) Problems() []string {
	var out []string
	for _, name := range f.order {
		fld := f.fields[name]
		if !fld.Touched || fld.Valid() {
			continue
		}
		out = append(out, fld.Errors.Messages()...)
	}
	return out
}
