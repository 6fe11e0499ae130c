package validation

import (
	"strings"
	"sync"
)

// Field declares one form input and the rules applied to it.
type Field struct {
	Name  string
	Label string
	Rules []Rule
}

// FieldError is a failed field with its user-facing message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed, in form order.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Message returns the message recorded for field, or "".
func (e *ValidationError) Message(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// Form keeps the values and errors of one input form. Set validates a single
// field as it changes; Validate re-checks every field before submission.
type Form struct {
	mu     sync.RWMutex
	fields []Field
	values Values
	errors map[string]string
}

// NewForm creates an empty form with fields in display order.
func NewForm(fields ...Field) *Form {
	return &Form{
		fields: fields,
		values: make(Values, len(fields)),
		errors: make(map[string]string),
	}
}

// Fields returns the declared fields in display order.
func (f *Form) Fields() []Field {
	return append([]Field(nil), f.fields...)
}

func (f *Form) field(name string) (Field, bool) {
	for _, fd := range f.fields {
		if fd.Name == name {
			return fd, true
		}
	}
	return Field{}, false
}

func (f *Form) check(fd Field) Result {
	return Chain(fd.Rules...)(f.values[fd.Name], f.values)
}

// Set stores value for name and validates that field immediately. Unknown
// names are stored without validation.
func (f *Form) Set(name, value string) Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values[name] = value
	fd, ok := f.field(name)
	if !ok {
		return OK
	}

	r := f.check(fd)
	if r.Valid {
		delete(f.errors, name)
	} else {
		f.errors[name] = r.Message
	}
	return r
}

// Value returns the current value of name.
func (f *Form) Value(name string) string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.values[name]
}

// Values returns a copy of all current values.
func (f *Form) Values() Values {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make(Values, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Error returns the message currently shown for name.
func (f *Form) Error(name string) string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.errors[name]
}

// Validate re-validates every field and returns a *ValidationError listing
// the failures, or nil.
func (f *Form) Validate() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var failed []FieldError
	for _, fd := range f.fields {
		r := f.check(fd)
		if r.Valid {
			delete(f.errors, fd.Name)
			continue
		}
		f.errors[fd.Name] = r.Message
		failed = append(failed, FieldError{Field: fd.Name, Message: r.Message})
	}
	if len(failed) > 0 {
		return &ValidationError{Fields: failed}
	}
	return nil
}

// Complete reports whether every declared field has a non-blank value.
func (f *Form) Complete() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, fd := range f.fields {
		if isBlank(f.values[fd.Name]) {
			return false
		}
	}
	return true
}

// Reset clears all values and errors.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = make(Values, len(f.fields))
	f.errors = make(map[string]string)
}
