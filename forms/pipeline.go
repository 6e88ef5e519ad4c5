// Package forms validates and sanitizes submitted catalog forms and maps them
// onto entities.
//
// Every field is declared as an ordered list of steps. A step may rewrite the
// value (trim, escape) or reject it with a message. Steps of one field stop at
// the first rejection; fields are always all evaluated, so a submission yields
// every field error at once.
package forms

import (
	"net/url"
	"time"
)

type Kind int

const (
	KindText Kind = iota
	KindDate
	KindEnum
	KindRef
	KindRefs
)

// Step transforms or checks one submitted value. A non-empty msg rejects it.
type Step func(value string) (out string, msg string)

type Field struct {
	Name string
	Kind Kind
	// Optional fields submitted empty skip their steps and stay unset.
	Optional bool
	Steps    []Step
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors keeps field errors in declaration order.
type Errors []FieldError

// For returns the message recorded for field, or "".
func (e Errors) For(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

func (e Errors) Has(field string) bool {
	return e.For(field) != ""
}

// Result is the outcome of evaluating a form.
type Result struct {
	// Values holds the sanitized submission; unset optional fields are absent.
	Values url.Values
	Dates  map[string]time.Time
	Errors Errors
}

func (r *Result) Valid() bool { return len(r.Errors) == 0 }

func (r *Result) Get(name string) string { return r.Values.Get(name) }

func (r *Result) All(name string) []string { return r.Values[name] }

// Date returns the converted value of a date field, nil when unset or invalid.
func (r *Result) Date(name string) *time.Time {
	t, ok := r.Dates[name]
	if !ok {
		return nil
	}
	return &t
}

// Evaluate runs every field of fields against the submission.
func Evaluate(fields []Field, form url.Values) *Result {
	res := &Result{
		Values: url.Values{},
		Dates:  map[string]time.Time{},
	}
	for _, f := range fields {
		if f.Kind == KindRefs {
			evalMany(res, f, Normalize(form[f.Name]))
			continue
		}
		evalOne(res, f, form.Get(f.Name))
	}
	return res
}

func evalOne(res *Result, f Field, value string) {
	if f.Optional && value == "" {
		return
	}
	value, msg := run(f.Steps, value)
	res.Values.Set(f.Name, value)
	if msg != "" {
		res.Errors = append(res.Errors, FieldError{Field: f.Name, Message: msg})
		return
	}
	if f.Kind == KindDate {
		if t, err := ParseISODate(value); err == nil {
			res.Dates[f.Name] = t
		}
	}
}

func evalMany(res *Result, f Field, values []string) {
	out := make([]string, 0, len(values))
	failed := ""
	for _, v := range values {
		v, msg := run(f.Steps, v)
		out = append(out, v)
		if msg != "" && failed == "" {
			failed = msg
		}
	}
	res.Values[f.Name] = out
	if failed != "" {
		res.Errors = append(res.Errors, FieldError{Field: f.Name, Message: failed})
	}
}

func run(steps []Step, value string) (string, string) {
	for _, step := range steps {
		var msg string
		value, msg = step(value)
		if msg != "" {
			return value, msg
		}
	}
	return value, ""
}

// Normalize turns an absent, scalar or sequence submission into a sequence.
func Normalize(v interface{}) []string {
	switch t := v.(type) {
	case nil:
		return []string{}
	case string:
		return []string{t}
	case []string:
		if t == nil {
			return []string{}
		}
		return t
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}
