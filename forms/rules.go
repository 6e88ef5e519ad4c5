package forms

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate = validator.New()

func check(tag, msg string) Step {
	return func(v string) (string, string) {
		if err := validate.Var(v, tag); err != nil {
			return v, msg
		}
		return v, ""
	}
}

// Trim removes surrounding whitespace.
func Trim(v string) (string, string) { return strings.TrimSpace(v), "" }

var escaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#x27;",
	"<", "&lt;",
	">", "&gt;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// Escape replaces markup-significant characters with HTML entities.
func Escape(v string) (string, string) { return escaper.Replace(v), "" }

func Required(msg string) Step { return check("required", msg) }

func MinLen(n int, msg string) Step { return check(fmt.Sprintf("min=%d", n), msg) }

func MaxLen(n int, msg string) Step { return check(fmt.Sprintf("max=%d", n), msg) }

func Alphanumeric(msg string) Step { return check("alphanum", msg) }

func OneOf(msg string, allowed ...string) Step {
	return check("oneof="+strings.Join(allowed, " "), msg)
}

// ObjectID accepts 24 hex digits.
func ObjectID(msg string) Step {
	return func(v string) (string, string) {
		if !primitive.IsValidObjectID(v) {
			return v, msg
		}
		return v, ""
	}
}

var isoLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// ParseISODate accepts calendar dates and RFC 3339 timestamps. Values without
// a zone are read as UTC.
func ParseISODate(v string) (time.Time, error) {
	var err error
	for _, layout := range isoLayouts {
		var t time.Time
		if t, err = time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}

func ISODate(msg string) Step {
	return func(v string) (string, string) {
		if _, err := ParseISODate(v); err != nil {
			return v, msg
		}
		return v, ""
	}
}

// Text declares a trimmed text field followed by steps.
func Text(name string, steps ...Step) Field {
	return Field{Name: name, Kind: KindText, Steps: append([]Step{Trim}, steps...)}
}

// Date declares an optional ISO-8601 date field.
func Date(name, msg string) Field {
	return Field{Name: name, Kind: KindDate, Optional: true, Steps: []Step{Trim, ISODate(msg)}}
}

// Enum declares an optional field restricted to allowed.
func Enum(name, msg string, allowed ...string) Field {
	return Field{Name: name, Kind: KindEnum, Optional: true, Steps: []Step{Trim, Escape, OneOf(msg, allowed...)}}
}

// Ref declares a required reference to another entity.
func Ref(name, msg string) Field {
	return Field{Name: name, Kind: KindRef, Steps: []Step{Trim, Required(msg), Escape, ObjectID(msg)}}
}

// Refs declares a multi-valued reference field such as a checkbox group.
func Refs(name, msg string) Field {
	return Field{Name: name, Kind: KindRefs, Steps: []Step{Trim, Escape, ObjectID(msg)}}
}

func parseRef(v string) primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(v)
	if err != nil {
		return primitive.NilObjectID
	}
	return id
}

func parseRefs(vs []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(vs))
	for _, v := range vs {
		if id := parseRef(v); !id.IsZero() {
			out = append(out, id)
		}
	}
	return out
}
