// Package validator checks decoded declaration and configuration structs
// against their `validate` tags.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// identifierRe matches a PHP class name or namespace segment.
var identifierRe = regexp.MustCompile(`^[\p{L}_][\p{L}\p{N}_]*$`)

// validate is shared by all callers and reports fields by their JSON name.
var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "mapstructure"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	mustRegister("identifier", func(fl validator.FieldLevel) bool {
		return IsIdentifier(fl.Field().String())
	})
	mustRegister("namespace", func(fl validator.FieldLevel) bool {
		return IsNamespace(fl.Field().String())
	})
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// IsIdentifier reports whether s is a valid class name or namespace segment.
func IsIdentifier(s string) bool {
	return identifierRe.MatchString(s)
}

// IsNamespace reports whether every non-empty segment of a dot- or
// backslash-delimited namespace is an identifier. The empty namespace is
// valid.
func IsNamespace(ns string) bool {
	for _, segment := range strings.FieldsFunc(ns, func(r rune) bool { return r == '\\' || r == '.' }) {
		if !IsIdentifier(segment) {
			return false
		}
	}
	return true
}

// FieldError describes one failed constraint.
type FieldError struct {
	Field string // namespaced path, e.g. extensions[0].methods[2].name
	Rule  string // failed tag, e.g. required
	Param string
}

func (e FieldError) String() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s=%s", e.Field, e.Rule, e.Param)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Rule)
}

// Error aggregates every failed constraint of a single struct.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Struct validates v and returns an *Error listing every failing field,
// or nil when v is valid.
func Struct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field: trimRoot(fe.Namespace()),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}

// trimRoot drops the leading struct type name from a validator namespace.
func trimRoot(ns string) string {
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return ns
}
