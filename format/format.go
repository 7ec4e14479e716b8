// Package format converts raw property values into values the graph store accepts.
//
// A Formatter is attached to a field descriptor either directly:
//
//	field.String("name").Formatter(format.Upper)
//
// or by name, resolved against a Registry when the label schema is built:
//
//	field.Time("born").FormatterName("date")
//
// Fields without a formatter fall back to a default chosen by their data type.
package format

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/ocean/ngql"
)

// Formatter converts a raw field value into a store-compatible value.
type Formatter interface {
	Format(v any) (any, error)
}

// Func adapts an ordinary function to the Formatter interface.
type Func func(v any) (any, error)

// Format implements Formatter.
func (f Func) Format(v any) (any, error) { return f(v) }

type none struct{}

func (none) Format(v any) (any, error) { return v, nil }

// None is the "no formatter" sentinel. A field carrying None uses the
// type-driven default.
var None Formatter = none{}

// IsNone reports whether f is nil or the None sentinel.
func IsNone(f Formatter) bool {
	if f == nil {
		return true
	}
	_, ok := f.(none)
	return ok
}

// ErrUnsupportedValue is returned by built-in formatters that do not accept the value's type.
var ErrUnsupportedValue = errors.New("format: unsupported value")

func unsupported(name string, v any) error {
	return fmt.Errorf("%w: %s cannot format %T", ErrUnsupportedValue, name, v)
}

// Built-in formatters. All of them pass nil through unchanged.
var (
	// Identity returns the value unchanged.
	Identity Formatter = Func(func(v any) (any, error) { return v, nil })

	// Upper upper-cases strings.
	Upper Formatter = stringFunc("upper", strings.ToUpper)

	// Lower lower-cases strings.
	Lower Formatter = stringFunc("lower", strings.ToLower)

	// Trim removes leading and trailing white space.
	Trim Formatter = stringFunc("trim", strings.TrimSpace)

	// Sanitize removes characters that would corrupt a statement literal.
	Sanitize Formatter = stringFunc("sanitize", ngql.RemoveSpecialChar)

	// Unix converts time values into seconds since the epoch.
	Unix Formatter = Func(func(v any) (any, error) {
		switch v := v.(type) {
		case nil:
			return nil, nil
		case time.Time:
			return v.Unix(), nil
		case *time.Time:
			if v == nil {
				return nil, nil
			}
			return v.Unix(), nil
		case int64, int:
			return v, nil
		default:
			return nil, unsupported("unix", v)
		}
	})

	// Date renders time values as a date() expression.
	Date Formatter = timeFunc("date", ngql.DateLayout)

	// Time renders time values as a time() expression.
	Time Formatter = timeFunc("time", ngql.TimeLayout)

	// DateTime renders time values as a datetime() expression.
	DateTime Formatter = timeFunc("datetime", ngql.DateTimeLayout)

	// UUID renders uuid values in their canonical string form.
	UUID Formatter = Func(func(v any) (any, error) {
		switch v := v.(type) {
		case nil:
			return nil, nil
		case uuid.UUID:
			return v.String(), nil
		case *uuid.UUID:
			if v == nil {
				return nil, nil
			}
			return v.String(), nil
		case string:
			u, err := uuid.Parse(v)
			if err != nil {
				return nil, fmt.Errorf("format: uuid: %w", err)
			}
			return u.String(), nil
		default:
			return nil, unsupported("uuid", v)
		}
	})

	// JSON encodes the value as a JSON string.
	JSON Formatter = Func(func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		buf, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("format: json: %w", err)
		}
		return string(buf), nil
	})
)

func stringFunc(name string, fn func(string) string) Formatter {
	return Func(func(v any) (any, error) {
		switch v := v.(type) {
		case nil:
			return nil, nil
		case string:
			return fn(v), nil
		case *string:
			if v == nil {
				return nil, nil
			}
			return fn(*v), nil
		case fmt.Stringer:
			return fn(v.String()), nil
		default:
			return nil, unsupported(name, v)
		}
	})
}

func timeFunc(name, layout string) Formatter {
	return Func(func(v any) (any, error) {
		switch v := v.(type) {
		case nil:
			return nil, nil
		case time.Time:
			return ngql.Expr(ngql.Func(name, v.Format(layout))), nil
		case *time.Time:
			if v == nil {
				return nil, nil
			}
			return ngql.Expr(ngql.Func(name, v.Format(layout))), nil
		case string:
			return ngql.Expr(ngql.Func(name, v)), nil
		default:
			return nil, unsupported(name, v)
		}
	})
}
