package gen

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingConfig is matched by every *ConfigError: a generator option
	// was rejected or a required setting is absent.
	ErrMissingConfig = errors.New("ocean/gen: invalid generator config")
	// ErrGenerationFailed is matched by every *GenerationError: a graph type
	// could not be rendered into Go source or the file could not be written.
	ErrGenerationFailed = errors.New("ocean/gen: graph code generation failed")
)

// ConfigError reports a rejected generator option such as the target
// directory, the package name or the worker count.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

func (e *ConfigError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("ocean/gen: option %s: %s", e.Option, e.Message)
	}
	return fmt.Sprintf("ocean/gen: option %s=%v: %s", e.Option, e.Value, e.Message)
}

func (e *ConfigError) Is(target error) bool { return target == ErrMissingConfig }

// NewConfigError returns a ConfigError for option.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{Option: option, Value: value, Message: message}
}

// GenerationError reports the graph type and output file that failed. Type
// is empty for files shared by every type of the schema document.
type GenerationError struct {
	Type  string
	File  string
	Cause error
}

func (e *GenerationError) Error() string {
	where := e.File
	switch {
	case e.Type != "" && e.File != "":
		where = e.Type + " (" + e.File + ")"
	case e.Type != "":
		where = e.Type
	}
	return fmt.Sprintf("ocean/gen: generate %s: %v", where, e.Cause)
}

func (e *GenerationError) Unwrap() error { return e.Cause }

func (e *GenerationError) Is(target error) bool { return target == ErrGenerationFailed }

// IsConfigError reports whether err holds a *ConfigError.
func IsConfigError(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}

// IsGenerationError reports whether err holds a *GenerationError.
func IsGenerationError(err error) bool {
	var e *GenerationError
	return errors.As(err, &e)
}
