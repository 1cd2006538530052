// Package validation checks tool names and arguments before dispatch.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Size limits for arguments.
const (
	// MaxStringLength is the maximum length in bytes of any string argument.
	MaxStringLength = 4096

	// MaxToolNameLength is the maximum length of a tool name.
	MaxToolNameLength = 64

	// MaxDepth bounds how deeply argument objects may nest.
	MaxDepth = 8
)

// Argument rejection reasons.
var (
	ErrTooDeep       = errors.New("arguments nested too deeply")
	ErrNULByte       = errors.New("string contains a NUL byte")
	ErrInvalidUTF8   = errors.New("string is not valid UTF-8")
	ErrStringTooLong = fmt.Errorf("string longer than %d bytes", MaxStringLength)
)

// toolNamePattern matches catalog tool names: lowercase words joined by
// underscores.
var toolNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Sanitizer validates tool names and argument values. It never rewrites
// input: values either pass unchanged or the call is rejected.
type Sanitizer struct{}

// NewSanitizer creates a new Sanitizer instance.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{}
}

// ValidateToolName rejects names that cannot belong to the catalog.
func (s *Sanitizer) ValidateToolName(name string) error {
	if name == "" {
		return errors.New("tool name is required")
	}
	if len(name) > MaxToolNameLength {
		return errors.New("tool name too long")
	}
	if !toolNamePattern.MatchString(name) {
		return errors.New("invalid tool name format")
	}
	return nil
}

// ValidateArguments walks args and rejects strings holding NUL bytes,
// invalid UTF-8 or more than MaxStringLength bytes, and nesting deeper than
// MaxDepth. Errors name the offending argument path.
func (s *Sanitizer) ValidateArguments(args map[string]any) error {
	return s.validateValue("", args, 0)
}

func (s *Sanitizer) validateValue(path string, v any, depth int) error {
	if depth > MaxDepth {
		return ErrTooDeep
	}
	switch val := v.(type) {
	case string:
		if err := validateString(val); err != nil {
			return fmt.Errorf("argument %q: %w", path, err)
		}

	case map[string]any:
		for k, item := range val {
			if err := s.validateValue(join(path, k), item, depth+1); err != nil {
				return err
			}
		}

	case []any:
		for i, item := range val {
			if err := s.validateValue(fmt.Sprintf("%s[%d]", path, i), item, depth+1); err != nil {
				return err
			}
		}
	}
	// Numbers, booleans, nil pass through
	return nil
}

func validateString(str string) error {
	switch {
	case strings.IndexByte(str, 0) >= 0:
		return ErrNULByte
	case !utf8.ValidString(str):
		return ErrInvalidUTF8
	case len(str) > MaxStringLength:
		return ErrStringTooLong
	}
	return nil
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
