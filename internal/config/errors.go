package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Errors returned by configuration operations.
var (
	// ErrValidationFailed indicates a setting has an unusable value.
	ErrValidationFailed = errors.New("validation failed")

	// ErrInvalidEnv indicates an environment override could not be parsed.
	ErrInvalidEnv = errors.New("invalid environment value")
)

// ParseError reports a configuration source that could not be decoded.
// It prints as "config: source:line:column: detail", omitting the
// position parts that are unknown.
type ParseError struct {
	Source string // file path, or "<reader>"
	Line   int    // 1-based, 0 when unknown
	Column int    // 1-based, 0 when unknown
	Detail string // decoder message
	Err    error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("config: ")
	b.WriteString(e.Source)
	if e.Line > 0 {
		b.WriteString(":" + strconv.Itoa(e.Line))
		if e.Column > 0 {
			b.WriteString(":" + strconv.Itoa(e.Column))
		}
	}
	b.WriteString(": ")
	b.WriteString(e.Detail)
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError reports the setting that failed validation.
type ValidationError struct {
	Setting string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Setting, e.Message)
}

// Unwrap returns ErrValidationFailed.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
