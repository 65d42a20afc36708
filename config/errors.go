package config

import (
	"fmt"
	"strings"
)

// ParseError reports a malformed configuration file.
type ParseError struct {
	// Path is the file that failed to parse.
	Path string
	// Err is the underlying TOML error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a single invalid configuration value.
type ValidationError struct {
	// Path is the dot-separated path to the invalid value.
	Path string
	// Message describes what's wrong.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors collects multiple validation errors.
type ValidationErrors struct {
	Errors []*ValidationError
}

// Error implements the error interface.
func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var msgs []string
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e.Errors), strings.Join(msgs, "\n  - "))
}

// Add adds a validation error.
func (e *ValidationErrors) Add(path, message string) {
	e.Errors = append(e.Errors, &ValidationError{Path: path, Message: message})
}
