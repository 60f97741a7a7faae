// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Input errors.
	ErrEmptyInput = errors.New("no data rows after the preamble")
	ErrParse      = errors.New("unable to read spreadsheet")

	// Publishing errors.
	ErrPublishFailed = errors.New("publishing failed")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ParseError reports an input that could not be read as a workbook.
type ParseError struct {
	Err    error
	Source string
}

func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%v %s: %v", ErrParse, e.Source, e.Err)
	}
	return fmt.Sprintf("%v: %v", ErrParse, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrParse) match any ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// NewParseError wraps err as a ParseError for the named source.
func NewParseError(source string, err error) error {
	return &ParseError{Source: source, Err: err}
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
