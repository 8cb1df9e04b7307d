// Package requestinfo is the shared kit used by every request-info entity:
// the validation Result, calendar value types, closed enumeration tables and
// payload finalisation.
package requestinfo

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is wrapped by every error returned for a payload that failed
// validation.
var ErrInvalid = errors.New("request info is invalid")

// Result is the outcome of validating a request-info entity. Errors block
// submission, warnings never do.
type Result struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Valid reports whether no blocking error was found.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Err returns an *InvalidError when r holds errors and nil otherwise.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return &InvalidError{Errors: r.Errors}
}

// InvalidError lists the validation errors that stopped a payload from being
// built.
type InvalidError struct {
	Errors []string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalid, strings.Join(e.Errors, "; "))
}

func (e *InvalidError) Unwrap() error {
	return ErrInvalid
}

// Collector accumulates validation messages in the order they are found.
type Collector struct {
	errors   []string
	warnings []string
}

func (c *Collector) Errorf(format string, args ...any) {
	c.errors = append(c.errors, fmt.Sprintf(format, args...))
}

func (c *Collector) Warnf(format string, args ...any) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

// Nest appends the messages of a child entity, each prefixed with label,
// e.g. "Session 2".
func (c *Collector) Nest(label string, child Result) {
	for _, e := range child.Errors {
		c.errors = append(c.errors, label+": "+e)
	}
	for _, w := range child.Warnings {
		c.warnings = append(c.warnings, label+": "+w)
	}
}

// Result returns the collected messages. Both slices are non-nil so they
// encode as empty JSON arrays.
func (c *Collector) Result() Result {
	r := Result{
		Errors:   make([]string, len(c.errors)),
		Warnings: make([]string, len(c.warnings)),
	}
	copy(r.Errors, c.errors)
	copy(r.Warnings, c.warnings)
	return r
}
