package entity

import "fmt"

// ConflictError reports that the caller tried to create something that already
// exists for the same author.
type ConflictError struct {
	Kind     Kind
	Detail   string
	Existing any
	New      any

	// Positional data, set for nested conflicts only.
	NestedField string
	Index       int
	Field       string
}

// Nested reports whether the conflict happened inside a word's list.
func (e *ConflictError) Nested() bool { return e.NestedField != "" }

// Code is the machine readable exception code.
func (e *ConflictError) Code() string {
	if !e.Nested() {
		return "already_exist"
	}
	return string(e.Kind) + "_already_exist"
}

func (e *ConflictError) Error() string {
	if e.Nested() {
		return fmt.Sprintf("%s: %s[%d].%s", e.Code(), e.NestedField, e.Index, e.Field)
	}
	return e.Code() + ": " + e.Detail
}

// AmountLimitError reports that a list would grow beyond its ceiling.
type AmountLimitError struct {
	Field string
	Limit int
}

func (e *AmountLimitError) Error() string {
	return fmt.Sprintf("amount limit exceeded for %s: %d", e.Field, e.Limit)
}

// Detail is the human readable message sent to clients.
func (e *AmountLimitError) Detail() string {
	return fmt.Sprintf("The maximum number of %s is %d.", e.Field, e.Limit)
}
