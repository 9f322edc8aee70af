// Package apperrors defines sentinel errors shared across the engine.
package apperrors

import "errors"

var (
	ErrNotConnected       = errors.New("not connected to a database")
	ErrEmptyQuery         = errors.New("query is required")
	ErrEmptyQuestion      = errors.New("question is required")
	ErrNotSelect          = errors.New("only SELECT queries are allowed for safety")
	ErrMultipleStatements = errors.New("multiple SQL statements not allowed; only single statements are permitted")
	ErrInjectionDetected  = errors.New("query rejected: SQL injection pattern detected")
)
