// Package sql enforces the read-only executor boundary.
package sql

import (
	"strings"

	"github.com/dataquill-io/dataquill-engine/pkg/apperrors"
)

// GuardResult carries the normalized statement when the guard passes.
type GuardResult struct {
	NormalizedSQL string
}

// Guard validates a statement before execution:
//
//  1. Trim and strip one trailing semicolon (normalize).
//  2. Reject multiple statements (any remaining semicolon outside string
//     literals).
//  3. Reject anything that does not begin with SELECT, case-insensitively.
//     This is a hard safety invariant; generated queries are expected to
//     satisfy it, user-edited ones may not.
func Guard(statement string) (GuardResult, error) {
	normalized := stripTrailingSemicolon(strings.TrimSpace(statement))
	if normalized == "" {
		return GuardResult{}, apperrors.ErrEmptyQuery
	}

	if hasSemicolonOutsideStrings(normalized) {
		return GuardResult{}, apperrors.ErrMultipleStatements
	}

	if !strings.HasPrefix(strings.ToUpper(normalized), "SELECT") {
		return GuardResult{}, apperrors.ErrNotSelect
	}

	return GuardResult{NormalizedSQL: normalized}, nil
}

// hasSemicolonOutsideStrings scans the statement with a small quote-tracking
// state machine so semicolons inside string literals or quoted identifiers
// do not count as statement separators.
func hasSemicolonOutsideStrings(statement string) bool {
	const (
		stateNormal = iota
		stateSingleQuote
		stateDoubleQuote
	)

	state := stateNormal
	prev := rune(0)

	for _, ch := range statement {
		switch state {
		case stateNormal:
			switch ch {
			case ';':
				return true
			case '\'':
				state = stateSingleQuote
			case '"':
				state = stateDoubleQuote
			}
		case stateSingleQuote:
			// A doubled quote ('') exits and immediately re-enters on the
			// next quote, which keeps us inside the literal.
			if ch == '\'' && prev != '\\' {
				state = stateNormal
			}
		case stateDoubleQuote:
			if ch == '"' && prev != '\\' {
				state = stateNormal
			}
		}
		prev = ch
	}

	return false
}

func stripTrailingSemicolon(statement string) string {
	statement = strings.TrimRight(statement, " \t\n\r")
	if strings.HasSuffix(statement, ";") {
		statement = strings.TrimRight(strings.TrimSuffix(statement, ";"), " \t\n\r")
	}
	return statement
}
