package sql

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionCheckResult describes an injection pattern found in user input.
type InjectionCheckResult struct {
	IsSQLi      bool   // True if a SQL injection pattern was detected
	Fingerprint string // libinjection fingerprint of the detected pattern
	Input       string // The input that was checked
}

// CheckInputForInjection runs libinjection over a free-text user input such
// as a natural-language question. It is meant for input fragments, not whole
// SQL statements (a legitimate SELECT would always fingerprint as SQL).
//
// Returns nil when no injection pattern is detected.
func CheckInputForInjection(input string) *InjectionCheckResult {
	isSQLi, fingerprint := libinjection.IsSQLi(input)
	if !isSQLi {
		return nil
	}
	return &InjectionCheckResult{
		IsSQLi:      true,
		Fingerprint: string(fingerprint),
		Input:       input,
	}
}
