package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dataquill-io/dataquill-engine/pkg/models"
)

// Validation statuses.
const (
	StatusGood    = "good"
	StatusWarning = "warning"
	StatusError   = "error"
)

// minConfidence is the floor the confidence score is clamped to regardless
// of how many rules fire.
const minConfidence = 20

// Validation is the validator's verdict on one (question, query) pair.
type Validation struct {
	Status      string   `json:"status"`
	Confidence  int      `json:"confidence"`
	Message     string   `json:"message"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
}

// ruleHit is one finding from a validation rule.
type ruleHit struct {
	deduction  int
	issue      string
	suggestion string
}

// validationRule inspects the lowercased question and uppercased SQL and
// reports zero or more findings. Rules are pure and independent; their
// deductions accumulate.
type validationRule func(q, sqlUpper string, schema *models.Schema) []ruleHit

// validationRules is the ordered battery applied to every generated query.
// Order determines the order of issues and suggestions in the output.
var validationRules = []validationRule{
	checkCountIntent,
	checkSumIntent,
	checkAverageIntent,
	checkMaxIntent,
	checkMinIntent,
	checkGroupingIntent,
	checkDateFilter,
	checkDateFilterColumn,
	checkRangeFilter,
	checkRangeFilterColumn,
	checkPeriodicGrouping,
	checkPeriodicGroupingColumn,
	checkTableRelevance,
	checkTopIntent,
}

// ValidateQuery scores how well a generated SQL statement matches the asked
// question. It is a pure function and never fails: degenerate inputs yield a
// degenerate-but-defined verdict. Confidence is always within [20,100].
func ValidateQuery(question, sqlText string, schema *models.Schema) Validation {
	q := strings.ToLower(question)
	sqlUpper := strings.ToUpper(sqlText)

	issues := []string{}
	suggestions := []string{}
	total := 0

	for _, rule := range validationRules {
		for _, hit := range rule(q, sqlUpper, schema) {
			total += hit.deduction
			issues = append(issues, hit.issue)
			suggestions = append(suggestions, hit.suggestion)
		}
	}

	confidence := 100 - total
	if confidence < minConfidence {
		confidence = minConfidence
	}

	v := Validation{
		Confidence:  confidence,
		Issues:      issues,
		Suggestions: suggestions,
	}
	switch {
	case confidence >= 80:
		v.Status = StatusGood
		v.Message = "Query looks good and matches your question"
	case confidence >= 60:
		v.Status = StatusWarning
		v.Message = "Query may partially match your question"
	default:
		v.Status = StatusError
		v.Message = "Query might not fully answer your question"
	}
	return v
}

// ---------------------------------------------------------------------------
// Aggregate intent rules
// ---------------------------------------------------------------------------

func checkCountIntent(q, sqlUpper string, _ *models.Schema) []ruleHit {
	if !containsAny(q, "how many", "count", "number of", "total number") {
		return nil
	}
	if strings.Contains(sqlUpper, "COUNT") {
		return nil
	}
	return []ruleHit{{
		deduction:  30,
		issue:      "Question asks for a count, but the query has no COUNT",
		suggestion: "Use COUNT(*) to count matching rows",
	}}
}

// checkSumIntent exempts "total number", which is counting language and is
// handled by checkCountIntent. Bare "total" also satisfies the pattern
// generator's COUNT branch; that overlap is long-standing behavior.
func checkSumIntent(q, sqlUpper string, _ *models.Schema) []ruleHit {
	if !containsAny(q, "total", "sum of", "combined") || strings.Contains(q, "total number") {
		return nil
	}
	if strings.Contains(sqlUpper, "SUM") || strings.Contains(sqlUpper, "COUNT") {
		return nil
	}
	return []ruleHit{{
		deduction:  25,
		issue:      "Question asks for a total, but the query has no SUM or COUNT",
		suggestion: "Use SUM(column) to total a numeric column",
	}}
}

func checkAverageIntent(q, sqlUpper string, _ *models.Schema) []ruleHit {
	if !containsAny(q, "average", "avg", "mean") {
		return nil
	}
	if strings.Contains(sqlUpper, "AVG") {
		return nil
	}
	return []ruleHit{{
		deduction:  30,
		issue:      "Question asks for an average, but the query has no AVG",
		suggestion: "Use AVG(column) to compute the average",
	}}
}

func checkMaxIntent(q, sqlUpper string, _ *models.Schema) []ruleHit {
	if !containsAny(q, "highest", "maximum", "max", "most", "largest", "biggest") {
		return nil
	}
	if strings.Contains(sqlUpper, "MAX") || strings.Contains(sqlUpper, "ORDER BY") {
		return nil
	}
	return []ruleHit{{
		deduction:  20,
		issue:      "Question asks for the highest value, but the query has no MAX or ORDER BY",
		suggestion: "Use MAX(column), or ORDER BY column DESC with LIMIT 1",
	}}
}

func checkMinIntent(q, sqlUpper string, _ *models.Schema) []ruleHit {
	if !containsAny(q, "lowest", "minimum", "min", "least", "smallest") {
		return nil
	}
	if strings.Contains(sqlUpper, "MIN") || strings.Contains(sqlUpper, "ORDER BY") {
		return nil
	}
	return []ruleHit{{
		deduction:  20,
		issue:      "Question asks for the lowest value, but the query has no MIN or ORDER BY",
		suggestion: "Use MIN(column), or ORDER BY column ASC with LIMIT 1",
	}}
}

func checkGroupingIntent(q, sqlUpper string, _ *models.Schema) []ruleHit {
	if !containsAny(q, " by ", " per ", " each ", " for each ") {
		return nil
	}
	if strings.Contains(sqlUpper, "GROUP BY") {
		return nil
	}
	return []ruleHit{{
		deduction:  20,
		issue:      "Question implies a breakdown, but the query has no GROUP BY",
		suggestion: "Add GROUP BY for the per-item breakdown",
	}}
}

// ---------------------------------------------------------------------------
// Date and time-period rules
// ---------------------------------------------------------------------------

var (
	relativePeriodRe = regexp.MustCompile(`\b(this|last|next)\s+(week|month|year|quarter)\b`)
	bareYearRe       = regexp.MustCompile(`\b202[0-6]\b`)
	lastNDaysRe      = regexp.MustCompile(`\b(last|past)\s+\d+\s+days\b`)
	unitsAgoRe       = regexp.MustCompile(`\b\d+\s+(days|weeks|months|years)\s+ago\b`)
	rangeWordRe      = regexp.MustCompile(`\b(since|before|after|between|from|until)\b`)
	recencyRe        = regexp.MustCompile(`\b(recent|latest|oldest|newest)\b`)
	periodicityRe    = regexp.MustCompile(`\b(daily|weekly|monthly|yearly|quarterly)\b`)
	perPeriodRe      = regexp.MustCompile(`\bper\s+(day|week|month|year)\b`)
	byPeriodRe       = regexp.MustCompile(`\bby\s+(day|week|month|year|date)\b`)
)

// calendarTokens are absolute date words: relative day names plus weekdays
// and month names.
var calendarTokens = []string{
	"today", "yesterday",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// dateReferenceTokens are substrings whose presence in the SQL counts as
// touching a date: common date-ish column name fragments and date functions.
var dateReferenceTokens = []string{
	"DATE", "TIME", "CREATED", "UPDATED", "TIMESTAMP", "_AT", "_ON",
	"DATETIME", "STRFTIME", "DATE_TRUNC", "EXTRACT", "YEAR", "MONTH", "DAY",
}

// questionHasDateToken matches absolute date language only. Relative period
// phrases ("last month" and friends) belong to the time-period rules; keeping
// them out of this set stops one phrase from being penalized twice.
func questionHasDateToken(q string) bool {
	if containsAny(q, calendarTokens...) {
		return true
	}
	return bareYearRe.MatchString(q)
}

func questionHasRangeToken(q string) bool {
	return lastNDaysRe.MatchString(q) ||
		unitsAgoRe.MatchString(q) ||
		rangeWordRe.MatchString(q) ||
		recencyRe.MatchString(q) ||
		relativePeriodRe.MatchString(q)
}

func questionHasPeriodicityToken(q string) bool {
	return periodicityRe.MatchString(q) ||
		perPeriodRe.MatchString(q) ||
		byPeriodRe.MatchString(q) ||
		containsAny(q, "over time", "trend", "history", "historical")
}

func sqlHasDateReference(sqlUpper string) bool {
	return containsAny(sqlUpper, dateReferenceTokens...)
}

func checkDateFilter(q, sqlUpper string, _ *models.Schema) []ruleHit {
	if !questionHasDateToken(q) || strings.Contains(sqlUpper, "WHERE") {
		return nil
	}
	return []ruleHit{{
		deduction:  25,
		issue:      "Question references a specific date, but the query has no WHERE clause",
		suggestion: "Add a WHERE clause filtering on a date column",
	}}
}

func checkDateFilterColumn(q, sqlUpper string, _ *models.Schema) []ruleHit {
	if !questionHasDateToken(q) || !strings.Contains(sqlUpper, "WHERE") {
		return nil
	}
	if sqlHasDateReference(sqlUpper) {
		return nil
	}
	return []ruleHit{{
		deduction:  20,
		issue:      "Query filters rows, but not on any date column for the date in the question",
		suggestion: "Filter on a date or timestamp column",
	}}
}

func checkRangeFilter(q, sqlUpper string, _ *models.Schema) []ruleHit {
	if !questionHasRangeToken(q) || strings.Contains(sqlUpper, "WHERE") {
		return nil
	}
	return []ruleHit{{
		deduction:  30,
		issue:      "Question references a time period, but the query has no WHERE clause for it",
		suggestion: "Add a WHERE clause restricting rows to the requested time period",
	}}
}

func checkRangeFilterColumn(q, sqlUpper string, _ *models.Schema) []ruleHit {
	if !questionHasRangeToken(q) || !strings.Contains(sqlUpper, "WHERE") {
		return nil
	}
	if sqlHasDateReference(sqlUpper) {
		return nil
	}
	return []ruleHit{{
		deduction:  20,
		issue:      "Query has a WHERE clause, but it does not touch any date column for the requested time period",
		suggestion: "Filter on a date or timestamp column for the time period",
	}}
}

func checkPeriodicGrouping(q, sqlUpper string, _ *models.Schema) []ruleHit {
	if !questionHasPeriodicityToken(q) || strings.Contains(sqlUpper, "GROUP BY") {
		return nil
	}
	return []ruleHit{{
		deduction:  25,
		issue:      "Question asks for values over time, but the query has no GROUP BY",
		suggestion: "GROUP BY a date expression (e.g. DATE_TRUNC or STRFTIME)",
	}}
}

func checkPeriodicGroupingColumn(q, sqlUpper string, _ *models.Schema) []ruleHit {
	if !questionHasPeriodicityToken(q) || !strings.Contains(sqlUpper, "GROUP BY") {
		return nil
	}
	if sqlHasDateReference(sqlUpper) {
		return nil
	}
	return []ruleHit{{
		deduction:  15,
		issue:      "Query groups rows, but not by any date column",
		suggestion: "Group by a date or timestamp expression",
	}}
}

// ---------------------------------------------------------------------------
// Structural rules
// ---------------------------------------------------------------------------

// checkTableRelevance flags schema tables the question mentions (by singular
// form) that the query never references. Deducts per unmatched table. With
// an empty schema it can never fire.
func checkTableRelevance(q, sqlUpper string, schema *models.Schema) []ruleHit {
	var hits []ruleHit
	for _, name := range schema.TableNames() {
		singular := strings.TrimSuffix(strings.ToLower(name), "s")
		if singular == "" || !strings.Contains(q, singular) {
			continue
		}
		if strings.Contains(sqlUpper, strings.ToUpper(name)) {
			continue
		}
		if referencedTableHasPrefix(sqlUpper, schema, singular) {
			continue
		}
		hits = append(hits, ruleHit{
			deduction:  15,
			issue:      fmt.Sprintf("Question mentions %q but the query does not reference that table", name),
			suggestion: fmt.Sprintf("Include the %q table in the query", name),
		})
	}
	return hits
}

// referencedTableHasPrefix reports whether any schema table referenced in
// the SQL starts with the given singular form. Covers plural variants like
// user_profiles satisfying a mention of "user".
func referencedTableHasPrefix(sqlUpper string, schema *models.Schema, singular string) bool {
	for _, other := range schema.TableNames() {
		lower := strings.ToLower(other)
		if strings.HasPrefix(lower, singular) && strings.Contains(sqlUpper, strings.ToUpper(other)) {
			return true
		}
	}
	return false
}

func checkTopIntent(q, sqlUpper string, _ *models.Schema) []ruleHit {
	if !containsAny(q, "top ", "first ", "best ") {
		return nil
	}
	if strings.Contains(sqlUpper, "LIMIT") {
		return nil
	}
	return []ruleHit{{
		deduction:  10,
		issue:      "Question asks for the top results, but the query has no LIMIT",
		suggestion: "Add ORDER BY with a LIMIT to return only the top rows",
	}}
}
