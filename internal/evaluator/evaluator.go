// Package evaluator derives per-question visibility and validation errors
// from an assessment and a candidate response map. Everything here is a
// pure function of its inputs: rules report errors as strings, never as Go
// errors, and malformed input degrades to a reported validation message.
package evaluator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/talentflow/talentflow-backend/internal/model"
)

// ResponseMap holds a candidate's in-progress answers keyed by question id.
// Values are strings, numbers, or lists of strings depending on the
// question type, exactly as decoded from JSON.
type ResponseMap map[string]any

// Result is the outcome of a full evaluation pass.
type Result struct {
	// Visibility holds the resolved visibility of every question.
	Visibility map[string]bool `json:"visibility"`
	// Errors maps question id to a human-readable validation error.
	// Hidden questions never appear here.
	Errors map[string]string `json:"errors"`
}

// Submittable reports whether the responses passed validation everywhere.
func (r Result) Submittable() bool {
	return len(r.Errors) == 0
}

// Visible resolves the conditional rule of a single question against the
// raw response map. A disabled rule, or one without a dependency target,
// is always visible.
//
// Each question's rule is evaluated independently against the raw map: a
// stale answer belonging to a question that is itself hidden still drives
// dependents. That is deliberate and must not be replaced with a
// transitive-closure model.
func Visible(q model.Question, responses ResponseMap) bool {
	cond := q.Conditional
	if !cond.Enabled || cond.DependsOn == "" {
		return true
	}
	if cond.Condition != model.OperatorEquals {
		// not-equals / contains are reserved by the document format but
		// not evaluated; such rules do not hide anything.
		return true
	}
	got, ok := stringify(responses[cond.DependsOn])
	return ok && got == cond.Value
}

// Validate checks a single question's current value and returns a
// human-readable error, or "" when the value is acceptable.
func Validate(q model.Question, value any) string {
	if isEmpty(value) {
		if q.Required {
			return "This field is required"
		}
		return ""
	}

	switch {
	case q.Type.IsText():
		return validateText(q.Validation, value)
	case q.Type == model.QuestionTypeNumeric:
		return validateNumeric(q.Validation, value)
	}
	// Choice and file-upload types: presence is the only check.
	return ""
}

func validateText(rules model.Validation, value any) string {
	s, _ := stringify(value)
	length := utf8.RuneCountInString(s)
	if rules.MinLength != nil && length < *rules.MinLength {
		return fmt.Sprintf("Minimum %d characters required", *rules.MinLength)
	}
	if rules.MaxLength != nil && length > *rules.MaxLength {
		return fmt.Sprintf("Maximum %d characters allowed", *rules.MaxLength)
	}
	return ""
}

func validateNumeric(rules model.Validation, value any) string {
	n, ok := toNumber(value)
	if !ok {
		return "Please enter a valid number"
	}
	if rules.Min != nil && n < *rules.Min {
		return fmt.Sprintf("Value must be at least %s", formatNumber(*rules.Min))
	}
	if rules.Max != nil && n > *rules.Max {
		return fmt.Sprintf("Value must be at most %s", formatNumber(*rules.Max))
	}
	return ""
}

// Evaluate runs the submit-time aggregation pass: every question in
// document order, resolving visibility first and skipping hidden questions
// entirely, then validating the visible ones.
func Evaluate(a model.Assessment, responses ResponseMap) Result {
	res := Result{
		Visibility: make(map[string]bool, a.QuestionCount()),
		Errors:     map[string]string{},
	}
	for _, s := range a.Sections {
		for _, q := range s.Questions {
			visible := Visible(q, responses)
			res.Visibility[q.ID] = visible
			if !visible {
				continue
			}
			if msg := Validate(q, responses[q.ID]); msg != "" {
				res.Errors[q.ID] = msg
			}
		}
	}
	return res
}

// ─── Value coercion helpers ─────────────────────────────────────────

// isEmpty reports whether a response value counts as unanswered: absent,
// an empty string, or an empty list.
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	}
	return false
}

// stringify renders a scalar response value for strict comparison. Lists
// and other composites never compare equal to a scalar comparison value.
func stringify(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return formatNumber(t), true
	case int:
		return strconv.Itoa(t), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

func toNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, !math.IsNaN(t) && !math.IsInf(t, 0)
	case int:
		return float64(t), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
