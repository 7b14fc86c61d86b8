package evaluator

import (
	"strings"
	"testing"

	"github.com/talentflow/talentflow-backend/internal/model"
)

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }

func textQuestion(id string, min, max int, required bool) model.Question {
	return model.Question{
		ID:         id,
		Type:       model.QuestionTypeLongText,
		Title:      id,
		Required:   required,
		Validation: model.Validation{MinLength: intPtr(min), MaxLength: intPtr(max)},
	}
}

func numericQuestion(id string, min, max float64, required bool) model.Question {
	return model.Question{
		ID:         id,
		Type:       model.QuestionTypeNumeric,
		Title:      id,
		Required:   required,
		Validation: model.Validation{Min: floatPtr(min), Max: floatPtr(max)},
	}
}

func singleSection(questions ...model.Question) model.Assessment {
	for i := range questions {
		questions[i].SectionID = "s1"
	}
	return model.Assessment{
		ID:       "a1",
		Sections: []model.Section{{ID: "s1", Title: "Section 1", Questions: questions}},
	}
}

func TestValidateRequired(t *testing.T) {
	q := textQuestion("q1", 0, 100, true)

	if msg := Validate(q, nil); msg != "This field is required" {
		t.Errorf("absent value: got %q", msg)
	}
	if msg := Validate(q, ""); msg != "This field is required" {
		t.Errorf("empty string: got %q", msg)
	}
	if msg := Validate(q, []any{}); msg != "This field is required" {
		t.Errorf("empty list: got %q", msg)
	}

	optional := textQuestion("q2", 10, 100, false)
	if msg := Validate(optional, ""); msg != "" {
		t.Errorf("empty optional value must pass, got %q", msg)
	}
}

func TestValidateTextLength(t *testing.T) {
	q := textQuestion("q1", 50, 500, true)

	if msg := Validate(q, "hi"); msg != "Minimum 50 characters required" {
		t.Errorf("short answer: got %q", msg)
	}

	if msg := Validate(q, strings.Repeat("a", 600)); msg != "Maximum 500 characters allowed" {
		t.Errorf("long answer: got %q", msg)
	}
}

func TestValidateNumeric(t *testing.T) {
	q := numericQuestion("q1", 0, 100, true)

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"in range", "42", ""},
		{"in range float", 42.5, ""},
		{"above max", "150", "Value must be at most 100"},
		{"below min", "-5", "Value must be at least 0"},
		{"not a number", "abc", "Please enter a valid number"},
		{"boundary min", "0", ""},
		{"boundary max", 100.0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Validate(q, tt.value); got != tt.want {
				t.Errorf("Validate(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestVisibleConditional(t *testing.T) {
	dependent := model.Question{
		ID:   "q2",
		Type: model.QuestionTypeShortText,
		Conditional: model.Conditional{
			Enabled:   true,
			DependsOn: "q1",
			Condition: model.OperatorEquals,
			Value:     "Yes",
		},
	}

	if Visible(dependent, ResponseMap{}) {
		t.Error("unanswered dependency must hide the question")
	}
	if Visible(dependent, ResponseMap{"q1": "No"}) {
		t.Error("mismatched value must hide the question")
	}
	if !Visible(dependent, ResponseMap{"q1": "Yes"}) {
		t.Error("matching value must show the question")
	}

	// Numeric answers compare through their canonical string form.
	numeric := dependent
	numeric.Conditional.Value = "5"
	if !Visible(numeric, ResponseMap{"q1": 5.0}) {
		t.Error("numeric 5 must compare equal to value \"5\"")
	}

	// Lists never match a scalar comparison value.
	if Visible(dependent, ResponseMap{"q1": []any{"Yes"}}) {
		t.Error("list answer must not satisfy a scalar comparison")
	}

	// Disabled rules and missing targets are always visible.
	disabled := dependent
	disabled.Conditional.Enabled = false
	if !Visible(disabled, ResponseMap{}) {
		t.Error("disabled conditional must be visible")
	}
	noTarget := dependent
	noTarget.Conditional.DependsOn = ""
	if !Visible(noTarget, ResponseMap{}) {
		t.Error("conditional without a target must be visible")
	}

	// Reserved operators do not hide anything.
	reserved := dependent
	reserved.Conditional.Condition = model.OperatorContains
	if !Visible(reserved, ResponseMap{}) {
		t.Error("non-equals operators must not hide the question")
	}
}

func TestEvaluateSkipsHiddenQuestions(t *testing.T) {
	gate := model.Question{
		ID:      "q1",
		Type:    model.QuestionTypeSingleChoice,
		Options: []string{"Yes", "No"},
	}
	dependent := textQuestion("q2", 0, 100, true)
	dependent.Conditional = model.Conditional{
		Enabled:   true,
		DependsOn: "q1",
		Condition: model.OperatorEquals,
		Value:     "Yes",
	}
	a := singleSection(gate, dependent)

	// Hidden: its required rule must not fire.
	res := Evaluate(a, ResponseMap{"q1": "No"})
	if res.Visibility["q2"] {
		t.Error("q2 should be hidden")
	}
	if _, ok := res.Errors["q2"]; ok {
		t.Error("hidden question must not produce errors")
	}
	if !res.Submittable() {
		t.Error("responses should be submittable with q2 hidden")
	}

	// Visible and unanswered: the required rule fires.
	res = Evaluate(a, ResponseMap{"q1": "Yes"})
	if !res.Visibility["q2"] {
		t.Error("q2 should be visible")
	}
	if res.Errors["q2"] != "This field is required" {
		t.Errorf("expected required error, got %q", res.Errors["q2"])
	}
	if res.Submittable() {
		t.Error("responses must not be submittable with a visible error")
	}
}

func TestEvaluateIndependentVisibility(t *testing.T) {
	// q1 hides itself via q0, yet its stale answer still drives q2.
	// Visibility is resolved independently per question, not transitively.
	q0 := model.Question{ID: "q0", Type: model.QuestionTypeSingleChoice, Options: []string{"a", "b"}}
	q1 := model.Question{
		ID:      "q1",
		Type:    model.QuestionTypeSingleChoice,
		Options: []string{"Yes", "No"},
		Conditional: model.Conditional{
			Enabled: true, DependsOn: "q0", Condition: model.OperatorEquals, Value: "a",
		},
	}
	q2 := model.Question{
		ID:   "q2",
		Type: model.QuestionTypeShortText,
		Conditional: model.Conditional{
			Enabled: true, DependsOn: "q1", Condition: model.OperatorEquals, Value: "Yes",
		},
	}
	a := singleSection(q0, q1, q2)

	res := Evaluate(a, ResponseMap{"q0": "b", "q1": "Yes"})
	if res.Visibility["q1"] {
		t.Error("q1 should be hidden by q0")
	}
	if !res.Visibility["q2"] {
		t.Error("q2 must still see q1's raw answer even though q1 is hidden")
	}
}

func TestEvaluateCollectsAllErrors(t *testing.T) {
	a := singleSection(
		textQuestion("q1", 0, 100, true),
		numericQuestion("q2", 0, 100, true),
		textQuestion("q3", 0, 100, false),
	)

	res := Evaluate(a, ResponseMap{})
	if len(res.Errors) != 2 {
		t.Fatalf("expected exactly 2 errors, got %d: %v", len(res.Errors), res.Errors)
	}
	for _, id := range []string{"q1", "q2"} {
		if res.Errors[id] != "This field is required" {
			t.Errorf("%s: got %q", id, res.Errors[id])
		}
	}
	if _, ok := res.Errors["q3"]; ok {
		t.Error("optional question must not error when unanswered")
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	a := singleSection(
		textQuestion("q1", 5, 100, true),
		numericQuestion("q2", 0, 100, false),
	)
	responses := ResponseMap{"q1": "hello there", "q2": "150"}

	first := Evaluate(a, responses)
	second := Evaluate(a, responses)

	if len(first.Errors) != len(second.Errors) {
		t.Fatalf("error count changed between passes: %d vs %d", len(first.Errors), len(second.Errors))
	}
	for id, msg := range first.Errors {
		if second.Errors[id] != msg {
			t.Errorf("%s: %q vs %q", id, msg, second.Errors[id])
		}
	}
	for id, vis := range first.Visibility {
		if second.Visibility[id] != vis {
			t.Errorf("%s visibility changed between passes", id)
		}
	}
}

func TestChoiceAndFilePresenceOnly(t *testing.T) {
	choice := model.Question{
		ID:       "q1",
		Type:     model.QuestionTypeMultiChoice,
		Required: true,
		Options:  []string{"a", "b"},
	}
	if msg := Validate(choice, []any{"a"}); msg != "" {
		t.Errorf("answered choice must pass, got %q", msg)
	}
	if msg := Validate(choice, []any{}); msg != "This field is required" {
		t.Errorf("empty choice list: got %q", msg)
	}

	file := model.Question{ID: "q2", Type: model.QuestionTypeFileUpload, Required: true}
	if msg := Validate(file, "resume.pdf"); msg != "" {
		t.Errorf("answered file upload must pass, got %q", msg)
	}
}
