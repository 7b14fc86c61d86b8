package builder

import (
	"testing"

	"github.com/talentflow/talentflow-backend/internal/model"
)

func TestNewHasSingleDefaultSection(t *testing.T) {
	a := New()

	if a.ID != model.NewAssessmentID {
		t.Errorf("expected id %q, got %q", model.NewAssessmentID, a.ID)
	}
	if a.Title != "Untitled Assessment" {
		t.Errorf("unexpected title %q", a.Title)
	}
	if len(a.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(a.Sections))
	}
	if a.Sections[0].Title != "Section 1" {
		t.Errorf("unexpected section title %q", a.Sections[0].Title)
	}
	if len(a.Sections[0].Questions) != 0 {
		t.Errorf("expected no questions, got %d", len(a.Sections[0].Questions))
	}
}

func TestAddSectionDoesNotMutateInput(t *testing.T) {
	a := New()
	out := AddSection(a)

	if len(out.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(out.Sections))
	}
	if len(a.Sections) != 1 {
		t.Errorf("input mutated: expected 1 section, got %d", len(a.Sections))
	}
	if out.Sections[1].ID == out.Sections[0].ID {
		t.Error("new section reused an existing id")
	}
}

func TestDeleteSectionRefusesLastSection(t *testing.T) {
	a := New()
	out := DeleteSection(a, a.Sections[0].ID)

	if len(out.Sections) != 1 {
		t.Fatalf("last section must survive, got %d sections", len(out.Sections))
	}
}

func TestDeleteSectionRemovesById(t *testing.T) {
	a := AddSection(New())
	target := a.Sections[1].ID

	out := DeleteSection(a, target)
	if len(out.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(out.Sections))
	}
	if out.Sections[0].ID == target {
		t.Error("wrong section deleted")
	}

	// Unknown id is a no-op.
	out = DeleteSection(a, "nope")
	if len(out.Sections) != 2 {
		t.Errorf("unknown id should be a no-op, got %d sections", len(out.Sections))
	}
}

func TestAddQuestionDefaults(t *testing.T) {
	tests := []struct {
		qt          model.QuestionType
		wantOptions int
		wantMaxLen  int
		wantNumeric bool
	}{
		{model.QuestionTypeSingleChoice, 2, 0, false},
		{model.QuestionTypeMultiChoice, 2, 0, false},
		{model.QuestionTypeShortText, 0, 100, false},
		{model.QuestionTypeLongText, 0, 1000, false},
		{model.QuestionTypeNumeric, 0, 0, true},
		{model.QuestionTypeFileUpload, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.qt), func(t *testing.T) {
			a := New()
			out, id := AddQuestion(a, a.Sections[0].ID, tt.qt)
			if id == "" {
				t.Fatal("expected a question id")
			}

			q := out.FindQuestion(id)
			if q == nil {
				t.Fatal("question not found after add")
			}
			if q.SectionID != a.Sections[0].ID {
				t.Errorf("wrong owning section %q", q.SectionID)
			}
			if q.Conditional.Enabled {
				t.Error("new question must start with conditional disabled")
			}
			if len(q.Options) != tt.wantOptions {
				t.Errorf("expected %d options, got %d", tt.wantOptions, len(q.Options))
			}
			if tt.wantMaxLen > 0 {
				if q.Validation.MaxLength == nil || *q.Validation.MaxLength != tt.wantMaxLen {
					t.Errorf("expected max length %d, got %v", tt.wantMaxLen, q.Validation.MaxLength)
				}
			}
			if tt.wantNumeric {
				if q.Validation.Min == nil || *q.Validation.Min != 0 {
					t.Errorf("expected numeric min 0, got %v", q.Validation.Min)
				}
				if q.Validation.Max == nil || *q.Validation.Max != 100 {
					t.Errorf("expected numeric max 100, got %v", q.Validation.Max)
				}
			}
		})
	}
}

func TestAddQuestionUnknownSection(t *testing.T) {
	a := New()
	out, id := AddQuestion(a, "missing", model.QuestionTypeShortText)
	if id != "" {
		t.Errorf("expected empty id, got %q", id)
	}
	if out.QuestionCount() != 0 {
		t.Errorf("no question should have been added")
	}
}

func TestUpdateQuestionMergesAndSanitizes(t *testing.T) {
	a := New()
	a, id := AddQuestion(a, a.Sections[0].ID, model.QuestionTypeShortText)

	title := "Years of experience"
	required := true
	min := 1.0
	a = UpdateQuestion(a, id, model.UpdateQuestionRequest{
		Title:      &title,
		Required:   &required,
		Validation: &model.Validation{Min: &min},
	})

	q := a.FindQuestion(id)
	if q.Title != title {
		t.Errorf("title not merged, got %q", q.Title)
	}
	if !q.Required {
		t.Error("required not merged")
	}
	// Numeric bounds do not apply to a text question.
	if q.Validation.Min != nil {
		t.Error("numeric min must be stripped from a text question")
	}
}

func TestUpdateQuestionClearsBadDependency(t *testing.T) {
	a := New()
	sectionID := a.Sections[0].ID
	a, q1 := AddQuestion(a, sectionID, model.QuestionTypeSingleChoice)
	a, q2 := AddQuestion(a, sectionID, model.QuestionTypeShortText)

	// Self-reference is cleared.
	a = UpdateQuestion(a, q2, model.UpdateQuestionRequest{
		Conditional: &model.Conditional{Enabled: true, DependsOn: q2, Condition: model.OperatorEquals, Value: "x"},
	})
	if got := a.FindQuestion(q2).Conditional.DependsOn; got != "" {
		t.Errorf("self-dependency must be cleared, got %q", got)
	}

	// A sibling in the same section is kept.
	a = UpdateQuestion(a, q2, model.UpdateQuestionRequest{
		Conditional: &model.Conditional{Enabled: true, DependsOn: q1, Condition: model.OperatorEquals, Value: "Yes"},
	})
	if got := a.FindQuestion(q2).Conditional.DependsOn; got != q1 {
		t.Errorf("sibling dependency must survive, got %q", got)
	}

	// A question from another section is cleared.
	a = AddSection(a)
	a, q3 := AddQuestion(a, a.Sections[1].ID, model.QuestionTypeShortText)
	a = UpdateQuestion(a, q3, model.UpdateQuestionRequest{
		Conditional: &model.Conditional{Enabled: true, DependsOn: q1, Condition: model.OperatorEquals, Value: "Yes"},
	})
	if got := a.FindQuestion(q3).Conditional.DependsOn; got != "" {
		t.Errorf("cross-section dependency must be cleared, got %q", got)
	}
}

func TestMoveQuestionWithinSection(t *testing.T) {
	a := New()
	sectionID := a.Sections[0].ID
	a, q1 := AddQuestion(a, sectionID, model.QuestionTypeShortText)
	a, q2 := AddQuestion(a, sectionID, model.QuestionTypeShortText)
	a, q3 := AddQuestion(a, sectionID, model.QuestionTypeShortText)

	out := MoveQuestion(a, q3, sectionID, 0)

	got := out.Sections[0].Questions
	if len(got) != 3 {
		t.Fatalf("question count changed: %d", len(got))
	}
	wantOrder := []string{q3, q1, q2}
	for i, want := range wantOrder {
		if got[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, got[i].ID)
		}
	}
}

func TestMoveQuestionAcrossSections(t *testing.T) {
	a := AddSection(New())
	src := a.Sections[0].ID
	dst := a.Sections[1].ID
	a, q1 := AddQuestion(a, src, model.QuestionTypeSingleChoice)
	a, q2 := AddQuestion(a, src, model.QuestionTypeShortText)

	// q2 depends on its sibling q1.
	a = UpdateQuestion(a, q2, model.UpdateQuestionRequest{
		Conditional: &model.Conditional{Enabled: true, DependsOn: q1, Condition: model.OperatorEquals, Value: "Yes"},
	})

	out := MoveQuestion(a, q2, dst, 5) // out-of-range index clamps

	if out.QuestionCount() != 2 {
		t.Fatalf("question count changed: %d", out.QuestionCount())
	}
	moved := out.FindQuestion(q2)
	if moved == nil {
		t.Fatal("moved question lost")
	}
	if moved.SectionID != dst {
		t.Errorf("owning section not rewritten: %q", moved.SectionID)
	}
	if moved.Conditional.DependsOn != "" {
		t.Error("dependency on a former sibling must be cleared on cross-section move")
	}
	if len(out.Sections[0].Questions) != 1 || len(out.Sections[1].Questions) != 1 {
		t.Errorf("unexpected distribution: %d/%d",
			len(out.Sections[0].Questions), len(out.Sections[1].Questions))
	}
}

func TestMoveQuestionUnknownDestination(t *testing.T) {
	a := New()
	a, q1 := AddQuestion(a, a.Sections[0].ID, model.QuestionTypeShortText)

	out := MoveQuestion(a, q1, "missing", 0)
	if out.QuestionCount() != 1 {
		t.Fatalf("question lost on failed move: count %d", out.QuestionCount())
	}
	if out.FindQuestion(q1) == nil {
		t.Error("question must stay in place when destination is unknown")
	}
}

func TestOptionOperations(t *testing.T) {
	a := New()
	a, id := AddQuestion(a, a.Sections[0].ID, model.QuestionTypeSingleChoice)

	a = AddOption(a, id)
	q := a.FindQuestion(id)
	if len(q.Options) != 3 {
		t.Fatalf("expected 3 options, got %d", len(q.Options))
	}
	if q.Options[2] != "Option 3" {
		t.Errorf("unexpected placeholder %q", q.Options[2])
	}

	a = UpdateOption(a, id, 0, "Go")
	if got := a.FindQuestion(id).Options[0]; got != "Go" {
		t.Errorf("option text not updated, got %q", got)
	}

	a = RemoveOption(a, id, 2)
	if got := len(a.FindQuestion(id).Options); got != 2 {
		t.Fatalf("expected 2 options, got %d", got)
	}

	// Two-option floor: further removal is refused.
	a = RemoveOption(a, id, 0)
	if got := len(a.FindQuestion(id).Options); got != 2 {
		t.Errorf("removal below the floor must be refused, got %d options", got)
	}
}

func TestOptionOperationsIgnoreNonChoice(t *testing.T) {
	a := New()
	a, id := AddQuestion(a, a.Sections[0].ID, model.QuestionTypeShortText)

	a = AddOption(a, id)
	if got := len(a.FindQuestion(id).Options); got != 0 {
		t.Errorf("text question must not gain options, got %d", got)
	}
}

func TestOperationsArePure(t *testing.T) {
	a := New()
	a, id := AddQuestion(a, a.Sections[0].ID, model.QuestionTypeSingleChoice)
	before := a.Clone()

	title := "changed"
	_ = UpdateQuestion(a, id, model.UpdateQuestionRequest{Title: &title})
	_ = AddOption(a, id)
	_ = DeleteQuestion(a, id)
	_ = MoveQuestion(a, id, a.Sections[0].ID, 0)

	q := a.FindQuestion(id)
	if q == nil {
		t.Fatal("input assessment mutated: question removed")
	}
	if q.Title != before.Sections[0].Questions[0].Title {
		t.Error("input assessment mutated: title changed")
	}
	if len(q.Options) != 2 {
		t.Errorf("input assessment mutated: %d options", len(q.Options))
	}
}
