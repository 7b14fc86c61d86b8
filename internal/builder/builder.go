// Package builder implements the editor operations over an assessment
// document. Every operation is a pure transformation: it deep-copies the
// input assessment and returns a new value, leaving the original untouched.
// Structural guards (last remaining section, two-option floor) refuse
// silently by returning the unchanged copy.
package builder

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/talentflow/talentflow-backend/internal/model"
)

const (
	defaultShortTextMax = 100
	defaultLongTextMax  = 1000
	defaultNumericMax   = 100

	// minOptions is the structural floor for choice-type option lists.
	minOptions = 2
)

// New returns a fresh default assessment: empty metadata and a single
// default section with no questions.
func New() model.Assessment {
	return model.Assessment{
		ID:       model.NewAssessmentID,
		Title:    "Untitled Assessment",
		Sections: []model.Section{newSection(1)},
	}
}

func newSection(ordinal int) model.Section {
	return model.Section{
		ID:        uuid.New().String(),
		Title:     fmt.Sprintf("Section %d", ordinal),
		Questions: []model.Question{},
	}
}

// AddSection appends a new section with a generated id and default title.
func AddSection(a model.Assessment) model.Assessment {
	out := a.Clone()
	out.Sections = append(out.Sections, newSection(len(out.Sections)+1))
	return out
}

// DeleteSection removes the section with the given id. Deleting the last
// remaining section is refused; unknown ids are a no-op.
func DeleteSection(a model.Assessment, sectionID string) model.Assessment {
	out := a.Clone()
	if len(out.Sections) <= 1 {
		return out
	}
	for i := range out.Sections {
		if out.Sections[i].ID == sectionID {
			out.Sections = append(out.Sections[:i], out.Sections[i+1:]...)
			return out
		}
	}
	return out
}

// UpdateSection merges the non-nil fields of req into the section with the
// given id. Unknown ids are a no-op.
func UpdateSection(a model.Assessment, sectionID string, req model.UpdateSectionRequest) model.Assessment {
	out := a.Clone()
	s := out.FindSection(sectionID)
	if s == nil {
		return out
	}
	if req.Title != nil {
		s.Title = *req.Title
	}
	if req.Description != nil {
		s.Description = *req.Description
	}
	return out
}

// AddQuestion appends a question with type-appropriate defaults to the given
// section and returns the new question's id for selection. An unknown
// section or question type leaves the assessment unchanged (empty id).
func AddQuestion(a model.Assessment, sectionID string, qt model.QuestionType) (model.Assessment, string) {
	out := a.Clone()
	s := out.FindSection(sectionID)
	if s == nil || !qt.Valid() {
		return out, ""
	}

	q := model.Question{
		ID:          uuid.New().String(),
		SectionID:   sectionID,
		Type:        qt,
		Title:       "Untitled Question",
		Conditional: model.Conditional{Enabled: false, Condition: model.OperatorEquals},
	}

	switch {
	case qt.IsChoice():
		q.Options = []string{"Option 1", "Option 2"}
	case qt == model.QuestionTypeShortText:
		q.Validation = lengthBounds(0, defaultShortTextMax)
	case qt == model.QuestionTypeLongText:
		q.Validation = lengthBounds(0, defaultLongTextMax)
	case qt == model.QuestionTypeNumeric:
		q.Validation = numericBounds(0, defaultNumericMax)
	}

	s.Questions = append(s.Questions, q)
	return out, q.ID
}

func lengthBounds(min, max int) model.Validation {
	return model.Validation{MinLength: &min, MaxLength: &max}
}

func numericBounds(min, max float64) model.Validation {
	return model.Validation{Min: &min, Max: &max}
}

// DeleteQuestion removes the question with the given id from whichever
// section contains it. Unknown ids are a no-op.
func DeleteQuestion(a model.Assessment, questionID string) model.Assessment {
	out := a.Clone()
	for i := range out.Sections {
		qs := out.Sections[i].Questions
		for j := range qs {
			if qs[j].ID == questionID {
				out.Sections[i].Questions = append(qs[:j], qs[j+1:]...)
				return out
			}
		}
	}
	return out
}

// UpdateQuestion merges the non-nil fields of req into the question with the
// given id, searched across all sections. Validation bounds that do not
// apply to the question's type are stripped, and a conditional dependency
// that is self-referential or points outside the question's section is
// cleared.
func UpdateQuestion(a model.Assessment, questionID string, req model.UpdateQuestionRequest) model.Assessment {
	out := a.Clone()
	q := out.FindQuestion(questionID)
	if q == nil {
		return out
	}

	if req.Title != nil {
		q.Title = *req.Title
	}
	if req.Description != nil {
		q.Description = *req.Description
	}
	if req.Required != nil {
		q.Required = *req.Required
	}
	if req.Options != nil && q.Type.IsChoice() {
		q.Options = append([]string(nil), req.Options...)
	}
	if req.Validation != nil {
		q.Validation = *req.Validation
	}
	if req.Conditional != nil {
		q.Conditional = *req.Conditional
	}

	sanitizeValidation(q)
	sanitizeConditional(out, q)
	return out
}

// sanitizeValidation drops rule fields that the question type cannot carry,
// so a numeric range can never survive on a text question and vice versa.
func sanitizeValidation(q *model.Question) {
	switch {
	case q.Type.IsText():
		q.Validation.Min, q.Validation.Max = nil, nil
	case q.Type == model.QuestionTypeNumeric:
		q.Validation.MinLength, q.Validation.MaxLength = nil, nil
	default:
		q.Validation = model.Validation{}
	}
}

// sanitizeConditional clears a dependency target that is the question
// itself or not a sibling in the same section.
func sanitizeConditional(a model.Assessment, q *model.Question) {
	if q.Conditional.DependsOn == "" {
		return
	}
	if q.Conditional.DependsOn == q.ID || !sameSection(a, q.SectionID, q.Conditional.DependsOn) {
		q.Conditional.DependsOn = ""
	}
}

func sameSection(a model.Assessment, sectionID, questionID string) bool {
	s := a.FindSection(sectionID)
	if s == nil {
		return false
	}
	for _, q := range s.Questions {
		if q.ID == questionID {
			return true
		}
	}
	return false
}

// MoveQuestion removes the question with the given id from its current
// position and inserts it at toIndex within toSectionID, rewriting the
// question's owning section on cross-section moves. Total question count is
// preserved; an unknown question or destination section is a no-op.
func MoveQuestion(a model.Assessment, questionID, toSectionID string, toIndex int) model.Assessment {
	out := a.Clone()

	var moved *model.Question
	for i := range out.Sections {
		qs := out.Sections[i].Questions
		for j := range qs {
			if qs[j].ID == questionID {
				q := qs[j]
				moved = &q
				out.Sections[i].Questions = append(qs[:j], qs[j+1:]...)
				break
			}
		}
		if moved != nil {
			break
		}
	}
	if moved == nil {
		return out
	}

	dst := out.FindSection(toSectionID)
	if dst == nil {
		return a.Clone()
	}

	if moved.SectionID != toSectionID {
		moved.SectionID = toSectionID
		// A dependency on a former sibling no longer resolves within the
		// new section.
		sanitizeConditional(out, moved)
	}

	if toIndex < 0 {
		toIndex = 0
	}
	if toIndex > len(dst.Questions) {
		toIndex = len(dst.Questions)
	}
	dst.Questions = append(dst.Questions, model.Question{})
	copy(dst.Questions[toIndex+1:], dst.Questions[toIndex:])
	dst.Questions[toIndex] = *moved
	return out
}

// AddOption appends a placeholder option to a choice-type question.
func AddOption(a model.Assessment, questionID string) model.Assessment {
	out := a.Clone()
	q := out.FindQuestion(questionID)
	if q == nil || !q.Type.IsChoice() {
		return out
	}
	q.Options = append(q.Options, fmt.Sprintf("Option %d", len(q.Options)+1))
	return out
}

// UpdateOption replaces the option text at the given index in place.
func UpdateOption(a model.Assessment, questionID string, index int, text string) model.Assessment {
	out := a.Clone()
	q := out.FindQuestion(questionID)
	if q == nil || !q.Type.IsChoice() || index < 0 || index >= len(q.Options) {
		return out
	}
	q.Options[index] = text
	return out
}

// RemoveOption deletes the option at the given index. Removal is refused
// once only two options remain.
func RemoveOption(a model.Assessment, questionID string, index int) model.Assessment {
	out := a.Clone()
	q := out.FindQuestion(questionID)
	if q == nil || !q.Type.IsChoice() || index < 0 || index >= len(q.Options) {
		return out
	}
	if len(q.Options) <= minOptions {
		return out
	}
	q.Options = append(q.Options[:index], q.Options[index+1:]...)
	return out
}
