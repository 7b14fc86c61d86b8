package model

import "time"

// NewAssessmentID is the sentinel id of an assessment that has not been
// saved yet. Loading it yields a fresh default document.
const NewAssessmentID = "new"

// Assessment is the editor-side representation of an assessment document:
// ordered sections, each owning ordered questions.
type Assessment struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Category          string    `json:"category"`
	EstimatedDuration int       `json:"estimated_duration"`
	Sections          []Section `json:"sections"`
}

// Section is an ordered grouping of questions within an assessment.
type Section struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Questions   []Question `json:"questions"`
}

// Clone returns a deep copy of the assessment tree.
func (a Assessment) Clone() Assessment {
	out := a
	out.Sections = make([]Section, len(a.Sections))
	for i, s := range a.Sections {
		out.Sections[i] = s.Clone()
	}
	return out
}

// Clone returns a deep copy of the section.
func (s Section) Clone() Section {
	out := s
	out.Questions = make([]Question, len(s.Questions))
	for i, q := range s.Questions {
		out.Questions[i] = q.Clone()
	}
	return out
}

// QuestionCount returns the total number of questions across all sections.
func (a Assessment) QuestionCount() int {
	n := 0
	for _, s := range a.Sections {
		n += len(s.Questions)
	}
	return n
}

// FindSection returns the section with the given id, or nil.
func (a *Assessment) FindSection(sectionID string) *Section {
	for i := range a.Sections {
		if a.Sections[i].ID == sectionID {
			return &a.Sections[i]
		}
	}
	return nil
}

// FindQuestion returns the question with the given id, searched across all
// sections, or nil.
func (a *Assessment) FindQuestion(questionID string) *Question {
	for i := range a.Sections {
		for j := range a.Sections[i].Questions {
			if a.Sections[i].Questions[j].ID == questionID {
				return &a.Sections[i].Questions[j]
			}
		}
	}
	return nil
}

// AssessmentSummary is the list-view projection of a stored assessment.
type AssessmentSummary struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Category          string    `json:"category"`
	EstimatedDuration int       `json:"estimated_duration"`
	SectionCount      int       `json:"section_count"`
	QuestionCount     int       `json:"question_count"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Submission is a recorded candidate response set for an assessment.
type Submission struct {
	ID           string         `json:"id"`
	AssessmentID string         `json:"assessment_id"`
	Responses    map[string]any `json:"responses"`
	SubmittedAt  time.Time      `json:"submitted_at"`
}

// ─── Request payloads ────────────────────────────────────────────────

// UpdateAssessmentRequest is the payload for partially updating assessment
// metadata.
type UpdateAssessmentRequest struct {
	Title             *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description       *string `json:"description" binding:"omitempty,max=2000"`
	Category          *string `json:"category" binding:"omitempty,max=100"`
	EstimatedDuration *int    `json:"estimated_duration" binding:"omitempty,min=1,max=480"`
}

// UpdateSectionRequest is the payload for partially updating a section.
type UpdateSectionRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// AddQuestionRequest is the payload for adding a question to a section.
type AddQuestionRequest struct {
	Type string `json:"type" binding:"required,oneof=single-choice multi-choice short-text long-text numeric file-upload"`
}

// UpdateQuestionRequest is the payload for partially updating a question.
type UpdateQuestionRequest struct {
	Title       *string      `json:"title" binding:"omitempty,max=500"`
	Description *string      `json:"description" binding:"omitempty,max=2000"`
	Required    *bool        `json:"required"`
	Options     []string     `json:"options" binding:"omitempty,min=2"`
	Validation  *Validation  `json:"validation"`
	Conditional *Conditional `json:"conditional"`
}

// MoveQuestionRequest is the payload for reordering a question, possibly
// across sections.
type MoveQuestionRequest struct {
	ToSectionID string `json:"to_section_id" binding:"required"`
	ToIndex     int    `json:"to_index" binding:"min=0"`
}

// UpdateOptionRequest is the payload for replacing an option's text in place.
type UpdateOptionRequest struct {
	Text string `json:"text" binding:"required,max=500"`
}

// SubmitRequest carries a candidate's response map, keyed by question id.
type SubmitRequest struct {
	Responses map[string]any `json:"responses" binding:"required"`
}
