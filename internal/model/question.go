package model

// QuestionType enumerates the six supported question variants.
type QuestionType string

const (
	QuestionTypeSingleChoice QuestionType = "single-choice"
	QuestionTypeMultiChoice  QuestionType = "multi-choice"
	QuestionTypeShortText    QuestionType = "short-text"
	QuestionTypeLongText     QuestionType = "long-text"
	QuestionTypeNumeric      QuestionType = "numeric"
	QuestionTypeFileUpload   QuestionType = "file-upload"
)

// Valid reports whether t is one of the six known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeSingleChoice, QuestionTypeMultiChoice,
		QuestionTypeShortText, QuestionTypeLongText,
		QuestionTypeNumeric, QuestionTypeFileUpload:
		return true
	}
	return false
}

// IsChoice reports whether the type carries an options list.
func (t QuestionType) IsChoice() bool {
	return t == QuestionTypeSingleChoice || t == QuestionTypeMultiChoice
}

// IsText reports whether the type is validated by string length.
func (t QuestionType) IsText() bool {
	return t == QuestionTypeShortText || t == QuestionTypeLongText
}

// Operator enumerates conditional comparison operators. Only equality is
// evaluated today; the other two are reserved by the document format.
type Operator string

const (
	OperatorEquals    Operator = "equals"
	OperatorNotEquals Operator = "not-equals"
	OperatorContains  Operator = "contains"
)

// Validation is the type-scoped rule set of a question. Length bounds apply
// to text types, numeric bounds to numeric questions; absent means unbounded.
type Validation struct {
	MinLength *int     `json:"min_length,omitempty"`
	MaxLength *int     `json:"max_length,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
}

// Conditional is the editor-side visibility rule of a question. DependsOn
// must reference another question in the same section.
type Conditional struct {
	Enabled   bool     `json:"enabled"`
	DependsOn string   `json:"depends_on"`
	Condition Operator `json:"condition"`
	Value     string   `json:"value"`
}

// Question is a single prompt within a section.
type Question struct {
	ID          string       `json:"id"`
	SectionID   string       `json:"section_id"`
	Type        QuestionType `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Required    bool         `json:"required"`
	Options     []string     `json:"options,omitempty"`
	Validation  Validation   `json:"validation"`
	Conditional Conditional  `json:"conditional"`
}

// Clone returns a deep copy of the question.
func (q Question) Clone() Question {
	out := q
	if q.Options != nil {
		out.Options = append([]string(nil), q.Options...)
	}
	out.Validation = q.Validation.clone()
	return out
}

func (v Validation) clone() Validation {
	out := Validation{}
	if v.MinLength != nil {
		n := *v.MinLength
		out.MinLength = &n
	}
	if v.MaxLength != nil {
		n := *v.MaxLength
		out.MaxLength = &n
	}
	if v.Min != nil {
		n := *v.Min
		out.Min = &n
	}
	if v.Max != nil {
		n := *v.Max
		out.Max = &n
	}
	return out
}
