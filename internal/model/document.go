package model

// The stored/wire shape of an assessment differs from the editor shape in
// one place: the editor's flat `conditional` rule is nested under
// `conditionalLogic.showIf`, and is omitted entirely while disabled. The
// two shapes are kept as distinct named types with a pure mapping between
// them so neither leaks into the other's consumers.

// Document is the persisted wire form of an assessment.
type Document struct {
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	Type              string            `json:"type"`
	EstimatedDuration int               `json:"estimatedDuration"`
	Sections          []SectionDocument `json:"sections"`
}

// SectionDocument is the wire form of a section.
type SectionDocument struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Questions   []QuestionDocument `json:"questions"`
}

// QuestionDocument is the wire form of a question.
type QuestionDocument struct {
	ID               string             `json:"id"`
	SectionID        string             `json:"sectionId"`
	Type             QuestionType       `json:"type"`
	Title            string             `json:"title"`
	Description      string             `json:"description,omitempty"`
	Required         bool               `json:"required"`
	Options          []string           `json:"options"`
	Validation       ValidationDocument `json:"validation"`
	ConditionalLogic *ConditionalLogic  `json:"conditionalLogic,omitempty"`
}

// ValidationDocument is the wire form of a validation rule set.
type ValidationDocument struct {
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
}

// ConditionalLogic wraps the wire-side visibility rule.
type ConditionalLogic struct {
	ShowIf ShowIfRule `json:"showIf"`
}

// ShowIfRule is the wire form of a conditional visibility rule.
type ShowIfRule struct {
	QuestionID string   `json:"questionId"`
	Operator   Operator `json:"operator"`
	Value      string   `json:"value"`
}

// ToDocument converts the editor shape to the wire shape. An enabled
// conditional flattens into conditionalLogic.showIf; a disabled one is
// dropped from the document entirely.
func (a Assessment) ToDocument() Document {
	doc := Document{
		Title:             a.Title,
		Description:       a.Description,
		Type:              a.Category,
		EstimatedDuration: a.EstimatedDuration,
		Sections:          make([]SectionDocument, len(a.Sections)),
	}
	for i, s := range a.Sections {
		sd := SectionDocument{
			ID:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			Questions:   make([]QuestionDocument, len(s.Questions)),
		}
		for j, q := range s.Questions {
			sd.Questions[j] = q.toDocument()
		}
		doc.Sections[i] = sd
	}
	return doc
}

func (q Question) toDocument() QuestionDocument {
	qd := QuestionDocument{
		ID:          q.ID,
		SectionID:   q.SectionID,
		Type:        q.Type,
		Title:       q.Title,
		Description: q.Description,
		Required:    q.Required,
		Options:     append([]string{}, q.Options...),
		Validation: ValidationDocument{
			MinLength: q.Validation.MinLength,
			MaxLength: q.Validation.MaxLength,
			Min:       q.Validation.Min,
			Max:       q.Validation.Max,
		},
	}
	if q.Conditional.Enabled {
		qd.ConditionalLogic = &ConditionalLogic{
			ShowIf: ShowIfRule{
				QuestionID: q.Conditional.DependsOn,
				Operator:   q.Conditional.Condition,
				Value:      q.Conditional.Value,
			},
		}
	}
	return qd
}

// FromDocument converts the wire shape back to the editor shape. A missing
// conditionalLogic key loads as a disabled conditional.
func FromDocument(id string, doc Document) Assessment {
	a := Assessment{
		ID:                id,
		Title:             doc.Title,
		Description:       doc.Description,
		Category:          doc.Type,
		EstimatedDuration: doc.EstimatedDuration,
		Sections:          make([]Section, len(doc.Sections)),
	}
	for i, sd := range doc.Sections {
		s := Section{
			ID:          sd.ID,
			Title:       sd.Title,
			Description: sd.Description,
			Questions:   make([]Question, len(sd.Questions)),
		}
		for j, qd := range sd.Questions {
			s.Questions[j] = qd.toEditor()
		}
		a.Sections[i] = s
	}
	return a
}

func (qd QuestionDocument) toEditor() Question {
	q := Question{
		ID:          qd.ID,
		SectionID:   qd.SectionID,
		Type:        qd.Type,
		Title:       qd.Title,
		Description: qd.Description,
		Required:    qd.Required,
		Options:     append([]string(nil), qd.Options...),
		Validation: Validation{
			MinLength: qd.Validation.MinLength,
			MaxLength: qd.Validation.MaxLength,
			Min:       qd.Validation.Min,
			Max:       qd.Validation.Max,
		},
		Conditional: Conditional{Enabled: false},
	}
	if qd.ConditionalLogic != nil {
		q.Conditional = Conditional{
			Enabled:   true,
			DependsOn: qd.ConditionalLogic.ShowIf.QuestionID,
			Condition: qd.ConditionalLogic.ShowIf.Operator,
			Value:     qd.ConditionalLogic.ShowIf.Value,
		}
	}
	return q
}
