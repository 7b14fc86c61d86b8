package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func sampleAssessment() Assessment {
	minLen, maxLen := 0, 500
	return Assessment{
		ID:                "a1",
		Title:             "Backend Engineer Screen",
		Category:          "technical",
		EstimatedDuration: 30,
		Sections: []Section{
			{
				ID:    "s1",
				Title: "Experience",
				Questions: []Question{
					{
						ID:        "q1",
						SectionID: "s1",
						Type:      QuestionTypeSingleChoice,
						Title:     "Have you used Go in production?",
						Required:  true,
						Options:   []string{"Yes", "No"},
						Conditional: Conditional{
							Enabled:   false,
							Condition: OperatorEquals,
						},
					},
					{
						ID:         "q2",
						SectionID:  "s1",
						Type:       QuestionTypeLongText,
						Title:      "Describe a service you built",
						Validation: Validation{MinLength: &minLen, MaxLength: &maxLen},
						Conditional: Conditional{
							Enabled:   true,
							DependsOn: "q1",
							Condition: OperatorEquals,
							Value:     "Yes",
						},
					},
				},
			},
		},
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	a := sampleAssessment()

	doc := a.ToDocument()
	back := FromDocument(a.ID, doc)

	if back.ID != a.ID || back.Title != a.Title || back.Category != a.Category {
		t.Errorf("metadata lost: %+v", back)
	}
	if back.EstimatedDuration != 30 {
		t.Errorf("estimated duration lost: %d", back.EstimatedDuration)
	}
	if back.QuestionCount() != a.QuestionCount() {
		t.Fatalf("question count changed: %d vs %d", back.QuestionCount(), a.QuestionCount())
	}

	q2 := back.FindQuestion("q2")
	if q2 == nil {
		t.Fatal("q2 lost in round trip")
	}
	if !q2.Conditional.Enabled {
		t.Error("enabled conditional must survive the round trip")
	}
	if q2.Conditional.DependsOn != "q1" || q2.Conditional.Value != "Yes" {
		t.Errorf("conditional fields mangled: %+v", q2.Conditional)
	}
	if q2.Conditional.Condition != OperatorEquals {
		t.Errorf("operator mangled: %q", q2.Conditional.Condition)
	}
	if q2.Validation.MaxLength == nil || *q2.Validation.MaxLength != 500 {
		t.Errorf("validation bounds lost: %+v", q2.Validation)
	}
}

func TestDisabledConditionalOmittedFromWire(t *testing.T) {
	a := sampleAssessment()
	doc := a.ToDocument()

	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}

	// Only q2 carries an enabled conditional, so exactly one rule on the wire.
	if got := strings.Count(string(raw), "conditionalLogic"); got != 1 {
		t.Errorf("expected exactly 1 conditionalLogic key, found %d in %s", got, raw)
	}
	if !strings.Contains(string(raw), `"showIf"`) {
		t.Error("enabled conditional must nest under showIf")
	}
	if !strings.Contains(string(raw), `"questionId":"q1"`) {
		t.Errorf("wire rule must use questionId naming: %s", raw)
	}
}

func TestMissingConditionalLoadsDisabled(t *testing.T) {
	raw := `{
		"title": "Screen",
		"description": "",
		"type": "technical",
		"estimatedDuration": 15,
		"sections": [{
			"id": "s1",
			"title": "Main",
			"questions": [{
				"id": "q1",
				"sectionId": "s1",
				"type": "short-text",
				"title": "Name",
				"required": true,
				"options": [],
				"validation": {"minLength": 1, "maxLength": 80}
			}]
		}]
	}`

	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatal(err)
	}

	a := FromDocument("a1", doc)
	q := a.FindQuestion("q1")
	if q == nil {
		t.Fatal("question not loaded")
	}
	if q.Conditional.Enabled {
		t.Error("missing conditionalLogic must load as disabled")
	}
	if q.Type != QuestionTypeShortText {
		t.Errorf("unexpected type %q", q.Type)
	}
	if q.Validation.MaxLength == nil || *q.Validation.MaxLength != 80 {
		t.Errorf("validation not loaded: %+v", q.Validation)
	}
}

func TestCloneIsDeep(t *testing.T) {
	a := sampleAssessment()
	c := a.Clone()

	c.Sections[0].Questions[0].Options[0] = "mutated"
	c.Sections[0].Questions[0].Title = "mutated"
	*c.Sections[0].Questions[1].Validation.MaxLength = 9999

	if a.Sections[0].Questions[0].Options[0] != "Yes" {
		t.Error("options shared between clone and original")
	}
	if a.Sections[0].Questions[0].Title == "mutated" {
		t.Error("questions shared between clone and original")
	}
	if *a.Sections[0].Questions[1].Validation.MaxLength != 500 {
		t.Error("validation pointers shared between clone and original")
	}
}
