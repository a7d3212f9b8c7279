package cv

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed draft.schema.json
var draftSchema string

var draftSchemaLoader = gojsonschema.NewStringLoader(draftSchema)

var knownCategories = map[string]struct{}{
	CategoryTechnical: {},
	CategorySoft:      {},
	CategoryFinance:   {},
	CategoryDesign:    {},
	CategoryDomain:    {},
	CategoryOther:     {},
}

// DraftSchema returns the JSON Schema a draft record must satisfy.
func DraftSchema() string {
	return draftSchema
}

// DecodeDraft validates raw model output against the draft schema and decodes
// it into a record with defaults applied. Shape problems are reported as a
// *ValidationError.
func DecodeDraft(raw []byte) (*EmployeeRecord, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, invalid("", "draft is not a JSON object: %v", err)
	}

	result, err := gojsonschema.Validate(draftSchemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validate draft schema: %w", err)
	}

	if !result.Valid() {
		verr := &ValidationError{}
		for _, desc := range result.Errors() {
			verr.Problems = append(verr.Problems, FieldProblem{
				Field:   desc.Field(),
				Message: desc.Description(),
			})
		}
		return nil, verr
	}

	applySkillDefaults(doc)

	var record EmployeeRecord
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &record,
	})
	if err != nil {
		return nil, fmt.Errorf("create draft decoder: %w", err)
	}

	if err := decoder.Decode(doc); err != nil {
		return nil, invalid("", "decode draft: %v", err)
	}

	if record.AllSkills == nil {
		record.AllSkills = []Skill{}
	}
	if record.WorkExperience == nil {
		record.WorkExperience = []WorkExperience{}
	}

	return &record, nil
}

func applySkillDefaults(doc map[string]any) {
	skills, ok := doc["allSkills"].([]any)
	if !ok {
		return
	}

	for _, item := range skills {
		skill, ok := item.(map[string]any)
		if !ok {
			continue
		}

		if name, ok := skill["name"].(string); ok {
			skill["name"] = strings.TrimSpace(name)
		}

		if skill["mentions"] == nil {
			skill["mentions"] = 1
		}

		category, _ := skill["category"].(string)
		category = strings.ToLower(strings.TrimSpace(category))
		switch {
		case category == "":
			category = CategoryTechnical
		case !isKnownCategory(category):
			category = CategoryOther
		}
		skill["category"] = category
	}
}

func isKnownCategory(c string) bool {
	_, ok := knownCategories[c]
	return ok
}

// ValidateDraft checks the fields normalization depends on. It accepts records
// built in code as well as decoded ones.
func ValidateDraft(draft *EmployeeRecord) error {
	if draft == nil {
		return invalid("", "draft record is required")
	}

	verr := &ValidationError{}
	for i, s := range draft.AllSkills {
		if strings.TrimSpace(s.Name) == "" {
			verr.Problems = append(verr.Problems, FieldProblem{
				Field:   fmt.Sprintf("allSkills.%d.name", i),
				Message: "skill name must not be empty",
			})
		}
	}

	for i, w := range draft.WorkExperience {
		required := map[string]string{
			"company":   w.Company,
			"position":  w.Position,
			"startDate": w.StartDate,
			"endDate":   w.EndDate,
		}
		for _, field := range []string{"company", "position", "startDate", "endDate"} {
			if strings.TrimSpace(required[field]) == "" {
				verr.Problems = append(verr.Problems, FieldProblem{
					Field:   fmt.Sprintf("workExperience.%d.%s", i, field),
					Message: "must not be empty",
				})
			}
		}
	}

	if len(verr.Problems) > 0 {
		return verr
	}
	return nil
}
