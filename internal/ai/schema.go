package ai

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaType is a JSON value kind.
type SchemaType string

const (
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeInteger SchemaType = "integer"
	TypeBoolean SchemaType = "boolean"
	TypeArray   SchemaType = "array"
	TypeObject  SchemaType = "object"
)

// Schema describes the expected response shape. It renders both to the
// Gemini responseSchema dialect and to standard JSON Schema.
type Schema struct {
	Type        SchemaType
	Description string
	Enum        []string
	Properties  map[string]*Schema
	Order       []string
	Required    []string
	Items       *Schema
	MinItems    *int
	MaxItems    *int
	Minimum     *float64
	Maximum     *float64
}

// Gemini renders the schema for the generateContent responseSchema field.
func (s *Schema) Gemini() map[string]interface{} {
	if s == nil {
		return nil
	}
	out := map[string]interface{}{"type": strings.ToUpper(string(s.Type))}
	s.common(out, func(child *Schema) interface{} { return child.Gemini() })
	if len(s.Order) > 0 {
		out["propertyOrdering"] = s.Order
	}
	if s.MinItems != nil {
		out["minItems"] = fmt.Sprint(*s.MinItems)
	}
	if s.MaxItems != nil {
		out["maxItems"] = fmt.Sprint(*s.MaxItems)
	}
	return out
}

// JSONSchema renders the schema as a JSON Schema document.
func (s *Schema) JSONSchema() map[string]interface{} {
	if s == nil {
		return nil
	}
	out := map[string]interface{}{"type": string(s.Type)}
	s.common(out, func(child *Schema) interface{} { return child.JSONSchema() })
	if s.MinItems != nil {
		out["minItems"] = *s.MinItems
	}
	if s.MaxItems != nil {
		out["maxItems"] = *s.MaxItems
	}
	return out
}

func (s *Schema) common(out map[string]interface{}, render func(*Schema) interface{}) {
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		out["enum"] = s.Enum
	}
	if len(s.Properties) > 0 {
		props := make(map[string]interface{}, len(s.Properties))
		for name, child := range s.Properties {
			props[name] = render(child)
		}
		out["properties"] = props
	}
	if len(s.Required) > 0 {
		out["required"] = s.Required
	}
	if s.Items != nil {
		out["items"] = render(s.Items)
	}
	if s.Minimum != nil {
		out["minimum"] = *s.Minimum
	}
	if s.Maximum != nil {
		out["maximum"] = *s.Maximum
	}
}

// Validate checks a JSON document against the schema.
func (s *Schema) Validate(document []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(s.JSONSchema()),
		gojsonschema.NewBytesLoader(document),
	)
	if err != nil {
		return fmt.Errorf("validate response: %w", err)
	}
	if result.Valid() {
		return nil
	}
	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return fmt.Errorf("response does not match schema: %s", strings.Join(problems, "; "))
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

// SuggestionListSchema describes a list of practice topics.
func SuggestionListSchema() *Schema {
	return &Schema{
		Type: TypeArray,
		Items: &Schema{
			Type: TypeObject,
			Properties: map[string]*Schema{
				"topic":       {Type: TypeString},
				"difficulty":  {Type: TypeString, Enum: []string{"Easy", "Medium", "Advanced"}},
				"count":       {Type: TypeNumber, Minimum: floatPtr(0)},
				"description": {Type: TypeString},
			},
			Order:    []string{"topic", "difficulty", "count", "description"},
			Required: []string{"topic", "difficulty", "count", "description"},
		},
	}
}

// QuizSchema describes a multiple choice quiz with four options per question.
func QuizSchema(topicHint string) *Schema {
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"topic": {Type: TypeString, Description: topicHint},
			"questions": {
				Type:     TypeArray,
				MinItems: intPtr(1),
				Items: &Schema{
					Type: TypeObject,
					Properties: map[string]*Schema{
						"id":       {Type: TypeNumber},
						"question": {Type: TypeString},
						"options": {
							Type:     TypeArray,
							Items:    &Schema{Type: TypeString},
							MinItems: intPtr(4),
							MaxItems: intPtr(4),
						},
						"correctAnswer": {Type: TypeNumber, Description: "Index của đáp án đúng (0-3)", Minimum: floatPtr(0), Maximum: floatPtr(3)},
						"explanation":   {Type: TypeString, Description: "Giải thích chi tiết tại sao đáp án đó đúng"},
					},
					Order:    []string{"id", "question", "options", "correctAnswer", "explanation"},
					Required: []string{"id", "question", "options", "correctAnswer", "explanation"},
				},
			},
		},
		Order:    []string{"topic", "questions"},
		Required: []string{"topic", "questions"},
	}
}
