package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Schema describes the graph dataset: its node label, the queryable
// properties, and the value vocabularies extracted from the data. The
// vocabularies drive both prompt construction and template fallback matching.
type Schema struct {
	// Label is the node label every query matches on.
	Label string `json:"label"`

	// Properties are the queryable property names of the label.
	Properties []string `json:"properties"`

	// Types are known issue type values, e.g. "STOP Sign", "Speed Bump".
	Types []string `json:"types"`

	// Problems are known problem values, e.g. "Damaged", "Faded".
	Problems []string `json:"problems"`

	// Categories are known category values, e.g. "Road Sign", "Road Marking".
	Categories []string `json:"categories"`

	// Codes are known standard codes, e.g. "IRC:67-2022".
	Codes []string `json:"codes"`
}

// DefaultSchema returns the built-in road-safety infrastructure schema,
// used when no schema file is configured.
func DefaultSchema() *Schema {
	return &Schema{
		Label:      "InfrastructureIssue",
		Properties: []string{"s_no", "problem", "category", "type", "data", "code", "clause"},
		Types:      []string{"STOP Sign", "Speed Bump", "Hospital Sign", "Bus Stop Sign", "Pedestrian Crossing"},
		Problems:   []string{"Damaged", "Faded", "Missing", "Height Issue", "Obstruction", "Wrongly Placed"},
		Categories: []string{"Road Sign", "Road Marking", "Traffic Calming Measures"},
		Codes:      []string{"IRC:67-2022", "IRC:35-2015"},
	}
}

// LoadSchema reads a schema from a JSON file and validates it.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}

	var schema Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing schema file: %w", err)
	}
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return &schema, nil
}

// Validate checks the schema is usable for query validation and templating.
func (s *Schema) Validate() error {
	if s.Label == "" {
		return fmt.Errorf("schema: label is required")
	}
	if len(s.Properties) == 0 {
		return fmt.Errorf("schema: at least one property is required")
	}
	for _, p := range s.Properties {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("schema: empty property name")
		}
	}
	return nil
}

// HasProperty reports whether name is a declared property.
func (s *Schema) HasProperty(name string) bool {
	for _, p := range s.Properties {
		if p == name {
			return true
		}
	}
	return false
}

// PromptText renders the schema for inclusion in the translation prompt,
// listing the label, its properties, and sample vocabulary values.
func (s *Schema) PromptText() string {
	var b strings.Builder
	b.WriteString("Node Labels:\n")
	fmt.Fprintf(&b, "- %s (%s)\n", s.Label, strings.Join(s.Properties, ", "))
	b.WriteString("\nProperty values:\n")
	if len(s.Types) > 0 {
		fmt.Fprintf(&b, "- type: %s\n", quotedList(s.Types))
	}
	if len(s.Problems) > 0 {
		fmt.Fprintf(&b, "- problem: %s\n", quotedList(s.Problems))
	}
	if len(s.Categories) > 0 {
		fmt.Fprintf(&b, "- category: %s\n", quotedList(s.Categories))
	}
	if len(s.Codes) > 0 {
		fmt.Fprintf(&b, "- code: %s\n", quotedList(s.Codes))
	}
	b.WriteString("\nExample Queries:\n")
	fmt.Fprintf(&b, "MATCH (i:%s) WHERE i.type = 'STOP Sign' RETURN i.s_no, i.type, i.problem\n", s.Label)
	fmt.Fprintf(&b, "MATCH (i:%s) WHERE i.problem = 'Damaged' RETURN i.type, i.code\n", s.Label)
	fmt.Fprintf(&b, "MATCH (i:%s) WHERE i.code = 'IRC:67-2022' RETURN i.type, i.problem\n", s.Label)
	return b.String()
}

func quotedList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return strings.Join(quoted, ", ")
}
