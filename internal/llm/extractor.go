package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema describes the JSON object a prompt asks the model for.
type ExtractionSchema struct {
	Name string
	// Instructions open the prompt.
	Instructions string
	Fields       []SchemaField
	// Rules are listed after the field block.
	Rules []string
}

// SchemaField is one key of the expected reply.
type SchemaField struct {
	Name        string
	Type        string // "string" when empty
	Description string
	Required    bool
}

// Keys returns the field names in declaration order.
func (s ExtractionSchema) Keys() []string {
	keys := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		keys[i] = f.Name
	}
	return keys
}

// BuildExtractionPrompt renders schema and input into a single prompt.
func BuildExtractionPrompt(schema ExtractionSchema, input string) string {
	var sb strings.Builder

	sb.WriteString(strings.TrimSpace(schema.Instructions))
	sb.WriteString("\n\nReturn ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = `"string"`
		}
		fmt.Fprintf(&sb, "  %q: %s", field.Name, typeHint)
		if field.Required {
			sb.WriteString(" (required)")
		}
		if field.Description != "" {
			fmt.Fprintf(&sb, " // %s", field.Description)
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n")

	if len(schema.Rules) > 0 {
		sb.WriteString("\nIMPORTANT:\n")
		for _, rule := range schema.Rules {
			fmt.Fprintf(&sb, "- %s\n", rule)
		}
	}

	sb.WriteString("\nInput:\n\"\"\"\n")
	sb.WriteString(input)
	sb.WriteString("\n\"\"\"\n")
	return sb.String()
}
