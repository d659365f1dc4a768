package llm

import (
	"fmt"
	"strings"

	"github.com/jonathan/hr-pulse/internal/prompts"
)

// EntityCategories are the categories the model may assign.
var EntityCategories = []string{
	"Skill", "Product", "PersonType", "Organization", "Location",
	"DateTime", "Quantity", "Event", "Other",
}

// ExtractionSchema describes the JSON object a prompt asks the model to return.
type ExtractionSchema struct {
	Name        string
	Description string
	Fields      []SchemaField
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string
	Type        string
	Description string
	Required    bool
}

// BuildBatchPrompt renders the schema followed by each document tagged with its id.
// Ids are positional ("0", "1", ...) so the response can be matched back.
func BuildBatchPrompt(schema ExtractionSchema, documents []string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  %q: %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString(prompts.MustGet(prompts.ExtractionFile, "batch-rules"))
	sb.WriteString("\n\n")

	for i, doc := range documents {
		sb.WriteString(fmt.Sprintf("Document id %d:\n\"\"\"\n%s\n\"\"\"\n", i, doc))
	}
	return sb.String()
}

// EntityRecognitionSchema returns the schema used to ask for named entities.
func EntityRecognitionSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "EntityRecognition",
		Description: prompts.Format(prompts.MustGet(prompts.ExtractionFile, "entity-recognition"), map[string]string{
			"Categories": strings.Join(EntityCategories, ", "),
		}),
		Fields: []SchemaField{
			{
				Name:        "documents",
				Type:        `[{"id": "string", "entities": [{"text": "string", "category": "string", "subcategory": "string|null", "confidence_score": "number"}], "error": "string|null"}]`,
				Description: "One entry per input document; set error instead of entities if the document cannot be analyzed",
				Required:    true,
			},
		},
	}
}
