package client

import (
	"strings"

	"google.golang.org/genai"
)

// SchemaToMap converts a genai.Schema into plain JSON-schema form.
// genai carries uppercase type names ("STRING", "OBJECT"); both wire
// protocols expect lowercase.
func SchemaToMap(schema *genai.Schema) map[string]any {
	if schema == nil {
		return nil
	}

	result := make(map[string]any)

	if schema.Type != "" {
		result["type"] = strings.ToLower(string(schema.Type))
	}
	if schema.Description != "" {
		result["description"] = schema.Description
	}
	if len(schema.Enum) > 0 {
		result["enum"] = schema.Enum
	}
	if len(schema.Properties) > 0 {
		props := make(map[string]any, len(schema.Properties))
		for name, propSchema := range schema.Properties {
			props[name] = SchemaToMap(propSchema)
		}
		result["properties"] = props
	}
	if len(schema.Required) > 0 {
		result["required"] = schema.Required
	}
	if schema.Items != nil {
		result["items"] = SchemaToMap(schema.Items)
	}

	return result
}
