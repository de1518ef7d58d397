package mcp

// Protocol is the identifier reported by initialize.
const Protocol = "MCP/2025-06-18"

type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

type Capabilities struct {
	Tools bool `json:"tools"`
}

type InitializeResult struct {
	Protocol     string       `json:"protocol"`
	Capabilities Capabilities `json:"capabilities"`
	Tools        []Tool       `json:"tools"`
}

type ToolsListResult struct {
	Tools []Tool `json:"tools"`
}

// Tools returns the descriptor list for both exposed tools. The schemas
// are what clients use to build their tool-use prompts, so the
// descriptions stay in the dataset's language.
func Tools() []Tool {
	return []Tool{
		{
			Name:        "find_stores_by_zone",
			Description: "Devuelve tiendas/stock por zona.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"zone": map[string]any{"type": "string"},
				},
				"required": []string{"zone"},
			},
		},
		{
			Name:        "recommend_complements",
			Description: "Disponibilidad del producto y sugerencias complementarias.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"product_name": map[string]any{"type": "string"},
					"zone":         map[string]any{"type": "string"},
				},
				"required": []string{"product_name"},
			},
		},
	}
}
