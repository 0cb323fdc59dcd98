package meeting

import "strings"

// extractRichText flattens Granola's structured note content (a tree of
// typed nodes) into plain text. Unrecognized node shapes are skipped, and
// nodes with a generic "content" key are recursed into, so unknown container
// types still yield their text. Pure: no state is shared across calls.
func extractRichText(nodes []any) string {
	var b strings.Builder
	for _, n := range nodes {
		extractNode(&b, n)
	}
	return strings.TrimSpace(b.String())
}

func extractNode(b *strings.Builder, raw any) {
	node, ok := raw.(map[string]any)
	if !ok {
		return
	}

	switch node["type"] {
	case "text":
		if text, ok := node["text"].(string); ok {
			b.WriteString(text)
		}

	case "heading":
		var parts []string
		for _, child := range childNodes(node) {
			if c, ok := child.(map[string]any); ok && c["type"] == "text" {
				if text, ok := c["text"].(string); ok {
					parts = append(parts, text)
				}
			}
		}
		if len(parts) > 0 {
			b.WriteString("\n### " + strings.Join(parts, "") + "\n")
		}

	case "paragraph", "listItem", "bulletList":
		if node["type"] == "listItem" {
			b.WriteString("- ")
		}
		for _, child := range childNodes(node) {
			extractNode(b, child)
		}
		if node["type"] != "bulletList" {
			b.WriteString("\n")
		}

	default:
		// Structural passthrough for unknown containers.
		for _, child := range childNodes(node) {
			extractNode(b, child)
		}
	}
}

func childNodes(node map[string]any) []any {
	if c, ok := node["content"].([]any); ok {
		return c
	}
	return nil
}
