package llm

import "strings"

// cleanJSONBlock removes markdown code fence wrappers from JSON responses.
// Models often wrap JSON in ```json ... ``` blocks even when instructed not to.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
