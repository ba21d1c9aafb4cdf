package agents

import (
	"embed"
	"fmt"

	"github.com/specialistvlad/slidegridgo/internal/step"
)

//go:embed prompts/*.md
var promptFS embed.FS

// SystemPrompt returns the embedded system prompt for a step kind.
func SystemPrompt(kind step.Kind) (string, error) {
	data, err := promptFS.ReadFile(fmt.Sprintf("prompts/%s.md", kind))
	if err != nil {
		return "", fmt.Errorf("no system prompt for kind '%s': %w", kind, err)
	}
	return string(data), nil
}
