package gemini

import (
	"fmt"
	"strings"
)

// BuildGenerateInstruction wraps a template's base prompt with the fixed
// directive asking for a natural, perspective-correct logo placement.
func BuildGenerateInstruction(templatePrompt string) string {
	return fmt.Sprintf("Generate a product mockup using the provided logo. Prompt: %s. Ensure the logo is integrated naturally onto the product surfaces with correct perspective and lighting.",
		strings.TrimSpace(templatePrompt))
}

// BuildEditInstruction wraps a free-text edit so the model keeps the product
// and logo identity intact.
func BuildEditInstruction(editPrompt string) string {
	return fmt.Sprintf("Edit the provided product mockup according to this instruction: %s. Maintain the core product and logo but apply the requested changes accurately.",
		strings.TrimSpace(editPrompt))
}
