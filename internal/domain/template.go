package domain

// ProductTemplate is a fixed product configuration with a pre-written base
// instruction for the generation service.
type ProductTemplate struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Icon       string `json:"icon"`
	BasePrompt string `json:"base_prompt"`
	PreviewURL string `json:"preview_url"`
}
