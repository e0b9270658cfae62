// Package catalog holds the fixed product templates and quick-edit suggestions.
package catalog

import (
	"strings"

	"merchmagic/internal/domain"
)

var templates = []domain.ProductTemplate{
	{
		ID:         "tshirt",
		Name:       "Classic T-Shirt",
		Icon:       "👕",
		BasePrompt: "A realistic product mockup of a person wearing a clean white premium cotton t-shirt. The uploaded logo should be placed perfectly in the center of the chest. Urban studio lighting, high resolution, 4k.",
		PreviewURL: "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=400&h=400&fit=crop",
	},
	{
		ID:         "hoodie",
		Name:       "Premium Hoodie",
		Icon:       "🧥",
		BasePrompt: "A professional streetwear mockup of a black heavy cotton hoodie. The logo should be visible on the center chest area. Cinematic lighting, soft shadows, detailed texture.",
		PreviewURL: "https://images.unsplash.com/photo-1556821840-3a63f95609a7?w=400&h=400&fit=crop",
	},
	{
		ID:         "cap",
		Name:       "Baseball Cap",
		Icon:       "🧢",
		BasePrompt: "A high-end product shot of a baseball cap on a wooden table. The logo should be embroidered on the front panel. Macro photography style, sharp focus.",
		PreviewURL: "https://images.unsplash.com/photo-1588850561407-ed78c282e89b?w=400&h=400&fit=crop",
	},
	{
		ID:         "mug",
		Name:       "Ceramic Mug",
		Icon:       "☕",
		BasePrompt: "A cozy lifestyle mockup of a white ceramic coffee mug sitting on a marble countertop next to a laptop. The logo should be printed on the side facing the camera.",
		PreviewURL: "https://images.unsplash.com/photo-1514228742587-6b1558fcca3d?w=400&h=400&fit=crop",
	},
	{
		ID:         "tote",
		Name:       "Tote Bag",
		Icon:       "👜",
		BasePrompt: "A clean canvas tote bag hanging on a minimalist wall. The logo should be centered on the bag. Soft natural window lighting, sustainable aesthetic.",
		PreviewURL: "https://images.unsplash.com/photo-1544816155-12df9643f363?w=400&h=400&fit=crop",
	},
}

var editSuggestions = []string{
	"Add a retro vintage filter",
	"Change the background to a beach",
	"Make the lighting more dramatic",
	"Add some coffee stains to the background",
	"Add a neon glow effect to the logo",
}

// Templates returns a copy of the catalog in display order.
func Templates() []domain.ProductTemplate {
	out := make([]domain.ProductTemplate, len(templates))
	copy(out, templates)
	return out
}

// Default is the template selected for a fresh session.
func Default() domain.ProductTemplate {
	return templates[0]
}

// Lookup finds a template by identifier, case-insensitively.
func Lookup(id string) (domain.ProductTemplate, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return domain.ProductTemplate{}, false
}

// EditSuggestions returns the quick-edit instructions offered next to a mockup.
func EditSuggestions() []string {
	out := make([]string, len(editSuggestions))
	copy(out, editSuggestions)
	return out
}

// Suggestion returns the quick edit at index i.
func Suggestion(i int) (string, bool) {
	if i < 0 || i >= len(editSuggestions) {
		return "", false
	}
	return editSuggestions[i], true
}
