package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"merchmagic/internal/domain"
	"merchmagic/pkg/zip"
)

type bundleManifest struct {
	SessionID  string    `json:"session_id"`
	TemplateID string    `json:"template_id"`
	Template   string    `json:"template"`
	Prompt     string    `json:"prompt"`
	ExportedAt time.Time `json:"exported_at"`
	Mockup     string    `json:"mockup"`
	Logo       string    `json:"logo,omitempty"`
}

// Bundle packs the exported PNG, the source logo and a manifest into a zip
// archive named like the PNG export.
func (c *Coordinator) Bundle(ctx context.Context, id string) ([]byte, string, error) {
	pngData, pngName, err := c.Export(ctx, id)
	if err != nil {
		return nil, "", err
	}
	s, err := c.store.Load(ctx, id)
	if err != nil {
		return nil, "", err
	}
	now := c.now()
	tmpl := s.Template()
	manifest := bundleManifest{
		SessionID:  s.ID,
		TemplateID: tmpl.ID,
		Template:   tmpl.Name,
		Prompt:     tmpl.BasePrompt,
		ExportedAt: now.UTC(),
		Mockup:     pngName,
	}
	assets := []zip.Asset{{Filename: pngName, Data: pngData}}
	if s.HasLogo() {
		manifest.Logo = "logo" + s.Logo.Extension()
		assets = append(assets, zip.Asset{Filename: manifest.Logo, Data: s.Logo.Data})
	}
	meta, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, "", err
	}
	assets = append(assets, zip.Asset{Filename: "manifest.json", Data: meta})

	archive, err := zip.ArchiveAssets(assets, now)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
	}
	return archive, strings.TrimSuffix(pngName, ".png") + ".zip", nil
}
