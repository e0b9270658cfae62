// Package zip packs in-memory files into a single archive.
package zip

import (
	"archive/zip"
	"bytes"
	"fmt"
	"time"
)

// Asset is one file in the archive.
type Asset struct {
	Filename string
	Data     []byte
}

// ArchiveAssets writes assets in order. Entries are stored with modified set
// to mod; duplicate or empty names are rejected.
func ArchiveAssets(assets []Asset, mod time.Time) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	seen := make(map[string]struct{}, len(assets))
	for _, asset := range assets {
		if asset.Filename == "" {
			return nil, fmt.Errorf("zip: empty filename")
		}
		if _, dup := seen[asset.Filename]; dup {
			return nil, fmt.Errorf("zip: duplicate entry %q", asset.Filename)
		}
		seen[asset.Filename] = struct{}{}

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     asset.Filename,
			Method:   zip.Deflate,
			Modified: mod,
		})
		if err != nil {
			return nil, fmt.Errorf("zip: create %s: %w", asset.Filename, err)
		}
		if _, err := w.Write(asset.Data); err != nil {
			return nil, fmt.Errorf("zip: write %s: %w", asset.Filename, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: close: %w", err)
	}
	return buf.Bytes(), nil
}
