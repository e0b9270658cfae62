// Package imagecodec converts uploaded images into the payload carried to the
// generation service and back into displayable references.
package imagecodec

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// DefaultMIMEType is assumed when neither sniffing nor the caller can name one.
const DefaultMIMEType = "image/png"

var (
	ErrEmpty          = errors.New("imagecodec: empty image payload")
	ErrInvalidDataURL = errors.New("imagecodec: invalid data url")
)

// Payload is an encoded image held in memory: raw bytes plus MIME type.
type Payload struct {
	Data     []byte `json:"data"`
	MIMEType string `json:"mime_type"`
}

// New builds a payload from raw bytes. The MIME type is sniffed from the
// content; declared is used only when the bytes are not recognised as an image.
func New(data []byte, declared string) Payload {
	return Payload{Data: data, MIMEType: detectMIME(data, declared)}
}

// Read loads an uploaded file fully into memory.
func Read(r io.Reader, declared string) (Payload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Payload{}, fmt.Errorf("imagecodec: read upload: %w", err)
	}
	if len(data) == 0 {
		return Payload{}, ErrEmpty
	}
	return New(data, declared), nil
}

// IsZero reports whether the payload carries no image bytes.
func (p Payload) IsZero() bool {
	return len(p.Data) == 0
}

// Type returns the MIME type, falling back to DefaultMIMEType.
func (p Payload) Type() string {
	if t := strings.TrimSpace(p.MIMEType); t != "" {
		return t
	}
	return DefaultMIMEType
}

// DataURL renders the payload as a base64 data URL usable as an <img> source.
func (p Payload) DataURL() string {
	if p.IsZero() {
		return ""
	}
	return "data:" + p.Type() + ";base64," + base64.StdEncoding.EncodeToString(p.Data)
}

// Extension returns the file extension (with dot) matching the MIME type.
func (p Payload) Extension() string {
	if m := mimetype.Lookup(p.Type()); m != nil && m.Extension() != "" {
		return m.Extension()
	}
	return ".png"
}

// ParseDataURL decodes "data:<mime>;base64,<data>" back into a payload.
func ParseDataURL(raw string) (Payload, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "data:") {
		return Payload{}, ErrInvalidDataURL
	}
	header, encoded, ok := strings.Cut(strings.TrimPrefix(raw, "data:"), ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return Payload{}, ErrInvalidDataURL
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	if len(data) == 0 {
		return Payload{}, ErrEmpty
	}
	return New(data, strings.TrimSuffix(header, ";base64")), nil
}

// ToPNG returns the payload encoded as PNG, transcoding other formats.
func ToPNG(p Payload) ([]byte, error) {
	if p.IsZero() {
		return nil, ErrEmpty
	}
	if mimetype.Detect(p.Data).Is("image/png") {
		return p.Data, nil
	}
	img, _, err := image.Decode(bytes.NewReader(p.Data))
	if err != nil {
		return nil, fmt.Errorf("imagecodec: decode %s: %w", p.Type(), err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("imagecodec: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func detectMIME(data []byte, declared string) string {
	if len(data) > 0 {
		detected := mimetype.Detect(data)
		if strings.HasPrefix(detected.String(), "image/") {
			return baseMediaType(detected.String())
		}
	}
	if declared = baseMediaType(declared); declared != "" {
		return declared
	}
	return DefaultMIMEType
}

func baseMediaType(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(v); err == nil {
		return mt
	}
	return strings.ToLower(v)
}
