// Package gemini is the generation client: it turns a logo or an existing
// mockup plus an instruction into a new mockup image via Gemini.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"merchmagic/internal/domain"
	"merchmagic/internal/imagecodec"
	"merchmagic/internal/infra"
)

const (
	// DefaultModel is the image-capable Gemini model used for mockups.
	DefaultModel = "gemini-2.5-flash-image"
	// AspectRatio requested for every mockup.
	AspectRatio = "1:1"
)

var (
	ErrEmptyPayload     = fmt.Errorf("%w: image payload is empty", domain.ErrInvalidImage)
	ErrEmptyInstruction = fmt.Errorf("%w: instruction is empty", domain.ErrInstructionRequired)
)

// ContentGenerator is the slice of the genai SDK the client needs. *genai.Models
// satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client issues one-shot, stateless generate and edit calls. No retry is
// performed and no local timeout is applied.
type Client struct {
	models ContentGenerator
	model  string
	logger *infra.Logger
}

// NewClient builds a client backed by the Gemini API. A missing API key is an
// initialization error: the caller decides whether that is fatal.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	key := strings.TrimSpace(opts.APIKey)
	if key == "" {
		return nil, fmt.Errorf("%w: gemini api key is missing", domain.ErrInitialization)
	}
	cfg := &genai.ClientConfig{
		APIKey:     key,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}
	sdk, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInitialization, err)
	}
	return NewClientWithGenerator(sdk.Models, opts.Model, opts.Logger), nil
}

// NewClientWithGenerator wires an explicit content generator.
func NewClientWithGenerator(models ContentGenerator, model string, logger *infra.Logger) *Client {
	model = strings.TrimPrefix(strings.TrimSpace(model), "models/")
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = infra.NopLogger()
	}
	return &Client{models: models, model: model, logger: logger}
}

// Model returns the configured Gemini model identifier.
func (c *Client) Model() string {
	return c.model
}

// GenerateMockup composites logo onto the product described by templatePrompt.
// Failures are returned as *domain.GenerationError.
func (c *Client) GenerateMockup(ctx context.Context, logo imagecodec.Payload, templatePrompt string) (imagecodec.Payload, error) {
	if logo.IsZero() {
		return imagecodec.Payload{}, domain.NewGenerationError(ErrEmptyPayload)
	}
	if strings.TrimSpace(templatePrompt) == "" {
		return imagecodec.Payload{}, domain.NewGenerationError(ErrEmptyInstruction)
	}
	out, err := c.invoke(ctx, domain.OperationGenerate, logo, BuildGenerateInstruction(templatePrompt))
	if err != nil {
		return imagecodec.Payload{}, domain.NewGenerationError(err)
	}
	return out, nil
}

// EditMockup applies editPrompt to the current artifact. Failures are returned
// as *domain.GenerationError with the edit operation.
func (c *Client) EditMockup(ctx context.Context, current imagecodec.Payload, editPrompt string) (imagecodec.Payload, error) {
	if current.IsZero() {
		return imagecodec.Payload{}, domain.NewEditError(ErrEmptyPayload)
	}
	if strings.TrimSpace(editPrompt) == "" {
		return imagecodec.Payload{}, domain.NewEditError(ErrEmptyInstruction)
	}
	out, err := c.invoke(ctx, domain.OperationEdit, current, BuildEditInstruction(editPrompt))
	if err != nil {
		return imagecodec.Payload{}, domain.NewEditError(err)
	}
	return out, nil
}

func (c *Client) invoke(ctx context.Context, op domain.Operation, img imagecodec.Payload, instruction string) (imagecodec.Payload, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(img.Data, img.Type()),
			genai.NewPartFromText(instruction),
		}, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{AspectRatio: AspectRatio},
	}

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("model", c.model).
			Str("operation", string(op)).
			Msg("gemini: request failed")
		return imagecodec.Payload{}, err
	}

	out, ok := firstImage(resp)
	if !ok {
		c.logger.Warn().
			Str("model", c.model).
			Str("operation", string(op)).
			Msg("gemini: response carried no image part")
		return imagecodec.Payload{}, domain.ErrNoImage
	}

	c.logger.Debug().
		Str("model", c.model).
		Str("operation", string(op)).
		Str("mime_type", out.MIMEType).
		Int("bytes", len(out.Data)).
		Dur("elapsed", time.Since(start)).
		Msg("gemini: received mockup image")
	return out, nil
}

// firstImage returns the first inline image part of the first candidate.
// Later candidates are ignored.
func firstImage(resp *genai.GenerateContentResponse) (imagecodec.Payload, bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return imagecodec.Payload{}, false
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return imagecodec.Payload{}, false
	}
	for _, part := range candidate.Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		return imagecodec.New(part.InlineData.Data, part.InlineData.MIMEType), true
	}
	return imagecodec.Payload{}, false
}
