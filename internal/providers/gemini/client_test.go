package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"merchmagic/internal/catalog"
	"merchmagic/internal/domain"
	"merchmagic/internal/imagecodec"
)

type fakeModels struct {
	calls    int
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	resp     *genai.GenerateContentResponse
	err      error
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model = model
	f.contents = contents
	f.config = config
	return f.resp, f.err
}

func imageResponse(data []byte, mime string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role: genai.RoleModel,
				Parts: []*genai.Part{
					genai.NewPartFromText("here is your mockup"),
					{InlineData: &genai.Blob{Data: data, MIMEType: mime}},
				},
			},
		}},
	}
}

func textOnlyResponse() *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{genai.NewPartFromText("sorry")}},
		}},
	}
}

func TestGenerateMockupSendsLogoAndTemplatePrompt(t *testing.T) {
	logo := imagecodec.Payload{Data: []byte("logo-bytes"), MIMEType: "image/png"}
	fake := &fakeModels{resp: imageResponse([]byte("mockup-bytes"), "image/png")}
	client := NewClientWithGenerator(fake, "", nil)
	tshirt, ok := catalog.Lookup("tshirt")
	require.True(t, ok)

	out, err := client.GenerateMockup(context.Background(), logo, tshirt.BasePrompt)
	require.NoError(t, err)
	require.Equal(t, []byte("mockup-bytes"), out.Data)
	require.Equal(t, "image/png", out.MIMEType)

	require.Equal(t, 1, fake.calls)
	require.Equal(t, DefaultModel, fake.model)
	require.Len(t, fake.contents, 1)
	parts := fake.contents[0].Parts
	require.Len(t, parts, 2)
	require.Equal(t, logo.Data, parts[0].InlineData.Data)
	require.Equal(t, "image/png", parts[0].InlineData.MIMEType)
	require.Contains(t, parts[1].Text, tshirt.BasePrompt)
	require.Contains(t, parts[1].Text, "correct perspective and lighting")
	require.NotNil(t, fake.config.ImageConfig)
	require.Equal(t, "1:1", fake.config.ImageConfig.AspectRatio)
}

func TestEditMockupSendsCurrentArtifact(t *testing.T) {
	current := imagecodec.Payload{Data: []byte("artifact-A"), MIMEType: "image/png"}
	fake := &fakeModels{resp: imageResponse([]byte("artifact-B"), "image/png")}
	client := NewClientWithGenerator(fake, "models/custom-image", nil)

	out, err := client.EditMockup(context.Background(), current, "Add a retro vintage filter")
	require.NoError(t, err)
	require.Equal(t, []byte("artifact-B"), out.Data)
	require.Equal(t, "custom-image", fake.model)

	parts := fake.contents[0].Parts
	require.Equal(t, current.Data, parts[0].InlineData.Data)
	require.Equal(t, BuildEditInstruction("Add a retro vintage filter"), parts[1].Text)
	require.Contains(t, parts[1].Text, "Maintain the core product and logo")
}

func TestNoImageReturnsTypedError(t *testing.T) {
	fake := &fakeModels{resp: textOnlyResponse()}
	client := NewClientWithGenerator(fake, "", nil)
	payload := imagecodec.Payload{Data: []byte("x"), MIMEType: "image/png"}

	_, err := client.GenerateMockup(context.Background(), payload, "prompt")
	var genErr *domain.GenerationError
	require.ErrorAs(t, err, &genErr)
	require.False(t, genErr.IsEdit())
	require.ErrorIs(t, err, domain.ErrNoImage)

	_, err = client.EditMockup(context.Background(), payload, "change it")
	require.ErrorAs(t, err, &genErr)
	require.True(t, genErr.IsEdit())
	require.ErrorIs(t, err, domain.ErrNoImage)
}

func TestTransportFailureIsSurfacedWithoutRetry(t *testing.T) {
	quota := errors.New("quota exceeded")
	fake := &fakeModels{err: quota}
	client := NewClientWithGenerator(fake, "", nil)

	_, err := client.GenerateMockup(context.Background(), imagecodec.Payload{Data: []byte("x")}, "prompt")
	require.ErrorIs(t, err, quota)
	require.Equal(t, 1, fake.calls)
}

func TestEmptyInputsAreRejectedBeforeCalling(t *testing.T) {
	fake := &fakeModels{}
	client := NewClientWithGenerator(fake, "", nil)

	_, err := client.GenerateMockup(context.Background(), imagecodec.Payload{}, "prompt")
	require.ErrorIs(t, err, domain.ErrInvalidImage)
	_, err = client.EditMockup(context.Background(), imagecodec.Payload{Data: []byte("x")}, "   ")
	require.ErrorIs(t, err, domain.ErrInstructionRequired)
	require.Zero(t, fake.calls)
}

func TestFirstImageReadsOnlyFirstCandidate(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
		{Content: &genai.Content{Parts: []*genai.Part{
			{Text: "here is your mockup"},
			{InlineData: &genai.Blob{}},
			{InlineData: &genai.Blob{Data: []byte("first"), MIMEType: "image/webp"}},
		}}},
		{Content: &genai.Content{Parts: []*genai.Part{{InlineData: &genai.Blob{Data: []byte("second"), MIMEType: "image/png"}}}}},
	}}
	out, ok := firstImage(resp)
	require.True(t, ok)
	require.Equal(t, []byte("first"), out.Data)
	require.Equal(t, "image/webp", out.MIMEType)
}

func TestFirstImageIgnoresLaterCandidates(t *testing.T) {
	later := &genai.Candidate{Content: &genai.Content{Parts: []*genai.Part{
		{InlineData: &genai.Blob{Data: []byte("second"), MIMEType: "image/png"}},
	}}}
	cases := map[string]*genai.GenerateContentResponse{
		"nil response":         nil,
		"no candidates":        {},
		"nil first":            {Candidates: []*genai.Candidate{nil, later}},
		"first without body":   {Candidates: []*genai.Candidate{{Content: nil}, later}},
		"first is text only":   {Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{{Text: "sorry"}}}}, later}},
		"first has empty blob": {Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{{InlineData: &genai.Blob{}}}}}, later}},
	}
	for name, resp := range cases {
		_, ok := firstImage(resp)
		require.False(t, ok, name)
	}
}

func TestImageInLaterCandidateIsNoImage(t *testing.T) {
	fake := &fakeModels{resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
		{Content: &genai.Content{Parts: []*genai.Part{{Text: "text only"}}}},
		{Content: &genai.Content{Parts: []*genai.Part{{InlineData: &genai.Blob{Data: []byte("second"), MIMEType: "image/png"}}}}},
	}}}
	client := NewClientWithGenerator(fake, "", nil)

	_, err := client.GenerateMockup(context.Background(), imagecodec.Payload{Data: []byte("logo"), MIMEType: "image/png"}, "prompt")
	require.ErrorIs(t, err, domain.ErrNoImage)
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(context.Background(), Options{APIKey: "  "})
	require.ErrorIs(t, err, domain.ErrInitialization)
}

func TestNewClientTalksToGeminiAPI(t *testing.T) {
	var received struct {
		Contents []struct {
			Parts []struct {
				Text       string `json:"text"`
				InlineData *struct {
					MimeType string `json:"mimeType"`
					Data     string `json:"data"`
				} `json:"inlineData"`
			} `json:"parts"`
		} `json:"contents"`
	}
	var path string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{
					"role": "model",
					"parts": []any{map[string]any{
						"inlineData": map[string]any{
							"mimeType": "image/png",
							"data":     base64.StdEncoding.EncodeToString([]byte("remote-mockup")),
						},
					}},
				},
			}},
		})
	}))
	defer ts.Close()

	client, err := NewClient(context.Background(), Options{APIKey: "test-key", BaseURL: ts.URL, HTTPClient: ts.Client()})
	require.NoError(t, err)

	out, err := client.GenerateMockup(context.Background(), imagecodec.Payload{Data: []byte("logo"), MIMEType: "image/png"}, "A mug")
	require.NoError(t, err)
	require.Equal(t, []byte("remote-mockup"), out.Data)

	require.True(t, strings.HasSuffix(path, DefaultModel+":generateContent"), path)
	require.Len(t, received.Contents, 1)
	require.Len(t, received.Contents[0].Parts, 2)
	require.NotNil(t, received.Contents[0].Parts[0].InlineData)
	require.Equal(t, base64.StdEncoding.EncodeToString([]byte("logo")), received.Contents[0].Parts[0].InlineData.Data)
	require.Contains(t, received.Contents[0].Parts[1].Text, "Prompt: A mug.")
}
