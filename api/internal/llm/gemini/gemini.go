package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"food-lens/api/internal/llm"
	"food-lens/api/internal/util"
)

const defaultModel = "gemini-2.5-flash"

type Engine struct {
	APIKey string
	Model  string
}

func New(apiKey, model string) *Engine {
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	return &Engine{
		APIKey: strings.TrimSpace(apiKey),
		Model:  strings.TrimSpace(model),
	}
}

func (e *Engine) Name() string     { return "gemini" }
func (e *Engine) GetModel() string { return e.Model }

func (e *Engine) Invoke(ctx context.Context, system string, parts []llm.Part) (string, error) {
	if e.APIKey == "" {
		return "", llm.ErrNoBackend
	}
	gparts, err := toParts(parts)
	if err != nil {
		return "", err
	}

	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return "", &llm.TransportError{Backend: e.Name(), Err: err}
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.Model)
	if m == nil {
		return "", fmt.Errorf("gemini: model is nil")
	}
	m.GenerationConfig = genai.GenerationConfig{
		Temperature: ptrFloat32(0.2),
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(system)},
	}

	resp, err := m.GenerateContent(ctx, gparts...)
	if err != nil {
		return "", &llm.TransportError{Backend: e.Name(), Err: err}
	}
	txt := firstText(resp)
	if txt == "" {
		return "", &llm.TransportError{Backend: e.Name(), Err: errors.New("empty response")}
	}
	return strings.TrimSpace(txt), nil
}

// toParts converts text parts to genai.Text and image data URIs to inline blobs.
func toParts(parts []llm.Part) ([]genai.Part, error) {
	out := make([]genai.Part, 0, len(parts))
	for i, p := range parts {
		if !p.IsImage() {
			out = append(out, genai.Text(p.Text))
			continue
		}
		data, mimeFromDataURL, err := util.DecodeBase64MaybeDataURL(p.ImageDataURI)
		if err != nil {
			return nil, fmt.Errorf("gemini: part %d: bad image data URI: %w", i, err)
		}
		out = append(out, genai.Blob{
			MIMEType: util.PickMIME("", mimeFromDataURL, data),
			Data:     data,
		})
	}
	return out, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		var b strings.Builder
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		if b.Len() > 0 {
			return b.String()
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
