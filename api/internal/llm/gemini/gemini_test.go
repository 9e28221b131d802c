package gemini

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-lens/api/internal/llm"
	"food-lens/api/internal/util"
)

func TestToParts(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	parts, err := toParts([]llm.Part{
		llm.Text("look"),
		llm.Image(util.EncodeDataURL("image/jpeg", jpeg)),
	})
	require.NoError(t, err)
	require.Len(t, parts, 2)

	assert.Equal(t, genai.Text("look"), parts[0])
	blob, ok := parts[1].(genai.Blob)
	require.True(t, ok)
	assert.Equal(t, "image/jpeg", blob.MIMEType)
	assert.Equal(t, jpeg, blob.Data)
}

func TestToPartsRejectsBadDataURI(t *testing.T) {
	_, err := toParts([]llm.Part{llm.Image("data:image/png;base64,!!!")})
	assert.Error(t, err)
}

func TestFirstTextJoinsTextParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: nil},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text(`[{"index":0,`), genai.Text(`"isValid":true}]`)}}},
		},
	}
	assert.Equal(t, `[{"index":0,"isValid":true}]`, firstText(resp))
	assert.Equal(t, "", firstText(nil))
}

func TestInvokeWithoutKey(t *testing.T) {
	_, err := New("", "").Invoke(context.Background(), "s", nil)
	assert.ErrorIs(t, err, llm.ErrNoBackend)
	assert.Equal(t, "gemini-2.5-flash", New("k", " ").GetModel())
}
