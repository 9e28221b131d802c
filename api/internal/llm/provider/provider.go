// Package provider builds the single model engine used by the process.
package provider

import (
	"go.uber.org/zap"

	"food-lens/api/internal/llm"
	"food-lens/api/internal/llm/gemini"
	"food-lens/api/internal/llm/openai"
)

type Settings struct {
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	GoogleAPIKey  string
	GeminiModel   string
}

// New selects the backend once; without credentials it returns llm.Unconfigured so that
// the process starts and every model call fails with llm.ErrNoBackend.
func New(s Settings, log *zap.Logger) (llm.Engine, llm.Backend) {
	backend := llm.SelectBackend(llm.Credentials{OpenAIAPIKey: s.OpenAIAPIKey, GoogleAPIKey: s.GoogleAPIKey})

	var eng llm.Engine
	switch backend {
	case llm.BackendOpenAI:
		eng = openai.New(s.OpenAIAPIKey, s.OpenAIModel, s.OpenAIBaseURL)
	case llm.BackendGemini:
		eng = gemini.New(s.GoogleAPIKey, s.GeminiModel)
	default:
		log.Warn("no model credentials found; model requests will fail",
			zap.Bool("openai_key_present", false),
			zap.Bool("google_key_present", false))
		return llm.Unconfigured{}, backend
	}
	log.Info("model backend selected",
		zap.String("backend", string(backend)),
		zap.String("model", eng.GetModel()))
	return eng, backend
}
