package llm

import "strings"

type Backend string

const (
	BackendNone   Backend = "none"
	BackendOpenAI Backend = "openai"
	BackendGemini Backend = "gemini"
)

// Credentials holds the two recognised provider secrets.
type Credentials struct {
	OpenAIAPIKey string
	GoogleAPIKey string
}

// SelectBackend applies the fixed precedence: OpenAI, then Gemini, then none.
// A key counts as present when it is non-empty after trimming whitespace.
func SelectBackend(c Credentials) Backend {
	switch {
	case strings.TrimSpace(c.OpenAIAPIKey) != "":
		return BackendOpenAI
	case strings.TrimSpace(c.GoogleAPIKey) != "":
		return BackendGemini
	default:
		return BackendNone
	}
}
