package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Part is one element of the user message: either text or an image data URI.
type Part struct {
	Text         string
	ImageDataURI string
}

func Text(s string) Part      { return Part{Text: s} }
func Image(dataURI string) Part { return Part{ImageDataURI: dataURI} }

func (p Part) IsImage() bool { return p.ImageDataURI != "" }

// Engine sends one system + user message to a hosted multimodal model and returns its raw text.
// Implementations perform exactly one provider call per Invoke and do not retry.
type Engine interface {
	Name() string
	GetModel() string
	Invoke(ctx context.Context, system string, parts []Part) (string, error)
}

// ErrNoBackend is returned when neither provider credential is configured.
var ErrNoBackend = errors.New("no model backend configured: set OPENAI_API_KEY or GOOGLE_API_KEY")

// TransportError wraps a network or provider failure.
type TransportError struct {
	Backend    string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: http %d: %s", e.Backend, e.StatusCode, strings.TrimSpace(e.Body))
	}
	return fmt.Sprintf("%s: %v", e.Backend, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Unconfigured is the engine used when no credential is present; every call fails with ErrNoBackend.
type Unconfigured struct{}

func (Unconfigured) Name() string     { return "none" }
func (Unconfigured) GetModel() string { return "" }
func (Unconfigured) Invoke(context.Context, string, []Part) (string, error) {
	return "", ErrNoBackend
}
