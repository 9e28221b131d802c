// Package foodcheck asks the model to validate and identify food photos against a claimed dish.
package foodcheck

import (
	"errors"
	"fmt"
	"strings"
)

// Image is one uploaded photo.
type Image struct {
	Name string
	MIME string
	Data []byte
}

// Verdict is the model's decision for the image at Index of the submitted batch.
type Verdict struct {
	Index   int    `json:"index"`
	IsValid bool   `json:"isValid"`
	Reason  string `json:"reason"`
}

type ValidationResult struct {
	Results []Verdict `json:"results"`
}

type AnalysisData struct {
	IsMatch    bool    `json:"isMatch"`
	Confidence float64 `json:"confidence"`
	Analysis   string  `json:"analysis"`
}

// Analysis is the final identification verdict.
type Analysis struct {
	Status string       `json:"status"`
	Data   AnalysisData `json:"data"`
}

const (
	ReasonSystemError = "System Error"
	ReasonNoVerdict   = "No verdict returned"
)

// ErrResponseParse is wrapped around every failure to read the model output as the expected JSON.
var ErrResponseParse = errors.New("model response is not valid JSON")

// ErrorPolicy decides what a service does when preprocessing, the model call or parsing fails.
type ErrorPolicy string

const (
	// FailSafe turns the failure into a conservative result (everything rejected / no match).
	FailSafe ErrorPolicy = "fail-safe"
	// FailLoud returns the error to the caller.
	FailLoud ErrorPolicy = "fail-loud"
)

func ParsePolicy(s string) (ErrorPolicy, error) {
	switch ErrorPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case FailSafe:
		return FailSafe, nil
	case FailLoud:
		return FailLoud, nil
	default:
		return "", fmt.Errorf("unknown error policy %q (want %q or %q)", s, FailSafe, FailLoud)
	}
}

func datas(images []Image) [][]byte {
	out := make([][]byte, len(images))
	for i, img := range images {
		out[i] = img.Data
	}
	return out
}
