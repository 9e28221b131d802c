package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadPrompt returns <PROMPT_DIR>/<name>.<kind>.txt when the file exists and is not empty,
// otherwise the built-in fallback.
func LoadPrompt(name, kind, fallback string) string {
	baseRoot := strings.TrimSpace(os.Getenv("PROMPT_DIR"))
	if baseRoot == "" {
		return fallback
	}
	p := filepath.Join(baseRoot, fmt.Sprintf("%s.%s.txt", name, kind))
	if b, err := os.ReadFile(p); err == nil && len(strings.TrimSpace(string(b))) > 0 {
		return strings.TrimSpace(string(b))
	}
	return fallback
}
