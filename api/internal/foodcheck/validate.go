package foodcheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"food-lens/api/internal/imageprep"
	"food-lens/api/internal/llm"
	"food-lens/api/internal/util"
)

type Validator struct {
	engine llm.Engine
	prep   *imageprep.Processor
	policy ErrorPolicy
	log    *zap.Logger
}

func NewValidator(engine llm.Engine, prep *imageprep.Processor, policy ErrorPolicy, log *zap.Logger) *Validator {
	if policy == "" {
		policy = FailSafe
	}
	return &Validator{engine: engine, prep: prep, policy: policy, log: log}
}

// Validate judges every image independently with one model call.
// len(result.Results) == len(images) and result.Results[i].Index == i always hold when err is nil.
// Under FailSafe only llm.ErrNoBackend is returned; every other failure rejects all images.
func (v *Validator) Validate(ctx context.Context, images []Image, name, description string) (ValidationResult, error) {
	if len(images) == 0 {
		return ValidationResult{Results: []Verdict{}}, nil
	}

	verdicts, err := v.judge(ctx, images, name, description)
	if err == nil {
		return ValidationResult{Results: verdicts}, nil
	}
	if errors.Is(err, llm.ErrNoBackend) || v.policy == FailLoud {
		return ValidationResult{}, err
	}

	v.log.Error("validation failed, rejecting batch",
		zap.Int("images", len(images)),
		zap.String("item", name),
		zap.Error(err))
	return ValidationResult{Results: rejectAll(len(images), ReasonSystemError)}, nil
}

func (v *Validator) judge(ctx context.Context, images []Image, name, description string) ([]Verdict, error) {
	uris, err := v.prep.PrepareAll(ctx, datas(images))
	if err != nil {
		return nil, err
	}

	parts := make([]llm.Part, 0, len(uris)+1)
	parts = append(parts, llm.Text(validateUserText(len(uris), name, description)))
	for _, uri := range uris {
		parts = append(parts, llm.Image(uri))
	}

	raw, err := v.engine.Invoke(ctx, validateSystemPrompt(), parts)
	if err != nil {
		return nil, err
	}
	v.log.Debug("validation raw response", zap.String("engine", v.engine.Name()), zap.String("raw", util.Truncate(raw, 2000)))

	parsed, err := parseVerdicts(raw)
	if err != nil {
		return nil, err
	}
	return alignVerdicts(parsed, len(images)), nil
}

type rawVerdict struct {
	Index   *int   `json:"index"`
	IsValid bool   `json:"isValid"`
	Reason  string `json:"reason"`
}

// parseVerdicts accepts a bare JSON array or an object with a "results" array.
func parseVerdicts(raw string) ([]rawVerdict, error) {
	txt := util.StripCodeFences(raw)

	var list []rawVerdict
	if err := json.Unmarshal([]byte(txt), &list); err == nil {
		return list, nil
	}
	var wrapped struct {
		Results *[]rawVerdict `json:"results"`
	}
	if err := json.Unmarshal([]byte(txt), &wrapped); err != nil || wrapped.Results == nil {
		if err == nil {
			err = errors.New(`missing "results"`)
		}
		return nil, fmt.Errorf("%w: %v (raw=%q)", ErrResponseParse, err, util.Truncate(txt, 200))
	}
	return *wrapped.Results, nil
}

// alignVerdicts maps the model output onto positions 0..n-1. Entries are placed by index;
// exactly n entries whose indices are not a permutation of 0..n-1 are taken positionally.
// Empty slots are rejected.
func alignVerdicts(parsed []rawVerdict, n int) []Verdict {
	out := make([]Verdict, n)
	filled := make([]bool, n)

	if len(parsed) == n && !indexedPermutation(parsed, n) {
		for i, p := range parsed {
			out[i] = Verdict{Index: i, IsValid: p.IsValid, Reason: reasonOf(p)}
		}
		return out
	}
	for _, p := range parsed {
		if p.Index == nil || *p.Index < 0 || *p.Index >= n || filled[*p.Index] {
			continue
		}
		i := *p.Index
		out[i] = Verdict{Index: i, IsValid: p.IsValid, Reason: reasonOf(p)}
		filled[i] = true
	}
	for i := range out {
		if !filled[i] {
			out[i] = Verdict{Index: i, IsValid: false, Reason: ReasonNoVerdict}
		}
	}
	return out
}

// indexedPermutation reports whether every entry carries a distinct index in [0, n).
func indexedPermutation(parsed []rawVerdict, n int) bool {
	seen := make([]bool, n)
	for _, p := range parsed {
		if p.Index == nil || *p.Index < 0 || *p.Index >= n || seen[*p.Index] {
			return false
		}
		seen[*p.Index] = true
	}
	return true
}

func reasonOf(p rawVerdict) string {
	if r := strings.TrimSpace(p.Reason); r != "" {
		return r
	}
	if p.IsValid {
		return "Approved"
	}
	return "Rejected"
}

func rejectAll(n int, reason string) []Verdict {
	out := make([]Verdict, n)
	for i := range out {
		out[i] = Verdict{Index: i, IsValid: false, Reason: reason}
	}
	return out
}
