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

type Identifier struct {
	engine llm.Engine
	prep   *imageprep.Processor
	policy ErrorPolicy
	log    *zap.Logger
}

func NewIdentifier(engine llm.Engine, prep *imageprep.Processor, policy ErrorPolicy, log *zap.Logger) *Identifier {
	if policy == "" {
		policy = FailLoud
	}
	return &Identifier{engine: engine, prep: prep, policy: policy, log: log}
}

// Identify asks for the final match verdict over a previously approved image set.
func (s *Identifier) Identify(ctx context.Context, images []Image, name, description string) (Analysis, error) {
	a, err := s.analyse(ctx, images, name, description)
	if err == nil {
		return a, nil
	}
	if errors.Is(err, llm.ErrNoBackend) || s.policy == FailLoud {
		return Analysis{}, err
	}

	s.log.Error("identification failed, returning no-match",
		zap.Int("images", len(images)),
		zap.String("item", name),
		zap.Error(err))
	return Analysis{Status: "error", Data: AnalysisData{IsMatch: false, Confidence: 0, Analysis: ReasonSystemError}}, nil
}

func (s *Identifier) analyse(ctx context.Context, images []Image, name, description string) (Analysis, error) {
	uris, err := s.prep.PrepareAll(ctx, datas(images))
	if err != nil {
		return Analysis{}, err
	}

	parts := make([]llm.Part, 0, len(uris)+1)
	parts = append(parts, llm.Text(identifyUserText(len(uris), name, description)))
	for _, uri := range uris {
		parts = append(parts, llm.Image(uri))
	}

	raw, err := s.engine.Invoke(ctx, identifySystemPrompt(), parts)
	if err != nil {
		return Analysis{}, err
	}
	s.log.Debug("identification raw response", zap.String("engine", s.engine.Name()), zap.String("raw", util.Truncate(raw, 2000)))

	return parseAnalysis(raw)
}

func parseAnalysis(raw string) (Analysis, error) {
	txt := util.StripCodeFences(raw)

	var a struct {
		Status string        `json:"status"`
		Data   *AnalysisData `json:"data"`
	}
	if err := json.Unmarshal([]byte(txt), &a); err != nil {
		return Analysis{}, fmt.Errorf("%w: %v (raw=%q)", ErrResponseParse, err, util.Truncate(txt, 200))
	}
	if a.Data == nil {
		return Analysis{}, fmt.Errorf(`%w: missing "data" (raw=%q)`, ErrResponseParse, util.Truncate(txt, 200))
	}

	out := Analysis{Status: strings.TrimSpace(a.Status), Data: *a.Data}
	if out.Status == "" {
		out.Status = "success"
	}
	switch {
	case out.Data.Confidence < 0:
		out.Data.Confidence = 0
	case out.Data.Confidence > 1:
		out.Data.Confidence = 1
	}
	return out, nil
}
