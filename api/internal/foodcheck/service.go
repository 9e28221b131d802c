package foodcheck

import "context"

// Service bundles both checks for in-process callers such as the Telegram front-end.
type Service struct {
	Validator  *Validator
	Identifier *Identifier
}

func (s *Service) Validate(ctx context.Context, name, description string, images []Image) ([]Verdict, error) {
	res, err := s.Validator.Validate(ctx, images, name, description)
	if err != nil {
		return nil, err
	}
	return res.Results, nil
}

func (s *Service) Identify(ctx context.Context, name, description string, images []Image) (Analysis, error) {
	return s.Identifier.Identify(ctx, images, name, description)
}
