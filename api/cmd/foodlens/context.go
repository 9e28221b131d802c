package main

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"food-lens/api/internal/config"
	"food-lens/api/internal/foodcheck"
	"food-lens/api/internal/imageprep"
	"food-lens/api/internal/llm"
	"food-lens/api/internal/llm/provider"
	"food-lens/api/internal/logging"
	"food-lens/api/internal/store"
)

// appContext lazily loads what the server-side commands share.
type appContext struct {
	cfg *config.Config
	log *zap.Logger
}

func (a *appContext) ensure() error {
	if a.cfg != nil {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, log
	return nil
}

type services struct {
	engine     llm.Engine
	validator  *foodcheck.Validator
	identifier *foodcheck.Identifier
}

func (a *appContext) services() (*services, error) {
	cfg := a.cfg
	valPolicy, err := foodcheck.ParsePolicy(cfg.ValidationOnError)
	if err != nil {
		return nil, fmt.Errorf("VALIDATION_ON_ERROR: %w", err)
	}
	idPolicy, err := foodcheck.ParsePolicy(cfg.IdentificationOnError)
	if err != nil {
		return nil, fmt.Errorf("IDENTIFICATION_ON_ERROR: %w", err)
	}

	eng, _ := provider.New(provider.Settings{
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIModel:   cfg.OpenAIModel,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		GoogleAPIKey:  cfg.GoogleAPIKey,
		GeminiModel:   cfg.GeminiModel,
	}, a.log)
	prep := imageprep.New(cfg.ImageMaxWidth, cfg.ImageQuality)

	return &services{
		engine:     eng,
		validator:  foodcheck.NewValidator(eng, prep, valPolicy, a.log),
		identifier: foodcheck.NewIdentifier(eng, prep, idPolicy, a.log),
	}, nil
}

// journal opens the Postgres journal when DATABASE_URL is set; otherwise it returns nils.
func (a *appContext) journal(ctx context.Context) (*store.JournalRepo, *sql.DB, error) {
	if a.cfg.DatabaseURL == "" {
		return nil, nil, nil
	}
	db, err := store.Open(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	repo := store.NewJournalRepo(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	a.log.Info("journal enabled", zap.String("db", store.SafeDSNSummary(a.cfg.DatabaseURL)))
	return repo, db, nil
}
