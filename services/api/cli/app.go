package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hyderaqi/hyderaqi/services/api/assistant"
	"github.com/hyderaqi/hyderaqi/services/api/config"
	"github.com/hyderaqi/hyderaqi/services/api/db"
	"github.com/hyderaqi/hyderaqi/services/api/gemini"
	"github.com/hyderaqi/hyderaqi/services/api/history"
	"github.com/hyderaqi/hyderaqi/services/api/insights"
	"github.com/hyderaqi/hyderaqi/services/api/logging"
	"github.com/hyderaqi/hyderaqi/services/api/registry"
	"github.com/hyderaqi/hyderaqi/services/api/resolver"
)

// app is the wired set of services shared by the commands.
type app struct {
	cfg       config.Config
	logger    *slog.Logger
	store     *db.Store
	registry  *registry.Registry
	history   *history.Generator
	model     *gemini.Client
	resolver  *resolver.Pipeline
	insights  *insights.Requester
	assistant *assistant.Assistant
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	logger := logging.New(cfg, Version)
	slog.SetDefault(logger)

	a := &app{cfg: cfg, logger: logger, history: history.NewGenerator()}

	if cfg.DatabaseURL != "" {
		store, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("db: %w", err)
		}
		a.store = store
		a.registry, err = store.LoadRegistry(ctx, time.Now())
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("load registry: %w", err)
		}
	} else {
		a.registry = registry.Default(time.Now())
	}

	a.model, err = gemini.New(ctx, gemini.Options{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		Timeout: cfg.ModelTimeout,
		BaseURL: cfg.GeminiBaseURL,
	})
	if err != nil {
		a.close()
		return nil, err
	}
	if !a.model.Configured() {
		logger.Warn("GEMINI_API_KEY is not set; live search, insights and chat will return fallbacks")
	}

	a.resolver = resolver.New(a.model, a.model, resolver.Config{
		StageTimeout: cfg.ModelTimeout,
		Logger:       logger.With("component", "resolver"),
	})
	a.insights = insights.NewRequester(a.model, cfg.InsightTemperature, cfg.ModelTimeout, logger.With("component", "insights"))
	a.assistant = assistant.New(chatStarter(a.model), cfg.ModelTimeout, logger.With("component", "assistant"))

	logger.Info("services ready",
		"model", a.model.Model(),
		"locations", a.registry.Len(),
		"postgres", a.store != nil,
	)
	return a, nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
}

func chatStarter(model *gemini.Client) assistant.Starter {
	return assistant.StarterFunc(func(ctx context.Context, systemInstruction string) (assistant.Conversation, error) {
		chat, err := model.StartChat(ctx, systemInstruction)
		if err != nil {
			return nil, err
		}
		return chat, nil
	})
}
