package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"faqbot/internal/config"
	"faqbot/internal/corpus"
	"faqbot/internal/dialogue"
	"faqbot/internal/domain"
	"faqbot/internal/handoff"
	"faqbot/internal/llm"
	"faqbot/internal/logger"
	"faqbot/internal/retrieval"
)

// app holds the assembled components shared by every command.
type app struct {
	cfg     *config.AppConfig
	log     *logger.Logger
	store   *corpus.Store
	matcher *retrieval.Matcher
	policy  *dialogue.Policy
	queue   *handoff.SQLiteSink
	closers []func() error
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.log.Sync()
	return errors.Join(errs...)
}

func loadConfig() (*config.AppConfig, error) {
	var (
		cfg *config.AppConfig
		err error
	)
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if corpusPath != "" {
		cfg.Corpus.Path = corpusPath
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// buildApp assembles the components described by cfg. On error everything
// opened so far is closed.
func buildApp(cfg *config.AppConfig) (_ *app, err error) {
	log, err := logger.New(cfg.Logging.Mode, cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return nil, fmt.Errorf("logger init failed: %w", err)
	}
	a := &app{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			log.Error("startup failed", "error", err)
			_ = a.Close()
		}
	}()

	store, err := corpus.Load(cfg.Corpus.Path)
	if err != nil {
		return nil, err
	}
	a.store = store
	threshold := cfg.Retrieval.ThresholdValue()
	a.matcher = retrieval.NewMatcher(store.All(), threshold)
	log.Info("corpus loaded", "path", cfg.Corpus.Path, "records", store.Len(), "threshold", threshold)

	var (
		gen     domain.Generator
		advisor domain.TransferAdvisor
	)
	switch cfg.Generator.Type {
	case "none", "":
		log.Info("running without generator, raw FAQ answers will be returned")
	case "openai":
		if cfg.Generator.OpenAI == nil {
			return nil, errors.New("openai generator config missing")
		}
		client, err := llm.NewClient(llm.Config{
			BaseURL:     cfg.Generator.OpenAI.BaseURL,
			APIKeyEnv:   cfg.Generator.OpenAI.APIKeyEnv,
			Model:       cfg.Generator.OpenAI.Model,
			Timeout:     time.Duration(cfg.Generator.OpenAI.TimeoutSecs) * time.Second,
			Temperature: cfg.Generator.OpenAI.Temperature,
		})
		switch {
		case errors.Is(err, llm.ErrMissingAPIKey):
			log.Warn("generator disabled", "error", err)
		case err != nil:
			return nil, fmt.Errorf("openai generator init failed: %w", err)
		default:
			gen, advisor = client, client
			log.Info("generator ready", "provider", client.Name())
		}
	default:
		return nil, fmt.Errorf("unknown generator: %s", cfg.Generator.Type)
	}

	sinks := handoff.Multi{handoff.NewLogSink(log)}
	switch cfg.Handoff.Type {
	case "log", "":
	case "sqlite":
		if cfg.Handoff.SQLite == nil {
			return nil, errors.New("sqlite handoff config missing")
		}
		queue, err := handoff.OpenSQLite(cfg.Handoff.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("handoff queue init failed: %w", err)
		}
		a.queue = queue
		a.closers = append(a.closers, queue.Close)
		sinks = append(sinks, queue)
	default:
		return nil, fmt.Errorf("unknown handoff sink: %s", cfg.Handoff.Type)
	}

	a.policy = dialogue.New(a.matcher, gen, advisor, sinks, dialogue.Config{
		CompanyName:       cfg.Dialogue.CompanyName,
		AgentContextLimit: cfg.Dialogue.AgentContextLimit,
	}, log)
	return a, nil
}

func setup() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return buildApp(cfg)
}

// chatLogFile is where `faqbot chat` logs when logging.file is unset, since
// the terminal belongs to the chat UI.
func chatLogFile() string {
	return filepath.Join(os.TempDir(), "faqbot-chat.log")
}

// setupChat builds the app with logging moved off the terminal.
func setupChat() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Logging.File == "" {
		cfg.Logging.File = chatLogFile()
	}
	return buildApp(cfg)
}
