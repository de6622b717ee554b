package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/batch"
	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/config"
	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/evaluate"
	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/lexicon"
	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/logging"
	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/scan"
	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/storage"
	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/verify"
)

// App wires the long-lived components: configuration, logger, both stores
// and the evaluation pipeline. Commands receive a fully constructed App.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Store     *storage.Store
	Alternate *storage.AlternateStore
	Lexicon   *lexicon.Lexicon
	Scanner   *scan.Scanner
	Verifier  *verify.Verifier
	Evaluator *evaluate.Evaluator
	Runner    *batch.Runner
}

// New initializes the application from the given config file path (empty
// for defaults plus environment).
func New(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	lex := lexicon.Default()
	if cfg.LexiconPath != "" {
		lex, err = lexicon.Load(cfg.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load lexicon: %w", err)
		}
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open primary store", zap.Error(err))
		return nil, err
	}

	alternate, err := storage.OpenAlternate(cfg.AlternateDBPath)
	if err != nil {
		logger.Error("failed to open alternate store", zap.Error(err))
		store.Close()
		return nil, err
	}

	scanner := scan.NewScanner(lex, cfg.EndOfCallWindow, cfg.ContextRadius)
	verifier := verify.NewVerifier(alternate, scanner, cfg.AgentMarker, logger)
	evaluator := evaluate.New(scanner, verifier, cfg.AgentMarker, cfg.MaxScore, logger)
	runner := batch.NewRunner(store, evaluator, logger)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		Alternate: alternate,
		Lexicon:   lex,
		Scanner:   scanner,
		Verifier:  verifier,
		Evaluator: evaluator,
		Runner:    runner,
	}, nil
}

// Close releases the stores and flushes the logger.
func (a *App) Close() {
	if a.Alternate != nil {
		if err := a.Alternate.Close(); err != nil {
			a.Logger.Error("failed to close alternate store", zap.Error(err))
		}
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Logger.Error("failed to close primary store", zap.Error(err))
		}
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
}
