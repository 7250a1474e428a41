package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/refnexus/refnexus/internal/auth"
	"github.com/refnexus/refnexus/internal/config"
	"github.com/refnexus/refnexus/internal/ingest"
	"github.com/refnexus/refnexus/internal/match"
	"github.com/refnexus/refnexus/internal/referee"
	"github.com/refnexus/refnexus/internal/server"
	"github.com/refnexus/refnexus/internal/store"
	"github.com/refnexus/refnexus/pkg/anthropic"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "refnexus",
	Short: "Referee scheduling marketplace backend",
	Long:  "Serves the league/referee marketplace API: schedule ingestion with LLM fallback, referee matching, assignments, ratings, and notes.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// env bundles the wired services behind the commands.
type env struct {
	Store  store.Store
	Ingest *ingest.Service
	Match  *match.Engine
	Refs   *referee.Service
	Auth   *auth.Manager
}

func (e *env) Close() {
	if err := e.Store.Close(); err != nil {
		zap.L().Warn("close store", zap.Error(err))
	}
}

// initEnv opens the configured store and wires the services.
func initEnv(ctx context.Context) (*env, error) {
	var st store.Store
	var err error
	switch cfg.Store.Driver {
	case "sqlite":
		st, err = store.NewSQLite(cfg.Store.DatabaseURL)
	default:
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	}
	if err != nil {
		return nil, err
	}

	var llm anthropic.Client
	if cfg.Anthropic.Key != "" {
		llm = anthropic.NewClient(cfg.Anthropic.Key)
	} else {
		zap.L().Warn("no anthropic key configured; LLM features disabled")
	}

	var extractor match.Extractor
	if llm != nil {
		extractor = match.NewExtractor(llm, cfg.Anthropic.Model)
	}

	return &env{
		Store:  st,
		Ingest: ingest.NewService(st, llm, cfg.Anthropic.Model, cfg.Ingest.LLMCharBudget),
		Match:  match.NewEngine(st, extractor, cfg.Match.MaxSuggestions),
		Refs:   referee.NewService(st),
		Auth:   auth.NewManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute),
	}, nil
}

func newServer(e *env) *server.Server {
	return server.New(e.Store, e.Auth, e.Ingest, e.Match, e.Refs, cfg.Server)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
