// Package cli implements the kinai CLI commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kinai/kinai/internal/app"
	"github.com/kinai/kinai/internal/assistant"
	"github.com/kinai/kinai/internal/clinic"
	"github.com/kinai/kinai/internal/config"
	"github.com/kinai/kinai/internal/logging"
	"github.com/kinai/kinai/internal/store"
)

var (
	dbPath      string
	backendFlag string
	formatFlag  string
	logLevel    string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "kinai",
	Short: "Clinical records for a physiatry practice",
	Long:  "Patients, sessions and pain evolution for a single practitioner. Local store, single binary.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $KINAI_DB or ~/.kinai/kinai.db)")
	RootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Storage backend: sqlite or redis (default: $KINAI_BACKEND or sqlite)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json, yaml or text")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (default: $KINAI_LOG_LEVEL or warn)")
}

func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		exitErr("load config", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if backendFlag != "" {
		cfg.Backend = backendFlag
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		exitErr("config", err)
	}
	return cfg
}

func newLogger(cfg *config.Config) zerolog.Logger {
	return logging.New(cfg.LogLevel, os.Stderr)
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store.Collections, error) {
	var kv store.KV
	var err error
	switch cfg.Backend {
	case "redis":
		kv, err = store.NewRedisKV(ctx, cfg.RedisAddr, cfg.RedisPrefix)
	default:
		kv, err = store.NewSQLiteKV(cfg.DBPath)
	}
	if err != nil {
		return nil, err
	}
	log.Debug().Str("backend", kv.Backend()).Str("location", kv.Location()).Msg("store opened")
	return store.NewCollections(kv, log), nil
}

// openApp loads the records and wires the assistant. The caller closes the
// returned collections.
func openApp(cmd *cobra.Command) (*app.App, *store.Collections) {
	ctx := cmd.Context()
	cfg := loadConfig()
	log := newLogger(cfg)

	cols, err := openStore(ctx, cfg, log)
	if err != nil {
		exitErr("open store", err)
	}
	patients, sessions := cols.Load(ctx)
	if cols.ReadFailed() {
		log.Warn().Msg("stored records could not be read, changes will not be saved")
	}

	var gen assistant.Generator
	if cfg.AIEnabled() {
		gen = assistant.NewGeminiClient(cfg.GeminiURL, cfg.GeminiKey, cfg.GeminiModel, cfg.AITimeout)
	} else {
		log.Debug().Msg("GEMINI_API_KEY not set, assistant answers with fallbacks")
	}
	ai := assistant.New(gen, log)

	records := clinic.Records{Patients: patients, Sessions: sessions}
	return app.New(records, cols, ai, clinic.DefaultDeps(), log), cols
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
