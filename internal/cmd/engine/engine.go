// Package engine parses engine command flags and starts the narrative
// engine service.
package engine

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/louisbranch/arc-engine/internal/arc"
	"github.com/louisbranch/arc-engine/internal/engine/generation"
	entrypoint "github.com/louisbranch/arc-engine/internal/platform/cmd"
	server "github.com/louisbranch/arc-engine/internal/services/engine/app"
)

// Config holds engine command configuration.
type Config struct {
	Port int    `env:"ARC_ENGINE_PORT" envDefault:"8080"`
	Addr string `env:"ARC_ENGINE_ADDR"`

	OpenAIKey   string `env:"ARC_ENGINE_OPENAI_API_KEY"`
	OpenAIModel string `env:"ARC_ENGINE_OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIURL   string `env:"ARC_ENGINE_OPENAI_URL"`

	DBPath      string        `env:"ARC_ENGINE_DB_PATH" envDefault:"data/engine.db"`
	BudgetTotal int           `env:"ARC_ENGINE_BUDGET_TOTAL" envDefault:"200"`
	InvokeTime  time.Duration `env:"ARC_ENGINE_INVOKE_TIMEOUT" envDefault:"30s"`
	IdleAfter   time.Duration `env:"ARC_ENGINE_IDLE_TIMEOUT" envDefault:"2h"`

	// WildcardOdds overrides the per-phase wildcard interjection chance,
	// keyed by phase name, e.g. "rising:0.2,climax:0.3".
	WildcardOdds map[string]float64 `env:"ARC_ENGINE_WILDCARD_ODDS"`
}

// wildcardOdds validates the configured phase names and converts them to
// the router's phase-keyed table.
func (c Config) wildcardOdds() (map[arc.Phase]float64, error) {
	if len(c.WildcardOdds) == 0 {
		return nil, nil
	}
	odds := make(map[arc.Phase]float64, len(c.WildcardOdds))
	for name, chance := range c.WildcardOdds {
		phase := arc.Phase(name)
		if !phase.IsNarrative() {
			return nil, fmt.Errorf("unknown narrative phase %q in wildcard odds", name)
		}
		if chance < 0 || chance > 1 {
			return nil, fmt.Errorf("wildcard chance for %q must be within [0, 1]", name)
		}
		odds[phase] = chance
	}
	return odds, nil
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The engine server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The engine server listen address (overrides -port)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the session archive database")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the narrative engine service.
func Run(ctx context.Context, cfg Config) error {
	odds, err := cfg.wildcardOdds()
	if err != nil {
		return err
	}
	invoker := generation.NewOpenAIInvoker(generation.OpenAIConfig{
		APIKey:       cfg.OpenAIKey,
		Model:        cfg.OpenAIModel,
		ResponsesURL: cfg.OpenAIURL,
	})
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceEngine, func(runCtx context.Context) error {
		return server.Run(runCtx, server.Config{
			Port:          cfg.Port,
			Addr:          cfg.Addr,
			Invoker:       invoker,
			ArchivePath:   cfg.DBPath,
			BudgetTotal:   cfg.BudgetTotal,
			InvokeTimeout: cfg.InvokeTime,
			IdleAfter:     cfg.IdleAfter,
			WildcardOdds:  odds,
		})
	})
}
