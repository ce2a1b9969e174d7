// Package archive inspects the session archive database from the
// command line.
package archive

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	entrypoint "github.com/louisbranch/arc-engine/internal/platform/cmd"
	storagesqlite "github.com/louisbranch/arc-engine/internal/services/engine/storage/sqlite"
)

// Config holds archive command configuration.
type Config struct {
	DBPath    string `env:"ARC_ENGINE_DB_PATH" envDefault:"data/engine.db"`
	SessionID string `env:"ARC_ENGINE_ARCHIVE_SESSION"`
	Limit     int    `env:"ARC_ENGINE_ARCHIVE_LIMIT" envDefault:"20"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the session archive database")
	fs.StringVar(&cfg.SessionID, "id", cfg.SessionID, "Show one archived session with its transcript")
	fs.IntVar(&cfg.Limit, "limit", cfg.Limit, "Maximum sessions to list")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the archive command.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}

	store, err := storagesqlite.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if cfg.SessionID != "" {
		return showSession(ctx, store, cfg.SessionID, out)
	}
	return listSessions(ctx, store, cfg.Limit, out)
}

func listSessions(ctx context.Context, store *storagesqlite.Store, limit int, out io.Writer) error {
	records, err := store.ListArchivedSessions(ctx, limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tPHASE\tTURNS\tOBJECTIVE\tARCHIVED")
	for _, record := range records {
		objective := "open"
		if record.ObjectiveDone {
			objective = "done"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			record.ID,
			record.ScenarioID,
			record.Phase,
			record.TurnCount,
			objective,
			record.ArchivedAt.Format("2006-01-02 15:04"),
		)
	}
	return w.Flush()
}

func showSession(ctx context.Context, store *storagesqlite.Store, id string, out io.Writer) error {
	record, err := store.GetArchivedSession(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "session %s (%s)\n", record.ID, record.ScenarioID)
	fmt.Fprintf(out, "phase %s after %d turns, budget %d/%d\n",
		record.Phase, record.TurnCount, record.BudgetConsumed, record.BudgetTotal)
	if record.CharacterSummary != "" {
		fmt.Fprintf(out, "protagonist: %s\n", record.CharacterSummary)
	}
	if record.ObjectiveTitle != "" {
		state := "open"
		if record.ObjectiveDone {
			state = "done"
		}
		fmt.Fprintf(out, "objective: %s (%s)\n", record.ObjectiveTitle, state)
	}
	fmt.Fprintln(out)
	for _, exchange := range record.History {
		fmt.Fprintf(out, "%s: %s\n", exchange.Role, exchange.Text)
	}
	return nil
}
