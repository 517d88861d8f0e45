package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/syllabus/internal/app"
	"github.com/thenoetrevino/syllabus/internal/chain"
	"github.com/thenoetrevino/syllabus/internal/cli/styles"
	"github.com/thenoetrevino/syllabus/internal/config"
	"github.com/thenoetrevino/syllabus/internal/database"
	"github.com/thenoetrevino/syllabus/internal/events"
	"github.com/thenoetrevino/syllabus/internal/logging"
)

type contextKey string

const appKey contextKey = "app"

// CLI represents the CLI application context
type CLI struct {
	App    *app.App // Application container with services
	Config *config.Config
	owned  bool // Close releases App only when this CLI created it
}

// NewCLI loads config, initializes logging and opens the course database
func NewCLI(ctx context.Context) (*CLI, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logging.Init(cfg.Logging.Path, cfg.Logging.Level); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	db, err := database.InitDB(ctx, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	styles.Init(cfg.ColorScheme)

	application := app.New(db,
		app.WithEventPublisher(events.NewBroker(cfg.Events.Buffer)),
		app.WithLogger(logging.Logger),
		app.WithCollection(cfg.Ordering.Collection),
		app.WithWatchInterval(cfg.Events.WatchInterval),
		app.WithChainOptions(
			chain.WithTraversalSlack(*cfg.Ordering.TraversalSlack),
			chain.WithLegacySync(cfg.Ordering.SyncLegacyIndex),
		),
	)

	return &CLI{App: application, Config: cfg, owned: true}, nil
}

// WithApp returns a context carrying an already constructed App.
// Commands run against it instead of opening the configured database.
func WithApp(ctx context.Context, a *app.App) context.Context {
	return context.WithValue(ctx, appKey, a)
}

// GetCLIFromContext returns a CLI for the App stored in ctx, or a new one
func GetCLIFromContext(ctx context.Context) (*CLI, error) {
	if a, ok := ctx.Value(appKey).(*app.App); ok && a != nil {
		styles.Init(config.Default().ColorScheme)
		return &CLI{App: a, Config: config.Default()}, nil
	}
	return NewCLI(ctx)
}

// Close cleans up CLI resources
func (c *CLI) Close() error {
	if !c.owned {
		return nil
	}
	return c.App.Close()
}

// Open initializes the CLI for a command, reporting failures through formatter
func Open(ctx context.Context, formatter *OutputFormatter) (*CLI, error) {
	cliInstance, err := GetCLIFromContext(ctx)
	if err != nil {
		if fmtErr := formatter.Error("INITIALIZATION_ERROR", err.Error()); fmtErr != nil {
			slog.Error("Error formatting error message", "error", fmtErr)
		}
		return nil, &CommandError{Code: ExitError, Err: err}
	}
	return cliInstance, nil
}

// CloseQuietly closes c, logging any error
func CloseQuietly(c *CLI) {
	if err := c.Close(); err != nil {
		slog.Error("Error closing CLI", "error", err)
	}
}

// FormatterFor builds an OutputFormatter from the --json and --quiet flags
func FormatterFor(cmd *cobra.Command) *OutputFormatter {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	return &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}
}

// AddOutputFlags registers the agent-friendly output flags
func AddOutputFlags(cmd *cobra.Command, quietHelp string) {
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, quietHelp)
}
