package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tagstream/internal/repositories"
	"github.com/desertthunder/tagstream/internal/services"
	"github.com/desertthunder/tagstream/internal/shared"
	"github.com/desertthunder/tagstream/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The catalog client, player sink, and history database are built on first use from the loaded config.
type Runner struct {
	config     *shared.Config
	configPath string
	catalog    services.Catalog
	sink       tasks.Sink
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	db         *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    services.Catalog
	Sink       tasks.Sink
	HTTPClient *http.Client // nil lets the catalog build a client honoring node.timeout_seconds
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		catalog:    opts.Catalog,
		sink:       opts.Sink,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		searchCommand, listCommand, playCommand, uploadCommand, tuiCommand, historyCommand, setupCommand, nodeCommand, apiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the config file named by --config (defaults when it does not exist),
// applies .env and TAGSTREAM_* overrides, and validates the result.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")

	config := shared.DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		if config, err = shared.LoadConfig(path); err != nil {
			return ctx, err
		}
	} else {
		r.logger.Debug("config file not found, using defaults", "path", path)
	}

	if err := shared.ApplyEnv(config, ".env"); err != nil {
		return ctx, err
	}
	if err := config.Validate(); err != nil {
		return ctx, err
	}

	r.config = config
	r.configPath = path
	shared.SetLogLevel(r.logger, config.Log.ParsedLevel())
	return ctx, nil
}

// SetLogger replaces the logger used by subsequently built dependencies.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// catalogClient returns the configured catalog, building a [services.NodeCatalog] on first use.
func (r *Runner) catalogClient() (services.Catalog, error) {
	if r.catalog != nil {
		return r.catalog, nil
	}

	variant, err := services.ParseVariant(r.config.Node.Variant)
	if err != nil {
		return nil, err
	}

	r.catalog = services.NewNodeCatalog(services.CatalogOpts{
		BaseURL:           r.config.Node.CatalogURL(),
		Variant:           variant,
		HTTPClient:        r.httpClient,
		Timeout:           r.config.Node.Timeout(),
		RequestsPerSecond: r.config.Node.RequestsPerSecond,
	})
	r.logger.Debug("catalog client ready", "url", r.config.Node.CatalogURL(), "variant", variant)
	return r.catalog, nil
}

// playerSink returns the configured sink. noAudio selects a sink that only records the source.
// An empty player.command hands streams to the platform's default application.
func (r *Runner) playerSink(noAudio bool) tasks.Sink {
	if noAudio {
		return &tasks.NopSink{}
	}
	if r.sink != nil {
		return r.sink
	}
	if len(r.config.Player.Command) == 0 {
		r.logger.Debug("no player command, using the system opener")
		r.sink = tasks.NewOpenSink(r.logger)
	} else {
		r.sink = tasks.NewExecSink(r.config.Player.Command, r.logger)
	}
	return r.sink
}

// history opens the history database once. Callers treat an error as "history disabled".
func (r *Runner) history() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}
	db, err := shared.OpenHistory(r.config.Database)
	if err != nil {
		return nil, err
	}
	r.db = db
	return db, nil
}

// Close releases the history database.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// newSession builds a playback session that records plays when history is available.
func (r *Runner) newSession(catalog services.Catalog, noAudio bool) *tasks.Session {
	session := tasks.NewSession(catalog, r.playerSink(noAudio), r.logger)
	if db, err := r.history(); err != nil {
		r.logger.Warn("play history disabled", "error", err)
	} else {
		session.SetRecorder(repositories.NewPlayRepository(db))
	}
	return session
}

// warnDisconnected logs a warning when no node identity is configured.
func (r *Runner) warnDisconnected() {
	if !r.config.Node.Connected() {
		r.logger.Warn(shared.ErrNotConnected.Error(), "hint", "set node.id and node.process")
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeBytes(b []byte) error {
	if _, err := r.output.Write(b); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
