package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/festmatch/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	HTTPClient *http.Client
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
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger swaps the runner's logger, used when the TUI owns stderr.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, setupCommand, catalogCommand, suggestionsCommand, cacheCommand, authCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig resolves the effective config for a command: the flag's file when
// it exists, the runner's config otherwise, defaults as the last resort.
func (r *Runner) loadConfig(cmd *cli.Command) *shared.Config {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		config, err := shared.LoadConfig(configPath)
		if err == nil {
			return config
		}
		r.logger.Warnf("failed to load config, using defaults %v", err)
	}

	if r.config != nil {
		return r.config
	}
	return shared.DefaultConfig()
}

// openDatabase opens the configured SQLite database and brings the schema up
// to date.
func (r *Runner) openDatabase(config *shared.Config) (*sql.DB, error) {
	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
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

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
