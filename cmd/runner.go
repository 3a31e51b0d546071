package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/skillstream/internal/guard"
	"github.com/desertthunder/skillstream/internal/models"
	"github.com/desertthunder/skillstream/internal/repositories"
	"github.com/desertthunder/skillstream/internal/services"
	"github.com/desertthunder/skillstream/internal/session"
	"github.com/desertthunder/skillstream/internal/shared"
	"github.com/desertthunder/skillstream/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	api        *services.APIService
	catalog    services.Catalog
	session    *session.Store
	guard      *guard.Guard
	cache      *repositories.CourseCacheRepository
	runs       *repositories.SyncRunRepository
	engine     *tasks.CatalogEngine
	logger     *log.Logger
	output     io.Writer
	input      *bufio.Reader
	open       func(url string) error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	API        *services.APIService
	Catalog    services.Catalog
	Session    *session.Store
	// DB backs the course cache and sync history. Without it the cache commands are unavailable.
	DB     *sql.DB
	Logger *log.Logger
	Output io.Writer
	Input  io.Reader
	Open   func(url string) error
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
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Open == nil {
		opts.Open = shared.OpenBrowser
	}
	if opts.Session == nil {
		opts.Session, _ = session.NewStore(nil)
	}
	if opts.API == nil {
		opts.API = newAPIService(opts.Config, opts.Session, opts.Logger)
	}
	if opts.Catalog == nil {
		opts.Catalog = services.NewCatalogService(opts.API)
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		api:        opts.API,
		catalog:    opts.Catalog,
		session:    opts.Session,
		guard:      guard.New(opts.Config.Auth.JWTSecret),
		logger:     opts.Logger,
		output:     opts.Output,
		input:      bufio.NewReader(opts.Input),
		open:       opts.Open,
	}

	var (
		cache tasks.CourseCache
		runs  tasks.SyncRecorder
	)
	if opts.DB != nil {
		r.cache = repositories.NewCourseCacheRepository(opts.DB)
		r.runs = repositories.NewSyncRunRepository(opts.DB)
		cache, runs = r.cache, r.runs
	}
	r.engine = tasks.NewCatalogEngine(opts.Catalog, opts.API, cache, runs, opts.Logger)
	return r
}

// newAPIService builds the REST client. The bearer token is read from the session at send time.
func newAPIService(cfg *shared.Config, store *session.Store, logger *log.Logger) *services.APIService {
	return services.NewAPIService(cfg.API.BaseURL, nil,
		services.WithTimeout(timeoutOf(cfg)),
		services.WithRateLimit(cfg.API.RequestsPerSecond, 1),
		services.WithTokenSource(store),
		services.WithLogger(shared.WithLogger(logger, "component", "api")),
	)
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, coursesCommand, favoritesCommand, adminCommand,
		exportCommand, cacheCommand, apiCommand, themeCommand, tuiCommand, devCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger of the runner and its engine.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	var (
		cache tasks.CourseCache
		runs  tasks.SyncRecorder
	)
	if r.cache != nil {
		cache, runs = r.cache, r.runs
	}
	r.engine = tasks.NewCatalogEngine(r.catalog, r.api, cache, runs, logger)
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

// confirm asks a yes/no question on the runner's input. Anything but y or yes declines.
func (r *Runner) confirm(ctx context.Context, prompt string) (bool, error) {
	if err := r.writePlain("%s [y/N]: ", prompt); err != nil {
		return false, err
	}
	line, err := r.input.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// intArg parses a required integer positional argument.
func intArg(cmd *cli.Command, name string) (int, error) {
	raw := strings.TrimSpace(cmd.StringArg(name))
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", shared.ErrMissingArgument, name)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number, got %q", shared.ErrInvalidArgument, name, raw)
	}
	return n, nil
}

// findCourse looks up a course by its public code.
func findCourse(courses []models.Course, code int) (models.Course, error) {
	for _, c := range courses {
		if c.Code == code {
			return c, nil
		}
	}
	return models.Course{}, fmt.Errorf("%w: no course with code %d", shared.ErrNotFound, code)
}
