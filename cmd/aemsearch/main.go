package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/venky7799/aemsearch"
	aemhttp "github.com/venky7799/aemsearch/http"
	"github.com/venky7799/aemsearch/locale"
	"github.com/venky7799/aemsearch/mirror"
	"github.com/venky7799/aemsearch/search"
	aemslog "github.com/venky7799/aemsearch/slog"
	"github.com/venky7799/aemsearch/sqlite"
	"github.com/venky7799/aemsearch/toml"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database holding the offline mirror, if one is used.
	DB *sqlite.DB

	// Repository overrides the repository built from flags. Set before
	// calling Run() for end-to-end testing.
	Repository aemsearch.RepositoryClient
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("aemsearch"),
		kong.Description("Find content in a multi-locale AEM repository from a loose search term."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'aemsearch --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	cfg, err := toml.LoadConfig(cli.Config)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", aemsearch.ErrorMessage(err))
		return err
	}
	if cli.URL != "" {
		cfg.Repository.URL = cli.URL
	}
	deps.Config = cfg

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	if cli.DB != "" {
		m.DB = sqlite.NewDB(cli.DB)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set AEMSEARCH_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
		}
		defer m.Close()
		deps.Runs = sqlite.NewMirrorRunService(m.DB)
	}

	switch cmd {
	case "runs":
		if m.DB == nil {
			return missingDB(stderr)
		}
		return kongCtx.Run(deps)
	case "mirror":
		if m.DB == nil {
			return missingDB(stderr)
		}
		source, err := m.live(cfg, logger, cli.Verbose)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", aemsearch.ErrorMessage(err))
			return err
		}
		deps.Walker = &mirror.Walker{
			Source: source,
			Store:  sqlite.NewNodeStore(m.DB),
		}
		return kongCtx.Run(deps)
	}

	// search and candidates read the mirror when a database is given.
	var client aemsearch.RepositoryClient
	if m.DB != nil && m.Repository == nil {
		client = sqlite.NewNodeStore(m.DB)
	} else if client, err = m.live(cfg, logger, cli.Verbose); err != nil {
		fmt.Fprintf(stderr, "error: %s\n", aemsearch.ErrorMessage(err))
		return err
	}
	if cli.Verbose {
		client = aemslog.NewLoggingRepositoryClient(client, logger)
	}

	var candidates aemsearch.CandidateGenerator = locale.NewGenerator(client, cfg.Locales)
	if cli.Verbose {
		candidates = aemslog.NewLoggingCandidateGenerator(candidates, logger)
	}
	deps.Candidates = candidates

	svc := search.NewService(client, candidates, cfg.Search)
	svc.KnownLocales = cli.Search.Locales

	var searcher aemsearch.Searcher = svc
	if cli.Verbose {
		searcher = aemslog.NewLoggingSearcher(searcher, logger)
	}
	deps.Searcher = searcher

	return kongCtx.Run(deps)
}

// live returns the client for the live repository.
func (m *Main) live(cfg aemsearch.Config, logger *slog.Logger, verbose bool) (aemsearch.RepositoryClient, error) {
	if m.Repository != nil {
		return m.Repository, nil
	}
	if cfg.Repository.URL == "" {
		return nil, aemsearch.Errorf(aemsearch.EINVALID, "repository URL required. Set AEMSEARCH_URL or pass --url")
	}

	var opts []aemhttp.Option
	if verbose {
		opts = append(opts, aemhttp.WithRetryLogger(func(format string, args ...any) {
			logger.Warn(fmt.Sprintf(format, args...))
		}))
	}
	return aemhttp.NewClientFromConfig(cfg.Repository, opts...), nil
}

func missingDB(stderr io.Writer) error {
	fmt.Fprintln(stderr, "Hint: Set AEMSEARCH_DB or pass --db")
	return aemsearch.Errorf(aemsearch.EINVALID, "database path required")
}
