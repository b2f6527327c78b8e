package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/mira"
	"github.com/fwojciec/mira/difflib"
	"github.com/fwojciec/mira/fs"
	"github.com/fwojciec/mira/gemini"
	mirahttp "github.com/fwojciec/mira/http"
	miraprom "github.com/fwojciec/mira/prometheus"
	"github.com/fwojciec/mira/resolve"
	miraslog "github.com/fwojciec/mira/slog"
	"github.com/fwojciec/mira/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Configuration. Loaded from file and environment by Run when nil.
	Config *Config

	// Input for the chat command.
	Stdin io.Reader

	// Getenv reads environment variables while loading configuration.
	Getenv func(string) string

	// SQLite database, set when the store path selects SQLite.
	DB *sqlite.DB

	// Fallback overrides the configured external resolver for end-to-end
	// testing.
	Fallback mira.FallbackResolver
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Stdin:  os.Stdin,
		Getenv: os.Getenv,
	}
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
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("mira"),
		kong.Description("A small question-answering assistant that learns from you."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'mira --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg := m.Config
	if cfg == nil {
		if cfg, err = LoadConfig(cli.Config, m.Getenv); err != nil {
			return err
		}
	}
	if err := cli.apply(cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	store, err := m.openStore(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Set MIRA_STORE or --store to use a different store path")
		return err
	}
	defer m.Close()

	reg := prometheus.NewRegistry()
	metrics := miraprom.NewMetrics(reg)

	// Only commands that answer questions reach the fallback.
	var fallback mira.FallbackResolver = mira.NoFallback{}
	switch command(kongCtx) {
	case "ask", "chat":
		if fallback, err = m.openFallback(ctx, cfg, stderr); err != nil {
			return err
		}
		fallback = miraslog.NewLoggingFallbackResolver(
			miraprom.NewFallbackResolver(fallback, cfg.Fallback, metrics),
			cfg.Fallback,
			logger,
		)
	}

	loggedStore := miraslog.NewLoggingStore(store, logger)
	pipeline := resolve.NewPipeline(loggedStore, difflib.NewMatcher(), fallback,
		resolve.WithThreshold(cfg.Threshold),
	)

	deps.Logger = logger
	deps.Store = loggedStore
	deps.Trainer = pipeline
	deps.Resolver = miraslog.NewLoggingResolver(miraprom.NewResolver(pipeline, metrics), logger)
	deps.Gatherer = reg

	return kongCtx.Run(deps)
}

// openStore opens the store selected by cfg.Store. A malformed JSON store is
// fatal unless cfg.Recover is set.
func (m *Main) openStore(ctx context.Context, cfg *Config, logger *slog.Logger) (mira.Store, error) {
	if cfg.UsesSQLite() {
		if err := os.MkdirAll(filepath.Dir(cfg.Store), 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
		m.DB = sqlite.NewDB(cfg.Store)
		if err := m.DB.Open(); err != nil {
			return nil, fmt.Errorf("failed to open database at %q: %w", cfg.Store, err)
		}
		return sqlite.NewStore(m.DB), nil
	}

	store := fs.NewStore(cfg.Store)
	if err := store.Load(); err != nil {
		if mira.ErrorCode(err) != mira.EMALFORMED || !cfg.Recover {
			return nil, fmt.Errorf("failed to load store: %w", err)
		}
		logger.WarnContext(ctx, "starting with empty store", "path", cfg.Store, "err", err)
	}
	return store, nil
}

// openFallback builds the external resolver named by cfg.Fallback.
func (m *Main) openFallback(ctx context.Context, cfg *Config, stderr io.Writer) (mira.FallbackResolver, error) {
	if m.Fallback != nil {
		return m.Fallback, nil
	}

	switch cfg.Fallback {
	case FallbackWikipedia:
		return mirahttp.NewResolver(
			mirahttp.WithEndpoint(cfg.Wikipedia.Endpoint),
			mirahttp.WithTimeout(cfg.Wikipedia.Timeout),
		), nil
	case FallbackGemini:
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.Gemini.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		return gemini.NewResolver(client, cfg.Gemini.Model), nil
	default:
		return mira.NoFallback{}, nil
	}
}

// command returns the name of the selected subcommand.
func command(kongCtx *kong.Context) string {
	name, _, _ := strings.Cut(kongCtx.Command(), " ")
	return name
}
