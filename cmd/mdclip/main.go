package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/mdclip"
	"github.com/fwojciec/mdclip/clipboard"
	"github.com/fwojciec/mdclip/export"
	"github.com/fwojciec/mdclip/fs"
	"github.com/fwojciec/mdclip/goldmark"
	"github.com/fwojciec/mdclip/htmltomarkdown"
	mdslog "github.com/fwojciec/mdclip/slog"
	"github.com/fwojciec/mdclip/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	_ = m.Close()
	if err != nil {
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Settings file and history database paths. Set before calling Run().
	// The --config and --db flags take precedence.
	ConfigPath string
	DBPath     string

	// SQLite database used by the history service.
	DB *sqlite.DB

	// Services for end-to-end testing.
	Settings mdclip.SettingsService
	Exports  mdclip.ExportService
	Sink     mdclip.Sink
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPath: defaultPath("settings.yaml"),
		DBPath:     defaultPath("history.db"),
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
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("mdclip"),
		kong.Description("Export sections of markdown notes as HTML, plain text, lists or markdown."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'mdclip --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", err)
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	if cli.Config != "" {
		m.ConfigPath = cli.Config
	}
	if m.Settings == nil {
		m.Settings = fs.NewSettingsStore(m.ConfigPath)
	}
	deps.Settings = mdslog.NewLoggingSettingsService(m.Settings, logger)

	if cmd == "history" || (cmd == "copy" && !cli.Copy.NoHistory) {
		if err := m.openHistory(cli.DB); err != nil {
			fmt.Fprintf(stderr, "error: %s\n", mdclip.ErrorMessage(err))
			fmt.Fprintln(stderr, "Hint: Set MDCLIP_DB to use a different database path, or pass --no-history")
			return err
		}
		deps.Exports = mdslog.NewLoggingExportService(m.Exports, logger)
	}

	if cmd == "copy" || cmd == "policies" {
		settings, err := deps.Settings.LoadSettings(ctx)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", mdclip.ErrorMessage(err))
			return err
		}

		deps.Target = TargetClipboard
		sink := m.Sink
		if cmd == "copy" && cli.Copy.Stdout {
			deps.Target = TargetStdout
			sink = fs.NewWriterSink(stdout)
		} else if sink == nil {
			sink = clipboard.NewSink()
		}

		deps.Exporter = &export.Exporter{
			Renderer:  mdslog.NewLoggingRenderer(goldmark.NewRenderer(), logger),
			Headings:  goldmark.NewOutline(),
			Converter: htmltomarkdown.NewConverter(),
			Sink:      mdslog.NewLoggingSink(sink, deps.Target, logger),
			Exports:   deps.Exports,
			Settings:  settings,
			Logger:    logger,
		}
	}

	return kongCtx.Run(deps)
}

// openHistory opens the history database unless an export service was
// provided.
func (m *Main) openHistory(path string) error {
	if m.Exports != nil {
		return nil
	}
	if path != "" {
		m.DBPath = path
	}
	if err := os.MkdirAll(filepath.Dir(m.DBPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	m.Exports = sqlite.NewExportService(m.DB)
	return nil
}

// defaultPath returns name inside ~/.mdclip, or name itself when the home
// directory is unknown.
func defaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".mdclip", name)
}
