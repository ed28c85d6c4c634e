package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sitesnap/archive"
	"github.com/fwojciec/sitesnap/fs"
	"github.com/fwojciec/sitesnap/goquery"
	snaphttp "github.com/fwojciec/sitesnap/http"
	"github.com/fwojciec/sitesnap/rod"
	snapslog "github.com/fwojciec/sitesnap/slog"
	"github.com/fwojciec/sitesnap/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitesnap"),
		kong.Description("Archive a website as self-contained HTML snapshots"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	_, err = parser.Parse(args)
	if err != nil {
		return err
	}

	// Default the site name to the host of the URL being archived.
	name := cli.Name
	if name == "" {
		u, err := url.Parse(cli.URL)
		if err != nil || u.Host == "" {
			return fmt.Errorf("invalid site URL: %s", cli.URL)
		}
		name = u.Host
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	// Wire dependencies
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	resolver := snapslog.NewLoggingResolver(snaphttp.NewResolver(nil), logger)
	sitemapParser := snapslog.NewLoggingParser(
		snaphttp.NewParser(nil, snaphttp.WithParserLogger(logger)),
		logger,
	)

	capturer, err := rod.NewCapturer(rod.WithNavTimeout(cli.Timeout))
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer capturer.Close()

	archiver := &archive.Archiver{
		Resolver:    resolver,
		Parser:      sitemapParser,
		Capturer:    rod.NewLoggingCapturer(capturer, logger),
		Store:       fs.NewStore(cli.Out, name, fs.Layout(cli.Layout)),
		Auditor:     goquery.NewAuditor(),
		Logger:      logger,
		Concurrency: cli.Concurrency,
		MaxPages:    cli.MaxPages,
	}

	if cli.Rate > 0 {
		archiver.Limiter = archive.NewDomainLimiter(cli.Rate)
	}

	// The manifest lives next to the site directory, not inside it: commit
	// replaces the site directory wholesale.
	if cli.Manifest {
		if err := os.MkdirAll(cli.Out, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		db := sqlite.NewDB(filepath.Join(cli.Out, name+".manifest.db"))
		if err := db.Open(); err != nil {
			return fmt.Errorf("failed to open manifest: %w", err)
		}
		defer db.Close()
		archiver.Manifest = sqlite.NewManifestService(db)
	}

	deps.Archiver = archiver

	cmd := &ArchiveCmd{URL: cli.URL}

	return cmd.Run(deps)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Out         string        `short:"o" default:"downloaded_site" help:"Base directory for output"`
	Name        string        `short:"n" help:"Name of the site directory (default: site host)"`
	Layout      string        `default:"nested" enum:"nested,flat" help:"Snapshot path layout"`
	MaxPages    int           `default:"0" help:"Maximum pages to capture (0 = no cap)"`
	Concurrency int           `short:"c" default:"1" help:"Concurrent capture limit (1 preserves discovery order)"`
	Timeout     time.Duration `short:"t" default:"30s" help:"Navigation timeout per page"`
	Rate        float64       `default:"1" help:"Requests per second per domain (0 = unlimited)"`
	Manifest    bool          `help:"Record a SQLite manifest of the run"`
	Verbose     bool          `short:"v" help:"Enable debug logging"`
	URL         string        `arg:"" required:"" help:"Site URL to archive"`
}
