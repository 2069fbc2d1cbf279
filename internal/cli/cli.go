// Package cli implements the mapscript command-line interface.
//
// This package provides commands for compiling MapScript documents to
// Graphviz DOT and rendered images, linting documents, patching individual
// declarations in place, and running the interactive editor server. The CLI
// is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - compile: Compile a document to DOT, SVG, PNG, or PDF
//   - check: Lint a document and report line errors
//   - patch: Rewrite a single node, edge, or cluster declaration
//   - serve: Run the editor HTTP server
//   - examples: Browse the bundled example documents
//   - cache: Manage the render cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mapscript/mapscript/pkg/buildinfo"
	"github.com/mapscript/mapscript/pkg/cache"
	"github.com/mapscript/mapscript/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "mapscript"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *Config
}

// New creates a new CLI instance with a default logger and the user's
// configuration file applied on top of the defaults.
func New(w io.Writer, level log.Level) *CLI {
	cfg, err := LoadConfig("")
	logger := newLogger(w, level)
	if err != nil {
		logger.Warn("ignoring config file", "err", err)
		cfg = DefaultConfig()
	}
	return &CLI{
		Logger: logger,
		Config: cfg,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "mapscript",
		Short:        "MapScript compiles plain-text diagrams to Graphviz",
		Long:         `MapScript is a line-oriented language for describing diagrams. Each line declares a node, an edge, a cluster boundary, or a document setting, and the compiler turns the document into Graphviz DOT or a rendered image.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.compileCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.patchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.examplesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Renderer Factory
// =============================================================================

// newRenderer creates a cached renderer for CLI use. With noCache the
// renderer runs without a backing store; otherwise the configured Redis
// address wins over the default file cache.
func (c *CLI) newRenderer(noCache bool) *render.Renderer {
	store := c.newCache(noCache)
	ttl := time.Duration(c.Config.Cache.TTLHours) * time.Hour
	return render.New(store, cache.NewDefaultKeyer(), ttl)
}

func (c *CLI) newCache(noCache bool) cache.Cache {
	if noCache || c.Config.Cache.Disabled {
		return cache.NewNullCache()
	}
	if addr := c.Config.Cache.Redis; addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		rc, err := cache.NewRedisCache(ctx, addr)
		cancel()
		if err == nil {
			return rc
		}
		c.Logger.Warn("redis cache unavailable, falling back to file cache", "addr", addr, "err", err)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return fc
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/mapscript/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/mapscript/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// documentsDir returns the directory the file-backed document store uses.
func (c *CLI) documentsDir() (string, error) {
	if c.Config.Documents.Dir != "" {
		return c.Config.Documents.Dir, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "documents"), nil
}
