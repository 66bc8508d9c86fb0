package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mossworks/sprout/pkg/buildinfo"
	"github.com/mossworks/sprout/pkg/cache"
)

// appName is the application name used for directories and display.
const appName = "sprout"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "sprout",
		Short: "Sprout grows fractal surface detail on triangle meshes",
		Long: `Sprout procedurally adds fractal-like surface detail to a triangulated
3D mesh: it recursively places scaled, re-oriented copies of the base mesh
onto randomly chosen triangles of that mesh. Input and output are STL.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.growCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.presetsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())

	return root
}

// cacheDir returns the directory used by the file-backed mesh cache.
func cacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appName, "meshes"), nil
}

// openCache creates the file-backed mesh cache, or a null cache when
// disabled. Cache failures degrade to uncached operation with a
// warning rather than failing the run.
func openCache(disabled bool) cache.Cache {
	if disabled {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		printWarning("Cache disabled: %v", err)
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		printWarning("Cache disabled: %v", err)
		return cache.NewNullCache()
	}
	return fc
}
