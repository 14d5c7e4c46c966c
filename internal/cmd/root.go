package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"viewprefs/internal/config"
	"viewprefs/internal/settings"

	"github.com/spf13/cobra"
)

// AppProvider lazily initializes the App on first use.
type AppProvider struct {
	once sync.Once
	app  *App
	err  error

	// Config captured from flags before Execute()
	Dir        string
	File       string
	Format     string
	Ephemeral  bool
	JSONOutput bool
	Verbose    bool
	Out        io.Writer
	Err        io.Writer
}

// Get returns the App, initializing it on first call.
func (p *AppProvider) Get() (*App, error) {
	p.once.Do(func() {
		if p.app == nil {
			p.app, p.err = p.init()
		}
	})
	return p.app, p.err
}

// NewTestProvider creates a provider pre-initialized with the given App.
// Used for testing commands with a mock/test App.
func NewTestProvider(app *App) *AppProvider {
	return &AppProvider{
		app:        app,
		JSONOutput: app.JSON,
		Out:        app.Out,
		Err:        app.Err,
	}
}

func (p *AppProvider) init() (*App, error) {
	out := p.Out
	if out == nil {
		out = os.Stdout
	}
	errOut := p.Err
	if errOut == nil {
		errOut = os.Stderr
	}

	level := slog.LevelWarn
	if p.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))

	paths, err := config.Resolve(config.Options{
		Dir:       p.Dir,
		File:      p.File,
		Format:    p.Format,
		Ephemeral: p.Ephemeral,
	})
	if err != nil {
		return nil, err
	}

	app := &App{
		Paths:  paths,
		Logger: logger,
		Out:    out,
		Err:    errOut,
		JSON:   p.JSONOutput,
	}

	if paths.Err != nil {
		fmt.Fprintf(errOut, "%s settings will not be saved: %v\n", app.WarnColor("warning:"), paths.Err)
	}

	app.Settings = openSettings(paths, logger, errOut)
	return app, nil
}

// openSettings constructs the store for paths and loads it. A missing file
// is the normal first run. Any other failure is reported with the
// settings warning banner and the store starts empty.
func openSettings(paths config.Paths, logger *slog.Logger, errOut io.Writer) *settings.Settings {
	s := settings.New(paths.File,
		settings.WithEphemeral(paths.Ephemeral),
		settings.WithCodec(paths.Codec()),
		settings.WithLogger(logger),
	)
	if _, err := s.Load(false); err != nil && !errors.Is(err, settings.ErrNotFound) {
		settings.FprintWarning(errOut, paths.File, err)
	}
	return s
}

// Execute runs the CLI.
func Execute() error {
	provider := &AppProvider{
		Out: os.Stdout,
		Err: os.Stderr,
	}

	rootCmd := newRootCmd(provider)
	return rootCmd.Execute()
}

// newRootCmd creates the root command with all subcommands.
func newRootCmd(provider *AppProvider) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vprefs",
		Short: "Inspect and edit persisted viewer settings",
		Long: `vprefs reads and writes the flat key-value settings file kept by the viewer.

Settings live in ~/.vprefs/settings.yaml unless --dir, --file or the
VPREFS_DIR / VPREFS_FILE environment variables say otherwise. When the
settings directory cannot be created, vprefs runs in ephemeral mode and
nothing is written to disk.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags - these populate the provider config
	rootCmd.PersistentFlags().BoolVar(&provider.JSONOutput, "json", config.EnvEnabled(config.EnvJSON), "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&provider.Dir, "dir", "", "Settings directory (default: ~/.vprefs)")
	rootCmd.PersistentFlags().StringVar(&provider.File, "file", "", "Settings file name or path (default: settings.<format>)")
	rootCmd.PersistentFlags().StringVar(&provider.Format, "format", "", "Settings file format: yaml, toml or json (default: from file extension)")
	rootCmd.PersistentFlags().BoolVar(&provider.Ephemeral, "ephemeral", false, "Keep settings in memory only; never touch the filesystem")
	rootCmd.PersistentFlags().BoolVarP(&provider.Verbose, "verbose", "v", false, "Log settings I/O to stderr")

	// Register all commands
	rootCmd.AddCommand(newGetCmd(provider))
	rootCmd.AddCommand(newSetCmd(provider))
	rootCmd.AddCommand(newUnsetCmd(provider))
	rootCmd.AddCommand(newListCmd(provider))
	rootCmd.AddCommand(newPathCmd(provider))
	rootCmd.AddCommand(newVersionCmd(provider))

	return rootCmd
}
