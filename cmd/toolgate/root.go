package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Cyclone1070/toolgate/internal/config"
	"github.com/Cyclone1070/toolgate/internal/dispatch"
	"github.com/Cyclone1070/toolgate/internal/logging"
	"github.com/Cyclone1070/toolgate/internal/metrics"
	"github.com/Cyclone1070/toolgate/internal/tool/service/executor"
	"github.com/Cyclone1070/toolgate/internal/tool/service/fs"
	"github.com/Cyclone1070/toolgate/internal/tool/service/path"
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	ConfigFile  string
	Allow       []string
	ProjectRoot string
	NoConfirm   bool
	Window      time.Duration
	LogLevel    string
	LogFormat   string
	LogFile     string
	MetricsAddr string
}

// Dependencies holds the components a subcommand runs against.
type Dependencies struct {
	Config  *config.Config
	Logger  *slog.Logger
	FS      *fs.OSFileSystem
	Guard   *path.Guard
	Metrics *metrics.Metrics
	Window  time.Duration

	closeLog func() error
}

// Close releases the log file, if one was opened.
func (d *Dependencies) Close() error {
	if d.closeLog == nil {
		return nil
	}
	return d.closeLog()
}

// newDispatcher wires a Dispatcher whose approvals go to prompter.
func (d *Dependencies) newDispatcher(prompter dispatch.Prompter) *dispatch.Dispatcher {
	return dispatch.New(d.Config, dispatch.Deps{
		Guard:    d.Guard,
		FS:       d.FS,
		Executor: executor.NewOSCommandExecutor(d.Config),
		Prompter: prompter,
		Window:   d.Window,
		Metrics:  d.Metrics,
		Logger:   d.Logger.With("component", "dispatch"),
	})
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "toolgate",
		Short: "Sandboxed tool-execution gateway",
		Long: `toolgate executes file, search, git and shell tool calls on behalf of an
AI assistant. Every path argument must resolve inside the allowed directories,
and calls that modify state wait for an operator to approve them.

Available subcommands:
  console       Dispatch tool calls and answer approval prompts
  status        Print the effective allow-list and confirmation policy
  check-path    Resolve a path against the allow-list
  declarations  Print the tool declarations

Examples:
  toolgate console --allow ~/src/project
  toolgate console --plain < calls.jsonl
  toolgate check-path --allow . ../secret.txt
  toolgate declarations --format gemini`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigFile, "config", "", "Path to a config file (default: ~/.config/toolgate/config.{json,yaml})")
	flags.StringArrayVar(&opts.Allow, "allow", nil, "Allowed directory; repeat for several (overrides gateway.allowed_directories)")
	flags.StringVar(&opts.ProjectRoot, "project-root", "", "Base directory for relative paths (default: first allowed directory)")
	flags.BoolVar(&opts.NoConfirm, "no-confirm", false, "Execute dangerous calls without asking for approval")
	flags.DurationVar(&opts.Window, "window", 0, "Confirmation window (overrides gateway.confirmation_window_seconds)")
	flags.StringVar(&opts.LogLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&opts.LogFormat, "log-format", "", "Log format: text or json")
	flags.StringVar(&opts.LogFile, "log-file", "", "Append logs to this file instead of stderr")
	flags.StringVar(&opts.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9464")

	cmd.AddCommand(newConsoleCmd(opts))
	cmd.AddCommand(newStatusCmd(opts))
	cmd.AddCommand(newCheckPathCmd(opts))
	cmd.AddCommand(newDeclarationsCmd())

	return cmd
}

// loadConfig reads the config file and applies flag overrides.
// Without --config a broken dotfile is reported and defaults are used.
func loadConfig(opts *rootOptions, stderr io.Writer) (*config.Config, error) {
	var cfg *config.Config
	if opts.ConfigFile != "" {
		loaded, err := config.NewLoader().LoadFile(opts.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	} else {
		loaded, err := config.Load()
		if err != nil {
			fmt.Fprintf(stderr, "Warning: failed to load config: %v\nUsing default configuration.\n", err)
			loaded = config.DefaultConfig()
		}
		cfg = loaded
	}

	if len(opts.Allow) > 0 {
		cfg.Gateway.AllowedDirectories = opts.Allow
	}
	if opts.ProjectRoot != "" {
		cfg.Gateway.ProjectRoot = opts.ProjectRoot
	}
	if opts.NoConfirm {
		cfg.Gateway.RequireConfirmation = false
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.LogFormat != "" {
		cfg.Log.Format = opts.LogFormat
	}
	if opts.MetricsAddr != "" {
		cfg.Metrics.ListenAddr = opts.MetricsAddr
	}

	if len(cfg.Gateway.AllowedDirectories) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("no allowed directories configured and cwd is unavailable: %w", err)
		}
		cfg.Gateway.AllowedDirectories = []string{wd}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildDependencies loads config and constructs the shared services.
// quiet discards logs unless --log-file is set, for full-screen output.
func buildDependencies(opts *rootOptions, stderr io.Writer, quiet bool) (*Dependencies, error) {
	cfg, err := loadConfig(opts, stderr)
	if err != nil {
		return nil, err
	}

	deps := &Dependencies{Config: cfg, Window: opts.Window}

	switch {
	case opts.LogFile != "":
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		deps.closeLog = f.Close
		deps.Logger = logging.NewLogger(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Writer: f})
	case quiet:
		deps.Logger = logging.Discard()
	default:
		deps.Logger = logging.NewLogger(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Writer: stderr})
	}

	deps.FS = fs.NewOSFileSystem()
	guard, err := path.NewGuard(deps.FS, cfg.Gateway.AllowedDirectories, cfg.Gateway.ProjectRoot)
	if err != nil {
		_ = deps.Close()
		return nil, fmt.Errorf("invalid sandbox: %w", err)
	}
	deps.Guard = guard
	deps.Metrics = metrics.New()

	deps.Logger.Debug("sandbox ready",
		"allowed", guard.Roots(),
		"project_root", guard.ProjectRoot(),
		"require_confirmation", cfg.Gateway.RequireConfirmation)

	return deps, nil
}
