package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Cyclone1070/toolgate/internal/console"
	"github.com/Cyclone1070/toolgate/internal/dispatch"
	"github.com/Cyclone1070/toolgate/internal/intent/gemini"
	"github.com/Cyclone1070/toolgate/internal/metrics"
	"github.com/spf13/cobra"
)

// ConsoleConfig holds configuration for the console command
type ConsoleConfig struct {
	Plain        bool
	Style        string
	Width        int
	Conversation string
	QueueLimit   int
}

func newConsoleCmd(root *rootOptions) *cobra.Command {
	cfg := &ConsoleConfig{}

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Dispatch tool calls and answer approval prompts",
		Long: `Read one JSON request per line, dispatch it and show the result.

A request names a single tool call or carries a Gemini model turn:
  {"name":"read_file","args":{"path":"README.md"}}
  {"conversation_id":"c1","content":{"role":"model","parts":[{"functionCall":{...}}]}}

Dangerous calls wait for approval: press y or n, or use /approve and /deny.
Type /help for the other slash commands.

With --plain the console reads stdin and writes JSON lines, which suits
scripts and pipes; "y" and "n" lines answer the oldest pending approval.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runConsole(ctx, cmd, root, cfg)
		},
	}

	cmd.Flags().BoolVar(&cfg.Plain, "plain", false, "Use JSON lines on stdin/stdout instead of the full-screen console")
	cmd.Flags().StringVar(&cfg.Style, "style", "dark", "Glamour style for rendered results (dark, light, notty, ...)")
	cmd.Flags().IntVar(&cfg.Width, "width", 100, "Word-wrap width for rendered results")
	cmd.Flags().StringVar(&cfg.Conversation, "conversation", console.DefaultConversation, "Conversation id for requests that do not name one")
	cmd.Flags().IntVar(&cfg.QueueLimit, "queue", 16, "Maximum approvals waiting for an answer")

	return cmd
}

func runConsole(ctx context.Context, cmd *cobra.Command, root *rootOptions, cfg *ConsoleConfig) error {
	deps, err := buildDependencies(root, cmd.ErrOrStderr(), !cfg.Plain)
	if err != nil {
		return err
	}
	defer deps.Close()

	if addr := deps.Config.Metrics.ListenAddr; addr != "" {
		stopMetrics := serveMetrics(ctx, addr, deps.Metrics, deps.Logger)
		defer stopMetrics()
	}

	renderer := console.PlainRenderer()
	if !cfg.Plain {
		renderer, err = console.NewRenderer(cfg.Style, cfg.Width)
		if err != nil {
			return fmt.Errorf("failed to create renderer: %w", err)
		}
	}

	approvals := console.NewApprovals(cfg.QueueLimit)
	d := deps.newDispatcher(approvals)
	c := console.New(d, approvals, renderer, console.Options{
		Conversation: cfg.Conversation,
		Logger:       deps.Logger.With("component", "console"),
	})

	deps.Logger.Info("console started", "plain", cfg.Plain, "allowed", deps.Guard.Roots())
	if cfg.Plain {
		return c.RunLines(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
	}
	return c.RunInteractive(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
}

// serveMetrics exposes m on addr until ctx ends or the returned func is called.
func serveMetrics(ctx context.Context, addr string, m *metrics.Metrics, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("metrics listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}

func newStatusCmd(root *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the effective allow-list and confirmation policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := buildDependencies(root, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer deps.Close()

			status := deps.newDispatcher(console.NewApprovals(1)).Status()
			if asJSON {
				return writeJSON(cmd, status)
			}
			fmt.Fprintln(cmd.OutOrStdout(), console.PlainRenderer().Status(status))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the status as JSON")
	return cmd
}

func newCheckPathCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check-path <path>",
		Short: "Resolve a path against the allow-list",
		Long: `Resolve a path the way tool arguments are resolved and print the
canonical result. Exits non-zero and prints the violation when the path is
rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := buildDependencies(root, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer deps.Close()

			resolved, err := deps.Guard.Resolve(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resolved)
			return nil
		},
	}
}

func newDeclarationsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "declarations",
		Short: "Print the tool declarations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			decls := dispatch.Declarations()
			switch format {
			case "json":
				return writeJSON(cmd, decls)
			case "gemini":
				return writeJSON(cmd, gemini.Tools(decls))
			default:
				return fmt.Errorf("unknown format %q (want json or gemini)", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or gemini")
	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
