package shell

import (
	"fmt"
	"strings"

	"github.com/Cyclone1070/toolgate/internal/config"
)

// RunCommandRequest represents a request to run a shell command.
type RunCommandRequest struct {
	Command        string `mapstructure:"command"`
	Cwd            string `mapstructure:"cwd"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Validate checks the command and clamps the timeout into the configured range.
func (r *RunCommandRequest) Validate(cfg *config.Config) error {
	if strings.TrimSpace(r.Command) == "" {
		return ErrCommandRequired
	}
	if r.TimeoutSeconds < 0 {
		return ErrNegativeTimeout
	}
	if r.TimeoutSeconds == 0 {
		r.TimeoutSeconds = cfg.Tools.CommandTimeoutSeconds
	}
	if r.TimeoutSeconds > cfg.Tools.MaxCommandTimeoutSeconds {
		r.TimeoutSeconds = cfg.Tools.MaxCommandTimeoutSeconds
	}
	return nil
}

// RunCommandResponse represents the result of a finished command.
// A non-zero ExitCode is still a successful run.
type RunCommandResponse struct {
	Command    string
	ExitCode   int
	Stdout     string
	Stderr     string
	Truncated  bool
	DurationMs int64
}

func (r *RunCommandResponse) LLMContent() string {
	parts := []string{fmt.Sprintf("Exit code: %d", r.ExitCode)}
	if out := strings.TrimSpace(r.Stdout); out != "" {
		parts = append(parts, "stdout:\n"+out)
	}
	if errOut := strings.TrimSpace(r.Stderr); errOut != "" {
		parts = append(parts, "stderr:\n"+errOut)
	}
	return strings.Join(parts, "\n\n")
}
