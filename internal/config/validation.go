package config

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Validate checks config values for correctness.
// Every violation is collected so a broken dotfile is reported in one pass.
func (c *Config) Validate() error {
	var result *multierror.Error

	atLeast := func(name string, value, floor int) {
		if value < floor {
			result = multierror.Append(result, fmt.Errorf("%s must be >= %d", name, floor))
		}
	}

	// Gateway
	for i, dir := range c.Gateway.AllowedDirectories {
		if strings.TrimSpace(dir) == "" {
			result = multierror.Append(result, fmt.Errorf("gateway.allowed_directories[%d] must not be empty", i))
		}
	}
	atLeast("gateway.confirmation_window_seconds", c.Gateway.ConfirmationWindowSeconds, 1)
	atLeast("gateway.max_history_len", c.Gateway.MaxHistoryLen, 1)
	atLeast("gateway.max_file_size_kb", c.Gateway.MaxFileSizeKB, 1)

	// Tools - command execution
	atLeast("tools.command_timeout_seconds", c.Tools.CommandTimeoutSeconds, 1)
	atLeast("tools.max_command_timeout_seconds", c.Tools.MaxCommandTimeoutSeconds, 1)
	atLeast("tools.max_command_output_bytes", c.Tools.MaxCommandOutputBytes, 1)
	atLeast("tools.kill_grace_ms", c.Tools.KillGraceMs, 0)
	atLeast("tools.binary_sample_size", c.Tools.BinarySampleSize, 1)
	if c.Tools.CommandTimeoutSeconds > c.Tools.MaxCommandTimeoutSeconds {
		result = multierror.Append(result, fmt.Errorf("tools.command_timeout_seconds must be <= tools.max_command_timeout_seconds"))
	}

	// Tools - git
	atLeast("tools.git_timeout_seconds", c.Tools.GitTimeoutSeconds, 1)
	atLeast("tools.git_push_timeout_seconds", c.Tools.GitPushTimeoutSeconds, 1)
	atLeast("tools.git_diff_max_lines", c.Tools.GitDiffMaxLines, 1)
	atLeast("tools.git_log_default_count", c.Tools.GitLogDefaultCount, 1)
	atLeast("tools.git_log_max_count", c.Tools.GitLogMaxCount, 1)
	if c.Tools.GitLogDefaultCount > c.Tools.GitLogMaxCount {
		result = multierror.Append(result, fmt.Errorf("tools.git_log_default_count must be <= tools.git_log_max_count"))
	}

	// Tools - listing and search
	atLeast("tools.list_max_entries", c.Tools.ListMaxEntries, 1)
	atLeast("tools.list_max_depth", c.Tools.ListMaxDepth, 1)
	atLeast("tools.tree_default_depth", c.Tools.TreeDefaultDepth, 1)
	atLeast("tools.tree_max_lines", c.Tools.TreeMaxLines, 1)
	atLeast("tools.search_max_results", c.Tools.SearchMaxResults, 1)
	atLeast("tools.todo_max_results", c.Tools.TodoMaxResults, 1)

	// Log
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		result = multierror.Append(result, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		result = multierror.Append(result, fmt.Errorf("log.format %q is not one of text, json", c.Log.Format))
	}

	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}
