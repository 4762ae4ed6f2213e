package config

import "time"

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Gateway GatewayConfig `json:"gateway" yaml:"gateway"`
	Tools   ToolsConfig   `json:"tools" yaml:"tools"`
	Log     LogConfig     `json:"log" yaml:"log"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
}

// GatewayConfig covers the sandbox and approval policy.
type GatewayConfig struct {
	// Directories every path argument must resolve into.
	AllowedDirectories []string `json:"allowed_directories" yaml:"allowed_directories"`
	// Base for relative paths. Empty means the first allowed directory.
	ProjectRoot string `json:"project_root" yaml:"project_root"`

	RequireConfirmation       bool `json:"require_confirmation" yaml:"require_confirmation"`               // Default: true
	ConfirmationWindowSeconds int  `json:"confirmation_window_seconds" yaml:"confirmation_window_seconds"` // Default: 60
	MaxHistoryLen             int  `json:"max_history_len" yaml:"max_history_len"`                         // Default: 20
	MaxFileSizeKB             int  `json:"max_file_size_kb" yaml:"max_file_size_kb"`                       // Default: 500
}

type ToolsConfig struct {
	// Command Execution
	CommandTimeoutSeconds    int `json:"command_timeout_seconds" yaml:"command_timeout_seconds"`         // Default: 30
	MaxCommandTimeoutSeconds int `json:"max_command_timeout_seconds" yaml:"max_command_timeout_seconds"` // Default: 600
	MaxCommandOutputBytes    int `json:"max_command_output_bytes" yaml:"max_command_output_bytes"`       // Default: 3000
	KillGraceMs              int `json:"kill_grace_ms" yaml:"kill_grace_ms"`                             // Default: 500
	BinarySampleSize         int `json:"binary_sample_size" yaml:"binary_sample_size"`                   // Default: 8000

	// Git
	GitTimeoutSeconds     int `json:"git_timeout_seconds" yaml:"git_timeout_seconds"`           // Default: 15
	GitPushTimeoutSeconds int `json:"git_push_timeout_seconds" yaml:"git_push_timeout_seconds"` // Default: 30
	GitDiffMaxLines       int `json:"git_diff_max_lines" yaml:"git_diff_max_lines"`             // Default: 100
	GitLogDefaultCount    int `json:"git_log_default_count" yaml:"git_log_default_count"`       // Default: 10
	GitLogMaxCount        int `json:"git_log_max_count" yaml:"git_log_max_count"`               // Default: 30

	// Directory Listing
	ListMaxEntries   int `json:"list_max_entries" yaml:"list_max_entries"`     // Default: 200
	ListMaxDepth     int `json:"list_max_depth" yaml:"list_max_depth"`         // Default: 3
	TreeDefaultDepth int `json:"tree_default_depth" yaml:"tree_default_depth"` // Default: 3
	TreeMaxLines     int `json:"tree_max_lines" yaml:"tree_max_lines"`         // Default: 150

	// Search
	SearchMaxResults int `json:"search_max_results" yaml:"search_max_results"` // Default: 50
	TodoMaxResults   int `json:"todo_max_results" yaml:"todo_max_results"`     // Default: 50

	RespectGitignore bool `json:"respect_gitignore" yaml:"respect_gitignore"` // Default: true
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`   // Default: info
	Format string `json:"format" yaml:"format"` // Default: text
}

type MetricsConfig struct {
	// Empty disables the HTTP endpoint; metrics are still collected.
	ListenAddr string `json:"listen_addr" yaml:"listen_addr"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Gateway: GatewayConfig{
			RequireConfirmation:       true,
			ConfirmationWindowSeconds: 60,
			MaxHistoryLen:             20,
			MaxFileSizeKB:             500,
		},
		Tools: ToolsConfig{
			CommandTimeoutSeconds:    30,
			MaxCommandTimeoutSeconds: 600,
			MaxCommandOutputBytes:    3000,
			KillGraceMs:              500,
			BinarySampleSize:         8000,
			GitTimeoutSeconds:        15,
			GitPushTimeoutSeconds:    30,
			GitDiffMaxLines:          100,
			GitLogDefaultCount:       10,
			GitLogMaxCount:           30,
			ListMaxEntries:           200,
			ListMaxDepth:             3,
			TreeDefaultDepth:         3,
			TreeMaxLines:             150,
			SearchMaxResults:         50,
			TodoMaxResults:           50,
			RespectGitignore:         true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// ConfirmationWindow is the lifetime of a pending approval.
func (c *Config) ConfirmationWindow() time.Duration {
	return time.Duration(c.Gateway.ConfirmationWindowSeconds) * time.Second
}

// MaxFileSizeBytes is the read/write ceiling derived from max_file_size_kb.
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.Gateway.MaxFileSizeKB) * 1024
}

// EffectiveProjectRoot returns the configured project root or the first allowed directory.
func (c *Config) EffectiveProjectRoot() string {
	if c.Gateway.ProjectRoot != "" {
		return c.Gateway.ProjectRoot
	}
	if len(c.Gateway.AllowedDirectories) > 0 {
		return c.Gateway.AllowedDirectories[0]
	}
	return ""
}
