package gitcmd

import (
	"strings"

	"github.com/Cyclone1070/toolgate/internal/config"
)

type StatusRequest struct {
	RepoPath string `mapstructure:"repo_path"`
}

func (r *StatusRequest) Validate(cfg *config.Config) error { return nil }

type DiffRequest struct {
	RepoPath string `mapstructure:"repo_path"`
	Staged   bool   `mapstructure:"staged"`
}

func (r *DiffRequest) Validate(cfg *config.Config) error { return nil }

type LogRequest struct {
	RepoPath string `mapstructure:"repo_path"`
	Count    int    `mapstructure:"count"`
}

// Validate defaults and caps Count.
func (r *LogRequest) Validate(cfg *config.Config) error {
	if r.Count < 0 {
		return ErrNegativeCount
	}
	if r.Count == 0 {
		r.Count = cfg.Tools.GitLogDefaultCount
	}
	r.Count = min(r.Count, cfg.Tools.GitLogMaxCount)
	return nil
}

type CommitRequest struct {
	RepoPath string `mapstructure:"repo_path"`
	Message  string `mapstructure:"message"`
}

func (r *CommitRequest) Validate(cfg *config.Config) error {
	if strings.TrimSpace(r.Message) == "" {
		return ErrMessageRequired
	}
	return nil
}

type PushRequest struct {
	RepoPath string `mapstructure:"repo_path"`
}

func (r *PushRequest) Validate(cfg *config.Config) error { return nil }

// Response is the text output of one git operation.
type Response struct {
	Root   string
	Branch string
	Output string
}

func (r *Response) LLMContent() string {
	return r.Output
}
