package directory

import (
	"fmt"
	"strings"

	"github.com/Cyclone1070/toolgate/internal/config"
)

// -- List Directory --

type ListDirRequest struct {
	Path      string `mapstructure:"path"`
	Recursive bool   `mapstructure:"recursive"`
}

func (r *ListDirRequest) Validate(cfg *config.Config) error {
	return nil
}

// Entry is one line of a listing. Depth is 0 for direct children.
type Entry struct {
	Name  string
	IsDir bool
	Depth int
}

type ListDirResponse struct {
	Path      string
	Entries   []Entry
	Truncated bool
	Limit     int
}

func (r *ListDirResponse) LLMContent() string {
	if len(r.Entries) == 0 {
		return fmt.Sprintf("Directory %s is empty", r.Path)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Contents of %s:", r.Path)
	for _, e := range r.Entries {
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat("  ", e.Depth+1))
		sb.WriteString(e.Name)
		if e.IsDir {
			sb.WriteString("/")
		}
	}
	if r.Truncated {
		fmt.Fprintf(&sb, "\n... (truncated at %d entries)", r.Limit)
	}
	return sb.String()
}

// -- Tree --

type TreeRequest struct {
	Path     string `mapstructure:"path"`
	MaxDepth int    `mapstructure:"max_depth"`
}

func (r *TreeRequest) Validate(cfg *config.Config) error {
	if r.MaxDepth < 0 {
		return ErrNegativeDepth
	}
	return nil
}

type TreeResponse struct {
	Path      string
	Lines     []string
	Truncated bool
}

func (r *TreeResponse) LLMContent() string {
	out := strings.Join(r.Lines, "\n")
	if r.Truncated {
		out += "\n... (truncated)"
	}
	return out
}
