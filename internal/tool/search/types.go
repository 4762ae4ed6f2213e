package search

import (
	"fmt"
	"strings"

	"github.com/Cyclone1070/toolgate/internal/config"
)

// SearchRequest represents the parameters for a search operation.
type SearchRequest struct {
	Directory     string `mapstructure:"directory"`
	Pattern       string `mapstructure:"pattern"`
	FileExtension string `mapstructure:"file_extension"`
}

func (r *SearchRequest) Validate(cfg *config.Config) error {
	if r.Pattern == "" {
		return ErrPatternRequired
	}
	return nil
}

// Match is a single matching line.
type Match struct {
	File        string // relative to the searched directory
	LineNumber  int
	LineContent string
}

// SearchResponse contains the result of a search operation.
type SearchResponse struct {
	Directory     string
	Pattern       string
	Matches       []Match
	HitMaxResults bool
}

func (r *SearchResponse) LLMContent() string {
	if len(r.Matches) == 0 {
		return fmt.Sprintf("No matches found for '%s' in %s", r.Pattern, r.Directory)
	}
	lines := make([]string, 0, len(r.Matches)+1)
	for _, m := range r.Matches {
		lines = append(lines, fmt.Sprintf("%s:%d: %s", m.File, m.LineNumber, m.LineContent))
	}
	if r.HitMaxResults {
		lines = append(lines, "... (results truncated)")
	}
	return strings.Join(lines, "\n")
}
