package todo

import (
	"fmt"
	"strings"

	"github.com/Cyclone1070/toolgate/internal/config"
)

// Markers are checked in order; a line is reported under the first one it contains.
var Markers = []string{"TODO", "FIXME", "HACK", "XXX"}

// Extensions lists the source files that are scanned.
var Extensions = []string{".py", ".js", ".ts", ".go", ".rs", ".java", ".md"}

type FindRequest struct {
	Path string `mapstructure:"path"`
}

func (r *FindRequest) Validate(cfg *config.Config) error {
	return nil
}

// Item is a single marker comment.
type Item struct {
	Marker string
	File   string
	Line   int
	Text   string
}

type FindResponse struct {
	Items         []Item
	HitMaxResults bool
}

func (r *FindResponse) LLMContent() string {
	if len(r.Items) == 0 {
		return "No TODO/FIXME/HACK/XXX comments found"
	}
	lines := make([]string, 0, len(r.Items)+1)
	for _, it := range r.Items {
		lines = append(lines, fmt.Sprintf("[%s] %s:%d: %s", it.Marker, it.File, it.Line, it.Text))
	}
	if r.HitMaxResults {
		lines = append(lines, "... (results truncated)")
	}
	return strings.Join(lines, "\n")
}
