package shell

import (
	"slices"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Analysis summarises a shell command for the approval prompt.
type Analysis struct {
	// Programs lists the literal command names in order of first use.
	Programs     []string
	Pipeline     bool
	Redirect     bool
	Substitution bool
	Background   bool
}

// Notes renders the notable constructs, empty when there are none.
func (a *Analysis) Notes() []string {
	var notes []string
	if a.Pipeline {
		notes = append(notes, "pipeline")
	}
	if a.Redirect {
		notes = append(notes, "redirection")
	}
	if a.Substitution {
		notes = append(notes, "command substitution")
	}
	if a.Background {
		notes = append(notes, "background job")
	}
	return notes
}

// Analyze parses command as POSIX shell and walks the syntax tree.
func Analyze(command string) (*Analysis, error) {
	parser := syntax.NewParser(syntax.Variant(syntax.LangPOSIX))
	file, err := parser.Parse(strings.NewReader(command), "")
	if err != nil {
		return nil, &ParseError{Command: command, Cause: err}
	}

	a := &Analysis{}
	syntax.Walk(file, func(node syntax.Node) bool {
		switch n := node.(type) {
		case *syntax.Stmt:
			if n.Background {
				a.Background = true
			}
		case *syntax.CallExpr:
			if len(n.Args) > 0 {
				if name := n.Args[0].Lit(); name != "" && !slices.Contains(a.Programs, name) {
					a.Programs = append(a.Programs, name)
				}
			}
		case *syntax.Redirect:
			a.Redirect = true
		case *syntax.CmdSubst, *syntax.Subshell:
			a.Substitution = true
		case *syntax.BinaryCmd:
			if n.Op == syntax.Pipe || n.Op == syntax.PipeAll {
				a.Pipeline = true
			}
		}
		return true
	})
	return a, nil
}
