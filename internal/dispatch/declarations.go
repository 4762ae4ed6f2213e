package dispatch

import "github.com/Cyclone1070/toolgate/internal/tool"

func str(desc string) *tool.Schema  { return &tool.Schema{Type: tool.TypeString, Description: desc} }
func num(desc string) *tool.Schema  { return &tool.Schema{Type: tool.TypeInteger, Description: desc} }
func flag(desc string) *tool.Schema { return &tool.Schema{Type: tool.TypeBoolean, Description: desc} }

func object(required []string, props map[string]*tool.Schema) *tool.Schema {
	return &tool.Schema{Type: tool.TypeObject, Properties: props, Required: required}
}

var repoPath = str("Path to the repository (defaults to the project root)")

// declarations describes every tool to the intent source.
var declarations = map[tool.Name]tool.Declaration{
	tool.ReadFile: {
		Name:        string(tool.ReadFile),
		Description: "Read a text file. Fails for binary files and files over the size limit.",
		Parameters: object([]string{"path"}, map[string]*tool.Schema{
			"path": str("Path to the file, absolute or relative to the project root"),
		}),
	},
	tool.WriteFile: {
		Name:        string(tool.WriteFile),
		Description: "Create or overwrite a file, creating parent directories. Requires approval.",
		Parameters: object([]string{"path", "content"}, map[string]*tool.Schema{
			"path":    str("Path to the file, absolute or relative to the project root"),
			"content": str("Full content to write"),
		}),
	},
	tool.ListDir: {
		Name:        string(tool.ListDir),
		Description: "List a directory. Hidden and gitignored entries are skipped.",
		Parameters: object(nil, map[string]*tool.Schema{
			"path":      str("Directory to list (defaults to the project root)"),
			"recursive": flag("Descend into subdirectories up to the depth limit"),
		}),
	},
	tool.Search: {
		Name:        string(tool.Search),
		Description: "Case-insensitive text search across files in a directory.",
		Parameters: object([]string{"pattern"}, map[string]*tool.Schema{
			"directory":      str("Directory to search (defaults to the project root)"),
			"pattern":        str("Text to look for"),
			"file_extension": str("Only search files with this extension, e.g. .go"),
		}),
	},
	tool.GitStatus: {
		Name:        string(tool.GitStatus),
		Description: "Show the working tree status of a git repository.",
		Parameters:  object(nil, map[string]*tool.Schema{"repo_path": repoPath}),
	},
	tool.GitDiff: {
		Name:        string(tool.GitDiff),
		Description: "Show a summary and the diff of uncommitted changes.",
		Parameters: object(nil, map[string]*tool.Schema{
			"repo_path": repoPath,
			"staged":    flag("Diff the index instead of the working tree"),
		}),
	},
	tool.GitLog: {
		Name:        string(tool.GitLog),
		Description: "Show recent commits, one per line.",
		Parameters: object(nil, map[string]*tool.Schema{
			"repo_path": repoPath,
			"count":     num("Number of commits (default 10, max 30)"),
		}),
	},
	tool.GitCommit: {
		Name:        string(tool.GitCommit),
		Description: "Stage all changes and commit them. Requires approval.",
		Parameters: object([]string{"message"}, map[string]*tool.Schema{
			"repo_path": repoPath,
			"message":   str("Commit message"),
		}),
	},
	tool.GitPush: {
		Name:        string(tool.GitPush),
		Description: "Push the current branch to its upstream. Requires approval.",
		Parameters:  object(nil, map[string]*tool.Schema{"repo_path": repoPath}),
	},
	tool.RunCommand: {
		Name:        string(tool.RunCommand),
		Description: "Run a shell command with sh -c. Requires approval.",
		Parameters: object([]string{"command"}, map[string]*tool.Schema{
			"command":         str("Command line to run"),
			"cwd":             str("Working directory (defaults to the project root)"),
			"timeout_seconds": num("Timeout in seconds, capped by configuration"),
		}),
	},
	tool.Tree: {
		Name:        string(tool.Tree),
		Description: "Show a directory tree with file sizes.",
		Parameters: object(nil, map[string]*tool.Schema{
			"path":      str("Root of the tree (defaults to the project root)"),
			"max_depth": num("How many levels to show (default 3)"),
		}),
	},
	tool.TodoFind: {
		Name:        string(tool.TodoFind),
		Description: "Find TODO, FIXME, HACK and XXX comments in source files.",
		Parameters: object(nil, map[string]*tool.Schema{
			"path": str("Directory to scan (defaults to the project root)"),
		}),
	},
}

// Declarations returns every tool declaration in tool.Names order.
func Declarations() []tool.Declaration {
	out := make([]tool.Declaration, 0, len(tool.Names))
	for _, n := range tool.Names {
		out = append(out, declarations[n])
	}
	return out
}
