package console

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrUnknownCommand = errors.New("unknown command")

const helpText = `Commands:
  /status                  show the allow-list and approval policy
  /pending                 list approvals waiting for an answer
  /approve [id]            approve the oldest (or the given) approval
  /deny [id]               deny the oldest (or the given) approval
  /history [conversation]  show recorded calls
  /clear [conversation]    drop recorded calls
  /roots dir[,dir...]      replace the allowed directories
  /quit                    leave the console

Requests are JSON, one per line:
  {"conversation_id": "c1", "name": "read_file", "args": {"path": "README.md"}}
  {"conversation_id": "c1", "content": {"role": "model", "parts": [{"functionCall": {...}}]}}`

// Command runs one slash command. quit reports whether the console should stop.
func (c *Console) Command(line string) (out string, quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false, ErrUnknownCommand
	}
	arg := func(def string) string {
		if len(fields) > 1 {
			return fields[1]
		}
		return def
	}

	switch fields[0] {
	case "/help":
		return helpText, false, nil
	case "/quit", "/exit":
		return "", true, nil
	case "/status":
		return c.renderer.Status(c.gw.Status()), false, nil
	case "/pending":
		return c.renderer.Pending(c.approvals.Pending(), time.Now()), false, nil
	case "/approve", "/deny":
		approve := fields[0] == "/approve"
		req, err := c.Answer(arg(""), approve)
		if err != nil {
			return "", false, err
		}
		verb := "Denied"
		if approve {
			verb = "Approved"
		}
		return fmt.Sprintf("%s %s (%s)", verb, req.Tool, req.ID), false, nil
	case "/history":
		conv := arg(c.conversation)
		return c.renderer.History(conv, c.gw.History(conv)), false, nil
	case "/clear":
		conv := arg(c.conversation)
		if !c.gw.Clear(conv) {
			return fmt.Sprintf("No conversation %s", conv), false, nil
		}
		return fmt.Sprintf("Cleared conversation %s", conv), false, nil
	case "/roots":
		if len(fields) < 2 {
			return "", false, fmt.Errorf("/roots needs at least one directory")
		}
		var roots []string
		for _, r := range strings.Split(strings.Join(fields[1:], " "), ",") {
			if r = strings.TrimSpace(r); r != "" {
				roots = append(roots, r)
			}
		}
		if err := c.gw.SetAllowedRoots(roots, ""); err != nil {
			return "", false, err
		}
		return "Allowed directories: " + strings.Join(c.gw.Status().AllowedRoots, ", "), false, nil
	default:
		return "", false, fmt.Errorf("%w: %s", ErrUnknownCommand, fields[0])
	}
}
