package installer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// Command is an executable name plus its arguments.
type Command struct {
	Name string
	Args []string
}

// String renders the command the way a user would type it.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Rule maps a lockfile marker to the command that installs from it.
type Rule struct {
	Marker  string
	Command Command
}

// DefaultRules is the lockfile precedence used by the scaffolder.
var DefaultRules = []Rule{
	{Marker: "pnpm-lock.yaml", Command: Command{Name: "pnpm", Args: []string{"install"}}},
	{Marker: "yarn.lock", Command: Command{Name: "yarn"}},
}

// DefaultFallback runs when no rule marker is present.
var DefaultFallback = Command{Name: "npm", Args: []string{"install"}}

// Select returns the command of the first rule whose marker exists in dir,
// or fallback when none does.
func Select(dir string, rules []Rule, fallback Command) Command {
	for _, r := range rules {
		if _, err := os.Stat(filepath.Join(dir, r.Marker)); err == nil {
			return r.Command
		}
	}
	return fallback
}

// Runner executes a command inside a directory.
type Runner interface {
	Run(ctx context.Context, dir string, cmd Command) error
}
