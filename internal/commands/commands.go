// Package commands implements the built-in commands and the registry the
// executor dispatches through.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"

	"ccli/internal/output"
	"ccli/internal/session"
)

var (
	// ErrExit asks the front-end to leave.
	ErrExit = errors.New("exit")
	// ErrClear asks the front-end to wipe its output.
	ErrClear = errors.New("clear")
	// ErrDuplicateCommand is returned when a name is registered twice.
	ErrDuplicateCommand = errors.New("command already registered")
)

// UsageError reports malformed arguments.
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string {
	return "Usage: " + e.Usage
}

// Shell is the state handed to every handler.
type Shell struct {
	Env      *session.Env
	Fs       afero.Fs
	Out      output.Writer
	Registry *Registry
	Now      func() time.Time
}

// NewShell wires a shell around env with the real clock.
func NewShell(env *session.Env, fsys afero.Fs, out output.Writer, reg *Registry) *Shell {
	return &Shell{Env: env, Fs: fsys, Out: out, Registry: reg, Now: time.Now}
}

func (sh *Shell) print(style output.Style, format string, args ...any) {
	sh.Out.Write(style, fmt.Sprintf(format, args...))
}

// HandlerFunc runs a command with its arguments (the command word excluded).
type HandlerFunc func(ctx context.Context, sh *Shell, args []string) error

// Section groups commands in help output.
type Section int

const (
	FileOperations Section = iota
	TextOperations
	System
	Utilities
)

func (s Section) String() string {
	switch s {
	case FileOperations:
		return "FILE OPERATIONS"
	case TextOperations:
		return "TEXT OPERATIONS"
	case System:
		return "SYSTEM"
	default:
		return "UTILITIES"
	}
}

// Command describes one built-in.
type Command struct {
	Name     string
	Synonyms []string
	// Args is the argument synopsis, e.g. "FILE [N]".
	Args    string
	Summary string
	Section Section
	// Completes marks commands whose first argument is a path.
	Completes bool
	Run       HandlerFunc
}

// Usage returns the command word followed by its argument synopsis.
func (c *Command) Usage() string {
	if c.Args == "" {
		return c.Name
	}
	return c.Name + " " + c.Args
}

// Names returns the command name followed by its synonyms.
func (c *Command) Names() []string {
	return append([]string{c.Name}, c.Synonyms...)
}

// Registry maps command words to commands.
type Registry struct {
	commands []*Command
	byName   map[string]*Command
}

// NewRegistry builds a registry from cmds.
func NewRegistry(cmds ...*Command) (*Registry, error) {
	r := &Registry{byName: make(map[string]*Command)}
	for _, c := range cmds {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds c under its name and synonyms.
func (r *Registry) Register(c *Command) error {
	for _, n := range c.Names() {
		if _, ok := r.byName[n]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateCommand, n)
		}
	}
	for _, n := range c.Names() {
		r.byName[n] = c
	}
	r.commands = append(r.commands, c)
	return nil
}

// Lookup finds a command by name or synonym.
func (r *Registry) Lookup(name string) (*Command, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Commands returns the commands in registration order.
func (r *Registry) Commands() []*Command {
	return append([]*Command(nil), r.commands...)
}

// Names returns every command word, synonyms included, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Default returns a registry holding every built-in.
func Default() *Registry {
	r, err := NewRegistry(Builtins()...)
	if err != nil {
		panic(err)
	}
	return r
}

// Builtins returns fresh definitions of all built-in commands.
func Builtins() []*Command {
	cmds := []*Command{}
	cmds = append(cmds, fileCommands()...)
	cmds = append(cmds, textCommands()...)
	cmds = append(cmds, systemCommands()...)
	cmds = append(cmds, utilityCommands()...)
	return cmds
}

// pathError rewrites filesystem errors to "<cmd>: <arg>: <reason>" using the
// path as the user typed it.
func pathError(cmd, arg string, err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return fmt.Errorf("%s: %s: %w", cmd, arg, pe.Err)
	}
	var le *os.LinkError
	if errors.As(err, &le) {
		return fmt.Errorf("%s: %s: %w", cmd, arg, le.Err)
	}
	return fmt.Errorf("%s: %s: %w", cmd, arg, err)
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
