// Package session holds the per-process shell state: variables, working
// directory, command history and aliases.
package session

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// DefaultPath seeds PATH when the process environment has none.
const DefaultPath = "/usr/local/bin:/usr/bin:/bin"

// Env is the mutable session state. It is safe for concurrent use; the UI
// reads history while a command is running on another goroutine.
type Env struct {
	mu           sync.RWMutex
	variables    map[string]string
	aliases      map[string]string
	history      []string
	historyLimit int
	dir          string
	home         string
	// seeded holds the values taken from the process at start-up.
	seeded map[string]string
}

// NewEnv creates the session state rooted at dir. A historyLimit <= 0
// keeps every entry.
func NewEnv(dir, home string, historyLimit int) *Env {
	path := os.Getenv("PATH")
	if path == "" {
		path = DefaultPath
	}
	e := &Env{
		variables:    map[string]string{"PATH": path},
		aliases:      make(map[string]string),
		historyLimit: historyLimit,
		dir:          filepath.Clean(dir),
		home:         home,
	}
	if home != "" {
		e.variables["HOME"] = home
	}
	if u := os.Getenv("USER"); u != "" {
		e.variables["USER"] = u
	}
	e.seeded = make(map[string]string, len(e.variables))
	for k, v := range e.variables {
		e.seeded[k] = v
	}
	return e
}

// SetVariable sets a session variable.
func (e *Env) SetVariable(name, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.variables[name] = value
}

// Variable returns a session variable.
func (e *Env) Variable(name string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.variables[name]
	return v, ok
}

// UnsetVariable removes a session variable and reports whether it existed.
func (e *Env) UnsetVariable(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.variables[name]
	delete(e.variables, name)
	return ok
}

// Variables returns the session variables sorted by name.
func (e *Env) Variables() []Pair {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return sortedPairs(e.variables)
}

// UserVariables returns the variables worth keeping across runs: PWD and
// values still equal to what was seeded from the process are left out.
func (e *Env) UserVariables() []Pair {
	e.mu.RLock()
	defer e.mu.RUnlock()
	kept := make(map[string]string, len(e.variables))
	for k, v := range e.variables {
		if k == "PWD" {
			continue
		}
		if seed, ok := e.seeded[k]; ok && seed == v {
			continue
		}
		kept[k] = v
	}
	return sortedPairs(kept)
}

// Lookup resolves name for $VAR expansion: session variables first, then
// the process environment.
func (e *Env) Lookup(name string) string {
	if v, ok := e.Variable(name); ok {
		return v
	}
	return os.Getenv(name)
}

// Dir returns the working directory.
func (e *Env) Dir() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.dir
}

// SetDir changes the working directory. dir must already be absolute.
func (e *Env) SetDir(dir string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dir = filepath.Clean(dir)
	e.variables["PWD"] = e.dir
}

// Resolve turns a user supplied path into an absolute one. "~" and "~/"
// refer to the home directory; relative paths are taken from Dir.
func (e *Env) Resolve(path string) string {
	switch {
	case path == "":
		return e.Dir()
	case path == "~":
		return e.home
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(e.home, path[2:])
	case filepath.IsAbs(path):
		return filepath.Clean(path)
	default:
		return filepath.Join(e.Dir(), path)
	}
}

// AddHistory appends a command line, dropping the oldest entry once the
// limit is reached.
func (e *Env) AddHistory(line string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history = append(e.history, line)
	if e.historyLimit > 0 && len(e.history) > e.historyLimit {
		e.history = append([]string(nil), e.history[len(e.history)-e.historyLimit:]...)
	}
}

// History returns a copy of the history, oldest first.
func (e *Env) History() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]string(nil), e.history...)
}

// HistoryLen returns the number of history entries.
func (e *Env) HistoryLen() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.history)
}

// LastCommand returns the newest history entry, or "".
func (e *Env) LastCommand() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if len(e.history) == 0 {
		return ""
	}
	return e.history[len(e.history)-1]
}

// SetAlias defines or replaces an alias.
func (e *Env) SetAlias(name, command string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.aliases[name] = command
}

// Alias returns the expansion of name.
func (e *Env) Alias(name string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	c, ok := e.aliases[name]
	return c, ok
}

// RemoveAlias deletes an alias and reports whether it existed.
func (e *Env) RemoveAlias(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.aliases[name]
	delete(e.aliases, name)
	return ok
}

// Aliases returns all aliases sorted by name.
func (e *Env) Aliases() []Pair {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return sortedPairs(e.aliases)
}

// Pair is a name/value entry from Variables or Aliases.
type Pair struct {
	Name  string
	Value string
}

func sortedPairs(m map[string]string) []Pair {
	out := make([]Pair, 0, len(m))
	for k, v := range m {
		out = append(out, Pair{Name: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
