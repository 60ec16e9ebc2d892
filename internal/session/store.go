package session

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// State is what a Store keeps between runs. History is never persisted.
type State struct {
	Aliases   map[string]string `yaml:"aliases,omitempty"`
	Variables map[string]string `yaml:"variables,omitempty"`
}

// Store reads and writes State as YAML.
type Store struct {
	fs   afero.Fs
	path string
}

// NewStore returns a store backed by path on fs.
func NewStore(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load merges the saved aliases and variables into env. A missing file is
// not an error.
func (s *Store) Load(env *Env) error {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading session state: %w", err)
	}
	var st State
	if err := yaml.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("parsing session state %s: %w", s.path, err)
	}
	for k, v := range st.Aliases {
		env.SetAlias(k, v)
	}
	for k, v := range st.Variables {
		if k == "PWD" {
			continue
		}
		env.SetVariable(k, v)
	}
	return nil
}

// Save writes the aliases and the user set variables of env.
func (s *Store) Save(env *Env) error {
	st := State{
		Aliases:   make(map[string]string),
		Variables: make(map[string]string),
	}
	for _, p := range env.Aliases() {
		st.Aliases[p.Name] = p.Value
	}
	for _, p := range env.UserVariables() {
		st.Variables[p.Name] = p.Value
	}
	raw, err := yaml.Marshal(st)
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(s.fs, s.path, raw, 0o600)
}
