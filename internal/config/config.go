// Package config loads the CCLI YAML configuration.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/hashicorp/go-multierror"

	"ccli/internal/output"
)

// Config is the on-disk configuration. A HistoryLimit of -1 keeps every
// entry; zero means DefaultHistoryLimit.
type Config struct {
	Title        string            `yaml:"title"`
	Prompt       string            `yaml:"prompt"`
	HistoryLimit int               `yaml:"history_limit"`
	Persist      bool              `yaml:"persist"`
	StateFile    string            `yaml:"state_file"`
	LogFile      string            `yaml:"log_file"`
	Theme        Theme             `yaml:"theme"`
	Aliases      map[string]string `yaml:"aliases,omitempty"`
	Variables    map[string]string `yaml:"variables,omitempty"`
}

// Theme holds the hex colors used for each output style.
type Theme struct {
	Background string `yaml:"background"`
	Foreground string `yaml:"foreground"`
	Prompt     string `yaml:"prompt"`
	Error      string `yaml:"error"`
	Success    string `yaml:"success"`
	Info       string `yaml:"info"`
	Directory  string `yaml:"directory"`
}

const (
	DefaultTitle        = "CCLI - Custom Command Line Interface"
	DefaultPrompt       = "CCLI>"
	DefaultHistoryLimit = 1000
)

// DefaultTheme is the dark palette used when the config leaves colors empty.
var DefaultTheme = Theme{
	Background: "#0C0C0C",
	Foreground: "#CCCCCC",
	Prompt:     "#00FF00",
	Error:      "#FF5555",
	Success:    "#50FA7B",
	Info:       "#8BE9FD",
	Directory:  "#BD93F9",
}

// Color returns the hex color for style.
func (t Theme) Color(style output.Style) string {
	switch style {
	case output.Prompt:
		return t.Prompt
	case output.Error:
		return t.Error
	case output.Success:
		return t.Success
	case output.Info:
		return t.Info
	case output.Directory:
		return t.Directory
	default:
		return t.Foreground
	}
}

// Default returns the configuration used when no file exists.
func Default(home string) Config {
	return hydrateDefaults(Config{}, home)
}

func hydrateDefaults(cfg Config, home string) Config {
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}
	if cfg.Prompt == "" {
		cfg.Prompt = DefaultPrompt
	}
	if cfg.HistoryLimit == 0 {
		cfg.HistoryLimit = DefaultHistoryLimit
	}
	if cfg.StateFile == "" {
		cfg.StateFile = filepath.Join(home, ".ccli", "session.yaml")
	} else {
		cfg.StateFile = expandPath(cfg.StateFile, home)
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(home, ".ccli", "ccli.log")
	} else {
		cfg.LogFile = expandPath(cfg.LogFile, home)
	}
	t := &cfg.Theme
	for _, f := range []struct {
		dst *string
		def string
	}{
		{&t.Background, DefaultTheme.Background},
		{&t.Foreground, DefaultTheme.Foreground},
		{&t.Prompt, DefaultTheme.Prompt},
		{&t.Error, DefaultTheme.Error},
		{&t.Success, DefaultTheme.Success},
		{&t.Info, DefaultTheme.Info},
		{&t.Directory, DefaultTheme.Directory},
	} {
		if *f.dst == "" {
			*f.dst = f.def
		}
	}
	return cfg
}

// Validate reports every problem in cfg at once.
func (c Config) Validate() error {
	var result *multierror.Error
	if c.HistoryLimit < -1 {
		result = multierror.Append(result, fmt.Errorf("history_limit must be -1 (unbounded) or more, got %d", c.HistoryLimit))
	}
	if strings.TrimSpace(c.Prompt) == "" {
		result = multierror.Append(result, fmt.Errorf("prompt must not be blank"))
	}
	colors := map[string]string{
		"background": c.Theme.Background,
		"foreground": c.Theme.Foreground,
		"prompt":     c.Theme.Prompt,
		"error":      c.Theme.Error,
		"success":    c.Theme.Success,
		"info":       c.Theme.Info,
		"directory":  c.Theme.Directory,
	}
	for _, name := range []string{"background", "foreground", "prompt", "error", "success", "info", "directory"} {
		if !validColor(colors[name]) {
			result = multierror.Append(result, fmt.Errorf("theme.%s: invalid color %q", name, colors[name]))
		}
	}
	for name := range c.Aliases {
		if name == "" || strings.ContainsAny(name, " \t\"'") {
			result = multierror.Append(result, fmt.Errorf("aliases: invalid alias name %q", name))
		}
	}
	return result.ErrorOrNil()
}

func validColor(s string) bool {
	if !strings.HasPrefix(s, "#") || len(s) != 7 {
		return false
	}
	return tcell.GetColor(s) != tcell.ColorDefault
}

func expandPath(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return filepath.Clean(path)
}
