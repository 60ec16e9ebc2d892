// Package console is the line-mode front-end. It serves interactive
// sessions through readline, scripts read from a pipe, and single commands.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"

	"ccli/internal/commands"
	"ccli/internal/config"
	"ccli/internal/executor"
	"ccli/internal/output"
)

const clearScreen = "\x1b[H\x1b[2J"

// Console writes command output to out, colored when out is a terminal.
type Console struct {
	cfg       config.Config
	exec      *executor.Executor
	completer readline.AutoCompleter

	mu     sync.Mutex
	out    io.Writer
	styles map[output.Style]lipgloss.Style
}

// New returns a console that installs itself as the executor's output.
func New(cfg config.Config, x *executor.Executor, completer readline.AutoCompleter, out io.Writer) *Console {
	r := lipgloss.NewRenderer(out)
	c := &Console{
		cfg:       cfg,
		exec:      x,
		completer: completer,
		out:       out,
		styles:    make(map[output.Style]lipgloss.Style),
	}
	for _, s := range []output.Style{output.Plain, output.Prompt, output.Error, output.Success, output.Info, output.Directory} {
		c.styles[s] = r.NewStyle().Foreground(lipgloss.Color(cfg.Theme.Color(s)))
	}
	c.styles[output.Prompt] = c.styles[output.Prompt].Bold(true)
	c.styles[output.Directory] = c.styles[output.Directory].Bold(true)
	x.Shell().Out = output.WriterFunc(c.write)
	return c
}

// write renders text line by line so styling never spans a newline.
func (c *Console) write(style output.Style, text string) {
	st := c.styles[style]
	var sb strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		body := strings.TrimSuffix(line, "\n")
		if body != "" {
			sb.WriteString(st.Render(body))
		}
		if len(body) < len(line) {
			sb.WriteByte('\n')
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	io.WriteString(c.out, sb.String())
}

// Interactive reads lines with editing, history and Tab completion until
// exit or end of input. Ctrl+C cancels the running command only.
func (c *Console) Interactive(ctx context.Context) error {
	historyLimit := c.cfg.HistoryLimit
	if historyLimit < 0 {
		historyLimit = 0
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          c.styles[output.Prompt].Render(c.cfg.Prompt) + " ",
		HistoryLimit:    historyLimit,
		AutoComplete:    c.completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("starting line editor: %w", err)
	}
	defer rl.Close()

	c.write(output.Info, commands.Welcome(c.cfg.Title))
	for ctx.Err() == nil {
		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}

		cmdCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
		err = c.exec.Submit(cmdCtx, line)
		stop()
		switch {
		case errors.Is(err, commands.ErrExit):
			return nil
		case errors.Is(err, commands.ErrClear):
			c.clear(true)
		}
	}
	return nil
}

// Script runs every line of r. Blank lines and lines starting with '#'
// are skipped; exit stops early.
func (c *Console) Script(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		err := c.exec.Submit(ctx, line)
		switch {
		case errors.Is(err, commands.ErrExit):
			return nil
		case errors.Is(err, commands.ErrClear):
			c.clear(false)
		}
	}
	return scanner.Err()
}

// Exec runs a single line. The returned error has already been printed.
func (c *Console) Exec(ctx context.Context, line string) error {
	err := c.exec.Submit(ctx, line)
	if errors.Is(err, commands.ErrExit) || errors.Is(err, commands.ErrClear) {
		return nil
	}
	return err
}

func (c *Console) clear(screen bool) {
	if screen {
		c.mu.Lock()
		io.WriteString(c.out, clearScreen)
		c.mu.Unlock()
	}
	c.write(output.Info, commands.Welcome(c.cfg.Title))
}
