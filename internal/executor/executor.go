// Package executor turns submitted command lines into command invocations.
//
// A line is tokenized, alias-expanded, variable-expanded and dispatched to
// the registry held by the shell. Failures are reported on the shell's
// output in error style; only commands.ErrExit and commands.ErrClear are
// meaningful to the caller.
package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"ccli/internal/commands"
	"ccli/internal/ctxlog"
	"ccli/internal/output"
	"ccli/internal/tokenizer"
)

// ErrUnknownCommand matches errors for command words with no handler.
var ErrUnknownCommand = errors.New("unknown command")

type unknownCommandError struct {
	name string
}

func (e *unknownCommandError) Error() string {
	return fmt.Sprintf("Unknown command: %s. Type 'help' for available commands.", e.name)
}

func (e *unknownCommandError) Is(target error) bool {
	return target == ErrUnknownCommand
}

type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("Error: %v", e.value)
}

// Executor dispatches command lines against a shell.
type Executor struct {
	shell *commands.Shell
}

// New returns an executor running commands against sh.
func New(sh *commands.Shell) *Executor {
	return &Executor{shell: sh}
}

// Shell returns the shell commands run against.
func (x *Executor) Shell() *commands.Shell {
	return x.shell
}

// Submit handles a line typed by the user: "last" is replaced by the
// previous line, the result is recorded in history and then run.
func (x *Executor) Submit(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if fields := strings.Fields(line); strings.EqualFold(fields[0], "last") {
		prev := x.shell.Env.LastCommand()
		if prev == "" {
			x.shell.Out.Write(output.Info, "No previous command to execute.\n")
			return nil
		}
		x.shell.Out.Write(output.Info, fmt.Sprintf("Executing: %s\n", prev))
		line = prev
	}
	x.shell.Env.AddHistory(line)
	return x.Run(ctx, line)
}

// Run executes line without touching history. Errors other than the
// front-end sentinels have already been written to the output when Run
// returns them.
func (x *Executor) Run(ctx context.Context, line string) error {
	tokens, err := tokenizer.Tokenize(line)
	if err != nil {
		return x.report(fmt.Errorf("parse error: %w", err))
	}
	tokens, err = x.expandAliases(tokens)
	if err != nil {
		return x.report(err)
	}
	if len(tokens) == 0 {
		return nil
	}
	words := x.expandVariables(tokens)
	name := strings.ToLower(words[0])
	args := words[1:]

	cmd, ok := x.shell.Registry.Lookup(name)
	if !ok {
		ctxlog.Debug(ctx, "unknown command", "command", name)
		return x.report(&unknownCommandError{name: name})
	}

	start := time.Now()
	err = x.call(ctx, cmd, args)
	ctxlog.Debug(ctx, "dispatch", "command", cmd.Name, "args", len(args), "duration", time.Since(start))
	if err != nil && !isSentinel(err) {
		ctxlog.Debug(ctx, "command failed", "command", cmd.Name, "error", err)
	}
	return x.report(err)
}

func (x *Executor) call(ctx context.Context, cmd *commands.Command, args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			ctxlog.Error(ctx, "command panicked", "command", cmd.Name, "panic", r)
			err = &panicError{value: r}
		}
	}()
	return cmd.Run(ctx, x.shell, args)
}

// expandAliases replaces the command word while it names an alias. Each
// alias is expanded at most once so self-referencing aliases terminate.
func (x *Executor) expandAliases(tokens []tokenizer.Token) ([]tokenizer.Token, error) {
	seen := make(map[string]bool)
	for len(tokens) > 0 {
		name := strings.ToLower(tokens[0].Value)
		text, ok := x.shell.Env.Alias(name)
		if !ok || seen[name] {
			break
		}
		seen[name] = true
		head, err := tokenizer.Tokenize(text)
		if err != nil {
			return nil, fmt.Errorf("alias %s: %w", name, err)
		}
		tokens = append(head, tokens[1:]...)
	}
	return tokens, nil
}

func (x *Executor) expandVariables(tokens []tokenizer.Token) []string {
	words := make([]string, len(tokens))
	for i, t := range tokens {
		if t.Literal || !strings.Contains(t.Value, "$") {
			words[i] = t.Value
			continue
		}
		words[i] = os.Expand(t.Value, x.shell.Env.Lookup)
	}
	return words
}

// report writes err in error style unless it is a front-end sentinel.
func (x *Executor) report(err error) error {
	if err == nil || isSentinel(err) {
		return err
	}
	x.shell.Out.Write(output.Error, strings.TrimRight(err.Error(), "\n")+"\n")
	return err
}

func isSentinel(err error) bool {
	return errors.Is(err, commands.ErrExit) || errors.Is(err, commands.ErrClear)
}
