package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ccli/internal/output"
)

func utilityCommands() []*Command {
	return []*Command{
		{Name: "calc", Args: "EXPRESSION", Summary: "Calculate mathematical expression", Section: Utilities, Run: runCalc},
		{Name: "sleep", Args: "SECONDS", Summary: "Pause for specified seconds", Section: Utilities, Run: runSleep},
		{Name: "alias", Args: "[NAME] [COMMAND]", Summary: "Show or define aliases ('$VAR' expands on use)", Section: Utilities, Run: runAlias},
		{Name: "unalias", Args: "NAME...", Summary: "Remove aliases", Section: Utilities, Run: runUnalias},
		{Name: "history", Summary: "Show command history", Section: Utilities, Run: runHistory},
		{Name: "last", Summary: "Execute last command", Section: Utilities, Run: runLast},
		{Name: "help", Args: "[COMMAND]", Summary: "Show this help or one command's usage", Section: Utilities, Run: runHelp},
		{Name: "clear", Synonyms: []string{"cls"}, Summary: "Clear screen", Section: Utilities, Run: runClear},
		{Name: "exit", Synonyms: []string{"quit"}, Summary: "Exit CCLI", Section: Utilities, Run: runExit},
	}
}

func runHistory(_ context.Context, sh *Shell, _ []string) error {
	history := sh.Env.History()
	if len(history) == 0 {
		sh.print(output.Info, "No command history available.\n")
		return nil
	}
	for i, line := range history {
		sh.print(output.Plain, "%d: %s\n", i+1, line)
	}
	return nil
}

// runLast is reached only through an alias; the executor handles a leading
// "last" itself.
func runLast(_ context.Context, _ *Shell, _ []string) error {
	return errors.New("last: must be the first word of a command line")
}

func runClear(context.Context, *Shell, []string) error {
	return ErrClear
}

func runExit(context.Context, *Shell, []string) error {
	return ErrExit
}

func runAlias(_ context.Context, sh *Shell, args []string) error {
	switch {
	case len(args) == 0:
		aliases := sh.Env.Aliases()
		if len(aliases) == 0 {
			sh.print(output.Info, "No aliases defined\n")
			return nil
		}
		for _, a := range aliases {
			sh.print(output.Plain, "%s='%s'\n", a.Name, a.Value)
		}
	case len(args) == 1 && strings.Contains(args[0], "="):
		name, command, _ := strings.Cut(args[0], "=")
		return defineAlias(sh, name, command)
	case len(args) == 1:
		name := strings.ToLower(args[0])
		if command, ok := sh.Env.Alias(name); ok {
			sh.print(output.Plain, "%s='%s'\n", name, command)
		} else {
			sh.print(output.Info, "Alias not found: %s\n", args[0])
		}
	default:
		words := make([]string, len(args)-1)
		for i, a := range args[1:] {
			words[i] = quoteWord(a)
		}
		return defineAlias(sh, args[0], joinArgs(words))
	}
	return nil
}

// defineAlias stores name lower-cased, matching how command words are looked up.
func defineAlias(sh *Shell, name, command string) error {
	name = strings.ToLower(name)
	if name == "" || strings.ContainsAny(name, " \t\"'") {
		return fmt.Errorf("alias: invalid alias name: %q", name)
	}
	if strings.TrimSpace(command) == "" {
		return &UsageError{Usage: "alias NAME COMMAND"}
	}
	sh.Env.SetAlias(name, command)
	sh.print(output.Success, "Alias created: %s='%s'\n", name, command)
	return nil
}

// quoteWord quotes w so that tokenizing the alias text yields w again.
func quoteWord(w string) string {
	switch {
	case w != "" && !strings.ContainsAny(w, " \t\n\r\"'"):
		return w
	case !strings.Contains(w, `"`):
		return `"` + w + `"`
	case !strings.Contains(w, "'"):
		return "'" + w + "'"
	default:
		return `"` + strings.ReplaceAll(w, `"`, `"'"'"`) + `"`
	}
}

func runUnalias(_ context.Context, sh *Shell, args []string) error {
	if len(args) == 0 {
		return &UsageError{Usage: "unalias NAME"}
	}
	for _, name := range args {
		if sh.Env.RemoveAlias(strings.ToLower(name)) {
			sh.print(output.Success, "Alias removed: %s\n", name)
		} else {
			sh.print(output.Info, "Alias not found: %s\n", name)
		}
	}
	return nil
}
