package commands

import (
	"context"
	"fmt"
	"strings"

	"ccli/internal/output"
)

const helpColumn = 24

// Welcome is the banner shown at start-up and after clear.
func Welcome(title string) string {
	return fmt.Sprintf("Welcome to %s\n\nType 'help' for available commands or 'exit' to quit.\n\n", title)
}

// HelpText renders the sectioned command list of reg.
func HelpText(reg *Registry) string {
	var sb strings.Builder
	sb.WriteString("Available Commands:\n")
	for _, section := range []Section{FileOperations, TextOperations, System, Utilities} {
		sb.WriteString("\n" + section.String() + ":\n")
		for _, c := range reg.Commands() {
			if c.Section != section {
				continue
			}
			fmt.Fprintf(&sb, "  %-*s - %s\n", helpColumn, helpLabel(c), c.Summary)
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

func helpLabel(c *Command) string {
	label := strings.Join(c.Names(), "/")
	if c.Args != "" {
		label += " " + c.Args
	}
	return label
}

func runHelp(_ context.Context, sh *Shell, args []string) error {
	if len(args) == 0 {
		sh.Out.Write(output.Info, HelpText(sh.Registry))
		return nil
	}
	c, ok := sh.Registry.Lookup(strings.ToLower(args[0]))
	if !ok {
		return fmt.Errorf("help: no such command: %s", args[0])
	}
	sh.print(output.Info, "%s - %s\n", c.Usage(), c.Summary)
	if len(c.Synonyms) > 0 {
		sh.print(output.Info, "Also available as: %s\n", strings.Join(c.Synonyms, ", "))
	}
	return nil
}
