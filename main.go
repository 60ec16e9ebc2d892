package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ccli/internal/commands"
	"ccli/internal/completion"
	"ccli/internal/config"
	"ccli/internal/console"
	"ccli/internal/ctxlog"
	"ccli/internal/executor"
	"ccli/internal/session"
	"ccli/internal/ui"
)

// errReported marks failures whose message has already been shown.
var errReported = errors.New("command failed")

type options struct {
	configPath string
	plain      bool
	command    string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals...)
	code := 0
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		code = 1
	}
	stop()
	os.Exit(code)
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "ccli",
		Short: config.DefaultTitle,
		Long: "CCLI is a shell-like command launcher with built-in file, text and system commands.\n" +
			"It opens a full-screen window by default, a line editor with --plain, and reads\n" +
			"commands from standard input when it is not a terminal.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to the config file (default ~/.ccli/config.yaml)")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "Use the line editor instead of the full-screen window")
	cmd.Flags().StringVarP(&opts.command, "command", "c", "", "Run one command line and exit")
	return cmd
}

func run(ctx context.Context, opts options, stdin io.Reader, stdout io.Writer) (err error) {
	home := userHomeDir()
	loader := config.NewLoader(opts.configPath, home)
	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	fsys := config.FsFactory()

	logger, closer, logErr := ctxlog.NewFile(fsys, cfg.LogFile)
	if logErr == nil {
		defer closer.Close()
		ctx = ctxlog.New(ctx, logger.With("session", uuid.NewString()))
	}

	dir, wdErr := os.Getwd()
	if wdErr != nil {
		dir = home
	}
	env := session.NewEnv(dir, home, cfg.HistoryLimit)
	for name, value := range cfg.Variables {
		env.SetVariable(name, value)
	}
	for name, command := range cfg.Aliases {
		env.SetAlias(strings.ToLower(name), command)
	}

	if cfg.Persist {
		store := session.NewStore(fsys, cfg.StateFile)
		if err := store.Load(env); err != nil {
			ctxlog.Warn(ctx, "loading session state", "path", store.Path(), "error", err)
		}
		defer func() {
			if saveErr := store.Save(env); saveErr != nil {
				ctxlog.Error(ctx, "saving session state", "path", store.Path(), "error", saveErr)
				if err == nil {
					err = saveErr
				}
			}
		}()
	}

	sh := commands.NewShell(env, fsys, nil, commands.Default())
	x := executor.New(sh)
	completer := completion.New(sh)

	mode := frontEnd(opts, stdin)
	ctxlog.Info(ctx, "session started", "mode", mode, "config", loader.Path(), "dir", dir)
	defer func() {
		ctxlog.Info(ctx, "session ended", "commands", env.HistoryLen())
	}()

	switch mode {
	case "command":
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
		if err := console.New(cfg, x, completer, stdout).Exec(ctx, opts.command); err != nil {
			return errReported
		}
		return nil
	case "script":
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
		return console.New(cfg, x, completer, stdout).Script(ctx, stdin)
	case "plain":
		return console.New(cfg, x, completer, stdout).Interactive(ctx)
	default:
		return ui.New(cfg, x, completer).Run(ctx)
	}
}

func frontEnd(opts options, stdin io.Reader) string {
	switch {
	case opts.command != "":
		return "command"
	case !isTerminal(stdin):
		return "script"
	case opts.plain:
		return "plain"
	default:
		return "window"
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func userHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return home
}
