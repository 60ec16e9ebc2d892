package executor

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ccli/internal/commands"
	"ccli/internal/ctxlog"
	"ccli/internal/output"
	"ccli/internal/session"
)

func newTestExecutor(t *testing.T, extra ...*commands.Command) (*Executor, *output.Buffer) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/work", 0o755))
	reg, err := commands.NewRegistry(append(commands.Builtins(), extra...)...)
	require.NoError(t, err)
	buf := &output.Buffer{}
	sh := commands.NewShell(session.NewEnv("/work", "/home/u", 0), fsys, buf, reg)
	return New(sh), buf
}

func TestSubmitIgnoresBlankLines(t *testing.T) {
	x, buf := newTestExecutor(t)
	require.NoError(t, x.Submit(context.Background(), "   "))
	assert.Empty(t, buf.Chunks())
	assert.Zero(t, x.Shell().Env.HistoryLen())
}

func TestSubmitRecordsHistoryInOrder(t *testing.T) {
	x, _ := newTestExecutor(t)
	ctx := context.Background()
	for _, line := range []string{"echo one", "  pwd ", "nope"} {
		_ = x.Submit(ctx, line)
	}
	assert.Equal(t, []string{"echo one", "pwd", "nope"}, x.Shell().Env.History())
}

func TestCommandWordIsCaseInsensitive(t *testing.T) {
	x, buf := newTestExecutor(t)
	require.NoError(t, x.Submit(context.Background(), "ECHO Hello"))
	assert.Equal(t, "Hello\n", buf.String())
}

func TestUnknownCommand(t *testing.T) {
	x, buf := newTestExecutor(t)
	err := x.Submit(context.Background(), "frobnicate now")
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.Equal(t, "Unknown command: frobnicate. Type 'help' for available commands.\n", buf.Styled(output.Error))
}

func TestUsageErrorIsReported(t *testing.T) {
	x, buf := newTestExecutor(t)
	err := x.Submit(context.Background(), "cd")
	var usage *commands.UsageError
	assert.ErrorAs(t, err, &usage)
	assert.Equal(t, "Usage: cd DIRECTORY\n", buf.Styled(output.Error))
}

func TestQuotedArguments(t *testing.T) {
	x, buf := newTestExecutor(t)
	ctx := context.Background()
	require.NoError(t, x.Submit(ctx, `write "my notes.txt" 'hello   world'`))
	buf.Reset()
	require.NoError(t, x.Submit(ctx, `read "my notes.txt"`))
	assert.Equal(t, "hello   world\n", buf.String())

	buf.Reset()
	err := x.Submit(ctx, `echo "open`)
	assert.Error(t, err)
	assert.Equal(t, "parse error: unterminated quote\n", buf.Styled(output.Error))
}

func TestAliasExpansion(t *testing.T) {
	x, buf := newTestExecutor(t)
	ctx := context.Background()
	env := x.Shell().Env

	env.SetAlias("greet", "echo hello")
	require.NoError(t, x.Submit(ctx, "GREET world"))
	assert.Equal(t, "hello world\n", buf.String())

	buf.Reset()
	env.SetAlias("hi", "greet there")
	require.NoError(t, x.Submit(ctx, "hi"))
	assert.Equal(t, "hello there\n", buf.String(), "aliases chain")

	buf.Reset()
	env.SetAlias("a", "b")
	env.SetAlias("b", "a")
	err := x.Submit(ctx, "a")
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.Contains(t, buf.Styled(output.Error), "Unknown command: a.")

	buf.Reset()
	env.SetAlias("bad", `echo "x`)
	assert.Error(t, x.Submit(ctx, "bad"))
	assert.Equal(t, "alias bad: unterminated quote\n", buf.Styled(output.Error))
}

func TestAliasDefinedFromCommandLine(t *testing.T) {
	x, buf := newTestExecutor(t)
	ctx := context.Background()

	require.NoError(t, x.Submit(ctx, `alias sp echo "a   b" c`))
	buf.Reset()
	require.NoError(t, x.Submit(ctx, "sp"))
	assert.Equal(t, "a   b c\n", buf.String())

	require.NoError(t, x.Submit(ctx, `alias who echo '$NAME'`))
	x.Shell().Env.SetVariable("NAME", "ada")
	buf.Reset()
	require.NoError(t, x.Submit(ctx, "who"))
	assert.Equal(t, "ada\n", buf.String())
}

func TestVariableExpansion(t *testing.T) {
	x, buf := newTestExecutor(t)
	x.Shell().Env.SetVariable("NAME", "ada")

	require.NoError(t, x.Submit(context.Background(), `echo $NAME "${NAME}!" '$NAME' $MISSING_VAR_FOR_TEST`))
	assert.Equal(t, "ada ada! $NAME \n", buf.String())
}

func TestLast(t *testing.T) {
	x, buf := newTestExecutor(t)
	ctx := context.Background()

	require.NoError(t, x.Submit(ctx, "last"))
	assert.Equal(t, "No previous command to execute.\n", buf.Styled(output.Info))
	assert.Zero(t, x.Shell().Env.HistoryLen())

	buf.Reset()
	require.NoError(t, x.Submit(ctx, "echo again"))
	require.NoError(t, x.Submit(ctx, "LAST"))
	assert.Equal(t, []output.Chunk{
		{Style: output.Plain, Text: "again\n"},
		{Style: output.Info, Text: "Executing: echo again\n"},
		{Style: output.Plain, Text: "again\n"},
	}, buf.Chunks())
	assert.Equal(t, []string{"echo again", "echo again"}, x.Shell().Env.History())
}

func TestSentinelsPassThroughSilently(t *testing.T) {
	x, buf := newTestExecutor(t)
	ctx := context.Background()
	assert.ErrorIs(t, x.Submit(ctx, "exit"), commands.ErrExit)
	assert.ErrorIs(t, x.Submit(ctx, "cls"), commands.ErrClear)
	assert.Empty(t, buf.Chunks())
}

func TestPanicIsRecovered(t *testing.T) {
	boom := &commands.Command{
		Name: "boom",
		Run: func(context.Context, *commands.Shell, []string) error {
			panic("kaboom")
		},
	}
	x, buf := newTestExecutor(t, boom)

	assert.Error(t, x.Submit(context.Background(), "boom"))
	assert.Equal(t, "Error: kaboom\n", buf.Styled(output.Error))

	buf.Reset()
	require.NoError(t, x.Submit(context.Background(), "echo still alive"))
	assert.Equal(t, "still alive\n", buf.String())
}

func TestDispatchIsLogged(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.New(context.Background(), logger)

	x, _ := newTestExecutor(t)
	require.NoError(t, x.Submit(ctx, "echo a b"))
	assert.Contains(t, logs.String(), "msg=dispatch")
	assert.Contains(t, logs.String(), "command=echo")
	assert.Contains(t, logs.String(), "args=2")
}
