package commands

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"

	"ccli/internal/output"
)

const dateLayout = "Monday, January 02, 2006 03:04:05 PM"

// maxSleepSeconds is the longest pause a time.Duration can hold.
const maxSleepSeconds = float64(math.MaxInt64 / int64(time.Second))

// treeMaxDepth is the deepest level tree descends into, counting from 0.
const treeMaxDepth = 3

// calcAlphabet lists every character calc accepts.
const calcAlphabet = "0123456789+-*/().% "

var (
	currentUser = user.Current
	hostname    = os.Hostname
)

func systemCommands() []*Command {
	return []*Command{
		{Name: "tree", Args: "[PATH]", Summary: "Display directory tree", Section: System, Completes: true, Run: runTree},
		{Name: "date", Summary: "Show current date/time", Section: System, Run: runDate},
		{Name: "env", Args: "[VAR] [VALUE]", Summary: "Show/set session variables", Section: System, Run: runEnv},
		{Name: "unset", Args: "VAR...", Summary: "Remove session variables", Section: System, Run: runUnset},
		{Name: "whoami", Summary: "Show current user", Section: System, Run: runWhoami},
		{Name: "uname", Summary: "Show system information", Section: System, Run: runUname},
	}
}

func runDate(_ context.Context, sh *Shell, _ []string) error {
	sh.print(output.Plain, "%s\n", sh.Now().Format(dateLayout))
	return nil
}

func runEnv(_ context.Context, sh *Shell, args []string) error {
	switch {
	case len(args) == 0:
		for _, p := range sh.Env.Variables() {
			sh.print(output.Plain, "%s=%s\n", p.Name, p.Value)
		}
	case len(args) == 1 && strings.Contains(args[0], "="):
		name, value, _ := strings.Cut(args[0], "=")
		return setVariable(sh, name, value)
	case len(args) == 1:
		if v, ok := sh.Env.Variable(args[0]); ok && v != "" {
			sh.print(output.Plain, "%s=%s\n", args[0], v)
		} else {
			sh.print(output.Info, "Variable not set: %s\n", args[0])
		}
	default:
		return setVariable(sh, args[0], joinArgs(args[1:]))
	}
	return nil
}

func setVariable(sh *Shell, name, value string) error {
	if name == "" || strings.ContainsAny(name, " \t$={}") {
		return fmt.Errorf("env: invalid variable name: %q", name)
	}
	sh.Env.SetVariable(name, value)
	sh.print(output.Success, "Variable set: %s=%s\n", name, value)
	return nil
}

func runUnset(_ context.Context, sh *Shell, args []string) error {
	if len(args) == 0 {
		return &UsageError{Usage: "unset VARIABLE"}
	}
	for _, name := range args {
		if sh.Env.UnsetVariable(name) {
			sh.print(output.Success, "Variable removed: %s\n", name)
		} else {
			sh.print(output.Info, "Variable not set: %s\n", name)
		}
	}
	return nil
}

func runWhoami(_ context.Context, sh *Shell, _ []string) error {
	u, err := currentUser()
	if err != nil {
		return fmt.Errorf("whoami: %w", err)
	}
	sh.print(output.Plain, "%s\n", u.Username)
	return nil
}

func runUname(_ context.Context, sh *Shell, _ []string) error {
	host, err := hostname()
	if err != nil {
		host = "unknown"
	}
	sh.print(output.Plain, "System: %s\n", runtime.GOOS)
	sh.print(output.Plain, "Machine: %s\n", runtime.GOARCH)
	sh.print(output.Plain, "Host: %s\n", host)
	sh.print(output.Plain, "CPUs: %d\n", runtime.NumCPU())
	sh.print(output.Plain, "Runtime: %s\n", runtime.Version())
	return nil
}

func runTree(_ context.Context, sh *Shell, args []string) error {
	arg := "."
	if len(args) > 0 {
		arg = args[0]
	}
	root := sh.Env.Resolve(arg)
	info, err := sh.Fs.Stat(root)
	if err != nil {
		return pathError("tree", arg, err)
	}
	sh.print(output.Plain, "%s\n", root)
	if info.IsDir() {
		sh.printTree(root, "", 0)
	}
	return nil
}

// printTree draws dir's children. Unreadable directories are skipped.
func (sh *Shell) printTree(dir, prefix string, depth int) {
	if depth > treeMaxDepth {
		return
	}
	entries, err := afero.ReadDir(sh.Fs, dir)
	if err != nil {
		return
	}
	for i, e := range entries {
		last := i == len(entries)-1
		connector, extension := "├── ", "│   "
		if last {
			connector, extension = "└── ", "    "
		}
		style := output.Plain
		if e.IsDir() {
			style = output.Directory
		}
		sh.print(style, "%s%s%s\n", prefix, connector, e.Name())
		if e.IsDir() {
			sh.printTree(filepath.Join(dir, e.Name()), prefix+extension, depth+1)
		}
	}
}

func runCalc(_ context.Context, sh *Shell, args []string) error {
	if len(args) == 0 {
		return &UsageError{Usage: "calc EXPRESSION"}
	}
	expr := joinArgs(args)
	result, err := evaluate(expr)
	if err != nil {
		return fmt.Errorf("calc: %w", err)
	}
	sh.print(output.Plain, "%s = %s\n", expr, result)
	return nil
}

// evaluate computes an arithmetic expression restricted to calcAlphabet.
func evaluate(expr string) (string, error) {
	if strings.TrimSpace(expr) == "" {
		return "", errors.New("empty expression")
	}
	for _, r := range expr {
		if !strings.ContainsRune(calcAlphabet, r) {
			return "", errors.New("invalid characters in expression")
		}
	}
	parsed, diags := hclsyntax.ParseExpression([]byte(expr), "calc", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return "", errors.New("invalid expression")
	}
	if zeroDivisor(parsed) {
		return "", errors.New("division by zero")
	}
	val, diags := parsed.Value(nil)
	if diags.HasErrors() {
		if d := diags[0].Detail; d != "" {
			return "", errors.New(d)
		}
		return "", errors.New(diags[0].Summary)
	}
	if val.IsNull() || !val.IsKnown() || val.Type() != cty.Number {
		return "", errors.New("invalid expression")
	}
	return formatNumber(val.AsBigFloat())
}

// zeroDivisor reports whether any division or modulo in expr has a right
// operand that evaluates to zero. cty returns the dividend for x % 0.
func zeroDivisor(expr hclsyntax.Expression) bool {
	found := false
	hclsyntax.VisitAll(expr, func(n hclsyntax.Node) hcl.Diagnostics {
		op, ok := n.(*hclsyntax.BinaryOpExpr)
		if !ok || (op.Op != hclsyntax.OpModulo && op.Op != hclsyntax.OpDivide) {
			return nil
		}
		rhs, diags := op.RHS.Value(nil)
		if diags.HasErrors() || rhs.IsNull() || !rhs.IsKnown() || rhs.Type() != cty.Number {
			return nil
		}
		if rhs.AsBigFloat().Sign() == 0 {
			found = true
		}
		return nil
	})
	return found
}

func formatNumber(f *big.Float) (string, error) {
	if f.IsInf() {
		return "", errors.New("division by zero")
	}
	if f.IsInt() {
		return f.Text('f', 0), nil
	}
	v, _ := f.Float64()
	return strconv.FormatFloat(v, 'f', -1, 64), nil
}

func runSleep(ctx context.Context, sh *Shell, args []string) error {
	if len(args) == 0 {
		return &UsageError{Usage: "sleep SECONDS"}
	}
	seconds, err := strconv.ParseFloat(args[0], 64)
	if err != nil || seconds < 0 || math.IsNaN(seconds) || seconds > maxSleepSeconds {
		return errors.New("sleep: invalid number")
	}
	sh.print(output.Info, "Sleeping for %s seconds...\n", strconv.FormatFloat(seconds, 'f', -1, 64))

	timer := time.NewTimer(time.Duration(seconds * float64(time.Second)))
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return errors.New("sleep: interrupted")
	}
	sh.print(output.Success, "Done!\n")
	return nil
}
