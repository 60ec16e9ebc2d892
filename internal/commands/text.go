package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/afero"

	"ccli/internal/output"
)

const defaultLineCount = 10

func textCommands() []*Command {
	return []*Command{
		{Name: "read", Synonyms: []string{"cat", "type"}, Args: "FILE...", Summary: "Read file contents", Section: TextOperations, Completes: true, Run: runRead},
		{Name: "write", Args: "FILE TEXT", Summary: "Write to file", Section: TextOperations, Completes: true, Run: runWrite},
		{Name: "append", Args: "FILE TEXT", Summary: "Append text to file", Section: TextOperations, Completes: true, Run: runAppend},
		{Name: "head", Args: "FILE [N]", Summary: "Show first N lines (default 10)", Section: TextOperations, Completes: true, Run: runHead},
		{Name: "tail", Args: "FILE [N]", Summary: "Show last N lines (default 10)", Section: TextOperations, Completes: true, Run: runTail},
		{Name: "wc", Args: "FILE", Summary: "Word count (lines, words, chars)", Section: TextOperations, Completes: true, Run: runWc},
		{Name: "grep", Args: "PATTERN FILE...", Summary: "Search for pattern in file", Section: TextOperations, Run: runGrep},
		{Name: "replace", Args: "FILE OLD NEW", Summary: "Replace old with new in file", Section: TextOperations, Completes: true, Run: runReplace},
		{Name: "diff", Args: "FILE1 FILE2", Summary: "Compare two files line by line", Section: TextOperations, Completes: true, Run: runDiff},
		{Name: "cmp", Args: "FILE1 FILE2", Summary: "Compare files byte by byte", Section: TextOperations, Completes: true, Run: runCmp},
	}
}

// readFile reads a regular file named by the user supplied arg.
func (sh *Shell) readFile(cmd, arg string) ([]byte, error) {
	target := sh.Env.Resolve(arg)
	info, err := sh.Fs.Stat(target)
	if err != nil {
		return nil, pathError(cmd, arg, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: %s: is a directory", cmd, arg)
	}
	data, err := afero.ReadFile(sh.Fs, target)
	if err != nil {
		return nil, pathError(cmd, arg, err)
	}
	return data, nil
}

// splitLines splits s after each newline. A trailing newline does not
// produce an empty final line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func withNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

func runRead(_ context.Context, sh *Shell, args []string) error {
	if len(args) == 0 {
		return &UsageError{Usage: "read FILENAME"}
	}
	var errs []error
	for _, arg := range args {
		data, err := sh.readFile("read", arg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		sh.Out.Write(output.Plain, withNewline(string(data)))
	}
	return errors.Join(errs...)
}

func runWrite(_ context.Context, sh *Shell, args []string) error {
	if len(args) < 2 {
		return &UsageError{Usage: "write FILENAME CONTENT"}
	}
	content := joinArgs(args[1:]) + "\n"
	if err := afero.WriteFile(sh.Fs, sh.Env.Resolve(args[0]), []byte(content), 0o644); err != nil {
		return pathError("write", args[0], err)
	}
	sh.print(output.Success, "Content written to: %s\n", args[0])
	return nil
}

func runAppend(_ context.Context, sh *Shell, args []string) error {
	if len(args) < 2 {
		return &UsageError{Usage: "append FILENAME CONTENT"}
	}
	f, err := sh.Fs.OpenFile(sh.Env.Resolve(args[0]), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return pathError("append", args[0], err)
	}
	if _, err := f.WriteString(joinArgs(args[1:]) + "\n"); err != nil {
		f.Close()
		return pathError("append", args[0], err)
	}
	if err := f.Close(); err != nil {
		return pathError("append", args[0], err)
	}
	sh.print(output.Success, "Content appended to: %s\n", args[0])
	return nil
}

func lineCount(cmd string, args []string) (int, error) {
	if len(args) < 2 {
		return defaultLineCount, nil
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s: invalid line count", cmd)
	}
	return n, nil
}

func runHead(_ context.Context, sh *Shell, args []string) error {
	if len(args) == 0 {
		return &UsageError{Usage: "head FILENAME [N]"}
	}
	n, err := lineCount("head", args)
	if err != nil {
		return err
	}
	data, err := sh.readFile("head", args[0])
	if err != nil {
		return err
	}
	lines := splitLines(string(data))
	if n < len(lines) {
		lines = lines[:n]
	}
	sh.Out.Write(output.Plain, withNewline(strings.Join(lines, "")))
	return nil
}

func runTail(_ context.Context, sh *Shell, args []string) error {
	if len(args) == 0 {
		return &UsageError{Usage: "tail FILENAME [N]"}
	}
	n, err := lineCount("tail", args)
	if err != nil {
		return err
	}
	data, err := sh.readFile("tail", args[0])
	if err != nil {
		return err
	}
	lines := splitLines(string(data))
	if n < len(lines) {
		lines = lines[len(lines)-n:]
	}
	sh.Out.Write(output.Plain, withNewline(strings.Join(lines, "")))
	return nil
}

func runWc(_ context.Context, sh *Shell, args []string) error {
	if len(args) == 0 {
		return &UsageError{Usage: "wc FILENAME"}
	}
	data, err := sh.readFile("wc", args[0])
	if err != nil {
		return err
	}
	content := string(data)
	sh.print(output.Plain, "Lines: %d, Words: %d, Characters: %d\n",
		strings.Count(content, "\n"), len(strings.Fields(content)), utf8.RuneCountInString(content))
	return nil
}

func runGrep(_ context.Context, sh *Shell, args []string) error {
	if len(args) < 2 {
		return &UsageError{Usage: "grep PATTERN FILENAME"}
	}
	pattern, files := args[0], args[1:]
	needle := strings.ToLower(pattern)

	found := 0
	var errs []error
	for _, file := range files {
		data, err := sh.readFile("grep", file)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for i, line := range splitLines(string(data)) {
			if !strings.Contains(strings.ToLower(line), needle) {
				continue
			}
			found++
			line = strings.TrimRightFunc(line, unicode.IsSpace)
			if len(files) > 1 {
				sh.print(output.Plain, "%s:%d: %s\n", file, i+1, line)
			} else {
				sh.print(output.Plain, "%d: %s\n", i+1, line)
			}
		}
	}
	if len(errs) == len(files) {
		return errors.Join(errs...)
	}
	if found == 0 {
		sh.print(output.Info, "No matches found for: %s\n", pattern)
	} else {
		sh.print(output.Info, "\nFound %d match(es)\n", found)
	}
	return errors.Join(errs...)
}

func runReplace(_ context.Context, sh *Shell, args []string) error {
	if len(args) < 3 {
		return &UsageError{Usage: "replace FILENAME OLD_TEXT NEW_TEXT"}
	}
	file, old, repl := args[0], args[1], args[2]
	if old == "" {
		return fmt.Errorf("replace: text to replace must not be empty")
	}
	data, err := sh.readFile("replace", file)
	if err != nil {
		return err
	}
	count := bytes.Count(data, []byte(old))
	if count == 0 {
		sh.print(output.Info, "Text not found: %s\n", old)
		return nil
	}
	target := sh.Env.Resolve(file)
	mode := os.FileMode(0o644)
	if info, err := sh.Fs.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}
	if err := afero.WriteFile(sh.Fs, target, bytes.ReplaceAll(data, []byte(old), []byte(repl)), mode); err != nil {
		return pathError("replace", file, err)
	}
	sh.print(output.Success, "Replaced %d occurrence(s) of '%s' with '%s'\n", count, old, repl)
	return nil
}

func runDiff(_ context.Context, sh *Shell, args []string) error {
	if len(args) < 2 {
		return &UsageError{Usage: "diff FILE1 FILE2"}
	}
	a, err := sh.readFile("diff", args[0])
	if err != nil {
		return err
	}
	b, err := sh.readFile("diff", args[1])
	if err != nil {
		return err
	}
	left, right := diffLines(string(a)), diffLines(string(b))

	changed := 0
	for _, op := range difflib.NewMatcher(left, right).GetOpCodes() {
		switch op.Tag {
		case 'd':
			for i := op.I1; i < op.I2; i++ {
				sh.print(output.Error, "%dd: - %s\n", i+1, left[i])
			}
		case 'i':
			for j := op.J1; j < op.J2; j++ {
				sh.print(output.Success, "%da: + %s\n", j+1, right[j])
			}
		case 'r':
			for i := op.I1; i < op.I2; i++ {
				sh.print(output.Error, "%dc: - %s\n", i+1, left[i])
			}
			for j := op.J1; j < op.J2; j++ {
				sh.print(output.Success, "%dc: + %s\n", j+1, right[j])
			}
		default:
			continue
		}
		changed += max(op.I2-op.I1, op.J2-op.J1)
	}
	if changed == 0 {
		sh.print(output.Info, "Files are identical\n")
		return nil
	}
	sh.print(output.Info, "\n%d difference(s) found\n", changed)
	return nil
}

func diffLines(s string) []string {
	lines := splitLines(s)
	for i, l := range lines {
		lines[i] = strings.TrimRightFunc(l, unicode.IsSpace)
	}
	return lines
}

func runCmp(_ context.Context, sh *Shell, args []string) error {
	if len(args) < 2 {
		return &UsageError{Usage: "cmp FILE1 FILE2"}
	}
	a, err := sh.readFile("cmp", args[0])
	if err != nil {
		return err
	}
	b, err := sh.readFile("cmp", args[1])
	if err != nil {
		return err
	}
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			sh.print(output.Error, "Files differ at byte %d\n", i+1)
			return nil
		}
	}
	if len(a) != len(b) {
		sh.print(output.Error, "Files have different lengths\n")
		return nil
	}
	sh.print(output.Success, "Files are identical\n")
	return nil
}
