package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	"ccli/internal/output"
)

func fileCommands() []*Command {
	return []*Command{
		{Name: "echo", Args: "[TEXT]", Summary: "Display text", Section: FileOperations, Run: runEcho},
		{Name: "cd", Args: "DIRECTORY", Summary: "Change directory", Section: FileOperations, Completes: true, Run: runCd},
		{Name: "pwd", Summary: "Print working directory", Section: FileOperations, Run: runPwd},
		{Name: "ls", Synonyms: []string{"dir"}, Args: "[PATH]", Summary: "List directory contents", Section: FileOperations, Completes: true, Run: runLs},
		{Name: "mkdir", Args: "DIR...", Summary: "Create directory", Section: FileOperations, Completes: true, Run: runMkdir},
		{Name: "rmdir", Args: "DIR...", Summary: "Remove directory and its contents", Section: FileOperations, Completes: true, Run: runRmdir},
		{Name: "touch", Args: "FILE...", Summary: "Create file or update its timestamp", Section: FileOperations, Completes: true, Run: runTouch},
		{Name: "rm", Synonyms: []string{"del"}, Args: "FILE...", Summary: "Remove file", Section: FileOperations, Completes: true, Run: runRm},
		{Name: "rename", Synonyms: []string{"mv"}, Args: "OLD NEW", Summary: "Rename/move file", Section: FileOperations, Completes: true, Run: runRename},
		{Name: "cp", Synonyms: []string{"copy"}, Args: "SRC DEST", Summary: "Copy file or directory", Section: FileOperations, Completes: true, Run: runCopy},
		{Name: "find", Synonyms: []string{"search"}, Args: "[PATH] PATTERN", Summary: "Search for files by name", Section: FileOperations, Completes: true, Run: runFind},
		{Name: "size", Args: "PATH", Summary: "Show file/directory size", Section: FileOperations, Completes: true, Run: runSize},
	}
}

func runEcho(_ context.Context, sh *Shell, args []string) error {
	sh.print(output.Plain, "%s\n", joinArgs(args))
	return nil
}

func runCd(_ context.Context, sh *Shell, args []string) error {
	if len(args) == 0 {
		return &UsageError{Usage: "cd DIRECTORY"}
	}
	arg := joinArgs(args)
	target := sh.Env.Resolve(arg)
	info, err := sh.Fs.Stat(target)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("cd: directory does not exist: %s", arg)
	case err != nil:
		return pathError("cd", arg, err)
	case !info.IsDir():
		return fmt.Errorf("cd: not a directory: %s", arg)
	}
	sh.Env.SetDir(target)
	sh.print(output.Success, "Changed directory to: %s\n", sh.Env.Dir())
	return nil
}

func runPwd(_ context.Context, sh *Shell, _ []string) error {
	sh.print(output.Plain, "%s\n", sh.Env.Dir())
	return nil
}

func runLs(_ context.Context, sh *Shell, args []string) error {
	arg := "."
	if len(args) > 0 {
		arg = args[0]
	}
	target := sh.Env.Resolve(arg)
	info, err := sh.Fs.Stat(target)
	if err != nil {
		return pathError("ls", arg, err)
	}
	if !info.IsDir() {
		sh.print(output.Plain, "[FILE] %s\n", info.Name())
		return nil
	}
	entries, err := afero.ReadDir(sh.Fs, target)
	if err != nil {
		return pathError("ls", arg, err)
	}
	if len(entries) == 0 {
		sh.print(output.Info, "Directory is empty\n")
		return nil
	}
	for _, e := range entries {
		if e.IsDir() {
			sh.print(output.Directory, "[DIR]  %s\n", e.Name())
		} else {
			sh.print(output.Plain, "[FILE] %s\n", e.Name())
		}
	}
	return nil
}

func runMkdir(_ context.Context, sh *Shell, args []string) error {
	if len(args) == 0 {
		return &UsageError{Usage: "mkdir DIRECTORY"}
	}
	var errs []error
	for _, arg := range args {
		if err := sh.Fs.MkdirAll(sh.Env.Resolve(arg), 0o755); err != nil {
			errs = append(errs, pathError("mkdir", arg, err))
			continue
		}
		sh.print(output.Success, "Directory created: %s\n", arg)
	}
	return errors.Join(errs...)
}

func runRmdir(_ context.Context, sh *Shell, args []string) error {
	if len(args) == 0 {
		return &UsageError{Usage: "rmdir DIRECTORY"}
	}
	var errs []error
	for _, arg := range args {
		target := sh.Env.Resolve(arg)
		if target == filepath.Dir(target) {
			errs = append(errs, fmt.Errorf("rmdir: refusing to remove the root directory"))
			continue
		}
		info, err := sh.Fs.Stat(target)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			errs = append(errs, fmt.Errorf("rmdir: directory does not exist: %s", arg))
			continue
		case err != nil:
			errs = append(errs, pathError("rmdir", arg, err))
			continue
		case !info.IsDir():
			errs = append(errs, fmt.Errorf("rmdir: not a directory: %s", arg))
			continue
		}
		if err := sh.Fs.RemoveAll(target); err != nil {
			errs = append(errs, pathError("rmdir", arg, err))
			continue
		}
		sh.print(output.Success, "Directory deleted: %s\n", arg)
	}
	return errors.Join(errs...)
}

func runTouch(_ context.Context, sh *Shell, args []string) error {
	if len(args) == 0 {
		return &UsageError{Usage: "touch FILENAME"}
	}
	var errs []error
	for _, arg := range args {
		target := sh.Env.Resolve(arg)
		if _, err := sh.Fs.Stat(target); err == nil {
			now := sh.Now()
			if err := sh.Fs.Chtimes(target, now, now); err != nil {
				errs = append(errs, pathError("touch", arg, err))
				continue
			}
			sh.print(output.Success, "Timestamp updated: %s\n", arg)
			continue
		}
		f, err := sh.Fs.Create(target)
		if err != nil {
			errs = append(errs, pathError("touch", arg, err))
			continue
		}
		f.Close()
		sh.print(output.Success, "File created: %s\n", arg)
	}
	return errors.Join(errs...)
}

func runRm(_ context.Context, sh *Shell, args []string) error {
	if len(args) == 0 {
		return &UsageError{Usage: "rm FILENAME"}
	}
	var errs []error
	for _, arg := range args {
		target := sh.Env.Resolve(arg)
		info, err := sh.Fs.Stat(target)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			errs = append(errs, fmt.Errorf("rm: file does not exist: %s", arg))
			continue
		case err != nil:
			errs = append(errs, pathError("rm", arg, err))
			continue
		case info.IsDir():
			errs = append(errs, fmt.Errorf("rm: is a directory: %s (use rmdir)", arg))
			continue
		}
		if err := sh.Fs.Remove(target); err != nil {
			errs = append(errs, pathError("rm", arg, err))
			continue
		}
		sh.print(output.Success, "File deleted: %s\n", arg)
	}
	return errors.Join(errs...)
}

func runRename(_ context.Context, sh *Shell, args []string) error {
	if len(args) < 2 {
		return &UsageError{Usage: "rename OLD_NAME NEW_NAME"}
	}
	src, dst := sh.Env.Resolve(args[0]), sh.Env.Resolve(args[1])
	if _, err := sh.Fs.Stat(src); err != nil {
		return pathError("rename", args[0], err)
	}
	if info, err := sh.Fs.Stat(dst); err == nil && info.IsDir() {
		dst = filepath.Join(dst, filepath.Base(src))
	}
	if err := sh.Fs.Rename(src, dst); err != nil {
		return pathError("rename", args[0], err)
	}
	sh.print(output.Success, "Renamed: %s -> %s\n", args[0], args[1])
	return nil
}

func runCopy(_ context.Context, sh *Shell, args []string) error {
	if len(args) < 2 {
		return &UsageError{Usage: "cp SOURCE DESTINATION"}
	}
	src, dst := sh.Env.Resolve(args[0]), sh.Env.Resolve(args[1])
	info, err := sh.Fs.Stat(src)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cp: source does not exist: %s", args[0])
	}
	if err != nil {
		return pathError("cp", args[0], err)
	}

	if !info.IsDir() {
		if dinfo, err := sh.Fs.Stat(dst); err == nil && dinfo.IsDir() {
			dst = filepath.Join(dst, filepath.Base(src))
		}
		if dst == src {
			return fmt.Errorf("cp: source and destination are the same file: %s", args[0])
		}
		if dinfo, err := sh.Fs.Stat(dst); err == nil && os.SameFile(info, dinfo) {
			return fmt.Errorf("cp: source and destination are the same file: %s", args[0])
		}
		if err := copyFile(sh.Fs, src, dst, info); err != nil {
			return pathError("cp", args[0], err)
		}
		sh.print(output.Success, "File copied: %s -> %s\n", args[0], args[1])
		return nil
	}

	if _, err := sh.Fs.Stat(dst); err == nil {
		return fmt.Errorf("cp: destination already exists: %s", args[1])
	}
	if dst == src || strings.HasPrefix(dst, src+string(filepath.Separator)) {
		return fmt.Errorf("cp: cannot copy a directory into itself: %s", args[1])
	}
	if err := copyTree(sh.Fs, src, dst); err != nil {
		return pathError("cp", args[0], err)
	}
	sh.print(output.Success, "Directory copied: %s -> %s\n", args[0], args[1])
	return nil
}

func copyFile(fsys afero.Fs, src, dst string, info os.FileInfo) error {
	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fsys.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if err := fsys.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return fsys.Chtimes(dst, info.ModTime(), info.ModTime())
}

func copyTree(fsys afero.Fs, src, dst string) error {
	return afero.Walk(fsys, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return fsys.MkdirAll(target, info.Mode().Perm()|0o700)
		}
		return copyFile(fsys, path, target, info)
	})
}

func runFind(ctx context.Context, sh *Shell, args []string) error {
	var arg, pattern string
	switch len(args) {
	case 0:
		return &UsageError{Usage: "find [PATH] PATTERN"}
	case 1:
		arg, pattern = ".", args[0]
	default:
		arg, pattern = args[0], args[1]
	}
	root := sh.Env.Resolve(arg)
	if _, err := sh.Fs.Stat(root); err != nil {
		return pathError("find", arg, err)
	}

	needle := strings.ToLower(pattern)
	var matches []string
	err := afero.Walk(sh.Fs, root, func(path string, info os.FileInfo, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil || path == root {
			return nil
		}
		if strings.Contains(strings.ToLower(info.Name()), needle) {
			rel, _ := filepath.Rel(root, path)
			matches = append(matches, filepath.Join(arg, rel))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("find: %w", err)
	}

	if len(matches) == 0 {
		sh.print(output.Info, "No matches found for: %s\n", pattern)
		return nil
	}
	for _, m := range matches {
		sh.print(output.Plain, "%s\n", m)
	}
	sh.print(output.Info, "\nFound %d match(es)\n", len(matches))
	return nil
}

func runSize(_ context.Context, sh *Shell, args []string) error {
	if len(args) == 0 {
		return &UsageError{Usage: "size PATH"}
	}
	arg := args[0]
	target := sh.Env.Resolve(arg)
	info, err := sh.Fs.Stat(target)
	if err != nil {
		return pathError("size", arg, err)
	}

	total := info.Size()
	if info.IsDir() {
		total = 0
		err = afero.Walk(sh.Fs, target, func(_ string, fi os.FileInfo, err error) error {
			if err == nil && fi.Mode().IsRegular() {
				total += fi.Size()
			}
			return nil
		})
		if err != nil {
			return pathError("size", arg, err)
		}
	}
	sh.print(output.Plain, "%s: %s (%s bytes)\n", arg, humanize.IBytes(uint64(total)), humanize.Comma(total))
	return nil
}
