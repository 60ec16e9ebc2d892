// Package completion builds the Tab completer shared by the front-ends.
package completion

import (
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/afero"

	"ccli/internal/commands"
)

// New returns a completer over every command word registered on sh. Words
// of commands taking a path complete their first argument from the
// session's working directory.
func New(sh *commands.Shell) *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, name := range sh.Registry.Names() {
		cmd, _ := sh.Registry.Lookup(name)
		if cmd.Completes {
			items = append(items, readline.PcItem(name, readline.PcItemDynamic(pathCandidates(sh))))
			continue
		}
		items = append(items, readline.PcItem(name))
	}
	return readline.NewPrefixCompleter(items...)
}

// pathCandidates lists entries matching the directory part of the first
// argument. Directories carry a trailing slash.
func pathCandidates(sh *commands.Shell) readline.DynamicCompleteFunc {
	return func(line string) []string {
		_, arg, _ := strings.Cut(strings.TrimLeft(line, " "), " ")
		arg = strings.TrimLeft(arg, " ")
		if strings.Contains(arg, " ") {
			return nil
		}
		dir := ""
		if i := strings.LastIndex(arg, "/"); i >= 0 {
			dir = arg[:i+1]
		}
		entries, err := afero.ReadDir(sh.Fs, sh.Env.Resolve(dir))
		if err != nil {
			return nil
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			name := dir + e.Name()
			if e.IsDir() {
				name += "/"
			}
			names = append(names, name)
		}
		return names
	}
}

// Apply completes the end of line. A single candidate is appended; with
// several, their common prefix is appended and the full words are returned
// for display.
func Apply(c readline.AutoCompleter, line string) (string, []string) {
	runes := []rune(line)
	suffixes, offset := c.Do(runes, len(runes))
	switch len(suffixes) {
	case 0:
		return line, nil
	case 1:
		return line + string(suffixes[0]), nil
	}

	common := string(suffixes[0])
	words := make([]string, 0, len(suffixes))
	for _, s := range suffixes {
		common = commonPrefix(common, string(s))
		words = append(words, strings.TrimSpace(lastWord(runes, offset)+string(s)))
	}
	sort.Strings(words)
	return line + common, words
}

func lastWord(line []rune, offset int) string {
	if offset > len(line) {
		offset = len(line)
	}
	return string(line[len(line)-offset:])
}

func commonPrefix(a, b string) string {
	ar, br := []rune(a), []rune(b)
	n := 0
	for n < len(ar) && n < len(br) && ar[n] == br[n] {
		n++
	}
	return string(ar[:n])
}
