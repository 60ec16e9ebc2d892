package commands

import (
	"io/fs"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ccli/internal/output"
)

const tenPlus = "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n11\n12\n"

func TestRead(t *testing.T) {
	sh, buf, fsys := newTestShell(t)
	writeFile(t, fsys, "/work/a.txt", "no newline")
	writeFile(t, fsys, "/work/b.txt", "line\n")
	require.NoError(t, fsys.MkdirAll("/work/d", 0o755))

	require.NoError(t, run(t, sh, "cat", "a.txt", "b.txt"))
	assert.Equal(t, "no newline\nline\n", buf.String())

	assert.EqualError(t, run(t, sh, "type", "d"), "read: d: is a directory")
	assert.ErrorIs(t, run(t, sh, "read", "ghost"), fs.ErrNotExist)
}

func TestWriteAppend(t *testing.T) {
	sh, buf, fsys := newTestShell(t)

	require.NoError(t, run(t, sh, "write", "f.txt", "hello", "world"))
	assert.Equal(t, "Content written to: f.txt\n", buf.Styled(output.Success))
	require.NoError(t, run(t, sh, "append", "f.txt", "again"))
	require.NoError(t, run(t, sh, "append", "g.txt", "fresh"))

	data, err := afero.ReadFile(fsys, "/work/f.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello world\nagain\n", string(data))
	data, err = afero.ReadFile(fsys, "/work/g.txt")
	require.NoError(t, err)
	assert.Equal(t, "fresh\n", string(data))

	require.NoError(t, run(t, sh, "write", "f.txt", "replaced"))
	data, _ = afero.ReadFile(fsys, "/work/f.txt")
	assert.Equal(t, "replaced\n", string(data))
}

func TestHeadTail(t *testing.T) {
	sh, buf, fsys := newTestShell(t)
	writeFile(t, fsys, "/work/n.txt", tenPlus)
	writeFile(t, fsys, "/work/short.txt", "a\nb")

	require.NoError(t, run(t, sh, "head", "n.txt"))
	assert.Equal(t, "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n", buf.String())

	buf.Reset()
	require.NoError(t, run(t, sh, "head", "n.txt", "2"))
	assert.Equal(t, "1\n2\n", buf.String())

	buf.Reset()
	require.NoError(t, run(t, sh, "tail", "n.txt", "3"))
	assert.Equal(t, "10\n11\n12\n", buf.String())

	buf.Reset()
	require.NoError(t, run(t, sh, "tail", "short.txt", "5"))
	assert.Equal(t, "a\nb\n", buf.String())

	buf.Reset()
	require.NoError(t, run(t, sh, "tail", "n.txt"))
	assert.Equal(t, "3\n4\n5\n6\n7\n8\n9\n10\n11\n12\n", buf.String())

	assert.EqualError(t, run(t, sh, "head", "n.txt", "x"), "head: invalid line count")
	assert.EqualError(t, run(t, sh, "tail", "n.txt", "-1"), "tail: invalid line count")
}

func TestWc(t *testing.T) {
	sh, buf, fsys := newTestShell(t)
	writeFile(t, fsys, "/work/w.txt", "one two\nthree\n")
	writeFile(t, fsys, "/work/u.txt", "héllo")

	require.NoError(t, run(t, sh, "wc", "w.txt"))
	assert.Equal(t, "Lines: 2, Words: 3, Characters: 14\n", buf.String())

	buf.Reset()
	require.NoError(t, run(t, sh, "wc", "u.txt"))
	assert.Equal(t, "Lines: 0, Words: 1, Characters: 5\n", buf.String())
}

func TestGrep(t *testing.T) {
	sh, buf, fsys := newTestShell(t)
	writeFile(t, fsys, "/work/log.txt", "ok\nERROR disk  \nfine\nerror net\n")
	writeFile(t, fsys, "/work/other.txt", "an error\n")

	require.NoError(t, run(t, sh, "grep", "error", "log.txt"))
	assert.Equal(t, "2: ERROR disk\n4: error net\n", buf.Styled(output.Plain))
	assert.Equal(t, "\nFound 2 match(es)\n", buf.Styled(output.Info))

	buf.Reset()
	require.NoError(t, run(t, sh, "grep", "error", "log.txt", "other.txt"))
	assert.Equal(t, "log.txt:2: ERROR disk\nlog.txt:4: error net\nother.txt:1: an error\n", buf.Styled(output.Plain))

	buf.Reset()
	require.NoError(t, run(t, sh, "grep", "panic", "log.txt"))
	assert.Equal(t, "No matches found for: panic\n", buf.Styled(output.Info))

	assert.ErrorIs(t, run(t, sh, "grep", "x", "ghost"), fs.ErrNotExist)
}

func TestReplace(t *testing.T) {
	sh, buf, fsys := newTestShell(t)
	writeFile(t, fsys, "/work/r.txt", "cat and cat\n")

	require.NoError(t, run(t, sh, "replace", "r.txt", "cat", "dog"))
	assert.Equal(t, "Replaced 2 occurrence(s) of 'cat' with 'dog'\n", buf.Styled(output.Success))
	data, _ := afero.ReadFile(fsys, "/work/r.txt")
	assert.Equal(t, "dog and dog\n", string(data))

	buf.Reset()
	require.NoError(t, run(t, sh, "replace", "r.txt", "bird", "x"))
	assert.Equal(t, "Text not found: bird\n", buf.Styled(output.Info))

	assert.Error(t, run(t, sh, "replace", "r.txt", "", "x"))
}

func TestDiff(t *testing.T) {
	sh, buf, fsys := newTestShell(t)
	writeFile(t, fsys, "/work/a.txt", "a\nb\nc\n")
	writeFile(t, fsys, "/work/b.txt", "a\nB\nc\nd\n")
	writeFile(t, fsys, "/work/c.txt", "a\nb\nc")

	require.NoError(t, run(t, sh, "diff", "a.txt", "b.txt"))
	assert.Equal(t, []output.Chunk{
		{Style: output.Error, Text: "2c: - b\n"},
		{Style: output.Success, Text: "2c: + B\n"},
		{Style: output.Success, Text: "4a: + d\n"},
		{Style: output.Info, Text: "\n2 difference(s) found\n"},
	}, buf.Chunks())

	buf.Reset()
	require.NoError(t, run(t, sh, "diff", "a.txt", "c.txt"))
	assert.Equal(t, "Files are identical\n", buf.String())

	buf.Reset()
	require.NoError(t, run(t, sh, "diff", "b.txt", "a.txt"))
	assert.Contains(t, buf.String(), "4d: - d\n")

	assert.ErrorIs(t, run(t, sh, "diff", "a.txt", "ghost"), fs.ErrNotExist)
}

func TestDiffCountsChangedLines(t *testing.T) {
	sh, buf, fsys := newTestShell(t)
	writeFile(t, fsys, "/work/a.txt", "keep\none\ntwo\nthree\nend\n")
	writeFile(t, fsys, "/work/b.txt", "keep\nONE\nTWO\nTHREE\nend\n")

	require.NoError(t, run(t, sh, "diff", "a.txt", "b.txt"))
	assert.Equal(t, "\n3 difference(s) found\n", buf.Styled(output.Info))
}

func TestCmp(t *testing.T) {
	sh, buf, fsys := newTestShell(t)
	writeFile(t, fsys, "/work/a", "abcdef")
	writeFile(t, fsys, "/work/b", "abcXef")
	writeFile(t, fsys, "/work/c", "abc")
	writeFile(t, fsys, "/work/d", "abcdef")

	require.NoError(t, run(t, sh, "cmp", "a", "b"))
	assert.Equal(t, "Files differ at byte 4\n", buf.Styled(output.Error))

	buf.Reset()
	require.NoError(t, run(t, sh, "cmp", "a", "c"))
	assert.Equal(t, "Files have different lengths\n", buf.Styled(output.Error))

	buf.Reset()
	require.NoError(t, run(t, sh, "cmp", "a", "d"))
	assert.Equal(t, "Files are identical\n", buf.Styled(output.Success))
}
