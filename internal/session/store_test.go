package session

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSaveThenLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs, "/home/u/.ccli/session.yaml")

	src := NewEnv("/work", "/home/u", 0)
	src.SetAlias("ll", "ls")
	src.SetVariable("EDITOR", "vi")
	src.AddHistory("echo not persisted")
	require.NoError(t, store.Save(src))

	dst := NewEnv("/elsewhere", "/home/u", 0)
	require.NoError(t, store.Load(dst))

	c, ok := dst.Alias("ll")
	assert.True(t, ok)
	assert.Equal(t, "ls", c)
	v, ok := dst.Variable("EDITOR")
	assert.True(t, ok)
	assert.Equal(t, "vi", v)
	assert.Empty(t, dst.History())
}

func TestStoreKeepsProcessValuesFresh(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs, "/s.yaml")

	t.Setenv("PATH", "/old/bin")
	src := NewEnv("/work", "/home/old", 0)
	src.SetDir("/work/sub")
	src.SetVariable("EDITOR", "vi")
	require.NoError(t, store.Save(src))

	raw, err := afero.ReadFile(fs, "/s.yaml")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "PATH")
	assert.NotContains(t, string(raw), "HOME")
	assert.NotContains(t, string(raw), "PWD")

	t.Setenv("PATH", "/new/bin")
	dst := NewEnv("/elsewhere", "/home/new", 0)
	require.NoError(t, store.Load(dst))

	v, _ := dst.Variable("PATH")
	assert.Equal(t, "/new/bin", v)
	v, _ = dst.Variable("HOME")
	assert.Equal(t, "/home/new", v)
	_, ok := dst.Variable("PWD")
	assert.False(t, ok)
	assert.Equal(t, "/elsewhere", dst.Dir())
	v, _ = dst.Variable("EDITOR")
	assert.Equal(t, "vi", v)
}

func TestStoreKeepsUserOverrides(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs, "/s.yaml")

	src := NewEnv("/work", "/home/u", 0)
	src.SetVariable("PATH", "/custom/bin")
	require.NoError(t, store.Save(src))

	dst := NewEnv("/work", "/home/u", 0)
	require.NoError(t, store.Load(dst))
	v, _ := dst.Variable("PATH")
	assert.Equal(t, "/custom/bin", v)
}

func TestStoreLoadIgnoresSavedPWD(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/s.yaml", []byte("variables:\n  PWD: /stale\n"), 0o600))
	env := NewEnv("/fresh", "/home/u", 0)
	require.NoError(t, NewStore(fs, "/s.yaml").Load(env))
	_, ok := env.Variable("PWD")
	assert.False(t, ok)
}

func TestStoreLoadMissingFile(t *testing.T) {
	store := NewStore(afero.NewMemMapFs(), "/nope.yaml")
	assert.NoError(t, store.Load(NewEnv("/", "/home/u", 0)))
}

func TestStoreLoadCorruptFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/s.yaml", []byte("aliases: [1, 2"), 0o600))
	err := NewStore(fs, "/s.yaml").Load(NewEnv("/", "/home/u", 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing session state")
}
