package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoryKeepsSubmissionOrder(t *testing.T) {
	env := NewEnv("/work", "/home/u", 0)
	assert.Empty(t, env.LastCommand())

	env.AddHistory("echo one")
	env.AddHistory("ls")
	env.AddHistory("echo one")

	assert.Equal(t, []string{"echo one", "ls", "echo one"}, env.History())
	assert.Equal(t, "echo one", env.LastCommand())
	assert.Equal(t, 3, env.HistoryLen())
}

func TestHistoryLimitDropsOldest(t *testing.T) {
	env := NewEnv("/work", "/home/u", 2)
	env.AddHistory("a")
	env.AddHistory("b")
	env.AddHistory("c")
	assert.Equal(t, []string{"b", "c"}, env.History())
}

func TestHistoryReturnsCopy(t *testing.T) {
	env := NewEnv("/work", "/home/u", 0)
	env.AddHistory("a")
	h := env.History()
	h[0] = "mutated"
	assert.Equal(t, "a", env.LastCommand())
}

func TestVariables(t *testing.T) {
	t.Setenv("PATH", "")
	t.Setenv("CCLI_TEST_ONLY_IN_PROCESS", "proc")
	env := NewEnv("/work", "/home/u", 0)

	v, ok := env.Variable("PATH")
	assert.True(t, ok)
	assert.Equal(t, DefaultPath, v)

	env.SetVariable("GREETING", "hi there")
	env.SetVariable("GREETING", "hello")
	v, _ = env.Variable("GREETING")
	assert.Equal(t, "hello", v)

	assert.Equal(t, "hello", env.Lookup("GREETING"))
	assert.Equal(t, "proc", env.Lookup("CCLI_TEST_ONLY_IN_PROCESS"))
	assert.Empty(t, env.Lookup("CCLI_TEST_DOES_NOT_EXIST"))

	assert.True(t, env.UnsetVariable("GREETING"))
	assert.False(t, env.UnsetVariable("GREETING"))

	names := []string{}
	for _, p := range env.Variables() {
		names = append(names, p.Name)
	}
	assert.IsIncreasing(t, names)
}

func TestAliases(t *testing.T) {
	env := NewEnv("/work", "/home/u", 0)
	env.SetAlias("ll", "ls -l")
	env.SetAlias("g", "grep")

	c, ok := env.Alias("ll")
	assert.True(t, ok)
	assert.Equal(t, "ls -l", c)

	assert.Equal(t, []Pair{{"g", "grep"}, {"ll", "ls -l"}}, env.Aliases())
	assert.True(t, env.RemoveAlias("g"))
	assert.False(t, env.RemoveAlias("g"))
	_, ok = env.Alias("g")
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	env := NewEnv("/work/sub", "/home/u", 0)
	assert.Equal(t, "/work/sub", env.Resolve(""))
	assert.Equal(t, "/home/u", env.Resolve("~"))
	assert.Equal(t, "/home/u/docs", env.Resolve("~/docs"))
	assert.Equal(t, "/etc", env.Resolve("/etc/"))
	assert.Equal(t, "/work/sub/a.txt", env.Resolve("a.txt"))
	assert.Equal(t, "/work", env.Resolve(".."))

	env.SetDir("/tmp/x/")
	assert.Equal(t, "/tmp/x", env.Dir())
	assert.Equal(t, "/tmp/x/f", env.Resolve("f"))
	pwd, _ := env.Variable("PWD")
	assert.Equal(t, "/tmp/x", pwd)
}

func TestConcurrentAccess(t *testing.T) {
	env := NewEnv("/work", "/home/u", 50)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				env.AddHistory("x")
				_ = env.History()
				env.SetAlias("a", "b")
				_ = env.Aliases()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, env.HistoryLen())
}
