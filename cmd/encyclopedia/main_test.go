package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/encyclopedia"
	"github.com/aretw0/encyclopedia/pkg/core"
)

// run executes the CLI with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runWithInput(t, "", args...)
}

func runWithInput(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "encyclopedia version "+encyclopedia.Version+"\n", out)
}

func TestCreateReadList(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "-d", dir, "create", "Python", "-c", "# Python\n\nA language.")
	require.NoError(t, err)
	assert.Contains(t, out, "Entry 'Python' created.")

	_, err = run(t, "-d", dir, "create", "CSS", "-c", "# CSS")
	require.NoError(t, err)

	t.Run("Duplicate Create Fails", func(t *testing.T) {
		_, err := run(t, "-d", dir, "create", "Python", "-c", "again")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("Read Raw", func(t *testing.T) {
		out, err := run(t, "-d", dir, "read", "Python")
		require.NoError(t, err)
		assert.Equal(t, "# Python\n\nA language.", out)
	})

	t.Run("Read HTML", func(t *testing.T) {
		out, err := run(t, "-d", dir, "read", "--html", "Python")
		require.NoError(t, err)
		assert.Contains(t, out, "<h1")
		assert.Contains(t, out, "<p>A language.</p>")
	})

	t.Run("Read Missing", func(t *testing.T) {
		_, err := run(t, "-d", dir, "read", "Go")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("List Sorted", func(t *testing.T) {
		out, err := run(t, "-d", dir, "list")
		require.NoError(t, err)
		assert.Equal(t, "CSS\nPython\n", out)
	})

	t.Run("List JSON", func(t *testing.T) {
		out, err := run(t, "-d", dir, "list", "--json")
		require.NoError(t, err)
		var titles []string
		require.NoError(t, json.Unmarshal([]byte(out), &titles))
		assert.Equal(t, []string{"CSS", "Python"}, titles)
	})

	t.Run("List Search", func(t *testing.T) {
		out, err := run(t, "-d", dir, "list", "-s", "yth")
		require.NoError(t, err)
		assert.Equal(t, "Python\n", out)
	})

	t.Run("List Glob", func(t *testing.T) {
		out, err := run(t, "-d", dir, "list", "--glob", "C*")
		require.NoError(t, err)
		assert.Equal(t, "CSS\n", out)

		_, err = run(t, "-d", dir, "list", "--glob", "[")
		assert.Error(t, err)
	})
}

func TestWriteOverwrites(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, "-d", dir, "write", "Git", "-c", "v1")
	require.NoError(t, err)

	out, err := runWithInput(t, "v2 from stdin", "-d", dir, "write", "Git", "-f", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Entry 'Git' saved.")

	data, err := os.ReadFile(filepath.Join(dir, "Git.md"))
	require.NoError(t, err)
	assert.Equal(t, "v2 from stdin", string(data))
}

func TestWriteFromFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(t.TempDir(), "django.md")
	require.NoError(t, os.WriteFile(src, []byte("# Django"), 0644))

	_, err := run(t, "-d", dir, "create", "Django", "-f", src)
	require.NoError(t, err)

	out, err := run(t, "-d", dir, "read", "Django")
	require.NoError(t, err)
	assert.Equal(t, "# Django", out)
}

func TestInvalidTitleRejected(t *testing.T) {
	_, err := run(t, "-d", t.TempDir(), "write", "../escape", "-c", "x")
	assert.ErrorIs(t, err, core.ErrInvalidTitle)
}

func TestRandom(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, "-d", dir, "random")
	assert.ErrorIs(t, err, core.ErrEmptyStore)

	_, err = run(t, "-d", dir, "write", "HTML", "-c", "# HTML")
	require.NoError(t, err)

	out, err := run(t, "-d", dir, "random")
	require.NoError(t, err)
	assert.Equal(t, "HTML\n", out)
}

func TestExportImport(t *testing.T) {
	src := t.TempDir()
	_, err := run(t, "-d", src, "write", "Python", "-c", "# Python")
	require.NoError(t, err)
	_, err = run(t, "-d", src, "write", "Git", "-c", "# Git")
	require.NoError(t, err)

	bundlePath := filepath.Join(t.TempDir(), "bundle.yaml")
	_, err = run(t, "-d", src, "export", "-o", bundlePath)
	require.NoError(t, err)

	data, err := os.ReadFile(bundlePath)
	require.NoError(t, err)
	var b map[string]string
	require.NoError(t, yaml.Unmarshal(data, &b))
	assert.Equal(t, map[string]string{"Python": "# Python", "Git": "# Git"}, b)

	t.Run("Into SQLite", func(t *testing.T) {
		db := filepath.Join(t.TempDir(), "wiki.db")
		out, err := run(t, "--adapter", "sqlite", "-d", db, "import", bundlePath)
		require.NoError(t, err)
		assert.Contains(t, out, "Imported 2 entries (0 skipped).")

		out, err = run(t, "--adapter", "sqlite", "-d", db, "list")
		require.NoError(t, err)
		assert.Equal(t, "Git\nPython\n", out)
	})

	t.Run("Skip Existing", func(t *testing.T) {
		dst := t.TempDir()
		_, err := run(t, "-d", dst, "write", "Git", "-c", "mine")
		require.NoError(t, err)

		out, err := run(t, "-d", dst, "import", "--skip-existing", bundlePath)
		require.NoError(t, err)
		assert.Contains(t, out, "Imported 1 entries (1 skipped).")

		out, err = run(t, "-d", dst, "read", "Git")
		require.NoError(t, err)
		assert.Equal(t, "mine", out)
	})
}

func TestStatus(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "-d", dir, "write", "CSS", "-c", "# CSS")
	require.NoError(t, err)

	out, err := run(t, "-d", dir, "status")
	require.NoError(t, err)

	var report struct {
		Version string `json:"version"`
		Entries int    `json:"entries"`
		Service struct {
			RepositoryType string `json:"repository_type"`
			Watchable      bool   `json:"watchable"`
		} `json:"service"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, encyclopedia.Version, report.Version)
	assert.Equal(t, 1, report.Entries)
	assert.Equal(t, "fs-repository", report.Service.RepositoryType)
	assert.True(t, report.Service.Watchable)
}

func TestConfigFile(t *testing.T) {
	root := t.TempDir()
	cfgPath := filepath.Join(root, "encyclopedia.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("store:\n  path: wiki\n"), 0644))

	_, err := run(t, "--config", cfgPath, "write", "Python", "-c", "# Python")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "wiki", "Python.md"))

	out, err := run(t, "--config", cfgPath, "config")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(root, "wiki"))
	assert.Contains(t, out, "adapter: fs")

	t.Run("Env Usage", func(t *testing.T) {
		out, err := run(t, "config", "--env")
		require.NoError(t, err)
		assert.Contains(t, out, "ENCYCLOPEDIA_STORE_ADAPTER")
	})
}

func TestLogsCarryCommandName(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs([]string{"-d", t.TempDir(), "write", "Go", "-c", "# Go"})
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.Contains(t, stderr.String(), `"msg":"entry updated"`)
	assert.Contains(t, stderr.String(), `"cmd":"write"`)
}

func TestParseEventTypes(t *testing.T) {
	types, err := parseEventTypes([]string{"create", " Delete "})
	require.NoError(t, err)
	assert.Equal(t, []core.EventType{core.EventCreate, core.EventDelete}, types)

	_, err = parseEventTypes([]string{"rename"})
	assert.Error(t, err)

	_, err = run(t, "-d", t.TempDir(), "watch", "--type", "rename")
	assert.Error(t, err)
}

func TestInvalidAdapterFlag(t *testing.T) {
	_, err := run(t, "--adapter", "mongo", "-d", t.TempDir(), "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "adapter")
}
