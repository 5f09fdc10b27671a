package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/tessera/pkg/dataset"
	"github.com/matzehuels/tessera/pkg/errors"
)

// isolate points config and cache lookups at fresh temporary directories.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestBuildCommandWritesFormats(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	base := filepath.Join(dir, "out", "grid")

	err := execute(t, "build", "-W", "3", "-D", "4", "-s", "5", "-f", "svg,txt,json", "-o", base)
	require.NoError(t, err)

	for _, ext := range []string{"svg", "txt", "json"} {
		info, err := os.Stat(base + "." + ext)
		require.NoError(t, err, ext)
		assert.Positive(t, info.Size(), ext)
	}

	txt, err := os.ReadFile(base + ".txt")
	require.NoError(t, err)
	// Every original row appears once per column: 12 ids in total.
	ids := 0
	for _, f := range strings.Fields(string(txt)) {
		if f != "." {
			ids++
		}
	}
	assert.Equal(t, 12, ids)
}

func TestBuildCommandFrames(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	frames := filepath.Join(dir, "frames")

	err := execute(t, "build", "-W", "2", "-D", "3", "-o", filepath.Join(dir, "grid"), "--frames", frames)
	require.NoError(t, err)

	entries, err := os.ReadDir(frames)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
	assert.Equal(t, "step-00001.png", entries[0].Name())
	assert.Equal(t, "step-00005.png", entries[4].Name())
}

func TestGenerateThenBuild(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	data := filepath.Join(dir, "data.json")

	require.NoError(t, execute(t, "generate", "-g", "bands", "-W", "4", "-D", "2", "--name", "demo", "-o", data))

	d, err := dataset.ImportJSON(data)
	require.NoError(t, err)
	assert.Equal(t, "demo", d.Name)
	assert.Equal(t, dataset.GeneratorBands, d.Generator)
	assert.Equal(t, 8, d.Len())

	// Dimensions come from the dataset, not the flags.
	require.NoError(t, execute(t, "build", "--input", data, "-W", "99", "-f", "txt", "-o", filepath.Join(dir, "grid")))
	txt, err := os.ReadFile(filepath.Join(dir, "grid.txt"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(txt)), "\n")
	assert.Len(t, strings.Fields(lines[0]), 2)
}

func TestBuildCommandErrors(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	err := execute(t, "build", "-W", "2", "-D", "2", "-f", "gif", "-o", filepath.Join(dir, "g"))
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported), "got %v", err)

	err = execute(t, "build", "-W", "2", "-D", "2", "--seed-element", "2", "-o", filepath.Join(dir, "g"))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "got %v", err)

	err = execute(t, "build", "--input", filepath.Join(dir, "missing.json"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "got %v", err)
}

func TestBuildUsesConfigFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	cfg := filepath.Join(dir, "tessera.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("width = 2\ndepth = 2\nformats = [\"txt\"]\n[cache]\nbackend = \"none\"\n"), 0o644))

	base := filepath.Join(dir, "grid")
	require.NoError(t, execute(t, "--config", cfg, "build", "-o", base))

	txt, err := os.ReadFile(base + ".txt")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(txt)), "\n")
	assert.Len(t, strings.Fields(lines[0]), 2, "depth from config")
	_, err = os.Stat(base + ".svg")
	assert.True(t, os.IsNotExist(err), "formats from config replace the default")
}

func TestCacheClearCommand(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	require.NoError(t, execute(t, "build", "-W", "2", "-D", "2", "-o", filepath.Join(dir, "g")))

	cdir, err := cacheDir()
	require.NoError(t, err)
	entries, err := os.ReadDir(cdir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	require.NoError(t, execute(t, "cache", "clear"))
	entries, err = os.ReadDir(cdir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
