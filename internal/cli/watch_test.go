package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/tessera/pkg/dataset"
	"github.com/matzehuels/tessera/pkg/placement"
)

func newTestWatch(t *testing.T) watchModel {
	t.Helper()
	d, err := dataset.Generate(dataset.GenerateOptions{Width: 2, Depth: 3, Seed: 1})
	require.NoError(t, err)
	m, err := newWatchModel(d, 42, time.Millisecond)
	require.NoError(t, err)
	return m
}

func update(m watchModel, msg tea.Msg) (watchModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(watchModel), cmd
}

func TestWatchRunsToCompletion(t *testing.T) {
	m := newTestWatch(t)
	require.NotNil(t, m.Init())

	var cmd tea.Cmd
	for range 10 {
		m, cmd = update(m, tickMsg{})
		if m.engine.Done() {
			break
		}
		require.NotNil(t, cmd, "ticking should continue until done")
	}
	assert.True(t, m.engine.Done())
	assert.Nil(t, cmd, "no tick after the last step")
	assert.Equal(t, 5, m.engine.Steps())
	assert.Equal(t, 6, m.engine.Snapshot().Filled())

	view := m.View()
	assert.Contains(t, view, "step 5/5")
	assert.Contains(t, view, "done")
}

func TestWatchPauseAndStep(t *testing.T) {
	m := newTestWatch(t)

	m, _ = update(m, tea.KeyMsg{Type: tea.KeySpace})
	require.True(t, m.paused)
	assert.Contains(t, m.View(), "paused")

	m, cmd := update(m, tickMsg{})
	assert.Nil(t, cmd)
	assert.Equal(t, 0, m.engine.Steps(), "ticks are ignored while paused")

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	assert.Equal(t, 1, m.engine.Steps())
	require.NotNil(t, m.last)
	assert.Equal(t, 1, m.last.Index)

	m, cmd = update(m, tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, m.paused)
	assert.NotNil(t, cmd, "resuming schedules a tick")
}

func TestWatchQuit(t *testing.T) {
	m := newTestWatch(t)
	_, cmd := update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestRenderGrid(t *testing.T) {
	d, err := dataset.Generate(dataset.GenerateOptions{Width: 2, Depth: 2, Seed: 1})
	require.NoError(t, err)
	grid := placement.Snapshot{
		{1, placement.Empty},
		{0, 1},
		{placement.Empty, 0},
	}

	out := renderGrid(d, grid, &gridPos{row: 1, column: 1})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "[]")
	assert.NotContains(t, lines[0], "[]")
	assert.Equal(t, 1, strings.Count(out, "[]"))
	assert.Equal(t, 3, strings.Count(out, cellGlyph))
}
