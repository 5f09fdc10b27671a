package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tessera/pkg/dataset"
	"github.com/matzehuels/tessera/pkg/pipeline"
	"github.com/matzehuels/tessera/pkg/placement"
)

const defaultWatchDelay = 60 * time.Millisecond

// watchCommand creates the watch command, which animates a placement in the
// terminal one step per tick.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		dims  dimensionFlags
		input string
		delay time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Animate a placement step by step in the terminal",
		Long: `Watch runs the placement engine interactively and redraws the grid after every
insertion. The most recent insertion is marked.

Keys: space pause/resume, n or → single step while paused, q quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.dimensionOptions(cmd, &dims)
			if input != "" {
				d, err := dataset.ImportJSON(input)
				if err != nil {
					return err
				}
				opts.Dataset = d
			}
			opts.Logger = c.Logger
			if err := opts.ValidateForGenerate(); err != nil {
				return err
			}
			opts.SetBuildDefaults()

			d, err := pipeline.Generate(cmd.Context(), opts)
			if err != nil {
				return err
			}
			m, err := newWatchModel(d, opts.Seed, delay)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	dims.register(cmd)
	cmd.Flags().StringVarP(&input, "input", "i", "", "dataset JSON file (default: generate)")
	cmd.Flags().DurationVar(&delay, "delay", defaultWatchDelay, "time between steps")
	registerFlagCompletions(cmd)

	return cmd
}

// =============================================================================
// watchModel - bubbletea model driving the engine
// =============================================================================

type tickMsg struct{}

type watchModel struct {
	data   *dataset.Dataset
	engine *placement.Engine
	rel    *placement.Relations
	delay  time.Duration
	total  int

	last   *placement.Step
	paused bool
	err    error
}

func newWatchModel(d *dataset.Dataset, seed uint64, delay time.Duration) (watchModel, error) {
	rel, err := d.PlacementRelations()
	if err != nil {
		return watchModel{}, err
	}
	eng, err := placement.New(d.Width, d.Depth, rel, placement.WithSeed(seed))
	if err != nil {
		return watchModel{}, err
	}
	return watchModel{
		data:   d,
		engine: eng,
		rel:    rel,
		delay:  delay,
		total:  d.Len() - 1,
	}, nil
}

func (m watchModel) tick() tea.Cmd {
	return tea.Tick(m.delay, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m watchModel) Init() tea.Cmd {
	return m.tick()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "space":
			m.paused = !m.paused
			if !m.paused && !m.engine.Done() {
				return m, m.tick()
			}
		case "n", "right":
			if m.paused {
				m = m.advance()
			}
		}
	case tickMsg:
		if m.paused || m.engine.Done() || m.err != nil {
			return m, nil
		}
		m = m.advance()
		if m.err != nil || m.engine.Done() {
			return m, nil
		}
		return m, m.tick()
	}
	return m, nil
}

// advance commits one step.
func (m watchModel) advance() watchModel {
	if m.engine.Done() || m.err != nil {
		return m
	}
	s, err := m.engine.Step()
	if err != nil {
		m.err = err
		return m
	}
	m.last = &s
	return m
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("%s %dx%d", m.data.Generator, m.data.Width, m.data.Depth)))
	b.WriteString("\n\n")

	grid := m.engine.Snapshot()
	var mark *gridPos
	if m.last != nil {
		mark = &gridPos{row: m.last.Point.Row, column: m.last.Column}
	}
	b.WriteString(renderGrid(m.data, grid, mark))
	b.WriteString("\n")

	status := fmt.Sprintf("step %d/%d", m.engine.Steps(), m.total)
	if m.last != nil {
		status += fmt.Sprintf("  column %d  %s  row %d  score %.3f  trials %d",
			m.last.Column, m.last.Point.Kind, m.last.Element, m.last.Score, m.last.Trials)
	}
	b.WriteString(StyleValue.Render(status))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(StyleWarning.Render("error: " + m.err.Error()))
	case m.engine.Done():
		b.WriteString(StyleNumber.Render(fmt.Sprintf("done, total score %.3f", placement.TotalScore(m.rel, grid))))
		b.WriteString(StyleDim.Render("  q quit"))
	case m.paused:
		b.WriteString(StyleDim.Render("paused  space resume  n step  q quit"))
	default:
		b.WriteString(StyleDim.Render("space pause  q quit"))
	}
	b.WriteString("\n")
	return b.String()
}
