// Package tui renders batch progress as a bubbletea program and roadmaps
// as a lipgloss node grid.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/courseforge/internal/coursegen"
	"github.com/abhisek/courseforge/internal/ui/components"
	"github.com/abhisek/courseforge/internal/ui/layout"
	"github.com/abhisek/courseforge/internal/ui/theme"
)

// Stages in display order.
var Stages = []string{
	coursegen.StageSynthesize,
	coursegen.StageRoadmaps,
	coursegen.StageEnrich,
	coursegen.StageWrite,
	coursegen.StagePersist,
}

var stageLabels = map[string]string{
	coursegen.StageSynthesize: "Synthesize courses",
	coursegen.StageRoadmaps:   "Build roadmaps",
	coursegen.StageEnrich:     "Enrich descriptions",
	coursegen.StageWrite:      "Write artifact",
	coursegen.StagePersist:    "Persist to store",
}

type ProgressMsg coursegen.Progress

type DoneMsg struct {
	Result coursegen.Result
	Err    error
}

// Model shows one progress bar per batch stage. Quitting cancels the
// batch and waits for DoneMsg so the artifact still gets written.
type Model struct {
	title    string
	progress map[string]coursegen.Progress
	current  string
	spinner  spinner.Model
	cancel   context.CancelFunc
	start    time.Time
	width    int

	stopping bool
	done     bool
	result   coursegen.Result
	err      error
}

func New(title string, cancel context.CancelFunc) Model {
	return Model{
		title:    title,
		progress: make(map[string]coursegen.Progress),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		cancel:   cancel,
		start:    time.Now(),
		width:    80,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = max(msg.Width, layout.MinWidth)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if !m.stopping && m.cancel != nil {
				m.cancel()
			}
			m.stopping = true
		}
		return m, nil

	case ProgressMsg:
		m.progress[msg.Stage] = coursegen.Progress(msg)
		if msg.Stage != coursegen.StageDone {
			m.current = msg.Stage
		}
		return m, nil

	case DoneMsg:
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() tea.View {
	return tea.NewView(m.render())
}

func (m Model) render() string {
	header := layout.RenderHeader(m.title, time.Since(m.start).Round(time.Second).String(), m.width)

	var b strings.Builder
	for _, stage := range Stages {
		b.WriteString(m.stageLine(stage))
		b.WriteString("\n")
	}
	if m.done {
		b.WriteString("\n")
		b.WriteString(m.summary())
	}

	hints := []layout.KeyHint{{Key: "q", Description: "Stop (already generated courses are still written)"}}
	if m.stopping && !m.done {
		hints = []layout.KeyHint{{Key: "…", Description: "Stopping, writing what was generated"}}
	}
	footer := layout.RenderFooter(hints, m.width)

	return layout.RenderFrame(header, b.String(), footer, m.width)
}

func (m Model) stageLine(stage string) string {
	p, seen := m.progress[stage]
	label := fmt.Sprintf("%-20s", stageLabels[stage])

	var marker string
	switch {
	case !seen:
		marker = theme.Pending.Render("·")
	case p.Total > 0 && p.Done >= p.Total, m.current != stage:
		marker = theme.Done.Render("✓")
	default:
		marker = m.spinner.View()
	}

	if !seen {
		return marker + " " + theme.Pending.Render(label)
	}
	bar := components.NewProgressBar("", p.Done, p.Total, max(m.width-40, 10))
	count := theme.Subtitle.Render(fmt.Sprintf(" %d/%d", p.Done, p.Total))
	return marker + " " + lipgloss.NewStyle().Foreground(theme.Text).Render(label) + " " + bar.View() + count
}

func (m Model) summary() string {
	if m.err != nil {
		return theme.Failed.Render("Stopped: " + m.err.Error())
	}
	r := m.result
	lines := []string{
		theme.Done.Render(fmt.Sprintf("Generated %d courses and %d roadmaps in %s", r.Courses, r.Roadmaps, r.Elapsed.Round(time.Millisecond))),
	}
	if r.Enrich.Enriched+r.Enrich.Failed+r.Enrich.Skipped > 0 {
		lines = append(lines, theme.Body.Render(fmt.Sprintf("Enriched %d, failed %d, skipped %d", r.Enrich.Enriched, r.Enrich.Failed, r.Enrich.Skipped)))
	}
	for _, p := range r.Paths {
		lines = append(lines, theme.Hint.Render("→ "+p))
	}
	return strings.Join(lines, "\n")
}

// Run drives batch under a bubbletea program. batch receives the progress
// callback to install on coursegen.Batch.
func Run(title string, cancel context.CancelFunc, batch func(onProgress func(coursegen.Progress)) (coursegen.Result, error)) (coursegen.Result, error) {
	p := tea.NewProgram(New(title, cancel))

	go func() {
		res, err := batch(func(pr coursegen.Progress) { p.Send(ProgressMsg(pr)) })
		p.Send(DoneMsg{Result: res, Err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return coursegen.Result{}, fmt.Errorf("run progress view: %w", err)
	}
	m := final.(Model)
	return m.result, m.err
}
