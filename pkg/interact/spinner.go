package interact

import (
	"context"
	"sync/atomic"
	"time"

	bubbles "github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// spanFrames animates a deck being laid between two pillars.
var spanFrames = bubbles.Spinner{
	Frames: []string{
		" ╥        ╥ ",
		" ╥═       ╥ ",
		" ╥══      ╥ ",
		" ╥═══     ╥ ",
		" ╥════    ╥ ",
		" ╥═════   ╥ ",
		" ╥══════  ╥ ",
		" ╥═══════ ╥ ",
		" ╥════════╥ ",
		" ╥════════╥ ",
		" ╥═══════ ╥ ",
		" ╥══════  ╥ ",
		" ╥═════   ╥ ",
		" ╥════    ╥ ",
		" ╥═══     ╥ ",
		" ╥══      ╥ ",
		" ╥═       ╥ ",
	},
	FPS: time.Second / 8,
}

const minSpinnerDuration = 500 * time.Millisecond

// RunWithSpinner runs fn under a themed spinner. fn receives a SetTitle
// callback to update the spinner title mid-run, e.g. as bridges converge.
// The spinner displays for at least minSpinnerDuration to avoid flashing.
func RunWithSpinner(ctx context.Context, title string, fn func(ctx context.Context, setTitle func(string)) error) error {
	currentTitle := &atomic.Value{}
	currentTitle.Store(title)

	theme := NewTheme()
	model := &spinnerModel{
		spinner:    bubbles.New(bubbles.WithSpinner(spanFrames), bubbles.WithStyle(theme.Spinner)),
		title:      currentTitle,
		titleStyle: theme.Muted,
		ctx:        ctx,
		action: func(actionCtx context.Context) error {
			return fn(actionCtx, func(t string) { currentTitle.Store(t) })
		},
	}

	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithInput(nil))
	if _, err := p.Run(); err != nil {
		return err
	}
	if model.doneErr != nil {
		return *model.doneErr
	}
	return nil
}

// spinnerModel is a bubbletea model that reads its title from an atomic
// value, letting the action goroutine update it mid-run.
type spinnerModel struct {
	spinner        bubbles.Model
	title          *atomic.Value
	titleStyle     lipgloss.Style
	action         func(context.Context) error
	ctx            context.Context
	doneErr        *error // non-nil once the action has finished
	minTimeElapsed bool
}

type actionDoneMsg struct{ err error }
type minTimeMsg struct{}

func (m *spinnerModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			return actionDoneMsg{m.action(m.ctx)}
		},
		tea.Tick(minSpinnerDuration, func(time.Time) tea.Msg {
			return minTimeMsg{}
		}),
	)
}

func (m *spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case actionDoneMsg:
		m.doneErr = &msg.err
		if m.minTimeElapsed {
			return m, tea.Quit
		}
		return m, nil
	case minTimeMsg:
		m.minTimeElapsed = true
		if m.doneErr != nil {
			return m, tea.Quit
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Interrupt
		}
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m *spinnerModel) View() string {
	t, _ := m.title.Load().(string)
	return m.spinner.View() + m.titleStyle.Render(t)
}
