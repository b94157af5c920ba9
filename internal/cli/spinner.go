package cli

import (
	"context"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// spinnerFrames are the animation frames, cycled every tick.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinnerInterval is the delay between animation frames.
const spinnerInterval = 80 * time.Millisecond

// spinnerTickMsg advances the animation.
type spinnerTickMsg struct{}

// spinnerDoneMsg stops the program and clears the line.
type spinnerDoneMsg struct{}

// spinnerModel is the bubbletea model for the inline progress spinner.
type spinnerModel struct {
	message  string
	frame    int
	quitting bool
}

func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

func (m spinnerModel) Init() tea.Cmd {
	return spinnerTick()
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case spinnerTickMsg:
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, spinnerTick()
	case spinnerDoneMsg:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.quitting {
		return ""
	}
	return styleIconSpinner.Render(spinnerFrames[m.frame]) + " " + StyleDim.Render(m.message)
}

// Spinner shows an inline progress indicator on stderr while a pipeline
// stage runs. It stops on Stop or when the context is cancelled.
type Spinner struct {
	ctx     context.Context
	program *tea.Program
	done    chan struct{}
}

// newSpinnerWithContext creates a spinner bound to ctx.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	p := tea.NewProgram(
		spinnerModel{message: message},
		tea.WithContext(ctx),
		tea.WithOutput(os.Stderr),
		tea.WithInput(nil),
	)
	return &Spinner{ctx: ctx, program: p, done: make(chan struct{})}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	go func() {
		defer close(s.done)
		_, _ = s.program.Run()
	}()
}

// Stop stops the spinner and clears the line.
func (s *Spinner) Stop() {
	s.program.Send(spinnerDoneMsg{})
	s.program.Quit()
	<-s.done
}

// StopWithSuccess stops the spinner and shows a success message.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and shows an error message.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled returns true if the spinner's context was cancelled.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}
