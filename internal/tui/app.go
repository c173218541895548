package tui

import (
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/classdesk/internal/config"
	"github.com/Iron-Ham/classdesk/internal/tui/msg"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   Model
	watch   bool
}

// AppOption configures an App.
type AppOption func(*App)

// WithConfigWatch reloads the theme and tab strip layout when the config
// file changes on disk.
func WithConfigWatch() AppOption {
	return func(a *App) { a.watch = true }
}

// New creates a new TUI application
func New(opts Options, appOpts ...AppOption) *App {
	a := &App{model: NewModel(opts)}
	for _, opt := range appOpts {
		opt(a)
	}
	return a
}

// Model returns the initial model.
func (a *App) Model() Model {
	return a.model
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	defer a.model.Close()

	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Quit cleanly on termination so the workspace state is flushed by the caller
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	done := make(chan struct{})
	go relaySignals(sigChan, done, func() { a.program.Send(tea.Quit()) })

	if a.watch {
		config.Watch(
			func(cfg *config.Config) { a.program.Send(msg.ConfigReloadedMsg{Config: cfg}) },
			func(err error) { a.program.Send(msg.ErrMsg{Err: err}) },
		)
	}

	_, err := a.program.Run()

	signal.Stop(sigChan)
	close(done)

	return err
}

// relaySignals calls quit when a signal arrives on sigs. It returns without
// calling quit once done is closed.
func relaySignals(sigs <-chan os.Signal, done <-chan struct{}, quit func()) {
	select {
	case <-sigs:
		quit()
	case <-done:
	}
}
