// Package tui is the terminal host of the workspace. It owns the address
// bar and history, measures the tab strip, turns keys and mouse events into
// navigation, and renders the tabs the workspace computes.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/classdesk/internal/config"
	"github.com/Iron-Ham/classdesk/internal/logging"
	"github.com/Iron-Ham/classdesk/internal/tabkey"
	"github.com/Iron-Ham/classdesk/internal/tabstrip"
	"github.com/Iron-Ham/classdesk/internal/tui/keymap"
	"github.com/Iron-Ham/classdesk/internal/tui/styles"
	"github.com/Iron-Ham/classdesk/internal/tui/view"
	"github.com/Iron-Ham/classdesk/internal/workspace"
)

// Options configures a Model.
type Options struct {
	// Registry holds the (already restored) tab state. Required.
	Registry *workspace.Registry
	// InitialPath is the address the shell starts at. When empty the shell
	// starts at the first restored tab, or the new-tab page if none is open.
	InitialPath string
	// Resolver supplies page content (default: NewDefaultResolver()).
	Resolver ContentResolver
	// Config supplies the tab strip layout, theme and toggles (default: config.Default()).
	Config *config.Config
	Logger *logging.Logger
}

// Model is the Bubble Tea model of the shell.
type Model struct {
	reg      *workspace.Registry
	nav      *workspace.Navigator
	history  *workspace.History
	sync     *workspace.LocationSync
	drag     *workspace.DragController
	detach   func()
	resolver ContentResolver

	layout   tabstrip.Layout
	styles   *styles.ThemedStyles
	keymap   *keymap.Keymap
	help     help.Model
	address  textinput.Model
	showAux  bool
	showHelp bool

	mode       keymap.Mode
	menuIndex  int
	dragTarget tabkey.Key // keyboard drag: tab the dragged tab would drop on
	mouseDown  tabkey.Key // tab under the last left-button press
	linkKey    tabkey.Key // page the link selection belongs to
	linkIndex  int
	regions    []view.Region
	errMsg     string

	width, height int
	quitting      bool
	logger        *logging.Logger
}

// NewModel wires the navigation controllers around opts.Registry and
// reconciles the registry with the initial path.
func NewModel(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = NewDefaultResolver()
	}
	reg := opts.Registry
	initial := opts.InitialPath
	if initial == "" {
		initial = startPath(reg)
	}

	history := workspace.NewHistory(initial, reg.Bus())
	sync := workspace.NewLocationSync(reg, history, logger)
	detach := sync.Attach(reg.Bus())

	input := textinput.New()
	input.Prompt = "› "
	input.Placeholder = "/classroom/5a/students"
	input.CharLimit = 256

	th := styles.ForTheme(cfg.TUI.Theme)
	m := Model{
		reg:      reg,
		nav:      workspace.NewNavigator(reg, history, logger),
		history:  history,
		sync:     sync,
		drag:     workspace.NewDragController(reg),
		detach:   detach,
		resolver: resolver,
		layout:   cfg.TabStrip.Layout(),
		styles:   th,
		keymap:   keymap.DefaultKeymap(),
		help:     view.NewHelp(th),
		address:  input,
		showAux:  cfg.TUI.ShowAuxiliary,
		showHelp: cfg.TUI.ShowHelp,
		mode:     keymap.ModeNormal,
		logger:   logger.WithComponent("tui"),
	}
	m.address.PromptStyle = th.AddressPrompt

	sync.OnPath(history.Path())
	return m
}

// startPath returns the address of the first open tab, leaving the restored
// order as it is.
func startPath(reg *workspace.Registry) string {
	order := reg.Order()
	if len(order) == 0 {
		return tabkey.ToPath(tabkey.NewTab)
	}
	return tabkey.ToPath(order[0])
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Close detaches the model from the registry's bus.
func (m Model) Close() {
	if m.detach != nil {
		m.detach()
	}
}

// Registry returns the workspace registry.
func (m Model) Registry() *workspace.Registry { return m.reg }

// History returns the address-bar history.
func (m Model) History() *workspace.History { return m.history }

// Mode returns the current input mode.
func (m Model) Mode() keymap.Mode { return m.mode }

// Split lays out the tab strip for the current width.
func (m Model) Split() tabstrip.Split {
	return tabstrip.Compute(m.reg.Order(), m.reg.Active(), m.stripParams(), m.layout)
}

func (m Model) stripParams() tabstrip.Params {
	return tabstrip.Params{
		Width:             m.width,
		PlaceholderActive: m.reg.PlaceholderActive(),
		AuxVisible:        m.showAux,
	}
}

// page resolves the current key.
func (m Model) page() Page {
	current := m.reg.Current()
	if current == "" {
		current = tabkey.NewTab
	}
	return m.resolver.Resolve(current, m.reg.Title)
}

// applyConfig switches to a reloaded configuration.
func (m *Model) applyConfig(cfg *config.Config) {
	m.layout = cfg.TabStrip.Layout()
	m.styles = styles.ForTheme(cfg.TUI.Theme)
	m.help = view.NewHelp(m.styles)
	m.help.Width = m.width
	m.address.PromptStyle = m.styles.AddressPrompt
	m.showAux = cfg.TUI.ShowAuxiliary
	m.showHelp = cfg.TUI.ShowHelp
	m.logger.Info("configuration reloaded", "theme", cfg.TUI.Theme)
}
