// Package styles holds the color themes and lipgloss styles of the shell.
package styles

import "github.com/charmbracelet/lipgloss"

// ThemedStyles contains all the lipgloss styles built from a color palette.
// Styles are rebuilt when the theme changes.
type ThemedStyles struct {
	// Colors from the palette
	PrimaryColor   lipgloss.Color
	SecondaryColor lipgloss.Color
	WarningColor   lipgloss.Color
	ErrorColor     lipgloss.Color
	MutedColor     lipgloss.Color
	SurfaceColor   lipgloss.Color
	TextColor      lipgloss.Color
	BorderColor    lipgloss.Color

	// Convenience styles for colors
	Primary lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style

	// Tab strip
	TabActive      lipgloss.Style
	TabInactive    lipgloss.Style
	TabDragged     lipgloss.Style
	DropIndicator  lipgloss.Style
	NewTab         lipgloss.Style
	NewTabActive   lipgloss.Style
	OverflowButton lipgloss.Style
	AuxButton      lipgloss.Style

	// Overflow menu
	MenuContainer    lipgloss.Style
	MenuItem         lipgloss.Style
	MenuItemSelected lipgloss.Style

	// Address bar
	AddressBar    lipgloss.Style
	AddressPrompt lipgloss.Style
	AddressPath   lipgloss.Style

	// Content area
	ContentBox   lipgloss.Style
	ContentTitle lipgloss.Style

	// Help bar
	HelpBar lipgloss.Style
	HelpKey lipgloss.Style
}

// NewThemedStyles builds the styles for palette p.
func NewThemedStyles(p *ColorPalette) *ThemedStyles {
	s := &ThemedStyles{
		PrimaryColor:   p.Primary,
		SecondaryColor: p.Secondary,
		WarningColor:   p.Warning,
		ErrorColor:     p.Error,
		MutedColor:     p.Muted,
		SurfaceColor:   p.Surface,
		TextColor:      p.Text,
		BorderColor:    p.Border,
	}

	s.Primary = lipgloss.NewStyle().Foreground(p.Primary)
	s.Muted = lipgloss.NewStyle().Foreground(p.Muted)
	s.Error = lipgloss.NewStyle().Foreground(p.Error)

	// Tabs carry no horizontal padding: the strip pads labels to the width
	// the layout assigns, so rendered widths match the capacity math.
	s.TabActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Text).
		Background(p.Primary)

	s.TabInactive = lipgloss.NewStyle().
		Foreground(p.Muted).
		Background(p.Surface)

	s.TabDragged = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Surface).
		Background(p.Warning)

	s.DropIndicator = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Indicator)

	s.NewTab = lipgloss.NewStyle().
		Foreground(p.Secondary)

	s.NewTabActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Text).
		Background(p.Secondary)

	s.OverflowButton = lipgloss.NewStyle().
		Foreground(p.Primary)

	s.AuxButton = lipgloss.NewStyle().
		Foreground(p.Muted)

	s.MenuContainer = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, 1)

	s.MenuItem = lipgloss.NewStyle().
		Foreground(p.Text)

	s.MenuItemSelected = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Text).
		Background(p.Primary)

	s.AddressBar = lipgloss.NewStyle().
		Foreground(p.Text)

	s.AddressPrompt = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary)

	s.AddressPath = lipgloss.NewStyle().
		Foreground(p.Muted)

	s.ContentBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(1, 2)

	s.ContentTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary).
		MarginBottom(1)

	s.HelpBar = lipgloss.NewStyle().
		Foreground(p.Muted)

	s.HelpKey = lipgloss.NewStyle().
		Foreground(p.Secondary).
		Bold(true)

	return s
}

// ForTheme builds the styles for the named theme.
func ForTheme(name string) *ThemedStyles {
	return NewThemedStyles(GetPalette(ThemeName(name)))
}
