package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Base16 palette with warm earth tones
var (
	// Base colors (backgrounds and text)
	ColorBase00 = lipgloss.Color("#1a1816") // Dark background
	ColorBase01 = lipgloss.Color("#282420") // Lighter background
	ColorBase02 = lipgloss.Color("#36302a") // Selection background
	ColorBase03 = lipgloss.Color("#5c5044") // Comments, invisibles
	ColorBase04 = lipgloss.Color("#83715f") // Dark foreground
	ColorBase05 = lipgloss.Color("#ab937b") // Default foreground
	ColorBase06 = lipgloss.Color("#d3b597") // Light foreground
	ColorBase07 = lipgloss.Color("#f5d7b9") // Lightest foreground

	// Accent colors (syntax highlighting)
	ColorRed    = lipgloss.Color("#d95f5f") // Errors, deletions
	ColorOrange = lipgloss.Color("#eb8755") // Integers, booleans
	ColorYellow = lipgloss.Color("#f5b761") // Warnings, strings
	ColorGreen  = lipgloss.Color("#93b56b") // Success, additions
	ColorCyan   = lipgloss.Color("#61afaf") // Support, regex
	ColorBlue   = lipgloss.Color("#6b93b5") // Functions, methods
	ColorPurple = lipgloss.Color("#976bb5") // Keywords, storage
	ColorBrown  = lipgloss.Color("#b57f6b") // Deprecated, special

	// UI specific colors
	ColorBorder    = ColorBase03
	ColorSelection = ColorBase02
	ColorFocus     = ColorOrange
	ColorSuccess   = ColorGreen
	ColorWarning   = ColorYellow
	ColorError     = ColorRed
	ColorInfo      = ColorCyan
	ColorMuted     = ColorBase03
	ColorHighlight = ColorYellow

	// Extra nick colors
	ColorMagenta = lipgloss.Color("#d33682")
	ColorViolet  = lipgloss.Color("#6c71c4")
)

// Styles defines the Lipgloss styles for the scrollback view
type Styles struct {
	// Layout styles
	Header    lipgloss.Style
	StatusBar lipgloss.Style

	// Message parts
	Timestamp lipgloss.Style
	Sender    lipgloss.Style
	Text      lipgloss.Style
	Server    lipgloss.Style
	Action    lipgloss.Style
	CodeBlock lipgloss.Style

	// Read marker divider
	Divider lipgloss.Style

	// Status line parts
	StatusLive     lipgloss.Style
	StatusUnlocked lipgloss.Style
	StatusMuted    lipgloss.Style
	StatusError    lipgloss.Style
}

// senderColors rotates through the accent palette so each nick keeps one color
var senderColors = []lipgloss.Color{
	ColorGreen, ColorBlue, ColorPurple, ColorCyan, ColorOrange, ColorBrown, ColorMagenta, ColorViolet,
}

// SenderColor picks a stable color for a nick
func SenderColor(nick string) lipgloss.Color {
	var sum uint32
	for _, r := range nick {
		sum = sum*31 + uint32(r)
	}
	return senderColors[sum%uint32(len(senderColors))]
}

// DefaultStyles returns the default Lipgloss styles
func DefaultStyles() *Styles {
	return &Styles{
		Header: lipgloss.NewStyle().
			Foreground(ColorBase07).
			Background(ColorBase02).
			Bold(true).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Background(ColorBase01).
			Foreground(ColorBase05).
			Padding(0, 1),

		Timestamp: lipgloss.NewStyle().
			Foreground(ColorMuted),

		Sender: lipgloss.NewStyle().
			Bold(true),

		Text: lipgloss.NewStyle().
			Foreground(ColorBase06),

		Server: lipgloss.NewStyle().
			Foreground(ColorBase04).
			Italic(true),

		Action: lipgloss.NewStyle().
			Foreground(ColorPurple).
			Italic(true),

		CodeBlock: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorYellow).
			Padding(0, 1),

		Divider: lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true),

		StatusLive: lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true),

		StatusUnlocked: lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true),

		StatusMuted: lipgloss.NewStyle().
			Foreground(ColorBase04),

		StatusError: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),
	}
}
