package chat

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/backscroll/pkg/history"
	"github.com/killallgit/backscroll/pkg/logger"
	"github.com/killallgit/backscroll/pkg/tui/theme"
	"github.com/mattn/go-runewidth"
)

var (
	fencePattern    = regexp.MustCompile("(?s)^```([\\w+-]*)\\n(.*?)\\n?```\\s*$")
	markdownPattern = regexp.MustCompile("(\\*\\*[^*]+\\*\\*|`[^`]+`|^#{1,6} |^> |^[-*] )")
)

// Formatter renders history messages into terminal blocks of a given width
type Formatter struct {
	styles          *theme.Styles
	markdown        bool
	timestampFormat string

	codeFormatter chroma.Formatter
	codeStyle     *chroma.Style
	renderers     map[int]*glamour.TermRenderer
	log           *logger.ComponentLogger
}

func NewFormatter(styles *theme.Styles, markdown bool, timestampFormat string) *Formatter {
	if timestampFormat == "" {
		timestampFormat = "15:04"
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}
	style := chromastyles.Get("monokai")
	if style == nil {
		style = chromastyles.Fallback
	}

	return &Formatter{
		styles:          styles,
		markdown:        markdown,
		timestampFormat: timestampFormat,
		codeFormatter:   formatter,
		codeStyle:       style,
		renderers:       make(map[int]*glamour.TermRenderer),
		log:             logger.WithComponent("format"),
	}
}

// Render formats one message. The result never contains trailing newlines.
func (f *Formatter) Render(msg *history.Message, width int) string {
	if width < 20 {
		width = 20
	}
	stamp := f.styles.Timestamp.Render(msg.ServerTime.Local().Format(f.timestampFormat))

	switch msg.Kind {
	case history.KindServer:
		return f.styles.Server.Width(width).Render(stamp + " -- " + msg.Text)
	case history.KindAction:
		nick := f.styles.Sender.Foreground(theme.SenderColor(msg.Sender)).Render(msg.Sender)
		return f.styles.Action.Width(width).Render(stamp + " * " + nick + " " + msg.Text)
	}

	prefix := stamp + " " + f.nick(msg.Sender) + " "
	bodyWidth := width - lipgloss.Width(prefix)
	if bodyWidth < 10 {
		bodyWidth = 10
	}

	var body string
	switch {
	case msg.Kind == history.KindCode:
		body = f.code(msg.Text, bodyWidth)
	case f.markdown && markdownPattern.MatchString(msg.Text):
		body = f.markdownBody(msg.Text, bodyWidth)
	default:
		body = f.styles.Text.Width(bodyWidth).Render(msg.Text)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, prefix, body)
}

// Divider renders the read marker line
func (f *Formatter) Divider(width int) string {
	label := " new messages "
	side := (width - runewidth.StringWidth(label)) / 2
	if side < 1 {
		return f.styles.Divider.Render(strings.TrimSpace(label))
	}
	line := strings.Repeat("─", side) + label + strings.Repeat("─", width-side-runewidth.StringWidth(label))
	return f.styles.Divider.Render(line)
}

func (f *Formatter) nick(sender string) string {
	return f.styles.Sender.
		Foreground(theme.SenderColor(sender)).
		Render("<" + runewidth.Truncate(sender, 16, "…") + ">")
}

func (f *Formatter) markdownBody(text string, width int) string {
	r, ok := f.renderers[width]
	if !ok {
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithStylePath("notty"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			f.log.Warn("markdown renderer unavailable", "error", err)
			return f.styles.Text.Width(width).Render(text)
		}
		f.renderers[width] = r
	}

	out, err := r.Render(text)
	if err != nil {
		f.log.Debug("markdown render failed", "error", err)
		return f.styles.Text.Width(width).Render(text)
	}
	return trimBlock(out)
}

func (f *Formatter) code(text string, width int) string {
	lang, src := "", text
	if m := fencePattern.FindStringSubmatch(strings.TrimSpace(text)); m != nil {
		lang, src = m[1], m[2]
	}

	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil {
		lexer = lexers.Analyse(src)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	highlighted := src
	if iterator, err := lexer.Tokenise(nil, src); err == nil {
		var buf bytes.Buffer
		if err := f.codeFormatter.Format(&buf, f.codeStyle, iterator); err == nil {
			highlighted = buf.String()
		}
	}

	// the border takes two columns outside the style width
	return f.styles.CodeBlock.Width(width - 2).Render(strings.TrimRight(highlighted, "\n"))
}

// trimBlock drops the blank lines and right padding glamour adds around a document
func trimBlock(s string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i := range lines {
		lines[i] = strings.TrimPrefix(lines[i], "  ")
	}
	return strings.Join(lines, "\n")
}
