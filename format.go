// FILE: lixenwraith/grouplog/format.go
package grouplog

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color is one of the sixteen terminal colors a logger name or group prefix can use.
type Color int

// Color constants
const (
	ColorNone Color = iota
	ColorBlack
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorGray
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
)

// palette maps every Color to its ANSI index
var palette = map[Color]lipgloss.Color{
	ColorBlack:         "0",
	ColorRed:           "1",
	ColorGreen:         "2",
	ColorYellow:        "3",
	ColorBlue:          "4",
	ColorMagenta:       "5",
	ColorCyan:          "6",
	ColorWhite:         "7",
	ColorGray:          "8",
	ColorBrightRed:     "9",
	ColorBrightGreen:   "10",
	ColorBrightYellow:  "11",
	ColorBrightBlue:    "12",
	ColorBrightMagenta: "13",
	ColorBrightCyan:    "14",
	ColorBrightWhite:   "15",
}

var colorNames = map[Color]string{
	ColorNone:          "none",
	ColorBlack:         "black",
	ColorRed:           "red",
	ColorGreen:         "green",
	ColorYellow:        "yellow",
	ColorBlue:          "blue",
	ColorMagenta:       "magenta",
	ColorCyan:          "cyan",
	ColorWhite:         "white",
	ColorGray:          "gray",
	ColorBrightRed:     "bright_red",
	ColorBrightGreen:   "bright_green",
	ColorBrightYellow:  "bright_yellow",
	ColorBrightBlue:    "bright_blue",
	ColorBrightMagenta: "bright_magenta",
	ColorBrightCyan:    "bright_cyan",
	ColorBrightWhite:   "bright_white",
}

// String returns the color name accepted by ParseColor
func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return "none"
}

// ParseColor converts a color name ("red", "bright_blue", "grey", ...) to a Color.
func ParseColor(name string) (Color, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer("-", "_", " ", "_").Replace(n)
	// "blueBright" style names
	if base, ok := strings.CutSuffix(n, "bright"); ok && base != "" {
		n = "bright_" + strings.TrimSuffix(base, "_")
	}
	if n == "grey" || n == "bright_black" {
		return ColorGray, nil
	}
	if n == "" {
		return ColorNone, nil
	}
	for c, cn := range colorNames {
		if cn == n {
			return c, nil
		}
	}
	return ColorNone, fmtErrorf("unknown color '%s'", name)
}

// formatter owns the resolved styles of a runtime. Styles are computed once
// from the config and never change afterwards.
type formatter struct {
	renderer        *lipgloss.Renderer
	timestampLayout string
	timestamp       lipgloss.Style
	number          lipgloss.Style
	levels          map[Level]lipgloss.Style
	colors          map[Color]lipgloss.Style
}

// newFormatter resolves all styles for the given output and color mode
func newFormatter(cfg *Config, out io.Writer) *formatter {
	r := lipgloss.NewRenderer(out)
	switch cfg.ColorMode {
	case "always":
		r.SetColorProfile(termenv.ANSI)
	case "never":
		r.SetColorProfile(termenv.Ascii)
	}

	f := &formatter{
		renderer:        r,
		timestampLayout: cfg.TimestampFormat,
		timestamp:       r.NewStyle().Foreground(palette[ColorGray]).Underline(true),
		number:          r.NewStyle().Foreground(palette[ColorYellow]),
		levels: map[Level]lipgloss.Style{
			LevelInfo:  r.NewStyle().Foreground(palette[ColorCyan]),
			LevelWarn:  r.NewStyle().Foreground(palette[ColorYellow]),
			LevelDebug: r.NewStyle().Foreground(palette[ColorMagenta]),
			LevelError: r.NewStyle().Foreground(palette[ColorRed]),
		},
		colors: make(map[Color]lipgloss.Style, len(palette)),
	}
	for c, lc := range palette {
		f.colors[c] = r.NewStyle().Foreground(lc)
	}
	return f
}

// formatTimestamp renders the styled entry timestamp
func (f *formatter) formatTimestamp(t time.Time) string {
	return f.timestamp.Render(t.Format(f.timestampLayout))
}

// formatLevel renders the level name left-aligned in its column
func (f *formatter) formatLevel(level Level) string {
	text := padRight(level.String(), levelWidth)
	if st, ok := f.levels[level]; ok {
		return st.Render(text)
	}
	return text
}

// formatNumber renders a number literal
func (f *formatter) formatNumber(s string) string {
	return f.number.Render(s)
}

// paint renders text in the given color, ColorNone leaves it untouched
func (f *formatter) paint(c Color, text string) string {
	st, ok := f.colors[c]
	if !ok || text == "" {
		return text
	}
	return st.Render(text)
}

// formatPrefix builds "[<group>] <name>" with the group part padded to groupWidth
// and the name to nameWidth. An empty group yields the bare name.
func (f *formatter) formatPrefix(group string, groupColor Color, groupWidth int,
	name string, nameColor Color, nameWidth int) string {
	styledName := f.paint(nameColor, padLeft(name, nameWidth))
	if group == "" {
		return styledName
	}
	return "[" + f.paint(groupColor, padLeft(group, groupWidth)) + "] " + styledName
}
