package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/skillstream/internal/notify"
)

const (
	DarkTheme  = "dark"
	LightTheme = "light"
)

var (
	darkPalette  = NewPalette("#7D56F4", "#04B575", "#FF5F87", "#FFA500", "#00AFFF", "#626262", "#FAFAFA")
	lightPalette = NewPalette("#5A3FC0", "#00875A", "#D70000", "#AF5F00", "#005FAF", "#8A8A8A", "#1C1C1C")
)

// PaletteFor returns the palette for theme; anything but "light" is dark.
func PaletteFor(theme string) *Palette {
	if theme == LightTheme {
		return lightPalette
	}
	return darkPalette
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title    lipgloss.Style
	ok       lipgloss.Style
	err      lipgloss.Style
	warn     lipgloss.Style
	info     lipgloss.Style
	help     lipgloss.Style
	text     lipgloss.Style
	muted    lipgloss.Style
	selected lipgloss.Style
	chip     lipgloss.Style
	active   lipgloss.Style
}

func NewPalette(t, s, e, w, i, h, fg string) *Palette {
	return &Palette{
		title:    NewBold(t).MarginBottom(1),
		ok:       NewBold(s),
		err:      NewBold(e),
		warn:     NewStyle(w),
		info:     NewStyle(i),
		help:     NewEm(h),
		text:     NewStyle(fg),
		muted:    NewStyle(h),
		selected: NewBold(t).BorderLeft(true).BorderStyle(lipgloss.ThickBorder()).BorderForeground(lipgloss.Color(t)).PaddingLeft(1),
		chip:     NewStyle(h).Padding(0, 1),
		active:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color(t)).Padding(0, 1),
	}
}

// Notice styles a notice by kind.
func (p *Palette) Notice(n notify.Notice) string {
	switch n.Kind {
	case notify.Success:
		return p.ok.Render("✓ " + n.Text)
	case notify.Error:
		return p.err.Render("✗ " + n.Text)
	default:
		return p.info.Render("• " + n.Text)
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
