package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#E50914", "#04B575", "#FF5F5F", "#FFB000", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title  lipgloss.Style
	header lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	muted  lipgloss.Style
	field  lipgloss.Style
}

func NewPalette(accent, success, failure, warning, muted string) *Palette {
	return &Palette{
		title:  NewBold(accent).MarginBottom(1),
		header: NewStyle(muted).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(lipgloss.Color(accent)),
		ok:     NewBold(success),
		err:    NewBold(failure),
		warn:   NewStyle(warning),
		muted:  NewEm(muted),
		field:  lipgloss.NewStyle().PaddingLeft(2),
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
