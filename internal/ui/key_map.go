package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up            key.Binding
	down          key.Binding
	enter         key.Binding
	back          key.Binding
	yes           key.Binding
	no            key.Binding
	more          key.Binding
	less          key.Binding
	bookings      key.Binding
	account       key.Binding
	notifications key.Binding
	admin         key.Binding
	login         key.Binding
	logout        key.Binding
	cancel        key.Binding
	read          key.Binding
	next          key.Binding
	quit          key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:            key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:          key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:          key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		yes:           key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
		no:            key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "cancel")),
		more:          key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more seats")),
		less:          key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "fewer seats")),
		bookings:      key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bookings")),
		account:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "account")),
		notifications: key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "notifications")),
		admin:         key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "admin")),
		login:         key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "log in")),
		logout:        key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "log out")),
		cancel:        key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "cancel booking")),
		read:          key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "mark read")),
		next:          key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
		quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.bookings, k.account, k.notifications, k.admin},
		{k.login, k.logout, k.quit},
	}
}
