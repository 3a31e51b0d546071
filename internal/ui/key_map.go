package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	enter     key.Binding
	back      key.Binding
	search    key.Binding
	nextTag   key.Binding
	sort      key.Binding
	clear     key.Binding
	favorite  key.Binding
	open      key.Binding
	create    key.Binding
	edit      key.Binding
	remove    key.Binding
	reload    key.Binding
	yes       key.Binding
	no        key.Binding
	catalog   key.Binding
	favorites key.Binding
	admin     key.Binding
	about     key.Binding
	login     key.Binding
	register  key.Binding
	logout    key.Binding
	theme     key.Binding
	nextField key.Binding
	prevField key.Binding
	submit    key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		nextTag:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tag")),
		sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		clear:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),
		favorite:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		open:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		create:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		remove:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		yes:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:        key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		catalog:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "catalog")),
		favorites: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "favorites")),
		admin:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "admin")),
		about:     key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "about")),
		login:     key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "login")),
		register:  key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "register")),
		logout:    key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "logout")),
		theme:     key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "theme")),
		nextField: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		prevField: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
		submit:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.search, k.nextTag, k.sort, k.clear, k.favorite, k.open},
		{k.catalog, k.favorites, k.admin, k.about},
		{k.login, k.register, k.logout, k.theme, k.quit},
	}
}
