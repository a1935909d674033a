package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by all views.
type CommonModel struct{}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// StoreChangedMsg signals that a store table was written. The root model
// forwards it to the active view so lists refresh without polling.
type StoreChangedMsg struct {
	Table string
}

// SaleLoadedMsg is emitted when a stored sale was loaded into the register
// session; the root model switches to the register view in response.
type SaleLoadedMsg struct {
	ID int64
}
