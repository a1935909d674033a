package view

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/reconbattery/pos/internal/decision"
	"github.com/reconbattery/pos/internal/live"
	"github.com/reconbattery/pos/internal/register"
	"github.com/reconbattery/pos/internal/sale"
)

type SalesModel struct {
	CommonModel
	saleService *sale.Service
	controller  *register.Controller
	decisions   decision.Gateway

	table table.Model
	sales []*sale.Sale

	busy    bool
	loading bool
	err     error
	status  string
}

func NewSalesModel(saleSvc *sale.Service, ctrl *register.Controller, decisions decision.Gateway) SalesModel {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Date", Width: 18},
		{Title: "Subtotal", Width: 10},
		{Title: "Tax", Width: 8},
		{Title: "Total", Width: 10},
		{Title: "Method", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return SalesModel{
		saleService: saleSvc,
		controller:  ctrl,
		decisions:   decisions,
		table:       t,
	}
}

func (m SalesModel) Title() string { return "Saved Sales" }

func (m SalesModel) ShortHelp() string {
	if m.busy {
		return "Working..."
	}

	return "Esc: back | Enter: load into register | d: delete | D: clear history | r: refresh"
}

func (m SalesModel) Init() tea.Cmd {
	m.loading = true
	return m.loadCmd()
}

func (m SalesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadSalesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.sales = msg.sales
		m.refreshTable()

		return m, nil

	case saleLoadResultMsg:
		m.busy = false
		if msg.err != nil {
			m.status = opStatus(msg.err)
			return m, nil
		}

		// Hand off to the register view.
		return m, func() tea.Msg { return SaleLoadedMsg{ID: msg.id} }

	case saleDeleteResultMsg:
		m.busy = false
		m.status = opStatus(msg.err)
		if msg.err == nil {
			m.status = fmt.Sprintf("Deleted sale %d.", msg.id)
		}

		return m, m.loadCmd()

	case salePurgeResultMsg:
		m.busy = false
		m.status = opStatus(msg.err)
		if msg.err == nil {
			m.status = "Sales history cleared."
		}

		return m, m.loadCmd()

	case StoreChangedMsg:
		if msg.Table == live.TableSales {
			return m, m.loadCmd()
		}

		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}

		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "enter":
			if s := m.selected(); s != nil {
				m.busy = true
				return m, m.loadSaleCmd(s.ID)
			}

			return m, nil
		case "d":
			if s := m.selected(); s != nil {
				m.busy = true
				return m, m.deleteCmd(s.ID)
			}

			return m, nil
		case "D":
			if len(m.sales) > 0 {
				m.busy = true
				return m, m.purgeCmd()
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m SalesModel) selected() *sale.Sale {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.sales) {
		return nil
	}

	return m.sales[idx]
}

func opStatus(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, decision.ErrCancelled):
		return "Cancelled."
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

func (m SalesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading sales...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	content := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *SalesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.sales))
	for _, s := range m.sales {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", s.ID),
			FormatDate(s.SaleDate),
			FormatMoney(s.Subtotal),
			FormatMoney(s.Tax),
			FormatMoney(s.Total),
			string(s.Method),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadSalesMsg struct {
	sales []*sale.Sale
	err   error
}

func (m SalesModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		sales, err := m.saleService.List(ctx, sale.ListFilter{})
		return loadSalesMsg{sales: sales, err: err}
	}
}

type saleLoadResultMsg struct {
	id  int64
	err error
}

// Load and Delete may prompt; they run on a background context so the dialog
// can wait on the cashier.

func (m SalesModel) loadSaleCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		return saleLoadResultMsg{id: id, err: m.controller.Load(context.Background(), id)}
	}
}

type saleDeleteResultMsg struct {
	id  int64
	err error
}

func (m SalesModel) deleteCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		return saleDeleteResultMsg{id: id, err: m.controller.Delete(context.Background(), id)}
	}
}

type salePurgeResultMsg struct {
	err error
}

func (m SalesModel) purgeCmd() tea.Cmd {
	return func() tea.Msg {
		choice, err := m.decisions.Ask(context.Background(), decision.Prompt{
			Title:   "Clear Sales History",
			Message: "Delete ALL saved sales? This action cannot be undone.",
			Options: []decision.Option{
				{Label: "Delete Everything", Value: "purge", Emphasis: decision.EmphasisDanger},
				{Label: "Cancel", Value: "cancel", Emphasis: decision.EmphasisSecondary},
			},
		})
		if err != nil {
			return salePurgeResultMsg{err: err}
		}

		if choice != "purge" {
			return salePurgeResultMsg{err: decision.ErrCancelled}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		return salePurgeResultMsg{err: m.saleService.Purge(ctx)}
	}
}
