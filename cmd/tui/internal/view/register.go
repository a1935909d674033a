package view

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/reconbattery/pos/internal/cart"
	"github.com/reconbattery/pos/internal/catalog"
	"github.com/reconbattery/pos/internal/decision"
	"github.com/reconbattery/pos/internal/live"
	"github.com/reconbattery/pos/internal/register"
	"github.com/reconbattery/pos/internal/sale"
	"github.com/reconbattery/pos/internal/settings"
)

const (
	focusProducts = iota
	focusCart
)

type RegisterModel struct {
	CommonModel
	controller *register.Controller
	catService *catalog.Service
	rates      *settings.Store

	prodTable table.Model
	cartTable table.Model
	products  []catalog.Product
	focus     int

	session register.Session
	totals  cart.Totals

	busy   bool
	status string
	err    error
}

func NewRegisterModel(ctrl *register.Controller, catSvc *catalog.Service, rates *settings.Store) RegisterModel {
	prod := table.New(
		table.WithColumns([]table.Column{
			{Title: "Product", Width: 16},
			{Title: "Price", Width: 10},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	crt := table.New(
		table.WithColumns([]table.Column{
			{Title: "Item", Width: 16},
			{Title: "Qty", Width: 5},
			{Title: "Price", Width: 10},
			{Title: "Total", Width: 10},
		}),
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
	prod.SetStyles(s)
	crt.SetStyles(s)

	m := RegisterModel{
		controller: ctrl,
		catService: catSvc,
		rates:      rates,
		prodTable:  prod,
		cartTable:  crt,
	}
	m.refresh()

	return m
}

func (m RegisterModel) Title() string { return "Register" }

func (m RegisterModel) ShortHelp() string {
	if m.busy {
		return "Working..."
	}

	if m.focus == focusCart {
		return "Tab: products | +/-: qty | x: remove | m: method | t: tax | n: new | s: save | p: print | Esc: back"
	}

	return "Tab: cart | Enter: add item | m: method | t: tax | n: new | s: save | p: print | Esc: back"
}

func (m RegisterModel) Init() tea.Cmd {
	return m.loadProductsCmd()
}

func (m RegisterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadProductsMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.products = msg.products
		m.refreshProducts()

		return m, nil

	case registerOpMsg:
		m.busy = false
		m.setOpStatus(msg.verb, msg.err)
		m.refresh()

		return m, nil

	case saleSavedMsg:
		m.busy = false
		if msg.err != nil {
			m.setOpStatus("save", msg.err)
		} else {
			m.status = fmt.Sprintf("Saved sale %d.", msg.id)
		}
		m.refresh()

		return m, nil

	case StoreChangedMsg:
		if msg.Table == live.TableProducts {
			return m, m.loadProductsCmd()
		}

		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}

		return m.updateKeys(msg)
	}

	return m, nil
}

func (m RegisterModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, Back

	case "tab":
		if m.focus == focusProducts {
			m.focus = focusCart
			m.prodTable.Blur()
			m.cartTable.Focus()
		} else {
			m.focus = focusProducts
			m.cartTable.Blur()
			m.prodTable.Focus()
		}

		return m, nil

	case "enter":
		if m.focus == focusProducts {
			idx := m.prodTable.Cursor()
			if idx < 0 || idx >= len(m.products) {
				return m, nil
			}

			return m, m.addItemCmd(m.products[idx].Name)
		}

	case "+", "=":
		if m.focus == focusCart {
			return m.adjustQty(1), nil
		}

	case "-", "_":
		if m.focus == focusCart {
			return m.adjustQty(-1), nil
		}

	case "x":
		if m.focus == focusCart {
			idx := m.cartTable.Cursor()
			if err := m.controller.RemoveItem(idx); err != nil {
				m.status = fmt.Sprintf("Error: %v", err)
			}
			m.refresh()

			return m, nil
		}

	case "m":
		if err := m.controller.SetPaymentMethod(nextMethod(m.session.PaymentMethod)); err != nil {
			m.status = fmt.Sprintf("Error: %v", err)
		}
		m.refresh()

		return m, nil

	case "t":
		m.controller.SetTaxEnabled(!m.session.TaxEnabled)
		m.refresh()

		return m, nil

	case "n":
		m.busy = true
		return m, m.newCmd()

	case "s":
		m.busy = true
		return m, m.saveCmd()

	case "p":
		m.busy = true
		return m, m.printCmd()

	case "r":
		return m, m.loadProductsCmd()
	}

	var cmd tea.Cmd
	if m.focus == focusProducts {
		m.prodTable, cmd = m.prodTable.Update(msg)
	} else {
		m.cartTable, cmd = m.cartTable.Update(msg)
	}

	return m, cmd
}

func (m RegisterModel) adjustQty(delta int) RegisterModel {
	idx := m.cartTable.Cursor()
	if idx < 0 || idx >= len(m.session.Lines) {
		return m
	}

	if err := m.controller.SetQuantity(idx, m.session.Lines[idx].Qty+delta); err != nil {
		m.status = fmt.Sprintf("Error: %v", err)
	}
	m.refresh()

	return m
}

func nextMethod(current sale.Method) sale.Method {
	switch current {
	case sale.MethodCash:
		return sale.MethodCard
	case sale.MethodCard:
		return sale.MethodCheck
	default:
		return sale.MethodCash
	}
}

func (m *RegisterModel) setOpStatus(verb string, err error) {
	switch {
	case err == nil:
		m.status = fmt.Sprintf("%s done.", verb)
	case errors.Is(err, decision.ErrCancelled):
		m.status = "Cancelled."
	default:
		m.status = fmt.Sprintf("Error: %v", err)
	}
}

func (m *RegisterModel) refresh() {
	m.session = m.controller.Session()

	totals, err := m.controller.Totals()
	if err != nil {
		m.status = fmt.Sprintf("Error: %v", err)
	} else {
		m.totals = totals
	}

	rows := make([]table.Row, 0, len(m.session.Lines))
	for _, line := range m.session.Lines {
		rows = append(rows, table.Row{
			line.Product,
			strconv.Itoa(line.Qty),
			FormatMoney(line.UnitPrice),
			FormatMoney(line.LineTotal),
		})
	}
	m.cartTable.SetRows(rows)

	if cursor := m.cartTable.Cursor(); cursor >= len(rows) && len(rows) > 0 {
		m.cartTable.SetCursor(len(rows) - 1)
	}
}

func (m *RegisterModel) refreshProducts() {
	rows := make([]table.Row, 0, len(m.products))
	for _, p := range m.products {
		rows = append(rows, table.Row{p.Name, FormatMoney(p.Price)})
	}
	m.prodTable.SetRows(rows)
}

func (m RegisterModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	title := "New Sale"
	if m.session.CurrentSaleID != nil {
		title = fmt.Sprintf("Sale #%d", *m.session.CurrentSaleID)
	}
	if m.session.Modified {
		title += " *"
	}

	method := "none"
	if m.session.PaymentMethod != "" {
		method = string(m.session.PaymentMethod)
	}

	tax := "off"
	if m.session.TaxEnabled {
		tax = fmt.Sprintf("on (%s%%)", m.rates.TaxRatePercent().String())
	}

	header := fmt.Sprintf("%s | [m] Method: %s | [t] Tax: %s",
		lipgloss.NewStyle().Bold(true).Render(title),
		activeStyle(method),
		activeStyle(tax),
	)

	border := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240"))

	totals := fmt.Sprintf("Subtotal: %8s\nTax:      %8s\nTotal:    %8s",
		FormatMoney(m.totals.Subtotal),
		FormatMoney(m.totals.Tax),
		FormatMoney(m.totals.Total),
	)

	right := lipgloss.JoinVertical(lipgloss.Left,
		border.Render(m.cartTable.View()),
		lipgloss.NewStyle().Padding(0, 1).Render(totals),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		lipgloss.JoinHorizontal(lipgloss.Top, border.Render(m.prodTable.View()), " ", right),
	)

	if m.status != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, content,
			lipgloss.NewStyle().Faint(true).Render(m.status))
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

// Messages

type loadProductsMsg struct {
	products []catalog.Product
	err      error
}

func (m RegisterModel) loadProductsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		products, err := m.catService.List(ctx)
		return loadProductsMsg{products: products, err: err}
	}
}

type registerOpMsg struct {
	verb string
	err  error
}

type saleSavedMsg struct {
	id  int64
	err error
}

func (m RegisterModel) addItemCmd(name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return registerOpMsg{verb: "Add", err: m.controller.AddItem(ctx, name)}
	}
}

// The prompting operations run on a background context: they block on the
// decision dialog for as long as the cashier takes to answer.

func (m RegisterModel) newCmd() tea.Cmd {
	return func() tea.Msg {
		return registerOpMsg{verb: "New sale", err: m.controller.New(context.Background())}
	}
}

func (m RegisterModel) saveCmd() tea.Cmd {
	return func() tea.Msg {
		id, err := m.controller.Save(context.Background())
		return saleSavedMsg{id: id, err: err}
	}
}

func (m RegisterModel) printCmd() tea.Cmd {
	return func() tea.Msg {
		return registerOpMsg{verb: "Print", err: m.controller.Print(context.Background())}
	}
}
