package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/reconbattery/pos/internal/catalog"
	"github.com/reconbattery/pos/internal/live"
	"github.com/reconbattery/pos/internal/money"
)

type productState int

const (
	productStateBrowse productState = iota
	productStateEdit
)

type ProductModel struct {
	CommonModel
	catService *catalog.Service

	state    productState
	table    table.Model
	products []catalog.Product
	form     *huh.Form

	// Form bindings
	formName  string
	formPrice string
	editing   string // original name when editing, empty when adding

	loading bool
	err     error
	status  string
}

func NewProductModel(catSvc *catalog.Service) ProductModel {
	columns := []table.Column{
		{Title: "Name", Width: 20},
		{Title: "Price", Width: 12},
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

	return ProductModel{
		catService: catSvc,
		table:      t,
	}
}

func (m ProductModel) Title() string { return "Product Catalog" }

func (m ProductModel) ShortHelp() string {
	if m.state == productStateEdit {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | a: add | e: edit | d: delete | r: refresh"
}

func (m ProductModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ProductModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadCatalogMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.products = msg.products
		m.refreshTable()

		return m, nil

	case productSaveMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		} else {
			m.status = ""
		}
		m.state = productStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case productDeleteMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error deleting: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Deleted %s.", msg.name)
		}

		return m, m.loadCmd()

	case StoreChangedMsg:
		if msg.Table == live.TableProducts && m.state == productStateBrowse {
			return m, m.loadCmd()
		}

		return m, nil
	}

	switch m.state {
	case productStateBrowse:
		return m.updateBrowse(msg)
	case productStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m ProductModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "a":
			return m.enterEditMode(nil)
		case "e":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.products) {
				return m, nil
			}

			return m.enterEditMode(&m.products[idx])
		case "d":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.products) {
				return m, nil
			}

			return m, m.deleteCmd(m.products[idx].Name)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ProductModel) enterEditMode(p *catalog.Product) (tea.Model, tea.Cmd) {
	m.editing = ""
	m.formName = ""
	m.formPrice = ""

	if p != nil {
		m.editing = p.Name
		m.formName = p.Name
		m.formPrice = money.Format(p.Price)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&m.formName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("price").
				Title("Price").
				Placeholder("0.00").
				Value(&m.formPrice).
				Validate(func(s string) error {
					_, err := money.Parse(strings.TrimSpace(s))
					return err
				}),
		),
	).WithWidth(40).WithShowHelp(false)

	m.state = productStateEdit
	m.table.Blur()
	return m, m.form.Init()
}

func (m ProductModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = productStateBrowse
			m.form = nil
			m.table.Focus()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m ProductModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading products...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	content := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	if m.state == productStateEdit && m.form != nil {
		title := "Add Product"
		if m.editing != "" {
			title = fmt.Sprintf("Edit %s", m.editing)
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(44).
			Render(fmt.Sprintf("%s\n\n%s", title, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ProductModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.products))
	for _, p := range m.products {
		rows = append(rows, table.Row{p.Name, money.Format(p.Price)})
	}
	m.table.SetRows(rows)
}

// Messages

type loadCatalogMsg struct {
	products []catalog.Product
	err      error
}

func (m ProductModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		products, err := m.catService.List(ctx)
		return loadCatalogMsg{products: products, err: err}
	}
}

type productSaveMsg struct {
	err error
}

func (m ProductModel) saveCmd() tea.Cmd {
	name := strings.TrimSpace(m.form.GetString("name"))
	priceStr := strings.TrimSpace(m.form.GetString("price"))
	editing := m.editing

	return func() tea.Msg {
		price, err := money.Parse(priceStr)
		if err != nil {
			return productSaveMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		p := catalog.Product{Name: name, Price: price}

		if editing != "" {
			return productSaveMsg{err: m.catService.Rename(ctx, editing, p)}
		}

		return productSaveMsg{err: m.catService.Put(ctx, p)}
	}
}

type productDeleteMsg struct {
	name string
	err  error
}

func (m ProductModel) deleteCmd(name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return productDeleteMsg{name: name, err: m.catService.Delete(ctx, name)}
	}
}
