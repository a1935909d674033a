package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/reconbattery/pos/internal/settings"
)

type SettingsModel struct {
	CommonModel
	store *settings.Store

	form     *huh.Form
	formRate string
	status   string
}

func NewSettingsModel(store *settings.Store) SettingsModel {
	m := SettingsModel{store: store}
	m.form = m.buildForm()

	return m
}

func (m SettingsModel) Title() string     { return "Settings" }
func (m SettingsModel) ShortHelp() string { return "Enter: apply | Esc: back" }

func (m SettingsModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m *SettingsModel) buildForm() *huh.Form {
	m.formRate = m.store.TaxRatePercent().String()

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("tax_rate").
				Title("Tax Rate (%)").
				Description("Applied to taxed sales from the next computation on").
				Value(&m.formRate).
				Validate(func(s string) error {
					d, err := decimal.NewFromString(strings.TrimSpace(s))
					if err != nil {
						return fmt.Errorf("not a number")
					}

					if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
						return fmt.Errorf("rate must be between 0 and 100")
					}

					return nil
				}),
		),
	).WithWidth(44).WithShowHelp(false)
}

func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	rate, err := decimal.NewFromString(strings.TrimSpace(m.form.GetString("tax_rate")))
	if err == nil {
		err = m.store.SetTaxRatePercent(rate)
	}

	if err != nil {
		m.status = fmt.Sprintf("Error: %v", err)
	} else {
		m.status = fmt.Sprintf("Tax rate set to %s%%.", rate.String())
	}

	m.form = m.buildForm()

	return m, m.form.Init()
}

func (m SettingsModel) View() string {
	content := fmt.Sprintf("Current tax rate: %s%%\n\n%s",
		activeStyle(m.store.TaxRatePercent().String()),
		m.form.View(),
	)

	if m.status != "" {
		content += "\n" + lipgloss.NewStyle().Faint(true).Render(m.status)
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}
