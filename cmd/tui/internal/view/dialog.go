package view

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/reconbattery/pos/internal/decision"
)

// DialogGateway bridges the register controller's blocking Ask calls into the
// bubbletea event loop. Controller operations run inside tea.Cmd goroutines;
// Ask hands the prompt to the UI over a channel and blocks until the modal
// resolves it. The root model keeps one Await command pending at all times.
type DialogGateway struct {
	requests chan dialogRequest
}

type dialogRequest struct {
	prompt decision.Prompt
	reply  chan dialogReply
}

type dialogReply struct {
	value     string
	dismissed bool
}

func NewDialogGateway() *DialogGateway {
	return &DialogGateway{requests: make(chan dialogRequest)}
}

func (g *DialogGateway) Ask(ctx context.Context, p decision.Prompt) (string, error) {
	req := dialogRequest{prompt: p, reply: make(chan dialogReply, 1)}

	select {
	case g.requests <- req:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	select {
	case r := <-req.reply:
		if r.dismissed {
			return "", decision.ErrCancelled
		}

		return r.value, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Await blocks until a controller operation asks something, then surfaces it
// to the root model as a DialogPromptMsg.
func (g *DialogGateway) Await() tea.Cmd {
	return func() tea.Msg {
		return DialogPromptMsg{req: <-g.requests}
	}
}

type DialogPromptMsg struct {
	req dialogRequest
}

// DialogModel renders a pending prompt as a modal and feeds the chosen option
// back to the blocked operation.
type DialogModel struct {
	req    dialogRequest
	cursor int
}

func NewDialogModel(msg DialogPromptMsg) DialogModel {
	return DialogModel{req: msg.req}
}

// Update consumes keys while the dialog is open. The returned bool reports
// whether the dialog resolved (by choice or dismissal).
func (m DialogModel) Update(msg tea.Msg) (DialogModel, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, false
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.req.prompt.Options)-1 {
			m.cursor++
		}
	case "enter":
		m.req.reply <- dialogReply{value: m.req.prompt.Options[m.cursor].Value}
		return m, true
	case "esc":
		m.req.reply <- dialogReply{dismissed: true}
		return m, true
	}

	return m, false
}

var (
	dialogBorderStyle = lipgloss.NewStyle().
				Padding(1, 2).
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("63")).
				Width(54)

	dialogTitleStyle = lipgloss.NewStyle().Bold(true)

	dangerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	primaryStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	secondaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func (m DialogModel) View() string {
	s := dialogTitleStyle.Render(m.req.prompt.Title) + "\n\n" + m.req.prompt.Message + "\n\n"

	for i, opt := range m.req.prompt.Options {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		label := opt.Label
		switch opt.Emphasis {
		case decision.EmphasisDanger:
			label = dangerStyle.Render(label)
		case decision.EmphasisPrimary:
			label = primaryStyle.Render(label)
		default:
			label = secondaryStyle.Render(label)
		}

		s += cursor + label + "\n"
	}

	s += "\n(Enter: choose | Esc: dismiss)"

	return dialogBorderStyle.Render(s)
}
