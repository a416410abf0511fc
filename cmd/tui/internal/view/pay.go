package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/dcastro/payable/internal/invoice"
)

const payTimeout = 30 * time.Second

type payState int

const (
	payStateForm payState = iota
	payStateApplying
	payStateResult
)

var (
	acceptedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	rejectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type PayModel struct {
	CommonModel
	invoiceService *invoice.Service

	state   payState
	form    *huh.Form
	spinner spinner.Model

	reference string
	amount    string

	result *invoice.Result
	err    error
}

func NewPayModel(svc *invoice.Service) PayModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := PayModel{
		invoiceService: svc,
		state:          payStateForm,
		spinner:        s,
	}
	m.form = m.buildForm()

	return m
}

func (m PayModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("reference").
				Title("Invoice reference").
				Placeholder("INV-001").
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("reference is required")
					}
					return nil
				}).
				Value(&m.reference),
			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("40.00").
				Validate(func(s string) error {
					amount, err := decimal.NewFromString(s)
					if err != nil {
						return fmt.Errorf("not a valid amount")
					}
					if !amount.IsPositive() {
						return fmt.Errorf("amount must be positive")
					}
					return nil
				}).
				Value(&m.amount),
		),
	)
}

func (m PayModel) Title() string { return "Pay Invoice" }

func (m PayModel) ShortHelp() string {
	switch m.state {
	case payStateResult:
		return "Enter: pay another | Esc: back to menu"
	case payStateApplying:
		return "Applying..."
	}

	return "Esc: back | Enter: confirm"
}

func (m PayModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m PayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case payStateForm:
		return m.updateForm(msg)
	case payStateApplying:
		return m.updateApplying(msg)
	case payStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m PayModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
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

	m.reference = m.form.GetString("reference")
	m.amount = m.form.GetString("amount")
	m.state = payStateApplying
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.applyCmd())
}

func (m PayModel) updateApplying(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case payResultMsg:
		m.state = payStateResult
		m.result = msg.result
		m.err = msg.err

		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m PayModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			return m, Back
		case tea.KeyEnter:
			fresh := NewPayModel(m.invoiceService)
			return fresh, fresh.Init()
		}
	}

	return m, nil
}

func (m PayModel) View() string {
	switch m.state {
	case payStateForm:
		return lipgloss.NewStyle().Padding(2).Render(
			"Pay Invoice\n\n" + m.form.View() + "\n" + m.ShortHelp(),
		)
	case payStateApplying:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s Applying payment of %s to %s...", m.spinner.View(), m.amount, m.reference),
		)
	case payStateResult:
		return lipgloss.NewStyle().Padding(2).Render(m.resultView() + "\n\n" + m.ShortHelp())
	}

	return ""
}

func (m PayModel) resultView() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	style := rejectedStyle
	if m.result.Outcome.Accepted() {
		style = acceptedStyle
	}

	inv := m.result.Invoice
	summary := fmt.Sprintf("\n\nInvoice %s: %s paid of %s (tax %s)",
		inv.Reference, inv.AmountPaid, inv.Amount, inv.TaxAmount)

	return style.Render(m.result.Message) + summary
}

type payResultMsg struct {
	result *invoice.Result
	err    error
}

func (m PayModel) applyCmd() tea.Cmd {
	reference, amountStr := m.reference, m.amount

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), payTimeout)
		defer cancel()

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return payResultMsg{err: err}
		}

		result, err := m.invoiceService.ApplyPayment(ctx, invoice.PaymentParams{
			Reference: reference,
			Amount:    amount,
		})

		return payResultMsg{result: result, err: err}
	}
}
