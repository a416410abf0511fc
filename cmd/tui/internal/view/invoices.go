package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dcastro/payable/internal/invoice"
)

const browseTimeout = 30 * time.Second

type invoicesState int

const (
	invoicesStateLoading invoicesState = iota
	invoicesStateBrowsing
	invoicesStateDetail
)

type InvoicesModel struct {
	CommonModel
	invoiceService *invoice.Service

	state invoicesState
	list  list.Model

	detail *invoice.Invoice
	status string
	err    error
}

func NewInvoicesModel(svc *invoice.Service) InvoicesModel {
	return InvoicesModel{
		invoiceService: svc,
		state:          invoicesStateLoading,
		status:         "Loading invoices...",
	}
}

func (m InvoicesModel) Title() string { return "Browse Invoices" }

func (m InvoicesModel) ShortHelp() string {
	switch m.state {
	case invoicesStateDetail:
		return "Esc: back to list"
	case invoicesStateBrowsing:
		return "Enter: details | Esc: back to menu"
	}

	return "Esc: back to menu"
}

func (m InvoicesModel) Init() tea.Cmd {
	return m.loadInvoicesCmd()
}

func (m InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc:
			if m.state == invoicesStateDetail {
				m.state = invoicesStateBrowsing
				m.detail = nil

				return m, nil
			}

			return m, Back
		case tea.KeyEnter:
			if m.state == invoicesStateBrowsing {
				if item, ok := m.list.SelectedItem().(invoiceItem); ok {
					return m, m.loadDetailCmd(item.inv.Reference)
				}
			}
		}

	case invoicesLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		items := make([]list.Item, len(msg.invoices))
		for i, inv := range msg.invoices {
			items[i] = invoiceItem{inv: inv}
		}

		m.list = list.New(items, list.NewDefaultDelegate(), 80, 20)
		m.list.Title = "Invoices"
		m.list.SetShowStatusBar(false)
		m.list.SetShowHelp(false)
		m.state = invoicesStateBrowsing

		return m, nil

	case invoiceDetailMsg:
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.detail = msg.invoice
		m.state = invoicesStateDetail

		return m, nil
	}

	if m.state == invoicesStateBrowsing {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m InvoicesModel) View() string {
	switch m.state {
	case invoicesStateLoading:
		return lipgloss.NewStyle().Padding(2).Render(m.status + "\n\n(Esc to back)")
	case invoicesStateBrowsing:
		return lipgloss.NewStyle().Padding(1).Render(m.list.View() + "\n" + m.ShortHelp())
	case invoicesStateDetail:
		return lipgloss.NewStyle().Padding(2).Render(m.detailView() + "\n\n" + m.ShortHelp())
	}

	return ""
}

func (m InvoicesModel) detailView() string {
	inv := m.detail

	header := lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("Invoice %s (%s)", inv.Reference, inv.Type),
	)

	body := fmt.Sprintf("Amount:      %s\nAmount paid: %s\nTax accrued: %s\nRemaining:   %s",
		inv.Amount, inv.AmountPaid, inv.TaxAmount, inv.Remaining())

	payments := "No payments yet."
	if len(inv.Payments) > 0 {
		payments = "Payments:"
		for _, p := range inv.Payments {
			payments += fmt.Sprintf("\n  %s  %s", p.CreatedAt.Format("2006-01-02 15:04"), p.Amount)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", payments)
}

type invoiceItem struct {
	inv *invoice.Invoice
}

func (i invoiceItem) Title() string { return i.inv.Reference }

func (i invoiceItem) Description() string {
	return fmt.Sprintf("%s · %s of %s paid", i.inv.Type, i.inv.AmountPaid, i.inv.Amount)
}

func (i invoiceItem) FilterValue() string { return i.inv.Reference }

type invoicesLoadedMsg struct {
	invoices []*invoice.Invoice
	err      error
}

func (m InvoicesModel) loadInvoicesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), browseTimeout)
		defer cancel()

		invoices, err := m.invoiceService.List(ctx)

		return invoicesLoadedMsg{invoices: invoices, err: err}
	}
}

type invoiceDetailMsg struct {
	invoice *invoice.Invoice
	err     error
}

func (m InvoicesModel) loadDetailCmd(reference string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), browseTimeout)
		defer cancel()

		inv, err := m.invoiceService.Get(ctx, reference)

		return invoiceDetailMsg{invoice: inv, err: err}
	}
}
