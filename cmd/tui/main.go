package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/dcastro/payable/cmd/tui/internal/view"
	"github.com/dcastro/payable/internal/config"
	"github.com/dcastro/payable/internal/database"
	"github.com/dcastro/payable/internal/invoice"
	invoiceStore "github.com/dcastro/payable/internal/invoice/store"
)

type model struct {
	invoiceService *invoice.Service

	currentView View

	payView      view.PayModel
	invoicesView view.InvoicesModel
}

type View int

const (
	ViewMenu     View = 0
	ViewPay      View = 1
	ViewInvoices View = 2
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	invoiceSvc := invoice.NewService(invoiceStore.New(db))

	return model{
		invoiceService: invoiceSvc,
		currentView:    ViewMenu,
		payView:        view.NewPayModel(invoiceSvc),
		invoicesView:   view.NewInvoicesModel(invoiceSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewPay
				m.payView = view.NewPayModel(m.invoiceService)

				return m, m.payView.Init()
			case "2":
				m.currentView = ViewInvoices
				m.invoicesView = view.NewInvoicesModel(m.invoiceService)

				return m, m.invoicesView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewPay:
		var newModel tea.Model
		newModel, cmd = m.payView.Update(msg)
		m.payView = newModel.(view.PayModel)
	case ViewInvoices:
		var newModel tea.Model
		newModel, cmd = m.invoicesView.Update(msg)
		m.invoicesView = newModel.(view.InvoicesModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Payable TUI\n\n" +
				"1. Pay Invoice\n" +
				"2. Browse Invoices\n\n" +
				"q. Quit",
		)
	case ViewPay:
		return m.payView.View()
	case ViewInvoices:
		return m.invoicesView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
