package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/pmcouto/centavo/cmd/tui/internal/view"
	"github.com/pmcouto/centavo/internal/config"
	"github.com/pmcouto/centavo/internal/database"
	"github.com/pmcouto/centavo/internal/recurring"
	recurringStore "github.com/pmcouto/centavo/internal/recurring/store"
)

type model struct {
	recurringService *recurring.Service

	currentView View

	scheduleView view.ScheduleModel
	rulesView    view.RulesModel
}

type View int

const (
	ViewMenu     View = 0
	ViewSchedule View = 1
	ViewRules    View = 2
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), cfg.DB.MaxConns)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	recurringSvc := recurring.NewService(recurringStore.New(db))

	return model{
		recurringService: recurringSvc,
		currentView:      ViewMenu,
		scheduleView:     view.NewScheduleModel(recurringSvc),
		rulesView:        view.NewRulesModel(recurringSvc),
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
				m.currentView = ViewSchedule
				m.scheduleView = view.NewScheduleModel(m.recurringService)

				return m, m.scheduleView.Init()
			case "2":
				m.currentView = ViewRules
				m.rulesView = view.NewRulesModel(m.recurringService)

				return m, m.rulesView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewSchedule:
		var newModel tea.Model
		newModel, cmd = m.scheduleView.Update(msg)
		m.scheduleView = newModel.(view.ScheduleModel)
	case ViewRules:
		var newModel tea.Model
		newModel, cmd = m.rulesView.Update(msg)
		m.rulesView = newModel.(view.RulesModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Centavo TUI\n\n" +
				"1. Upcoming Occurrences\n" +
				"2. Recurring Rules\n\n" +
				"q. Quit",
		)
	case ViewSchedule:
		return m.scheduleView.View()
	case ViewRules:
		return m.rulesView.View()
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
