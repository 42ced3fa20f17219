package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pmcouto/centavo/internal/recurring"
)

// RulesModel lists every recurring rule and toggles them on and off.
// A suspended rule keeps its watermark, so resuming it catches up from
// where generation stopped.
type RulesModel struct {
	CommonModel
	recurringService *recurring.Service

	table   table.Model
	rules   []*recurring.Rule
	loading bool
	err     error
	status  string
}

func NewRulesModel(recurringSvc *recurring.Service) RulesModel {
	columns := []table.Column{
		{Title: "Description", Width: 32},
		{Title: "Amount", Width: 10},
		{Title: "Schedule", Width: 24},
		{Title: "Active", Width: 8},
		{Title: "Last Generated", Width: 15},
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

	return RulesModel{
		recurringService: recurringSvc,
		table:            t,
	}
}

func (m RulesModel) Title() string { return "Recurring Rules" }
func (m RulesModel) ShortHelp() string {
	return "Esc: back | a: toggle active | r: refresh"
}

func (m RulesModel) Init() tea.Cmd {
	return m.loadRulesCmd()
}

func (m RulesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadRulesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.rules = msg.rules
		m.err = nil
		m.refreshTable()
		return m, nil

	case toggleDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error toggling rule: %v", msg.err)
		} else {
			m.status = ""
		}
		return m, m.loadRulesCmd()

	case tea.WindowSizeMsg:
		m.Resize(msg)
		m.table.SetHeight(m.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadRulesCmd()
		case "a":
			return m, m.toggleCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m RulesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading rules...")
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

func (m *RulesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.rules))
	for _, rule := range m.rules {
		active := "no"
		if rule.IsActive {
			active = "yes"
		}

		watermark := "-"
		if rule.LastGeneratedDate != nil {
			watermark = FormatDate(*rule.LastGeneratedDate)
		}

		rows = append(rows, table.Row{
			rule.Description,
			FormatAmount(rule.Amount),
			FormatSchedule(rule),
			active,
			watermark,
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadRulesMsg struct {
	rules []*recurring.Rule
	err   error
}

func (m RulesModel) loadRulesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		rules, err := m.recurringService.List(ctx, recurring.ListFilter{})
		return loadRulesMsg{rules: rules, err: err}
	}
}

type toggleDoneMsg struct {
	err error
}

func (m RulesModel) toggleCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rules) {
		return nil
	}

	rule := m.rules[idx]

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		err := m.recurringService.SetActive(ctx, rule.ID, !rule.IsActive)
		return toggleDoneMsg{err: err}
	}
}
