package view

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/pmcouto/centavo/internal/recurring"
)

type scheduleState int

const (
	scheduleStateBrowse scheduleState = iota
	scheduleStateConfirm
)

var horizons = []int{30, 90, 365}

// upcoming is one projected occurrence of a rule.
type upcoming struct {
	date time.Time
	rule *recurring.Rule
}

// ScheduleModel shows the projected occurrences of every active rule
// and can trigger a generation run for anything already due.
type ScheduleModel struct {
	CommonModel
	recurringService *recurring.Service

	state scheduleState
	table table.Model
	rules []*recurring.Rule
	form  *huh.Form

	horizonIdx int
	loading    bool
	err        error
	status     string

	confirmRun bool
}

func NewScheduleModel(recurringSvc *recurring.Service) ScheduleModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Description", Width: 32},
		{Title: "Amount", Width: 10},
		{Title: "Type", Width: 8},
		{Title: "Schedule", Width: 24},
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

	return ScheduleModel{
		recurringService: recurringSvc,
		table:            t,
		horizonIdx:       1,
	}
}

func (m ScheduleModel) Title() string { return "Upcoming Occurrences" }
func (m ScheduleModel) ShortHelp() string {
	if m.state == scheduleStateConfirm {
		return "Confirm | Esc: cancel"
	}
	return "Esc: back | h: horizon | g: generate due transactions | r: refresh"
}

func (m ScheduleModel) Init() tea.Cmd {
	return m.loadRulesCmd()
}

func (m ScheduleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadScheduleMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.rules = msg.rules
		m.err = nil
		m.refreshTable()
		return m, nil

	case generateDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Generation failed: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Generated %d transactions", msg.created)
		}
		m.state = scheduleStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadRulesCmd()

	case tea.WindowSizeMsg:
		m.Resize(msg)
		m.table.SetHeight(m.Height - 10)
		return m, nil
	}

	switch m.state {
	case scheduleStateBrowse:
		return m.updateBrowse(msg)
	case scheduleStateConfirm:
		return m.updateConfirm(msg)
	}

	return m, nil
}

func (m ScheduleModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadRulesCmd()
		case "h":
			m.horizonIdx = (m.horizonIdx + 1) % len(horizons)
			m.refreshTable()
			return m, nil
		case "g":
			return m.enterConfirm()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ScheduleModel) enterConfirm() (tea.Model, tea.Cmd) {
	m.confirmRun = false
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("run").
				Title("Generate all due transactions now?").
				Affirmative("Yes").
				Negative("No").
				Value(&m.confirmRun),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = scheduleStateConfirm
	m.table.Blur()
	return m, m.form.Init()
}

func (m ScheduleModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = scheduleStateBrowse
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

	if !m.confirmRun {
		m.state = scheduleStateBrowse
		m.form = nil
		m.table.Focus()
		return m, nil
	}

	return m, m.generateCmd()
}

func (m ScheduleModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading rules...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf("Horizon: [h] %s", activeStyle(fmt.Sprintf("%d days", horizons[m.horizonIdx])))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == scheduleStateConfirm && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("Run Generation\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *ScheduleModel) refreshTable() {
	now := time.Now()
	until := now.AddDate(0, 0, horizons[m.horizonIdx])

	var items []upcoming
	for _, rule := range m.rules {
		for _, date := range rule.Preview(now, until) {
			items = append(items, upcoming{date: date, rule: rule})
		}
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].date.Before(items[j].date)
	})

	rows := make([]table.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, table.Row{
			FormatDate(it.date),
			it.rule.Description,
			FormatAmount(it.rule.Amount),
			string(it.rule.Type),
			FormatSchedule(it.rule),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadScheduleMsg struct {
	rules []*recurring.Rule
	err   error
}

func (m ScheduleModel) loadRulesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		rules, err := m.recurringService.List(ctx, recurring.ListFilter{ActiveOnly: true})
		return loadScheduleMsg{rules: rules, err: err}
	}
}

type generateDoneMsg struct {
	created int
	err     error
}

func (m ScheduleModel) generateCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		created, err := m.recurringService.ProcessAll(ctx, time.Now())
		return generateDoneMsg{created: created, err: err}
	}
}
