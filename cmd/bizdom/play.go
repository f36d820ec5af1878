package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"bizdom/internal/app"
	"bizdom/internal/game"
	"bizdom/internal/sim"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	refreshEvery = 250 * time.Millisecond
	feedSize     = 12
	minSpeed     = 0.25
	maxSpeed     = 16
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	tabStyle   = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245"))
	activeTab  = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("86"))
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	goodStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	badStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

var tabs = []string{"Company", "Staff", "Projects", "Feed"}

type keyMap struct {
	Pause   key.Binding
	Faster  key.Binding
	Slower  key.Binding
	Month   key.Binding
	Tab     key.Binding
	Dismiss key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Faster, k.Slower, k.Month, k.Tab, k.Dismiss, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func defaultKeys() keyMap {
	return keyMap{
		Pause:   key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "pause")),
		Faster:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "faster")),
		Slower:  key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "slower")),
		Month:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "close month")),
		Tab:     key.NewBinding(key.WithKeys("tab", "right"), key.WithHelp("tab", "view")),
		Dismiss: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dismiss")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// feed is a sim.Sink that keeps the latest notices for the screen.
type feed struct {
	mu    sync.Mutex
	items []sim.Notice
}

func (f *feed) Deliver(_ context.Context, n sim.Notice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, n)
	if len(f.items) > feedSize {
		f.items = f.items[len(f.items)-feedSize:]
	}
}

func (f *feed) Recent() []sim.Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sim.Notice(nil), f.items...)
}

type refreshMsg struct{}

func refresh() tea.Cmd {
	return tea.Tick(refreshEvery, func(time.Time) tea.Msg { return refreshMsg{} })
}

type playModel struct {
	ctx    context.Context
	app    *app.App
	feed   *feed
	keys   keyMap
	help   help.Model
	tab    int
	width  int
	state  *game.State
	sum    sim.Summary
	clock  sim.DriverStatus
	status string
}

func newPlayModel(ctx context.Context, a *app.App, f *feed, width int) *playModel {
	m := &playModel{ctx: ctx, app: a, feed: f, keys: defaultKeys(), help: help.New(), width: width}
	m.load()
	return m
}

func (m *playModel) load() {
	if raw, err := m.app.Engine.Snapshot(); err == nil {
		if s, err := game.Restore(raw); err == nil {
			m.state = s
		}
	}
	m.sum = m.app.Engine.Summary()
	m.clock = m.app.Driver.Status()
}

func (m *playModel) Init() tea.Cmd {
	return refresh()
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	case refreshMsg:
		m.load()
		return m, refresh()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			if m.clock.Paused {
				m.app.Driver.Resume()
				m.status = "Clock running."
			} else {
				m.app.Driver.Pause()
				m.status = "Clock paused."
			}
		case key.Matches(msg, m.keys.Faster):
			m.setSpeed(m.clock.Speed * 2)
		case key.Matches(msg, m.keys.Slower):
			m.setSpeed(m.clock.Speed / 2)
		case key.Matches(msg, m.keys.Month):
			report, err := m.app.Engine.SimulateMonth(m.ctx)
			if errors.Is(err, sim.ErrGameOver) {
				m.status = "The game is over."
			} else if err != nil {
				m.status = err.Error()
			} else {
				m.status = fmt.Sprintf("Month %d closed: net %s.", report.Month, money(float64(report.NetProfit)))
			}
		case key.Matches(msg, m.keys.Tab):
			m.tab = (m.tab + 1) % len(tabs)
		case key.Matches(msg, m.keys.Dismiss):
			_, _ = m.app.Engine.Execute(m.ctx, game.ActionDismissEvent, game.Args{})
		}
		m.load()
	}
	return m, nil
}

func (m *playModel) setSpeed(v float64) {
	v = min(maxSpeed, max(minSpeed, v))
	m.app.Driver.SetSpeed(v)
	m.status = fmt.Sprintf("Speed x%.2f.", v)
}

func (m *playModel) View() string {
	if m.state == nil {
		return "loading..."
	}
	s := m.state
	clock := fmt.Sprintf("x%.2f", m.clock.Speed)
	if m.clock.Paused {
		clock = warnStyle.Render("paused")
	}
	header := titleStyle.Render(fmt.Sprintf("%s  month %d  day %.1f  %s", orDash(s.Company.Name), m.sum.Month, m.sum.Day, clock))

	var bar []string
	for i, t := range tabs {
		if i == m.tab {
			bar = append(bar, activeTab.Render(t))
		} else {
			bar = append(bar, tabStyle.Render(t))
		}
	}

	var body string
	switch m.tab {
	case 0:
		body = m.companyView()
	case 1:
		body = m.staffView()
	case 2:
		body = m.projectsView()
	default:
		body = m.feedView()
	}
	width := m.width - 4
	if width < 40 {
		width = 40
	}

	parts := []string{header, lipgloss.JoinHorizontal(lipgloss.Top, bar...), panelStyle.Width(width).Render(body)}
	if ev := s.Progress.CurrentEvent; ev != nil {
		parts = append(parts, eventLine(*ev))
	}
	if m.sum.GameOver {
		parts = append(parts, badStyle.Bold(true).Render("GAME OVER: the company is bankrupt."))
	}
	if m.status != "" {
		parts = append(parts, dimStyle.Render(m.status))
	}
	parts = append(parts, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *playModel) companyView() string {
	s, sum := m.state, m.sum
	cash := goodStyle.Render(money(sum.Cash))
	if sum.Cash < 0 {
		cash = badStyle.Render(money(sum.Cash))
	}
	lines := []string{
		fmt.Sprintf("Cash          %s", cash),
		fmt.Sprintf("Customers     %s   satisfaction %.0f%%", humanize.Comma(sum.CustomerBase), sum.Satisfaction),
		fmt.Sprintf("Staff         %d   striking %d   avg fatigue %.0f", sum.EmployeeCount, sum.StrikingCount, sum.AverageFatigue),
		fmt.Sprintf("Productivity  %.2f   strike risk %.0f%%", s.Productivity(), s.StrikeRisk()),
		fmt.Sprintf("Level         %d   delivered %d", sum.Level, sum.CompletedProjects),
		fmt.Sprintf("Share price   %s   board mood %.0f%%   CEO %.1f%%", money(s.Company.SharePrice), s.Company.BoardSatisfaction, s.CEOShare()),
		fmt.Sprintf("Economy       %s", s.Market.EconomicCycle),
	}
	if r, ok := s.LastReport(); ok {
		lines = append(lines, "", fmt.Sprintf("Last month    revenue %s   net %s", money(float64(r.Revenue)), money(float64(r.NetProfit))))
	}
	return strings.Join(lines, "\n")
}

func (m *playModel) staffView() string {
	if len(m.state.Employees) == 0 {
		return dimStyle.Render("No staff yet. Hire with `bizdom hire <id>`.")
	}
	lines := []string{fmt.Sprintf("%-4s %-18s %-11s %5s %6s %6s", "ID", "NAME", "SPECIALTY", "SKILL", "MOTIV", "FATIG")}
	for _, e := range m.state.Employees {
		line := fmt.Sprintf("%-4d %-18s %-11s %5d %6.0f %6.0f", e.ID, truncate(e.Name, 18), e.Specialty, e.SkillLevel, e.Motivation, e.Fatigue)
		switch {
		case e.IsOnStrike:
			line = badStyle.Render(line + "  on strike")
		case e.Fatigue > 70:
			line = warnStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m *playModel) projectsView() string {
	if len(m.state.Projects) == 0 {
		return dimStyle.Render("No tenders yet.")
	}
	var lines []string
	for _, p := range m.state.Projects {
		bar := progressBar(p.Progress, 20)
		lines = append(lines, fmt.Sprintf("%-24s %-9s %s %3.0f%%  team %d/%d  reward %s",
			truncate(p.Title, 24), p.Status, bar, p.Progress, len(p.AssignedEmployees), p.TeamSize, money(p.Reward)))
	}
	return strings.Join(lines, "\n")
}

func (m *playModel) feedView() string {
	items := m.feed.Recent()
	if len(items) == 0 {
		return dimStyle.Render("Nothing has happened yet.")
	}
	lines := make([]string, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		n := items[i]
		switch {
		case n.Event != nil:
			lines = append(lines, fmt.Sprintf("m%-3d %s", n.Month, eventLine(*n.Event)))
		case n.Report != nil:
			lines = append(lines, fmt.Sprintf("m%-3d %s month %d closed, net %s", n.Month, n.Kind, n.Report.Month, money(float64(n.Report.NetProfit))))
		}
	}
	return strings.Join(lines, "\n")
}

func eventLine(ev game.Event) string {
	line := fmt.Sprintf("%s %s: %s", ev.Icon, ev.Name, ev.Description)
	switch ev.Type {
	case game.EventSuccess, game.EventGain, game.EventLevelUp:
		return goodStyle.Render(line)
	case game.EventLoss, game.EventEmployeeDeparture:
		return badStyle.Render(line)
	case game.EventWarning:
		return warnStyle.Render(line)
	}
	return line
}

func progressBar(pct float64, width int) string {
	filled := int(pct / 100 * float64(width))
	filled = min(width, max(0, filled))
	return goodStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", width-filled))
}

func newPlayCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Run the live clock in a terminal dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.remote {
				return fmt.Errorf("play runs against the local save; use `bizdom disconnect` or drop --remote")
			}
			fd := int(os.Stdout.Fd())
			if !term.IsTerminal(fd) {
				return fmt.Errorf("play needs an interactive terminal")
			}
			width, _, err := term.GetSize(fd)
			if err != nil {
				width = 80
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			f := &feed{}
			a, err := openLocal(ctx, o, f)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(context.WithoutCancel(ctx)); err != nil {
					printWarn(fmt.Sprintf("close: %v", err))
				}
			}()
			a.Driver.Start(ctx)

			_, err = tea.NewProgram(newPlayModel(ctx, a, f, width), tea.WithAltScreen()).Run()
			return err
		},
	}
}
