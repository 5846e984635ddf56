// Live status board for watch mode
package tui

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/term"

	"aoewatch/internal/notify"
	"aoewatch/internal/watch"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// eventMsg carries one formatted change line for the log viewport.
type eventMsg struct{ line string }

// reportMsg carries the table rows and summary of a completed cycle.
type reportMsg struct {
	rows    []table.Row
	summary string
}

const maxLogLines = 500

// Board renders player statuses and change events in a terminal UI. It
// implements watch.Observer.
type Board struct {
	program    teaProgram
	location   *time.Location
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewBoard starts a bubbletea program and returns the board.
func NewBoard(loc *time.Location) *Board {
	b := &Board{location: loc, done: make(chan struct{})}
	b.sendSignal.Store(true)

	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	p := tea.NewProgram(newBoardModel(width), tea.WithAltScreen())
	b.program = p

	go func() {
		_, _ = p.Run()
		close(b.done)
		if b.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return b
}

// ObserveReport implements watch.Observer: it refreshes the status table
// and appends one log line per detected change.
func (b *Board) ObserveReport(report *watch.Report) {
	for _, e := range changeEvents(report) {
		line := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), notify.Text(e, b.location))
		b.program.Send(eventMsg{line: line})
	}
	b.program.Send(reportMsg{
		rows:    snapshotRows(report),
		summary: summaryLine(report),
	})
}

func changeEvents(report *watch.Report) []notify.Event {
	events := make([]notify.Event, 0, len(report.Changes))
	for _, c := range report.Changes {
		e := notify.Event{Change: c}
		if st, ok := report.Fetched[c.Player]; ok {
			st := st
			e.State = &st
		}
		events = append(events, e)
	}
	return events
}

// Close shuts down the program and waits for cleanup.
func (b *Board) Close() error {
	b.sendSignal.Store(false)
	if b.program != nil {
		b.program.Send(tea.Quit())
	}
	if b.done != nil {
		<-b.done
	}
	return nil
}

func snapshotRows(report *watch.Report) []table.Row {
	players := make([]string, 0, len(report.Snapshot))
	for name := range report.Snapshot {
		players = append(players, name)
	}
	sort.Strings(players)

	rows := make([]table.Row, 0, len(players))
	for _, name := range players {
		rec := report.Snapshot[name]
		match := ""
		if rec.MatchID != nil {
			match = *rec.MatchID
		}
		rows = append(rows, table.Row{name, rec.Status, match, rec.ObservedAt.Format("15:04:05")})
	}
	return rows
}

func summaryLine(report *watch.Report) string {
	return fmt.Sprintf("run %s | fetched=%d errors=%d changes=%d notified=%d",
		shortID(report.RunID), len(report.Fetched), len(report.FetchErrors), len(report.Changes), report.Notified)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

type boardModel struct {
	table      table.Model
	vp         viewport.Model
	logs       []string
	summary    string
	height     int
	wrap       bool
	autoscroll bool
}

func newBoardModel(width int) boardModel {
	cols := []table.Column{
		{Title: "Player", Width: 20},
		{Title: "Status", Width: 12},
		{Title: "Match", Width: 12},
		{Title: "Observed", Width: 10},
	}
	t := table.New(table.WithColumns(cols), table.WithHeight(8))
	vp := viewport.New(width, 10)
	return boardModel{table: t, vp: vp, autoscroll: true, summary: "waiting for first run"}
}

func (m boardModel) Init() tea.Cmd { return nil }

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.vp.Width = msg.Width
		m.table.SetWidth(msg.Width)
		m.resize()
		m.refresh()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.refresh()
		case "s":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
			}
		case "j", "down":
			m.vp.LineDown(1)
		case "k", "up":
			m.vp.LineUp(1)
		}
	case eventMsg:
		m.logs = append(m.logs, msg.line)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		m.refresh()
	case reportMsg:
		m.table.SetRows(msg.rows)
		m.summary = msg.summary
	}
	return m, nil
}

func (m *boardModel) resize() {
	h := m.height - m.table.Height() - 5
	if h < 1 {
		h = 1
	}
	m.vp.Height = h
}

func (m *boardModel) refresh() {
	lines := make([]string, 0, len(m.logs))
	for _, l := range m.logs {
		if m.wrap {
			lines = append(lines, wordwrap.String(l, m.vp.Width))
		} else {
			lines = append(lines, l)
		}
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func (m boardModel) View() string {
	divider := strings.Repeat("─", m.vp.Width)
	sections := []string{
		titleStyle.Render("aoewatch"),
		m.table.View(),
		divider,
		"Changes:",
		m.vp.View(),
		divider,
		summaryStyle.Render(m.summary + " | q quit | s scroll | w wrap"),
	}
	return strings.Join(sections, "\n")
}
