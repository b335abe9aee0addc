// Package tui implements the live watch dashboard: a terminal view of one
// profile's health plus a tail of its audit log, fed by interval polling
// and WebSocket pushes.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hyperengineering/steward/internal/client"
	"github.com/hyperengineering/steward/internal/panel"
	"github.com/hyperengineering/steward/internal/stream"
	"github.com/hyperengineering/steward/internal/types"
)

const (
	fetchTimeout = 10 * time.Second
	tailSize     = 25
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Faint(true)
	runningText = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("running")
	pausedText  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render("paused")
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	catStyle    = lipgloss.NewStyle().Faint(true).Width(12)
	footerStyle = lipgloss.NewStyle().Faint(true).Padding(0, 1)
)

type tickMsg time.Time

type refreshMsg struct {
	status *types.MonitorStatus
	err    error
}

type pushMsg stream.AuditEvent

// Model is the Bubble Tea model for the watch dashboard. The audit tail is
// a list-resource panel, so prepend and total bookkeeping follow the same
// rules as every other console view.
type Model struct {
	client       *client.Client
	profile      string
	pollInterval time.Duration
	events       <-chan stream.AuditEvent
	tail         *panel.Panel[types.AuditEntry]

	spinner spinner.Model
	status  *types.MonitorStatus
	ready   bool
	err     error
	width   int
}

// New builds the dashboard model. The events channel carries WebSocket
// pushes; pass nil to run on polling alone.
func New(c *client.Client, profile string, pollInterval time.Duration, events <-chan stream.AuditEvent) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	tail := panel.New(panel.Config[types.AuditEntry]{
		Fetch: func(ctx context.Context, p client.ListParams) (client.Page[types.AuditEntry], error) {
			return c.AuditLog(ctx, profile, p)
		},
		Limit: tailSize,
	})
	return Model{
		client:       c,
		profile:      profile,
		pollInterval: pollInterval,
		events:       events,
		tail:         tail,
		spinner:      sp,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.refreshCmd(), m.tickCmd()}
	if m.events != nil {
		cmds = append(cmds, m.waitForPush())
	}
	return tea.Batch(cmds...)
}

func (m Model) refreshCmd() tea.Cmd {
	c, profile, tail := m.client, m.profile, m.tail
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		status, err := c.Monitor(ctx, profile)
		if err != nil {
			return refreshMsg{err: err}
		}
		if err := tail.Reload(ctx); err != nil {
			return refreshMsg{err: err}
		}
		return refreshMsg{status: status}
	}
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.pollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) waitForPush() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return pushMsg(ev)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.refreshCmd()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tickMsg:
		return m, tea.Batch(m.refreshCmd(), m.tickCmd())

	case refreshMsg:
		if msg.err != nil {
			// Background refresh failures keep showing the last good
			// data; only a never-loaded dashboard surfaces the error.
			if !m.ready {
				m.err = msg.err
			}
			return m, nil
		}
		m.status = msg.status
		m.ready = true
		m.err = nil
		return m, nil

	case pushMsg:
		if msg.AgenticID == m.profile {
			m.tail.ApplyPush(msg.Entry)
		}
		return m, m.waitForPush()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// tailEntries caps the panel's view at the visible tail length; pushes can
// grow the panel past it between refreshes.
func (m Model) tailEntries() []types.AuditEntry {
	entries := m.tail.Snapshot().Items
	if len(entries) > tailSize {
		entries = entries[:tailSize]
	}
	return entries
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n\n")

	entries := m.tailEntries()
	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("  error: " + m.err.Error()))
		b.WriteString("\n")
	case !m.ready:
		b.WriteString("  " + m.spinner.View() + " loading...\n")
	case len(entries) == 0:
		b.WriteString(labelStyle.Render("  no audit activity yet") + "\n")
	default:
		for _, e := range entries {
			b.WriteString(entryLine(e))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render(fmt.Sprintf("%d entries total · r refresh · q quit", m.tail.Snapshot().Total)))
	return b.String()
}

func (m Model) headerView() string {
	if m.status == nil {
		return headerStyle.Render("watch: " + m.profile)
	}
	return headerStyle.Render(fmt.Sprintf("watch: %s  %s  %s %d  %s %d",
		m.profile,
		stateText(m.status.State),
		labelStyle.Render("goals"), m.status.ActiveGoals,
		labelStyle.Render("prompts"), m.status.QueuedPrompts,
	))
}

func stateText(state string) string {
	switch state {
	case "running":
		return runningText
	case "paused":
		return pausedText
	default:
		return errorStyle.Render(state)
	}
}

func entryLine(e types.AuditEntry) string {
	return fmt.Sprintf("  %s %s %s",
		labelStyle.Render(e.CreatedAt.Local().Format("15:04:05")),
		catStyle.Render("["+string(e.Category)+"]"),
		e.Summary,
	)
}
