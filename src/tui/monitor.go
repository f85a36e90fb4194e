// Package tui provides the terminal monitor for a gridrelay broker. It
// shows the stored event history and the replay watermark, refreshing
// from the store on a fixed period.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"gridrelay/src/contracts"
	"gridrelay/src/store"
)

// refreshPeriod is how often the monitor re-queries the store.
const refreshPeriod = 2 * time.Second

// snapshotMsg carries one store query result into the update loop.
type snapshotMsg struct {
	events    []contracts.Event
	watermark *contracts.Event
	err       error
}

// Monitor is the bubbletea model for the store monitor.
type Monitor struct {
	store store.EventStore
	list  list.Model

	watermark *contracts.Event
	total     int
	loadErr   error
	width     int
}

// NewMonitor creates a monitor over the given store.
func NewMonitor(st store.EventStore) Monitor {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.SetShowStatusBar(false)
	l.SetShowTitle(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return Monitor{store: st, list: l}
}

// Init schedules the first store snapshot.
func (m Monitor) Init() tea.Cmd {
	return m.snapshot
}

// snapshot queries the store once.
func (m Monitor) snapshot() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), refreshPeriod)
	defer cancel()

	events, err := m.store.AllEvents(ctx)
	if err != nil {
		return snapshotMsg{err: err}
	}
	watermark, err := m.store.LatestEvent(ctx)
	if err != nil {
		return snapshotMsg{err: err}
	}
	return snapshotMsg{events: events, watermark: watermark}
}

// scheduleRefresh ticks the next snapshot.
func (m Monitor) scheduleRefresh() tea.Cmd {
	return tea.Tick(refreshPeriod, func(time.Time) tea.Msg {
		return m.snapshot()
	})
}

func (m Monitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.snapshot
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.list.SetSize(msg.Width, msg.Height-4)

	case snapshotMsg:
		m.loadErr = msg.err
		if msg.err == nil {
			m.watermark = msg.watermark
			m.total = len(msg.events)
			m.list.SetItems(newestFirst(msg.events))
		}
		return m, m.scheduleRefresh()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Monitor) View() string {
	header := headerStyle.Render(Truncate(fmt.Sprintf("gridrelay monitor — %d stored events", m.total), max(m.width, 20), true))

	var status string
	switch {
	case m.loadErr != nil:
		status = errorStyle.Render(fmt.Sprintf("store error: %v", m.loadErr))
	case m.watermark == nil:
		status = emptyStyle.Render("no history observed yet — watermark unset")
	default:
		status = watermarkStyle.Render(fmt.Sprintf("watermark: %s (%s from %s)",
			m.watermark.ArrivalTime.Format(time.RFC3339),
			m.watermark.Name,
			Sanitize(m.watermark.Source)))
	}

	help := helpStyle.Render("r refresh · q quit")

	return header + "\n" + status + "\n" + m.list.View() + "\n" + help
}

// newestFirst converts events (arrival order) to list items, newest on top.
func newestFirst(events []contracts.Event) []list.Item {
	items := make([]list.Item, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		items = append(items, Item{Event: events[i]})
	}
	return items
}
