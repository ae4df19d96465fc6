// Package tui is the terminal notification view. It owns a poller for as
// long as it is on screen.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yigit/studyhub/internal/app/models"
	"github.com/yigit/studyhub/internal/app/models/dto"
	"github.com/yigit/studyhub/internal/poller"
)

// toastTTL is how long a transient alert stays on screen.
const toastTTL = 4 * time.Second

// actionTimeout bounds one mark-read, mark-all-read or archive call.
const actionTimeout = 15 * time.Second

type eventMsg struct{ event poller.Event }

type eventsClosedMsg struct{}

type actionDoneMsg struct {
	text string
	err  error
}

type toastExpiredMsg struct{ seq int }

type stoppedMsg struct{}

// Model is the Bubble Tea model of the notification view.
type Model struct {
	poller  *poller.Poller
	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	items    []dto.NotificationResponse
	unread   int
	cursor   int
	loaded   bool
	toast    string
	toastErr bool
	toastSeq int
	width    int
	quitting bool

	// signedOut is set while the server rejects the credential.
	signedOut bool
}

// New creates the view around a started poller.
func New(p *poller.Poller) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		poller:  p,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		spinner: sp,
	}
}

// waitForEvent returns a tea.Cmd that waits for the next poller event.
func waitForEvent(ch <-chan poller.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg{event: ev}
	}
}

// Init subscribes to poller events.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.poller.Events()))
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case eventMsg:
		next := waitForEvent(m.poller.Events())
		ev := msg.event
		switch {
		case ev.AuthRejected:
			m.signedOut = true
		case ev.Err == nil:
			m.loaded = true
			m.signedOut = false
			m.setItems(ev.Notifications)
		}
		if text := ev.Message(); text != "" {
			toast := m.showToast(text, ev.Err != nil)
			return m, tea.Batch(next, toast)
		}
		return m, next

	case eventsClosedMsg:
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			toast := m.showToast("Action failed: "+msg.err.Error(), true)
			return m, toast
		}
		items, _ := m.poller.Snapshot()
		m.setItems(items)
		toast := m.showToast(msg.text, false)
		return m, toast

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case stoppedMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		if m.loaded || m.signedOut {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		p := m.poller
		return m, func() tea.Msg {
			p.Stop()
			return stoppedMsg{}
		}

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Refresh):
		m.poller.Refresh()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.MarkRead):
		if n, ok := m.selected(); ok && !n.Read {
			return m, m.runAction("Notification marked as read", func(ctx context.Context) error {
				return m.poller.MarkRead(ctx, n.ID)
			})
		}

	case key.Matches(msg, m.keys.MarkAllRead):
		if m.unread > 0 {
			return m, m.runAction("All notifications marked as read", m.poller.MarkAllRead)
		}

	case key.Matches(msg, m.keys.Archive):
		if n, ok := m.selected(); ok {
			return m, m.runAction("Notification archived", func(ctx context.Context) error {
				return m.poller.Archive(ctx, n.ID)
			})
		}
	}
	return m, nil
}

func (m Model) runAction(text string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		return actionDoneMsg{text: text, err: fn(ctx)}
	}
}

func (m *Model) showToast(text string, isErr bool) tea.Cmd {
	m.toastSeq++
	m.toast = text
	m.toastErr = isErr
	seq := m.toastSeq
	return tea.Tick(toastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })
}

func (m *Model) setItems(items []dto.NotificationResponse) {
	m.items = items
	m.unread = 0
	for _, n := range items {
		if !n.Read {
			m.unread++
		}
	}
	if m.cursor >= len(m.items) {
		m.cursor = max(len(m.items)-1, 0)
	}
}

func (m Model) selected() (dto.NotificationResponse, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return dto.NotificationResponse{}, false
	}
	return m.items[m.cursor], true
}

// View renders the feed.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Notifications · %d unread", m.unread)))
	b.WriteString("\n\n")

	if m.signedOut {
		b.WriteString(errorToastStyle.Render("Session expired or not signed in. Restart notifywatch with a fresh token or credentials.") + "\n\n")
	}

	switch {
	case m.signedOut && !m.loaded:
	case !m.loaded:
		b.WriteString(m.spinner.View() + " Loading notifications...\n")
	case len(m.items) == 0:
		b.WriteString(itemStyle.Render("You're all caught up.") + "\n")
	default:
		for i, n := range m.items {
			b.WriteString(m.renderItem(n, i == m.cursor))
		}
	}

	b.WriteString("\n")
	if m.toast != "" {
		style := toastStyle
		if m.toastErr {
			style = errorToastStyle
		}
		b.WriteString(style.Render(m.toast) + "\n")
	}
	b.WriteString(statusBarStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) renderItem(n dto.NotificationResponse, selected bool) string {
	mark := "  "
	if !n.Read {
		mark = unreadMarkStyle.Render("● ")
	}
	line := fmt.Sprintf("%s%s  [%s]  %s", mark, n.Title, typeLabel(n.Type), n.CreatedAt.Local().Format("02 Jan 15:04"))

	style := itemStyle
	if selected {
		style = selectedItemStyle
	}

	var b strings.Builder
	b.WriteString(style.Render(line) + "\n")
	if selected {
		if n.Preview != "" {
			b.WriteString(previewStyle.Render(n.Preview) + "\n")
		}
		if n.Action != nil {
			b.WriteString(actionStyle.Render(fmt.Sprintf("→ %s (%s)", n.Action.Label, n.Action.Target)) + "\n")
		}
	}
	return b.String()
}

func typeLabel(t models.NotificationType) string {
	switch t {
	case models.NotificationTypeProgrammeRegistration:
		return "registration"
	case models.NotificationTypeSecurity:
		return "security"
	case models.NotificationTypePaymentReminder:
		return "payment"
	default:
		return "general"
	}
}
