package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studyhub/internal/app/models/dto"
	"github.com/yigit/studyhub/internal/poller"
)

type stubSource struct {
	mu        sync.Mutex
	items     []dto.NotificationResponse
	mutateErr error
}

func (s *stubSource) ListNotifications(ctx context.Context) (*dto.NotificationListResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]dto.NotificationResponse(nil), s.items...)
	unread := 0
	for _, n := range out {
		if !n.Read {
			unread++
		}
	}
	return &dto.NotificationListResponse{Notifications: out, UnreadCount: unread}, nil
}

func (s *stubSource) MarkRead(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mutateErr != nil {
		return s.mutateErr
	}
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Read = true
		}
	}
	return nil
}

func (s *stubSource) MarkAllRead(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mutateErr != nil {
		return s.mutateErr
	}
	for i := range s.items {
		s.items[i].Read = true
	}
	return nil
}

func (s *stubSource) Archive(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mutateErr != nil {
		return s.mutateErr
	}
	kept := s.items[:0]
	for _, n := range s.items {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	s.items = kept
	return nil
}

func feed() []dto.NotificationResponse {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	return []dto.NotificationResponse{
		{ID: 2, Title: "Registration confirmed", Preview: "GCSE Maths Intensive", CreatedAt: now},
		{ID: 1, Title: "Welcome to StudyHub", CreatedAt: now.Add(-time.Hour)},
	}
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

// startedModel returns a model whose poller has delivered its first fetch.
func startedModel(t *testing.T, src *stubSource) Model {
	t.Helper()
	p := poller.New(src, poller.Options{Interval: time.Hour, Logger: zerolog.Nop()})
	require.NoError(t, p.Start(context.Background()))
	t.Cleanup(p.Stop)

	m := New(p)
	m, _ = update(t, m, waitForEvent(p.Events())())
	require.True(t, m.loaded)
	return m
}

func TestModel_EventUpdatesFeedAndToast(t *testing.T) {
	m := New(poller.New(&stubSource{}, poller.Options{Logger: zerolog.Nop()}))

	m, cmd := update(t, m, eventMsg{event: poller.Event{Notifications: feed(), UnreadCount: 2, NewCount: 2}})

	assert.NotNil(t, cmd)
	assert.Len(t, m.items, 2)
	assert.Equal(t, 2, m.unread)
	assert.Equal(t, "+2 new notifications", m.toast)
	assert.False(t, m.toastErr)
	assert.Contains(t, m.View(), "2 unread")
	assert.Contains(t, m.View(), "Registration confirmed")
}

func TestModel_FailedRefreshKeepsFeed(t *testing.T) {
	m := New(poller.New(&stubSource{}, poller.Options{Logger: zerolog.Nop()}))
	m, _ = update(t, m, eventMsg{event: poller.Event{Notifications: feed(), UnreadCount: 2}})
	assert.Empty(t, m.toast)

	m, _ = update(t, m, eventMsg{event: poller.Event{Err: errors.New("connection refused")}})

	assert.Len(t, m.items, 2)
	assert.True(t, m.toastErr)
	assert.Contains(t, m.toast, "Could not refresh notifications")
}

func TestModel_RejectedCredentialReplacesSpinner(t *testing.T) {
	m := New(poller.New(&stubSource{}, poller.Options{Logger: zerolog.Nop()}))
	assert.Contains(t, m.View(), "Loading notifications")

	m, _ = update(t, m, eventMsg{event: poller.Event{AuthRejected: true}})

	assert.True(t, m.signedOut)
	assert.Empty(t, m.toast)
	assert.NotContains(t, m.View(), "Loading notifications")
	assert.Contains(t, m.View(), "Session expired or not signed in")

	_, cmd := update(t, m, m.spinner.Tick())
	assert.Nil(t, cmd, "spinner stops once the state is known")

	m, _ = update(t, m, eventMsg{event: poller.Event{Notifications: feed(), UnreadCount: 2}})
	assert.False(t, m.signedOut)
	assert.NotContains(t, m.View(), "Session expired")
}

func TestModel_StaleToastExpiryIgnored(t *testing.T) {
	m := New(poller.New(&stubSource{}, poller.Options{Logger: zerolog.Nop()}))
	m, _ = update(t, m, eventMsg{event: poller.Event{Notifications: feed(), NewCount: 1}})
	first := m.toastSeq
	m, _ = update(t, m, eventMsg{event: poller.Event{Notifications: feed(), NewCount: 3}})

	m, _ = update(t, m, toastExpiredMsg{seq: first})
	assert.Equal(t, "+3 new notifications", m.toast)

	m, _ = update(t, m, toastExpiredMsg{seq: m.toastSeq})
	assert.Empty(t, m.toast)
}

func TestModel_CursorStaysInRange(t *testing.T) {
	m := New(poller.New(&stubSource{}, poller.Options{Logger: zerolog.Nop()}))
	m, _ = update(t, m, eventMsg{event: poller.Event{Notifications: feed()}})

	m, _ = update(t, m, keyPress('k'))
	assert.Equal(t, 0, m.cursor)
	m, _ = update(t, m, keyPress('j'))
	m, _ = update(t, m, keyPress('j'))
	assert.Equal(t, 1, m.cursor)

	m, _ = update(t, m, eventMsg{event: poller.Event{Notifications: feed()[:1]}})
	assert.Equal(t, 0, m.cursor)
}

func TestModel_MarkAllReadThroughPoller(t *testing.T) {
	src := &stubSource{items: feed()}
	m := startedModel(t, src)
	require.Equal(t, 2, m.unread)

	m, cmd := update(t, m, keyPress('a'))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Equal(t, 0, m.unread)
	assert.Equal(t, "All notifications marked as read", m.toast)
	assert.False(t, m.toastErr)
}

func TestModel_MarkReadSelected(t *testing.T) {
	src := &stubSource{items: feed()}
	m := startedModel(t, src)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Equal(t, 1, m.unread)
	assert.True(t, m.items[0].Read)
	assert.Equal(t, "Notification marked as read", m.toast)
}

func TestModel_ArchiveFailureShowsError(t *testing.T) {
	src := &stubSource{items: feed(), mutateErr: errors.New("server unavailable")}
	m := startedModel(t, src)

	m, cmd := update(t, m, keyPress('d'))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Len(t, m.items, 2)
	assert.True(t, m.toastErr)
	assert.Equal(t, "Action failed: server unavailable", m.toast)
}

func TestModel_QuitStopsPoller(t *testing.T) {
	src := &stubSource{items: feed()}
	m := startedModel(t, src)

	m, cmd := update(t, m, keyPress('q'))
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())

	_, cmd = update(t, m, cmd())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	// Stop closes the event stream once the loop has exited.
	for range m.poller.Events() {
	}
	assert.ErrorIs(t, m.poller.Start(context.Background()), poller.ErrAlreadyStarted)
}
