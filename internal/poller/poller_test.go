package poller

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studyhub/internal/app/models/dto"
	"github.com/yigit/studyhub/internal/client"
)

// fakeSource is an in-memory notification server.
type fakeSource struct {
	mu        sync.Mutex
	items     []dto.NotificationResponse
	nextID    int64
	listErr   error
	mutateErr error
	lists     int
}

func (f *fakeSource) add(read bool) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.items = append([]dto.NotificationResponse{{ID: f.nextID, Title: "n", Read: read}}, f.items...)
	return f.nextID
}

func (f *fakeSource) setListErr(err error) {
	f.mu.Lock()
	f.listErr = err
	f.mu.Unlock()
}

func (f *fakeSource) listCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists
}

func (f *fakeSource) ListNotifications(ctx context.Context) (*dto.NotificationListResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	items := append([]dto.NotificationResponse(nil), f.items...)
	return &dto.NotificationListResponse{Notifications: items, UnreadCount: countUnread(items)}, nil
}

func (f *fakeSource) MarkRead(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutateErr != nil {
		return f.mutateErr
	}
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Read = true
		}
	}
	return nil
}

func (f *fakeSource) MarkAllRead(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutateErr != nil {
		return f.mutateErr
	}
	for i := range f.items {
		f.items[i].Read = true
	}
	return nil
}

func (f *fakeSource) Archive(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutateErr != nil {
		return f.mutateErr
	}
	kept := f.items[:0]
	for _, n := range f.items {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	f.items = kept
	return nil
}

// startPoller starts a poller whose ticker effectively never fires, so
// fetches happen only on Start and Refresh.
func startPoller(t *testing.T, src Source) *Poller {
	t.Helper()
	p := New(src, Options{Interval: time.Hour, Logger: zerolog.Nop()})
	require.NoError(t, p.Start(context.Background()))
	t.Cleanup(p.Stop)
	return p
}

func nextEvent(t *testing.T, p *Poller) Event {
	t.Helper()
	select {
	case ev, ok := <-p.Events():
		require.True(t, ok, "events channel closed")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for poller event")
		return Event{}
	}
}

func TestEventMessage(t *testing.T) {
	assert.Equal(t, "", Event{}.Message())
	assert.Equal(t, "+1 new notification", Event{NewCount: 1}.Message())
	assert.Equal(t, "+3 new notifications", Event{NewCount: 3}.Message())
	assert.Contains(t, Event{Err: errors.New("timeout")}.Message(), "timeout")
}

func TestPollerReportsPositiveDeltaOnly(t *testing.T) {
	src := &fakeSource{}
	src.add(false)
	src.add(false)

	p := startPoller(t, src)

	first := nextEvent(t, p)
	assert.Equal(t, 2, first.UnreadCount)
	assert.Zero(t, first.NewCount, "first fetch sets the baseline")
	assert.Empty(t, first.Message())

	src.add(false)
	src.add(false)
	src.add(false)
	p.Refresh()

	grown := nextEvent(t, p)
	assert.Equal(t, 5, grown.UnreadCount)
	assert.Equal(t, 3, grown.NewCount)
	assert.Equal(t, "+3 new notifications", grown.Message())

	// read elsewhere: the count drops and nothing is announced
	require.NoError(t, src.MarkAllRead(context.Background()))
	src.add(false)
	p.Refresh()

	shrunk := nextEvent(t, p)
	assert.Equal(t, 1, shrunk.UnreadCount)
	assert.Zero(t, shrunk.NewCount)
}

func TestPollerAuthFailuresAreSilent(t *testing.T) {
	src := &fakeSource{}
	src.add(false)
	p := startPoller(t, src)
	nextEvent(t, p)

	src.setListErr(&client.APIError{StatusCode: http.StatusUnauthorized})
	p.Refresh()

	rejected := nextEvent(t, p)
	assert.True(t, rejected.AuthRejected)
	assert.NoError(t, rejected.Err)
	assert.Empty(t, rejected.Message(), "auth failures raise no alert")

	// still rejected: no further event
	src.setListErr(&client.APIError{StatusCode: http.StatusForbidden})
	p.Refresh()
	require.Eventually(t, func() bool { return src.listCalls() >= 3 }, time.Second, 5*time.Millisecond)

	src.setListErr(nil)
	src.add(false)
	p.Refresh()

	ev := nextEvent(t, p)
	assert.False(t, ev.AuthRejected)
	assert.NoError(t, ev.Err)
	assert.Equal(t, 1, ev.NewCount)
}

func TestPollerReportsRejectedCredentialOnFirstFetch(t *testing.T) {
	src := &fakeSource{}
	src.setListErr(&client.APIError{StatusCode: http.StatusUnauthorized})

	p := startPoller(t, src)

	ev := nextEvent(t, p)
	assert.True(t, ev.AuthRejected)
	assert.Empty(t, ev.Message())
}

func TestPollerCarriesDeltaPastLaggingConsumer(t *testing.T) {
	src := &fakeSource{}
	src.add(false)
	p := startPoller(t, src)

	// Nobody reads: fill the event buffer with unchanged fetches.
	require.Eventually(t, func() bool { return src.listCalls() >= 1 }, time.Second, time.Millisecond)
	for calls := 2; calls <= cap(p.events); calls++ {
		p.Refresh()
		n := calls
		require.Eventually(t, func() bool { return src.listCalls() >= n }, time.Second, time.Millisecond)
	}

	src.add(false)
	src.add(false)
	src.add(false)
	p.Refresh()
	require.Eventually(t, func() bool { return src.listCalls() >= cap(p.events)+1 }, time.Second, time.Millisecond)
	// one more dropped fetch guarantees the previous send has finished
	p.Refresh()
	require.Eventually(t, func() bool { return src.listCalls() >= cap(p.events)+2 }, time.Second, time.Millisecond)

	announced := 0
	for i := 0; i < cap(p.events); i++ {
		announced += nextEvent(t, p).NewCount
	}
	assert.Zero(t, announced, "buffered events predate the growth")

	p.Refresh()
	ev := nextEvent(t, p)
	assert.Equal(t, 4, ev.UnreadCount)
	assert.Equal(t, 3, ev.NewCount)
	assert.Equal(t, "+3 new notifications", ev.Message())

	p.Refresh()
	assert.Zero(t, nextEvent(t, p).NewCount, "carried growth is announced once")
}

func TestPollerLocalActionClearsCarriedDelta(t *testing.T) {
	src := &fakeSource{}
	p := startPoller(t, src)
	nextEvent(t, p)

	p.mu.Lock()
	p.pending = 2
	p.mu.Unlock()

	require.NoError(t, p.MarkAllRead(context.Background()))
	p.Refresh()
	assert.Zero(t, nextEvent(t, p).NewCount)
}

func TestPollerSurfacesOtherFailures(t *testing.T) {
	src := &fakeSource{}
	src.setListErr(&client.APIError{StatusCode: http.StatusInternalServerError, Message: "store unavailable"})

	p := startPoller(t, src)

	ev := nextEvent(t, p)
	require.Error(t, ev.Err)
	assert.Contains(t, ev.Message(), "store unavailable")

	items, unread := p.Snapshot()
	assert.Empty(t, items)
	assert.Zero(t, unread)
}

func TestPollerLocalActionsMoveBaseline(t *testing.T) {
	src := &fakeSource{}
	a := src.add(false)
	src.add(false)
	src.add(false)

	p := startPoller(t, src)
	require.Equal(t, 3, nextEvent(t, p).UnreadCount)

	require.NoError(t, p.MarkRead(context.Background(), a))
	_, unread := p.Snapshot()
	assert.Equal(t, 2, unread)

	// one genuinely new item arrives: 2 -> 3 is +1, not 0
	src.add(false)
	p.Refresh()
	ev := nextEvent(t, p)
	assert.Equal(t, 3, ev.UnreadCount)
	assert.Equal(t, 1, ev.NewCount)

	require.NoError(t, p.MarkAllRead(context.Background()))
	_, unread = p.Snapshot()
	assert.Zero(t, unread)

	items, _ := p.Snapshot()
	require.NoError(t, p.Archive(context.Background(), items[0].ID))
	after, _ := p.Snapshot()
	assert.Len(t, after, len(items)-1)

	p.Refresh()
	ev = nextEvent(t, p)
	assert.Zero(t, ev.NewCount, "own actions are not announced")
}

func TestPollerMutationFailureKeepsLocalState(t *testing.T) {
	src := &fakeSource{}
	id := src.add(false)
	p := startPoller(t, src)
	nextEvent(t, p)

	src.mu.Lock()
	src.mutateErr = errors.New("offline")
	src.mu.Unlock()

	assert.Error(t, p.MarkRead(context.Background(), id))
	assert.Error(t, p.Archive(context.Background(), id))

	items, unread := p.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, 1, unread)
}

func TestPollerStopEndsFetching(t *testing.T) {
	src := &fakeSource{}
	p := New(src, Options{Interval: 5 * time.Millisecond, Logger: zerolog.Nop()})
	require.NoError(t, p.Start(context.Background()))

	require.Eventually(t, func() bool { return src.listCalls() >= 3 }, 2*time.Second, time.Millisecond)

	p.Stop()
	calls := src.listCalls()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, src.listCalls(), "no fetch after Stop returns")

	// drain what was buffered; the channel must then be closed
	for range p.Events() {
	}

	p.Stop()
	assert.ErrorIs(t, p.Start(context.Background()), ErrAlreadyStarted)
}

func TestPollerStopsWithParentContext(t *testing.T) {
	src := &fakeSource{}
	ctx, cancel := context.WithCancel(context.Background())
	p := New(src, Options{Interval: time.Hour, Logger: zerolog.Nop()})
	require.NoError(t, p.Start(ctx))

	cancel()
	done := make(chan struct{})
	go func() {
		for range p.Events() {
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("events channel not closed after context cancel")
	}
	p.Stop()
}
