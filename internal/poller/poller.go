// Package poller keeps a local copy of the notification feed in sync with
// the server by polling it on a fixed interval.
package poller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/studyhub/internal/app/models/dto"
	"github.com/yigit/studyhub/internal/client"
)

// DefaultInterval is how often the feed is re-fetched.
const DefaultInterval = 30 * time.Second

// fetchTimeout bounds a single List call.
const fetchTimeout = 30 * time.Second

// ErrAlreadyStarted is returned by Start on a running Poller.
var ErrAlreadyStarted = errors.New("poller already started")

// Source is the notification API the poller reads from and writes through.
type Source interface {
	ListNotifications(ctx context.Context) (*dto.NotificationListResponse, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context) error
	Archive(ctx context.Context, id int64) error
}

// Event is emitted after every fetch that either succeeded or failed with a
// non-auth error, and once when the server starts rejecting the credential.
type Event struct {
	Notifications []dto.NotificationResponse
	UnreadCount   int
	// NewCount is how much the unread count grew since the last delivered
	// event. Zero on the first fetch and whenever the count did not grow.
	NewCount int
	Err      error
	// AuthRejected marks the first 401/403 after a working fetch. It carries
	// no alert text; the next successful fetch clears the state.
	AuthRejected bool
}

// Message is the transient alert text for the event, or "" when there is
// nothing to announce.
func (e Event) Message() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("Could not refresh notifications: %v", e.Err)
	case e.NewCount == 1:
		return "+1 new notification"
	case e.NewCount > 1:
		return fmt.Sprintf("+%d new notifications", e.NewCount)
	}
	return ""
}

// Options configures a Poller.
type Options struct {
	Interval time.Duration
	Logger   zerolog.Logger
}

// Poller is an owned background task: Start launches it, Stop cancels it
// and waits until no fetch is running. Fetches never overlap.
type Poller struct {
	src      Source
	interval time.Duration
	logger   zerolog.Logger

	events    chan Event
	triggerCh chan struct{}

	mu       sync.Mutex
	items    []dto.NotificationResponse
	baseline int
	primed   bool
	// pending holds growth from events the consumer never received.
	pending      int
	authRejected bool
	// gen is bumped by every acknowledged local mutation; a fetch that
	// started before the bump is discarded.
	gen     uint64
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a stopped Poller.
func New(src Source, opts Options) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	return &Poller{
		src:       src,
		interval:  opts.Interval,
		logger:    opts.Logger.With().Str("component", "poller").Logger(),
		events:    make(chan Event, 16),
		triggerCh: make(chan struct{}, 1),
	}
}

// Events delivers fetch results. It is closed once the poller has stopped.
func (p *Poller) Events() <-chan Event {
	return p.events
}

// Start performs an immediate fetch and then one every interval until ctx
// is cancelled or Stop is called. A Poller runs at most once.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running || p.done != nil {
		return ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true

	go p.loop(ctx)
	return nil
}

// Stop cancels the polling loop and blocks until it has exited, so no fetch
// runs after Stop returns. Calling Stop more than once is safe.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.running = false
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Refresh asks for a fetch ahead of the next tick. It never blocks; a
// pending request absorbs further ones.
func (p *Poller) Refresh() {
	select {
	case p.triggerCh <- struct{}{}:
	default:
	}
}

// Snapshot returns a copy of the local feed and its unread count.
func (p *Poller) Snapshot() ([]dto.NotificationResponse, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	items := append([]dto.NotificationResponse(nil), p.items...)
	return items, countUnread(items)
}

// MarkRead marks a notification read on the server and, once acknowledged,
// locally. The unread baseline follows the local count.
func (p *Poller) MarkRead(ctx context.Context, id int64) error {
	if err := p.src.MarkRead(ctx, id); err != nil {
		return err
	}
	p.applyLocal(func(items []dto.NotificationResponse) []dto.NotificationResponse {
		for i := range items {
			if items[i].ID == id {
				items[i].Read = true
			}
		}
		return items
	})
	return nil
}

// MarkAllRead marks the whole feed read on the server and then locally.
func (p *Poller) MarkAllRead(ctx context.Context) error {
	if err := p.src.MarkAllRead(ctx); err != nil {
		return err
	}
	p.applyLocal(func(items []dto.NotificationResponse) []dto.NotificationResponse {
		for i := range items {
			items[i].Read = true
		}
		return items
	})
	return nil
}

// Archive removes a notification on the server and then locally.
func (p *Poller) Archive(ctx context.Context, id int64) error {
	if err := p.src.Archive(ctx, id); err != nil {
		return err
	}
	p.applyLocal(func(items []dto.NotificationResponse) []dto.NotificationResponse {
		kept := items[:0]
		for _, n := range items {
			if n.ID != id {
				kept = append(kept, n)
			}
		}
		return kept
	})
	return nil
}

func (p *Poller) applyLocal(mutate func([]dto.NotificationResponse) []dto.NotificationResponse) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = mutate(p.items)
	p.baseline = countUnread(p.items)
	p.pending = 0
	p.gen++
}

func (p *Poller) loop(ctx context.Context) {
	defer close(p.done)
	defer close(p.events)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.fetch(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetch(ctx)
		case <-p.triggerCh:
			p.fetch(ctx)
		}
	}
}

func (p *Poller) fetch(ctx context.Context) {
	p.mu.Lock()
	gen := p.gen
	p.mu.Unlock()

	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	resp, err := p.src.ListNotifications(fetchCtx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		if client.IsAuthError(err) {
			p.logger.Debug().Err(err).Msg("Notification fetch rejected, credential needs renewal")
			p.mu.Lock()
			first := !p.authRejected
			p.authRejected = true
			p.mu.Unlock()
			if first {
				p.send(ctx, Event{AuthRejected: true})
			}
			return
		}
		p.logger.Warn().Err(err).Msg("Notification fetch failed")
		p.send(ctx, Event{Err: err})
		return
	}

	items := append([]dto.NotificationResponse(nil), resp.Notifications...)
	unread := countUnread(items)

	p.mu.Lock()
	if p.gen != gen {
		p.mu.Unlock()
		p.logger.Debug().Msg("Discarding fetch that raced a local change")
		return
	}
	newCount := 0
	if p.primed && unread > p.baseline {
		newCount = unread - p.baseline
	}
	p.items = items
	p.baseline = unread
	p.primed = true
	p.authRejected = false
	p.mu.Unlock()

	p.send(ctx, Event{
		Notifications: append([]dto.NotificationResponse(nil), items...),
		UnreadCount:   unread,
		NewCount:      newCount,
	})
}

// send drops the event if the consumer has fallen behind rather than stall
// the loop. The next fetch carries the full feed; growth from a dropped event
// is kept in pending and added to the next delivered one.
func (p *Poller) send(ctx context.Context, ev Event) {
	if ctx.Err() != nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	counts := ev.Err == nil && !ev.AuthRejected
	if counts {
		ev.NewCount += p.pending
	}
	select {
	case p.events <- ev:
		if counts {
			p.pending = 0
		}
	default:
		if counts {
			p.pending = ev.NewCount
		}
		p.logger.Debug().Int("pending", p.pending).Msg("Poller event dropped, consumer is behind")
	}
}

func countUnread(items []dto.NotificationResponse) int {
	n := 0
	for _, it := range items {
		if !it.Read {
			n++
		}
	}
	return n
}
