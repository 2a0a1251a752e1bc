package app

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/queuify/qboard/internal/queuify"
	"github.com/queuify/qboard/internal/socket"
	"github.com/queuify/qboard/internal/state"
)

// Mode selects which view of backend state the refresher maintains.
type Mode int

const (
	// ModeBoard refreshes the admin live-queue snapshot for one date.
	ModeBoard Mode = iota
	// ModeTrack refreshes a single appointment's queue status.
	ModeTrack
)

const (
	defaultPollInterval = 2 * time.Second
	maxBackoff          = 30 * time.Second
)

// RefresherOptions wire a Refresher to its collaborators.
type RefresherOptions struct {
	Mode     Mode
	Store    *state.Store
	Client   queuify.API
	Socket   *socket.Manager
	Date     string
	TrackID  int64
	OrgID    string
	Interval time.Duration
}

// Refresher owns the one invalidate-and-refetch function. Three triggers
// feed it: the poll timer, inbound socket events, and manual kicks from the
// UI (refresh key, date change, after a status update). All of them run the
// same fetch; the socket event payload is never used as state.
type Refresher struct {
	mode    Mode
	store   *state.Store
	client  queuify.API
	sock    *socket.Manager
	trackID int64

	kick chan struct{}

	mu       sync.Mutex
	date     string
	joined   bool
	failures int
}

// StartRefresher launches the background refresh loop and returns the
// Refresher for manual triggers. It returns immediately.
func StartRefresher(ctx context.Context, opts RefresherOptions) *Refresher {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	r := &Refresher{
		mode:    opts.Mode,
		store:   opts.Store,
		client:  opts.Client,
		sock:    opts.Socket,
		trackID: opts.TrackID,
		date:    opts.Date,
		kick:    make(chan struct{}, 1),
	}

	events, cancelSub := r.sock.Subscribe()

	go func() {
		defer cancelSub()
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(calculateBackoff(r.failureCount(), interval)):
			case <-events:
				// Change signal only: re-pull canonical state.
			case <-r.kick:
			}
			if err := r.Refresh(ctx); err != nil && ctx.Err() == nil {
				log.Printf("refresh failed: %v", err)
			}
		}
	}()

	return r
}

// Refresh runs one fetch of canonical state into the store.
func (r *Refresher) Refresh(ctx context.Context) error {
	switch r.mode {
	case ModeTrack:
		return r.refreshTrack(ctx)
	default:
		return r.refreshBoard(ctx)
	}
}

func (r *Refresher) refreshBoard(ctx context.Context) error {
	queues, err := r.client.FetchLiveQueue(ctx, r.Date())
	r.store.UpdateQueues(queues, err)
	r.recordResult(err)
	return err
}

func (r *Refresher) refreshTrack(ctx context.Context) error {
	status, err := r.client.FetchQueueStatus(ctx, r.trackID)
	r.store.UpdateTrack(status, err)
	r.recordResult(err)
	if err != nil {
		return err
	}

	// The org room is only knowable after a successful fetch.
	r.mu.Lock()
	join := !r.joined && status.OrgID != ""
	if join {
		r.joined = true
	}
	r.mu.Unlock()
	if join {
		r.sock.Join(socket.Rooms{Org: status.OrgID})
	}
	return nil
}

// Kick requests an immediate refresh without blocking. Coalesces when one is
// already pending.
func (r *Refresher) Kick() {
	select {
	case r.kick <- struct{}{}:
	default:
	}
}

// Date returns the date the board refresh targets.
func (r *Refresher) Date() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.date
}

// SetDate retargets the board refresh. Callers follow up with Kick.
func (r *Refresher) SetDate(date string) {
	r.mu.Lock()
	r.date = date
	r.mu.Unlock()
}

func (r *Refresher) recordResult(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.failures++
		return
	}
	r.failures = 0
}

func (r *Refresher) failureCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failures
}

// calculateBackoff doubles the base interval per consecutive failure, capped
// at maxBackoff, so a dead backend is not hammered at poll cadence.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
