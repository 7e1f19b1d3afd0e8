package engine

import (
	"log/slog"
	"sync"

	"github.com/drmcoder/garment-erp-pwa-sub006/internal/models"
)

// feedBuffer bounds the number of undelivered events per subscriber.
const feedBuffer = 64

// Feed fans committed hold transitions out to subscribers. Transitions
// for one hold are published under that hold's lock, so every
// subscriber observes them in commit order; no ordering is promised
// across different holds.
type Feed struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*subscriber
	logger *slog.Logger
}

type subscriber struct {
	ch   chan *models.BundleHold
	done chan struct{}
}

// NewFeed returns an empty feed.
func NewFeed(logger *slog.Logger) *Feed {
	return &Feed{subs: make(map[int]*subscriber), logger: logger}
}

// Subscribe registers cb and returns an unsubscribe function.
// Unsubscribing stops delivery and releases the subscriber's goroutine;
// events still queued at that point are discarded.
func (f *Feed) Subscribe(cb func(*models.BundleHold)) func() {
	sub := &subscriber{
		ch:   make(chan *models.BundleHold, feedBuffer),
		done: make(chan struct{}),
	}

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = sub
	f.mu.Unlock()

	go func() {
		for {
			select {
			case h := <-sub.ch:
				cb(h)
			case <-sub.done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
			close(sub.done)
		})
	}
}

// Publish delivers a snapshot of the hold to every subscriber. The
// caller must not mutate h afterwards; the engine publishes copies.
// Publish never blocks: a subscriber whose buffer is full loses the
// event, so a stalled observer cannot wedge transitions. Observers
// needing a complete picture re-read the held list.
func (f *Feed) Publish(h *models.BundleHold) {
	f.mu.Lock()
	subs := make([]*subscriber, 0, len(f.subs))
	for _, s := range f.subs {
		subs = append(subs, s)
	}
	f.mu.Unlock()

	for _, s := range subs {
		select {
		case s.ch <- h:
		case <-s.done:
		default:
			if f.logger != nil {
				f.logger.Warn("dropping feed event for slow subscriber",
					"hold_id", h.ID, "status", h.Status)
			}
		}
	}
}
