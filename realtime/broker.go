// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"context"
	"errors"
	"sync"

	"github.com/mtauhidul/ats-ui-demo-sub000/models"
)

// ErrClosed is returned by brokers after Close.
var ErrClosed = errors.New("broker closed")

// subscriptionBuffer bounds undelivered notices per subscriber. Every
// notice triggers a full snapshot reload, so dropping one while another
// is queued loses nothing.
const subscriptionBuffer = 16

// Broker fans change notices out to every subscriber of a job.
type Broker interface {
	Publish(ctx context.Context, notice models.ChangeNotice) error
	Subscribe(ctx context.Context, jobID string) (*Subscription, error)
	Close() error
}

// Subscription delivers notices for one job until Close is called or
// the broker shuts down, after which C is closed.
type Subscription struct {
	C <-chan models.ChangeNotice

	once   sync.Once
	cancel func()
}

// Close stops delivery. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(s.cancel)
}

// MemoryBroker is an in-process Broker for single-instance deployments.
type MemoryBroker struct {
	mu     sync.Mutex
	subs   map[string]map[*memorySub]struct{}
	closed bool
}

type memorySub struct {
	ch chan models.ChangeNotice
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: make(map[string]map[*memorySub]struct{})}
}

// Publish never blocks; a subscriber with a full buffer skips the notice.
func (b *MemoryBroker) Publish(ctx context.Context, notice models.ChangeNotice) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	for sub := range b.subs[notice.JobID] {
		select {
		case sub.ch <- notice:
		default:
		}
	}
	return nil
}

func (b *MemoryBroker) Subscribe(ctx context.Context, jobID string) (*Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}

	sub := &memorySub{ch: make(chan models.ChangeNotice, subscriptionBuffer)}
	if b.subs[jobID] == nil {
		b.subs[jobID] = make(map[*memorySub]struct{})
	}
	b.subs[jobID][sub] = struct{}{}

	return &Subscription{
		C: sub.ch,
		cancel: func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subs[jobID][sub]; !ok {
				return
			}
			delete(b.subs[jobID], sub)
			if len(b.subs[jobID]) == 0 {
				delete(b.subs, jobID)
			}
			close(sub.ch)
		},
	}, nil
}

// Subscribers reports how many subscriptions are open for jobID.
func (b *MemoryBroker) Subscribers(jobID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[jobID])
}

// Close ends every subscription.
func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for jobID, subs := range b.subs {
		for sub := range subs {
			close(sub.ch)
		}
		delete(b.subs, jobID)
	}
	return nil
}
