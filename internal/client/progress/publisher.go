// Package progress fans sync progress snapshots out to subscribers.
package progress

import (
	"sync"

	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/models"
)

// Listener receives every published snapshot.
type Listener func(models.SyncProgress)

type subscription struct {
	id uint64
	fn Listener
}

// Publisher delivers snapshots synchronously, in subscription order, on
// the publishing goroutine.
type Publisher struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID uint64
	last   models.SyncProgress
}

func New() *Publisher {
	return &Publisher{}
}

// Subscribe registers fn and returns a function that removes it. The
// returned function may be called any number of times, including from
// inside a listener.
func (p *Publisher) Subscribe(fn Listener) (unsubscribe func()) {
	p.mu.Lock()
	p.nextID++
	id := p.nextID
	p.subs = append(p.subs, subscription{id: id, fn: fn})
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { p.remove(id) })
	}
}

func (p *Publisher) remove(id uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, s := range p.subs {
		if s.id == id {
			p.subs = append(p.subs[:i:i], p.subs[i+1:]...)
			return
		}
	}
}

// Publish records snapshot as the latest and calls every listener that was
// subscribed when Publish began.
func (p *Publisher) Publish(snapshot models.SyncProgress) {
	p.mu.Lock()
	p.last = snapshot
	subs := make([]subscription, len(p.subs))
	copy(subs, p.subs)
	p.mu.Unlock()

	for _, s := range subs {
		s.fn(snapshot)
	}
}

// Last returns the most recently published snapshot.
func (p *Publisher) Last() models.SyncProgress {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}

// Len reports the number of active subscribers.
func (p *Publisher) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subs)
}

// Reset drops every subscriber.
func (p *Publisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subs = nil
}
