// Package event provides typed, synchronous publish/subscribe.
//
// Dispatch runs every handler on the caller's goroutine before returning, so
// a state change that is made before Dispatch is visible to every handler.
// Handlers are invoked without the dispatcher's lock held and may subscribe
// or unsubscribe from inside a handler.
package event

import (
	"context"
	"sync"
)

// Handler receives a dispatched value.
type Handler[T any] func(T)

type subscription[T any] struct {
	id   uint64
	fn   Handler[T]
	once bool
}

// Dispatcher fans a value out to its subscribers in subscription order.
// The zero value is ready to use.
type Dispatcher[T any] struct {
	mu     sync.Mutex
	nextID uint64
	subs   []subscription[T]
}

// Subscribe registers h and returns a function that removes it.
func (d *Dispatcher[T]) Subscribe(h Handler[T]) (unsubscribe func()) {
	return d.add(h, false)
}

// Once registers h for a single dispatch.
func (d *Dispatcher[T]) Once(h Handler[T]) (unsubscribe func()) {
	return d.add(h, true)
}

func (d *Dispatcher[T]) add(h Handler[T], once bool) func() {
	d.mu.Lock()
	d.nextID++
	id := d.nextID
	d.subs = append(d.subs, subscription[T]{id: id, fn: h, once: once})
	d.mu.Unlock()

	var done sync.Once
	return func() {
		done.Do(func() { d.remove(id) })
	}
}

func (d *Dispatcher[T]) remove(id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, s := range d.subs {
		if s.id == id {
			d.subs = append(d.subs[:i:i], d.subs[i+1:]...)
			return
		}
	}
}

// Dispatch delivers v to every current subscriber.
func (d *Dispatcher[T]) Dispatch(v T) {
	d.mu.Lock()
	snapshot := make([]subscription[T], len(d.subs))
	copy(snapshot, d.subs)
	if len(snapshot) > 0 {
		kept := d.subs[:0:0]
		for _, s := range d.subs {
			if !s.once {
				kept = append(kept, s)
			}
		}
		d.subs = kept
	}
	d.mu.Unlock()

	for _, s := range snapshot {
		s.fn(v)
	}
}

// Len returns the number of subscribers.
func (d *Dispatcher[T]) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.subs)
}

// Clear removes every subscriber.
func (d *Dispatcher[T]) Clear() {
	d.mu.Lock()
	d.subs = nil
	d.mu.Unlock()
}

// Wait blocks until a dispatched value satisfies match or ctx is done.
// A nil match accepts the first value. trigger, when non-nil, runs after the
// subscription is in place so a synchronous reply cannot be missed.
func Wait[T any](ctx context.Context, d *Dispatcher[T], match func(T) bool, trigger func() error) (T, error) {
	var zero T
	ch := make(chan T, 1)
	unsubscribe := d.Subscribe(func(v T) {
		if match != nil && !match(v) {
			return
		}
		select {
		case ch <- v:
		default:
		}
	})
	defer unsubscribe()

	if trigger != nil {
		if err := trigger(); err != nil {
			return zero, err
		}
	}

	select {
	case v := <-ch:
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
