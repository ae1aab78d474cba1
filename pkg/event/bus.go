package event

import "sync"

// Bus is a set of dispatchers keyed by event name.
type Bus[K comparable, T any] struct {
	mu          sync.Mutex
	dispatchers map[K]*Dispatcher[T]
}

func (b *Bus[K, T]) dispatcher(key K) *Dispatcher[T] {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.dispatchers == nil {
		b.dispatchers = make(map[K]*Dispatcher[T])
	}
	d, ok := b.dispatchers[key]
	if !ok {
		d = &Dispatcher[T]{}
		b.dispatchers[key] = d
	}
	return d
}

// Subscribe registers h for key.
func (b *Bus[K, T]) Subscribe(key K, h Handler[T]) (unsubscribe func()) {
	return b.dispatcher(key).Subscribe(h)
}

// Once registers h for a single dispatch of key.
func (b *Bus[K, T]) Once(key K, h Handler[T]) (unsubscribe func()) {
	return b.dispatcher(key).Once(h)
}

// Dispatch delivers v to the subscribers of key.
func (b *Bus[K, T]) Dispatch(key K, v T) {
	b.mu.Lock()
	d := b.dispatchers[key]
	b.mu.Unlock()
	if d != nil {
		d.Dispatch(v)
	}
}

// Dispatcher exposes the dispatcher for key, for use with Wait.
func (b *Bus[K, T]) Dispatcher(key K) *Dispatcher[T] {
	return b.dispatcher(key)
}
