// Package event is a small in-process publish/subscribe bus. Services fire
// domain events after a write commits; listeners handle side effects such as
// cache invalidation and notifications.
//
//	bus.Listen("product.changed", func(ctx context.Context, payload any) {
//	    categories.Forget(ctx)
//	})
//	bus.Fire(ctx, "product.changed", product.ID)
package event

import (
	"context"
	"sync"

	"github.com/eburutu/mart/pkg/logger"
)

// Handler receives an event payload.
type Handler func(ctx context.Context, payload any)

// Bus dispatches events to listeners in registration order.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

// Listen registers handler for name.
func (b *Bus) Listen(name string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], handler)
}

// Fire calls every listener of name synchronously. A panicking listener is
// logged and skipped so the others still run.
func (b *Bus) Fire(ctx context.Context, name string, payload any) {
	for _, h := range b.listeners(name) {
		call(ctx, name, h, payload)
	}
}

// HasListeners reports whether anything listens for name.
func (b *Bus) HasListeners(name string) bool {
	return len(b.listeners(name)) > 0
}

// Flush removes every listener.
func (b *Bus) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = make(map[string][]Handler)
}

func (b *Bus) listeners(name string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	hs := make([]Handler, len(b.handlers[name]))
	copy(hs, b.handlers[name])
	return hs
}

func call(ctx context.Context, name string, h Handler, payload any) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.WithCtx(ctx).Error("event: listener panicked", "event", name, "panic", rec)
		}
	}()
	h(ctx, payload)
}
