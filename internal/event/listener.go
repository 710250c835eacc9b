package event

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pokeclicker-automation/autoseller/internal/game"
)

var events = make(chan Event)

type Handler func(ctx context.Context, e Event) error

type Listener struct {
	mu       sync.RWMutex
	handlers []Handler
	logger   *slog.Logger
}

func NewListener(logger *slog.Logger) *Listener {
	return &Listener{logger: logger}
}

func (l *Listener) Register(h Handler) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.handlers = append(l.handlers, h)
}

// Listen dispatches every sent event to all registered handlers until ctx ends.
func (l *Listener) Listen(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-events:
			l.mu.RLock()
			handlers := l.handlers
			l.mu.RUnlock()

			for _, h := range handlers {
				go func(h Handler) {
					if err := h(ctx, e); err != nil {
						l.logger.Error(fmt.Sprintf("error running event handler: %v", err), slog.String("event", e.ID()))
					}
				}(h)
			}
		}
	}
}

// Send never blocks the caller, events are dropped only if nobody ever listens.
func Send(e Event) {
	go func() {
		events <- e
	}()
}

// Notifier adapts Send to features that only need to post user-facing messages.
type Notifier struct{}

func (Notifier) Notify(message, source string) {
	Send(Notification(Text(source, message)))
}

func (Notifier) ItemsSold(source string, currency game.Currency, earned int, sold map[string]int) {
	total := 0
	for _, qty := range sold {
		total += qty
	}
	msg := fmt.Sprintf("Sold %d items for %d %s", total, earned, currency)
	Send(ItemsSold(Text(source, msg), string(currency), earned, sold))
}
