package services

import (
	"context"

	"github.com/vytor/puzzlequest/internal/events"
)

// Notifier receives an event after every successful write.
type Notifier interface {
	Publish(ctx context.Context, e events.Event)
}

type nopNotifier struct{}

func (nopNotifier) Publish(context.Context, events.Event) {}

func orNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
