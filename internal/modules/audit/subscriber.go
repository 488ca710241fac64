package audit

import (
	"context"
	"log/slog"

	"github.com/nfrund/miniapp/internal/modules/miniapp/events"
	"github.com/nfrund/miniapp/internal/pubsub"
)

// Subscriber logs every verification outcome and keeps running counts.
type Subscriber struct {
	subscriber pubsub.Subscriber
	stats      *Stats
}

// NewSubscriber creates a Subscriber recording into stats.
func NewSubscriber(sub pubsub.Subscriber, stats *Stats) *Subscriber {
	return &Subscriber{subscriber: sub, stats: stats}
}

// Start subscribes to the outcome topic. Messages are handled in the
// background until ctx is cancelled.
func (s *Subscriber) Start(ctx context.Context) error {
	return s.subscriber.Subscribe(ctx, events.VerificationOutcome.Name(), s.handle)
}

func (s *Subscriber) handle(ctx context.Context, msg pubsub.Message) error {
	ev, err := pubsub.Decode(events.VerificationOutcome, msg)
	if err != nil {
		return err
	}

	s.stats.record(ev.State, ev.Bypass, ev.At)

	attrs := []any{
		"attempt_id", ev.AttemptID,
		"state", ev.State,
		"user_id", msg.UserID,
		"bypass", ev.Bypass,
	}
	if ev.StatusCode != 0 {
		attrs = append(attrs, "status_code", ev.StatusCode)
	}
	if ev.Error != "" {
		attrs = append(attrs, "error", ev.Error)
		slog.Warn("Verification outcome", attrs...)
		return nil
	}
	slog.Info("Verification outcome", attrs...)
	return nil
}
