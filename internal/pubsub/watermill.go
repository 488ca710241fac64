package pubsub

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// WatermillBridge implements Publisher and Subscriber on top of watermill's
// in-memory GoChannel.
type WatermillBridge struct {
	pub message.Publisher
	sub message.Subscriber
	// Adapter watermill writes its own diagnostics to.
	logger watermill.LoggerAdapter
}

const (
	// Reserved metadata keys. Topic and UserID travel in watermill metadata
	// because a watermill message only carries a UUID and a payload.
	metaKeyUserID = "user_id"
	metaKeyTopic  = "topic"
)

// NewWatermillBridge initializes an in-memory bus. Messages never leave the
// process, which is all the outcome events need.
func NewWatermillBridge() *WatermillBridge {
	logger := watermill.NewStdLogger(false, false)
	// Zero config: unbuffered output channels and no persistence, so late
	// subscribers miss earlier messages.
	goChannel := gochannel.NewGoChannel(gochannel.Config{}, logger)

	return &WatermillBridge{
		pub:    goChannel,
		sub:    goChannel,
		logger: logger,
	}
}

// toWatermill wraps msg in a watermill message with a fresh UUID.
func toWatermill(msg Message) *message.Message {
	wmMsg := message.NewMessage(watermill.NewUUID(), msg.Payload)

	wmMsg.Metadata.Set(metaKeyUserID, msg.UserID)
	wmMsg.Metadata.Set(metaKeyTopic, msg.Topic)

	// Caller metadata is copied last; it may not reuse the reserved keys.
	for k, v := range msg.Metadata {
		wmMsg.Metadata.Set(k, v)
	}
	return wmMsg
}

// fromWatermill is the inverse of toWatermill.
func fromWatermill(wmMsg *message.Message) Message {
	// Reserved keys become struct fields, so they are left out of Metadata.
	metadata := make(map[string]string)
	for k, v := range wmMsg.Metadata {
		if k != metaKeyUserID && k != metaKeyTopic {
			metadata[k] = v
		}
	}

	return Message{
		Topic:    wmMsg.Metadata.Get(metaKeyTopic),
		UserID:   wmMsg.Metadata.Get(metaKeyUserID),
		Payload:  wmMsg.Payload,
		Metadata: metadata,
	}
}

// Publish implements Publisher. The watermill topic is msg.Topic.
func (wb *WatermillBridge) Publish(ctx context.Context, msg Message) error {
	return wb.pub.Publish(msg.Topic, toWatermill(msg))
}

// Subscribe implements Subscriber. It returns once the subscription is
// active; handler then runs on a background goroutine until ctx is done or
// the bridge is closed.
func (wb *WatermillBridge) Subscribe(ctx context.Context, topic string, handler Handler) error {
	messages, err := wb.sub.Subscribe(ctx, topic)
	if err != nil {
		return err
	}

	go func() {
		// The channel closes on ctx cancellation or Close.
		for wmMsg := range messages {
			msg := fromWatermill(wmMsg)

			if err := handler(ctx, msg); err != nil {
				// GoChannel redelivers a nacked message immediately and forever,
				// so a failing handler would spin. Log it and move on.
				slog.Error("Failed to handle message", "topic", topic, "msg_id", wmMsg.UUID, "error", err)
			}
			// GoChannel waits for the ack before sending the next message.
			wmMsg.Ack()
		}
		slog.Debug("Subscription message loop ended", "topic", topic)
	}()

	return nil
}

// Close shuts the bus down. Every subscription loop ends once its channel
// drains.
func (wb *WatermillBridge) Close() error {
	return wb.sub.Close()
}
