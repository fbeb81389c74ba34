// Package dispatch sends reminders to users on a fixed interval.
package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/at-ishikawa/recall/internal/learning"
)

//go:generate mockgen -source=sink.go -destination=../mocks/dispatch/mock_sink.go -package=mock_dispatch

// Sink delivers a reminder to the user.
type Sink interface {
	Send(ctx context.Context, event Event) error
}

// Event is one reminder about one learning item.
type Event struct {
	// ID is unique per reminder and is used as the idempotency key.
	ID      string        `json:"id"`
	UserID  int64         `json:"user_id"`
	ItemID  int64         `json:"item_id"`
	Kind    learning.Kind `json:"kind"`
	Prompt  string        `json:"prompt"`
	Answer  string        `json:"answer,omitempty"`
	Subject string        `json:"subject,omitempty"`
	Overdue bool          `json:"overdue"`
	SentAt  time.Time     `json:"sent_at"`
}

// NewEvent builds the reminder for item. Only recall items carry an answer.
func NewEvent(item learning.Item, now time.Time) Event {
	event := Event{
		ID:      uuid.NewString(),
		UserID:  item.UserID,
		ItemID:  item.ID,
		Kind:    item.Kind,
		Prompt:  item.Prompt,
		Subject: item.Subject,
		Overdue: item.NextReviewAt.Before(now),
		SentAt:  now.UTC(),
	}
	if item.Kind == learning.KindRecall {
		event.Answer = item.Answer
	}
	return event
}

// LogSink writes reminders to a logger.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink. A nil logger means slog.Default().
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Send(ctx context.Context, event Event) error {
	s.logger.InfoContext(ctx, "recall",
		"event_id", event.ID,
		"user_id", event.UserID,
		"item_id", event.ItemID,
		"kind", event.Kind,
		"prompt", event.Prompt,
		"subject", event.Subject,
		"overdue", event.Overdue,
	)
	return nil
}
