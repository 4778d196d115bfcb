package app

import (
	"context"
	"log"
	"sync"
	"time"
)

// CompletionRecorded is published after a completion is durably persisted.
type CompletionRecorded struct {
	UserID   string    `json:"userId"`
	QuizID   string    `json:"quizId"`
	Score    int       `json:"score"`
	MaxScore int       `json:"maxScore"`
	At       time.Time `json:"at"`
}

// EventBus fans grading events out to in-process subscribers. Publishing
// never blocks: a slow subscriber has its oldest pending event dropped.
type EventBus struct {
	mu          sync.Mutex
	subscribers map[chan CompletionRecorded]struct{}
}

func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[chan CompletionRecorded]struct{})}
}

// Subscribe returns a channel receiving future grading events. The caller
// must invoke the returned cancel function to avoid leaks.
func (b *EventBus) Subscribe() (<-chan CompletionRecorded, func()) {
	ch := make(chan CompletionRecorded, 8)

	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subscribers[ch]; ok {
			delete(b.subscribers, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber.
func (b *EventBus) Publish(event CompletionRecorded) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			// Drop the oldest pending event so a stalled consumer never
			// blocks the grading path.
			select {
			case <-ch:
			default:
			}
			ch <- event
		}
	}
}

// BadgeService recomputes a user's badges after a point-affecting event.
// Implementations must be idempotent and safe to call redundantly.
type BadgeService interface {
	TriggerCheck(ctx context.Context, userID string) error
}

// BadgeDispatcher consumes grading events and triggers badge recomputation
// off the grading path. Trigger failures are logged and never reach the
// grading caller.
type BadgeDispatcher struct {
	badges BadgeService
	events *EventBus
}

func NewBadgeDispatcher(badges BadgeService, events *EventBus) *BadgeDispatcher {
	return &BadgeDispatcher{badges: badges, events: events}
}

// Run consumes events until ctx is canceled.
func (d *BadgeDispatcher) Run(ctx context.Context) {
	events, cancel := d.events.Subscribe()
	defer cancel()
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := d.badges.TriggerCheck(ctx, event.UserID); err != nil {
				log.Printf("badge check for user %s failed: %v", event.UserID, err)
			}
		case <-ctx.Done():
			return
		}
	}
}
