package services

import (
	"sync"

	"github.com/orghub/orghub-backend/internal/core/domain"
)

// relayChannelBuffer bounds how many undelivered notifications a slow
// consumer can queue before pushes start dropping.
const relayChannelBuffer = 16

// NotificationRelay routes notifications to connected consumers in-process.
// At most one channel is live per user; a new registration replaces the old
// one. Delivery is best-effort: a push to a full or absent channel is
// dropped, the durable inbox is the source of truth.
type NotificationRelay struct {
	mu       sync.Mutex
	channels map[string]chan domain.Notification
}

// NewNotificationRelay creates an empty relay.
func NewNotificationRelay() *NotificationRelay {
	return &NotificationRelay{channels: make(map[string]chan domain.Notification)}
}

// Register opens a live channel for the user, closing and replacing any
// existing one. Last writer wins.
func (r *NotificationRelay) Register(userID string) chan domain.Notification {
	ch := make(chan domain.Notification, relayChannelBuffer)

	r.mu.Lock()
	if old, ok := r.channels[userID]; ok {
		close(old)
	}
	r.channels[userID] = ch
	r.mu.Unlock()

	return ch
}

// Deregister removes the user's channel, but only if it is still the one
// passed in. A stale deregistration after a reconnect is a no-op.
func (r *NotificationRelay) Deregister(userID string, ch chan domain.Notification) {
	r.mu.Lock()
	if current, ok := r.channels[userID]; ok && current == ch {
		delete(r.channels, userID)
		close(current)
	}
	r.mu.Unlock()
}

// Push delivers a notification to the user's live channel if one exists and
// has room. It never blocks and reports whether the delivery happened.
// The send happens under the lock so the channel cannot be closed out from
// underneath it by a concurrent Register or Deregister.
func (r *NotificationRelay) Push(n domain.Notification) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch, ok := r.channels[n.UserID]
	if !ok {
		return false
	}

	select {
	case ch <- n:
		return true
	default:
		return false
	}
}
