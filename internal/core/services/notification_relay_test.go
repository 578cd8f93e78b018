package services_test

import (
	"testing"

	"github.com/orghub/orghub-backend/internal/core/domain"
	"github.com/orghub/orghub-backend/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelay_PushReachesRegisteredChannel(t *testing.T) {
	relay := services.NewNotificationRelay()
	ch := relay.Register("user-1")

	delivered := relay.Push(domain.Notification{ID: 1, UserID: "user-1", Title: "hello"})

	require.True(t, delivered)
	n := <-ch
	assert.Equal(t, int64(1), n.ID)
}

func TestRelay_PushWithoutChannelIsDropped(t *testing.T) {
	relay := services.NewNotificationRelay()

	delivered := relay.Push(domain.Notification{UserID: "nobody"})

	assert.False(t, delivered)
}

func TestRelay_PushNeverBlocksOnFullChannel(t *testing.T) {
	relay := services.NewNotificationRelay()
	relay.Register("user-1")

	// Fill past any plausible buffer; extra pushes must drop, not block.
	dropped := false
	for i := 0; i < 100; i++ {
		if !relay.Push(domain.Notification{UserID: "user-1"}) {
			dropped = true
		}
	}
	assert.True(t, dropped)
}

func TestRelay_NewRegistrationReplacesOld(t *testing.T) {
	relay := services.NewNotificationRelay()
	old := relay.Register("user-1")
	fresh := relay.Register("user-1")

	// The replaced channel is closed so its consumer disconnects.
	_, open := <-old
	assert.False(t, open)

	require.True(t, relay.Push(domain.Notification{ID: 2, UserID: "user-1"}))
	n := <-fresh
	assert.Equal(t, int64(2), n.ID)
}

func TestRelay_StaleDeregisterIsNoOp(t *testing.T) {
	relay := services.NewNotificationRelay()
	old := relay.Register("user-1")
	fresh := relay.Register("user-1")

	// The old consumer disconnects after being replaced; its deregister must
	// not tear down the fresh channel.
	relay.Deregister("user-1", old)

	require.True(t, relay.Push(domain.Notification{ID: 3, UserID: "user-1"}))
	n := <-fresh
	assert.Equal(t, int64(3), n.ID)
}

func TestRelay_DeregisterClosesChannel(t *testing.T) {
	relay := services.NewNotificationRelay()
	ch := relay.Register("user-1")

	relay.Deregister("user-1", ch)

	_, open := <-ch
	assert.False(t, open)
	assert.False(t, relay.Push(domain.Notification{UserID: "user-1"}))
}
