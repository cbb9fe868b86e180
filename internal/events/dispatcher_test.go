package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishFansOutInOrder(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	var order []string
	d.Subscribe(func(Event) { order = append(order, "navbar") })
	d.Subscribe(func(Event) { order = append(order, "tickets") })

	d.Publish(NewSessionChanged(ReasonLogin, time.Now()))

	assert.Equal(t, []string{"navbar", "tickets"}, order)
}

func TestLateSubscriberMissesEarlierEvents(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	d.Publish(NewSessionChanged(ReasonLogin, time.Now()))

	var got []Reason
	d.Subscribe(func(e Event) { got = append(got, e.Reason) })
	d.Publish(NewSessionChanged(ReasonLogout, time.Now()))

	assert.Equal(t, []Reason{ReasonLogout}, got)
}

func TestUnsubscribe(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	calls := 0
	unsubscribe := d.Subscribe(func(Event) { calls++ })
	other := 0
	d.Subscribe(func(Event) { other++ })

	d.Publish(NewSessionChanged(ReasonLogin, time.Now()))
	unsubscribe()
	unsubscribe()
	d.Publish(NewSessionChanged(ReasonLogout, time.Now()))

	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, other)
}

func TestPanickingListenerDoesNotStopFanOut(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	reached := false
	d.Subscribe(func(Event) { panic("view crashed") })
	d.Subscribe(func(Event) { reached = true })

	require.NotPanics(t, func() {
		d.Publish(NewSessionChanged(ReasonExpired, time.Now()))
	})
	assert.True(t, reached)
}

func TestNoDeduplication(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	var ids []string
	d.Subscribe(func(e Event) { ids = append(ids, e.ID) })

	d.Publish(NewSessionChanged(ReasonLogout, time.Now()))
	d.Publish(NewSessionChanged(ReasonLogout, time.Now()))

	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])
}

func TestListenerMaySubscribeDuringPublish(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	late := 0
	d.Subscribe(func(Event) {
		d.Subscribe(func(Event) { late++ })
	})

	d.Publish(NewSessionChanged(ReasonLogin, time.Now()))
	assert.Zero(t, late)
}
