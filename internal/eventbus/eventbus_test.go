package eventbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	defer b.Close()
	sub := b.Subscribe()

	b.Publish(Event{Type: CycleStarted, CycleID: "c1", Trigger: "move_reminder"})

	select {
	case e := <-sub:
		assert.Equal(t, CycleStarted, e.Type)
		assert.Equal(t, "c1", e.CycleID)
		assert.Equal(t, "move_reminder", e.Trigger)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestPublish_FansOut(t *testing.T) {
	b := New()
	defer b.Close()
	a := b.Subscribe()
	c := b.Subscribe()

	b.Publish(Event{Type: NotificationSent, Kind: "weekly_summary", Success: true})

	for _, sub := range []<-chan Event{a, c} {
		select {
		case e := <-sub:
			assert.Equal(t, NotificationSent, e.Type)
		case <-time.After(time.Second):
			t.Fatal("event not delivered to all subscribers")
		}
	}
}

func TestPublish_DropsWhenSubscriberFull(t *testing.T) {
	b := New()
	defer b.Close()
	sub := b.Subscribe()

	// fill the buffer and then some; Publish must never block
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish(Event{Type: CycleCompleted})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
	assert.Len(t, sub, 16)
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	defer b.Close()
	sub := b.Subscribe()
	b.Unsubscribe(sub)

	_, open := <-sub
	assert.False(t, open)

	// publishing after unsubscribe must not panic
	b.Publish(Event{Type: CycleStarted})
}

func TestClose(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	b.Close()

	_, open := <-sub
	assert.False(t, open)

	b.Publish(Event{Type: CycleStarted})
	b.Close()

	late := b.Subscribe()
	_, open = <-late
	require.False(t, open)
}
