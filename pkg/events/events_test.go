package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesSubscribers(t *testing.T) {
	b := NewBroker()
	b.Start()
	defer b.Stop()

	sub := b.Subscribe()
	defer b.Unsubscribe(sub)

	b.Emit(EventScenarioStarted, "starting", map[string]string{"run_uuid": "run-1"})

	select {
	case ev := <-sub:
		assert.Equal(t, EventScenarioStarted, ev.Type)
		assert.Equal(t, "starting", ev.Message)
		assert.Equal(t, "run-1", ev.Metadata["run_uuid"])
		assert.False(t, ev.Timestamp.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("event never delivered")
	}
}

func TestMultipleSubscribers(t *testing.T) {
	b := NewBroker()
	b.Start()
	defer b.Stop()

	subA := b.Subscribe()
	subB := b.Subscribe()
	require.Equal(t, 2, b.SubscriberCount())

	b.Emit(EventRollbackExecuted, "", nil)

	for _, sub := range []Subscriber{subA, subB} {
		select {
		case ev := <-sub:
			assert.Equal(t, EventRollbackExecuted, ev.Type)
		case <-time.After(2 * time.Second):
			t.Fatal("event never delivered")
		}
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker()
	b.Start()
	defer b.Stop()

	sub := b.Subscribe()
	b.Unsubscribe(sub)
	assert.Equal(t, 0, b.SubscriberCount())

	_, open := <-sub
	assert.False(t, open)
}
