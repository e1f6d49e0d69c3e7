package remote

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalBrokerFanOutAndUnsubscribe(t *testing.T) {
	b := NewLocalBroker()
	var first, second int
	unsubFirst := b.Subscribe(func(ChangeEvent) { first++ })
	b.Subscribe(func(ChangeEvent) { second++ })

	ev := ChangeEvent{Table: TableUnits, Kind: ChangeUpdate, ID: "u1"}
	assert.NoError(t, b.Publish(context.Background(), ev))

	unsubFirst()
	unsubFirst()
	assert.NoError(t, b.Publish(context.Background(), ev))

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestLocalBrokerClose(t *testing.T) {
	b := NewLocalBroker()
	called := false
	b.Subscribe(func(ChangeEvent) { called = true })

	assert.NoError(t, b.Close())
	assert.NoError(t, b.Publish(context.Background(), ChangeEvent{}))
	assert.False(t, called)
}

func TestNewRedisBrokerRejectsBadURL(t *testing.T) {
	_, err := NewRedisBroker("not a url", "changes")
	assert.Error(t, err)
}
