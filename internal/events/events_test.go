package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus(t *testing.T) {
	bus := NewBus()
	got := make(chan CollectionEvent, 2)

	bus.On(func(ctx context.Context, e CollectionEvent) { panic("boom") })
	bus.On(func(ctx context.Context, e CollectionEvent) { got <- e })

	e := NewCollectionEvent("news", OpSave, "remote", 3)
	require.NotEmpty(t, e.ID)
	bus.Emit(e)

	select {
	case received := <-got:
		assert.Equal(t, e.ID, received.ID)
		assert.Equal(t, 3, received.Count)
	case <-time.After(2 * time.Second):
		t.Fatal("Handler không nhận được sự kiện")
	}
}

func TestNilBus(t *testing.T) {
	var bus *Bus
	assert.NotPanics(t, func() { bus.Emit(NewCollectionEvent("bank", OpDelete, "remote", 0)) })
}
