package events

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-admin/internal/application/ports"
)

func receive(t *testing.T, ch <-chan ports.ReloadEvent) ports.ReloadEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "canal cerrado")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no llegó el evento")
		return ports.ReloadEvent{}
	}
}

func TestLocalBus_SoloLaVistaSuscrita(t *testing.T) {
	bus := NewLocalBus()
	ctx := context.Background()

	stock, cancelStock, err := bus.Subscribe(ctx, ports.ViewStock)
	require.NoError(t, err)
	defer cancelStock()
	history, cancelHistory, err := bus.Subscribe(ctx, ports.ViewHistory)
	require.NoError(t, err)
	defer cancelHistory()

	require.NoError(t, bus.Publish(ctx, ports.ReloadEvent{View: ports.ViewStock, Reason: "inventory-confirmed", EntityID: 9}))

	ev := receive(t, stock)
	assert.Equal(t, int64(9), ev.EntityID)
	assert.False(t, ev.At.IsZero())
	select {
	case <-history:
		t.Fatal("la vista de historial no debía recibir el evento")
	default:
	}
}

func TestLocalBus_CancelLiberaSuscripcion(t *testing.T) {
	bus := NewLocalBus()
	ctx, cancelCtx := context.WithCancel(context.Background())

	ch, cancel, err := bus.Subscribe(ctx, ports.ViewHistory)
	require.NoError(t, err)
	assert.Equal(t, 1, bus.Subscribers(ports.ViewHistory))

	cancel()
	cancel()
	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, bus.Subscribers(ports.ViewHistory))

	_, _, err = bus.Subscribe(ctx, ports.ViewHistory)
	require.NoError(t, err)
	cancelCtx()
	assert.Eventually(t, func() bool { return bus.Subscribers(ports.ViewHistory) == 0 }, time.Second, 10*time.Millisecond)
}

func TestLocalBus_SuscriptorLentoNoBloquea(t *testing.T) {
	bus := NewLocalBus()
	ctx := context.Background()
	_, cancel, err := bus.Subscribe(ctx, ports.ViewStock)
	require.NoError(t, err)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*3; i++ {
			_ = bus.Publish(ctx, ports.ReloadEvent{View: ports.ViewStock})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish se bloqueó")
	}
}

func TestRedisBus_PublicaYRecibe(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	bus := NewRedisBus(client, nil)
	ctx := context.Background()

	ch, cancel, err := bus.Subscribe(ctx, ports.ViewSupplierOrders)
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, bus.Publish(ctx, ports.ReloadEvent{View: ports.ViewSupplierOrders, Reason: "order-created", EntityID: 44}))

	ev := receive(t, ch)
	assert.Equal(t, ports.ViewSupplierOrders, ev.View)
	assert.Equal(t, "order-created", ev.Reason)
	assert.Equal(t, int64(44), ev.EntityID)
}
