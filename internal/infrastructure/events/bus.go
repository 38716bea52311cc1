// Package events canal de recarga por vista: tras una acción confirmada, las pantallas
// suscritas a la vista afectada vuelven a consultar sus datos.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/inventario-admin/internal/application/ports"
)

const subscriberBuffer = 16

var _ ports.ReloadBus = (*LocalBus)(nil)

// LocalBus implementación en proceso (una sola instancia del servicio).
type LocalBus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]chan ports.ReloadEvent
}

// NewLocalBus crea el bus en memoria.
func NewLocalBus() *LocalBus {
	return &LocalBus{subs: make(map[string]map[int]chan ports.ReloadEvent)}
}

// Publish entrega el evento a los suscriptores de la vista. Un suscriptor lento pierde
// eventos en lugar de bloquear al publicador; una recarga posterior lo pone al día.
func (b *LocalBus) Publish(ctx context.Context, ev ports.ReloadEvent) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[ev.View] {
		select {
		case ch <- ev:
		default:
		}
	}
	return nil
}

// Subscribe se suscribe a una vista hasta que se llame cancel o termine ctx.
func (b *LocalBus) Subscribe(ctx context.Context, view string) (<-chan ports.ReloadEvent, func(), error) {
	ch := make(chan ports.ReloadEvent, subscriberBuffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	if b.subs[view] == nil {
		b.subs[view] = make(map[int]chan ports.ReloadEvent)
	}
	b.subs[view][id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[view], id)
			if len(b.subs[view]) == 0 {
				delete(b.subs, view)
			}
			b.mu.Unlock()
			close(ch)
		})
	}
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return ch, cancel, nil
}

// Subscribers cantidad de suscriptores activos de una vista.
func (b *LocalBus) Subscribers(view string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[view])
}
