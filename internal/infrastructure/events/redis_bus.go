package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-admin/internal/application/ports"
	"github.com/jhoicas/inventario-admin/pkg/logger"
)

const channelPrefix = "reload:"

var _ ports.ReloadBus = (*RedisBus)(nil)

// RedisBus canal de recarga sobre Redis pub/sub (varias instancias del servicio).
type RedisBus struct {
	client *redis.Client
	log    *logger.Logger
}

// NewRedisBus crea el bus.
func NewRedisBus(client *redis.Client, log *logger.Logger) *RedisBus {
	if log == nil {
		log = logger.Nop()
	}
	return &RedisBus{client: client, log: log.Component("events")}
}

func channelFor(view string) string { return channelPrefix + view }

// Publish serializa el evento y lo publica en "reload:<vista>".
func (b *RedisBus) Publish(ctx context.Context, ev ports.ReloadEvent) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("events: serializar: %w", err)
	}
	if err := b.client.Publish(ctx, channelFor(ev.View), raw).Err(); err != nil {
		return fmt.Errorf("events: publicar %s: %w", ev.View, err)
	}
	return nil
}

// Subscribe espera la confirmación de Redis antes de volver, así un Publish posterior
// nunca se pierde.
func (b *RedisBus) Subscribe(ctx context.Context, view string) (<-chan ports.ReloadEvent, func(), error) {
	pubsub := b.client.Subscribe(ctx, channelFor(view))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("events: suscribir %s: %w", view, err)
	}

	out := make(chan ports.ReloadEvent, subscriberBuffer)
	var once sync.Once
	cancel := func() {
		once.Do(func() { _ = pubsub.Close() })
	}

	go func() {
		defer close(out)
		defer cancel()
		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev ports.ReloadEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					b.log.Warn().Err(err).Str("channel", msg.Channel).Msg("evento de recarga ilegible")
					continue
				}
				select {
				case out <- ev:
				default:
				}
			}
		}
	}()
	return out, cancel, nil
}
