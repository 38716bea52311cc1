package ports

import (
	"context"
	"time"
)

// Vistas que pueden pedir recarga tras una acción confirmada.
const (
	ViewHistory        = "history"
	ViewStock          = "stock"
	ViewSupplierOrders = "supplier-orders"
	ViewCatalog        = "catalog"
)

// ReloadEvent aviso de que una vista debe volver a consultar sus datos.
type ReloadEvent struct {
	View     string    `json:"view"`
	Reason   string    `json:"reason"`
	EntityID int64     `json:"entityId,omitempty"`
	At       time.Time `json:"at"`
}

// ReloadPublisher canal de recarga con alcance por vista. Reemplaza el gancho global que
// usaba un modal para refrescar la pantalla que lo abrió.
type ReloadPublisher interface {
	Publish(ctx context.Context, ev ReloadEvent) error
}

// ReloadBus publica y permite suscribirse a una vista. cancel libera la suscripción.
type ReloadBus interface {
	ReloadPublisher
	Subscribe(ctx context.Context, view string) (events <-chan ReloadEvent, cancel func(), err error)
}
