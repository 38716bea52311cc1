package entity

import (
	"bytes"
	"encoding/json"

	"github.com/jhoicas/inventario-admin/internal/domain/datetime"
)

// ItemList lista de ítems de un agregado. Valid=false cuando el campo falta o no es un
// arreglo; el llamador decide si eso es un error de contrato.
type ItemList[T any] struct {
	Items []T
	Valid bool
}

// UnmarshalJSON solo acepta arreglos; cualquier otra forma deja Valid=false.
func (l *ItemList[T]) UnmarshalJSON(data []byte) error {
	*l = ItemList[T]{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	l.Items, l.Valid = items, true
	return nil
}

// MarshalJSON emite el arreglo (o null si no es válido).
func (l ItemList[T]) MarshalJSON() ([]byte, error) {
	if !l.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(l.Items)
}

// NewItemList construye una lista válida.
func NewItemList[T any](items ...T) ItemList[T] {
	return ItemList[T]{Items: items, Valid: true}
}

// ── Venta ─────────────────────────────────────────────────────────────────────

// SaleItem línea de una venta.
type SaleItem struct {
	ID          int64        `json:"id"`
	ProductID   int64        `json:"productId"`
	ProductName string       `json:"productName,omitempty"`
	Quantity    int64        `json:"quantity"`
	Warehouse   *LocationRef `json:"warehouse,omitempty"`
}

// Sale agregado de venta tal como lo devuelve GET /sales/{id}.
type Sale struct {
	ID           int64              `json:"id"`
	SaleNumber   string             `json:"saleNumber,omitempty"`
	CustomerName string             `json:"customerName,omitempty"`
	Branch       *LocationRef       `json:"branch,omitempty"`
	Status       string             `json:"status,omitempty"`
	InvoicedAt   datetime.Value     `json:"invoicedAt"`
	CreatedAt    datetime.Value     `json:"createdAt"`
	Remarks      string             `json:"remarks,omitempty"`
	Items        ItemList[SaleItem] `json:"items"`
}

// ── Entrega ───────────────────────────────────────────────────────────────────

// DeliveryItem línea de una entrega; cada ítem sale de su propia bodega.
type DeliveryItem struct {
	ID          int64        `json:"id"`
	ProductID   int64        `json:"productId"`
	ProductName string       `json:"productName,omitempty"`
	Quantity    int64        `json:"quantity"`
	Warehouse   *LocationRef `json:"warehouse,omitempty"`
}

// Delivery agregado de entrega bodega → sucursal (GET /deliveries/{id}).
type Delivery struct {
	ID                    int64                  `json:"id"`
	DeliveryReceiptNumber string                 `json:"deliveryReceiptNumber,omitempty"`
	Branch                *LocationRef           `json:"branch,omitempty"`
	Status                string                 `json:"status,omitempty"`
	DeliveredAt           datetime.Value         `json:"deliveredAt"`
	Date                  datetime.Value         `json:"date"`
	CreatedAt             datetime.Value         `json:"createdAt"`
	Remarks               string                 `json:"remarks,omitempty"`
	Items                 ItemList[DeliveryItem] `json:"items"`
}

// ── Inventario ────────────────────────────────────────────────────────────────

// InventoryItem línea de un registro de inventario (entrada, traslado, devolución, daño).
type InventoryItem struct {
	ID            int64        `json:"id"`
	ProductID     int64        `json:"productId"`
	ProductName   string       `json:"productName,omitempty"`
	Quantity      int64        `json:"quantity"`
	Action        string       `json:"action,omitempty"`
	FromWarehouse *LocationRef `json:"fromWarehouse,omitempty"`
	FromBranch    *LocationRef `json:"fromBranch,omitempty"`
	ToWarehouse   *LocationRef `json:"toWarehouse,omitempty"`
	ToBranch      *LocationRef `json:"toBranch,omitempty"`
}

// Inventory agregado de inventario (GET /inventories/{id}).
type Inventory struct {
	ID                   int64                   `json:"id"`
	InventoryType        string                  `json:"inventoryType"`
	ReferenceNumber      string                  `json:"referenceNumber,omitempty"`
	Status               string                  `json:"status,omitempty"`
	FromWarehouse        *LocationRef            `json:"fromWarehouse,omitempty"`
	FromBranch           *LocationRef            `json:"fromBranch,omitempty"`
	ToWarehouse          *LocationRef            `json:"toWarehouse,omitempty"`
	ToBranch             *LocationRef            `json:"toBranch,omitempty"`
	TransactionDate      datetime.Value          `json:"transactionDate"`
	VerificationDateTime datetime.Value          `json:"verificationDateTime"`
	CreatedAt            datetime.Value          `json:"createdAt"`
	Remarks              string                  `json:"remarks,omitempty"`
	Items                ItemList[InventoryItem] `json:"items"`
}
