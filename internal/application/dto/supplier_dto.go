package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-admin/internal/domain/entity"
)

// SupplierOrderRequest body para POST/PUT /api/supplier-orders y para el recálculo de totales.
// Montos y cantidades aceptan número, texto o null (lo no numérico vale 0).
type SupplierOrderRequest struct {
	SupplierName        string                      `json:"supplier_name" validate:"required,max=200"`
	OrderNumber         string                      `json:"order_number" validate:"required,max=100"`
	OrderDate           string                      `json:"order_date,omitempty"`
	OverallStatus       string                      `json:"overall_status,omitempty" validate:"omitempty,oneof=PENDING OK DONE"`
	Remarks             string                      `json:"remarks,omitempty"`
	OrderItems          []OrderItemRequest          `json:"order_items" validate:"dive"`
	PaymentInstructions []PaymentInstructionRequest `json:"payment_instructions" validate:"dive"`
	Deliveries          []SupplierDeliveryRequest   `json:"deliveries" validate:"dive"`
}

// OrderItemRequest fila de producto.
type OrderItemRequest struct {
	ID          int64         `json:"id,omitempty"`
	ProductID   int64         `json:"product_id" validate:"required,gt=0"`
	ProductName string        `json:"product_name,omitempty"`
	Quantity    entity.Number `json:"quantity"`
}

// PaymentInstructionRequest instrucción de pago.
type PaymentInstructionRequest struct {
	ID          int64         `json:"id,omitempty"`
	Instruction string        `json:"instruction" validate:"max=500"`
	Amount      entity.Number `json:"amount"`
	PaymentDate string        `json:"payment_date,omitempty"`
}

// SupplierDeliveryRequest entrega parcial con sus propios pagos.
type SupplierDeliveryRequest struct {
	ID                  int64                       `json:"id,omitempty"`
	DeliveryDate        string                      `json:"delivery_date,omitempty"`
	Remarks             string                      `json:"remarks,omitempty"`
	PaymentInstructions []PaymentInstructionRequest `json:"payment_instructions" validate:"dive"`
}

// OrderTotalsDTO valores derivados (no almacenados).
type OrderTotalsDTO struct {
	PaymentTotal  decimal.Decimal `json:"payment_total"`
	DeliveryTotal decimal.Decimal `json:"delivery_total"`
	OverallTotal  decimal.Decimal `json:"overall_total"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
}

// SupplierOrderResponse pedido con totales calculados.
type SupplierOrderResponse struct {
	ID                  int64                   `json:"id"`
	SupplierName        string                  `json:"supplier_name"`
	OrderNumber         string                  `json:"order_number"`
	OrderDate           *time.Time              `json:"order_date"`
	OverallStatus       string                  `json:"overall_status"`
	Remarks             string                  `json:"remarks,omitempty"`
	OrderItems          []OrderItemResponse     `json:"order_items"`
	PaymentInstructions []PaymentInstructionDTO `json:"payment_instructions"`
	Deliveries          []SupplierDeliveryDTO   `json:"deliveries"`
	Totals              OrderTotalsDTO          `json:"totals"`
}

// OrderItemResponse fila de producto en la respuesta.
type OrderItemResponse struct {
	ID          int64           `json:"id,omitempty"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// PaymentInstructionDTO instrucción de pago en la respuesta.
type PaymentInstructionDTO struct {
	ID          int64           `json:"id,omitempty"`
	Instruction string          `json:"instruction"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate *time.Time      `json:"payment_date"`
}

// SupplierDeliveryDTO entrega en la respuesta.
type SupplierDeliveryDTO struct {
	ID                  int64                   `json:"id,omitempty"`
	DeliveryDate        *time.Time              `json:"delivery_date"`
	Remarks             string                  `json:"remarks,omitempty"`
	PaymentInstructions []PaymentInstructionDTO `json:"payment_instructions"`
}

// ProductOptionsRequest opciones de producto para la fila editingIndex (-1 = fila nueva).
type ProductOptionsRequest struct {
	SupplierName string             `json:"supplier_name" validate:"required"`
	OrderItems   []OrderItemRequest `json:"order_items"`
	EditingIndex int                `json:"editing_index" validate:"min=-1"`
}

// ProductOptionDTO producto elegible.
type ProductOptionDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	SKU  string `json:"sku,omitempty"`
}
