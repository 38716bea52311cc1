package entity

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-admin/internal/domain/datetime"
)

// Estados globales de una orden a proveedor.
const (
	OrderStatusPending = "PENDING"
	OrderStatusOK      = "OK"
	OrderStatusDone    = "DONE"
)

// Number valor numérico tolerante del formulario: null, "", o texto no numérico valen 0.
type Number struct {
	decimal.Decimal
}

// NewNumber construye un Number desde un entero.
func NewNumber(v int64) Number {
	return Number{decimal.NewFromInt(v)}
}

// UnmarshalJSON nunca falla: lo que no es un número se toma como cero.
func (n *Number) UnmarshalJSON(data []byte) error {
	n.Decimal = decimal.Zero
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	s := string(data)
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return nil
		}
		s = strings.TrimSpace(str)
	}
	if d, err := decimal.NewFromString(s); err == nil {
		n.Decimal = d
	}
	return nil
}

// MarshalJSON emite el número sin comillas.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.Decimal.String()), nil
}

// OrderItem fila de producto en la orden. Un producto no puede repetirse entre filas.
type OrderItem struct {
	ID          int64  `json:"id,omitempty"`
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName,omitempty"`
	Quantity    Number `json:"quantity"`
}

// PaymentInstruction instrucción de pago (de la orden o de una entrega).
type PaymentInstruction struct {
	ID          int64          `json:"id,omitempty"`
	Instruction string         `json:"instruction"`
	Amount      Number         `json:"amount"`
	PaymentDate datetime.Value `json:"paymentDate"`
}

// SupplierDelivery entrega parcial de la orden con sus propios pagos (flete, descargue...).
type SupplierDelivery struct {
	ID                  int64                `json:"id,omitempty"`
	DeliveryDate        datetime.Value       `json:"deliveryDate"`
	Remarks             string               `json:"remarks,omitempty"`
	PaymentInstructions []PaymentInstruction `json:"paymentInstructions"`
}

// SupplierOrder orden de compra a proveedor. Los totales se derivan; nunca se guardan.
type SupplierOrder struct {
	ID                  int64                `json:"id,omitempty"`
	SupplierName        string               `json:"supplierName"`
	OrderNumber         string               `json:"orderNumber"`
	OrderDate           datetime.Value       `json:"orderDate"`
	OverallStatus       string               `json:"overallStatus"`
	Remarks             string               `json:"remarks,omitempty"`
	OrderItems          []OrderItem          `json:"orderItems"`
	PaymentInstructions []PaymentInstruction `json:"paymentInstructions"`
	Deliveries          []SupplierDelivery   `json:"deliveries"`
}
