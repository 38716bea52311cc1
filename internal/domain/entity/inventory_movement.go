package entity

import (
	"github.com/jhoicas/inventario-admin/internal/domain/datetime"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeStockIn  = "STOCK_IN" // entrada
	MovementTypeTransfer = "TRANSFER" // traslado entre bodegas/sucursales
	MovementTypeReturn   = "RETURN"   // devolución
	MovementTypeDamage   = "DAMAGE"   // daño / merma
	MovementTypeDelivery = "DELIVERY" // entrega bodega → sucursal
	MovementTypeSale     = "SALE"     // venta facturada
)

// Efecto del movimiento sobre la cantidad en una ubicación.
const (
	ActionAdd      = "ADD"
	ActionSubtract = "SUBTRACT"
	ActionReserve  = "RESERVE"
	ActionRelease  = "RELEASE"
	ActionInvoiced = "INVOICED"
	ActionDeleted  = "DELETED"

	// Solo en ítems sintéticos reconstruidos desde agregados.
	ActionDelivery = "DELIVERY"
	ActionProcess  = "PROCESS"
)

// ProductRef producto embebido en un movimiento.
type ProductRef struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// MovementRecord ("transacción") es la entidad unificadora: un evento que afecta stock
// en una o dos ubicaciones. Quantity es siempre magnitud; el signo lo da Action.
//
// Los ids de filas derivadas de entregas y ventas llegan desplazados (+1.000.000 y +2.000.000);
// ver movement.DecodeID.
type MovementRecord struct {
	ID              int64       `json:"id"`
	MovementType    string      `json:"movementType,omitempty"`
	TransactionType string      `json:"transactionType,omitempty"`
	InventoryType   string      `json:"inventoryType,omitempty"`
	Action          string      `json:"action,omitempty"`
	Quantity        int64       `json:"quantity"`
	ProductID       int64       `json:"productId,omitempty"`
	ProductName     string      `json:"productName,omitempty"`
	Product         *ProductRef `json:"product,omitempty"`

	FromWarehouse *LocationRef `json:"fromWarehouse,omitempty"`
	FromBranch    *LocationRef `json:"fromBranch,omitempty"`
	ToWarehouse   *LocationRef `json:"toWarehouse,omitempty"`
	ToBranch      *LocationRef `json:"toBranch,omitempty"`

	ReferenceNumber string `json:"referenceNumber,omitempty"`
	ReferenceID     *int64 `json:"referenceId,omitempty"`

	TransactionDate      datetime.Value `json:"transactionDate"`
	VerificationDateTime datetime.Value `json:"verificationDateTime"`
	InvoicedAt           datetime.Value `json:"invoicedAt"`
	DeliveredAt          datetime.Value `json:"deliveredAt"`
	Date                 datetime.Value `json:"date"`
	CreatedAt            datetime.Value `json:"createdAt"`

	Remarks   string         `json:"remarks,omitempty"`
	Status    string         `json:"status,omitempty"`
	IsDeleted bool           `json:"isDeleted,omitempty"`
	DeletedAt datetime.Value `json:"deletedAt"`

	// Subtransacciones correlacionadas (solo en ítems sintéticos).
	StatusHistory []MovementRecord `json:"statusHistory,omitempty"`

	// Marcas de versión calculadas por movement.Group; nunca vienen del backend.
	IsLatestVersion   bool `json:"isLatestVersion,omitempty"`
	HasHistory        bool `json:"hasHistory,omitempty"`
	VersionCount      int  `json:"versionCount,omitempty"`
	IsPreviousVersion bool `json:"isPreviousVersion,omitempty"`
	IsOriginal        bool `json:"isOriginal,omitempty"`
}

// Type devuelve movementType o, en su defecto, el alias transactionType.
func (m *MovementRecord) Type() string {
	if m.MovementType != "" {
		return m.MovementType
	}
	return m.TransactionType
}

// ProductLabel nombre del producto desde el campo plano o el objeto embebido.
func (m *MovementRecord) ProductLabel() string {
	if m.ProductName != "" {
		return m.ProductName
	}
	if m.Product != nil {
		return m.Product.Name
	}
	return ""
}

// ProductKey id del producto desde el campo plano o el objeto embebido.
func (m *MovementRecord) ProductKey() int64 {
	if m.ProductID != 0 {
		return m.ProductID
	}
	if m.Product != nil {
		return m.Product.ID
	}
	return 0
}

// HasSource indica si hay bodega o sucursal de origen.
func (m *MovementRecord) HasSource() bool {
	return Present(m.FromWarehouse) || Present(m.FromBranch)
}

// HasDestination indica si hay bodega o sucursal de destino.
func (m *MovementRecord) HasDestination() bool {
	return Present(m.ToWarehouse) || Present(m.ToBranch)
}

// Deleted: marca de borrado lógico o acción DELETED.
func (m *MovementRecord) Deleted() bool {
	return m.IsDeleted || m.Action == ActionDeleted
}
