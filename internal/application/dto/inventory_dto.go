package dto

import (
	"time"

	"github.com/jhoicas/inventario-admin/internal/domain/datetime"
)

// HistoryQuery filtros de GET /api/inventory/history (y export / historial por producto).
// Las fechas van como YYYY-MM-DD; end_date es inclusivo hasta el fin del día.
type HistoryQuery struct {
	Search       string `query:"search" validate:"max=200"`
	Type         string `query:"type" validate:"omitempty,oneof=ALL STOCK_IN TRANSFER TRANSFER_IN TRANSFER_OUT RETURN DAMAGE DELIVERY SALE"`
	DeletedState string `query:"deleted_state" validate:"omitempty,oneof=ALL ACTIVE DELETED"`
	StartDate    string `query:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate      string `query:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Page         int    `query:"page" validate:"min=0"`
	PageSize     int    `query:"page_size" validate:"min=0,max=200"`
}

// MovementRowDTO fila del historial ya clasificada para mostrar.
type MovementRowDTO struct {
	ID              int64      `json:"id"`
	ReferenceNumber string     `json:"reference_number"`
	ProductID       int64      `json:"product_id,omitempty"`
	ProductName     string     `json:"product_name"`
	EffectiveType   string     `json:"effective_type"`
	TypeLabel       string     `json:"type_label"`
	TypeColor       string     `json:"type_color"`
	Direction       string     `json:"direction,omitempty"`
	Action          string     `json:"action"`
	Quantity        int64      `json:"quantity"`
	QuantityPrefix  string     `json:"quantity_prefix"`
	QuantityColor   string     `json:"quantity_color"`
	From            string     `json:"from,omitempty"`
	To              string     `json:"to,omitempty"`
	Date            *time.Time `json:"date"`
	Status          string     `json:"status,omitempty"`
	Remarks         string     `json:"remarks,omitempty"`
	GeneratedBy     string     `json:"generated_by,omitempty"`
	SourceWarehouse string     `json:"source_warehouse,omitempty"`
	IsDeleted       bool       `json:"is_deleted"`

	IsLatestVersion   bool `json:"is_latest_version"`
	HasHistory        bool `json:"has_history"`
	VersionCount      int  `json:"version_count,omitempty"`
	IsPreviousVersion bool `json:"is_previous_version"`
	IsOriginal        bool `json:"is_original"`

	StatusHistory []MovementRowDTO `json:"status_history,omitempty"`
}

// HistoryResponse página del historial más el conteo de eliminados del filtro actual.
type HistoryResponse struct {
	Items        []MovementRowDTO `json:"items"`
	Page         int              `json:"page"`
	PageSize     int              `json:"page_size"`
	Total        int              `json:"total"`
	TotalPages   int              `json:"total_pages"`
	DeletedCount int              `json:"deleted_count"`
	CanPurge     bool             `json:"can_purge"`
}

// VersionsResponse historial de ediciones de una referencia, más nueva primero.
type VersionsResponse struct {
	Reference string           `json:"reference"`
	Versions  []MovementRowDTO `json:"versions"`
}

// PurgeSummary resultado del borrado permanente masivo.
type PurgeSummary struct {
	Requested int     `json:"requested"`
	Succeeded int     `json:"succeeded"`
	Failed    int     `json:"failed"`
	Skipped   int     `json:"skipped"`
	FailedIDs []int64 `json:"failed_ids,omitempty"`
}

// ResolveRequest fila de la tabla unificada cuyo detalle se quiere reconstruir.
// TransactionType es el alias de las filas que solo traen ese campo.
type ResolveRequest struct {
	ID              int64          `json:"id"`
	MovementType    string         `json:"movement_type,omitempty" validate:"required_without=TransactionType"`
	TransactionType string         `json:"transaction_type,omitempty"`
	ReferenceNumber string         `json:"reference_number,omitempty"`
	ReferenceID     *int64         `json:"reference_id,omitempty"`
	Remarks         string         `json:"remarks,omitempty"`
	TransactionDate datetime.Value `json:"transaction_date"`
}

// ResolveMetaDTO cabecera del detalle.
type ResolveMetaDTO struct {
	Domain          string     `json:"domain"`
	EntityID        int64      `json:"entity_id"`
	RowID           int64      `json:"row_id"`
	MovementType    string     `json:"movement_type"`
	TypeLabel       string     `json:"type_label"`
	TypeColor       string     `json:"type_color"`
	ReferenceNumber string     `json:"reference_number,omitempty"`
	Status          string     `json:"status,omitempty"`
	Date            *time.Time `json:"date"`
	Branch          string     `json:"branch,omitempty"`
	CustomerName    string     `json:"customer_name,omitempty"`
	Remarks         string     `json:"remarks,omitempty"`
	GeneratedBy     string     `json:"generated_by,omitempty"`
	SourceWarehouse string     `json:"source_warehouse,omitempty"`
}

// ResolveResponse detalle reconstruido de una fila.
type ResolveResponse struct {
	Meta          ResolveMetaDTO   `json:"meta"`
	LineItems     []MovementRowDTO `json:"line_items"`
	LogsRequested int              `json:"logs_requested"`
	LogsFailed    int              `json:"logs_failed"`
}

// StockQuery filtro opcional por producto.
type StockQuery struct {
	ProductID int64 `query:"product_id" validate:"min=0"`
}

// WarehouseStockDTO stock por bodega.
type WarehouseStockDTO struct {
	ProductID         int64      `json:"product_id"`
	ProductName       string     `json:"product_name,omitempty"`
	WarehouseID       int64      `json:"warehouse_id"`
	WarehouseName     string     `json:"warehouse_name,omitempty"`
	Quantity          int64      `json:"quantity"`
	AvailableQuantity int64      `json:"available_quantity"`
	ReservedQuantity  int64      `json:"reserved_quantity"`
	DeliveredQuantity int64      `json:"delivered_quantity"`
	LastUpdated       *time.Time `json:"last_updated"`
}

// BranchStockDTO stock por sucursal.
type BranchStockDTO struct {
	ProductID         int64      `json:"product_id"`
	ProductName       string     `json:"product_name,omitempty"`
	BranchID          int64      `json:"branch_id"`
	BranchName        string     `json:"branch_name,omitempty"`
	Quantity          int64      `json:"quantity"`
	AvailableQuantity int64      `json:"available_quantity"`
	PendingSales      int64      `json:"pending_sales"`
	TotalSales        int64      `json:"total_sales"`
	LastUpdated       *time.Time `json:"last_updated"`
}

// ConfirmInventoryResponse confirmación más el stock re-leído después de ella.
type ConfirmInventoryResponse struct {
	InventoryID    int64               `json:"inventory_id"`
	WarehouseStock []WarehouseStockDTO `json:"warehouse_stock"`
	BranchStock    []BranchStockDTO    `json:"branch_stock"`
}
