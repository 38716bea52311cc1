package entity

import "github.com/jhoicas/inventario-admin/internal/domain/datetime"

// WarehouseStock proyección de solo lectura del stock de un producto en una bodega.
// La mantiene el backend; aquí nunca se modifica, solo se vuelve a consultar.
type WarehouseStock struct {
	ProductID         int64          `json:"productId"`
	ProductName       string         `json:"productName,omitempty"`
	WarehouseID       int64          `json:"warehouseId"`
	WarehouseName     string         `json:"warehouseName,omitempty"`
	Quantity          int64          `json:"quantity"`
	AvailableQuantity int64          `json:"availableQuantity"`
	ReservedQuantity  int64          `json:"reservedQuantity"`
	DeliveredQuantity int64          `json:"deliveredQuantity"`
	LastUpdated       datetime.Value `json:"lastUpdated"`
}

// BranchStock proyección de solo lectura del stock de un producto en una sucursal.
type BranchStock struct {
	ProductID         int64          `json:"productId"`
	ProductName       string         `json:"productName,omitempty"`
	BranchID          int64          `json:"branchId"`
	BranchName        string         `json:"branchName,omitempty"`
	Quantity          int64          `json:"quantity"`
	AvailableQuantity int64          `json:"availableQuantity"`
	PendingSales      int64          `json:"pendingSales"`
	TotalSales        int64          `json:"totalSales"`
	LastUpdated       datetime.Value `json:"lastUpdated"`
}
