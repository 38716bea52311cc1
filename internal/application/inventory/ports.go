package inventory

import (
	"context"

	"github.com/jhoicas/inventario-admin/internal/domain/entity"
)

// TransactionSource lectura de transacciones (subconjunto de ports.InventoryBackend).
type TransactionSource interface {
	ListTransactions(ctx context.Context) ([]entity.MovementRecord, error)
	ListProductTransactions(ctx context.Context, productID int64) ([]entity.MovementRecord, error)
}

// AggregateSource lectura de los agregados autoritativos que respaldan una fila del historial.
type AggregateSource interface {
	GetSale(ctx context.Context, saleID int64) (*entity.Sale, error)
	GetDelivery(ctx context.Context, deliveryID int64) (*entity.Delivery, error)
	GetInventory(ctx context.Context, inventoryID int64) (*entity.Inventory, error)
	ListProductTransactions(ctx context.Context, productID int64) ([]entity.MovementRecord, error)
}

// InventoryCommands acciones sobre registros de inventario.
type InventoryCommands interface {
	ConfirmInventory(ctx context.Context, inventoryID int64) error
	DeleteInventory(ctx context.Context, inventoryID int64) error
}

// StockSource proyecciones de stock por bodega y por sucursal.
type StockSource interface {
	ListWarehouseStock(ctx context.Context, productID int64) ([]entity.WarehouseStock, error)
	ListBranchStock(ctx context.Context, productID int64) ([]entity.BranchStock, error)
}

// HistoryExporter genera el archivo descargable del historial filtrado.
type HistoryExporter interface {
	HistoryWorkbook(rows []entity.MovementRecord) ([]byte, error)
}
