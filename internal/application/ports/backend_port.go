package ports

import (
	"context"

	"github.com/jhoicas/inventario-admin/internal/domain/entity"
)

// InventoryBackend puerto de salida hacia la API REST de inventario (colaborador externo).
// El backend es la única fuente de verdad: aquí solo se lee, se confirma y se borra.
//
// Contrato de errores de cualquier implementación:
//   - listados con success=false o falla de transporte → domain.ErrBackendUnavailable
//   - entidad individual con success=false o 404 → domain.ErrEntityGone
type InventoryBackend interface {
	// Tabla unificada de transacciones (inventarios + entregas + ventas con ids desplazados).
	ListTransactions(ctx context.Context) ([]entity.MovementRecord, error)
	// Log de transacciones de un producto.
	ListProductTransactions(ctx context.Context, productID int64) ([]entity.MovementRecord, error)

	GetSale(ctx context.Context, saleID int64) (*entity.Sale, error)
	GetDelivery(ctx context.Context, deliveryID int64) (*entity.Delivery, error)
	GetInventory(ctx context.Context, inventoryID int64) (*entity.Inventory, error)

	ConfirmInventory(ctx context.Context, inventoryID int64) error
	// DeleteInventory borrado permanente de un registro ya eliminado lógicamente.
	DeleteInventory(ctx context.Context, inventoryID int64) error

	// productID 0 = todos los productos.
	ListWarehouseStock(ctx context.Context, productID int64) ([]entity.WarehouseStock, error)
	ListBranchStock(ctx context.Context, productID int64) ([]entity.BranchStock, error)

	ListProducts(ctx context.Context) ([]entity.Product, error)

	ListSupplierOrders(ctx context.Context) ([]entity.SupplierOrder, error)
	GetSupplierOrder(ctx context.Context, id int64) (*entity.SupplierOrder, error)
	CreateSupplierOrder(ctx context.Context, order *entity.SupplierOrder) (*entity.SupplierOrder, error)
	UpdateSupplierOrder(ctx context.Context, id int64, order *entity.SupplierOrder) (*entity.SupplierOrder, error)
	DeleteSupplierOrder(ctx context.Context, id int64) error
}

type tokenKey struct{}

// WithToken adjunta el bearer token del operador para reenviarlo al backend.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom devuelve el token adjuntado con WithToken ("" si no hay).
func TokenFrom(ctx context.Context) string {
	s, _ := ctx.Value(tokenKey{}).(string)
	return s
}
