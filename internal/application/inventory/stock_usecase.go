package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-admin/internal/application/dto"
	"github.com/jhoicas/inventario-admin/internal/application/ports"
	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
	"github.com/jhoicas/inventario-admin/pkg/logger"
)

// StockUseCase proyecciones de stock (solo lectura) y confirmación de inventarios.
// El stock nunca se corrige localmente: tras cada acción se vuelve a leer del backend.
type StockUseCase struct {
	stock     StockSource
	commands  InventoryCommands
	publisher ports.ReloadPublisher
	log       *logger.Logger
}

// NewStockUseCase construye el caso de uso. publisher puede ser nil.
func NewStockUseCase(stock StockSource, commands InventoryCommands, publisher ports.ReloadPublisher, log *logger.Logger) *StockUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &StockUseCase{stock: stock, commands: commands, publisher: publisher, log: log.Component("stock")}
}

// WarehouseStock stock por bodega; productID 0 = todos.
func (uc *StockUseCase) WarehouseStock(ctx context.Context, productID int64) ([]dto.WarehouseStockDTO, error) {
	if productID < 0 {
		return nil, fmt.Errorf("%w: producto %d", domain.ErrInvalidInput, productID)
	}
	rows, err := uc.stock.ListWarehouseStock(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("listar stock por bodega: %w", err)
	}
	return toWarehouseStockDTOs(rows), nil
}

// BranchStock stock por sucursal; productID 0 = todos.
func (uc *StockUseCase) BranchStock(ctx context.Context, productID int64) ([]dto.BranchStockDTO, error) {
	if productID < 0 {
		return nil, fmt.Errorf("%w: producto %d", domain.ErrInvalidInput, productID)
	}
	rows, err := uc.stock.ListBranchStock(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("listar stock por sucursal: %w", err)
	}
	return toBranchStockDTOs(rows), nil
}

// ConfirmInventory confirma y luego, en este orden, vuelve a leer stock por bodega, stock
// por sucursal y avisa a las vistas de historial y stock. Si la confirmación falla no se
// lee nada; si una relectura falla la confirmación ya quedó hecha y se informa el error.
func (uc *StockUseCase) ConfirmInventory(ctx context.Context, inventoryID int64) (*dto.ConfirmInventoryResponse, error) {
	if inventoryID <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidInventoryID, inventoryID)
	}
	if err := uc.commands.ConfirmInventory(ctx, inventoryID); err != nil {
		return nil, fmt.Errorf("confirmar inventario %d: %w", inventoryID, err)
	}
	uc.log.Info().Int64("inventory_id", inventoryID).Msg("inventario confirmado")

	warehouse, err := uc.stock.ListWarehouseStock(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("releer stock por bodega tras confirmar %d: %w", inventoryID, err)
	}
	branch, err := uc.stock.ListBranchStock(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("releer stock por sucursal tras confirmar %d: %w", inventoryID, err)
	}

	now := time.Now().UTC()
	for _, view := range []string{ports.ViewHistory, ports.ViewStock} {
		uc.notify(ctx, ports.ReloadEvent{View: view, Reason: "inventory-confirmed", EntityID: inventoryID, At: now})
	}
	return &dto.ConfirmInventoryResponse{
		InventoryID:    inventoryID,
		WarehouseStock: toWarehouseStockDTOs(warehouse),
		BranchStock:    toBranchStockDTOs(branch),
	}, nil
}

func (uc *StockUseCase) notify(ctx context.Context, ev ports.ReloadEvent) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(ctx, ev); err != nil {
		uc.log.Warn().Err(err).Str("view", ev.View).Msg("no se pudo publicar recarga")
	}
}

func toWarehouseStockDTOs(rows []entity.WarehouseStock) []dto.WarehouseStockDTO {
	out := make([]dto.WarehouseStockDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.WarehouseStockDTO{
			ProductID:         r.ProductID,
			ProductName:       r.ProductName,
			WarehouseID:       r.WarehouseID,
			WarehouseName:     r.WarehouseName,
			Quantity:          r.Quantity,
			AvailableQuantity: r.AvailableQuantity,
			ReservedQuantity:  r.ReservedQuantity,
			DeliveredQuantity: r.DeliveredQuantity,
			LastUpdated:       r.LastUpdated.Ptr(),
		})
	}
	return out
}

func toBranchStockDTOs(rows []entity.BranchStock) []dto.BranchStockDTO {
	out := make([]dto.BranchStockDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.BranchStockDTO{
			ProductID:         r.ProductID,
			ProductName:       r.ProductName,
			BranchID:          r.BranchID,
			BranchName:        r.BranchName,
			Quantity:          r.Quantity,
			AvailableQuantity: r.AvailableQuantity,
			PendingSales:      r.PendingSales,
			TotalSales:        r.TotalSales,
			LastUpdated:       r.LastUpdated.Ptr(),
		})
	}
	return out
}
