// Package supplier casos de uso de órdenes a proveedor: CRUD contra el backend, totales
// derivados, opciones de producto por fila y resumen PDF.
package supplier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/inventario-admin/internal/application/dto"
	"github.com/jhoicas/inventario-admin/internal/application/ports"
	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
	"github.com/jhoicas/inventario-admin/internal/domain/inventory"
	"github.com/jhoicas/inventario-admin/pkg/logger"
)

// Backend subconjunto de ports.InventoryBackend que usa este paquete.
type Backend interface {
	ListSupplierOrders(ctx context.Context) ([]entity.SupplierOrder, error)
	GetSupplierOrder(ctx context.Context, id int64) (*entity.SupplierOrder, error)
	CreateSupplierOrder(ctx context.Context, order *entity.SupplierOrder) (*entity.SupplierOrder, error)
	UpdateSupplierOrder(ctx context.Context, id int64, order *entity.SupplierOrder) (*entity.SupplierOrder, error)
	DeleteSupplierOrder(ctx context.Context, id int64) error
	ListProducts(ctx context.Context) ([]entity.Product, error)
}

// Catalog caché del catálogo de productos.
type Catalog interface {
	Key(ctx context.Context, parts ...string) (string, error)
	FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error
	Invalidate(ctx context.Context) error
}

// OrderRenderer genera el resumen imprimible de una orden.
type OrderRenderer interface {
	SupplierOrderPDF(order *entity.SupplierOrder, totals inventory.OrderTotals) ([]byte, error)
}

// UseCase órdenes a proveedor.
type UseCase struct {
	backend   Backend
	catalog   Catalog
	renderer  OrderRenderer
	publisher ports.ReloadPublisher
	log       *logger.Logger
}

// NewUseCase construye el caso de uso. catalog y publisher pueden ser nil.
func NewUseCase(backend Backend, catalog Catalog, renderer OrderRenderer, publisher ports.ReloadPublisher, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{backend: backend, catalog: catalog, renderer: renderer, publisher: publisher, log: log.Component("supplier")}
}

// List órdenes con sus totales.
func (uc *UseCase) List(ctx context.Context) ([]dto.SupplierOrderResponse, error) {
	orders, err := uc.backend.ListSupplierOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar órdenes a proveedor: %w", err)
	}
	out := make([]dto.SupplierOrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, ToResponse(&orders[i]))
	}
	return out, nil
}

// Get una orden con sus totales.
func (uc *UseCase) Get(ctx context.Context, id int64) (*dto.SupplierOrderResponse, error) {
	order, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	res := ToResponse(order)
	return &res, nil
}

// Create valida las filas contra el catálogo del proveedor y crea la orden.
func (uc *UseCase) Create(ctx context.Context, req dto.SupplierOrderRequest) (*dto.SupplierOrderResponse, error) {
	order := FromRequest(req)
	if err := uc.validateItems(ctx, order); err != nil {
		return nil, err
	}
	if order.OverallStatus == "" {
		order.OverallStatus = entity.OrderStatusPending
	}
	created, err := uc.backend.CreateSupplierOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("crear orden a proveedor: %w", err)
	}
	uc.notify(ctx, created.ID, "order-created")
	res := ToResponse(created)
	return &res, nil
}

// Update reemplaza la orden completa.
func (uc *UseCase) Update(ctx context.Context, id int64, req dto.SupplierOrderRequest) (*dto.SupplierOrderResponse, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: orden %d", domain.ErrInvalidInput, id)
	}
	order := FromRequest(req)
	order.ID = id
	if err := uc.validateItems(ctx, order); err != nil {
		return nil, err
	}
	updated, err := uc.backend.UpdateSupplierOrder(ctx, id, order)
	if err != nil {
		return nil, fmt.Errorf("actualizar orden %d: %w", id, err)
	}
	uc.notify(ctx, id, "order-updated")
	res := ToResponse(updated)
	return &res, nil
}

// Delete borra la orden.
func (uc *UseCase) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: orden %d", domain.ErrInvalidInput, id)
	}
	if err := uc.backend.DeleteSupplierOrder(ctx, id); err != nil {
		return fmt.Errorf("eliminar orden %d: %w", id, err)
	}
	uc.notify(ctx, id, "order-deleted")
	return nil
}

// Totals recálculo en vivo del formulario; no consulta el backend.
func (uc *UseCase) Totals(req dto.SupplierOrderRequest) dto.OrderTotalsDTO {
	return toTotalsDTO(inventory.CalculateOrderTotals(FromRequest(req)))
}

// ProductOptions productos del proveedor elegibles para la fila EditingIndex: se excluyen
// los ya elegidos en otras filas.
func (uc *UseCase) ProductOptions(ctx context.Context, req dto.ProductOptionsRequest) ([]dto.ProductOptionDTO, error) {
	products, err := uc.supplierProducts(ctx, req.SupplierName)
	if err != nil {
		return nil, err
	}
	items := make([]entity.OrderItem, 0, len(req.OrderItems))
	for _, it := range req.OrderItems {
		items = append(items, entity.OrderItem{ProductID: it.ProductID})
	}
	available := inventory.AvailableProducts(products, items, req.EditingIndex)
	out := make([]dto.ProductOptionDTO, 0, len(available))
	for _, p := range available {
		out = append(out, dto.ProductOptionDTO{ID: p.ID, Name: p.Name, SKU: p.SKU})
	}
	return out, nil
}

// OrderPDF resumen imprimible; devuelve también el nombre de archivo sugerido.
func (uc *UseCase) OrderPDF(ctx context.Context, id int64) ([]byte, string, error) {
	if uc.renderer == nil {
		return nil, "", fmt.Errorf("%w: PDF no configurado", domain.ErrInvalidInput)
	}
	order, err := uc.get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.renderer.SupplierOrderPDF(order, inventory.CalculateOrderTotals(order))
	if err != nil {
		return nil, "", fmt.Errorf("generar PDF de la orden %d: %w", id, err)
	}
	name := order.OrderNumber
	if name == "" {
		name = fmt.Sprintf("orden-%d", order.ID)
	}
	return data, sanitizeFilename(name) + ".pdf", nil
}

// RefreshCatalog invalida la caché del catálogo y avisa a la vista.
func (uc *UseCase) RefreshCatalog(ctx context.Context) error {
	if uc.catalog != nil {
		if err := uc.catalog.Invalidate(ctx); err != nil {
			return fmt.Errorf("invalidar catálogo: %w", err)
		}
	}
	if uc.publisher != nil {
		if err := uc.publisher.Publish(ctx, ports.ReloadEvent{View: ports.ViewCatalog, Reason: "catalog-refreshed", At: time.Now().UTC()}); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudo publicar recarga")
		}
	}
	return nil
}

// ── Auxiliares ────────────────────────────────────────────────────────────────

func (uc *UseCase) get(ctx context.Context, id int64) (*entity.SupplierOrder, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: orden %d", domain.ErrInvalidInput, id)
	}
	order, err := uc.backend.GetSupplierOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener orden %d: %w", id, err)
	}
	return order, nil
}

func (uc *UseCase) validateItems(ctx context.Context, order *entity.SupplierOrder) error {
	if len(order.OrderItems) == 0 {
		return nil
	}
	products, err := uc.supplierProducts(ctx, order.SupplierName)
	if err != nil {
		return err
	}
	return inventory.ValidateOrderItems(order.SupplierName, order.OrderItems, products)
}

// supplierProducts catálogo (en caché) filtrado por proveedor. Un producto sin proveedor
// asignado se ofrece a todos.
func (uc *UseCase) supplierProducts(ctx context.Context, supplierName string) ([]entity.Product, error) {
	supplierName = strings.TrimSpace(supplierName)
	if supplierName == "" {
		return nil, fmt.Errorf("%w: proveedor requerido", domain.ErrInvalidInput)
	}
	catalog, err := uc.products(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Product, 0, len(catalog))
	for _, p := range catalog {
		if p.SupplierName == "" || strings.EqualFold(p.SupplierName, supplierName) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (uc *UseCase) products(ctx context.Context) ([]entity.Product, error) {
	if uc.catalog == nil {
		list, err := uc.backend.ListProducts(ctx)
		if err != nil {
			return nil, fmt.Errorf("listar productos: %w", err)
		}
		return list, nil
	}
	key, err := uc.catalog.Key(ctx, "products")
	if err != nil {
		uc.log.Warn().Err(err).Msg("caché de catálogo no disponible, se consulta el backend")
		return uc.backend.ListProducts(ctx)
	}
	var list []entity.Product
	err = uc.catalog.FetchJSON(ctx, key, &list, func(ctx context.Context) (any, error) {
		return uc.backend.ListProducts(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	return list, nil
}

func (uc *UseCase) notify(ctx context.Context, id int64, reason string) {
	if uc.publisher == nil {
		return
	}
	ev := ports.ReloadEvent{View: ports.ViewSupplierOrders, Reason: reason, EntityID: id, At: time.Now().UTC()}
	if err := uc.publisher.Publish(ctx, ev); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo publicar recarga")
	}
}

func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
