package inventory

import (
	"fmt"
	"strings"

	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
)

// IsProductTaken indica si productID ya está elegido en otra fila distinta de editingIndex.
// editingIndex < 0 compara contra todas las filas (fila nueva).
func IsProductTaken(items []entity.OrderItem, productID int64, editingIndex int) bool {
	if productID == 0 {
		return false
	}
	for i, it := range items {
		if i == editingIndex {
			continue
		}
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

// AvailableProducts catálogo del proveedor sin los productos usados en otras filas.
// El producto de la fila en edición sigue disponible para que la selección actual sea válida.
func AvailableProducts(catalog []entity.Product, items []entity.OrderItem, editingIndex int) []entity.Product {
	out := make([]entity.Product, 0, len(catalog))
	for _, p := range catalog {
		if IsProductTaken(items, p.ID, editingIndex) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ValidateOrderItems verifica que cada producto pertenezca al proveedor y no se repita.
// supplierProducts es el catálogo del proveedor de la orden.
func ValidateOrderItems(supplierName string, items []entity.OrderItem, supplierProducts []entity.Product) error {
	owned := make(map[int64]bool, len(supplierProducts))
	for _, p := range supplierProducts {
		if p.SupplierName == "" || strings.EqualFold(p.SupplierName, supplierName) {
			owned[p.ID] = true
		}
	}
	for i, it := range items {
		if !owned[it.ProductID] {
			return fmt.Errorf("%w: producto %d (fila %d)", domain.ErrProductNotSupplied, it.ProductID, i+1)
		}
		if IsProductTaken(items[:i], it.ProductID, -1) {
			return fmt.Errorf("%w: producto %d (fila %d)", domain.ErrDuplicateProduct, it.ProductID, i+1)
		}
	}
	return nil
}
