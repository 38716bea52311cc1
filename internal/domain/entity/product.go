package entity

// Product producto del catálogo; SupplierName lo liga a su proveedor.
type Product struct {
	ID           int64  `json:"id"`
	Name         string `json:"productName"`
	SKU          string `json:"sku,omitempty"`
	SupplierID   int64  `json:"supplierId,omitempty"`
	SupplierName string `json:"supplierName,omitempty"`
}
