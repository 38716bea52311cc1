package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")

	// Backend REST: falla de transporte o respuesta con success=false en listados.
	ErrBackendUnavailable = errors.New("no se pudo obtener la información del servidor")
	// Entidad individual con success=false o 404: probablemente eliminada en el servidor.
	ErrEntityGone = errors.New("el registro no existe o pudo haber sido eliminado")

	// Resolución de transacciones entre entidades.
	ErrInvalidSaleID      = errors.New("id de venta inválido")
	ErrInvalidDeliveryID  = errors.New("id de entrega inválido")
	ErrInvalidInventoryID = errors.New("id de inventario inválido")
	ErrItemsMissing       = errors.New("los ítems del registro faltan o son inválidos")
	ErrAmbiguousID        = errors.New("el id pertenece a otro tipo de entidad")

	// Órdenes a proveedor.
	ErrDuplicateProduct   = errors.New("el producto ya fue seleccionado en otra fila de la orden")
	ErrProductNotSupplied = errors.New("el producto no pertenece al proveedor de la orden")
)
