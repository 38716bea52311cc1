package movement

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
)

// Desplazamientos del espacio de ids compartido. El backend entrega las filas derivadas
// de entregas y ventas ya desplazadas; este archivo es el único que conoce los rangos.
const (
	DeliveryIDOffset int64 = 1_000_000
	SaleIDOffset     int64 = 2_000_000
)

// Domain entidad a la que pertenece un id de la tabla unificada.
type Domain int

const (
	DomainInventory Domain = iota
	DomainDelivery
	DomainSale
)

func (d Domain) String() string {
	switch d {
	case DomainDelivery:
		return "delivery"
	case DomainSale:
		return "sale"
	default:
		return "inventory"
	}
}

// DecodeID separa un id de la tabla unificada en dominio e id local.
func DecodeID(id int64) (Domain, int64) {
	switch {
	case id > SaleIDOffset:
		return DomainSale, id - SaleIDOffset
	case id > DeliveryIDOffset:
		return DomainDelivery, id - DeliveryIDOffset
	default:
		return DomainInventory, id
	}
}

// EncodeDeliveryID id de fila unificada para una entrega.
func EncodeDeliveryID(deliveryID int64) int64 { return deliveryID + DeliveryIDOffset }

// EncodeSaleID id de fila unificada para una venta.
func EncodeSaleID(saleID int64) int64 { return saleID + SaleIDOffset }

// SaleReference referencia canónica de una venta ("SALE-<id>").
func SaleReference(saleID int64) string {
	return "SALE-" + strconv.FormatInt(saleID, 10)
}

var saleRefRe = regexp.MustCompile(`SALE-(\d+)$`)

// SaleIDFor deriva el id de venta: id desplazado, luego "SALE-<n>" del referenceNumber,
// luego el id crudo. Un resultado no positivo es ErrInvalidSaleID.
func SaleIDFor(rec *entity.MovementRecord) (int64, error) {
	var saleID int64
	switch {
	case rec.ID > SaleIDOffset:
		saleID = rec.ID - SaleIDOffset
	default:
		if m := saleRefRe.FindStringSubmatch(strings.TrimSpace(rec.ReferenceNumber)); m != nil {
			n, err := strconv.ParseInt(m[1], 10, 64)
			if err != nil {
				return 0, fmt.Errorf("%w: %q", domain.ErrInvalidSaleID, rec.ReferenceNumber)
			}
			saleID = n
		} else {
			saleID = rec.ID
		}
	}
	if saleID <= 0 {
		return 0, fmt.Errorf("%w: %d", domain.ErrInvalidSaleID, saleID)
	}
	return saleID, nil
}

// DeliveryIDFor deriva el id de entrega: id desplazado o id crudo; no positivo es error.
func DeliveryIDFor(rec *entity.MovementRecord) (int64, error) {
	deliveryID := rec.ID
	if rec.ID > DeliveryIDOffset {
		deliveryID = rec.ID - DeliveryIDOffset
	}
	if deliveryID <= 0 {
		return 0, fmt.Errorf("%w: %d", domain.ErrInvalidDeliveryID, deliveryID)
	}
	return deliveryID, nil
}

// InventoryIDFor valida que un registro de inventario no traiga un id de otro rango.
// Un id desplazado aquí indica un error de clasificación aguas arriba.
func InventoryIDFor(rec *entity.MovementRecord) (int64, error) {
	dom, _ := DecodeID(rec.ID)
	if dom != DomainInventory {
		return 0, fmt.Errorf("%w: id %d está en el rango de %s, tipo %s", domain.ErrAmbiguousID, rec.ID, dom, rec.Type())
	}
	if rec.ID <= 0 {
		return 0, fmt.Errorf("%w: %d", domain.ErrInvalidInventoryID, rec.ID)
	}
	return rec.ID, nil
}
