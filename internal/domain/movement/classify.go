// Package movement contiene la lógica pura sobre movimientos de inventario: clasificación,
// fecha autoritativa, agrupación por versiones, filtros del historial y decodificación del
// espacio de ids compartido entre inventarios, entregas y ventas.
package movement

import (
	"strings"
	"time"

	"github.com/jhoicas/inventario-admin/internal/domain/datetime"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
)

// Tipos efectivos (derivados). TRANSFER_IN/OUT no existen en el backend.
const (
	TypeStockIn     = entity.MovementTypeStockIn
	TypeTransfer    = entity.MovementTypeTransfer
	TypeTransferIn  = "TRANSFER_IN"
	TypeTransferOut = "TRANSFER_OUT"
	TypeReturn      = entity.MovementTypeReturn
	TypeDamage      = entity.MovementTypeDamage
	TypeDelivery    = entity.MovementTypeDelivery
	TypeSale        = entity.MovementTypeSale
)

// Color categoría visual de un tipo o de una cantidad.
type Color string

const (
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorYellow Color = "yellow"
	ColorRed    Color = "red"
	ColorPurple Color = "purple"
	ColorPink   Color = "pink"
	ColorGray   Color = "gray"
)

// Direction sentido de un traslado, inferido de qué ubicaciones están pobladas.
type Direction int

const (
	// DirectionComplete: origen y destino (o ninguno); se muestra como traslado simple.
	DirectionComplete Direction = iota
	DirectionIn
	DirectionOut
)

func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "COMPLETE"
	}
}

// Classification resultado de Classify.
type Classification struct {
	EffectiveType string `json:"effectiveType"`
	Label         string `json:"label"`
	Color         Color  `json:"color"`
}

type typeInfo struct {
	label string
	color Color
}

var knownTypes = map[string]typeInfo{
	TypeStockIn:     {"Stock In", ColorGreen},
	TypeTransfer:    {"Transfer", ColorBlue},
	TypeTransferIn:  {"Transfer In", ColorBlue},
	TypeTransferOut: {"Transfer Out", ColorBlue},
	TypeReturn:      {"Return", ColorYellow},
	TypeDamage:      {"Damage", ColorRed},
	TypeDelivery:    {"Delivery", ColorPurple},
	TypeSale:        {"Sale", ColorPink},
}

// TransferDirection deriva el sentido solo desde la presencia de origen/destino.
// No se almacena: se recalcula en cada consulta.
func TransferDirection(rec *entity.MovementRecord) Direction {
	hasFrom, hasTo := rec.HasSource(), rec.HasDestination()
	switch {
	case hasTo && !hasFrom:
		return DirectionIn
	case hasFrom && !hasTo:
		return DirectionOut
	default:
		return DirectionComplete
	}
}

// EffectiveType tipo semántico del registro.
func EffectiveType(rec *entity.MovementRecord) string {
	t := strings.ToUpper(strings.TrimSpace(rec.Type()))
	if t != TypeTransfer {
		return t
	}
	switch TransferDirection(rec) {
	case DirectionIn:
		return TypeTransferIn
	case DirectionOut:
		return TypeTransferOut
	default:
		return TypeTransfer
	}
}

// Classify deriva tipo efectivo, etiqueta y color. Un tipo desconocido nunca se rechaza:
// su etiqueta es el propio tipo en mayúsculas con "_" reemplazado por espacios.
func Classify(rec *entity.MovementRecord) Classification {
	t := EffectiveType(rec)
	if info, ok := knownTypes[t]; ok {
		return Classification{EffectiveType: t, Label: info.label, Color: info.color}
	}
	return Classification{EffectiveType: t, Label: unknownLabel(t), Color: ColorGray}
}

// Label atajo de Classify(rec).Label.
func Label(rec *entity.MovementRecord) string {
	return Classify(rec).Label
}

func unknownLabel(t string) string {
	if t == "" {
		return "UNKNOWN"
	}
	return strings.ReplaceAll(strings.ToUpper(t), "_", " ")
}

// ── Signo de cantidad ─────────────────────────────────────────────────────────

// QuantitySign +1 para ADD/RESERVE (entrante), -1 para cualquier otra acción.
func QuantitySign(action string) int {
	switch strings.ToUpper(action) {
	case entity.ActionAdd, entity.ActionReserve:
		return 1
	default:
		return -1
	}
}

// SignedQuantity presentación de la cantidad: magnitud absoluta, prefijo y color.
type SignedQuantity struct {
	Magnitude int64  `json:"magnitude"`
	Prefix    string `json:"prefix"`
	Color     Color  `json:"color"`
}

// Signed calcula la presentación de la cantidad del registro.
func Signed(rec *entity.MovementRecord) SignedQuantity {
	mag := rec.Quantity
	if mag < 0 {
		mag = -mag
	}
	if QuantitySign(rec.Action) > 0 {
		return SignedQuantity{Magnitude: mag, Prefix: "+", Color: ColorGreen}
	}
	return SignedQuantity{Magnitude: mag, Prefix: "-", Color: ColorRed}
}

// ── Fecha autoritativa ────────────────────────────────────────────────────────

// AuthoritativeTime fecha "real" del evento según el tipo:
//   - SALE: invoicedAt → createdAt → transactionDate
//   - DELIVERY: deliveredAt → date → transactionDate → createdAt
//   - resto: verificationDateTime → transactionDate → createdAt
func AuthoritativeTime(rec *entity.MovementRecord) (time.Time, bool) {
	var candidates []datetime.Value
	switch strings.ToUpper(rec.Type()) {
	case TypeSale:
		candidates = []datetime.Value{rec.InvoicedAt, rec.CreatedAt, rec.TransactionDate}
	case TypeDelivery:
		candidates = []datetime.Value{rec.DeliveredAt, rec.Date, rec.TransactionDate, rec.CreatedAt}
	default:
		candidates = []datetime.Value{rec.VerificationDateTime, rec.TransactionDate, rec.CreatedAt}
	}
	for _, c := range candidates {
		if c.Valid {
			return c.Time, true
		}
	}
	return time.Time{}, false
}
