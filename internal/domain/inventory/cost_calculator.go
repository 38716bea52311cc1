package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-admin/internal/domain/entity"
)

// OrderTotals valores derivados de una orden a proveedor (no se almacenan).
type OrderTotals struct {
	PaymentTotal  decimal.Decimal `json:"paymentTotal"`
	DeliveryTotal decimal.Decimal `json:"deliveryTotal"`
	OverallTotal  decimal.Decimal `json:"overallTotal"`
	TotalQuantity decimal.Decimal `json:"totalQuantity"`
	UnitCost      decimal.Decimal `json:"unitCost"`
}

// CalculateOrderTotals costo unitario de la orden (servicio de dominio).
//
//	PaymentTotal  = Σ pagos de la orden
//	DeliveryTotal = Σ entregas Σ pagos de la entrega
//	OverallTotal  = PaymentTotal + DeliveryTotal
//	UnitCost      = OverallTotal / Σ cantidades  (0 si no hay cantidad)
//
// Se recalcula en cada cambio del formulario; las entradas son pequeñas.
func CalculateOrderTotals(order *entity.SupplierOrder) OrderTotals {
	if order == nil {
		return zeroTotals()
	}
	paymentTotal := sumPayments(order.PaymentInstructions)

	deliveryTotal := decimal.Zero
	for _, d := range order.Deliveries {
		deliveryTotal = deliveryTotal.Add(sumPayments(d.PaymentInstructions))
	}

	qty := decimal.Zero
	for _, it := range order.OrderItems {
		qty = qty.Add(it.Quantity.Decimal)
	}

	overall := paymentTotal.Add(deliveryTotal)
	unitCost := decimal.Zero
	if qty.GreaterThan(decimal.Zero) {
		unitCost = overall.Div(qty)
	}
	return OrderTotals{
		PaymentTotal:  paymentTotal,
		DeliveryTotal: deliveryTotal,
		OverallTotal:  overall,
		TotalQuantity: qty,
		UnitCost:      unitCost,
	}
}

func sumPayments(list []entity.PaymentInstruction) decimal.Decimal {
	total := decimal.Zero
	for _, p := range list {
		total = total.Add(p.Amount.Decimal)
	}
	return total
}

func zeroTotals() OrderTotals {
	return OrderTotals{
		PaymentTotal:  decimal.Zero,
		DeliveryTotal: decimal.Zero,
		OverallTotal:  decimal.Zero,
		TotalQuantity: decimal.Zero,
		UnitCost:      decimal.Zero,
	}
}
