package supplier

import (
	"strings"

	"github.com/jhoicas/inventario-admin/internal/application/dto"
	"github.com/jhoicas/inventario-admin/internal/domain/datetime"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
	"github.com/jhoicas/inventario-admin/internal/domain/inventory"
)

// FromRequest convierte el formulario en la orden de dominio. Fechas ilegibles quedan vacías.
func FromRequest(req dto.SupplierOrderRequest) *entity.SupplierOrder {
	order := &entity.SupplierOrder{
		SupplierName:        strings.TrimSpace(req.SupplierName),
		OrderNumber:         strings.TrimSpace(req.OrderNumber),
		OrderDate:           parseDate(req.OrderDate),
		OverallStatus:       strings.ToUpper(strings.TrimSpace(req.OverallStatus)),
		Remarks:             req.Remarks,
		OrderItems:          make([]entity.OrderItem, 0, len(req.OrderItems)),
		PaymentInstructions: fromPayments(req.PaymentInstructions),
		Deliveries:          make([]entity.SupplierDelivery, 0, len(req.Deliveries)),
	}
	for _, it := range req.OrderItems {
		order.OrderItems = append(order.OrderItems, entity.OrderItem{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
		})
	}
	for _, d := range req.Deliveries {
		order.Deliveries = append(order.Deliveries, entity.SupplierDelivery{
			ID:                  d.ID,
			DeliveryDate:        parseDate(d.DeliveryDate),
			Remarks:             d.Remarks,
			PaymentInstructions: fromPayments(d.PaymentInstructions),
		})
	}
	return order
}

func fromPayments(in []dto.PaymentInstructionRequest) []entity.PaymentInstruction {
	out := make([]entity.PaymentInstruction, 0, len(in))
	for _, p := range in {
		out = append(out, entity.PaymentInstruction{
			ID:          p.ID,
			Instruction: p.Instruction,
			Amount:      p.Amount,
			PaymentDate: parseDate(p.PaymentDate),
		})
	}
	return out
}

func parseDate(s string) datetime.Value {
	if t, ok := datetime.Parse(s); ok {
		return datetime.From(t)
	}
	return datetime.Value{}
}

// ToResponse proyecta la orden con sus totales calculados.
func ToResponse(order *entity.SupplierOrder) dto.SupplierOrderResponse {
	res := dto.SupplierOrderResponse{
		ID:                  order.ID,
		SupplierName:        order.SupplierName,
		OrderNumber:         order.OrderNumber,
		OrderDate:           order.OrderDate.Ptr(),
		OverallStatus:       order.OverallStatus,
		Remarks:             order.Remarks,
		OrderItems:          make([]dto.OrderItemResponse, 0, len(order.OrderItems)),
		PaymentInstructions: toPaymentDTOs(order.PaymentInstructions),
		Deliveries:          make([]dto.SupplierDeliveryDTO, 0, len(order.Deliveries)),
		Totals:              toTotalsDTO(inventory.CalculateOrderTotals(order)),
	}
	for _, it := range order.OrderItems {
		res.OrderItems = append(res.OrderItems, dto.OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity.Decimal,
		})
	}
	for _, d := range order.Deliveries {
		res.Deliveries = append(res.Deliveries, dto.SupplierDeliveryDTO{
			ID:                  d.ID,
			DeliveryDate:        d.DeliveryDate.Ptr(),
			Remarks:             d.Remarks,
			PaymentInstructions: toPaymentDTOs(d.PaymentInstructions),
		})
	}
	return res
}

func toPaymentDTOs(in []entity.PaymentInstruction) []dto.PaymentInstructionDTO {
	out := make([]dto.PaymentInstructionDTO, 0, len(in))
	for _, p := range in {
		out = append(out, dto.PaymentInstructionDTO{
			ID:          p.ID,
			Instruction: p.Instruction,
			Amount:      p.Amount.Decimal,
			PaymentDate: p.PaymentDate.Ptr(),
		})
	}
	return out
}

func toTotalsDTO(t inventory.OrderTotals) dto.OrderTotalsDTO {
	return dto.OrderTotalsDTO{
		PaymentTotal:  t.PaymentTotal,
		DeliveryTotal: t.DeliveryTotal,
		OverallTotal:  t.OverallTotal,
		TotalQuantity: t.TotalQuantity,
		UnitCost:      t.UnitCost,
	}
}
