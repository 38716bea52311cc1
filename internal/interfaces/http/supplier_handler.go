package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-admin/internal/application/dto"
	"github.com/jhoicas/inventario-admin/internal/application/supplier"
)

// SupplierHandler órdenes a proveedor (protegido).
type SupplierHandler struct {
	uc *supplier.UseCase
}

// NewSupplierHandler construye el handler.
func NewSupplierHandler(uc *supplier.UseCase) *SupplierHandler {
	return &SupplierHandler{uc: uc}
}

func orderID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	return id, err == nil && id > 0
}

// parseOrder lee y valida el cuerpo de alta/edición. Devuelve false si ya respondió.
func parseOrder(c *fiber.Ctx) (dto.SupplierOrderRequest, bool, error) {
	var in dto.SupplierOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return in, false, badBody(c)
	}
	in.OverallStatus = strings.ToUpper(strings.TrimSpace(in.OverallStatus))
	ok, err := validateStruct(c, in)
	return in, ok, err
}

// List godoc
// @Summary      Listar órdenes a proveedor
// @Tags         supplier-orders
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.SupplierOrderResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/supplier-orders [get]
func (h *SupplierHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden a proveedor
// @Tags         supplier-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "orden"
// @Success      200  {object}  dto.SupplierOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/supplier-orders/{id} [get]
func (h *SupplierHandler) GetByID(c *fiber.Ctx) error {
	id, ok := orderID(c)
	if !ok {
		return badID(c)
	}
	out, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear orden a proveedor
// @Tags         supplier-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SupplierOrderRequest  true  "orden"
// @Success      201  {object}  dto.SupplierOrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/supplier-orders [post]
func (h *SupplierHandler) Create(c *fiber.Ctx) error {
	in, ok, err := parseOrder(c)
	if !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar orden a proveedor
// @Tags         supplier-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                       true  "orden"
// @Param        body  body  dto.SupplierOrderRequest  true  "orden"
// @Success      200  {object}  dto.SupplierOrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/supplier-orders/{id} [put]
func (h *SupplierHandler) Update(c *fiber.Ctx) error {
	id, ok := orderID(c)
	if !ok {
		return badID(c)
	}
	in, ok, err := parseOrder(c)
	if !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar orden a proveedor
// @Tags         supplier-orders
// @Security     Bearer
// @Param        id  path  int  true  "orden"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/supplier-orders/{id} [delete]
func (h *SupplierHandler) Delete(c *fiber.Ctx) error {
	id, ok := orderID(c)
	if !ok {
		return badID(c)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PDF godoc
// @Summary      Resumen PDF de la orden
// @Tags         supplier-orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  int  true  "orden"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/supplier-orders/{id}/pdf [get]
func (h *SupplierHandler) PDF(c *fiber.Ctx) error {
	id, ok := orderID(c)
	if !ok {
		return badID(c)
	}
	data, name, err := h.uc.OrderPDF(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+name+`"`)
	return c.Send(data)
}

// Totals godoc
// @Summary      Recalcular totales del formulario
// @Description  No consulta el backend; montos no numéricos valen 0.
// @Tags         supplier-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SupplierOrderRequest  true  "orden en edición"
// @Success      200  {object}  dto.OrderTotalsDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/supplier-orders/totals [post]
func (h *SupplierHandler) Totals(c *fiber.Ctx) error {
	var in dto.SupplierOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	return c.JSON(h.uc.Totals(in))
}

// ProductOptions godoc
// @Summary      Productos elegibles para una fila de la orden
// @Tags         supplier-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProductOptionsRequest  true  "proveedor, filas y fila en edición"
// @Success      200  {array}   dto.ProductOptionDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/supplier-orders/product-options [post]
func (h *SupplierHandler) ProductOptions(c *fiber.Ctx) error {
	in := dto.ProductOptionsRequest{EditingIndex: -1}
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if ok, err := validateStruct(c, in); !ok {
		return err
	}
	out, err := h.uc.ProductOptions(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RefreshCatalog godoc
// @Summary      Invalidar la caché del catálogo de productos
// @Tags         supplier-orders
// @Security     Bearer
// @Success      204
// @Router       /api/supplier-orders/catalog/refresh [post]
func (h *SupplierHandler) RefreshCatalog(c *fiber.Ctx) error {
	if err := h.uc.RefreshCatalog(c.UserContext()); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
