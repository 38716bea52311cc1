package http

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-admin/internal/application/dto"
	"github.com/jhoicas/inventario-admin/internal/application/inventory"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// InventoryHandler historial unificado, detalle de filas y stock (protegido).
type InventoryHandler struct {
	history  *inventory.HistoryUseCase
	resolver *inventory.TransactionResolver
	stock    *inventory.StockUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(history *inventory.HistoryUseCase, resolver *inventory.TransactionResolver, stock *inventory.StockUseCase) *InventoryHandler {
	return &InventoryHandler{history: history, resolver: resolver, stock: stock}
}

// parseHistoryQuery lee y valida los filtros. Devuelve false si ya respondió.
func parseHistoryQuery(c *fiber.Ctx) (dto.HistoryQuery, bool, error) {
	var q dto.HistoryQuery
	if err := c.QueryParser(&q); err != nil {
		return q, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	q.Type = strings.ToUpper(strings.TrimSpace(q.Type))
	q.DeletedState = strings.ToUpper(strings.TrimSpace(q.DeletedState))
	ok, err := validateStruct(c, q)
	return q, ok, err
}

// History godoc
// @Summary      Historial unificado de movimientos
// @Description  Última versión de cada referencia, filtrada y paginada; eliminados al final.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        search         query  string  false  "texto libre"
// @Param        type           query  string  false  "ALL, STOCK_IN, TRANSFER, TRANSFER_IN, TRANSFER_OUT, RETURN, DAMAGE, DELIVERY, SALE"
// @Param        deleted_state  query  string  false  "ALL, ACTIVE, DELETED"
// @Param        start_date     query  string  false  "YYYY-MM-DD"
// @Param        end_date       query  string  false  "YYYY-MM-DD (inclusivo)"
// @Param        page           query  int     false  "página (1..)"
// @Param        page_size      query  int     false  "tamaño de página"
// @Success      200  {object}  dto.HistoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/inventory/history [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	q, ok, err := parseHistoryQuery(c)
	if !ok {
		return err
	}
	out, err := h.history.History(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ExportHistory godoc
// @Summary      Exportar historial filtrado a XLSX
// @Tags         inventory
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/inventory/history/export [get]
func (h *InventoryHandler) ExportHistory(c *fiber.Ctx) error {
	q, ok, err := parseHistoryQuery(c)
	if !ok {
		return err
	}
	data, err := h.history.ExportHistory(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="historial.xlsx"`)
	return c.Send(data)
}

// Versions godoc
// @Summary      Versiones de una referencia
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        ref  path  string  true  "número de referencia"
// @Success      200  {object}  dto.VersionsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/history/versions/{ref} [get]
func (h *InventoryHandler) Versions(c *fiber.Ctx) error {
	ref, err := url.PathUnescape(c.Params("ref"))
	if err != nil || strings.TrimSpace(ref) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "referencia requerida"})
	}
	out, err := h.history.Versions(c.UserContext(), ref)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PurgeDeleted godoc
// @Summary      Borrado permanente de los eliminados del filtro actual
// @Description  Cada id se intenta de forma independiente; la respuesta resume éxitos y fallos.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PurgeSummary
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory/history/deleted [delete]
func (h *InventoryHandler) PurgeDeleted(c *fiber.Ctx) error {
	q, ok, err := parseHistoryQuery(c)
	if !ok {
		return err
	}
	out, err := h.history.PurgeDeleted(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ProductHistory godoc
// @Summary      Log de movimientos de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "producto"
// @Success      200  {object}  dto.HistoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/history [get]
func (h *InventoryHandler) ProductHistory(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return badID(c)
	}
	q, ok, err := parseHistoryQuery(c)
	if !ok {
		return err
	}
	out, err := h.history.ProductHistory(c.UserContext(), id, q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Resolve godoc
// @Summary      Detalle por producto de una fila del historial
// @Description  Reconstruye las líneas desde la venta, la entrega o el inventario que respalda la fila.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResolveRequest  true  "fila"
// @Success      200  {object}  dto.ResolveResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/inventory/transactions/resolve [post]
func (h *InventoryHandler) Resolve(c *fiber.Ctx) error {
	var in dto.ResolveRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if ok, err := validateStruct(c, in); !ok {
		return err
	}
	rec := &entity.MovementRecord{
		ID:              in.ID,
		MovementType:    in.MovementType,
		TransactionType: in.TransactionType,
		ReferenceNumber: in.ReferenceNumber,
		ReferenceID:     in.ReferenceID,
		Remarks:         in.Remarks,
		TransactionDate: in.TransactionDate,
	}
	res, err := h.resolver.Resolve(c.UserContext(), rec)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toResolveResponse(res))
}

func toResolveResponse(res *inventory.Resolution) dto.ResolveResponse {
	m := res.Meta
	return dto.ResolveResponse{
		Meta: dto.ResolveMetaDTO{
			Domain:          m.Domain,
			EntityID:        m.EntityID,
			RowID:           m.RowID,
			MovementType:    m.MovementType,
			TypeLabel:       m.Classification.Label,
			TypeColor:       string(m.Classification.Color),
			ReferenceNumber: m.ReferenceNumber,
			Status:          m.Status,
			Date:            m.Date,
			Branch:          m.Branch,
			CustomerName:    m.CustomerName,
			Remarks:         m.Remarks,
			GeneratedBy:     m.GeneratedBy,
			SourceWarehouse: m.SourceWarehouse,
		},
		LineItems:     inventory.ToRowDTOs(res.LineItems),
		LogsRequested: res.Logs.Requested,
		LogsFailed:    res.Logs.Failed,
	}
}

// WarehouseStock godoc
// @Summary      Stock por bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  int  false  "filtrar por producto"
// @Success      200  {array}   dto.WarehouseStockDTO
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/warehouses [get]
func (h *InventoryHandler) WarehouseStock(c *fiber.Ctx) error {
	var q dto.StockQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	if ok, err := validateStruct(c, q); !ok {
		return err
	}
	out, err := h.stock.WarehouseStock(c.UserContext(), q.ProductID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// BranchStock godoc
// @Summary      Stock por sucursal
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  int  false  "filtrar por producto"
// @Success      200  {array}   dto.BranchStockDTO
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/branches [get]
func (h *InventoryHandler) BranchStock(c *fiber.Ctx) error {
	var q dto.StockQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	if ok, err := validateStruct(c, q); !ok {
		return err
	}
	out, err := h.stock.BranchStock(c.UserContext(), q.ProductID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ConfirmInventory godoc
// @Summary      Confirmar un inventario
// @Description  Confirma en el backend y devuelve el stock re-leído (bodegas y luego sucursales).
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "inventario"
// @Success      200  {object}  dto.ConfirmInventoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/inventory/{id}/confirm [patch]
func (h *InventoryHandler) ConfirmInventory(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badID(c)
	}
	out, err := h.stock.ConfirmInventory(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
