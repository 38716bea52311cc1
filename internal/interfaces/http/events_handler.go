package http

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-admin/internal/application/dto"
	"github.com/jhoicas/inventario-admin/internal/application/ports"
	"github.com/jhoicas/inventario-admin/pkg/logger"
)

const keepAliveEvery = 25 * time.Second

var knownViews = map[string]struct{}{
	ports.ViewHistory:        {},
	ports.ViewStock:          {},
	ports.ViewSupplierOrders: {},
	ports.ViewCatalog:        {},
}

// EventsHandler stream SSE de avisos de recarga por vista.
type EventsHandler struct {
	bus ports.ReloadBus
	log *logger.Logger
}

// NewEventsHandler construye el handler.
func NewEventsHandler(bus ports.ReloadBus, log *logger.Logger) *EventsHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &EventsHandler{bus: bus, log: log.Component("sse")}
}

// Stream godoc
// @Summary      Avisos de recarga de una vista (server-sent events)
// @Tags         events
// @Security     Bearer
// @Produce      text/event-stream
// @Param        view  path  string  true  "history, stock, supplier-orders, catalog"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/events/{view} [get]
func (h *EventsHandler) Stream(c *fiber.Ctx) error {
	view := c.Params("view")
	if _, ok := knownViews[view]; !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "UNKNOWN_VIEW", Message: "vista desconocida: " + view})
	}

	ctx, stop := context.WithCancel(context.Background())
	events, cancel, err := h.bus.Subscribe(ctx, view)
	if err != nil {
		stop()
		return writeError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer stop()
		defer cancel()

		ticker := time.NewTicker(keepAliveEvery)
		defer ticker.Stop()

		fmt.Fprint(w, ": conectado\n\n")
		if err := w.Flush(); err != nil {
			return
		}
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				payload, err := json.Marshal(ev)
				if err != nil {
					h.log.Warn().Err(err).Str("view", view).Msg("evento no serializable")
					continue
				}
				fmt.Fprintf(w, "event: reload\ndata: %s\n\n", payload)
			case <-ticker.C:
				fmt.Fprint(w, ": ping\n\n")
			}
			if err := w.Flush(); err != nil {
				h.log.Debug().Str("view", view).Msg("cliente SSE desconectado")
				return
			}
		}
	})
	return nil
}
