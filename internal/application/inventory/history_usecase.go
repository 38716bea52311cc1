package inventory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-admin/internal/application/dto"
	"github.com/jhoicas/inventario-admin/internal/application/ports"
	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
	"github.com/jhoicas/inventario-admin/internal/domain/movement"
	"github.com/jhoicas/inventario-admin/pkg/logger"
)

const (
	defaultPageSize = 10
	dateLayout      = "2006-01-02"
)

// HistoryUseCase historial unificado de movimientos: agrupación por versiones, filtros,
// paginación, exportación y purga de eliminados.
type HistoryUseCase struct {
	source    TransactionSource
	commands  InventoryCommands
	exporter  HistoryExporter
	publisher ports.ReloadPublisher
	log       *logger.Logger
	pageSize  int
	limit     int
}

// NewHistoryUseCase construye el caso de uso. publisher puede ser nil.
func NewHistoryUseCase(
	source TransactionSource,
	commands InventoryCommands,
	exporter HistoryExporter,
	publisher ports.ReloadPublisher,
	log *logger.Logger,
	pageSize, fanoutLimit int,
) *HistoryUseCase {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if fanoutLimit <= 0 {
		fanoutLimit = defaultFanoutLimit
	}
	if log == nil {
		log = logger.Nop()
	}
	return &HistoryUseCase{
		source:    source,
		commands:  commands,
		exporter:  exporter,
		publisher: publisher,
		log:       log.Component("history"),
		pageSize:  pageSize,
		limit:     fanoutLimit,
	}
}

// History tabla principal: última versión de cada referencia, filtrada y paginada.
func (uc *HistoryUseCase) History(ctx context.Context, q dto.HistoryQuery) (*dto.HistoryResponse, error) {
	filtered, err := uc.latestFiltered(ctx, q)
	if err != nil {
		return nil, err
	}
	return uc.page(filtered, q), nil
}

// ProductHistory log completo de un producto. No se agrupa por referencia: cada cambio de
// estado de una misma venta o entrega es una fila propia.
func (uc *HistoryUseCase) ProductHistory(ctx context.Context, productID int64, q dto.HistoryQuery) (*dto.HistoryResponse, error) {
	if productID <= 0 {
		return nil, fmt.Errorf("%w: producto %d", domain.ErrInvalidInput, productID)
	}
	c, err := criteriaFrom(q)
	if err != nil {
		return nil, err
	}
	list, err := uc.source.ListProductTransactions(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("listar transacciones del producto %d: %w", productID, err)
	}
	return uc.page(movement.FilterAndSort(list, c), q), nil
}

// Versions historial de ediciones de una referencia, más nueva primero.
func (uc *HistoryUseCase) Versions(ctx context.Context, reference string) (*dto.VersionsResponse, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, fmt.Errorf("%w: referencia requerida", domain.ErrInvalidInput)
	}
	list, err := uc.source.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar transacciones: %w", err)
	}
	versions, ok := movement.Group(list).Get(reference)
	if !ok {
		return nil, fmt.Errorf("%w: referencia %s", domain.ErrNotFound, reference)
	}
	return &dto.VersionsResponse{Reference: reference, Versions: ToRowDTOs(versions)}, nil
}

// PurgeDeleted borra permanentemente los registros eliminados del listado filtrado actual.
// Solo los ids de inventario admiten borrado; filas de entregas o ventas se omiten.
// Los borrados corren en paralelo y un fallo individual no detiene al resto.
func (uc *HistoryUseCase) PurgeDeleted(ctx context.Context, q dto.HistoryQuery) (*dto.PurgeSummary, error) {
	filtered, err := uc.latestFiltered(ctx, q)
	if err != nil {
		return nil, err
	}

	summary := &dto.PurgeSummary{}
	var ids []int64
	for i := range filtered {
		rec := &filtered[i]
		if !rec.Deleted() {
			continue
		}
		summary.Requested++
		id, err := movement.InventoryIDFor(rec)
		if err != nil {
			summary.Skipped++
			continue
		}
		ids = append(ids, id)
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(uc.limit)
	for _, id := range ids {
		g.Go(func() error {
			err := uc.commands.DeleteInventory(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.Failed++
				summary.FailedIDs = append(summary.FailedIDs, id)
				uc.log.Warn().Err(err).Int64("inventory_id", id).Msg("no se pudo borrar el registro")
				return nil
			}
			summary.Succeeded++
			return nil
		})
	}
	_ = g.Wait()

	uc.log.Info().
		Int("requested", summary.Requested).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Int("skipped", summary.Skipped).
		Msg("purga de eliminados")

	if summary.Succeeded > 0 {
		uc.notify(ctx, ports.ReloadEvent{View: ports.ViewHistory, Reason: "purge"})
	}
	return summary, nil
}

// ExportHistory libro XLSX con todo el listado filtrado (sin paginar).
func (uc *HistoryUseCase) ExportHistory(ctx context.Context, q dto.HistoryQuery) ([]byte, error) {
	if uc.exporter == nil {
		return nil, fmt.Errorf("%w: exportación no configurada", domain.ErrInvalidInput)
	}
	filtered, err := uc.latestFiltered(ctx, q)
	if err != nil {
		return nil, err
	}
	data, err := uc.exporter.HistoryWorkbook(filtered)
	if err != nil {
		return nil, fmt.Errorf("exportar historial: %w", err)
	}
	return data, nil
}

// ── Pipeline ──────────────────────────────────────────────────────────────────

// latestFiltered: transacciones → grupos por referencia → última versión → filtros.
func (uc *HistoryUseCase) latestFiltered(ctx context.Context, q dto.HistoryQuery) ([]entity.MovementRecord, error) {
	c, err := criteriaFrom(q)
	if err != nil {
		return nil, err
	}
	list, err := uc.source.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar transacciones: %w", err)
	}
	return movement.FilterAndSort(movement.Group(list).Latest(), c), nil
}

func (uc *HistoryUseCase) page(filtered []entity.MovementRecord, q dto.HistoryQuery) *dto.HistoryResponse {
	size := q.PageSize
	if size <= 0 {
		size = uc.pageSize
	}
	p := movement.Paginate(filtered, q.Page, size)
	deleted := movement.DeletedCount(filtered)
	return &dto.HistoryResponse{
		Items:        ToRowDTOs(p.Items),
		Page:         p.Page,
		PageSize:     p.PageSize,
		Total:        p.Total,
		TotalPages:   p.TotalPages,
		DeletedCount: deleted,
		CanPurge:     deleted > 0,
	}
}

func (uc *HistoryUseCase) notify(ctx context.Context, ev ports.ReloadEvent) {
	if uc.publisher == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	if err := uc.publisher.Publish(ctx, ev); err != nil {
		uc.log.Warn().Err(err).Str("view", ev.View).Msg("no se pudo publicar recarga")
	}
}

func criteriaFrom(q dto.HistoryQuery) (movement.Criteria, error) {
	c := movement.Criteria{
		Search:       q.Search,
		Type:         q.Type,
		DeletedState: q.DeletedState,
	}
	if q.StartDate != "" {
		t, err := time.Parse(dateLayout, q.StartDate)
		if err != nil {
			return c, fmt.Errorf("%w: start_date %q", domain.ErrInvalidInput, q.StartDate)
		}
		c.StartDate = &t
	}
	if q.EndDate != "" {
		t, err := time.Parse(dateLayout, q.EndDate)
		if err != nil {
			return c, fmt.Errorf("%w: end_date %q", domain.ErrInvalidInput, q.EndDate)
		}
		c.EndDate = &t
	}
	if c.StartDate != nil && c.EndDate != nil && c.StartDate.After(*c.EndDate) {
		return c, fmt.Errorf("%w: start_date posterior a end_date", domain.ErrInvalidInput)
	}
	return c, nil
}
