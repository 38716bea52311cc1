package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/datetime"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
	"github.com/jhoicas/inventario-admin/internal/domain/movement"
	"github.com/jhoicas/inventario-admin/pkg/logger"
)

const defaultFanoutLimit = 8

// DisplayMeta cabecera del detalle de una fila del historial.
type DisplayMeta struct {
	Domain          string                  `json:"domain"`
	EntityID        int64                   `json:"entityId"`
	RowID           int64                   `json:"rowId"`
	MovementType    string                  `json:"movementType"`
	Classification  movement.Classification `json:"classification"`
	ReferenceNumber string                  `json:"referenceNumber,omitempty"`
	Status          string                  `json:"status,omitempty"`
	Date            *time.Time              `json:"date,omitempty"`
	Branch          string                  `json:"branch,omitempty"`
	CustomerName    string                  `json:"customerName,omitempty"`
	Remarks         string                  `json:"remarks,omitempty"`
	GeneratedBy     string                  `json:"generatedBy,omitempty"`
	SourceWarehouse string                  `json:"sourceWarehouse,omitempty"`
}

// FanoutStats resultado del fan-out de logs por producto.
type FanoutStats struct {
	Requested int `json:"requested"`
	Failed    int `json:"failed"`
}

// Resolution detalle reconstruido: cabecera más una fila sintética por ítem del agregado.
type Resolution struct {
	Meta      DisplayMeta             `json:"meta"`
	LineItems []entity.MovementRecord `json:"lineItems"`
	Logs      FanoutStats             `json:"logs"`
}

// TransactionResolver reconstruye el desglose por producto de una fila de la tabla unificada
// a partir del agregado autoritativo (venta, entrega o inventario).
type TransactionResolver struct {
	source AggregateSource
	log    *logger.Logger
	limit  int
}

// NewTransactionResolver crea el resolvedor. fanoutLimit <= 0 usa el límite por defecto.
func NewTransactionResolver(source AggregateSource, log *logger.Logger, fanoutLimit int) *TransactionResolver {
	if fanoutLimit <= 0 {
		fanoutLimit = defaultFanoutLimit
	}
	if log == nil {
		log = logger.Nop()
	}
	return &TransactionResolver{source: source, log: log.Component("resolver"), limit: fanoutLimit}
}

// Resolve despacha por tipo de movimiento. El resultado es todo o nada: ante cualquier error
// no se devuelve detalle parcial.
func (r *TransactionResolver) Resolve(ctx context.Context, rec *entity.MovementRecord) (*Resolution, error) {
	if rec == nil {
		return nil, fmt.Errorf("%w: registro requerido", domain.ErrInvalidInput)
	}
	switch strings.ToUpper(strings.TrimSpace(rec.Type())) {
	case movement.TypeSale:
		return r.resolveSale(ctx, rec)
	case movement.TypeDelivery:
		return r.resolveDelivery(ctx, rec)
	default:
		return r.resolveInventory(ctx, rec)
	}
}

// ── Venta ─────────────────────────────────────────────────────────────────────

func (r *TransactionResolver) resolveSale(ctx context.Context, rec *entity.MovementRecord) (*Resolution, error) {
	saleID, err := movement.SaleIDFor(rec)
	if err != nil {
		return nil, err
	}
	sale, err := r.source.GetSale(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("obtener venta %d: %w", saleID, err)
	}
	if !sale.Items.Valid {
		return nil, fmt.Errorf("%w: venta %d", domain.ErrItemsMissing, saleID)
	}

	productIDs := make([]int64, 0, len(sale.Items.Items))
	for _, it := range sale.Items.Items {
		productIDs = append(productIDs, it.ProductID)
	}
	logs, stats := r.fetchLogs(ctx, productIDs)

	ref := movement.SaleReference(saleID)
	matched := filterLogs(logs, func(t *entity.MovementRecord) bool {
		return t.ReferenceNumber == ref ||
			(t.ReferenceID != nil && *t.ReferenceID == saleID) ||
			movement.MentionsReference(t.Remarks, ref)
	})

	items := make([]entity.MovementRecord, 0, len(sale.Items.Items))
	for _, it := range sale.Items.Items {
		items = append(items, entity.MovementRecord{
			ID:              it.ID,
			MovementType:    entity.MovementTypeSale,
			InventoryType:   entity.MovementTypeSale,
			Action:          entity.ActionSubtract,
			Quantity:        it.Quantity,
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			FromWarehouse:   it.Warehouse,
			FromBranch:      sale.Branch,
			ReferenceNumber: ref,
			ReferenceID:     &saleID,
			InvoicedAt:      sale.InvoicedAt,
			CreatedAt:       sale.CreatedAt,
			Status:          sale.Status,
			StatusHistory:   forProduct(matched, it.ProductID),
		})
	}

	meta := r.meta(rec, movement.DomainSale, saleID, sale.Remarks)
	meta.ReferenceNumber = ref
	if sale.SaleNumber != "" {
		meta.ReferenceNumber = sale.SaleNumber
	}
	meta.Status = sale.Status
	meta.CustomerName = sale.CustomerName
	meta.Branch = sale.Branch.DisplayName()
	meta.Date = firstValid(sale.InvoicedAt, sale.CreatedAt, rec.TransactionDate)
	return &Resolution{Meta: meta, LineItems: items, Logs: stats}, nil
}

// ── Entrega ───────────────────────────────────────────────────────────────────

func (r *TransactionResolver) resolveDelivery(ctx context.Context, rec *entity.MovementRecord) (*Resolution, error) {
	deliveryID, err := movement.DeliveryIDFor(rec)
	if err != nil {
		return nil, err
	}
	del, err := r.source.GetDelivery(ctx, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("obtener entrega %d: %w", deliveryID, err)
	}
	if !del.Items.Valid {
		return nil, fmt.Errorf("%w: entrega %d", domain.ErrItemsMissing, deliveryID)
	}

	productIDs := make([]int64, 0, len(del.Items.Items))
	for _, it := range del.Items.Items {
		productIDs = append(productIDs, it.ProductID)
	}
	logs, stats := r.fetchLogs(ctx, productIDs)

	receipt := strings.TrimSpace(del.DeliveryReceiptNumber)
	matched := filterLogs(logs, func(t *entity.MovementRecord) bool {
		return receipt != "" && t.ReferenceNumber == receipt
	})

	items := make([]entity.MovementRecord, 0, len(del.Items.Items))
	for _, it := range del.Items.Items {
		items = append(items, entity.MovementRecord{
			ID:              it.ID,
			MovementType:    entity.MovementTypeDelivery,
			InventoryType:   entity.MovementTypeDelivery,
			Action:          entity.ActionDelivery,
			Quantity:        it.Quantity,
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			FromWarehouse:   it.Warehouse,
			ToBranch:        del.Branch,
			ReferenceNumber: receipt,
			DeliveredAt:     del.DeliveredAt,
			Date:            del.Date,
			CreatedAt:       del.CreatedAt,
			Status:          del.Status,
			StatusHistory:   forProduct(matched, it.ProductID),
		})
	}

	meta := r.meta(rec, movement.DomainDelivery, deliveryID, del.Remarks)
	meta.ReferenceNumber = receipt
	meta.Status = del.Status
	meta.Branch = del.Branch.DisplayName()
	meta.Date = firstValid(del.DeliveredAt, del.Date, rec.TransactionDate, del.CreatedAt)
	return &Resolution{Meta: meta, LineItems: items, Logs: stats}, nil
}

// ── Inventario (STOCK_IN / TRANSFER / RETURN / DAMAGE) ────────────────────────

func (r *TransactionResolver) resolveInventory(ctx context.Context, rec *entity.MovementRecord) (*Resolution, error) {
	inventoryID, err := movement.InventoryIDFor(rec)
	if err != nil {
		return nil, err
	}
	inv, err := r.source.GetInventory(ctx, inventoryID)
	if err != nil {
		return nil, fmt.Errorf("obtener inventario %d: %w", inventoryID, err)
	}
	if !inv.Items.Valid {
		return nil, fmt.Errorf("%w: inventario %d", domain.ErrItemsMissing, inventoryID)
	}

	typ := strings.ToUpper(strings.TrimSpace(inv.InventoryType))
	if typ == "" {
		typ = strings.ToUpper(rec.Type())
	}
	items := make([]entity.MovementRecord, 0, len(inv.Items.Items))
	for _, it := range inv.Items.Items {
		action := strings.ToUpper(strings.TrimSpace(it.Action))
		if action == "" {
			action = DefaultAction(typ)
		}
		items = append(items, entity.MovementRecord{
			ID:                   it.ID,
			MovementType:         typ,
			InventoryType:        typ,
			Action:               action,
			Quantity:             it.Quantity,
			ProductID:            it.ProductID,
			ProductName:          it.ProductName,
			FromWarehouse:        orLocation(it.FromWarehouse, inv.FromWarehouse),
			FromBranch:           orLocation(it.FromBranch, inv.FromBranch),
			ToWarehouse:          orLocation(it.ToWarehouse, inv.ToWarehouse),
			ToBranch:             orLocation(it.ToBranch, inv.ToBranch),
			ReferenceNumber:      inv.ReferenceNumber,
			TransactionDate:      inv.TransactionDate,
			VerificationDateTime: inv.VerificationDateTime,
			CreatedAt:            inv.CreatedAt,
			Status:               inv.Status,
		})
	}

	meta := r.meta(rec, movement.DomainInventory, inventoryID, inv.Remarks)
	meta.MovementType = typ
	meta.ReferenceNumber = inv.ReferenceNumber
	meta.Status = inv.Status
	meta.Date = firstValid(inv.VerificationDateTime, inv.TransactionDate, inv.CreatedAt)
	return &Resolution{Meta: meta, LineItems: items}, nil
}

// DefaultAction acción de un ítem de inventario que no la trae explícita.
func DefaultAction(inventoryType string) string {
	switch strings.ToUpper(inventoryType) {
	case entity.MovementTypeStockIn:
		return entity.ActionAdd
	case entity.MovementTypeDamage:
		return entity.ActionSubtract
	default:
		return entity.ActionProcess
	}
}

// ── Fan-out ───────────────────────────────────────────────────────────────────

// fetchLogs trae el log de cada producto en paralelo. Un miembro fallido aporta una lista
// vacía y se registra; la unión nunca se aborta. Las filas sin producto quedan asociadas
// al producto por el que se consultaron.
func (r *TransactionResolver) fetchLogs(ctx context.Context, productIDs []int64) ([]entity.MovementRecord, FanoutStats) {
	ids := uniquePositive(productIDs)
	results := make([][]entity.MovementRecord, len(ids))
	failed := make([]bool, len(ids))

	var g errgroup.Group
	g.SetLimit(r.limit)
	for i, pid := range ids {
		g.Go(func() error {
			logs, err := r.source.ListProductTransactions(ctx, pid)
			if err != nil {
				failed[i] = true
				r.log.Warn().Err(err).Int64("product_id", pid).Msg("log de producto no disponible, se continúa sin él")
				return nil
			}
			results[i] = logs
			return nil
		})
	}
	_ = g.Wait()

	stats := FanoutStats{Requested: len(ids)}
	var all []entity.MovementRecord
	for i := range ids {
		if failed[i] {
			stats.Failed++
			continue
		}
		for _, l := range results[i] {
			if l.ProductKey() == 0 {
				l.ProductID = ids[i]
			}
			all = append(all, l)
		}
	}
	return all, stats
}

func uniquePositive(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// filterLogs filtra y ordena cronológicamente ascendente (línea de tiempo hacia adelante).
// Sin fecha van al final; empates conservan el orden de llegada.
func filterLogs(logs []entity.MovementRecord, keep func(*entity.MovementRecord) bool) []entity.MovementRecord {
	out := make([]entity.MovementRecord, 0)
	for i := range logs {
		if keep(&logs[i]) {
			out = append(out, logs[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti, okI := movement.AuthoritativeTime(&out[i])
		tj, okJ := movement.AuthoritativeTime(&out[j])
		if okI != okJ {
			return okI
		}
		return okI && ti.Before(tj)
	})
	return out
}

func forProduct(logs []entity.MovementRecord, productID int64) []entity.MovementRecord {
	var out []entity.MovementRecord
	for _, l := range logs {
		if l.ProductKey() == productID {
			out = append(out, l)
		}
	}
	return out
}

func (r *TransactionResolver) meta(rec *entity.MovementRecord, dom movement.Domain, entityID int64, remarks string) DisplayMeta {
	if remarks == "" {
		remarks = rec.Remarks
	}
	m := DisplayMeta{
		Domain:         dom.String(),
		EntityID:       entityID,
		RowID:          rec.ID,
		MovementType:   strings.ToUpper(rec.Type()),
		Classification: movement.Classify(rec),
		Remarks:        remarks,
	}
	m.GeneratedBy, _ = movement.GeneratedBy(remarks)
	m.SourceWarehouse, _ = movement.SourceWarehouse(remarks)
	return m
}

func orLocation(item, header *entity.LocationRef) *entity.LocationRef {
	if entity.Present(item) {
		return item
	}
	return header
}

func firstValid(vals ...datetime.Value) *time.Time {
	for _, v := range vals {
		if v.Valid {
			t := v.Time
			return &t
		}
	}
	return nil
}
