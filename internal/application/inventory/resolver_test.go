package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/datetime"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
)

// fakeBackend implementación en memoria de los puertos de lectura del paquete.
type fakeBackend struct {
	mu sync.Mutex

	transactions []entity.MovementRecord
	listErr      error

	sales       map[int64]*entity.Sale
	deliveries  map[int64]*entity.Delivery
	inventories map[int64]*entity.Inventory
	productLogs map[int64][]entity.MovementRecord
	failLogs    map[int64]bool

	warehouse []entity.WarehouseStock
	branch    []entity.BranchStock

	deleteFail map[int64]bool
	confirmErr error

	calls      []string
	getCalls   atomic.Int32
	logCalls   atomic.Int32
	deletedIDs []int64
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeBackend) ListTransactions(ctx context.Context) ([]entity.MovementRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]entity.MovementRecord, len(f.transactions))
	copy(out, f.transactions)
	return out, nil
}

func (f *fakeBackend) ListProductTransactions(ctx context.Context, productID int64) ([]entity.MovementRecord, error) {
	f.logCalls.Add(1)
	if f.failLogs[productID] {
		return nil, fmt.Errorf("%w: log %d", domain.ErrBackendUnavailable, productID)
	}
	return f.productLogs[productID], nil
}

func (f *fakeBackend) GetSale(ctx context.Context, saleID int64) (*entity.Sale, error) {
	f.getCalls.Add(1)
	if s, ok := f.sales[saleID]; ok {
		return s, nil
	}
	return nil, domain.ErrEntityGone
}

func (f *fakeBackend) GetDelivery(ctx context.Context, deliveryID int64) (*entity.Delivery, error) {
	f.getCalls.Add(1)
	if d, ok := f.deliveries[deliveryID]; ok {
		return d, nil
	}
	return nil, domain.ErrEntityGone
}

func (f *fakeBackend) GetInventory(ctx context.Context, inventoryID int64) (*entity.Inventory, error) {
	f.getCalls.Add(1)
	if inv, ok := f.inventories[inventoryID]; ok {
		return inv, nil
	}
	return nil, domain.ErrEntityGone
}

func (f *fakeBackend) ConfirmInventory(ctx context.Context, inventoryID int64) error {
	f.record(fmt.Sprintf("confirm:%d", inventoryID))
	return f.confirmErr
}

func (f *fakeBackend) DeleteInventory(ctx context.Context, inventoryID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteFail[inventoryID] {
		return errors.New("rechazado")
	}
	f.deletedIDs = append(f.deletedIDs, inventoryID)
	return nil
}

func (f *fakeBackend) ListWarehouseStock(ctx context.Context, productID int64) ([]entity.WarehouseStock, error) {
	f.record("warehouse-stock")
	return f.warehouse, nil
}

func (f *fakeBackend) ListBranchStock(ctx context.Context, productID int64) ([]entity.BranchStock, error) {
	f.record("branch-stock")
	return f.branch, nil
}

func at(day, hour int) datetime.Value {
	return datetime.From(time.Date(2024, 5, day, hour, 0, 0, 0, time.UTC))
}

func loc(id int64, name string) *entity.LocationRef {
	return &entity.LocationRef{ID: id, Name: name}
}

func refID(v int64) *int64 { return &v }

func TestResolve_VentaPorIDDesplazado(t *testing.T) {
	fb := &fakeBackend{
		sales: map[int64]*entity.Sale{
			123: {
				ID:         123,
				Branch:     loc(4, "Sucursal Norte"),
				Status:     "INVOICED",
				InvoicedAt: at(10, 9),
				Remarks:    "Generated by: caja1",
				Items: entity.NewItemList(
					entity.SaleItem{ID: 1, ProductID: 10, ProductName: "Tornillo", Quantity: 3},
					entity.SaleItem{ID: 2, ProductID: 20, ProductName: "Tuerca", Quantity: 1},
				),
			},
		},
		productLogs: map[int64][]entity.MovementRecord{
			10: {
				{ID: 90, ProductID: 10, ReferenceNumber: "SALE-123", Action: "INVOICED", CreatedAt: at(10, 12)},
				{ID: 91, ProductID: 10, ReferenceNumber: "X", ReferenceID: refID(123), Action: "RESERVE", CreatedAt: at(10, 8)},
				{ID: 92, ProductID: 10, ReferenceNumber: "SALE-1234", Action: "RESERVE", CreatedAt: at(10, 7)},
			},
			20: {
				{ID: 93, ProductID: 20, Remarks: "Auto-deducted for SALE-123", Action: "SUBTRACT", CreatedAt: at(10, 10)},
			},
		},
	}
	r := NewTransactionResolver(fb, nil, 2)

	res, err := r.Resolve(context.Background(), &entity.MovementRecord{ID: 2000123, MovementType: "SALE"})
	require.NoError(t, err)

	assert.Equal(t, "sale", res.Meta.Domain)
	assert.Equal(t, int64(123), res.Meta.EntityID)
	assert.Equal(t, "caja1", res.Meta.GeneratedBy)
	assert.Equal(t, "Sucursal Norte", res.Meta.Branch)
	require.Len(t, res.LineItems, 2)

	first := res.LineItems[0]
	assert.Equal(t, entity.ActionSubtract, first.Action)
	assert.Equal(t, entity.MovementTypeSale, first.InventoryType)
	assert.Equal(t, "SALE-123", first.ReferenceNumber)
	assert.Equal(t, "Sucursal Norte", first.FromBranch.Name)
	require.Len(t, first.StatusHistory, 2, "SALE-1234 no debe coincidir con SALE-123")
	assert.Equal(t, int64(91), first.StatusHistory[0].ID, "orden cronológico ascendente")
	assert.Equal(t, int64(90), first.StatusHistory[1].ID)

	require.Len(t, res.LineItems[1].StatusHistory, 1)
	assert.Equal(t, int64(93), res.LineItems[1].StatusHistory[0].ID)
	assert.Equal(t, FanoutStats{Requested: 2}, res.Logs)
}

func TestResolve_LogSinProductoSeAsociaAlProductoConsultado(t *testing.T) {
	fb := &fakeBackend{
		sales: map[int64]*entity.Sale{
			123: {ID: 123, Items: entity.NewItemList(entity.SaleItem{ID: 1, ProductID: 10, Quantity: 1})},
		},
		productLogs: map[int64][]entity.MovementRecord{
			10: {{ID: 900, ReferenceNumber: "SALE-123", CreatedAt: at(2, 8)}},
		},
	}
	r := NewTransactionResolver(fb, nil, 0)

	res, err := r.Resolve(context.Background(), &entity.MovementRecord{ID: 2000123, MovementType: "SALE"})
	require.NoError(t, err)
	require.Len(t, res.LineItems, 1)
	require.Len(t, res.LineItems[0].StatusHistory, 1)
	assert.Equal(t, int64(900), res.LineItems[0].StatusHistory[0].ID)
	assert.Equal(t, int64(10), res.LineItems[0].StatusHistory[0].ProductID)
	assert.Zero(t, fb.productLogs[10][0].ProductID, "la respuesta del backend no se modifica")
}

func TestResolve_EntregaLogSinProducto(t *testing.T) {
	fb := &fakeBackend{
		deliveries: map[int64]*entity.Delivery{
			8: {
				ID:                    8,
				DeliveryReceiptNumber: "DR-8",
				Items: entity.NewItemList(
					entity.DeliveryItem{ID: 1, ProductID: 10, Quantity: 1},
					entity.DeliveryItem{ID: 2, ProductID: 20, Quantity: 1},
				),
			},
		},
		productLogs: map[int64][]entity.MovementRecord{
			20: {{ID: 501, ReferenceNumber: "DR-8", MovementType: "DELIVERY"}},
		},
	}
	r := NewTransactionResolver(fb, nil, 0)

	res, err := r.Resolve(context.Background(), &entity.MovementRecord{ID: 1000008, MovementType: "DELIVERY"})
	require.NoError(t, err)
	require.Len(t, res.LineItems, 2)
	assert.Empty(t, res.LineItems[0].StatusHistory)
	require.Len(t, res.LineItems[1].StatusHistory, 1)
	assert.Equal(t, int64(501), res.LineItems[1].StatusHistory[0].ID)
}

func TestResolve_VentaPorReferencia(t *testing.T) {
	fb := &fakeBackend{
		sales: map[int64]*entity.Sale{55: {ID: 55, Items: entity.NewItemList[entity.SaleItem]()}},
	}
	r := NewTransactionResolver(fb, nil, 0)

	res, err := r.Resolve(context.Background(), &entity.MovementRecord{MovementType: "SALE", ReferenceNumber: "SALE-55"})
	require.NoError(t, err)
	assert.Equal(t, int64(55), res.Meta.EntityID)
	assert.Empty(t, res.LineItems)
}

func TestResolve_VentaIDInvalidoNoLlamaAlBackend(t *testing.T) {
	fb := &fakeBackend{}
	r := NewTransactionResolver(fb, nil, 0)

	_, err := r.Resolve(context.Background(), &entity.MovementRecord{ID: 0, MovementType: "SALE"})
	assert.ErrorIs(t, err, domain.ErrInvalidSaleID)
	assert.Zero(t, fb.getCalls.Load())
}

func TestResolve_VentaSinItems(t *testing.T) {
	fb := &fakeBackend{sales: map[int64]*entity.Sale{7: {ID: 7}}}
	r := NewTransactionResolver(fb, nil, 0)

	res, err := r.Resolve(context.Background(), &entity.MovementRecord{ID: 2000007, MovementType: "SALE"})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrItemsMissing)
}

func TestResolve_EntregaEInventarioSinItems(t *testing.T) {
	fb := &fakeBackend{
		deliveries:  map[int64]*entity.Delivery{6: {ID: 6, DeliveryReceiptNumber: "DR-6"}},
		inventories: map[int64]*entity.Inventory{30: {ID: 30, InventoryType: "STOCK_IN"}},
	}
	r := NewTransactionResolver(fb, nil, 0)

	res, err := r.Resolve(context.Background(), &entity.MovementRecord{ID: 1000006, MovementType: "DELIVERY"})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrItemsMissing)

	res, err = r.Resolve(context.Background(), &entity.MovementRecord{ID: 30, MovementType: "STOCK_IN"})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrItemsMissing)
	assert.Zero(t, fb.logCalls.Load(), "sin ítems no hay fan-out")
}

func TestResolve_ItemsQueNoSonArreglo(t *testing.T) {
	var del entity.Delivery
	require.NoError(t, json.Unmarshal([]byte(`{"id":6,"items":{"productId":1}}`), &del))
	var inv entity.Inventory
	require.NoError(t, json.Unmarshal([]byte(`{"id":30,"items":"n/a"}`), &inv))

	fb := &fakeBackend{
		deliveries:  map[int64]*entity.Delivery{6: &del},
		inventories: map[int64]*entity.Inventory{30: &inv},
	}
	r := NewTransactionResolver(fb, nil, 0)

	_, err := r.Resolve(context.Background(), &entity.MovementRecord{ID: 1000006, MovementType: "DELIVERY"})
	assert.ErrorIs(t, err, domain.ErrItemsMissing)
	_, err = r.Resolve(context.Background(), &entity.MovementRecord{ID: 30, MovementType: "DAMAGE"})
	assert.ErrorIs(t, err, domain.ErrItemsMissing)
}

func TestResolve_VentaEliminadaEnBackend(t *testing.T) {
	r := NewTransactionResolver(&fakeBackend{}, nil, 0)

	_, err := r.Resolve(context.Background(), &entity.MovementRecord{ID: 2000008, MovementType: "SALE"})
	assert.ErrorIs(t, err, domain.ErrEntityGone)
}

func TestResolve_FalloParcialDelFanOutNoAborta(t *testing.T) {
	fb := &fakeBackend{
		deliveries: map[int64]*entity.Delivery{
			5: {
				ID:                    5,
				DeliveryReceiptNumber: "DR-5",
				Branch:                loc(2, "Sucursal Sur"),
				Items: entity.NewItemList(
					entity.DeliveryItem{ID: 1, ProductID: 10, Quantity: 4, Warehouse: loc(1, "Central")},
					entity.DeliveryItem{ID: 2, ProductID: 20, Quantity: 6, Warehouse: loc(3, "Bodega Este")},
					entity.DeliveryItem{ID: 3, ProductID: 10, Quantity: 1, Warehouse: loc(1, "Central")},
				),
			},
		},
		productLogs: map[int64][]entity.MovementRecord{
			10: {
				{ID: 70, ProductID: 10, ReferenceNumber: "DR-5", DeliveredAt: at(3, 9), MovementType: "DELIVERY"},
				{ID: 71, ProductID: 10, ReferenceNumber: "DR-50", DeliveredAt: at(3, 9), MovementType: "DELIVERY"},
			},
		},
		failLogs: map[int64]bool{20: true},
	}
	r := NewTransactionResolver(fb, nil, 4)

	res, err := r.Resolve(context.Background(), &entity.MovementRecord{ID: 1000005, MovementType: "DELIVERY"})
	require.NoError(t, err)

	assert.Equal(t, int32(2), fb.logCalls.Load(), "un fetch por producto distinto")
	assert.Equal(t, FanoutStats{Requested: 2, Failed: 1}, res.Logs)
	require.Len(t, res.LineItems, 3)

	a, b := res.LineItems[0], res.LineItems[1]
	assert.Equal(t, entity.ActionDelivery, a.Action)
	assert.Equal(t, "Central", a.FromWarehouse.Name)
	assert.Equal(t, "Bodega Este", b.FromWarehouse.Name, "bodega por ítem")
	assert.Equal(t, "Sucursal Sur", a.ToBranch.Name)
	assert.Equal(t, "Sucursal Sur", b.ToBranch.Name)
	require.Len(t, a.StatusHistory, 1)
	assert.Equal(t, int64(70), a.StatusHistory[0].ID)
	assert.Empty(t, b.StatusHistory)
}

func TestResolve_EntregaIDNoPositivo(t *testing.T) {
	r := NewTransactionResolver(&fakeBackend{}, nil, 0)

	_, err := r.Resolve(context.Background(), &entity.MovementRecord{ID: -3, MovementType: "DELIVERY"})
	assert.ErrorIs(t, err, domain.ErrInvalidDeliveryID)
}

func TestResolve_InventarioConIDDeOtroRangoEsAmbiguo(t *testing.T) {
	fb := &fakeBackend{}
	r := NewTransactionResolver(fb, nil, 0)

	for _, id := range []int64{1000001, 2000001} {
		_, err := r.Resolve(context.Background(), &entity.MovementRecord{ID: id, MovementType: "STOCK_IN"})
		assert.ErrorIs(t, err, domain.ErrAmbiguousID)
	}
	assert.Zero(t, fb.getCalls.Load(), "no se consulta ninguna entidad")
}

func TestResolve_InventarioMapeaItemsUnoAUno(t *testing.T) {
	fb := &fakeBackend{
		inventories: map[int64]*entity.Inventory{
			40: {
				ID:              40,
				InventoryType:   "DAMAGE",
				ReferenceNumber: "INV-40",
				FromWarehouse:   loc(1, "Central"),
				Remarks:         "FROM WAREHOUSE: Central | Generated by: ana",
				Items: entity.NewItemList(
					entity.InventoryItem{ID: 1, ProductID: 10, Quantity: 2},
					entity.InventoryItem{ID: 2, ProductID: 11, Quantity: 1, Action: "add"},
				),
			},
			41: {ID: 41, InventoryType: "RETURN", Items: entity.NewItemList(entity.InventoryItem{ID: 3, ProductID: 12})},
		},
	}
	r := NewTransactionResolver(fb, nil, 0)

	res, err := r.Resolve(context.Background(), &entity.MovementRecord{ID: 40, MovementType: "DAMAGE"})
	require.NoError(t, err)
	require.Len(t, res.LineItems, 2)
	assert.Equal(t, entity.ActionSubtract, res.LineItems[0].Action)
	assert.Equal(t, entity.ActionAdd, res.LineItems[1].Action)
	assert.Equal(t, "Central", res.LineItems[0].FromWarehouse.Name, "ubicación de cabecera")
	assert.Equal(t, "Central", res.Meta.SourceWarehouse)
	assert.Equal(t, "ana", res.Meta.GeneratedBy)
	assert.Zero(t, fb.logCalls.Load())

	res, err = r.Resolve(context.Background(), &entity.MovementRecord{ID: 41, MovementType: "RETURN"})
	require.NoError(t, err)
	assert.Equal(t, entity.ActionProcess, res.LineItems[0].Action)
}

func TestDefaultAction(t *testing.T) {
	assert.Equal(t, entity.ActionAdd, DefaultAction("STOCK_IN"))
	assert.Equal(t, entity.ActionSubtract, DefaultAction("damage"))
	assert.Equal(t, entity.ActionProcess, DefaultAction("TRANSFER"))
	assert.Equal(t, entity.ActionProcess, DefaultAction(""))
}

func TestResolve_RegistroNil(t *testing.T) {
	r := NewTransactionResolver(&fakeBackend{}, nil, 0)
	_, err := r.Resolve(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
