package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-admin/internal/application/dto"
	"github.com/jhoicas/inventario-admin/internal/application/ports"
	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.ReloadEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, ev ports.ReloadEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) views() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.View)
	}
	return out
}

type stubExporter struct {
	rows []entity.MovementRecord
}

func (s *stubExporter) HistoryWorkbook(rows []entity.MovementRecord) ([]byte, error) {
	s.rows = rows
	return []byte("xlsx"), nil
}

func historyFixture() []entity.MovementRecord {
	return []entity.MovementRecord{
		{ID: 1, MovementType: "STOCK_IN", Action: "ADD", Quantity: 5, ReferenceNumber: "INV-9", ProductName: "Tornillo", VerificationDateTime: at(1, 8)},
		{ID: 2, MovementType: "STOCK_IN", Action: "ADD", Quantity: 6, ReferenceNumber: "INV-9", ProductName: "Tornillo", VerificationDateTime: at(2, 8)},
		{ID: 3, MovementType: "STOCK_IN", Action: "ADD", Quantity: 7, ReferenceNumber: "INV-9", ProductName: "Tornillo", VerificationDateTime: at(3, 8)},
		{ID: 4, MovementType: "DAMAGE", Action: "SUBTRACT", Quantity: 1, ReferenceNumber: "INV-10", ProductName: "Tuerca", TransactionDate: at(4, 8)},
		{ID: 5, MovementType: "TRANSFER", Action: "ADD", Quantity: 2, ReferenceNumber: "INV-11", ProductName: "Arandela", ToBranch: loc(1, "Norte"), TransactionDate: at(5, 8), IsDeleted: true},
		{ID: 1000002, MovementType: "DELIVERY", Action: "DELIVERY", Quantity: 3, ReferenceNumber: "DR-2", ProductName: "Clavo", DeliveredAt: at(6, 8), IsDeleted: true},
	}
}

func TestHistory_UltimaVersionFiltradaYPaginada(t *testing.T) {
	fb := &fakeBackend{transactions: historyFixture()}
	uc := NewHistoryUseCase(fb, fb, nil, nil, nil, 2, 0)

	res, err := uc.History(context.Background(), dto.HistoryQuery{})
	require.NoError(t, err)

	assert.Equal(t, 4, res.Total, "una fila por referencia")
	assert.Equal(t, 2, res.TotalPages)
	assert.Equal(t, 2, res.DeletedCount)
	assert.True(t, res.CanPurge)
	require.Len(t, res.Items, 2)

	top := res.Items[1]
	assert.Equal(t, int64(3), top.ID)
	assert.True(t, top.IsLatestVersion)
	assert.True(t, top.HasHistory)
	assert.Equal(t, 3, top.VersionCount)
	assert.Equal(t, "+", top.QuantityPrefix)

	res, err = uc.History(context.Background(), dto.HistoryQuery{Page: 2})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	for _, row := range res.Items {
		assert.True(t, row.IsDeleted, "los eliminados quedan al final")
	}
}

func TestHistory_FiltroPorTipoYEstado(t *testing.T) {
	fb := &fakeBackend{transactions: historyFixture()}
	uc := NewHistoryUseCase(fb, fb, nil, nil, nil, 50, 0)

	res, err := uc.History(context.Background(), dto.HistoryQuery{Type: "TRANSFER_IN"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Transfer In", res.Items[0].TypeLabel)
	assert.Equal(t, "IN", res.Items[0].Direction)

	res, err = uc.History(context.Background(), dto.HistoryQuery{DeletedState: "ACTIVE"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.False(t, res.CanPurge)
}

func TestHistory_RangoDeFechasInvalido(t *testing.T) {
	fb := &fakeBackend{transactions: historyFixture()}
	uc := NewHistoryUseCase(fb, fb, nil, nil, nil, 0, 0)

	_, err := uc.History(context.Background(), dto.HistoryQuery{StartDate: "2024-05-10", EndDate: "2024-05-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.History(context.Background(), dto.HistoryQuery{StartDate: "10/05/2024"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHistory_BackendNoDisponible(t *testing.T) {
	fb := &fakeBackend{listErr: domain.ErrBackendUnavailable}
	uc := NewHistoryUseCase(fb, fb, nil, nil, nil, 0, 0)

	res, err := uc.History(context.Background(), dto.HistoryQuery{})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestVersions_GrupoCompletoMasNuevaPrimero(t *testing.T) {
	fb := &fakeBackend{transactions: historyFixture()}
	uc := NewHistoryUseCase(fb, fb, nil, nil, nil, 0, 0)

	res, err := uc.Versions(context.Background(), "INV-9")
	require.NoError(t, err)
	require.Len(t, res.Versions, 3)
	assert.Equal(t, int64(3), res.Versions[0].ID)
	assert.True(t, res.Versions[1].IsPreviousVersion)
	assert.True(t, res.Versions[2].IsOriginal)

	_, err = uc.Versions(context.Background(), "NO-EXISTE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductHistory_NoAgrupa(t *testing.T) {
	fb := &fakeBackend{productLogs: map[int64][]entity.MovementRecord{
		10: {
			{ID: 1, ProductID: 10, ReferenceNumber: "SALE-1", Action: "RESERVE", CreatedAt: at(1, 8)},
			{ID: 2, ProductID: 10, ReferenceNumber: "SALE-1", Action: "INVOICED", CreatedAt: at(1, 9)},
		},
	}}
	uc := NewHistoryUseCase(fb, fb, nil, nil, nil, 0, 0)

	res, err := uc.ProductHistory(context.Background(), 10, dto.HistoryQuery{})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, int64(2), res.Items[0].ID)

	_, err = uc.ProductHistory(context.Background(), 0, dto.HistoryQuery{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPurgeDeleted_ResumenYOmitidos(t *testing.T) {
	records := historyFixture()
	records = append(records, entity.MovementRecord{ID: 8, MovementType: "RETURN", ReferenceNumber: "INV-12", Action: "DELETED", TransactionDate: at(7, 8)})
	fb := &fakeBackend{transactions: records, deleteFail: map[int64]bool{8: true}}
	pub := &recordingPublisher{}
	uc := NewHistoryUseCase(fb, fb, nil, pub, nil, 0, 2)

	sum, err := uc.PurgeDeleted(context.Background(), dto.HistoryQuery{})
	require.NoError(t, err)

	assert.Equal(t, 3, sum.Requested)
	assert.Equal(t, 1, sum.Succeeded)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 1, sum.Skipped, "fila de entrega no admite borrado de inventario")
	assert.Equal(t, []int64{8}, sum.FailedIDs)
	assert.Equal(t, []int64{5}, fb.deletedIDs)
	assert.Equal(t, []string{ports.ViewHistory}, pub.views())
}

func TestPurgeDeleted_SinEliminadosNoPublica(t *testing.T) {
	fb := &fakeBackend{transactions: historyFixture()[:4]}
	pub := &recordingPublisher{}
	uc := NewHistoryUseCase(fb, fb, nil, pub, nil, 0, 0)

	sum, err := uc.PurgeDeleted(context.Background(), dto.HistoryQuery{})
	require.NoError(t, err)
	assert.Equal(t, dto.PurgeSummary{}, *sum)
	assert.Empty(t, pub.views())
}

func TestExportHistory_UsaListaFiltradaCompleta(t *testing.T) {
	fb := &fakeBackend{transactions: historyFixture()}
	exp := &stubExporter{}
	uc := NewHistoryUseCase(fb, fb, exp, nil, nil, 1, 0)

	data, err := uc.ExportHistory(context.Background(), dto.HistoryQuery{Search: "tornillo"})
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx"), data)
	require.Len(t, exp.rows, 1)
	assert.Equal(t, int64(3), exp.rows[0].ID)
}

func TestStock_ConfirmarReleeEnOrdenYPublica(t *testing.T) {
	fb := &fakeBackend{
		warehouse: []entity.WarehouseStock{{ProductID: 1, WarehouseID: 2, Quantity: 10}},
		branch:    []entity.BranchStock{{ProductID: 1, BranchID: 3, Quantity: 4}},
	}
	pub := &recordingPublisher{}
	uc := NewStockUseCase(fb, fb, pub, nil)

	res, err := uc.ConfirmInventory(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, []string{"confirm:12", "warehouse-stock", "branch-stock"}, fb.calls)
	assert.Equal(t, []string{ports.ViewHistory, ports.ViewStock}, pub.views())
	require.Len(t, res.WarehouseStock, 1)
	assert.Equal(t, int64(10), res.WarehouseStock[0].Quantity)
	require.Len(t, res.BranchStock, 1)
}

func TestStock_ConfirmacionFallidaNoRelee(t *testing.T) {
	fb := &fakeBackend{confirmErr: domain.ErrEntityGone}
	pub := &recordingPublisher{}
	uc := NewStockUseCase(fb, fb, pub, nil)

	_, err := uc.ConfirmInventory(context.Background(), 12)
	assert.ErrorIs(t, err, domain.ErrEntityGone)
	assert.Equal(t, []string{"confirm:12"}, fb.calls)
	assert.Empty(t, pub.views())
}

func TestStock_PublicacionFallidaNoEsError(t *testing.T) {
	fb := &fakeBackend{}
	pub := &recordingPublisher{err: errors.New("redis caído")}
	uc := NewStockUseCase(fb, fb, pub, nil)

	_, err := uc.ConfirmInventory(context.Background(), 3)
	assert.NoError(t, err)

	_, err = uc.ConfirmInventory(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInventoryID)
}
