package movement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-admin/internal/domain/entity"
)

func ids(list []entity.MovementRecord) []int64 {
	out := make([]int64, 0, len(list))
	for _, r := range list {
		out = append(out, r.ID)
	}
	return out
}

func dayPtr(day int) *time.Time {
	t := time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func historyRecords() []entity.MovementRecord {
	return []entity.MovementRecord{
		{ID: 1, MovementType: "STOCK_IN", ProductName: "Tornillo", TransactionDate: on(1)},
		{ID: 2, MovementType: "TRANSFER", ToWarehouse: loc(1), Remarks: "Bodega Túnel", TransactionDate: on(2)},
		{ID: 3, MovementType: "TRANSFER", FromWarehouse: loc(1), TransactionDate: on(3), IsDeleted: true},
		{ID: 4, MovementType: "TRANSFER", FromWarehouse: loc(1), ToBranch: loc(2), TransactionDate: on(4)},
		{ID: 5, MovementType: "DAMAGE", Action: "DELETED", ReferenceNumber: "INV-9", TransactionDate: on(5)},
		{ID: 6, MovementType: "RETURN"},
	}
}

func TestFilterAndSort_EliminadosAlFinal(t *testing.T) {
	got := FilterAndSort(historyRecords(), Criteria{})
	assert.Equal(t, []int64{4, 2, 1, 6, 5, 3}, ids(got),
		"activos por fecha desc (sin fecha al final), luego eliminados")
}

func TestFilterAndSort_PorTipo(t *testing.T) {
	recs := historyRecords()
	assert.Equal(t, []int64{4, 2, 3}, ids(FilterAndSort(recs, Criteria{Type: "TRANSFER"})),
		"TRANSFER incluye ambos sentidos")
	assert.Equal(t, []int64{2}, ids(FilterAndSort(recs, Criteria{Type: "transfer_in"})))
	assert.Equal(t, []int64{3}, ids(FilterAndSort(recs, Criteria{Type: "TRANSFER_OUT"})))
	assert.Len(t, FilterAndSort(recs, Criteria{Type: "ALL"}), len(recs))
}

func TestFilterAndSort_PorEstadoYBusqueda(t *testing.T) {
	recs := historyRecords()
	assert.Equal(t, []int64{5, 3}, ids(FilterAndSort(recs, Criteria{DeletedState: "DELETED"})))
	assert.Equal(t, []int64{4, 2, 1, 6}, ids(FilterAndSort(recs, Criteria{DeletedState: "active"})))

	assert.Equal(t, []int64{2}, ids(FilterAndSort(recs, Criteria{Search: "tunel"})), "sin tildes")
	assert.Equal(t, []int64{1}, ids(FilterAndSort(recs, Criteria{Search: "TORNI"})))
	assert.Equal(t, []int64{5}, ids(FilterAndSort(recs, Criteria{Search: "inv-9"})))
	assert.Equal(t, []int64{5}, ids(FilterAndSort(recs, Criteria{Search: "damage"})), "busca en la etiqueta")
}

func TestFilterAndSort_RangoDeFechasInclusivo(t *testing.T) {
	recs := historyRecords()
	got := FilterAndSort(recs, Criteria{StartDate: dayPtr(2), EndDate: dayPtr(4)})
	assert.Equal(t, []int64{4, 2, 6, 3}, ids(got), "el fin de día es inclusivo; sin fecha no se excluye")
}

func TestDeletedCount(t *testing.T) {
	assert.Equal(t, 2, DeletedCount(historyRecords()))
	assert.Zero(t, DeletedCount(nil))
}

func TestPaginate(t *testing.T) {
	list := make([]entity.MovementRecord, 25)
	for i := range list {
		list[i].ID = int64(i + 1)
	}

	p := Paginate(list, 3, 10)
	assert.Equal(t, 3, p.TotalPages)
	require.Len(t, p.Items, 5)
	assert.Equal(t, int64(21), p.Items[0].ID)

	p = Paginate(list, 99, 0)
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, 3, p.Page, "página fuera de rango se ajusta")

	p = Paginate(nil, 0, 10)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 1, p.TotalPages)
	assert.Empty(t, p.Items)
}
