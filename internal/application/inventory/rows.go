package inventory

import (
	"strings"

	"github.com/jhoicas/inventario-admin/internal/application/dto"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
	"github.com/jhoicas/inventario-admin/internal/domain/movement"
)

// ToRowDTO proyecta un registro a la fila que muestra la tabla. Tipo efectivo, signo y
// fecha se derivan aquí en cada consulta; nunca se almacenan.
func ToRowDTO(rec *entity.MovementRecord) dto.MovementRowDTO {
	cls := movement.Classify(rec)
	sq := movement.Signed(rec)

	row := dto.MovementRowDTO{
		ID:                rec.ID,
		ReferenceNumber:   movement.ReferenceKey(rec),
		ProductID:         rec.ProductKey(),
		ProductName:       rec.ProductLabel(),
		EffectiveType:     cls.EffectiveType,
		TypeLabel:         cls.Label,
		TypeColor:         string(cls.Color),
		Action:            strings.ToUpper(rec.Action),
		Quantity:          sq.Magnitude,
		QuantityPrefix:    sq.Prefix,
		QuantityColor:     string(sq.Color),
		Status:            rec.Status,
		Remarks:           rec.Remarks,
		IsDeleted:         rec.Deleted(),
		IsLatestVersion:   rec.IsLatestVersion,
		HasHistory:        rec.HasHistory,
		VersionCount:      rec.VersionCount,
		IsPreviousVersion: rec.IsPreviousVersion,
		IsOriginal:        rec.IsOriginal,
	}
	if strings.EqualFold(rec.Type(), movement.TypeTransfer) {
		row.Direction = movement.TransferDirection(rec).String()
	}
	if t, ok := movement.AuthoritativeTime(rec); ok {
		row.Date = &t
	}
	row.From = locationName(rec.FromWarehouse, rec.FromBranch)
	row.To = locationName(rec.ToWarehouse, rec.ToBranch)
	row.GeneratedBy, _ = movement.GeneratedBy(rec.Remarks)
	row.SourceWarehouse, _ = movement.SourceWarehouse(rec.Remarks)
	if row.From == "" {
		row.From = row.SourceWarehouse
	}
	if len(rec.StatusHistory) > 0 {
		row.StatusHistory = ToRowDTOs(rec.StatusHistory)
	}
	return row
}

// ToRowDTOs proyecta una lista conservando el orden.
func ToRowDTOs(list []entity.MovementRecord) []dto.MovementRowDTO {
	out := make([]dto.MovementRowDTO, 0, len(list))
	for i := range list {
		out = append(out, ToRowDTO(&list[i]))
	}
	return out
}

func locationName(warehouse, branch *entity.LocationRef) string {
	if entity.Present(warehouse) {
		return warehouse.DisplayName()
	}
	if entity.Present(branch) {
		return branch.DisplayName()
	}
	return ""
}
