package movement

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/inventario-admin/internal/domain/entity"
)

// Filtros del historial.
const (
	TypeAll = "ALL"

	DeletedStateAll     = "ALL"
	DeletedStateActive  = "ACTIVE"
	DeletedStateDeleted = "DELETED"
)

// Criteria filtros compuestos del historial. Campos vacíos o nil no restringen.
type Criteria struct {
	Search       string
	Type         string
	DeletedState string
	StartDate    *time.Time
	EndDate      *time.Time // inclusivo hasta las 23:59:59.999999999 de ese día
}

// FilterAndSort aplica los cuatro predicados y ordena: primero los activos, luego los
// eliminados; dentro de cada partición, fecha autoritativa descendente (sin fecha al final).
// El orden es estable respecto a la entrada.
func FilterAndSort(records []entity.MovementRecord, c Criteria) []entity.MovementRecord {
	needle := fold(strings.TrimSpace(c.Search))
	typ := strings.ToUpper(strings.TrimSpace(c.Type))
	state := strings.ToUpper(strings.TrimSpace(c.DeletedState))

	var end time.Time
	if c.EndDate != nil {
		y, m, d := c.EndDate.Date()
		end = time.Date(y, m, d, 0, 0, 0, 0, c.EndDate.Location()).AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	out := make([]entity.MovementRecord, 0, len(records))
	for i := range records {
		rec := &records[i]
		if needle != "" && !matchesSearch(rec, needle) {
			continue
		}
		if !MatchesType(rec, typ) {
			continue
		}
		if !matchesDeletedState(rec, state) {
			continue
		}
		if at, ok := AuthoritativeTime(rec); ok {
			if c.StartDate != nil && at.Before(*c.StartDate) {
				continue
			}
			if c.EndDate != nil && at.After(end) {
				continue
			}
		}
		out = append(out, *rec)
	}
	SortForDisplay(out)
	return out
}

// SortForDisplay orden final del historial (estable): eliminados al final, fecha descendente.
func SortForDisplay(list []entity.MovementRecord) {
	type entry struct {
		rec     entity.MovementRecord
		deleted bool
		at      time.Time
		hasAt   bool
	}
	entries := make([]entry, len(list))
	for i := range list {
		at, ok := AuthoritativeTime(&list[i])
		entries[i] = entry{rec: list[i], deleted: list[i].Deleted(), at: at, hasAt: ok}
	}
	sort.SliceStable(entries, func(a, b int) bool {
		ea, eb := entries[a], entries[b]
		if ea.deleted != eb.deleted {
			return !ea.deleted
		}
		if ea.hasAt != eb.hasAt {
			return ea.hasAt
		}
		return ea.hasAt && ea.at.After(eb.at)
	})
	for i := range entries {
		list[i] = entries[i].rec
	}
}

// MatchesType filtro por tipo. TRANSFER_IN/OUT se resuelven por presencia de ubicaciones;
// TRANSFER coincide con todo traslado almacenado, sin importar el sentido.
func MatchesType(rec *entity.MovementRecord, typ string) bool {
	switch typ {
	case "", TypeAll:
		return true
	case TypeTransferIn, TypeTransferOut:
		return EffectiveType(rec) == typ
	default:
		return strings.ToUpper(rec.Type()) == typ
	}
}

func matchesDeletedState(rec *entity.MovementRecord, state string) bool {
	switch state {
	case DeletedStateActive:
		return !rec.Deleted()
	case DeletedStateDeleted:
		return rec.Deleted()
	default:
		return true
	}
}

func matchesSearch(rec *entity.MovementRecord, needle string) bool {
	for _, hay := range []string{rec.ProductLabel(), rec.ReferenceNumber, rec.Remarks, Label(rec)} {
		if hay != "" && strings.Contains(fold(hay), needle) {
			return true
		}
	}
	return false
}

// fold normaliza para búsqueda: sin tildes y sin distinción de mayúsculas ("Bodega Túnel" ≈ "tunel").
func fold(s string) string {
	if s == "" {
		return s
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}

// DeletedCount registros eliminados en la lista (habilita la purga masiva).
func DeletedCount(list []entity.MovementRecord) int {
	n := 0
	for i := range list {
		if list[i].Deleted() {
			n++
		}
	}
	return n
}

// ── Paginación ────────────────────────────────────────────────────────────────

// Page página de resultados del historial.
type Page struct {
	Items      []entity.MovementRecord `json:"items"`
	Page       int                     `json:"page"`
	PageSize   int                     `json:"pageSize"`
	Total      int                     `json:"total"`
	TotalPages int                     `json:"totalPages"`
}

// Paginate corta la lista en páginas de size (1-based). page fuera de rango se ajusta.
func Paginate(list []entity.MovementRecord, page, size int) Page {
	if size <= 0 {
		size = 10
	}
	total := len(list)
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	items := make([]entity.MovementRecord, end-start)
	copy(items, list[start:end])
	return Page{Items: items, Page: page, PageSize: size, Total: total, TotalPages: pages}
}
