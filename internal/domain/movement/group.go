package movement

import (
	"sort"
	"strconv"
	"time"

	"github.com/jhoicas/inventario-admin/internal/domain/entity"
)

// ReferenceKey clave de agrupación: referenceNumber o "REF-<referenceId ?? id>".
func ReferenceKey(rec *entity.MovementRecord) string {
	if rec.ReferenceNumber != "" {
		return rec.ReferenceNumber
	}
	if rec.ReferenceID != nil {
		return "REF-" + strconv.FormatInt(*rec.ReferenceID, 10)
	}
	return "REF-" + strconv.FormatInt(rec.ID, 10)
}

// Groups resultado de Group: versiones por referencia, más reciente primero.
// Los registros son copias; las marcas de versión no alteran la entrada.
type Groups struct {
	keys   []string
	byKey  map[string][]entity.MovementRecord
	source int
}

type indexed struct {
	rec   entity.MovementRecord
	idx   int
	at    time.Time
	hasAt bool
}

// Group agrupa por referencia y ordena cada grupo por fecha autoritativa descendente.
// Desempate: un registro sin fecha nunca supera a uno con fecha; con fechas iguales
// (o ambas nulas) gana el de menor índice en la entrada.
func Group(records []entity.MovementRecord) *Groups {
	g := &Groups{byKey: make(map[string][]entity.MovementRecord), source: len(records)}
	buckets := make(map[string][]indexed)
	for i := range records {
		key := ReferenceKey(&records[i])
		if _, seen := buckets[key]; !seen {
			g.keys = append(g.keys, key)
		}
		at, ok := AuthoritativeTime(&records[i])
		buckets[key] = append(buckets[key], indexed{rec: records[i], idx: i, at: at, hasAt: ok})
	}

	for _, key := range g.keys {
		members := buckets[key]
		sort.Slice(members, func(i, j int) bool {
			return newerFirst(members[i], members[j])
		})
		out := make([]entity.MovementRecord, len(members))
		for i, m := range members {
			out[i] = m.rec
			clearVersionFlags(&out[i])
		}
		tagVersions(out)
		g.byKey[key] = out
	}
	return g
}

func newerFirst(a, b indexed) bool {
	if a.hasAt != b.hasAt {
		return a.hasAt
	}
	if a.hasAt && !a.at.Equal(b.at) {
		return a.at.After(b.at)
	}
	return a.idx < b.idx
}

func clearVersionFlags(r *entity.MovementRecord) {
	r.IsLatestVersion, r.HasHistory, r.IsPreviousVersion, r.IsOriginal = false, false, false, false
	r.VersionCount = 0
}

// tagVersions: [0] última versión, [1..n-2] anteriores, [n-1] original. Un grupo de
// un solo registro no lleva marcas.
func tagVersions(group []entity.MovementRecord) {
	n := len(group)
	if n <= 1 {
		return
	}
	group[0].IsLatestVersion = true
	group[0].HasHistory = true
	group[0].VersionCount = n
	for i := 1; i < n-1; i++ {
		group[i].IsPreviousVersion = true
	}
	group[n-1].IsOriginal = true
}

// Keys claves en orden de primera aparición.
func (g *Groups) Keys() []string {
	out := make([]string, len(g.keys))
	copy(out, g.keys)
	return out
}

// Get versiones de una referencia, más reciente primero.
func (g *Groups) Get(key string) ([]entity.MovementRecord, bool) {
	v, ok := g.byKey[key]
	return v, ok
}

// Len número de grupos.
func (g *Groups) Len() int { return len(g.keys) }

// Latest el primer elemento de cada grupo, en orden de inserción de grupos.
func (g *Groups) Latest() []entity.MovementRecord {
	out := make([]entity.MovementRecord, 0, len(g.keys))
	for _, key := range g.keys {
		out = append(out, g.byKey[key][0])
	}
	return out
}

// All todos los registros agrupados; cada registro de entrada aparece exactamente una vez.
func (g *Groups) All() []entity.MovementRecord {
	out := make([]entity.MovementRecord, 0, g.source)
	for _, key := range g.keys {
		out = append(out, g.byKey[key]...)
	}
	return out
}
