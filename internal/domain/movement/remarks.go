package movement

import (
	"regexp"
	"strings"
)

// Extracción de subcampos codificados en las observaciones (remarks). Es inherentemente
// imprecisa: no encontrar el patrón significa "campo ausente", nunca un error.
var (
	// "FROM WAREHOUSE: Bodega Central" (hasta fin de línea, "|" o ";").
	sourceWarehouseRe = regexp.MustCompile(`(?i)FROM WAREHOUSE:\s*([^\n|;]+)`)
	// "Generated by: jdoe".
	generatedByRe = regexp.MustCompile(`(?i)Generated by:\s*([^\n|;,]+)`)
	// Primera referencia de venta embebida, p. ej. "Auto-deducted for SALE-123".
	saleInRemarksRe = regexp.MustCompile(`SALE-(\d+)`)
)

// SourceWarehouse nombre de la bodega de origen codificado en remarks.
func SourceWarehouse(remarks string) (string, bool) {
	return firstGroup(sourceWarehouseRe, remarks)
}

// GeneratedBy actor que generó el registro.
func GeneratedBy(remarks string) (string, bool) {
	return firstGroup(generatedByRe, remarks)
}

// SaleReferenceIn referencia "SALE-<n>" embebida en remarks.
func SaleReferenceIn(remarks string) (string, bool) {
	m := saleInRemarksRe.FindString(remarks)
	return m, m != ""
}

// MentionsReference indica si remarks contiene la referencia dada como token completo:
// "SALE-12" no cuenta como mención de "SALE-1".
func MentionsReference(remarks, reference string) bool {
	if reference == "" {
		return false
	}
	for rest := remarks; ; {
		i := strings.Index(rest, reference)
		if i < 0 {
			return false
		}
		after := rest[i+len(reference):]
		if after == "" || !isDigit(after[0]) {
			return true
		}
		rest = after
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func firstGroup(re *regexp.Regexp, s string) (string, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	v := strings.TrimSpace(m[1])
	return v, v != ""
}
