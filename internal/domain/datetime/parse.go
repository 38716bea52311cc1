// Package datetime normaliza las distintas representaciones de fecha que envía el backend
// (ISO 8601, "YYYY-MM-DD HH:mm:ss", arreglos [año, mes, día, hora, min, seg]) a time.Time.
//
// Parse nunca falla con panic: cualquier valor que no represente una fecha real devuelve ok=false
// y el llamador debe tratarlo como "fecha desconocida".
package datetime

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// layouts aceptados para cadenas, en orden de prueba.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Parse convierte v en un instante. Acepta nil, string, time.Time, *time.Time y secuencias
// ordenadas de 3 a 6 partes ([]int, []int64, []float64, []any con números o dígitos).
func Parse(v any) (time.Time, bool) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return val, !val.IsZero()
	case *time.Time:
		if val == nil || val.IsZero() {
			return time.Time{}, false
		}
		return *val, true
	case string:
		return parseString(val)
	case []int:
		parts := make([]int, len(val))
		copy(parts, val)
		return fromParts(parts)
	case []int64:
		parts := make([]int, 0, len(val))
		for _, p := range val {
			parts = append(parts, int(p))
		}
		return fromParts(parts)
	case []float64:
		parts := make([]int, 0, len(val))
		for _, p := range val {
			if p != float64(int(p)) {
				return time.Time{}, false
			}
			parts = append(parts, int(p))
		}
		return fromParts(parts)
	case []any:
		parts := make([]int, 0, len(val))
		for _, p := range val {
			n, ok := toInt(p)
			if !ok {
				return time.Time{}, false
			}
			parts = append(parts, n)
		}
		return fromParts(parts)
	default:
		return time.Time{}, false
	}
}

func parseString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	// "2024-03-01 10:20:30" → "2024-03-01T10:20:30"
	if len(s) > 10 && s[10] == ' ' {
		s = s[:10] + "T" + strings.TrimSpace(s[11:])
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// fromParts construye la fecha desde [año, mes(1-12), día, hora?, min?, seg?].
// time.Date normaliza desbordes (mes 13 → enero siguiente); aquí se rechazan.
func fromParts(p []int) (time.Time, bool) {
	if len(p) < 3 || len(p) > 6 {
		return time.Time{}, false
	}
	for len(p) < 6 {
		p = append(p, 0)
	}
	year, month, day, hour, minute, sec := p[0], p[1], p[2], p[3], p[4], p[5]
	if month < 1 || month > 12 || day < 1 || day > 31 ||
		hour < 0 || hour > 23 || minute < 0 || minute > 59 || sec < 0 || sec > 59 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, hour, minute, sec, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	default:
		return 0, false
	}
}
