package entity

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// LocationRef referencia a una bodega o sucursal dentro de un movimiento.
// El backend la envía como objeto {id, name}, como id numérico o como nombre.
type LocationRef struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// UnmarshalJSON acepta objeto, número o cadena.
func (l *LocationRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*l = LocationRef{}
		return nil
	case data[0] == '{':
		type plain LocationRef
		var p plain
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*l = LocationRef(p)
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if id, err := strconv.ParseInt(s, 10, 64); err == nil {
			*l = LocationRef{ID: id}
			return nil
		}
		*l = LocationRef{Name: s}
		return nil
	default:
		id, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return err
		}
		*l = LocationRef{ID: id}
		return nil
	}
}

// Present indica si la referencia está poblada.
func Present(l *LocationRef) bool {
	return l != nil && (l.ID != 0 || l.Name != "")
}

// DisplayName nombre legible de la ubicación ("—" si no hay).
func (l *LocationRef) DisplayName() string {
	if l == nil {
		return "—"
	}
	if l.Name != "" {
		return l.Name
	}
	if l.ID != 0 {
		return "#" + strconv.FormatInt(l.ID, 10)
	}
	return "—"
}
