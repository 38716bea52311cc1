package datetime

import (
	"bytes"
	"encoding/json"
	"time"
)

// Value es una fecha opcional decodificable desde cualquiera de los formatos del backend.
// El cero (Valid=false) representa "fecha desconocida".
type Value struct {
	Time  time.Time
	Valid bool
}

// From construye un Value válido.
func From(t time.Time) Value {
	return Value{Time: t, Valid: !t.IsZero()}
}

// Ptr devuelve la fecha o nil si no es válida.
func (v Value) Ptr() *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

// UnmarshalJSON acepta null, cadenas y arreglos de partes. Un valor irreconocible
// deja Valid=false sin devolver error: una fecha mala no debe invalidar todo el registro.
func (v *Value) UnmarshalJSON(data []byte) error {
	*v = Value{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil
	}
	if t, ok := Parse(raw); ok {
		v.Time, v.Valid = t, true
	}
	return nil
}

// MarshalJSON emite RFC3339 o null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Time.Format(time.RFC3339))
}
