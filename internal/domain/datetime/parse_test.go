package datetime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FormatosAceptados(t *testing.T) {
	want := time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)

	cases := map[string]any{
		"iso con zona":      "2024-03-01T10:20:30Z",
		"iso sin zona":      "2024-03-01T10:20:30",
		"con espacio":       "2024-03-01 10:20:30",
		"arreglo int":       []int{2024, 3, 1, 10, 20, 30},
		"arreglo float":     []float64{2024, 3, 1, 10, 20, 30},
		"arreglo mixto":     []any{2024, "3", json.Number("1"), 10.0, 20, 30},
		"time.Time":         want,
		"puntero time.Time": &want,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			got, ok := Parse(in)
			require.True(t, ok)
			assert.True(t, want.Equal(got), "got %v", got)
		})
	}
}

func TestParse_SoloFechaYPartesCortas(t *testing.T) {
	got, ok := Parse("2024-03-01")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got)

	got, ok = Parse([]int{2024, 3, 1})
	require.True(t, ok)
	assert.Equal(t, 0, got.Hour())
}

func TestParse_ValoresInvalidos(t *testing.T) {
	var nilTime *time.Time
	for _, in := range []any{
		nil, "", "   ", "ayer", "2024-13-01",
		[]int{2024, 2, 30}, []int{2024, 13, 1}, []int{2024, 1}, []int{2024, 1, 1, 25},
		[]float64{2024, 1.5, 1}, []any{2024, "x", 1}, time.Time{}, nilTime, 42, json.Number("1714723200000"), true,
	} {
		_, ok := Parse(in)
		assert.False(t, ok, "%#v", in)
	}
}

func TestValue_JSONTolerante(t *testing.T) {
	var rec struct {
		A Value `json:"a"`
		B Value `json:"b"`
		C Value `json:"c"`
		D Value `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"2024-05-03T08:00:00Z","b":[2024,5,3,8,0],"c":null,"d":{"x":1}}`), &rec))

	assert.True(t, rec.A.Valid)
	assert.True(t, rec.B.Valid)
	assert.True(t, rec.A.Time.Equal(rec.B.Time))
	assert.False(t, rec.C.Valid)
	assert.False(t, rec.D.Valid, "forma irreconocible no invalida el registro")
	assert.Nil(t, rec.C.Ptr())

	out, err := json.Marshal(rec.A)
	require.NoError(t, err)
	assert.Equal(t, `"2024-05-03T08:00:00Z"`, string(out))
	out, err = json.Marshal(rec.C)
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}
