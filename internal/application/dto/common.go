package dto

// ErrorResponse cuerpo de error HTTP. Fields solo en errores de validación (campo → regla).
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}
