package dto

// ListRequest límite opcional para listados.
type ListRequest struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=1000"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse respuesta de /health.
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}
