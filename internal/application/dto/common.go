package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FeatureDeniedResponse cuerpo de rechazo por feature no incluida en el plan.
// Lleva lo necesario para que el frontend arme el prompt de upgrade.
type FeatureDeniedResponse struct {
	Message         string `json:"message"`
	Feature         string `json:"feature"`
	CurrentPlan     string `json:"current_plan"`
	RequiredPlan    string `json:"required_plan"`
	UpgradeRequired bool   `json:"upgrade_required"`
}

// LimitExceededResponse cuerpo de rechazo por límite del plan alcanzado
// (HTTP 402). Current y Limit permiten mostrar "8 de 8 profesionales".
type LimitExceededResponse struct {
	Message  string `json:"message"`
	Resource string `json:"resource"`
	Plan     string `json:"plan"`
	Current  int    `json:"current"`
	Limit    int    `json:"limit"`
}
