package dto

import "github.com/shopspring/decimal"

// PlanResponse salida de un plan del catálogo.
type PlanResponse struct {
	Slug                    string          `json:"slug"`
	Name                    string          `json:"name"`
	Description             string          `json:"description"`
	PriceMonthly            decimal.Decimal `json:"price_monthly"`
	MaxProfessionals        int             `json:"max_professionals"`
	MaxUnits                int             `json:"max_units"`
	MaxClients              int             `json:"max_clients"`
	MaxAppointmentsPerMonth int             `json:"max_appointments_per_month"`
	Features                []string        `json:"features"`
	TrialDays               int             `json:"trial_days"`
}

// SubscriptionResponse salida de la suscripción vigente.
type SubscriptionResponse struct {
	PlanSlug           string  `json:"plan_slug"`
	Status             string  `json:"status"`
	TrialEnd           *string `json:"trial_end,omitempty"`
	CurrentPeriodStart string  `json:"current_period_start"`
	CurrentPeriodEnd   string  `json:"current_period_end"`
}

// ChangePlanRequest entrada para upgrade/downgrade.
type ChangePlanRequest struct {
	PlanSlug string `json:"plan_slug" validate:"required"`
}

// ActivateAddOnRequest entrada para activar un add-on.
type ActivateAddOnRequest struct {
	AddOnSlug string `json:"add_on_slug" validate:"required"`
	Trial     bool   `json:"trial"`
}

// EntitlementsResponse features y límites efectivos de la empresa.
type EntitlementsResponse struct {
	PlanSlug string         `json:"plan_slug"`
	Features []string       `json:"features"`
	Limits   map[string]int `json:"limits"`
}
