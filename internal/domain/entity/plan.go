package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnlimitedLimit es el valor centinela para "sin límite" en los límites
// numéricos de planes y add-ons. Corta en corto cualquier comparación de uso.
const UnlimitedLimit = -1

// Claves de límites numéricos de un plan.
const (
	LimitProfessionals        = "max_professionals"
	LimitUnits                = "max_units"
	LimitClients              = "max_clients"
	LimitAppointmentsPerMonth = "max_appointments_per_month"
)

// LimitKeys lista todas las claves de límite, en el orden en que se validan
// en un downgrade.
var LimitKeys = []string{
	LimitProfessionals,
	LimitUnits,
	LimitClients,
	LimitAppointmentsPerMonth,
}

// Plan es dato de referencia inmutable: solo los administradores de
// plataforma lo editan. -1 en un límite significa ilimitado.
type Plan struct {
	ID                      int64
	Slug                    string
	Name                    string
	Description             string
	PriceMonthly            decimal.Decimal
	Rank                    int // orden comercial: mayor = plan superior
	MaxProfessionals        int
	MaxUnits                int
	MaxClients              int
	MaxAppointmentsPerMonth int
	Features                []string
	TrialDays               int
	IsActive                bool
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// Limit devuelve el límite del plan para la clave dada. Clave desconocida
// devuelve 0 (nada permitido), nunca ilimitado.
func (p *Plan) Limit(key string) int {
	switch key {
	case LimitProfessionals:
		return p.MaxProfessionals
	case LimitUnits:
		return p.MaxUnits
	case LimitClients:
		return p.MaxClients
	case LimitAppointmentsPerMonth:
		return p.MaxAppointmentsPerMonth
	default:
		return 0
	}
}

// HasFeature informa si la feature está en el plan base (sin add-ons).
func (p *Plan) HasFeature(f string) bool {
	for _, pf := range p.Features {
		if pf == f {
			return true
		}
	}
	return false
}

// AddOn es una compra activable por separado que desbloquea features o
// sobreescribe límites numéricos, independiente del plan base.
type AddOn struct {
	ID              int64
	Slug            string
	Name            string
	Description     string
	PriceMonthly    decimal.Decimal
	UnlocksFeatures []string
	OverrideLimits  map[string]int
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CompanyAddOn es el registro de activación de un AddOn en una empresa.
// Nunca se borra físicamente: es historial de facturación.
type CompanyAddOn struct {
	ID              int64
	CompanyID       int64
	AddOnID         int64
	IsActive        bool
	IsTrial         bool
	TrialEnd        *time.Time
	NextBillingDate *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsEffective informa si la activación cuenta para entitlement en el
// instante dado: activa y, si es trial, sin vencer.
func (ca *CompanyAddOn) IsEffective(now time.Time) bool {
	if !ca.IsActive {
		return false
	}
	if ca.IsTrial && ca.TrialEnd != nil && !ca.TrialEnd.After(now) {
		return false
	}
	return true
}

// Estados de Subscription.
const (
	SubscriptionActive   = "active"
	SubscriptionTrial    = "trial"
	SubscriptionCanceled = "canceled"
)

// Subscription ata una empresa a su plan vigente y a la ventana de facturación.
type Subscription struct {
	ID                 int64
	CompanyID          int64
	PlanID             int64
	PlanSlug           string
	Status             string // active, trial, canceled
	TrialEnd           *time.Time
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
