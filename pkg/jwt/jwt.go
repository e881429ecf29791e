package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Tipos de token emitidos.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Scope distingue principals de plataforma de principals de empresa; el
// company_id del token NO se confía por sí solo: los flujos scope=company
// re-validan la membresía contra la base en cada request.
type Claims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"user_id"`
	CompanyID int64  `json:"company_id,omitempty"` // 0 cuando scope=platform
	Role      string `json:"role"`
	Scope     string `json:"scope"` // "platform" | "company"
	Type      string `json:"type"`  // "access" | "refresh"
}

// Params campos de negocio para emitir un token.
type Params struct {
	UserID    int64
	CompanyID int64
	Role      string
	Scope     string
	Type      string
	Issuer    string
	ExpMins   int
}

// Generate genera un token JWT HS256 firmado con los claims de la aplicación.
func Generate(secret string, p Params) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.Issuer,
			Subject:   fmt.Sprintf("%d", p.UserID),
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(p.ExpMins) * time.Minute)),
		},
		UserID:    p.UserID,
		CompanyID: p.CompanyID,
		Role:      p.Role,
		Scope:     p.Scope,
		Type:      p.Type,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GeneratePair emite el par access+refresh con los mismos claims de negocio.
func GeneratePair(secret string, p Params, accessMins, refreshMins int) (access, refresh string, err error) {
	p.Type = TypeAccess
	p.ExpMins = accessMins
	access, err = Generate(secret, p)
	if err != nil {
		return "", "", err
	}
	p.Type = TypeRefresh
	p.ExpMins = refreshMins
	refresh, err = Generate(secret, p)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Parse valida firma y expiración y devuelve los claims.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}
