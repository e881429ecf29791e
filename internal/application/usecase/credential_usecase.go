package usecase

import (
	"context"
	"time"

	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/entity"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/internal/domain/repository"
	"github.com/AndryllSolutions/SAAS-agendamento-saas-sub002/pkg/apikey"
)

// CredentialService emite, lista, revoca y verifica credenciales de API.
// api_credentials es superficie de autenticación: la verificación ocurre
// antes de fijar contexto de tenant, y es la credencial la que determina a
// qué empresa queda atado el request.
type CredentialService struct {
	credentials repository.APICredentialRepository
	companies   repository.CompanyRepository
	prefix      string
}

// NewCredentialService construye el servicio de credenciales.
func NewCredentialService(credentials repository.APICredentialRepository, companies repository.CompanyRepository, prefix string) *CredentialService {
	return &CredentialService{credentials: credentials, companies: companies, prefix: prefix}
}

// Create emite una credencial nueva. El plaintext se devuelve una única vez;
// en base quedan solo el prefijo de lookup y el digest.
func (s *CredentialService) Create(ctx context.Context, companyID int64, name string, scopes []string, expiresInDays int) (*entity.APICredential, string, error) {
	plaintext, lookupPrefix, digest, err := apikey.Generate(s.prefix)
	if err != nil {
		return nil, "", err
	}
	now := time.Now()
	cred := &entity.APICredential{
		CompanyID: companyID,
		Name:      name,
		KeyPrefix: lookupPrefix,
		KeyHash:   digest,
		Scopes:    scopes,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if expiresInDays > 0 {
		exp := now.AddDate(0, 0, expiresInDays)
		cred.ExpiresAt = &exp
	}
	if err := s.credentials.Create(ctx, cred); err != nil {
		return nil, "", err
	}
	return cred, plaintext, nil
}

// List devuelve las credenciales de la empresa (sin hash ni plaintext en la
// capa HTTP; aquí viaja la entidad completa).
func (s *CredentialService) List(ctx context.Context, companyID int64) ([]*entity.APICredential, error) {
	return s.credentials.ListByCompany(ctx, companyID)
}

// Revoke desactiva una credencial de la empresa. No hay re-activación: una
// credencial comprometida se revoca y se emite otra.
func (s *CredentialService) Revoke(ctx context.Context, companyID, credentialID int64) error {
	cred, err := s.credentials.GetByID(ctx, credentialID)
	if err != nil {
		return err
	}
	if cred == nil || cred.CompanyID != companyID {
		return domain.ErrNotFound
	}
	cred.Revoke(time.Now())
	return s.credentials.Update(ctx, cred)
}

// Verify resuelve una llave presentada a su credencial y empresa.
// Orden de chequeo: lookup por prefijo, digest en tiempo constante, vigencia,
// empresa activa. Los tres primeros fallan con ErrCredentialInvalid genérico;
// la empresa desactivada falla con ErrTenantInactive, distinguible porque la
// credencial en sí es válida. Cada verificación exitosa toca last_used_at y
// usage_count, también en llamadas de solo lectura.
func (s *CredentialService) Verify(ctx context.Context, presented string) (*entity.APICredential, error) {
	if len(presented) < apikey.PrefixLookupLen {
		return nil, domain.ErrCredentialInvalid
	}
	cred, err := s.credentials.GetByPrefix(ctx, presented[:apikey.PrefixLookupLen])
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, domain.ErrCredentialInvalid
	}
	if !apikey.Verify(presented, cred.KeyHash) {
		return nil, domain.ErrCredentialInvalid
	}
	if !cred.IsValid(time.Now()) {
		return nil, domain.ErrCredentialInvalid
	}
	company, err := s.companies.GetByID(ctx, cred.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil || !company.IsActive {
		return nil, domain.ErrTenantInactive
	}
	if err := s.credentials.TouchUsage(ctx, cred.ID); err != nil {
		return nil, err
	}
	return cred, nil
}
