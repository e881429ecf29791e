package repository

import "context"

// UsageRepository cuenta el uso actual de un recurso limitado de la empresa.
// Las consultas se ejecutan sobre la unidad de trabajo atada al tenant, así
// que el conteo ya llega filtrado por la política de almacenamiento.
type UsageRepository interface {
	// CountActive devuelve las filas activas del recurso (clave de límite del
	// plan) para la empresa del contexto vigente.
	CountActive(ctx context.Context, limitKey string) (int, error)
}
