package agenda

import (
	"context"
	"time"

	"github.com/NovaClinicas/clinic-scheduler/internal/cache"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

// Cache é o que os casos de uso precisam do Redis. *cache.Cache satisfaz e é
// seguro mesmo nulo.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

const (
	agendaTTL   = time.Minute
	followUpTTL = 5 * time.Minute
)

// invalidateFor derruba a grade do dia e as avaliações de retorno do par
// paciente+médico depois de qualquer mutação de agendamento.
func invalidateFor(ctx context.Context, c Cache, ap *models.Appointment) {
	if c == nil {
		return
	}

	date := ap.Datetime.UTC().Format("2006-01-02")
	_ = c.Delete(ctx, cache.AgendaKey(ap.DoctorID, date))
	_ = c.DeletePrefix(ctx, cache.FollowUpPrefix(ap.PatientID, ap.DoctorID))
}
