package agenda

import (
	"context"

	"github.com/NovaClinicas/clinic-scheduler/internal/audit"
	domain "github.com/NovaClinicas/clinic-scheduler/internal/domain/schedule"
	"github.com/NovaClinicas/clinic-scheduler/internal/httperr"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
	"github.com/NovaClinicas/clinic-scheduler/internal/timezone"
)

type ConfirmAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	cache Cache
}

func NewConfirmAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	cache Cache,
) *ConfirmAppointment {
	return &ConfirmAppointment{
		repo:  repo,
		audit: audit,
		cache: cache,
	}
}

// Execute confirma um agendamento pendente. Confirmar significa que a
// consulta aconteceu, então só vale para hoje ou datas passadas.
func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	clinicID uint,
	actorID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	clinic, err := uc.repo.GetClinicByID(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointment(ctx, clinicID, appointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if err := domain.CanConfirm(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	now := timezone.NowIn(clinic.Timezone)
	slot := domain.Slot{Status: domain.SlotPending}
	if !domain.CanConfirmOn(slot, ap.Datetime.UTC(), now) {
		return nil, httperr.ErrBusiness("future_confirmation")
	}

	ap.Status = string(domain.StatusConfirmed)
	ap.ConfirmedAt = &now

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: clinicID,
		UserID:   &actorID,
		Action:   "appointment_confirmed",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	invalidateFor(ctx, uc.cache, ap)

	return ap, nil
}
