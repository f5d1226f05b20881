package agenda

import (
	"context"

	"github.com/NovaClinicas/clinic-scheduler/internal/audit"
	domain "github.com/NovaClinicas/clinic-scheduler/internal/domain/schedule"
	"github.com/NovaClinicas/clinic-scheduler/internal/httperr"
)

type DeleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	cache Cache
}

func NewDeleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	cache Cache,
) *DeleteAppointment {
	return &DeleteAppointment{
		repo:  repo,
		audit: audit,
		cache: cache,
	}
}

// Execute remove de vez um agendamento pendente (hard delete; o rastro fica
// no audit log). Confirmados não podem ser removidos.
func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	clinicID uint,
	actorID uint,
	appointmentID uint,
) error {

	ap, err := uc.repo.GetAppointment(ctx, clinicID, appointmentID)
	if err != nil {
		return httperr.ErrBusiness("appointment_not_found")
	}

	if actorID == ap.DoctorID {
		return httperr.ErrBusiness("doctor_cannot_self_cancel")
	}

	if err := domain.CanDelete(domain.Status(ap.Status)); err != nil {
		return err
	}

	if err := uc.repo.DeleteAppointment(ctx, ap); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: clinicID,
		UserID:   &actorID,
		Action:   "appointment_deleted",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	invalidateFor(ctx, uc.cache, ap)

	return nil
}
