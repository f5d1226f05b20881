package agenda

import (
	"context"
	"time"

	"github.com/NovaClinicas/clinic-scheduler/internal/audit"
	domain "github.com/NovaClinicas/clinic-scheduler/internal/domain/schedule"
	"github.com/NovaClinicas/clinic-scheduler/internal/httperr"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

type UpdateAppointmentInput struct {
	ClinicID      uint
	ActorID       uint
	AppointmentID uint

	// Campos opcionais; nil mantém o valor atual
	Date *string
	Time *string

	InsuranceID     *uint
	ClearInsurance  bool
	SpecialtyID     *uint
	PaymentMethodID *uint
	Notes           *string
}

type UpdateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	cache Cache
}

func NewUpdateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	cache Cache,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:  repo,
		audit: audit,
		cache: cache,
	}
}

// Execute edita um agendamento ainda pendente. Mudança de data/hora refaz as
// validações de template, folga, conflito e janela de retorno.
func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, in.ClinicID, in.AppointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if in.ActorID == ap.DoctorID {
		return nil, httperr.ErrBusiness("doctor_cannot_self_edit")
	}

	if err := domain.CanUpdate(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	// agenda antiga também precisa ser invalidada se a data mudar
	previous := *ap

	rescheduled := in.Date != nil || in.Time != nil
	if rescheduled {
		date := ap.Datetime.UTC().Format("2006-01-02")
		hm := ap.Datetime.UTC().Format("15:04")
		if in.Date != nil {
			date = *in.Date
		}
		if in.Time != nil {
			hm = *in.Time
		}

		at, err := time.ParseInLocation("2006-01-02 15:04", date+" "+hm, time.UTC)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date_or_time")
		}

		if err := uc.assertSlotAvailable(ctx, ap.DoctorID, date, at); err != nil {
			return nil, err
		}

		conflict, err := uc.repo.HasConflict(ctx, ap.DoctorID, at, ap.ID)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, httperr.ErrBusiness("time_conflict")
		}

		ap.Datetime = at
	}

	if in.ClearInsurance {
		ap.InsuranceID = nil
	} else if in.InsuranceID != nil {
		ap.InsuranceID = in.InsuranceID
	}
	if in.SpecialtyID != nil {
		ap.SpecialtyID = in.SpecialtyID
	}
	if in.PaymentMethodID != nil {
		ap.PaymentMethodID = in.PaymentMethodID
	}
	if in.Notes != nil {
		ap.Notes = *in.Notes
	}
	ap.IsPrivate = ap.InsuranceID == nil

	// remarcação pode mudar a elegibilidade de retorno
	if rescheduled {
		doctor, err := uc.repo.GetDoctor(ctx, in.ClinicID, ap.DoctorID)
		if err == nil {
			last, err := uc.repo.FindLastAppointment(ctx, ap.PatientID, ap.DoctorID, ap.Datetime)
			if err == nil {
				ap.IsFollowUp = domain.EvaluateFollowUp(last, ap.Datetime, doctor.FollowUpLimitDays).IsFollowUp
			}
		}
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: in.ClinicID,
		UserID:   &in.ActorID,
		Action:   "appointment_updated",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	invalidateFor(ctx, uc.cache, &previous)
	invalidateFor(ctx, uc.cache, ap)

	return ap, nil
}

func (uc *UpdateAppointment) assertSlotAvailable(
	ctx context.Context,
	doctorID uint,
	date string,
	at time.Time,
) error {

	tpl, err := uc.repo.GetWeekTemplate(ctx, doctorID)
	if err != nil {
		return err
	}

	daysOff, err := uc.repo.ListDaysOff(ctx, doctorID)
	if err != nil {
		return err
	}

	hm := at.Format("15:04")
	for _, slot := range domain.ResolveForDate(tpl, daysOff, date) {
		if slot.Time != hm {
			continue
		}
		if slot.Off {
			return httperr.ErrBusiness("doctor_unavailable")
		}
		return nil
	}

	return httperr.ErrBusiness("slot_not_in_template")
}
