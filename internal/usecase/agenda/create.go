package agenda

import (
	"context"
	"time"

	"github.com/NovaClinicas/clinic-scheduler/internal/audit"
	domain "github.com/NovaClinicas/clinic-scheduler/internal/domain/schedule"
	"github.com/NovaClinicas/clinic-scheduler/internal/httperr"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	ClinicID uint
	ActorID  uint

	DoctorID  uint
	PatientID uint

	Date string // YYYY-MM-DD
	Time string // HH:mm

	IsFollowUp *bool // pré-preenchido pelo avaliador; validado no servidor

	InsuranceID     *uint
	SpecialtyID     *uint
	PaymentMethodID *uint

	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	cache Cache
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	cache Cache,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: audit,
		cache: cache,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// Médico não agenda para si mesmo
	// --------------------------------------------------
	if in.ActorID == in.DoctorID {
		return nil, httperr.ErrBusiness("doctor_cannot_self_book")
	}

	doctor, err := uc.repo.GetDoctor(ctx, in.ClinicID, in.DoctorID)
	if err != nil {
		return nil, httperr.ErrBusiness("doctor_not_found")
	}

	patient, err := uc.repo.GetPatient(ctx, in.ClinicID, in.PatientID)
	if err != nil {
		return nil, httperr.ErrBusiness("patient_not_found")
	}

	// --------------------------------------------------
	// Data/hora no relógio de parede UTC (convenção de gravação)
	// --------------------------------------------------
	at, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		time.UTC,
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	// --------------------------------------------------
	// O horário precisa existir no template e não ser folga
	// --------------------------------------------------
	if err := uc.assertSlotAvailable(ctx, in.DoctorID, in.Date, at); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Conflito: um agendamento não cancelado por médico+instante
	// --------------------------------------------------
	conflict, err := uc.repo.HasConflict(ctx, in.DoctorID, at, 0)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, httperr.ErrBusiness("time_conflict")
	}

	// --------------------------------------------------
	// Janela de retorno (servidor é a autoridade sobre o flag)
	// --------------------------------------------------
	isFollowUp := uc.followUpFor(ctx, patient.ID, doctor, at)
	if in.IsFollowUp != nil && *in.IsFollowUp && !isFollowUp {
		return nil, httperr.ErrBusiness("invalid_follow_up_flag")
	}

	ap := &models.Appointment{
		ClinicID:        in.ClinicID,
		DoctorID:        in.DoctorID,
		PatientID:       in.PatientID,
		Datetime:        at,
		Status:          string(domain.InitialStatus()),
		IsFollowUp:      isFollowUp,
		IsPrivate:       in.InsuranceID == nil,
		InsuranceID:     in.InsuranceID,
		SpecialtyID:     in.SpecialtyID,
		PaymentMethodID: in.PaymentMethodID,
		Notes:           in.Notes,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: in.ClinicID,
		UserID:   &in.ActorID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	invalidateFor(ctx, uc.cache, ap)

	return ap, nil
}

// assertSlotAvailable resolve a grade da data e exige que o HH:MM exista no
// template e não esteja coberto por folga.
func (uc *CreateAppointment) assertSlotAvailable(
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

// followUpFor avalia a janela de retorno; falha na consulta degrada para
// "não é retorno" (o agendamento nunca trava por causa disso).
func (uc *CreateAppointment) followUpFor(
	ctx context.Context,
	patientID uint,
	doctor *models.User,
	at time.Time,
) bool {

	last, err := uc.repo.FindLastAppointment(ctx, patientID, doctor.ID, at)
	if err != nil {
		return false
	}

	return domain.EvaluateFollowUp(last, at, doctor.FollowUpLimitDays).IsFollowUp
}
