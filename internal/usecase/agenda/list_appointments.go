package agenda

import (
	"context"
	"time"

	domain "github.com/NovaClinicas/clinic-scheduler/internal/domain/schedule"
	"github.com/NovaClinicas/clinic-scheduler/internal/dto"
	"github.com/NovaClinicas/clinic-scheduler/internal/httperr"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

func (uc *ListAppointments) ByDate(
	ctx context.Context,
	clinicID uint,
	doctorID uint,
	date time.Time,
) ([]dto.AppointmentListDTO, error) {

	if _, err := uc.repo.GetDoctor(ctx, clinicID, doctorID); err != nil {
		return nil, httperr.ErrBusiness("doctor_not_found")
	}

	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	appointments, err := uc.repo.ListAppointmentsForPeriod(ctx, doctorID, start, end)
	if err != nil {
		return nil, err
	}

	return toListDTO(appointments), nil
}

func (uc *ListAppointments) ByMonth(
	ctx context.Context,
	clinicID uint,
	doctorID uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	if _, err := uc.repo.GetDoctor(ctx, clinicID, doctorID); err != nil {
		return nil, httperr.ErrBusiness("doctor_not_found")
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	appointments, err := uc.repo.ListAppointmentsForPeriod(ctx, doctorID, start, end)
	if err != nil {
		return nil, err
	}

	return toListDTO(appointments), nil
}

func toListDTO(appointments []models.Appointment) []dto.AppointmentListDTO {
	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		item := dto.AppointmentListDTO{
			ID:          ap.ID,
			Datetime:    ap.Datetime,
			Status:      ap.Status,
			IsFollowUp:  ap.IsFollowUp,
			IsPrivate:   ap.IsPrivate,
			PatientName: ap.Patient.Name,
		}
		if ap.Insurance != nil {
			item.InsuranceName = ap.Insurance.Name
		}
		out = append(out, item)
	}
	return out
}
