package schedule

import (
	"context"
	"time"

	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

type Repository interface {
	// -------- Clinic --------
	GetClinicByID(
		ctx context.Context,
		id uint,
	) (*models.Clinic, error)

	// -------- Doctor --------
	GetDoctor(
		ctx context.Context,
		clinicID uint,
		doctorID uint,
	) (*models.User, error)

	// -------- Patient --------
	GetPatient(
		ctx context.Context,
		clinicID uint,
		patientID uint,
	) (*models.Patient, error)

	// -------- Availability inputs --------
	GetWeekTemplate(
		ctx context.Context,
		doctorID uint,
	) (WeekTemplate, error)

	ListDaysOff(
		ctx context.Context,
		doctorID uint,
	) ([]DayOff, error)

	ListAppointmentsForDay(
		ctx context.Context,
		doctorID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// -------- Follow-up --------
	FindLastAppointment(
		ctx context.Context,
		patientID uint,
		doctorID uint,
		before time.Time,
	) (*models.Appointment, error)

	// -------- Appointment CRUD --------
	GetAppointment(
		ctx context.Context,
		clinicID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// HasConflict diz se já existe agendamento não cancelado do médico no
	// mesmo instante (excludeID ignora o próprio registro em edições).
	HasConflict(
		ctx context.Context,
		doctorID uint,
		at time.Time,
		excludeID uint,
	) (bool, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		doctorID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}
