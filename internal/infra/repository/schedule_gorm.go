package repository

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	domain "github.com/NovaClinicas/clinic-scheduler/internal/domain/schedule"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// --------------------------------------------------
// Clinic
// --------------------------------------------------

func (r *ScheduleGormRepository) GetClinicByID(
	ctx context.Context,
	id uint,
) (*models.Clinic, error) {

	var clinic models.Clinic
	if err := r.db.WithContext(ctx).First(&clinic, id).Error; err != nil {
		return nil, err
	}
	return &clinic, nil
}

// --------------------------------------------------
// Doctor / Patient
// --------------------------------------------------

func (r *ScheduleGormRepository) GetDoctor(
	ctx context.Context,
	clinicID uint,
	doctorID uint,
) (*models.User, error) {

	var doctor models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND clinic_id = ? AND role = ?", doctorID, clinicID, models.RoleDoctor).
		First(&doctor).Error; err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (r *ScheduleGormRepository) GetPatient(
	ctx context.Context,
	clinicID uint,
	patientID uint,
) (*models.Patient, error) {

	var patient models.Patient
	if err := r.db.WithContext(ctx).
		Where("id = ? AND clinic_id = ?", patientID, clinicID).
		First(&patient).Error; err != nil {
		return nil, err
	}
	return &patient, nil
}

// --------------------------------------------------
// Availability inputs
// --------------------------------------------------

// GetWeekTemplate carrega as linhas por dia da semana e decodifica o JSON de
// horários uma única vez, aqui na borda. O domínio só vê o tipo forte.
func (r *ScheduleGormRepository) GetWeekTemplate(
	ctx context.Context,
	doctorID uint,
) (domain.WeekTemplate, error) {

	var rows []models.ScheduleTemplate
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Find(&rows).Error; err != nil {
		return domain.WeekTemplate{}, err
	}

	var tpl domain.WeekTemplate
	for _, row := range rows {
		if row.Weekday < 0 || row.Weekday > 6 || row.Times == "" {
			continue
		}

		var times []string
		if err := json.Unmarshal([]byte(row.Times), &times); err != nil {
			// linha corrompida: dia fica sem expediente
			continue
		}
		tpl[row.Weekday] = times
	}

	return tpl, nil
}

func (r *ScheduleGormRepository) ListDaysOff(
	ctx context.Context,
	doctorID uint,
) ([]domain.DayOff, error) {

	var rows []models.DayOff
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("datetime_start ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.DayOff, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.DayOff{
			ID:    row.ID,
			Start: row.DatetimeStart,
			End:   row.DatetimeEnd,
		})
	}
	return out, nil
}

func (r *ScheduleGormRepository) ListAppointmentsForDay(
	ctx context.Context,
	doctorID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Insurance").
		Preload("Specialty").
		Preload("PaymentMethod").
		Where(
			"doctor_id = ? AND datetime >= ? AND datetime < ?",
			doctorID, start, end,
		).
		Order("datetime ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	return aps, nil
}

// --------------------------------------------------
// Follow-up
// --------------------------------------------------

func (r *ScheduleGormRepository) FindLastAppointment(
	ctx context.Context,
	patientID uint,
	doctorID uint,
	before time.Time,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.db.WithContext(ctx).
		Where(
			"patient_id = ? AND doctor_id = ? AND status <> ? AND datetime < ?",
			patientID, doctorID, string(domain.StatusCancelled), before,
		).
		Order("datetime DESC").
		First(&ap).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &ap, nil
}

// --------------------------------------------------
// Appointment CRUD
// --------------------------------------------------

func (r *ScheduleGormRepository) GetAppointment(
	ctx context.Context,
	clinicID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor").
		Where("id = ? AND clinic_id = ?", appointmentID, clinicID).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *ScheduleGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *ScheduleGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *ScheduleGormRepository) DeleteAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Delete(ap).Error
}

func (r *ScheduleGormRepository) HasConflict(
	ctx context.Context,
	doctorID uint,
	at time.Time,
	excludeID uint,
) (bool, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"doctor_id = ? AND datetime = ? AND status <> ?",
			doctorID, at, string(domain.StatusCancelled),
		)

	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *ScheduleGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	doctorID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Insurance").
		Where(
			"doctor_id = ? AND datetime >= ? AND datetime < ?",
			doctorID, start, end,
		).
		Order("datetime ASC").
		Find(&aps).Error

	if err != nil {
		return nil, err
	}

	return aps, nil
}

// Compile-time check
var _ domain.Repository = (*ScheduleGormRepository)(nil)
