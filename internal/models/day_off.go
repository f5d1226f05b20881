package models

import "time"

// Intervalo fechado de folga do médico. Atualização = apagar e recriar.
type DayOff struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	DoctorID uint `gorm:"index" json:"doctor_id"`

	DatetimeStart time.Time `json:"datetime_start"`
	DatetimeEnd   time.Time `json:"datetime_end"`

	CreatedAt time.Time `json:"created_at"`
}
