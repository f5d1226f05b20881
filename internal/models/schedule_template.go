package models

import "time"

// ScheduleTemplate guarda, por médico e por dia da semana (0=domingo..6=sábado),
// a lista de horários ofertados como JSON de strings "HH:MM". A ordem do JSON é
// a ordem configurada pelo médico e é preservada até a resposta.
type ScheduleTemplate struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	DoctorID uint `gorm:"index:idx_template_doctor_weekday,unique" json:"doctor_id"`

	Weekday int    `gorm:"index:idx_template_doctor_weekday,unique" json:"weekday"`
	Times   string `gorm:"type:text" json:"times"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
