package models

import "time"

// Paciente vinculado à clínica
type Patient struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	ClinicID uint `json:"clinic_id"`

	Name      string     `gorm:"size:100;not null" json:"name"`
	Phone     string     `gorm:"size:20" json:"phone"`
	Email     string     `gorm:"size:100" json:"email"`
	Document  string     `gorm:"size:20" json:"document"`
	BirthDate *time.Time `json:"birth_date"`

	InsuranceID *uint      `json:"insurance_id"`
	Insurance   *Insurance `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"insurance,omitempty"`

	Notes string `gorm:"size:255" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
