package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClinicID uint   `json:"clinic_id"`
	Clinic   Clinic `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"clinic"`

	DoctorID uint `gorm:"index" json:"doctor_id"`
	Doctor   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"doctor"`

	PatientID uint    `json:"patient_id"`
	Patient   Patient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"patient"`

	// Instante absoluto (data + hora). O componente HH:MM precisa casar com um
	// horário do template do médico para aparecer na grade.
	Datetime time.Time `gorm:"index" json:"datetime"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	IsFollowUp bool `json:"is_follow_up"`
	IsPrivate  bool `json:"is_private"`

	InsuranceID *uint      `json:"insurance_id"`
	Insurance   *Insurance `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"insurance,omitempty"`

	SpecialtyID *uint      `json:"specialty_id"`
	Specialty   *Specialty `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"specialty,omitempty"`

	PaymentMethodID *uint          `json:"payment_method_id"`
	PaymentMethod   *PaymentMethod `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"payment_method,omitempty"`

	Notes       string     `gorm:"size:255" json:"notes"`
	ConfirmedAt *time.Time `json:"confirmed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
