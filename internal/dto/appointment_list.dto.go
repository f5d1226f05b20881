package dto

import "time"

type AppointmentListDTO struct {
	ID            uint      `json:"id"`
	Datetime      time.Time `json:"datetime"`
	Status        string    `json:"status"`
	IsFollowUp    bool      `json:"is_follow_up"`
	IsPrivate     bool      `json:"is_private"`
	PatientName   string    `json:"patient_name"`
	InsuranceName string    `json:"insurance_name,omitempty"`
}
