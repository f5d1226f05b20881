package dto

import (
	domain "github.com/NovaClinicas/clinic-scheduler/internal/domain/schedule"
)

// AgendaDTO ecoa doctor_id e date para o cliente descartar respostas de uma
// seleção que já mudou (última seleção vence).
type AgendaDTO struct {
	DoctorID uint          `json:"doctor_id"`
	Date     string        `json:"date"`
	Slots    []domain.Slot `json:"slots"`
	Notice   string        `json:"notice,omitempty"`
}

type FollowUpDTO struct {
	domain.FollowUpResult
	Price  *domain.Price `json:"price,omitempty"`
	Notice string        `json:"notice,omitempty"`
}
