package schedule

import "github.com/NovaClinicas/clinic-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// SlotStatus anota uma posição da grade. Vazio = livre.
type SlotStatus string

const (
	SlotAvailable SlotStatus = ""
	SlotOff       SlotStatus = "off"
	SlotPending   SlotStatus = "pending"
	SlotConfirmed SlotStatus = "confirmed"
	SlotCancelled SlotStatus = "cancelled"
)

func InitialStatus() Status {
	return StatusPending
}

// CanUpdate define se um agendamento ainda aceita edição
func CanUpdate(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanConfirm valida só o estado; a regra de data fica em CanConfirmOn
func CanConfirm(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanDelete define se um agendamento pode ser removido (hard delete)
func CanDelete(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}
