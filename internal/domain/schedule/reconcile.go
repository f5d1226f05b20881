package schedule

import (
	"time"

	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

// Slot é uma posição da grade do dia já reconciliada com os agendamentos.
type Slot struct {
	Time        string              `json:"time"`
	Status      SlotStatus          `json:"status,omitempty"`
	Appointment *models.Appointment `json:"appointment,omitempty"`
}

// Reconcile sobrepõe os agendamentos do dia nos horários resolvidos.
// Regras, na ordem (a primeira que casar vence):
//  1. folga → status "off", nunca exibe agendamento, mesmo que exista um
//     por baixo;
//  2. agendamento cujo HH:MM (relógio UTC) bate com o horário e que tem
//     paciente vinculado → status do agendamento;
//  3. caso contrário o horário fica livre (status vazio).
//
// Registros sem paciente são tratados como inexistentes.
func Reconcile(resolved []TemplateSlot, appointments []models.Appointment) []Slot {
	slots := make([]Slot, 0, len(resolved))

	for _, rs := range resolved {
		if rs.Off {
			slots = append(slots, Slot{Time: rs.Time, Status: SlotOff})
			continue
		}

		slot := Slot{Time: rs.Time}
		for i := range appointments {
			ap := &appointments[i]
			if ap.PatientID == 0 {
				continue
			}
			if ap.Datetime.UTC().Format(hourLayout) != rs.Time {
				continue
			}

			slot.Status = slotStatus(Status(ap.Status))
			slot.Appointment = ap
			break
		}

		slots = append(slots, slot)
	}

	return slots
}

func slotStatus(s Status) SlotStatus {
	switch s {
	case StatusConfirmed:
		return SlotConfirmed
	case StatusCancelled:
		return SlotCancelled
	default:
		return SlotPending
	}
}

// ===============================
// Elegibilidade de ações por slot
// ===============================
//
// Médico não agenda, edita nem remove o próprio horário; confirmação só para
// data de hoje ou passada (confirmar implica que a consulta já aconteceu).

// CanBook: slot livre e ator não é o próprio médico
func CanBook(s Slot, actorIsDoctor bool) bool {
	return s.Status == SlotAvailable && !actorIsDoctor
}

// CanEdit: agendamento pendente e ator não é o próprio médico
func CanEdit(s Slot, actorIsDoctor bool) bool {
	return s.Status == SlotPending && !actorIsDoctor
}

// CanViewDetails: qualquer slot ocupado (exceto folga)
func CanViewDetails(s Slot) bool {
	return s.Status != SlotAvailable && s.Status != SlotOff
}

// CanConfirmOn: pendente e a data da grade é hoje ou já passou
func CanConfirmOn(s Slot, slotDate, today time.Time) bool {
	if s.Status != SlotPending {
		return false
	}
	return !truncateToDay(slotDate).After(truncateToDay(today))
}

// CanRemove: pendente (não confirmado, não folga) e ator não é o médico
func CanRemove(s Slot, actorIsDoctor bool) bool {
	return s.Status == SlotPending && !actorIsDoctor
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
