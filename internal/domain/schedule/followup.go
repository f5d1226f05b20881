package schedule

import (
	"fmt"
	"time"

	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

// Sentinela exibida quando o paciente nunca consultou com o médico.
// É um estado distinto de "consultou há muito tempo" e não pode virar
// string vazia.
const NoPriorVisit = "Nenhum registro"

// FollowUpResult informa se uma nova consulta cai dentro da janela de
// retorno do médico e o texto exibido sobre a última consulta.
type FollowUpResult struct {
	IsFollowUp          bool   `json:"is_follow_up"`
	LastAppointmentDate string `json:"last_appointment_date"`
}

// EvaluateFollowUp avalia a janela de retorno para a consulta em target,
// dado o último agendamento anterior do par paciente+médico (ou nil) e o
// limite de dias configurado no médico.
//
// Regras:
//   - sem consulta anterior → não é retorno, sentinela NoPriorVisit;
//   - diff <= 0 dias ou limite não configurado → não é retorno, exibe a
//     data da última consulta sem qualificador;
//   - diff >= limite → não é retorno, "mais de N dias atrás" (limite
//     exclusivo: diff == limite já não é retorno);
//   - 0 < diff < limite → retorno, "N dias atrás" ("ontem" para 1 dia).
func EvaluateFollowUp(last *models.Appointment, target time.Time, limitDays int) FollowUpResult {
	if last == nil {
		return FollowUpResult{IsFollowUp: false, LastAppointmentDate: NoPriorVisit}
	}

	diff := wholeDaysBetween(last.Datetime, target)

	if diff <= 0 || limitDays <= 0 {
		return FollowUpResult{
			IsFollowUp:          false,
			LastAppointmentDate: last.Datetime.UTC().Format("02/01/2006"),
		}
	}

	if diff >= limitDays {
		return FollowUpResult{
			IsFollowUp:          false,
			LastAppointmentDate: fmt.Sprintf("mais de %d dias atrás", limitDays),
		}
	}

	if diff == 1 {
		return FollowUpResult{IsFollowUp: true, LastAppointmentDate: "ontem"}
	}

	return FollowUpResult{
		IsFollowUp:          true,
		LastAppointmentDate: fmt.Sprintf("%d dias atrás", diff),
	}
}

// diferença em dias inteiros, truncada em direção a zero (pode ser
// negativa ou zero)
func wholeDaysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
