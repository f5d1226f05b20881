package agenda

import (
	"context"
	"time"

	"github.com/NovaClinicas/clinic-scheduler/internal/cache"
	domain "github.com/NovaClinicas/clinic-scheduler/internal/domain/schedule"
	"github.com/NovaClinicas/clinic-scheduler/internal/dto"
	"github.com/NovaClinicas/clinic-scheduler/internal/httperr"
)

const noticeFollowUpUnavailable = "Não foi possível consultar a última visita do paciente."

type EvaluateFollowUp struct {
	repo  domain.Repository
	cache Cache
}

func NewEvaluateFollowUp(repo domain.Repository, cache Cache) *EvaluateFollowUp {
	return &EvaluateFollowUp{repo: repo, cache: cache}
}

// Execute avalia a janela de retorno para uma consulta em target e o preço
// resultante. O resultado da janela é memoizado por (paciente, médico, data);
// o preço depende do convênio selecionado e é sempre recalculado.
//
// Falha na consulta da última visita degrada para "não é retorno" com a
// sentinela de nenhum registro, mais um aviso não bloqueante: o fluxo de
// agendamento nunca trava por causa dessa consulta auxiliar.
func (uc *EvaluateFollowUp) Execute(
	ctx context.Context,
	clinicID uint,
	patientID uint,
	doctorID uint,
	target time.Time,
	insuranceSelected bool,
) (*dto.FollowUpDTO, error) {

	doctor, err := uc.repo.GetDoctor(ctx, clinicID, doctorID)
	if err != nil {
		return nil, httperr.ErrBusiness("doctor_not_found")
	}

	if _, err := uc.repo.GetPatient(ctx, clinicID, patientID); err != nil {
		return nil, httperr.ErrBusiness("patient_not_found")
	}

	result, notice := uc.windowFor(ctx, patientID, doctorID, doctor.FollowUpLimitDays, target)

	price := domain.AppointmentPrice(result.IsFollowUp, insuranceSelected, doctor.PrivatePrice)

	return &dto.FollowUpDTO{
		FollowUpResult: result,
		Price:          &price,
		Notice:         notice,
	}, nil
}

func (uc *EvaluateFollowUp) windowFor(
	ctx context.Context,
	patientID uint,
	doctorID uint,
	limitDays int,
	target time.Time,
) (domain.FollowUpResult, string) {

	key := cache.FollowUpKey(patientID, doctorID, target.UTC().Format("2006-01-02"))

	if uc.cache != nil {
		var cached domain.FollowUpResult
		if hit, err := uc.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return cached, ""
		}
	}

	last, err := uc.repo.FindLastAppointment(ctx, patientID, doctorID, target)
	if err != nil {
		return domain.FollowUpResult{
			IsFollowUp:          false,
			LastAppointmentDate: domain.NoPriorVisit,
		}, noticeFollowUpUnavailable
	}

	result := domain.EvaluateFollowUp(last, target, limitDays)

	if uc.cache != nil {
		_ = uc.cache.SetJSON(ctx, key, result, followUpTTL)
	}

	return result, ""
}
