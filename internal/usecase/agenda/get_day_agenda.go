package agenda

import (
	"context"
	"time"

	"github.com/NovaClinicas/clinic-scheduler/internal/cache"
	domain "github.com/NovaClinicas/clinic-scheduler/internal/domain/schedule"
	"github.com/NovaClinicas/clinic-scheduler/internal/dto"
	"github.com/NovaClinicas/clinic-scheduler/internal/httperr"
)

// Aviso não bloqueante quando alguma consulta auxiliar falhou: a grade
// continua utilizável, apenas incompleta.
const noticePartialAgenda = "Não foi possível carregar todos os dados da agenda. Atualize para tentar novamente."

type GetDayAgenda struct {
	repo  domain.Repository
	cache Cache
}

func NewGetDayAgenda(repo domain.Repository, cache Cache) *GetDayAgenda {
	return &GetDayAgenda{repo: repo, cache: cache}
}

// Execute monta a grade do dia: resolve o template semanal para a data,
// sobrepõe folgas e agendamentos. Data inválida e dia sem expediente
// produzem grade vazia, nunca erro.
func (uc *GetDayAgenda) Execute(
	ctx context.Context,
	clinicID uint,
	doctorID uint,
	date string,
) (*dto.AgendaDTO, error) {

	if _, err := uc.repo.GetDoctor(ctx, clinicID, doctorID); err != nil {
		return nil, httperr.ErrBusiness("doctor_not_found")
	}

	out := &dto.AgendaDTO{
		DoctorID: doctorID,
		Date:     date,
		Slots:    []domain.Slot{},
	}

	key := cache.AgendaKey(doctorID, date)
	if uc.cache != nil {
		var cached dto.AgendaDTO
		if hit, err := uc.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	tpl, err := uc.repo.GetWeekTemplate(ctx, doctorID)
	if err != nil {
		// sem template não há o que exibir; degrada para grade vazia
		out.Notice = noticePartialAgenda
		return out, nil
	}

	daysOff, err := uc.repo.ListDaysOff(ctx, doctorID)
	if err != nil {
		daysOff = nil
		out.Notice = noticePartialAgenda
	}

	resolved := domain.ResolveForDate(tpl, daysOff, date)
	if len(resolved) == 0 {
		return out, nil
	}

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return out, nil
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	appointments, err := uc.repo.ListAppointmentsForDay(ctx, doctorID, start, end)
	if err != nil {
		appointments = nil
		out.Notice = noticePartialAgenda
	}

	out.Slots = domain.Reconcile(resolved, appointments)

	if uc.cache != nil && out.Notice == "" {
		_ = uc.cache.SetJSON(ctx, key, out, agendaTTL)
	}

	return out, nil
}
