package agenda

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	domain "github.com/NovaClinicas/clinic-scheduler/internal/domain/schedule"
	"github.com/NovaClinicas/clinic-scheduler/internal/httperr"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

// ======================================================
// FAKES
// ======================================================

var errDown = errors.New("lookup indisponível")

type fakeRepo struct {
	clinic  *models.Clinic
	doctor  *models.User
	patient *models.Patient

	tpl     domain.WeekTemplate
	daysOff []domain.DayOff
	day     []models.Appointment
	last    *models.Appointment

	conflict bool

	tplErr      error
	daysOffErr  error
	dayErr      error
	lastErr     error
	conflictErr error

	created *models.Appointment
	updated *models.Appointment
	deleted *models.Appointment

	appointments map[uint]*models.Appointment
}

func (f *fakeRepo) GetClinicByID(ctx context.Context, id uint) (*models.Clinic, error) {
	if f.clinic == nil {
		return nil, errDown
	}
	return f.clinic, nil
}

func (f *fakeRepo) GetDoctor(ctx context.Context, clinicID, doctorID uint) (*models.User, error) {
	if f.doctor == nil || f.doctor.ID != doctorID {
		return nil, errDown
	}
	return f.doctor, nil
}

func (f *fakeRepo) GetPatient(ctx context.Context, clinicID, patientID uint) (*models.Patient, error) {
	if f.patient == nil || f.patient.ID != patientID {
		return nil, errDown
	}
	return f.patient, nil
}

func (f *fakeRepo) GetWeekTemplate(ctx context.Context, doctorID uint) (domain.WeekTemplate, error) {
	return f.tpl, f.tplErr
}

func (f *fakeRepo) ListDaysOff(ctx context.Context, doctorID uint) ([]domain.DayOff, error) {
	return f.daysOff, f.daysOffErr
}

func (f *fakeRepo) ListAppointmentsForDay(ctx context.Context, doctorID uint, start, end time.Time) ([]models.Appointment, error) {
	return f.day, f.dayErr
}

func (f *fakeRepo) FindLastAppointment(ctx context.Context, patientID, doctorID uint, before time.Time) (*models.Appointment, error) {
	return f.last, f.lastErr
}

func (f *fakeRepo) GetAppointment(ctx context.Context, clinicID, appointmentID uint) (*models.Appointment, error) {
	if ap, ok := f.appointments[appointmentID]; ok {
		return ap, nil
	}
	return nil, errDown
}

func (f *fakeRepo) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	ap.ID = 99
	f.created = ap
	return nil
}

func (f *fakeRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	f.updated = ap
	return nil
}

func (f *fakeRepo) DeleteAppointment(ctx context.Context, ap *models.Appointment) error {
	f.deleted = ap
	return nil
}

func (f *fakeRepo) HasConflict(ctx context.Context, doctorID uint, at time.Time, excludeID uint) (bool, error) {
	return f.conflict, f.conflictErr
}

func (f *fakeRepo) ListAppointmentsForPeriod(ctx context.Context, doctorID uint, start, end time.Time) ([]models.Appointment, error) {
	return f.day, nil
}

var _ domain.Repository = (*fakeRepo)(nil)

type fakeCache struct {
	data    map[string][]byte
	sets    []string
	deletes []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (c *fakeCache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *fakeCache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.data[key] = raw
	c.sets = append(c.sets, key)
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
		c.deletes = append(c.deletes, k)
	}
	return nil
}

func (c *fakeCache) DeletePrefix(ctx context.Context, prefix string) error {
	c.deletes = append(c.deletes, prefix+"*")
	return nil
}

func baseRepo() *fakeRepo {
	repo := &fakeRepo{
		clinic:  &models.Clinic{ID: 1, Timezone: "America/Sao_Paulo"},
		doctor:  &models.User{ID: 2, ClinicID: 1, Role: models.RoleDoctor, FollowUpLimitDays: 30, PrivatePrice: 150},
		patient: &models.Patient{ID: 3, ClinicID: 1, Name: "Maria"},

		appointments: map[uint]*models.Appointment{},
	}
	// terça com expediente
	repo.tpl[2] = []string{"08:00", "09:00"}
	return repo
}

// ======================================================
// GRADE DO DIA
// ======================================================

func TestGetDayAgendaHappyPath(t *testing.T) {
	repo := baseRepo()
	repo.day = []models.Appointment{
		{ID: 7, PatientID: 3, Status: "pending", Datetime: time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)},
	}

	c := newFakeCache()
	uc := NewGetDayAgenda(repo, c)

	out, err := uc.Execute(context.Background(), 1, 2, "2026-03-03")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	if out.DoctorID != 2 || out.Date != "2026-03-03" {
		t.Errorf("resposta deve ecoar médico e data: %+v", out)
	}
	if out.Notice != "" {
		t.Errorf("sem falhas não deveria haver aviso: %q", out.Notice)
	}
	if len(out.Slots) != 2 {
		t.Fatalf("esperava 2 slots, veio %d", len(out.Slots))
	}
	if out.Slots[1].Status != domain.SlotPending {
		t.Errorf("09:00 deveria estar pendente: %+v", out.Slots[1])
	}
	if len(c.sets) != 1 {
		t.Errorf("grade sem aviso deveria ir para o cache: %v", c.sets)
	}
}

func TestGetDayAgendaCacheHit(t *testing.T) {
	repo := baseRepo()
	c := newFakeCache()
	uc := NewGetDayAgenda(repo, c)

	first, err := uc.Execute(context.Background(), 1, 2, "2026-03-03")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	// segunda chamada não pode depender do template
	repo.tplErr = errDown

	second, err := uc.Execute(context.Background(), 1, 2, "2026-03-03")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if second.Notice != "" || len(second.Slots) != len(first.Slots) {
		t.Fatalf("segunda chamada deveria vir do cache: %+v", second)
	}
}

func TestGetDayAgendaUnknownDoctor(t *testing.T) {
	uc := NewGetDayAgenda(baseRepo(), nil)

	_, err := uc.Execute(context.Background(), 1, 42, "2026-03-03")
	if !httperr.IsBusiness(err, "doctor_not_found") {
		t.Fatalf("esperava doctor_not_found, veio %v", err)
	}
}

func TestGetDayAgendaInvalidDateDegrades(t *testing.T) {
	uc := NewGetDayAgenda(baseRepo(), nil)

	out, err := uc.Execute(context.Background(), 1, 2, "não-é-data")
	if err != nil {
		t.Fatalf("data inválida nunca vira erro: %v", err)
	}
	if len(out.Slots) != 0 {
		t.Fatalf("data inválida produz grade vazia: %+v", out.Slots)
	}
}

func TestGetDayAgendaTemplateFailureDegrades(t *testing.T) {
	repo := baseRepo()
	repo.tplErr = errDown

	uc := NewGetDayAgenda(repo, nil)

	out, err := uc.Execute(context.Background(), 1, 2, "2026-03-03")
	if err != nil {
		t.Fatalf("falha de template degrada, não erra: %v", err)
	}
	if len(out.Slots) != 0 {
		t.Errorf("sem template a grade fica vazia: %+v", out.Slots)
	}
	if out.Notice == "" {
		t.Error("degradação precisa carregar o aviso não bloqueante")
	}
}

func TestGetDayAgendaAppointmentsFailureKeepsSlots(t *testing.T) {
	repo := baseRepo()
	repo.dayErr = errDown

	c := newFakeCache()
	uc := NewGetDayAgenda(repo, c)

	out, err := uc.Execute(context.Background(), 1, 2, "2026-03-03")
	if err != nil {
		t.Fatalf("falha nos agendamentos degrada, não erra: %v", err)
	}
	if len(out.Slots) != 2 {
		t.Errorf("o template ainda deveria aparecer: %+v", out.Slots)
	}
	for _, s := range out.Slots {
		if s.Status != domain.SlotAvailable {
			t.Errorf("sem agendamentos carregados tudo fica livre: %+v", s)
		}
	}
	if out.Notice == "" {
		t.Error("degradação precisa carregar o aviso não bloqueante")
	}
	if len(c.sets) != 0 {
		t.Error("resposta degradada não pode ser cacheada")
	}
}

// ======================================================
// RETORNO / PREÇO
// ======================================================

func TestEvaluateFollowUpUsecaseMemoizes(t *testing.T) {
	repo := baseRepo()
	repo.last = &models.Appointment{ID: 5, PatientID: 3, Datetime: time.Date(2026, 2, 25, 9, 0, 0, 0, time.UTC)}

	c := newFakeCache()
	uc := NewEvaluateFollowUp(repo, c)

	target := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)

	first, err := uc.Execute(context.Background(), 1, 3, 2, target, false)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if !first.IsFollowUp {
		t.Fatalf("6 dias com limite 30 é retorno: %+v", first)
	}

	// a janela memoizada sobrevive à queda do histórico
	repo.lastErr = errDown

	second, err := uc.Execute(context.Background(), 1, 3, 2, target, false)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if !second.IsFollowUp || second.Notice != "" {
		t.Fatalf("segunda avaliação deveria vir do cache: %+v", second)
	}
}

func TestEvaluateFollowUpUsecaseDegrades(t *testing.T) {
	repo := baseRepo()
	repo.lastErr = errDown

	uc := NewEvaluateFollowUp(repo, nil)

	out, err := uc.Execute(context.Background(), 1, 3, 2, time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC), false)
	if err != nil {
		t.Fatalf("falha no histórico degrada, não erra: %v", err)
	}
	if out.IsFollowUp {
		t.Error("sem histórico confiável assume que não é retorno")
	}
	if out.LastAppointmentDate != domain.NoPriorVisit {
		t.Errorf("esperava a sentinela, veio %q", out.LastAppointmentDate)
	}
	if out.Notice == "" {
		t.Error("degradação precisa carregar o aviso não bloqueante")
	}
	if out.Price == nil || out.Price.Kind != domain.PriceFixed {
		t.Errorf("preço particular ainda deve ser calculado: %+v", out.Price)
	}
}

func TestEvaluateFollowUpUsecasePriceNotMemoized(t *testing.T) {
	repo := baseRepo()

	c := newFakeCache()
	uc := NewEvaluateFollowUp(repo, c)

	target := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)

	private, err := uc.Execute(context.Background(), 1, 3, 2, target, false)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if private.Price.Kind != domain.PriceFixed {
		t.Fatalf("particular com valor: %+v", private.Price)
	}

	// mesma janela, convênio diferente: o preço muda mesmo com cache quente
	insured, err := uc.Execute(context.Background(), 1, 3, 2, target, true)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if insured.Price.Kind != domain.PriceInsurance {
		t.Fatalf("convênio selecionado muda o preço: %+v", insured.Price)
	}
}

// ======================================================
// CRIAÇÃO
// ======================================================

func newCreateUC(repo *fakeRepo, c Cache) *CreateAppointment {
	return NewCreateAppointment(repo, nil, c)
}

func TestCreateAppointmentHappyPath(t *testing.T) {
	repo := baseRepo()
	c := newFakeCache()
	uc := newCreateUC(repo, c)

	ap, err := uc.Execute(context.Background(), CreateAppointmentInput{
		ClinicID:  1,
		ActorID:   10,
		DoctorID:  2,
		PatientID: 3,
		Date:      "2026-03-03",
		Time:      "09:00",
	})
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	if ap.Status != "pending" {
		t.Errorf("novo agendamento nasce pendente: %q", ap.Status)
	}
	if ap.IsFollowUp {
		t.Error("sem histórico não é retorno")
	}
	if !ap.IsPrivate {
		t.Error("sem convênio é particular")
	}
	if got := ap.Datetime.UTC().Format("2006-01-02 15:04"); got != "2026-03-03 09:00" {
		t.Errorf("instante gravado errado: %q", got)
	}
	if len(c.deletes) == 0 {
		t.Error("mutação deveria invalidar o cache da agenda")
	}
}

func TestCreateAppointmentDoctorCannotSelfBook(t *testing.T) {
	uc := newCreateUC(baseRepo(), nil)

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		ClinicID:  1,
		ActorID:   2, // o próprio médico
		DoctorID:  2,
		PatientID: 3,
		Date:      "2026-03-03",
		Time:      "09:00",
	})
	if !httperr.IsBusiness(err, "doctor_cannot_self_book") {
		t.Fatalf("esperava doctor_cannot_self_book, veio %v", err)
	}
}

func TestCreateAppointmentSlotNotInTemplate(t *testing.T) {
	uc := newCreateUC(baseRepo(), nil)

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		ClinicID:  1,
		ActorID:   10,
		DoctorID:  2,
		PatientID: 3,
		Date:      "2026-03-03",
		Time:      "12:00", // fora do template
	})
	if !httperr.IsBusiness(err, "slot_not_in_template") {
		t.Fatalf("esperava slot_not_in_template, veio %v", err)
	}
}

func TestCreateAppointmentDoctorUnavailable(t *testing.T) {
	repo := baseRepo()
	repo.daysOff = []domain.DayOff{{
		Start: time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC),
	}}

	uc := newCreateUC(repo, nil)

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		ClinicID:  1,
		ActorID:   10,
		DoctorID:  2,
		PatientID: 3,
		Date:      "2026-03-03",
		Time:      "09:00",
	})
	if !httperr.IsBusiness(err, "doctor_unavailable") {
		t.Fatalf("esperava doctor_unavailable, veio %v", err)
	}
}

func TestCreateAppointmentTimeConflict(t *testing.T) {
	repo := baseRepo()
	repo.conflict = true

	uc := newCreateUC(repo, nil)

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		ClinicID:  1,
		ActorID:   10,
		DoctorID:  2,
		PatientID: 3,
		Date:      "2026-03-03",
		Time:      "09:00",
	})
	if !httperr.IsBusiness(err, "time_conflict") {
		t.Fatalf("esperava time_conflict, veio %v", err)
	}
}

func TestCreateAppointmentServerOwnsFollowUpFlag(t *testing.T) {
	repo := baseRepo()
	// sem histórico: o servidor conclui que não é retorno
	claim := true

	uc := newCreateUC(repo, nil)

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		ClinicID:   1,
		ActorID:    10,
		DoctorID:   2,
		PatientID:  3,
		Date:       "2026-03-03",
		Time:       "09:00",
		IsFollowUp: &claim,
	})
	if !httperr.IsBusiness(err, "invalid_follow_up_flag") {
		t.Fatalf("esperava invalid_follow_up_flag, veio %v", err)
	}
}

func TestCreateAppointmentComputesFollowUp(t *testing.T) {
	repo := baseRepo()
	repo.last = &models.Appointment{ID: 5, PatientID: 3, Datetime: time.Date(2026, 2, 25, 9, 0, 0, 0, time.UTC)}

	uc := newCreateUC(repo, nil)

	ap, err := uc.Execute(context.Background(), CreateAppointmentInput{
		ClinicID:  1,
		ActorID:   10,
		DoctorID:  2,
		PatientID: 3,
		Date:      "2026-03-03",
		Time:      "09:00",
	})
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if !ap.IsFollowUp {
		t.Error("6 dias com limite 30 deveria ser retorno")
	}
}

// ======================================================
// CONFIRMAÇÃO / REMOÇÃO
// ======================================================

func TestConfirmAppointmentFuture(t *testing.T) {
	repo := baseRepo()
	repo.appointments[7] = &models.Appointment{
		ID: 7, ClinicID: 1, DoctorID: 2, PatientID: 3,
		Status:   "pending",
		Datetime: time.Now().UTC().AddDate(0, 0, 7),
	}

	uc := NewConfirmAppointment(repo, nil, nil)

	_, err := uc.Execute(context.Background(), 1, 10, 7)
	if !httperr.IsBusiness(err, "future_confirmation") {
		t.Fatalf("esperava future_confirmation, veio %v", err)
	}
}

func TestConfirmAppointmentPast(t *testing.T) {
	repo := baseRepo()
	repo.appointments[7] = &models.Appointment{
		ID: 7, ClinicID: 1, DoctorID: 2, PatientID: 3,
		Status:   "pending",
		Datetime: time.Now().UTC().AddDate(0, 0, -1),
	}

	c := newFakeCache()
	uc := NewConfirmAppointment(repo, nil, c)

	ap, err := uc.Execute(context.Background(), 1, 10, 7)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if ap.Status != "confirmed" || ap.ConfirmedAt == nil {
		t.Fatalf("confirmação incompleta: %+v", ap)
	}
}

func TestConfirmAppointmentAlreadyConfirmed(t *testing.T) {
	repo := baseRepo()
	repo.appointments[7] = &models.Appointment{
		ID: 7, ClinicID: 1, DoctorID: 2, PatientID: 3,
		Status:   "confirmed",
		Datetime: time.Now().UTC().AddDate(0, 0, -1),
	}

	uc := NewConfirmAppointment(repo, nil, nil)

	_, err := uc.Execute(context.Background(), 1, 10, 7)
	if !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("esperava invalid_state, veio %v", err)
	}
}

func TestDeleteAppointmentRules(t *testing.T) {
	repo := baseRepo()
	repo.appointments[7] = &models.Appointment{
		ID: 7, ClinicID: 1, DoctorID: 2, PatientID: 3,
		Status:   "pending",
		Datetime: time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC),
	}

	uc := NewDeleteAppointment(repo, nil, nil)

	// o próprio médico não remove
	err := uc.Execute(context.Background(), 1, 2, 7)
	if !httperr.IsBusiness(err, "doctor_cannot_self_cancel") {
		t.Fatalf("esperava doctor_cannot_self_cancel, veio %v", err)
	}

	// recepção remove pendente
	if err := uc.Execute(context.Background(), 1, 10, 7); err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if repo.deleted == nil || repo.deleted.ID != 7 {
		t.Fatal("o registro deveria ter sido removido")
	}

	// confirmado não sai
	repo.appointments[8] = &models.Appointment{
		ID: 8, ClinicID: 1, DoctorID: 2, PatientID: 3,
		Status:   "confirmed",
		Datetime: time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC),
	}
	err = uc.Execute(context.Background(), 1, 10, 8)
	if !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("esperava invalid_state, veio %v", err)
	}
}
