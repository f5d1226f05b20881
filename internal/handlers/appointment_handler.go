package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/NovaClinicas/clinic-scheduler/internal/domain/schedule"
	"github.com/NovaClinicas/clinic-scheduler/internal/httperr"
	"github.com/NovaClinicas/clinic-scheduler/internal/middleware"
	"github.com/NovaClinicas/clinic-scheduler/internal/payments"
	"github.com/NovaClinicas/clinic-scheduler/internal/usecase/agenda"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create   *agenda.CreateAppointment
	update   *agenda.UpdateAppointment
	confirm  *agenda.ConfirmAppointment
	delete   *agenda.DeleteAppointment
	list     *agenda.ListAppointments
	followUp *agenda.EvaluateFollowUp
	repo     domain.Repository
	checkout *payments.Checkout
}

func NewAppointmentHandler(
	create *agenda.CreateAppointment,
	update *agenda.UpdateAppointment,
	confirm *agenda.ConfirmAppointment,
	delete_ *agenda.DeleteAppointment,
	list *agenda.ListAppointments,
	followUp *agenda.EvaluateFollowUp,
	repo domain.Repository,
	checkout *payments.Checkout,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:   create,
		update:   update,
		confirm:  confirm,
		delete:   delete_,
		list:     list,
		followUp: followUp,
		repo:     repo,
		checkout: checkout,
	}
}

// mensagens de negócio exibidas direto na recepção
var businessMessages = map[string]string{
	"doctor_not_found":          "Médico não encontrado.",
	"patient_not_found":         "Paciente não encontrado.",
	"appointment_not_found":     "Agendamento não encontrado.",
	"doctor_cannot_self_book":   "O médico não pode agendar uma consulta para si mesmo.",
	"doctor_cannot_self_edit":   "O médico não pode editar a própria agenda.",
	"doctor_cannot_self_cancel": "O médico não pode cancelar a própria agenda.",
	"invalid_date_or_time":      "Data ou horário inválidos.",
	"slot_not_in_template":      "Esse horário não faz parte da agenda do médico.",
	"doctor_unavailable":        "O médico está de folga nesse horário.",
	"time_conflict":             "Já existe um agendamento nesse horário.",
	"invalid_follow_up_flag":    "A marcação de retorno não confere com o histórico do paciente.",
	"invalid_state":             "O agendamento não está mais pendente.",
	"future_confirmation":       "Só é possível confirmar consultas de hoje ou de datas passadas.",
}

func writeBusiness(c *gin.Context, err error) bool {
	code := httperr.BusinessCode(err)
	if code == "" {
		return false
	}

	msg, ok := businessMessages[code]
	if !ok {
		msg = "Operação não permitida."
	}

	switch code {
	case "doctor_not_found", "patient_not_found", "appointment_not_found":
		httperr.NotFound(c, code, msg)
	case "doctor_cannot_self_book", "doctor_cannot_self_edit", "doctor_cannot_self_cancel":
		httperr.Forbidden(c, code, msg)
	case "time_conflict", "invalid_state", "future_confirmation":
		httperr.Conflict(c, code, msg)
	default:
		httperr.BadRequest(c, code, msg)
	}

	return true
}

// ======================================================
// CRIAR
// ======================================================

type CreateAppointmentRequest struct {
	DoctorID  uint   `json:"doctor_id" binding:"required"`
	PatientID uint   `json:"patient_id" binding:"required"`
	Date      string `json:"date" binding:"required"` // YYYY-MM-DD
	Time      string `json:"time" binding:"required"` // HH:mm

	IsFollowUp *bool `json:"is_follow_up"`

	InsuranceID     *uint  `json:"insurance_id"`
	SpecialtyID     *uint  `json:"specialty_id"`
	PaymentMethodID *uint  `json:"payment_method_id"`
	Notes           string `json:"notes"`
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)
	actorID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), agenda.CreateAppointmentInput{
		ClinicID:        clinicID,
		ActorID:         actorID,
		DoctorID:        req.DoctorID,
		PatientID:       req.PatientID,
		Date:            req.Date,
		Time:            req.Time,
		IsFollowUp:      req.IsFollowUp,
		InsuranceID:     req.InsuranceID,
		SpecialtyID:     req.SpecialtyID,
		PaymentMethodID: req.PaymentMethodID,
		Notes:           req.Notes,
	})
	if err != nil {
		if writeBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_create_appointment", "Erro ao criar o agendamento.")
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// EDITAR
// ======================================================

type UpdateAppointmentRequest struct {
	Date *string `json:"date"`
	Time *string `json:"time"`

	InsuranceID     *uint   `json:"insurance_id"`
	ClearInsurance  bool    `json:"clear_insurance"`
	SpecialtyID     *uint   `json:"specialty_id"`
	PaymentMethodID *uint   `json:"payment_method_id"`
	Notes           *string `json:"notes"`
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)
	actorID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := idFromParam(c)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.update.Execute(c.Request.Context(), agenda.UpdateAppointmentInput{
		ClinicID:        clinicID,
		ActorID:         actorID,
		AppointmentID:   id,
		Date:            req.Date,
		Time:            req.Time,
		InsuranceID:     req.InsuranceID,
		ClearInsurance:  req.ClearInsurance,
		SpecialtyID:     req.SpecialtyID,
		PaymentMethodID: req.PaymentMethodID,
		Notes:           req.Notes,
	})
	if err != nil {
		if writeBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_update_appointment", "Erro ao editar o agendamento.")
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// CONFIRMAR / REMOVER
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)
	actorID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := idFromParam(c)
	if !ok {
		return
	}

	ap, err := h.confirm.Execute(c.Request.Context(), clinicID, actorID, id)
	if err != nil {
		if writeBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_confirm_appointment", "Erro ao confirmar o agendamento.")
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)
	actorID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := idFromParam(c)
	if !ok {
		return
	}

	if err := h.delete.Execute(c.Request.Context(), clinicID, actorID, id); err != nil {
		if writeBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_delete_appointment", "Erro ao remover o agendamento.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ======================================================
// LISTAGENS
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	doctorID, err := strconv.ParseUint(c.Query("doctor_id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_doctor_id", "Médico inválido.")
		return
	}

	date, err := time.ParseInLocation("2006-01-02", c.Query("date"), time.UTC)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	out, err := h.list.ByDate(c.Request.Context(), clinicID, uint(doctorID), date)
	if err != nil {
		if writeBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_list_appointments", "Erro ao listar os agendamentos.")
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	doctorID, err := strconv.ParseUint(c.Query("doctor_id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_doctor_id", "Médico inválido.")
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Ano inválido.")
		return
	}

	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Mês inválido.")
		return
	}

	out, err := h.list.ByMonth(c.Request.Context(), clinicID, uint(doctorID), year, month)
	if err != nil {
		if writeBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_list_appointments", "Erro ao listar os agendamentos.")
		return
	}

	c.JSON(http.StatusOK, out)
}

// ======================================================
// PRÉVIA DE RETORNO / PREÇO
// ======================================================

// FollowUpPreview responde, antes de salvar, se a consulta pretendida cai na
// janela de retorno do médico e qual o preço resultante. Usado pela recepção
// ao preencher o formulário de agendamento.
func (h *AppointmentHandler) FollowUpPreview(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	patientID, err := strconv.ParseUint(c.Query("patient_id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_patient_id", "Paciente inválido.")
		return
	}

	doctorID, err := strconv.ParseUint(c.Query("doctor_id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_doctor_id", "Médico inválido.")
		return
	}

	dateStr := c.Query("date")
	hm := c.DefaultQuery("time", "00:00")

	target, err := time.ParseInLocation("2006-01-02 15:04", dateStr+" "+hm, time.UTC)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	insuranceSelected := c.Query("insurance_id") != ""

	out, err := h.followUp.Execute(
		c.Request.Context(),
		clinicID,
		uint(patientID),
		uint(doctorID),
		target,
		insuranceSelected,
	)
	if err != nil {
		if writeBusiness(c, err) {
			return
		}
		httperr.Internal(c, "follow_up_failed", "Erro ao avaliar o retorno.")
		return
	}

	c.JSON(http.StatusOK, out)
}

// ======================================================
// CHECKOUT
// ======================================================

// CreateCheckout gera um link de pagamento para uma consulta particular com
// valor configurado. Retornos e consultas de convênio não têm cobrança.
func (h *AppointmentHandler) CreateCheckout(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	if h.checkout == nil {
		httperr.BadRequest(c, "checkout_disabled", "Pagamentos online não estão configurados.")
		return
	}

	id, ok := idFromParam(c)
	if !ok {
		return
	}

	ap, err := h.repo.GetAppointment(c.Request.Context(), clinicID, id)
	if err != nil {
		httperr.NotFound(c, "appointment_not_found", "Agendamento não encontrado.")
		return
	}

	price := domain.AppointmentPrice(ap.IsFollowUp, ap.InsuranceID != nil, ap.Doctor.PrivatePrice)
	if price.Kind != domain.PriceFixed {
		httperr.BadRequest(c, "not_billable", "Essa consulta não tem cobrança particular.")
		return
	}

	link, err := h.checkout.LinkFor(c.Request.Context(), ap, ap.Doctor.Name, price.Amount)
	if err != nil {
		httperr.Internal(c, "checkout_failed", "Erro ao gerar o link de pagamento.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"appointment_id": ap.ID,
		"amount":         price.Amount,
		"label":          price.Label,
		"checkout_url":   link,
	})
}

// ======================================================
// HELPERS
// ======================================================

func idFromParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return 0, false
	}
	return uint(id), true
}
