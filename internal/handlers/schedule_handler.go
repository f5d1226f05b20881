package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/NovaClinicas/clinic-scheduler/internal/httperr"
	"github.com/NovaClinicas/clinic-scheduler/internal/middleware"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
	"github.com/NovaClinicas/clinic-scheduler/internal/usecase/agenda"
)

// ======================================================
// HANDLER
// ======================================================

// ScheduleHandler cuida do template semanal do médico, das folgas e da
// grade do dia (template + folgas + agendamentos reconciliados).
type ScheduleHandler struct {
	db           *gorm.DB
	getDayAgenda *agenda.GetDayAgenda
}

func NewScheduleHandler(db *gorm.DB, getDayAgenda *agenda.GetDayAgenda) *ScheduleHandler {
	return &ScheduleHandler{
		db:           db,
		getDayAgenda: getDayAgenda,
	}
}

var hourPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ======================================================
// TEMPLATE SEMANAL
// ======================================================

func (h *ScheduleHandler) GetTemplate(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	doctorID, ok := h.doctorFromParam(c, clinicID)
	if !ok {
		return
	}

	var rows []models.ScheduleTemplate
	if err := h.db.
		Where("doctor_id = ?", doctorID).
		Order("weekday ASC").
		Find(&rows).Error; err != nil {

		httperr.Internal(c, "failed_to_get_template", "Erro ao buscar os horários.")
		return
	}

	// resposta já decodificada: weekday → lista de horários
	out := make(map[int][]string, 7)
	for wd := 0; wd <= 6; wd++ {
		out[wd] = []string{}
	}
	for _, row := range rows {
		var times []string
		if err := json.Unmarshal([]byte(row.Times), &times); err == nil {
			out[row.Weekday] = times
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"doctor_id": doctorID,
		"template":  out,
	})
}

type UpdateTemplateWeekdayRequest struct {
	Times []string `json:"times" binding:"required"`
}

// UpdateTemplateWeekday substitui a lista completa do dia (sem patch
// parcial), preservando a ordem enviada.
func (h *ScheduleHandler) UpdateTemplateWeekday(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	doctorID, ok := h.doctorFromParam(c, clinicID)
	if !ok {
		return
	}

	weekday, err := strconv.Atoi(c.Param("weekday"))
	if err != nil || weekday < 0 || weekday > 6 {
		httperr.BadRequest(c, "invalid_weekday", "Dia da semana inválido (0=domingo..6=sábado).")
		return
	}

	var req UpdateTemplateWeekdayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	for _, hm := range req.Times {
		if !hourPattern.MatchString(hm) {
			httperr.BadRequest(c, "invalid_time", "Horário inválido: "+hm)
			return
		}
	}

	encoded, err := json.Marshal(req.Times)
	if err != nil {
		httperr.Internal(c, "failed_to_encode_times", "Erro ao salvar os horários.")
		return
	}

	// substituição total da linha do dia
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("doctor_id = ? AND weekday = ?", doctorID, weekday).
			Delete(&models.ScheduleTemplate{}).Error; err != nil {
			return err
		}

		if len(req.Times) == 0 {
			return nil
		}

		return tx.Create(&models.ScheduleTemplate{
			DoctorID: doctorID,
			Weekday:  weekday,
			Times:    string(encoded),
		}).Error
	})

	if err != nil {
		httperr.Internal(c, "failed_to_save_template", "Erro ao salvar os horários.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ======================================================
// FOLGAS
// ======================================================

type CreateDayOffRequest struct {
	DatetimeStart string `json:"datetime_start" binding:"required"` // YYYY-MM-DD HH:mm
	DatetimeEnd   string `json:"datetime_end" binding:"required"`
}

func (h *ScheduleHandler) ListDaysOff(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	doctorID, ok := h.doctorFromParam(c, clinicID)
	if !ok {
		return
	}

	var daysOff []models.DayOff
	if err := h.db.
		Where("doctor_id = ?", doctorID).
		Order("datetime_start ASC").
		Find(&daysOff).Error; err != nil {

		httperr.Internal(c, "failed_to_list_days_off", "Erro ao listar as folgas.")
		return
	}

	c.JSON(http.StatusOK, daysOff)
}

func (h *ScheduleHandler) CreateDayOff(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	doctorID, ok := h.doctorFromParam(c, clinicID)
	if !ok {
		return
	}

	var req CreateDayOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	start, err := parseDateTime(req.DatetimeStart)
	if err != nil {
		httperr.BadRequest(c, "invalid_datetime_start", "Início da folga inválido.")
		return
	}

	end, err := parseDateTime(req.DatetimeEnd)
	if err != nil {
		httperr.BadRequest(c, "invalid_datetime_end", "Fim da folga inválido.")
		return
	}

	if end.Before(start) {
		httperr.BadRequest(c, "invalid_interval", "O fim da folga não pode ser antes do início.")
		return
	}

	dayOff := models.DayOff{
		DoctorID:      doctorID,
		DatetimeStart: start,
		DatetimeEnd:   end,
	}

	if err := h.db.Create(&dayOff).Error; err != nil {
		httperr.Internal(c, "failed_to_create_day_off", "Erro ao criar a folga.")
		return
	}

	c.JSON(http.StatusCreated, dayOff)
}

func (h *ScheduleHandler) DeleteDayOff(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)
	id := c.Param("id")

	// folga pertence a um médico da clínica
	var dayOff models.DayOff
	if err := h.db.
		Joins("JOIN users ON users.id = day_offs.doctor_id").
		Where("day_offs.id = ? AND users.clinic_id = ?", id, clinicID).
		First(&dayOff).Error; err != nil {

		httperr.NotFound(c, "day_off_not_found", "Folga não encontrada.")
		return
	}

	if err := h.db.Delete(&dayOff).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_day_off", "Erro ao remover a folga.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ======================================================
// GRADE DO DIA
// ======================================================

func (h *ScheduleHandler) GetAgenda(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	doctorIDStr := c.Query("doctor_id")
	dateStr := c.Query("date")

	if doctorIDStr == "" || dateStr == "" {
		httperr.BadRequest(c, "missing_params", "Médico e data obrigatórios.")
		return
	}

	doctorID, err := strconv.ParseUint(doctorIDStr, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_doctor_id", "Médico inválido.")
		return
	}

	out, err := h.getDayAgenda.Execute(
		c.Request.Context(),
		clinicID,
		uint(doctorID),
		dateStr,
	)
	if err != nil {
		if httperr.IsBusiness(err, "doctor_not_found") {
			httperr.NotFound(c, "doctor_not_found", "Médico não encontrado.")
			return
		}
		httperr.Internal(c, "agenda_failed", "Erro ao montar a agenda.")
		return
	}

	c.JSON(http.StatusOK, out)
}

// ======================================================
// HELPERS
// ======================================================

func (h *ScheduleHandler) doctorFromParam(c *gin.Context, clinicID uint) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_doctor_id", "Médico inválido.")
		return 0, false
	}

	var doctor models.User
	if err := h.db.
		Where("id = ? AND clinic_id = ? AND role = ?", id, clinicID, models.RoleDoctor).
		First(&doctor).Error; err != nil {

		httperr.NotFound(c, "doctor_not_found", "Médico não encontrado.")
		return 0, false
	}

	return doctor.ID, true
}

func parseDateTime(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", s, time.UTC)
}
