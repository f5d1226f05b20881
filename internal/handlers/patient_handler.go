package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/NovaClinicas/clinic-scheduler/internal/httpresp"
	"github.com/NovaClinicas/clinic-scheduler/internal/middleware"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

type PatientHandler struct {
	db *gorm.DB
}

func NewPatientHandler(db *gorm.DB) *PatientHandler {
	return &PatientHandler{db: db}
}

// --------- Requests ---------

type CreatePatientRequest struct {
	Name        string  `json:"name" binding:"required"`
	Phone       string  `json:"phone"`
	Email       string  `json:"email"`
	Document    string  `json:"document"`
	BirthDate   *string `json:"birth_date"` // YYYY-MM-DD
	InsuranceID *uint   `json:"insurance_id"`
	Notes       string  `json:"notes"`
}

type UpdatePatientRequest struct {
	Name        *string `json:"name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty"`
	Document    *string `json:"document,omitempty"`
	BirthDate   *string `json:"birth_date,omitempty"`
	InsuranceID *uint   `json:"insurance_id,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// ======================================================
// LIST (com busca por nome/telefone/documento)
// ======================================================
func (h *PatientHandler) List(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Where("clinic_id = ?", clinicID)

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR document LIKE ?",
			like, like, like,
		)
	}

	var patients []models.Patient
	if err := q.
		Preload("Insurance").
		Order("name ASC").
		Find(&patients).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed_to_list_patients",
		})
		return
	}

	httpresp.List(c, patients)
}

func (h *PatientHandler) Get(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)
	id := c.Param("id")

	var patient models.Patient
	if err := h.db.
		Preload("Insurance").
		Where("id = ? AND clinic_id = ?", id, clinicID).
		First(&patient).Error; err != nil {

		c.JSON(http.StatusNotFound, gin.H{"error": "patient_not_found"})
		return
	}

	c.JSON(http.StatusOK, patient)
}

func (h *PatientHandler) Create(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	var req CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	patient := models.Patient{
		ClinicID:    clinicID,
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Document:    req.Document,
		InsuranceID: req.InsuranceID,
		Notes:       req.Notes,
	}

	if req.BirthDate != nil && *req.BirthDate != "" {
		birth, err := time.Parse("2006-01-02", *req.BirthDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_birth_date"})
			return
		}
		patient.BirthDate = &birth
	}

	if err := h.db.Create(&patient).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_patient"})
		return
	}

	c.JSON(http.StatusCreated, patient)
}

func (h *PatientHandler) Update(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)
	id := c.Param("id")

	var patient models.Patient
	if err := h.db.
		Where("id = ? AND clinic_id = ?", id, clinicID).
		First(&patient).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "patient_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_patient"})
		return
	}

	var req UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Name != nil {
		patient.Name = *req.Name
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.Email != nil {
		patient.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Document != nil {
		patient.Document = *req.Document
	}
	if req.BirthDate != nil {
		if *req.BirthDate == "" {
			patient.BirthDate = nil
		} else {
			birth, err := time.Parse("2006-01-02", *req.BirthDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_birth_date"})
				return
			}
			patient.BirthDate = &birth
		}
	}
	if req.InsuranceID != nil {
		patient.InsuranceID = req.InsuranceID
	}
	if req.Notes != nil {
		patient.Notes = *req.Notes
	}

	if err := h.db.Save(&patient).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_patient"})
		return
	}

	c.JSON(http.StatusOK, patient)
}
