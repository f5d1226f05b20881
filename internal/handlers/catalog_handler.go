package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/NovaClinicas/clinic-scheduler/internal/httpresp"
	"github.com/NovaClinicas/clinic-scheduler/internal/middleware"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

// Catálogos da clínica: convênios, especialidades e formas de pagamento.
// CRUD idêntico para os três; nada aqui é deletado, só inativado.

type CatalogHandler struct {
	db *gorm.DB
}

func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

type CatalogItemRequest struct {
	Name   string `json:"name" binding:"required"`
	Active *bool  `json:"active"`
}

// ------------------------------
// Convênios
// ------------------------------

func (h *CatalogHandler) ListInsurances(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	var items []models.Insurance
	if err := h.db.
		Where("clinic_id = ?", clinicID).
		Order("name ASC").
		Find(&items).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_insurances"})
		return
	}

	httpresp.List(c, items)
}

func (h *CatalogHandler) CreateInsurance(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	var req CatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	item := models.Insurance{ClinicID: clinicID, Name: req.Name, Active: true}
	if err := h.db.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_insurance"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *CatalogHandler) UpdateInsurance(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)
	id := c.Param("id")

	var item models.Insurance
	if err := h.db.
		Where("id = ? AND clinic_id = ?", id, clinicID).
		First(&item).Error; err != nil {

		c.JSON(http.StatusNotFound, gin.H{"error": "insurance_not_found"})
		return
	}

	var req CatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	item.Name = req.Name
	if req.Active != nil {
		item.Active = *req.Active
	}

	if err := h.db.Save(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_insurance"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// ------------------------------
// Especialidades
// ------------------------------

func (h *CatalogHandler) ListSpecialties(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	var items []models.Specialty
	if err := h.db.
		Where("clinic_id = ?", clinicID).
		Order("name ASC").
		Find(&items).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_specialties"})
		return
	}

	httpresp.List(c, items)
}

func (h *CatalogHandler) CreateSpecialty(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	var req CatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	item := models.Specialty{ClinicID: clinicID, Name: req.Name, Active: true}
	if err := h.db.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_specialty"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *CatalogHandler) UpdateSpecialty(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)
	id := c.Param("id")

	var item models.Specialty
	if err := h.db.
		Where("id = ? AND clinic_id = ?", id, clinicID).
		First(&item).Error; err != nil {

		c.JSON(http.StatusNotFound, gin.H{"error": "specialty_not_found"})
		return
	}

	var req CatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	item.Name = req.Name
	if req.Active != nil {
		item.Active = *req.Active
	}

	if err := h.db.Save(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_specialty"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// ------------------------------
// Formas de pagamento
// ------------------------------

func (h *CatalogHandler) ListPaymentMethods(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	var items []models.PaymentMethod
	if err := h.db.
		Where("clinic_id = ?", clinicID).
		Order("name ASC").
		Find(&items).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_payment_methods"})
		return
	}

	httpresp.List(c, items)
}

func (h *CatalogHandler) CreatePaymentMethod(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	var req CatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	item := models.PaymentMethod{ClinicID: clinicID, Name: req.Name, Active: true}
	if err := h.db.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_payment_method"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *CatalogHandler) UpdatePaymentMethod(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)
	id := c.Param("id")

	var item models.PaymentMethod
	if err := h.db.
		Where("id = ? AND clinic_id = ?", id, clinicID).
		First(&item).Error; err != nil {

		c.JSON(http.StatusNotFound, gin.H{"error": "payment_method_not_found"})
		return
	}

	var req CatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	item.Name = req.Name
	if req.Active != nil {
		item.Active = *req.Active
	}

	if err := h.db.Save(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_payment_method"})
		return
	}

	c.JSON(http.StatusOK, item)
}
