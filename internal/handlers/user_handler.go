package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/NovaClinicas/clinic-scheduler/internal/httperr"
	"github.com/NovaClinicas/clinic-scheduler/internal/httpresp"
	"github.com/NovaClinicas/clinic-scheduler/internal/media"
	"github.com/NovaClinicas/clinic-scheduler/internal/middleware"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
	"github.com/NovaClinicas/clinic-scheduler/internal/storage"
	"github.com/NovaClinicas/clinic-scheduler/internal/validators"
)

// Usuários da clínica: admin, recepção (staff) e médicos.

type UserHandler struct {
	db      *gorm.DB
	storage *storage.S3Storage
}

func NewUserHandler(db *gorm.DB, storage *storage.S3Storage) *UserHandler {
	return &UserHandler{db: db, storage: storage}
}

// --------- Requests ---------

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	Role     string `json:"role" binding:"required,oneof=admin staff doctor"`

	// Campos de médico
	SpecialtyID       *uint   `json:"specialty_id"`
	CRM               string  `json:"crm"`
	FollowUpLimitDays int     `json:"follow_up_limit_days"`
	PrivatePrice      float64 `json:"private_price"`
}

type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Role  *string `json:"role,omitempty"`

	SpecialtyID       *uint    `json:"specialty_id,omitempty"`
	CRM               *string  `json:"crm,omitempty"`
	FollowUpLimitDays *int     `json:"follow_up_limit_days,omitempty"`
	PrivatePrice      *float64 `json:"private_price,omitempty"`
}

// --------- Handlers ---------

func (h *UserHandler) List(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	role := strings.TrimSpace(c.Query("role"))

	q := h.db.Where("clinic_id = ?", clinicID)
	if role != "" {
		q = q.Where("role = ?", role)
	}

	var users []models.User
	if err := q.
		Preload("Specialty").
		Order("name ASC").
		Find(&users).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_users"})
		return
	}

	httpresp.List(c, users)
}

func (h *UserHandler) Create(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmailDomainValid(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_email_domain"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_hash_password"})
		return
	}

	if req.FollowUpLimitDays < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_follow_up_limit"})
		return
	}

	user := models.User{
		ClinicID:          clinicID,
		Name:              req.Name,
		Email:             email,
		PasswordHash:      string(hashed),
		Phone:             req.Phone,
		Role:              req.Role,
		SpecialtyID:       req.SpecialtyID,
		CRM:               req.CRM,
		FollowUpLimitDays: req.FollowUpLimitDays,
		PrivatePrice:      req.PrivatePrice,
	}

	if err := h.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_user"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)
	id := c.Param("id")

	var user models.User
	if err := h.db.
		Where("id = ? AND clinic_id = ?", id, clinicID).
		First(&user).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_user"})
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Role != nil {
		switch *req.Role {
		case models.RoleAdmin, models.RoleStaff, models.RoleDoctor:
			user.Role = *req.Role
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_role"})
			return
		}
	}
	if req.SpecialtyID != nil {
		user.SpecialtyID = req.SpecialtyID
	}
	if req.CRM != nil {
		user.CRM = *req.CRM
	}
	if req.FollowUpLimitDays != nil {
		if *req.FollowUpLimitDays < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_follow_up_limit"})
			return
		}
		user.FollowUpLimitDays = *req.FollowUpLimitDays
	}
	if req.PrivatePrice != nil {
		if *req.PrivatePrice < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_private_price"})
			return
		}
		user.PrivatePrice = *req.PrivatePrice
	}

	if err := h.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_user"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// ======================================================
// AVATAR (multipart → webp → S3)
// ======================================================

func (h *UserHandler) UploadAvatar(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)
	id := c.Param("id")

	if h.storage == nil {
		httperr.Internal(c, "storage_not_configured", "Armazenamento de mídia não configurado.")
		return
	}

	var user models.User
	if err := h.db.
		Where("id = ? AND clinic_id = ?", id, clinicID).
		First(&user).Error; err != nil {

		httperr.NotFound(c, "user_not_found", "Usuário não encontrado.")
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "Arquivo de imagem obrigatório.")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httperr.Internal(c, "failed_to_read_file", "Erro ao ler o arquivo enviado.")
		return
	}
	defer file.Close()

	normalized, err := media.NormalizeAvatar(file)
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "Imagem inválida (use JPEG ou PNG).")
		return
	}

	key := fmt.Sprintf("avatars/%d/%s.webp", clinicID, uuid.NewString())

	url, err := h.storage.Put(c.Request.Context(), key, normalized, "image/webp")
	if err != nil {
		httperr.Internal(c, "upload_failed", "Erro ao enviar a imagem.")
		return
	}

	user.AvatarURL = url
	if err := h.db.Save(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_update_user", "Erro ao salvar o avatar.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatar_url": url})
}
