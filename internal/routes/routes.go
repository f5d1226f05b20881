package routes

import (
	"log"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/NovaClinicas/clinic-scheduler/internal/audit"
	"github.com/NovaClinicas/clinic-scheduler/internal/cache"
	"github.com/NovaClinicas/clinic-scheduler/internal/config"
	"github.com/NovaClinicas/clinic-scheduler/internal/handlers"
	infraRepo "github.com/NovaClinicas/clinic-scheduler/internal/infra/repository"
	"github.com/NovaClinicas/clinic-scheduler/internal/middleware"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
	"github.com/NovaClinicas/clinic-scheduler/internal/payments"
	"github.com/NovaClinicas/clinic-scheduler/internal/storage"
	ucAgenda "github.com/NovaClinicas/clinic-scheduler/internal/usecase/agenda"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	scheduleRepo := infraRepo.NewScheduleGormRepository(db)

	redisCache := cache.New(cfg.RedisAddr, cfg.RedisPassword)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	s3Storage := storage.NewS3Storage(cfg)

	checkout, err := payments.NewCheckout(cfg.MercadoPagoToken)
	if err != nil {
		log.Println("mercado pago desabilitado:", err)
	}

	// ======================================================
	// 🧠 USE CASES — AGENDA
	// ======================================================
	getDayAgendaUC := ucAgenda.NewGetDayAgenda(scheduleRepo, redisCache)
	evaluateFollowUpUC := ucAgenda.NewEvaluateFollowUp(scheduleRepo, redisCache)

	createAppointmentUC := ucAgenda.NewCreateAppointment(
		scheduleRepo,
		auditDispatcher,
		redisCache,
	)

	updateAppointmentUC := ucAgenda.NewUpdateAppointment(
		scheduleRepo,
		auditDispatcher,
		redisCache,
	)

	confirmAppointmentUC := ucAgenda.NewConfirmAppointment(
		scheduleRepo,
		auditDispatcher,
		redisCache,
	)

	deleteAppointmentUC := ucAgenda.NewDeleteAppointment(
		scheduleRepo,
		auditDispatcher,
		redisCache,
	)

	listAppointmentsUC := ucAgenda.NewListAppointments(scheduleRepo)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	clinicHandler := handlers.NewClinicHandler(db)

	userHandler := handlers.NewUserHandler(db, s3Storage)
	patientHandler := handlers.NewPatientHandler(db)
	catalogHandler := handlers.NewCatalogHandler(db)

	scheduleHandler := handlers.NewScheduleHandler(db, getDayAgendaUC)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		updateAppointmentUC,
		confirmAppointmentUC,
		deleteAppointmentUC,
		listAppointmentsUC,
		evaluateFollowUpUC,
		scheduleRepo,
		checkout,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.GET("/me/clinic", clinicHandler.GetMeClinic)
			secured.PUT("/me/clinic", clinicHandler.UpdateMeClinic)

			// ------------------------------
			// 👥 USUÁRIOS (admin)
			// ------------------------------
			users := secured.Group("/users")
			{
				users.GET("/", userHandler.List)

				adminOnly := users.Group("/")
				adminOnly.Use(middleware.RequireRole(models.RoleAdmin))
				{
					adminOnly.POST("/", userHandler.Create)
					adminOnly.PUT("/:id", userHandler.Update)
					adminOnly.POST("/:id/avatar", userHandler.UploadAvatar)
				}
			}

			// ------------------------------
			// 🧑‍⚕️ PACIENTES
			// ------------------------------
			patients := secured.Group("/patients")
			{
				patients.GET("/", patientHandler.List)
				patients.GET("/:id", patientHandler.Get)
				patients.POST("/", patientHandler.Create)
				patients.PUT("/:id", patientHandler.Update)
			}

			// ------------------------------
			// 📋 CATÁLOGOS
			// ------------------------------
			secured.GET("/insurances", catalogHandler.ListInsurances)
			secured.POST("/insurances", catalogHandler.CreateInsurance)
			secured.PUT("/insurances/:id", catalogHandler.UpdateInsurance)

			secured.GET("/specialties", catalogHandler.ListSpecialties)
			secured.POST("/specialties", catalogHandler.CreateSpecialty)
			secured.PUT("/specialties/:id", catalogHandler.UpdateSpecialty)

			secured.GET("/payment-methods", catalogHandler.ListPaymentMethods)
			secured.POST("/payment-methods", catalogHandler.CreatePaymentMethod)
			secured.PUT("/payment-methods/:id", catalogHandler.UpdatePaymentMethod)

			// ------------------------------
			// 🗓️ HORÁRIOS DOS MÉDICOS
			// ------------------------------
			doctors := secured.Group("/doctors")
			{
				doctors.GET("/:id/schedule", scheduleHandler.GetTemplate)
				doctors.PUT("/:id/schedule/:weekday", scheduleHandler.UpdateTemplateWeekday)

				doctors.GET("/:id/days-off", scheduleHandler.ListDaysOff)
				doctors.POST("/:id/days-off", scheduleHandler.CreateDayOff)
			}
			secured.DELETE("/days-off/:id", scheduleHandler.DeleteDayOff)

			// ------------------------------
			// 📅 AGENDA / AGENDAMENTOS
			// ------------------------------
			secured.GET("/agenda", scheduleHandler.GetAgenda)
			secured.GET("/appointments/follow-up-preview", appointmentHandler.FollowUpPreview)

			appointments := secured.Group("/appointments")
			{
				appointments.GET("/", appointmentHandler.ListByDate)
				appointments.GET("/month", appointmentHandler.ListByMonth)
				appointments.POST("/", appointmentHandler.Create)
				appointments.PUT("/:id", appointmentHandler.Update)
				appointments.PATCH("/:id/confirm", appointmentHandler.Confirm)
				appointments.DELETE("/:id", appointmentHandler.Delete)

				appointments.POST("/:id/checkout", appointmentHandler.CreateCheckout)
			}

			// ------------------------------
			// 🧾 AUDIT LOGS
			// ------------------------------
			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
