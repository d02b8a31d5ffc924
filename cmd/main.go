package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminCreateBusinessHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/admin_create_business"
	adminListBusinessesHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/admin_list_businesses"
	adminSetBusinessActiveHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/admin_set_business_active"
	cancelAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_appointment"
	checkBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/check_booking"
	createAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_appointment"
	createServiceHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_service"
	deleteOverrideHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/delete_override"
	getAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	getBusinessPageHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_business_page"
	getDayTimelineHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_day_timeline"
	getScheduleHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_schedule"
	listBusinessAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_business_appointments"
	listMyAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_my_appointments"
	setWeeklyHoursHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/set_weekly_hours"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_appointment_status"
	updateBusinessSettingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_business_settings"
	upsertOverrideHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/upsert_override"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	businessRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/business"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	appointmentsService "github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	businessesService "github.com/m04kA/SMC-AppointmentService/internal/service/businesses"
	scheduleService "github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	checkBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/check_booking"
	createAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	getDayTimelineUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_day_timeline"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/idempotency"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-AppointmentService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var (
		metricsCollector *metrics.Metrics
		dbRecorder       dbmetrics.Recorder
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		dbRecorder = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Политика записи
	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Invalid booking timezone %q: %v", cfg.Booking.Timezone, err)
	}
	policy := domain.BookingPolicy{
		AdvanceBookingDays: cfg.Booking.AdvanceBookingDays,
		MinNoticeMinutes:   cfg.Booking.MinNoticeMinutes,
		EnforceAlignment:   cfg.Booking.EnforceAlignment,
		Location:           location,
	}
	log.Info("Booking policy: advance_days=%d, min_notice=%dm, enforce_alignment=%t, timezone=%s",
		policy.AdvanceBookingDays, policy.MinNoticeMinutes, policy.EnforceAlignment, location)

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Без метрик обертка только пробрасывает вызовы
	wrappedDB := dbmetrics.WrapWithDefault(db, dbRecorder, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Хранилище ответов для Idempotency-Key
	var idempotencyStore idempotency.Store
	if cfg.Idempotency.Enabled {
		idempotencyStore = newIdempotencyStore(cfg, log)
		defer idempotencyStore.Close()
	}

	// Инициализируем репозитории
	businessRepository := businessRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)

	// Инициализируем сервисы
	appointmentsSvc := appointmentsService.NewService(appointmentRepository, businessRepository, log)
	scheduleSvc := scheduleService.NewService(scheduleRepository, businessRepository, txMgr, log)
	businessesSvc := businessesService.NewService(businessRepository, catalogRepository, log)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		businessRepository,
		catalogRepository,
		scheduleRepository,
		appointmentRepository,
		policy,
		metricsCollector,
		log,
	)
	checkBookingUseCase := checkBookingUC.NewUseCase(
		businessRepository,
		catalogRepository,
		scheduleRepository,
		appointmentRepository,
		policy,
		log,
	)
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		businessRepository,
		catalogRepository,
		scheduleRepository,
		appointmentRepository,
		txMgr,
		policy,
		metricsCollector,
		log,
	)
	getDayTimelineUseCase := getDayTimelineUC.NewUseCase(
		businessRepository,
		catalogRepository,
		scheduleRepository,
		appointmentRepository,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	checkBooking := checkBookingHandler.NewHandler(checkBookingUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getDayTimeline := getDayTimelineHandler.NewHandler(getDayTimelineUseCase, log)

	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	listMyAppointments := listMyAppointmentsHandler.NewHandler(appointmentsSvc, log)
	listBusinessAppointments := listBusinessAppointmentsHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentsSvc, log)

	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	setWeeklyHours := setWeeklyHoursHandler.NewHandler(scheduleSvc, log)
	upsertOverride := upsertOverrideHandler.NewHandler(scheduleSvc, log)
	deleteOverride := deleteOverrideHandler.NewHandler(scheduleSvc, log)

	getBusinessPage := getBusinessPageHandler.NewHandler(businessesSvc, log)
	updateBusinessSettings := updateBusinessSettingsHandler.NewHandler(businessesSvc, log)
	createService := createServiceHandler.NewHandler(businessesSvc, log)
	adminCreateBusiness := adminCreateBusinessHandler.NewHandler(businessesSvc, log)
	adminListBusinesses := adminListBusinessesHandler.NewHandler(businessesSvc, log)
	adminSetBusinessActive := adminSetBusinessActiveHandler.NewHandler(businessesSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Публичная страница бизнеса
	api.HandleFunc("/businesses/by-slug/{slug}", getBusinessPage.Handle).Methods(http.MethodGet)

	// Свободные слоты на дату
	api.HandleFunc("/businesses/{businessId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Проверка времени без записи
	api.HandleFunc("/businesses/{businessId}/booking-checks", checkBooking.Handle).Methods(http.MethodPost)

	// Расписание бизнеса
	api.HandleFunc("/businesses/{businessId}/schedule", getSchedule.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)
	if idempotencyStore != nil {
		protected.Use(middleware.Idempotency(idempotencyStore, cfg.Idempotency.HeaderName, log))
	}

	// --- Записи клиента ---
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments", listMyAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// --- Панель бизнеса (владелец или администратор) ---
	protected.HandleFunc("/businesses/{businessId}", updateBusinessSettings.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/businesses/{businessId}/services", createService.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/businesses/{businessId}/appointments", listBusinessAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{businessId}/timeline", getDayTimeline.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{businessId}/schedule/hours", setWeeklyHours.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{businessId}/schedule/overrides/{date}", upsertOverride.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{businessId}/schedule/overrides/{date}", deleteOverride.Handle).Methods(http.MethodDelete)

	// --- Администрирование платформы ---
	protected.HandleFunc("/admin/businesses", adminCreateBusiness.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/admin/businesses", adminListBusinesses.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/admin/businesses/{businessId}/active", adminSetBusinessActive.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор статистики connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped")
}

// newIdempotencyStore подключает Redis, а если он выключен или недоступен, хранит ответы в памяти
func newIdempotencyStore(cfg *config.Config, log *logger.Logger) idempotency.Store {
	if !cfg.Redis.Enabled {
		log.Info("Idempotency store: in-memory (ttl=%s)", cfg.Idempotency.TTL())
		return idempotency.NewMemoryStore(cfg.Idempotency.TTL())
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Redis.DialTimeout)*time.Second)
	defer cancel()

	client, err := idempotency.NewRedisClient(ctx, idempotency.RedisConfig{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		DialTimeout:  time.Duration(cfg.Redis.DialTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Redis.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Redis.WriteTimeout) * time.Second,
	})
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory idempotency store: %v", err)
		return idempotency.NewMemoryStore(cfg.Idempotency.TTL())
	}

	log.Info("Idempotency store: redis at %s (ttl=%s)", cfg.Redis.Addr, cfg.Idempotency.TTL())
	return idempotency.NewRedisStore(client, cfg.Idempotency.KeyPrefix, cfg.Idempotency.TTL())
}
