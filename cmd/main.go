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

	cancelAppointmentHandler "github.com/barberia/booking-service/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/barberia/booking-service/internal/api/handlers/create_appointment"
	createHoldHandler "github.com/barberia/booking-service/internal/api/handlers/create_hold"
	getAppointmentHandler "github.com/barberia/booking-service/internal/api/handlers/get_appointment"
	getAvailabilityHandler "github.com/barberia/booking-service/internal/api/handlers/get_availability"
	getBookingConfigHandler "github.com/barberia/booking-service/internal/api/handlers/get_booking_config"
	listAppointmentsHandler "github.com/barberia/booking-service/internal/api/handlers/list_appointments"
	updateAppointmentStatusHandler "github.com/barberia/booking-service/internal/api/handlers/update_appointment_status"
	updateBookingConfigHandler "github.com/barberia/booking-service/internal/api/handlers/update_booking_config"
	"github.com/barberia/booking-service/internal/api/middleware"
	"github.com/barberia/booking-service/internal/config"
	appointmentRepo "github.com/barberia/booking-service/internal/infra/storage/appointment"
	configRepo "github.com/barberia/booking-service/internal/infra/storage/bookingconfig"
	holdRepo "github.com/barberia/booking-service/internal/infra/storage/hold"
	scheduleRepo "github.com/barberia/booking-service/internal/infra/storage/schedule"
	notifyServiceClient "github.com/barberia/booking-service/internal/integrations/notifyservice"
	appointmentsService "github.com/barberia/booking-service/internal/service/appointments"
	bookingConfigService "github.com/barberia/booking-service/internal/service/bookingconfig"
	createAppointmentUC "github.com/barberia/booking-service/internal/usecase/create_appointment"
	createHoldUC "github.com/barberia/booking-service/internal/usecase/create_hold"
	getAvailabilityUC "github.com/barberia/booking-service/internal/usecase/get_availability"
	"github.com/barberia/booking-service/pkg/dbmetrics"
	"github.com/barberia/booking-service/pkg/logger"
	"github.com/barberia/booking-service/pkg/metrics"
	"github.com/barberia/booking-service/pkg/simpletxmanager"
	"github.com/barberia/booking-service/pkg/txmanager"
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

	log.Info("Starting booking-service...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

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

	// Инициализируем клиент сервиса уведомлений (если включен)
	// Недоступность уведомлений не влияет на бронирования
	var appointmentNotify createAppointmentUC.NotifyClient
	var serviceNotify appointmentsService.NotifyClient

	if cfg.NotifyService.Enabled {
		notifyClient := notifyServiceClient.NewClient(
			cfg.NotifyService.URL,
			time.Duration(cfg.NotifyService.Timeout)*time.Second,
			log,
		)
		appointmentNotify = notifyClient
		serviceNotify = notifyClient
		log.Info("NotifyService client initialized (url=%s, timeout=%ds)",
			cfg.NotifyService.URL, cfg.NotifyService.Timeout)
	} else {
		log.Info("NotifyService client disabled")
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		scheduleRepository    *scheduleRepo.Repository
		appointmentRepository *appointmentRepo.Repository
		holdRepository        *holdRepo.Repository
		configRepository      *configRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		// Инициализируем репозитории с обёрткой метрик
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		holdRepository = holdRepo.NewRepository(wrappedDB)
		configRepository = configRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		// Инициализируем репозитории без метрик
		plainDB := dbmetrics.WrapSQL(db)
		scheduleRepository = scheduleRepo.NewRepository(plainDB)
		appointmentRepository = appointmentRepo.NewRepository(plainDB)
		holdRepository = holdRepo.NewRepository(plainDB)
		configRepository = configRepo.NewRepository(plainDB)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		scheduleRepository,
		serviceNotify,
		log,
	)
	configSvc := bookingConfigService.NewService(
		configRepository,
		scheduleRepository,
		log,
	)

	// Инициализируем use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		scheduleRepository,
		appointmentRepository,
		holdRepository,
		configRepository,
		log,
	)

	createHoldUseCase := createHoldUC.NewUseCase(
		scheduleRepository,
		appointmentRepository,
		holdRepository,
		configRepository,
		txMgr,
		log,
	)

	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		scheduleRepository,
		appointmentRepository,
		holdRepository,
		configRepository,
		appointmentNotify,
		txMgr,
		log,
	)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createHold := createHoldHandler.NewHandler(createHoldUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentSvc, log)
	getBookingConfig := getBookingConfigHandler.NewHandler(configSvc, log)
	updateBookingConfig := updateBookingConfigHandler.NewHandler(configSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты на дату
	api.HandleFunc("/businesses/{businessId}/availability",
		getAvailability.Handle).Methods(http.MethodGet)

	// Временная блокировка слота
	api.HandleFunc("/businesses/{businessId}/holds",
		createHold.Handle).Methods(http.MethodPost)

	// Создание записи
	api.HandleFunc("/businesses/{businessId}/appointments",
		createAppointment.Handle).Methods(http.MethodPost)

	// Действующая конфигурация бронирования
	api.HandleFunc("/businesses/{businessId}/config",
		getBookingConfig.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Отмена записи
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// Обновление статуса записи (только владелец бизнеса)
	protected.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// --- Управление бизнесом ---
	// Список записей бизнеса
	protected.HandleFunc("/businesses/{businessId}/appointments", listAppointments.Handle).Methods(http.MethodGet)

	// Обновление конфигурации бронирования
	protected.HandleFunc("/businesses/{businessId}/config", updateBookingConfig.Handle).Methods(http.MethodPut)

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

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
