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
	"github.com/redis/go-redis/v9"

	changeSlotStatusHandler "github.com/m04kA/SMC-ExperienceBooking/internal/api/handlers/change_slot_status"
	checkSlotRoomHandler "github.com/m04kA/SMC-ExperienceBooking/internal/api/handlers/check_slot_room"
	createSlotHandler "github.com/m04kA/SMC-ExperienceBooking/internal/api/handlers/create_slot"
	deleteSlotHandler "github.com/m04kA/SMC-ExperienceBooking/internal/api/handlers/delete_slot"
	getAvailabilityHandler "github.com/m04kA/SMC-ExperienceBooking/internal/api/handlers/get_availability"
	getSlotHandler "github.com/m04kA/SMC-ExperienceBooking/internal/api/handlers/get_slot"
	getSlotSnapshotHandler "github.com/m04kA/SMC-ExperienceBooking/internal/api/handlers/get_slot_snapshot"
	getSlotsInRangeHandler "github.com/m04kA/SMC-ExperienceBooking/internal/api/handlers/get_slots_in_range"
	getUpcomingSlotsHandler "github.com/m04kA/SMC-ExperienceBooking/internal/api/handlers/get_upcoming_slots"
	invalidateCacheHandler "github.com/m04kA/SMC-ExperienceBooking/internal/api/handlers/invalidate_experience_cache"
	moveSlotHandler "github.com/m04kA/SMC-ExperienceBooking/internal/api/handlers/move_slot"
	releaseHoldHandler "github.com/m04kA/SMC-ExperienceBooking/internal/api/handlers/release_hold"
	reserveSlotHandler "github.com/m04kA/SMC-ExperienceBooking/internal/api/handlers/reserve_slot"
	updateSlotCapacityHandler "github.com/m04kA/SMC-ExperienceBooking/internal/api/handlers/update_slot_capacity"
	"github.com/m04kA/SMC-ExperienceBooking/internal/api/middleware"
	"github.com/m04kA/SMC-ExperienceBooking/internal/config"
	experienceCache "github.com/m04kA/SMC-ExperienceBooking/internal/infra/cache/experience"
	reservationRepo "github.com/m04kA/SMC-ExperienceBooking/internal/infra/storage/reservation"
	slotRepo "github.com/m04kA/SMC-ExperienceBooking/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ExperienceBooking/internal/integrations/catalog"
	"github.com/m04kA/SMC-ExperienceBooking/internal/service/availability"
	capacityService "github.com/m04kA/SMC-ExperienceBooking/internal/service/capacity"
	"github.com/m04kA/SMC-ExperienceBooking/internal/service/recurrence"
	slotsService "github.com/m04kA/SMC-ExperienceBooking/internal/service/slots"
	getAvailabilityUC "github.com/m04kA/SMC-ExperienceBooking/internal/usecase/get_availability"
	releaseHoldUC "github.com/m04kA/SMC-ExperienceBooking/internal/usecase/release_hold"
	reserveSlotUC "github.com/m04kA/SMC-ExperienceBooking/internal/usecase/reserve_slot"
	"github.com/m04kA/SMC-ExperienceBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-ExperienceBooking/pkg/logger"
	"github.com/m04kA/SMC-ExperienceBooking/pkg/metrics"
	"github.com/m04kA/SMC-ExperienceBooking/pkg/txmanager"
)

// domainMetrics доменные счетчики: prometheus или Nop
type domainMetrics interface {
	IncSlotMaterialized(source string)
	IncMaterializationRace()
	IncCapacityRejection(reason string)
	IncHoldCreated()
}

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
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

	log.Info("Starting SMC-ExperienceBooking...")
	log.Info("Configuration loaded from %s (timezone=%s)", configPath, cfg.Booking.Timezone)

	// Инициализируем метрики (если включены)
	var (
		metricsCollector *metrics.Metrics
		counters         domainMetrics = metrics.Nop{}
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		counters = metricsCollector
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

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Без метрик обёртка работает как прозрачный прокси
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Database.DBName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db)
	}

	// Каталог впечатлений и кэш его настроек
	catalogClient := catalog.NewClient(cfg.Catalog.URL, time.Duration(cfg.Catalog.Timeout)*time.Second, log)

	var rdb experienceCache.RedisClient
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			// Кэш необязателен: запросы пойдут в каталог напрямую, пока Redis не поднимется
			log.Warn("Redis ping failed (addr=%s): %v", cfg.Redis.Addr, err)
		}
		cancel()
		rdb = client
		log.Info("Experience cache enabled (addr=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTL)
	}
	experiences := experienceCache.NewCachedSource(catalogClient, rdb, time.Duration(cfg.Redis.TTL)*time.Second, log)

	// Репозитории
	slotRepository := slotRepo.NewRepository(wrappedDB, log)
	reservationRepository := reservationRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Сервисы
	loc := cfg.Booking.Location()
	expander := recurrence.NewExpander(loc)
	calculator := availability.NewCalculator(slotRepository, experiences, expander, loc, cfg.Booking.Horizon(), log)
	capacityMgr := capacityService.NewManager(reservationRepository, counters, log)
	slotMgr := slotsService.NewManager(slotRepository, experiences, calculator, capacityMgr, counters, log)

	// Use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(calculator, capacityMgr, experiences, log)
	reserveSlotUseCase := reserveSlotUC.NewUseCase(
		slotRepository,
		slotMgr,
		expander,
		capacityMgr,
		reservationRepository,
		experiences,
		txMgr,
		counters,
		cfg.Booking.HoldTTL(),
		log,
	)
	releaseHoldUseCase := releaseHoldUC.NewUseCase(reservationRepository, log)

	// Handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	reserveSlot := reserveSlotHandler.NewHandler(reserveSlotUseCase, log)
	releaseHold := releaseHoldHandler.NewHandler(releaseHoldUseCase, log)
	getUpcomingSlots := getUpcomingSlotsHandler.NewHandler(slotMgr, cfg.Booking.UpcomingLimit, log)

	getSlot := getSlotHandler.NewHandler(slotMgr, log)
	createSlot := createSlotHandler.NewHandler(slotMgr, log)
	moveSlot := moveSlotHandler.NewHandler(slotMgr, log)
	updateSlotCapacity := updateSlotCapacityHandler.NewHandler(slotMgr, log)
	changeSlotStatus := changeSlotStatusHandler.NewHandler(slotMgr, log)
	deleteSlot := deleteSlotHandler.NewHandler(slotMgr, log)
	getSlotSnapshot := getSlotSnapshotHandler.NewHandler(slotMgr, log)
	checkSlotRoom := checkSlotRoomHandler.NewHandler(slotMgr, log)
	getSlotsInRange := getSlotsInRangeHandler.NewHandler(slotMgr, log)
	invalidateCache := invalidateCacheHandler.NewHandler(experiences, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.Recovery(log), middleware.Logging(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (гость или X-User-ID)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	public.Use(middleware.OptionalAuth)

	public.HandleFunc("/experiences/{experienceId}/availability", getAvailability.Handle).Methods(http.MethodGet)
	public.HandleFunc("/experiences/{experienceId}/slots/upcoming", getUpcomingSlots.Handle).Methods(http.MethodGet)
	holdsLimiter := middleware.NewRateLimiter(cfg.Limits.HoldsPerMinute, cfg.Limits.HoldsBurst)
	defer holdsLimiter.Stop()
	public.Handle("/experiences/{experienceId}/holds", holdsLimiter.Middleware(http.HandlerFunc(reserveSlot.Handle))).
		Methods(http.MethodPost)
	public.HandleFunc("/holds/{holdToken}", releaseHold.Handle).Methods(http.MethodDelete)

	// ============================================================
	// ADMIN ROUTES (требуют X-Admin-Key)
	// ============================================================

	admin := api.PathPrefix("").Subrouter()
	admin.Use(middleware.AdminKey(cfg.Admin.APIKey))

	admin.HandleFunc("/slots", getSlotsInRange.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/slots", createSlot.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/slots/{slotId}", getSlot.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/slots/{slotId}", deleteSlot.Handle).Methods(http.MethodDelete)
	admin.HandleFunc("/slots/{slotId}/time", moveSlot.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/slots/{slotId}/capacity", updateSlotCapacity.Handle).Methods(http.MethodPut)
	admin.HandleFunc("/slots/{slotId}/status", changeSlotStatus.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/slots/{slotId}/snapshot", getSlotSnapshot.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/slots/{slotId}/room", checkSlotRoom.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/experiences/{experienceId}/cache", invalidateCache.Handle).Methods(http.MethodDelete)

	if cfg.Admin.APIKey == "" {
		log.Warn("admin.api_key is empty, admin routes will reject every request")
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

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
	close(stopMetricsCh)

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
