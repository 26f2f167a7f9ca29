package create_hold

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/barberia/booking-service/internal/domain"
	configRepo "github.com/barberia/booking-service/internal/infra/storage/bookingconfig"
	holdRepo "github.com/barberia/booking-service/internal/infra/storage/hold"
	scheduleRepo "github.com/barberia/booking-service/internal/infra/storage/schedule"
	"github.com/barberia/booking-service/pkg/ptr"
)

// UseCase use case для временной блокировки слота
type UseCase struct {
	scheduleRepo    ScheduleRepository
	appointmentRepo AppointmentRepository
	holdRepo        HoldRepository
	configRepo      ConfigRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	scheduleRepo ScheduleRepository,
	appointmentRepo AppointmentRepository,
	holdRepo HoldRepository,
	configRepo ConfigRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
		holdRepo:        holdRepo,
		configRepo:      configRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания временной блокировки слота
// Вся проверка доступности и вставка hold идут в одной сериализуемой
// транзакции; уникальный индекс на (professional_id, start_at) в БД
// закрывает гонку, которую транзакция не поймала
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateHold: business=%d, service=%d, professional=%d, startAt=%s",
		req.BusinessID, req.ServiceID, req.ProfessionalID, req.StartAt.Format("2006-01-02T15:04:05Z07:00"))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateHold: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем бизнес (временная зона)
	business, err := uc.scheduleRepo.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrBusinessNotFound) {
			uc.logger.Warn("CreateHold: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("CreateHold: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}
	loc := business.Location()

	// 4. Получаем услугу
	service, err := uc.scheduleRepo.GetService(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateHold: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateHold: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 5. Получаем мастера
	professional, err := uc.scheduleRepo.GetProfessional(ctx, req.BusinessID, req.ProfessionalID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrProfessionalNotFound) {
			uc.logger.Warn("CreateHold: professional id=%d not found", req.ProfessionalID)
			return nil, ErrProfessionalNotFound
		}
		uc.logger.Error("CreateHold: failed to get professional id=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
	}
	if !professional.IsActive {
		uc.logger.Warn("CreateHold: professional id=%d is not active", req.ProfessionalID)
		return nil, ErrProfessionalNotFound
	}

	// Переменная для хранения результата
	var result *domain.SlotHold

	// 6. Выполняем проверку и вставку в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Получаем конфигурацию бронирования с учетом иерархии
		config, err := uc.configRepo.GetWithHierarchy(txCtx, req.BusinessID, ptr.Ptr(req.ServiceID))
		if err != nil && !errors.Is(err, configRepo.ErrConfigNotFound) {
			uc.logger.Error("CreateHold: failed to get config: %v", err)
			return fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
		}

		// Если конфигурация не найдена, используем дефолтные значения
		if config == nil {
			config = domain.DefaultBookingConfig(req.BusinessID)
			uc.logger.Info("CreateHold: using default config for business=%d, service=%d",
				req.BusinessID, req.ServiceID)
		}

		// 6.2. Валидация времени начала (прошлое, min notice, горизонт)
		if err := validateStartTime(req.StartAt, now, config); err != nil {
			uc.logger.Warn("CreateHold: start time validation failed: %v", err)
			return err
		}

		// 6.3. Слот лежит на сетке внутри рабочего окна мастера
		if err := validateSlotFitsSchedule(professional, service, req.StartAt, loc, config.SlotGranularityMinutes); err != nil {
			uc.logger.Warn("CreateHold: slot does not fit schedule: professional=%d, startAt=%s",
				req.ProfessionalID, req.StartAt.In(loc).Format(domain.TimeFormat))
			return err
		}

		occupiedFrom, occupiedUntil := service.OccupiedInterval(req.StartAt)

		// 6.4. Получаем записи мастера с блокировкой (FOR UPDATE)
		appointments, err := uc.appointmentRepo.GetActiveForProfessionalInRange(txCtx, req.ProfessionalID, occupiedFrom, occupiedUntil)
		if err != nil {
			uc.logger.Error("CreateHold: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 6.5. Получаем активные holds мастера
		holds, err := uc.holdRepo.ListActiveForProfessional(txCtx, req.ProfessionalID, occupiedFrom, occupiedUntil, now)
		if err != nil {
			uc.logger.Error("CreateHold: failed to get holds: %v", err)
			return fmt.Errorf("%w: failed to get holds: %v", ErrInternal, err)
		}

		// 6.6. Получаем блокировки времени
		blocks, err := uc.scheduleRepo.ListTimeBlocks(txCtx, req.BusinessID, occupiedFrom, occupiedUntil)
		if err != nil {
			uc.logger.Error("CreateHold: failed to get time blocks: %v", err)
			return fmt.Errorf("%w: failed to get time blocks: %v", ErrInternal, err)
		}

		// 6.7. Проверяем пересечения
		if findOverlap(req.ProfessionalID, occupiedFrom, occupiedUntil, appointments, holds, blocks) {
			uc.logger.Warn("CreateHold: slot is taken: professional=%d, startAt=%s",
				req.ProfessionalID, req.StartAt.In(loc).Format(domain.TimeFormat))
			return ErrSlotUnavailable
		}

		// 6.8. Удаляем истёкшие holds этого слота: освобождаем уникальный индекс
		if err := uc.holdRepo.DeleteExpiredForSlot(txCtx, req.ProfessionalID, req.StartAt, now); err != nil {
			uc.logger.Error("CreateHold: failed to delete expired holds: %v", err)
			return fmt.Errorf("%w: failed to delete expired holds: %v", ErrInternal, err)
		}

		// 6.9. Создаем hold
		h := &domain.SlotHold{
			ID:             uuid.NewString(),
			BusinessID:     req.BusinessID,
			ServiceID:      req.ServiceID,
			ProfessionalID: req.ProfessionalID,
			StartAt:        req.StartAt,
			OccupiedFrom:   occupiedFrom,
			OccupiedUntil:  occupiedUntil,
			ExpiresAt:      now.Add(config.HoldTTL()),
		}

		result, err = uc.holdRepo.Create(txCtx, h)
		if err != nil {
			if errors.Is(err, holdRepo.ErrHoldConflict) {
				uc.logger.Warn("CreateHold: concurrent hold on slot: professional=%d, startAt=%s",
					req.ProfessionalID, req.StartAt.In(loc).Format(domain.TimeFormat))
				return ErrSlotUnavailable
			}
			uc.logger.Error("CreateHold: failed to create hold: %v", err)
			return fmt.Errorf("%w: failed to create hold: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateHold: hold %s created, expires at %s",
		result.ID, result.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"))

	return &Response{
		HoldID:    result.ID,
		ExpiresAt: result.ExpiresAt,
	}, nil
}
