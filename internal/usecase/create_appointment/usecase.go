package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/barberia/booking-service/internal/domain"
	appointmentRepo "github.com/barberia/booking-service/internal/infra/storage/appointment"
	configRepo "github.com/barberia/booking-service/internal/infra/storage/bookingconfig"
	holdRepo "github.com/barberia/booking-service/internal/infra/storage/hold"
	scheduleRepo "github.com/barberia/booking-service/internal/infra/storage/schedule"
	"github.com/barberia/booking-service/pkg/ptr"
)

// UseCase use case для создания записи
type UseCase struct {
	scheduleRepo    ScheduleRepository
	appointmentRepo AppointmentRepository
	holdRepo        HoldRepository
	configRepo      ConfigRepository
	notifyClient    NotifyClient
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
	notifyClient NotifyClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
		holdRepo:        holdRepo,
		configRepo:      configRepo,
		notifyClient:    notifyClient,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
// Единственная точка линеаризации: проверка доступности, вставка записи
// и удаление использованного hold идут в одной сериализуемой транзакции.
// Exclusion constraint в БД на (professional_id, занимаемый интервал)
// закрывает гонку, которую транзакция не поймала
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: business=%d, service=%d, professional=%d, startAt=%s",
		req.BusinessID, req.ServiceID, req.ProfessionalID, req.StartAt.Format("2006-01-02T15:04:05Z07:00"))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем бизнес (временная зона)
	business, err := uc.scheduleRepo.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrBusinessNotFound) {
			uc.logger.Warn("CreateAppointment: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}
	loc := business.Location()

	// 4. Получаем услугу
	service, err := uc.scheduleRepo.GetService(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 5. Получаем мастера
	professional, err := uc.scheduleRepo.GetProfessional(ctx, req.BusinessID, req.ProfessionalID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrProfessionalNotFound) {
			uc.logger.Warn("CreateAppointment: professional id=%d not found", req.ProfessionalID)
			return nil, ErrProfessionalNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get professional id=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
	}
	if !professional.IsActive {
		uc.logger.Warn("CreateAppointment: professional id=%d is not active", req.ProfessionalID)
		return nil, ErrProfessionalNotFound
	}

	// Переменная для хранения результата
	var result *domain.Appointment

	// 6. Выполняем проверку и вставку в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Получаем конфигурацию бронирования с учетом иерархии
		config, err := uc.configRepo.GetWithHierarchy(txCtx, req.BusinessID, ptr.Ptr(req.ServiceID))
		if err != nil && !errors.Is(err, configRepo.ErrConfigNotFound) {
			uc.logger.Error("CreateAppointment: failed to get config: %v", err)
			return fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
		}

		// Если конфигурация не найдена, используем дефолтные значения
		if config == nil {
			config = domain.DefaultBookingConfig(req.BusinessID)
			uc.logger.Info("CreateAppointment: using default config for business=%d, service=%d",
				req.BusinessID, req.ServiceID)
		}

		// 6.2. Валидация времени начала (прошлое, min notice, горизонт)
		if err := validateStartTime(req.StartAt, now, config); err != nil {
			uc.logger.Warn("CreateAppointment: start time validation failed: %v", err)
			return err
		}

		// 6.3. Занимаемый интервал не выходит за рабочее окно мастера
		if err := validateSlotWithinWindow(professional, service, req.StartAt, loc); err != nil {
			uc.logger.Warn("CreateAppointment: slot outside working window: professional=%d, startAt=%s",
				req.ProfessionalID, req.StartAt.In(loc).Format(domain.TimeFormat))
			return err
		}

		occupiedFrom, occupiedUntil := service.OccupiedInterval(req.StartAt)

		// 6.4. Проверяем предъявленный hold
		// Отсутствующий, истёкший или не совпадающий со слотом hold
		// игнорируется и не мешает бронированию
		ownHoldID := uc.resolveOwnHold(txCtx, req, now)

		// 6.5. Получаем записи мастера с блокировкой (FOR UPDATE)
		appointments, err := uc.appointmentRepo.GetActiveForProfessionalInRange(txCtx, req.ProfessionalID, occupiedFrom, occupiedUntil)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 6.6. Получаем активные holds мастера
		holds, err := uc.holdRepo.ListActiveForProfessional(txCtx, req.ProfessionalID, occupiedFrom, occupiedUntil, now)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get holds: %v", err)
			return fmt.Errorf("%w: failed to get holds: %v", ErrInternal, err)
		}

		// 6.7. Получаем блокировки времени
		blocks, err := uc.scheduleRepo.ListTimeBlocks(txCtx, req.BusinessID, occupiedFrom, occupiedUntil)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get time blocks: %v", err)
			return fmt.Errorf("%w: failed to get time blocks: %v", ErrInternal, err)
		}

		// 6.8. Проверяем конфликты; собственный hold конфликтом не считается
		if findConflict(req.ProfessionalID, occupiedFrom, occupiedUntil, ownHoldID, appointments, holds, blocks) {
			uc.logger.Warn("CreateAppointment: slot is taken: professional=%d, startAt=%s",
				req.ProfessionalID, req.StartAt.In(loc).Format(domain.TimeFormat))
			return ErrSlotUnavailable
		}

		// 6.9. Создаем запись с денормализацией данных услуги
		appointment := &domain.Appointment{
			BusinessID:     req.BusinessID,
			ServiceID:      req.ServiceID,
			ProfessionalID: req.ProfessionalID,
			ClientName:     strings.TrimSpace(req.ClientName),
			ClientPhone:    strings.TrimSpace(req.ClientPhone),
			ClientEmail:    req.ClientEmail,
			StartAt:        req.StartAt,
			EndAt:          service.EndAt(req.StartAt),
			OccupiedFrom:   occupiedFrom,
			OccupiedUntil:  occupiedUntil,
			Status:         config.InitialStatus(),
			ServiceName:    service.Name,
			ServicePrice:   service.Price,
			Notes:          req.Notes,
		}

		result, err = uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotConflict) {
				uc.logger.Warn("CreateAppointment: concurrent commit on slot: professional=%d, startAt=%s",
					req.ProfessionalID, req.StartAt.In(loc).Format(domain.TimeFormat))
				return ErrSlotUnavailable
			}
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		// 6.10. Удаляем использованный hold в той же транзакции
		if ownHoldID != "" {
			if err := uc.holdRepo.Delete(txCtx, ownHoldID); err != nil {
				uc.logger.Error("CreateAppointment: failed to delete consumed hold %s: %v", ownHoldID, err)
				return fmt.Errorf("%w: failed to delete consumed hold: %v", ErrInternal, err)
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: appointment id=%d created with status %s",
		result.ID, result.Status)

	// 7. Уведомление о создании: ошибки доставки не влияют на результат
	if uc.notifyClient != nil {
		if err := uc.notifyClient.NotifyAppointmentCreated(ctx, result); err != nil {
			uc.logger.Warn("CreateAppointment: failed to notify about appointment id=%d: %v", result.ID, err)
		}
	}

	return &Response{
		AppointmentID:  result.ID,
		BusinessID:     result.BusinessID,
		ServiceID:      result.ServiceID,
		ProfessionalID: result.ProfessionalID,
		Status:         result.Status,
		StartAt:        result.StartAt,
		EndAt:          result.EndAt,
		ServiceName:    result.ServiceName,
		ServicePrice:   result.ServicePrice,
	}, nil
}

// resolveOwnHold возвращает ID hold'а вызывающего, если предъявленный hold
// существует, не истёк и совпадает со слотом запроса; иначе пустую строку
func (uc *UseCase) resolveOwnHold(ctx context.Context, req *Request, now time.Time) string {
	if req.HoldID == nil || *req.HoldID == "" {
		return ""
	}

	h, err := uc.holdRepo.GetByID(ctx, *req.HoldID, now)
	if err != nil {
		if errors.Is(err, holdRepo.ErrHoldNotFound) {
			uc.logger.Warn("CreateAppointment: hold %s not found or expired, proceeding without it", *req.HoldID)
			return ""
		}
		uc.logger.Warn("CreateAppointment: failed to get hold %s, proceeding without it: %v", *req.HoldID, err)
		return ""
	}

	if !h.Matches(req.ServiceID, req.ProfessionalID, req.StartAt) {
		uc.logger.Warn("CreateAppointment: hold %s does not match requested slot, proceeding without it", h.ID)
		return ""
	}

	return h.ID
}
