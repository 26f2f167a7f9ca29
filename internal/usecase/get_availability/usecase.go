package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/barberia/booking-service/internal/domain"
	configRepo "github.com/barberia/booking-service/internal/infra/storage/bookingconfig"
	scheduleRepo "github.com/barberia/booking-service/internal/infra/storage/schedule"
	"github.com/barberia/booking-service/pkg/ptr"
	"github.com/barberia/booking-service/pkg/types"
)

// UseCase use case для получения доступных слотов для записи
type UseCase struct {
	scheduleRepo    ScheduleRepository
	appointmentRepo AppointmentRepository
	holdRepo        HoldRepository
	configRepo      ConfigRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	scheduleRepo ScheduleRepository,
	appointmentRepo AppointmentRepository,
	holdRepo HoldRepository,
	configRepo ConfigRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
		holdRepo:        holdRepo,
		configRepo:      configRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
// Операция только читает: никаких побочных эффектов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: business=%d, service=%d, date=%s",
		req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем бизнес (временная зона)
	business, err := uc.scheduleRepo.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrBusinessNotFound) {
			uc.logger.Warn("GetAvailability: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetAvailability: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}
	loc := business.Location()

	// 4. Получаем услугу
	service, err := uc.scheduleRepo.GetService(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailability: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailability: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 5. Получаем конфигурацию бронирования с учетом иерархии
	config, err := uc.configRepo.GetWithHierarchy(ctx, req.BusinessID, ptr.Ptr(req.ServiceID))
	if err != nil && !errors.Is(err, configRepo.ErrConfigNotFound) {
		uc.logger.Error("GetAvailability: failed to get config: %v", err)
		return nil, fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
	}

	// Если конфигурация не найдена, используем дефолтные значения
	if config == nil {
		config = domain.DefaultBookingConfig(req.BusinessID)
		uc.logger.Info("GetAvailability: using default config for business=%d, service=%d",
			req.BusinessID, req.ServiceID)
	}

	// 6. Валидация даты с учетом конфигурации
	if err := validateDate(req.Date, now.In(loc), config.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailability: date validation failed: %v", err)
		return nil, err
	}

	// 7. Определяем список мастеров: конкретный или все активные
	professionals, err := uc.resolveProfessionals(ctx, req)
	if err != nil {
		return nil, err
	}

	// 8. Получаем блокировки времени на день (общие и персональные)
	dayFrom, dayUntil := dayRange(req.Date, loc)
	blocks, err := uc.scheduleRepo.ListTimeBlocks(ctx, req.BusinessID, dayFrom, dayUntil)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get time blocks: %v", err)
		return nil, fmt.Errorf("%w: failed to get time blocks: %v", ErrInternal, err)
	}

	// 9. Генерируем слоты для каждого мастера
	perProfessional := make([][]types.TimeString, 0, len(professionals))

	for _, professional := range professionals {
		appointments, err := uc.appointmentRepo.GetActiveForProfessionalInRange(ctx, professional.ID, dayFrom, dayUntil)
		if err != nil {
			uc.logger.Error("GetAvailability: failed to get appointments for professional id=%d: %v",
				professional.ID, err)
			return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		holds, err := uc.holdRepo.ListActiveForProfessional(ctx, professional.ID, dayFrom, dayUntil, now)
		if err != nil {
			uc.logger.Error("GetAvailability: failed to get holds for professional id=%d: %v",
				professional.ID, err)
			return nil, fmt.Errorf("%w: failed to get holds: %v", ErrInternal, err)
		}

		busy := collectBusyIntervals(professional.ID, appointments, holds, blocks)

		slots, err := generateSlotsForProfessional(
			professional,
			service,
			config.SlotGranularityMinutes,
			req.Date,
			loc,
			now,
			config.MinBookingNoticeMinutes,
			busy,
		)
		if err != nil {
			uc.logger.Error("GetAvailability: failed to generate slots for professional id=%d: %v",
				professional.ID, err)
			return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
		}

		perProfessional = append(perProfessional, slots)
	}

	// 10. Объединяем слоты всех мастеров: дедупликация + сортировка
	merged := mergeSlots(perProfessional)

	uc.logger.Info("GetAvailability: generated %d slots for business=%d, service=%d, date=%s",
		len(merged), req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:           req.Date,
		BusinessID:     req.BusinessID,
		ServiceID:      req.ServiceID,
		ProfessionalID: req.ProfessionalID,
		Timezone:       business.Timezone,
		Slots:          merged,
	}, nil
}

// resolveProfessionals возвращает мастеров, для которых считаются слоты
func (uc *UseCase) resolveProfessionals(ctx context.Context, req *Request) ([]*domain.Professional, error) {
	if req.ProfessionalID != nil {
		professional, err := uc.scheduleRepo.GetProfessional(ctx, req.BusinessID, *req.ProfessionalID)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrProfessionalNotFound) {
				uc.logger.Warn("GetAvailability: professional id=%d not found", *req.ProfessionalID)
				return nil, ErrProfessionalNotFound
			}
			uc.logger.Error("GetAvailability: failed to get professional id=%d: %v", *req.ProfessionalID, err)
			return nil, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
		}

		// Неактивный мастер не принимает записи
		if !professional.IsActive {
			return []*domain.Professional{}, nil
		}

		return []*domain.Professional{professional}, nil
	}

	professionals, err := uc.scheduleRepo.ListActiveProfessionals(ctx, req.BusinessID)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list professionals: %v", err)
		return nil, fmt.Errorf("%w: failed to list professionals: %v", ErrInternal, err)
	}

	return professionals, nil
}
