package bookingconfig

import (
	"context"
	"errors"
	"fmt"

	"github.com/barberia/booking-service/internal/domain"
	configRepo "github.com/barberia/booking-service/internal/infra/storage/bookingconfig"
	scheduleRepo "github.com/barberia/booking-service/internal/infra/storage/schedule"
	"github.com/barberia/booking-service/internal/service/bookingconfig/models"
)

// Service сервис для работы с конфигурацией бронирования
type Service struct {
	configRepo   ConfigRepository
	scheduleRepo ScheduleRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса конфигурации
func NewService(
	configRepo ConfigRepository,
	scheduleRepo ScheduleRepository,
	logger Logger,
) *Service {
	return &Service{
		configRepo:   configRepo,
		scheduleRepo: scheduleRepo,
		logger:       logger,
	}
}

// GetWithHierarchy получает действующую конфигурацию для бизнеса и услуги
// Иерархия: конфигурация услуги -> конфигурация бизнеса -> дефолты
// Публичная операция: клиентам нужны granularity и TTL hold'а
func (s *Service) GetWithHierarchy(ctx context.Context, req *models.GetConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("GetWithHierarchy: fetching config for business=%d", req.BusinessID)

	if _, err := s.getBusiness(ctx, req.BusinessID); err != nil {
		return nil, err
	}

	config, err := s.configRepo.GetWithHierarchy(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, configRepo.ErrConfigNotFound) {
			s.logger.Info("GetWithHierarchy: no config for business=%d, using defaults", req.BusinessID)
			return models.FromDomainConfig(domain.DefaultBookingConfig(req.BusinessID)), nil
		}
		s.logger.Error("GetWithHierarchy: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: GetWithHierarchy - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainConfig(config), nil
}

// ListByBusiness получает все конфигурации бизнеса
// Доступно только владельцу
func (s *Service) ListByBusiness(ctx context.Context, businessID int64, userID int64) (*models.ConfigListResponse, error) {
	s.logger.Info("ListByBusiness: fetching configs for business=%d, user=%d", businessID, userID)

	if err := s.checkOwnerAccess(ctx, businessID, userID); err != nil {
		return nil, err
	}

	configs, err := s.configRepo.ListByBusiness(ctx, businessID)
	if err != nil {
		s.logger.Error("ListByBusiness: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: ListByBusiness - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByBusiness: fetched %d configs for business=%d", len(configs), businessID)
	return models.FromDomainConfigList(configs), nil
}

// Upsert создает или обновляет конфигурацию для пары (бизнес, услуга)
// Доступно только владельцу бизнеса
func (s *Service) Upsert(ctx context.Context, req *models.UpsertConfigRequest) (*models.ConfigResponse, bool, error) {
	s.logger.Info("Upsert: config for business=%d, user=%d", req.BusinessID, req.UserID)

	if err := s.checkOwnerAccess(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, false, err
	}

	// Конфигурация для конкретной услуги требует существующей услуги
	if req.ServiceID != nil {
		if _, err := s.scheduleRepo.GetService(ctx, req.BusinessID, *req.ServiceID); err != nil {
			if errors.Is(err, scheduleRepo.ErrServiceNotFound) {
				s.logger.Warn("Upsert: service id=%d not found in business=%d", *req.ServiceID, req.BusinessID)
				return nil, false, ErrServiceNotFound
			}
			s.logger.Error("Upsert: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, false, fmt.Errorf("%w: Upsert - failed to get service: %v", ErrInternal, err)
		}
	}

	// Существующая конфигурация обновляется, отсутствующая создается от дефолтов
	existing, err := s.configRepo.GetByBusinessAndService(ctx, req.BusinessID, req.ServiceID)
	if err != nil && !errors.Is(err, configRepo.ErrConfigNotFound) {
		s.logger.Error("Upsert: repository error for business=%d: %v", req.BusinessID, err)
		return nil, false, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	created := existing == nil

	config := existing
	if created {
		config = domain.DefaultBookingConfig(req.BusinessID)
		config.ServiceID = req.ServiceID
	}
	req.ApplyTo(config)

	if err := s.validateConfigData(config); err != nil {
		s.logger.Warn("Upsert: validation failed for business=%d: %v", req.BusinessID, err)
		return nil, false, err
	}

	var saved *domain.BookingConfig
	if created {
		saved, err = s.configRepo.Create(ctx, config)
	} else {
		saved, err = s.configRepo.Update(ctx, existing.ID, config)
	}
	if err != nil {
		s.logger.Error("Upsert: failed to save config for business=%d: %v", req.BusinessID, err)
		return nil, false, fmt.Errorf("%w: Upsert - failed to save config: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: config id=%d saved for business=%d (created=%t)", saved.ID, req.BusinessID, created)
	return models.FromDomainConfig(saved), created, nil
}

// Вспомогательные методы

func (s *Service) getBusiness(ctx context.Context, businessID int64) (*domain.Business, error) {
	business, err := s.scheduleRepo.GetBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrBusinessNotFound) {
			s.logger.Warn("getBusiness: business id=%d not found", businessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("getBusiness: failed to get business id=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}
	return business, nil
}

// checkOwnerAccess проверяет, что пользователь является владельцем бизнеса
func (s *Service) checkOwnerAccess(ctx context.Context, businessID int64, userID int64) error {
	business, err := s.getBusiness(ctx, businessID)
	if err != nil {
		return err
	}

	if business.OwnerUserID != userID {
		s.logger.Warn("checkOwnerAccess: user=%d is not the owner of business=%d", userID, businessID)
		return ErrAccessDenied
	}

	return nil
}

// validateConfigData проверяет границы значений конфигурации
func (s *Service) validateConfigData(config *domain.BookingConfig) error {
	if config.SlotGranularityMinutes < domain.MinSlotGranularityMinutes ||
		config.SlotGranularityMinutes > domain.MaxSlotGranularityMinutes {
		return fmt.Errorf("%w: slotGranularityMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotGranularityMinutes, domain.MaxSlotGranularityMinutes)
	}

	if config.AdvanceBookingDays < domain.MinAdvanceBookingDays ||
		config.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}

	if config.MinBookingNoticeMinutes < domain.MinBookingNoticeMinutes ||
		config.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: minBookingNoticeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBookingNoticeMinutes, domain.MaxBookingNoticeMinutes)
	}

	if config.HoldTTLSeconds < domain.MinHoldTTLSeconds ||
		config.HoldTTLSeconds > domain.MaxHoldTTLSeconds {
		return fmt.Errorf("%w: holdTtlSeconds must be between %d and %d",
			ErrInvalidInput, domain.MinHoldTTLSeconds, domain.MaxHoldTTLSeconds)
	}

	return nil
}
