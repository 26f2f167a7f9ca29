package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/barberia/booking-service/internal/domain"
	appointmentRepo "github.com/barberia/booking-service/internal/infra/storage/appointment"
	scheduleRepo "github.com/barberia/booking-service/internal/infra/storage/schedule"
	"github.com/barberia/booking-service/internal/service/appointments/models"
)

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	notifyClient    NotifyClient
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	notifyClient NotifyClient,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		notifyClient:    notifyClient,
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Владелец бизнеса видит любые записи, мастер - только свои
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, userID)

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := s.checkAppointmentAccess(ctx, appointment, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appointment), nil
}

// List получает записи бизнеса с гибкой фильтрацией
// Поддерживает фильтрацию по мастеру, дате/периоду, статусу
// и включению неактивных записей
// Доступно владельцу бизнеса; мастер видит только свои записи
func (s *Service) List(ctx context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("List: fetching appointments for business=%d, user=%d", req.BusinessID, req.UserID)

	// Владелец видит все записи; мастер - только свои
	if err := s.checkOwnerAccess(ctx, req.BusinessID, req.UserID); err != nil {
		if !errors.Is(err, ErrAccessDenied) {
			return nil, err
		}

		professionalID, perr := s.resolveProfessionalUser(ctx, req)
		if perr != nil {
			s.logger.Warn("List: access denied for user=%d to business=%d", req.UserID, req.BusinessID)
			return nil, ErrAccessDenied
		}
		req.ProfessionalID = &professionalID
	}

	// Конвертируем request в domain фильтр
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.ListWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d appointments for business=%d", len(appointments), req.BusinessID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись
// Операция идемпотентна: повторная отмена уже отменённой записи
// не ошибка, возвращается успех без изменений
// Записи в терминальных статусах (completed, no_show) отменить нельзя
func (s *Service) Cancel(ctx context.Context, appointmentID int64, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", appointmentID, req.UserID)

	appointment, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := s.checkAppointmentAccess(ctx, appointment, req.UserID); err != nil {
		s.logger.Warn("Cancel: access denied for user=%d to appointment id=%d", req.UserID, appointmentID)
		return err
	}

	// Идемпотентность: уже отменённая запись - успех без изменений
	if appointment.IsCancelled() {
		s.logger.Info("Cancel: appointment id=%d is already cancelled, no-op", appointmentID)
		return nil
	}

	if !appointment.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", appointmentID, appointment.Status)
		return ErrCannotCancel
	}

	cancelledBy := req.UserID
	if err := s.appointmentRepo.Cancel(ctx, appointmentID, req.CancellationReason, &cancelledBy); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			// Гонка с параллельной отменой: запись уже в терминальном статусе
			s.logger.Info("Cancel: appointment id=%d already transitioned, no-op", appointmentID)
			return nil
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", appointmentID)

	// Уведомление об отмене: ошибки доставки не влияют на результат
	if s.notifyClient != nil {
		if err := s.notifyClient.NotifyAppointmentCancelled(ctx, appointment); err != nil {
			s.logger.Warn("Cancel: failed to notify about appointment id=%d: %v", appointmentID, err)
		}
	}

	return nil
}

// UpdateStatus обновляет статус записи
// Доступно только владельцу бизнеса; отмена идёт через Cancel
func (s *Service) UpdateStatus(ctx context.Context, appointmentID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by user=%d",
		appointmentID, req.Status, req.UserID)

	appointment, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа (только владелец бизнеса)
	if err := s.checkOwnerAccess(ctx, appointment.BusinessID, req.UserID); err != nil {
		return err
	}

	// Валидируем и конвертируем статус
	newStatus, err := models.ToDomainAppointmentStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, appointmentID)
		return fmt.Errorf("%w: invalid status", ErrInvalidStatus)
	}

	// Отмена только через Cancel: там идемпотентность и причина отмены
	if newStatus == domain.StatusCancelled {
		s.logger.Warn("UpdateStatus: cancellation of appointment id=%d must go through Cancel", appointmentID)
		return fmt.Errorf("%w: use cancel operation", ErrInvalidStatus)
	}

	// Записи в терминальных статусах не меняются
	if appointment.IsFinished() {
		s.logger.Warn("UpdateStatus: appointment id=%d is in terminal status=%s", appointmentID, appointment.Status)
		return fmt.Errorf("%w: appointment is in terminal status", ErrInvalidStatus)
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, appointmentID, newStatus); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found during update", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to status=%s", appointmentID, newStatus)
	return nil
}

// Вспомогательные методы

// checkAppointmentAccess проверяет доступ пользователя к записи
// Владелец бизнеса имеет доступ к любым записям, мастер - только к своим
func (s *Service) checkAppointmentAccess(ctx context.Context, appointment *domain.Appointment, userID int64) error {
	if err := s.checkOwnerAccess(ctx, appointment.BusinessID, userID); err == nil {
		return nil
	} else if !errors.Is(err, ErrAccessDenied) {
		return err
	}

	// Проверяем, является ли пользователь мастером этой записи
	professional, err := s.scheduleRepo.GetProfessional(ctx, appointment.BusinessID, appointment.ProfessionalID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrProfessionalNotFound) {
			return ErrAccessDenied
		}
		s.logger.Error("checkAppointmentAccess: failed to get professional id=%d: %v", appointment.ProfessionalID, err)
		return fmt.Errorf("%w: checkAppointmentAccess - failed to get professional: %v", ErrInternal, err)
	}

	if professional.UserID != nil && *professional.UserID == userID {
		return nil
	}

	return ErrAccessDenied
}

// checkOwnerAccess проверяет, что пользователь является владельцем бизнеса
func (s *Service) checkOwnerAccess(ctx context.Context, businessID int64, userID int64) error {
	business, err := s.scheduleRepo.GetBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrBusinessNotFound) {
			s.logger.Warn("checkOwnerAccess: business id=%d not found", businessID)
			return ErrBusinessNotFound
		}
		s.logger.Error("checkOwnerAccess: failed to get business id=%d: %v", businessID, err)
		return fmt.Errorf("%w: checkOwnerAccess - failed to get business: %v", ErrInternal, err)
	}

	if business.OwnerUserID == userID {
		return nil
	}

	return ErrAccessDenied
}

// resolveProfessionalUser находит мастера бизнеса со staff-аккаунтом пользователя
// Используется, когда список записей запрашивает не владелец
func (s *Service) resolveProfessionalUser(ctx context.Context, req *models.ListAppointmentsRequest) (int64, error) {
	// Мастер обязан указать себя в фильтре; проверяем соответствие аккаунта
	if req.ProfessionalID == nil {
		return 0, ErrAccessDenied
	}

	professional, err := s.scheduleRepo.GetProfessional(ctx, req.BusinessID, *req.ProfessionalID)
	if err != nil {
		return 0, ErrAccessDenied
	}

	if professional.UserID == nil || *professional.UserID != req.UserID {
		return 0, ErrAccessDenied
	}

	return professional.ID, nil
}
