package create_appointment

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/barberia/booking-service/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.ProfessionalID <= 0 {
		return fmt.Errorf("%w: professionalID must be positive", ErrInvalidInput)
	}

	if req.StartAt.IsZero() {
		return fmt.Errorf("%w: startAt is required", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.ClientName)
	if name == "" {
		return fmt.Errorf("%w: client name is required", ErrInvalidInput)
	}
	if len(name) > domain.MaxClientNameLength {
		return fmt.Errorf("%w: client name must be at most %d characters",
			ErrInvalidInput, domain.MaxClientNameLength)
	}

	phone := strings.TrimSpace(req.ClientPhone)
	if phone == "" {
		return fmt.Errorf("%w: client phone is required", ErrInvalidInput)
	}
	if len(phone) > domain.MaxClientPhoneLength {
		return fmt.Errorf("%w: client phone must be at most %d characters",
			ErrInvalidInput, domain.MaxClientPhoneLength)
	}

	if req.ClientEmail != nil && !emailRegexp.MatchString(*req.ClientEmail) {
		return fmt.Errorf("%w: invalid client email", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters",
			ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateStartTime проверяет, что начало записи не в прошлом,
// соблюдает минимальное время предупреждения и горизонт бронирования
func validateStartTime(startAt, now time.Time, config *domain.BookingConfig) error {
	if !startAt.After(now) {
		return fmt.Errorf("%w: start time is in the past", ErrInvalidStartTime)
	}

	earliestStart := now.Add(time.Duration(config.MinBookingNoticeMinutes) * time.Minute)
	if startAt.Before(earliestStart) {
		return fmt.Errorf("%w: minimum booking notice is %d minutes",
			ErrInvalidStartTime, config.MinBookingNoticeMinutes)
	}

	if config.HasAdvanceBookingLimit() {
		maxStart := now.AddDate(0, 0, config.AdvanceBookingDays)
		if startAt.After(maxStart) {
			return fmt.Errorf("%w: can only book %d days in advance",
				ErrDateTooFarInFuture, config.AdvanceBookingDays)
		}
	}

	return nil
}
