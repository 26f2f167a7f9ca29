package create_appointment

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrProfessionalNotFound возвращается, когда мастер не найден или неактивен
	ErrProfessionalNotFound = errors.New("professional not found")

	// ErrInvalidStartTime возвращается, когда время начала в прошлом
	// или нарушает минимальное время предупреждения
	ErrInvalidStartTime = errors.New("invalid start time")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("date is too far in the future")

	// ErrSlotUnavailable возвращается, когда слот занят или недоступен:
	// конфликт с записью, блокировкой времени, чужим активным hold
	// или гонка, пойманная ограничением БД
	ErrSlotUnavailable = errors.New("slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
