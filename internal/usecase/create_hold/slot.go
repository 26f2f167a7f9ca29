package create_hold

import (
	"time"

	"github.com/barberia/booking-service/internal/domain"
)

// validateSlotFitsSchedule проверяет, что слот попадает на сетку слотов
// внутри рабочего окна мастера и занимаемый интервал не выходит за окно
func validateSlotFitsSchedule(
	professional *domain.Professional,
	service *domain.Service,
	startAt time.Time,
	loc *time.Location,
	granularityMinutes int,
) error {
	localStart := startAt.In(loc)

	day := professional.Schedule.ForWeekday(localStart.Weekday())
	if !day.IsWorking || day.StartTime.IsZero() || day.EndTime.IsZero() {
		return ErrSlotUnavailable
	}

	windowStart, err := day.StartTime.At(localStart, loc)
	if err != nil {
		return ErrSlotUnavailable
	}
	windowEnd, err := day.EndTime.At(localStart, loc)
	if err != nil {
		return ErrSlotUnavailable
	}

	// Слот должен лежать на сетке: смещение от начала окна кратно шагу
	offset := startAt.Sub(windowStart)
	step := time.Duration(granularityMinutes) * time.Minute
	if offset < 0 || offset%step != 0 {
		return ErrSlotUnavailable
	}

	// Занимаемый интервал (с буферами) не выходит за рабочее окно
	occupiedFrom, occupiedUntil := service.OccupiedInterval(startAt)
	if occupiedFrom.Before(windowStart) || occupiedUntil.After(windowEnd) {
		return ErrSlotUnavailable
	}

	return nil
}

// findOverlap проверяет пересечение занимаемого интервала с записями,
// holds и блокировками времени мастера
// Граничащие интервалы (конец одного равен началу другого) не пересекаются
func findOverlap(
	professionalID int64,
	occupiedFrom, occupiedUntil time.Time,
	appointments []*domain.Appointment,
	holds []*domain.SlotHold,
	blocks []*domain.TimeBlock,
) bool {
	for _, appointment := range appointments {
		if !appointment.IsActive() {
			continue
		}
		if domain.IntervalsOverlap(occupiedFrom, occupiedUntil, appointment.OccupiedFrom, appointment.OccupiedUntil) {
			return true
		}
	}

	for _, h := range holds {
		if domain.IntervalsOverlap(occupiedFrom, occupiedUntil, h.OccupiedFrom, h.OccupiedUntil) {
			return true
		}
	}

	for _, block := range blocks {
		if !block.AppliesTo(professionalID) {
			continue
		}
		if domain.IntervalsOverlap(occupiedFrom, occupiedUntil, block.StartAt, block.EndAt) {
			return true
		}
	}

	return false
}
