package domain

import (
	"time"

	"github.com/barberia/booking-service/pkg/types"
)

// Business identifies a tenant of the booking platform
type Business struct {
	ID          int64
	Name        string
	Slug        string
	Timezone    string // IANA name, e.g. "Europe/Madrid"
	OwnerUserID int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Location возвращает временную зону бизнеса
// При некорректном значении используется UTC
func (b *Business) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Service is a bookable offering of a business
type Service struct {
	ID                  int64
	BusinessID          int64
	Name                string
	DurationMinutes     int
	BufferBeforeMinutes int
	BufferAfterMinutes  int
	Price               float64
	IsActive            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// OccupiedInterval returns the interval a booking of this service occupies
// when anchored at start: [start - buffer_before, start + duration + buffer_after)
func (s *Service) OccupiedInterval(start time.Time) (time.Time, time.Time) {
	from := start.Add(-time.Duration(s.BufferBeforeMinutes) * time.Minute)
	until := start.Add(time.Duration(s.DurationMinutes+s.BufferAfterMinutes) * time.Minute)
	return from, until
}

// EndAt returns the client-visible end of a booking started at start
func (s *Service) EndAt(start time.Time) time.Time {
	return start.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

// DaySchedule is a professional's working window for one weekday
type DaySchedule struct {
	IsWorking bool
	StartTime types.TimeString // empty when IsWorking is false
	EndTime   types.TimeString
}

// WeeklySchedule maps weekdays to working windows
type WeeklySchedule struct {
	Monday    DaySchedule
	Tuesday   DaySchedule
	Wednesday DaySchedule
	Thursday  DaySchedule
	Friday    DaySchedule
	Saturday  DaySchedule
	Sunday    DaySchedule
}

// ForWeekday возвращает рабочее окно на указанный день недели
func (w *WeeklySchedule) ForWeekday(weekday time.Weekday) DaySchedule {
	switch weekday {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	case time.Sunday:
		return w.Sunday
	default:
		return DaySchedule{IsWorking: false}
	}
}

// Professional belongs to one business and has a weekly availability table
type Professional struct {
	ID          int64
	BusinessID  int64
	DisplayName string
	Specialty   *string
	UserID      *int64 // staff account, nil for unmanaged professionals
	IsActive    bool
	Schedule    WeeklySchedule
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TimeBlock is an explicit unavailable interval [StartAt, EndAt)
// for one professional or business-wide when ProfessionalID is nil
type TimeBlock struct {
	ID             int64
	BusinessID     int64
	ProfessionalID *int64
	StartAt        time.Time
	EndAt          time.Time
	Reason         *string
	CreatedAt      time.Time
}

// AppliesTo returns true if the block affects the given professional
func (t *TimeBlock) AppliesTo(professionalID int64) bool {
	return t.ProfessionalID == nil || *t.ProfessionalID == professionalID
}
