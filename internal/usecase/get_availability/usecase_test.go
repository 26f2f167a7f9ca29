package get_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barberia/booking-service/internal/domain"
	configRepo "github.com/barberia/booking-service/internal/infra/storage/bookingconfig"
	scheduleRepo "github.com/barberia/booking-service/internal/infra/storage/schedule"
	"github.com/barberia/booking-service/pkg/types"
)

// Фейки зависимостей use case

type fakeScheduleRepo struct {
	business      *domain.Business
	service       *domain.Service
	professionals map[int64]*domain.Professional
	blocks        []*domain.TimeBlock
}

func (f *fakeScheduleRepo) GetBusiness(_ context.Context, id int64) (*domain.Business, error) {
	if f.business == nil || f.business.ID != id {
		return nil, scheduleRepo.ErrBusinessNotFound
	}
	return f.business, nil
}

func (f *fakeScheduleRepo) GetService(_ context.Context, businessID, serviceID int64) (*domain.Service, error) {
	if f.service == nil || f.service.ID != serviceID || f.service.BusinessID != businessID {
		return nil, scheduleRepo.ErrServiceNotFound
	}
	return f.service, nil
}

func (f *fakeScheduleRepo) GetProfessional(_ context.Context, businessID, professionalID int64) (*domain.Professional, error) {
	p, ok := f.professionals[professionalID]
	if !ok || p.BusinessID != businessID {
		return nil, scheduleRepo.ErrProfessionalNotFound
	}
	return p, nil
}

func (f *fakeScheduleRepo) ListActiveProfessionals(_ context.Context, businessID int64) ([]*domain.Professional, error) {
	result := make([]*domain.Professional, 0)
	for _, p := range f.professionals {
		if p.BusinessID == businessID && p.IsActive {
			result = append(result, p)
		}
	}
	return result, nil
}

func (f *fakeScheduleRepo) ListTimeBlocks(_ context.Context, businessID int64, from, until time.Time) ([]*domain.TimeBlock, error) {
	result := make([]*domain.TimeBlock, 0)
	for _, b := range f.blocks {
		if b.BusinessID == businessID && domain.IntervalsOverlap(b.StartAt, b.EndAt, from, until) {
			result = append(result, b)
		}
	}
	return result, nil
}

type fakeAppointmentRepo struct {
	appointments map[int64][]*domain.Appointment
}

func (f *fakeAppointmentRepo) GetActiveForProfessionalInRange(_ context.Context, professionalID int64, from, until time.Time) ([]*domain.Appointment, error) {
	result := make([]*domain.Appointment, 0)
	for _, a := range f.appointments[professionalID] {
		if a.IsActive() && domain.IntervalsOverlap(a.OccupiedFrom, a.OccupiedUntil, from, until) {
			result = append(result, a)
		}
	}
	return result, nil
}

type fakeHoldRepo struct {
	holds []*domain.SlotHold
}

func (f *fakeHoldRepo) ListActiveForProfessional(_ context.Context, professionalID int64, from, until time.Time, now time.Time) ([]*domain.SlotHold, error) {
	result := make([]*domain.SlotHold, 0)
	for _, h := range f.holds {
		if h.ProfessionalID != professionalID || h.IsExpired(now) {
			continue
		}
		if domain.IntervalsOverlap(h.OccupiedFrom, h.OccupiedUntil, from, until) {
			result = append(result, h)
		}
	}
	return result, nil
}

type fakeConfigRepo struct {
	config *domain.BookingConfig
}

func (f *fakeConfigRepo) GetWithHierarchy(_ context.Context, businessID int64, _ *int64) (*domain.BookingConfig, error) {
	if f.config == nil {
		return nil, configRepo.ErrConfigNotFound
	}
	return f.config, nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (f *fixedTimeProvider) Now() time.Time {
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Фикстуры

func madridLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)
	return loc
}

func allWeekSchedule(start, end types.TimeString) domain.WeeklySchedule {
	day := domain.DaySchedule{IsWorking: true, StartTime: start, EndTime: end}
	return domain.WeeklySchedule{
		Monday: day, Tuesday: day, Wednesday: day,
		Thursday: day, Friday: day, Saturday: day, Sunday: day,
	}
}

type fixture struct {
	schedule     *fakeScheduleRepo
	appointments *fakeAppointmentRepo
	holds        *fakeHoldRepo
	config       *fakeConfigRepo
	uc           *UseCase
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()

	schedule := &fakeScheduleRepo{
		business: &domain.Business{ID: 1, Timezone: "Europe/Madrid", OwnerUserID: 100},
		service:  &domain.Service{ID: 10, BusinessID: 1, Name: "Haircut", DurationMinutes: 30, Price: 25, IsActive: true},
		professionals: map[int64]*domain.Professional{
			7: {ID: 7, BusinessID: 1, DisplayName: "Alex", IsActive: true, Schedule: allWeekSchedule("10:00", "18:00")},
		},
	}
	appointments := &fakeAppointmentRepo{appointments: map[int64][]*domain.Appointment{}}
	holds := &fakeHoldRepo{}
	config := &fakeConfigRepo{}

	uc := NewUseCase(schedule, appointments, holds, config, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: now}

	return &fixture{
		schedule:     schedule,
		appointments: appointments,
		holds:        holds,
		config:       config,
		uc:           uc,
	}
}

func slotStrings(slots []types.TimeString) []string {
	result := make([]string, len(slots))
	for i, s := range slots {
		result[i] = s.String()
	}
	return result
}

// Тесты

func TestGetAvailability_FullyFreeDay(t *testing.T) {
	loc := madridLocation(t)
	now := time.Date(2026, 3, 16, 9, 0, 0, 0, loc)
	f := newFixture(t, now)

	resp, err := f.uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  10,
		Date:       time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Equal(t, "Europe/Madrid", resp.Timezone)
	// Окно 10:00-18:00, услуга 30 минут, шаг 30 минут: 16 слотов
	assert.Len(t, resp.Slots, 16)
	assert.Equal(t, "10:00", resp.Slots[0].String())
	assert.Equal(t, "17:30", resp.Slots[15].String())
}

func TestGetAvailability_BuffersShrinkWindow(t *testing.T) {
	loc := madridLocation(t)
	now := time.Date(2026, 3, 16, 9, 0, 0, 0, loc)
	f := newFixture(t, now)
	f.schedule.service.BufferBeforeMinutes = 15
	f.schedule.service.BufferAfterMinutes = 15

	resp, err := f.uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  10,
		Date:       time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	// 10:00 отпадает (буфер до выходит за окно), последний слот 17:00
	assert.Equal(t, "10:30", resp.Slots[0].String())
	assert.Equal(t, "17:00", resp.Slots[len(resp.Slots)-1].String())
	assert.Len(t, resp.Slots, 14)
}

func TestGetAvailability_SameDayExcludesPast(t *testing.T) {
	loc := madridLocation(t)
	now := time.Date(2026, 3, 17, 14, 5, 0, 0, loc)
	f := newFixture(t, now)

	resp, err := f.uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  10,
		Date:       time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	// Остаются только слоты строго позже 14:05
	assert.Equal(t, []string{"14:30", "15:00", "15:30", "16:00", "16:30", "17:00", "17:30"}, slotStrings(resp.Slots))
}

func TestGetAvailability_ActiveAppointmentBlocksSlot(t *testing.T) {
	loc := madridLocation(t)
	now := time.Date(2026, 3, 16, 9, 0, 0, 0, loc)
	f := newFixture(t, now)

	busyStart := time.Date(2026, 3, 17, 12, 0, 0, 0, loc)
	f.appointments.appointments[7] = []*domain.Appointment{{
		ID: 1, ProfessionalID: 7, Status: domain.StatusConfirmed,
		OccupiedFrom: busyStart, OccupiedUntil: busyStart.Add(30 * time.Minute),
	}}

	resp, err := f.uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  10,
		Date:       time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	// Занят только слот 12:00; граничащие 11:30 и 12:30 свободны
	assert.Len(t, resp.Slots, 15)
	assert.NotContains(t, slotStrings(resp.Slots), "12:00")
	assert.Contains(t, slotStrings(resp.Slots), "11:30")
	assert.Contains(t, slotStrings(resp.Slots), "12:30")
}

func TestGetAvailability_CancelledAppointmentDoesNotBlock(t *testing.T) {
	loc := madridLocation(t)
	now := time.Date(2026, 3, 16, 9, 0, 0, 0, loc)
	f := newFixture(t, now)

	busyStart := time.Date(2026, 3, 17, 12, 0, 0, 0, loc)
	f.appointments.appointments[7] = []*domain.Appointment{{
		ID: 1, ProfessionalID: 7, Status: domain.StatusCancelled,
		OccupiedFrom: busyStart, OccupiedUntil: busyStart.Add(30 * time.Minute),
	}}

	resp, err := f.uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  10,
		Date:       time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Len(t, resp.Slots, 16)
}

func TestGetAvailability_Holds(t *testing.T) {
	loc := madridLocation(t)
	now := time.Date(2026, 3, 16, 9, 0, 0, 0, loc)
	slotStart := time.Date(2026, 3, 17, 13, 0, 0, 0, loc)

	t.Run("active hold blocks slot", func(t *testing.T) {
		f := newFixture(t, now)
		f.holds.holds = []*domain.SlotHold{{
			ID: "h1", ProfessionalID: 7, StartAt: slotStart,
			OccupiedFrom: slotStart, OccupiedUntil: slotStart.Add(30 * time.Minute),
			ExpiresAt: now.Add(2 * time.Minute),
		}}

		resp, err := f.uc.Execute(context.Background(), &Request{
			BusinessID: 1, ServiceID: 10,
			Date: time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC),
		})

		require.NoError(t, err)
		assert.NotContains(t, slotStrings(resp.Slots), "13:00")
	})

	t.Run("expired hold does not block", func(t *testing.T) {
		f := newFixture(t, now)
		f.holds.holds = []*domain.SlotHold{{
			ID: "h1", ProfessionalID: 7, StartAt: slotStart,
			OccupiedFrom: slotStart, OccupiedUntil: slotStart.Add(30 * time.Minute),
			ExpiresAt: now.Add(-time.Second),
		}}

		resp, err := f.uc.Execute(context.Background(), &Request{
			BusinessID: 1, ServiceID: 10,
			Date: time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC),
		})

		require.NoError(t, err)
		assert.Contains(t, slotStrings(resp.Slots), "13:00")
	})
}

func TestGetAvailability_TimeBlockRemovesSlots(t *testing.T) {
	loc := madridLocation(t)
	now := time.Date(2026, 3, 16, 9, 0, 0, 0, loc)
	f := newFixture(t, now)

	// Общая блокировка бизнеса 10:00-13:00
	f.schedule.blocks = []*domain.TimeBlock{{
		ID: 1, BusinessID: 1, ProfessionalID: nil,
		StartAt: time.Date(2026, 3, 17, 10, 0, 0, 0, loc),
		EndAt:   time.Date(2026, 3, 17, 13, 0, 0, 0, loc),
	}}

	resp, err := f.uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  10,
		Date:       time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	// Слоты 10:00-12:30 выпадают, первый доступный 13:00
	assert.Equal(t, "13:00", resp.Slots[0].String())
	assert.Len(t, resp.Slots, 10)
}

func TestGetAvailability_InactiveProfessionalReturnsEmpty(t *testing.T) {
	loc := madridLocation(t)
	now := time.Date(2026, 3, 16, 9, 0, 0, 0, loc)
	f := newFixture(t, now)
	f.schedule.professionals[7].IsActive = false

	professionalID := int64(7)
	resp, err := f.uc.Execute(context.Background(), &Request{
		BusinessID:     1,
		ServiceID:      10,
		ProfessionalID: &professionalID,
		Date:           time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestGetAvailability_MergesSlotsAcrossProfessionals(t *testing.T) {
	loc := madridLocation(t)
	now := time.Date(2026, 3, 16, 9, 0, 0, 0, loc)
	f := newFixture(t, now)

	// Второй мастер работает 16:00-19:00: слоты пересекаются с первым частично
	f.schedule.professionals[8] = &domain.Professional{
		ID: 8, BusinessID: 1, DisplayName: "Borja", IsActive: true,
		Schedule: allWeekSchedule("16:00", "19:00"),
	}

	resp, err := f.uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  10,
		Date:       time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	// 16 слотов первого мастера + 18:00 и 18:30 второго, без дублей
	assert.Len(t, resp.Slots, 18)
	assert.Equal(t, "18:30", resp.Slots[17].String())

	merged := slotStrings(resp.Slots)
	seen := map[string]struct{}{}
	for _, s := range merged {
		_, dup := seen[s]
		assert.False(t, dup, "duplicate slot %s", s)
		seen[s] = struct{}{}
	}
}

func TestGetAvailability_DateValidation(t *testing.T) {
	loc := madridLocation(t)
	now := time.Date(2026, 3, 16, 9, 0, 0, 0, loc)

	t.Run("past date", func(t *testing.T) {
		f := newFixture(t, now)

		_, err := f.uc.Execute(context.Background(), &Request{
			BusinessID: 1, ServiceID: 10,
			Date: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		})

		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("beyond advance booking horizon", func(t *testing.T) {
		f := newFixture(t, now)
		f.config.config = &domain.BookingConfig{
			BusinessID:             1,
			SlotGranularityMinutes: 30,
			AdvanceBookingDays:     7,
			HoldTTLSeconds:         120,
		}

		_, err := f.uc.Execute(context.Background(), &Request{
			BusinessID: 1, ServiceID: 10,
			Date: time.Date(2026, 3, 30, 0, 0, 0, 0, time.UTC),
		})

		assert.ErrorIs(t, err, ErrDateTooFarInFuture)
	})
}

func TestGetAvailability_NotFound(t *testing.T) {
	loc := madridLocation(t)
	now := time.Date(2026, 3, 16, 9, 0, 0, 0, loc)
	date := time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC)

	t.Run("business", func(t *testing.T) {
		f := newFixture(t, now)

		_, err := f.uc.Execute(context.Background(), &Request{BusinessID: 99, ServiceID: 10, Date: date})

		assert.ErrorIs(t, err, ErrBusinessNotFound)
	})

	t.Run("service", func(t *testing.T) {
		f := newFixture(t, now)

		_, err := f.uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 99, Date: date})

		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("professional", func(t *testing.T) {
		f := newFixture(t, now)
		missing := int64(99)

		_, err := f.uc.Execute(context.Background(), &Request{
			BusinessID: 1, ServiceID: 10, ProfessionalID: &missing, Date: date,
		})

		assert.ErrorIs(t, err, ErrProfessionalNotFound)
	})
}
