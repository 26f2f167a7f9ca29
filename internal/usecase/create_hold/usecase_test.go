package create_hold

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barberia/booking-service/internal/domain"
	configRepo "github.com/barberia/booking-service/internal/infra/storage/bookingconfig"
	holdRepo "github.com/barberia/booking-service/internal/infra/storage/hold"
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
	appointments []*domain.Appointment
}

func (f *fakeAppointmentRepo) GetActiveForProfessionalInRange(_ context.Context, professionalID int64, from, until time.Time) ([]*domain.Appointment, error) {
	result := make([]*domain.Appointment, 0)
	for _, a := range f.appointments {
		if a.ProfessionalID != professionalID || !a.IsActive() {
			continue
		}
		if domain.IntervalsOverlap(a.OccupiedFrom, a.OccupiedUntil, from, until) {
			result = append(result, a)
		}
	}
	return result, nil
}

type fakeHoldRepo struct {
	holds []*domain.SlotHold

	created        *domain.SlotHold
	createErr      error
	deletedExpired []time.Time
}

func (f *fakeHoldRepo) Create(_ context.Context, h *domain.SlotHold) (*domain.SlotHold, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = h
	return h, nil
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

func (f *fakeHoldRepo) DeleteExpiredForSlot(_ context.Context, _ int64, startAt time.Time, _ time.Time) error {
	f.deletedExpired = append(f.deletedExpired, startAt)
	return nil
}

type fakeConfigRepo struct {
	config *domain.BookingConfig
}

func (f *fakeConfigRepo) GetWithHierarchy(_ context.Context, _ int64, _ *int64) (*domain.BookingConfig, error) {
	if f.config == nil {
		return nil, configRepo.ErrConfigNotFound
	}
	return f.config, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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
	appointments := &fakeAppointmentRepo{}
	holds := &fakeHoldRepo{}
	config := &fakeConfigRepo{}

	uc := NewUseCase(schedule, appointments, holds, config, fakeTxManager{}, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: now}

	return &fixture{
		schedule:     schedule,
		appointments: appointments,
		holds:        holds,
		config:       config,
		uc:           uc,
	}
}

func madrid(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)
	return loc
}

// Тесты

func TestCreateHold_Success(t *testing.T) {
	loc := madrid(t)
	now := time.Date(2026, 3, 16, 9, 0, 0, 0, loc)
	startAt := time.Date(2026, 3, 17, 11, 0, 0, 0, loc)
	f := newFixture(t, now)

	resp, err := f.uc.Execute(context.Background(), &Request{
		BusinessID: 1, ServiceID: 10, ProfessionalID: 7, StartAt: startAt,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.HoldID)
	// TTL по умолчанию 120 секунд
	assert.Equal(t, now.Add(120*time.Second), resp.ExpiresAt)

	require.NotNil(t, f.holds.created)
	assert.Equal(t, startAt, f.holds.created.StartAt)
	assert.Equal(t, startAt, f.holds.created.OccupiedFrom)
	assert.Equal(t, startAt.Add(30*time.Minute), f.holds.created.OccupiedUntil)

	// Перед вставкой слот освобождается от истёкших holds
	require.Len(t, f.holds.deletedExpired, 1)
	assert.Equal(t, startAt, f.holds.deletedExpired[0])
}

func TestCreateHold_BuffersWidenOccupiedInterval(t *testing.T) {
	loc := madrid(t)
	now := time.Date(2026, 3, 16, 9, 0, 0, 0, loc)
	startAt := time.Date(2026, 3, 17, 11, 0, 0, 0, loc)
	f := newFixture(t, now)
	f.schedule.service.BufferBeforeMinutes = 15
	f.schedule.service.BufferAfterMinutes = 10

	_, err := f.uc.Execute(context.Background(), &Request{
		BusinessID: 1, ServiceID: 10, ProfessionalID: 7, StartAt: startAt,
	})

	require.NoError(t, err)
	require.NotNil(t, f.holds.created)
	assert.Equal(t, startAt.Add(-15*time.Minute), f.holds.created.OccupiedFrom)
	assert.Equal(t, startAt.Add(40*time.Minute), f.holds.created.OccupiedUntil)
}

func TestCreateHold_OffGridStart(t *testing.T) {
	loc := madrid(t)
	now := time.Date(2026, 3, 16, 9, 0, 0, 0, loc)
	f := newFixture(t, now)

	// 11:10 не лежит на сетке с шагом 30 минут от 10:00
	_, err := f.uc.Execute(context.Background(), &Request{
		BusinessID: 1, ServiceID: 10, ProfessionalID: 7,
		StartAt: time.Date(2026, 3, 17, 11, 10, 0, 0, loc),
	})

	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Nil(t, f.holds.created)
}

func TestCreateHold_OutsideWorkingWindow(t *testing.T) {
	loc := madrid(t)
	now := time.Date(2026, 3, 16, 9, 0, 0, 0, loc)
	f := newFixture(t, now)

	// Начало 18:00: занимаемый интервал выходит за конец окна
	_, err := f.uc.Execute(context.Background(), &Request{
		BusinessID: 1, ServiceID: 10, ProfessionalID: 7,
		StartAt: time.Date(2026, 3, 17, 18, 0, 0, 0, loc),
	})

	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestCreateHold_SlotTaken(t *testing.T) {
	loc := madrid(t)
	now := time.Date(2026, 3, 16, 9, 0, 0, 0, loc)
	startAt := time.Date(2026, 3, 17, 11, 0, 0, 0, loc)

	t.Run("by active appointment", func(t *testing.T) {
		f := newFixture(t, now)
		f.appointments.appointments = []*domain.Appointment{{
			ID: 1, ProfessionalID: 7, Status: domain.StatusConfirmed,
			OccupiedFrom: startAt, OccupiedUntil: startAt.Add(30 * time.Minute),
		}}

		_, err := f.uc.Execute(context.Background(), &Request{
			BusinessID: 1, ServiceID: 10, ProfessionalID: 7, StartAt: startAt,
		})

		assert.ErrorIs(t, err, ErrSlotUnavailable)
	})

	t.Run("by foreign active hold", func(t *testing.T) {
		f := newFixture(t, now)
		f.holds.holds = []*domain.SlotHold{{
			ID: "other", ProfessionalID: 7, StartAt: startAt,
			OccupiedFrom: startAt, OccupiedUntil: startAt.Add(30 * time.Minute),
			ExpiresAt: now.Add(time.Minute),
		}}

		_, err := f.uc.Execute(context.Background(), &Request{
			BusinessID: 1, ServiceID: 10, ProfessionalID: 7, StartAt: startAt,
		})

		assert.ErrorIs(t, err, ErrSlotUnavailable)
	})

	t.Run("by time block", func(t *testing.T) {
		f := newFixture(t, now)
		f.schedule.blocks = []*domain.TimeBlock{{
			ID: 1, BusinessID: 1,
			StartAt: time.Date(2026, 3, 17, 10, 0, 0, 0, loc),
			EndAt:   time.Date(2026, 3, 17, 12, 0, 0, 0, loc),
		}}

		_, err := f.uc.Execute(context.Background(), &Request{
			BusinessID: 1, ServiceID: 10, ProfessionalID: 7, StartAt: startAt,
		})

		assert.ErrorIs(t, err, ErrSlotUnavailable)
	})
}

func TestCreateHold_ExpiredHoldDoesNotBlock(t *testing.T) {
	loc := madrid(t)
	now := time.Date(2026, 3, 16, 9, 0, 0, 0, loc)
	startAt := time.Date(2026, 3, 17, 11, 0, 0, 0, loc)
	f := newFixture(t, now)

	f.holds.holds = []*domain.SlotHold{{
		ID: "expired", ProfessionalID: 7, StartAt: startAt,
		OccupiedFrom: startAt, OccupiedUntil: startAt.Add(30 * time.Minute),
		ExpiresAt: now.Add(-time.Second),
	}}

	resp, err := f.uc.Execute(context.Background(), &Request{
		BusinessID: 1, ServiceID: 10, ProfessionalID: 7, StartAt: startAt,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.HoldID)
	// Истёкший hold на этом слоте удаляется, освобождая уникальный индекс
	assert.Equal(t, []time.Time{startAt}, f.holds.deletedExpired)
}

func TestCreateHold_ConcurrentInsertConflict(t *testing.T) {
	loc := madrid(t)
	now := time.Date(2026, 3, 16, 9, 0, 0, 0, loc)
	f := newFixture(t, now)
	f.holds.createErr = holdRepo.ErrHoldConflict

	_, err := f.uc.Execute(context.Background(), &Request{
		BusinessID: 1, ServiceID: 10, ProfessionalID: 7,
		StartAt: time.Date(2026, 3, 17, 11, 0, 0, 0, loc),
	})

	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestCreateHold_StartTimeValidation(t *testing.T) {
	loc := madrid(t)
	now := time.Date(2026, 3, 17, 12, 0, 0, 0, loc)

	t.Run("start in the past", func(t *testing.T) {
		f := newFixture(t, now)

		_, err := f.uc.Execute(context.Background(), &Request{
			BusinessID: 1, ServiceID: 10, ProfessionalID: 7,
			StartAt: time.Date(2026, 3, 17, 11, 0, 0, 0, loc),
		})

		assert.ErrorIs(t, err, ErrInvalidStartTime)
	})

	t.Run("violates minimum notice", func(t *testing.T) {
		f := newFixture(t, now)
		f.config.config = &domain.BookingConfig{
			BusinessID:              1,
			SlotGranularityMinutes:  30,
			MinBookingNoticeMinutes: 120,
			HoldTTLSeconds:          120,
		}

		_, err := f.uc.Execute(context.Background(), &Request{
			BusinessID: 1, ServiceID: 10, ProfessionalID: 7,
			StartAt: time.Date(2026, 3, 17, 13, 0, 0, 0, loc),
		})

		assert.ErrorIs(t, err, ErrInvalidStartTime)
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
			BusinessID: 1, ServiceID: 10, ProfessionalID: 7,
			StartAt: time.Date(2026, 3, 30, 11, 0, 0, 0, loc),
		})

		assert.ErrorIs(t, err, ErrDateTooFarInFuture)
	})
}

func TestCreateHold_InactiveProfessional(t *testing.T) {
	loc := madrid(t)
	now := time.Date(2026, 3, 16, 9, 0, 0, 0, loc)
	f := newFixture(t, now)
	f.schedule.professionals[7].IsActive = false

	_, err := f.uc.Execute(context.Background(), &Request{
		BusinessID: 1, ServiceID: 10, ProfessionalID: 7,
		StartAt: time.Date(2026, 3, 17, 11, 0, 0, 0, loc),
	})

	assert.ErrorIs(t, err, ErrProfessionalNotFound)
}
