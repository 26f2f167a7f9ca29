package bookingconfig

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barberia/booking-service/internal/domain"
	configRepo "github.com/barberia/booking-service/internal/infra/storage/bookingconfig"
	scheduleRepo "github.com/barberia/booking-service/internal/infra/storage/schedule"
	"github.com/barberia/booking-service/internal/service/bookingconfig/models"
)

const (
	ownerUserID = int64(100)
	otherUserID = int64(300)
)

// Фейки зависимостей сервиса

type fakeConfigRepo struct {
	configs map[int64]*domain.BookingConfig

	hierarchyResult *domain.BookingConfig
	byPairResult    *domain.BookingConfig
	listResult      []*domain.BookingConfig

	created *domain.BookingConfig
	updated *domain.BookingConfig
}

func (f *fakeConfigRepo) Create(_ context.Context, config *domain.BookingConfig) (*domain.BookingConfig, error) {
	saved := *config
	saved.ID = 1
	f.created = &saved
	return &saved, nil
}

func (f *fakeConfigRepo) GetByBusinessAndService(_ context.Context, _ int64, _ *int64) (*domain.BookingConfig, error) {
	if f.byPairResult == nil {
		return nil, configRepo.ErrConfigNotFound
	}
	return f.byPairResult, nil
}

func (f *fakeConfigRepo) GetWithHierarchy(_ context.Context, _ int64, _ *int64) (*domain.BookingConfig, error) {
	if f.hierarchyResult == nil {
		return nil, configRepo.ErrConfigNotFound
	}
	return f.hierarchyResult, nil
}

func (f *fakeConfigRepo) ListByBusiness(_ context.Context, _ int64) ([]*domain.BookingConfig, error) {
	return f.listResult, nil
}

func (f *fakeConfigRepo) Update(_ context.Context, id int64, config *domain.BookingConfig) (*domain.BookingConfig, error) {
	saved := *config
	saved.ID = id
	f.updated = &saved
	return &saved, nil
}

func (f *fakeConfigRepo) Delete(_ context.Context, _ int64) error {
	return nil
}

type fakeScheduleRepo struct {
	business *domain.Business
	services map[int64]*domain.Service
}

func (f *fakeScheduleRepo) GetBusiness(_ context.Context, id int64) (*domain.Business, error) {
	if f.business == nil || f.business.ID != id {
		return nil, scheduleRepo.ErrBusinessNotFound
	}
	return f.business, nil
}

func (f *fakeScheduleRepo) GetService(_ context.Context, businessID, serviceID int64) (*domain.Service, error) {
	svc, ok := f.services[serviceID]
	if !ok || svc.BusinessID != businessID {
		return nil, scheduleRepo.ErrServiceNotFound
	}
	return svc, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestService() (*Service, *fakeConfigRepo, *fakeScheduleRepo) {
	configs := &fakeConfigRepo{configs: map[int64]*domain.BookingConfig{}}
	schedule := &fakeScheduleRepo{
		business: &domain.Business{ID: 1, Name: "Barberia Centro", OwnerUserID: ownerUserID},
		services: map[int64]*domain.Service{
			10: {ID: 10, BusinessID: 1, Name: "Haircut", DurationMinutes: 30, IsActive: true},
		},
	}
	return NewService(configs, schedule, nopLogger{}), configs, schedule
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool    { return &v }

// Тесты

func TestGetWithHierarchy(t *testing.T) {
	t.Run("ReturnsStoredConfig", func(t *testing.T) {
		svc, configs, _ := newTestService()
		configs.hierarchyResult = &domain.BookingConfig{
			ID:                      5,
			BusinessID:              1,
			ServiceID:               int64Ptr(10),
			SlotGranularityMinutes:  15,
			AdvanceBookingDays:      14,
			MinBookingNoticeMinutes: 60,
			HoldTTLSeconds:          300,
			AutoConfirm:             false,
		}

		resp, err := svc.GetWithHierarchy(context.Background(), &models.GetConfigRequest{BusinessID: 1, ServiceID: int64Ptr(10)})

		require.NoError(t, err)
		assert.Equal(t, int64(5), resp.ID)
		assert.Equal(t, 15, resp.SlotGranularityMinutes)
		assert.Equal(t, 300, resp.HoldTTLSeconds)
		assert.False(t, resp.AutoConfirm)
	})

	t.Run("FallsBackToDefaults", func(t *testing.T) {
		svc, _, _ := newTestService()

		resp, err := svc.GetWithHierarchy(context.Background(), &models.GetConfigRequest{BusinessID: 1})

		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.BusinessID)
		assert.Equal(t, domain.DefaultSlotGranularityMinutes, resp.SlotGranularityMinutes)
		assert.Equal(t, domain.DefaultAdvanceBookingDays, resp.AdvanceBookingDays)
		assert.Equal(t, domain.DefaultHoldTTLSeconds, resp.HoldTTLSeconds)
		assert.True(t, resp.AutoConfirm)
	})

	t.Run("UnknownBusiness", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.GetWithHierarchy(context.Background(), &models.GetConfigRequest{BusinessID: 99})

		assert.ErrorIs(t, err, ErrBusinessNotFound)
	})
}

func TestListByBusiness(t *testing.T) {
	t.Run("OwnerSeesAllConfigs", func(t *testing.T) {
		svc, configs, _ := newTestService()
		configs.listResult = []*domain.BookingConfig{
			{ID: 1, BusinessID: 1},
			{ID: 2, BusinessID: 1, ServiceID: int64Ptr(10)},
		}

		resp, err := svc.ListByBusiness(context.Background(), 1, ownerUserID)

		require.NoError(t, err)
		require.Len(t, resp.Configs, 2)
		assert.Nil(t, resp.Configs[0].ServiceID)
		assert.Equal(t, int64(10), *resp.Configs[1].ServiceID)
	})

	t.Run("NonOwnerDenied", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.ListByBusiness(context.Background(), 1, otherUserID)

		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestUpsert(t *testing.T) {
	t.Run("CreatesFromDefaults", func(t *testing.T) {
		svc, configs, _ := newTestService()

		resp, created, err := svc.Upsert(context.Background(), &models.UpsertConfigRequest{
			UserID:                 ownerUserID,
			BusinessID:             1,
			ServiceID:              int64Ptr(10),
			SlotGranularityMinutes: intPtr(15),
		})

		require.NoError(t, err)
		assert.True(t, created)
		require.NotNil(t, configs.created)
		assert.Nil(t, configs.updated)
		// Не переданные поля берутся из дефолтов
		assert.Equal(t, 15, resp.SlotGranularityMinutes)
		assert.Equal(t, domain.DefaultHoldTTLSeconds, resp.HoldTTLSeconds)
		assert.Equal(t, domain.DefaultAdvanceBookingDays, resp.AdvanceBookingDays)
		assert.True(t, resp.AutoConfirm)
		require.NotNil(t, resp.ServiceID)
		assert.Equal(t, int64(10), *resp.ServiceID)
	})

	t.Run("UpdatesExistingConfig", func(t *testing.T) {
		svc, configs, _ := newTestService()
		configs.byPairResult = &domain.BookingConfig{
			ID:                      7,
			BusinessID:              1,
			SlotGranularityMinutes:  30,
			AdvanceBookingDays:      30,
			MinBookingNoticeMinutes: 0,
			HoldTTLSeconds:          120,
			AutoConfirm:             true,
		}

		resp, created, err := svc.Upsert(context.Background(), &models.UpsertConfigRequest{
			UserID:      ownerUserID,
			BusinessID:  1,
			AutoConfirm: boolPtr(false),
		})

		require.NoError(t, err)
		assert.False(t, created)
		require.NotNil(t, configs.updated)
		assert.Nil(t, configs.created)
		assert.Equal(t, int64(7), resp.ID)
		assert.False(t, resp.AutoConfirm)
		// Остальные поля существующей конфигурации не затронуты
		assert.Equal(t, 30, resp.AdvanceBookingDays)
		assert.Equal(t, 120, resp.HoldTTLSeconds)
	})

	t.Run("NonOwnerDenied", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, _, err := svc.Upsert(context.Background(), &models.UpsertConfigRequest{
			UserID:     otherUserID,
			BusinessID: 1,
		})

		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("UnknownService", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, _, err := svc.Upsert(context.Background(), &models.UpsertConfigRequest{
			UserID:     ownerUserID,
			BusinessID: 1,
			ServiceID:  int64Ptr(99),
		})

		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("RejectsOutOfBoundsValues", func(t *testing.T) {
		cases := []struct {
			name string
			req  models.UpsertConfigRequest
		}{
			{"GranularityTooSmall", models.UpsertConfigRequest{SlotGranularityMinutes: intPtr(domain.MinSlotGranularityMinutes - 1)}},
			{"GranularityTooLarge", models.UpsertConfigRequest{SlotGranularityMinutes: intPtr(domain.MaxSlotGranularityMinutes + 1)}},
			{"AdvanceDaysNegative", models.UpsertConfigRequest{AdvanceBookingDays: intPtr(-1)}},
			{"AdvanceDaysTooLarge", models.UpsertConfigRequest{AdvanceBookingDays: intPtr(domain.MaxAdvanceBookingDays + 1)}},
			{"NoticeNegative", models.UpsertConfigRequest{MinBookingNoticeMinutes: intPtr(-1)}},
			{"HoldTTLTooShort", models.UpsertConfigRequest{HoldTTLSeconds: intPtr(domain.MinHoldTTLSeconds - 1)}},
			{"HoldTTLTooLong", models.UpsertConfigRequest{HoldTTLSeconds: intPtr(domain.MaxHoldTTLSeconds + 1)}},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				svc, configs, _ := newTestService()
				req := tc.req
				req.UserID = ownerUserID
				req.BusinessID = 1

				_, _, err := svc.Upsert(context.Background(), &req)

				assert.ErrorIs(t, err, ErrInvalidInput)
				assert.Nil(t, configs.created)
				assert.Nil(t, configs.updated)
			})
		}
	})
}
