package appointment

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barberia/booking-service/internal/domain"
	"github.com/barberia/booking-service/pkg/dbmetrics"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(dbmetrics.WrapSQL(db)), mock
}

func testAppointment() *domain.Appointment {
	startAt := time.Date(2026, 9, 10, 11, 0, 0, 0, time.UTC)
	return &domain.Appointment{
		BusinessID:     1,
		ServiceID:      10,
		ProfessionalID: 7,
		ClientName:     "Maria Lopez",
		ClientPhone:    "+34 600 000 001",
		StartAt:        startAt,
		EndAt:          startAt.Add(30 * time.Minute),
		OccupiedFrom:   startAt,
		OccupiedUntil:  startAt.Add(30 * time.Minute),
		Status:         domain.StatusConfirmed,
		ServiceName:    "Haircut",
		ServicePrice:   25,
	}
}

func TestCreate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		now := time.Now()

		mock.ExpectQuery("INSERT INTO appointments").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(42), now, now))

		created, err := repo.Create(context.Background(), testAppointment())

		require.NoError(t, err)
		assert.Equal(t, int64(42), created.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ExclusionViolationIsSlotConflict", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery("INSERT INTO appointments").
			WillReturnError(&pq.Error{Code: "23P01", Constraint: "appointments_no_overlap"})

		_, err := repo.Create(context.Background(), testAppointment())

		assert.ErrorIs(t, err, ErrSlotConflict)
	})

	t.Run("UniqueViolationIsSlotConflict", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery("INSERT INTO appointments").
			WillReturnError(&pq.Error{Code: "23505"})

		_, err := repo.Create(context.Background(), testAppointment())

		assert.ErrorIs(t, err, ErrSlotConflict)
	})

	t.Run("OtherErrorStaysInspectable", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		// 40001 не конфликт слота: причина должна остаться в цепочке,
		// чтобы менеджер транзакций распознал её и повторил транзакцию
		mock.ExpectQuery("INSERT INTO appointments").
			WillReturnError(&pq.Error{Code: "40001"})

		_, err := repo.Create(context.Background(), testAppointment())

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrExecQuery)
		assert.NotErrorIs(t, err, ErrSlotConflict)

		var pqErr *pq.Error
		require.ErrorAs(t, err, &pqErr)
		assert.Equal(t, pq.ErrorCode("40001"), pqErr.Code)
	})
}

func TestGetByID(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery("SELECT (.+) FROM appointments").
			WithArgs(int64(42)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), 42)

		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

func TestCancel(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectExec("UPDATE appointments").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Cancel(context.Background(), 42, "client request", nil)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NoCancellableRowIsNotFound", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		// Запись не существует или уже в терминальном статусе
		mock.ExpectExec("UPDATE appointments").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Cancel(context.Background(), 42, "client request", nil)

		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

func TestUpdateStatus(t *testing.T) {
	t.Run("MissingRowIsNotFound", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectExec("UPDATE appointments").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(context.Background(), 42, domain.StatusCompleted)

		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}
