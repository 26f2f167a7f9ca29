package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/barberia/booking-service/internal/domain"
	"github.com/barberia/booking-service/pkg/dbmetrics"
	"github.com/barberia/booking-service/pkg/psqlbuilder"
)

// Коды ошибок PostgreSQL, означающие конфликт слота
const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

// Repository репозиторий для работы с записями (appointments)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var selectColumns = []string{
	"id",
	"business_id",
	"service_id",
	"professional_id",
	"client_name",
	"client_phone",
	"client_email",
	"start_at",
	"end_at",
	"occupied_from",
	"occupied_until",
	"status",
	"service_name",
	"service_price",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"cancelled_by",
	"created_at",
	"updated_at",
}

// Create создает новую запись
// Таблица appointments защищена exclusion constraint на
// (professional_id, [occupied_from, occupied_until)) для активных статусов:
// если два коммита прошли мимо прикладной проверки, второй insert упадёт
// с 23P01, и мы транслируем это в ErrSlotConflict
func (r *Repository) Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"business_id",
			"service_id",
			"professional_id",
			"client_name",
			"client_phone",
			"client_email",
			"start_at",
			"end_at",
			"occupied_from",
			"occupied_until",
			"status",
			"service_name",
			"service_price",
			"notes",
		).
		Values(
			appointment.BusinessID,
			appointment.ServiceID,
			appointment.ProfessionalID,
			appointment.ClientName,
			appointment.ClientPhone,
			appointment.ClientEmail,
			appointment.StartAt,
			appointment.EndAt,
			appointment.OccupiedFrom,
			appointment.OccupiedUntil,
			appointment.Status,
			appointment.ServiceName,
			appointment.ServicePrice,
			appointment.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appointment.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isSlotConflict(err) {
			return nil, ErrSlotConflict
		}
		// Сохраняем причину в цепочке ошибок: txmanager должен распознать 40001
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	appointment.CreatedAt = createdAt.Time
	appointment.UpdatedAt = updatedAt.Time

	return appointment, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(selectColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appointment, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return appointment, nil
}

// GetActiveForProfessionalInRange получает активные записи мастера,
// пересекающие интервал [from, until)
// Внутри транзакции добавляет FOR UPDATE: usecase создания записи блокирует
// конкурирующие коммиты на тот же день
func (r *Repository) GetActiveForProfessionalInRange(ctx context.Context, professionalID int64, from, until time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	inactiveStatuses := make([]string, len(domain.InactiveStatuses))
	for i, s := range domain.InactiveStatuses {
		inactiveStatuses[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(selectColumns...).
		From("appointments").
		Where(squirrel.Eq{"professional_id": professionalID}).
		Where(squirrel.Lt{"occupied_from": until}).
		Where(squirrel.Gt{"occupied_until": from}).
		Where(squirrel.NotEq{"status": inactiveStatuses}).
		OrderBy("start_at ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveForProfessionalInRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveForProfessionalInRange - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// ListWithFilter получает записи бизнеса с гибкой фильтрацией
// Поддерживает фильтрацию по мастеру, дате/периоду, статусу
// и включению неактивных записей
func (r *Repository) ListWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(selectColumns...).
		From("appointments").
		Where(squirrel.Eq{"business_id": filter.BusinessID})

	if filter.ProfessionalID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"professional_id": *filter.ProfessionalID})
	}

	// Конкретная дата имеет приоритет над периодом
	if filter.Date != nil {
		dayStart := filter.Date.Truncate(24 * time.Hour)
		selectBuilder = selectBuilder.
			Where(squirrel.GtOrEq{"start_at": dayStart}).
			Where(squirrel.Lt{"start_at": dayStart.AddDate(0, 0, 1)})
	} else {
		if filter.From != nil {
			selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"start_at": *filter.From})
		}
		if filter.To != nil {
			selectBuilder = selectBuilder.Where(squirrel.Lt{"start_at": *filter.To})
		}
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		inactiveStatuses := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactiveStatuses[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactiveStatuses})
	}

	selectBuilder = selectBuilder.OrderBy("start_at ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// Cancel переводит запись в статус cancelled с указанием причины
// Обновляет только записи в отменяемых статусах; rowsAffected == 0
// означает, что запись не найдена или уже в терминальном статусе
func (r *Repository) Cancel(ctx context.Context, id int64, reason string, cancelledBy *int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	cancellable := []string{
		string(domain.StatusPending),
		string(domain.StatusConfirmed),
		string(domain.StatusInProgress),
	}

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("cancelled_by", cancelledBy).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": cancellable}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// UpdateStatus обновляет статус записи
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appointment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appointment domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appointment.ID,
		&appointment.BusinessID,
		&appointment.ServiceID,
		&appointment.ProfessionalID,
		&appointment.ClientName,
		&appointment.ClientPhone,
		&appointment.ClientEmail,
		&appointment.StartAt,
		&appointment.EndAt,
		&appointment.OccupiedFrom,
		&appointment.OccupiedUntil,
		&appointment.Status,
		&appointment.ServiceName,
		&appointment.ServicePrice,
		&appointment.Notes,
		&appointment.CancellationReason,
		&appointment.CancelledAt,
		&appointment.CancelledBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	appointment.CreatedAt = createdAt.Time
	appointment.UpdatedAt = updatedAt.Time

	return &appointment, nil
}

func isSlotConflict(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		return code == pgUniqueViolation || code == pgExclusionViolation
	}
	return false
}
