package hold

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

const pgUniqueViolation = "23505"

// Repository репозиторий для работы с временными блокировками слотов.
// Истёкшие holds нигде не фильтруются на стороне приложения:
// каждый запрос сравнивает expires_at с переданным now,
// поэтому истёкший hold невидим для всех читателей сразу
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория holds
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var selectColumns = []string{
	"id",
	"business_id",
	"service_id",
	"professional_id",
	"start_at",
	"occupied_from",
	"occupied_until",
	"expires_at",
	"created_at",
}

// Create создает новый hold
// Частичный уникальный индекс на (professional_id, start_at) гарантирует
// не более одного hold на слот; конфликт транслируется в ErrHoldConflict
func (r *Repository) Create(ctx context.Context, h *domain.SlotHold) (*domain.SlotHold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slot_holds").
		Columns(
			"id",
			"business_id",
			"service_id",
			"professional_id",
			"start_at",
			"occupied_from",
			"occupied_until",
			"expires_at",
		).
		Values(
			h.ID,
			h.BusinessID,
			h.ServiceID,
			h.ProfessionalID,
			h.StartAt,
			h.OccupiedFrom,
			h.OccupiedUntil,
			h.ExpiresAt,
		).
		Suffix("RETURNING created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&h.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return nil, ErrHoldConflict
		}
		// Сохраняем причину в цепочке ошибок для ретраев txmanager
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return h, nil
}

// GetByID получает hold по ID, если он ещё не истёк на момент now
func (r *Repository) GetByID(ctx context.Context, id string, now time.Time) (*domain.SlotHold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(selectColumns...).
		From("slot_holds").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Gt{"expires_at": now}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	h, err := scanHold(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrHoldNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan hold: %v", ErrScanRow, err)
	}

	return h, nil
}

// ListActiveForProfessional получает активные на момент now holds мастера,
// пересекающие интервал [from, until)
func (r *Repository) ListActiveForProfessional(ctx context.Context, professionalID int64, from, until time.Time, now time.Time) ([]*domain.SlotHold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(selectColumns...).
		From("slot_holds").
		Where(squirrel.Eq{"professional_id": professionalID}).
		Where(squirrel.Lt{"occupied_from": until}).
		Where(squirrel.Gt{"occupied_until": from}).
		Where(squirrel.Gt{"expires_at": now}).
		OrderBy("start_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveForProfessional - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveForProfessional - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	holds := make([]*domain.SlotHold, 0)
	for rows.Next() {
		h, err := scanHold(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActiveForProfessional - scan row: %v", ErrScanRow, err)
		}
		holds = append(holds, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveForProfessional - rows error: %v", ErrScanRow, err)
	}

	return holds, nil
}

// DeleteExpiredForSlot удаляет истёкшие на момент now holds конкретного слота.
// Вызывается внутри транзакции создания hold перед insert: освобождает
// место под уникальным индексом, занятое протухшим hold
func (r *Repository) DeleteExpiredForSlot(ctx context.Context, professionalID int64, startAt time.Time, now time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slot_holds").
		Where(squirrel.Eq{"professional_id": professionalID}).
		Where(squirrel.Eq{"start_at": startAt}).
		Where(squirrel.LtOrEq{"expires_at": now}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteExpiredForSlot - build delete query: %v", ErrBuildQuery, err)
	}

	_, err = executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteExpiredForSlot - execute delete: %w", ErrExecQuery, err)
	}

	return nil
}

// Delete удаляет hold по ID (использованный при коммите или отменённый клиентом)
func (r *Repository) Delete(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slot_holds").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	_, err = executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHold(row rowScanner) (*domain.SlotHold, error) {
	var h domain.SlotHold

	err := row.Scan(
		&h.ID,
		&h.BusinessID,
		&h.ServiceID,
		&h.ProfessionalID,
		&h.StartAt,
		&h.OccupiedFrom,
		&h.OccupiedUntil,
		&h.ExpiresAt,
		&h.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &h, nil
}
