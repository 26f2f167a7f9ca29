package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/barberia/booking-service/internal/domain"
	"github.com/barberia/booking-service/pkg/dbmetrics"
	"github.com/barberia/booking-service/pkg/psqlbuilder"
	"github.com/barberia/booking-service/pkg/types"
)

// Repository репозиторий расписаний: бизнесы, мастера, услуги, блокировки времени
// Для ядра бронирования это read-only коллаборатор (Schedule Store)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBusiness получает бизнес по ID
func (r *Repository) GetBusiness(ctx context.Context, id int64) (*domain.Business, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"slug",
		"timezone",
		"owner_user_id",
		"created_at",
		"updated_at",
	).
		From("businesses").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBusiness - build select query: %v", ErrBuildQuery, err)
	}

	var business domain.Business
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&business.ID,
		&business.Name,
		&business.Slug,
		&business.Timezone,
		&business.OwnerUserID,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrBusinessNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusiness - scan business: %v", ErrScanRow, err)
	}

	business.CreatedAt = createdAt.Time
	business.UpdatedAt = updatedAt.Time

	return &business, nil
}

// GetService получает услугу бизнеса по ID
func (r *Repository) GetService(ctx context.Context, businessID, serviceID int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"name",
		"duration_minutes",
		"buffer_before_minutes",
		"buffer_after_minutes",
		"price",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("services").
		Where(squirrel.Eq{"id": serviceID, "business_id": businessID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	var service domain.Service
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.BusinessID,
		&service.Name,
		&service.DurationMinutes,
		&service.BufferBeforeMinutes,
		&service.BufferAfterMinutes,
		&service.Price,
		&service.IsActive,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %v", ErrScanRow, err)
	}

	service.CreatedAt = createdAt.Time
	service.UpdatedAt = updatedAt.Time

	return &service, nil
}

// GetProfessional получает мастера бизнеса по ID вместе с недельным расписанием
func (r *Repository) GetProfessional(ctx context.Context, businessID, professionalID int64) (*domain.Professional, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := professionalSelect().
		Where(squirrel.Eq{"id": professionalID, "business_id": businessID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetProfessional - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	professional, err := scanProfessional(row)
	if err == sql.ErrNoRows {
		return nil, ErrProfessionalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetProfessional - scan professional: %v", ErrScanRow, err)
	}

	if err := r.loadWeeklySchedules(ctx, []*domain.Professional{professional}); err != nil {
		return nil, err
	}

	return professional, nil
}

// ListActiveProfessionals получает всех активных мастеров бизнеса с расписаниями
func (r *Repository) ListActiveProfessionals(ctx context.Context, businessID int64) ([]*domain.Professional, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := professionalSelect().
		Where(squirrel.Eq{"business_id": businessID, "is_active": true}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveProfessionals - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveProfessionals - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	professionals := make([]*domain.Professional, 0)
	for rows.Next() {
		professional, err := scanProfessional(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActiveProfessionals - scan row: %v", ErrScanRow, err)
		}
		professionals = append(professionals, professional)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveProfessionals - rows error: %v", ErrScanRow, err)
	}

	if err := r.loadWeeklySchedules(ctx, professionals); err != nil {
		return nil, err
	}

	return professionals, nil
}

// ListTimeBlocks получает блокировки времени бизнеса, пересекающие интервал [from, until)
// Возвращает и блокировки конкретных мастеров, и общие блокировки бизнеса
func (r *Repository) ListTimeBlocks(ctx context.Context, businessID int64, from, until time.Time) ([]*domain.TimeBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"professional_id",
		"start_at",
		"end_at",
		"reason",
		"created_at",
	).
		From("time_blocks").
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.Lt{"start_at": until}).
		Where(squirrel.Gt{"end_at": from}).
		OrderBy("start_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListTimeBlocks - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListTimeBlocks - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blocks := make([]*domain.TimeBlock, 0)
	for rows.Next() {
		var block domain.TimeBlock
		var createdAt sql.NullTime

		err := rows.Scan(
			&block.ID,
			&block.BusinessID,
			&block.ProfessionalID,
			&block.StartAt,
			&block.EndAt,
			&block.Reason,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListTimeBlocks - scan row: %v", ErrScanRow, err)
		}

		block.CreatedAt = createdAt.Time
		blocks = append(blocks, &block)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListTimeBlocks - rows error: %v", ErrScanRow, err)
	}

	return blocks, nil
}

// loadWeeklySchedules загружает недельные расписания для набора мастеров
func (r *Repository) loadWeeklySchedules(ctx context.Context, professionals []*domain.Professional) error {
	if len(professionals) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	ids := make([]int64, len(professionals))
	byID := make(map[int64]*domain.Professional, len(professionals))
	for i, p := range professionals {
		ids[i] = p.ID
		byID[p.ID] = p
	}

	query, args, err := psqlbuilder.Select(
		"professional_id",
		"weekday",
		"start_time",
		"end_time",
	).
		From("professional_hours").
		Where(squirrel.Eq{"professional_id": ids}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadWeeklySchedules - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadWeeklySchedules - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var professionalID int64
		var weekday int
		var startTime, endTime types.TimeString

		if err := rows.Scan(&professionalID, &weekday, &startTime, &endTime); err != nil {
			return fmt.Errorf("%w: loadWeeklySchedules - scan row: %v", ErrScanRow, err)
		}

		professional, ok := byID[professionalID]
		if !ok {
			continue
		}

		day := domain.DaySchedule{
			IsWorking: true,
			StartTime: startTime,
			EndTime:   endTime,
		}
		setDaySchedule(&professional.Schedule, time.Weekday(weekday), day)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadWeeklySchedules - rows error: %v", ErrScanRow, err)
	}

	return nil
}

func professionalSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"business_id",
		"display_name",
		"specialty",
		"user_id",
		"is_active",
		"created_at",
		"updated_at",
	).From("professionals")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfessional(row rowScanner) (*domain.Professional, error) {
	var professional domain.Professional
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&professional.ID,
		&professional.BusinessID,
		&professional.DisplayName,
		&professional.Specialty,
		&professional.UserID,
		&professional.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	professional.CreatedAt = createdAt.Time
	professional.UpdatedAt = updatedAt.Time

	return &professional, nil
}

func setDaySchedule(schedule *domain.WeeklySchedule, weekday time.Weekday, day domain.DaySchedule) {
	switch weekday {
	case time.Monday:
		schedule.Monday = day
	case time.Tuesday:
		schedule.Tuesday = day
	case time.Wednesday:
		schedule.Wednesday = day
	case time.Thursday:
		schedule.Thursday = day
	case time.Friday:
		schedule.Friday = day
	case time.Saturday:
		schedule.Saturday = day
	case time.Sunday:
		schedule.Sunday = day
	}
}
