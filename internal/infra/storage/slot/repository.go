package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
	"github.com/m04kA/SMC-ExperienceBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-ExperienceBooking/pkg/psqlbuilder"
)

const (
	tableName = "experience_slots"

	// uniqueViolation SQLSTATE 23505
	uniqueViolation = "23505"
)

// Колонки дат отдаются строками в UTC, в формате domain.UTCLayout
var slotColumns = []string{
	"id",
	"experience_id",
	"to_char(start_datetime, 'YYYY-MM-DD HH24:MI:SS') AS start_datetime",
	"to_char(end_datetime, 'YYYY-MM-DD HH24:MI:SS') AS end_datetime",
	"capacity_total",
	"capacity_per_type",
	"resource_lock",
	"status",
	"price_rules",
	"created_at",
	"updated_at",
}

// Repository репозиторий слотов впечатлений
type Repository struct {
	db  DBExecutor
	log Logger
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor, log Logger) *Repository {
	return &Repository{db: db, log: log}
}

// FindByID получает слот по ID
// Возвращает ErrSlotNotFound, если слота нет
func (r *Repository) FindByID(ctx context.Context, id int64) (*domain.Slot, error) {
	return r.findOne(ctx, "FindByID", squirrel.Eq{"id": id}, false)
}

// FindByIDForUpdate получает слот по ID и блокирует строку до конца транзакции
// Вне транзакции работает как FindByID
func (r *Repository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.Slot, error) {
	return r.findOne(ctx, "FindByIDForUpdate", squirrel.Eq{"id": id}, dbmetrics.IsInTransaction(ctx))
}

// FindByExperienceAndTime ищет слот по естественному ключу (experience_id, start, end)
func (r *Repository) FindByExperienceAndTime(ctx context.Context, experienceID int64, tr domain.TimeRange) (*domain.Slot, error) {
	return r.findOne(ctx, "FindByExperienceAndTime", squirrel.Eq{
		"experience_id":  experienceID,
		"start_datetime": tr.StartUTCString(),
		"end_datetime":   tr.EndUTCString(),
	}, false)
}

// FindByExperienceID получает слоты впечатления по возрастанию начала
// limit <= 0 означает без ограничения
func (r *Repository) FindByExperienceID(ctx context.Context, experienceID int64, limit int) ([]*domain.Slot, error) {
	builder := psqlbuilder.Select(slotColumns...).
		From(tableName).
		Where(squirrel.Eq{"experience_id": experienceID}).
		OrderBy("start_datetime ASC", "id ASC")

	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	return r.findMany(ctx, "FindByExperienceID", builder)
}

// FindByTimeRange получает слоты, пересекающиеся с окном tr (границы включительно)
// Битые строки пропускаются с предупреждением, выборка не прерывается
func (r *Repository) FindByTimeRange(ctx context.Context, tr domain.TimeRange, filter Filter) ([]*domain.Slot, error) {
	builder := psqlbuilder.Select(slotColumns...).
		From(tableName).
		Where(squirrel.LtOrEq{"start_datetime": tr.EndUTCString()}).
		Where(squirrel.GtOrEq{"end_datetime": tr.StartUTCString()}).
		OrderBy("start_datetime ASC", "id ASC")

	if filter.ExperienceID > 0 {
		builder = builder.Where(squirrel.Eq{"experience_id": filter.ExperienceID})
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		builder = builder.Where(squirrel.Eq{"status": statuses})
	}

	return r.findMany(ctx, "FindByTimeRange", builder)
}

// Create создает слот
// experience_id должен быть положительным, емкость приводится к неотрицательной, статус по умолчанию open
// При нарушении уникальности окна возвращает ErrDuplicateSlot
func (r *Repository) Create(ctx context.Context, params CreateParams) (*domain.Slot, error) {
	if params.ExperienceID <= 0 {
		return nil, fmt.Errorf("%w: Create - experience_id must be positive, got %d", ErrInvalidSlot, params.ExperienceID)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	total := params.CapacityTotal
	if total < 0 {
		total = 0
	}
	capacity, err := domain.NewSlotCapacity(total, params.CapacityPerType)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - capacity: %v", ErrInvalidSlot, err)
	}
	status := domain.NormalizeSlotStatus(string(params.Status))

	perTypeJSON, resourceLockJSON, priceRulesJSON, err := encodeMaps(capacity.PerType(), params.ResourceLock, params.PriceRules)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - encode metadata: %v", ErrInvalidSlot, err)
	}

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"experience_id",
			"start_datetime",
			"end_datetime",
			"capacity_total",
			"capacity_per_type",
			"resource_lock",
			"status",
			"price_rules",
		).
		Values(
			params.ExperienceID,
			params.TimeRange.StartUTCString(),
			params.TimeRange.EndUTCString(),
			capacity.Total(),
			perTypeJSON,
			resourceLockJSON,
			string(status),
			priceRulesJSON,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var (
		id                   int64
		createdAt, updatedAt sql.NullTime
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(&id, &createdAt, &updatedAt)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: Create - experience_id=%d window=%s", ErrDuplicateSlot, params.ExperienceID, params.TimeRange.Key())
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	// Слот собирается из записанных колонок, как при чтении из БД
	slot, err := domain.SlotFromRow(domain.SlotRow{
		ID:              id,
		ExperienceID:    params.ExperienceID,
		StartDatetime:   params.TimeRange.StartUTCString(),
		EndDatetime:     params.TimeRange.EndUTCString(),
		CapacityTotal:   capacity.Total(),
		CapacityPerType: []byte(perTypeJSON),
		ResourceLock:    []byte(resourceLockJSON),
		Status:          string(status),
		PriceRules:      []byte(priceRulesJSON),
		CreatedAt:       createdAt.Time,
		UpdatedAt:       updatedAt.Time,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build slot: %v", ErrInvalidSlot, err)
	}

	return slot, nil
}

// Update полностью перезаписывает слот по его ID
func (r *Repository) Update(ctx context.Context, slot *domain.Slot) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	perTypeJSON, resourceLockJSON, priceRulesJSON, err := encodeMaps(slot.Capacity.PerType(), slot.ResourceLock, slot.PriceRules)
	if err != nil {
		return fmt.Errorf("%w: Update - encode metadata: %v", ErrInvalidSlot, err)
	}

	query, args, err := psqlbuilder.Update(tableName).
		Set("experience_id", slot.ExperienceID).
		Set("start_datetime", slot.TimeRange.StartUTCString()).
		Set("end_datetime", slot.TimeRange.EndUTCString()).
		Set("capacity_total", slot.Capacity.Total()).
		Set("capacity_per_type", perTypeJSON).
		Set("resource_lock", resourceLockJSON).
		Set("status", string(domain.NormalizeSlotStatus(string(slot.Status)))).
		Set("price_rules", priceRulesJSON).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": slot.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: Update - slot_id=%d window=%s", ErrDuplicateSlot, slot.ID, slot.TimeRange.Key())
	}
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	return checkAffected(result, "Update")
}

// Delete удаляет слот (жесткое удаление)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	return checkAffected(result, "Delete")
}

func (r *Repository) findOne(ctx context.Context, op string, where squirrel.Sqlizer, forUpdate bool) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(slotColumns...).
		From(tableName).
		Where(where).
		Limit(1)
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	row, err := scanSlotRow(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan slot: %w", ErrScanRow, op, err)
	}

	slot, err := domain.SlotFromRow(row)
	if err != nil {
		return nil, fmt.Errorf("%s - decode slot id=%d: %w", op, row.ID, err)
	}

	return slot, nil
}

func (r *Repository) findMany(ctx context.Context, op string, builder squirrel.SelectBuilder) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	slots := make([]*domain.Slot, 0)
	for rows.Next() {
		row, err := scanSlotRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan slot: %w", ErrScanRow, op, err)
		}

		slot, err := domain.SlotFromRow(row)
		if err != nil {
			r.log.Warn("%s: skipping corrupt slot row id=%d: %v", op, row.ID, err)
			continue
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - iterate rows: %v", ErrScanRow, op, err)
	}

	return slots, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlotRow(s rowScanner) (domain.SlotRow, error) {
	var (
		row                            domain.SlotRow
		perType, resourceLock, pricing []byte
		createdAt, updatedAt           sql.NullTime
	)

	err := s.Scan(
		&row.ID,
		&row.ExperienceID,
		&row.StartDatetime,
		&row.EndDatetime,
		&row.CapacityTotal,
		&perType,
		&resourceLock,
		&row.Status,
		&pricing,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.SlotRow{}, err
	}

	row.CapacityPerType = perType
	row.ResourceLock = resourceLock
	row.PriceRules = pricing
	row.CreatedAt = createdAt.Time
	row.UpdatedAt = updatedAt.Time

	return row, nil
}

func encodeMaps(perType map[string]int, resourceLock, priceRules map[string]interface{}) (string, string, string, error) {
	p, err := domain.EncodePerType(perType)
	if err != nil {
		return "", "", "", err
	}
	rl, err := domain.EncodeMeta(resourceLock)
	if err != nil {
		return "", "", "", err
	}
	pr, err := domain.EncodeMeta(priceRules)
	if err != nil {
		return "", "", "", err
	}
	return string(p), string(rl), string(pr), nil
}

func checkAffected(result sql.Result, op string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if affected == 0 {
		return ErrSlotNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}
