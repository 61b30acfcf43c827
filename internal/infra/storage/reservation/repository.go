package reservation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
	"github.com/m04kA/SMC-ExperienceBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-ExperienceBooking/pkg/psqlbuilder"
)

const tableName = "experience_reservations"

var reservationColumns = []string{
	"id",
	"slot_id",
	"experience_id",
	"customer_id",
	"status",
	"tickets",
	"hold_token",
	"hold_expires_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий резервов мест
// Реализует агрегацию занятых мест по слоту (снимок емкости)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория резервов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает резерв
// Ключи типов билетов нормализуются, нулевые и отрицательные количества отбрасываются.
// Вызывать внутри той же транзакции, в которой проверялась емкость
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	if res.SlotID <= 0 {
		return nil, fmt.Errorf("%w: Create - slot_id must be positive, got %d", ErrInvalidReservation, res.SlotID)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	tickets := normalizeTickets(res.Tickets)
	ticketsJSON, err := json.Marshal(tickets)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - encode tickets: %v", ErrInvalidReservation, err)
	}

	var holdToken sql.NullString
	if res.HoldToken != "" {
		holdToken = sql.NullString{String: res.HoldToken, Valid: true}
	}

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"slot_id",
			"experience_id",
			"customer_id",
			"status",
			"tickets",
			"hold_token",
			"hold_expires_at",
		).
		Values(
			res.SlotID,
			res.ExperienceID,
			res.CustomerID,
			string(res.Status),
			string(ticketsJSON),
			holdToken,
			res.HoldExpiresAt,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&res.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	res.Tickets = tickets
	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return res, nil
}

// GetByHoldToken получает резерв по токену холда
func (r *Repository) GetByHoldToken(ctx context.Context, token string) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From(tableName).
		Where(squirrel.Eq{"hold_token": token}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByHoldToken - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByHoldToken - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// ReleaseHold отменяет еще не подтвержденный холд по токену
// Подтвержденные резервы (оплаченные и т.п.) не затрагиваются
func (r *Repository) ReleaseHold(ctx context.Context, token string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", string(domain.ReservationCancelled)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"hold_token": token}).
		Where(squirrel.Eq{"status": []string{
			string(domain.ReservationPending),
			string(domain.ReservationPendingRequest),
		}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReleaseHold - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: ReleaseHold - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: ReleaseHold - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// SnapshotBySlot считает занятые места слота по типам билетов
// Учитываются только удерживающие место статусы; неподтвержденные холды с hold_expires_at <= now не считаются,
// подтвержденные резервы считаются независимо от hold_expires_at.
// Пересчитывается на каждый вызов, счетчики не кэшируются
func (r *Repository) SnapshotBySlot(ctx context.Context, slotID int64, now time.Time) (domain.CapacitySnapshot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	holding := domain.HoldingStatuses()
	statuses := make([]string, 0, len(holding))
	for _, s := range holding {
		statuses = append(statuses, string(s))
	}
	temporary := make([]string, 0, 2)
	for _, s := range domain.TemporaryHoldStatuses() {
		temporary = append(temporary, string(s))
	}

	query, args, err := psqlbuilder.Select(
		"t.key",
		"COALESCE(SUM(CASE WHEN t.value ~ '^[0-9]+$' THEN t.value::int ELSE 0 END), 0)",
	).
		From(tableName + " r CROSS JOIN LATERAL jsonb_each_text(r.tickets) AS t(key, value)").
		Where(squirrel.Eq{"r.slot_id": slotID}).
		Where(squirrel.Eq{"r.status": statuses}).
		Where(squirrel.Or{
			squirrel.NotEq{"r.status": temporary},
			squirrel.Eq{"r.hold_expires_at": nil},
			squirrel.Gt{"r.hold_expires_at": now.UTC()},
		}).
		GroupBy("t.key").
		ToSql()
	if err != nil {
		return domain.CapacitySnapshot{}, fmt.Errorf("%w: SnapshotBySlot - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.CapacitySnapshot{}, fmt.Errorf("%w: SnapshotBySlot - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	snapshot := domain.EmptySnapshot()
	for rows.Next() {
		var (
			ticketType string
			qty        int
		)
		if err := rows.Scan(&ticketType, &qty); err != nil {
			return domain.CapacitySnapshot{}, fmt.Errorf("%w: SnapshotBySlot - scan row: %v", ErrScanRow, err)
		}
		key := domain.SanitizeKey(ticketType)
		if key == "" || qty <= 0 {
			continue
		}
		snapshot.PerType[key] += qty
		snapshot.Total += qty
	}

	if err := rows.Err(); err != nil {
		return domain.CapacitySnapshot{}, fmt.Errorf("%w: SnapshotBySlot - rows error: %v", ErrScanRow, err)
	}

	return snapshot, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(s rowScanner) (*domain.Reservation, error) {
	var (
		res                  domain.Reservation
		status               string
		tickets              []byte
		holdToken            sql.NullString
		holdExpiresAt        sql.NullTime
		createdAt, updatedAt sql.NullTime
	)

	err := s.Scan(
		&res.ID,
		&res.SlotID,
		&res.ExperienceID,
		&res.CustomerID,
		&status,
		&tickets,
		&holdToken,
		&holdExpiresAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.Status = domain.ReservationStatus(status)
	res.Tickets = map[string]int{}
	if len(tickets) > 0 {
		if err := json.Unmarshal(tickets, &res.Tickets); err != nil {
			return nil, fmt.Errorf("decode tickets: %w", err)
		}
	}
	res.HoldToken = holdToken.String
	if holdExpiresAt.Valid {
		t := holdExpiresAt.Time
		res.HoldExpiresAt = &t
	}
	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}

func normalizeTickets(tickets map[string]int) map[string]int {
	out := make(map[string]int, len(tickets))
	for k, qty := range tickets {
		key := domain.SanitizeKey(k)
		if key == "" || qty <= 0 {
			continue
		}
		out[key] += qty
	}
	return out
}
