package slot

import (
	"context"
	"database/sql"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
	"github.com/m04kA/SMC-ExperienceBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-ExperienceBooking/pkg/logger"
)

var rowColumns = []string{
	"id", "experience_id", "start_datetime", "end_datetime", "capacity_total",
	"capacity_per_type", "resource_lock", "status", "price_rules", "created_at", "updated_at",
}

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db, logger.Nop{}), mock, db
}

func mustRange(t *testing.T, start, end string) domain.TimeRange {
	t.Helper()
	tr, err := domain.TimeRangeFromUTCStrings(start, end)
	require.NoError(t, err)
	return tr
}

func TestRepository_FindByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		repo, mock, _ := newRepo(t)
		created := time.Date(2024, 12, 1, 8, 0, 0, 0, time.UTC)

		mock.ExpectQuery(regexp.QuoteMeta("FROM experience_slots WHERE id = $1 LIMIT 1")).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(rowColumns).AddRow(
				7, 42, "2025-01-06 10:00:00", "2025-01-06 11:00:00", 10,
				`{"adult":8}`, `{}`, "open", `{"adult":25}`, created, created,
			))

		slot, err := repo.FindByID(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(42), slot.ExperienceID)
		assert.Equal(t, 8, slot.Capacity.ForType("adult"))
		assert.Equal(t, created, slot.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock, _ := newRepo(t)
		mock.ExpectQuery("FROM experience_slots").
			WithArgs(int64(8)).
			WillReturnRows(sqlmock.NewRows(rowColumns))

		_, err := repo.FindByID(ctx, 8)
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})

	t.Run("corrupt row on point lookup", func(t *testing.T) {
		repo, mock, _ := newRepo(t)
		mock.ExpectQuery("FROM experience_slots").
			WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows(rowColumns).AddRow(
				9, 42, "2025-01-06 10:00:00", "2025-01-06 11:00:00", 10,
				`{broken`, nil, "open", nil, nil, nil,
			))

		_, err := repo.FindByID(ctx, 9)
		assert.ErrorIs(t, err, domain.ErrCorruptRow)
	})
}

func TestRepository_FindByIDForUpdate(t *testing.T) {
	repo, mock, db := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 LIMIT 1 FOR UPDATE")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(rowColumns).AddRow(
			7, 42, "2025-01-06 10:00:00", "2025-01-06 11:00:00", 10, `{}`, `{}`, "open", `{}`, nil, nil,
		))
	mock.ExpectCommit()

	tx, err := dbmetrics.Wrap(db).BeginTx(context.Background(), nil)
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), tx)

	slot, err := repo.FindByIDForUpdate(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), slot.ID)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindByTimeRange_SkipsCorruptRows(t *testing.T) {
	repo, mock, _ := newRepo(t)
	tr := mustRange(t, "2025-01-01 00:00:00", "2025-01-31 23:59:59")

	mock.ExpectQuery(regexp.QuoteMeta(
		"WHERE start_datetime <= $1 AND end_datetime >= $2 AND experience_id = $3 AND status IN ($4,$5) ORDER BY start_datetime ASC, id ASC",
	)).
		WithArgs("2025-01-31 23:59:59", "2025-01-01 00:00:00", int64(42), "open", "closed").
		WillReturnRows(sqlmock.NewRows(rowColumns).
			AddRow(1, 42, "2025-01-06 10:00:00", "2025-01-06 11:00:00", 10, `{}`, `{}`, "open", `{}`, nil, nil).
			AddRow(2, 42, "2025-01-07 10:00:00", "2025-01-07 11:00:00", 10, `not json`, `{}`, "open", `{}`, nil, nil).
			AddRow(3, 42, "2025-01-08 10:00:00", "2025-01-08 11:00:00", 10, `{"child":2}`, `{}`, "closed", `{}`, nil, nil))

	slots, err := repo.FindByTimeRange(context.Background(), tr, Filter{
		ExperienceID: 42,
		Statuses:     []domain.SlotStatus{domain.SlotStatusOpen, domain.SlotStatusClosed},
	})
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, int64(1), slots[0].ID)
	assert.Equal(t, int64(3), slots[1].ID)
	assert.True(t, slots[0].TimeRange.Start().Before(slots[1].TimeRange.Start()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindByExperienceID(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE experience_id = $1 ORDER BY start_datetime ASC, id ASC LIMIT 5")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(rowColumns))

	slots, err := repo.FindByExperienceID(context.Background(), 42, 5)
	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindByExperienceAndTime(t *testing.T) {
	repo, mock, _ := newRepo(t)
	tr := mustRange(t, "2025-01-06 10:00:00", "2025-01-06 11:00:00")

	mock.ExpectQuery(regexp.QuoteMeta("WHERE end_datetime = $1 AND experience_id = $2 AND start_datetime = $3")).
		WithArgs("2025-01-06 11:00:00", int64(42), "2025-01-06 10:00:00").
		WillReturnRows(sqlmock.NewRows(rowColumns))

	_, err := repo.FindByExperienceAndTime(context.Background(), 42, tr)
	assert.ErrorIs(t, err, ErrSlotNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create(t *testing.T) {
	tr := mustRange(t, "2025-01-06 10:00:00", "2025-01-06 11:00:00")
	params := CreateParams{
		ExperienceID:    42,
		TimeRange:       tr,
		CapacityTotal:   -5,
		CapacityPerType: map[string]int{"Adult": 4, "child": 0},
		Status:          "weird",
	}

	t.Run("normalizes and returns slot", func(t *testing.T) {
		repo, mock, _ := newRepo(t)
		now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO experience_slots")).
			WithArgs(int64(42), "2025-01-06 10:00:00", "2025-01-06 11:00:00", 0, `{"adult":4}`, `{}`, "open", `{}`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(11, now, now))

		slot, err := repo.Create(context.Background(), params)
		require.NoError(t, err)
		assert.Equal(t, int64(11), slot.ID)
		assert.Equal(t, domain.SlotStatusOpen, slot.Status)
		assert.Equal(t, 0, slot.Capacity.Total())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation", func(t *testing.T) {
		repo, mock, _ := newRepo(t)
		mock.ExpectQuery("INSERT INTO experience_slots").
			WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value"})

		_, err := repo.Create(context.Background(), params)
		assert.ErrorIs(t, err, ErrDuplicateSlot)
	})

	t.Run("invalid experience", func(t *testing.T) {
		repo, mock, _ := newRepo(t)
		p := params
		p.ExperienceID = 0

		_, err := repo.Create(context.Background(), p)
		assert.ErrorIs(t, err, ErrInvalidSlot)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_RoundTrip(t *testing.T) {
	repo, mock, _ := newRepo(t)
	tr := mustRange(t, "2025-01-06 10:00:00", "2025-01-06 11:00:00")
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO experience_slots").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(11, now, now))
	mock.ExpectQuery("FROM experience_slots").
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows(rowColumns).AddRow(
			11, 42, "2025-01-06 10:00:00", "2025-01-06 11:00:00", 10,
			`{"adult":6}`, `{"room":"A","seats":3}`, "open", `{"base":12.5}`, now, now,
		))

	created, err := repo.Create(context.Background(), CreateParams{
		ExperienceID:    42,
		TimeRange:       tr,
		CapacityTotal:   10,
		CapacityPerType: map[string]int{"adult": 6},
		ResourceLock:    map[string]interface{}{"room": "A", "seats": float64(3)},
		PriceRules:      map[string]interface{}{"base": 12.5},
	})
	require.NoError(t, err)
	// числа в метаданных декодируются так же, как при чтении
	assert.Equal(t, json.Number("3"), created.ResourceLock["seats"])
	assert.Equal(t, json.Number("12.5"), created.PriceRules["base"])

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ToView(), found.ToView())
}

func TestRepository_UpdateAndDelete(t *testing.T) {
	repo, mock, _ := newRepo(t)
	tr := mustRange(t, "2025-01-06 10:00:00", "2025-01-06 11:00:00")
	capacity, err := domain.NewSlotCapacity(5, nil)
	require.NoError(t, err)
	slot, err := domain.NewSlot(domain.SlotParams{ID: 3, ExperienceID: 42, TimeRange: tr, Capacity: capacity, Status: "closed"})
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE experience_slots SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE experience_slots SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM experience_slots WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), slot))
	assert.ErrorIs(t, repo.Update(context.Background(), slot), ErrSlotNotFound)
	require.NoError(t, repo.Delete(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}
