package reservation

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func TestRepository_SnapshotBySlot(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM experience_reservations r CROSS JOIN LATERAL jsonb_each_text(r.tickets) AS t(key, value) " +
			"WHERE r.slot_id = $1 AND r.status IN ($2,$3,$4,$5,$6,$7) " +
			"AND (r.status NOT IN ($8,$9) OR r.hold_expires_at IS NULL OR r.hold_expires_at > $10) GROUP BY t.key",
	)).
		WithArgs(int64(5),
			"pending", "pending_request", "approved_confirmed", "approved_pending_payment", "paid", "checked_in",
			"pending", "pending_request",
			now).
		WillReturnRows(sqlmock.NewRows([]string{"key", "sum"}).
			AddRow("adult", 3).
			AddRow("Child", 2).
			AddRow("ghost", 0))

	snapshot, err := repo.SnapshotBySlot(context.Background(), 5, now)
	require.NoError(t, err)
	assert.Equal(t, 5, snapshot.Total)
	assert.Equal(t, map[string]int{"adult": 3, "child": 2}, snapshot.PerType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SnapshotBySlot_Empty(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("jsonb_each_text").
		WillReturnRows(sqlmock.NewRows([]string{"key", "sum"}))

	snapshot, err := repo.SnapshotBySlot(context.Background(), 5, time.Now())
	require.NoError(t, err)
	assert.Equal(t, domain.EmptySnapshot(), snapshot)
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newRepo(t)
	expires := time.Date(2025, 1, 6, 9, 15, 0, 0, time.UTC)
	created := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO experience_reservations")).
		WithArgs(int64(5), int64(42), int64(100), "pending", `{"adult":2}`, "token-1", &expires).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(77, created, created))

	res, err := repo.Create(context.Background(), &domain.Reservation{
		SlotID:        5,
		ExperienceID:  42,
		CustomerID:    100,
		Status:        domain.ReservationPending,
		Tickets:       map[string]int{"ADULT": 2, "child": 0},
		HoldToken:     "token-1",
		HoldExpiresAt: &expires,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(77), res.ID)
	assert.Equal(t, map[string]int{"adult": 2}, res.Tickets)
	assert.Equal(t, created, res.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_InvalidSlot(t *testing.T) {
	repo, _ := newRepo(t)
	_, err := repo.Create(context.Background(), &domain.Reservation{SlotID: 0})
	assert.ErrorIs(t, err, ErrInvalidReservation)
}

func TestRepository_ReleaseHold(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE experience_reservations SET status = $1, updated_at = NOW() WHERE hold_token = $2 AND status IN ($3,$4)")).
		WithArgs("cancelled", "token-1", "pending", "pending_request").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE experience_reservations").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.ReleaseHold(context.Background(), "token-1"))
	assert.ErrorIs(t, repo.ReleaseHold(context.Background(), "token-1"), ErrReservationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByHoldToken(t *testing.T) {
	repo, mock := newRepo(t)
	expires := time.Date(2025, 1, 6, 9, 15, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM experience_reservations WHERE hold_token = $1 LIMIT 1")).
		WithArgs("token-1").
		WillReturnRows(sqlmock.NewRows(reservationColumns).
			AddRow(77, 5, 42, 100, "pending", `{"adult":2}`, "token-1", expires, expires, expires))
	mock.ExpectQuery("FROM experience_reservations").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(reservationColumns))

	res, err := repo.GetByHoldToken(context.Background(), "token-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationPending, res.Status)
	assert.Equal(t, 2, res.TotalTickets())
	require.NotNil(t, res.HoldExpiresAt)
	assert.True(t, res.HoldExpiresAt.Equal(expires))

	_, err = repo.GetByHoldToken(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrReservationNotFound)
}
