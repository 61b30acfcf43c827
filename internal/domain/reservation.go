package domain

import "time"

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	ReservationPending                ReservationStatus = "pending"
	ReservationPendingRequest         ReservationStatus = "pending_request"
	ReservationApprovedConfirmed      ReservationStatus = "approved_confirmed"
	ReservationApprovedPendingPayment ReservationStatus = "approved_pending_payment"
	ReservationPaid                   ReservationStatus = "paid"
	ReservationCheckedIn              ReservationStatus = "checked_in"
	ReservationCancelled              ReservationStatus = "cancelled"
	ReservationDeclined               ReservationStatus = "declined"
	ReservationExpired                ReservationStatus = "expired"
	ReservationRefunded               ReservationStatus = "refunded"
)

// HoldingStatuses returns the statuses that occupy a seat on the slot
func HoldingStatuses() []ReservationStatus {
	return []ReservationStatus{
		ReservationPending,
		ReservationPendingRequest,
		ReservationApprovedConfirmed,
		ReservationApprovedPendingPayment,
		ReservationPaid,
		ReservationCheckedIn,
	}
}

// TemporaryHoldStatuses returns the statuses whose seat lapses at hold_expires_at.
// Confirmed statuses keep their seat regardless of the stored expiry.
func TemporaryHoldStatuses() []ReservationStatus {
	return []ReservationStatus{ReservationPending, ReservationPendingRequest}
}

// IsTemporaryHold returns true for unconfirmed holds
func (s ReservationStatus) IsTemporaryHold() bool {
	return s == ReservationPending || s == ReservationPendingRequest
}

// IsHolding returns true if the status occupies a seat
func (s ReservationStatus) IsHolding() bool {
	for _, h := range HoldingStatuses() {
		if s == h {
			return true
		}
	}
	return false
}

// Reservation is a set of tickets held or booked against a slot
type Reservation struct {
	ID            int64
	SlotID        int64
	ExperienceID  int64
	CustomerID    int64
	Status        ReservationStatus
	Tickets       map[string]int
	HoldToken     string
	HoldExpiresAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TotalTickets returns the number of seats the reservation requests
func (r *Reservation) TotalTickets() int {
	total := 0
	for _, qty := range r.Tickets {
		if qty > 0 {
			total += qty
		}
	}
	return total
}

// HoldsSeatAt returns true if the reservation counts against capacity at now.
// Only temporary holds expire.
func (r *Reservation) HoldsSeatAt(now time.Time) bool {
	if !r.Status.IsHolding() {
		return false
	}
	if !r.Status.IsTemporaryHold() || r.HoldExpiresAt == nil {
		return true
	}
	return r.HoldExpiresAt.After(now)
}
