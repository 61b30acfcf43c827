package domain

import "time"

// Storage and wire formats
const (
	UTCLayout  = "2006-01-02 15:04:05" // Y-m-d H:i:s, UTC columns
	DateFormat = "2006-01-02"          // YYYY-MM-DD
	TimeFormat = "15:04"               // HH:MM
)

// Availability defaults
const (
	DefaultUpcomingLimit   = 20
	DefaultHorizon         = 365 * 24 * time.Hour // upcoming-slots lookahead
	DefaultHoldTTL         = 15 * time.Minute
	DefaultDurationMinutes = 60
)

// Business validation constants
const (
	MaxSlotCapacity       = 10000
	MaxLeadTimeHours      = 24 * 365
	MaxBufferMinutes      = 24 * 60
	MaxRangeDays          = 366 // widest window accepted by range queries
	MaxTicketTypeKeyChars = 64
)
