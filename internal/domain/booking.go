package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "Pending"
	BookingStatusApproved  BookingStatus = "Approved"
	BookingStatusCharging  BookingStatus = "Charging"
	BookingStatusCompleted BookingStatus = "Completed"
	BookingStatusCancelled BookingStatus = "Cancelled"
)

// TerminalBookingStatuses are the statuses that no longer occupy a slot.
var TerminalBookingStatuses = []BookingStatus{BookingStatusCancelled, BookingStatusCompleted}

// Booking is owned by the reservation flow; this service only reads it.
type Booking struct {
	ID        string        `json:"id" gorm:"primaryKey"`
	StationID string        `json:"station_id" gorm:"index"`
	OwnerNIC  string        `json:"owner_nic" gorm:"index"`
	Status    BookingStatus `json:"status" gorm:"index"`
	StartTime time.Time     `json:"start_time"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// IsActive reports whether the booking still holds a slot.
func (b *Booking) IsActive() bool {
	for _, s := range TerminalBookingStatuses {
		if b.Status == s {
			return false
		}
	}
	return true
}
