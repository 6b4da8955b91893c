package domain

import (
	"strings"
	"time"
)

type StationType string

const (
	StationTypeAC StationType = "AC"
	StationTypeDC StationType = "DC"
)

// ParseStationType normalizes a case-insensitive type string. The second result is false for unknown types.
func ParseStationType(s string) (StationType, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AC":
		return StationTypeAC, true
	case "DC":
		return StationTypeDC, true
	}
	return "", false
}

// ChargingStation is a charging site with a fixed number of slots.
//
// AvailableSlots always stays within [0, TotalSlots]. Location is derived from
// Address, City and StateProvince and is only written through RefreshLocation.
type ChargingStation struct {
	ID             string      `json:"id" gorm:"primaryKey"`
	StationName    string      `json:"station_name" gorm:"size:100"`
	Type           StationType `json:"type" gorm:"size:2"`
	Address        string      `json:"address" gorm:"size:200"`
	City           string      `json:"city" gorm:"size:100"`
	StateProvince  string      `json:"state_province" gorm:"size:100"`
	Location       string      `json:"location"`
	TotalSlots     int         `json:"total_slots"`
	AvailableSlots int         `json:"available_slots"`
	ContactPhone   string      `json:"contact_phone"`
	ContactEmail   string      `json:"contact_email"`
	Latitude       float64     `json:"latitude"`
	Longitude      float64     `json:"longitude"`
	IsActive       bool        `json:"is_active" gorm:"index"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

func (ChargingStation) TableName() string { return "charging_stations" }

// FormatLocation builds the derived location string.
func FormatLocation(address, city, stateProvince string) string {
	return address + ", " + city + ", " + stateProvince
}

// RefreshLocation recomputes the cached location from its three sources.
func (s *ChargingStation) RefreshLocation() {
	s.Location = FormatLocation(s.Address, s.City, s.StateProvince)
}

// CapacityConsistent reports whether 0 <= AvailableSlots <= TotalSlots.
func (s *ChargingStation) CapacityConsistent() bool {
	return s.AvailableSlots >= 0 && s.AvailableSlots <= s.TotalSlots
}

// CreateStationRequest is the input of station creation. Pointer fields distinguish "missing" from zero.
type CreateStationRequest struct {
	StationName   string   `json:"station_name"`
	Type          string   `json:"type"`
	Address       string   `json:"address"`
	City          string   `json:"city"`
	StateProvince string   `json:"state_province"`
	TotalSlots    *int     `json:"total_slots"`
	ContactPhone  string   `json:"contact_phone"`
	ContactEmail  string   `json:"contact_email"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
}

// UpdateStationRequest is a partial patch; nil fields are left untouched.
type UpdateStationRequest struct {
	StationName   *string  `json:"station_name"`
	Type          *string  `json:"type"`
	Address       *string  `json:"address"`
	City          *string  `json:"city"`
	StateProvince *string  `json:"state_province"`
	TotalSlots    *int     `json:"total_slots"`
	ContactPhone  *string  `json:"contact_phone"`
	ContactEmail  *string  `json:"contact_email"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
}

// TouchesLocation reports whether the patch changes any source of the derived location.
func (r *UpdateStationRequest) TouchesLocation() bool {
	return r.Address != nil || r.City != nil || r.StateProvince != nil
}
