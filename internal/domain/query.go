package domain

import "strings"

type SortField string

const (
	SortByLocation       SortField = "location"
	SortByType           SortField = "type"
	SortByTotalSlots     SortField = "totalslots"
	SortByAvailableSlots SortField = "availableslots"
	SortByIsActive       SortField = "isactive"
	SortByCreatedAt      SortField = "createdat"
	SortByUpdatedAt      SortField = "updatedat"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// StationFilter is the conjunctive filter of a station listing.
type StationFilter struct {
	IsActive   *bool
	SearchTerm string
}

// HasSearch reports whether a non-blank search term is present.
func (f StationFilter) HasSearch() bool {
	return strings.TrimSpace(f.SearchTerm) != ""
}

// StationSort is a single-field ordering.
type StationSort struct {
	Field SortField
	Order SortOrder
}

// DefaultStationSort orders newest stations first.
var DefaultStationSort = StationSort{Field: SortByCreatedAt, Order: SortDesc}

// StationQuery is a free-form listing request as received from a caller.
type StationQuery struct {
	SearchTerm string `query:"search"`
	IsActive   *bool  `query:"isActive"`
	SortBy     string `query:"sortBy"`
	SortOrder  string `query:"sortOrder"`
}

// NearbyQuery is the geo-proximity listing request.
type NearbyQuery struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64
}
