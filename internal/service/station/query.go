package station

import (
	"math"
	"strings"

	"github.com/seu-repo/evstation/internal/domain"
)

const earthRadiusKm = 6371.0

// DefaultRadiusKm is used by Nearby when no positive radius is given.
const DefaultRadiusKm = 5.0

var sortFields = map[string]domain.SortField{
	"location":       domain.SortByLocation,
	"type":           domain.SortByType,
	"totalslots":     domain.SortByTotalSlots,
	"availableslots": domain.SortByAvailableSlots,
	"isactive":       domain.SortByIsActive,
	"createdat":      domain.SortByCreatedAt,
	"updatedat":      domain.SortByUpdatedAt,
}

// ComposeQuery turns a free-form listing request into a filter and a sort.
func ComposeQuery(q domain.StationQuery) (domain.StationFilter, domain.StationSort) {
	filter := domain.StationFilter{
		IsActive:   q.IsActive,
		SearchTerm: strings.TrimSpace(q.SearchTerm),
	}
	return filter, ParseSort(q.SortBy, q.SortOrder)
}

// ParseSort resolves a sort field name ("totalSlots", "total_slots", "TotalSlots"...)
// and direction. Unknown or empty fields fall back to newest first.
func ParseSort(field, order string) domain.StationSort {
	key := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(field))
	f, ok := sortFields[key]
	if !ok {
		return domain.DefaultStationSort
	}
	o := domain.SortAsc
	if strings.EqualFold(strings.TrimSpace(order), string(domain.SortDesc)) {
		o = domain.SortDesc
	}
	return domain.StationSort{Field: f, Order: o}
}

// Matches evaluates the filter against a station in memory. The search term
// matches if any of name, type, address, city, state/province or location
// contains it, ignoring case.
func Matches(f domain.StationFilter, s *domain.ChargingStation) bool {
	if f.IsActive != nil && s.IsActive != *f.IsActive {
		return false
	}
	if !f.HasSearch() {
		return true
	}
	term := strings.ToLower(strings.TrimSpace(f.SearchTerm))
	for _, v := range SearchableFields(s) {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

// SearchableFields lists the values a search term is matched against.
func SearchableFields(s *domain.ChargingStation) []string {
	return []string{s.StationName, string(s.Type), s.Address, s.City, s.StateProvince, s.Location}
}

// HaversineKm is the great-circle distance between two coordinates.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// WithinRadius keeps the active stations no farther than radiusKm from (lat, lon).
func WithinRadius(stations []domain.ChargingStation, lat, lon, radiusKm float64) []domain.ChargingStation {
	out := make([]domain.ChargingStation, 0, len(stations))
	for _, s := range stations {
		if !s.IsActive {
			continue
		}
		if HaversineKm(lat, lon, s.Latitude, s.Longitude) <= radiusKm {
			out = append(out, s)
		}
	}
	return out
}
