package station

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seu-repo/evstation/internal/domain"
)

func sampleStations() []domain.ChargingStation {
	mk := func(id, name string, t domain.StationType, city string, active bool, lat, lon float64) domain.ChargingStation {
		s := domain.ChargingStation{
			ID: id, StationName: name, Type: t,
			Address: "1 Road", City: city, StateProvince: "Western",
			IsActive: active, Latitude: lat, Longitude: lon,
		}
		s.RefreshLocation()
		return s
	}
	return []domain.ChargingStation{
		mk("s1", "Downtown Fast", domain.StationTypeDC, "Colombo", true, 6.9271, 79.8612),
		mk("s2", "Airport", domain.StationTypeAC, "Katunayake", true, 7.1697, 79.8883),
		mk("s3", "Mall", domain.StationTypeAC, "Downtown Kandy", false, 7.2906, 80.6337),
	}
}

func TestComposeQuery(t *testing.T) {
	active := true
	filter, sort := ComposeQuery(domain.StationQuery{
		SearchTerm: "  downtown ",
		IsActive:   &active,
		SortBy:     "totalSlots",
	})

	assert.Equal(t, "downtown", filter.SearchTerm)
	assert.Equal(t, &active, filter.IsActive)
	assert.Equal(t, domain.StationSort{Field: domain.SortByTotalSlots, Order: domain.SortAsc}, sort)
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		field, order string
		want         domain.StationSort
	}{
		{"", "", domain.DefaultStationSort},
		{"unknown", "asc", domain.DefaultStationSort},
		{"total_slots", "DESC", domain.StationSort{Field: domain.SortByTotalSlots, Order: domain.SortDesc}},
		{"AvailableSlots", "", domain.StationSort{Field: domain.SortByAvailableSlots, Order: domain.SortAsc}},
		{"is-active", "sideways", domain.StationSort{Field: domain.SortByIsActive, Order: domain.SortAsc}},
		{"location", "desc", domain.StationSort{Field: domain.SortByLocation, Order: domain.SortDesc}},
	}

	for _, tt := range tests {
		t.Run(tt.field+"/"+tt.order, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSort(tt.field, tt.order))
		})
	}
}

func TestMatches_SearchTerm(t *testing.T) {
	// Arrange
	stations := sampleStations()
	filter := domain.StationFilter{SearchTerm: "downtown"}

	// Act
	var ids []string
	for i := range stations {
		if Matches(filter, &stations[i]) {
			ids = append(ids, stations[i].ID)
		}
	}

	// Assert
	// s1 matches on the name, s3 on the city.
	assert.Equal(t, []string{"s1", "s3"}, ids)
}

func TestMatches_ActiveAndSearchAreConjunctive(t *testing.T) {
	stations := sampleStations()
	active := true
	filter := domain.StationFilter{SearchTerm: "DOWNTOWN", IsActive: &active}

	assert.True(t, Matches(filter, &stations[0]))
	assert.False(t, Matches(filter, &stations[2]))
}

func TestMatches_TypeIsSearchable(t *testing.T) {
	stations := sampleStations()

	assert.True(t, Matches(domain.StationFilter{SearchTerm: "dc"}, &stations[0]))
	assert.False(t, Matches(domain.StationFilter{SearchTerm: "dc"}, &stations[1]))
}

func TestMatches_BlankSearchMatchesAll(t *testing.T) {
	stations := sampleStations()
	for i := range stations {
		assert.True(t, Matches(domain.StationFilter{SearchTerm: "   "}, &stations[i]))
	}
}

func TestHaversineKm(t *testing.T) {
	assert.InDelta(t, 0, HaversineKm(6.9271, 79.8612, 6.9271, 79.8612), 1e-9)
	// Colombo to Kandy is roughly 94 km as the crow flies.
	assert.InDelta(t, 94, HaversineKm(6.9271, 79.8612, 7.2906, 80.6337), 3)
	// One degree of latitude is about 111.2 km.
	assert.InDelta(t, 111.19, HaversineKm(0, 0, 1, 0), 0.1)
}

func TestWithinRadius(t *testing.T) {
	// Arrange
	stations := sampleStations()

	// Act & Assert
	near := WithinRadius(stations, 6.9271, 79.8612, 5)
	assert.Len(t, near, 1)
	assert.Equal(t, "s1", near[0].ID)

	wide := WithinRadius(stations, 6.9271, 79.8612, 500)
	assert.Len(t, wide, 2, "inactive stations are never returned")
}
