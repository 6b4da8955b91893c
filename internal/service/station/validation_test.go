package station

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seu-repo/evstation/internal/domain"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

func validCreateRequest() *domain.CreateStationRequest {
	return &domain.CreateStationRequest{
		StationName:   "Downtown Hub",
		Type:          "AC",
		Address:       "12 Main St",
		City:          "Colombo",
		StateProvince: "Western",
		TotalSlots:    intPtr(10),
		ContactPhone:  "0771234567",
		ContactEmail:  "ops@example.com",
		Latitude:      floatPtr(6.9271),
		Longitude:     floatPtr(79.8612),
	}
}

func TestValidateCreate_Valid(t *testing.T) {
	assert.NoError(t, ValidateCreate(validCreateRequest()))
}

func TestValidateCreate_TypeIsCaseInsensitive(t *testing.T) {
	req := validCreateRequest()
	req.Type = "ac"

	assert.NoError(t, ValidateCreate(req))
}

func TestValidateCreate_UnknownTypeReportedFirst(t *testing.T) {
	// Arrange
	req := validCreateRequest()
	req.Type = "Tesla"
	req.StationName = ""
	req.TotalSlots = intPtr(0)

	// Act
	err := ValidateCreate(req)

	// Assert
	require.Error(t, err)
	de := domain.AsError(err)
	assert.Equal(t, domain.KindInvalidType, de.Kind)
	assert.Empty(t, de.Fields)
}

func TestValidateCreate_CollectsFieldErrors(t *testing.T) {
	// Arrange
	req := &domain.CreateStationRequest{
		StationName:  strings.Repeat("x", 101),
		ContactPhone: "12345",
		ContactEmail: "not-an-email",
		TotalSlots:   intPtr(101),
		Latitude:     floatPtr(91),
		Longitude:    floatPtr(-181),
	}

	// Act
	err := ValidateCreate(req)

	// Assert
	de := domain.AsError(err)
	require.Equal(t, domain.KindValidationFailed, de.Kind)
	for _, field := range []string{
		"station_name", "type", "address", "city", "state_province",
		"total_slots", "contact_phone", "contact_email", "latitude", "longitude",
	} {
		assert.Contains(t, de.Fields, field)
	}
}

func TestValidateCreate_MissingNumbers(t *testing.T) {
	// Arrange
	req := validCreateRequest()
	req.TotalSlots = nil
	req.Latitude = nil
	req.Longitude = nil

	// Act
	de := domain.AsError(ValidateCreate(req))

	// Assert
	assert.Equal(t, "is required", de.Fields["total_slots"])
	assert.Equal(t, "is required", de.Fields["latitude"])
	assert.Equal(t, "is required", de.Fields["longitude"])
}

func TestValidateCreate_SlotBounds(t *testing.T) {
	for _, n := range []int{1, 100} {
		req := validCreateRequest()
		req.TotalSlots = intPtr(n)
		assert.NoError(t, ValidateCreate(req), "total_slots=%d", n)
	}
	for _, n := range []int{0, -1, 101} {
		req := validCreateRequest()
		req.TotalSlots = intPtr(n)
		assert.Error(t, ValidateCreate(req), "total_slots=%d", n)
	}
}

func TestValidateUpdate(t *testing.T) {
	t.Run("empty patch is valid", func(t *testing.T) {
		assert.NoError(t, ValidateUpdate(&domain.UpdateStationRequest{}))
	})

	t.Run("only present fields are checked", func(t *testing.T) {
		err := ValidateUpdate(&domain.UpdateStationRequest{TotalSlots: intPtr(0)})

		de := domain.AsError(err)
		assert.Equal(t, domain.KindValidationFailed, de.Kind)
		assert.Len(t, de.Fields, 1)
		assert.Contains(t, de.Fields, "total_slots")
	})

	t.Run("blank name is rejected", func(t *testing.T) {
		err := ValidateUpdate(&domain.UpdateStationRequest{StationName: strPtr("  ")})

		assert.Equal(t, domain.KindValidationFailed, domain.KindOf(err))
	})

	t.Run("unknown type short-circuits", func(t *testing.T) {
		err := ValidateUpdate(&domain.UpdateStationRequest{Type: strPtr("Tesla"), TotalSlots: intPtr(0)})

		assert.Equal(t, domain.KindInvalidType, domain.KindOf(err))
	})

	t.Run("lowercase dc is accepted", func(t *testing.T) {
		assert.NoError(t, ValidateUpdate(&domain.UpdateStationRequest{Type: strPtr("dc")}))
	})
}
