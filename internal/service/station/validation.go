package station

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/seu-repo/evstation/internal/domain"
)

const (
	maxStationNameLen   = 100
	maxAddressLen       = 200
	maxCityLen          = 100
	maxStateProvinceLen = 100
	minTotalSlots       = 1
	maxTotalSlots       = 100
	minPhoneDigits      = 10
	maxPhoneDigits      = 15
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type fieldErrors map[string]string

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return domain.NewValidationError(f)
}

func invalidType(raw string) error {
	return domain.NewError(domain.KindInvalidType, fmt.Sprintf("invalid station type %q, must be AC or DC", raw))
}

// ValidateCreate checks every required field of a new station.
// An unknown type is reported on its own before any other field is checked.
func ValidateCreate(req *domain.CreateStationRequest) error {
	if strings.TrimSpace(req.Type) != "" {
		if _, ok := domain.ParseStationType(req.Type); !ok {
			return invalidType(req.Type)
		}
	}

	errs := fieldErrors{}
	checkText(errs, "station_name", req.StationName, maxStationNameLen)
	if strings.TrimSpace(req.Type) == "" {
		errs["type"] = "is required"
	}
	checkText(errs, "address", req.Address, maxAddressLen)
	checkText(errs, "city", req.City, maxCityLen)
	checkText(errs, "state_province", req.StateProvince, maxStateProvinceLen)

	if req.TotalSlots == nil {
		errs["total_slots"] = "is required"
	} else {
		checkSlots(errs, *req.TotalSlots)
	}
	checkPhone(errs, req.ContactPhone)
	checkEmail(errs, req.ContactEmail)

	if req.Latitude == nil {
		errs["latitude"] = "is required"
	} else {
		checkLatitude(errs, *req.Latitude)
	}
	if req.Longitude == nil {
		errs["longitude"] = "is required"
	} else {
		checkLongitude(errs, *req.Longitude)
	}
	return errs.err()
}

// ValidateUpdate checks only the fields present in the patch.
func ValidateUpdate(req *domain.UpdateStationRequest) error {
	if req.Type != nil {
		if _, ok := domain.ParseStationType(*req.Type); !ok {
			return invalidType(*req.Type)
		}
	}

	errs := fieldErrors{}
	if req.StationName != nil {
		checkText(errs, "station_name", *req.StationName, maxStationNameLen)
	}
	if req.Address != nil {
		checkText(errs, "address", *req.Address, maxAddressLen)
	}
	if req.City != nil {
		checkText(errs, "city", *req.City, maxCityLen)
	}
	if req.StateProvince != nil {
		checkText(errs, "state_province", *req.StateProvince, maxStateProvinceLen)
	}
	if req.TotalSlots != nil {
		checkSlots(errs, *req.TotalSlots)
	}
	if req.ContactPhone != nil {
		checkPhone(errs, *req.ContactPhone)
	}
	if req.ContactEmail != nil {
		checkEmail(errs, *req.ContactEmail)
	}
	if req.Latitude != nil {
		checkLatitude(errs, *req.Latitude)
	}
	if req.Longitude != nil {
		checkLongitude(errs, *req.Longitude)
	}
	return errs.err()
}

func checkText(errs fieldErrors, field, value string, max int) {
	if strings.TrimSpace(value) == "" {
		errs[field] = "is required"
		return
	}
	if utf8.RuneCountInString(value) > max {
		errs[field] = fmt.Sprintf("must be at most %d characters", max)
	}
}

func checkSlots(errs fieldErrors, n int) {
	if n < minTotalSlots || n > maxTotalSlots {
		errs["total_slots"] = fmt.Sprintf("must be between %d and %d", minTotalSlots, maxTotalSlots)
	}
}

func checkPhone(errs fieldErrors, phone string) {
	if strings.TrimSpace(phone) == "" {
		errs["contact_phone"] = "is required"
		return
	}
	digits := 0
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if digits < minPhoneDigits || digits > maxPhoneDigits {
		errs["contact_phone"] = fmt.Sprintf("must contain %d to %d digits", minPhoneDigits, maxPhoneDigits)
	}
}

func checkEmail(errs fieldErrors, email string) {
	if strings.TrimSpace(email) == "" {
		errs["contact_email"] = "is required"
		return
	}
	if !emailPattern.MatchString(email) {
		errs["contact_email"] = "is not a valid email address"
	}
}

func checkLatitude(errs fieldErrors, lat float64) {
	if lat < -90 || lat > 90 {
		errs["latitude"] = "must be between -90 and 90"
	}
}

func checkLongitude(errs fieldErrors, lon float64) {
	if lon < -180 || lon > 180 {
		errs["longitude"] = "must be between -180 and 180"
	}
}
