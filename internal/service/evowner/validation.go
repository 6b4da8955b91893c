package evowner

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/seu-repo/evstation/internal/domain"
	"github.com/seu-repo/evstation/internal/ports"
)

const (
	maxNameLength     = 50
	maxNICLength      = 20
	minPasswordLength = 8
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func validateRegister(req *ports.RegisterOwnerRequest) error {
	fields := map[string]string{}

	nic := strings.TrimSpace(req.NIC)
	switch {
	case nic == "":
		fields["nic"] = "is required"
	case utf8.RuneCountInString(nic) > maxNICLength:
		fields["nic"] = "must be at most 20 characters"
	}
	checkName(fields, "first_name", req.FirstName, true)
	checkName(fields, "last_name", req.LastName, true)
	checkEmail(fields, req.Email, true)
	checkPhone(fields, req.Phone)
	if utf8.RuneCountInString(req.Password) < minPasswordLength {
		fields["password"] = "must be at least 8 characters"
	}

	if len(fields) > 0 {
		return domain.NewValidationError(fields)
	}
	return nil
}

func validatePatch(p *domain.EVOwnerPatch) error {
	fields := map[string]string{}
	if p.FirstName != nil {
		checkName(fields, "first_name", *p.FirstName, true)
	}
	if p.LastName != nil {
		checkName(fields, "last_name", *p.LastName, true)
	}
	if p.Email != nil {
		checkEmail(fields, *p.Email, true)
	}
	if p.Phone != nil {
		checkPhone(fields, *p.Phone)
	}
	if len(fields) > 0 {
		return domain.NewValidationError(fields)
	}
	return nil
}

func checkName(fields map[string]string, name, value string, required bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		if required {
			fields[name] = "is required"
		}
		return
	}
	if utf8.RuneCountInString(value) > maxNameLength {
		fields[name] = "must be at most 50 characters"
	}
}

func checkEmail(fields map[string]string, value string, required bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		if required {
			fields["email"] = "is required"
		}
		return
	}
	if !emailPattern.MatchString(value) {
		fields["email"] = "must be a valid e-mail address"
	}
}

// checkPhone accepts an empty phone; otherwise it needs 10 to 15 digits.
func checkPhone(fields map[string]string, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	digits := 0
	for _, r := range value {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if digits < 10 || digits > 15 {
		fields["phone"] = "must contain 10 to 15 digits"
	}
}
