package partner

import (
	"regexp"
	"strings"

	"github.com/retail/backoffice/internal/domain/shared"
)

var (
	phonePattern = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

func validatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 50 characters")
	}
	if !phonePattern.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return nil
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func requireName(entity, name string, max int) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", shared.NewDomainErrorf("INVALID_NAME", "%s name cannot be empty", entity)
	}
	if len([]rune(name)) > max {
		return "", shared.NewDomainErrorf("INVALID_NAME", "%s name cannot exceed %d characters", entity, max)
	}
	return name, nil
}
