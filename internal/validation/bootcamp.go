package validation

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/Varun5711/devcamper/internal/models"
)

const (
	MaxBootcampNameLength = 50
	MaxDescriptionLength  = 500
	MaxPhoneLength        = 20
)

var (
	ErrBootcampNameTooLong = errors.New("Name can not be more than 50 characters")
	ErrDescriptionRequired = errors.New("Please add a description")
	ErrDescriptionTooLong  = errors.New("Description can not be more than 500 characters")
	ErrWebsiteInvalid      = errors.New("Please use a valid URL with HTTP or HTTPS")
	ErrPhoneTooLong        = errors.New("Phone number can not be longer than 20 characters")
	ErrAddressRequired     = errors.New("Please add an address")
	ErrCareersRequired     = errors.New("Please add at least one career")
	ErrAverageCostNegative = errors.New("Average cost can not be negative")
)

var allowedCareers = func() map[string]bool {
	m := make(map[string]bool, len(models.Careers))
	for _, c := range models.Careers {
		m[c] = true
	}
	return m
}()

// ValidateBootcamp checks a fully merged bootcamp before it is written.
func ValidateBootcamp(b *models.Bootcamp) error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrNameRequired
	}
	if len(b.Name) > MaxBootcampNameLength {
		return ErrBootcampNameTooLong
	}

	if strings.TrimSpace(b.Description) == "" {
		return ErrDescriptionRequired
	}
	if len(b.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}

	if b.Website != "" && !isValidURL(b.Website) {
		return ErrWebsiteInvalid
	}
	if len(b.Phone) > MaxPhoneLength {
		return ErrPhoneTooLong
	}
	if b.Email != "" {
		if err := ValidateEmail(b.Email); err != nil {
			return err
		}
	}

	if strings.TrimSpace(b.Address) == "" {
		return ErrAddressRequired
	}

	if len(b.Careers) == 0 {
		return ErrCareersRequired
	}
	for _, c := range b.Careers {
		if !allowedCareers[c] {
			return fmt.Errorf("`%s` is not a valid enum value for path `careers`", c)
		}
	}

	if b.AverageCost != nil && *b.AverageCost < 0 {
		return ErrAverageCostNegative
	}

	return nil
}

func isValidURL(str string) bool {
	u, err := url.Parse(str)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
