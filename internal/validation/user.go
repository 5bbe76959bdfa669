package validation

import (
	"errors"
	"regexp"
	"strings"

	usermodel "github.com/Varun5711/devcamper/internal/models/user"
)

const (
	MinPasswordLength = 6
	// MaxPasswordLength is the most bytes bcrypt will hash.
	MaxPasswordLength = 72
)

var (
	ErrNameRequired     = errors.New("Please add a name")
	ErrEmailRequired    = errors.New("Please add an email")
	ErrEmailInvalid     = errors.New("Please add a valid email")
	ErrPasswordRequired = errors.New("Please add a password")
	ErrPasswordTooShort = errors.New("Password must be at least 6 characters")
	ErrPasswordTooLong  = errors.New("Password must be at most 72 bytes")
	ErrRoleInvalid      = errors.New("Role must be either user or publisher")
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	return nil
}

func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmailRequired
	}
	if !emailRegex.MatchString(email) {
		return ErrEmailInvalid
	}
	return nil
}

func ValidatePassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}

// ValidateRole resolves the role a new account may register with.
// An empty role means user; admin can never be self-assigned.
func ValidateRole(role usermodel.Role) (usermodel.Role, error) {
	switch role {
	case "":
		return usermodel.RoleUser, nil
	case usermodel.RoleUser, usermodel.RolePublisher:
		return role, nil
	}
	return "", ErrRoleInvalid
}

func ValidateRegistration(req *usermodel.CreateUserRequest) (usermodel.Role, error) {
	if err := ValidateName(req.Name); err != nil {
		return "", err
	}
	if err := ValidateEmail(req.Email); err != nil {
		return "", err
	}
	if err := ValidatePassword(req.Password); err != nil {
		return "", err
	}
	return ValidateRole(req.Role)
}
