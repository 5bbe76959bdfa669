package service

import (
	"github.com/samber/oops"
)

// Error codes carried by every failure the services return.
const (
	CodeValidation          = "VALIDATION"
	CodeMissingCredentials  = "MISSING_CREDENTIALS"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeUnauthenticated     = "UNAUTHENTICATED"
	CodeIncorrectPassword   = "INCORRECT_PASSWORD"
	CodeForbidden           = "FORBIDDEN"
	CodeNoSuchUser          = "NO_SUCH_USER"
	CodeNotFound            = "NOT_FOUND"
	CodeInvalidToken        = "INVALID_TOKEN"
	CodeEmailDeliveryFailed = "EMAIL_DELIVERY_FAILED"
	CodePersistence         = "PERSISTENCE"
	CodeGeocodeFailed       = "GEOCODE_FAILED"
	CodePhotoStoreFailed    = "PHOTO_STORE_FAILED"
	CodeQRCodeFailed        = "QRCODE_FAILED"
)

const serverErrorMessage = "Server Error"

// ErrValidation carries a message that is safe to show to the client.
func ErrValidation(message string) error {
	return oops.Code(CodeValidation).
		With("message", message).
		Errorf("%s", message)
}

func ErrMissingCredentials() error {
	return oops.Code(CodeMissingCredentials).Errorf("email or password missing")
}

// ErrInvalidCredentials is returned for both unknown emails and wrong passwords.
func ErrInvalidCredentials() error {
	return oops.Code(CodeInvalidCredentials).Errorf("invalid credentials")
}

func ErrUnauthenticated(reason string) error {
	return oops.Code(CodeUnauthenticated).
		With("reason", reason).
		Errorf("not authenticated: %s", reason)
}

func ErrIncorrectPassword(userID string) error {
	return oops.Code(CodeIncorrectPassword).
		With("user_id", userID).
		Errorf("current password does not match")
}

func ErrForbidden(message string) error {
	return oops.Code(CodeForbidden).
		With("message", message).
		Errorf("%s", message)
}

func ErrNoSuchUser(email string) error {
	return oops.Code(CodeNoSuchUser).
		With("email", email).
		Errorf("no user with email %s", email)
}

func ErrNotFound(message string) error {
	return oops.Code(CodeNotFound).
		With("message", message).
		Errorf("%s", message)
}

func ErrInvalidOrExpiredToken() error {
	return oops.Code(CodeInvalidToken).Errorf("reset token invalid or expired")
}

func ErrEmailDeliveryFailed(cause error) error {
	return oops.Code(CodeEmailDeliveryFailed).Wrap(cause)
}

func errPersistence(operation string, cause error) error {
	return oops.Code(CodePersistence).
		With("operation", operation).
		Wrap(cause)
}

// ErrorCode returns the code attached to err, or "" for uncoded errors.
func ErrorCode(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	code, _ := any(oopsErr.Code()).(string)
	return code
}

// ClientMessage extracts the message a client may see. Internal detail never leaks.
func ClientMessage(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return serverErrorMessage
	}

	switch oopsErr.Code() {
	case CodeValidation, CodeForbidden, CodeNotFound:
		if msg, ok := oopsErr.Context()["message"].(string); ok && msg != "" {
			return msg
		}
		return serverErrorMessage
	case CodeMissingCredentials:
		return "Please provide an email and password"
	case CodeInvalidCredentials:
		return "Invalid credentials"
	case CodeUnauthenticated:
		return "Not authorized to access this route"
	case CodeIncorrectPassword:
		return "Password is incorrect"
	case CodeNoSuchUser:
		return "There is no user with that email"
	case CodeInvalidToken:
		return "Invalid token"
	case CodeEmailDeliveryFailed:
		return "Email could not be sent"
	default:
		return serverErrorMessage
	}
}
