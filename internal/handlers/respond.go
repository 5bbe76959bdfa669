package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Varun5711/devcamper/internal/logger"
	"github.com/Varun5711/devcamper/internal/middleware"
	"github.com/Varun5711/devcamper/internal/models"
	usermodel "github.com/Varun5711/devcamper/internal/models/user"
	"github.com/Varun5711/devcamper/internal/service"
)

const (
	requestTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
)

// CookieConfig controls the session cookie set alongside every issued token.
type CookieConfig struct {
	Expire time.Duration
	Secure bool
}

func respondJSON(w http.ResponseWriter, status int, env models.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, models.Envelope{Success: false, Error: message})
}

// respondServiceError maps a coded service error to its status and client message.
// Server-side failures are logged with their full detail.
func respondServiceError(w http.ResponseWriter, log *logger.Logger, err error) {
	status := statusForCode(service.ErrorCode(err))
	if status >= http.StatusInternalServerError {
		log.Error("Request failed: %+v", err)
	} else {
		log.Debug("Request rejected: %v", err)
	}
	respondError(w, status, service.ClientMessage(err))
}

func statusForCode(code string) int {
	switch code {
	case service.CodeValidation, service.CodeMissingCredentials, service.CodeInvalidToken:
		return http.StatusBadRequest
	case service.CodeInvalidCredentials, service.CodeUnauthenticated, service.CodeIncorrectPassword:
		return http.StatusUnauthorized
	case service.CodeForbidden:
		return http.StatusForbidden
	case service.CodeNoSuchUser, service.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func sendTokenResponse(w http.ResponseWriter, cookies CookieConfig, resp *usermodel.AuthResponse) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    resp.Token,
		Path:     "/",
		Expires:  time.Now().Add(cookies.Expire),
		HttpOnly: true,
		Secure:   cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, models.Envelope{Success: true, Token: resp.Token})
}
