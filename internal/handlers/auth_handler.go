package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Varun5711/devcamper/internal/logger"
	"github.com/Varun5711/devcamper/internal/middleware"
	"github.com/Varun5711/devcamper/internal/models"
	usermodel "github.com/Varun5711/devcamper/internal/models/user"
	"github.com/Varun5711/devcamper/internal/service"
)

type AuthHandler struct {
	auth    *service.AuthService
	cookies CookieConfig
	log     *logger.Logger
}

func NewAuthHandler(auth *service.AuthService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{
		auth:    auth,
		cookies: cookies,
		log:     logger.New("auth-handler"),
	}
}

func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux, protect func(http.Handler) http.Handler) {
	mux.HandleFunc("POST /api/v1/auth/register", h.Register)
	mux.HandleFunc("POST /api/v1/auth/login", h.Login)
	mux.HandleFunc("GET /api/v1/auth/logout", h.Logout)
	mux.Handle("GET /api/v1/auth/me", protect(http.HandlerFunc(h.GetMe)))
	mux.Handle("PUT /api/v1/auth/updatedetails", protect(http.HandlerFunc(h.UpdateDetails)))
	mux.Handle("PUT /api/v1/auth/updatepassword", protect(http.HandlerFunc(h.UpdatePassword)))
	mux.HandleFunc("POST /api/v1/auth/forgotpassword", h.ForgotPassword)
	mux.HandleFunc("PUT /api/v1/auth/resetpassword/{resettoken}", h.ResetPassword)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req usermodel.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	resp, err := h.auth.Register(ctx, &req)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	sendTokenResponse(w, h.cookies, resp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req usermodel.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	resp, err := h.auth.Login(ctx, &req)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	sendTokenResponse(w, h.cookies, resp)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    "none",
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Second),
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, models.Envelope{Success: true, Data: struct{}{}})
}

func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	user, err := h.auth.GetProfile(ctx, middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, models.Envelope{Success: true, Data: user})
}

func (h *AuthHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	var req usermodel.UpdateDetailsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	user, err := h.auth.UpdateDetails(ctx, middleware.GetUserID(r.Context()), &req)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, models.Envelope{Success: true, Data: user})
}

func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req usermodel.UpdatePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	resp, err := h.auth.UpdatePassword(ctx, middleware.GetUserID(r.Context()), &req)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	sendTokenResponse(w, h.cookies, resp)
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req usermodel.ForgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.auth.ForgotPassword(ctx, req.Email); err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, models.Envelope{Success: true, Data: "Email sent"})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req usermodel.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	resp, err := h.auth.ResetPassword(ctx, r.PathValue("resettoken"), &req)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	sendTokenResponse(w, h.cookies, resp)
}
