package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Varun5711/devcamper/internal/logger"
)

func TestMaskPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/api/v1/auth/resetpassword/abc123", "/api/v1/auth/resetpassword/***"},
		{"/api/v1/auth/resetpassword/", "/api/v1/auth/resetpassword/***"},
		{"/api/v1/bootcamps", "/api/v1/bootcamps"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MaskPath(tt.in), tt.in)
	}
}

func TestLogging_MasksResetTokenAndRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("http", &buf, logger.DEBUG)

	h := Logging(log, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	req := httptest.NewRequest(http.MethodPut, "/api/v1/auth/resetpassword/supersecret", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.NotContains(t, out, "supersecret")
	assert.Contains(t, out, "/api/v1/auth/resetpassword/***")
	assert.Contains(t, out, "status=400")
	assert.Contains(t, out, "browser=Chrome")
	assert.Contains(t, out, "WARN")
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("http", &buf, logger.DEBUG)

	h := Recovery(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bootcamps", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server Error", decodeEnvelope(t, rec).Error)
	assert.Contains(t, buf.String(), "boom")
}
