package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/Varun5711/devcamper/internal/enrichment"
	"github.com/Varun5711/devcamper/internal/logger"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Logging writes one line per request with the caller's browser, OS and device class.
func Logging(log *logger.Logger, proxies TrustedProxies) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r)

			if rec.status == 0 {
				rec.status = http.StatusOK
			}

			ua := enrichment.ParseUserAgent(r.UserAgent())
			entry := log.
				With("status", rec.status).
				With("duration", time.Since(start).Round(time.Microsecond)).
				With("ip", getClientIP(r, proxies)).
				With("browser", ua.Browser).
				With("os", ua.OS).
				With("device", ua.DeviceType)

			msg := "%s %s"
			switch {
			case rec.status >= 500:
				entry.Error(msg, r.Method, MaskPath(r.URL.Path))
			case rec.status >= 400:
				entry.Warn(msg, r.Method, MaskPath(r.URL.Path))
			default:
				entry.Info(msg, r.Method, MaskPath(r.URL.Path))
			}
		})
	}
}

const resetPathSegment = "/resetpassword/"

// MaskPath hides reset tokens carried in the URL path.
func MaskPath(path string) string {
	if i := strings.Index(path, resetPathSegment); i >= 0 {
		return path[:i+len(resetPathSegment)] + "***"
	}
	return path
}
