package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Varun5711/devcamper/internal/auth"
	"github.com/Varun5711/devcamper/internal/mailer/mocks"
	"github.com/Varun5711/devcamper/internal/middleware"
	"github.com/Varun5711/devcamper/internal/models"
	"github.com/Varun5711/devcamper/internal/service"
	"github.com/Varun5711/devcamper/internal/storage"
)

type stubGeocoder struct {
	locations map[string]*models.Location
}

func (g *stubGeocoder) Geocode(_ context.Context, address string) (*models.Location, error) {
	if loc, ok := g.locations[address]; ok {
		copied := *loc
		return &copied, nil
	}
	return nil, errors.New("no results")
}

type memPhotoStore struct {
	saved map[string][]byte
}

func (p *memPhotoStore) Save(_ context.Context, name, _ string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	p.saved[name] = data
	return nil
}

const testAddress = "233 Bay State Rd Boston MA 02215"

type testServer struct {
	handler  http.Handler
	users    *storage.MemoryUserStorage
	notifier *mocks.MockNotifier
	photos   *memPhotoStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	users := storage.NewMemoryUserStorage()
	notifier := mocks.NewMockNotifier(t)
	authSvc := service.NewAuthService(
		users,
		auth.NewPasswordHasher(bcrypt.MinCost),
		auth.NewJWTManager("test-secret", time.Hour),
		notifier,
		service.AuthConfig{ResetTokenExpire: 10 * time.Minute, BaseURL: "http://fallback"},
	)

	photos := &memPhotoStore{saved: map[string][]byte{}}
	geocoder := &stubGeocoder{locations: map[string]*models.Location{
		testAddress: {Latitude: 42.350846, Longitude: -71.10122, Zipcode: "02215"},
		"02118":     {Latitude: 42.3388, Longitude: -71.0765, Zipcode: "02118"},
	}}
	bootcampSvc := service.NewBootcampService(storage.NewMemoryBootcampStorage(), geocoder, photos, service.BootcampConfig{MaxPhotoSize: 1000})

	mux := http.NewServeMux()
	protect := middleware.NewAuthMiddleware(authSvc).Protect
	NewAuthHandler(authSvc, CookieConfig{Expire: 24 * time.Hour}).RegisterRoutes(mux, protect)
	NewBootcampHandler(bootcampSvc, 1000).RegisterRoutes(mux, protect)

	return &testServer{handler: mux, users: users, notifier: notifier, photos: photos}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) register(t *testing.T, name, email, role string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "123456", "role": role,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode(t, rec).Token
}

type envelope struct {
	Success    bool              `json:"success"`
	Token      string            `json:"token"`
	Count      *int              `json:"count"`
	Pagination models.Pagination `json:"pagination"`
	Data       json.RawMessage   `json:"data"`
	Error      string            `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
