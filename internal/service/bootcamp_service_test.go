package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Varun5711/devcamper/internal/models"
	usermodel "github.com/Varun5711/devcamper/internal/models/user"
	"github.com/Varun5711/devcamper/internal/storage"
)

type fakeGeocoder struct {
	locations map[string]*models.Location
	err       error
}

func (g *fakeGeocoder) Geocode(ctx context.Context, address string) (*models.Location, error) {
	if g.err != nil {
		return nil, g.err
	}
	if loc, ok := g.locations[address]; ok {
		copied := *loc
		return &copied, nil
	}
	return nil, errors.New("no results")
}

type fakePhotoStore struct {
	saved map[string][]byte
	err   error
}

func (p *fakePhotoStore) Save(ctx context.Context, name, contentType string, r io.Reader) error {
	if p.err != nil {
		return p.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	p.saved[name] = data
	return nil
}

const (
	bostonAddress = "233 Bay State Rd Boston MA 02215"
	laAddress     = "1 World Way Los Angeles CA 90045"
)

type bootcampFixture struct {
	svc       *BootcampService
	bootcamps *storage.MemoryBootcampStorage
	geocoder  *fakeGeocoder
	photos    *fakePhotoStore
}

func newBootcampFixture() *bootcampFixture {
	bootcamps := storage.NewMemoryBootcampStorage()
	geocoder := &fakeGeocoder{locations: map[string]*models.Location{
		bostonAddress: {Latitude: 42.350846, Longitude: -71.10122, Zipcode: "02215", City: "Boston"},
		"02118":       {Latitude: 42.3388, Longitude: -71.0765, Zipcode: "02118"},
		laAddress:     {Latitude: 33.9416, Longitude: -118.4085, Zipcode: "90045"},
	}}
	photos := &fakePhotoStore{saved: map[string][]byte{}}

	svc := NewBootcampService(bootcamps, geocoder, photos, BootcampConfig{MaxPhotoSize: 1000})
	return &bootcampFixture{svc: svc, bootcamps: bootcamps, geocoder: geocoder, photos: photos}
}

func strPtr(s string) *string { return &s }

func bootcampInput(name, address string) *models.BootcampInput {
	return &models.BootcampInput{
		Name:        strPtr(name),
		Description: strPtr("Full stack web development"),
		Website:     strPtr("https://devworks.com"),
		Address:     strPtr(address),
		Careers:     []string{"Web Development"},
	}
}

var (
	publisher      = &usermodel.User{ID: "pub-1", Role: usermodel.RolePublisher}
	otherPublisher = &usermodel.User{ID: "pub-2", Role: usermodel.RolePublisher}
	admin          = &usermodel.User{ID: "admin-1", Role: usermodel.RoleAdmin}
	plainUser      = &usermodel.User{ID: "user-1", Role: usermodel.RoleUser}
)

func TestBootcampService_Create(t *testing.T) {
	f := newBootcampFixture()
	ctx := context.Background()

	b, err := f.svc.Create(ctx, publisher, bootcampInput("Devworks Bootcamp", bostonAddress))
	require.NoError(t, err)

	assert.Equal(t, "pub-1", b.UserID)
	assert.Equal(t, "devworks-bootcamp", b.Slug)
	assert.Equal(t, models.DefaultPhoto, b.Photo)
	require.NotNil(t, b.Location)
	assert.Equal(t, "02215", b.Location.Zipcode)
}

func TestBootcampService_CreateOnePerPublisher(t *testing.T) {
	f := newBootcampFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, publisher, bootcampInput("First", bostonAddress))
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, publisher, bootcampInput("Second", bostonAddress))
	assertCode(t, err, CodeValidation)
	assert.Equal(t, "pub-1 already published", ClientMessage(err))

	_, err = f.svc.Create(ctx, admin, bootcampInput("Admin One", bostonAddress))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, admin, bootcampInput("Admin Two", bostonAddress))
	require.NoError(t, err)
}

func TestBootcampService_CreateRejectsUserRole(t *testing.T) {
	f := newBootcampFixture()

	_, err := f.svc.Create(context.Background(), plainUser, bootcampInput("Nope", bostonAddress))
	assertCode(t, err, CodeForbidden)
	assert.Equal(t, "User role user is not authorized to access this route", ClientMessage(err))
}

func TestBootcampService_CreateValidationAndDuplicates(t *testing.T) {
	f := newBootcampFixture()
	ctx := context.Background()

	in := bootcampInput(strings.Repeat("x", 51), bostonAddress)
	_, err := f.svc.Create(ctx, publisher, in)
	assertCode(t, err, CodeValidation)

	_, err = f.svc.Create(ctx, publisher, bootcampInput("Same Name", bostonAddress))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, otherPublisher, bootcampInput("Same Name", bostonAddress))
	assertCode(t, err, CodeValidation)
	assert.Equal(t, "Duplicate field value entered", ClientMessage(err))
}

func TestBootcampService_CreateGeocodeFailure(t *testing.T) {
	f := newBootcampFixture()
	f.geocoder.err = errors.New("provider down")

	_, err := f.svc.Create(context.Background(), publisher, bootcampInput("Devworks", bostonAddress))
	assertCode(t, err, CodeGeocodeFailed)
	assert.Equal(t, "Server Error", ClientMessage(err))
}

func TestBootcampService_GetNotFound(t *testing.T) {
	f := newBootcampFixture()

	_, err := f.svc.Get(context.Background(), "missing")
	assertCode(t, err, CodeNotFound)
	assert.Equal(t, "Bootcamp not found with id of missing", ClientMessage(err))
}

func TestBootcampService_UpdateOwnership(t *testing.T) {
	f := newBootcampFixture()
	ctx := context.Background()

	b, err := f.svc.Create(ctx, publisher, bootcampInput("Devworks", bostonAddress))
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, otherPublisher, b.ID, &models.BootcampInput{Name: strPtr("Hijacked")})
	assertCode(t, err, CodeForbidden)

	updated, err := f.svc.Update(ctx, publisher, b.ID, &models.BootcampInput{Name: strPtr("Devworks Pro"), Address: strPtr(laAddress)})
	require.NoError(t, err)
	assert.Equal(t, "devworks-pro", updated.Slug)
	assert.Equal(t, "90045", updated.Location.Zipcode)

	byAdmin, err := f.svc.Update(ctx, admin, b.ID, &models.BootcampInput{Housing: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, byAdmin.Housing)
	assert.Equal(t, "pub-1", byAdmin.UserID)
}

func boolPtr(b bool) *bool { return &b }

func TestBootcampService_Delete(t *testing.T) {
	f := newBootcampFixture()
	ctx := context.Background()

	b, err := f.svc.Create(ctx, publisher, bootcampInput("Devworks", bostonAddress))
	require.NoError(t, err)

	assertCode(t, f.svc.Delete(ctx, otherPublisher, b.ID), CodeForbidden)
	require.NoError(t, f.svc.Delete(ctx, publisher, b.ID))
	assertCode(t, f.svc.Delete(ctx, publisher, b.ID), CodeNotFound)
}

func TestBootcampService_List(t *testing.T) {
	f := newBootcampFixture()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := f.svc.Create(ctx, admin, bootcampInput(fmt.Sprintf("Camp %d", i), bostonAddress))
		require.NoError(t, err)
	}

	first, err := f.svc.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, first.Bootcamps, 2)
	assert.Equal(t, 5, first.Total)
	require.NotNil(t, first.Pagination.Next)
	assert.Equal(t, 2, first.Pagination.Next.Page)
	assert.Nil(t, first.Pagination.Prev)

	last, err := f.svc.List(ctx, 3, 2)
	require.NoError(t, err)
	assert.Len(t, last.Bootcamps, 1)
	assert.Nil(t, last.Pagination.Next)
	require.NotNil(t, last.Pagination.Prev)
	assert.Equal(t, 2, last.Pagination.Prev.Page)

	defaults, err := f.svc.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, defaults.Bootcamps, 5)
}

func TestBootcampService_InRadius(t *testing.T) {
	f := newBootcampFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, publisher, bootcampInput("Boston Camp", bostonAddress))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, otherPublisher, bootcampInput("LA Camp", laAddress))
	require.NoError(t, err)

	near, err := f.svc.InRadius(ctx, "02118", 10)
	require.NoError(t, err)
	require.Len(t, near, 1)
	assert.Equal(t, "Boston Camp", near[0].Name)

	all, err := f.svc.InRadius(ctx, "02118", 3000)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.svc.InRadius(ctx, "02118", 0)
	assertCode(t, err, CodeValidation)
}

func TestBootcampService_UploadPhoto(t *testing.T) {
	f := newBootcampFixture()
	ctx := context.Background()

	b, err := f.svc.Create(ctx, publisher, bootcampInput("Devworks", bostonAddress))
	require.NoError(t, err)

	upload := &PhotoUpload{Filename: "me.JPG", ContentType: "image/jpeg", Size: 4, Body: bytes.NewReader([]byte("jpeg"))}
	name, err := f.svc.UploadPhoto(ctx, publisher, b.ID, upload)
	require.NoError(t, err)
	assert.Equal(t, "photo_"+b.ID+".JPG", name)
	assert.Equal(t, []byte("jpeg"), f.photos.saved[name])

	stored, _ := f.bootcamps.GetByID(ctx, b.ID)
	assert.Equal(t, name, stored.Photo)
}

func TestBootcampService_UploadPhotoRejects(t *testing.T) {
	f := newBootcampFixture()
	ctx := context.Background()

	b, err := f.svc.Create(ctx, publisher, bootcampInput("Devworks", bostonAddress))
	require.NoError(t, err)

	tests := []struct {
		name    string
		actor   *usermodel.User
		upload  *PhotoUpload
		code    string
		message string
	}{
		{"not owner", otherPublisher, &PhotoUpload{ContentType: "image/png", Body: strings.NewReader("x")}, CodeForbidden, "pub-2 can't load photo to this bootcamp"},
		{"no file", publisher, nil, CodeValidation, "Please upload a file"},
		{"not an image", publisher, &PhotoUpload{ContentType: "application/pdf", Body: strings.NewReader("x")}, CodeValidation, "Please upload an image file"},
		{"too large", publisher, &PhotoUpload{ContentType: "image/png", Size: 1001, Body: strings.NewReader("x")}, CodeValidation, "Please upload an image less than 1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.UploadPhoto(ctx, tt.actor, b.ID, tt.upload)
			assertCode(t, err, tt.code)
			assert.Equal(t, tt.message, ClientMessage(err))
		})
	}

	stored, _ := f.bootcamps.GetByID(ctx, b.ID)
	assert.Equal(t, models.DefaultPhoto, stored.Photo)
}

func TestBootcampService_UploadPhotoStoreFailureKeepsRecord(t *testing.T) {
	f := newBootcampFixture()
	ctx := context.Background()

	b, err := f.svc.Create(ctx, publisher, bootcampInput("Devworks", bostonAddress))
	require.NoError(t, err)

	f.photos.err = errors.New("disk full")
	_, err = f.svc.UploadPhoto(ctx, publisher, b.ID, &PhotoUpload{Filename: "a.png", ContentType: "image/png", Body: strings.NewReader("x")})
	assertCode(t, err, CodePhotoStoreFailed)

	stored, _ := f.bootcamps.GetByID(ctx, b.ID)
	assert.Equal(t, models.DefaultPhoto, stored.Photo)
}

func TestBootcampService_QRCode(t *testing.T) {
	f := newBootcampFixture()
	ctx := context.Background()

	b, err := f.svc.Create(ctx, publisher, bootcampInput("Devworks", bostonAddress))
	require.NoError(t, err)

	png, err := f.svc.QRCode(ctx, b.ID, 128)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte{0x89, 'P', 'N', 'G'}))

	_, err = f.svc.QRCode(ctx, "missing", 128)
	assertCode(t, err, CodeNotFound)
}

func TestBootcampService_QRCodeWebsiteTooLong(t *testing.T) {
	f := newBootcampFixture()
	ctx := context.Background()

	long := &models.Bootcamp{
		ID:      "bc-long",
		UserID:  publisher.ID,
		Name:    "Longsite",
		Website: "https://example.com/" + strings.Repeat("a", 3000),
	}
	require.NoError(t, f.bootcamps.Create(ctx, long))

	_, err := f.svc.QRCode(ctx, long.ID, 128)
	assertCode(t, err, CodeQRCodeFailed)
	assert.Equal(t, "Server Error", ClientMessage(err))
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Devworks Bootcamp":       "devworks-bootcamp",
		"  ModernTech -- Academy": "moderntech-academy",
		"Codemasters!":            "codemasters",
		"UI/UX 2024":              "ui-ux-2024",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestBootcampService_ConcurrentCreateOnePerPublisher(t *testing.T) {
	f := newBootcampFixture()
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.Create(ctx, publisher, bootcampInput(fmt.Sprintf("Camp %d", i), bostonAddress))
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	owned, err := f.bootcamps.CountByUser(ctx, publisher.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, owned)
}
