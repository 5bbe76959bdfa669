package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Varun5711/devcamper/internal/geo"
	"github.com/Varun5711/devcamper/internal/models"
	usermodel "github.com/Varun5711/devcamper/internal/models/user"
)

func TestMemoryUserStorage_EmailUniqueIgnoresCase(t *testing.T) {
	store := NewMemoryUserStorage()
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, &usermodel.User{ID: "1", Email: "Ana@X.com"}))
	err := store.CreateUser(ctx, &usermodel.User{ID: "2", Email: "ana@x.COM"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	u, err := store.GetUserByEmail(ctx, "ANA@x.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "ana@x.com", u.Email)
}

func TestMemoryUserStorage_ResetTokenLookupHonoursExpiry(t *testing.T) {
	store := NewMemoryUserStorage()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.CreateUser(ctx, &usermodel.User{ID: "1", Email: "a@x.com"}))
	require.NoError(t, store.SetResetToken(ctx, "1", "digest", now.Add(time.Minute)))

	u, err := store.GetUserByResetToken(ctx, "digest", now)
	require.NoError(t, err)
	require.NotNil(t, u)

	u, err = store.GetUserByResetToken(ctx, "digest", now.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Nil(t, u)

	require.NoError(t, store.UpdatePassword(ctx, "1", "new"))
	u, err = store.GetUserByID(ctx, "1")
	require.NoError(t, err)
	assert.False(t, u.HasPendingReset())
	assert.Equal(t, "new", u.PasswordHash)
}

func TestMemoryUserStorage_ReturnsCopies(t *testing.T) {
	store := NewMemoryUserStorage()
	ctx := context.Background()
	require.NoError(t, store.CreateUser(ctx, &usermodel.User{ID: "1", Name: "A", Email: "a@x.com"}))

	u, _ := store.GetUserByID(ctx, "1")
	u.Name = "mutated"

	again, _ := store.GetUserByID(ctx, "1")
	assert.Equal(t, "A", again.Name)
}

func TestMemoryBootcampStorage_ListPaginates(t *testing.T) {
	store := NewMemoryBootcampStorage()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Create(ctx, &models.Bootcamp{ID: fmt.Sprintf("b-%d", i), Name: fmt.Sprintf("Camp %d", i)}))
		time.Sleep(time.Millisecond)
	}

	page, err := store.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "b-4", page[0].ID)

	page, err = store.List(ctx, 2, 4)
	require.NoError(t, err)
	assert.Len(t, page, 1)

	page, err = store.List(ctx, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestMemoryBootcampStorage_WithinRadius(t *testing.T) {
	store := NewMemoryBootcampStorage()
	ctx := context.Background()

	boston := &models.Location{Latitude: 42.3601, Longitude: -71.0589}
	cambridge := &models.Location{Latitude: 42.3736, Longitude: -71.1097}
	la := &models.Location{Latitude: 34.0522, Longitude: -118.2437}

	require.NoError(t, store.Create(ctx, &models.Bootcamp{ID: "near", Name: "Near", Location: cambridge}))
	require.NoError(t, store.Create(ctx, &models.Bootcamp{ID: "far", Name: "Far", Location: la}))
	require.NoError(t, store.Create(ctx, &models.Bootcamp{ID: "nowhere", Name: "Nowhere"}))

	list, err := store.WithinRadius(ctx, boston.Latitude, boston.Longitude, geo.MilesToRadians(10))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "near", list[0].ID)
}

func TestMemoryBootcampStorage_UpdateKeepsOwnerAndPhoto(t *testing.T) {
	store := NewMemoryBootcampStorage()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &models.Bootcamp{ID: "b", UserID: "owner", Name: "Camp", Photo: models.DefaultPhoto}))
	require.NoError(t, store.UpdatePhoto(ctx, "b", "photo_b.png"))
	require.NoError(t, store.Update(ctx, &models.Bootcamp{ID: "b", UserID: "someone-else", Name: "Renamed"}))

	b, err := store.GetByID(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "owner", b.UserID)
	assert.Equal(t, "photo_b.png", b.Photo)
	assert.Equal(t, "Renamed", b.Name)

	require.NoError(t, store.Delete(ctx, "b"))
	assert.ErrorIs(t, store.Delete(ctx, "b"), ErrBootcampNotFound)
}
