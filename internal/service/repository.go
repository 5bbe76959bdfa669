package service

import (
	"context"
	"io"
	"time"

	"github.com/Varun5711/devcamper/internal/models"
	usermodel "github.com/Varun5711/devcamper/internal/models/user"
)

// UserRepository is satisfied by storage.UserStorage and storage.MemoryUserStorage.
// Lookups return (nil, nil) when nothing matches.
type UserRepository interface {
	CreateUser(ctx context.Context, user *usermodel.User) error
	GetUserByEmail(ctx context.Context, email string) (*usermodel.User, error)
	GetUserByID(ctx context.Context, userID string) (*usermodel.User, error)
	GetUserByResetToken(ctx context.Context, tokenHash string, now time.Time) (*usermodel.User, error)
	UpdateDetails(ctx context.Context, userID, name, email string) (*usermodel.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	SetResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	ClearResetToken(ctx context.Context, userID string) error
}

type BootcampRepository interface {
	Create(ctx context.Context, b *models.Bootcamp) error
	GetByID(ctx context.Context, id string) (*models.Bootcamp, error)
	List(ctx context.Context, limit, offset int) ([]*models.Bootcamp, error)
	Count(ctx context.Context) (int, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	Update(ctx context.Context, b *models.Bootcamp) error
	UpdatePhoto(ctx context.Context, id, photo string) error
	Delete(ctx context.Context, id string) error
	WithinRadius(ctx context.Context, lat, lng, radius float64) ([]*models.Bootcamp, error)
}

type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (*models.Location, error)
}

type PhotoStore interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) error
}
