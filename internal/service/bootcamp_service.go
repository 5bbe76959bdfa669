package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/samber/oops"

	"github.com/Varun5711/devcamper/internal/geo"
	"github.com/Varun5711/devcamper/internal/lock"
	"github.com/Varun5711/devcamper/internal/logger"
	"github.com/Varun5711/devcamper/internal/models"
	usermodel "github.com/Varun5711/devcamper/internal/models/user"
	"github.com/Varun5711/devcamper/internal/qrcode"
	"github.com/Varun5711/devcamper/internal/storage"
	"github.com/Varun5711/devcamper/internal/validation"
)

const (
	DefaultPageLimit = 25
	MaxPageLimit     = 100

	publishLockTTL = 10 * time.Second
)

type BootcampConfig struct {
	MaxPhotoSize int64
}

// PhotoUpload is a single uploaded file as received by the HTTP layer.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type BootcampService struct {
	bootcamps BootcampRepository
	geocoder  Geocoder
	photos    PhotoStore
	locks     lock.Locker
	cfg       BootcampConfig
	log       *logger.Logger
}

func NewBootcampService(bootcamps BootcampRepository, geocoder Geocoder, photos PhotoStore, cfg BootcampConfig) *BootcampService {
	return &BootcampService{
		bootcamps: bootcamps,
		geocoder:  geocoder,
		photos:    photos,
		locks:     lock.NewLocal(),
		cfg:       cfg,
		log:       logger.New("bootcamp-service"),
	}
}

// UseLocker replaces the in-process lock that serializes publishing per user,
// e.g. with a redis lock when several instances share one database.
func (s *BootcampService) UseLocker(l lock.Locker) {
	s.locks = l
}

func (s *BootcampService) List(ctx context.Context, page, limit int) (*models.BootcampList, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	startIndex := (page - 1) * limit
	endIndex := page * limit

	total, err := s.bootcamps.Count(ctx)
	if err != nil {
		return nil, errPersistence("count bootcamps", err)
	}

	list, err := s.bootcamps.List(ctx, limit, startIndex)
	if err != nil {
		return nil, errPersistence("list bootcamps", err)
	}
	if list == nil {
		list = []*models.Bootcamp{}
	}

	var pagination models.Pagination
	if endIndex < total {
		pagination.Next = &models.Page{Page: page + 1, Limit: limit}
	}
	if startIndex > 0 {
		pagination.Prev = &models.Page{Page: page - 1, Limit: limit}
	}

	return &models.BootcampList{
		Bootcamps:  list,
		Total:      total,
		Pagination: pagination,
	}, nil
}

func (s *BootcampService) Get(ctx context.Context, id string) (*models.Bootcamp, error) {
	b, err := s.bootcamps.GetByID(ctx, id)
	if err != nil {
		return nil, errPersistence("get bootcamp", err)
	}
	if b == nil {
		return nil, errBootcampNotFound(id)
	}
	return b, nil
}

// Create publishes a bootcamp owned by actor. Non-admins may own only one.
func (s *BootcampService) Create(ctx context.Context, actor *usermodel.User, in *models.BootcampInput) (*models.Bootcamp, error) {
	if actor.Role != usermodel.RolePublisher && actor.Role != usermodel.RoleAdmin {
		return nil, ErrForbidden(fmt.Sprintf("User role %s is not authorized to access this route", actor.Role))
	}

	if actor.Role != usermodel.RoleAdmin {
		unlock, err := s.locks.Lock(ctx, "publish:"+actor.ID, publishLockTTL)
		if err != nil {
			return nil, oops.Code(CodePersistence).With("operation", "lock publisher").Wrap(err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				s.log.With("user_id", actor.ID).Warn("Failed to release publish lock: %v", err)
			}
		}()

		owned, err := s.bootcamps.CountByUser(ctx, actor.ID)
		if err != nil {
			return nil, errPersistence("count bootcamps by user", err)
		}
		if owned > 0 {
			return nil, ErrValidation(fmt.Sprintf("%s already published", actor.ID))
		}
	}

	b := &models.Bootcamp{
		ID:     uuid.New().String(),
		UserID: actor.ID,
		Photo:  models.DefaultPhoto,
	}
	applyInput(b, in)

	if err := validation.ValidateBootcamp(b); err != nil {
		return nil, ErrValidation(err.Error())
	}

	b.Slug = Slugify(b.Name)
	if err := s.locate(ctx, b); err != nil {
		return nil, err
	}

	if err := s.bootcamps.Create(ctx, b); err != nil {
		if errors.Is(err, storage.ErrDuplicateBootcamp) {
			return nil, ErrValidation(duplicateFieldMessage)
		}
		return nil, errPersistence("create bootcamp", err)
	}

	s.log.Info("Bootcamp %s created by %s", b.ID, actor.ID)
	return b, nil
}

func (s *BootcampService) Update(ctx context.Context, actor *usermodel.User, id string, in *models.BootcampInput) (*models.Bootcamp, error) {
	b, err := s.owned(ctx, actor, id, "update")
	if err != nil {
		return nil, err
	}

	prevAddress := b.Address
	applyInput(b, in)

	if err := validation.ValidateBootcamp(b); err != nil {
		return nil, ErrValidation(err.Error())
	}

	b.Slug = Slugify(b.Name)
	if b.Address != prevAddress || b.Location == nil {
		if err := s.locate(ctx, b); err != nil {
			return nil, err
		}
	}

	if err := s.bootcamps.Update(ctx, b); err != nil {
		switch {
		case errors.Is(err, storage.ErrDuplicateBootcamp):
			return nil, ErrValidation(duplicateFieldMessage)
		case errors.Is(err, storage.ErrBootcampNotFound):
			return nil, errBootcampNotFound(id)
		}
		return nil, errPersistence("update bootcamp", err)
	}

	return b, nil
}

func (s *BootcampService) Delete(ctx context.Context, actor *usermodel.User, id string) error {
	if _, err := s.owned(ctx, actor, id, "delete"); err != nil {
		return err
	}

	if err := s.bootcamps.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrBootcampNotFound) {
			return errBootcampNotFound(id)
		}
		return errPersistence("delete bootcamp", err)
	}

	s.log.Info("Bootcamp %s deleted by %s", id, actor.ID)
	return nil
}

// InRadius finds bootcamps within distance miles of the zipcode's centre.
func (s *BootcampService) InRadius(ctx context.Context, zipcode string, distance float64) ([]*models.Bootcamp, error) {
	if strings.TrimSpace(zipcode) == "" {
		return nil, ErrValidation("Please provide a zipcode")
	}
	if distance <= 0 {
		return nil, ErrValidation("Distance must be a positive number")
	}

	loc, err := s.geocoder.Geocode(ctx, zipcode)
	if err != nil {
		return nil, oops.Code(CodeGeocodeFailed).With("zipcode", zipcode).Wrap(err)
	}

	list, err := s.bootcamps.WithinRadius(ctx, loc.Latitude, loc.Longitude, geo.MilesToRadians(distance))
	if err != nil {
		return nil, errPersistence("bootcamps within radius", err)
	}
	if list == nil {
		list = []*models.Bootcamp{}
	}
	return list, nil
}

// UploadPhoto stores the file and then records its name; the caller only sees
// success once both have happened.
func (s *BootcampService) UploadPhoto(ctx context.Context, actor *usermodel.User, id string, file *PhotoUpload) (string, error) {
	b, err := s.owned(ctx, actor, id, "load photo to")
	if err != nil {
		return "", err
	}

	if file == nil || file.Body == nil {
		return "", ErrValidation("Please upload a file")
	}
	if !strings.HasPrefix(file.ContentType, "image") {
		return "", ErrValidation("Please upload an image file")
	}
	if s.cfg.MaxPhotoSize > 0 && file.Size > s.cfg.MaxPhotoSize {
		return "", ErrValidation(fmt.Sprintf("Please upload an image less than %d", s.cfg.MaxPhotoSize))
	}

	name := fmt.Sprintf("photo_%s%s", b.ID, path.Ext(file.Filename))

	if err := s.photos.Save(ctx, name, file.ContentType, file.Body); err != nil {
		return "", oops.Code(CodePhotoStoreFailed).With("bootcamp_id", b.ID).Wrap(err)
	}

	if err := s.bootcamps.UpdatePhoto(ctx, b.ID, name); err != nil {
		return "", errPersistence("update photo", err)
	}

	return name, nil
}

// QRCode renders the bootcamp website as a PNG QR code.
func (s *BootcampService) QRCode(ctx context.Context, id string, size int) ([]byte, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Website == "" {
		return nil, ErrValidation("Bootcamp has no website")
	}

	png, err := qrcode.PNG(b.Website, size)
	if err != nil {
		return nil, oops.Code(CodeQRCodeFailed).With("bootcamp_id", id).Wrap(err)
	}
	return png, nil
}

func (s *BootcampService) owned(ctx context.Context, actor *usermodel.User, id, action string) (*models.Bootcamp, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != actor.ID && actor.Role != usermodel.RoleAdmin {
		return nil, ErrForbidden(fmt.Sprintf("%s can't %s this bootcamp", actor.ID, action))
	}
	return b, nil
}

func (s *BootcampService) locate(ctx context.Context, b *models.Bootcamp) error {
	loc, err := s.geocoder.Geocode(ctx, b.Address)
	if err != nil {
		return oops.Code(CodeGeocodeFailed).With("address", b.Address).Wrap(err)
	}
	b.Location = loc
	return nil
}

func errBootcampNotFound(id string) error {
	return ErrNotFound(fmt.Sprintf("Bootcamp not found with id of %s", id))
}

func applyInput(b *models.Bootcamp, in *models.BootcampInput) {
	if in == nil {
		return
	}
	if in.Name != nil {
		b.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		b.Description = *in.Description
	}
	if in.Website != nil {
		b.Website = *in.Website
	}
	if in.Phone != nil {
		b.Phone = *in.Phone
	}
	if in.Email != nil {
		b.Email = *in.Email
	}
	if in.Address != nil {
		b.Address = *in.Address
	}
	if in.Careers != nil {
		b.Careers = in.Careers
	}
	if in.AverageCost != nil {
		b.AverageCost = in.AverageCost
	}
	if in.Housing != nil {
		b.Housing = *in.Housing
	}
	if in.JobAssistance != nil {
		b.JobAssistance = *in.JobAssistance
	}
	if in.JobGuarantee != nil {
		b.JobGuarantee = *in.JobGuarantee
	}
	if in.AcceptGi != nil {
		b.AcceptGi = *in.AcceptGi
	}
}

// Slugify lower-cases name and joins its alphanumeric runs with hyphens.
func Slugify(name string) string {
	var sb strings.Builder
	pendingDash := false

	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(r)
			pendingDash = false
			continue
		}
		pendingDash = true
	}

	return sb.String()
}
