package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/Varun5711/devcamper/internal/database"
	"github.com/Varun5711/devcamper/internal/models"
	"github.com/jackc/pgx/v5"
)

const bootcampColumns = `id, user_id, name, slug, description, website, phone, email, address,
	latitude, longitude, formatted_address, street, city, state, zipcode, country,
	careers, average_cost, photo, housing, job_assistance, job_guarantee, accept_gi, created_at`

type BootcampStorage struct {
	db database.Router
}

func NewBootcampStorage(db database.Router) *BootcampStorage {
	return &BootcampStorage{db: db}
}

func scanBootcamp(row pgx.Row) (*models.Bootcamp, error) {
	var b models.Bootcamp
	var lat, lng *float64
	var loc models.Location

	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.Name,
		&b.Slug,
		&b.Description,
		&b.Website,
		&b.Phone,
		&b.Email,
		&b.Address,
		&lat,
		&lng,
		&loc.FormattedAddress,
		&loc.Street,
		&loc.City,
		&loc.State,
		&loc.Zipcode,
		&loc.Country,
		&b.Careers,
		&b.AverageCost,
		&b.Photo,
		&b.Housing,
		&b.JobAssistance,
		&b.JobGuarantee,
		&b.AcceptGi,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lat != nil && lng != nil {
		loc.Latitude = *lat
		loc.Longitude = *lng
		b.Location = &loc
	}

	return &b, nil
}

func collectBootcamps(rows pgx.Rows) ([]*models.Bootcamp, error) {
	defer rows.Close()

	var bootcamps []*models.Bootcamp
	for rows.Next() {
		b, err := scanBootcamp(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		bootcamps = append(bootcamps, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return bootcamps, nil
}

func locationArgs(loc *models.Location) []any {
	if loc == nil {
		return []any{nil, nil, "", "", "", "", "", ""}
	}
	return []any{loc.Latitude, loc.Longitude, loc.FormattedAddress, loc.Street, loc.City, loc.State, loc.Zipcode, loc.Country}
}

func (s *BootcampStorage) Create(ctx context.Context, b *models.Bootcamp) error {
	query := `
		INSERT INTO bootcamps (id, user_id, name, slug, description, website, phone, email, address,
			latitude, longitude, formatted_address, street, city, state, zipcode, country,
			careers, average_cost, photo, housing, job_assistance, job_guarantee, accept_gi, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23, $24, NOW())
		RETURNING created_at
	`

	args := []any{b.ID, b.UserID, b.Name, b.Slug, b.Description, b.Website, b.Phone, b.Email, b.Address}
	args = append(args, locationArgs(b.Location)...)
	args = append(args, b.Careers, b.AverageCost, b.Photo, b.Housing, b.JobAssistance, b.JobGuarantee, b.AcceptGi)

	err := s.db.Write().QueryRow(ctx, query, args...).Scan(&b.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateBootcamp
	}
	if err != nil {
		return fmt.Errorf("failed to create bootcamp: %w", err)
	}

	return nil
}

func (s *BootcampStorage) GetByID(ctx context.Context, id string) (*models.Bootcamp, error) {
	query := `SELECT ` + bootcampColumns + ` FROM bootcamps WHERE id = $1`

	b, err := scanBootcamp(s.db.Read().QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bootcamp: %w", err)
	}

	return b, nil
}

func (s *BootcampStorage) List(ctx context.Context, limit, offset int) ([]*models.Bootcamp, error) {
	query := `SELECT ` + bootcampColumns + ` FROM bootcamps ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := s.db.Read().Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list bootcamps: %w", err)
	}

	return collectBootcamps(rows)
}

func (s *BootcampStorage) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.Read().QueryRow(ctx, `SELECT COUNT(*) FROM bootcamps`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count bootcamps: %w", err)
	}
	return count, nil
}

func (s *BootcampStorage) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.Write().QueryRow(ctx, `SELECT COUNT(*) FROM bootcamps WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bootcamps by user: %w", err)
	}
	return count, nil
}

// Update overwrites every writable column with the values in b.
func (s *BootcampStorage) Update(ctx context.Context, b *models.Bootcamp) error {
	query := `
		UPDATE bootcamps
		SET name = $2, slug = $3, description = $4, website = $5, phone = $6, email = $7, address = $8,
			latitude = $9, longitude = $10, formatted_address = $11, street = $12, city = $13,
			state = $14, zipcode = $15, country = $16, careers = $17, average_cost = $18,
			housing = $19, job_assistance = $20, job_guarantee = $21, accept_gi = $22
		WHERE id = $1
	`

	args := []any{b.ID, b.Name, b.Slug, b.Description, b.Website, b.Phone, b.Email, b.Address}
	args = append(args, locationArgs(b.Location)...)
	args = append(args, b.Careers, b.AverageCost, b.Housing, b.JobAssistance, b.JobGuarantee, b.AcceptGi)

	cmdTag, err := s.db.Write().Exec(ctx, query, args...)
	if isUniqueViolation(err) {
		return ErrDuplicateBootcamp
	}
	if err != nil {
		return fmt.Errorf("failed to update bootcamp: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrBootcampNotFound
	}

	return nil
}

func (s *BootcampStorage) UpdatePhoto(ctx context.Context, id, photo string) error {
	cmdTag, err := s.db.Write().Exec(ctx, `UPDATE bootcamps SET photo = $1 WHERE id = $2`, photo, id)
	if err != nil {
		return fmt.Errorf("failed to update photo: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrBootcampNotFound
	}
	return nil
}

func (s *BootcampStorage) Delete(ctx context.Context, id string) error {
	cmdTag, err := s.db.Write().Exec(ctx, `DELETE FROM bootcamps WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bootcamp: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrBootcampNotFound
	}
	return nil
}

// WithinRadius returns bootcamps whose haversine central angle from (lat, lng) is at most radius radians.
func (s *BootcampStorage) WithinRadius(ctx context.Context, lat, lng, radius float64) ([]*models.Bootcamp, error) {
	query := `
		SELECT ` + bootcampColumns + `
		FROM bootcamps
		WHERE latitude IS NOT NULL AND longitude IS NOT NULL
		AND 2 * ASIN(LEAST(1, SQRT(
			POWER(SIN(RADIANS(latitude - $1::float8) / 2), 2) +
			COS(RADIANS($1::float8)) * COS(RADIANS(latitude)) *
			POWER(SIN(RADIANS(longitude - $2::float8) / 2), 2)
		))) <= $3::float8
		ORDER BY created_at DESC
	`

	rows, err := s.db.Read().Query(ctx, query, lat, lng, radius)
	if err != nil {
		return nil, fmt.Errorf("failed to query bootcamps in radius: %w", err)
	}

	return collectBootcamps(rows)
}
