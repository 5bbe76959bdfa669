package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Varun5711/devcamper/internal/database"
	usermodel "github.com/Varun5711/devcamper/internal/models/user"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, email, role, password_hash, reset_token_hash, reset_token_expiry, created_at, updated_at`

type UserStorage struct {
	db database.Router
}

func NewUserStorage(db database.Router) *UserStorage {
	return &UserStorage{db: db}
}

func scanUser(row pgx.Row) (*usermodel.User, error) {
	var user usermodel.User
	var role string
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&role,
		&user.PasswordHash,
		&user.ResetTokenHash,
		&user.ResetTokenExpiry,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Role = usermodel.Role(role)
	return &user, nil
}

// getOne runs a single-row user query and maps pgx.ErrNoRows to (nil, nil).
func getOne(ctx context.Context, q database.Querier, query string, args ...any) (*usermodel.User, error) {
	user, err := scanUser(q.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *UserStorage) CreateUser(ctx context.Context, user *usermodel.User) error {
	query := `
		INSERT INTO users (id, name, email, role, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := s.db.Write().QueryRow(ctx, query,
		user.ID,
		user.Name,
		strings.ToLower(user.Email),
		string(user.Role),
		user.PasswordHash,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.Email = strings.ToLower(user.Email)
	return nil
}

func (s *UserStorage) GetUserByEmail(ctx context.Context, email string) (*usermodel.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return getOne(ctx, s.db.Read(), query, email)
}

func (s *UserStorage) GetUserByID(ctx context.Context, userID string) (*usermodel.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return getOne(ctx, s.db.Read(), query, userID)
}

// GetUserByResetToken reads from the primary so a token attached moments ago is visible.
func (s *UserStorage) GetUserByResetToken(ctx context.Context, tokenHash string, now time.Time) (*usermodel.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE reset_token_hash = $1 AND reset_token_expiry > $2`
	return getOne(ctx, s.db.Write(), query, tokenHash, now)
}

func (s *UserStorage) UpdateDetails(ctx context.Context, userID, name, email string) (*usermodel.User, error) {
	query := `
		UPDATE users
		SET name = $1, email = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING ` + userColumns

	user, err := scanUser(s.db.Write().QueryRow(ctx, query, name, strings.ToLower(email), userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if isUniqueViolation(err) {
		return nil, ErrDuplicateEmail
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// UpdatePassword stores a new hash and drops any pending reset token in the same statement.
func (s *UserStorage) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $1, reset_token_hash = NULL, reset_token_expiry = NULL, updated_at = NOW()
		WHERE id = $2
	`

	return s.execOne(ctx, "failed to update password", query, passwordHash, userID)
}

// SetResetToken only touches the reset columns; no other field is revalidated.
func (s *UserStorage) SetResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	query := `
		UPDATE users
		SET reset_token_hash = $1, reset_token_expiry = $2
		WHERE id = $3
	`

	return s.execOne(ctx, "failed to set reset token", query, tokenHash, expiresAt, userID)
}

func (s *UserStorage) ClearResetToken(ctx context.Context, userID string) error {
	query := `
		UPDATE users
		SET reset_token_hash = NULL, reset_token_expiry = NULL
		WHERE id = $1
	`

	return s.execOne(ctx, "failed to clear reset token", query, userID)
}

func (s *UserStorage) execOne(ctx context.Context, errMsg, query string, args ...any) error {
	cmdTag, err := s.db.Write().Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", errMsg, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}
