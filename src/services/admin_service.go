package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/marketrent/rentroll-server/src/models"
	"github.com/marketrent/rentroll-server/src/repositories"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations
const uniqueViolation = "23505"

// AdminService handles admin account operations
type AdminService struct {
	pool *pgxpool.Pool
	repo repositories.AdminRepository
}

// NewAdminService creates a new admin service
func NewAdminService(pool *pgxpool.Pool) *AdminService {
	return &AdminService{pool: pool}
}

// NewAdminServiceWithRepo creates a new admin service with repository (for testing)
func NewAdminServiceWithRepo(repo repositories.AdminRepository) *AdminService {
	return &AdminService{repo: repo}
}

// RegisterAdmin creates a new admin account with a hashed password.
// Returns ErrAdminExists when the username is taken.
func (as *AdminService) RegisterAdmin(ctx context.Context, username, password, marketName string, totalShops int) (*models.Admin, error) {
	username = strings.TrimSpace(username)
	if len(username) < 1 || len(username) > 255 {
		return nil, fmt.Errorf("%w: username must be between 1 and 255 characters", ErrInvalidInput)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}
	if totalShops < 0 {
		return nil, fmt.Errorf("%w: totalShops must not be negative", ErrInvalidInput)
	}

	existing, err := as.getByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing admin: %w", err)
	}
	if existing != nil {
		return nil, ErrAdminExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Admin{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		MarketName:   marketName,
		TotalShops:   totalShops,
		CreatedAt:    time.Now(),
	}

	// Use repository if available (for testing)
	if as.repo != nil {
		if err := as.repo.Create(ctx, admin); err != nil {
			return nil, fmt.Errorf("failed to create admin: %w", err)
		}
		return admin, nil
	}

	_, err = as.pool.Exec(ctx,
		`INSERT INTO admins (id, username, password_hash, market_name, total_shops, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		admin.ID, admin.Username, admin.PasswordHash, admin.MarketName, admin.TotalShops, admin.CreatedAt,
	)
	if err != nil {
		// Two concurrent registrations can both pass the lookup; the unique
		// index on username settles it
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrAdminExists
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	return admin, nil
}

// AuthenticateAdmin verifies username and password.
// Returns ErrInvalidCredentials when the username is unknown or the password
// does not match.
func (as *AdminService) AuthenticateAdmin(ctx context.Context, username, password string) (*models.Admin, error) {
	admin, err := as.getByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}
	if admin == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Update last_login timestamp (best effort)
	now := time.Now()
	if as.repo != nil {
		err = as.repo.UpdateLastLogin(ctx, admin.ID)
	} else {
		_, err = as.pool.Exec(ctx, `UPDATE admins SET last_login = $1 WHERE id = $2`, now, admin.ID)
	}
	if err != nil {
		log.Warn().Err(err).Str("username", admin.Username).Msg("failed to update last_login")
	}

	admin.LastLogin = &now
	return admin, nil
}

// getByUsername returns nil without error when the admin does not exist
func (as *AdminService) getByUsername(ctx context.Context, username string) (*models.Admin, error) {
	if as.repo != nil {
		return as.repo.GetByUsername(ctx, username)
	}

	admin := &models.Admin{}
	err := as.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, market_name, total_shops, created_at, last_login
		 FROM admins
		 WHERE username = $1`,
		username,
	).Scan(&admin.ID, &admin.Username, &admin.PasswordHash, &admin.MarketName, &admin.TotalShops, &admin.CreatedAt, &admin.LastLogin)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return admin, nil
}
