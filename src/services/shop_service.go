package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/marketrent/rentroll-server/src/models"
	"github.com/marketrent/rentroll-server/src/repositories"
)

// ShopInput is a validated, normalized shop payload. Name and Keeper are
// already trimmed; Start carries the calendar date only. The owning admin is
// never part of the input, it always comes from the authenticated identity.
type ShopInput struct {
	Name    string
	Keeper  string
	Base    float64
	Advance float64
	Start   models.Date
	Rents   []models.RentEntry
}

// ShopService handles shop operations scoped to an owning admin
type ShopService struct {
	pool *pgxpool.Pool
	repo repositories.ShopRepository
}

// NewShopService creates a new shop service
func NewShopService(pool *pgxpool.Pool) *ShopService {
	return &ShopService{pool: pool}
}

// NewShopServiceWithRepo creates a new shop service with repository (for testing)
func NewShopServiceWithRepo(repo repositories.ShopRepository) *ShopService {
	return &ShopService{repo: repo}
}

// ListShops returns all shops owned by adminID, oldest first
func (ss *ShopService) ListShops(ctx context.Context, adminID uuid.UUID) ([]models.Shop, error) {
	if ss.repo != nil {
		return ss.repo.ListByAdmin(ctx, adminID)
	}

	rows, err := ss.pool.Query(ctx,
		`SELECT id, admin_id, name, keeper, base, advance, start_date, rents, created_at, updated_at
		 FROM shops
		 WHERE admin_id = $1
		 ORDER BY created_at ASC`,
		adminID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query shops: %w", err)
	}
	defer rows.Close()

	var shops []models.Shop
	for rows.Next() {
		shop, err := scanShop(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shop: %w", err)
		}
		shops = append(shops, *shop)
	}
	return shops, rows.Err()
}

// CreateShop creates a shop owned by adminID.
// Returns ErrDuplicateShopName when the admin already has a shop with the
// same name.
func (ss *ShopService) CreateShop(ctx context.Context, adminID uuid.UUID, in ShopInput) (*models.Shop, error) {
	existing, err := ss.findByName(ctx, adminID, in.Name, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check shop name: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateShopName
	}

	now := time.Now()
	shop := &models.Shop{
		ID:        uuid.New(),
		AdminID:   adminID,
		Name:      in.Name,
		Keeper:    in.Keeper,
		Base:      in.Base,
		Advance:   in.Advance,
		Start:     in.Start,
		Rents:     in.Rents,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if shop.Rents == nil {
		shop.Rents = []models.RentEntry{}
	}

	if ss.repo != nil {
		if err := ss.repo.Create(ctx, shop); err != nil {
			return nil, mapShopWriteError(err, "create")
		}
		return shop, nil
	}

	rents, err := json.Marshal(shop.Rents)
	if err != nil {
		return nil, fmt.Errorf("failed to encode rents: %w", err)
	}

	_, err = ss.pool.Exec(ctx,
		`INSERT INTO shops (id, admin_id, name, keeper, base, advance, start_date, rents, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		shop.ID, shop.AdminID, shop.Name, shop.Keeper, shop.Base, shop.Advance, shop.Start.Time, rents, shop.CreatedAt, shop.UpdatedAt,
	)
	if err != nil {
		return nil, mapShopWriteError(err, "create")
	}

	return shop, nil
}

// UpdateShop replaces all mutable fields of the shop identified by shopID.
// The owning admin is never changed. Returns ErrNotShopOwner when the shop is
// missing or owned by another admin, ErrDuplicateShopName on a name collision
// with another of the admin's shops, and ErrShopNotFound when the shop
// disappeared between the ownership check and the write.
func (ss *ShopService) UpdateShop(ctx context.Context, adminID, shopID uuid.UUID, in ShopInput) (*models.Shop, error) {
	existing, err := ss.getByID(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shop: %w", err)
	}
	if existing == nil || existing.AdminID != adminID {
		return nil, ErrNotShopOwner
	}

	other, err := ss.findByName(ctx, adminID, in.Name, shopID)
	if err != nil {
		return nil, fmt.Errorf("failed to check shop name: %w", err)
	}
	if other != nil {
		return nil, ErrDuplicateShopName
	}

	shop := &models.Shop{
		ID:        shopID,
		AdminID:   existing.AdminID,
		Name:      in.Name,
		Keeper:    in.Keeper,
		Base:      in.Base,
		Advance:   in.Advance,
		Start:     in.Start,
		Rents:     in.Rents,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: time.Now(),
	}
	if shop.Rents == nil {
		shop.Rents = []models.RentEntry{}
	}

	if ss.repo != nil {
		updated, err := ss.repo.Update(ctx, shop)
		if err != nil {
			return nil, mapShopWriteError(err, "update")
		}
		if !updated {
			return nil, ErrShopNotFound
		}
		return shop, nil
	}

	rents, err := json.Marshal(shop.Rents)
	if err != nil {
		return nil, fmt.Errorf("failed to encode rents: %w", err)
	}

	tag, err := ss.pool.Exec(ctx,
		`UPDATE shops
		 SET name = $1, keeper = $2, base = $3, advance = $4, start_date = $5, rents = $6, updated_at = $7
		 WHERE id = $8`,
		shop.Name, shop.Keeper, shop.Base, shop.Advance, shop.Start.Time, rents, shop.UpdatedAt, shop.ID,
	)
	if err != nil {
		return nil, mapShopWriteError(err, "update")
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrShopNotFound
	}

	return shop, nil
}

// DeleteShop removes the shop identified by shopID.
// Ownership rules match UpdateShop.
func (ss *ShopService) DeleteShop(ctx context.Context, adminID, shopID uuid.UUID) error {
	existing, err := ss.getByID(ctx, shopID)
	if err != nil {
		return fmt.Errorf("failed to load shop: %w", err)
	}
	if existing == nil || existing.AdminID != adminID {
		return ErrNotShopOwner
	}

	var deleted bool
	if ss.repo != nil {
		deleted, err = ss.repo.Delete(ctx, shopID)
	} else {
		var tag pgconn.CommandTag
		tag, err = ss.pool.Exec(ctx, `DELETE FROM shops WHERE id = $1`, shopID)
		deleted = tag.RowsAffected() > 0
	}
	if err != nil {
		return fmt.Errorf("failed to delete shop: %w", err)
	}
	if !deleted {
		return ErrShopNotFound
	}
	return nil
}

// getByID returns nil without error when the shop does not exist
func (ss *ShopService) getByID(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	if ss.repo != nil {
		return ss.repo.GetByID(ctx, id)
	}

	row := ss.pool.QueryRow(ctx,
		`SELECT id, admin_id, name, keeper, base, advance, start_date, rents, created_at, updated_at
		 FROM shops
		 WHERE id = $1`,
		id,
	)
	shop, err := scanShop(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return shop, err
}

// findByName returns nil without error when no shop matches
func (ss *ShopService) findByName(ctx context.Context, adminID uuid.UUID, name string, exclude uuid.UUID) (*models.Shop, error) {
	if ss.repo != nil {
		return ss.repo.FindByName(ctx, adminID, name, exclude)
	}

	row := ss.pool.QueryRow(ctx,
		`SELECT id, admin_id, name, keeper, base, advance, start_date, rents, created_at, updated_at
		 FROM shops
		 WHERE admin_id = $1 AND name = $2 AND id <> $3`,
		adminID, name, exclude,
	)
	shop, err := scanShop(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return shop, err
}

// mapShopWriteError maps a unique-index violation on (admin_id, name) to
// ErrDuplicateShopName; the lookup-then-write sequence is best effort and two
// concurrent writers can both pass the lookup
func mapShopWriteError(err error, action string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateShopName
	}
	return fmt.Errorf("failed to %s shop: %w", action, err)
}

// scanShop scans a shop row, decoding the rents ledger from JSONB
func scanShop(row pgx.Row) (*models.Shop, error) {
	var shop models.Shop
	var rents []byte
	err := row.Scan(
		&shop.ID, &shop.AdminID, &shop.Name, &shop.Keeper,
		&shop.Base, &shop.Advance, &shop.Start.Time, &rents,
		&shop.CreatedAt, &shop.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	shop.Rents = []models.RentEntry{}
	if len(rents) > 0 {
		if err := json.Unmarshal(rents, &shop.Rents); err != nil {
			return nil, fmt.Errorf("failed to decode rents: %w", err)
		}
	}
	return &shop, nil
}
