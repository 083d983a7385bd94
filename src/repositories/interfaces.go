package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketrent/rentroll-server/src/models"
)

// AdminRepository defines the interface for admin data access
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	UpdateLastLogin(ctx context.Context, adminID uuid.UUID) error
}

// ShopRepository defines the interface for shop data access
type ShopRepository interface {
	ListByAdmin(ctx context.Context, adminID uuid.UUID) ([]models.Shop, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Shop, error)

	// FindByName looks up a shop by trimmed name within an admin's scope,
	// skipping exclude (pass uuid.Nil to search all of the admin's shops).
	FindByName(ctx context.Context, adminID uuid.UUID, name string, exclude uuid.UUID) (*models.Shop, error)

	Create(ctx context.Context, shop *models.Shop) error
	// Update replaces all mutable fields; reports whether a row was updated.
	Update(ctx context.Context, shop *models.Shop) (bool, error)
	// Delete reports whether a row was deleted.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}
