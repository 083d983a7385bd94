package mock

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketrent/rentroll-server/src/models"
	"github.com/marketrent/rentroll-server/src/repositories"
)

// ShopRepository is a mock implementation of repositories.ShopRepository
type ShopRepository struct {
	// Function stubs that can be overridden in tests
	ListByAdminFunc func(ctx context.Context, adminID uuid.UUID) ([]models.Shop, error)
	GetByIDFunc     func(ctx context.Context, id uuid.UUID) (*models.Shop, error)
	FindByNameFunc  func(ctx context.Context, adminID uuid.UUID, name string, exclude uuid.UUID) (*models.Shop, error)
	CreateFunc      func(ctx context.Context, shop *models.Shop) error
	UpdateFunc      func(ctx context.Context, shop *models.Shop) (bool, error)
	DeleteFunc      func(ctx context.Context, id uuid.UUID) (bool, error)

	// Call tracking
	Calls map[string][]interface{}
}

// NewShopRepository creates a new mock shop repository
func NewShopRepository() *ShopRepository {
	return &ShopRepository{
		Calls: make(map[string][]interface{}),
	}
}

func (m *ShopRepository) ListByAdmin(ctx context.Context, adminID uuid.UUID) ([]models.Shop, error) {
	m.Calls["ListByAdmin"] = append(m.Calls["ListByAdmin"], adminID)
	if m.ListByAdminFunc != nil {
		return m.ListByAdminFunc(ctx, adminID)
	}
	return nil, nil
}

func (m *ShopRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	m.Calls["GetByID"] = append(m.Calls["GetByID"], id)
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *ShopRepository) FindByName(ctx context.Context, adminID uuid.UUID, name string, exclude uuid.UUID) (*models.Shop, error) {
	m.Calls["FindByName"] = append(m.Calls["FindByName"], name)
	if m.FindByNameFunc != nil {
		return m.FindByNameFunc(ctx, adminID, name, exclude)
	}
	return nil, nil
}

func (m *ShopRepository) Create(ctx context.Context, shop *models.Shop) error {
	m.Calls["Create"] = append(m.Calls["Create"], shop)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, shop)
	}
	return nil
}

func (m *ShopRepository) Update(ctx context.Context, shop *models.Shop) (bool, error) {
	m.Calls["Update"] = append(m.Calls["Update"], shop)
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, shop)
	}
	return true, nil
}

func (m *ShopRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	m.Calls["Delete"] = append(m.Calls["Delete"], id)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return true, nil
}

// Ensure ShopRepository implements the interface
var _ repositories.ShopRepository = (*ShopRepository)(nil)
