package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/marketrent/rentroll-server/src/models"
	"github.com/marketrent/rentroll-server/src/repositories/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInput(name string) ShopInput {
	start, _ := models.ParseDate("2024-03-15")
	return ShopInput{
		Name:    name,
		Keeper:  "Asha",
		Base:    1200,
		Advance: 5000,
		Start:   start,
	}
}

func TestCreateShop_Success(t *testing.T) {
	repo := mock.NewShopRepository()
	svc := NewShopServiceWithRepo(repo)
	adminID := uuid.New()

	shop, err := svc.CreateShop(context.Background(), adminID, testInput("Corner Store"))
	require.NoError(t, err)

	assert.Equal(t, adminID, shop.AdminID)
	assert.Equal(t, "Corner Store", shop.Name)
	assert.NotEqual(t, uuid.Nil, shop.ID)
	assert.NotNil(t, shop.Rents, "rents must default to an empty ledger")
	assert.Len(t, shop.Rents, 0)
	assert.Len(t, repo.Calls["Create"], 1)
}

func TestCreateShop_DuplicateName(t *testing.T) {
	adminID := uuid.New()
	repo := mock.NewShopRepository()
	repo.FindByNameFunc = func(ctx context.Context, aID uuid.UUID, name string, exclude uuid.UUID) (*models.Shop, error) {
		return &models.Shop{ID: uuid.New(), AdminID: aID, Name: name}, nil
	}
	svc := NewShopServiceWithRepo(repo)

	_, err := svc.CreateShop(context.Background(), adminID, testInput("Corner Store"))
	assert.ErrorIs(t, err, ErrDuplicateShopName)
	assert.Empty(t, repo.Calls["Create"])
}

func TestCreateShop_SameNameDifferentAdmins(t *testing.T) {
	// FindByName is scoped by admin id, so a second admin reusing the name
	// finds nothing
	created := map[uuid.UUID]string{}
	repo := mock.NewShopRepository()
	repo.FindByNameFunc = func(ctx context.Context, aID uuid.UUID, name string, exclude uuid.UUID) (*models.Shop, error) {
		if created[aID] == name {
			return &models.Shop{AdminID: aID, Name: name}, nil
		}
		return nil, nil
	}
	repo.CreateFunc = func(ctx context.Context, shop *models.Shop) error {
		created[shop.AdminID] = shop.Name
		return nil
	}
	svc := NewShopServiceWithRepo(repo)

	adminA, adminB := uuid.New(), uuid.New()
	_, err := svc.CreateShop(context.Background(), adminA, testInput("Corner Store"))
	require.NoError(t, err)

	_, err = svc.CreateShop(context.Background(), adminB, testInput("Corner Store"))
	assert.NoError(t, err, "name uniqueness is per admin")

	_, err = svc.CreateShop(context.Background(), adminA, testInput("Corner Store"))
	assert.ErrorIs(t, err, ErrDuplicateShopName)
}

func TestUpdateShop_OwnerPreserved(t *testing.T) {
	ownerID := uuid.New()
	shopID := uuid.New()
	repo := mock.NewShopRepository()
	repo.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
		return &models.Shop{ID: shopID, AdminID: ownerID, Name: "Old Name"}, nil
	}
	svc := NewShopServiceWithRepo(repo)

	shop, err := svc.UpdateShop(context.Background(), ownerID, shopID, testInput("New Name"))
	require.NoError(t, err)

	assert.Equal(t, ownerID, shop.AdminID, "owner never changes on update")
	assert.Equal(t, "New Name", shop.Name)

	updated := repo.Calls["Update"][0].(*models.Shop)
	assert.Equal(t, ownerID, updated.AdminID)
}

func TestUpdateShop_ForeignShop(t *testing.T) {
	ownerID := uuid.New()
	shopID := uuid.New()
	repo := mock.NewShopRepository()
	repo.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
		return &models.Shop{ID: shopID, AdminID: ownerID}, nil
	}
	svc := NewShopServiceWithRepo(repo)

	intruderID := uuid.New()
	_, err := svc.UpdateShop(context.Background(), intruderID, shopID, testInput("Taken Over"))
	assert.ErrorIs(t, err, ErrNotShopOwner)
	assert.Empty(t, repo.Calls["Update"])
}

func TestUpdateShop_MissingShop(t *testing.T) {
	repo := mock.NewShopRepository()
	svc := NewShopServiceWithRepo(repo)

	// GetByID returns nil: missing shops answer exactly like foreign ones
	_, err := svc.UpdateShop(context.Background(), uuid.New(), uuid.New(), testInput("Ghost"))
	assert.ErrorIs(t, err, ErrNotShopOwner)
}

func TestUpdateShop_DuplicateName(t *testing.T) {
	ownerID := uuid.New()
	shopID := uuid.New()
	repo := mock.NewShopRepository()
	repo.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
		return &models.Shop{ID: shopID, AdminID: ownerID, Name: "Old Name"}, nil
	}
	repo.FindByNameFunc = func(ctx context.Context, aID uuid.UUID, name string, exclude uuid.UUID) (*models.Shop, error) {
		assert.Equal(t, shopID, exclude, "uniqueness check must exclude the shop being updated")
		return &models.Shop{ID: uuid.New(), AdminID: aID, Name: name}, nil
	}
	svc := NewShopServiceWithRepo(repo)

	_, err := svc.UpdateShop(context.Background(), ownerID, shopID, testInput("Other Shop"))
	assert.ErrorIs(t, err, ErrDuplicateShopName)
}

func TestUpdateShop_VanishedBetweenLoadAndWrite(t *testing.T) {
	ownerID := uuid.New()
	shopID := uuid.New()
	repo := mock.NewShopRepository()
	repo.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
		return &models.Shop{ID: shopID, AdminID: ownerID}, nil
	}
	repo.UpdateFunc = func(ctx context.Context, shop *models.Shop) (bool, error) {
		return false, nil
	}
	svc := NewShopServiceWithRepo(repo)

	_, err := svc.UpdateShop(context.Background(), ownerID, shopID, testInput("Racer"))
	assert.ErrorIs(t, err, ErrShopNotFound)
}

func TestDeleteShop_Success(t *testing.T) {
	ownerID := uuid.New()
	shopID := uuid.New()
	repo := mock.NewShopRepository()
	repo.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
		return &models.Shop{ID: shopID, AdminID: ownerID}, nil
	}
	svc := NewShopServiceWithRepo(repo)

	err := svc.DeleteShop(context.Background(), ownerID, shopID)
	assert.NoError(t, err)
	assert.Len(t, repo.Calls["Delete"], 1)
}

func TestDeleteShop_ForeignShop(t *testing.T) {
	shopID := uuid.New()
	repo := mock.NewShopRepository()
	repo.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
		return &models.Shop{ID: shopID, AdminID: uuid.New()}, nil
	}
	svc := NewShopServiceWithRepo(repo)

	err := svc.DeleteShop(context.Background(), uuid.New(), shopID)
	assert.ErrorIs(t, err, ErrNotShopOwner)
	assert.Empty(t, repo.Calls["Delete"])
}

func TestDeleteShop_NothingDeleted(t *testing.T) {
	ownerID := uuid.New()
	shopID := uuid.New()
	repo := mock.NewShopRepository()
	repo.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
		return &models.Shop{ID: shopID, AdminID: ownerID}, nil
	}
	repo.DeleteFunc = func(ctx context.Context, id uuid.UUID) (bool, error) {
		return false, nil
	}
	svc := NewShopServiceWithRepo(repo)

	err := svc.DeleteShop(context.Background(), ownerID, shopID)
	assert.ErrorIs(t, err, ErrShopNotFound)
}
