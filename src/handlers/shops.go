package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marketrent/rentroll-server/src/middleware"
	"github.com/marketrent/rentroll-server/src/models"
	"github.com/marketrent/rentroll-server/src/services"
	"github.com/rs/zerolog/log"
)

// ShopHandler handles shop CRUD operations. Every route behind it runs
// AdminAuthMiddleware first; ownership is always derived from the verified
// token, never from the payload.
type ShopHandler struct {
	shopService *services.ShopService
}

// NewShopHandler creates a new shop handler
func NewShopHandler(shopService *services.ShopService) *ShopHandler {
	return &ShopHandler{shopService: shopService}
}

// HandleListShops returns all shops owned by the caller
func (sh *ShopHandler) HandleListShops(c *gin.Context) {
	adminID, ok := middleware.AdminIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "missing authentication token"})
		return
	}

	shops, err := sh.shopService.ListShops(c.Request.Context(), adminID)
	if err != nil {
		log.Error().Err(err).Str("request_id", middleware.GetRequestID(c)).Msg("failed to list shops")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error while fetching shops"})
		return
	}

	if shops == nil {
		shops = []models.Shop{}
	}
	c.JSON(http.StatusOK, shops)
}

// HandleCreateShop validates the payload and creates a shop owned by the caller
func (sh *ShopHandler) HandleCreateShop(c *gin.Context) {
	adminID, ok := middleware.AdminIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "missing authentication token"})
		return
	}

	var payload ShopPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	if errs := ValidateShopPayload(&payload); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": joinFieldErrors(errs),
			"errors":  errs,
		})
		return
	}

	shop, err := sh.shopService.CreateShop(c.Request.Context(), adminID, toShopInput(&payload))
	if err != nil {
		if errors.Is(err, services.ErrDuplicateShopName) {
			c.JSON(http.StatusConflict, gin.H{"message": "shop with this name already exists under this admin"})
			return
		}
		log.Error().Err(err).Str("request_id", middleware.GetRequestID(c)).Msg("failed to create shop")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error while creating shop"})
		return
	}

	c.JSON(http.StatusCreated, shop)
}

// HandleUpdateShop replaces all mutable fields of one of the caller's shops
func (sh *ShopHandler) HandleUpdateShop(c *gin.Context) {
	adminID, ok := middleware.AdminIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "missing authentication token"})
		return
	}

	shopID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid shop id"})
		return
	}

	var payload ShopPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	if errs := ValidateShopPayload(&payload); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": joinFieldErrors(errs),
			"errors":  errs,
		})
		return
	}

	shop, err := sh.shopService.UpdateShop(c.Request.Context(), adminID, shopID, toShopInput(&payload))
	if err != nil {
		sh.respondShopError(c, err, "updating")
		return
	}

	c.JSON(http.StatusOK, shop)
}

// HandleDeleteShop deletes one of the caller's shops
func (sh *ShopHandler) HandleDeleteShop(c *gin.Context) {
	adminID, ok := middleware.AdminIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "missing authentication token"})
		return
	}

	shopID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid shop id"})
		return
	}

	if err := sh.shopService.DeleteShop(c.Request.Context(), adminID, shopID); err != nil {
		sh.respondShopError(c, err, "deleting")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "shop deleted"})
}

// respondShopError maps service sentinels to HTTP statuses. A foreign or
// missing shop answers with the same generic message so existence is never
// leaked across admins.
func (sh *ShopHandler) respondShopError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, services.ErrNotShopOwner):
		c.JSON(http.StatusForbidden, gin.H{"message": "unauthorized"})
	case errors.Is(err, services.ErrDuplicateShopName):
		c.JSON(http.StatusConflict, gin.H{"message": "another shop with this name exists"})
	case errors.Is(err, services.ErrShopNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "shop not found"})
	default:
		log.Error().Err(err).Str("request_id", middleware.GetRequestID(c)).Msgf("error while %s shop", action)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error while " + action + " shop"})
	}
}
