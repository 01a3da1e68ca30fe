package handler

import (
	"net/http"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/delivery/http/response"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// FavoriteHandler holds dependencies for favorite handlers. Authorization
// lives in the usecase: guests get an error from toggles and listings, and a
// plain "false" from status reads.
type FavoriteHandler struct {
	uc usecase.FavoriteUsecase
}

// NewFavoriteHandler is the constructor for FavoriteHandler, injected by Fx.
func NewFavoriteHandler(uc usecase.FavoriteUsecase) *FavoriteHandler {
	return &FavoriteHandler{
		uc: uc,
	}
}

type favoriteStatusResponse struct {
	ProductID uuid.UUID `json:"productId"`
	Favorited bool      `json:"favorited"`
}

// List handles the favorites listing request.
func (h *FavoriteHandler) List(c echo.Context) error {
	products, err := h.uc.List(c.Request().Context(), deliverycontext.GetSession(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toRatedProductResponses(products), "")
}

// Toggle handles flipping the favorite mark on a product.
func (h *FavoriteHandler) Toggle(c echo.Context) error {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product id")
	}

	favorited, err := h.uc.Toggle(c.Request().Context(), deliverycontext.GetSession(c), productID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, favoriteStatusResponse{
		ProductID: productID,
		Favorited: favorited,
	}, "")
}

// Status handles the favorite status read for a single product.
func (h *FavoriteHandler) Status(c echo.Context) error {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product id")
	}

	favorited, err := h.uc.Status(c.Request().Context(), deliverycontext.GetSession(c), productID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, favoriteStatusResponse{
		ProductID: productID,
		Favorited: favorited,
	}, "")
}
