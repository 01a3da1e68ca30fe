package handler

import (
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// BannerHandler holds dependencies for promotional banner handlers.
type BannerHandler struct {
	uc usecase.BannerUsecase
}

// NewBannerHandler is the constructor for BannerHandler, injected by Fx.
func NewBannerHandler(uc usecase.BannerUsecase) *BannerHandler {
	return &BannerHandler{
		uc: uc,
	}
}

// List handles the banner listing request.
func (h *BannerHandler) List(c echo.Context) error {
	banners, err := h.uc.List(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	resps := make([]bannerResponse, 0, len(banners))
	for _, banner := range banners {
		resps = append(resps, toBannerResponse(banner))
	}

	return response.Success(c, http.StatusOK, resps, "")
}

// Create handles the banner creation request.
func (h *BannerHandler) Create(c echo.Context) error {
	var input usecase.CreateBannerInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid banner input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	banner, err := h.uc.Create(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toBannerResponse(banner), "Banner created successfully")
}

// Update handles the banner update request.
func (h *BannerHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid banner id")
	}

	var input usecase.UpdateBannerInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid banner input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	banner, err := h.uc.Update(c.Request().Context(), id, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toBannerResponse(banner), "Banner updated successfully")
}

// Delete handles the banner deletion request.
func (h *BannerHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid banner id")
	}

	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Banner deleted successfully")
}
