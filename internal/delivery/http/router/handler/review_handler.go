package handler

import (
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ReviewHandler holds dependencies for review handlers. Reviews are always
// addressed through their product, which is how ownership is enforced.
type ReviewHandler struct {
	uc usecase.ReviewUsecase
}

// NewReviewHandler is the constructor for ReviewHandler, injected by Fx.
func NewReviewHandler(uc usecase.ReviewUsecase) *ReviewHandler {
	return &ReviewHandler{
		uc: uc,
	}
}

// Create handles posting a review under a product.
func (h *ReviewHandler) Create(c echo.Context) error {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product id")
	}

	var input usecase.CreateReviewInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid review input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	review, err := h.uc.Create(c.Request().Context(), productID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toReviewResponse(review), "Review created successfully")
}

// Update handles rewriting a review.
func (h *ReviewHandler) Update(c echo.Context) error {
	productID, reviewID, err := h.pathIDs(c)
	if err != nil {
		return err
	}

	var input usecase.UpdateReviewInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid review input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	review, err := h.uc.Update(c.Request().Context(), productID, reviewID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toReviewResponse(review), "Review updated successfully")
}

// Delete handles removing a review.
func (h *ReviewHandler) Delete(c echo.Context) error {
	productID, reviewID, err := h.pathIDs(c)
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Request().Context(), productID, reviewID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Review deleted successfully")
}

// DeleteImages handles stripping all images off a review while keeping the
// review itself.
func (h *ReviewHandler) DeleteImages(c echo.Context) error {
	productID, reviewID, err := h.pathIDs(c)
	if err != nil {
		return err
	}

	if err := h.uc.DeleteImages(c.Request().Context(), productID, reviewID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Review images deleted successfully")
}

func (h *ReviewHandler) pathIDs(c echo.Context) (productID, reviewID uuid.UUID, err error) {
	productID, err = uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, response.BindingError(c, "INVALID_INPUT", "Invalid product id")
	}

	reviewID, err = uuid.Parse(c.Param("reviewId"))
	if err != nil {
		return uuid.Nil, uuid.Nil, response.BindingError(c, "INVALID_INPUT", "Invalid review id")
	}

	return productID, reviewID, nil
}
