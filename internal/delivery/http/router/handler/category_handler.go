package handler

import (
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CategoryHandler holds dependencies for category handlers.
type CategoryHandler struct {
	uc usecase.CategoryUsecase
}

// NewCategoryHandler is the constructor for CategoryHandler, injected by Fx.
func NewCategoryHandler(uc usecase.CategoryUsecase) *CategoryHandler {
	return &CategoryHandler{
		uc: uc,
	}
}

// List handles the category listing request.
func (h *CategoryHandler) List(c echo.Context) error {
	categories, err := h.uc.List(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	resps := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		resps = append(resps, toCategoryResponse(category))
	}

	return response.Success(c, http.StatusOK, resps, "")
}

// Create handles the category creation request.
func (h *CategoryHandler) Create(c echo.Context) error {
	var input usecase.CreateCategoryInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid category input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	category, err := h.uc.Create(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toCategoryResponse(category), "Category created successfully")
}

// GetProducts handles the category page request: the category plus its
// published products with rating aggregates.
func (h *CategoryHandler) GetProducts(c echo.Context) error {
	out, err := h.uc.GetBySlugWithProducts(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return errors.WithStack(err)
	}
	if out == nil {
		return response.NotFound(c, "CATEGORY_NOT_FOUND", "Category not found")
	}

	return response.Success(c, http.StatusOK, categoryWithProductsResponse{
		Category: toCategoryResponse(out.Category),
		Products: toRatedProductResponses(out.Products),
	}, "")
}

// Delete handles the category deletion request. The target is addressed by
// query parameter, matching the collection-level route.
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.QueryParam("id"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid category id")
	}

	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Category deleted successfully")
}
