package handler

import (
	"net/http"
	"strconv"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/delivery/http/response"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ProductHandler holds dependencies for product catalog handlers.
type ProductHandler struct {
	uc usecase.ProductUsecase
}

// NewProductHandler is the constructor for ProductHandler, injected by Fx.
func NewProductHandler(uc usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{
		uc: uc,
	}
}

// List handles the product listing request. Unpublished products are only
// listed for administrators that explicitly ask for them.
func (h *ProductHandler) List(c echo.Context) error {
	input := &usecase.ListProductsInput{
		PublishedOnly: true,
		Search:        c.QueryParam("search"),
		Category:      c.QueryParam("category"),
		OrderBy:       c.QueryParam("orderBy"),
		Descending:    c.QueryParam("order") != "asc",
	}

	if deliverycontext.GetSession(c).IsAdmin() && c.QueryParam("published") == "all" {
		input.PublishedOnly = false
	}
	if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil && limit > 0 {
		input.Limit = limit
	}
	if offset, err := strconv.Atoi(c.QueryParam("offset")); err == nil && offset > 0 {
		input.Offset = offset
	}

	products, err := h.uc.List(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toRatedProductResponses(products), "")
}

// Get handles the product detail request. The path parameter is a product ID
// or, failing to parse as one, a slug.
func (h *ProductHandler) Get(c echo.Context) error {
	param := c.Param("id")

	var (
		product *usecase.ProductWithRating
		err     error
	)
	if id, parseErr := uuid.Parse(param); parseErr == nil {
		product, err = h.uc.GetByID(c.Request().Context(), id)
	} else {
		product, err = h.uc.GetBySlug(c.Request().Context(), param)
	}
	if err != nil {
		return errors.WithStack(err)
	}
	if product == nil {
		return response.NotFound(c, "PRODUCT_NOT_FOUND", "Product not found")
	}

	return response.Success(c, http.StatusOK, toRatedProductResponse(product), "")
}

// Create handles the product creation request.
func (h *ProductHandler) Create(c echo.Context) error {
	var input usecase.CreateProductInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	product, err := h.uc.Create(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toProductResponse(product), "Product created successfully")
}

// Update handles the full product update request.
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product id")
	}

	var input usecase.UpdateProductInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	product, err := h.uc.Update(c.Request().Context(), id, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProductResponse(product), "Product updated successfully")
}

type publishInput struct {
	Published *bool `json:"published" validate:"required"`
}

// SetPublished handles the publish toggle request.
func (h *ProductHandler) SetPublished(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product id")
	}

	var input publishInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid publish input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	product, err := h.uc.SetPublished(c.Request().Context(), id, *input.Published)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProductResponse(product), "Product publish state updated")
}

// Delete handles the product deletion request.
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product id")
	}

	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Product deleted successfully")
}
