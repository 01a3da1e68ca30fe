package handler

import (
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/usecase"

	"github.com/google/uuid"
)

// Response DTOs decouple the JSON wire shape from the domain entities, so
// entity changes never silently change the API.

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type authResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         userResponse `json:"user"`
}

type imageResponse struct {
	ID       uuid.UUID `json:"id"`
	URL      string    `json:"url"`
	PublicID string    `json:"publicId"`
	Order    int       `json:"order,omitempty"`
	AltText  string    `json:"altText,omitempty"`
}

type categoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}

type reviewResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"productId"`
	Rating    int             `json:"rating"`
	Comment   string          `json:"comment"`
	Images    []imageResponse `json:"images"`
	CreatedAt time.Time       `json:"createdAt"`
}

type productResponse struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	Slug          string            `json:"slug"`
	Description   string            `json:"description"`
	Price         int64             `json:"price"`
	DiscountPrice *int64            `json:"discountPrice,omitempty"`
	IsPublished   bool              `json:"isPublished"`
	CategoryID    uuid.UUID         `json:"categoryId"`
	Category      *categoryResponse `json:"category,omitempty"`
	Images        []imageResponse   `json:"images"`
	Reviews       []reviewResponse  `json:"reviews,omitempty"`
	AvgRating     float64           `json:"avgRating"`
	ReviewCount   int               `json:"reviewCount"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

type bannerResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Images      []imageResponse `json:"images"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type categoryWithProductsResponse struct {
	Category categoryResponse  `json:"category"`
	Products []productResponse `json:"products"`
}

func toUserResponse(user *entity.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role.String(),
		CreatedAt: user.CreatedAt,
	}
}

func toAuthResponse(out *usecase.AuthOutput) authResponse {
	return authResponse{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
		User:         toUserResponse(out.User),
	}
}

func toCategoryResponse(category *entity.Category) categoryResponse {
	return categoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		Slug:      category.Slug,
		CreatedAt: category.CreatedAt,
	}
}

func toReviewResponse(review *entity.Review) reviewResponse {
	images := make([]imageResponse, 0, len(review.Images))
	for _, img := range review.Images {
		images = append(images, imageResponse{
			ID:       img.ID,
			URL:      img.URL,
			PublicID: img.PublicID,
		})
	}

	return reviewResponse{
		ID:        review.ID,
		ProductID: review.ProductID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		Images:    images,
		CreatedAt: review.CreatedAt,
	}
}

// toProductResponse renders a bare product, for mutation results where no
// rating aggregate was computed.
func toProductResponse(product *entity.Product) productResponse {
	images := make([]imageResponse, 0, len(product.Images))
	for _, img := range product.Images {
		images = append(images, imageResponse{
			ID:       img.ID,
			URL:      img.URL,
			PublicID: img.PublicID,
			Order:    img.Order,
		})
	}

	resp := productResponse{
		ID:            product.ID,
		Name:          product.Name,
		Slug:          product.Slug,
		Description:   product.Description,
		Price:         product.Price,
		DiscountPrice: product.DiscountPrice,
		IsPublished:   product.IsPublished,
		CategoryID:    product.CategoryID,
		Images:        images,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}

	if product.Category != nil {
		category := toCategoryResponse(product.Category)
		resp.Category = &category
	}
	for _, review := range product.Reviews {
		resp.Reviews = append(resp.Reviews, toReviewResponse(review))
	}

	return resp
}

func toRatedProductResponse(rated *usecase.ProductWithRating) productResponse {
	resp := toProductResponse(rated.Product)
	resp.AvgRating = rated.AvgRating
	resp.ReviewCount = rated.ReviewCount

	return resp
}

func toRatedProductResponses(rated []*usecase.ProductWithRating) []productResponse {
	resps := make([]productResponse, 0, len(rated))
	for _, r := range rated {
		resps = append(resps, toRatedProductResponse(r))
	}

	return resps
}

func toBannerResponse(banner *entity.Banner) bannerResponse {
	images := make([]imageResponse, 0, len(banner.Images))
	for _, img := range banner.Images {
		images = append(images, imageResponse{
			ID:       img.ID,
			URL:      img.URL,
			PublicID: img.PublicID,
			AltText:  img.AltText,
		})
	}

	return bannerResponse{
		ID:          banner.ID,
		Description: banner.Description,
		Images:      images,
		CreatedAt:   banner.CreatedAt,
	}
}
