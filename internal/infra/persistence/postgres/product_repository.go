// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"fmt"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// productOrderColumns whitelists the sortable columns of a product listing.
// Anything outside this map falls back to creation time.
var productOrderColumns = map[repository.ProductOrder]string{
	repository.ProductOrderCreatedAt: "products.created_at",
	repository.ProductOrderPrice:     "products.price",
	repository.ProductOrderName:      "products.name",
}

// productRepository implements the repository.ProductRepository interface using GORM.
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{
		db: db,
	}
}

// Create persists a new product together with its ordered image set.
// GORM's association handling inserts the product and its images as one creation.
func (repo *productRepository) Create(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	if err := repo.db.WithContext(ctx).Create(productM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "product slug already exists")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrCategoryNotFound.WrapMessage("invalid category reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create product")
	}

	// Update the entity with generated values
	product.ID = productM.ID
	product.CreatedAt = productM.CreatedAt
	product.UpdatedAt = productM.UpdatedAt
	for i, imageM := range productM.Images {
		product.Images[i].ID = imageM.ID
		product.Images[i].ProductID = imageM.ProductID
	}

	return nil
}

// FindByID retrieves a product with its full detail graph, or ErrProductNotFound.
func (repo *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	return repo.findOne(ctx, "products.id = ?", id)
}

// FindBySlug retrieves a product with its full detail graph, or ErrProductNotFound.
func (repo *productRepository) FindBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	return repo.findOne(ctx, "products.slug = ?", slug)
}

func (repo *productRepository) findOne(ctx context.Context, cond string, arg any) (*entity.Product, error) {
	var productM model.ProductModel

	if err := repo.detailScope(repo.db.WithContext(ctx)).
		Where(cond, arg).
		First(&productM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	return toProductDomain(&productM), nil
}

// detailScope preloads the full product graph: ordered images, the owning
// category, and reviews with their images.
func (repo *productRepository) detailScope(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Images", orderImagesByPosition).
		Preload("Category").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("reviews.created_at DESC")
		}).
		Preload("Reviews.Images")
}

func orderImagesByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("product_images.position ASC")
}

// List retrieves products matching the query with their images and category.
func (repo *productRepository) List(ctx context.Context, query repository.ListProductsQuery) ([]*entity.Product, error) {
	db := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Preload("Images", orderImagesByPosition).
		Preload("Category")

	if query.PublishedOnly {
		db = db.Where("products.is_published = ?", true)
	}
	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		db = db.Where("products.name ILIKE ? OR products.description ILIKE ?", pattern, pattern)
	}
	if query.Category != "" {
		db = db.Joins("JOIN categories ON categories.id = products.category_id").
			Where("LOWER(categories.name) = LOWER(?) OR LOWER(categories.slug) = LOWER(?)", query.Category, query.Category)
	}

	column, ok := productOrderColumns[query.OrderBy]
	if !ok {
		column = productOrderColumns[repository.ProductOrderCreatedAt]
	}
	direction := "DESC"
	if query.Ascending {
		direction = "ASC"
	}
	db = db.Order(fmt.Sprintf("%s %s", column, direction))

	if query.Limit > 0 {
		db = db.Limit(query.Limit)
	}
	if query.Offset > 0 {
		db = db.Offset(query.Offset)
	}

	var productModels []*model.ProductModel
	if err := db.Find(&productModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return toProductDomainList(productModels), nil
}

// ListByCategorySlug retrieves published products whose category slug matches case-insensitively.
func (repo *productRepository) ListByCategorySlug(ctx context.Context, slug string) ([]*entity.Product, error) {
	var productModels []*model.ProductModel

	if err := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("LOWER(categories.slug) = LOWER(?) AND products.is_published = ?", slug, true).
		Order("products.created_at DESC").
		Preload("Images", orderImagesByPosition).
		Preload("Category").
		Find(&productModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list products by category slug")
	}

	return toProductDomainList(productModels), nil
}

// SlugExists reports whether another product already claims the slug.
func (repo *productRepository) SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	db := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("slug = ?", slug)
	if excludeID != uuid.Nil {
		db = db.Where("id <> ?", excludeID)
	}

	var count int64
	if err := db.Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check product slug")
	}

	return count > 0, nil
}

// Update modifies the product row. When replaceImages is true the prior image
// set is deleted and recreated from product.Images within the caller's transaction.
func (repo *productRepository) Update(ctx context.Context, product *entity.Product, replaceImages bool) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"name":           product.Name,
			"slug":           product.Slug,
			"description":    product.Description,
			"price":          product.Price,
			"discount_price": product.DiscountPrice,
			"is_published":   product.IsPublished,
			"category_id":    product.CategoryID,
		})

	if result.Error != nil {
		if isForeignKeyConstraintViolation(result.Error) {
			return domainerrors.ErrCategoryNotFound.WrapMessage("invalid category reference")
		}

		return errors.Wrap(result.Error, "failed to update product")
	}

	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	if !replaceImages {
		return nil
	}

	if err := repo.db.WithContext(ctx).
		Where("product_id = ?", product.ID).
		Delete(&model.ProductImageModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete product images")
	}

	if len(product.Images) == 0 {
		return nil
	}

	imageModels := make([]*model.ProductImageModel, 0, len(product.Images))
	for _, image := range product.Images {
		imageModels = append(imageModels, fromProductImageDomain(image, product.ID))
	}
	if err := repo.db.WithContext(ctx).Create(imageModels).Error; err != nil {
		return errors.Wrap(err, "failed to recreate product images")
	}

	return nil
}

// SetPublished flips the publish flag and returns the updated product.
func (repo *productRepository) SetPublished(ctx context.Context, id uuid.UUID, published bool) (*entity.Product, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ?", id).
		Update("is_published", published)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to set product publish state")
	}

	if result.RowsAffected == 0 {
		return nil, repository.ErrProductNotFound
	}

	return repo.FindByID(ctx, id)
}

// Delete removes the product row. Images and reviews cascade at the database level.
func (repo *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ProductModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete product")
	}

	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toProductDomain converts a GORM ProductModel to a domain Product entity.
func toProductDomain(data *model.ProductModel) *entity.Product {
	if data == nil {
		return nil
	}

	product := &entity.Product{
		ID:            data.ID,
		Name:          data.Name,
		Slug:          data.Slug,
		Description:   data.Description,
		Price:         data.Price,
		DiscountPrice: data.DiscountPrice,
		IsPublished:   data.IsPublished,
		CategoryID:    data.CategoryID,
		Category:      toCategoryDomain(data.Category),
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}

	for i := range data.Images {
		product.Images = append(product.Images, toProductImageDomain(&data.Images[i]))
	}
	for i := range data.Reviews {
		product.Reviews = append(product.Reviews, toReviewDomain(&data.Reviews[i]))
	}

	return product
}

func toProductDomainList(models []*model.ProductModel) []*entity.Product {
	products := make([]*entity.Product, 0, len(models))
	for _, productM := range models {
		products = append(products, toProductDomain(productM))
	}

	return products
}

// toProductImageDomain converts a GORM ProductImageModel to a domain ProductImage entity.
func toProductImageDomain(data *model.ProductImageModel) *entity.ProductImage {
	return &entity.ProductImage{
		ID:        data.ID,
		ProductID: data.ProductID,
		URL:       data.URL,
		PublicID:  data.PublicID,
		Order:     data.Position,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// fromProductDomain converts a domain Product entity to a GORM ProductModel.
// Category and reviews are read-side associations and are never written through the product.
func fromProductDomain(data *entity.Product) *model.ProductModel {
	if data == nil {
		return nil
	}

	productM := &model.ProductModel{
		ID:            data.ID,
		Name:          data.Name,
		Slug:          data.Slug,
		Description:   data.Description,
		Price:         data.Price,
		DiscountPrice: data.DiscountPrice,
		IsPublished:   data.IsPublished,
		CategoryID:    data.CategoryID,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}

	for _, image := range data.Images {
		productM.Images = append(productM.Images, *fromProductImageDomain(image, data.ID))
	}

	return productM
}

// fromProductImageDomain converts a domain ProductImage entity to a GORM ProductImageModel.
func fromProductImageDomain(data *entity.ProductImage, productID uuid.UUID) *model.ProductImageModel {
	return &model.ProductImageModel{
		ID:        data.ID,
		ProductID: productID,
		URL:       data.URL,
		PublicID:  data.PublicID,
		Position:  data.Order,
	}
}
