// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// reviewRepository implements the repository.ReviewRepository interface using GORM.
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository is the constructor for reviewRepository.
func NewReviewRepository(db *gorm.DB) repository.ReviewRepository {
	return &reviewRepository{
		db: db,
	}
}

// Create persists a new review together with its image set.
func (repo *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	reviewM := fromReviewDomain(review)

	if err := repo.db.WithContext(ctx).Create(reviewM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrProductNotFound
		}
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("rating out of range")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create review")
	}

	// Update the entity with generated values
	review.ID = reviewM.ID
	review.CreatedAt = reviewM.CreatedAt
	review.UpdatedAt = reviewM.UpdatedAt
	for i, imageM := range reviewM.Images {
		review.Images[i].ID = imageM.ID
		review.Images[i].ReviewID = imageM.ReviewID
	}

	return nil
}

// FindByID retrieves a review with its images, or ErrReviewNotFound.
func (repo *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	var reviewM model.ReviewModel

	if err := repo.db.WithContext(ctx).
		Preload("Images").
		Where("id = ?", id).
		First(&reviewM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrReviewNotFound
		}

		return nil, errors.Wrap(err, "failed to find review by id")
	}

	return toReviewDomain(&reviewM), nil
}

// Update modifies the review row. When replaceImages is true the prior image
// set is deleted and recreated from review.Images.
func (repo *reviewRepository) Update(ctx context.Context, review *entity.Review, replaceImages bool) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Where("id = ?", review.ID).
		Updates(map[string]any{
			"rating":  review.Rating,
			"comment": review.Comment,
		})

	if result.Error != nil {
		if isCheckConstraintViolation(result.Error) {
			return domainerrors.ErrValidationFailed.WrapMessage("rating out of range")
		}

		return errors.Wrap(result.Error, "failed to update review")
	}

	if result.RowsAffected == 0 {
		return repository.ErrReviewNotFound
	}

	if !replaceImages {
		return nil
	}

	if err := repo.DeleteImages(ctx, review.ID); err != nil {
		return err
	}

	if len(review.Images) == 0 {
		return nil
	}

	imageModels := make([]*model.ReviewImageModel, 0, len(review.Images))
	for _, image := range review.Images {
		imageModels = append(imageModels, fromReviewImageDomain(image, review.ID))
	}
	if err := repo.db.WithContext(ctx).Create(imageModels).Error; err != nil {
		return errors.Wrap(err, "failed to recreate review images")
	}

	return nil
}

// Delete removes the review row. Its images cascade at the database level.
func (repo *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ReviewModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete review")
	}

	if result.RowsAffected == 0 {
		return repository.ErrReviewNotFound
	}

	return nil
}

// DeleteImages removes every image row of a review without touching the review itself.
func (repo *reviewRepository) DeleteImages(ctx context.Context, reviewID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Where("review_id = ?", reviewID).
		Delete(&model.ReviewImageModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete review images")
	}

	return nil
}

// ratingSummaryRow receives the grouped aggregate scan.
type ratingSummaryRow struct {
	ProductID uuid.UUID
	Average   float64
	Count     int
}

// RatingSummaries computes the average rating and review count grouped by
// product. Products without reviews yield no row; readers default to zero.
func (repo *reviewRepository) RatingSummaries(ctx context.Context, productIDs []uuid.UUID) ([]*entity.RatingSummary, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	var rows []ratingSummaryRow
	if err := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Select("product_id, AVG(rating) AS average, COUNT(*) AS count").
		Where("product_id IN ?", productIDs).
		Group("product_id").
		Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to compute rating summaries")
	}

	summaries := make([]*entity.RatingSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, &entity.RatingSummary{
			ProductID: row.ProductID,
			Average:   row.Average,
			Count:     row.Count,
		})
	}

	return summaries, nil
}

// --- Mapper Functions ---

// toReviewDomain converts a GORM ReviewModel to a domain Review entity.
func toReviewDomain(data *model.ReviewModel) *entity.Review {
	if data == nil {
		return nil
	}

	review := &entity.Review{
		ID:        data.ID,
		ProductID: data.ProductID,
		Rating:    data.Rating,
		Comment:   data.Comment,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}

	for i := range data.Images {
		imageM := &data.Images[i]
		review.Images = append(review.Images, &entity.ReviewImage{
			ID:        imageM.ID,
			ReviewID:  imageM.ReviewID,
			URL:       imageM.URL,
			PublicID:  imageM.PublicID,
			CreatedAt: imageM.CreatedAt,
			UpdatedAt: imageM.UpdatedAt,
		})
	}

	return review
}

// fromReviewDomain converts a domain Review entity to a GORM ReviewModel.
func fromReviewDomain(data *entity.Review) *model.ReviewModel {
	if data == nil {
		return nil
	}

	reviewM := &model.ReviewModel{
		ID:        data.ID,
		ProductID: data.ProductID,
		Rating:    data.Rating,
		Comment:   data.Comment,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}

	for _, image := range data.Images {
		reviewM.Images = append(reviewM.Images, *fromReviewImageDomain(image, data.ID))
	}

	return reviewM
}

// fromReviewImageDomain converts a domain ReviewImage entity to a GORM ReviewImageModel.
func fromReviewImageDomain(data *entity.ReviewImage, reviewID uuid.UUID) *model.ReviewImageModel {
	return &model.ReviewImageModel{
		ID:       data.ID,
		ReviewID: reviewID,
		URL:      data.URL,
		PublicID: data.PublicID,
	}
}
