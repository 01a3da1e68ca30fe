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

// bannerRepository implements the repository.BannerRepository interface using GORM.
type bannerRepository struct {
	db *gorm.DB
}

// NewBannerRepository is the constructor for bannerRepository.
func NewBannerRepository(db *gorm.DB) repository.BannerRepository {
	return &bannerRepository{
		db: db,
	}
}

// Create persists a new banner together with its image set.
func (repo *bannerRepository) Create(ctx context.Context, banner *entity.Banner) error {
	bannerM := fromBannerDomain(banner)

	if err := repo.db.WithContext(ctx).Create(bannerM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create banner")
	}

	// Update the entity with generated values
	banner.ID = bannerM.ID
	banner.CreatedAt = bannerM.CreatedAt
	banner.UpdatedAt = bannerM.UpdatedAt
	for i, imageM := range bannerM.Images {
		banner.Images[i].ID = imageM.ID
		banner.Images[i].BannerID = imageM.BannerID
	}

	return nil
}

// List retrieves all banners with their images, newest first.
func (repo *bannerRepository) List(ctx context.Context) ([]*entity.Banner, error) {
	var bannerModels []*model.BannerModel

	if err := repo.db.WithContext(ctx).
		Preload("Images").
		Order("created_at DESC").
		Find(&bannerModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list banners")
	}

	banners := make([]*entity.Banner, 0, len(bannerModels))
	for _, bannerM := range bannerModels {
		banners = append(banners, toBannerDomain(bannerM))
	}

	return banners, nil
}

// FindByID retrieves a banner with its images, or ErrBannerNotFound.
func (repo *bannerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Banner, error) {
	var bannerM model.BannerModel

	if err := repo.db.WithContext(ctx).
		Preload("Images").
		Where("id = ?", id).
		First(&bannerM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrBannerNotFound
		}

		return nil, errors.Wrap(err, "failed to find banner by id")
	}

	return toBannerDomain(&bannerM), nil
}

// Update modifies the banner row. When replaceImages is true the prior image
// set is deleted and recreated from banner.Images.
func (repo *bannerRepository) Update(ctx context.Context, banner *entity.Banner, replaceImages bool) error {
	result := repo.db.WithContext(ctx).
		Model(&model.BannerModel{}).
		Where("id = ?", banner.ID).
		Update("description", banner.Description)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update banner")
	}

	if result.RowsAffected == 0 {
		return repository.ErrBannerNotFound
	}

	if !replaceImages {
		return nil
	}

	if err := repo.db.WithContext(ctx).
		Where("banner_id = ?", banner.ID).
		Delete(&model.BannerImageModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete banner images")
	}

	if len(banner.Images) == 0 {
		return nil
	}

	imageModels := make([]*model.BannerImageModel, 0, len(banner.Images))
	for _, image := range banner.Images {
		imageModels = append(imageModels, fromBannerImageDomain(image, banner.ID))
	}
	if err := repo.db.WithContext(ctx).Create(imageModels).Error; err != nil {
		return errors.Wrap(err, "failed to recreate banner images")
	}

	return nil
}

// Delete removes the banner row. Its images cascade at the database level.
func (repo *bannerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.BannerModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete banner")
	}

	if result.RowsAffected == 0 {
		return repository.ErrBannerNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toBannerDomain converts a GORM BannerModel to a domain Banner entity.
func toBannerDomain(data *model.BannerModel) *entity.Banner {
	if data == nil {
		return nil
	}

	banner := &entity.Banner{
		ID:          data.ID,
		Description: data.Description,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}

	for i := range data.Images {
		imageM := &data.Images[i]
		banner.Images = append(banner.Images, &entity.BannerImage{
			ID:        imageM.ID,
			BannerID:  imageM.BannerID,
			URL:       imageM.URL,
			PublicID:  imageM.PublicID,
			AltText:   imageM.AltText,
			CreatedAt: imageM.CreatedAt,
			UpdatedAt: imageM.UpdatedAt,
		})
	}

	return banner
}

// fromBannerDomain converts a domain Banner entity to a GORM BannerModel.
func fromBannerDomain(data *entity.Banner) *model.BannerModel {
	if data == nil {
		return nil
	}

	bannerM := &model.BannerModel{
		ID:          data.ID,
		Description: data.Description,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}

	for _, image := range data.Images {
		bannerM.Images = append(bannerM.Images, *fromBannerImageDomain(image, data.ID))
	}

	return bannerM
}

// fromBannerImageDomain converts a domain BannerImage entity to a GORM BannerImageModel.
func fromBannerImageDomain(data *entity.BannerImage, bannerID uuid.UUID) *model.BannerImageModel {
	return &model.BannerImageModel{
		ID:       data.ID,
		BannerID: bannerID,
		URL:      data.URL,
		PublicID: data.PublicID,
		AltText:  data.AltText,
	}
}
