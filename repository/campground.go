package repository

import (
	"context"

	"campwild/models"

	"gorm.io/gorm"
)

// CampgroundRepository defines the interface for campground data operations
type CampgroundRepository interface {
	List(ctx context.Context) ([]models.Campground, error)
	GetByID(ctx context.Context, id uint) (*models.Campground, error)
	Create(ctx context.Context, campground *models.Campground) error
	Update(ctx context.Context, id uint, fields map[string]any) error
	Delete(ctx context.Context, id uint) error
}

type campgroundRepository struct {
	db *gorm.DB
}

// NewCampgroundRepository creates a new campground repository
func NewCampgroundRepository(db *gorm.DB) CampgroundRepository {
	return &campgroundRepository{db: db}
}

func (r *campgroundRepository) List(ctx context.Context) ([]models.Campground, error) {
	var campgrounds []models.Campground
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&campgrounds).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return campgrounds, nil
}

func (r *campgroundRepository) GetByID(ctx context.Context, id uint) (*models.Campground, error) {
	var campground models.Campground
	err := r.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at asc")
		}).
		First(&campground, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.NewNotFoundError("Campground", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &campground, nil
}

func (r *campgroundRepository) Create(ctx context.Context, campground *models.Campground) error {
	if err := r.db.WithContext(ctx).Create(campground).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Update applies the given fields to the row with the given id in a single
// write. Concurrent updates are not detected: the last write wins.
func (r *campgroundRepository) Update(ctx context.Context, id uint, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.Campground{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Campground", id)
	}
	return nil
}

func (r *campgroundRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Campground{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Campground", id)
	}
	return nil
}
