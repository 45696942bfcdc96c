package repository

import (
	"context"
	"errors"
	"fmt"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/slug"

	"gorm.io/gorm"
)

// CategoryUpdate carries the fields of a partial category update. Nil fields
// are left unchanged.
type CategoryUpdate struct {
	Name        *string
	Description *string
	Color       *string
	IsActive    *bool
}

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetBySlug(ctx context.Context, s string) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, id uint, upd CategoryUpdate) (*models.Category, error)
	Delete(ctx context.Context, id uint) error
	CountPosts(ctx context.Context, categoryID uint, publishedOnly bool) (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository returns a new CategoryRepository implementation.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// List returns categories ordered by name ascending. Listings are cached;
// every mutation invalidates both variants.
func (r *categoryRepository) List(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	variant := "all"
	if activeOnly {
		variant = "active"
	}

	var categories []models.Category
	err := cache.Aside(ctx, cache.CategoryListKey(variant), &categories, cache.CategoryListTTL, func() error {
		q := r.db.WithContext(ctx).Order("name ASC")
		if activeOnly {
			q = q.Where("is_active = ?", true)
		}
		if err := q.Find(&categories).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Category", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &category, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, s string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", s).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &category, nil
}

// Create derives the slug from the name and inserts the category. Duplicate
// names conflict, whether caught by the pre-check or by the unique index.
func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("name = ?", category.Name).
		Count(&count).Error; err != nil {
		return models.NewInternalError(err)
	}
	if count > 0 {
		return models.NewConflictError("Category with this name already exists")
	}

	category.Slug = slug.Generate(category.Name)
	if category.Color == "" {
		category.Color = models.DefaultCategoryColor
	}

	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		if isDuplicateKey(err) {
			return models.NewConflictError("Category with this name already exists")
		}
		return models.NewInternalError(err)
	}

	cache.InvalidateCategoryLists(ctx)
	return nil
}

// Update applies a partial update. A name change re-checks uniqueness and
// re-derives the slug.
func (r *categoryRepository) Update(ctx context.Context, id uint, upd CategoryUpdate) (*models.Category, error) {
	category, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil && *upd.Name != category.Name {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&models.Category{}).
			Where("name = ? AND id <> ?", *upd.Name, id).
			Count(&count).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
		if count > 0 {
			return nil, models.NewConflictError("Category with this name already exists")
		}
		category.Name = *upd.Name
		category.Slug = slug.Generate(*upd.Name)
	}
	if upd.Description != nil {
		category.Description = *upd.Description
	}
	if upd.Color != nil {
		category.Color = *upd.Color
	}
	if upd.IsActive != nil {
		category.IsActive = *upd.IsActive
	}

	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, models.NewConflictError("Category with this name already exists")
		}
		return nil, models.NewInternalError(err)
	}

	cache.InvalidateCategoryLists(ctx)
	return category, nil
}

// Delete removes a category unless any post references it, drafts included.
func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	category, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	count, err := r.CountPosts(ctx, category.ID, false)
	if err != nil {
		return err
	}
	if count > 0 {
		return models.NewConflictError(fmt.Sprintf("Cannot delete category. It has %d associated posts.", count))
	}

	if err := r.db.WithContext(ctx).Delete(&models.Category{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}

	cache.InvalidateCategoryLists(ctx)
	return nil
}

// CountPosts counts posts referencing the category, computed on demand.
func (r *categoryRepository) CountPosts(ctx context.Context, categoryID uint, publishedOnly bool) (int64, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("category_id = ?", categoryID)
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
