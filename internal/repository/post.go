package repository

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"inkwell/internal/authz"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// DefaultPageSize is used when a listing request gives no limit.
const DefaultPageSize = 10

// PostFilter narrows a post listing. An unknown CategorySlug yields an empty
// result rather than an error. Search matches case-insensitively against
// title, content, or any tag with plain substring semantics.
type PostFilter struct {
	PublishedOnly bool
	CategorySlug  string
	Search        string
}

// PostUpdate carries the fields of a partial post update. Nil fields are left
// unchanged; Tags, when supplied, is re-split from its comma-delimited form.
type PostUpdate struct {
	Title       *string
	Content     *string
	Excerpt     *string
	CategoryID  *uint
	Tags        *string
	IsPublished *bool
}

// PostRepository defines persistence operations for posts and their comments.
type PostRepository interface {
	List(ctx context.Context, filter PostFilter, page, limit int) ([]models.Post, int64, error)
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, id uint, upd PostUpdate, requesterID uint, requesterRole string) (*models.Post, error)
	Delete(ctx context.Context, id uint, requesterID uint, requesterRole string) error
	IncrementViewCount(ctx context.Context, id uint) error
	AddComment(ctx context.Context, postID, userID uint, content string) (*models.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// List returns a page of posts sorted by creation time descending, plus the
// total matching count. Pagination is 1-indexed.
func (r *postRepository) List(ctx context.Context, filter PostFilter, page, limit int) ([]models.Post, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}

	q := r.db.WithContext(ctx).Model(&models.Post{})

	if filter.PublishedOnly {
		q = q.Where("is_published = ?", true)
	}

	if filter.CategorySlug != "" {
		var category models.Category
		err := r.db.WithContext(ctx).Where("slug = ?", filter.CategorySlug).First(&category).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return []models.Post{}, 0, nil
			}
			return nil, 0, models.NewInternalError(err)
		}
		q = q.Where("category_id = ?", category.ID)
	}

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ? OR LOWER(tags) LIKE ?",
			pattern, pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var posts []models.Post
	if err := q.
		Preload("Author").
		Preload("Category").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	return posts, total, nil
}

// GetByID returns a post with its author, category, and comments (oldest
// first) with each comment's author resolved.
func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Comments.User").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// Create inserts a post after confirming the referenced category exists. The
// excerpt is derived from content when absent.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", post.CategoryID).
		Count(&count).Error; err != nil {
		return models.NewInternalError(err)
	}
	if count == 0 {
		return models.NewNotFoundError("Category", post.CategoryID)
	}

	post.Excerpt = models.DeriveExcerpt(post.Excerpt, post.Content)
	if post.Tags == nil {
		post.Tags = models.StringList{}
	}

	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Update applies a partial update after checking the requester is the post's
// author or an admin. The author reference itself is never reassigned.
func (r *postRepository) Update(ctx context.Context, id uint, upd PostUpdate, requesterID uint, requesterRole string) (*models.Post, error) {
	post, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !authz.CanMutate(post.AuthorID, requesterID, requesterRole) {
		return nil, models.NewAuthorizationError("Not authorized to update this post")
	}

	if upd.CategoryID != nil {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&models.Category{}).
			Where("id = ?", *upd.CategoryID).
			Count(&count).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
		if count == 0 {
			return nil, models.NewValidationError("Category not found")
		}
		post.CategoryID = *upd.CategoryID
	}
	if upd.Title != nil {
		post.Title = *upd.Title
	}
	if upd.Content != nil {
		post.Content = *upd.Content
	}
	if upd.Excerpt != nil {
		post.Excerpt = *upd.Excerpt
	}
	if upd.Tags != nil {
		post.Tags = models.SplitTags(*upd.Tags)
	}
	if upd.IsPublished != nil {
		post.IsPublished = *upd.IsPublished
	}

	// Save without touching the preloaded associations or the store-managed
	// columns: writing view_count back from the snapshot read above would
	// clobber increments applied by concurrent readers.
	if err := r.db.WithContext(ctx).
		Omit("Author", "Category", "Comments", "ViewCount", "CreatedAt").
		Save(post).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	return r.GetByID(ctx, id)
}

// Delete removes a post and its comments after the same authorization check
// as Update.
func (r *postRepository) Delete(ctx context.Context, id uint, requesterID uint, requesterRole string) error {
	post, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !authz.CanMutate(post.AuthorID, requesterID, requesterRole) {
		return models.NewAuthorizationError("Not authorized to delete this post")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Delete(&models.Post{}, id).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
}

// IncrementViewCount bumps the view counter with a single UPDATE so
// concurrent readers cannot lose updates.
func (r *postRepository) IncrementViewCount(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// AddComment appends a comment to the post and returns the post with all
// comment authors resolved.
func (r *postRepository) AddComment(ctx context.Context, postID, userID uint, content string) (*models.Post, error) {
	if content == "" {
		return nil, models.NewValidationError("Comment content is required")
	}
	if utf8.RuneCountInString(content) > models.MaxCommentLength {
		return nil, models.NewValidationError("Comment cannot be more than 1000 characters")
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", postID).
		Count(&count).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if count == 0 {
		return nil, models.NewNotFoundError("Post", postID)
	}

	comment := &models.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	return r.GetByID(ctx, postID)
}
