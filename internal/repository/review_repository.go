package repository

import (
	"context"

	"review-backend/internal/database"
	"review-backend/internal/models"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	// Create inserts the review unless its author already reviewed the
	// title, in which case it returns ErrDuplicate. The existence check and
	// the insert share one transaction; the unique index on
	// (author_id, title_id) settles concurrent inserts.
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, titleID, id uint) (*models.Review, error)
	FindByTitle(ctx context.Context, titleID uint) ([]models.Review, error)
}

type reviewRepository struct {
	base
}

func NewReviewRepository(db *database.Database) ReviewRepository {
	return &reviewRepository{base: newBase(db)}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Review{}).
			Where("author_id = ? AND title_id = ?", review.AuthorID, review.TitleID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicate
		}
		return tx.Omit("Author", "Title").Create(review).Error
	})
	return translate(err)
}

func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Model(&models.Review{}).
		Where("id = ?", review.ID).
		Updates(map[string]interface{}{"text": review.Text, "score": review.Score}).Error
}

// Delete removes the review and its comments.
func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Review{}, id).Error
	})
}

func (r *reviewRepository) scoped(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Review{}).
		Select("reviews.*, users.username AS author_name").
		Joins("LEFT JOIN users ON users.id = reviews.author_id")
}

func (r *reviewRepository) FindByID(ctx context.Context, titleID, id uint) (*models.Review, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var review models.Review
	found, err := first(r.scoped(ctx).Where("reviews.id = ? AND reviews.title_id = ?", id, titleID), &review)
	if err != nil || !found {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByTitle(ctx context.Context, titleID uint) ([]models.Review, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var reviews []models.Review
	err := r.scoped(ctx).Where("reviews.title_id = ?", titleID).Order("reviews.pub_date DESC, reviews.id DESC").Find(&reviews).Error
	return reviews, err
}

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, reviewID, id uint) (*models.Comment, error)
	FindByReview(ctx context.Context, reviewID uint) ([]models.Comment, error)
}

type commentRepository struct {
	base
}

func NewCommentRepository(db *database.Database) CommentRepository {
	return &commentRepository{base: newBase(db)}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Omit("Author", "Review").Create(comment).Error
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ?", comment.ID).
		Update("text", comment.Text).Error
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Delete(&models.Comment{}, id).Error
}

func (r *commentRepository) scoped(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Comment{}).
		Select("comments.*, users.username AS author_name").
		Joins("LEFT JOIN users ON users.id = comments.author_id")
}

func (r *commentRepository) FindByID(ctx context.Context, reviewID, id uint) (*models.Comment, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var comment models.Comment
	found, err := first(r.scoped(ctx).Where("comments.id = ? AND comments.review_id = ?", id, reviewID), &comment)
	if err != nil || !found {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) FindByReview(ctx context.Context, reviewID uint) ([]models.Comment, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var comments []models.Comment
	err := r.scoped(ctx).Where("comments.review_id = ?", reviewID).Order("comments.pub_date ASC, comments.id ASC").Find(&comments).Error
	return comments, err
}
