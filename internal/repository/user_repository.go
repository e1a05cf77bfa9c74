package repository

import (
	"context"
	"time"

	"review-backend/internal/database"
	"review-backend/internal/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindAll(ctx context.Context, search string) ([]models.User, error)
}

type userRepository struct {
	base
}

func NewUserRepository(db *database.Database) UserRepository {
	return &userRepository{base: newBase(db)}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return translate(r.db.WithContext(ctx).Save(user).Error)
}

// Delete removes the user together with everything they authored.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.Transaction(ctx, func(tx *gorm.DB) error {
		ownReviews := tx.Model(&models.Review{}).Select("id").Where("author_id = ?", id)
		if err := tx.Where("author_id = ? OR review_id IN (?)", id, ownReviews).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.ConfirmationCode{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var user models.User
	found, err := first(r.db.WithContext(ctx).Where("id = ?", id), &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var user models.User
	found, err := first(r.db.WithContext(ctx).Where("username = ?", username), &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var user models.User
	found, err := first(r.db.WithContext(ctx).Where("email = ?", email), &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindAll(ctx context.Context, search string) ([]models.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := r.db.WithContext(ctx).Model(&models.User{})
	if search != "" {
		query = query.Where(ilikeContains("username"), containsPattern(search))
	}

	var users []models.User
	err := query.Order("username ASC").Find(&users).Error
	return users, err
}

type ConfirmationRepository interface {
	// Issue stores code and supersedes every earlier unconsumed code of the
	// same user, so only the newest one can be exchanged.
	Issue(ctx context.Context, code *models.ConfirmationCode) error
	Latest(ctx context.Context, userID uint) (*models.ConfirmationCode, error)
	// Consume marks the code used. It reports false when the code had
	// already been consumed by a concurrent request.
	Consume(ctx context.Context, id uint, at time.Time) (bool, error)
}

type confirmationRepository struct {
	base
}

func NewConfirmationRepository(db *database.Database) ConfirmationRepository {
	return &confirmationRepository{base: newBase(db)}
}

func (r *confirmationRepository) Issue(ctx context.Context, code *models.ConfirmationCode) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Model(&models.ConfirmationCode{}).
			Where("user_id = ? AND consumed_at IS NULL", code.UserID).
			Update("consumed_at", code.IssuedAt).Error; err != nil {
			return err
		}
		return tx.Create(code).Error
	})
}

func (r *confirmationRepository) Latest(ctx context.Context, userID uint) (*models.ConfirmationCode, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var code models.ConfirmationCode
	found, err := first(r.db.WithContext(ctx).Where("user_id = ?", userID).Order("issued_at DESC, id DESC"), &code)
	if err != nil || !found {
		return nil, err
	}
	return &code, nil
}

func (r *confirmationRepository) Consume(ctx context.Context, id uint, at time.Time) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&models.ConfirmationCode{}).
		Where("id = ? AND consumed_at IS NULL", id).
		Update("consumed_at", at)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
