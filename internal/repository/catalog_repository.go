package repository

import (
	"context"

	"review-backend/internal/database"
	"review-backend/internal/models"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uint) error
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	FindAll(ctx context.Context, search string) ([]models.Category, error)
}

type categoryRepository struct {
	base
}

func NewCategoryRepository(db *database.Database) CategoryRepository {
	return &categoryRepository{base: newBase(db)}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return translate(r.db.WithContext(ctx).Create(category).Error)
}

// Delete removes the category and leaves its titles uncategorised.
func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Model(&models.Title{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, id).Error
	})
}

func (r *categoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var category models.Category
	found, err := first(r.db.WithContext(ctx).Where("slug = ?", slug), &category)
	if err != nil || !found {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindAll(ctx context.Context, search string) ([]models.Category, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := r.db.WithContext(ctx).Model(&models.Category{})
	if search != "" {
		query = query.Where(ilikeContains("name"), containsPattern(search))
	}

	var categories []models.Category
	err := query.Order("name ASC").Find(&categories).Error
	return categories, err
}

type GenreRepository interface {
	Create(ctx context.Context, genre *models.Genre) error
	Delete(ctx context.Context, id uint) error
	FindBySlug(ctx context.Context, slug string) (*models.Genre, error)
	FindBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error)
	FindAll(ctx context.Context, search string) ([]models.Genre, error)
}

type genreRepository struct {
	base
}

func NewGenreRepository(db *database.Database) GenreRepository {
	return &genreRepository{base: newBase(db)}
}

func (r *genreRepository) Create(ctx context.Context, genre *models.Genre) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return translate(r.db.WithContext(ctx).Create(genre).Error)
}

// Delete removes the genre and its title links; titles are kept.
func (r *genreRepository) Delete(ctx context.Context, id uint) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("genre_id = ?", id).Delete(&models.TitleGenre{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Genre{}, id).Error
	})
}

func (r *genreRepository) FindBySlug(ctx context.Context, slug string) (*models.Genre, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var genre models.Genre
	found, err := first(r.db.WithContext(ctx).Where("slug = ?", slug), &genre)
	if err != nil || !found {
		return nil, err
	}
	return &genre, nil
}

func (r *genreRepository) FindBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var genres []models.Genre
	if len(slugs) == 0 {
		return genres, nil
	}
	err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Find(&genres).Error
	return genres, err
}

func (r *genreRepository) FindAll(ctx context.Context, search string) ([]models.Genre, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := r.db.WithContext(ctx).Model(&models.Genre{})
	if search != "" {
		query = query.Where(ilikeContains("name"), containsPattern(search))
	}

	var genres []models.Genre
	err := query.Order("name ASC").Find(&genres).Error
	return genres, err
}
