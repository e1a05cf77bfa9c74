package repository

import (
	"context"

	"review-backend/internal/database"
	"review-backend/internal/models"

	"gorm.io/gorm"
)

type TitleRepository interface {
	Create(ctx context.Context, title *models.Title) error
	// Update saves the title's columns and replaces its genre links with
	// title.Genres.
	Update(ctx context.Context, title *models.Title) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*models.Title, error)
	FindAll(ctx context.Context, filter models.TitleFilter) ([]models.Title, error)

	// Scores returns the current review scores for each requested title.
	Scores(ctx context.Context, titleIDs []uint) (map[uint][]int, error)
}

type titleRepository struct {
	base
}

func NewTitleRepository(db *database.Database) TitleRepository {
	return &titleRepository{base: newBase(db)}
}

func (r *titleRepository) Create(ctx context.Context, title *models.Title) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Create(title).Error
}

func (r *titleRepository) Update(ctx context.Context, title *models.Title) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Omit("Genres", "Category").Save(title).Error; err != nil {
			return err
		}
		return tx.Model(title).Association("Genres").Replace(title.Genres)
	})
}

// Delete removes the title with its reviews, their comments and genre links.
func (r *titleRepository) Delete(ctx context.Context, id uint) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.Transaction(ctx, func(tx *gorm.DB) error {
		reviews := tx.Model(&models.Review{}).Select("id").Where("title_id = ?", id)
		if err := tx.Where("review_id IN (?)", reviews).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("title_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("title_id = ?", id).Delete(&models.TitleGenre{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Title{}, id).Error
	})
}

func (r *titleRepository) FindByID(ctx context.Context, id uint) (*models.Title, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var title models.Title
	found, err := first(r.db.WithContext(ctx).Preload("Category").Preload("Genres").Where("id = ?", id), &title)
	if err != nil || !found {
		return nil, err
	}
	return &title, nil
}

func (r *titleRepository) FindAll(ctx context.Context, filter models.TitleFilter) ([]models.Title, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := r.db.WithContext(ctx).Model(&models.Title{})

	if filter.Name != "" {
		query = query.Where("titles.name = ?", filter.Name)
	}
	if filter.Year != 0 {
		query = query.Where("titles.year = ?", filter.Year)
	}
	if filter.Category != "" {
		query = query.Where("titles.category_id IN (?)",
			r.db.WithContext(ctx).Model(&models.Category{}).Select("id").Where("slug = ?", filter.Category))
	}
	if filter.Genre != "" {
		query = query.Where("titles.id IN (?)",
			r.db.WithContext(ctx).Table("title_genres").
				Select("title_genres.title_id").
				Joins("JOIN genres ON genres.id = title_genres.genre_id").
				Where("genres.slug = ?", filter.Genre))
	}

	var titles []models.Title
	err := query.Preload("Category").Preload("Genres").Order("titles.id ASC").Find(&titles).Error
	return titles, err
}

func (r *titleRepository) Scores(ctx context.Context, titleIDs []uint) (map[uint][]int, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	scores := make(map[uint][]int, len(titleIDs))
	if len(titleIDs) == 0 {
		return scores, nil
	}

	type row struct {
		TitleID uint
		Score   int
	}
	var rows []row
	if err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("title_id, score").
		Where("title_id IN ?", titleIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, rw := range rows {
		scores[rw.TitleID] = append(scores[rw.TitleID], rw.Score)
	}
	return scores, nil
}
