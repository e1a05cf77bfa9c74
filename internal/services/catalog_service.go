package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"review-backend/internal/apperr"
	"review-backend/internal/metrics"
	"review-backend/internal/models"
	"review-backend/internal/policy"
	"review-backend/internal/repository"
	"review-backend/internal/validate"

	"github.com/sirupsen/logrus"
)

// CatalogService manages categories and genres.
type CatalogService interface {
	ListCategories(ctx context.Context, search string) ([]models.Category, error)
	CreateCategory(ctx context.Context, actor policy.Actor, name, slug string) (*models.Category, error)
	DeleteCategory(ctx context.Context, actor policy.Actor, slug string) error

	ListGenres(ctx context.Context, search string) ([]models.Genre, error)
	CreateGenre(ctx context.Context, actor policy.Actor, name, slug string) (*models.Genre, error)
	DeleteGenre(ctx context.Context, actor policy.Actor, slug string) error
}

type catalogService struct {
	categories repository.CategoryRepository
	genres     repository.GenreRepository
	logger     *logrus.Logger
	metrics    *metrics.Metrics
}

func NewCatalogService(categories repository.CategoryRepository, genres repository.GenreRepository, logger *logrus.Logger, m *metrics.Metrics) CatalogService {
	return &catalogService{
		categories: categories,
		genres:     genres,
		logger:     logger,
		metrics:    m,
	}
}

func validateNameSlug(name, slug string) error {
	return validate.New().
		Required("name", name).
		MaxLen("name", name, validate.NameMaxLength).
		Slug("slug", slug).
		Err()
}

func (s *catalogService) ListCategories(ctx context.Context, search string) ([]models.Category, error) {
	categories, err := s.categories.FindAll(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return categories, nil
}

func (s *catalogService) CreateCategory(ctx context.Context, actor policy.Actor, name, slug string) (*models.Category, error) {
	if err := authorize(s.metrics, actor, policy.ActionCreate, policy.On(policy.ResourceCategory)); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := validateNameSlug(name, slug); err != nil {
		return nil, err
	}

	category := &models.Category{Name: name, Slug: slug}
	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, apperr.Internal(fmt.Errorf("failed to create category: %w", err))
	}

	s.logger.WithField("slug", slug).Info("Category created")
	return category, nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, actor policy.Actor, slug string) error {
	if err := authorize(s.metrics, actor, policy.ActionDelete, policy.On(policy.ResourceCategory)); err != nil {
		return err
	}

	category, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		return apperr.Internal(err)
	}
	if category == nil {
		return apperr.NotFound("Category")
	}
	if err := s.categories.Delete(ctx, category.ID); err != nil {
		return apperr.Internal(fmt.Errorf("failed to delete category: %w", err))
	}

	s.logger.WithField("slug", slug).Info("Category deleted")
	return nil
}

func (s *catalogService) ListGenres(ctx context.Context, search string) ([]models.Genre, error) {
	genres, err := s.genres.FindAll(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return genres, nil
}

func (s *catalogService) CreateGenre(ctx context.Context, actor policy.Actor, name, slug string) (*models.Genre, error) {
	if err := authorize(s.metrics, actor, policy.ActionCreate, policy.On(policy.ResourceGenre)); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := validateNameSlug(name, slug); err != nil {
		return nil, err
	}

	genre := &models.Genre{Name: name, Slug: slug}
	if err := s.genres.Create(ctx, genre); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, apperr.Internal(fmt.Errorf("failed to create genre: %w", err))
	}

	s.logger.WithField("slug", slug).Info("Genre created")
	return genre, nil
}

func (s *catalogService) DeleteGenre(ctx context.Context, actor policy.Actor, slug string) error {
	if err := authorize(s.metrics, actor, policy.ActionDelete, policy.On(policy.ResourceGenre)); err != nil {
		return err
	}

	genre, err := s.genres.FindBySlug(ctx, slug)
	if err != nil {
		return apperr.Internal(err)
	}
	if genre == nil {
		return apperr.NotFound("Genre")
	}
	if err := s.genres.Delete(ctx, genre.ID); err != nil {
		return apperr.Internal(fmt.Errorf("failed to delete genre: %w", err))
	}

	s.logger.WithField("slug", slug).Info("Genre deleted")
	return nil
}
