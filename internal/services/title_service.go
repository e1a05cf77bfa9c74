package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"review-backend/internal/apperr"
	"review-backend/internal/metrics"
	"review-backend/internal/models"
	"review-backend/internal/policy"
	"review-backend/internal/rating"
	"review-backend/internal/repository"
	"review-backend/internal/validate"

	"github.com/sirupsen/logrus"
)

// TitleInput carries title fields. Nil pointers are left unchanged on
// update and are required on create, except Description and Category.
type TitleInput struct {
	Name        *string
	Year        *int
	Description *string
	Genres      *[]string
	Category    *string
	PosterURL   *string
}

type TitleService interface {
	ListTitles(ctx context.Context, filter models.TitleFilter) ([]models.Title, error)
	GetTitle(ctx context.Context, id uint) (*models.Title, error)
	CreateTitle(ctx context.Context, actor policy.Actor, in TitleInput) (*models.Title, error)
	UpdateTitle(ctx context.Context, actor policy.Actor, id uint, in TitleInput) (*models.Title, error)
	DeleteTitle(ctx context.Context, actor policy.Actor, id uint) error
	// PresignPoster returns an upload URL for a poster image and the public
	// URL to store on the title afterwards.
	PresignPoster(ctx context.Context, actor policy.Actor, filename string) (*PosterUpload, error)
}

type PosterUpload struct {
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
}

var errPostersDisabled = errors.New("poster storage is disabled")

type titleService struct {
	titles     repository.TitleRepository
	categories repository.CategoryRepository
	genres     repository.GenreRepository
	posters    PosterStorage
	logger     *logrus.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

// NewTitleService builds the title service. posters may be nil when object
// storage is disabled.
func NewTitleService(
	titles repository.TitleRepository,
	categories repository.CategoryRepository,
	genres repository.GenreRepository,
	posters PosterStorage,
	logger *logrus.Logger,
	m *metrics.Metrics,
) TitleService {
	return &titleService{
		titles:     titles,
		categories: categories,
		genres:     genres,
		posters:    posters,
		logger:     logger,
		metrics:    m,
		now:        time.Now,
	}
}

func (s *titleService) ListTitles(ctx context.Context, filter models.TitleFilter) ([]models.Title, error) {
	titles, err := s.titles.FindAll(ctx, filter)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if err := s.attachRatings(ctx, titles); err != nil {
		return nil, err
	}
	return titles, nil
}

func (s *titleService) GetTitle(ctx context.Context, id uint) (*models.Title, error) {
	title, err := s.titles.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if title == nil {
		return nil, apperr.NotFound("Title")
	}

	one := []models.Title{*title}
	if err := s.attachRatings(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// attachRatings recomputes every title's rating from its current reviews.
func (s *titleService) attachRatings(ctx context.Context, titles []models.Title) error {
	if len(titles) == 0 {
		return nil
	}
	ids := make([]uint, len(titles))
	for i := range titles {
		ids[i] = titles[i].ID
	}

	scores, err := s.titles.Scores(ctx, ids)
	if err != nil {
		return apperr.Internal(fmt.Errorf("failed to load review scores: %w", err))
	}
	ratings := rating.ByTitle(scores)
	for i := range titles {
		titles[i].Rating = ratings[titles[i].ID]
	}
	return nil
}

func (s *titleService) CreateTitle(ctx context.Context, actor policy.Actor, in TitleInput) (*models.Title, error) {
	if err := authorize(s.metrics, actor, policy.ActionCreate, policy.On(policy.ResourceTitle)); err != nil {
		return nil, err
	}

	v := validate.New()
	v.Custom("name", in.Name == nil, "This field is required")
	v.Custom("year", in.Year == nil, "This field is required")
	v.Custom("genre", in.Genres == nil, "This field is required")
	if v.HasErrors() {
		return nil, v.Err()
	}

	title := &models.Title{}
	if err := s.apply(ctx, title, in); err != nil {
		return nil, err
	}
	if err := s.titles.Create(ctx, title); err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to create title: %w", err))
	}

	s.logger.WithFields(logrus.Fields{"id": title.ID, "name": title.Name}).Info("Title created")
	return s.GetTitle(ctx, title.ID)
}

func (s *titleService) UpdateTitle(ctx context.Context, actor policy.Actor, id uint, in TitleInput) (*models.Title, error) {
	if err := authorize(s.metrics, actor, policy.ActionUpdate, policy.On(policy.ResourceTitle)); err != nil {
		return nil, err
	}

	title, err := s.titles.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if title == nil {
		return nil, apperr.NotFound("Title")
	}

	oldPoster := title.PosterURL
	if err := s.apply(ctx, title, in); err != nil {
		return nil, err
	}
	if err := s.titles.Update(ctx, title); err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to update title: %w", err))
	}
	if oldPoster != "" && oldPoster != title.PosterURL {
		s.removePoster(ctx, oldPoster)
	}

	s.logger.WithField("id", id).Info("Title updated")
	return s.GetTitle(ctx, id)
}

func (s *titleService) DeleteTitle(ctx context.Context, actor policy.Actor, id uint) error {
	if err := authorize(s.metrics, actor, policy.ActionDelete, policy.On(policy.ResourceTitle)); err != nil {
		return err
	}

	title, err := s.titles.FindByID(ctx, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if title == nil {
		return apperr.NotFound("Title")
	}
	if err := s.titles.Delete(ctx, id); err != nil {
		return apperr.Internal(fmt.Errorf("failed to delete title: %w", err))
	}
	if title.PosterURL != "" {
		s.removePoster(ctx, title.PosterURL)
	}

	s.logger.WithField("id", id).Info("Title deleted")
	return nil
}

func (s *titleService) PresignPoster(ctx context.Context, actor policy.Actor, filename string) (*PosterUpload, error) {
	if err := authorize(s.metrics, actor, policy.ActionUpdate, policy.On(policy.ResourceTitle)); err != nil {
		return nil, err
	}
	filename = strings.TrimSpace(filename)
	if err := validate.New().Required("filename", filename).MaxLen("filename", filename, validate.NameMaxLength).Err(); err != nil {
		return nil, err
	}
	if s.posters == nil {
		return nil, apperr.Internal(errPostersDisabled)
	}

	uploadURL, publicURL, err := s.posters.PresignUpload(ctx, filename)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &PosterUpload{UploadURL: uploadURL, PublicURL: publicURL}, nil
}

func (s *titleService) removePoster(ctx context.Context, url string) {
	if s.posters == nil {
		return
	}
	if err := s.posters.Delete(ctx, url); err != nil {
		s.logger.WithError(err).WithField("poster_url", url).Warn("Failed to delete old poster")
	}
}

// apply validates in and copies it onto title, resolving slugs.
func (s *titleService) apply(ctx context.Context, title *models.Title, in TitleInput) error {
	v := validate.New()
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		v.Required("name", name).MaxLen("name", name, validate.NameMaxLength)
		title.Name = name
	}
	if in.Year != nil {
		v.Custom("year", *in.Year > s.now().Year(), "Year cannot be in the future")
		title.Year = *in.Year
	}
	if in.Description != nil {
		title.Description = *in.Description
	}
	if in.PosterURL != nil {
		title.PosterURL = strings.TrimSpace(*in.PosterURL)
	}
	if in.Genres != nil {
		v.Custom("genre", len(*in.Genres) == 0, "At least one genre is required")
	}
	if err := v.Err(); err != nil {
		return err
	}

	if in.Category != nil {
		if *in.Category == "" {
			title.CategoryID = nil
		} else {
			category, err := s.categories.FindBySlug(ctx, *in.Category)
			if err != nil {
				return apperr.Internal(err)
			}
			if category == nil {
				return apperr.Validation("Validation failed", apperr.FieldError{
					Field: "category", Message: fmt.Sprintf("Category %q does not exist", *in.Category),
				})
			}
			title.CategoryID = &category.ID
		}
		title.Category = nil
	}

	if in.Genres != nil {
		slugs := dedupe(*in.Genres)
		genres, err := s.genres.FindBySlugs(ctx, slugs)
		if err != nil {
			return apperr.Internal(err)
		}
		if missing := missingSlugs(slugs, genres); len(missing) > 0 {
			return apperr.Validation("Validation failed", apperr.FieldError{
				Field: "genre", Message: fmt.Sprintf("Unknown genres: %s", strings.Join(missing, ", ")),
			})
		}
		title.Genres = genres
	}
	return nil
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func missingSlugs(slugs []string, genres []models.Genre) []string {
	found := make(map[string]bool, len(genres))
	for _, g := range genres {
		found[g.Slug] = true
	}
	var missing []string
	for _, slug := range slugs {
		if !found[slug] {
			missing = append(missing, slug)
		}
	}
	return missing
}
