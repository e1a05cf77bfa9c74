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

// ReviewPatch is a partial review update. Author and title never change.
type ReviewPatch struct {
	Text  *string
	Score *int
}

type ReviewService interface {
	ListReviews(ctx context.Context, titleID uint) ([]models.Review, error)
	GetReview(ctx context.Context, titleID, reviewID uint) (*models.Review, error)
	// SubmitReview stores the actor's single review of a title.
	SubmitReview(ctx context.Context, actor policy.Actor, titleID uint, score int, text string) (*models.Review, error)
	UpdateReview(ctx context.Context, actor policy.Actor, titleID, reviewID uint, patch ReviewPatch) (*models.Review, error)
	DeleteReview(ctx context.Context, actor policy.Actor, titleID, reviewID uint) error

	ListComments(ctx context.Context, titleID, reviewID uint) ([]models.Comment, error)
	GetComment(ctx context.Context, titleID, reviewID, commentID uint) (*models.Comment, error)
	AddComment(ctx context.Context, actor policy.Actor, titleID, reviewID uint, text string) (*models.Comment, error)
	UpdateComment(ctx context.Context, actor policy.Actor, titleID, reviewID, commentID uint, text string) (*models.Comment, error)
	DeleteComment(ctx context.Context, actor policy.Actor, titleID, reviewID, commentID uint) error
}

type reviewService struct {
	titles   repository.TitleRepository
	reviews  repository.ReviewRepository
	comments repository.CommentRepository
	logger   *logrus.Logger
	metrics  *metrics.Metrics
}

func NewReviewService(
	titles repository.TitleRepository,
	reviews repository.ReviewRepository,
	comments repository.CommentRepository,
	logger *logrus.Logger,
	m *metrics.Metrics,
) ReviewService {
	return &reviewService{
		titles:   titles,
		reviews:  reviews,
		comments: comments,
		logger:   logger,
		metrics:  m,
	}
}

// checkScore reports an out-of-range score as ErrInvalidScore.
func checkScore(score int) error {
	if err := validate.New().Range("score", score, validate.ScoreMin, validate.ScoreMax).Err(); err != nil {
		return ErrInvalidScore.WithCause(err)
	}
	return nil
}

func (s *reviewService) requireTitle(ctx context.Context, titleID uint) error {
	title, err := s.titles.FindByID(ctx, titleID)
	if err != nil {
		return apperr.Internal(err)
	}
	if title == nil {
		return apperr.NotFound("Title")
	}
	return nil
}

func (s *reviewService) findReview(ctx context.Context, titleID, reviewID uint) (*models.Review, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	review, err := s.reviews.FindByID(ctx, titleID, reviewID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if review == nil {
		return nil, apperr.NotFound("Review")
	}
	return review, nil
}

func (s *reviewService) ListReviews(ctx context.Context, titleID uint) ([]models.Review, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	reviews, err := s.reviews.FindByTitle(ctx, titleID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return reviews, nil
}

func (s *reviewService) GetReview(ctx context.Context, titleID, reviewID uint) (*models.Review, error) {
	return s.findReview(ctx, titleID, reviewID)
}

func (s *reviewService) SubmitReview(ctx context.Context, actor policy.Actor, titleID uint, score int, text string) (*models.Review, error) {
	review, err := s.submitReview(ctx, actor, titleID, score, text)
	if err != nil {
		s.metrics.ReviewsSubmitted.WithLabelValues(apperr.KindOf(err).String()).Inc()
		return nil, err
	}
	s.metrics.ReviewsSubmitted.WithLabelValues("ok").Inc()
	return review, nil
}

func (s *reviewService) submitReview(ctx context.Context, actor policy.Actor, titleID uint, score int, text string) (*models.Review, error) {
	if err := authorize(s.metrics, actor, policy.ActionCreate, policy.On(policy.ResourceReview)); err != nil {
		return nil, err
	}
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	if err := checkScore(score); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if err := validate.New().Required("text", text).Err(); err != nil {
		return nil, err
	}

	review := &models.Review{
		AuthorID: actor.UserID,
		TitleID:  titleID,
		Score:    score,
		Text:     text,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateReview
		}
		return nil, apperr.Internal(fmt.Errorf("failed to create review: %w", err))
	}
	review.AuthorName = actor.Username

	s.logger.WithFields(logrus.Fields{
		"review_id": review.ID,
		"title_id":  titleID,
		"author_id": actor.UserID,
		"score":     score,
	}).Info("Review submitted")

	return review, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, actor policy.Actor, titleID, reviewID uint, patch ReviewPatch) (*models.Review, error) {
	if err := authorize(s.metrics, actor, policy.ActionUpdate, policy.On(policy.ResourceReview)); err != nil {
		return nil, err
	}
	review, err := s.findReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := authorize(s.metrics, actor, policy.ActionUpdate, policy.OwnedBy(policy.ResourceReview, review.AuthorID)); err != nil {
		return nil, err
	}

	if patch.Score != nil {
		if err := checkScore(*patch.Score); err != nil {
			return nil, err
		}
		review.Score = *patch.Score
	}
	if patch.Text != nil {
		text := strings.TrimSpace(*patch.Text)
		if err := validate.New().Required("text", text).Err(); err != nil {
			return nil, err
		}
		review.Text = text
	}

	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to update review: %w", err))
	}

	s.logger.WithFields(logrus.Fields{"review_id": reviewID, "actor": actor.Username}).Info("Review updated")
	return review, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, actor policy.Actor, titleID, reviewID uint) error {
	if err := authorize(s.metrics, actor, policy.ActionDelete, policy.On(policy.ResourceReview)); err != nil {
		return err
	}
	review, err := s.findReview(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if err := authorize(s.metrics, actor, policy.ActionDelete, policy.OwnedBy(policy.ResourceReview, review.AuthorID)); err != nil {
		return err
	}

	if err := s.reviews.Delete(ctx, review.ID); err != nil {
		return apperr.Internal(fmt.Errorf("failed to delete review: %w", err))
	}

	s.logger.WithFields(logrus.Fields{"review_id": reviewID, "actor": actor.Username}).Info("Review deleted")
	return nil
}

func (s *reviewService) findComment(ctx context.Context, titleID, reviewID, commentID uint) (*models.Comment, error) {
	if _, err := s.findReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.comments.FindByID(ctx, reviewID, commentID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if comment == nil {
		return nil, apperr.NotFound("Comment")
	}
	return comment, nil
}

func (s *reviewService) ListComments(ctx context.Context, titleID, reviewID uint) ([]models.Comment, error) {
	if _, err := s.findReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comments, err := s.comments.FindByReview(ctx, reviewID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return comments, nil
}

func (s *reviewService) GetComment(ctx context.Context, titleID, reviewID, commentID uint) (*models.Comment, error) {
	return s.findComment(ctx, titleID, reviewID, commentID)
}

func (s *reviewService) AddComment(ctx context.Context, actor policy.Actor, titleID, reviewID uint, text string) (*models.Comment, error) {
	if err := authorize(s.metrics, actor, policy.ActionCreate, policy.On(policy.ResourceComment)); err != nil {
		return nil, err
	}
	if _, err := s.findReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if err := validate.New().Required("text", text).Err(); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		AuthorID: actor.UserID,
		ReviewID: reviewID,
		Text:     text,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to create comment: %w", err))
	}
	comment.AuthorName = actor.Username

	s.logger.WithFields(logrus.Fields{"comment_id": comment.ID, "review_id": reviewID}).Info("Comment added")
	return comment, nil
}

func (s *reviewService) UpdateComment(ctx context.Context, actor policy.Actor, titleID, reviewID, commentID uint, text string) (*models.Comment, error) {
	if err := authorize(s.metrics, actor, policy.ActionUpdate, policy.On(policy.ResourceComment)); err != nil {
		return nil, err
	}
	comment, err := s.findComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := authorize(s.metrics, actor, policy.ActionUpdate, policy.OwnedBy(policy.ResourceComment, comment.AuthorID)); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if err := validate.New().Required("text", text).Err(); err != nil {
		return nil, err
	}
	comment.Text = text
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to update comment: %w", err))
	}
	return comment, nil
}

func (s *reviewService) DeleteComment(ctx context.Context, actor policy.Actor, titleID, reviewID, commentID uint) error {
	if err := authorize(s.metrics, actor, policy.ActionDelete, policy.On(policy.ResourceComment)); err != nil {
		return err
	}
	comment, err := s.findComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if err := authorize(s.metrics, actor, policy.ActionDelete, policy.OwnedBy(policy.ResourceComment, comment.AuthorID)); err != nil {
		return err
	}

	if err := s.comments.Delete(ctx, comment.ID); err != nil {
		return apperr.Internal(fmt.Errorf("failed to delete comment: %w", err))
	}

	s.logger.WithFields(logrus.Fields{"comment_id": commentID, "actor": actor.Username}).Info("Comment deleted")
	return nil
}
