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
	"review-backend/internal/repository"
	"review-backend/internal/validate"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	// RequestSignup creates or reuses the (username, email) identity and
	// issues a fresh confirmation code delivered out of band.
	RequestSignup(ctx context.Context, username, email string) (*models.User, error)
	// Confirm exchanges the newest confirmation code for an access token.
	Confirm(ctx context.Context, username, code string) (string, error)
	// Authenticate resolves a bearer token to the current user record.
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type authService struct {
	users     repository.UserRepository
	codes     repository.ConfirmationRepository
	tokens    TokenService
	mailer    Mailer
	generator CodeGenerator
	codeTTL   time.Duration
	logger    *logrus.Logger
	metrics   *metrics.Metrics

	hashCost int
	now      func() time.Time
	// dispatch runs code delivery; it must not block the caller.
	dispatch func(func())
}

func NewAuthService(
	users repository.UserRepository,
	codes repository.ConfirmationRepository,
	tokens TokenService,
	mailer Mailer,
	generator CodeGenerator,
	codeTTL time.Duration,
	logger *logrus.Logger,
	m *metrics.Metrics,
) AuthService {
	return &authService{
		users:     users,
		codes:     codes,
		tokens:    tokens,
		mailer:    mailer,
		generator: generator,
		codeTTL:   codeTTL,
		logger:    logger,
		metrics:   m,
		hashCost:  bcrypt.DefaultCost,
		now:       func() time.Time { return time.Now().UTC() },
		dispatch:  func(fn func()) { go fn() },
	}
}

func (s *authService) RequestSignup(ctx context.Context, username, email string) (*models.User, error) {
	user, err := s.requestSignup(ctx, username, email)
	if err != nil {
		s.metrics.Signups.WithLabelValues(apperr.KindOf(err).String()).Inc()
		return nil, err
	}
	s.metrics.Signups.WithLabelValues("ok").Inc()
	return user, nil
}

func (s *authService) requestSignup(ctx context.Context, username, email string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if err := validate.New().
		Username("username", username).
		Required("email", email).
		Email("email", email).
		Err(); err != nil {
		return nil, err
	}

	user, err := s.resolveIdentity(ctx, username, email)
	if err != nil {
		return nil, err
	}

	code, err := s.generator.Generate()
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to generate confirmation code: %w", err))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.hashCost)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to hash confirmation code: %w", err))
	}

	now := s.now()
	record := &models.ConfirmationCode{
		UserID:    user.ID,
		CodeHash:  string(hash),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.codeTTL),
	}
	if err := s.codes.Issue(ctx, record); err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to store confirmation code: %w", err))
	}

	s.deliver(user.Email, user.Username, code)

	s.logger.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("Signup requested")

	return user, nil
}

// resolveIdentity returns the existing user owning exactly this pair, or
// creates one. A username or email owned by a different identity is a
// conflict.
func (s *authService) resolveIdentity(ctx context.Context, username, email string) (*models.User, error) {
	existing, err := s.matchPair(ctx, username, email)
	if err != nil || existing != nil {
		return existing, err
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Role:     policy.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Internal(fmt.Errorf("failed to create user: %w", err))
		}
		// lost a race with a concurrent signup; decide on the committed rows
		existing, err := s.matchPair(ctx, username, email)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrUsernameTaken
		}
		return existing, nil
	}
	return user, nil
}

// matchPair returns the user owning both username and email, nil when
// neither is taken, or a conflict error.
func (s *authService) matchPair(ctx context.Context, username, email string) (*models.User, error) {
	byName, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if byName != nil {
		if byName.Email == email {
			return byName, nil
		}
		return nil, ErrUsernameTaken
	}

	byEmail, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if byEmail != nil {
		return nil, ErrEmailTaken
	}
	return nil, nil
}

func (s *authService) deliver(email, username, code string) {
	s.dispatch(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.mailer.SendConfirmationCode(ctx, email, username, code); err != nil {
			s.metrics.CodeDeliveries.WithLabelValues("failed").Inc()
			s.logger.WithError(err).WithField("username", username).Error("Failed to deliver confirmation code")
			return
		}
		s.metrics.CodeDeliveries.WithLabelValues("ok").Inc()
	})
}

func (s *authService) Confirm(ctx context.Context, username, code string) (string, error) {
	token, err := s.confirm(ctx, username, code)
	if err != nil {
		s.metrics.Confirmations.WithLabelValues(apperr.KindOf(err).String()).Inc()
		return "", err
	}
	s.metrics.Confirmations.WithLabelValues("ok").Inc()
	return token, nil
}

func (s *authService) confirm(ctx context.Context, username, code string) (string, error) {
	code = strings.TrimSpace(code)
	if err := validate.New().
		Required("username", username).
		Required("confirmation_code", code).
		Err(); err != nil {
		return "", err
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", apperr.Internal(err)
	}
	if user == nil {
		return "", apperr.NotFound("User")
	}

	latest, err := s.codes.Latest(ctx, user.ID)
	if err != nil {
		return "", apperr.Internal(err)
	}
	now := s.now()
	if latest == nil || !latest.Usable(now) {
		return "", ErrInvalidCode
	}
	if bcrypt.CompareHashAndPassword([]byte(latest.CodeHash), []byte(code)) != nil {
		return "", ErrInvalidCode
	}

	consumed, err := s.codes.Consume(ctx, latest.ID, now)
	if err != nil {
		return "", apperr.Internal(err)
	}
	if !consumed {
		return "", ErrInvalidCode
	}

	if !user.IsConfirmed {
		user.IsConfirmed = true
		if err := s.users.Update(ctx, user); err != nil {
			return "", apperr.Internal(fmt.Errorf("failed to confirm user: %w", err))
		}
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", apperr.Internal(err)
	}

	s.logger.WithField("user_id", user.ID).Info("Confirmation code exchanged for token")
	return token, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired token").WithCause(err)
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if user == nil {
		return nil, apperr.Unauthorized("User not found")
	}
	return user, nil
}
