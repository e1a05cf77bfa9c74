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

// UserInput carries user fields. Nil pointers are left unchanged.
type UserInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *string
}

type UserService interface {
	ListUsers(ctx context.Context, actor policy.Actor, search string) ([]models.User, error)
	GetUser(ctx context.Context, actor policy.Actor, username string) (*models.User, error)
	CreateUser(ctx context.Context, actor policy.Actor, in UserInput) (*models.User, error)
	UpdateUser(ctx context.Context, actor policy.Actor, username string, in UserInput) (*models.User, error)
	DeleteUser(ctx context.Context, actor policy.Actor, username string) error

	// Me returns the actor's own profile.
	Me(ctx context.Context, actor policy.Actor) (*models.User, error)
	// UpdateMe applies a partial profile update. Role is ignored.
	UpdateMe(ctx context.Context, actor policy.Actor, in UserInput) (*models.User, error)
}

type userService struct {
	users   repository.UserRepository
	logger  *logrus.Logger
	metrics *metrics.Metrics
}

func NewUserService(users repository.UserRepository, logger *logrus.Logger, m *metrics.Metrics) UserService {
	return &userService{
		users:   users,
		logger:  logger,
		metrics: m,
	}
}

func roleNames() []string {
	names := make([]string, len(policy.Roles))
	for i, r := range policy.Roles {
		names[i] = r.String()
	}
	return names
}

func (s *userService) ListUsers(ctx context.Context, actor policy.Actor, search string) ([]models.User, error) {
	if err := authorize(s.metrics, actor, policy.ActionRead, policy.On(policy.ResourceUser)); err != nil {
		return nil, err
	}
	users, err := s.users.FindAll(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return users, nil
}

func (s *userService) findByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if user == nil {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, actor policy.Actor, username string) (*models.User, error) {
	if err := authorize(s.metrics, actor, policy.ActionRead, policy.On(policy.ResourceUser)); err != nil {
		return nil, err
	}
	return s.findByUsername(ctx, username)
}

func (s *userService) CreateUser(ctx context.Context, actor policy.Actor, in UserInput) (*models.User, error) {
	if err := authorize(s.metrics, actor, policy.ActionCreate, policy.On(policy.ResourceUser)); err != nil {
		return nil, err
	}

	v := validate.New()
	v.Custom("username", in.Username == nil, "This field is required")
	v.Custom("email", in.Email == nil, "This field is required")
	if v.HasErrors() {
		return nil, v.Err()
	}

	user := &models.User{Role: policy.RoleUser}
	if err := s.apply(ctx, user, in, true); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, s.duplicateErr(ctx, user)
		}
		return nil, apperr.Internal(fmt.Errorf("failed to create user: %w", err))
	}

	s.logger.WithFields(logrus.Fields{
		"username": user.Username,
		"role":     user.Role,
		"actor":    actor.Username,
	}).Info("User created")
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, actor policy.Actor, username string, in UserInput) (*models.User, error) {
	if err := authorize(s.metrics, actor, policy.ActionUpdate, policy.On(policy.ResourceUser)); err != nil {
		return nil, err
	}
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, user, in, true); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"username": user.Username, "actor": actor.Username}).Info("User updated")
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, actor policy.Actor, username string) error {
	if err := authorize(s.metrics, actor, policy.ActionDelete, policy.On(policy.ResourceUser)); err != nil {
		return err
	}
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return apperr.Internal(fmt.Errorf("failed to delete user: %w", err))
	}

	s.logger.WithFields(logrus.Fields{"username": username, "actor": actor.Username}).Info("User deleted")
	return nil
}

func (s *userService) me(ctx context.Context, actor policy.Actor, action policy.Action) (*models.User, error) {
	if err := authorize(s.metrics, actor, action, policy.On(policy.ResourceProfile)); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if user == nil {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

func (s *userService) Me(ctx context.Context, actor policy.Actor) (*models.User, error) {
	return s.me(ctx, actor, policy.ActionRead)
}

func (s *userService) UpdateMe(ctx context.Context, actor policy.Actor, in UserInput) (*models.User, error) {
	user, err := s.me(ctx, actor, policy.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, user, in, false); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) save(ctx context.Context, user *models.User, in UserInput, allowRole bool) error {
	if err := s.apply(ctx, user, in, allowRole); err != nil {
		return err
	}
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return s.duplicateErr(ctx, user)
		}
		return apperr.Internal(fmt.Errorf("failed to update user: %w", err))
	}
	return nil
}

// apply validates in and copies it onto user, checking that a new username
// or email is not owned by someone else.
func (s *userService) apply(ctx context.Context, user *models.User, in UserInput, allowRole bool) error {
	v := validate.New()
	if in.Username != nil {
		v.Username("username", *in.Username)
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		in.Email = &email
		v.Required("email", email).Email("email", email)
	}
	if in.FirstName != nil {
		v.MaxLen("first_name", *in.FirstName, validate.UsernameMaxLength)
	}
	if in.LastName != nil {
		v.MaxLen("last_name", *in.LastName, validate.UsernameMaxLength)
	}
	if allowRole && in.Role != nil {
		v.OneOf("role", *in.Role, roleNames()...)
	}
	if err := v.Err(); err != nil {
		return err
	}

	if in.Username != nil && *in.Username != user.Username {
		other, err := s.users.FindByUsername(ctx, *in.Username)
		if err != nil {
			return apperr.Internal(err)
		}
		if other != nil {
			return ErrUsernameTaken
		}
		user.Username = *in.Username
	}
	if in.Email != nil && *in.Email != user.Email {
		other, err := s.users.FindByEmail(ctx, *in.Email)
		if err != nil {
			return apperr.Internal(err)
		}
		if other != nil {
			return ErrEmailTaken
		}
		user.Email = *in.Email
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if allowRole && in.Role != nil {
		user.Role = policy.Role(*in.Role)
	}
	return nil
}

// duplicateErr picks the conflict to report after the unique index
// rejected a write.
func (s *userService) duplicateErr(ctx context.Context, user *models.User) error {
	other, err := s.users.FindByUsername(ctx, user.Username)
	if err == nil && other != nil && other.ID != user.ID {
		return ErrUsernameTaken
	}
	return ErrEmailTaken
}
