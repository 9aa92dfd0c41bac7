package user

import (
	"context"
	"errors"
	"log/slog"
	"time"

	errs "github.com/frahmantamala/project-expenses/internal"
	userDatamodel "github.com/frahmantamala/project-expenses/internal/core/datamodel/user"
	"github.com/frahmantamala/project-expenses/internal/core/events"
)

var ErrEmailTaken = errs.NewConflictError("Email is already registered", errs.ErrCodeDuplicate)

type Repository interface {
	FindAll(ctx context.Context) ([]*userDatamodel.User, error)
	FindByID(ctx context.Context, id string) (*userDatamodel.User, error)
	FindByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	Create(ctx context.Context, u *userDatamodel.User) error
	Update(ctx context.Context, u *userDatamodel.User) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type Service struct {
	repo       Repository
	publisher  events.Publisher
	logger     *slog.Logger
	bcryptCost int
	now        func() time.Time
}

func NewService(repo Repository, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, publisher: publisher, logger: logger, now: time.Now}
}

// WithBcryptCost overrides the hashing cost; tests use bcrypt.MinCost.
func (s *Service) WithBcryptCost(cost int) *Service {
	s.bcryptCost = cost
	return s
}

func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, errs.NewPersistenceError("Failed to fetch users", err)
	}
	users := make([]User, 0, len(rows))
	for _, row := range rows {
		users = append(users, FromDataModel(row))
	}
	return users, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get user", "error", err, "user_id", id)
		return nil, errs.NewPersistenceError("Failed to fetch user", err)
	}
	if row == nil {
		return nil, errs.ErrUserNotFound
	}
	u := FromDataModel(row)
	return &u, nil
}

func (s *Service) CreateUser(ctx context.Context, req UserRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, req.Email, ""); err != nil {
		return nil, err
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	u := NewUser(req.Name, req.Email, hash, s.now())
	if err := s.repo.Create(ctx, ToDataModel(u)); err != nil {
		if errors.Is(err, userDatamodel.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		s.logger.Error("failed to create user", "error", err, "email", req.Email)
		return nil, errs.NewPersistenceError("Failed to create user", err)
	}

	s.publish(ctx, u.ID, events.ActionCreated)
	s.logger.Info("user created", "user_id", u.ID)
	return &u, nil
}

func (s *Service) UpdateUser(ctx context.Context, id string, req UserRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to load user for update", "error", err, "user_id", id)
		return nil, errs.NewPersistenceError("Failed to update user", err)
	}
	if row == nil {
		return nil, errs.ErrUserNotFound
	}
	if err := s.ensureEmailFree(ctx, req.Email, id); err != nil {
		return nil, err
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	updated := FromDataModel(row).WithProfile(req.Name, req.Email, hash, s.now())
	matched, err := s.repo.Update(ctx, ToDataModel(updated))
	if err != nil {
		if errors.Is(err, userDatamodel.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		s.logger.Error("failed to update user", "error", err, "user_id", id)
		return nil, errs.NewPersistenceError("Failed to update user", err)
	}
	if !matched {
		return nil, errs.ErrUpdateFailed
	}

	s.publish(ctx, id, events.ActionUpdated)
	s.logger.Info("user updated", "user_id", id)
	return &updated, nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete user", "error", err, "user_id", id)
		return errs.NewPersistenceError("Failed to delete user", err)
	}
	if !deleted {
		return errs.ErrUserNotFound
	}

	s.publish(ctx, id, events.ActionDeleted)
	s.logger.Info("user deleted", "user_id", id)
	return nil
}

func (s *Service) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Error("failed to check email", "error", err)
		return errs.NewPersistenceError("Failed to check email", err)
	}
	if existing != nil && existing.ID != selfID {
		return ErrEmailTaken
	}
	return nil
}

func (s *Service) hash(password string) (string, error) {
	if password == "" {
		return "", nil
	}
	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return "", errs.NewInternalError("Failed to hash password", err)
	}
	return hash, nil
}

func (s *Service) publish(ctx context.Context, id string, action events.Action) {
	event := events.NewRecordChangedEvent(events.EventTypeUserChanged, id, id, action)
	if err := s.publisher.PublishSync(ctx, event); err != nil {
		s.logger.Warn("user change subscriber failed", "error", err, "user_id", id)
	}
}
