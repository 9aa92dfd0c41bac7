package project

import (
	"context"
	"log/slog"
	"time"

	errs "github.com/frahmantamala/project-expenses/internal"
	"github.com/frahmantamala/project-expenses/internal/core/common/validation"
	projectDatamodel "github.com/frahmantamala/project-expenses/internal/core/datamodel/project"
	"github.com/frahmantamala/project-expenses/internal/core/events"
)

type RepositoryAPI interface {
	FindByOwner(ctx context.Context, ownerID string) ([]*projectDatamodel.Project, error)
	FindByID(ctx context.Context, id, ownerID string) (*projectDatamodel.Project, error)
	Create(ctx context.Context, p *projectDatamodel.Project) error
	Update(ctx context.Context, p *projectDatamodel.Project) (bool, error)
	Delete(ctx context.Context, id, ownerID string) (bool, error)
}

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, publisher: publisher, logger: logger, now: time.Now}
}

func (s *Service) ListProjects(ctx context.Context, ownerID string) ([]Project, error) {
	if err := validation.ValidateOwnerID(ownerID); err != nil {
		return nil, err
	}

	rows, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list projects", "error", err, "user_id", ownerID)
		return nil, errs.NewPersistenceError("Failed to fetch projects", err)
	}

	projects := make([]Project, 0, len(rows))
	for _, row := range rows {
		projects = append(projects, FromDataModel(row))
	}
	return projects, nil
}

func (s *Service) GetProject(ctx context.Context, id, ownerID string) (*Project, error) {
	if err := validation.ValidateOwnerID(ownerID); err != nil {
		return nil, err
	}

	row, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		s.logger.Error("failed to get project", "error", err, "project_id", id)
		return nil, errs.NewPersistenceError("Failed to fetch project", err)
	}
	if row == nil {
		return nil, errs.ErrProjectNotFound
	}
	p := FromDataModel(row)
	return &p, nil
}

func (s *Service) CreateProject(ctx context.Context, req ProjectRequest) (*Project, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := NewProject(req, s.now())
	if err := s.repo.Create(ctx, ToDataModel(p)); err != nil {
		s.logger.Error("failed to create project", "error", err, "user_id", req.UserID)
		return nil, errs.NewPersistenceError("Failed to create project", err)
	}

	s.publish(ctx, p.ID, p.UserID, events.ActionCreated)
	s.logger.Info("project created", "project_id", p.ID, "user_id", p.UserID)
	return &p, nil
}

func (s *Service) UpdateProject(ctx context.Context, id string, req ProjectRequest) (*Project, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.FindByID(ctx, id, req.UserID)
	if err != nil {
		s.logger.Error("failed to load project for update", "error", err, "project_id", id)
		return nil, errs.NewPersistenceError("Failed to update project", err)
	}
	if row == nil {
		return nil, errs.ErrUpdateFailed
	}

	revised := FromDataModel(row).Revise(req, s.now())
	matched, err := s.repo.Update(ctx, ToDataModel(revised))
	if err != nil {
		s.logger.Error("failed to update project", "error", err, "project_id", id)
		return nil, errs.NewPersistenceError("Failed to update project", err)
	}
	if !matched {
		return nil, errs.ErrUpdateFailed
	}

	s.publish(ctx, id, req.UserID, events.ActionUpdated)
	s.logger.Info("project updated", "project_id", id, "user_id", req.UserID)
	return &revised, nil
}

func (s *Service) DeleteProject(ctx context.Context, id, ownerID string) error {
	if err := validation.ValidateOwnerID(ownerID); err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id, ownerID)
	if err != nil {
		s.logger.Error("failed to delete project", "error", err, "project_id", id)
		return errs.NewPersistenceError("Failed to delete project", err)
	}
	if !deleted {
		return errs.ErrProjectNotFound
	}

	s.publish(ctx, id, ownerID, events.ActionDeleted)
	s.logger.Info("project deleted", "project_id", id, "user_id", ownerID)
	return nil
}

func (s *Service) publish(ctx context.Context, id, ownerID string, action events.Action) {
	event := events.NewRecordChangedEvent(events.EventTypeProjectChanged, id, ownerID, action)
	if err := s.publisher.PublishSync(ctx, event); err != nil {
		s.logger.Warn("project change subscriber failed", "error", err, "project_id", id)
	}
}
