package expense

import (
	"context"
	"log/slog"
	"time"

	errs "github.com/frahmantamala/project-expenses/internal"
	"github.com/frahmantamala/project-expenses/internal/core/common/validation"
	"github.com/frahmantamala/project-expenses/internal/core/events"
)

// Repository is the expense data access contract. Every lookup is scoped to
// the owner: a record owned by someone else behaves exactly like a missing one.
type Repository interface {
	FindByID(ctx context.Context, id, ownerID string) (*Expense, error)
	FindByOwner(ctx context.Context, ownerID string) ([]Expense, error)
	FindByOwnerPaginated(ctx context.Context, ownerID string, page, size int) (*Page, error)
	Create(ctx context.Context, e Expense) (*Expense, error)
	Update(ctx context.Context, e Expense) (*Expense, error)
	Delete(ctx context.Context, id, ownerID string) (bool, error)
}

type Service struct {
	repo      Repository
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) ListExpenses(ctx context.Context, ownerID string) ([]Expense, error) {
	if err := validation.ValidateOwnerID(ownerID); err != nil {
		return nil, err
	}

	expenses, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list expenses", "error", err, "user_id", ownerID)
		return nil, errs.NewPersistenceError("Failed to fetch expenses", err)
	}
	return nonNil(expenses), nil
}

func (s *Service) ListExpensesPage(ctx context.Context, ownerID string, page, size int) (*Page, error) {
	if err := validation.ValidateOwnerID(ownerID); err != nil {
		return nil, err
	}
	if err := validation.ValidatePage(page, size); err != nil {
		return nil, err
	}

	result, err := s.repo.FindByOwnerPaginated(ctx, ownerID, page, size)
	if err != nil {
		s.logger.Error("failed to page expenses", "error", err, "user_id", ownerID, "page", page, "size", size)
		return nil, errs.NewPersistenceError("Failed to fetch expenses", err)
	}
	return result, nil
}

func (s *Service) GetExpense(ctx context.Context, id, ownerID string) (*Expense, error) {
	if err := validation.ValidateOwnerID(ownerID); err != nil {
		return nil, err
	}

	e, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		s.logger.Error("failed to get expense", "error", err, "expense_id", id, "user_id", ownerID)
		return nil, errs.NewPersistenceError("Failed to fetch expense", err)
	}
	if e == nil {
		return nil, errs.ErrExpenseNotFound
	}
	return e, nil
}

func (s *Service) CreateExpense(ctx context.Context, req ExpenseRequest) (*Expense, error) {
	if err := req.Validate(); err != nil {
		s.logger.Warn("expense validation failed", "error", err, "user_id", req.UserID)
		return nil, err
	}

	created, err := s.repo.Create(ctx, NewExpense(req, s.now()))
	if err != nil {
		s.logger.Error("failed to create expense", "error", err, "user_id", req.UserID)
		return nil, errs.NewPersistenceError("Failed to create expense", err)
	}

	s.publish(ctx, created, events.ActionCreated)
	s.logger.Info("expense created",
		"expense_id", created.ID,
		"user_id", created.UserID,
		"amount", created.Amount.String())
	return created, nil
}

// UpdateExpense replaces the owned expense id with the values in req. The id
// from the path always wins over anything the body carries.
func (s *Service) UpdateExpense(ctx context.Context, id string, req ExpenseRequest) (*Expense, error) {
	if err := req.Validate(); err != nil {
		s.logger.Warn("expense validation failed", "error", err, "expense_id", id)
		return nil, err
	}

	current, err := s.repo.FindByID(ctx, id, req.UserID)
	if err != nil {
		s.logger.Error("failed to load expense for update", "error", err, "expense_id", id, "user_id", req.UserID)
		return nil, errs.NewPersistenceError("Failed to update expense", err)
	}
	if current == nil {
		return nil, errs.ErrUpdateFailed
	}

	updated, err := s.repo.Update(ctx, current.Revise(req, s.now()))
	if err != nil {
		s.logger.Error("failed to update expense", "error", err, "expense_id", id, "user_id", req.UserID)
		if appErr, ok := errs.IsAppError(err); ok {
			return nil, appErr
		}
		return nil, errs.NewPersistenceError("Failed to update expense", err)
	}

	s.publish(ctx, updated, events.ActionUpdated)
	s.logger.Info("expense updated", "expense_id", id, "user_id", req.UserID)
	return updated, nil
}

func (s *Service) DeleteExpense(ctx context.Context, id, ownerID string) error {
	if err := validation.ValidateOwnerID(ownerID); err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id, ownerID)
	if err != nil {
		s.logger.Error("failed to delete expense", "error", err, "expense_id", id, "user_id", ownerID)
		return errs.NewPersistenceError("Failed to delete expense", err)
	}
	if !deleted {
		return errs.ErrExpenseNotFound
	}

	s.publish(ctx, &Expense{ID: id, UserID: ownerID}, events.ActionDeleted)
	s.logger.Info("expense deleted", "expense_id", id, "user_id", ownerID)
	return nil
}

// publish announces a committed write. The write already succeeded, so a
// subscriber failure is logged and not returned to the caller.
func (s *Service) publish(ctx context.Context, e *Expense, action events.Action) {
	event := events.NewRecordChangedEvent(events.EventTypeExpenseChanged, e.ID, e.UserID, action)
	if err := s.publisher.PublishSync(ctx, event); err != nil {
		s.logger.Warn("expense change subscriber failed", "error", err, "expense_id", e.ID)
	}
}
