package expense

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/project-expenses/internal/transport"
	"github.com/frahmantamala/project-expenses/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListExpenses(ctx context.Context, ownerID string) ([]Expense, error)
	ListExpensesPage(ctx context.Context, ownerID string, page, size int) (*Page, error)
	GetExpense(ctx context.Context, id, ownerID string) (*Expense, error)
	CreateExpense(ctx context.Context, req ExpenseRequest) (*Expense, error)
	UpdateExpense(ctx context.Context, id string, req ExpenseRequest) (*Expense, error)
	DeleteExpense(ctx context.Context, id, ownerID string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// Routes mounts the expense endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.ListExpenses)
	r.Get("/paginated", h.ListExpensesPage)
	r.Get("/{id}", h.GetExpense)
	r.Post("/", h.CreateExpense)
	r.Put("/{id}", h.UpdateExpense)
	r.Delete("/{id}", h.DeleteExpense)
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.Service.ListExpenses(r.Context(), h.OwnerID(r))
	if err != nil {
		h.WriteFailure(w, err, "Failed to fetch expenses")
		return
	}

	h.WriteSuccess(w, transport.Envelope{"expenses": nonNil(expenses)})
}

func (h *Handler) ListExpensesPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.QueryInt(r, "page", DefaultPage)
	if err != nil {
		h.WriteFailure(w, err, "Invalid page")
		return
	}
	size, err := h.QueryInt(r, "size", DefaultPageSize)
	if err != nil {
		h.WriteFailure(w, err, "Invalid size")
		return
	}

	result, err := h.Service.ListExpensesPage(r.Context(), h.OwnerID(r), page, size)
	if err != nil {
		h.WriteFailure(w, err, "Failed to fetch expenses")
		return
	}

	h.WriteJSON(w, http.StatusOK, NewPageResponse(result))
}

func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	e, err := h.Service.GetExpense(r.Context(), id, h.OwnerID(r))
	if err != nil {
		h.WriteFailure(w, err, "Failed to fetch expense")
		return
	}

	h.WriteJSON(w, http.StatusOK, DetailResponse{Expense: e, Success: true})
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req ExpenseRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteFailure(w, err, "Invalid request body")
		return
	}

	created, err := h.Service.CreateExpense(r.Context(), req)
	if err != nil {
		h.WriteFailure(w, err, "Failed to create expense")
		return
	}

	h.Logger.Info("CreateExpense: expense created", "expense_id", created.ID, "user_id", created.UserID)
	h.WriteJSON(w, http.StatusOK, DetailResponse{
		Expense: created,
		Message: "Expense created successfully",
		Success: true,
	})
}

func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ExpenseRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteFailure(w, err, "Invalid request body")
		return
	}

	updated, err := h.Service.UpdateExpense(r.Context(), id, req)
	if err != nil {
		h.WriteFailure(w, err, "Failed to update expense")
		return
	}

	h.WriteJSON(w, http.StatusOK, DetailResponse{
		Expense: updated,
		Message: "Expense updated successfully",
		Success: true,
	})
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Service.DeleteExpense(r.Context(), id, h.OwnerID(r)); err != nil {
		h.WriteFailure(w, err, "Failed to delete expense")
		return
	}

	h.WriteSuccess(w, transport.Envelope{"message": "Expense deleted successfully"})
}
