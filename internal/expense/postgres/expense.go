package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	errs "github.com/frahmantamala/project-expenses/internal"
	expenseDatamodel "github.com/frahmantamala/project-expenses/internal/core/datamodel/expense"
	"github.com/frahmantamala/project-expenses/internal/expense"
	"github.com/jmoiron/sqlx"
)

const selectExpenseRows = `
SELECT e.id, e.project_id, e.user_id, e.category, e.description, e.amount,
       e.expense_date, e.receipt_url, e.status, e.created_at, e.updated_at,
       p.id AS joined_project_id, p.name AS project_name,
       p.client_name AS client_name, p.status AS project_status,
       u.id AS joined_user_id, u.name AS user_name, u.email AS user_email
FROM expenses e
LEFT JOIN projects p ON e.project_id = p.id
LEFT JOIN users u ON e.user_id = u.id`

// ExpenseRepository implements expense.Repository with hand-written SQL.
type ExpenseRepository struct {
	db *sqlx.DB
}

func NewExpenseRepository(db *sqlx.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) FindByID(ctx context.Context, id, ownerID string) (*expense.Expense, error) {
	var row expenseDatamodel.ExpenseRow
	query := r.db.Rebind(selectExpenseRows + ` WHERE e.id = ? AND e.user_id = ?`)
	if err := r.db.GetContext(ctx, &row, query, id, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find expense %s: %w", id, err)
	}
	e := expense.FromRow(row)
	return &e, nil
}

func (r *ExpenseRepository) FindByOwner(ctx context.Context, ownerID string) ([]expense.Expense, error) {
	var rows []expenseDatamodel.ExpenseRow
	query := r.db.Rebind(selectExpenseRows + ` WHERE e.user_id = ? ORDER BY e.created_at DESC, e.id DESC LIMIT ?`)
	if err := r.db.SelectContext(ctx, &rows, query, ownerID, expense.LegacyListLimit); err != nil {
		return nil, fmt.Errorf("list expenses for %s: %w", ownerID, err)
	}
	return expense.FromRows(rows), nil
}

func (r *ExpenseRepository) FindByOwnerPaginated(ctx context.Context, ownerID string, page, size int) (*expense.Page, error) {
	var total int
	countQuery := r.db.Rebind(`SELECT COUNT(*) FROM expenses WHERE user_id = ?`)
	if err := r.db.GetContext(ctx, &total, countQuery, ownerID); err != nil {
		return nil, fmt.Errorf("count expenses for %s: %w", ownerID, err)
	}

	var rows []expenseDatamodel.ExpenseRow
	query := r.db.Rebind(selectExpenseRows + ` WHERE e.user_id = ? ORDER BY e.created_at DESC, e.id DESC LIMIT ? OFFSET ?`)
	if err := r.db.SelectContext(ctx, &rows, query, ownerID, size, page*size); err != nil {
		return nil, fmt.Errorf("page expenses for %s: %w", ownerID, err)
	}

	return &expense.Page{
		Expenses:   expense.FromRows(rows),
		TotalCount: total,
		Page:       page,
		Size:       size,
		TotalPages: expense.TotalPages(total, size),
	}, nil
}

func (r *ExpenseRepository) Create(ctx context.Context, e expense.Expense) (*expense.Expense, error) {
	row := expense.ToDataModel(e)
	query := `
INSERT INTO expenses (id, project_id, user_id, category, description, amount,
                      expense_date, receipt_url, status, created_at, updated_at)
VALUES (:id, :project_id, :user_id, :category, :description, :amount,
        :expense_date, :receipt_url, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return nil, fmt.Errorf("insert expense %s: %w", e.ID, err)
	}
	return &e, nil
}

// Update rewrites every mutable column of the owned row and returns the
// stored record with fresh joins. A missing or foreign row yields
// ErrUpdateFailed.
func (r *ExpenseRepository) Update(ctx context.Context, e expense.Expense) (*expense.Expense, error) {
	row := expense.ToDataModel(e)
	query := r.db.Rebind(`
UPDATE expenses
SET project_id = ?, category = ?, description = ?, amount = ?,
    expense_date = ?, receipt_url = ?, status = ?, updated_at = ?
WHERE id = ? AND user_id = ?`)

	res, err := r.db.ExecContext(ctx, query,
		row.ProjectID, row.Category, row.Description, row.Amount,
		row.ExpenseDate, row.ReceiptURL, row.Status, row.UpdatedAt,
		row.ID, row.UserID)
	if err != nil {
		return nil, fmt.Errorf("update expense %s: %w", e.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update expense %s: %w", e.ID, err)
	}
	if n == 0 {
		return nil, errs.ErrUpdateFailed
	}

	stored, err := r.FindByID(ctx, e.ID, e.UserID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, errs.ErrUpdateFailed
	}
	return stored, nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	query := r.db.Rebind(`DELETE FROM expenses WHERE id = ? AND user_id = ?`)
	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete expense %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete expense %s: %w", id, err)
	}
	return n > 0, nil
}
