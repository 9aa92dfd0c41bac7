package expense

import (
	"database/sql"
	"time"

	"github.com/frahmantamala/project-expenses/internal/core/money"
)

// Expense is the persisted expense row.
type Expense struct {
	ID          string       `db:"id"`
	ProjectID   string       `db:"project_id"`
	UserID      string       `db:"user_id"`
	Category    string       `db:"category"`
	Description string       `db:"description"`
	Amount      money.Amount `db:"amount"`
	ExpenseDate time.Time    `db:"expense_date"`
	ReceiptURL  string       `db:"receipt_url"`
	Status      string       `db:"status"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
}

// ExpenseRow is an expense joined with its project and user. The joined
// columns are NULL when the referenced row does not exist.
type ExpenseRow struct {
	Expense

	JoinedProjectID sql.NullString `db:"joined_project_id"`
	ProjectName     sql.NullString `db:"project_name"`
	ClientName      sql.NullString `db:"client_name"`
	ProjectStatus   sql.NullString `db:"project_status"`

	JoinedUserID sql.NullString `db:"joined_user_id"`
	UserName     sql.NullString `db:"user_name"`
	UserEmail    sql.NullString `db:"user_email"`
}
