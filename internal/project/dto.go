package project

import (
	"time"

	errs "github.com/frahmantamala/project-expenses/internal"
	"github.com/frahmantamala/project-expenses/internal/core/common/validation"
	"github.com/frahmantamala/project-expenses/internal/core/money"
)

type ProjectRequest struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	ClientName  string       `json:"clientName"`
	ClientEmail string       `json:"clientEmail"`
	Status      string       `json:"status"`
	Category    string       `json:"category"`
	StartDate   *time.Time   `json:"startDate"`
	EndDate     *time.Time   `json:"endDate"`
	Budget      money.Amount `json:"budget"`
	UserID      string       `json:"userId"`
}

func (dto ProjectRequest) Validate() *errs.AppError {
	v := validation.NewValidator()
	v.Field("userId", dto.UserID).Required().MaxLength(64)
	v.Field("name", dto.Name).Required().MaxLength(200)
	v.Field("description", dto.Description).MaxLength(1000)
	v.Field("clientEmail", dto.ClientEmail).Email()
	v.Field("status", dto.Status).OneOf(Statuses...)
	v.Field("budget", dto.Budget).
		NonNegativeAmount(errs.ErrCodeInvalidAmount).
		MaxAmount(money.Max(14), errs.ErrCodeInvalidAmount)
	v.Field("endDate", dto.EndDate).NotBefore(dto.StartDate, "startDate")
	return v.Validate()
}

type ListResponse struct {
	Projects []Project `json:"projects"`
	Success  bool      `json:"success"`
}

type DetailResponse struct {
	Project *Project `json:"project"`
	Message string   `json:"message,omitempty"`
	Success bool     `json:"success"`
}
