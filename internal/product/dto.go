package product

import (
	errs "github.com/frahmantamala/project-expenses/internal"
	"github.com/frahmantamala/project-expenses/internal/core/common/validation"
	"github.com/frahmantamala/project-expenses/internal/core/money"
)

type ProductRequest struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       money.Amount `json:"price"`
	Stock       int          `json:"stock"`
	Category    string       `json:"category"`
	SKU         string       `json:"sku"`
	Active      *bool        `json:"active"`
}

func (dto ProductRequest) Validate() *errs.AppError {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(200)
	v.Field("description", dto.Description).MaxLength(1000)
	v.Field("price", dto.Price).
		NonNegativeAmount(errs.ErrCodeInvalidAmount).
		MaxAmount(money.Max(12), errs.ErrCodeInvalidAmount)
	v.Field("stock", dto.Stock).MinInt(0)
	v.Field("category", dto.Category).MaxLength(100).Code(errs.ErrCodeInvalidCategory)
	v.Field("sku", dto.SKU).Required().MaxLength(64)
	return v.Validate()
}

type PageResponse struct {
	Page
	Success bool `json:"success"`
}

type DetailResponse struct {
	Product *Product `json:"product"`
	Message string   `json:"message,omitempty"`
	Success bool     `json:"success"`
}
