package product

import (
	"time"

	productDatamodel "github.com/frahmantamala/project-expenses/internal/core/datamodel/product"
	"github.com/frahmantamala/project-expenses/internal/core/money"
)

const (
	DefaultPage     = 0
	DefaultPageSize = 20
)

// Product is a catalog entry. Values are never mutated; Replace builds the
// successor on update.
type Product struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       money.Amount `json:"price"`
	Stock       int          `json:"stock"`
	Category    string       `json:"category"`
	SKU         string       `json:"sku"`
	Active      bool         `json:"active"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

type Filter struct {
	Category   string
	ActiveOnly bool
	Page       int
	Size       int
}

type Page struct {
	Products   []Product `json:"products"`
	TotalCount int       `json:"totalCount"`
	Page       int       `json:"page"`
	Size       int       `json:"size"`
	TotalPages int       `json:"totalPages"`
}

func NewProduct(req ProductRequest, now time.Time) Product {
	now = now.UTC()
	p := Product{CreatedAt: now}
	return p.Replace(req, now)
}

func (p Product) Replace(req ProductRequest, now time.Time) Product {
	next := p
	next.Name = req.Name
	next.Description = req.Description
	next.Price = req.Price.Normalize()
	next.Stock = req.Stock
	next.Category = req.Category
	next.SKU = req.SKU
	next.Active = true
	if req.Active != nil {
		next.Active = *req.Active
	}
	next.UpdatedAt = now.UTC()
	return next
}

func ToDataModel(p Product) *productDatamodel.Product {
	return &productDatamodel.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		SKU:         p.SKU,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func FromDataModel(p *productDatamodel.Product) Product {
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.Normalize(),
		Stock:       p.Stock,
		Category:    p.Category,
		SKU:         p.SKU,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt.UTC(),
		UpdatedAt:   p.UpdatedAt.UTC(),
	}
}
