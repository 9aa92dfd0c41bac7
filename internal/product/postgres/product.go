package postgres

import (
	"context"
	"errors"

	productDatamodel "github.com/frahmantamala/project-expenses/internal/core/datamodel/product"
	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// FindPage returns one window of products matching the filters plus the
// total number of matches.
func (r *ProductRepository) FindPage(ctx context.Context, category string, activeOnly bool, page, size int) ([]*productDatamodel.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&productDatamodel.Product{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []*productDatamodel.Product
	err := query.Order("id ASC").Limit(size).Offset(page * size).Find(&products).Error
	return products, total, err
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*productDatamodel.Product, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *ProductRepository) FindBySKU(ctx context.Context, sku string) (*productDatamodel.Product, error) {
	return r.first(ctx, "sku = ?", sku)
}

func (r *ProductRepository) first(ctx context.Context, query string, arg interface{}) (*productDatamodel.Product, error) {
	var p productDatamodel.Product
	err := r.db.WithContext(ctx).Where(query, arg).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *productDatamodel.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProductRepository) Update(ctx context.Context, p *productDatamodel.Product) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&productDatamodel.Product{}).
		Where("id = ?", p.ID).
		Select("name", "description", "price", "stock", "category", "sku", "active", "updated_at").
		Updates(p)
	return res.RowsAffected > 0, res.Error
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&productDatamodel.Product{})
	return res.RowsAffected > 0, res.Error
}
