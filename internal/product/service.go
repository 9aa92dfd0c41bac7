package product

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	errs "github.com/frahmantamala/project-expenses/internal"
	"github.com/frahmantamala/project-expenses/internal/core/cache"
	"github.com/frahmantamala/project-expenses/internal/core/common/validation"
	productDatamodel "github.com/frahmantamala/project-expenses/internal/core/datamodel/product"
	"github.com/frahmantamala/project-expenses/internal/core/events"
)

const (
	EntryNamespace = "products"
	ListNamespace  = "productList"
)

type Repository interface {
	FindPage(ctx context.Context, category string, activeOnly bool, page, size int) ([]*productDatamodel.Product, int64, error)
	FindByID(ctx context.Context, id int64) (*productDatamodel.Product, error)
	FindBySKU(ctx context.Context, sku string) (*productDatamodel.Product, error)
	Create(ctx context.Context, p *productDatamodel.Product) error
	Update(ctx context.Context, p *productDatamodel.Product) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// entryKey addresses one product either by id or by sku.
type entryKey struct {
	ID  int64
	SKU string
}

// Service serves catalog reads through a cache. Any write purges both
// namespaces.
type Service struct {
	repo      Repository
	entries   *cache.Store[entryKey, Product]
	lists     *cache.Store[Filter, Page]
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, cacheCfg cache.Config, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		entries:   cache.New[entryKey, Product](EntryNamespace, cacheCfg, logger),
		lists:     cache.New[Filter, Page](ListNamespace, cacheCfg, logger),
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) ListProducts(ctx context.Context, f Filter) (*Page, error) {
	if err := validation.ValidatePage(f.Page, f.Size); err != nil {
		return nil, err
	}

	page, err := s.lists.GetOrLoad(ctx, f, func(ctx context.Context) (Page, bool, error) {
		rows, total, err := s.repo.FindPage(ctx, f.Category, f.ActiveOnly, f.Page, f.Size)
		if err != nil {
			return Page{}, false, err
		}
		products := make([]Product, 0, len(rows))
		for _, row := range rows {
			products = append(products, FromDataModel(row))
		}
		return Page{
			Products:   products,
			TotalCount: int(total),
			Page:       f.Page,
			Size:       f.Size,
			TotalPages: int((total + int64(f.Size) - 1) / int64(f.Size)),
		}, true, nil
	})
	if err != nil {
		s.logger.Error("failed to list products", "error", err)
		return nil, errs.NewPersistenceError("Failed to fetch products", err)
	}

	cp := page
	cp.Products = append([]Product(nil), page.Products...)
	if cp.Products == nil {
		cp.Products = []Product{}
	}
	return &cp, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*Product, error) {
	return s.lookup(ctx, entryKey{ID: id}, func(ctx context.Context) (*productDatamodel.Product, error) {
		return s.repo.FindByID(ctx, id)
	})
}

func (s *Service) GetProductBySKU(ctx context.Context, sku string) (*Product, error) {
	return s.lookup(ctx, entryKey{SKU: sku}, func(ctx context.Context) (*productDatamodel.Product, error) {
		return s.repo.FindBySKU(ctx, sku)
	})
}

func (s *Service) lookup(ctx context.Context, key entryKey, find func(context.Context) (*productDatamodel.Product, error)) (*Product, error) {
	p, err := s.entries.GetOrLoad(ctx, key, func(ctx context.Context) (Product, bool, error) {
		row, err := find(ctx)
		if err != nil || row == nil {
			return Product{}, false, err
		}
		return FromDataModel(row), true, nil
	})
	if err != nil {
		s.logger.Error("failed to get product", "error", err, "id", key.ID, "sku", key.SKU)
		return nil, errs.NewPersistenceError("Failed to fetch product", err)
	}
	if p.ID == 0 {
		return nil, errs.ErrProductNotFound
	}
	return &p, nil
}

func (s *Service) CreateProduct(ctx context.Context, req ProductRequest) (*Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	row := ToDataModel(NewProduct(req, s.now()))
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create product", "error", err, "sku", req.SKU)
		return nil, errs.NewPersistenceError("Failed to create product", err)
	}
	s.afterWrite(ctx, row.ID, events.ActionCreated)

	p := FromDataModel(row)
	s.logger.Info("product created", "product_id", p.ID, "sku", p.SKU)
	return &p, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, req ProductRequest) (*Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to load product for update", "error", err, "product_id", id)
		return nil, errs.NewPersistenceError("Failed to update product", err)
	}
	if row == nil {
		return nil, errs.ErrProductNotFound
	}

	next := FromDataModel(row).Replace(req, s.now())
	matched, err := s.repo.Update(ctx, ToDataModel(next))
	if err != nil {
		s.logger.Error("failed to update product", "error", err, "product_id", id)
		return nil, errs.NewPersistenceError("Failed to update product", err)
	}
	if !matched {
		return nil, errs.ErrUpdateFailed
	}
	s.afterWrite(ctx, id, events.ActionUpdated)

	s.logger.Info("product updated", "product_id", id)
	return &next, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete product", "error", err, "product_id", id)
		return errs.NewPersistenceError("Failed to delete product", err)
	}
	if !deleted {
		return errs.ErrProductNotFound
	}
	s.afterWrite(ctx, id, events.ActionDeleted)

	s.logger.Info("product deleted", "product_id", id)
	return nil
}

func (s *Service) Stats() map[string]cache.Stats {
	return map[string]cache.Stats{
		s.entries.Name(): s.entries.Stats(),
		s.lists.Name():   s.lists.Stats(),
	}
}

func (s *Service) afterWrite(ctx context.Context, id int64, action events.Action) {
	s.entries.Purge()
	s.lists.Purge()

	event := events.NewRecordChangedEvent(events.EventTypeProductChanged, strconv.FormatInt(id, 10), "", action)
	if err := s.publisher.PublishSync(ctx, event); err != nil {
		s.logger.Warn("product change subscriber failed", "error", err, "product_id", id)
	}
}
