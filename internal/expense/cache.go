package expense

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/project-expenses/internal/core/cache"
	"github.com/frahmantamala/project-expenses/internal/core/events"
)

const (
	EntryNamespace = "expenses"
	ListNamespace  = "expenseList"
)

// InvalidationPolicy selects how much of the cache a write evicts.
type InvalidationPolicy string

const (
	// InvalidateOwner evicts the writer's list entries and the written record.
	InvalidateOwner InvalidationPolicy = "owner"
	// InvalidateNamespace evicts both namespaces on every write.
	InvalidateNamespace InvalidationPolicy = "namespace"
)

type entryKey struct {
	ID    string
	Owner string
}

type listKey struct {
	Owner string
	Page  int
	Size  int
	All   bool
}

type listEntry struct {
	all  []Expense
	page *Page
}

// CachedRepository memoizes reads of the wrapped Repository. Cached values
// are deep-copied on the way out so callers never share them.
type CachedRepository struct {
	next    Repository
	entries *cache.Store[entryKey, *Expense]
	lists   *cache.Store[listKey, listEntry]
	policy  InvalidationPolicy
	logger  *slog.Logger
}

func NewCachedRepository(next Repository, cfg cache.Config, policy InvalidationPolicy, logger *slog.Logger) *CachedRepository {
	if logger == nil {
		logger = slog.Default()
	}
	if policy == "" {
		policy = InvalidateOwner
	}
	return &CachedRepository{
		next:    next,
		entries: cache.New[entryKey, *Expense](EntryNamespace, cfg, logger),
		lists:   cache.New[listKey, listEntry](ListNamespace, cfg, logger),
		policy:  policy,
		logger:  logger,
	}
}

func (c *CachedRepository) FindByID(ctx context.Context, id, ownerID string) (*Expense, error) {
	e, err := c.entries.GetOrLoad(ctx, entryKey{ID: id, Owner: ownerID}, func(ctx context.Context) (*Expense, bool, error) {
		e, err := c.next.FindByID(ctx, id, ownerID)
		return e, e != nil, err
	})
	if err != nil || e == nil {
		return nil, err
	}
	cp := e.clone()
	return &cp, nil
}

func (c *CachedRepository) FindByOwner(ctx context.Context, ownerID string) ([]Expense, error) {
	entry, err := c.lists.GetOrLoad(ctx, listKey{Owner: ownerID, All: true}, func(ctx context.Context) (listEntry, bool, error) {
		all, err := c.next.FindByOwner(ctx, ownerID)
		return listEntry{all: all}, true, err
	})
	if err != nil {
		return nil, err
	}
	return cloneAll(entry.all), nil
}

func (c *CachedRepository) FindByOwnerPaginated(ctx context.Context, ownerID string, page, size int) (*Page, error) {
	key := listKey{Owner: ownerID, Page: page, Size: size}
	entry, err := c.lists.GetOrLoad(ctx, key, func(ctx context.Context) (listEntry, bool, error) {
		p, err := c.next.FindByOwnerPaginated(ctx, ownerID, page, size)
		return listEntry{page: p}, p != nil, err
	})
	if err != nil || entry.page == nil {
		return nil, err
	}
	cp := *entry.page
	cp.Expenses = cloneAll(entry.page.Expenses)
	return &cp, nil
}

func (c *CachedRepository) Create(ctx context.Context, e Expense) (*Expense, error) {
	created, err := c.next.Create(ctx, e)
	if err != nil {
		return nil, err
	}
	c.evict(created.ID, created.UserID)
	return created, nil
}

func (c *CachedRepository) Update(ctx context.Context, e Expense) (*Expense, error) {
	updated, err := c.next.Update(ctx, e)
	if err != nil {
		return nil, err
	}
	c.evict(e.ID, e.UserID)
	return updated, nil
}

func (c *CachedRepository) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	deleted, err := c.next.Delete(ctx, id, ownerID)
	if err != nil {
		return false, err
	}
	if deleted {
		c.evict(id, ownerID)
	}
	return deleted, nil
}

// HandleRelatedChange purges every cached read when a project or user
// changes, since their summaries are embedded in cached expenses.
func (c *CachedRepository) HandleRelatedChange(_ context.Context, event events.Event) error {
	c.logger.Debug("purging expense cache", "event_type", event.EventType(), "event_id", event.EventID())
	c.Purge()
	return nil
}

func (c *CachedRepository) Purge() {
	c.entries.Purge()
	c.lists.Purge()
}

func (c *CachedRepository) Stats() map[string]cache.Stats {
	return map[string]cache.Stats{
		c.entries.Name(): c.entries.Stats(),
		c.lists.Name():   c.lists.Stats(),
	}
}

func (c *CachedRepository) evict(id, ownerID string) {
	if c.policy == InvalidateNamespace {
		c.Purge()
		return
	}
	c.lists.Invalidate(func(k listKey) bool { return k.Owner == ownerID })
	c.entries.Invalidate(func(k entryKey) bool { return k.ID == id && k.Owner == ownerID })
}
