package expense_test

import (
	"context"
	"time"

	"github.com/frahmantamala/project-expenses/internal/core/cache"
	"github.com/frahmantamala/project-expenses/internal/core/events"
	"github.com/frahmantamala/project-expenses/internal/expense"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("CachedRepository", func() {
	var (
		ctx    context.Context
		repo   *mockExpenseRepository
		cached *expense.CachedRepository
		cfg    cache.Config
		u1, u2 expense.Expense
	)

	seed := func(ownerID string, at time.Time) expense.Expense {
		e := expense.NewExpense(validRequest(ownerID), at)
		_, err := repo.Create(ctx, e)
		Expect(err).NotTo(HaveOccurred())
		return e
	}

	BeforeEach(func() {
		ctx = context.Background()
		repo = newMockExpenseRepository()
		cfg = cache.Config{Enabled: true, TTL: time.Minute, Size: 64}
		cached = expense.NewCachedRepository(repo, cfg, expense.InvalidateOwner, quietLogger())

		base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		u1 = seed("u1", base)
		u2 = seed("u2", base.Add(time.Minute))
	})

	It("should serve repeated lookups from cache", func() {
		first, err := cached.FindByID(ctx, u1.ID, "u1")
		Expect(err).NotTo(HaveOccurred())
		second, err := cached.FindByID(ctx, u1.ID, "u1")
		Expect(err).NotTo(HaveOccurred())

		Expect(second).To(Equal(first))
		Expect(repo.count("FindByID")).To(Equal(1))
	})

	It("should key lookups by owner as well as id", func() {
		_, err := cached.FindByID(ctx, u1.ID, "u1")
		Expect(err).NotTo(HaveOccurred())

		other, err := cached.FindByID(ctx, u1.ID, "u2")
		Expect(err).NotTo(HaveOccurred())
		Expect(other).To(BeNil())
		Expect(repo.count("FindByID")).To(Equal(2))
	})

	It("should not cache absent results", func() {
		for i := 0; i < 2; i++ {
			e, err := cached.FindByID(ctx, "exp_missing", "u1")
			Expect(err).NotTo(HaveOccurred())
			Expect(e).To(BeNil())
		}
		Expect(repo.count("FindByID")).To(Equal(2))
	})

	It("should not cache failures", func() {
		repo.failWith = errDatabase
		_, err := cached.FindByOwner(ctx, "u1")
		Expect(err).To(MatchError(errDatabase))

		repo.failWith = nil
		list, err := cached.FindByOwner(ctx, "u1")
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(1))
	})

	It("should keep pages and the full list under separate keys", func() {
		_, err := cached.FindByOwner(ctx, "u1")
		Expect(err).NotTo(HaveOccurred())
		_, err = cached.FindByOwnerPaginated(ctx, "u1", 0, 20)
		Expect(err).NotTo(HaveOccurred())
		_, err = cached.FindByOwnerPaginated(ctx, "u1", 0, 10)
		Expect(err).NotTo(HaveOccurred())
		_, err = cached.FindByOwnerPaginated(ctx, "u1", 0, 20)
		Expect(err).NotTo(HaveOccurred())

		Expect(repo.count("FindByOwner")).To(Equal(1))
		Expect(repo.count("FindByOwnerPaginated")).To(Equal(2))
	})

	It("should hand out copies that callers cannot corrupt", func() {
		list, err := cached.FindByOwner(ctx, "u1")
		Expect(err).NotTo(HaveOccurred())
		list[0].Description = "tampered"

		again, err := cached.FindByOwner(ctx, "u1")
		Expect(err).NotTo(HaveOccurred())
		Expect(again[0].Description).To(Equal(u1.Description))
	})

	Context("with owner invalidation", func() {
		It("should show a new expense in the writer's next listing", func() {
			list, err := cached.FindByOwner(ctx, "u1")
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))

			_, err = cached.Create(ctx, expense.NewExpense(validRequest("u1"), time.Now()))
			Expect(err).NotTo(HaveOccurred())

			list, err = cached.FindByOwner(ctx, "u1")
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(2))
		})

		It("should keep other owners' cached reads", func() {
			_, err := cached.FindByOwner(ctx, "u2")
			Expect(err).NotTo(HaveOccurred())

			_, err = cached.Create(ctx, expense.NewExpense(validRequest("u1"), time.Now()))
			Expect(err).NotTo(HaveOccurred())

			_, err = cached.FindByOwner(ctx, "u2")
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.count("FindByOwner")).To(Equal(1))
		})

		It("should drop a deleted record from the lookup cache", func() {
			_, err := cached.FindByID(ctx, u1.ID, "u1")
			Expect(err).NotTo(HaveOccurred())

			deleted, err := cached.Delete(ctx, u1.ID, "u1")
			Expect(err).NotTo(HaveOccurred())
			Expect(deleted).To(BeTrue())

			e, err := cached.FindByID(ctx, u1.ID, "u1")
			Expect(err).NotTo(HaveOccurred())
			Expect(e).To(BeNil())
		})

		It("should refresh a record after update", func() {
			_, err := cached.FindByID(ctx, u1.ID, "u1")
			Expect(err).NotTo(HaveOccurred())

			revised := u1.Revise(expense.ExpenseRequest{
				ProjectID: u1.ProjectID,
				UserID:    "u1",
				Category:  "meals",
				Amount:    u1.Amount,
			}, time.Now())
			_, err = cached.Update(ctx, revised)
			Expect(err).NotTo(HaveOccurred())

			e, err := cached.FindByID(ctx, u1.ID, "u1")
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Category).To(Equal("meals"))
		})
	})

	Context("with namespace invalidation", func() {
		BeforeEach(func() {
			cached = expense.NewCachedRepository(repo, cfg, expense.InvalidateNamespace, quietLogger())
		})

		It("should evict every owner's reads on any write", func() {
			_, err := cached.FindByOwner(ctx, "u2")
			Expect(err).NotTo(HaveOccurred())
			_, err = cached.FindByID(ctx, u2.ID, "u2")
			Expect(err).NotTo(HaveOccurred())

			_, err = cached.Create(ctx, expense.NewExpense(validRequest("u1"), time.Now()))
			Expect(err).NotTo(HaveOccurred())

			_, err = cached.FindByOwner(ctx, "u2")
			Expect(err).NotTo(HaveOccurred())
			_, err = cached.FindByID(ctx, u2.ID, "u2")
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.count("FindByOwner")).To(Equal(2))
			Expect(repo.count("FindByID")).To(Equal(2))
		})
	})

	It("should purge on related project or user changes", func() {
		bus := events.NewEventBus(quietLogger())
		bus.Subscribe(events.EventTypeProjectChanged, cached.HandleRelatedChange)

		_, err := cached.FindByOwner(ctx, "u1")
		Expect(err).NotTo(HaveOccurred())

		event := events.NewRecordChangedEvent(events.EventTypeProjectChanged, "prj_1", "u1", events.ActionUpdated)
		Expect(bus.PublishSync(ctx, event)).To(Succeed())

		_, err = cached.FindByOwner(ctx, "u1")
		Expect(err).NotTo(HaveOccurred())
		Expect(repo.count("FindByOwner")).To(Equal(2))
	})

	It("should pass through when disabled", func() {
		cached = expense.NewCachedRepository(repo, cache.Config{Enabled: false}, expense.InvalidateOwner, quietLogger())
		for i := 0; i < 3; i++ {
			_, err := cached.FindByOwnerPaginated(ctx, "u1", 0, 20)
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(repo.count("FindByOwnerPaginated")).To(Equal(3))
	})
})
