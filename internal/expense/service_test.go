package expense_test

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	errs "github.com/frahmantamala/project-expenses/internal"
	"github.com/frahmantamala/project-expenses/internal/core/events"
	"github.com/frahmantamala/project-expenses/internal/core/ids"
	"github.com/frahmantamala/project-expenses/internal/core/money"
	"github.com/frahmantamala/project-expenses/internal/expense"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func validRequest(ownerID string) expense.ExpenseRequest {
	return expense.ExpenseRequest{
		ProjectID:   "prj_1",
		UserID:      ownerID,
		Category:    "travel",
		Description: "Taxi to client site",
		Amount:      money.MustParse("120.50"),
		ExpenseDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

var _ = Describe("Service", func() {
	var (
		ctx     context.Context
		repo    *mockExpenseRepository
		bus     *events.EventBus
		service *expense.Service
		changes []*events.RecordChangedEvent
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = newMockExpenseRepository()
		bus = events.NewEventBus(quietLogger())
		changes = nil
		bus.Subscribe(events.EventTypeExpenseChanged, func(_ context.Context, e events.Event) error {
			changes = append(changes, e.(*events.RecordChangedEvent))
			return nil
		})
		service = expense.NewService(repo, bus, quietLogger())
	})

	Describe("CreateExpense", func() {
		It("should generate an id and stamp timestamps", func() {
			created, err := service.CreateExpense(ctx, validRequest("u1"))
			Expect(err).NotTo(HaveOccurred())
			Expect(ids.HasPrefix(created.ID, ids.PrefixExpense)).To(BeTrue())
			Expect(created.CreatedAt).NotTo(BeZero())
			Expect(created.UpdatedAt).To(Equal(created.CreatedAt))
			Expect(created.Amount.String()).To(Equal("120.50"))
			Expect(created.Status).To(Equal(expense.StatusPending))
		})

		It("should be readable by its owner afterwards", func() {
			created, err := service.CreateExpense(ctx, validRequest("u1"))
			Expect(err).NotTo(HaveOccurred())

			found, err := service.GetExpense(ctx, created.ID, "u1")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.ID).To(Equal(created.ID))
			Expect(found.Amount.Equal(money.MustParse("120.5"))).To(BeTrue())
		})

		It("should publish a created event", func() {
			created, err := service.CreateExpense(ctx, validRequest("u1"))
			Expect(err).NotTo(HaveOccurred())
			Expect(changes).To(HaveLen(1))
			Expect(changes[0].RecordID).To(Equal(created.ID))
			Expect(changes[0].OwnerID).To(Equal("u1"))
			Expect(changes[0].Action).To(Equal(events.ActionCreated))
		})

		It("should reject a non-positive amount", func() {
			req := validRequest("u1")
			req.Amount = money.Zero()

			_, err := service.CreateExpense(ctx, req)
			appErr, ok := errs.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(errs.ErrorTypeValidation))
			Expect(repo.count("Create")).To(BeZero())
		})

		It("should reject a missing owner", func() {
			req := validRequest("")
			_, err := service.CreateExpense(ctx, req)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("userId"))
		})

		It("should wrap database failures as persistence errors", func() {
			repo.failWith = errDatabase

			_, err := service.CreateExpense(ctx, validRequest("u1"))
			appErr, ok := errs.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(errs.ErrorTypePersistence))
			Expect(stdErrors.Is(err, errDatabase)).To(BeTrue())
		})
	})

	Describe("GetExpense", func() {
		It("should treat a record owned by someone else as not found", func() {
			created, err := service.CreateExpense(ctx, validRequest("u1"))
			Expect(err).NotTo(HaveOccurred())

			_, err = service.GetExpense(ctx, created.ID, "u2")
			Expect(err).To(MatchError(errs.ErrExpenseNotFound))
		})

		It("should require a userId", func() {
			_, err := service.GetExpense(ctx, "exp_1", " ")
			Expect(err).To(MatchError(errs.ErrMissingUserID))
		})
	})

	Describe("ListExpensesPage", func() {
		BeforeEach(func() {
			base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			for i := 0; i < 45; i++ {
				e := expense.NewExpense(validRequest("u1"), base.Add(time.Duration(i)*time.Minute))
				_, err := repo.Create(ctx, e)
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("should compute the window and total pages", func() {
			page, err := service.ListExpensesPage(ctx, "u1", 2, 20)
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Expenses).To(HaveLen(5))
			Expect(page.TotalCount).To(Equal(45))
			Expect(page.TotalPages).To(Equal(3))
		})

		It("should return an empty window past the last page", func() {
			page, err := service.ListExpensesPage(ctx, "u1", 9, 20)
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Expenses).To(BeEmpty())
			Expect(page.TotalCount).To(Equal(45))
		})

		DescribeTable("should reject invalid windows before querying",
			func(page, size int) {
				_, err := service.ListExpensesPage(ctx, "u1", page, size)
				appErr, ok := errs.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(errs.ErrorTypeValidation))
				Expect(repo.count("FindByOwnerPaginated")).To(BeZero())
			},
			Entry("zero size", 0, 0),
			Entry("negative size", 0, -5),
			Entry("negative page", -1, 20),
		)

		It("should accept arbitrarily large sizes", func() {
			page, err := service.ListExpensesPage(ctx, "u1", 0, 10000)
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Expenses).To(HaveLen(45))
			Expect(page.TotalPages).To(Equal(1))
		})
	})

	Describe("ListExpenses", func() {
		It("should return an empty list for an owner with no expenses", func() {
			expenses, err := service.ListExpenses(ctx, "nobody")
			Expect(err).NotTo(HaveOccurred())
			Expect(expenses).NotTo(BeNil())
			Expect(expenses).To(BeEmpty())
		})

		It("should cap the legacy listing at 100 records", func() {
			base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			for i := 0; i < 120; i++ {
				_, err := repo.Create(ctx, expense.NewExpense(validRequest("u1"), base.Add(time.Duration(i)*time.Second)))
				Expect(err).NotTo(HaveOccurred())
			}

			expenses, err := service.ListExpenses(ctx, "u1")
			Expect(err).NotTo(HaveOccurred())
			Expect(expenses).To(HaveLen(expense.LegacyListLimit))
			Expect(expenses[0].CreatedAt).To(Equal(base.Add(119 * time.Second)))
		})
	})

	Describe("UpdateExpense", func() {
		It("should replace the mutable fields and keep the creation time", func() {
			created, err := service.CreateExpense(ctx, validRequest("u1"))
			Expect(err).NotTo(HaveOccurred())

			req := validRequest("u1")
			req.Amount = money.MustParse("99.99")
			req.Status = expense.StatusApproved

			updated, err := service.UpdateExpense(ctx, created.ID, req)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.ID).To(Equal(created.ID))
			Expect(updated.Amount.String()).To(Equal("99.99"))
			Expect(updated.Status).To(Equal(expense.StatusApproved))
			Expect(updated.CreatedAt).To(Equal(created.CreatedAt))
			Expect(changes).To(HaveLen(2))
			Expect(changes[1].Action).To(Equal(events.ActionUpdated))
		})

		It("should fail generically when the caller does not own the record", func() {
			created, err := service.CreateExpense(ctx, validRequest("u1"))
			Expect(err).NotTo(HaveOccurred())

			foreign := validRequest("u2")
			foreign.Category = "hijacked"
			foreign.Amount = money.MustParse("1")
			_, err = service.UpdateExpense(ctx, created.ID, foreign)
			Expect(err).To(MatchError(errs.ErrUpdateFailed))

			appErr, _ := errs.IsAppError(err)
			Expect(appErr.StatusCode).To(Equal(500))

			stored, err := service.GetExpense(ctx, created.ID, "u1")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Category).To(Equal("travel"))
			Expect(stored.Amount.String()).To(Equal("120.50"))
			Expect(stored.UpdatedAt).To(Equal(created.UpdatedAt))
			Expect(changes).To(HaveLen(1))
		})
	})

	Describe("DeleteExpense", func() {
		It("should remove an owned expense", func() {
			created, err := service.CreateExpense(ctx, validRequest("u1"))
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeleteExpense(ctx, created.ID, "u1")).To(Succeed())
			_, err = service.GetExpense(ctx, created.ID, "u1")
			Expect(err).To(MatchError(errs.ErrExpenseNotFound))
		})

		It("should report not found for a foreign or missing record", func() {
			created, err := service.CreateExpense(ctx, validRequest("u1"))
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeleteExpense(ctx, created.ID, "u2")).To(MatchError(errs.ErrExpenseNotFound))
			Expect(service.DeleteExpense(ctx, "exp_missing", "u1")).To(MatchError(errs.ErrExpenseNotFound))
		})
	})

	Describe("subscriber failures", func() {
		It("should not fail a committed write", func() {
			bus.Subscribe(events.EventTypeExpenseChanged, func(context.Context, events.Event) error {
				return fmt.Errorf("audit sink down")
			})

			_, err := service.CreateExpense(ctx, validRequest("u1"))
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
