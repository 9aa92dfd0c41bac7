package expense_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/frahmantamala/project-expenses/internal/expense"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Handler", func() {
	var (
		repo   *mockExpenseRepository
		router chi.Router
	)

	do := func(method, target, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, target, nil)
		} else {
			req = httptest.NewRequest(method, target, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		var decoded map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &decoded)).To(Succeed())
		return rec, decoded
	}

	BeforeEach(func() {
		repo = newMockExpenseRepository()
		service := expense.NewService(repo, nil, quietLogger())
		handler := expense.NewHandler(service)
		handler.Logger = quietLogger()

		router = chi.NewRouter()
		router.Route("/api/expenses", handler.Routes)
	})

	Describe("POST /api/expenses", func() {
		It("should create and echo the expense", func() {
			rec, body := do(http.MethodPost, "/api/expenses", `{
				"projectId": "prj_1",
				"userId": "u1",
				"category": "travel",
				"description": "Taxi",
				"amount": 120.50,
				"expenseDate": "2024-03-01T00:00:00Z"
			}`)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(body["success"]).To(BeTrue())
			Expect(body["message"]).To(Equal("Expense created successfully"))

			created := body["expense"].(map[string]interface{})
			Expect(created["id"]).To(HavePrefix("exp_"))
			Expect(rec.Body.String()).To(ContainSubstring(`"amount":120.50`))
		})

		It("should reject malformed JSON with 400", func() {
			rec, body := do(http.MethodPost, "/api/expenses", `{"amount":`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(body["success"]).To(BeFalse())
			Expect(body["error"]).To(Equal("invalid request body"))
		})

		It("should reject invalid fields with 400 and list them in details", func() {
			rec, body := do(http.MethodPost, "/api/expenses", `{"userId":"u1","amount":-3}`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(body["details"]).To(ContainSubstring("amount must be greater than 0"))
			Expect(body["details"]).To(ContainSubstring("projectId is required"))
		})

		It("should reject amounts the ledger column cannot hold with 400", func() {
			rec, body := do(http.MethodPost, "/api/expenses",
				`{"projectId":"prj_1","userId":"u1","category":"travel","amount":12345678901.00}`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(body["details"]).To(ContainSubstring("amount must not exceed 9999999999.99"))
			Expect(repo.expenses).To(BeEmpty())
		})
	})

	Describe("GET /api/expenses", func() {
		It("should require userId", func() {
			rec, body := do(http.MethodGet, "/api/expenses", "")
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(body["error"]).To(Equal("userId is required"))
		})

		It("should list the caller's expenses", func() {
			_, err := repo.Create(context.Background(), expense.NewExpense(validRequest("u1"), time.Now()))
			Expect(err).NotTo(HaveOccurred())

			rec, body := do(http.MethodGet, "/api/expenses?userId=u1", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(body["success"]).To(BeTrue())
			Expect(body["expenses"]).To(HaveLen(1))
		})

		It("should render an empty list as []", func() {
			rec, _ := do(http.MethodGet, "/api/expenses?userId=nobody", "")
			Expect(rec.Body.String()).To(ContainSubstring(`"expenses":[]`))
		})

		It("should map database failures to 500 with details", func() {
			repo.failWith = errDatabase
			rec, body := do(http.MethodGet, "/api/expenses?userId=u1", "")
			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
			Expect(body["error"]).To(Equal("Failed to fetch expenses"))
			Expect(body["details"]).To(Equal("connection refused"))
		})
	})

	Describe("GET /api/expenses/paginated", func() {
		BeforeEach(func() {
			base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			for i := 0; i < 3; i++ {
				_, err := repo.Create(context.Background(), expense.NewExpense(validRequest("u1"), base.Add(time.Duration(i)*time.Hour)))
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("should default to page 0 and size 20", func() {
			rec, body := do(http.MethodGet, "/api/expenses/paginated?userId=u1", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(body["page"]).To(BeEquivalentTo(0))
			Expect(body["size"]).To(BeEquivalentTo(20))
			Expect(body["totalCount"]).To(BeEquivalentTo(3))
			Expect(body["totalPages"]).To(BeEquivalentTo(1))
			Expect(body["expenses"]).To(HaveLen(3))
		})

		It("should honour explicit page and size", func() {
			_, body := do(http.MethodGet, "/api/expenses/paginated?userId=u1&page=1&size=2", "")
			Expect(body["expenses"]).To(HaveLen(1))
			Expect(body["totalPages"]).To(BeEquivalentTo(2))
		})

		It("should reject a zero size with 400", func() {
			rec, _ := do(http.MethodGet, "/api/expenses/paginated?userId=u1&size=0", "")
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("should reject a non-numeric page with 400", func() {
			rec, _ := do(http.MethodGet, "/api/expenses/paginated?userId=u1&page=abc", "")
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("single record routes", func() {
		var stored expense.Expense

		BeforeEach(func() {
			stored = expense.NewExpense(validRequest("u1"), time.Now())
			_, err := repo.Create(context.Background(), stored)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should return the expense to its owner", func() {
			rec, body := do(http.MethodGet, "/api/expenses/"+stored.ID+"?userId=u1", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(body["expense"].(map[string]interface{})["id"]).To(Equal(stored.ID))
		})

		It("should return 404 to anyone else", func() {
			rec, body := do(http.MethodGet, "/api/expenses/"+stored.ID+"?userId=u2", "")
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(body["success"]).To(BeFalse())
			Expect(body["error"]).To(Equal("Expense not found"))
		})

		It("should update using the id from the path", func() {
			rec, body := do(http.MethodPut, "/api/expenses/"+stored.ID, `{
				"id": "exp_ignored",
				"projectId": "prj_2",
				"userId": "u1",
				"category": "meals",
				"amount": 15
			}`)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(body["message"]).To(Equal("Expense updated successfully"))
			updated := body["expense"].(map[string]interface{})
			Expect(updated["id"]).To(Equal(stored.ID))
			Expect(updated["projectId"]).To(Equal("prj_2"))
		})

		It("should fail an update of a foreign record with 500", func() {
			rec, _ := do(http.MethodPut, "/api/expenses/"+stored.ID, `{
				"projectId": "prj_2",
				"userId": "u2",
				"category": "meals",
				"amount": 15
			}`)
			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		})

		It("should delete for the owner and 404 afterwards", func() {
			rec, body := do(http.MethodDelete, "/api/expenses/"+stored.ID+"?userId=u1", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(body["message"]).To(Equal("Expense deleted successfully"))

			rec, _ = do(http.MethodDelete, "/api/expenses/"+stored.ID+"?userId=u1", "")
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})
})
