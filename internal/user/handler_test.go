package user_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	userDatamodel "github.com/frahmantamala/project-expenses/internal/core/datamodel/user"
	"github.com/frahmantamala/project-expenses/internal/core/events"
	"github.com/frahmantamala/project-expenses/internal/transport"
	"github.com/frahmantamala/project-expenses/internal/user"
	userPostgres "github.com/frahmantamala/project-expenses/internal/user/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Suite")
}

var _ = Describe("User Handler Integration", func() {
	var (
		ctx     context.Context
		repo    *userPostgres.UserRepository
		service *user.Service
		router  chi.Router
		changed int
	)

	do := func(method, target, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		var decoded map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &decoded)).To(Succeed())
		return rec, decoded
	}

	create := func(name, email string) string {
		rec, body := do(http.MethodPost, "/api/users", `{"name":"`+name+`","email":"`+email+`","password":"s3cret-pass"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		return body["user"].(map[string]interface{})["id"].(string)
	}

	BeforeEach(func() {
		ctx = context.Background()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&userDatamodel.User{})).To(Succeed())

		changed = 0
		bus := events.NewEventBus(slogger)
		bus.Subscribe(events.EventTypeUserChanged, func(context.Context, events.Event) error {
			changed++
			return nil
		})

		repo = userPostgres.NewUserRepository(db)
		service = user.NewService(repo, bus, slogger).WithBcryptCost(bcrypt.MinCost)
		handler := user.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		router = chi.NewRouter()
		router.Route("/api/users", handler.Routes)
	})

	It("should create a user without exposing the password hash", func() {
		rec, body := do(http.MethodPost, "/api/users", `{"name":"Ada","email":"ada@example.com","password":"s3cret-pass"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).NotTo(ContainSubstring("password"))

		u := body["user"].(map[string]interface{})
		Expect(u["id"]).To(HavePrefix("usr_"))
		Expect(changed).To(Equal(1))

		stored, err := repo.FindByEmail(ctx, "ada@example.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(user.FromDataModel(stored).CheckPassword("s3cret-pass")).To(BeTrue())
		Expect(user.FromDataModel(stored).CheckPassword("wrong")).To(BeFalse())
	})

	It("should reject a duplicate email with 409", func() {
		create("Ada", "ada@example.com")

		rec, body := do(http.MethodPost, "/api/users", `{"name":"Other","email":"ada@example.com"}`)
		Expect(rec.Code).To(Equal(http.StatusConflict))
		Expect(body["error"]).To(Equal("Email is already registered"))
	})

	It("should report a clash caught only by the email index as a conflict", func() {
		create("Ada", "ada@example.com")

		racing := user.NewService(lateEmailCheck{repo}, nil, nil).WithBcryptCost(bcrypt.MinCost)
		_, err := racing.CreateUser(ctx, user.UserRequest{Name: "Other", Email: "ada@example.com", Password: "s3cret-pass"})
		Expect(err).To(MatchError(user.ErrEmailTaken))

		users, err := repo.FindAll(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(users).To(HaveLen(1))
	})

	It("should reject malformed input with 400", func() {
		rec, body := do(http.MethodPost, "/api/users", `{"name":"","email":"nope","password":"short"}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(body["details"]).To(ContainSubstring("name is required"))
		Expect(body["details"]).To(ContainSubstring("email must be a valid email address"))
		Expect(body["details"]).To(ContainSubstring("password must be at least 8 characters"))
	})

	It("should list users by name", func() {
		create("Zed", "zed@example.com")
		create("Ada", "ada@example.com")

		_, body := do(http.MethodGet, "/api/users", "")
		users := body["users"].([]interface{})
		Expect(users).To(HaveLen(2))
		Expect(users[0].(map[string]interface{})["name"]).To(Equal("Ada"))
	})

	It("should update the profile and keep the password when none is given", func() {
		id := create("Ada", "ada@example.com")

		rec, body := do(http.MethodPut, "/api/users/"+id, `{"name":"Ada Lovelace","email":"ada@example.com"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(body["user"].(map[string]interface{})["name"]).To(Equal("Ada Lovelace"))

		stored, err := repo.FindByID(ctx, id)
		Expect(err).NotTo(HaveOccurred())
		Expect(user.FromDataModel(stored).CheckPassword("s3cret-pass")).To(BeTrue())
	})

	It("should return 404 for unknown users", func() {
		rec, _ := do(http.MethodGet, "/api/users/usr_missing", "")
		Expect(rec.Code).To(Equal(http.StatusNotFound))

		rec, _ = do(http.MethodDelete, "/api/users/usr_missing", "")
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("should delete a user", func() {
		id := create("Ada", "ada@example.com")

		rec, body := do(http.MethodDelete, "/api/users/"+id, "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(body["message"]).To(Equal("User deleted successfully"))
		Expect(changed).To(Equal(2))
	})
})

// lateEmailCheck hides existing emails from the pre-insert lookup, as when a
// concurrent create commits between the lookup and the insert.
type lateEmailCheck struct {
	*userPostgres.UserRepository
}

func (lateEmailCheck) FindByEmail(context.Context, string) (*userDatamodel.User, error) {
	return nil, nil
}
