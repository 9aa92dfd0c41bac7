package project_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	projectDatamodel "github.com/frahmantamala/project-expenses/internal/core/datamodel/project"
	"github.com/frahmantamala/project-expenses/internal/core/events"
	"github.com/frahmantamala/project-expenses/internal/project"
	projectPostgres "github.com/frahmantamala/project-expenses/internal/project/postgres"
	"github.com/frahmantamala/project-expenses/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestProject(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Project Suite")
}

var _ = Describe("Project Handler Integration", func() {
	var (
		db        *gorm.DB
		router    chi.Router
		published []*events.RecordChangedEvent
	)

	do := func(method, target, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		var decoded map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &decoded)).To(Succeed())
		return rec, decoded
	}

	create := func(ownerID string) string {
		rec, body := do(http.MethodPost, "/api/projects", `{
			"name": "Mobile app",
			"clientName": "Globex",
			"clientEmail": "pm@globex.com",
			"budget": 2500,
			"userId": "`+ownerID+`"
		}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		return body["project"].(map[string]interface{})["id"].(string)
	}

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&projectDatamodel.Project{})).To(Succeed())

		published = nil
		bus := events.NewEventBus(slogger)
		bus.Subscribe(events.EventTypeProjectChanged, func(_ context.Context, e events.Event) error {
			published = append(published, e.(*events.RecordChangedEvent))
			return nil
		})

		service := project.NewService(projectPostgres.NewProjectRepository(db), bus, slogger)
		handler := project.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		router = chi.NewRouter()
		router.Route("/api/projects", handler.Routes)
	})

	It("should create a project with a generated id and default status", func() {
		rec, body := do(http.MethodPost, "/api/projects", `{"name":"Mobile app","userId":"usr_1","budget":10}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(body["message"]).To(Equal("Project created successfully"))

		p := body["project"].(map[string]interface{})
		Expect(p["id"]).To(HavePrefix("prj_"))
		Expect(p["status"]).To(Equal(project.StatusActive))
		Expect(published).To(HaveLen(1))
	})

	It("should reject an invalid email and an end date before the start", func() {
		rec, body := do(http.MethodPost, "/api/projects", `{
			"name": "Mobile app",
			"userId": "usr_1",
			"clientEmail": "not-an-email",
			"startDate": "2024-05-01T00:00:00Z",
			"endDate": "2024-04-01T00:00:00Z"
		}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(body["details"]).To(ContainSubstring("clientEmail"))
		Expect(body["details"]).To(ContainSubstring("endDate cannot be before startDate"))
	})

	It("should list only the caller's projects", func() {
		create("usr_1")
		create("usr_2")

		rec, body := do(http.MethodGet, "/api/projects?userId=usr_1", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(body["projects"]).To(HaveLen(1))
	})

	It("should hide other owners' projects behind 404", func() {
		id := create("usr_1")

		rec, _ := do(http.MethodGet, "/api/projects/"+id+"?userId=usr_2", "")
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("should update an owned project and announce it", func() {
		id := create("usr_1")

		rec, body := do(http.MethodPut, "/api/projects/"+id, `{"name":"Renamed","userId":"usr_1","status":"on_hold"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		p := body["project"].(map[string]interface{})
		Expect(p["name"]).To(Equal("Renamed"))
		Expect(p["status"]).To(Equal("on_hold"))
		Expect(published).To(HaveLen(2))
		Expect(published[1].Action).To(Equal(events.ActionUpdated))
	})

	It("should fail updates of foreign projects with 500", func() {
		id := create("usr_1")

		rec, _ := do(http.MethodPut, "/api/projects/"+id, `{"name":"Hijack","userId":"usr_2"}`)
		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
	})

	It("should delete an owned project", func() {
		id := create("usr_1")

		rec, body := do(http.MethodDelete, "/api/projects/"+id+"?userId=usr_1", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(body["success"]).To(BeTrue())

		rec, _ = do(http.MethodDelete, "/api/projects/"+id+"?userId=usr_1", "")
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})
})
