package postgres_test

import (
	"context"
	"testing"
	"time"

	userDatamodel "github.com/frahmantamala/project-expenses/internal/core/datamodel/user"
	userPostgres "github.com/frahmantamala/project-expenses/internal/user/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestUserPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Postgres Suite")
}

var _ = Describe("User PostgreSQL Repository", func() {
	var (
		ctx  context.Context
		repo *userPostgres.UserRepository
		now  time.Time
	)

	newRow := func(id, name, email string) *userDatamodel.User {
		return &userDatamodel.User{ID: id, Name: name, Email: email, CreatedAt: now, UpdatedAt: now}
	}

	BeforeEach(func() {
		ctx = context.Background()
		now = time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&userDatamodel.User{})).To(Succeed())

		repo = userPostgres.NewUserRepository(db)
	})

	It("should list users by name", func() {
		Expect(repo.Create(ctx, newRow("usr_2", "Zed", "zed@mail.com"))).To(Succeed())
		Expect(repo.Create(ctx, newRow("usr_1", "Ann", "ann@mail.com"))).To(Succeed())

		users, err := repo.FindAll(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(users).To(HaveLen(2))
		Expect(users[0].Name).To(Equal("Ann"))
	})

	It("should find by id and email and return nil when absent", func() {
		Expect(repo.Create(ctx, newRow("usr_1", "Ann", "ann@mail.com"))).To(Succeed())

		found, err := repo.FindByEmail(ctx, "ann@mail.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(found.ID).To(Equal("usr_1"))

		found, err = repo.FindByID(ctx, "usr_missing")
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeNil())
	})

	It("should enforce unique emails", func() {
		Expect(repo.Create(ctx, newRow("usr_1", "Ann", "ann@mail.com"))).To(Succeed())
		Expect(repo.Create(ctx, newRow("usr_2", "Other Ann", "ann@mail.com"))).To(MatchError(userDatamodel.ErrDuplicateEmail))
	})

	It("should report an email clash on update as a duplicate", func() {
		Expect(repo.Create(ctx, newRow("usr_1", "Ann", "ann@mail.com"))).To(Succeed())
		other := newRow("usr_2", "Bob", "bob@mail.com")
		Expect(repo.Create(ctx, other)).To(Succeed())

		other.Email = "ann@mail.com"
		_, err := repo.Update(ctx, other)
		Expect(err).To(MatchError(userDatamodel.ErrDuplicateEmail))
	})

	It("should report whether update and delete matched a row", func() {
		row := newRow("usr_1", "Ann", "ann@mail.com")
		Expect(repo.Create(ctx, row)).To(Succeed())

		row.Name = "Annie"
		matched, err := repo.Update(ctx, row)
		Expect(err).NotTo(HaveOccurred())
		Expect(matched).To(BeTrue())

		found, _ := repo.FindByID(ctx, "usr_1")
		Expect(found.Name).To(Equal("Annie"))

		matched, err = repo.Update(ctx, newRow("usr_9", "Ghost", "ghost@mail.com"))
		Expect(err).NotTo(HaveOccurred())
		Expect(matched).To(BeFalse())

		deleted, err := repo.Delete(ctx, "usr_1")
		Expect(err).NotTo(HaveOccurred())
		Expect(deleted).To(BeTrue())

		deleted, err = repo.Delete(ctx, "usr_1")
		Expect(err).NotTo(HaveOccurred())
		Expect(deleted).To(BeFalse())
	})
})
