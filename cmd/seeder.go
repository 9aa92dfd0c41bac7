package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/frahmantamala/project-expenses/internal/core/cache"
	"github.com/frahmantamala/project-expenses/internal/core/money"
	"github.com/frahmantamala/project-expenses/internal/expense"
	expensePostgres "github.com/frahmantamala/project-expenses/internal/expense/postgres"
	"github.com/frahmantamala/project-expenses/internal/product"
	productPostgres "github.com/frahmantamala/project-expenses/internal/product/postgres"
	"github.com/frahmantamala/project-expenses/internal/project"
	projectPostgres "github.com/frahmantamala/project-expenses/internal/project/postgres"
	"github.com/frahmantamala/project-expenses/internal/user"
	userPostgres "github.com/frahmantamala/project-expenses/internal/user/postgres"
	"github.com/frahmantamala/project-expenses/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample users, projects, expenses and products for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gormDB, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		ctx := context.Background()
		if clearData {
			if err := clearTables(gormDB); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		var users int64
		if err := gormDB.Table("users").Count(&users).Error; err != nil {
			log.Fatalf("failed to count users: %v", err)
		}
		if users > 0 {
			fmt.Println("users already present; run with --clear to reseed")
			return
		}

		lg := logger.LoggerWrapper()
		s := seeder{
			users:    user.NewService(userPostgres.NewUserRepository(gormDB), nil, lg),
			projects: project.NewService(projectPostgres.NewProjectRepository(gormDB), nil, lg),
			expenses: expense.NewService(expensePostgres.NewExpenseRepository(db), nil, lg),
			products: product.NewService(productPostgres.NewProductRepository(gormDB), cache.Config{}, nil, lg),
		}
		if err := s.run(ctx); err != nil {
			log.Fatalf("failed to seed: %v", err)
		}
	},
}

func clearTables(db *gorm.DB) error {
	for _, table := range []string{"expenses", "projects", "products", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

type seeder struct {
	users    *user.Service
	projects *project.Service
	expenses *expense.Service
	products *product.Service
}

func (s seeder) run(ctx context.Context) error {
	people := []user.UserRequest{
		{Name: "Fadhil", Email: "fadhil@mail.com", Password: "password"},
		{Name: "Padil", Email: "padil@mail.com", Password: "password"},
	}

	start := time.Now().UTC().AddDate(0, -2, 0)
	for i, req := range people {
		u, err := s.users.CreateUser(ctx, req)
		if err != nil {
			return fmt.Errorf("user %s: %w", req.Email, err)
		}
		fmt.Println("Seeded user:", u.Email)

		p, err := s.projects.CreateProject(ctx, project.ProjectRequest{
			UserID:      u.ID,
			Name:        fmt.Sprintf("Client website %d", i+1),
			ClientName:  "Acme Corp",
			ClientEmail: "billing@acme.example",
			Category:    "development",
			StartDate:   &start,
			Budget:      money.MustParse("15000.00"),
		})
		if err != nil {
			return fmt.Errorf("project for %s: %w", u.Email, err)
		}

		for j, category := range []string{"travel", "software", "meals", "hardware"} {
			_, err := s.expenses.CreateExpense(ctx, expense.ExpenseRequest{
				ProjectID:   p.ID,
				UserID:      u.ID,
				Category:    category,
				Description: fmt.Sprintf("%s for %s", category, p.Name),
				Amount:      money.FromInt(int64(25 * (j + 1))),
				ExpenseDate: start.AddDate(0, 0, 7*j),
			})
			if err != nil {
				return fmt.Errorf("expense for %s: %w", u.Email, err)
			}
		}
	}

	catalog := []product.ProductRequest{
		{Name: "Laptop stand", Price: money.MustParse("39.90"), Stock: 25, Category: "hardware", SKU: "HW-STAND-01"},
		{Name: "USB-C dock", Price: money.MustParse("129.00"), Stock: 10, Category: "hardware", SKU: "HW-DOCK-01"},
		{Name: "Design suite seat", Price: money.MustParse("54.99"), Stock: 100, Category: "software", SKU: "SW-DESIGN-01"},
	}
	for _, req := range catalog {
		if _, err := s.products.CreateProduct(ctx, req); err != nil {
			return fmt.Errorf("product %s: %w", req.SKU, err)
		}
	}
	fmt.Printf("Seeded %d products\n", len(catalog))
	return nil
}
